package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"
)

// Quota tracks one provider's monthly call budget. Used counts every call
// attempt, successful or not.
type Quota struct {
	Used      int       `json:"used"`
	Limit     int       `json:"limit"`
	ResetDate time.Time `json:"reset_date"`
}

// Remaining returns the calls left in the current month.
func (q Quota) Remaining() int {
	if q.Limit <= q.Used {
		return 0
	}
	return q.Limit - q.Used
}

// LoadQuotas reads the quota file; absent means no providers seeded yet.
func (s *Store) LoadQuotas() (map[string]Quota, error) {
	s.quotaMu.Lock()
	defer s.quotaMu.Unlock()
	return s.loadQuotasLocked()
}

// EnsureQuota seeds a provider's quota record when missing, anchored to the
// start of the current month.
func (s *Store) EnsureQuota(name string, limit int, now time.Time) error {
	s.quotaMu.Lock()
	defer s.quotaMu.Unlock()

	quotas, err := s.loadQuotasLocked()
	if err != nil {
		return err
	}
	if _, ok := quotas[name]; ok {
		return nil
	}
	quotas[name] = Quota{Used: 0, Limit: limit, ResetDate: monthStart(now)}
	return s.saveQuotasLocked(quotas)
}

// IncrementQuota bumps a provider's used count by n. Unknown providers are
// ignored.
func (s *Store) IncrementQuota(name string, n int) error {
	s.quotaMu.Lock()
	defer s.quotaMu.Unlock()

	quotas, err := s.loadQuotasLocked()
	if err != nil {
		return err
	}
	q, ok := quotas[name]
	if !ok {
		return nil
	}
	q.Used += n
	quotas[name] = q
	log.Printf("[INFO] %s quota: %d/%d", name, q.Used, q.Limit)
	return s.saveQuotasLocked(quotas)
}

// ResetQuotasIfNeeded zeroes usage for providers whose reset date predates
// the current month.
func (s *Store) ResetQuotasIfNeeded(now time.Time) error {
	s.quotaMu.Lock()
	defer s.quotaMu.Unlock()

	quotas, err := s.loadQuotasLocked()
	if err != nil {
		return err
	}
	start := monthStart(now)
	changed := false
	for name, q := range quotas {
		if !q.ResetDate.Before(start) {
			continue
		}
		q.Used = 0
		q.ResetDate = start
		quotas[name] = q
		changed = true
		log.Printf("[INFO] reset %s quota for new month", name)
	}
	if !changed {
		return nil
	}
	return s.saveQuotasLocked(quotas)
}

func (s *Store) loadQuotasLocked() (map[string]Quota, error) {
	b, err := os.ReadFile(s.quotaPath)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]Quota{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read quota file: %w", err)
	}
	var quotas map[string]Quota
	if err := json.Unmarshal(b, &quotas); err != nil {
		return nil, fmt.Errorf("parse quota file: %w", err)
	}
	return quotas, nil
}

func (s *Store) saveQuotasLocked(quotas map[string]Quota) error {
	b, err := json.MarshalIndent(quotas, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal quotas: %w", err)
	}
	if err := writeFileAtomic(s.quotaPath, b); err != nil {
		return fmt.Errorf("write quota file: %w", err)
	}
	return nil
}

func monthStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}
