// Package monitor drives the check cycle: fetch, aggregate, filter, diff,
// persist, notify.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yourorg/mls-monitor/internal/aggregate"
	"github.com/yourorg/mls-monitor/internal/diff"
	"github.com/yourorg/mls-monitor/internal/events"
	"github.com/yourorg/mls-monitor/internal/fetch"
	"github.com/yourorg/mls-monitor/internal/filter"
	"github.com/yourorg/mls-monitor/internal/listing"
	"github.com/yourorg/mls-monitor/internal/store"
)

// ErrCheckInProgress is returned when a check is requested while another is
// still running.
var ErrCheckInProgress = errors.New("check already in progress")

const runLockTTL = 15 * time.Minute

// Locker is the optional cross-process guard; nil means single-process
// operation where the in-memory mutex is enough.
type Locker interface {
	AcquireRunLock(ctx context.Context, runID string, ttl time.Duration) (bool, error)
	ReleaseRunLock(ctx context.Context, runID string) error
}

// Archiver records finished cycles; nil disables archiving.
type Archiver interface {
	RecordCycle(ctx context.Context, runID string, startedAt time.Time, summary diff.Summary, listings []listing.Listing) error
}

// ErrorNotifier delivers operator alerts when a cycle aborts.
type ErrorNotifier interface {
	SendError(ctx context.Context, message string) error
}

// Result is what one completed check cycle produced.
type Result struct {
	RunID     string    `json:"run_id"`
	StartedAt time.Time `json:"started_at"`
	Duration  string    `json:"duration"`

	Summary       diff.Summary        `json:"summary"`
	NewListings   []listing.Listing   `json:"new_listings,omitempty"`
	Removed       []listing.Listing   `json:"removed_listings,omitempty"`
	PriceChanges  []diff.PriceChange  `json:"price_changes,omitempty"`
	StatusChanges []diff.StatusChange `json:"status_changes,omitempty"`

	DuplicatesRemoved int `json:"duplicates_removed"`
	FilteredOut       int `json:"filtered_out"`
}

// Status is the monitor's observable state for the management API.
type Status struct {
	Running     bool          `json:"running"`
	LastRunID   string        `json:"last_run_id,omitempty"`
	LastStarted *time.Time    `json:"last_started,omitempty"`
	LastError   string        `json:"last_error,omitempty"`
	LastSummary *diff.Summary `json:"last_summary,omitempty"`
}

type Monitor struct {
	Store         *store.Store
	Router        *fetch.Router
	Comparator    *diff.Comparator
	Filters       filter.Config
	PropertyTypes []string
	Zipcodes      []string

	Pub      events.Publisher
	Notifier ErrorNotifier
	Archive  Archiver
	Lock     Locker

	RemovedWindowDays int
	MinPriceChangePct float64

	Now func() time.Time

	runMu sync.Mutex // held for the duration of a cycle

	mu     sync.Mutex // guards status
	status Status
}

func New(st *store.Store, router *fetch.Router, filters filter.Config, propertyTypes, zipcodes []string) *Monitor {
	return &Monitor{
		Store:             st,
		Router:            router,
		Comparator:        diff.New(),
		Filters:           filters,
		PropertyTypes:     propertyTypes,
		Zipcodes:          zipcodes,
		RemovedWindowDays: diff.DefaultRemovedWindowDays,
		MinPriceChangePct: diff.DefaultMinPriceChangePct,
		Now:               time.Now,
	}
}

// RunCheck executes one cycle synchronously. It returns ErrCheckInProgress
// if another cycle holds the lock.
func (m *Monitor) RunCheck(ctx context.Context) (*Result, error) {
	if !m.runMu.TryLock() {
		return nil, ErrCheckInProgress
	}
	defer m.runMu.Unlock()
	return m.execute(ctx)
}

// StartCheck launches a cycle in the background and returns its run id. It
// returns ErrCheckInProgress if another cycle holds the lock.
func (m *Monitor) StartCheck() (string, error) {
	if !m.runMu.TryLock() {
		return "", ErrCheckInProgress
	}
	runID := uuid.NewString()
	go func() {
		defer m.runMu.Unlock()
		if _, err := m.executeRun(context.Background(), runID); err != nil {
			log.Printf("[WARN] check run=%s failed: %v", runID, err)
		}
	}()
	return runID, nil
}

func (m *Monitor) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *Monitor) execute(ctx context.Context) (*Result, error) {
	return m.executeRun(ctx, uuid.NewString())
}

// executeRun assumes runMu is held by the caller.
func (m *Monitor) executeRun(ctx context.Context, runID string) (*Result, error) {
	if m.Lock != nil {
		ok, err := m.Lock.AcquireRunLock(ctx, runID, runLockTTL)
		if err != nil {
			log.Printf("[WARN] run=%s acquiring distributed lock: %v", runID, err)
		} else if !ok {
			return nil, ErrCheckInProgress
		} else {
			defer func() {
				if err := m.Lock.ReleaseRunLock(context.Background(), runID); err != nil {
					log.Printf("[WARN] run=%s releasing distributed lock: %v", runID, err)
				}
			}()
		}
	}

	startedAt := m.Now()
	m.setRunning(runID, startedAt)
	res, err := m.runCycle(ctx, runID, startedAt)
	m.setFinished(res, err)
	if err != nil {
		m.notifyError(runID, err)
	}
	return res, err
}

func (m *Monitor) runCycle(ctx context.Context, runID string, startedAt time.Time) (*Result, error) {
	log.Printf("[INFO] run=%s starting check across %d zipcodes", runID, len(m.Zipcodes))

	previous, err := m.Store.LoadListings()
	if err != nil {
		// never overwrite a store we could not read
		return nil, fmt.Errorf("loading persisted listings: %w", err)
	}

	q := fetch.Query{
		PropertyTypes: m.PropertyTypes,
		MinPrice:      m.Filters.MinPrice,
		MaxPrice:      m.Filters.MaxPrice,
	}
	byZip := m.Router.FetchAllZipcodes(ctx, m.Zipcodes, q)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	deduped, dupes := aggregate.Dedupe(byZip)
	kept := filter.Apply(deduped, m.Filters, m.PropertyTypes)
	filteredOut := len(deduped) - len(kept)
	log.Printf("[INFO] run=%s aggregated=%d kept=%d (%s)", runID, len(deduped), len(kept), m.Filters.Summary())

	current := make(map[string]listing.Listing, len(kept))
	for _, l := range kept {
		current[l.ID] = l
	}

	newOnes := m.Comparator.FindNew(current, previous)
	removed := m.Comparator.FindRemoved(current, previous, m.RemovedWindowDays)
	priceChanges := m.Comparator.FindPriceChanges(current, previous, m.MinPriceChangePct)
	statusChanges := m.Comparator.FindStatusChanges(current, previous)
	summary := m.Comparator.Summarize(current, previous)

	merged := aggregate.Merge(kept, previous, m.Now())
	if err := m.Store.SaveListings(merged); err != nil {
		return nil, fmt.Errorf("saving listings: %w", err)
	}
	if _, err := m.Store.Backup(store.DefaultBackupRetentionDays); err != nil {
		log.Printf("[WARN] run=%s backup failed: %v", runID, err)
	}

	res := &Result{
		RunID:             runID,
		StartedAt:         startedAt,
		Duration:          m.Now().Sub(startedAt).String(),
		Summary:           summary,
		NewListings:       newOnes,
		Removed:           removed,
		PriceChanges:      priceChanges,
		StatusChanges:     statusChanges,
		DuplicatesRemoved: dupes,
		FilteredOut:       filteredOut,
	}

	if m.Archive != nil {
		if err := m.Archive.RecordCycle(ctx, runID, startedAt, summary, kept); err != nil {
			log.Printf("[WARN] run=%s archiving cycle: %v", runID, err)
		}
	}
	if m.Pub != nil && len(newOnes) > 0 {
		m.Pub.PublishNewListings(ctx, events.NewListings{RunID: runID, Listings: newOnes})
	}
	m.Router.QuotaHealthy()

	log.Printf("[INFO] run=%s done new=%d removed=%d price_changes=%d status_changes=%d total=%d",
		runID, summary.NewCount, summary.RemovedCount, summary.PriceChanges, summary.StatusChanges, summary.TotalCurrent)
	return res, nil
}

func (m *Monitor) setRunning(runID string, startedAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status.Running = true
	m.status.LastRunID = runID
	m.status.LastStarted = &startedAt
	m.status.LastError = ""
}

func (m *Monitor) setFinished(res *Result, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status.Running = false
	if err != nil {
		m.status.LastError = err.Error()
		return
	}
	if res != nil {
		s := res.Summary
		m.status.LastSummary = &s
	}
}

func (m *Monitor) notifyError(runID string, err error) {
	if m.Notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	msg := fmt.Sprintf("check run %s failed: %v", runID, err)
	if nerr := m.Notifier.SendError(ctx, msg); nerr != nil {
		log.Printf("[WARN] run=%s error notification failed: %v", runID, nerr)
	}
}
