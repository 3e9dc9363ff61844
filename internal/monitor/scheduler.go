package monitor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"
)

// Scheduler fires check cycles at fixed wall-clock times in a configured
// timezone.
type Scheduler struct {
	Monitor    *Monitor
	CheckTimes []string // "HH:MM", local to Location
	Location   *time.Location

	// Now is replaceable in tests.
	Now func() time.Time
}

func NewScheduler(m *Monitor, checkTimes []string, timezone string) (*Scheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", timezone, err)
	}
	if len(checkTimes) == 0 {
		return nil, errors.New("scheduler requires at least one check time")
	}
	for _, ct := range checkTimes {
		if _, _, err := parseClock(ct); err != nil {
			return nil, err
		}
	}
	return &Scheduler{Monitor: m, CheckTimes: checkTimes, Location: loc, Now: time.Now}, nil
}

// NextRun returns the earliest configured check time after now.
func (s *Scheduler) NextRun(now time.Time) time.Time {
	local := now.In(s.Location)
	var candidates []time.Time
	for _, ct := range s.CheckTimes {
		h, min, _ := parseClock(ct)
		at := time.Date(local.Year(), local.Month(), local.Day(), h, min, 0, 0, s.Location)
		if !at.After(local) {
			at = at.AddDate(0, 0, 1)
		}
		candidates = append(candidates, at)
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Before(candidates[j]) })
	return candidates[0]
}

// Run blocks until ctx is done, firing a check at each scheduled time. A
// cycle still running when the next slot arrives is skipped, not queued.
func (s *Scheduler) Run(ctx context.Context) {
	log.Printf("[INFO] scheduler starting, check times %v (%s)", s.CheckTimes, s.Location)
	for {
		next := s.NextRun(s.Now())
		wait := next.Sub(s.Now())
		log.Printf("[INFO] next check at %s (in %s)", next.Format(time.RFC3339), wait.Round(time.Second))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Printf("[INFO] scheduler stopping: %v", ctx.Err())
			return
		case <-timer.C:
			if _, err := s.Monitor.RunCheck(ctx); err != nil {
				if errors.Is(err, ErrCheckInProgress) {
					log.Printf("[WARN] scheduled check skipped, previous still running")
				} else if !errors.Is(err, context.Canceled) {
					log.Printf("[WARN] scheduled check failed: %v", err)
				}
			}
		}
	}
}

func parseClock(v string) (hour, minute int, err error) {
	if _, perr := fmt.Sscanf(v, "%d:%d", &hour, &minute); perr != nil {
		return 0, 0, fmt.Errorf("invalid check time %q: %w", v, perr)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid check time %q", v)
	}
	return hour, minute, nil
}
