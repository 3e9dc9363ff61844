// Package diff compares the current listing set against the previously
// persisted one: new arrivals, recent removals, price moves, and status
// transitions. All queries are pure; results sort by listing id so a given
// input always produces the same output.
package diff

import (
	"log"
	"math"
	"sort"
	"time"

	"github.com/yourorg/mls-monitor/internal/listing"
)

// Defaults applied by Summary.
const (
	DefaultRemovedWindowDays = 3
	DefaultMinPriceChangePct = 5.0
)

// PriceChange records a reportable price move for a listing present in both
// sets.
type PriceChange struct {
	Listing  listing.Listing
	OldPrice int
	NewPrice int
}

// StatusChange records a status transition for a listing present in both
// sets.
type StatusChange struct {
	Listing   listing.Listing
	OldStatus string
	NewStatus string
}

// Summary counts one cycle's changes.
type Summary struct {
	TotalCurrent  int `json:"total_current"`
	TotalPrevious int `json:"total_previous"`
	NewCount      int `json:"new_count"`
	RemovedCount  int `json:"removed_count"`
	PriceChanges  int `json:"price_changes_count"`
	StatusChanges int `json:"status_changes_count"`
}

// Comparator evaluates listing set differences. Now supplies the evaluation
// time for the removal recency window and is replaceable in tests.
type Comparator struct {
	Now func() time.Time
}

// New returns a Comparator using wall-clock time.
func New() *Comparator {
	return &Comparator{Now: time.Now}
}

// FindNew returns listings whose id appears in current but not in previous,
// sorted by id.
func (c *Comparator) FindNew(current, previous map[string]listing.Listing) []listing.Listing {
	var out []listing.Listing
	for id, l := range current {
		if _, ok := previous[id]; !ok {
			out = append(out, l)
		}
	}
	sortByID(out)
	log.Printf("[INFO] found %d new listings (current: %d, previous: %d)",
		len(out), len(current), len(previous))
	return out
}

// FindRemoved returns listings whose id appears in previous but not in
// current, restricted to entries last updated within daysThreshold days of
// evaluation time. Older absences are treated as stale and stay silent; they
// were likely gone and reported (or aged out) before.
func (c *Comparator) FindRemoved(current, previous map[string]listing.Listing, daysThreshold int) []listing.Listing {
	cutoff := c.Now().Add(-time.Duration(daysThreshold) * 24 * time.Hour)

	var out []listing.Listing
	for id, prev := range previous {
		if _, ok := current[id]; ok {
			continue
		}
		if prev.LastUpdated.Before(cutoff) {
			continue
		}
		out = append(out, prev)
	}
	sortByID(out)
	return out
}

// FindPriceChanges returns listings present in both sets whose price moved by
// at least minChangePct percent of the old price. A zero old price is not
// comparable and is skipped.
func (c *Comparator) FindPriceChanges(current, previous map[string]listing.Listing, minChangePct float64) []PriceChange {
	var out []PriceChange
	for id, cur := range current {
		prev, ok := previous[id]
		if !ok {
			continue
		}
		oldPrice, newPrice := prev.Price, cur.Price
		if oldPrice == newPrice || oldPrice == 0 {
			continue
		}
		changePct := math.Abs(float64(newPrice-oldPrice) / float64(oldPrice) * 100)
		if changePct < minChangePct {
			continue
		}
		out = append(out, PriceChange{Listing: cur, OldPrice: oldPrice, NewPrice: newPrice})
		log.Printf("[INFO] price change for %s: $%d -> $%d (%.1f%%)",
			cur.Address, oldPrice, newPrice, changePct)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Listing.ID < out[j].Listing.ID })
	return out
}

// FindStatusChanges returns listings present in both sets whose status
// string differs.
func (c *Comparator) FindStatusChanges(current, previous map[string]listing.Listing) []StatusChange {
	var out []StatusChange
	for id, cur := range current {
		prev, ok := previous[id]
		if !ok || cur.Status == prev.Status {
			continue
		}
		out = append(out, StatusChange{Listing: cur, OldStatus: prev.Status, NewStatus: cur.Status})
		log.Printf("[INFO] status change for %s: %s -> %s", cur.Address, prev.Status, cur.Status)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Listing.ID < out[j].Listing.ID })
	return out
}

// Summarize runs the four queries with default thresholds and aggregates the
// counts.
func (c *Comparator) Summarize(current, previous map[string]listing.Listing) Summary {
	return Summary{
		TotalCurrent:  len(current),
		TotalPrevious: len(previous),
		NewCount:      len(c.FindNew(current, previous)),
		RemovedCount:  len(c.FindRemoved(current, previous, DefaultRemovedWindowDays)),
		PriceChanges:  len(c.FindPriceChanges(current, previous, DefaultMinPriceChangePct)),
		StatusChanges: len(c.FindStatusChanges(current, previous)),
	}
}

func sortByID(ls []listing.Listing) {
	sort.Slice(ls, func(i, j int) bool { return ls[i].ID < ls[j].ID })
}
