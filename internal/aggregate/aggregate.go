// Package aggregate reconciles raw listings from multiple providers into a
// deduplicated set and merges resolved results into the persisted state.
package aggregate

import (
	"log"
	"sort"

	"github.com/yourorg/mls-monitor/internal/canon"
	"github.com/yourorg/mls-monitor/internal/listing"
)

// Dedupe flattens listings from all sources, groups them by normalized
// address+zip identity, and keeps exactly one record per group: the one with
// the highest completeness score, first encountered winning ties. Malformed
// records are skipped and counted, never fatal. The second return value is
// the number of duplicates removed.
//
// Output order is deterministic for a given input: sources are visited in
// sorted order and groups emit in first-encountered order.
func Dedupe(bySource map[string][]listing.Listing) ([]listing.Listing, int) {
	sources := make([]string, 0, len(bySource))
	for src := range bySource {
		sources = append(sources, src)
	}
	sort.Strings(sources)

	var all []listing.Listing
	skipped := 0
	for _, src := range sources {
		for _, l := range bySource[src] {
			if err := l.Validate(); err != nil {
				log.Printf("[WARN] skipping malformed listing from %s: %v", src, err)
				skipped++
				continue
			}
			all = append(all, l)
		}
	}
	if skipped > 0 {
		log.Printf("[WARN] skipped %d malformed listing(s)", skipped)
	}
	log.Printf("[INFO] aggregating %d listings from %d source group(s)", len(all), len(sources))

	grouped := make(map[string][]listing.Listing)
	var order []string
	for _, l := range all {
		key := canon.ListingKey(l)
		if _, seen := grouped[key]; !seen {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], l)
	}

	deduped := make([]listing.Listing, 0, len(order))
	removed := 0
	for _, key := range order {
		group := grouped[key]
		if len(group) == 1 {
			deduped = append(deduped, group[0])
			continue
		}
		deduped = append(deduped, selectBest(group))
		removed += len(group) - 1
	}

	log.Printf("[INFO] deduplicated %d listings -> %d unique (%d duplicates removed)",
		len(all), len(deduped), removed)
	return deduped, removed
}

// selectBest picks the most complete record in a duplicate group. Only a
// strictly higher score displaces the current pick, so the first-encountered
// record wins ties.
func selectBest(group []listing.Listing) listing.Listing {
	best := group[0]
	bestScore := Score(best)
	for _, cand := range group[1:] {
		if s := Score(cand); s > bestScore {
			best, bestScore = cand, s
		}
	}
	return best
}
