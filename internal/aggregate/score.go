package aggregate

import "github.com/yourorg/mls-monitor/internal/listing"

// Score ranks a record's data completeness. The value only matters relative
// to other records in the same duplicate group; lot size carries the most
// weight because it is the primary filter criterion downstream.
func Score(l listing.Listing) int {
	score := 0

	if l.LotSizeSqft != nil {
		score += 10
	}
	if l.MLSNumber != "" {
		score += 8
	}
	if l.ListingURL != "" {
		score += 5
	}
	if l.PhotoURL != "" {
		score += 3
	}

	if l.Bedrooms != nil {
		score += 2
	}
	if l.Bathrooms != nil {
		score += 2
	}
	if l.Sqft != nil {
		score += 2
	}
	if l.YearBuilt != nil {
		score++
	}
	if l.Description != "" {
		score++
	}
	if l.City != "" {
		score++
	}

	return score
}
