package aggregate

import (
	"time"

	"github.com/yourorg/mls-monitor/internal/listing"
)

// Merge folds incoming listings into the persisted set keyed by listing id.
// Unseen ids are inserted with first_seen stamped; for known ids, fields are
// merged so that a populated value is never erased: an incoming value lands
// only where the stored field is still empty. Id and first_seen are immutable
// after creation and last_updated always advances to now.
func Merge(incoming []listing.Listing, existing map[string]listing.Listing, now time.Time) map[string]listing.Listing {
	merged := make(map[string]listing.Listing, len(existing)+len(incoming))
	for id, l := range existing {
		merged[id] = l
	}

	for _, nl := range incoming {
		cur, ok := merged[nl.ID]
		if !ok {
			if nl.FirstSeen.IsZero() {
				nl.FirstSeen = now
			}
			nl.LastUpdated = now
			merged[nl.ID] = nl
			continue
		}
		merged[nl.ID] = mergeListing(cur, nl, now)
	}

	return merged
}

func mergeListing(existing, incoming listing.Listing, now time.Time) listing.Listing {
	out := existing

	fillStr(&out.Address, incoming.Address)
	fillStr(&out.City, incoming.City)
	fillStr(&out.State, incoming.State)
	fillStr(&out.Zipcode, incoming.Zipcode)
	fillStr(&out.PropertyType, incoming.PropertyType)
	fillStr(&out.Status, incoming.Status)
	fillStr(&out.ListingURL, incoming.ListingURL)
	fillStr(&out.PhotoURL, incoming.PhotoURL)
	fillStr(&out.MLSNumber, incoming.MLSNumber)
	fillStr(&out.Description, incoming.Description)
	fillStr(&out.SourceAPI, incoming.SourceAPI)

	fillInt(&out.Bedrooms, incoming.Bedrooms)
	fillFloat(&out.Bathrooms, incoming.Bathrooms)
	fillInt(&out.Sqft, incoming.Sqft)
	fillInt(&out.LotSizeSqft, incoming.LotSizeSqft)
	fillInt(&out.YearBuilt, incoming.YearBuilt)
	fillInt(&out.HOAFee, incoming.HOAFee)
	fillInt(&out.ParkingSpaces, incoming.ParkingSpaces)
	fillFloat(&out.Latitude, incoming.Latitude)
	fillFloat(&out.Longitude, incoming.Longitude)

	// Price is required on every record, so a stored price is final here;
	// price movement is surfaced by the comparator, not the merge.
	out.LastUpdated = now
	return out
}

func fillStr(dst *string, v string) {
	if *dst == "" && v != "" {
		*dst = v
	}
}

func fillInt(dst **int, v *int) {
	if *dst == nil && v != nil {
		*dst = v
	}
}

func fillFloat(dst **float64, v *float64) {
	if *dst == nil && v != nil {
		*dst = v
	}
}
