// Package canon computes canonical matching keys for listings so that
// near-duplicate records from different providers group together.
package canon

import (
	"strings"

	"github.com/yourorg/mls-monitor/internal/listing"
)

// priceTolerance is the absolute price difference below which two records for
// the same normalized address are still treated as one property.
const priceTolerance = 1000

// Suffix replacements are applied in order; each collapses a spelled-out
// street suffix onto its abbreviation.
var suffixRepl = []struct{ from, to string }{
	{" street", " st"},
	{" avenue", " ave"},
	{" road", " rd"},
	{" drive", " dr"},
	{" boulevard", " blvd"},
}

// Key returns the grouping key for a listing's address and zip. Two addresses
// that differ only in case, suffix spelling, or punctuation yield the same
// key. Pure and deterministic.
func Key(address, zipcode string) string {
	return normalizeAddress(address) + "|" + strings.TrimSpace(zipcode)
}

// ListingKey is Key applied to a listing record.
func ListingKey(l listing.Listing) string {
	return Key(l.Address, l.Zipcode)
}

// SameProperty reports whether two records likely describe the same physical
// property: matching normalized address, exact zip, and prices within
// tolerance. This is the real-world identity used for deduplication; it is
// deliberately distinct from storage identity, which is exact listing id.
func SameProperty(a, b listing.Listing) bool {
	if normalizeAddress(a.Address) != normalizeAddress(b.Address) {
		return false
	}
	if strings.TrimSpace(a.Zipcode) != strings.TrimSpace(b.Zipcode) {
		return false
	}
	diff := a.Price - b.Price
	if diff < 0 {
		diff = -diff
	}
	return diff < priceTolerance
}

func normalizeAddress(address string) string {
	a := strings.ToLower(strings.TrimSpace(address))
	for _, r := range suffixRepl {
		a = strings.ReplaceAll(a, r.from, r.to)
	}
	a = strings.ReplaceAll(a, ",", "")
	a = strings.ReplaceAll(a, ".", "")
	return collapseSpaces(a)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
