package listing

import "strings"

// Normalized property type categories.
const (
	TypeSingleFamily = "single_family"
	TypeMultiFamily  = "multi_family"
	TypeCondo        = "condo"
	TypeApartment    = "apartment"
)

// NormalizePropertyType maps free-text source categories onto the closed set
// used for filtering. Unrecognized text passes through unchanged.
func NormalizePropertyType(raw string) string {
	lower := strings.ToLower(raw)
	switch {
	case containsAny(lower, "single", "detached", "sfr"):
		return TypeSingleFamily
	case containsAny(lower, "multi", "duplex", "triplex", "fourplex"):
		return TypeMultiFamily
	case containsAny(lower, "condo", "townhouse"):
		return TypeCondo
	case strings.Contains(lower, "apartment"):
		return TypeApartment
	default:
		return raw
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
