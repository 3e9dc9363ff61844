// Package listing defines the property record shared across providers,
// aggregation, and persistence.
package listing

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Listing statuses as reported by providers.
const (
	StatusActive  = "active"
	StatusPending = "pending"
	StatusSold    = "sold"
)

// Listing is a single property record. Optional numeric attributes are
// pointers: absence means the source did not report the value, which is
// distinct from a reported zero.
type Listing struct {
	ID      string `json:"listing_id"`
	Address string `json:"address"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zipcode string `json:"zipcode"`

	Price int `json:"price"`

	Bedrooms      *int     `json:"bedrooms,omitempty"`
	Bathrooms     *float64 `json:"bathrooms,omitempty"`
	Sqft          *int     `json:"sqft,omitempty"`
	LotSizeSqft   *int     `json:"lot_size_sqft,omitempty"`
	YearBuilt     *int     `json:"year_built,omitempty"`
	HOAFee        *int     `json:"hoa_fee,omitempty"`
	ParkingSpaces *int     `json:"parking_spaces,omitempty"`

	PropertyType string `json:"property_type,omitempty"`
	Status       string `json:"status"`

	ListingURL  string `json:"listing_url,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty"`
	MLSNumber   string `json:"mls_number,omitempty"`
	Description string `json:"description,omitempty"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	SourceAPI string `json:"source_api"`

	FirstSeen   time.Time `json:"first_seen"`
	LastUpdated time.Time `json:"last_updated"`
}

// Validate reports whether the record carries the minimum data the pipeline
// needs. Records failing this are skipped, never fatal.
func (l Listing) Validate() error {
	if strings.TrimSpace(l.Address) == "" {
		return fmt.Errorf("listing %q: missing address", l.ID)
	}
	if strings.TrimSpace(l.Zipcode) == "" {
		return fmt.Errorf("listing %q: missing zipcode", l.ID)
	}
	if l.SourceAPI == "" {
		return fmt.Errorf("listing %q: missing source_api", l.ID)
	}
	if l.Price < 0 {
		return fmt.Errorf("listing %q: negative price %d", l.ID, l.Price)
	}
	return nil
}

// DeriveID builds a stable listing id from address and zipcode, for sources
// that do not supply one of their own.
func DeriveID(address, zipcode string) string {
	key := strings.ToLower(strings.TrimSpace(address)) + "_" + zipcode
	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])[:12]
}
