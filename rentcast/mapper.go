package rentcast

import (
	"encoding/json"

	"github.com/yourorg/mls-monitor/internal/listing"
	"github.com/yourorg/mls-monitor/internal/upstream"
)

type rcProperty struct {
	ID               string   `json:"id"`
	FormattedAddress string   `json:"formattedAddress"`
	AddressLine1     string   `json:"addressLine1"`
	City             string   `json:"city"`
	State            string   `json:"state"`
	ZipCode          string   `json:"zipCode"`
	Price            *int     `json:"price"`
	Bedrooms         *int     `json:"bedrooms"`
	Bathrooms        *float64 `json:"bathrooms"`
	SquareFootage    *int     `json:"squareFootage"`
	LotSize          *int     `json:"lotSize"`
	YearBuilt        *int     `json:"yearBuilt"`
	PropertyType     string   `json:"propertyType"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
}

// MapPropertiesPayload maps property records onto listings. The endpoint
// returns either a bare array or an object wrapping one. Records without a
// price are dropped: the monitor needs list prices and the property database
// rarely carries them.
func MapPropertiesPayload(raw []byte, zipcode string) ([]listing.Listing, error) {
	var items []rcProperty
	if err := json.Unmarshal(raw, &items); err != nil {
		var wrapped struct {
			Properties []rcProperty `json:"properties"`
		}
		if err2 := json.Unmarshal(raw, &wrapped); err2 != nil {
			return nil, err
		}
		items = wrapped.Properties
	}

	out := make([]listing.Listing, 0, len(items))
	for _, p := range items {
		address := p.FormattedAddress
		if address == "" {
			address = p.AddressLine1
		}
		if address == "" {
			continue
		}
		if p.Price == nil || *p.Price <= 0 {
			continue
		}
		id := p.ID
		if id == "" {
			id = listing.DeriveID(address, zipcode)
		}
		out = append(out, listing.Listing{
			ID:           id,
			Address:      address,
			City:         p.City,
			State:        p.State,
			Zipcode:      zipcode,
			Price:        *p.Price,
			Bedrooms:     p.Bedrooms,
			Bathrooms:    p.Bathrooms,
			Sqft:         p.SquareFootage,
			LotSizeSqft:  p.LotSize,
			YearBuilt:    p.YearBuilt,
			PropertyType: listing.NormalizePropertyType(p.PropertyType),
			Status:       listing.StatusActive,
			Latitude:     p.Latitude,
			Longitude:    p.Longitude,
			SourceAPI:    "rentcast",
		})
	}
	upstream.LogParsed("rentcast", zipcode, len(out))
	return out, nil
}
