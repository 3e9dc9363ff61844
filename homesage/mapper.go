package homesage

import (
	"encoding/json"

	"github.com/yourorg/mls-monitor/internal/listing"
	"github.com/yourorg/mls-monitor/internal/upstream"
)

// MapSearchPayload maps a property search response onto listing records.
func MapSearchPayload(raw []byte, zipcode string) ([]listing.Listing, error) {
	type hDetails struct {
		Bedrooms     *int     `json:"bedrooms"`
		Bathrooms    *float64 `json:"bathrooms"`
		SquareFeet   *int     `json:"square_feet"`
		LotSizeSqft  *int     `json:"lot_size_sqft"`
		YearBuilt    *int     `json:"year_built"`
		PropertyType string   `json:"property_type"`
	}
	type hProperty struct {
		PropertyID string `json:"property_id"`
		Address    struct {
			FullAddress string `json:"full_address"`
			City        string `json:"city"`
			State       string `json:"state"`
		} `json:"address"`
		Price           int      `json:"price"`
		PropertyDetails hDetails `json:"property_details"`
		ListingURL      string   `json:"listing_url"`
		MLSNumber       string   `json:"mls_number"`
		Description     string   `json:"description"`
		HOAFee          *int     `json:"hoa_fee"`
		Latitude        *float64 `json:"latitude"`
		Longitude       *float64 `json:"longitude"`
		Images          []struct {
			URL string `json:"url"`
		} `json:"images"`
	}
	var root struct {
		Properties []hProperty `json:"properties"`
	}
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, err
	}

	out := make([]listing.Listing, 0, len(root.Properties))
	for _, p := range root.Properties {
		if p.Address.FullAddress == "" {
			continue
		}
		id := p.PropertyID
		if id == "" {
			id = listing.DeriveID(p.Address.FullAddress, zipcode)
		}
		photo := ""
		if len(p.Images) > 0 {
			photo = p.Images[0].URL
		}
		out = append(out, listing.Listing{
			ID:           id,
			Address:      p.Address.FullAddress,
			City:         p.Address.City,
			State:        p.Address.State,
			Zipcode:      zipcode,
			Price:        p.Price,
			Bedrooms:     p.PropertyDetails.Bedrooms,
			Bathrooms:    p.PropertyDetails.Bathrooms,
			Sqft:         p.PropertyDetails.SquareFeet,
			LotSizeSqft:  p.PropertyDetails.LotSizeSqft,
			YearBuilt:    p.PropertyDetails.YearBuilt,
			PropertyType: listing.NormalizePropertyType(p.PropertyDetails.PropertyType),
			Status:       listing.StatusActive,
			ListingURL:   p.ListingURL,
			PhotoURL:     photo,
			MLSNumber:    p.MLSNumber,
			Description:  p.Description,
			HOAFee:       p.HOAFee,
			Latitude:     p.Latitude,
			Longitude:    p.Longitude,
			SourceAPI:    "homesage",
		})
	}
	upstream.LogParsed("homesage", zipcode, len(out))
	return out, nil
}
