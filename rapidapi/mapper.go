package rapidapi

import (
	"encoding/json"

	"github.com/yourorg/mls-monitor/internal/listing"
	"github.com/yourorg/mls-monitor/internal/upstream"
)

// MapForSalePayload maps a for-sale response onto listing records. The
// mapper is defensive: entries without an address line are dropped and
// missing optional attributes stay nil.
func MapForSalePayload(raw []byte, zipcode string) ([]listing.Listing, error) {
	type rCoordinate struct {
		Lat *float64 `json:"lat"`
		Lon *float64 `json:"lon"`
	}
	type rAddress struct {
		Line       string      `json:"line"`
		City       string      `json:"city"`
		State      string      `json:"state"`
		PostalCode string      `json:"postal_code"`
		Coordinate rCoordinate `json:"coordinate"`
	}
	type rDescription struct {
		Beds      *int     `json:"beds"`
		Baths     *float64 `json:"baths"`
		Sqft      *int     `json:"sqft"`
		LotSqft   *int     `json:"lot_sqft"`
		YearBuilt *int     `json:"year_built"`
		Type      string   `json:"type"`
		Text      string   `json:"text"`
	}
	type rResult struct {
		PropertyID  string       `json:"property_id"`
		ListPrice   int          `json:"list_price"`
		Href        string       `json:"href"`
		Description rDescription `json:"description"`
		Location    struct {
			Address rAddress `json:"address"`
		} `json:"location"`
		Photos []struct {
			Href string `json:"href"`
		} `json:"photos"`
		MLS struct {
			ID string `json:"id"`
		} `json:"mls"`
		HOA struct {
			Fee *int `json:"fee"`
		} `json:"hoa"`
	}
	var root struct {
		Data struct {
			Results []rResult `json:"results"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, err
	}

	out := make([]listing.Listing, 0, len(root.Data.Results))
	for _, res := range root.Data.Results {
		addr := res.Location.Address
		if addr.Line == "" {
			continue
		}
		id := res.PropertyID
		if id == "" {
			id = listing.DeriveID(addr.Line, zipcode)
		}
		photo := ""
		if len(res.Photos) > 0 {
			photo = res.Photos[0].Href
		}
		out = append(out, listing.Listing{
			ID:           id,
			Address:      addr.Line,
			City:         addr.City,
			State:        addr.State,
			Zipcode:      zipcode,
			Price:        res.ListPrice,
			Bedrooms:     res.Description.Beds,
			Bathrooms:    res.Description.Baths,
			Sqft:         res.Description.Sqft,
			LotSizeSqft:  res.Description.LotSqft,
			YearBuilt:    res.Description.YearBuilt,
			PropertyType: listing.NormalizePropertyType(res.Description.Type),
			Status:       listing.StatusActive,
			ListingURL:   res.Href,
			PhotoURL:     photo,
			MLSNumber:    res.MLS.ID,
			Description:  res.Description.Text,
			HOAFee:       res.HOA.Fee,
			Latitude:     addr.Coordinate.Lat,
			Longitude:    addr.Coordinate.Lon,
			SourceAPI:    "rapidapi",
		})
	}
	upstream.LogParsed("rapidapi", zipcode, len(out))
	return out, nil
}
