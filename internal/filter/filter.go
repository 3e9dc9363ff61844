// Package filter applies the configured search criteria to deduplicated
// listings before they are diffed and persisted.
package filter

import (
	"fmt"
	"log"

	"github.com/yourorg/mls-monitor/internal/listing"
)

// Config holds the filter criteria. MaxLongitude is optional; when set,
// listings east of it (larger longitude) are excluded, a cheap ocean
// proximity proxy for coastal searches.
type Config struct {
	MinPrice       int      `yaml:"min_price"`
	MaxPrice       int      `yaml:"max_price"`
	MinLotSizeSqft int      `yaml:"min_lot_size_sqft"`
	MaxLongitude   *float64 `yaml:"max_longitude,omitempty"`
}

// Summary renders the criteria for cycle logs.
func (c Config) Summary() string {
	s := fmt.Sprintf("price: $%d - $%d, lot size: >= %d sqft", c.MinPrice, c.MaxPrice, c.MinLotSizeSqft)
	if c.MaxLongitude != nil {
		s += fmt.Sprintf(", ocean proximity: lon <= %v", *c.MaxLongitude)
	}
	return s
}

// Apply runs each predicate in sequence: price, lot size, ocean proximity
// (when configured), property type. A listing missing a field an active
// filter needs is excluded, not defaulted. Pure aside from logging.
func Apply(ls []listing.Listing, cfg Config, propertyTypes []string) []listing.Listing {
	total := len(ls)
	out := byPrice(ls, cfg)
	out = byLotSize(out, cfg)
	out = byOceanProximity(out, cfg)
	out = byPropertyType(out, propertyTypes)
	log.Printf("[INFO] filtered %d listings -> %d (%d excluded)", total, len(out), total-len(out))
	return out
}

func byPrice(ls []listing.Listing, cfg Config) []listing.Listing {
	out := make([]listing.Listing, 0, len(ls))
	for _, l := range ls {
		if l.Price < cfg.MinPrice {
			continue
		}
		if cfg.MaxPrice > 0 && l.Price > cfg.MaxPrice {
			continue
		}
		out = append(out, l)
	}
	log.Printf("[INFO] price filter: %d -> %d", len(ls), len(out))
	return out
}

func byLotSize(ls []listing.Listing, cfg Config) []listing.Listing {
	if cfg.MinLotSizeSqft <= 0 {
		return ls
	}
	out := make([]listing.Listing, 0, len(ls))
	noData := 0
	for _, l := range ls {
		if l.LotSizeSqft == nil {
			noData++
			continue
		}
		if *l.LotSizeSqft < cfg.MinLotSizeSqft {
			continue
		}
		out = append(out, l)
	}
	log.Printf("[INFO] lot size filter (>= %d sqft): %d -> %d (%d missing data)",
		cfg.MinLotSizeSqft, len(ls), len(out), noData)
	return out
}

func byOceanProximity(ls []listing.Listing, cfg Config) []listing.Listing {
	if cfg.MaxLongitude == nil {
		return ls
	}
	out := make([]listing.Listing, 0, len(ls))
	noData := 0
	for _, l := range ls {
		if l.Longitude == nil {
			noData++
			continue
		}
		// West of the threshold means more negative longitude.
		if *l.Longitude > *cfg.MaxLongitude {
			continue
		}
		out = append(out, l)
	}
	log.Printf("[INFO] ocean proximity filter (lon <= %v): %d -> %d (%d missing coordinates)",
		*cfg.MaxLongitude, len(ls), len(out), noData)
	return out
}

func byPropertyType(ls []listing.Listing, allowed []string) []listing.Listing {
	if len(allowed) == 0 {
		return ls
	}
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, t := range allowed {
		allowedSet[t] = struct{}{}
	}
	out := make([]listing.Listing, 0, len(ls))
	for _, l := range ls {
		if _, ok := allowedSet[l.PropertyType]; !ok {
			continue
		}
		out = append(out, l)
	}
	log.Printf("[INFO] property type filter: %d -> %d", len(ls), len(out))
	return out
}
