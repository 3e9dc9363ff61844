package fetch

import (
	"context"
	"log"
	"math"
	"sort"
	"time"

	"golang.org/x/time/rate"

	"github.com/yourorg/mls-monitor/internal/listing"
	"github.com/yourorg/mls-monitor/internal/store"
)

// Router dispatches fetches to the provider with the most quota remaining,
// falling through to the next on error or empty result. Every call attempt
// increments the provider's quota counter regardless of outcome.
type Router struct {
	Store    *store.Store
	Fetchers []Fetcher
	Limits   map[string]int // monthly call limit per provider name

	// Limiter paces upstream calls; nil means unpaced.
	Limiter *rate.Limiter

	// Now is replaceable in tests.
	Now func() time.Time
}

// NewRouter wires a quota-aware router over the given fetchers.
func NewRouter(st *store.Store, fetchers []Fetcher, limits map[string]int) *Router {
	return &Router{
		Store:    st,
		Fetchers: fetchers,
		Limits:   limits,
		Limiter:  rate.NewLimiter(rate.Every(time.Second), 1),
		Now:      time.Now,
	}
}

// FetchZipcode returns listings for one zipcode from the first provider that
// yields results. Provider errors are logged and the next provider is tried;
// a nil result means every provider failed or was out of quota.
func (r *Router) FetchZipcode(ctx context.Context, zipcode string, q Query) []listing.Listing {
	now := r.Now().UTC()
	if err := r.Store.ResetQuotasIfNeeded(now); err != nil {
		log.Printf("[WARN] quota reset check: %v", err)
	}
	for _, f := range r.Fetchers {
		if err := r.Store.EnsureQuota(f.Name(), r.Limits[f.Name()], now); err != nil {
			log.Printf("[WARN] seeding quota for %s: %v", f.Name(), err)
		}
	}

	quotas, err := r.Store.LoadQuotas()
	if err != nil {
		log.Printf("[WARN] loading quotas: %v", err)
		quotas = map[string]store.Quota{}
	}

	for _, name := range r.availableOrder(quotas) {
		f := r.byName(name)
		if f == nil {
			continue
		}
		if r.Limiter != nil {
			if err := r.Limiter.Wait(ctx); err != nil {
				return nil
			}
		}

		log.Printf("[INFO] using %s for zipcode %s", name, zipcode)
		ls, err := f.FetchListings(ctx, zipcode, q)
		if qerr := r.Store.IncrementQuota(name, 1); qerr != nil {
			log.Printf("[WARN] incrementing %s quota: %v", name, qerr)
		}
		if err != nil {
			log.Printf("[WARN] fetching from %s for %s: %v", name, zipcode, err)
			continue
		}
		if len(ls) == 0 {
			log.Printf("[INFO] no listings from %s for %s", name, zipcode)
			continue
		}
		log.Printf("[INFO] fetched %d listings from %s for %s", len(ls), name, zipcode)
		return ls
	}

	log.Printf("[WARN] no listings for zipcode %s from any provider", zipcode)
	return nil
}

// FetchAllZipcodes runs FetchZipcode sequentially for each zipcode and maps
// zipcode to its listings. Zipcodes with no results map to an empty slice.
func (r *Router) FetchAllZipcodes(ctx context.Context, zipcodes []string, q Query) map[string][]listing.Listing {
	results := make(map[string][]listing.Listing, len(zipcodes))
	total := 0
	for _, zip := range zipcodes {
		if ctx.Err() != nil {
			break
		}
		ls := r.FetchZipcode(ctx, zip, q)
		results[zip] = ls
		total += len(ls)
	}
	log.Printf("[INFO] fetched %d total listings across %d zipcodes", total, len(zipcodes))
	return results
}

// availableOrder returns provider names with quota remaining, most remaining
// first; name order breaks ties for determinism.
func (r *Router) availableOrder(quotas map[string]store.Quota) []string {
	type avail struct {
		name      string
		remaining int
	}
	var out []avail
	for _, f := range r.Fetchers {
		q, ok := quotas[f.Name()]
		if !ok || q.Remaining() == 0 {
			continue
		}
		out = append(out, avail{f.Name(), q.Remaining()})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].remaining != out[j].remaining {
			return out[i].remaining > out[j].remaining
		}
		return out[i].name < out[j].name
	})
	names := make([]string, len(out))
	for i, a := range out {
		names[i] = a.name
	}
	return names
}

func (r *Router) byName(name string) Fetcher {
	for _, f := range r.Fetchers {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

// QuotaStatus describes one provider's budget for the management API.
type QuotaStatus struct {
	Used       int       `json:"used"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	Percentage float64   `json:"percentage"`
	ResetDate  time.Time `json:"reset_date"`
}

// QuotaReport returns the status of every registered provider.
func (r *Router) QuotaReport() (map[string]QuotaStatus, error) {
	quotas, err := r.Store.LoadQuotas()
	if err != nil {
		return nil, err
	}
	report := make(map[string]QuotaStatus, len(r.Fetchers))
	for _, f := range r.Fetchers {
		q, ok := quotas[f.Name()]
		if !ok {
			continue
		}
		pct := 0.0
		if q.Limit > 0 {
			pct = math.Round(float64(q.Used)/float64(q.Limit)*1000) / 10
		}
		report[f.Name()] = QuotaStatus{
			Used:       q.Used,
			Limit:      q.Limit,
			Remaining:  q.Remaining(),
			Percentage: pct,
			ResetDate:  q.ResetDate,
		}
	}
	return report, nil
}

// QuotaHealthy reports whether at least one provider still has more than 10%
// of its monthly budget.
func (r *Router) QuotaHealthy() bool {
	report, err := r.QuotaReport()
	if err != nil {
		return false
	}
	for _, st := range report {
		if float64(st.Remaining) > float64(st.Limit)*0.1 {
			return true
		}
	}
	log.Printf("[WARN] low quota across all providers")
	return false
}
