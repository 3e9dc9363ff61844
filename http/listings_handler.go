package httpapi

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/mls-monitor/internal/listing"
	"github.com/yourorg/mls-monitor/internal/store"
)

type ListingsDeps struct {
	Store *store.Store
}

type listingsResponse struct {
	Total    int               `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
	Listings []listing.Listing `json:"listings"`
}

func RegisterListings(r chi.Router, d ListingsDeps) {
	r.Get("/listings", func(w http.ResponseWriter, req *http.Request) {
		all, err := d.Store.LoadListings()
		if err != nil {
			render.Status(req, http.StatusInternalServerError)
			render.JSON(w, req, map[string]any{"error": "store_unreadable", "detail": err.Error()})
			return
		}

		ls := make([]listing.Listing, 0, len(all))
		for _, l := range all {
			ls = append(ls, l)
		}
		// newest first, id breaks ties for stable paging
		sort.Slice(ls, func(i, j int) bool {
			if !ls[i].FirstSeen.Equal(ls[j].FirstSeen) {
				return ls[i].FirstSeen.After(ls[j].FirstSeen)
			}
			return ls[i].ID < ls[j].ID
		})

		limit := queryInt(req, "limit", 50)
		offset := queryInt(req, "offset", 0)
		if limit < 1 {
			limit = 1
		}
		if limit > 500 {
			limit = 500
		}
		if offset < 0 {
			offset = 0
		}

		page := []listing.Listing{}
		if offset < len(ls) {
			end := offset + limit
			if end > len(ls) {
				end = len(ls)
			}
			page = ls[offset:end]
		}
		render.JSON(w, req, listingsResponse{
			Total:    len(ls),
			Limit:    limit,
			Offset:   offset,
			Listings: page,
		})
	})
}

func queryInt(req *http.Request, key string, def int) int {
	v := req.URL.Query().Get(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}
