// Package rapidapi fetches for-sale listings from the RapidAPI US Real
// Estate service.
package rapidapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/yourorg/mls-monitor/internal/fetch"
	"github.com/yourorg/mls-monitor/internal/listing"
	"github.com/yourorg/mls-monitor/internal/upstream"
)

const apiHost = "us-real-estate.p.rapidapi.com"

// ErrQuotaExceeded signals the provider rejected the call for quota reasons.
var ErrQuotaExceeded = errors.New("rapidapi: monthly quota exceeded")

type Client struct {
	key     string
	baseURL string
	http    *retryablehttp.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		key:     apiKey,
		baseURL: "https://" + apiHost,
		http:    upstream.NewHTTPClient(),
	}
}

func (c *Client) Name() string { return "rapidapi" }

// FetchListings queries the for-sale endpoint for one zipcode.
func (c *Client) FetchListings(ctx context.Context, zipcode string, q fetch.Query) ([]listing.Listing, error) {
	v := url.Values{}
	v.Set("postal_code", zipcode)
	v.Set("status", "for_sale")
	v.Set("limit", "50")
	v.Set("offset", "0")
	if len(q.PropertyTypes) > 0 {
		v.Set("property_type", mapPropertyTypes(q.PropertyTypes))
	}
	if q.MinPrice > 0 {
		v.Set("price_min", strconv.Itoa(q.MinPrice))
	}
	if q.MaxPrice > 0 {
		v.Set("price_max", strconv.Itoa(q.MaxPrice))
	}

	u := fmt.Sprintf("%s/v2/for-sale?%s", c.baseURL, v.Encode())
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("X-RapidAPI-Key", c.key)
	req.Header.Set("X-RapidAPI-Host", apiHost)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrQuotaExceeded
	}
	if resp.StatusCode >= 400 {
		var body map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return nil, fmt.Errorf("rapidapi error %d: %v", resp.StatusCode, body)
	}
	raw, err := upstream.ReadLimited(resp.Body, upstream.MaxPayloadBytes)
	if err != nil {
		return nil, err
	}
	return MapForSalePayload(raw, zipcode)
}

func mapPropertyTypes(types []string) string {
	known := map[string]string{
		listing.TypeSingleFamily: "single_family",
		listing.TypeMultiFamily:  "multi_family",
		listing.TypeCondo:        "condo",
		"townhouse":              "townhouse",
	}
	var out []string
	for _, t := range types {
		if v, ok := known[t]; ok {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return "single_family,multi_family"
	}
	return strings.Join(out, ",")
}
