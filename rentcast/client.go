// Package rentcast fetches property records from the RentCast API. The
// free-tier endpoint serves the property database, not active MLS listings,
// so most records lack a list price and are dropped by the mapper; the
// provider earns its keep as an enrichment source when a price is present.
package rentcast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/yourorg/mls-monitor/internal/fetch"
	"github.com/yourorg/mls-monitor/internal/listing"
	"github.com/yourorg/mls-monitor/internal/upstream"
)

// ErrQuotaExceeded signals the provider rejected the call for quota reasons.
var ErrQuotaExceeded = errors.New("rentcast: monthly quota exceeded")

type Client struct {
	key     string
	baseURL string
	http    *retryablehttp.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		key:     apiKey,
		baseURL: "https://api.rentcast.io/v1",
		http:    upstream.NewHTTPClient(),
	}
}

func (c *Client) Name() string { return "rentcast" }

// FetchListings queries property records for one zipcode.
func (c *Client) FetchListings(ctx context.Context, zipcode string, _ fetch.Query) ([]listing.Listing, error) {
	v := url.Values{}
	v.Set("zipCode", zipcode)
	v.Set("limit", "50")

	u := fmt.Sprintf("%s/properties?%s", c.baseURL, v.Encode())
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("X-Api-Key", c.key)

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
		return nil, fmt.Errorf("rentcast error %d: %v", resp.StatusCode, body)
	}
	raw, err := upstream.ReadLimited(resp.Body, upstream.MaxPayloadBytes)
	if err != nil {
		return nil, err
	}
	return MapPropertiesPayload(raw, zipcode)
}
