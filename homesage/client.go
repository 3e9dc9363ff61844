// Package homesage fetches for-sale listings from the Homesage.ai API.
package homesage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/yourorg/mls-monitor/internal/fetch"
	"github.com/yourorg/mls-monitor/internal/listing"
	"github.com/yourorg/mls-monitor/internal/upstream"
)

// ErrQuotaExceeded signals the provider rejected the call for quota reasons.
var ErrQuotaExceeded = errors.New("homesage: monthly credits exceeded")

type Client struct {
	key     string
	baseURL string
	http    *retryablehttp.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		key:     apiKey,
		baseURL: "https://api.homesage.ai/v1",
		http:    upstream.NewHTTPClient(),
	}
}

func (c *Client) Name() string { return "homesage" }

// FetchListings queries the property search endpoint for one zipcode.
func (c *Client) FetchListings(ctx context.Context, zipcode string, q fetch.Query) ([]listing.Listing, error) {
	v := url.Values{}
	v.Set("zip_code", zipcode)
	v.Set("status", "for_sale")
	v.Set("limit", "50")
	if q.MinPrice > 0 {
		v.Set("min_price", strconv.Itoa(q.MinPrice))
	}
	if q.MaxPrice > 0 {
		v.Set("max_price", strconv.Itoa(q.MaxPrice))
	}

	u := fmt.Sprintf("%s/properties/search?%s", c.baseURL, v.Encode())
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusPaymentRequired {
		return nil, ErrQuotaExceeded
	}
	if resp.StatusCode >= 400 {
		var body map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return nil, fmt.Errorf("homesage error %d: %v", resp.StatusCode, body)
	}
	raw, err := upstream.ReadLimited(resp.Body, upstream.MaxPayloadBytes)
	if err != nil {
		return nil, err
	}
	return MapSearchPayload(raw, zipcode)
}
