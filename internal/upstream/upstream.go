// Package upstream holds the HTTP plumbing shared by provider clients.
package upstream

import (
	"errors"
	"io"
	"log"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// MaxPayloadBytes guards against runaway provider responses.
const MaxPayloadBytes = 4 << 20

// NewHTTPClient returns a retrying HTTP client tuned for quota-limited
// listing APIs: short waits, few retries, hard request timeout.
func NewHTTPClient() *retryablehttp.Client {
	rc := retryablehttp.NewClient()
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = 900 * time.Millisecond
	rc.RetryMax = 3
	rc.HTTPClient.Timeout = 10 * time.Second
	rc.Logger = nil
	return rc
}

// ReadLimited reads at most limit bytes and errors past that.
func ReadLimited(r io.Reader, limit int64) ([]byte, error) {
	lr := io.LimitReader(r, limit+1)
	b, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, errors.New("payload too large")
	}
	return b, nil
}

// LogParsed emits the standard per-provider mapping log line.
func LogParsed(provider, zipcode string, n int) {
	log.Printf("[INFO] parsed %d listings from %s for %s", n, provider, zipcode)
}
