// Package notify sends listing alert emails through the Resend API.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/yourorg/mls-monitor/internal/listing"
	"github.com/yourorg/mls-monitor/internal/upstream"
)

const defaultBaseURL = "https://api.resend.com"

// Notifier delivers email through Resend. A Notifier with an empty API key
// logs and skips sends instead of failing the cycle.
type Notifier struct {
	apiKey  string
	from    string
	to      []string
	baseURL string
	http    *retryablehttp.Client
}

func NewNotifier(apiKey, from string, to []string) *Notifier {
	return &Notifier{
		apiKey:  apiKey,
		from:    from,
		to:      to,
		baseURL: defaultBaseURL,
		http:    upstream.NewHTTPClient(),
	}
}

type emailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// SendNewListings emails the given listings, cheapest first.
func (n *Notifier) SendNewListings(ctx context.Context, listings []listing.Listing) error {
	if len(listings) == 0 {
		log.Printf("[INFO] notify: no new listings to send")
		return nil
	}
	if n.apiKey == "" {
		log.Printf("[WARN] notify: resend api key not configured, skipping email")
		return nil
	}

	sorted := make([]listing.Listing, len(listings))
	copy(sorted, listings)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Price < sorted[j].Price })

	body, err := renderNewListings(sorted)
	if err != nil {
		return fmt.Errorf("rendering email: %w", err)
	}
	return n.send(ctx, emailRequest{
		From:    n.from,
		To:      n.to,
		Subject: subjectFor(sorted),
		HTML:    body,
	})
}

// SendError emails an operator alert describing a cycle failure.
func (n *Notifier) SendError(ctx context.Context, message string) error {
	if n.apiKey == "" {
		log.Printf("[WARN] notify: resend api key not configured, skipping error email")
		return nil
	}
	body, err := renderError(message)
	if err != nil {
		return fmt.Errorf("rendering error email: %w", err)
	}
	return n.send(ctx, emailRequest{
		From:    n.from,
		To:      n.to,
		Subject: "Listing Monitor Error",
		HTML:    body,
	})
}

func (n *Notifier) send(ctx context.Context, email emailRequest) error {
	payload, err := json.Marshal(email)
	if err != nil {
		return err
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+n.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return fmt.Errorf("resend request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := upstream.ReadLimited(resp.Body, 1<<16)
		return fmt.Errorf("resend status %d: %s", resp.StatusCode, string(raw))
	}
	log.Printf("[INFO] notify: email sent to=%v subject=%q", n.to, email.Subject)
	return nil
}

func subjectFor(listings []listing.Listing) string {
	if len(listings) == 1 {
		l := listings[0]
		return fmt.Sprintf("New Listing Alert: %s - $%s", l.Address, formatThousands(l.Price))
	}
	total := 0
	for _, l := range listings {
		total += l.Price
	}
	avg := total / len(listings)
	return fmt.Sprintf("%d New Listings (avg $%s)", len(listings), formatThousands(avg))
}

func formatThousands(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b bytes.Buffer
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
