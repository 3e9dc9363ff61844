package events

import (
	"context"

	"github.com/yourorg/mls-monitor/internal/listing"
)

// NewListings is emitted after a check cycle finds listings not seen before.
type NewListings struct {
	RunID    string
	Listings []listing.Listing
}

type Publisher interface {
	PublishNewListings(ctx context.Context, evt NewListings)
	SubscribeNewListings() <-chan NewListings
}

type inMemory struct{ ch chan NewListings }

func NewInMemory(buffer int) Publisher {
	if buffer <= 0 {
		buffer = 64
	}
	return &inMemory{ch: make(chan NewListings, buffer)}
}

// PublishNewListings never blocks, a full buffer drops the event.
func (m *inMemory) PublishNewListings(_ context.Context, evt NewListings) {
	select {
	case m.ch <- evt:
	default:
	}
}

func (m *inMemory) SubscribeNewListings() <-chan NewListings { return m.ch }
