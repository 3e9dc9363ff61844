package notify

import (
	"context"
	"log"

	"github.com/yourorg/mls-monitor/internal/events"
)

// Dispatcher consumes new-listing events and emails them. Delivery failures
// are logged, never propagated back into the check cycle.
type Dispatcher struct {
	Pub      events.Publisher
	Notifier *Notifier
}

func (d *Dispatcher) Run(ctx context.Context) {
	sub := d.Pub.SubscribeNewListings()
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-sub:
			if err := d.Notifier.SendNewListings(ctx, evt.Listings); err != nil {
				log.Printf("[WARN] notify: run=%s email failed: %v", evt.RunID, err)
			}
		}
	}
}
