// Package notify fans a batch of newly observed subdomains out to the
// configured delivery channels and reports per-channel outcomes.
package notify

import (
	"context"
	"sync"

	"subwatch/pkg/domain"
)

// Channel is one outbound notification destination.
//
//go:generate mockgen -package mocknotify -source=notify.go -destination=mock/mocknotify.go *
type Channel interface {
	// Name identifies the channel in logs and delivery results.
	Name() string
	// Deliver sends a notification for the batch. It must format its own
	// message so it can honor the channel's length limit.
	Deliver(ctx context.Context, batch domain.Batch) error
}

// Delivery records the outcome of one channel's delivery attempt.
type Delivery struct {
	// Channel is the name of the channel the attempt targeted.
	Channel string
	// Err is nil on success, or the delivery failure.
	Err error
}

// Notifier fans batches out to a fixed set of channels.
type Notifier struct {
	channels []Channel
}

// New constructs a Notifier over the given channels. A Notifier with no
// channels is valid and delivers nothing.
func New(channels ...Channel) *Notifier {
	return &Notifier{channels: channels}
}

// Channels returns the number of configured channels.
func (n *Notifier) Channels() int { return len(n.channels) }

// Notify delivers the batch to every configured channel concurrently and
// returns one Delivery per channel. A failing channel never blocks or fails
// the others. Empty batches and notifiers without channels are a no-op and
// return no deliveries.
func (n *Notifier) Notify(ctx context.Context, batch domain.Batch) []Delivery {
	if batch.Empty() || len(n.channels) == 0 {
		return nil
	}

	deliveries := make([]Delivery, len(n.channels))

	var wg sync.WaitGroup
	for i, ch := range n.channels {
		wg.Add(1)

		go func(i int, ch Channel) {
			defer wg.Done()

			deliveries[i] = Delivery{
				Channel: ch.Name(),
				Err:     ch.Deliver(ctx, batch),
			}
		}(i, ch)
	}
	wg.Wait()

	return deliveries
}
