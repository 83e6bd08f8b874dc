package channels

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// subscriber holds a channel and its send timeout configuration.
type subscriber[T any] struct {
	ch       chan<- T
	timeout  time.Duration // zero means non-blocking
	inactive atomic.Bool
	dropped  atomic.Int32
}

func (s *subscriber[T]) send(msg T) {
	if s.inactive.Load() {
		s.dropped.Add(1)
		return
	}
	var err error
	if s.timeout > 0 {
		err = SendWithTimeout(s.ch, msg, s.timeout)
	} else {
		err = SendNonBlock(s.ch, msg)
	}
	if err != nil {
		// closed channels are never retried
		s.dropped.Add(1)
		if errors.Is(err, ErrChannelClosed) {
			s.inactive.Store(true)
		}
	}
}

// Broadcaster copies every message written to its input channel to all
// subscriber channels. A slow subscriber loses messages instead of stalling
// the others.
//
// On context cancellation the input channel is closed and queued messages
// are drained to subscribers before Wait returns.
type Broadcaster[T any] struct {
	subscribers []*subscriber[T]
	input       chan T
	started     atomic.Bool
	wg          sync.WaitGroup
}

// NewBroadcaster creates an empty Broadcaster.
func NewBroadcaster[T any]() *Broadcaster[T] {
	return &Broadcaster[T]{}
}

// Subscribe adds a channel that receives messages without blocking; when it
// is full the message is dropped for that subscriber.
// Must be called before Run.
func (b *Broadcaster[T]) Subscribe(ch chan<- T) error {
	if ch == nil {
		return errors.New("subscriber channel cannot be nil")
	}
	b.subscribers = append(b.subscribers, &subscriber[T]{ch: ch})
	return nil
}

// SubscribeWithTimeout adds a channel that may block each send for up to
// timeout before the message is dropped.
// Must be called before Run.
func (b *Broadcaster[T]) SubscribeWithTimeout(ch chan<- T, timeout time.Duration) error {
	if ch == nil {
		return errors.New("subscriber channel cannot be nil")
	}
	if timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", timeout)
	}
	b.subscribers = append(b.subscribers, &subscriber[T]{ch: ch, timeout: timeout})
	return nil
}

// Run starts broadcasting and returns the input channel. The channel is
// owned by the Broadcaster and closed when ctx is done; do not send on it
// after cancelling ctx.
func (b *Broadcaster[T]) Run(ctx context.Context) (chan<- T, error) {
	if len(b.subscribers) == 0 {
		return nil, errors.New("no subscribers available")
	}
	if !b.started.CompareAndSwap(false, true) {
		return nil, errors.New("broadcaster already started")
	}

	b.input = make(chan T, len(b.subscribers)*2)

	b.wg.Go(func() {
		for msg := range b.input {
			for _, s := range b.subscribers {
				s.send(msg)
			}
		}
	})

	go func() {
		<-ctx.Done()
		close(b.input)
	}()

	return b.input, nil
}

// Wait blocks until the input channel is closed and drained.
func (b *Broadcaster[T]) Wait() {
	b.wg.Wait()
}

type SubscriberStats struct {
	Dropped  int
	Inactive bool
}

// Stats reports per-subscriber drop counts in subscription order.
func (b *Broadcaster[T]) Stats() []SubscriberStats {
	stats := make([]SubscriberStats, 0, len(b.subscribers))
	for _, s := range b.subscribers {
		stats = append(stats, SubscriberStats{
			Dropped:  int(s.dropped.Load()),
			Inactive: s.inactive.Load(),
		})
	}
	return stats
}
