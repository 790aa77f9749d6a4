package engine

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/quickbite/ordersync/internal/order"
)

// Default cadences, matching the console's refresh intervals. The two
// are independent knobs, not derived from each other.
const (
	DefaultListInterval  = 30 * time.Second
	DefaultOrderInterval = 10 * time.Second
)

// Fetcher is the slice of the authority client the poller needs.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]order.Order, error)
	FetchOne(ctx context.Context, id string) (order.Order, error)
}

// Observer receives diff and failure events. Callbacks run on the
// subscription's goroutine, so implementations hand off anything slow.
type Observer interface {
	OnDiff(key string, d order.Diff)
	OnPollFailure(key string, err error)
}

// Poller drives recurring fetches and feeds results through the change
// detector into the store. One goroutine per subscription; fetches run
// synchronously inside it, so there is never more than one in flight per
// subscription and results commit in issue order.
type Poller struct {
	fetcher       Fetcher
	store         *Store
	observers     []Observer
	listInterval  time.Duration
	orderInterval time.Duration
}

// NewPoller wires a poller over fetcher and store. Zero intervals fall
// back to the defaults.
func NewPoller(fetcher Fetcher, store *Store, listInterval, orderInterval time.Duration, observers ...Observer) *Poller {
	if listInterval <= 0 {
		listInterval = DefaultListInterval
	}
	if orderInterval <= 0 {
		orderInterval = DefaultOrderInterval
	}
	return &Poller{
		fetcher:       fetcher,
		store:         store,
		observers:     observers,
		listInterval:  listInterval,
		orderInterval: orderInterval,
	}
}

// Subscription is one live recurring poll. Stop it when the consumer
// stops observing; exactly one timer runs per live subscription.
type Subscription struct {
	key      string
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
	failures atomic.Int64
}

// Key returns the snapshot key this subscription feeds.
func (s *Subscription) Key() string {
	return s.key
}

// Failures returns how many polls have failed since subscribing.
func (s *Subscription) Failures() int64 {
	return s.failures.Load()
}

// Stop ends the subscription. No further ticks fire; a fetch already in
// flight is discarded before it can touch the store.
func (s *Subscription) Stop() {
	s.cancel()
}

// Done is closed once the subscription's loop has exited.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// SubscribeAll starts polling the full order list.
func (p *Poller) SubscribeAll() *Subscription {
	return p.subscribe(KeyAllOrders, p.listInterval, p.fetcher.FetchAll)
}

// SubscribeOrder starts polling a single order. Its snapshot holds one
// entry under the order id key.
func (p *Poller) SubscribeOrder(id string) *Subscription {
	fetch := func(ctx context.Context) ([]order.Order, error) {
		o, err := p.fetcher.FetchOne(ctx, id)
		if err != nil {
			return nil, err
		}
		return []order.Order{o}, nil
	}
	return p.subscribe(id, p.orderInterval, fetch)
}

func (p *Poller) subscribe(key string, interval time.Duration, fetch func(context.Context) ([]order.Order, error)) *Subscription {
	ctx, cancel := context.WithCancel(context.Background())
	sub := &Subscription{
		key:      key,
		interval: interval,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go p.run(ctx, sub, fetch)
	log.Debug().Str("key", key).Dur("interval", interval).Msg("subscription started")
	return sub
}

func (p *Poller) run(ctx context.Context, sub *Subscription, fetch func(context.Context) ([]order.Order, error)) {
	defer close(sub.done)

	ticker := time.NewTicker(sub.interval)
	defer ticker.Stop()

	// First poll happens immediately; it establishes the baseline.
	p.pollOnce(ctx, sub, fetch)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.pollOnce(ctx, sub, fetch)
			// A tick that fired while the fetch was running is skipped,
			// not queued.
			select {
			case <-ticker.C:
			default:
			}
		}
	}
}

func (p *Poller) pollOnce(ctx context.Context, sub *Subscription, fetch func(context.Context) ([]order.Order, error)) {
	curr, err := fetch(ctx)
	if ctx.Err() != nil {
		// Unsubscribed while the fetch was in flight; discard the result.
		return
	}
	if err != nil {
		sub.failures.Add(1)
		log.Warn().Err(err).Str("key", sub.key).Int64("failures", sub.Failures()).Msg("poll failed, keeping previous snapshot")
		for _, ob := range p.observers {
			ob.OnPollFailure(sub.key, err)
		}
		return
	}

	prev, _ := p.store.Snapshot(sub.key)
	d := order.DiffSnapshots(prev, curr)
	p.store.Replace(sub.key, curr)

	if !d.Empty() {
		log.Info().Str("key", sub.key).Int("appeared", len(d.Appeared)).Int("status_changed", len(d.StatusChanged)).Msg("snapshot changed")
	}
	// Every successful poll is reported, empty diff or not; observers
	// that only care about changes ignore the empty ones.
	for _, ob := range p.observers {
		ob.OnDiff(sub.key, d)
	}
}
