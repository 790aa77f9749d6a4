package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/quickbite/ordersync/internal/order"
)

var (
	// ErrIllegalTransition is a local validation failure: the requested
	// target is not reachable from the order's current status. No
	// network call is made.
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrTransitionInProgress guards against a second request for the
	// same order while one is still in flight.
	ErrTransitionInProgress = errors.New("transition already in progress for order")
)

// TransitionFetcher is the mutating slice of the authority client.
type TransitionFetcher interface {
	RequestTransition(ctx context.Context, id string, target order.Status) (order.Order, error)
}

// Transitioner executes operator-initiated status changes: validate
// against the status graph, mark the order pending, ask the authority,
// reconcile its answer into the store.
//
// The pending marker is a side-channel for busy indicators; it never
// touches the store's authoritative status field, so a failed request
// needs no rollback.
type Transitioner struct {
	fetcher TransitionFetcher
	store   *Store

	mu      sync.Mutex
	pending map[string]struct{}
}

func NewTransitioner(fetcher TransitionFetcher, store *Store) *Transitioner {
	return &Transitioner{
		fetcher: fetcher,
		store:   store,
		pending: make(map[string]struct{}),
	}
}

// Pending reports whether a transition request for id is in flight.
func (t *Transitioner) Pending(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.pending[id]
	return ok
}

// Request moves o to target. Every failure kind is returned verbatim so
// the caller can render a specific message; there is no automatic retry.
func (t *Transitioner) Request(ctx context.Context, o order.Order, target order.Status) (order.Order, error) {
	ok, err := order.CanTransition(o.Status, target)
	if err != nil {
		return order.Order{}, err
	}
	if !ok {
		return order.Order{}, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, o.Status, target)
	}

	if !t.begin(o.ID) {
		return order.Order{}, fmt.Errorf("%w %s", ErrTransitionInProgress, o.ID)
	}
	defer t.end(o.ID)

	updated, err := t.fetcher.RequestTransition(ctx, o.ID, target)
	if err != nil {
		// No authoritative write happened; the store stays untouched.
		log.Warn().Err(err).Str("order_id", o.ID).Str("target", target.String()).Msg("transition request failed")
		return order.Order{}, err
	}

	t.store.MergeOne(updated)
	log.Info().Str("order_id", updated.ID).Str("from", o.Status.String()).Str("to", updated.Status.String()).Msg("transition confirmed")
	return updated, nil
}

func (t *Transitioner) begin(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, inFlight := t.pending[id]; inFlight {
		return false
	}
	t.pending[id] = struct{}{}
	return true
}

func (t *Transitioner) end(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.pending, id)
}
