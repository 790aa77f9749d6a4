package engine

import (
	"sync"

	"github.com/quickbite/ordersync/internal/order"
)

// KeyAllOrders is the snapshot key used by the all-orders subscription.
// Single-order subscriptions use the order id as their key.
const KeyAllOrders = "all"

// Store caches the last known-good snapshot per subscription key. It is
// the single source of truth for consumers; only the poller and the
// transitioner write to it.
//
// Writes racing on the same order (a slow poll completing alongside a
// transition reconciliation) resolve by recency of UpdatedAt: an
// incoming copy that is not strictly newer than the cached one is
// dropped.
type Store struct {
	mu        sync.RWMutex
	snapshots map[string][]order.Order
}

func NewStore() *Store {
	return &Store{snapshots: make(map[string][]order.Order)}
}

// Snapshot returns a copy of the cached snapshot for key. ok reports
// whether the key has ever been written; an observed-but-empty snapshot
// returns ok=true.
func (s *Store) Snapshot(key string) ([]order.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[key]
	if !ok {
		return nil, false
	}
	out := make([]order.Order, len(snap))
	copy(out, snap)
	return out, true
}

// Replace installs a freshly polled snapshot wholesale (never merged
// field-by-field). Membership and ordering come entirely from snap; for
// an order already cached under key, the cached copy survives unless the
// incoming one is strictly newer.
func (s *Store) Replace(key string, snap []order.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cached := make(map[string]order.Order, len(s.snapshots[key]))
	for _, o := range s.snapshots[key] {
		cached[o.ID] = o
	}

	out := make([]order.Order, 0, len(snap))
	for _, o := range snap {
		if old, ok := cached[o.ID]; ok && !o.UpdatedAt.After(old.UpdatedAt) {
			out = append(out, old)
			continue
		}
		out = append(out, o)
	}
	s.snapshots[key] = out
}

// MergeOne upserts o into every snapshot that currently contains its id,
// subject to the same recency rule. Used to reconcile an authoritative
// transition result without waiting for the next poll.
func (s *Store) MergeOne(o order.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, snap := range s.snapshots {
		for i, cur := range snap {
			if cur.ID != o.ID {
				continue
			}
			if o.UpdatedAt.After(cur.UpdatedAt) {
				next := make([]order.Order, len(snap))
				copy(next, snap)
				next[i] = o
				s.snapshots[key] = next
			}
			break
		}
	}
}

// Reset drops every cached snapshot. Only meant for explicit application
// reset; the store otherwise lives for the process lifetime.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = make(map[string][]order.Order)
}
