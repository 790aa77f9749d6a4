// Package stub is an in-process order authority implementing the REST
// contract the tracker polls. It exists for local runs and integration
// tests; the real authority lives elsewhere.
package stub

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quickbite/ordersync/internal/order"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Repository is an in-memory order book. As the authority it is the
// sole arbiter of transition legality.
type Repository struct {
	mu     sync.RWMutex
	orders map[string]order.Order
	seq    int
}

func NewRepository() *Repository {
	return &Repository{orders: make(map[string]order.Order)}
}

// Create registers a new pending order and returns it. Totals are
// computed here, never trusted from the caller.
func (r *Repository) Create(cust order.Customer, items []order.Item) order.Order {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := 0.0
	for _, it := range items {
		total += it.UnitPrice * float64(it.Quantity)
	}

	now := time.Now().UTC()
	eta := now.Add(45 * time.Minute)
	r.seq++
	o := order.Order{
		ID:                uuid.NewString(),
		OrderNumber:       fmt.Sprintf("QB-%04d", r.seq),
		Status:            order.StatusPending,
		Items:             items,
		TotalAmount:       total,
		Customer:          cust,
		CreatedAt:         now,
		UpdatedAt:         now,
		EstimatedDelivery: &eta,
	}
	r.orders[o.ID] = o
	return o
}

// List returns all orders, newest-first by creation time.
func (r *Repository) List() []order.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]order.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].OrderNumber > out[j].OrderNumber
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Get returns the order with the given id.
func (r *Repository) Get(id string) (order.Order, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	return o, ok
}

// UpdateStatus applies a transition if the status graph allows it.
func (r *Repository) UpdateStatus(id string, target order.Status) (order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return order.Order{}, ErrNotFound
	}

	allowed, err := order.CanTransition(o.Status, target)
	if err != nil {
		return order.Order{}, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}
	if !allowed {
		return order.Order{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, target)
	}

	o.Status = target
	o.UpdatedAt = time.Now().UTC()
	r.orders[id] = o
	return o, nil
}

// Seed fills the book with a few demo orders.
func (r *Repository) Seed() {
	r.Create(
		order.Customer{Name: "Ada Perez", Phone: "555-0101", Email: "ada@example.com", Address: "12 Elm St"},
		[]order.Item{
			{Name: "Classic Burger", UnitPrice: 8.50, Quantity: 2},
			{Name: "Fries", UnitPrice: 3.00, Quantity: 1},
		},
	)
	r.Create(
		order.Customer{Name: "Bo Lindgren", Phone: "555-0102", Email: "bo@example.com", Address: "7 Oak Ave"},
		[]order.Item{
			{Name: "Veggie Wrap", UnitPrice: 7.25, Quantity: 1},
			{Name: "Lemonade", UnitPrice: 2.75, Quantity: 2},
		},
	)
}
