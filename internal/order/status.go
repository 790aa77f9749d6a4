package order

import (
	"errors"
	"fmt"
)

// Status is an order's lifecycle state.
type Status string

const (
	StatusPending        Status = "pending"
	StatusConfirmed      Status = "confirmed"
	StatusPreparing      Status = "preparing"
	StatusReady          Status = "ready"
	StatusOutForDelivery Status = "out-for-delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

// ErrInvalidStatus marks a status value outside the known enumeration.
// The authority is the source of truth, but garbage is never accepted
// silently.
var ErrInvalidStatus = errors.New("unknown order status")

// forward is the canonical progress sequence. Cancelled is not part of
// it and has no progress position.
var forward = []Status{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusReady,
	StatusOutForDelivery,
	StatusDelivered,
}

var transitions = map[Status][]Status{
	StatusPending:        {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusPreparing, StatusCancelled},
	StatusPreparing:      {StatusReady, StatusCancelled},
	StatusReady:          {StatusOutForDelivery, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered},
	StatusDelivered:      {},
	StatusCancelled:      {},
}

// AllowedNext returns the statuses s may legally move to. Terminal
// statuses (delivered, cancelled) return an empty slice.
func AllowedNext(s Status) ([]Status, error) {
	next, ok := transitions[s]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	out := make([]Status, len(next))
	copy(out, next)
	return out, nil
}

// CanTransition reports whether from -> to is a legal edge. The error is
// non-nil only when from is outside the enumeration; an unknown to is
// simply not a legal target.
func CanTransition(from, to Status) (bool, error) {
	next, err := AllowedNext(from)
	if err != nil {
		return false, err
	}
	for _, s := range next {
		if s == to {
			return true, nil
		}
	}
	return false, nil
}

// Index returns s's position in the canonical forward sequence, for
// progress rendering. Cancelled (and any unknown value) has no position.
func Index(s Status) (int, bool) {
	for i, st := range forward {
		if st == s {
			return i, true
		}
	}
	return -1, false
}
