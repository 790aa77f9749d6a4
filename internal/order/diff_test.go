package order_test

import (
	"testing"

	"github.com/quickbite/ordersync/internal/order"
	"github.com/stretchr/testify/assert"
)

func o(id string, status order.Status) order.Order {
	return order.Order{ID: id, OrderNumber: "QB-" + id, Status: status}
}

func TestDiffSnapshots_BaselineSuppression(t *testing.T) {
	curr := []order.Order{o("1", order.StatusPending)}

	d := order.DiffSnapshots(nil, curr)
	assert.Empty(t, d.Appeared, "first observation must not report appeared orders")
	assert.Empty(t, d.StatusChanged)

	d = order.DiffSnapshots([]order.Order{}, curr)
	assert.Empty(t, d.Appeared)
	assert.Empty(t, d.StatusChanged)
}

func TestDiffSnapshots_IdenticalSnapshots(t *testing.T) {
	snap := []order.Order{
		o("1", order.StatusPending),
		o("2", order.StatusPreparing),
	}
	d := order.DiffSnapshots(snap, snap)
	assert.True(t, d.Empty())
}

func TestDiffSnapshots_Appeared(t *testing.T) {
	// First load establishes the baseline, then a second order shows up.
	prev := []order.Order{o("1", order.StatusPending)}
	curr := []order.Order{
		o("2", order.StatusPending),
		o("1", order.StatusPending),
	}

	d := order.DiffSnapshots(prev, curr)
	assert.Len(t, d.Appeared, 1)
	assert.Equal(t, "2", d.Appeared[0].ID)
	assert.Empty(t, d.StatusChanged)
}

func TestDiffSnapshots_AppearedPreservesServerOrder(t *testing.T) {
	prev := []order.Order{o("1", order.StatusPending)}
	curr := []order.Order{
		o("3", order.StatusPending),
		o("2", order.StatusPending),
		o("1", order.StatusPending),
	}

	d := order.DiffSnapshots(prev, curr)
	assert.Equal(t, []string{"3", "2"}, []string{d.Appeared[0].ID, d.Appeared[1].ID})
}

func TestDiffSnapshots_StatusChangedCarriesOldStatus(t *testing.T) {
	prev := []order.Order{
		o("1", order.StatusPending),
		o("2", order.StatusPreparing),
	}
	curr := []order.Order{
		o("1", order.StatusPending),
		o("2", order.StatusReady),
	}

	d := order.DiffSnapshots(prev, curr)
	assert.Empty(t, d.Appeared)
	assert.Len(t, d.StatusChanged, 1)
	assert.Equal(t, "2", d.StatusChanged[0].Order.ID)
	assert.Equal(t, order.StatusPreparing, d.StatusChanged[0].Old)
	assert.Equal(t, order.StatusReady, d.StatusChanged[0].Order.Status)
}

func TestDiffSnapshots_Deterministic(t *testing.T) {
	prev := []order.Order{
		o("1", order.StatusPending),
		o("2", order.StatusConfirmed),
	}
	curr := []order.Order{
		o("3", order.StatusPending),
		o("1", order.StatusConfirmed),
		o("2", order.StatusConfirmed),
	}

	first := order.DiffSnapshots(prev, curr)
	second := order.DiffSnapshots(prev, curr)
	assert.Equal(t, first, second)
}
