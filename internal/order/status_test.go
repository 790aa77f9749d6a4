package order_test

import (
	"errors"
	"testing"

	"github.com/quickbite/ordersync/internal/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowedNext(t *testing.T) {
	tests := []struct {
		name string
		from order.Status
		want []order.Status
	}{
		{
			name: "pending",
			from: order.StatusPending,
			want: []order.Status{order.StatusConfirmed, order.StatusCancelled},
		},
		{
			name: "confirmed",
			from: order.StatusConfirmed,
			want: []order.Status{order.StatusPreparing, order.StatusCancelled},
		},
		{
			name: "preparing",
			from: order.StatusPreparing,
			want: []order.Status{order.StatusReady, order.StatusCancelled},
		},
		{
			name: "ready",
			from: order.StatusReady,
			want: []order.Status{order.StatusOutForDelivery, order.StatusCancelled},
		},
		{
			name: "out_for_delivery_cannot_cancel",
			from: order.StatusOutForDelivery,
			want: []order.Status{order.StatusDelivered},
		},
		{
			name: "delivered_is_terminal",
			from: order.StatusDelivered,
			want: []order.Status{},
		},
		{
			name: "cancelled_is_terminal",
			from: order.StatusCancelled,
			want: []order.Status{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := order.AllowedNext(tt.from)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAllowedNext_UnknownStatus(t *testing.T) {
	_, err := order.AllowedNext(order.Status("shipped"))
	assert.True(t, errors.Is(err, order.ErrInvalidStatus))
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    order.Status
		to      order.Status
		want    bool
		wantErr bool
	}{
		{name: "pending_to_confirmed", from: order.StatusPending, to: order.StatusConfirmed, want: true},
		{name: "pending_skips_to_preparing", from: order.StatusPending, to: order.StatusPreparing, want: false},
		{name: "preparing_to_ready", from: order.StatusPreparing, to: order.StatusReady, want: true},
		{name: "out_for_delivery_to_cancelled", from: order.StatusOutForDelivery, to: order.StatusCancelled, want: false},
		{name: "delivered_to_anything", from: order.StatusDelivered, to: order.StatusPending, want: false},
		{name: "garbage_target", from: order.StatusPending, to: order.Status("exploded"), want: false},
		{name: "garbage_source", from: order.Status("exploded"), to: order.StatusPending, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := order.CanTransition(tt.from, tt.to)
			if tt.wantErr {
				assert.True(t, errors.Is(err, order.ErrInvalidStatus))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIndex(t *testing.T) {
	i, ok := order.Index(order.StatusPending)
	assert.True(t, ok)
	assert.Equal(t, 0, i)

	i, ok = order.Index(order.StatusDelivered)
	assert.True(t, ok)
	assert.Equal(t, 5, i)

	_, ok = order.Index(order.StatusCancelled)
	assert.False(t, ok, "cancelled has no progress position")

	_, ok = order.Index(order.Status("exploded"))
	assert.False(t, ok)
}
