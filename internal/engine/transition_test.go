package engine_test

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/quickbite/ordersync/internal/engine"
	"github.com/quickbite/ordersync/internal/fetch"
	"github.com/quickbite/ordersync/internal/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockTransitionFetcher struct {
	requestFunc func(ctx context.Context, id string, target order.Status) (order.Order, error)
	calls       atomic.Int64
}

func (m *mockTransitionFetcher) RequestTransition(ctx context.Context, id string, target order.Status) (order.Order, error) {
	m.calls.Add(1)
	return m.requestFunc(ctx, id, target)
}

func TestTransitioner_IllegalTransitionFailsFast(t *testing.T) {
	fetcher := &mockTransitionFetcher{
		requestFunc: func(ctx context.Context, id string, target order.Status) (order.Order, error) {
			t.Fatal("no network call may be issued for an illegal transition")
			return order.Order{}, nil
		},
	}
	tr := engine.NewTransitioner(fetcher, engine.NewStore())

	o := order.Order{ID: "1", Status: order.StatusPending}
	_, err := tr.Request(context.Background(), o, order.StatusPreparing)

	assert.True(t, errors.Is(err, engine.ErrIllegalTransition))
	assert.Equal(t, int64(0), fetcher.calls.Load())
}

func TestTransitioner_UnknownStatusRejectedLocally(t *testing.T) {
	fetcher := &mockTransitionFetcher{
		requestFunc: func(ctx context.Context, id string, target order.Status) (order.Order, error) {
			return order.Order{}, nil
		},
	}
	tr := engine.NewTransitioner(fetcher, engine.NewStore())

	o := order.Order{ID: "1", Status: order.Status("exploded")}
	_, err := tr.Request(context.Background(), o, order.StatusReady)

	assert.True(t, errors.Is(err, order.ErrInvalidStatus))
	assert.Equal(t, int64(0), fetcher.calls.Load())
}

func TestTransitioner_SuccessReconcilesStore(t *testing.T) {
	now := time.Now().UTC()
	store := engine.NewStore()
	store.Replace(engine.KeyAllOrders, []order.Order{
		{ID: "1", Status: order.StatusPreparing, UpdatedAt: now},
	})

	fetcher := &mockTransitionFetcher{
		requestFunc: func(ctx context.Context, id string, target order.Status) (order.Order, error) {
			return order.Order{ID: id, Status: target, UpdatedAt: now.Add(time.Second)}, nil
		},
	}
	tr := engine.NewTransitioner(fetcher, store)

	updated, err := tr.Request(context.Background(), order.Order{ID: "1", Status: order.StatusPreparing}, order.StatusReady)
	require.NoError(t, err)
	assert.Equal(t, order.StatusReady, updated.Status)

	snap, _ := store.Snapshot(engine.KeyAllOrders)
	assert.Equal(t, order.StatusReady, snap[0].Status)
	assert.False(t, tr.Pending("1"))
}

func TestTransitioner_ConcurrentRequestRejected(t *testing.T) {
	block := make(chan struct{})
	fetcher := &mockTransitionFetcher{
		requestFunc: func(ctx context.Context, id string, target order.Status) (order.Order, error) {
			<-block
			return order.Order{ID: id, Status: target, UpdatedAt: time.Now()}, nil
		},
	}
	tr := engine.NewTransitioner(fetcher, engine.NewStore())
	o := order.Order{ID: "1", Status: order.StatusPreparing}

	firstDone := make(chan error, 1)
	go func() {
		_, err := tr.Request(context.Background(), o, order.StatusReady)
		firstDone <- err
	}()

	require.Eventually(t, func() bool { return tr.Pending("1") }, 2*time.Second, time.Millisecond)

	_, err := tr.Request(context.Background(), o, order.StatusReady)
	assert.True(t, errors.Is(err, engine.ErrTransitionInProgress))

	close(block)
	require.NoError(t, <-firstDone)
	assert.False(t, tr.Pending("1"))
}

func TestTransitioner_ServerRejectionLeavesStoreUntouched(t *testing.T) {
	now := time.Now().UTC()
	store := engine.NewStore()
	store.Replace(engine.KeyAllOrders, []order.Order{
		{ID: "1", Status: order.StatusPreparing, UpdatedAt: now},
	})

	rejection := &fetch.ServerRejectedError{StatusCode: http.StatusConflict, Reason: "lost the race"}
	fetcher := &mockTransitionFetcher{
		requestFunc: func(ctx context.Context, id string, target order.Status) (order.Order, error) {
			return order.Order{}, rejection
		},
	}
	tr := engine.NewTransitioner(fetcher, store)

	_, err := tr.Request(context.Background(), order.Order{ID: "1", Status: order.StatusPreparing}, order.StatusReady)

	var rejected *fetch.ServerRejectedError
	require.True(t, errors.As(err, &rejected), "failure kinds surface verbatim")

	snap, _ := store.Snapshot(engine.KeyAllOrders)
	assert.Equal(t, order.StatusPreparing, snap[0].Status)
	assert.False(t, tr.Pending("1"), "pending marker is cleared on failure")
}
