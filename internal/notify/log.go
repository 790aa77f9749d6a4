// Package notify fans poll events out to notification surfaces. The
// rendering itself (sound, badges) lives outside this process; these
// observers only deliver the events.
package notify

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/quickbite/ordersync/internal/engine"
	"github.com/quickbite/ordersync/internal/order"
)

var _ engine.Observer = (*LogObserver)(nil)

// LogObserver writes human-facing notification lines for diff events.
type LogObserver struct {
	logger zerolog.Logger
}

func NewLogObserver() *LogObserver {
	return &LogObserver{logger: log.With().Str("component", "notify").Logger()}
}

func (l *LogObserver) OnDiff(key string, d order.Diff) {
	for _, o := range d.Appeared {
		l.logger.Info().
			Str("key", key).
			Str("order_number", o.OrderNumber).
			Str("customer", o.Customer.Name).
			Float64("total", o.TotalAmount).
			Msg("new order received")
	}
	for _, c := range d.StatusChanged {
		l.logger.Info().
			Str("key", key).
			Str("order_number", c.Order.OrderNumber).
			Str("from", c.Old.String()).
			Str("to", c.Order.Status.String()).
			Msg("order status changed")
	}
}

func (l *LogObserver) OnPollFailure(key string, err error) {
	l.logger.Warn().Err(err).Str("key", key).Msg("poll failure")
}
