package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quickbite/ordersync/internal/engine"
	"github.com/quickbite/ordersync/internal/order"
)

// Metrics holds the tracker's Prometheus collectors.
type Metrics struct {
	Polls          *prometheus.CounterVec
	PollFailures   *prometheus.CounterVec
	OrdersAppeared prometheus.Counter
	StatusChanges  prometheus.Counter
}

// New registers the collectors under the given subsystem and returns them.
func New(service string) *Metrics {
	polls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ordersync",
		Subsystem: service,
		Name:      "polls_total",
		Help:      "Total number of completed polls.",
	}, []string{"key", "result"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ordersync",
		Subsystem: service,
		Name:      "poll_failures_total",
		Help:      "Total number of failed polls.",
	}, []string{"key"})
	appeared := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ordersync",
		Subsystem: service,
		Name:      "orders_appeared_total",
		Help:      "Orders that newly appeared in a snapshot.",
	})
	changed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ordersync",
		Subsystem: service,
		Name:      "status_changes_total",
		Help:      "Order status changes detected between polls.",
	})

	prometheus.MustRegister(polls, failures, appeared, changed)
	return &Metrics{
		Polls:          polls,
		PollFailures:   failures,
		OrdersAppeared: appeared,
		StatusChanges:  changed,
	}
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

var _ engine.Observer = (*Observer)(nil)

// Observer adapts Metrics to the poller's observer interface.
type Observer struct {
	m *Metrics
}

func NewObserver(m *Metrics) *Observer {
	return &Observer{m: m}
}

func (o *Observer) OnDiff(key string, d order.Diff) {
	o.m.Polls.WithLabelValues(key, "ok").Inc()
	o.m.OrdersAppeared.Add(float64(len(d.Appeared)))
	o.m.StatusChanges.Add(float64(len(d.StatusChanged)))
}

func (o *Observer) OnPollFailure(key string, err error) {
	o.m.Polls.WithLabelValues(key, "error").Inc()
	o.m.PollFailures.WithLabelValues(key).Inc()
}
