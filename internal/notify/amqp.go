package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/quickbite/ordersync/internal/engine"
	"github.com/quickbite/ordersync/internal/order"
)

var _ engine.Observer = (*Publisher)(nil)

// Event is the wire form of one diff entry published to the exchange.
type Event struct {
	Kind      string       `json:"kind"` // order_appeared | status_changed
	Key       string       `json:"key"`
	Order     order.Order  `json:"order"`
	OldStatus order.Status `json:"oldStatus,omitempty"`
	At        time.Time    `json:"at"`
}

// Publisher forwards diff events to a fanout exchange so external
// notification consumers can react without polling themselves.
type Publisher struct {
	ch       *amqp091.Channel
	exchange string
}

// NewPublisher declares the fanout exchange and returns a publisher
// bound to it.
func NewPublisher(ch *amqp091.Channel, exchange string) (*Publisher, error) {
	if err := ch.ExchangeDeclare(exchange, "fanout", true, false, false, false, nil); err != nil {
		return nil, err
	}
	return &Publisher{ch: ch, exchange: exchange}, nil
}

func (p *Publisher) OnDiff(key string, d order.Diff) {
	now := time.Now().UTC()
	for _, o := range d.Appeared {
		p.publish(Event{Kind: "order_appeared", Key: key, Order: o, At: now})
	}
	for _, c := range d.StatusChanged {
		p.publish(Event{Kind: "status_changed", Key: key, Order: c.Order, OldStatus: c.Old, At: now})
	}
}

// OnPollFailure is a no-op: transient fetch failures are not broadcast.
func (p *Publisher) OnPollFailure(string, error) {}

func (p *Publisher) publish(ev Event) {
	body, err := json.Marshal(ev)
	if err != nil {
		log.Warn().Err(err).Str("kind", ev.Kind).Msg("encode notification event")
		return
	}
	err = p.ch.PublishWithContext(context.Background(), p.exchange, "", false, false, amqp091.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		// A broker hiccup must never fail the poll that produced the event.
		log.Warn().Err(err).Str("kind", ev.Kind).Msg("publish notification event")
	}
}
