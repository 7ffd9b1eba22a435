// Package service holds outbound integrations used by the HTTP layer.
package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/cineweb-backoffice/internal/queue"
)

// Publisher sends sale events to RabbitMQ.  Each publication opens its
// own connection so a broker outage never poisons later calls.
type Publisher struct {
	URL string
}

func NewPublisher(url string) *Publisher { return &Publisher{URL: url} }

// PublishTicketsSold declares the durable tickets.sold queue and publishes
// ev as a persistent JSON message.  Errors are logged and returned; the
// checkout ignores them.
func (p *Publisher) PublishTicketsSold(ctx context.Context, ev queue.TicketsSoldEvent) error {
	msg, err := newPublishing(ev, time.Now())
	if err != nil {
		return err
	}
	conn, err := amqp.DialConfig(p.URL, amqp.Config{Heartbeat: 10 * time.Second, Locale: "en_US", Dial: dialer(ctx)})
	if err != nil {
		log.Warnf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Warnf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queue.TicketsSoldQueue, true, false, false, false, nil); err != nil {
		log.Warnf("rabbitmq: queue declare failed: %v", err)
		return err
	}
	if err := ch.PublishWithContext(ctx, "", queue.TicketsSoldQueue, false, false, msg); err != nil {
		log.Warnf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}

func newPublishing(ev queue.TicketsSoldEvent, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    now.UTC(),
		Type:         queue.TicketsSoldQueue,
		Body:         body,
	}, nil
}
