package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
)

// SalesLogName is the file the consumer appends to inside its directory.
const SalesLogName = "sales.log"

// SalesConsumer appends every TicketsSoldEvent to <Dir>/sales.log.
type SalesConsumer struct {
	URL string
	Dir string
}

// Run connects to the broker and consumes until ctx is done, reconnecting
// with exponential backoff.  It returns ctx.Err().
func (s SalesConsumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(s.URL)
		if err != nil {
			log.Warnf("sales-consumer: dial broker: %v; retrying in %s", err, backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = s.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warnf("sales-consumer: consume loop ended: %v; reconnecting", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (s SalesConsumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warnf("sales-consumer: set QoS: %v", err)
	}
	if _, err := ch.QueueDeclare(TicketsSoldQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.ConsumeWithContext(ctx, TicketsSoldQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := s.Handle(d.Body); err != nil {
			log.Errorf("sales-consumer: %v", err)
			_ = d.Nack(false, false) // drop it, requeueing would loop
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

// Handle decodes one message and appends its line to the sales log.
func (s SalesConsumer) Handle(body []byte) error {
	var ev TicketsSoldEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", s.Dir, err)
	}
	f, err := os.OpenFile(filepath.Join(s.Dir, SalesLogName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open sales log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatSale(ev)); err != nil {
		return fmt.Errorf("write sales log: %w", err)
	}
	return nil
}

// FormatSale renders one sales log line, newline included.
func FormatSale(ev TicketsSoldEvent) string {
	seats := make([]string, len(ev.Seats))
	for i, st := range ev.Seats {
		seats[i] = st.SeatCode + "/" + st.Kind
	}
	return fmt.Sprintf("[%s] Tickets sold | session_id=%d | checkout=%s | count=%d | total=%d.%02d | seats=[%s]\n",
		ev.SoldAt, ev.SessionID, ev.CheckoutID, ev.Count, ev.TotalCents/100, ev.TotalCents%100, strings.Join(seats, ","))
}
