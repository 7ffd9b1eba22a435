package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/cineweb-backoffice/internal/model"
	"github.com/iliyamo/cineweb-backoffice/internal/pricing"
	"github.com/iliyamo/cineweb-backoffice/internal/queue"
	"github.com/iliyamo/cineweb-backoffice/internal/repository"
)

// TicketStore persists one ticket.  A duplicate (session, seat) pair must be
// reported with an error wrapping repository.ErrConflict.
type TicketStore interface {
	Create(ctx context.Context, draft model.TicketDraft) (model.Ticket, error)
}

// SalePublisher receives an event for every commit that sold something.
type SalePublisher interface {
	PublishTicketsSold(ctx context.Context, ev queue.TicketsSoldEvent) error
}

const publishTimeout = 5 * time.Second

// Failure is a cart entry that was not persisted.  Err is a *ConflictError
// or a *TransportError.
type Failure struct {
	SeatCode string       `json:"seat_code"`
	Kind     pricing.Kind `json:"kind"`
	Err      error        `json:"-"`
}

// Conflict reports whether the seat was lost to another sale.
func (f Failure) Conflict() bool {
	var ce *ConflictError
	return errors.As(f.Err, &ce)
}

func (f Failure) MarshalJSON() ([]byte, error) {
	reason := "transport"
	if f.Conflict() {
		reason = "conflict"
	}
	msg := ""
	if f.Err != nil {
		msg = f.Err.Error()
	}
	return json.Marshal(struct {
		SeatCode string       `json:"seat_code"`
		Kind     pricing.Kind `json:"kind"`
		Reason   string       `json:"reason"`
		Error    string       `json:"error"`
	}{f.SeatCode, f.Kind, reason, msg})
}

// CommitResult is the per-entry outcome of a commit.  Count and Total cover
// the persisted tickets only.
type CommitResult struct {
	SessionID uint64         `json:"session_id"`
	Tickets   []model.Ticket `json:"tickets"`
	Failed    []Failure      `json:"failed"`
	Count     int            `json:"count"`
	Total     pricing.Money  `json:"total"`
}

// Complete is true when every entry was persisted.
func (r CommitResult) Complete() bool { return len(r.Failed) == 0 }

// Conflicts counts the entries lost to concurrent sales.
func (r CommitResult) Conflicts() int {
	n := 0
	for _, f := range r.Failed {
		if f.Conflict() {
			n++
		}
	}
	return n
}

// Committer turns a cart into ticket records, one insert per entry.
type Committer struct {
	store  TicketStore
	events SalePublisher
	now    func() time.Time
}

// NewCommitter builds a committer.  events may be nil.
func NewCommitter(store TicketStore, events SalePublisher) *Committer {
	return &Committer{store: store, events: events, now: time.Now}
}

// WithClock replaces the clock used for sold_at.
func (c *Committer) WithClock(now func() time.Time) *Committer {
	c.now = now
	return c
}

// Commit submits entries in order.  A failed entry never undoes the ones
// before it; the caller gets one outcome per entry.  ctx is consulted once
// before the first submission: when it is already done nothing reaches the
// store and every entry is a transport failure.  Once submissions start
// the batch runs to the end even if ctx is cancelled.
func (c *Committer) Commit(ctx context.Context, sessionID uint64, entries []Entry) (CommitResult, error) {
	return c.commit(ctx, "", sessionID, entries)
}

func (c *Committer) commit(ctx context.Context, checkoutID string, sessionID uint64, entries []Entry) (CommitResult, error) {
	if len(entries) == 0 {
		return CommitResult{}, &ValidationError{Reason: "cart is empty"}
	}
	if sessionID == 0 {
		return CommitResult{}, &ValidationError{Reason: "session is required"}
	}
	for _, e := range entries {
		if !e.Kind.Valid() {
			return CommitResult{}, &ValidationError{Reason: fmt.Sprintf("seat %s has unknown kind %q", e.SeatCode, e.Kind)}
		}
	}

	res := CommitResult{SessionID: sessionID, Tickets: []model.Ticket{}, Failed: []Failure{}}
	if err := ctx.Err(); err != nil {
		for _, e := range entries {
			res.Failed = append(res.Failed, Failure{SeatCode: e.SeatCode, Kind: e.Kind, Err: &TransportError{SeatCode: e.SeatCode, Err: err}})
		}
		return res, nil
	}

	ctx = context.WithoutCancel(ctx)
	soldAt := c.now().UTC()
	for _, e := range entries {
		t, err := c.store.Create(ctx, model.TicketDraft{
			SessionID: sessionID,
			SeatCode:  e.SeatCode,
			Kind:      e.Kind,
			Price:     pricing.PriceFor(e.Kind),
			SoldAt:    soldAt,
		})
		if err != nil {
			res.Failed = append(res.Failed, Failure{SeatCode: e.SeatCode, Kind: e.Kind, Err: classify(e.SeatCode, err)})
			continue
		}
		res.Tickets = append(res.Tickets, t)
		res.Count++
		res.Total += t.Price
	}

	if res.Count > 0 && c.events != nil {
		ev := soldEvent(checkoutID, res, soldAt)
		go func() {
			pctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
			defer cancel()
			if err := c.events.PublishTicketsSold(pctx, ev); err != nil {
				log.Warnf("checkout: publish %s for session %d failed: %v", queue.TicketsSoldQueue, ev.SessionID, err)
			}
		}()
	}
	return res, nil
}

func classify(seat string, err error) error {
	if errors.Is(err, repository.ErrConflict) {
		return &ConflictError{SeatCode: seat, Err: err}
	}
	return &TransportError{SeatCode: seat, Err: err}
}

func soldEvent(checkoutID string, res CommitResult, soldAt time.Time) queue.TicketsSoldEvent {
	ev := queue.TicketsSoldEvent{
		CheckoutID: checkoutID,
		SessionID:  res.SessionID,
		Count:      res.Count,
		TotalCents: res.Total.Cents(),
		SoldAt:     soldAt.Format(time.RFC3339),
	}
	for _, t := range res.Tickets {
		ev.Seats = append(ev.Seats, queue.SoldSeat{
			TicketID:   t.ID,
			SeatCode:   t.SeatCode,
			Kind:       string(t.Kind),
			PriceCents: t.Price.Cents(),
		})
	}
	return ev
}
