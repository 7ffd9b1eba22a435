package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/cineweb-backoffice/internal/model"
	"github.com/iliyamo/cineweb-backoffice/internal/pricing"
	"github.com/iliyamo/cineweb-backoffice/internal/seating"
)

// TicketLister loads the tickets already sold for a session.
type TicketLister interface {
	ListBySession(ctx context.Context, sessionID uint64) ([]model.Ticket, error)
}

// Holder reserves seats for a short time on behalf of one checkout.  The
// unique constraint on tickets stays authoritative; holds only keep two
// operators from picking the same seat in the first place.
type Holder interface {
	Acquire(ctx context.Context, sessionID uint64, seat, owner string) (bool, error)
	Release(ctx context.Context, sessionID uint64, owner string, seats ...string) error
	HeldByOthers(ctx context.Context, sessionID uint64, owner string) ([]string, error)
}

// View is the state shown to the operator.
type View struct {
	ID        string          `json:"checkout_id"`
	SessionID uint64          `json:"session_id"`
	Seats     seating.SeatMap `json:"seat_map"`
	Cart      []Entry         `json:"cart"`
	Total     pricing.Money   `json:"total"`
}

// Session is one operator's checkout for one screening session.  It owns
// the cart and the occupancy snapshot the cart is validated against, and
// is torn down by Close or by a fully successful commit.  All methods are
// safe for concurrent use.
type Session struct {
	ID        string
	SessionID uint64
	Layout    seating.Layout

	tickets TicketLister
	holds   Holder
	now     func() time.Time

	mu      sync.Mutex
	cart    *Cart
	sold    seating.Occupancy
	held    seating.Occupancy
	touched time.Time
	closed  bool
}

// Open starts a checkout over a room of the given capacity and resolves
// the current occupancy.  holds may be nil.
func Open(ctx context.Context, id string, sessionID uint64, capacity int, tickets TicketLister, holds Holder) (*Session, error) {
	s := &Session{
		ID:        id,
		SessionID: sessionID,
		Layout:    seating.Generate(capacity),
		tickets:   tickets,
		holds:     holds,
		now:       time.Now,
		sold:      seating.Occupancy{},
		held:      seating.Occupancy{},
	}
	s.cart = NewCart(s.Layout, nil)
	s.touched = s.now()
	if _, err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Refresh re-resolves occupancy.  Cart entries that are no longer
// available are dropped and returned.
func (s *Session) Refresh(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	s.touched = s.now()
	return s.refreshLocked(ctx)
}

func (s *Session) refreshLocked(ctx context.Context) ([]string, error) {
	list, err := s.tickets.ListBySession(ctx, s.SessionID)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("load occupancy: %w", err)}
	}
	s.sold = seating.Resolve(s.SessionID, list)
	s.held = seating.Occupancy{}
	if s.holds != nil {
		codes, err := s.holds.HeldByOthers(ctx, s.SessionID, s.ID)
		if err != nil {
			log.Warnf("checkout: list holds for session %d: %v", s.SessionID, err)
		} else {
			s.held.Add(codes...)
		}
	}
	dropped := s.cart.Block(s.blocked())
	s.release(ctx, dropped...)
	return dropped, nil
}

// Toggle selects a free seat or deselects a seat already in the cart.  A
// closed checkout rejects every seat.
func (s *Session) Toggle(ctx context.Context, code string) Outcome {
	code = seating.NormalizeCode(code)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Rejected
	}
	s.touched = s.now()

	if _, in := s.cart.KindOf(code); in {
		s.cart.Remove(code)
		s.release(ctx, code)
		return Removed
	}
	if !s.cart.Selectable(code) {
		return Rejected
	}
	if s.holds != nil {
		ok, err := s.holds.Acquire(ctx, s.SessionID, code, s.ID)
		switch {
		case err != nil:
			// Redis trouble: fall back to optimistic selection.
			log.Warnf("checkout: hold %s for session %d: %v", code, s.SessionID, err)
		case !ok:
			s.held.Add(code)
			s.cart.Block(s.blocked())
			return Rejected
		}
	}
	return s.cart.Select(code)
}

// SetKind changes the ticket kind of a seat in the cart.
func (s *Session) SetKind(code string, kind pricing.Kind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.touched = s.now()
	return s.cart.SetKind(code, kind)
}

// Remove drops a seat from the cart and releases its hold.
func (s *Session) Remove(ctx context.Context, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.touched = s.now()
	code = seating.NormalizeCode(code)
	if !s.cart.Remove(code) {
		return false
	}
	s.release(ctx, code)
	return true
}

// View renders the seat map with the cart laid over the occupancy.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = s.now()
	return View{
		ID:        s.ID,
		SessionID: s.SessionID,
		Seats:     seating.BuildMap(s.Layout, s.blocked(), s.cart),
		Cart:      s.cart.Entries(),
		Total:     s.cart.Total(),
	}
}

// Commit drains the cart through c.  When some entries failed the
// occupancy is refreshed so the operator sees which seats were lost.
func (s *Session) Commit(ctx context.Context, c *Committer) (CommitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return CommitResult{}, ErrClosed
	}
	s.touched = s.now()

	entries := s.cart.Entries()
	res, err := c.commit(ctx, s.ID, s.SessionID, entries)
	if err != nil {
		return res, err
	}
	// The batch is persisted; the cleanup below outlives the request.
	ctx = context.WithoutCancel(ctx)
	s.cart.Clear()
	for _, t := range res.Tickets {
		s.sold.Add(t.SeatCode)
	}
	codes := make([]string, 0, len(entries))
	for _, e := range entries {
		codes = append(codes, e.SeatCode)
	}
	s.release(ctx, codes...)

	if !res.Complete() {
		if _, err := s.refreshLocked(ctx); err != nil {
			log.Warnf("checkout: refresh after partial commit of %s: %v", s.ID, err)
		}
	}
	return res, nil
}

// Close abandons the checkout and releases every hold it owns.  Nothing
// is persisted.
func (s *Session) Close(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	entries := s.cart.Entries()
	codes := make([]string, 0, len(entries))
	for _, e := range entries {
		codes = append(codes, e.SeatCode)
	}
	s.release(ctx, codes...)
	s.cart.Clear()
	s.closed = true
}

// Closed reports whether the checkout was torn down.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// IdleFor is how long the checkout has gone untouched.
func (s *Session) IdleFor(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.touched)
}

func (s *Session) blocked() seating.Occupancy {
	occ := s.sold.Clone()
	for code := range s.held {
		occ.Add(code)
	}
	return occ
}

func (s *Session) release(ctx context.Context, codes ...string) {
	if s.holds == nil || len(codes) == 0 {
		return
	}
	if err := s.holds.Release(ctx, s.SessionID, s.ID, codes...); err != nil {
		log.Warnf("checkout: release holds of %s: %v", s.ID, err)
	}
}
