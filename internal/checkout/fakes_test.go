package checkout

import (
	"context"
	"fmt"
	"sync"

	"github.com/iliyamo/cineweb-backoffice/internal/model"
	"github.com/iliyamo/cineweb-backoffice/internal/queue"
	"github.com/iliyamo/cineweb-backoffice/internal/repository"
)

type memStore struct {
	mu      sync.Mutex
	tickets []model.Ticket
	fail    map[string]error
	drafts  []model.TicketDraft
	listErr error
}

func (m *memStore) Create(_ context.Context, d model.TicketDraft) (model.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts = append(m.drafts, d)
	if err := m.fail[d.SeatCode]; err != nil {
		return model.Ticket{}, err
	}
	for _, t := range m.tickets {
		if t.SessionID == d.SessionID && t.SeatCode == d.SeatCode {
			return model.Ticket{}, fmt.Errorf("insert ticket: %w", repository.ErrConflict)
		}
	}
	t := model.Ticket{
		ID:        uint64(len(m.tickets) + 1),
		SessionID: d.SessionID,
		SeatCode:  d.SeatCode,
		Kind:      d.Kind,
		Price:     d.Price,
		SoldAt:    d.SoldAt,
	}
	m.tickets = append(m.tickets, t)
	return t, nil
}

func (m *memStore) ListBySession(_ context.Context, sessionID uint64) ([]model.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []model.Ticket
	for _, t := range m.tickets {
		if t.SessionID == sessionID {
			out = append(out, t)
		}
	}
	return out, nil
}

// sell simulates another operator's sale.
func (m *memStore) sell(sessionID uint64, seat string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tickets = append(m.tickets, model.Ticket{ID: uint64(len(m.tickets) + 1), SessionID: sessionID, SeatCode: seat, Kind: "full"})
}

type memHolds struct {
	mu    sync.Mutex
	owner map[string]string
}

func newMemHolds() *memHolds { return &memHolds{owner: map[string]string{}} }

func holdKey(sessionID uint64, seat string) string { return fmt.Sprintf("%d:%s", sessionID, seat) }

func (h *memHolds) Acquire(_ context.Context, sessionID uint64, seat, owner string) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	k := holdKey(sessionID, seat)
	if cur, ok := h.owner[k]; ok && cur != owner {
		return false, nil
	}
	h.owner[k] = owner
	return true, nil
}

func (h *memHolds) Release(_ context.Context, sessionID uint64, owner string, seats ...string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, s := range seats {
		k := holdKey(sessionID, s)
		if h.owner[k] == owner {
			delete(h.owner, k)
		}
	}
	return nil
}

func (h *memHolds) HeldByOthers(_ context.Context, sessionID uint64, owner string) ([]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	prefix := fmt.Sprintf("%d:", sessionID)
	for k, o := range h.owner {
		if o != owner && len(k) > len(prefix) && k[:len(prefix)] == prefix {
			out = append(out, k[len(prefix):])
		}
	}
	return out, nil
}

func (h *memHolds) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.owner)
}

type chanPublisher struct {
	events chan queue.TicketsSoldEvent
	err    error
}

func (p *chanPublisher) PublishTicketsSold(_ context.Context, ev queue.TicketsSoldEvent) error {
	p.events <- ev
	return p.err
}

// cancellingStore cancels the request context after its first insert, the
// way a browser closed mid-commit would, and records whether each insert
// saw a live context.
type cancellingStore struct {
	memStore
	cancel context.CancelFunc
	ctxErr []error
}

func (s *cancellingStore) Create(ctx context.Context, d model.TicketDraft) (model.Ticket, error) {
	s.ctxErr = append(s.ctxErr, ctx.Err())
	t, err := s.memStore.Create(ctx, d)
	s.cancel()
	return t, err
}

// blockingStore parks every insert until release is closed.
type blockingStore struct {
	memStore
	entered chan struct{}
	release chan struct{}
}

func (s *blockingStore) Create(ctx context.Context, d model.TicketDraft) (model.Ticket, error) {
	s.entered <- struct{}{}
	<-s.release
	return s.memStore.Create(ctx, d)
}
