package handler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iliyamo/cineweb-backoffice/internal/model"
	"github.com/iliyamo/cineweb-backoffice/internal/repository"
)

type fakeMovies struct {
	mu     sync.Mutex
	movies map[uint64]model.Movie
	delErr error
}

func (f *fakeMovies) Create(_ context.Context, m *model.Movie) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.movies == nil {
		f.movies = map[uint64]model.Movie{}
	}
	m.ID = uint64(len(f.movies) + 1)
	f.movies[m.ID] = *m
	return nil
}

func (f *fakeMovies) GetByID(_ context.Context, id uint64) (*model.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.movies[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (f *fakeMovies) List(context.Context) ([]model.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Movie{}
	for _, m := range f.movies {
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeMovies) Update(_ context.Context, m *model.Movie) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.movies[m.ID]; !ok {
		return repository.ErrNotFound
	}
	f.movies[m.ID] = *m
	return nil
}

func (f *fakeMovies) Delete(_ context.Context, id uint64) error {
	if f.delErr != nil {
		return f.delErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.movies, id)
	return nil
}

type fakeRooms struct {
	rooms     map[uint64]model.Room
	updateErr error
}

func (f *fakeRooms) Create(_ context.Context, r *model.Room) error {
	for _, existing := range f.rooms {
		if existing.Number == r.Number {
			return fmt.Errorf("%w: duplicate number", repository.ErrConflict)
		}
	}
	r.ID = uint64(len(f.rooms) + 1)
	f.rooms[r.ID] = *r
	return nil
}

func (f *fakeRooms) GetByID(_ context.Context, id uint64) (*model.Room, error) {
	r, ok := f.rooms[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (f *fakeRooms) List(context.Context) ([]model.Room, error) {
	out := []model.Room{}
	for _, r := range f.rooms {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRooms) Update(_ context.Context, r *model.Room) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.rooms[r.ID]; !ok {
		return repository.ErrNotFound
	}
	f.rooms[r.ID] = *r
	return nil
}

func (f *fakeRooms) Delete(_ context.Context, id uint64) error {
	delete(f.rooms, id)
	return nil
}

type fakeSessions struct {
	sessions map[uint64]model.SessionDetail
	created  []model.Session
}

func (f *fakeSessions) Create(_ context.Context, s *model.Session) error {
	s.ID = 100 + uint64(len(f.created))
	f.created = append(f.created, *s)
	return nil
}

func (f *fakeSessions) GetByID(_ context.Context, id uint64) (*model.SessionDetail, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (f *fakeSessions) List(_ context.Context, date string) ([]model.SessionDetail, error) {
	out := []model.SessionDetail{}
	for _, s := range f.sessions {
		if date == "" || s.Date == date {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSessions) Delete(_ context.Context, id uint64) error {
	if _, ok := f.sessions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.sessions, id)
	return nil
}

// fakeTickets is an in-memory ticket table with the (session, seat)
// uniqueness of the real one.
type fakeTickets struct {
	mu      sync.Mutex
	tickets []model.Ticket
	fail    error
}

func (f *fakeTickets) Create(_ context.Context, d model.TicketDraft) (model.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return model.Ticket{}, f.fail
	}
	for _, t := range f.tickets {
		if t.SessionID == d.SessionID && t.SeatCode == d.SeatCode {
			return model.Ticket{}, fmt.Errorf("insert ticket %s: %w", d.SeatCode, repository.ErrConflict)
		}
	}
	t := model.Ticket{ID: uint64(len(f.tickets) + 1), SessionID: d.SessionID, SeatCode: d.SeatCode, Kind: d.Kind, Price: d.Price, SoldAt: d.SoldAt}
	f.tickets = append(f.tickets, t)
	return t, nil
}

func (f *fakeTickets) ListBySession(_ context.Context, sessionID uint64) ([]model.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Ticket
	for _, t := range f.tickets {
		if t.SessionID == sessionID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTickets) ListDetailed(context.Context) ([]model.TicketDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.TicketDetail{}
	for i := len(f.tickets) - 1; i >= 0; i-- {
		out = append(out, model.TicketDetail{Ticket: f.tickets[i], MovieTitle: "Central do Brasil", RoomNumber: 3})
	}
	return out, nil
}

func (f *fakeTickets) Stats(context.Context) (model.TicketStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var s model.TicketStats
	for _, t := range f.tickets {
		s.Total++
		s.Revenue += t.Price
		if t.Kind == "half" {
			s.Half++
		} else {
			s.Full++
		}
	}
	return s, nil
}

func (f *fakeTickets) Delete(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tickets {
		if t.ID == id {
			f.tickets = append(f.tickets[:i], f.tickets[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeTickets) sell(sessionID uint64, seat string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tickets = append(f.tickets, model.Ticket{ID: uint64(len(f.tickets) + 1), SessionID: sessionID, SeatCode: seat, Kind: "full", Price: 3400, SoldAt: time.Now()})
}

type snackRecorder struct {
	created *model.Snack
}

func (s *snackRecorder) Create(_ context.Context, sn *model.Snack) error {
	sn.ID = 1
	*s.created = *sn
	return nil
}

func (s *snackRecorder) GetByID(context.Context, uint64) (*model.Snack, error) {
	return nil, repository.ErrNotFound
}

func (s *snackRecorder) List(context.Context) ([]model.Snack, error) { return []model.Snack{}, nil }

func (s *snackRecorder) Update(context.Context, *model.Snack) error { return repository.ErrNotFound }

func (s *snackRecorder) Delete(context.Context, uint64) error { return nil }
