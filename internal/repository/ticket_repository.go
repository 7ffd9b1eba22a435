package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/cineweb-backoffice/internal/model"
)

// TicketRepo encapsulates the queries of the tickets table.  Tickets are
// only ever inserted or deleted.
type TicketRepo struct {
	db *sql.DB
}

func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

// Create inserts one ticket.  The unique (session_id, seat_code) key makes
// a second sale of the same seat fail with ErrConflict; an unknown
// session fails with ErrReference.
func (r *TicketRepo) Create(ctx context.Context, d model.TicketDraft) (model.Ticket, error) {
	const q = "INSERT INTO tickets (session_id, seat_code, kind, price_cents, sold_at) VALUES (?, ?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, q, d.SessionID, d.SeatCode, string(d.Kind), d.Price.Cents(), d.SoldAt.UTC())
	if err != nil {
		return model.Ticket{}, fmt.Errorf("insert ticket %s: %w", d.SeatCode, mapError(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Ticket{}, err
	}
	return model.Ticket{
		ID:        uint64(id),
		SessionID: d.SessionID,
		SeatCode:  d.SeatCode,
		Kind:      d.Kind,
		Price:     d.Price,
		SoldAt:    d.SoldAt.UTC(),
	}, nil
}

// ListBySession returns the tickets sold for one session.
func (r *TicketRepo) ListBySession(ctx context.Context, sessionID uint64) ([]model.Ticket, error) {
	const q = `SELECT id, session_id, seat_code, kind, price_cents, sold_at
	           FROM tickets WHERE session_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Ticket{}
	for rows.Next() {
		var t model.Ticket
		if err := rows.Scan(&t.ID, &t.SessionID, &t.SeatCode, &t.Kind, &t.Price, &t.SoldAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListDetailed returns every ticket joined with its session, movie and
// room, newest sale first.
func (r *TicketRepo) ListDetailed(ctx context.Context) ([]model.TicketDetail, error) {
	const q = `SELECT t.id, t.session_id, t.seat_code, t.kind, t.price_cents, t.sold_at,
	                  DATE_FORMAT(s.session_date, '%Y-%m-%d'), TIME_FORMAT(s.session_time, '%H:%i'),
	                  m.title, r.number
	           FROM tickets t
	           JOIN sessions s ON s.id = t.session_id
	           JOIN movies m ON m.id = s.movie_id
	           JOIN rooms r ON r.id = s.room_id
	           ORDER BY t.sold_at DESC, t.id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.TicketDetail{}
	for rows.Next() {
		var d model.TicketDetail
		if err := rows.Scan(&d.ID, &d.SessionID, &d.SeatCode, &d.Kind, &d.Price, &d.SoldAt,
			&d.SessionDate, &d.SessionTime, &d.MovieTitle, &d.RoomNumber); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Stats counts tickets and revenue.
func (r *TicketRepo) Stats(ctx context.Context) (model.TicketStats, error) {
	const q = `SELECT COUNT(*), COALESCE(SUM(price_cents), 0),
	                  COALESCE(SUM(kind = 'full'), 0), COALESCE(SUM(kind = 'half'), 0)
	           FROM tickets`
	var s model.TicketStats
	if err := r.db.QueryRowContext(ctx, q).Scan(&s.Total, &s.Revenue, &s.Full, &s.Half); err != nil {
		return model.TicketStats{}, err
	}
	return s, nil
}

// Delete removes a ticket, which frees its seat.
func (r *TicketRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM tickets WHERE id = ?", id)
	if err != nil {
		return err
	}
	return affected(res)
}
