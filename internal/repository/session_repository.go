package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/cineweb-backoffice/internal/model"
)

// SessionRepo encapsulates the queries of the sessions table.
type SessionRepo struct {
	db *sql.DB
}

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

const sessionDetailQuery = `SELECT s.id, s.movie_id, s.room_id,
	       DATE_FORMAT(s.session_date, '%Y-%m-%d'), TIME_FORMAT(s.session_time, '%H:%i'), s.created_at,
	       m.title, r.number, r.capacity,
	       (SELECT COUNT(*) FROM tickets t WHERE t.session_id = s.id)
	FROM sessions s
	JOIN movies m ON m.id = s.movie_id
	JOIN rooms r ON r.id = s.room_id`

func scanSessionDetail(row interface{ Scan(...any) error }, d *model.SessionDetail) error {
	return row.Scan(&d.ID, &d.MovieID, &d.RoomID, &d.Date, &d.Time, &d.CreatedAt,
		&d.MovieTitle, &d.RoomNumber, &d.RoomCapacity, &d.SoldSeats)
}

// Create inserts a session.  Unknown movie or room ids fail with
// ErrReference.
func (r *SessionRepo) Create(ctx context.Context, s *model.Session) error {
	const q = "INSERT INTO sessions (movie_id, room_id, session_date, session_time) VALUES (?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, q, s.MovieID, s.RoomID, s.Date, s.Time)
	if err != nil {
		return mapError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	got, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*s = got.Session
	return nil
}

// GetByID returns the session joined with its movie and room.
func (r *SessionRepo) GetByID(ctx context.Context, id uint64) (*model.SessionDetail, error) {
	var d model.SessionDetail
	err := scanSessionDetail(r.db.QueryRowContext(ctx, sessionDetailQuery+" WHERE s.id = ?", id), &d)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// List returns sessions in chronological order.  A non-empty date
// ("2006-01-02") restricts the list to that day.
func (r *SessionRepo) List(ctx context.Context, date string) ([]model.SessionDetail, error) {
	q := sessionDetailQuery
	var args []any
	if date != "" {
		q += " WHERE s.session_date = ?"
		args = append(args, date)
	}
	q += " ORDER BY s.session_date, s.session_time, s.id"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.SessionDetail{}
	for rows.Next() {
		var d model.SessionDetail
		if err := scanSessionDetail(rows, &d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Delete fails with ErrConflict once the session sold a ticket.
func (r *SessionRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return mapError(err)
	}
	return affected(res)
}
