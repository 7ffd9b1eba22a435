package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/cineweb-backoffice/internal/model"
)

// ErrRoomHasSales is returned when the capacity of a room with sold
// tickets would change; its seat codes would no longer match the tickets.
var ErrRoomHasSales = fmt.Errorf("%w: room has sold tickets", ErrConflict)

// RoomRepo encapsulates the queries of the rooms table.
type RoomRepo struct {
	db *sql.DB
}

func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

const roomColumns = "id, number, capacity, created_at, updated_at"

func (r *RoomRepo) Create(ctx context.Context, room *model.Room) error {
	res, err := r.db.ExecContext(ctx, "INSERT INTO rooms (number, capacity) VALUES (?, ?)", room.Number, room.Capacity)
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
	*room = *got
	return nil
}

// GetByID returns ErrNotFound when no room has the id.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	var m model.Room
	err := r.db.QueryRowContext(ctx, "SELECT "+roomColumns+" FROM rooms WHERE id = ?", id).
		Scan(&m.ID, &m.Number, &m.Capacity, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *RoomRepo) List(ctx context.Context) ([]model.Room, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+roomColumns+" FROM rooms ORDER BY number")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Room{}
	for rows.Next() {
		var m model.Room
		if err := rows.Scan(&m.ID, &m.Number, &m.Capacity, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Update changes number and capacity.  A capacity change is refused with
// ErrRoomHasSales once any session of the room sold a ticket.  The room
// row is locked for the duration of the check.
func (r *RoomRepo) Update(ctx context.Context, room *model.Room) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var current uint32
	err = tx.QueryRowContext(ctx, "SELECT capacity FROM rooms WHERE id = ? FOR UPDATE", room.ID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if current != room.Capacity {
		const qSold = `SELECT COUNT(*) FROM tickets t
		               JOIN sessions s ON s.id = t.session_id
		               WHERE s.room_id = ?`
		var sold int64
		if err := tx.QueryRowContext(ctx, qSold, room.ID).Scan(&sold); err != nil {
			return err
		}
		if sold > 0 {
			return ErrRoomHasSales
		}
	}

	const qUpdate = "UPDATE rooms SET number = ?, capacity = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := tx.ExecContext(ctx, qUpdate, room.Number, room.Capacity, room.ID); err != nil {
		return mapError(err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	got, err := r.GetByID(ctx, room.ID)
	if err != nil {
		return err
	}
	*room = *got
	return nil
}

// Delete fails with ErrConflict while sessions reference the room.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM rooms WHERE id = ?", id)
	if err != nil {
		return mapError(err)
	}
	return affected(res)
}
