package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/cineweb-backoffice/internal/model"
)

// MovieRepo encapsulates the queries of the movies table.
type MovieRepo struct {
	db *sql.DB
}

func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

const movieColumns = `id, title, synopsis, rating, duration_min, genre,
	DATE_FORMAT(start_date, '%Y-%m-%d'), DATE_FORMAT(end_date, '%Y-%m-%d'),
	created_at, updated_at`

func scanMovie(row interface{ Scan(...any) error }, m *model.Movie) error {
	return row.Scan(&m.ID, &m.Title, &m.Synopsis, &m.Rating, &m.DurationMin, &m.Genre,
		&m.StartDate, &m.EndDate, &m.CreatedAt, &m.UpdatedAt)
}

// Create inserts m and reloads it so defaults are populated.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	const q = `INSERT INTO movies (title, synopsis, rating, duration_min, genre, start_date, end_date)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, m.Title, m.Synopsis, m.Rating, m.DurationMin, m.Genre, m.StartDate, m.EndDate)
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
	*m = *got
	return nil
}

// GetByID returns ErrNotFound when no movie has the id.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	q := "SELECT " + movieColumns + " FROM movies WHERE id = ?"
	var m model.Movie
	if err := scanMovie(r.db.QueryRowContext(ctx, q, id), &m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// List returns every movie, most recent release first.
func (r *MovieRepo) List(ctx context.Context) ([]model.Movie, error) {
	q := "SELECT " + movieColumns + " FROM movies ORDER BY start_date DESC, id DESC"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Movie{}
	for rows.Next() {
		var m model.Movie
		if err := scanMovie(rows, &m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Update overwrites the editable fields of m.
func (r *MovieRepo) Update(ctx context.Context, m *model.Movie) error {
	const q = `UPDATE movies
	           SET title = ?, synopsis = ?, rating = ?, duration_min = ?, genre = ?,
	               start_date = ?, end_date = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, m.Title, m.Synopsis, m.Rating, m.DurationMin, m.Genre, m.StartDate, m.EndDate, m.ID)
	if err != nil {
		return mapError(err)
	}
	if err := affected(res); err != nil {
		return err
	}
	got, err := r.GetByID(ctx, m.ID)
	if err != nil {
		return err
	}
	*m = *got
	return nil
}

// Delete fails with ErrConflict while sessions reference the movie.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM movies WHERE id = ?", id)
	if err != nil {
		return mapError(err)
	}
	return affected(res)
}
