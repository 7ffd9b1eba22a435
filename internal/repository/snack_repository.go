package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/cineweb-backoffice/internal/model"
)

// SnackRepo encapsulates the queries of the snacks table.
type SnackRepo struct {
	db *sql.DB
}

func NewSnackRepo(db *sql.DB) *SnackRepo { return &SnackRepo{db: db} }

const snackColumns = "id, name, description, price_cents, category, created_at, updated_at"

func scanSnack(row interface{ Scan(...any) error }, s *model.Snack) error {
	return row.Scan(&s.ID, &s.Name, &s.Description, &s.Price, &s.Category, &s.CreatedAt, &s.UpdatedAt)
}

func (r *SnackRepo) Create(ctx context.Context, s *model.Snack) error {
	const q = "INSERT INTO snacks (name, description, price_cents, category) VALUES (?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, q, s.Name, s.Description, s.Price.Cents(), s.Category)
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
	*s = *got
	return nil
}

func (r *SnackRepo) GetByID(ctx context.Context, id uint64) (*model.Snack, error) {
	var s model.Snack
	err := scanSnack(r.db.QueryRowContext(ctx, "SELECT "+snackColumns+" FROM snacks WHERE id = ?", id), &s)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns the menu grouped by category.
func (r *SnackRepo) List(ctx context.Context) ([]model.Snack, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+snackColumns+" FROM snacks ORDER BY category, name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Snack{}
	for rows.Next() {
		var s model.Snack
		if err := scanSnack(rows, &s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SnackRepo) Update(ctx context.Context, s *model.Snack) error {
	const q = `UPDATE snacks
	           SET name = ?, description = ?, price_cents = ?, category = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, s.Name, s.Description, s.Price.Cents(), s.Category, s.ID)
	if err != nil {
		return mapError(err)
	}
	if err := affected(res); err != nil {
		return err
	}
	got, err := r.GetByID(ctx, s.ID)
	if err != nil {
		return err
	}
	*s = *got
	return nil
}

func (r *SnackRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM snacks WHERE id = ?", id)
	if err != nil {
		return mapError(err)
	}
	return affected(res)
}
