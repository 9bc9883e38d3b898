package repository

import (
	"context"
	"database/sql"

	"github.com/a-marchenko/hookah-notes-api/internal/model"
)

// TobaccoRepo reads tobacco allocation rows for the public lookup routes.
type TobaccoRepo struct{ DB *sql.DB }

func NewTobaccoRepo(db *sql.DB) *TobaccoRepo { return &TobaccoRepo{DB: db} }

// GetByID fetches a single tobacco row.
func (r *TobaccoRepo) GetByID(ctx context.Context, id uint64) (model.Tobacco, error) {
	var t model.Tobacco
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, note_id, brand, name, percentage FROM tobaccos WHERE id=? LIMIT 1",
		id).Scan(&t.ID, &t.NoteID, &t.Brand, &t.Name, &t.Percentage)
	if err == sql.ErrNoRows {
		return model.Tobacco{}, ErrNotFound
	}
	return t, err
}

// List returns all tobacco rows.
func (r *TobaccoRepo) List(ctx context.Context) ([]model.Tobacco, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, note_id, brand, name, percentage FROM tobaccos ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tobaccos []model.Tobacco
	for rows.Next() {
		var t model.Tobacco
		if err := rows.Scan(&t.ID, &t.NoteID, &t.Brand, &t.Name, &t.Percentage); err != nil {
			return nil, err
		}
		tobaccos = append(tobaccos, t)
	}
	return tobaccos, rows.Err()
}
