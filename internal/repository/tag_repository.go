package repository

import (
	"context"
	"database/sql"

	"github.com/a-marchenko/hookah-notes-api/internal/model"
)

// TagRepo reads shared tag rows. Writes happen through NoteRepo, which
// creates missing tags while saving a note.
type TagRepo struct{ DB *sql.DB }

func NewTagRepo(db *sql.DB) *TagRepo { return &TagRepo{DB: db} }

// GetByID fetches a single tag.
func (r *TagRepo) GetByID(ctx context.Context, id uint64) (model.Tag, error) {
	var t model.Tag
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, title, hue FROM tags WHERE id=? LIMIT 1", id).Scan(&t.ID, &t.Title, &t.Hue)
	if err == sql.ErrNoRows {
		return model.Tag{}, ErrNotFound
	}
	return t, err
}

// List returns all tags.
func (r *TagRepo) List(ctx context.Context) ([]model.Tag, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, title, hue FROM tags ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []model.Tag
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Title, &t.Hue); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
