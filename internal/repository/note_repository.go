package repository

import (
	"context"
	"database/sql"

	"github.com/a-marchenko/hookah-notes-api/internal/model"
)

// NoteRepo persists notes together with their tobacco allocations and tags.
// Tobacco rows belong to exactly one note; tags are shared rows matched by
// (title, hue) and linked through the note_tags join table.
type NoteRepo struct{ DB *sql.DB }

func NewNoteRepo(db *sql.DB) *NoteRepo { return &NoteRepo{DB: db} }

// Create inserts the note, its tobaccos and its tag links in one
// transaction and fills n.ID.
func (r *NoteRepo) Create(ctx context.Context, n *model.Note) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO notes (author_id, title, duration, strength, description) VALUES (?,?,?,?,?)",
		n.AuthorID, n.Title, n.Duration, n.Strength, nullable(n.Description))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = uint64(id)

	if err := insertChildren(ctx, tx, n); err != nil {
		return err
	}
	return tx.Commit()
}

// Update rewrites the note's own columns and replaces its tobaccos and tag
// links. Ownership is checked by the handler before calling.
func (r *NoteRepo) Update(ctx context.Context, n *model.Note) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"UPDATE notes SET title=?, duration=?, strength=?, description=? WHERE id=?",
		n.Title, n.Duration, n.Strength, nullable(n.Description), n.ID)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		var one int
		if err := tx.QueryRowContext(ctx, "SELECT 1 FROM notes WHERE id=?", n.ID).Scan(&one); err == sql.ErrNoRows {
			return ErrNotFound
		}
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM tobaccos WHERE note_id=?", n.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM note_tags WHERE note_id=?", n.ID); err != nil {
		return err
	}
	if err := insertChildren(ctx, tx, n); err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes the note; likes, tobaccos and tag links cascade via
// foreign keys.
func (r *NoteRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM notes WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID fetches a note with its author, tobaccos and tags.
func (r *NoteRepo) GetByID(ctx context.Context, id uint64) (model.Note, error) {
	notes, err := r.listWhere(ctx, "WHERE n.id=?", id)
	if err != nil {
		return model.Note{}, err
	}
	if len(notes) == 0 {
		return model.Note{}, ErrNotFound
	}
	return notes[0], nil
}

// List returns all notes, newest first.
func (r *NoteRepo) List(ctx context.Context) ([]model.Note, error) {
	return r.listWhere(ctx, "")
}

// ListByAuthor returns the notes written by one user.
func (r *NoteRepo) ListByAuthor(ctx context.Context, authorID uint64) ([]model.Note, error) {
	return r.listWhere(ctx, "WHERE n.author_id=?", authorID)
}

// ListLikedBy returns the notes a user has liked.
func (r *NoteRepo) ListLikedBy(ctx context.Context, userID uint64) ([]model.Note, error) {
	return r.listWhere(ctx, "JOIN likes l ON l.note_id=n.id AND l.user_id=?", userID)
}

func (r *NoteRepo) listWhere(ctx context.Context, clause string, args ...any) ([]model.Note, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT n.id, n.author_id, n.title, n.duration, n.strength, n.description,
		       n.like_count, n.updated_at, u.username, u.language
		FROM notes n
		JOIN users u ON u.id = n.author_id
		`+clause+`
		ORDER BY n.updated_at DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []model.Note
	for rows.Next() {
		var (
			n    model.Note
			desc sql.NullString
			a    model.User
		)
		if err := rows.Scan(&n.ID, &n.AuthorID, &n.Title, &n.Duration, &n.Strength, &desc,
			&n.LikeCount, &n.UpdatedAt, &a.Username, &a.Language); err != nil {
			return nil, err
		}
		n.Description = desc.String
		a.ID = n.AuthorID
		n.Author = &a
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range notes {
		if err := r.loadChildren(ctx, &notes[i]); err != nil {
			return nil, err
		}
	}
	return notes, nil
}

func (r *NoteRepo) loadChildren(ctx context.Context, n *model.Note) error {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, note_id, brand, name, percentage FROM tobaccos WHERE note_id=? ORDER BY id", n.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var t model.Tobacco
		if err := rows.Scan(&t.ID, &t.NoteID, &t.Brand, &t.Name, &t.Percentage); err != nil {
			return err
		}
		n.Tobaccos = append(n.Tobaccos, t)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	tagRows, err := r.DB.QueryContext(ctx, `
		SELECT t.id, t.title, t.hue FROM tags t
		JOIN note_tags nt ON nt.tag_id=t.id
		WHERE nt.note_id=? ORDER BY t.id`, n.ID)
	if err != nil {
		return err
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var t model.Tag
		if err := tagRows.Scan(&t.ID, &t.Title, &t.Hue); err != nil {
			return err
		}
		n.Tags = append(n.Tags, t)
	}
	return tagRows.Err()
}

// insertChildren writes tobacco rows and tag links for a note inside tx.
// Tags are matched by (title, hue) and created when missing.
func insertChildren(ctx context.Context, tx *sql.Tx, n *model.Note) error {
	for i := range n.Tobaccos {
		t := &n.Tobaccos[i]
		res, err := tx.ExecContext(ctx,
			"INSERT INTO tobaccos (note_id, brand, name, percentage) VALUES (?,?,?,?)",
			n.ID, t.Brand, t.Name, t.Percentage)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		t.ID = uint64(id)
		t.NoteID = n.ID
	}
	for i := range n.Tags {
		t := &n.Tags[i]
		var id uint64
		err := tx.QueryRowContext(ctx,
			"SELECT id FROM tags WHERE title=? AND hue=? LIMIT 1", t.Title, t.Hue).Scan(&id)
		switch err {
		case nil:
		case sql.ErrNoRows:
			res, err := tx.ExecContext(ctx,
				"INSERT INTO tags (title, hue) VALUES (?,?)", t.Title, t.Hue)
			if err != nil {
				return err
			}
			newID, err := res.LastInsertId()
			if err != nil {
				return err
			}
			id = uint64(newID)
		default:
			return err
		}
		t.ID = id
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO note_tags (note_id, tag_id) VALUES (?,?)", n.ID, id); err != nil {
			return err
		}
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
