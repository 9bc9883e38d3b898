package repository

import (
	"context"
	"database/sql"
)

// LikeRepo toggles likes. The like row and the denormalized like_count on
// the note move together inside one transaction.
type LikeRepo struct{ DB *sql.DB }

func NewLikeRepo(db *sql.DB) *LikeRepo { return &LikeRepo{DB: db} }

// Toggle likes the note when no like exists and unlikes it otherwise.
// It returns true when the note ends up liked. ErrNotFound means the note
// does not exist.
func (r *LikeRepo) Toggle(ctx context.Context, userID, noteID uint64) (bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	var one int
	if err := tx.QueryRowContext(ctx, "SELECT 1 FROM notes WHERE id=?", noteID).Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return false, ErrNotFound
		}
		return false, err
	}

	var likeID uint64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM likes WHERE user_id=? AND note_id=? LIMIT 1", userID, noteID).Scan(&likeID)
	switch err {
	case sql.ErrNoRows:
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO likes (user_id, note_id) VALUES (?,?)", userID, noteID); err != nil {
			return false, err
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE notes SET like_count = like_count + 1 WHERE id=?", noteID); err != nil {
			return false, err
		}
		return true, tx.Commit()
	case nil:
		if _, err := tx.ExecContext(ctx, "DELETE FROM likes WHERE id=?", likeID); err != nil {
			return false, err
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE notes SET like_count = like_count - 1 WHERE id=? AND like_count > 0", noteID); err != nil {
			return false, err
		}
		return false, tx.Commit()
	default:
		return false, err
	}
}
