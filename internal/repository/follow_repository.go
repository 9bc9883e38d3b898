package repository

import (
	"context"
	"database/sql"

	"github.com/a-marchenko/hookah-notes-api/internal/model"
)

// FollowRepo persists follower/following pairs.
type FollowRepo struct{ DB *sql.DB }

func NewFollowRepo(db *sql.DB) *FollowRepo { return &FollowRepo{DB: db} }

// Follow inserts the pair. A unique-key violation maps to ErrDuplicate so
// the handler can report "already following".
func (r *FollowRepo) Follow(ctx context.Context, followerID, followingID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO follows (follower_id, following_id) VALUES (?,?)", followerID, followingID)
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

// Unfollow removes the pair; ErrNotFound when it was never there.
func (r *FollowRepo) Unfollow(ctx context.Context, followerID, followingID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM follows WHERE follower_id=? AND following_id=?", followerID, followingID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListFollowers returns the users following userID.
func (r *FollowRepo) ListFollowers(ctx context.Context, userID uint64) ([]model.User, error) {
	return r.listJoined(ctx,
		"JOIN follows f ON f.follower_id=u.id WHERE f.following_id=?", userID)
}

// ListFollowing returns the users userID follows.
func (r *FollowRepo) ListFollowing(ctx context.Context, userID uint64) ([]model.User, error) {
	return r.listJoined(ctx,
		"JOIN follows f ON f.following_id=u.id WHERE f.follower_id=?", userID)
}

func (r *FollowRepo) listJoined(ctx context.Context, clause string, arg uint64) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT u.id, u.username, u.language FROM users u `+clause+` ORDER BY u.id`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Language); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
