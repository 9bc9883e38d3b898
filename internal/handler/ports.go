// Package handler implements the HTTP layer. Handlers depend on small
// storage interfaces rather than concrete repositories so the request logic
// can be exercised in tests with in-memory fakes.
package handler

import (
	"context"

	"github.com/a-marchenko/hookah-notes-api/internal/model"
	"github.com/a-marchenko/hookah-notes-api/internal/queue"
)

// UserStore is the persistence port for users and roles.
type UserStore interface {
	Create(ctx context.Context, username, email, passwordHash, language string) (uint64, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
	SetConfirmed(ctx context.Context, id uint64) error
	SetPassword(ctx context.Context, id uint64, passwordHash string) error
	BumpTokenVersion(ctx context.Context, id uint64) error
	UpdateRole(ctx context.Context, userID uint64, role string) error
}

// NoteStore is the persistence port for notes with their tobaccos and tags.
type NoteStore interface {
	Create(ctx context.Context, n *model.Note) error
	Update(ctx context.Context, n *model.Note) error
	Delete(ctx context.Context, id uint64) error
	GetByID(ctx context.Context, id uint64) (model.Note, error)
	List(ctx context.Context) ([]model.Note, error)
	ListByAuthor(ctx context.Context, authorID uint64) ([]model.Note, error)
	ListLikedBy(ctx context.Context, userID uint64) ([]model.Note, error)
}

// TagStore reads shared tags.
type TagStore interface {
	GetByID(ctx context.Context, id uint64) (model.Tag, error)
	List(ctx context.Context) ([]model.Tag, error)
}

// TobaccoStore reads tobacco allocations.
type TobaccoStore interface {
	GetByID(ctx context.Context, id uint64) (model.Tobacco, error)
	List(ctx context.Context) ([]model.Tobacco, error)
}

// LikeStore toggles likes atomically with the note's like counter.
type LikeStore interface {
	Toggle(ctx context.Context, userID, noteID uint64) (bool, error)
}

// FollowStore persists follower/following pairs.
type FollowStore interface {
	Follow(ctx context.Context, followerID, followingID uint64) error
	Unfollow(ctx context.Context, followerID, followingID uint64) error
	ListFollowers(ctx context.Context, userID uint64) ([]model.User, error)
	ListFollowing(ctx context.Context, userID uint64) ([]model.User, error)
}

// ConfirmationStore holds one-time email confirmation and password reset
// tokens with a TTL. Redeem consumes the token.
type ConfirmationStore interface {
	Create(ctx context.Context, kind string, userID uint64) (string, error)
	Redeem(ctx context.Context, kind, token string) (uint64, error)
}

// PublishFunc sends an activity event to the broker. Fire-and-forget:
// callers log failures and move on.
type PublishFunc func(ctx context.Context, event queue.ActivityEvent) error
