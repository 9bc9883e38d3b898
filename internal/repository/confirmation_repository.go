package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrStoreUnavailable is returned when the Redis client was never connected.
var ErrStoreUnavailable = errors.New("confirmation store unavailable")

// Confirmation token kinds. Keys are namespaced per kind so a password
// reset token can never redeem an email confirmation or vice versa.
const (
	KindConfirm = "confirm"
	KindReset   = "reset"
)

// confirmationTTL is how long a confirmation link stays valid.
const confirmationTTL = 24 * time.Hour

// ConfirmationRepo stores one-time confirmation tokens in Redis. Each token
// is a random UUID mapped to a user id with a 24-hour TTL and deleted on
// redemption.
type ConfirmationRepo struct{ RDB *redis.Client }

func NewConfirmationRepo(rdb *redis.Client) *ConfirmationRepo { return &ConfirmationRepo{RDB: rdb} }

// Create generates an opaque token for the user and stores it with a TTL.
func (r *ConfirmationRepo) Create(ctx context.Context, kind string, userID uint64) (string, error) {
	if r.RDB == nil {
		return "", ErrStoreUnavailable
	}
	token := uuid.NewString()
	key := kind + ":" + token
	if err := r.RDB.Set(ctx, key, strconv.FormatUint(userID, 10), confirmationTTL).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Redeem resolves a token to its user id and deletes it in the same Redis
// call, so a token can be redeemed at most once even under concurrent
// requests. Expired, consumed and unknown tokens all yield ErrNotFound.
func (r *ConfirmationRepo) Redeem(ctx context.Context, kind, token string) (uint64, error) {
	if r.RDB == nil {
		return 0, ErrStoreUnavailable
	}
	val, err := r.RDB.GetDel(ctx, kind+":"+token).Result()
	if err == redis.Nil {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, ErrNotFound
	}
	return id, nil
}
