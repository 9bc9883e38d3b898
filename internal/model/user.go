package model

import "time"

// Role names form a closed set. A user's role defaults to RoleUser at
// signup and may only be changed by a holder of RoleSuper.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
	RoleSuper = "super"
)

// ValidRole reports whether name belongs to the closed role set.
func ValidRole(name string) bool {
	return name == RoleUser || name == RoleAdmin || name == RoleSuper
}

// User mirrors the `users` table. TokenVersion is the revocation counter:
// refresh tokens snapshot it at issue time and stop being accepted once the
// column moves past their snapshot. Confirmed flips to true exactly once,
// when an email confirmation token is redeemed.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username (unique)
	Email        string    // users.email (unique)
	PasswordHash string    // users.password_hash
	Role         string    // roles.name joined via roles.user_id
	Language     string    // users.language ("en" or "ru")
	TokenVersion int       // users.token_version
	Confirmed    bool      // users.confirmed
	UpdatedAt    time.Time // users.updated_at
}

// Role mirrors the `roles` table, one row per user.
type Role struct {
	ID        uint64    // roles.id
	UserID    uint64    // roles.user_id (unique)
	Name      string    // roles.name
	UpdatedAt time.Time // roles.updated_at
}
