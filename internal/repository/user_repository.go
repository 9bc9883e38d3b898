package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/a-marchenko/hookah-notes-api/internal/model"
)

// UserRepo persists users and their one-to-one role rows.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `u.id, u.username, u.email, u.password_hash, r.name, u.language,
	u.token_version, u.confirmed, u.updated_at`

// Create inserts a user plus its default "user" role row in one transaction
// and returns the new user ID. Unique violations map onto the username or
// email sentinel depending on which value is already taken.
func (r *UserRepo) Create(ctx context.Context, username, email, passwordHash, language string) (uint64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, language) VALUES (?,?,?,?)",
		username, email, passwordHash, language)
	if err != nil {
		if isDuplicate(err) {
			if strings.Contains(err.Error(), "username") {
				return 0, ErrUsernameExists
			}
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO roles (user_id, name) VALUES (?,?)", id, model.RoleUser); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a user with its role by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.getWhere(ctx, "u.id=?", id)
}

// GetByUsername fetches a user with its role by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return r.getWhere(ctx, "u.username=?", username)
}

// GetByEmail fetches a user with its role by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getWhere(ctx, "u.email=?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *UserRepo) getWhere(ctx context.Context, cond string, arg any) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users u JOIN roles r ON r.user_id=u.id WHERE "+cond+" LIMIT 1",
		arg).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.Language,
		&u.TokenVersion, &u.Confirmed, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// List returns all users with their roles.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users u JOIN roles r ON r.user_id=u.id ORDER BY u.id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.Language,
			&u.TokenVersion, &u.Confirmed, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// SetConfirmed marks the user's email as confirmed. The transition is
// one-way; confirming an already confirmed user is a no-op.
func (r *UserRepo) SetConfirmed(ctx context.Context, id uint64) error {
	return r.exec(ctx, "UPDATE users SET confirmed=1 WHERE id=?", id)
}

// SetPassword replaces the stored bcrypt hash.
func (r *UserRepo) SetPassword(ctx context.Context, id uint64, passwordHash string) error {
	return r.exec(ctx, "UPDATE users SET password_hash=? WHERE id=?", passwordHash, id)
}

// BumpTokenVersion increments the revocation counter by one. The increment
// happens inside SQL so concurrent invalidate calls for the same user
// serialize on the row and never lose an update.
func (r *UserRepo) BumpTokenVersion(ctx context.Context, id uint64) error {
	return r.exec(ctx, "UPDATE users SET token_version = token_version + 1 WHERE id=?", id)
}

// UpdateRole rewrites the user's role row.
func (r *UserRepo) UpdateRole(ctx context.Context, userID uint64, role string) error {
	return r.exec(ctx, "UPDATE roles SET name=? WHERE user_id=?", role, userID)
}

func (r *UserRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Zero rows can also mean the value was already set; re-check existence.
		var one int
		arg := args[len(args)-1]
		if err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM users WHERE id=?", arg).Scan(&one); err == sql.ErrNoRows {
			return ErrNotFound
		}
	}
	return nil
}

// isDuplicate reports whether err is a MySQL unique-key violation (1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
