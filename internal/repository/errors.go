// Package repository implements data access over MySQL and Redis. Sentinel
// errors let handlers translate failure modes into HTTP statuses without
// inspecting driver errors.
package repository

import "errors"

// ErrNotFound is returned when the requested row or key does not exist.
// Handlers translate it into 404 or a user-input error depending on route.
var ErrNotFound = errors.New("not found")

// ErrUsernameExists is returned when a signup collides on username.
var ErrUsernameExists = errors.New("username already exists")

// ErrEmailExists is returned when a signup collides on email.
var ErrEmailExists = errors.New("email already exists")

// ErrDuplicate is returned when a unique pair already exists, e.g. a second
// follow of the same user.
var ErrDuplicate = errors.New("duplicate")
