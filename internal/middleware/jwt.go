package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/a-marchenko/hookah-notes-api/internal/utils"
)

// Context keys set by JWTAuth and read by handlers.
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxRole     = "role"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the token's identity claims into the request context. The
// guard deliberately makes no database call: it trusts the signed claims as
// of issue time, so revocation only takes effect once the access token
// expires and the client goes through the refresh flow.
func JWTAuth(accessSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := utils.ParseAccessToken(accessSecret, raw)
			if err != nil {
				// Bad signature, expired and malformed all look the same to the client.
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
			}

			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxUsername, claims.Username)
			c.Set(CtxRole, claims.Role)
			return next(c)
		}
	}
}

// CurrentUserID returns the authenticated user's id from context. The
// second result is false on routes that did not pass through JWTAuth.
func CurrentUserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(CtxUserID).(uint64)
	return id, ok
}

// CurrentRole returns the authenticated user's role name, or "" when the
// request is unauthenticated.
func CurrentRole(c echo.Context) string {
	role, _ := c.Get(CtxRole).(string)
	return role
}
