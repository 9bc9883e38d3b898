// Package router wires HTTP routes to handlers. Each group lists its
// middleware pipeline explicitly: rate limiting on the auth endpoints, the
// JWT guard on authenticated routes, the role guard on admin routes.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/a-marchenko/hookah-notes-api/internal/config"
	"github.com/a-marchenko/hookah-notes-api/internal/handler"
	"github.com/a-marchenko/hookah-notes-api/internal/middleware"
	"github.com/a-marchenko/hookah-notes-api/internal/model"
)

// Handlers collects the handler set registered on the Echo instance.
type Handlers struct {
	Auth     *handler.AuthHandler
	Users    *handler.UserHandler
	Notes    *handler.NoteHandler
	Tags     *handler.TagHandler
	Tobaccos *handler.TobaccoHandler
	Likes    *handler.LikeHandler
	Follows  *handler.FollowHandler
}

// Register wires every route. rdb may be nil, in which case the rate
// limiter is a pass-through.
func Register(e *echo.Echo, cfg config.Config, h Handlers, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	// Unauthenticated auth operations. The refresh and invalidate routes
	// authenticate through the refresh token itself; confirm routes through
	// the one-time token.
	auth := e.Group("/v1/auth")
	auth.Use(limiter)
	auth.POST("/signup", h.Auth.Signup)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/logout", h.Auth.Logout)
	auth.PUT("/refresh_tokens", h.Auth.RefreshTokens)
	auth.PUT("/invalidate_tokens", h.Auth.InvalidateTokens)
	auth.DELETE("/confirm_email", h.Auth.ConfirmEmail)
	auth.POST("/request_password_reset/:login", h.Auth.RequestPasswordReset)
	auth.DELETE("/confirm_password_reset", h.Auth.ConfirmPasswordReset)

	// Public reads.
	e.GET("/v1/users", h.Users.List)
	e.GET("/v1/users/:id/notes", h.Notes.ListByUser)
	e.GET("/v1/users/:id/followers", h.Follows.Followers)
	e.GET("/v1/users/:id/following", h.Follows.Following)
	e.GET("/v1/notes", h.Notes.List)
	e.GET("/v1/notes/:id", h.Notes.Get)
	e.GET("/v1/tags", h.Tags.List)
	e.GET("/v1/tags/:id", h.Tags.Get)
	e.GET("/v1/tobaccos", h.Tobaccos.List)
	e.GET("/v1/tobaccos/:id", h.Tobaccos.Get)

	// Routes that require a valid access token.
	authed := e.Group("/v1")
	authed.Use(middleware.JWTAuth(cfg.AccessSecret))
	authed.GET("/me", h.Auth.Me)
	authed.GET("/me/favorites", h.Notes.Favorites)
	authed.GET("/me/following", h.Follows.MyFollowing)
	authed.POST("/notes", h.Notes.Create)
	authed.PUT("/notes/:id", h.Notes.Update)
	authed.DELETE("/notes/:id", h.Notes.Delete)
	authed.POST("/notes/:id/like", h.Likes.Toggle)
	authed.POST("/users/:id/follow", h.Follows.Follow)
	authed.DELETE("/users/:id/follow", h.Follows.Unfollow)

	// Role administration is limited to "super" holders.
	admin := e.Group("/v1/users")
	admin.Use(middleware.JWTAuth(cfg.AccessSecret))
	admin.Use(middleware.RequireRole(model.RoleSuper))
	admin.PUT("/role", h.Users.UpdateRole)
}
