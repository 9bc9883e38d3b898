package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a-marchenko/hookah-notes-api/internal/config"
	"github.com/a-marchenko/hookah-notes-api/internal/handler"
	"github.com/a-marchenko/hookah-notes-api/internal/model"
	"github.com/a-marchenko/hookah-notes-api/internal/utils"
)

// newTestServer registers the routes with empty handlers and no Redis; the
// limiter degrades to a pass-through. Only routes that fail in middleware
// are exercised here, the handler logic has its own tests.
func newTestServer() (*echo.Echo, config.Config) {
	cfg := config.Config{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTLMin:  15,
	}
	e := echo.New()
	Register(e, cfg, Handlers{
		Auth:     &handler.AuthHandler{Cfg: cfg},
		Users:    &handler.UserHandler{},
		Notes:    &handler.NoteHandler{},
		Tags:     &handler.TagHandler{},
		Tobaccos: &handler.TobaccoHandler{},
		Likes:    &handler.LikeHandler{},
		Follows:  &handler.FollowHandler{},
	}, nil)
	return e, cfg
}

func TestHealthz(t *testing.T) {
	e, _ := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	e, _ := newTestServer()
	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/v1/me"},
		{http.MethodGet, "/v1/me/favorites"},
		{http.MethodGet, "/v1/me/following"},
		{http.MethodPost, "/v1/notes"},
		{http.MethodPut, "/v1/notes/1"},
		{http.MethodDelete, "/v1/notes/1"},
		{http.MethodPost, "/v1/notes/1/like"},
		{http.MethodPost, "/v1/users/1/follow"},
		{http.MethodDelete, "/v1/users/1/follow"},
		{http.MethodPut, "/v1/users/role"},
	}
	for _, r := range routes {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			req := httptest.NewRequest(r.method, r.path, nil)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRoleRouteRejectsNonSuper(t *testing.T) {
	e, cfg := newTestServer()
	tok, err := utils.NewAccessToken(cfg.AccessSecret,
		model.User{ID: 1, Username: "alice", Role: model.RoleAdmin}, cfg.AccessTTLMin)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/v1/users/role", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
