package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/a-marchenko/hookah-notes-api/internal/middleware"
	"github.com/a-marchenko/hookah-notes-api/internal/model"
	"github.com/a-marchenko/hookah-notes-api/internal/repository"
)

// UserHandler serves user listing and role administration.
type UserHandler struct {
	Users UserStore
}

func NewUserHandler(users UserStore) *UserHandler { return &UserHandler{Users: users} }

// List handles GET /v1/users and returns the public projection of all users.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "something went wrong"})
	}
	out := make([]userPart, 0, len(users))
	for _, u := range users {
		out = append(out, userPart{ID: u.ID, Username: u.Username, Role: u.Role, Language: u.Language})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

type updateRoleReq struct {
	Username string `json:"username"`
	Role     string `json:"role"` // user | admin | super
}

// UpdateRole handles PUT /v1/users/role. Only a "super" caller may change
// roles; the route is additionally guarded by RequireRole, but the check is
// repeated here so the rule holds even if the route wiring changes.
func (h *UserHandler) UpdateRole(c echo.Context) error {
	if middleware.CurrentRole(c) != model.RoleSuper {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "permission denied"})
	}

	var req updateRoleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if !model.ValidRole(req.Role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "incorrect role name"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "something went wrong"})
	}
	if err := h.Users.UpdateRole(ctx, u.ID, req.Role); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "something went wrong"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
