package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/a-marchenko/hookah-notes-api/internal/middleware"
	"github.com/a-marchenko/hookah-notes-api/internal/repository"
)

// FollowHandler manages follower relations.
type FollowHandler struct {
	Follows FollowStore
	Users   UserStore
}

func NewFollowHandler(follows FollowStore, users UserStore) *FollowHandler {
	return &FollowHandler{Follows: follows, Users: users}
}

// Follow handles POST /v1/users/:id/follow.
func (h *FollowHandler) Follow(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if targetID == uid {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "you cannot follow yourself"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if _, err := h.Users.GetByID(ctx, targetID); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "user does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "something went wrong"})
	}
	if err := h.Follows.Follow(ctx, uid, targetID); err != nil {
		if err == repository.ErrDuplicate {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "you are already following this user"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "something went wrong"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"ok": true})
}

// Unfollow handles DELETE /v1/users/:id/follow.
func (h *FollowHandler) Unfollow(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Follows.Unfollow(ctx, uid, targetID); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "you are not following this user"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "something went wrong"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// Followers handles GET /v1/users/:id/followers.
func (h *FollowHandler) Followers(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	users, err := h.Follows.ListFollowers(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "something went wrong"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toUserParts(users)})
}

// Following handles GET /v1/users/:id/following.
func (h *FollowHandler) Following(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	users, err := h.Follows.ListFollowing(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "something went wrong"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toUserParts(users)})
}

// MyFollowing handles GET /v1/me/following for the authenticated user.
func (h *FollowHandler) MyFollowing(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	users, err := h.Follows.ListFollowing(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "something went wrong"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toUserParts(users)})
}
