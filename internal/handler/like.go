package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/a-marchenko/hookah-notes-api/internal/middleware"
	"github.com/a-marchenko/hookah-notes-api/internal/queue"
	"github.com/a-marchenko/hookah-notes-api/internal/repository"
)

// LikeHandler toggles likes on notes.
type LikeHandler struct {
	Likes   LikeStore
	Notes   NoteStore
	Publish PublishFunc
}

func NewLikeHandler(likes LikeStore, notes NoteStore, publish PublishFunc) *LikeHandler {
	return &LikeHandler{Likes: likes, Notes: notes, Publish: publish}
}

// Toggle handles POST /v1/notes/:id/like. A first call likes the note, a
// second call removes the like; the like counter moves with the row.
func (h *LikeHandler) Toggle(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	noteID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	liked, err := h.Likes.Toggle(ctx, uid, noteID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "note not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "something went wrong"})
	}

	if h.Publish != nil {
		title := ""
		if n, err := h.Notes.GetByID(ctx, noteID); err == nil {
			title = n.Title
		}
		_ = h.Publish(ctx, queue.ActivityEvent{
			Type:      queue.EventNoteLiked,
			UserID:    uid,
			NoteID:    noteID,
			NoteTitle: title,
			Liked:     liked,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"liked": liked})
}
