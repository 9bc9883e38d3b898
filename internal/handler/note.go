package handler

import (
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/a-marchenko/hookah-notes-api/internal/middleware"
	"github.com/a-marchenko/hookah-notes-api/internal/model"
	"github.com/a-marchenko/hookah-notes-api/internal/repository"
)

// NoteHandler serves note CRUD.
type NoteHandler struct {
	Notes NoteStore
}

func NewNoteHandler(notes NoteStore) *NoteHandler { return &NoteHandler{Notes: notes} }

// ----- DTOs -----

type tobaccoInput struct {
	Brand      string `json:"brand"`
	Name       string `json:"name"`
	Percentage int    `json:"percentage"`
}

type tagInput struct {
	Title string `json:"title"`
	Hue   int    `json:"hue"`
}

type noteReq struct {
	Title       string         `json:"title"`
	Duration    int            `json:"duration"`
	Strength    int            `json:"strength"`
	Description string         `json:"description"`
	Tobaccos    []tobaccoInput `json:"tobaccos"`
	Tags        []tagInput     `json:"tags"`
}

// validate checks the note payload bounds: title 2-48 chars, duration and
// strength 1-5, 1-4 tobaccos with percentages summing to exactly 100, up
// to 4 tags. Returns a user-facing message, empty when the payload is fine.
func (req *noteReq) validate() string {
	req.Title = strings.TrimSpace(req.Title)
	if n := utf8.RuneCountInString(req.Title); n < 2 || n > 48 {
		return "title length can be from 2 to 48 characters"
	}
	if req.Duration < 1 || req.Duration > 5 {
		return "incorrect duration value"
	}
	if req.Strength < 1 || req.Strength > 5 {
		return "incorrect strength value"
	}
	if len(req.Tobaccos) < 1 || len(req.Tobaccos) > 4 {
		return "from 1 to 4 tobacco items required"
	}
	sum := 0
	for i := range req.Tobaccos {
		t := &req.Tobaccos[i]
		t.Brand = strings.TrimSpace(t.Brand)
		t.Name = strings.TrimSpace(t.Name)
		if t.Brand == "" || t.Name == "" {
			return "tobacco brand and name are required"
		}
		if t.Percentage < 1 || t.Percentage > 100 {
			return "tobacco percentage must be between 1 and 100"
		}
		sum += t.Percentage
	}
	if sum != 100 {
		return "tobacco percentages must sum to 100"
	}
	if len(req.Tags) > 4 {
		return "up to 4 tags allowed"
	}
	for i := range req.Tags {
		t := &req.Tags[i]
		t.Title = strings.TrimSpace(t.Title)
		if t.Title == "" {
			return "tag title is required"
		}
		if t.Hue < 0 || t.Hue > 359 {
			return "tag hue must be between 0 and 359"
		}
	}
	return ""
}

func (req *noteReq) toModel(authorID uint64) *model.Note {
	n := &model.Note{
		AuthorID:    authorID,
		Title:       req.Title,
		Duration:    req.Duration,
		Strength:    req.Strength,
		Description: strings.TrimSpace(req.Description),
	}
	for _, t := range req.Tobaccos {
		n.Tobaccos = append(n.Tobaccos, model.Tobacco{Brand: t.Brand, Name: t.Name, Percentage: t.Percentage})
	}
	for _, t := range req.Tags {
		n.Tags = append(n.Tags, model.Tag{Title: t.Title, Hue: t.Hue})
	}
	return n
}

// Create handles POST /v1/notes.
func (h *NoteHandler) Create(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	var req noteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	n := req.toModel(uid)
	if err := h.Notes.Create(ctx, n); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "something went wrong"})
	}
	created, err := h.Notes.GetByID(ctx, n.ID)
	if err != nil {
		return c.JSON(http.StatusCreated, echo.Map{"id": n.ID})
	}
	return c.JSON(http.StatusCreated, toNotePart(created))
}

// Update handles PUT /v1/notes/:id. Only the author may edit.
func (h *NoteHandler) Update(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req noteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	existing, err := h.Notes.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "note not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "something went wrong"})
	}
	if existing.AuthorID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "permission denied"})
	}

	n := req.toModel(uid)
	n.ID = id
	if err := h.Notes.Update(ctx, n); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "something went wrong"})
	}
	updated, err := h.Notes.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{"ok": true})
	}
	return c.JSON(http.StatusOK, toNotePart(updated))
}

// Delete handles DELETE /v1/notes/:id. Only the author may delete; likes
// and tobaccos go with the note.
func (h *NoteHandler) Delete(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	existing, err := h.Notes.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "note not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "something went wrong"})
	}
	if existing.AuthorID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "permission denied"})
	}
	if err := h.Notes.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "something went wrong"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Get handles GET /v1/notes/:id.
func (h *NoteHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	n, err := h.Notes.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "note not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "something went wrong"})
	}
	return c.JSON(http.StatusOK, toNotePart(n))
}

// List handles GET /v1/notes.
func (h *NoteHandler) List(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	notes, err := h.Notes.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "something went wrong"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toNoteParts(notes)})
}

// ListByUser handles GET /v1/users/:id/notes.
func (h *NoteHandler) ListByUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	notes, err := h.Notes.ListByAuthor(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "something went wrong"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toNoteParts(notes)})
}

// Favorites handles GET /v1/me/favorites: the notes the caller has liked.
func (h *NoteHandler) Favorites(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	notes, err := h.Notes.ListLikedBy(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "something went wrong"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toNoteParts(notes)})
}
