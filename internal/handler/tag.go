package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/a-marchenko/hookah-notes-api/internal/repository"
)

// TagHandler serves public tag lookups.
type TagHandler struct {
	Tags TagStore
}

func NewTagHandler(tags TagStore) *TagHandler { return &TagHandler{Tags: tags} }

// Get handles GET /v1/tags/:id.
func (h *TagHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	t, err := h.Tags.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tag not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "something went wrong"})
	}
	return c.JSON(http.StatusOK, tagPart{ID: t.ID, Title: t.Title, Hue: t.Hue})
}

// List handles GET /v1/tags.
func (h *TagHandler) List(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	tags, err := h.Tags.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "something went wrong"})
	}
	out := make([]tagPart, 0, len(tags))
	for _, t := range tags {
		out = append(out, tagPart{ID: t.ID, Title: t.Title, Hue: t.Hue})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
