package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/a-marchenko/hookah-notes-api/internal/repository"
)

// TobaccoHandler serves public tobacco lookups.
type TobaccoHandler struct {
	Tobaccos TobaccoStore
}

func NewTobaccoHandler(tobaccos TobaccoStore) *TobaccoHandler {
	return &TobaccoHandler{Tobaccos: tobaccos}
}

// Get handles GET /v1/tobaccos/:id.
func (h *TobaccoHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	t, err := h.Tobaccos.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tobacco not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "something went wrong"})
	}
	return c.JSON(http.StatusOK, tobaccoPart{ID: t.ID, Brand: t.Brand, Name: t.Name, Percentage: t.Percentage})
}

// List handles GET /v1/tobaccos.
func (h *TobaccoHandler) List(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	tobaccos, err := h.Tobaccos.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "something went wrong"})
	}
	out := make([]tobaccoPart, 0, len(tobaccos))
	for _, t := range tobaccos {
		out = append(out, tobaccoPart{ID: t.ID, Brand: t.Brand, Name: t.Name, Percentage: t.Percentage})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
