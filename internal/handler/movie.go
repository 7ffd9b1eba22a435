package handler

import (
	"context"
	"net/http"

	"github.com/jinzhu/copier"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cineweb-backoffice/internal/model"
)

// MovieStore is the persistence used by MovieHandler.
type MovieStore interface {
	Create(ctx context.Context, m *model.Movie) error
	GetByID(ctx context.Context, id uint64) (*model.Movie, error)
	List(ctx context.Context) ([]model.Movie, error)
	Update(ctx context.Context, m *model.Movie) error
	Delete(ctx context.Context, id uint64) error
}

type MovieHandler struct {
	Movies MovieStore
}

func NewMovieHandler(movies MovieStore) *MovieHandler { return &MovieHandler{Movies: movies} }

type movieRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Synopsis    string `json:"synopsis" validate:"required,min=10"`
	Rating      string `json:"rating" validate:"required,max=10"`
	DurationMin uint32 `json:"duration_min" validate:"required,gt=0"`
	Genre       string `json:"genre" validate:"required,max=60"`
	StartDate   string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

func (h *MovieHandler) bind(c echo.Context) (*model.Movie, bool, error) {
	var req movieRequest
	if ok, err := bindValid(c, &req); !ok {
		return nil, false, err
	}
	// both are YYYY-MM-DD, so string order is date order
	if req.EndDate < req.StartDate {
		return nil, false, fail(c, http.StatusBadRequest, "end_date must not be before start_date")
	}
	var m model.Movie
	if err := copier.Copy(&m, &req); err != nil {
		return nil, false, fail(c, http.StatusBadRequest, "invalid request body")
	}
	return &m, true, nil
}

// List handles GET /v1/movies.
func (h *MovieHandler) List(c echo.Context) error {
	out, err := h.Movies.List(c.Request().Context())
	if err != nil {
		return storeFailure(c, err, "movies")
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/movies/:id.
func (h *MovieHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	m, err := h.Movies.GetByID(c.Request().Context(), id)
	if err != nil {
		return storeFailure(c, err, "movie")
	}
	return c.JSON(http.StatusOK, m)
}

// Create handles POST /v1/movies.
func (h *MovieHandler) Create(c echo.Context) error {
	m, ok, err := h.bind(c)
	if !ok {
		return err
	}
	if err := h.Movies.Create(c.Request().Context(), m); err != nil {
		return storeFailure(c, err, "movie")
	}
	return c.JSON(http.StatusCreated, m)
}

// Update handles PUT /v1/movies/:id.
func (h *MovieHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	m, ok, err := h.bind(c)
	if !ok {
		return err
	}
	m.ID = id
	if err := h.Movies.Update(c.Request().Context(), m); err != nil {
		return storeFailure(c, err, "movie")
	}
	return c.JSON(http.StatusOK, m)
}

// Delete handles DELETE /v1/movies/:id.  Movies with sessions answer 409.
func (h *MovieHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	if err := h.Movies.Delete(c.Request().Context(), id); err != nil {
		return storeFailure(c, err, "movie")
	}
	return c.NoContent(http.StatusNoContent)
}
