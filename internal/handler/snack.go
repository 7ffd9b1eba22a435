package handler

import (
	"context"
	"net/http"

	"github.com/jinzhu/copier"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cineweb-backoffice/internal/model"
	"github.com/iliyamo/cineweb-backoffice/internal/pricing"
)

// SnackStore is the persistence used by SnackHandler.
type SnackStore interface {
	Create(ctx context.Context, s *model.Snack) error
	GetByID(ctx context.Context, id uint64) (*model.Snack, error)
	List(ctx context.Context) ([]model.Snack, error)
	Update(ctx context.Context, s *model.Snack) error
	Delete(ctx context.Context, id uint64) error
}

type SnackHandler struct {
	Snacks SnackStore
}

func NewSnackHandler(snacks SnackStore) *SnackHandler { return &SnackHandler{Snacks: snacks} }

type snackRequest struct {
	Name        string        `json:"name" validate:"required,max=120"`
	Description string        `json:"description" validate:"required,min=10"`
	Price       pricing.Money `json:"price" validate:"gt=0"`
	Category    string        `json:"category" validate:"required,max=60"`
}

func (h *SnackHandler) bind(c echo.Context) (*model.Snack, bool, error) {
	var req snackRequest
	if ok, err := bindValid(c, &req); !ok {
		return nil, false, err
	}
	var s model.Snack
	if err := copier.Copy(&s, &req); err != nil {
		return nil, false, fail(c, http.StatusBadRequest, "invalid request body")
	}
	return &s, true, nil
}

func (h *SnackHandler) List(c echo.Context) error {
	out, err := h.Snacks.List(c.Request().Context())
	if err != nil {
		return storeFailure(c, err, "snacks")
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SnackHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	s, err := h.Snacks.GetByID(c.Request().Context(), id)
	if err != nil {
		return storeFailure(c, err, "snack")
	}
	return c.JSON(http.StatusOK, s)
}

func (h *SnackHandler) Create(c echo.Context) error {
	s, ok, err := h.bind(c)
	if !ok {
		return err
	}
	if err := h.Snacks.Create(c.Request().Context(), s); err != nil {
		return storeFailure(c, err, "snack")
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *SnackHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	s, ok, err := h.bind(c)
	if !ok {
		return err
	}
	s.ID = id
	if err := h.Snacks.Update(c.Request().Context(), s); err != nil {
		return storeFailure(c, err, "snack")
	}
	return c.JSON(http.StatusOK, s)
}

func (h *SnackHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	if err := h.Snacks.Delete(c.Request().Context(), id); err != nil {
		return storeFailure(c, err, "snack")
	}
	return c.NoContent(http.StatusNoContent)
}
