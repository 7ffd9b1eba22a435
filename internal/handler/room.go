package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cineweb-backoffice/internal/model"
	"github.com/iliyamo/cineweb-backoffice/internal/repository"
	"github.com/iliyamo/cineweb-backoffice/internal/seating"
)

// RoomStore is the persistence used by RoomHandler.
type RoomStore interface {
	Create(ctx context.Context, r *model.Room) error
	GetByID(ctx context.Context, id uint64) (*model.Room, error)
	List(ctx context.Context) ([]model.Room, error)
	Update(ctx context.Context, r *model.Room) error
	Delete(ctx context.Context, id uint64) error
}

type RoomHandler struct {
	Rooms RoomStore
}

func NewRoomHandler(rooms RoomStore) *RoomHandler { return &RoomHandler{Rooms: rooms} }

type roomRequest struct {
	Number   uint32 `json:"number" validate:"required,min=1,max=99"`
	Capacity uint32 `json:"capacity" validate:"required,oneof=40 64 80 96 112 128 160"`
}

func (h *RoomHandler) List(c echo.Context) error {
	out, err := h.Rooms.List(c.Request().Context())
	if err != nil {
		return storeFailure(c, err, "rooms")
	}
	return c.JSON(http.StatusOK, out)
}

func (h *RoomHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	r, err := h.Rooms.GetByID(c.Request().Context(), id)
	if err != nil {
		return storeFailure(c, err, "room")
	}
	return c.JSON(http.StatusOK, r)
}

// Layout handles GET /v1/rooms/:id/layout and returns the seat codes of
// the room grouped by row.
func (h *RoomHandler) Layout(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	r, err := h.Rooms.GetByID(c.Request().Context(), id)
	if err != nil {
		return storeFailure(c, err, "room")
	}
	return c.JSON(http.StatusOK, seating.Generate(int(r.Capacity)))
}

func (h *RoomHandler) Create(c echo.Context) error {
	var req roomRequest
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	r := &model.Room{Number: req.Number, Capacity: req.Capacity}
	if err := h.Rooms.Create(c.Request().Context(), r); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return fail(c, http.StatusConflict, "room number already exists")
		}
		return storeFailure(c, err, "room")
	}
	return c.JSON(http.StatusCreated, r)
}

// Update handles PUT /v1/rooms/:id.  The capacity of a room that already
// sold tickets cannot change.
func (h *RoomHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	var req roomRequest
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	r := &model.Room{ID: id, Number: req.Number, Capacity: req.Capacity}
	if err := h.Rooms.Update(c.Request().Context(), r); err != nil {
		if errors.Is(err, repository.ErrRoomHasSales) {
			return fail(c, http.StatusConflict, "capacity cannot change once tickets were sold")
		}
		return storeFailure(c, err, "room")
	}
	return c.JSON(http.StatusOK, r)
}

func (h *RoomHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	if err := h.Rooms.Delete(c.Request().Context(), id); err != nil {
		return storeFailure(c, err, "room")
	}
	return c.NoContent(http.StatusNoContent)
}
