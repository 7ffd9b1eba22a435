package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cineweb-backoffice/internal/model"
)

// TicketReport is the read side of the ticket store.
type TicketReport interface {
	ListDetailed(ctx context.Context) ([]model.TicketDetail, error)
	Stats(ctx context.Context) (model.TicketStats, error)
	Delete(ctx context.Context, id uint64) error
}

type TicketHandler struct {
	Tickets TicketReport
}

func NewTicketHandler(tickets TicketReport) *TicketHandler { return &TicketHandler{Tickets: tickets} }

// List handles GET /v1/tickets, newest sale first.
func (h *TicketHandler) List(c echo.Context) error {
	out, err := h.Tickets.ListDetailed(c.Request().Context())
	if err != nil {
		return storeFailure(c, err, "tickets")
	}
	return c.JSON(http.StatusOK, out)
}

// Stats handles GET /v1/tickets/stats.
func (h *TicketHandler) Stats(c echo.Context) error {
	s, err := h.Tickets.Stats(c.Request().Context())
	if err != nil {
		return storeFailure(c, err, "ticket stats")
	}
	return c.JSON(http.StatusOK, s)
}

// Delete handles DELETE /v1/tickets/:id; the seat becomes free again.
func (h *TicketHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	if err := h.Tickets.Delete(c.Request().Context(), id); err != nil {
		return storeFailure(c, err, "ticket")
	}
	return c.NoContent(http.StatusNoContent)
}
