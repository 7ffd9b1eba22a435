package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cineweb-backoffice/internal/model"
	"github.com/iliyamo/cineweb-backoffice/internal/seating"
)

// SessionStore is the persistence used by SessionHandler and the checkout.
type SessionStore interface {
	Create(ctx context.Context, s *model.Session) error
	GetByID(ctx context.Context, id uint64) (*model.SessionDetail, error)
	List(ctx context.Context, date string) ([]model.SessionDetail, error)
	Delete(ctx context.Context, id uint64) error
}

// TicketLister loads the tickets of one session.
type TicketLister interface {
	ListBySession(ctx context.Context, sessionID uint64) ([]model.Ticket, error)
}

type SessionHandler struct {
	Sessions SessionStore
	Tickets  TicketLister
}

func NewSessionHandler(sessions SessionStore, tickets TicketLister) *SessionHandler {
	return &SessionHandler{Sessions: sessions, Tickets: tickets}
}

type sessionRequest struct {
	MovieID uint64 `json:"movie_id" validate:"required"`
	RoomID  uint64 `json:"room_id" validate:"required"`
	Date    string `json:"date" validate:"required,datetime=2006-01-02,notpast"`
	Time    string `json:"time" validate:"required,datetime=15:04"`
}

// List handles GET /v1/sessions with an optional ?date=YYYY-MM-DD.
func (h *SessionHandler) List(c echo.Context) error {
	date := strings.TrimSpace(c.QueryParam("date"))
	if date != "" {
		if _, err := time.Parse(dateLayout, date); err != nil {
			return fail(c, http.StatusBadRequest, "date must match "+dateLayout)
		}
	}
	out, err := h.Sessions.List(c.Request().Context(), date)
	if err != nil {
		return storeFailure(c, err, "sessions")
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SessionHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	s, err := h.Sessions.GetByID(c.Request().Context(), id)
	if err != nil {
		return storeFailure(c, err, "session")
	}
	return c.JSON(http.StatusOK, s)
}

// Create handles POST /v1/sessions.  Overlapping sessions are allowed.
func (h *SessionHandler) Create(c echo.Context) error {
	var req sessionRequest
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	s := &model.Session{MovieID: req.MovieID, RoomID: req.RoomID, Date: req.Date, Time: req.Time}
	if err := h.Sessions.Create(c.Request().Context(), s); err != nil {
		return storeFailure(c, err, "session")
	}
	return c.JSON(http.StatusCreated, s)
}

// Delete handles DELETE /v1/sessions/:id.  Sessions with tickets answer 409.
func (h *SessionHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	if err := h.Sessions.Delete(c.Request().Context(), id); err != nil {
		return storeFailure(c, err, "session")
	}
	return c.NoContent(http.StatusNoContent)
}

// Seats handles GET /v1/sessions/:id/seats: the room layout with every
// sold seat marked occupied.
func (h *SessionHandler) Seats(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()
	s, err := h.Sessions.GetByID(ctx, id)
	if err != nil {
		return storeFailure(c, err, "session")
	}
	tickets, err := h.Tickets.ListBySession(ctx, id)
	if err != nil {
		return storeFailure(c, err, "tickets")
	}
	layout := seating.Generate(int(s.RoomCapacity))
	return c.JSON(http.StatusOK, echo.Map{
		"session_id": id,
		"seat_map":   seating.BuildMap(layout, seating.Resolve(id, tickets), nil),
	})
}
