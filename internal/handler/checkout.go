package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cineweb-backoffice/internal/checkout"
	"github.com/iliyamo/cineweb-backoffice/internal/pricing"
	"github.com/iliyamo/cineweb-backoffice/internal/seating"
)

// TicketSource is what a checkout needs from the ticket store.
type TicketSource interface {
	checkout.TicketLister
	checkout.TicketStore
}

// CheckoutHandler exposes the seat selection and commit flow.  Open
// checkouts live in Registry and are addressed by a signed token.
type CheckoutHandler struct {
	Sessions  SessionStore
	Tickets   TicketSource
	Holds     checkout.Holder // nil disables seat holds
	Registry  *checkout.Registry
	Tokens    *checkout.Tokens
	Committer *checkout.Committer
}

type openResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	View      checkout.View `json:"checkout"`
}

// Open handles POST /v1/sessions/:id/checkouts.
func (h *CheckoutHandler) Open(c echo.Context) error {
	sid, ok := parseID(c, "id")
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()
	sess, err := h.Sessions.GetByID(ctx, sid)
	if err != nil {
		return storeFailure(c, err, "session")
	}

	cs, err := checkout.Open(ctx, checkout.NewID(), sid, int(sess.RoomCapacity), h.Tickets, h.Holds)
	if err != nil {
		c.Logger().Errorf("checkout: open for session %d: %v", sid, err)
		return fail(c, http.StatusBadGateway, "could not load seat occupancy")
	}
	token, exp, err := h.Tokens.Issue(cs.ID, sid)
	if err != nil {
		cs.Close(ctx)
		return fail(c, http.StatusInternalServerError, "could not issue checkout token")
	}
	h.Registry.Add(cs)
	return c.JSON(http.StatusCreated, openResponse{Token: token, ExpiresAt: exp, View: cs.View()})
}

// lookup resolves the :token parameter to an open checkout.  On failure
// the response has been written and cs is nil.
func (h *CheckoutHandler) lookup(c echo.Context) (*checkout.Session, error) {
	claims, err := h.Tokens.Parse(c.Param("token"))
	if err != nil {
		return nil, fail(c, http.StatusUnauthorized, "invalid or expired checkout token")
	}
	cs, ok := h.Registry.Get(claims.CheckoutID)
	if !ok || cs.SessionID != claims.SessionID {
		return nil, checkoutGone(c)
	}
	return cs, nil
}

// checkoutGone answers for a checkout that is unknown or was closed while
// the request was in flight.
func checkoutGone(c echo.Context) error {
	return fail(c, http.StatusNotFound, "checkout not found")
}

// View handles GET /v1/checkouts/:token.
func (h *CheckoutHandler) View(c echo.Context) error {
	cs, err := h.lookup(c)
	if cs == nil {
		return err
	}
	return c.JSON(http.StatusOK, cs.View())
}

// Refresh handles POST /v1/checkouts/:token/refresh.
func (h *CheckoutHandler) Refresh(c echo.Context) error {
	cs, err := h.lookup(c)
	if cs == nil {
		return err
	}
	dropped, err := cs.Refresh(c.Request().Context())
	if errors.Is(err, checkout.ErrClosed) {
		return checkoutGone(c)
	}
	if err != nil {
		c.Logger().Errorf("checkout: refresh %s: %v", cs.ID, err)
		return fail(c, http.StatusBadGateway, "could not load seat occupancy")
	}
	if dropped == nil {
		dropped = []string{}
	}
	return c.JSON(http.StatusOK, echo.Map{"dropped": dropped, "checkout": cs.View()})
}

// Toggle handles POST /v1/checkouts/:token/seats/:code.
func (h *CheckoutHandler) Toggle(c echo.Context) error {
	cs, err := h.lookup(c)
	if cs == nil {
		return err
	}
	code := seating.NormalizeCode(c.Param("code"))
	if !cs.Layout.Contains(code) {
		return fail(c, http.StatusNotFound, "seat "+code+" is not part of the room")
	}
	outcome := cs.Toggle(c.Request().Context(), code)
	if outcome == checkout.Rejected && cs.Closed() {
		return checkoutGone(c)
	}
	if outcome == checkout.Rejected {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":    "seat " + code + " is not available",
			"checkout": cs.View(),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"seat": code, "outcome": outcome.String(), "checkout": cs.View()})
}

type kindRequest struct {
	Kind string `json:"kind" validate:"required"`
}

// SetKind handles PUT /v1/checkouts/:token/seats/:code.
func (h *CheckoutHandler) SetKind(c echo.Context) error {
	cs, err := h.lookup(c)
	if cs == nil {
		return err
	}
	var req kindRequest
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	kind, ok := pricing.ParseKind(req.Kind)
	if !ok {
		return fail(c, http.StatusBadRequest, "kind must be full or half")
	}
	code := seating.NormalizeCode(c.Param("code"))
	if !cs.SetKind(code, kind) {
		if cs.Closed() {
			return checkoutGone(c)
		}
		return fail(c, http.StatusNotFound, "seat "+code+" is not in the cart")
	}
	return c.JSON(http.StatusOK, cs.View())
}

// Remove handles DELETE /v1/checkouts/:token/seats/:code.  Removing a seat
// that is not in the cart is not an error.
func (h *CheckoutHandler) Remove(c echo.Context) error {
	cs, err := h.lookup(c)
	if cs == nil {
		return err
	}
	if !cs.Remove(c.Request().Context(), c.Param("code")) && cs.Closed() {
		return checkoutGone(c)
	}
	return c.JSON(http.StatusOK, cs.View())
}

type commitResponse struct {
	Result   checkout.CommitResult `json:"result"`
	Checkout *checkout.View        `json:"checkout,omitempty"`
}

// Commit handles POST /v1/checkouts/:token/commit.  Every cart entry is
// submitted on its own: 201 when all were sold, 207 when some were, 409
// when every failure was a lost seat and 502 otherwise.  A fully sold
// checkout is closed; any other stays open with fresh occupancy.
func (h *CheckoutHandler) Commit(c echo.Context) error {
	cs, err := h.lookup(c)
	if cs == nil {
		return err
	}
	ctx := c.Request().Context()
	res, err := cs.Commit(ctx, h.Committer)
	if err != nil {
		if errors.Is(err, checkout.ErrClosed) {
			return checkoutGone(c)
		}
		var ve *checkout.ValidationError
		if errors.As(err, &ve) {
			return fail(c, http.StatusBadRequest, ve.Reason)
		}
		return fail(c, http.StatusInternalServerError, err.Error())
	}

	if res.Complete() {
		h.Registry.Close(ctx, cs.ID)
		return c.JSON(http.StatusCreated, commitResponse{Result: res})
	}
	v := cs.View()
	body := commitResponse{Result: res, Checkout: &v}
	switch {
	case res.Count > 0:
		return c.JSON(http.StatusMultiStatus, body)
	case res.Conflicts() == len(res.Failed):
		return c.JSON(http.StatusConflict, body)
	default:
		return c.JSON(http.StatusBadGateway, body)
	}
}

// Close handles DELETE /v1/checkouts/:token.  Nothing is persisted.
func (h *CheckoutHandler) Close(c echo.Context) error {
	claims, err := h.Tokens.Parse(c.Param("token"))
	if err != nil {
		return fail(c, http.StatusUnauthorized, "invalid or expired checkout token")
	}
	if !h.Registry.Close(c.Request().Context(), claims.CheckoutID) {
		return fail(c, http.StatusNotFound, "checkout not found")
	}
	return c.NoContent(http.StatusNoContent)
}
