package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cineweb-backoffice/internal/checkout"
	"github.com/iliyamo/cineweb-backoffice/internal/model"
)

type checkoutFixture struct {
	e        *echo.Echo
	tickets  *fakeTickets
	registry *checkout.Registry
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{tickets: &fakeTickets{}, registry: checkout.NewRegistry()}
	sessions := &fakeSessions{sessions: map[uint64]model.SessionDetail{
		4: {Session: model.Session{ID: 4, RoomID: 1}, RoomCapacity: 40},
	}}
	h := &CheckoutHandler{
		Sessions:  sessions,
		Tickets:   f.tickets,
		Registry:  f.registry,
		Tokens:    checkout.NewTokens("test-secret", 20*time.Minute),
		Committer: checkout.NewCommitter(f.tickets, nil),
	}
	e := newEcho()
	e.POST("/v1/sessions/:id/checkouts", h.Open)
	e.GET("/v1/checkouts/:token", h.View)
	e.DELETE("/v1/checkouts/:token", h.Close)
	e.POST("/v1/checkouts/:token/refresh", h.Refresh)
	e.POST("/v1/checkouts/:token/commit", h.Commit)
	e.POST("/v1/checkouts/:token/seats/:code", h.Toggle)
	e.PUT("/v1/checkouts/:token/seats/:code", h.SetKind)
	e.DELETE("/v1/checkouts/:token/seats/:code", h.Remove)
	f.e = e
	return f
}

type viewBody struct {
	ID    string           `json:"checkout_id"`
	Cart  []checkout.Entry `json:"cart"`
	Total float64          `json:"total"`
	Seats struct {
		Free     int `json:"free"`
		Occupied int `json:"occupied"`
		Selected int `json:"selected"`
	} `json:"seat_map"`
}

func (f *checkoutFixture) open(t *testing.T) string {
	t.Helper()
	rec := call(f.e, http.MethodPost, "/v1/sessions/4/checkouts", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var body struct {
		Token string   `json:"token"`
		View  viewBody `json:"checkout"`
	}
	decode(t, rec, &body)
	require.NotEmpty(t, body.Token)
	return body.Token
}

func (f *checkoutFixture) view(t *testing.T, token string) viewBody {
	t.Helper()
	rec := call(f.e, http.MethodGet, "/v1/checkouts/"+token, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var v viewBody
	decode(t, rec, &v)
	return v
}

func TestCheckout_FullSale(t *testing.T) {
	f := newCheckoutFixture()
	token := f.open(t)
	base := "/v1/checkouts/" + token

	require.Equal(t, http.StatusOK, call(f.e, http.MethodPost, base+"/seats/c4", "").Code)
	require.Equal(t, http.StatusOK, call(f.e, http.MethodPost, base+"/seats/C5", "").Code)
	require.Equal(t, http.StatusOK, call(f.e, http.MethodPut, base+"/seats/C5", `{"kind":"meia"}`).Code)

	v := f.view(t, token)
	assert.Equal(t, 51.0, v.Total)
	assert.Equal(t, 2, v.Seats.Selected)

	rec := call(f.e, http.MethodPost, base+"/commit", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var body struct {
		Result struct {
			Count int     `json:"count"`
			Total float64 `json:"total"`
		} `json:"result"`
	}
	decode(t, rec, &body)
	assert.Equal(t, 2, body.Result.Count)
	assert.Equal(t, 51.0, body.Result.Total)
	assert.Len(t, f.tickets.tickets, 2)

	assert.Zero(t, f.registry.Len(), "fully sold checkout is closed")
	assert.Equal(t, http.StatusNotFound, call(f.e, http.MethodGet, base, "").Code)
}

func TestCheckout_ToggleRejections(t *testing.T) {
	f := newCheckoutFixture()
	f.tickets.sell(4, "A1")
	token := f.open(t)
	base := "/v1/checkouts/" + token

	rec := call(f.e, http.MethodPost, base+"/seats/A1", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "seat A1 is not available", errorOf(t, rec))

	assert.Equal(t, http.StatusNotFound, call(f.e, http.MethodPost, base+"/seats/A9", "").Code)

	rec = call(f.e, http.MethodPost, base+"/seats/B1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var toggled struct {
		Outcome string `json:"outcome"`
	}
	decode(t, rec, &toggled)
	assert.Equal(t, "added", toggled.Outcome)

	rec = call(f.e, http.MethodPost, base+"/seats/B1", "")
	decode(t, rec, &toggled)
	assert.Equal(t, "removed", toggled.Outcome)
	assert.Empty(t, f.view(t, token).Cart)
}

func TestCheckout_SetKindErrors(t *testing.T) {
	f := newCheckoutFixture()
	token := f.open(t)
	base := "/v1/checkouts/" + token
	call(f.e, http.MethodPost, base+"/seats/A1", "")

	assert.Equal(t, http.StatusBadRequest, call(f.e, http.MethodPut, base+"/seats/A1", `{"kind":"student"}`).Code)
	assert.Equal(t, http.StatusNotFound, call(f.e, http.MethodPut, base+"/seats/A2", `{"kind":"half"}`).Code)
	assert.Equal(t, http.StatusOK, call(f.e, http.MethodDelete, base+"/seats/A2", "").Code, "remove is idempotent")
}

func TestCheckout_EmptyCommit(t *testing.T) {
	f := newCheckoutFixture()
	token := f.open(t)

	rec := call(f.e, http.MethodPost, "/v1/checkouts/"+token+"/commit", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "cart is empty", errorOf(t, rec))
	assert.Empty(t, f.tickets.tickets)
}

func TestCheckout_PartialCommit(t *testing.T) {
	f := newCheckoutFixture()
	token := f.open(t)
	base := "/v1/checkouts/" + token
	call(f.e, http.MethodPost, base+"/seats/D1", "")
	call(f.e, http.MethodPost, base+"/seats/D2", "")
	f.tickets.sell(4, "D2") // another operator wins D2

	rec := call(f.e, http.MethodPost, base+"/commit", "")
	require.Equal(t, http.StatusMultiStatus, rec.Code, rec.Body.String())
	var body struct {
		Result struct {
			Count  int `json:"count"`
			Failed []struct {
				SeatCode string `json:"seat_code"`
				Reason   string `json:"reason"`
			} `json:"failed"`
		} `json:"result"`
		Checkout *viewBody `json:"checkout"`
	}
	decode(t, rec, &body)
	assert.Equal(t, 1, body.Result.Count)
	require.Len(t, body.Result.Failed, 1)
	assert.Equal(t, "D2", body.Result.Failed[0].SeatCode)
	assert.Equal(t, "conflict", body.Result.Failed[0].Reason)
	require.NotNil(t, body.Checkout)
	assert.Empty(t, body.Checkout.Cart)
	assert.Equal(t, 2, body.Checkout.Seats.Occupied)

	assert.Equal(t, 1, f.registry.Len(), "checkout stays open")
}

func TestCheckout_AllConflictAndTransport(t *testing.T) {
	f := newCheckoutFixture()
	token := f.open(t)
	base := "/v1/checkouts/" + token

	call(f.e, http.MethodPost, base+"/seats/E1", "")
	f.tickets.sell(4, "E1")
	assert.Equal(t, http.StatusConflict, call(f.e, http.MethodPost, base+"/commit", "").Code)

	call(f.e, http.MethodPost, base+"/seats/E2", "")
	f.tickets.fail = errors.New("connection reset")
	rec := call(f.e, http.MethodPost, base+"/commit", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), `"reason":"transport"`)
}

func TestCheckout_RefreshDropsSoldSeats(t *testing.T) {
	f := newCheckoutFixture()
	token := f.open(t)
	base := "/v1/checkouts/" + token
	call(f.e, http.MethodPost, base+"/seats/F1", "")
	f.tickets.sell(4, "F1")

	rec := call(f.e, http.MethodPost, base+"/refresh", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Dropped []string `json:"dropped"`
	}
	decode(t, rec, &body)
	assert.Equal(t, []string{"F1"}, body.Dropped)
}

func TestCheckout_TokensAndClose(t *testing.T) {
	f := newCheckoutFixture()

	assert.Equal(t, http.StatusNotFound, call(f.e, http.MethodPost, "/v1/sessions/9/checkouts", "").Code)
	assert.Equal(t, http.StatusUnauthorized, call(f.e, http.MethodGet, "/v1/checkouts/garbage", "").Code)

	other, _, err := checkout.NewTokens("test-secret", time.Minute).Issue("unknown", 4)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, call(f.e, http.MethodGet, "/v1/checkouts/"+other, "").Code)

	token := f.open(t)
	assert.Equal(t, http.StatusNoContent, call(f.e, http.MethodDelete, "/v1/checkouts/"+token, "").Code)
	assert.Equal(t, http.StatusNotFound, call(f.e, http.MethodDelete, "/v1/checkouts/"+token, "").Code)
	assert.Empty(t, f.tickets.tickets, "abandoning persists nothing")
}

func TestCheckout_ClosedWhileRequestInFlight(t *testing.T) {
	f := newCheckoutFixture()
	token := f.open(t)
	base := "/v1/checkouts/" + token
	require.Equal(t, http.StatusOK, call(f.e, http.MethodPost, base+"/seats/A1", "").Code)

	// The sweeper closed the checkout after the handler looked it up.
	cs, ok := f.registry.Get(f.view(t, token).ID)
	require.True(t, ok)
	cs.Close(context.Background())

	assert.Equal(t, http.StatusNotFound, call(f.e, http.MethodPost, base+"/seats/A2", "").Code)
	assert.Equal(t, http.StatusNotFound, call(f.e, http.MethodPut, base+"/seats/A1", `{"kind":"half"}`).Code)
	assert.Equal(t, http.StatusNotFound, call(f.e, http.MethodDelete, base+"/seats/A1", "").Code)
	assert.Equal(t, http.StatusNotFound, call(f.e, http.MethodPost, base+"/refresh", "").Code)
	assert.Equal(t, http.StatusNotFound, call(f.e, http.MethodPost, base+"/commit", "").Code)
	assert.Empty(t, f.tickets.tickets)
}
