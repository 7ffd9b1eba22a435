// Package apiclient is a small client for the back-office HTTP API, used by
// the cinectl operator tool.
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iliyamo/cineweb-backoffice/internal/model"
	"github.com/iliyamo/cineweb-backoffice/internal/seating"
)

// Error is a non-2xx answer from the API.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Client talks to one API base URL such as http://localhost:8080.
type Client struct {
	BaseURL  string
	Operator string // sent as X-Operator when set
	HTTP     *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// SessionSeats is the seat map of a screening session.
type SessionSeats struct {
	SessionID uint64          `json:"session_id"`
	SeatMap   seating.SeatMap `json:"seat_map"`
}

// Seats fetches GET /v1/sessions/:id/seats.
func (c *Client) Seats(ctx context.Context, sessionID uint64) (SessionSeats, error) {
	var out SessionSeats
	err := c.get(ctx, fmt.Sprintf("/v1/sessions/%d/seats", sessionID), &out)
	return out, err
}

// Session fetches GET /v1/sessions/:id.
func (c *Client) Session(ctx context.Context, id uint64) (model.SessionDetail, error) {
	var out model.SessionDetail
	err := c.get(ctx, fmt.Sprintf("/v1/sessions/%d", id), &out)
	return out, err
}

// Tickets fetches the sales report, newest first.
func (c *Client) Tickets(ctx context.Context) ([]model.TicketDetail, error) {
	var out []model.TicketDetail
	err := c.get(ctx, "/v1/tickets", &out)
	return out, err
}

// Stats fetches the aggregate sales counters.
func (c *Client) Stats(ctx context.Context) (model.TicketStats, error) {
	var out model.TicketStats
	err := c.get(ctx, "/v1/tickets/stats", &out)
	return out, err
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.Operator != "" {
		req.Header.Set("X-Operator", c.Operator)
	}
	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	res, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("api: GET %s: %w", path, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("api: read %s: %w", path, err)
	}
	if res.StatusCode/100 != 2 {
		apiErr := &Error{Status: res.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
			apiErr.Message = payload.Error
		} else {
			apiErr.Message = strings.TrimSpace(string(body))
		}
		return apiErr
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("api: decode %s: %w", path, err)
	}
	return nil
}
