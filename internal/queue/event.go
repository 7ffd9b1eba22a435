// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// TicketsSoldQueue is the durable queue sale events are routed to.
const TicketsSoldQueue = "tickets.sold"

// SoldSeat is one ticket inside a TicketsSoldEvent.
type SoldSeat struct {
	TicketID   uint64 `json:"ticket_id"`
	SeatCode   string `json:"seat_code"`
	Kind       string `json:"kind"`
	PriceCents int64  `json:"price_cents"`
}

// TicketsSoldEvent is published after a checkout commit persisted at least
// one ticket.  Only the successful subset of the batch is carried.
type TicketsSoldEvent struct {
	CheckoutID string     `json:"checkout_id,omitempty"`
	SessionID  uint64     `json:"session_id"`
	Seats      []SoldSeat `json:"seats"`
	Count      int        `json:"count"`
	TotalCents int64      `json:"total_cents"`
	SoldAt     string     `json:"sold_at"`
}
