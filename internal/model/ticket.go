package model

import (
	"time"

	"github.com/iliyamo/cineweb-backoffice/internal/pricing"
)

// Ticket is one sold seat of a session.  Tickets are immutable: they are
// created by a checkout commit and may only be deleted afterwards.  The
// pair (SessionID, SeatCode) is unique.
type Ticket struct {
	ID        uint64        `json:"id"`         // tickets.id
	SessionID uint64        `json:"session_id"` // tickets.session_id
	SeatCode  string        `json:"seat_code"`  // tickets.seat_code, e.g. "C4"
	Kind      pricing.Kind  `json:"kind"`       // tickets.kind (full | half)
	Price     pricing.Money `json:"price"`      // tickets.price_cents
	SoldAt    time.Time     `json:"sold_at"`    // tickets.sold_at
}

// TicketDraft carries the fields of a ticket that does not exist yet.
type TicketDraft struct {
	SessionID uint64
	SeatCode  string
	Kind      pricing.Kind
	Price     pricing.Money
	SoldAt    time.Time
}

// TicketDetail is a ticket joined with its session, movie and room for the
// sales report.
type TicketDetail struct {
	Ticket
	SessionDate string `json:"session_date"`
	SessionTime string `json:"session_time"`
	MovieTitle  string `json:"movie_title"`
	RoomNumber  uint32 `json:"room_number"`
}

// TicketStats aggregates the sales report.
type TicketStats struct {
	Total   int64         `json:"total"`
	Revenue pricing.Money `json:"revenue"`
	Full    int64         `json:"full"`
	Half    int64         `json:"half"`
}
