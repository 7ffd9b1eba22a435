package checkout

import (
	"github.com/iliyamo/cineweb-backoffice/internal/pricing"
	"github.com/iliyamo/cineweb-backoffice/internal/seating"
)

// Entry is one seat in a cart with its ticket kind.
type Entry struct {
	SeatCode string       `json:"seat_code"`
	Kind     pricing.Kind `json:"kind"`
}

// Outcome tells the caller what a Select did.
type Outcome int

const (
	Rejected Outcome = iota // seat occupied or not part of the room
	Added
	Removed
)

func (o Outcome) String() string {
	switch o {
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "rejected"
	}
}

// Cart is the operator's selection for one checkout.  It is not safe for
// concurrent use; Flow serialises access to it.
//
// A seat in the blocked set can never be added, whatever the caller does.
type Cart struct {
	layout  seating.Layout
	blocked seating.Occupancy
	entries []Entry
}

// NewCart returns an empty cart for a room layout and the seats that are
// currently unavailable.
func NewCart(layout seating.Layout, blocked seating.Occupancy) *Cart {
	if blocked == nil {
		blocked = seating.Occupancy{}
	}
	return &Cart{layout: layout, blocked: blocked}
}

// Select toggles a seat: a seat already in the cart is removed, any other
// free seat of the layout is added as a full ticket.  Occupied or unknown
// seats are left alone and Rejected is returned.
func (c *Cart) Select(code string) Outcome {
	code = seating.NormalizeCode(code)
	if i := c.indexOf(code); i >= 0 {
		c.entries = append(c.entries[:i], c.entries[i+1:]...)
		return Removed
	}
	if !c.Selectable(code) {
		return Rejected
	}
	c.entries = append(c.entries, Entry{SeatCode: code, Kind: pricing.KindFull})
	return Added
}

// Selectable reports whether code could be added right now.
func (c *Cart) Selectable(code string) bool {
	code = seating.NormalizeCode(code)
	return c.layout.Contains(code) && !c.blocked.Has(code) && c.indexOf(code) < 0
}

// SetKind changes the ticket kind of a seat already in the cart.  It
// returns false and changes nothing when the seat is not in the cart or
// the kind is unknown.
func (c *Cart) SetKind(code string, kind pricing.Kind) bool {
	if !kind.Valid() {
		return false
	}
	i := c.indexOf(seating.NormalizeCode(code))
	if i < 0 {
		return false
	}
	c.entries[i].Kind = kind
	return true
}

// Remove drops a seat from the cart.  Removing a seat that is not there is
// a no-op that returns false.
func (c *Cart) Remove(code string) bool {
	i := c.indexOf(seating.NormalizeCode(code))
	if i < 0 {
		return false
	}
	c.entries = append(c.entries[:i], c.entries[i+1:]...)
	return true
}

// Total prices every entry by its kind.
func (c *Cart) Total() pricing.Money {
	var total pricing.Money
	for _, e := range c.entries {
		total += pricing.PriceFor(e.Kind)
	}
	return total
}

// Entries returns a copy of the cart in insertion order.
func (c *Cart) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len is the number of seats in the cart.
func (c *Cart) Len() int { return len(c.entries) }

// KindOf implements seating.Selection.
func (c *Cart) KindOf(code string) (pricing.Kind, bool) {
	if i := c.indexOf(seating.NormalizeCode(code)); i >= 0 {
		return c.entries[i].Kind, true
	}
	return "", false
}

// Block replaces the set of unavailable seats.  Entries that became
// unavailable are dropped and returned in cart order.
func (c *Cart) Block(blocked seating.Occupancy) []string {
	if blocked == nil {
		blocked = seating.Occupancy{}
	}
	c.blocked = blocked
	var dropped []string
	kept := c.entries[:0]
	for _, e := range c.entries {
		if blocked.Has(e.SeatCode) {
			dropped = append(dropped, e.SeatCode)
			continue
		}
		kept = append(kept, e)
	}
	c.entries = kept
	return dropped
}

// Clear empties the cart.
func (c *Cart) Clear() { c.entries = nil }

func (c *Cart) indexOf(code string) int {
	for i, e := range c.entries {
		if e.SeatCode == code {
			return i
		}
	}
	return -1
}
