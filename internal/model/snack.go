package model

import (
	"time"

	"github.com/iliyamo/cineweb-backoffice/internal/pricing"
)

// Snack is an item of the concession menu.  Stock is not tracked.
type Snack struct {
	ID          uint64        `json:"id"`          // snacks.id
	Name        string        `json:"name"`        // snacks.name
	Description string        `json:"description"` // snacks.description
	Price       pricing.Money `json:"price"`       // snacks.price_cents
	Category    string        `json:"category"`    // snacks.category
	CreatedAt   time.Time     `json:"created_at"`  // snacks.created_at
	UpdatedAt   time.Time     `json:"updated_at"`  // snacks.updated_at
}
