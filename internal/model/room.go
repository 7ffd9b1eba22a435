package model

import "time"

// Room is a screening room.  Its capacity drives the seat layout, so
// every session in the room shares the same seat codes.
type Room struct {
	ID        uint64    `json:"id"`         // rooms.id
	Number    uint32    `json:"number"`     // rooms.number (unique)
	Capacity  uint32    `json:"capacity"`   // rooms.capacity
	CreatedAt time.Time `json:"created_at"` // rooms.created_at
	UpdatedAt time.Time `json:"updated_at"` // rooms.updated_at
}
