package model

import "time"

// Session is a scheduled screening of a movie in a room.  Date uses the
// "2006-01-02" layout and Time the "15:04" layout; both are local to the
// cinema.
type Session struct {
	ID        uint64    `json:"id"`         // sessions.id
	MovieID   uint64    `json:"movie_id"`   // sessions.movie_id
	RoomID    uint64    `json:"room_id"`    // sessions.room_id
	Date      string    `json:"date"`       // sessions.session_date
	Time      string    `json:"time"`       // sessions.session_time
	CreatedAt time.Time `json:"created_at"` // sessions.created_at
}

// SessionDetail is a session joined with the names staff recognise.
type SessionDetail struct {
	Session
	MovieTitle   string `json:"movie_title"`
	RoomNumber   uint32 `json:"room_number"`
	RoomCapacity uint32 `json:"room_capacity"`
	SoldSeats    int64  `json:"sold_seats"`
}
