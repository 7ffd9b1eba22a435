package model

import "time"

// Movie is an entry of the catalogue.  StartDate and EndDate bound the
// period the movie is on screen and use the "2006-01-02" layout.
//
// Fields:
//
//	ID          – primary key identifier.
//	Title       – display title.
//	Synopsis    – short description shown to staff.
//	Rating      – age rating label (e.g. "L", "12", "16").
//	DurationMin – running time in minutes.
//	Genre       – free-form genre label.
//	StartDate   – first screening day.
//	EndDate     – last screening day.
type Movie struct {
	ID          uint64    `json:"id"`           // movies.id
	Title       string    `json:"title"`        // movies.title
	Synopsis    string    `json:"synopsis"`     // movies.synopsis
	Rating      string    `json:"rating"`       // movies.rating
	DurationMin uint32    `json:"duration_min"` // movies.duration_min
	Genre       string    `json:"genre"`        // movies.genre
	StartDate   string    `json:"start_date"`   // movies.start_date
	EndDate     string    `json:"end_date"`     // movies.end_date
	CreatedAt   time.Time `json:"created_at"`   // movies.created_at
	UpdatedAt   time.Time `json:"updated_at"`   // movies.updated_at
}
