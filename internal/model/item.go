package model

import "time"

// Item is the domain model for a todo entry.
// Items are never edited; they are created and later deleted.
type Item struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
