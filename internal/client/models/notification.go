package models

import "time"

// Notification is one entry of the user's notification feed. Read flips
// false→true only; the reverse happens solely as a rollback of a failed
// mark-read mutation.
type Notification struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	Read      bool      `json:"read"`
	Link      string    `json:"link"`
}
