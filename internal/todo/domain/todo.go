package domain

import "time"

// SystemOwner is the sentinel owner written when a request carries no
// derivable identity (pure client-credential callers). Every record has a
// non-empty owner.
const SystemOwner = "system"

// Todo is a single to-do record. Ownership is the provider subject of the
// user that created it, or SystemOwner.
type Todo struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Completed   bool      `json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"`
	UserID      string    `json:"user_id"`
}
