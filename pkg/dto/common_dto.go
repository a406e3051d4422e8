package dto

import "github.com/google/uuid"

// UserSummary holds the minimal display fields expanded into follower
// listings, feed entries and notifications.
type UserSummary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
}
