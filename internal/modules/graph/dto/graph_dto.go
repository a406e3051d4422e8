package dto

import (
	"time"

	"github.com/google/uuid"
)

// ProfileResponse is the snapshot stored in the profile cache. It is
// overwritten wholesale on refresh, never patched.
type ProfileResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Username       string    `json:"username"`
	Bio            *string   `json:"bio,omitempty"`
	AvatarURL      *string   `json:"avatar_url,omitempty"`
	FollowerCount  int       `json:"follower_count"`
	FollowingCount int       `json:"following_count"`
	CreatedAt      time.Time `json:"created_at"`
}
