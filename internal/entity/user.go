package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Bio          *string   `gorm:"type:text" json:"bio,omitempty"`
	AvatarURL    *string   `gorm:"type:text" json:"avatar_url,omitempty"`

	// Follow edges live on the user record as id sets and are mutated only
	// through guarded array_append/array_remove updates. A user id never
	// appears in its own Followers or Following.
	Followers pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"followers"`
	Following pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"following"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
