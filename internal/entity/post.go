package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Post struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Author   *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`

	// ImageURL is the opaque content reference returned by the media storage
	// provider. It is immutable after creation; a share copies it verbatim.
	ImageURL string `gorm:"type:text;not null" json:"image_url"`
	Caption  string `gorm:"type:text" json:"caption"`

	// Likes is a user-id set mutated only through guarded
	// array_append/array_remove updates, so a double toggle always restores
	// the original set.
	Likes pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"likes"`

	Comments []Comment `gorm:"foreignKey:PostID" json:"comments,omitempty"`

	SharedFrom *uuid.UUID `gorm:"type:uuid;index" json:"shared_from,omitempty"`
	ShareText  string     `gorm:"type:text" json:"share_text,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID, err = uuid.NewV7()
	}
	return
}

// Comment is append-only: rows are created by the engagement path and never
// updated afterwards.
type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;index" json:"post_id"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null" json:"author_id"`
	Author    *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}
