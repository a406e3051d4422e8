package dto

import (
	"time"

	"anoa.com/socialgram/internal/entity"
	commonDto "anoa.com/socialgram/pkg/dto"
	"github.com/google/uuid"
)

type NotificationResponse struct {
	ID        uuid.UUID               `json:"id"`
	Kind      entity.NotificationKind `json:"kind"`
	Sender    commonDto.UserSummary   `json:"sender"`
	PostID    *uuid.UUID              `json:"post_id,omitempty"`
	PostThumb *string                 `json:"post_thumb,omitempty"`
	IsRead    bool                    `json:"is_read"`
	CreatedAt time.Time               `json:"created_at"`
}
