package dto

import (
	"time"

	commonDto "anoa.com/socialgram/pkg/dto"
	"github.com/google/uuid"
)

type CreatePostRequest struct {
	ImageURL string `json:"image_url" binding:"required"`
	Caption  string `json:"caption"`
}

type AddCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type SharePostRequest struct {
	ShareText string `json:"share_text"`
}

type CommentResponse struct {
	ID        uuid.UUID             `json:"id"`
	Author    commonDto.UserSummary `json:"author"`
	Text      string                `json:"text"`
	CreatedAt time.Time             `json:"created_at"`
}

type PostResponse struct {
	ID         uuid.UUID               `json:"id"`
	Author     commonDto.UserSummary   `json:"author"`
	ImageURL   string                  `json:"image_url"`
	Caption    string                  `json:"caption,omitempty"`
	Likes      []commonDto.UserSummary `json:"likes"`
	Comments   []CommentResponse       `json:"comments"`
	SharedFrom *uuid.UUID              `json:"shared_from,omitempty"`
	ShareText  string                  `json:"share_text,omitempty"`
	CreatedAt  time.Time               `json:"created_at"`
}

type LikeToggleResponse struct {
	PostID uuid.UUID `json:"post_id"`
	Likes  []string  `json:"likes"`
}
