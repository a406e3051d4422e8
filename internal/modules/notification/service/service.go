// Package notification fans out notification records from engagement events.
// Self-action suppression lives here and nowhere else: Dispatch is a no-op
// when recipient and sender are the same user, so callers never pre-filter.
package notification

import (
	"context"
	"fmt"

	"anoa.com/socialgram/internal/entity"
	notifDto "anoa.com/socialgram/internal/modules/notification/dto"
	notifRepo "anoa.com/socialgram/internal/modules/notification/repository"
	commonDto "anoa.com/socialgram/pkg/dto"
	"github.com/google/uuid"
)

type NotificationService interface {
	// Dispatch persists a notification unless recipient == sender, in which
	// case nothing is stored and nil is returned.
	Dispatch(ctx context.Context, recipientID, senderID uuid.UUID, kind entity.NotificationKind, postID *uuid.UUID) error
	ListForRecipient(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]notifDto.NotificationResponse, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, recipientID uuid.UUID) error
	UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error)
}

type notificationService struct {
	repo notifRepo.NotificationRepository
}

func NewNotificationService(repo notifRepo.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) Dispatch(ctx context.Context, recipientID, senderID uuid.UUID, kind entity.NotificationKind, postID *uuid.UUID) error {
	if recipientID == senderID {
		return nil
	}

	if !kind.Valid() {
		return fmt.Errorf("unknown notification kind: %q", kind)
	}

	return s.repo.Create(ctx, &entity.Notification{
		RecipientID: recipientID,
		SenderID:    senderID,
		Kind:        kind,
		PostID:      postID,
		IsRead:      false,
	})
}

func (s *notificationService) ListForRecipient(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]notifDto.NotificationResponse, error) {
	notifications, err := s.repo.GetByRecipient(ctx, recipientID, limit, offset)
	if err != nil {
		return nil, err
	}

	responses := make([]notifDto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		resp := notifDto.NotificationResponse{
			ID:        n.ID,
			Kind:      n.Kind,
			PostID:    n.PostID,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		}

		if n.Sender != nil {
			resp.Sender = commonDto.UserSummary{
				ID:        n.Sender.ID,
				Name:      n.Sender.Name,
				Username:  n.Sender.Username,
				AvatarURL: n.Sender.AvatarURL,
			}
		}

		if n.Post != nil {
			thumb := n.Post.ImageURL
			resp.PostThumb = &thumb
		}

		responses = append(responses, resp)
	}

	return responses, nil
}

// MarkAsRead is idempotent: marking an already-read notification succeeds.
func (s *notificationService) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, id)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, recipientID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, recipientID)
}

func (s *notificationService) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, recipientID)
}
