// Package post owns the engagement store: posts, likes, comments and
// shares. Like and comment mutations that succeed invoke the notification
// dispatcher; the dispatcher, not this package, suppresses self-notification.
package post

import (
	"context"
	"errors"
	"log"
	"strings"

	"anoa.com/socialgram/internal/entity"
	notification "anoa.com/socialgram/internal/modules/notification/service"
	postDto "anoa.com/socialgram/internal/modules/post/dto"
	postRepo "anoa.com/socialgram/internal/modules/post/repository"
	userRepo "anoa.com/socialgram/internal/modules/user/repository"
	"anoa.com/socialgram/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostService interface {
	CreatePost(ctx context.Context, authorID uuid.UUID, req postDto.CreatePostRequest) (*entity.Post, error)
	GetPost(ctx context.Context, postID uuid.UUID) (*postDto.PostResponse, error)
	GetPostsByAuthor(ctx context.Context, authorID uuid.UUID) ([]postDto.PostResponse, error)
	// ToggleLike returns the updated like set. Adding dispatches a like
	// notification; removing never does.
	ToggleLike(ctx context.Context, actorID, postID uuid.UUID) ([]string, error)
	AddComment(ctx context.Context, actorID, postID uuid.UUID, text string) (*entity.Comment, error)
	SharePost(ctx context.Context, actorID, postID uuid.UUID, shareText string) (*entity.Post, error)
	ShareCount(ctx context.Context, postID uuid.UUID) (int64, error)
}

type postService struct {
	postRepo postRepo.PostRepository
	userRepo userRepo.UserRepository
	notifier notification.NotificationService
}

func NewPostService(postRepo postRepo.PostRepository, userRepo userRepo.UserRepository, notifier notification.NotificationService) PostService {
	return &postService{
		postRepo: postRepo,
		userRepo: userRepo,
		notifier: notifier,
	}
}

// CreatePost persists a new post. No notification is dispatched for plain
// post creation.
func (s *postService) CreatePost(ctx context.Context, authorID uuid.UUID, req postDto.CreatePostRequest) (*entity.Post, error) {
	if strings.TrimSpace(req.ImageURL) == "" {
		return nil, apperror.New(400, "image is required", apperror.ErrInvalidInput)
	}

	post := &entity.Post{
		AuthorID: authorID,
		ImageURL: req.ImageURL,
		Caption:  req.Caption,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

func (s *postService) GetPost(ctx context.Context, postID uuid.UUID) (*postDto.PostResponse, error) {
	post, err := s.postRepo.FindByIDExpanded(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	responses, err := ExpandPosts(ctx, s.userRepo, []entity.Post{*post})
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

func (s *postService) GetPostsByAuthor(ctx context.Context, authorID uuid.UUID) ([]postDto.PostResponse, error) {
	posts, err := s.postRepo.FindByAuthorIDs(ctx, []uuid.UUID{authorID})
	if err != nil {
		return nil, err
	}
	return ExpandPosts(ctx, s.userRepo, posts)
}

func (s *postService) ToggleLike(ctx context.Context, actorID, postID uuid.UUID) ([]string, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	liked := false
	for _, id := range post.Likes {
		if id == actorID.String() {
			liked = true
			break
		}
	}

	if liked {
		if err := s.postRepo.RemoveLike(ctx, postID, actorID); err != nil {
			return nil, err
		}
	} else {
		if err := s.postRepo.AddLike(ctx, postID, actorID); err != nil {
			return nil, err
		}
		// Fan out only on the add transition.
		if err := s.notifier.Dispatch(ctx, post.AuthorID, actorID, entity.NotificationLike, &postID); err != nil {
			log.Printf("like notification failed: %v", err)
		}
	}

	return s.postRepo.GetLikes(ctx, postID)
}

func (s *postService) AddComment(ctx context.Context, actorID, postID uuid.UUID, text string) (*entity.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperror.New(400, "comment text is required", apperror.ErrInvalidInput)
	}

	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	comment := &entity.Comment{
		PostID:   postID,
		AuthorID: actorID,
		Text:     text,
	}

	if err := s.postRepo.AddComment(ctx, comment); err != nil {
		return nil, err
	}

	if err := s.notifier.Dispatch(ctx, post.AuthorID, actorID, entity.NotificationComment, &postID); err != nil {
		log.Printf("comment notification failed: %v", err)
	}

	return comment, nil
}

// SharePost creates a new post authored by the actor carrying the original
// content reference. No notification is dispatched for shares.
func (s *postService) SharePost(ctx context.Context, actorID, postID uuid.UUID, shareText string) (*entity.Post, error) {
	original, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	sharedFrom := original.ID
	share := &entity.Post{
		AuthorID:   actorID,
		ImageURL:   original.ImageURL,
		SharedFrom: &sharedFrom,
		ShareText:  shareText,
	}

	if err := s.postRepo.Create(ctx, share); err != nil {
		return nil, err
	}

	return share, nil
}

func (s *postService) ShareCount(ctx context.Context, postID uuid.UUID) (int64, error) {
	return s.postRepo.CountShares(ctx, postID)
}
