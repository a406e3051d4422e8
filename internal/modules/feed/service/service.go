// Package feed composes a viewer's timeline from the social graph and the
// engagement store. There is no pagination boundary: the audience's posts
// are fetched in full, recency ordered.
package feed

import (
	"context"
	"errors"

	postDto "anoa.com/socialgram/internal/modules/post/dto"
	postRepo "anoa.com/socialgram/internal/modules/post/repository"
	post "anoa.com/socialgram/internal/modules/post/service"
	userRepo "anoa.com/socialgram/internal/modules/user/repository"
	"anoa.com/socialgram/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FeedService interface {
	// AssembleFeed returns posts authored by the viewer or anyone the viewer
	// follows, newest first, with authors, comment authors and liking users
	// expanded for display.
	AssembleFeed(ctx context.Context, viewerID uuid.UUID) ([]postDto.PostResponse, error)
}

type feedService struct {
	userRepo userRepo.UserRepository
	postRepo postRepo.PostRepository
}

func NewFeedService(userRepo userRepo.UserRepository, postRepo postRepo.PostRepository) FeedService {
	return &feedService{
		userRepo: userRepo,
		postRepo: postRepo,
	}
}

func (s *feedService) AssembleFeed(ctx context.Context, viewerID uuid.UUID) ([]postDto.PostResponse, error) {
	viewer, err := s.userRepo.FindByID(ctx, viewerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	// Audience is the viewer plus everyone they follow.
	audience := make([]uuid.UUID, 0, len(viewer.Following)+1)
	audience = append(audience, viewerID)
	for _, raw := range viewer.Following {
		if id, err := uuid.Parse(raw); err == nil {
			audience = append(audience, id)
		}
	}

	posts, err := s.postRepo.FindByAuthorIDs(ctx, audience)
	if err != nil {
		return nil, err
	}

	return post.ExpandPosts(ctx, s.userRepo, posts)
}
