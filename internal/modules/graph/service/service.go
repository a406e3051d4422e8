// Package graph owns the follow/unfollow edges and their projections.
//
// A follow touches two user records with two independent single-row writes.
// There is no transaction around the pair: a crash between them leaves a
// one-sided edge, which ReconcileEdges later repairs. See DESIGN.md.
package graph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"anoa.com/socialgram/internal/entity"
	graphDto "anoa.com/socialgram/internal/modules/graph/dto"
	graphRepo "anoa.com/socialgram/internal/modules/graph/repository"
	notification "anoa.com/socialgram/internal/modules/notification/service"
	userRepo "anoa.com/socialgram/internal/modules/user/repository"
	"anoa.com/socialgram/pkg/apperror"
	"anoa.com/socialgram/pkg/cache"
	commonDto "anoa.com/socialgram/pkg/dto"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GraphService interface {
	Follow(ctx context.Context, actorID, targetID uuid.UUID) error
	Unfollow(ctx context.Context, actorID, targetID uuid.UUID) error
	ListFollowers(ctx context.Context, userID uuid.UUID) ([]commonDto.UserSummary, error)
	ListFollowing(ctx context.Context, userID uuid.UUID) ([]commonDto.UserSummary, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*graphDto.ProfileResponse, error)
	ReconcileEdges(ctx context.Context) (int, error)
}

type graphService struct {
	graphRepo  graphRepo.GraphRepository
	userRepo   userRepo.UserRepository
	notifier   notification.NotificationService
	cache      cache.Cache
	profileTTL time.Duration
}

func NewGraphService(graphRepo graphRepo.GraphRepository, userRepo userRepo.UserRepository, notifier notification.NotificationService, profileCache cache.Cache, profileTTL time.Duration) GraphService {
	return &graphService{
		graphRepo:  graphRepo,
		userRepo:   userRepo,
		notifier:   notifier,
		cache:      profileCache,
		profileTTL: profileTTL,
	}
}

func (s *graphService) Follow(ctx context.Context, actorID, targetID uuid.UUID) error {
	if actorID == targetID {
		return apperror.ErrSelfAction
	}

	if _, err := s.userRepo.FindByID(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if contains(actor.Following, targetID.String()) {
		return apperror.ErrAlreadyRelated
	}

	// Two independent atomic writes, following side first. A failure between
	// them leaves a one-sided edge until the reconciliation pass completes it.
	if err := s.graphRepo.AddFollowing(ctx, actorID, targetID); err != nil {
		return err
	}
	if err := s.graphRepo.AddFollower(ctx, targetID, actorID); err != nil {
		return err
	}

	if err := s.notifier.Dispatch(ctx, targetID, actorID, entity.NotificationFollow, nil); err != nil {
		log.Printf("follow notification failed: %v", err)
	}

	return nil
}

// Unfollow is idempotent: removing an edge that does not exist succeeds.
func (s *graphService) Unfollow(ctx context.Context, actorID, targetID uuid.UUID) error {
	if actorID == targetID {
		return apperror.ErrSelfAction
	}

	if _, err := s.userRepo.FindByID(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	// Followers side first, mirroring the follow order so an interrupted
	// unfollow leaves the same one-sided shape the reconciler understands.
	if err := s.graphRepo.RemoveFollower(ctx, targetID, actorID); err != nil {
		return err
	}
	return s.graphRepo.RemoveFollowing(ctx, actorID, targetID)
}

func (s *graphService) ListFollowers(ctx context.Context, userID uuid.UUID) ([]commonDto.UserSummary, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	return s.expandSummaries(ctx, user.Followers)
}

func (s *graphService) ListFollowing(ctx context.Context, userID uuid.UUID) ([]commonDto.UserSummary, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	return s.expandSummaries(ctx, user.Following)
}

// GetProfile reads through the cache: a hit within TTL is served as-is, a
// miss reads persistence and refreshes the snapshot. Follow/unfollow never
// invalidate it, so counts may lag by up to profileTTL.
func (s *graphService) GetProfile(ctx context.Context, userID uuid.UUID) (*graphDto.ProfileResponse, error) {
	key := profileCacheKey(userID)

	if payload, ok, err := s.cache.Get(ctx, key); err != nil {
		log.Printf("profile cache read failed: %v", err)
	} else if ok {
		var profile graphDto.ProfileResponse
		if err := json.Unmarshal(payload, &profile); err == nil {
			return &profile, nil
		}
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	profile := &graphDto.ProfileResponse{
		ID:             user.ID,
		Name:           user.Name,
		Username:       user.Username,
		Bio:            user.Bio,
		AvatarURL:      user.AvatarURL,
		FollowerCount:  len(user.Followers),
		FollowingCount: len(user.Following),
		CreatedAt:      user.CreatedAt,
	}

	if payload, err := json.Marshal(profile); err == nil {
		if err := s.cache.Set(ctx, key, payload, s.profileTTL); err != nil {
			log.Printf("profile cache write failed: %v", err)
		}
	}

	return profile, nil
}

// ReconcileEdges repairs one-sided follow edges left by failures between the
// two writes of a follow or unfollow. The following array is treated as the
// authoritative side: missing reverse followers entries are completed, and
// followers entries with no matching following entry are pruned. Every
// repair is itself a guarded atomic array mutation, so the pass is
// idempotent and safe against live traffic.
func (s *graphService) ReconcileEdges(ctx context.Context) (int, error) {
	ids, err := s.graphRepo.AllUserIDs(ctx)
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, id := range ids {
		user, err := s.userRepo.FindByID(ctx, id)
		if err != nil {
			continue
		}

		for _, raw := range user.Following {
			targetID, err := uuid.Parse(raw)
			if err != nil {
				continue
			}
			target, err := s.userRepo.FindByID(ctx, targetID)
			if err != nil {
				continue
			}
			if !contains(target.Followers, user.ID.String()) {
				if err := s.graphRepo.AddFollower(ctx, targetID, user.ID); err == nil {
					repaired++
				}
			}
		}

		for _, raw := range user.Followers {
			followerID, err := uuid.Parse(raw)
			if err != nil {
				continue
			}
			follower, err := s.userRepo.FindByID(ctx, followerID)
			if err != nil {
				continue
			}
			if !contains(follower.Following, user.ID.String()) {
				if err := s.graphRepo.RemoveFollower(ctx, user.ID, followerID); err == nil {
					repaired++
				}
			}
		}
	}

	return repaired, nil
}

func (s *graphService) expandSummaries(ctx context.Context, rawIDs []string) ([]commonDto.UserSummary, error) {
	ids := make([]uuid.UUID, 0, len(rawIDs))
	for _, raw := range rawIDs {
		if id, err := uuid.Parse(raw); err == nil {
			ids = append(ids, id)
		}
	}

	users, err := s.userRepo.FindSummariesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// Preserve the stored edge order.
	byID := make(map[uuid.UUID]entity.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	summaries := make([]commonDto.UserSummary, 0, len(ids))
	for _, id := range ids {
		u, ok := byID[id]
		if !ok {
			continue
		}
		summaries = append(summaries, commonDto.UserSummary{
			ID:        u.ID,
			Name:      u.Name,
			Username:  u.Username,
			AvatarURL: u.AvatarURL,
		})
	}

	return summaries, nil
}

func profileCacheKey(userID uuid.UUID) string {
	return fmt.Sprintf("profile:%s", userID)
}

func contains(set []string, value string) bool {
	for _, v := range set {
		if v == value {
			return true
		}
	}
	return false
}
