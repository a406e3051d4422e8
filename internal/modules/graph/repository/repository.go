package repository

import (
	"context"

	"anoa.com/socialgram/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GraphRepository exposes the atomic set mutations on the follow edge
// arrays. Each call is a single-row update: the membership guard and the
// array_append/array_remove run in one statement, so concurrent calls on the
// same row cannot produce duplicates or partial field updates. Atomicity
// across TWO rows is explicitly not provided; callers own that gap.
type GraphRepository interface {
	AddFollowing(ctx context.Context, userID, targetID uuid.UUID) error
	AddFollower(ctx context.Context, userID, followerID uuid.UUID) error
	RemoveFollowing(ctx context.Context, userID, targetID uuid.UUID) error
	RemoveFollower(ctx context.Context, userID, followerID uuid.UUID) error
	AllUserIDs(ctx context.Context) ([]uuid.UUID, error)
}

type graphRepository struct {
	db *gorm.DB
}

func NewGraphRepository(db *gorm.DB) GraphRepository {
	return &graphRepository{db: db}
}

func (r *graphRepository) AddFollowing(ctx context.Context, userID, targetID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ? AND NOT (? = ANY(following))", userID, targetID.String()).
		Update("following", gorm.Expr("array_append(following, ?)", targetID.String())).Error
}

func (r *graphRepository) AddFollower(ctx context.Context, userID, followerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ? AND NOT (? = ANY(followers))", userID, followerID.String()).
		Update("followers", gorm.Expr("array_append(followers, ?)", followerID.String())).Error
}

func (r *graphRepository) RemoveFollowing(ctx context.Context, userID, targetID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", userID).
		Update("following", gorm.Expr("array_remove(following, ?)", targetID.String())).Error
}

func (r *graphRepository) RemoveFollower(ctx context.Context, userID, followerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", userID).
		Update("followers", gorm.Expr("array_remove(followers, ?)", followerID.String())).Error
}

func (r *graphRepository) AllUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Pluck("id", &ids).Error
	return ids, err
}
