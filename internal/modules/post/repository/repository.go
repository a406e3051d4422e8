package repository

import (
	"context"

	"anoa.com/socialgram/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error)
	// FindByIDExpanded preloads the author and comment authors for display.
	FindByIDExpanded(ctx context.Context, id uuid.UUID) (*entity.Post, error)
	// FindByAuthorIDs returns every post authored by the given set, newest
	// first, with display preloads.
	FindByAuthorIDs(ctx context.Context, authorIDs []uuid.UUID) ([]entity.Post, error)
	AddLike(ctx context.Context, postID, userID uuid.UUID) error
	RemoveLike(ctx context.Context, postID, userID uuid.UUID) error
	GetLikes(ctx context.Context, postID uuid.UUID) ([]string, error)
	AddComment(ctx context.Context, comment *entity.Comment) error
	CountShares(ctx context.Context, postID uuid.UUID) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	var post entity.Post
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&post).Error; err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *postRepository) FindByIDExpanded(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	var post entity.Post
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Preload("Author", selectSummary).
		Preload("Comments", orderComments).
		Preload("Comments.Author", selectSummary).
		First(&post).Error; err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *postRepository) FindByAuthorIDs(ctx context.Context, authorIDs []uuid.UUID) ([]entity.Post, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}

	var posts []entity.Post
	err := r.db.WithContext(ctx).
		Where("author_id IN ?", authorIDs).
		Order("created_at desc").
		Preload("Author", selectSummary).
		Preload("Comments", orderComments).
		Preload("Comments.Author", selectSummary).
		Find(&posts).Error
	return posts, err
}

// AddLike is a guarded single-statement array append: it is a no-op when the
// user already appears in the like set.
func (r *postRepository) AddLike(ctx context.Context, postID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.Post{}).
		Where("id = ? AND NOT (? = ANY(likes))", postID, userID.String()).
		Update("likes", gorm.Expr("array_append(likes, ?)", userID.String())).Error
}

func (r *postRepository) RemoveLike(ctx context.Context, postID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.Post{}).
		Where("id = ?", postID).
		Update("likes", gorm.Expr("array_remove(likes, ?)", userID.String())).Error
}

func (r *postRepository) GetLikes(ctx context.Context, postID uuid.UUID) ([]string, error) {
	var post entity.Post
	if err := r.db.WithContext(ctx).
		Select("id", "likes").
		Where("id = ?", postID).
		First(&post).Error; err != nil {
		return nil, err
	}
	return post.Likes, nil
}

func (r *postRepository) AddComment(ctx context.Context, comment *entity.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *postRepository) CountShares(ctx context.Context, postID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Post{}).
		Where("shared_from = ?", postID).
		Count(&count).Error
	return count, err
}

func selectSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "username", "avatar_url")
}

func orderComments(db *gorm.DB) *gorm.DB {
	return db.Order("comments.created_at asc")
}
