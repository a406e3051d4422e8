package feed

import (
	"context"
	"sort"
	"testing"
	"time"

	"anoa.com/socialgram/internal/entity"
	"anoa.com/socialgram/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error { return nil }

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindSummariesByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.User, error) {
	var users []entity.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			users = append(users, *u)
		}
	}
	return users, nil
}

type fakePostRepo struct {
	posts []entity.Post
}

func (r *fakePostRepo) Create(ctx context.Context, post *entity.Post) error { return nil }

func (r *fakePostRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePostRepo) FindByIDExpanded(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePostRepo) FindByAuthorIDs(ctx context.Context, authorIDs []uuid.UUID) ([]entity.Post, error) {
	var out []entity.Post
	for _, p := range r.posts {
		for _, id := range authorIDs {
			if p.AuthorID == id {
				out = append(out, p)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakePostRepo) AddLike(ctx context.Context, postID, userID uuid.UUID) error    { return nil }
func (r *fakePostRepo) RemoveLike(ctx context.Context, postID, userID uuid.UUID) error { return nil }

func (r *fakePostRepo) GetLikes(ctx context.Context, postID uuid.UUID) ([]string, error) {
	return nil, nil
}

func (r *fakePostRepo) AddComment(ctx context.Context, comment *entity.Comment) error { return nil }

func (r *fakePostRepo) CountShares(ctx context.Context, postID uuid.UUID) (int64, error) {
	return 0, nil
}

func postBy(author *entity.User, createdAt time.Time) entity.Post {
	id, _ := uuid.NewV7()
	return entity.Post{
		ID:        id,
		AuthorID:  author.ID,
		Author:    author,
		ImageURL:  "https://cdn.example.com/p.webp",
		CreatedAt: createdAt,
	}
}

func TestAssembleFeedAudienceAndOrdering(t *testing.T) {
	viewer := &entity.User{ID: uuid.New(), Name: "viewer", Username: "viewer"}
	followed := &entity.User{ID: uuid.New(), Name: "followed", Username: "followed"}
	stranger := &entity.User{ID: uuid.New(), Name: "stranger", Username: "stranger"}
	viewer.Following = []string{followed.ID.String()}

	users := &fakeUserRepo{users: map[uuid.UUID]*entity.User{
		viewer.ID:   viewer,
		followed.ID: followed,
		stranger.ID: stranger,
	}}

	base := time.Now()
	posts := &fakePostRepo{posts: []entity.Post{
		postBy(viewer, base.Add(-2*time.Hour)),
		postBy(followed, base.Add(-1*time.Hour)),
		postBy(followed, base),
		postBy(stranger, base.Add(-30*time.Minute)),
	}}

	svc := NewFeedService(users, posts)

	feed, err := svc.AssembleFeed(context.Background(), viewer.ID)
	require.NoError(t, err)
	require.Len(t, feed, 3)

	// Only viewer + followed authors appear.
	for _, p := range feed {
		assert.NotEqual(t, stranger.ID, p.Author.ID)
	}

	// Newest first.
	for i := 1; i < len(feed); i++ {
		assert.True(t, !feed[i-1].CreatedAt.Before(feed[i].CreatedAt))
	}
}

func TestAssembleFeedExpandsLikers(t *testing.T) {
	viewer := &entity.User{ID: uuid.New(), Name: "viewer", Username: "viewer"}
	liker := &entity.User{ID: uuid.New(), Name: "liker", Username: "liker"}

	users := &fakeUserRepo{users: map[uuid.UUID]*entity.User{
		viewer.ID: viewer,
		liker.ID:  liker,
	}}

	p := postBy(viewer, time.Now())
	p.Likes = []string{liker.ID.String()}
	posts := &fakePostRepo{posts: []entity.Post{p}}

	svc := NewFeedService(users, posts)

	feed, err := svc.AssembleFeed(context.Background(), viewer.ID)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	require.Len(t, feed[0].Likes, 1)
	assert.Equal(t, "liker", feed[0].Likes[0].Username)
}

func TestAssembleFeedUnknownViewer(t *testing.T) {
	svc := NewFeedService(&fakeUserRepo{users: map[uuid.UUID]*entity.User{}}, &fakePostRepo{})

	_, err := svc.AssembleFeed(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
