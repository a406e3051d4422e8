package post

import (
	"context"
	"testing"

	"anoa.com/socialgram/internal/entity"
	notification "anoa.com/socialgram/internal/modules/notification/service"
	postDto "anoa.com/socialgram/internal/modules/post/dto"
	"anoa.com/socialgram/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memoryPostRepo struct {
	posts    map[uuid.UUID]*entity.Post
	comments []*entity.Comment
}

func newMemoryPostRepo(posts ...*entity.Post) *memoryPostRepo {
	repo := &memoryPostRepo{posts: make(map[uuid.UUID]*entity.Post)}
	for _, p := range posts {
		repo.posts[p.ID] = p
	}
	return repo
}

func (r *memoryPostRepo) Create(ctx context.Context, post *entity.Post) error {
	if post.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		post.ID = id
	}
	r.posts[post.ID] = post
	return nil
}

func (r *memoryPostRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	post, ok := r.posts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *post
	return &copied, nil
}

func (r *memoryPostRepo) FindByIDExpanded(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	return r.FindByID(ctx, id)
}

func (r *memoryPostRepo) FindByAuthorIDs(ctx context.Context, authorIDs []uuid.UUID) ([]entity.Post, error) {
	var out []entity.Post
	for _, p := range r.posts {
		for _, id := range authorIDs {
			if p.AuthorID == id {
				out = append(out, *p)
				break
			}
		}
	}
	return out, nil
}

func (r *memoryPostRepo) AddLike(ctx context.Context, postID, userID uuid.UUID) error {
	post, ok := r.posts[postID]
	if !ok {
		return nil
	}
	for _, id := range post.Likes {
		if id == userID.String() {
			return nil
		}
	}
	post.Likes = append(post.Likes, userID.String())
	return nil
}

func (r *memoryPostRepo) RemoveLike(ctx context.Context, postID, userID uuid.UUID) error {
	post, ok := r.posts[postID]
	if !ok {
		return nil
	}
	out := post.Likes[:0]
	for _, id := range post.Likes {
		if id != userID.String() {
			out = append(out, id)
		}
	}
	post.Likes = out
	return nil
}

func (r *memoryPostRepo) GetLikes(ctx context.Context, postID uuid.UUID) ([]string, error) {
	post, ok := r.posts[postID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return append([]string(nil), post.Likes...), nil
}

func (r *memoryPostRepo) AddComment(ctx context.Context, comment *entity.Comment) error {
	r.comments = append(r.comments, comment)
	if post, ok := r.posts[comment.PostID]; ok {
		post.Comments = append(post.Comments, *comment)
	}
	return nil
}

func (r *memoryPostRepo) CountShares(ctx context.Context, postID uuid.UUID) (int64, error) {
	var count int64
	for _, p := range r.posts {
		if p.SharedFrom != nil && *p.SharedFrom == postID {
			count++
		}
	}
	return count, nil
}

type stubUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func (r *stubUserRepo) Create(ctx context.Context, user *entity.User) error { return nil }

func (r *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindSummariesByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.User, error) {
	var users []entity.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			users = append(users, *u)
		}
	}
	return users, nil
}

type capturingNotifRepo struct {
	created []*entity.Notification
}

func (r *capturingNotifRepo) Create(ctx context.Context, n *entity.Notification) error {
	r.created = append(r.created, n)
	return nil
}

func (r *capturingNotifRepo) GetByRecipient(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]entity.Notification, error) {
	return nil, nil
}

func (r *capturingNotifRepo) MarkAsRead(ctx context.Context, id uuid.UUID) error { return nil }

func (r *capturingNotifRepo) MarkAllAsRead(ctx context.Context, recipientID uuid.UUID) error {
	return nil
}

func (r *capturingNotifRepo) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	return 0, nil
}

func newService(repo *memoryPostRepo) (PostService, *capturingNotifRepo) {
	notifRepo := &capturingNotifRepo{}
	notifier := notification.NewNotificationService(notifRepo)
	users := &stubUserRepo{users: map[uuid.UUID]*entity.User{}}
	return NewPostService(repo, users, notifier), notifRepo
}

func newPost(authorID uuid.UUID) *entity.Post {
	id, _ := uuid.NewV7()
	return &entity.Post{
		ID:       id,
		AuthorID: authorID,
		ImageURL: "https://cdn.example.com/p.webp",
	}
}

func TestCreatePostRequiresImage(t *testing.T) {
	svc, notifRepo := newService(newMemoryPostRepo())

	_, err := svc.CreatePost(context.Background(), uuid.New(), postDto.CreatePostRequest{Caption: "no image"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	created, err := svc.CreatePost(context.Background(), uuid.New(), postDto.CreatePostRequest{
		ImageURL: "https://cdn.example.com/a.webp",
		Caption:  "hello",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	// Plain post creation never fans out.
	assert.Empty(t, notifRepo.created)
}

func TestToggleLikeTwiceRestoresOriginalSet(t *testing.T) {
	author := uuid.New()
	actor := uuid.New()
	p := newPost(author)
	repo := newMemoryPostRepo(p)
	svc, notifRepo := newService(repo)

	likes, err := svc.ToggleLike(context.Background(), actor, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{actor.String()}, likes)

	likes, err = svc.ToggleLike(context.Background(), actor, p.ID)
	require.NoError(t, err)
	assert.Empty(t, likes)

	// Only the add transition notified.
	require.Len(t, notifRepo.created, 1)
	assert.Equal(t, entity.NotificationLike, notifRepo.created[0].Kind)
	assert.Equal(t, author, notifRepo.created[0].RecipientID)
	assert.Equal(t, actor, notifRepo.created[0].SenderID)
	require.NotNil(t, notifRepo.created[0].PostID)
	assert.Equal(t, p.ID, *notifRepo.created[0].PostID)
}

func TestToggleLikeOwnPostCreatesNoNotification(t *testing.T) {
	author := uuid.New()
	p := newPost(author)
	repo := newMemoryPostRepo(p)
	svc, notifRepo := newService(repo)

	likes, err := svc.ToggleLike(context.Background(), author, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{author.String()}, likes)
	assert.Empty(t, notifRepo.created)
}

func TestToggleLikeMissingPost(t *testing.T) {
	svc, _ := newService(newMemoryPostRepo())

	_, err := svc.ToggleLike(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestAddCommentNotifiesAuthor(t *testing.T) {
	author := uuid.New()
	actor := uuid.New()
	p := newPost(author)
	repo := newMemoryPostRepo(p)
	svc, notifRepo := newService(repo)

	comment, err := svc.AddComment(context.Background(), actor, p.ID, "great shot")
	require.NoError(t, err)
	assert.Equal(t, "great shot", comment.Text)
	assert.Len(t, repo.comments, 1)

	require.Len(t, notifRepo.created, 1)
	assert.Equal(t, entity.NotificationComment, notifRepo.created[0].Kind)
	assert.Equal(t, author, notifRepo.created[0].RecipientID)
	assert.Equal(t, actor, notifRepo.created[0].SenderID)
}

func TestAddCommentOnOwnPostCreatesNoNotification(t *testing.T) {
	author := uuid.New()
	p := newPost(author)
	repo := newMemoryPostRepo(p)
	svc, notifRepo := newService(repo)

	_, err := svc.AddComment(context.Background(), author, p.ID, "self reply")
	require.NoError(t, err)
	assert.Empty(t, notifRepo.created)
	assert.Len(t, repo.comments, 1)
}

func TestAddCommentRejectsEmptyText(t *testing.T) {
	p := newPost(uuid.New())
	svc, _ := newService(newMemoryPostRepo(p))

	_, err := svc.AddComment(context.Background(), uuid.New(), p.ID, "   ")
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestSharePostCarriesContentReference(t *testing.T) {
	author := uuid.New()
	sharer := uuid.New()
	p := newPost(author)
	p.Caption = "original caption"
	repo := newMemoryPostRepo(p)
	svc, notifRepo := newService(repo)

	share, err := svc.SharePost(context.Background(), sharer, p.ID, "nice")
	require.NoError(t, err)
	assert.Equal(t, sharer, share.AuthorID)
	assert.Equal(t, p.ImageURL, share.ImageURL)
	assert.Equal(t, "nice", share.ShareText)
	require.NotNil(t, share.SharedFrom)
	assert.Equal(t, p.ID, *share.SharedFrom)

	count, err := svc.ShareCount(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Shares never fan out.
	assert.Empty(t, notifRepo.created)
}

func TestSharePostMissingOriginal(t *testing.T) {
	svc, _ := newService(newMemoryPostRepo())

	_, err := svc.SharePost(context.Background(), uuid.New(), uuid.New(), "gone")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestShareCountZeroWithoutShares(t *testing.T) {
	p := newPost(uuid.New())
	svc, _ := newService(newMemoryPostRepo(p))

	count, err := svc.ShareCount(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
