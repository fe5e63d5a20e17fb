package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/campusnet-app/backend/internal/models"
	"github.com/campusnet-app/backend/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newEngagementFixture(t *testing.T, post *models.Post) (*EngagementService, *fakePostRepo, *fakeCommentRepo, *fakeNotificationRepo) {
	t.Helper()
	users := newFakeUserRepo(
		&models.User{ID: 1, Name: "Alice"},
		&models.User{ID: 2, Name: "Bob"},
	)
	posts := newFakePostRepo(post)
	comments := newFakeCommentRepo()
	notifRepo := newFakeNotificationRepo()
	notifier := NewNotifier(notifRepo, users, &recordingDeliverer{})
	svc := NewEngagementService(newFakeMarkRepo(), posts, comments, notifier)
	return svc, posts, comments, notifRepo
}

func testPost(authorID uint) *models.Post {
	return &models.Post{ID: primitive.NewObjectID(), AuthorID: authorID}
}

func TestToggleLikeIsSelfInverse(t *testing.T) {
	post := testPost(1)
	svc, posts, _, _ := newEngagementFixture(t, post)
	ctx := context.Background()
	id := post.ID.Hex()

	liked, err := svc.ToggleLike(ctx, 2, id)
	require.NoError(t, err)
	assert.True(t, liked)

	got, _ := posts.GetPostByID(ctx, id)
	assert.Equal(t, int64(1), got.LikesCount)

	liked, err = svc.ToggleLike(ctx, 2, id)
	require.NoError(t, err)
	assert.False(t, liked)

	got, _ = posts.GetPostByID(ctx, id)
	assert.Zero(t, got.LikesCount)
}

func TestToggleLikeUnknownPost(t *testing.T) {
	svc, _, _, _ := newEngagementFixture(t, testPost(1))

	_, err := svc.ToggleLike(context.Background(), 2, primitive.NewObjectID().Hex())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestConcurrentLikesExactCount(t *testing.T) {
	post := testPost(1)
	svc, posts, _, _ := newEngagementFixture(t, post)
	ctx := context.Background()
	id := post.ID.Hex()

	// distinct actors liking in parallel must each land exactly once
	const actors = 32
	var wg sync.WaitGroup
	for i := 0; i < actors; i++ {
		wg.Add(1)
		go func(actor uint) {
			defer wg.Done()
			_, err := svc.ToggleLike(ctx, actor, id)
			assert.NoError(t, err)
		}(uint(100 + i))
	}
	wg.Wait()

	got, _ := posts.GetPostByID(ctx, id)
	assert.Equal(t, int64(actors), got.LikesCount)
}

func TestConcurrentToggleSameActor(t *testing.T) {
	post := testPost(1)
	svc, posts, _, _ := newEngagementFixture(t, post)
	ctx := context.Background()
	id := post.ID.Hex()

	// an even number of toggles from one actor must return to the base state
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ToggleLike(ctx, 2, id)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, _ := posts.GetPostByID(ctx, id)
	assert.Zero(t, got.LikesCount)
}

func TestSelfLikeDoesNotNotify(t *testing.T) {
	post := testPost(1)
	svc, _, _, notifRepo := newEngagementFixture(t, post)

	liked, err := svc.ToggleLike(context.Background(), 1, post.ID.Hex())
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Empty(t, notifRepo.all())
}

func TestLikeNotifiesAuthorOnceEvenAfterRetoggle(t *testing.T) {
	post := testPost(1)
	svc, _, _, notifRepo := newEngagementFixture(t, post)
	ctx := context.Background()
	id := post.ID.Hex()

	_, err := svc.ToggleLike(ctx, 2, id)
	require.NoError(t, err)
	_, err = svc.ToggleLike(ctx, 2, id) // unlike
	require.NoError(t, err)
	_, err = svc.ToggleLike(ctx, 2, id) // like again
	require.NoError(t, err)

	created := notifRepo.all()
	require.Len(t, created, 2) // one per insertion, none for removal
	for _, n := range created {
		assert.Equal(t, models.NotificationLike, n.Type)
		assert.Equal(t, uint(1), n.RecipientID)
	}
}

func TestToggleSaveNeverNotifies(t *testing.T) {
	post := testPost(1)
	svc, posts, _, notifRepo := newEngagementFixture(t, post)
	ctx := context.Background()
	id := post.ID.Hex()

	saved, err := svc.ToggleSave(ctx, 2, id)
	require.NoError(t, err)
	assert.True(t, saved)

	got, _ := posts.GetPostByID(ctx, id)
	assert.Equal(t, int64(1), got.SavesCount)
	assert.Empty(t, notifRepo.all())
}

func TestLikeAndSaveAreIndependent(t *testing.T) {
	post := testPost(1)
	svc, posts, _, _ := newEngagementFixture(t, post)
	ctx := context.Background()
	id := post.ID.Hex()

	_, err := svc.ToggleLike(ctx, 2, id)
	require.NoError(t, err)
	_, err = svc.ToggleSave(ctx, 2, id)
	require.NoError(t, err)
	_, err = svc.ToggleSave(ctx, 2, id)
	require.NoError(t, err)

	got, _ := posts.GetPostByID(ctx, id)
	assert.Equal(t, int64(1), got.LikesCount)
	assert.Zero(t, got.SavesCount)
}

func TestShareAccumulates(t *testing.T) {
	post := testPost(1)
	svc, posts, _, notifRepo := newEngagementFixture(t, post)
	ctx := context.Background()
	id := post.ID.Hex()

	// no per-actor record: repeat shares keep counting
	count, err := svc.Share(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = svc.Share(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	got, _ := posts.GetPostByID(ctx, id)
	assert.Equal(t, int64(2), got.SharesCount)
	assert.Empty(t, notifRepo.all())
}

func TestShareUnknownPost(t *testing.T) {
	svc, _, _, _ := newEngagementFixture(t, testPost(1))

	_, err := svc.Share(context.Background(), primitive.NewObjectID().Hex())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestCommentAlwaysAppends(t *testing.T) {
	post := testPost(1)
	svc, posts, comments, notifRepo := newEngagementFixture(t, post)
	ctx := context.Background()
	id := post.ID.Hex()

	for i := 0; i < 3; i++ {
		_, err := svc.Comment(ctx, 2, id, fmt.Sprintf("comment %d", i))
		require.NoError(t, err)
	}
	// repeating the same text is still a new comment
	_, err := svc.Comment(ctx, 2, id, "comment 0")
	require.NoError(t, err)

	got, _ := posts.GetPostByID(ctx, id)
	assert.Equal(t, int64(4), got.CommentsCount)

	list, total, err := comments.GetCommentsByPostID(id, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, list, 4)

	assert.Len(t, notifRepo.all(), 4)
}

func TestSelfCommentDoesNotNotify(t *testing.T) {
	post := testPost(1)
	svc, _, _, notifRepo := newEngagementFixture(t, post)

	_, err := svc.Comment(context.Background(), 1, post.ID.Hex(), "my own post")
	require.NoError(t, err)
	assert.Empty(t, notifRepo.all())
}

func TestDeleteCommentDecrementsWithFloor(t *testing.T) {
	post := testPost(1)
	svc, posts, _, _ := newEngagementFixture(t, post)
	ctx := context.Background()
	id := post.ID.Hex()

	comment, err := svc.Comment(ctx, 2, id, "hello")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteComment(ctx, comment))
	got, _ := posts.GetPostByID(ctx, id)
	assert.Zero(t, got.CommentsCount)

	// deleting again must not push the counter negative
	require.NoError(t, svc.DeleteComment(ctx, comment))
	got, _ = posts.GetPostByID(ctx, id)
	assert.Zero(t, got.CommentsCount)
}
