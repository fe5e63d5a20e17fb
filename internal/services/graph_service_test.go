package services

import (
	"errors"
	"sync"
	"testing"

	"github.com/campusnet-app/backend/internal/models"
	"github.com/campusnet-app/backend/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGraphFixture(t *testing.T) (*GraphService, *fakeFollowRepo, *fakeBlockRepo, *fakeNotificationRepo, *recordingDeliverer) {
	t.Helper()
	users := newFakeUserRepo(
		&models.User{ID: 1, Name: "Alice"},
		&models.User{ID: 2, Name: "Bob"},
		&models.User{ID: 3, Name: "Carol"},
	)
	follows := newFakeFollowRepo()
	blocks := newFakeBlockRepo()
	notifRepo := newFakeNotificationRepo()
	broker := &recordingDeliverer{}
	notifier := NewNotifier(notifRepo, users, broker)
	return NewGraphService(follows, blocks, users, notifier), follows, blocks, notifRepo, broker
}

func TestFollowSelfRejected(t *testing.T) {
	svc, follows, _, notifRepo, _ := newGraphFixture(t)

	_, err := svc.Follow(1, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrSelfReference))

	n, _ := follows.CountFollowing(1)
	assert.Zero(t, n)
	assert.Empty(t, notifRepo.all())
}

func TestFollowUnknownTarget(t *testing.T) {
	svc, _, _, _, _ := newGraphFixture(t)

	_, err := svc.Follow(1, 99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestFollowIdempotent(t *testing.T) {
	svc, follows, _, notifRepo, _ := newGraphFixture(t)

	created, err := svc.Follow(1, 2)
	require.NoError(t, err)
	assert.True(t, created)

	// second follow succeeds but changes nothing
	created, err = svc.Follow(1, 2)
	require.NoError(t, err)
	assert.False(t, created)

	following, _ := follows.CountFollowing(1)
	followers, _ := follows.CountFollowers(2)
	assert.Equal(t, int64(1), following)
	assert.Equal(t, int64(1), followers)

	// only the first creation notified
	assert.Len(t, notifRepo.all(), 1)
}

func TestFollowNotifiesTarget(t *testing.T) {
	svc, _, _, notifRepo, broker := newGraphFixture(t)

	_, err := svc.Follow(1, 2)
	require.NoError(t, err)

	created := notifRepo.all()
	require.Len(t, created, 1)
	assert.Equal(t, models.NotificationFollow, created[0].Type)
	assert.Equal(t, uint(1), created[0].ActorID)
	assert.Equal(t, uint(2), created[0].RecipientID)
	assert.False(t, created[0].IsRead)
	assert.Equal(t, "Alice started following you", created[0].Message)

	delivered := broker.all()
	require.Len(t, delivered, 1)
	assert.Equal(t, uint(2), delivered[0].userID)
}

func TestConcurrentFollowCreatesOneEdge(t *testing.T) {
	svc, follows, _, notifRepo, _ := newGraphFixture(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Follow(1, 2)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	following, _ := follows.CountFollowing(1)
	followers, _ := follows.CountFollowers(2)
	assert.Equal(t, int64(1), following)
	assert.Equal(t, int64(1), followers)
	assert.Len(t, notifRepo.all(), 1)
}

func TestUnfollowIdempotent(t *testing.T) {
	svc, follows, _, _, _ := newGraphFixture(t)

	_, err := svc.Follow(1, 2)
	require.NoError(t, err)

	removed, err := svc.Unfollow(1, 2)
	require.NoError(t, err)
	assert.True(t, removed)

	// unfollowing again must not drive the counters negative
	removed, err = svc.Unfollow(1, 2)
	require.NoError(t, err)
	assert.False(t, removed)

	following, _ := follows.CountFollowing(1)
	assert.Zero(t, following)
}

func TestBlockSelfRejected(t *testing.T) {
	svc, _, _, _, _ := newGraphFixture(t)

	err := svc.Block(2, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrSelfReference))
}

func TestFeedAuthorsExcludesBlocked(t *testing.T) {
	svc, _, _, _, _ := newGraphFixture(t)

	_, err := svc.Follow(1, 2)
	require.NoError(t, err)
	_, err = svc.Follow(1, 3)
	require.NoError(t, err)
	require.NoError(t, svc.Block(1, 3))

	authors, err := svc.FeedAuthors(1)
	require.NoError(t, err)

	// blocked authors are masked without unfollowing; the viewer is included
	assert.ElementsMatch(t, []uint{1, 2}, authors)

	require.NoError(t, svc.Unblock(1, 3))
	authors, err = svc.FeedAuthors(1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{1, 2, 3}, authors)
}

func TestBlockIndependentOfFollow(t *testing.T) {
	svc, follows, blocks, notifRepo, _ := newGraphFixture(t)

	_, err := svc.Follow(1, 2)
	require.NoError(t, err)

	require.NoError(t, svc.Block(1, 2))
	require.NoError(t, svc.Block(1, 2)) // idempotent

	blocked, _ := blocks.IsBlocked(1, 2)
	assert.True(t, blocked)

	// blocking does not cascade onto the follow edge and never notifies
	stillFollowing, _ := follows.IsFollowing(1, 2)
	assert.True(t, stillFollowing)
	assert.Len(t, notifRepo.all(), 1) // the follow notification only

	require.NoError(t, svc.Unblock(1, 2))
	blocked, _ = blocks.IsBlocked(1, 2)
	assert.False(t, blocked)
}
