package services

import (
	"context"
	"sync"

	"github.com/campusnet-app/backend/internal/fanout"
	"github.com/campusnet-app/backend/internal/models"
	"github.com/campusnet-app/backend/internal/repositories"
	"github.com/campusnet-app/backend/pkg/apperrors"
)

// edge is a directed pair used by the fake follow and block stores.
type edge struct{ from, to uint }

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uint]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uint]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) CreateUser(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) UpdateUser(user *models.User) error { return r.CreateUser(user) }
func (r *fakeUserRepo) DeleteUser(id uint) error           { return nil }

func (r *fakeUserRepo) SearchUsers(query string, limit int) ([]models.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) ListUsers(page, limit int, role string) ([]models.User, int64, error) {
	return nil, 0, nil
}

func (r *fakeUserRepo) ListByFaculty(facultyID uint, page, limit int) ([]models.User, int64, error) {
	return nil, 0, nil
}

func (r *fakeUserRepo) AdjustPostsCount(userID uint, delta int) error { return nil }

func (r *fakeUserRepo) CountUsers() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

type fakeFollowRepo struct {
	mu    sync.Mutex
	edges map[edge]bool
	// counters mirror what the SQL transaction maintains
	followers map[uint]int64
	following map[uint]int64
}

func newFakeFollowRepo() *fakeFollowRepo {
	return &fakeFollowRepo{
		edges:     make(map[edge]bool),
		followers: make(map[uint]int64),
		following: make(map[uint]int64),
	}
}

func (r *fakeFollowRepo) CreateFollow(followerID, followingID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := edge{followerID, followingID}
	if r.edges[e] {
		return false, nil
	}
	r.edges[e] = true
	r.following[followerID]++
	r.followers[followingID]++
	return true, nil
}

func (r *fakeFollowRepo) DeleteFollow(followerID, followingID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := edge{followerID, followingID}
	if !r.edges[e] {
		return false, nil
	}
	delete(r.edges, e)
	if r.following[followerID] > 0 {
		r.following[followerID]--
	}
	if r.followers[followingID] > 0 {
		r.followers[followingID]--
	}
	return true, nil
}

func (r *fakeFollowRepo) IsFollowing(followerID, followingID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.edges[edge{followerID, followingID}], nil
}

func (r *fakeFollowRepo) GetFollowers(userID uint, page, limit int) ([]models.User, int64, error) {
	return nil, 0, nil
}

func (r *fakeFollowRepo) GetFollowing(userID uint, page, limit int) ([]models.User, int64, error) {
	return nil, 0, nil
}

func (r *fakeFollowRepo) GetFollowingIDs(userID uint) ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uint
	for e := range r.edges {
		if e.from == userID {
			ids = append(ids, e.to)
		}
	}
	return ids, nil
}

func (r *fakeFollowRepo) CountFollowers(userID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for e := range r.edges {
		if e.to == userID {
			n++
		}
	}
	return n, nil
}

func (r *fakeFollowRepo) CountFollowing(userID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for e := range r.edges {
		if e.from == userID {
			n++
		}
	}
	return n, nil
}

type fakeBlockRepo struct {
	mu    sync.Mutex
	edges map[edge]bool
}

func newFakeBlockRepo() *fakeBlockRepo {
	return &fakeBlockRepo{edges: make(map[edge]bool)}
}

func (r *fakeBlockRepo) CreateBlock(blockerID, blockedID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := edge{blockerID, blockedID}
	if r.edges[e] {
		return false, nil
	}
	r.edges[e] = true
	return true, nil
}

func (r *fakeBlockRepo) DeleteBlock(blockerID, blockedID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := edge{blockerID, blockedID}
	if !r.edges[e] {
		return false, nil
	}
	delete(r.edges, e)
	return true, nil
}

func (r *fakeBlockRepo) IsBlocked(blockerID, blockedID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.edges[edge{blockerID, blockedID}], nil
}

func (r *fakeBlockRepo) GetBlockedIDs(blockerID uint) ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uint
	for e := range r.edges {
		if e.from == blockerID {
			ids = append(ids, e.to)
		}
	}
	return ids, nil
}

type markKey struct {
	userID uint
	postID string
	kind   string
}

type fakeMarkRepo struct {
	mu    sync.Mutex
	marks map[markKey]bool
}

func newFakeMarkRepo() *fakeMarkRepo {
	return &fakeMarkRepo{marks: make(map[markKey]bool)}
}

func (r *fakeMarkRepo) CreateMark(userID uint, postID, kind string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := markKey{userID, postID, kind}
	if r.marks[k] {
		return false, nil
	}
	r.marks[k] = true
	return true, nil
}

func (r *fakeMarkRepo) DeleteMark(userID uint, postID, kind string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := markKey{userID, postID, kind}
	if !r.marks[k] {
		return false, nil
	}
	delete(r.marks, k)
	return true, nil
}

func (r *fakeMarkRepo) HasMark(userID uint, postID, kind string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.marks[markKey{userID, postID, kind}], nil
}

func (r *fakeMarkRepo) CountByPost(postID, kind string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k := range r.marks {
		if k.postID == postID && k.kind == kind {
			n++
		}
	}
	return n, nil
}

func (r *fakeMarkRepo) ListPostIDsByUser(userID uint, kind string, limit int) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for k := range r.marks {
		if k.userID == userID && k.kind == kind {
			ids = append(ids, k.postID)
		}
	}
	return ids, nil
}

func (r *fakeMarkRepo) FilterMarked(userID uint, kind string, postIDs []string) (map[string]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]bool)
	for _, id := range postIDs {
		if r.marks[markKey{userID, id, kind}] {
			out[id] = true
		}
	}
	return out, nil
}

// fakePostRepo keeps counters behind a mutex, mirroring the atomic document
// updates of the real store.
type fakePostRepo struct {
	mu    sync.Mutex
	posts map[string]*models.Post
}

func newFakePostRepo(posts ...*models.Post) *fakePostRepo {
	r := &fakePostRepo{posts: make(map[string]*models.Post)}
	for _, p := range posts {
		r.posts[p.ID.Hex()] = p
	}
	return r
}

func (r *fakePostRepo) CreatePost(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[post.ID.Hex()] = post
	return nil
}

func (r *fakePostRepo) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePostRepo) ListPosts(ctx context.Context, filter repositories.PostFilter, skip, limit int64) ([]models.Post, int64, error) {
	return nil, 0, nil
}

func (r *fakePostRepo) ListByAuthor(ctx context.Context, authorID uint, skip, limit int64) ([]models.Post, int64, error) {
	return nil, 0, nil
}

func (r *fakePostRepo) ListByAuthors(ctx context.Context, authorIDs []uint, skip, limit int64) ([]models.Post, int64, error) {
	return nil, 0, nil
}

func (r *fakePostRepo) ListByIDs(ctx context.Context, ids []string) ([]models.Post, error) {
	return nil, nil
}

func (r *fakePostRepo) DeletePost(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) adjust(id string, f func(p *models.Post)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	f(p)
	return nil
}

func (r *fakePostRepo) IncLikesCount(ctx context.Context, postID string) error {
	return r.adjust(postID, func(p *models.Post) { p.LikesCount++ })
}

func (r *fakePostRepo) DecLikesCount(ctx context.Context, postID string) error {
	return r.adjust(postID, func(p *models.Post) {
		if p.LikesCount > 0 {
			p.LikesCount--
		}
	})
}

func (r *fakePostRepo) IncSavesCount(ctx context.Context, postID string) error {
	return r.adjust(postID, func(p *models.Post) { p.SavesCount++ })
}

func (r *fakePostRepo) DecSavesCount(ctx context.Context, postID string) error {
	return r.adjust(postID, func(p *models.Post) {
		if p.SavesCount > 0 {
			p.SavesCount--
		}
	})
}

func (r *fakePostRepo) IncCommentsCount(ctx context.Context, postID string) error {
	return r.adjust(postID, func(p *models.Post) { p.CommentsCount++ })
}

func (r *fakePostRepo) DecCommentsCount(ctx context.Context, postID string) error {
	return r.adjust(postID, func(p *models.Post) {
		if p.CommentsCount > 0 {
			p.CommentsCount--
		}
	})
}

func (r *fakePostRepo) IncSharesCount(ctx context.Context, postID string) error {
	return r.adjust(postID, func(p *models.Post) { p.SharesCount++ })
}

func (r *fakePostRepo) CountPosts(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.posts)), nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	nextID   uint
	comments map[uint]*models.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{nextID: 1, comments: make(map[uint]*models.Comment)}
}

func (r *fakeCommentRepo) CreateComment(comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment.ID = r.nextID
	r.nextID++
	cp := *comment
	r.comments[comment.ID] = &cp
	return nil
}

func (r *fakeCommentRepo) GetCommentByID(id uint) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCommentRepo) GetCommentsByPostID(postID string, page, limit int) ([]models.Comment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Comment
	for _, c := range r.comments {
		if c.PostID == postID {
			out = append(out, *c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeCommentRepo) DeleteComment(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.comments, id)
	return nil
}

func (r *fakeCommentRepo) DeleteByPostID(postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.comments {
		if c.PostID == postID {
			delete(r.comments, id)
		}
	}
	return nil
}

type fakeNotificationRepo struct {
	mu      sync.Mutex
	failing bool
	created []models.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) CreateNotification(n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing {
		return apperrors.ErrTransientStore
	}
	n.ID = uint(len(r.created) + 1)
	r.created = append(r.created, *n)
	return nil
}

func (r *fakeNotificationRepo) all() []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Notification, len(r.created))
	copy(out, r.created)
	return out
}

func (r *fakeNotificationRepo) GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	return nil, 0, nil
}

func (r *fakeNotificationRepo) GetUnreadCount(recipientID uint) (int64, error) { return 0, nil }
func (r *fakeNotificationRepo) MarkAsRead(notificationID, recipientID uint) error {
	return nil
}
func (r *fakeNotificationRepo) MarkAllAsRead(recipientID uint) error { return nil }
func (r *fakeNotificationRepo) DeleteNotification(notificationID, recipientID uint) error {
	return nil
}

type fakeMessageRepo struct {
	mu   sync.Mutex
	msgs []models.Message
}

func newFakeMessageRepo() *fakeMessageRepo { return &fakeMessageRepo{} }

func (r *fakeMessageRepo) CreateMessage(ctx context.Context, msg *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, *msg)
	return nil
}

func (r *fakeMessageRepo) GetHistory(ctx context.Context, userA, userB uint, limit int64) ([]models.Message, error) {
	return nil, nil
}

// ListByParticipant returns the user's messages newest-first, like the real
// store.
func (r *fakeMessageRepo) ListByParticipant(ctx context.Context, userID uint, limit int64) ([]models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Message
	for i := len(r.msgs) - 1; i >= 0; i-- {
		m := r.msgs[i]
		if m.SenderID == userID || m.RecipientID == userID {
			out = append(out, m)
		}
		if int64(len(out)) >= limit {
			break
		}
	}
	return out, nil
}

// recordingDeliverer captures broker pushes in order.
type recordingDeliverer struct {
	mu        sync.Mutex
	delivered []deliveredEvent
}

type deliveredEvent struct {
	userID uint
	event  fanout.Event
}

func (d *recordingDeliverer) Deliver(userID uint, ev fanout.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delivered = append(d.delivered, deliveredEvent{userID: userID, event: ev})
}

func (d *recordingDeliverer) all() []deliveredEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]deliveredEvent, len(d.delivered))
	copy(out, d.delivered)
	return out
}
