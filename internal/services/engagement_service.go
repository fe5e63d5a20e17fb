package services

import (
	"context"
	"strconv"

	"github.com/campusnet-app/backend/internal/models"
	"github.com/campusnet-app/backend/internal/repositories"
)

// EngagementService owns like/save toggles and comments on posts, keeping
// the cached counters on the post in lockstep with the mark and comment
// records.
type EngagementService struct {
	marks    repositories.MarkRepository
	posts    repositories.PostRepository
	comments repositories.CommentRepository
	notifier *Notifier
	locks    keyLock
}

// NewEngagementService creates a new EngagementService.
func NewEngagementService(markRepo repositories.MarkRepository, postRepo repositories.PostRepository, commentRepo repositories.CommentRepository, notifier *Notifier) *EngagementService {
	return &EngagementService{marks: markRepo, posts: postRepo, comments: commentRepo, notifier: notifier}
}

// ToggleLike flips the actor's like on the post. Returns the resulting state.
func (s *EngagementService) ToggleLike(ctx context.Context, actorID uint, postID string) (marked bool, err error) {
	return s.toggle(ctx, actorID, postID, models.MarkKindLike)
}

// ToggleSave flips the actor's bookmark on the post.
func (s *EngagementService) ToggleSave(ctx context.Context, actorID uint, postID string) (marked bool, err error) {
	return s.toggle(ctx, actorID, postID, models.MarkKindSave)
}

// toggle is the single read-modify-write for one (actor, post, kind) key.
// The key lock serializes near-simultaneous toggles from the same actor so
// the second call always observes the first's result; the unique index on
// marks backstops the lock. Counter movement uses the store's atomic
// increment, so toggles by different actors on the same post cannot lose
// updates against each other.
func (s *EngagementService) toggle(ctx context.Context, actorID uint, postID, kind string) (bool, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return false, err
	}

	unlock := s.locks.Lock(kind + ":" + postID + ":" + strconv.FormatUint(uint64(actorID), 10))
	defer unlock()

	created, err := s.marks.CreateMark(actorID, postID, kind)
	if err != nil {
		return false, err
	}

	if !created {
		// mark existed: this toggle removes it
		removed, err := s.marks.DeleteMark(actorID, postID, kind)
		if err != nil {
			return true, err
		}
		if removed {
			if derr := s.decCounter(ctx, postID, kind); derr != nil {
				return false, derr
			}
		}
		return false, nil
	}

	if err := s.incCounter(ctx, postID, kind); err != nil {
		return true, err
	}

	// only likes notify, and only on insertion
	if kind == models.MarkKindLike {
		s.notifier.Notify(NotificationEvent{
			Type:        models.NotificationLike,
			ActorID:     actorID,
			RecipientID: post.AuthorID,
			TargetID:    postID,
			TargetType:  "post",
		})
	}
	return true, nil
}

func (s *EngagementService) incCounter(ctx context.Context, postID, kind string) error {
	if kind == models.MarkKindSave {
		return s.posts.IncSavesCount(ctx, postID)
	}
	return s.posts.IncLikesCount(ctx, postID)
}

func (s *EngagementService) decCounter(ctx context.Context, postID, kind string) error {
	if kind == models.MarkKindSave {
		return s.posts.DecSavesCount(ctx, postID)
	}
	return s.posts.DecLikesCount(ctx, postID)
}

// Share counts one more share of the post and returns the new total. Not a
// toggle: there is no per-actor share record, every call counts.
func (s *EngagementService) Share(ctx context.Context, postID string) (int64, error) {
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return 0, err
	}
	if err := s.posts.IncSharesCount(ctx, postID); err != nil {
		return 0, err
	}
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return 0, err
	}
	return post.SharesCount, nil
}

// Comment appends a comment to the post. Not a toggle: every call creates a
// record, bumps the counter and notifies the post owner (unless the owner is
// commenting on their own post).
func (s *EngagementService) Comment(ctx context.Context, actorID uint, postID, content string) (*models.Comment, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{PostID: postID, UserID: actorID, Content: content}
	if err := s.comments.CreateComment(comment); err != nil {
		return nil, err
	}
	if err := s.posts.IncCommentsCount(ctx, postID); err != nil {
		return nil, err
	}

	s.notifier.Notify(NotificationEvent{
		Type:        models.NotificationComment,
		ActorID:     actorID,
		RecipientID: post.AuthorID,
		TargetID:    postID,
		TargetType:  "post",
	})
	return comment, nil
}

// DeleteComment removes the comment and decrements the post's counter,
// floored at zero. Ownership is the caller's concern.
func (s *EngagementService) DeleteComment(ctx context.Context, comment *models.Comment) error {
	if err := s.comments.DeleteComment(comment.ID); err != nil {
		return err
	}
	return s.posts.DecCommentsCount(ctx, comment.PostID)
}
