package services

import (
	"fmt"
	"strconv"

	"github.com/campusnet-app/backend/internal/models"
	"github.com/campusnet-app/backend/internal/repositories"
	"github.com/campusnet-app/backend/pkg/apperrors"
)

// GraphService owns mutations of the social graph: follow, unfollow and
// block edges plus the cached degree counters that ride along with them.
type GraphService struct {
	follows  repositories.FollowRepository
	blocks   repositories.BlockRepository
	users    repositories.UserRepository
	notifier *Notifier
}

// NewGraphService creates a new GraphService.
func NewGraphService(followRepo repositories.FollowRepository, blockRepo repositories.BlockRepository, userRepo repositories.UserRepository, notifier *Notifier) *GraphService {
	return &GraphService{follows: followRepo, blocks: blockRepo, users: userRepo, notifier: notifier}
}

// Follow creates the follow edge from actor to target. Re-following is an
// idempotent no-op that still succeeds: the edge stays unique, counters move
// at most once and the follow notification fires only on first creation.
func (s *GraphService) Follow(actorID, targetID uint) (created bool, err error) {
	if actorID == targetID {
		return false, fmt.Errorf("cannot follow yourself: %w", apperrors.ErrSelfReference)
	}
	if _, err := s.users.GetUserByID(targetID); err != nil {
		return false, err
	}

	created, err = s.follows.CreateFollow(actorID, targetID)
	if err != nil {
		return false, err
	}
	if created {
		s.notifier.Notify(NotificationEvent{
			Type:        models.NotificationFollow,
			ActorID:     actorID,
			RecipientID: targetID,
			TargetID:    strconv.FormatUint(uint64(actorID), 10),
			TargetType:  "user",
		})
	}
	return created, nil
}

// Unfollow removes the follow edge if present. Removing a non-existent edge
// succeeds without touching the counters.
func (s *GraphService) Unfollow(actorID, targetID uint) (removed bool, err error) {
	return s.follows.DeleteFollow(actorID, targetID)
}

// Block records a block edge. Idempotent set insertion: no counters, no
// notification, and no cascade onto an existing follow edge.
func (s *GraphService) Block(actorID, targetID uint) error {
	if actorID == targetID {
		return fmt.Errorf("cannot block yourself: %w", apperrors.ErrSelfReference)
	}
	if _, err := s.users.GetUserByID(targetID); err != nil {
		return err
	}
	_, err := s.blocks.CreateBlock(actorID, targetID)
	return err
}

// Unblock removes a block edge; idempotent.
func (s *GraphService) Unblock(actorID, targetID uint) error {
	_, err := s.blocks.DeleteBlock(actorID, targetID)
	return err
}

// FeedAuthors returns the users whose posts belong in the viewer's feed:
// everyone the viewer follows minus anyone the viewer has blocked, plus the
// viewer themselves. The follow edge survives a block; it is only masked
// here until the block is lifted.
func (s *GraphService) FeedAuthors(viewerID uint) ([]uint, error) {
	following, err := s.follows.GetFollowingIDs(viewerID)
	if err != nil {
		return nil, err
	}
	blocked, err := s.blocks.GetBlockedIDs(viewerID)
	if err != nil {
		return nil, err
	}

	blockedSet := make(map[uint]bool, len(blocked))
	for _, id := range blocked {
		blockedSet[id] = true
	}
	authors := make([]uint, 0, len(following)+1)
	for _, id := range following {
		if !blockedSet[id] {
			authors = append(authors, id)
		}
	}
	return append(authors, viewerID), nil
}
