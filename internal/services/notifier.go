package services

import (
	"github.com/campusnet-app/backend/internal/fanout"
	"github.com/campusnet-app/backend/internal/models"
	"github.com/campusnet-app/backend/internal/repositories"
	"github.com/rs/zerolog/log"
)

// Deliverer is the push side of the fanout broker.
type Deliverer interface {
	Deliver(userID uint, ev fanout.Event)
}

// NotificationEvent describes a state transition that may notify someone.
type NotificationEvent struct {
	Type        string
	ActorID     uint
	RecipientID uint
	TargetID    string
	TargetType  string
	// Message overrides the templated text (announcements, admin notices).
	Message string
}

// Notifier turns qualifying events into persisted notifications and hands
// them to the broker. Persistence strictly precedes delivery: if the write
// fails nothing is pushed, and a failed push loses nothing because the
// record is already retrievable by polling.
type Notifier struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	broker        Deliverer
}

// NewNotifier creates a new Notifier.
func NewNotifier(notifRepo repositories.NotificationRepository, userRepo repositories.UserRepository, broker Deliverer) *Notifier {
	return &Notifier{notifications: notifRepo, users: userRepo, broker: broker}
}

// Notify processes one event. Self-actions are suppressed entirely. Errors
// are logged, never propagated: notification generation is a side effect of
// an already-committed mutation and must not fail the triggering request.
func (n *Notifier) Notify(ev NotificationEvent) {
	if ev.ActorID == ev.RecipientID {
		return
	}

	message := ev.Message
	if message == "" {
		actorName := "Someone"
		if actor, err := n.users.GetUserByID(ev.ActorID); err == nil {
			actorName = actor.Name
		}
		message = templateMessage(ev.Type, actorName)
	}

	notif := &models.Notification{
		Type:        ev.Type,
		ActorID:     ev.ActorID,
		RecipientID: ev.RecipientID,
		TargetID:    ev.TargetID,
		TargetType:  ev.TargetType,
		Message:     message,
	}
	if err := n.notifications.CreateNotification(notif); err != nil {
		log.Error().Err(err).Str("type", ev.Type).Uint("recipient_id", ev.RecipientID).
			Msg("failed to persist notification, push skipped")
		return
	}

	n.broker.Deliver(ev.RecipientID, fanout.Event{
		Type:     ev.Type,
		ActorID:  ev.ActorID,
		TargetID: ev.TargetID,
	})
}

func templateMessage(eventType, actorName string) string {
	switch eventType {
	case models.NotificationFollow:
		return actorName + " started following you"
	case models.NotificationLike:
		return actorName + " liked your post"
	case models.NotificationComment:
		return actorName + " commented on your post"
	case models.NotificationMessage:
		return actorName + " sent you a message"
	case models.NotificationGroupInvite:
		return actorName + " invited you to join a group"
	case models.NotificationEventInvite:
		return actorName + " invited you to an event"
	default:
		return actorName + " sent you a notification"
	}
}
