package fanout

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
)

const (
	// maxChannelsPerUser caps concurrent sessions per identity; the oldest
	// channel is evicted when the cap is hit.
	maxChannelsPerUser = 8
)

// Event is the payload pushed to live channels. Recipients only need the
// event type, the acting user and the related entity; the full notification
// stays retrievable through the notifications API.
type Event struct {
	Type     string `json:"type"`
	ActorID  uint   `json:"actor_id"`
	TargetID string `json:"target_id"`
}

// Broker maintains the process-wide mapping from a user ID to that user's
// live delivery channels. The registry is ephemeral: it holds no durable
// state and is rebuilt as clients reconnect. Map access is always lock-cheap;
// pushes happen outside the lock and never block on I/O.
type Broker struct {
	mu       sync.RWMutex
	channels map[uint][]*Channel
}

// NewBroker creates an empty Broker.
func NewBroker() *Broker {
	return &Broker{channels: make(map[uint][]*Channel)}
}

// Register adds a channel to the owner's live set. When the per-user cap is
// reached the oldest channel is closed and replaced.
func (b *Broker) Register(userID uint, ch *Channel) {
	var evicted *Channel

	b.mu.Lock()
	chans := b.channels[userID]
	if len(chans) >= maxChannelsPerUser {
		evicted = chans[0]
		chans = chans[1:]
	}
	b.channels[userID] = append(chans, ch)
	b.mu.Unlock()

	if evicted != nil {
		evicted.close()
		log.Warn().Uint("user_id", userID).Str("channel_id", evicted.ID()).
			Msg("channel cap reached, evicted oldest session")
	}
	log.Debug().Uint("user_id", userID).Str("channel_id", ch.ID()).Msg("channel registered")
}

// Unregister removes the channel from its owner's set and closes it. Safe to
// call more than once and for channels that were never registered.
func (b *Broker) Unregister(ch *Channel) {
	b.mu.Lock()
	chans := b.channels[ch.UserID()]
	for i, c := range chans {
		if c == ch {
			chans = append(chans[:i], chans[i+1:]...)
			break
		}
	}
	if len(chans) == 0 {
		delete(b.channels, ch.UserID())
	} else {
		b.channels[ch.UserID()] = chans
	}
	b.mu.Unlock()

	ch.close()
}

// Deliver pushes the event to every live channel of the recipient.
// Best-effort fire-and-forget: zero live channels is not an error, a full
// channel queue drops the event, and per-channel ordering follows the order
// Deliver was called in.
func (b *Broker) Deliver(userID uint, ev Event) {
	b.mu.RLock()
	chans := b.channels[userID]
	snapshot := make([]*Channel, len(chans))
	copy(snapshot, chans)
	b.mu.RUnlock()

	if len(snapshot) == 0 {
		return
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("type", ev.Type).Msg("failed to encode fanout event")
		return
	}

	for _, ch := range snapshot {
		if !ch.enqueue(payload) {
			log.Warn().Uint("user_id", userID).Str("channel_id", ch.ID()).
				Msg("channel queue full, event dropped")
		}
	}
}

// Online reports whether the user has at least one live channel.
func (b *Broker) Online(userID uint) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.channels[userID]) > 0
}
