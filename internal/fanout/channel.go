package fanout

import (
	"sync"

	"github.com/google/uuid"
)

// channelQueueSize bounds the per-channel backlog; delivery is best-effort,
// so a slow consumer loses pushes rather than blocking the broker.
const channelQueueSize = 32

// Channel is one live client session. It exists only for the lifetime of the
// underlying connection and is never persisted. The transport drains Out in
// a single goroutine, which preserves FIFO order per channel.
type Channel struct {
	id        string
	userID    uint
	queue     chan []byte
	closeOnce sync.Once
}

// NewChannel creates an unregistered channel owned by the given user.
func NewChannel(userID uint) *Channel {
	return &Channel{
		id:     uuid.NewString(),
		userID: userID,
		queue:  make(chan []byte, channelQueueSize),
	}
}

// ID returns the ephemeral channel identifier.
func (c *Channel) ID() string { return c.id }

// UserID returns the owning user.
func (c *Channel) UserID() uint { return c.userID }

// Out is the stream of payloads to write to the transport. It is closed when
// the channel is unregistered or evicted.
func (c *Channel) Out() <-chan []byte { return c.queue }

// enqueue pushes without blocking; returns false when the queue is full or
// the channel is already closed.
func (c *Channel) enqueue(payload []byte) (ok bool) {
	defer func() {
		// send on closed channel: the session raced its own eviction
		if recover() != nil {
			ok = false
		}
	}()
	select {
	case c.queue <- payload:
		return true
	default:
		return false
	}
}

func (c *Channel) close() {
	c.closeOnce.Do(func() { close(c.queue) })
}
