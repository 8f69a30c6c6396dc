// Package session contains the interaction machinery shared by every
// mini-game: a registry that routes component clicks to the one goroutine
// driving a game message, a deadline-bounded collector those goroutines
// block on, the accept/decline confirmation prompt, and the channel lease
// that keeps two games out of the same channel.
package session

import (
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Event is one button click scoped to a single game message.
type Event struct {
	ActorID     string
	CustomID    string
	When        time.Time
	Interaction *discordgo.InteractionCreate
}

// Disposition tells Run whether to keep collecting after a dispatch.
type Disposition int

const (
	Continue Disposition = iota
	Stop
)

// Collector receives the events for one message. Exactly one goroutine may
// call Next/Run; that goroutine is the single writer for the session state
// it drives.
type Collector struct {
	registry  *Registry
	messageID string
	actorID   string // non-empty restricts delivery to one actor
	events    chan *Event

	closeOnce sync.Once
	done      chan struct{}
}

// Next blocks until an event arrives or the timeout elapses. The second
// return is false exactly when the deadline passed with no event, which is
// a distinct outcome, not an error.
func (c *Collector) Next(timeout time.Duration) (*Event, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ev := <-c.events:
		return ev, true
	case <-timer.C:
		return nil, false
	}
}

// Run drives the collector until the handler stops it or the deadline
// passes; it returns false on timeout. With sliding=true the deadline
// re-arms from zero after every dispatched event; otherwise the timeout is
// one absolute ceiling for the whole session.
func (c *Collector) Run(timeout time.Duration, sliding bool, handle func(*Event) Disposition) bool {
	deadline := time.Now().Add(timeout)

	for {
		wait := timeout
		if !sliding {
			wait = time.Until(deadline)
			if wait <= 0 {
				return false
			}
		}

		ev, ok := c.Next(wait)
		if !ok {
			return false
		}
		if handle(ev) == Stop {
			return true
		}
	}
}

// Close unregisters the collector. Late events are dropped, never
// delivered. Safe to call more than once.
func (c *Collector) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.registry != nil {
			c.registry.remove(c)
		}
	})
}

// deliver hands an event to the owning goroutine. Events racing a close or
// overflowing the buffer are dropped; the sender side must never block on a
// slow session.
func (c *Collector) deliver(ev *Event) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.events <- ev:
		return true
	default:
		return false
	}
}
