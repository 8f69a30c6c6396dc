package session

import (
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

const eventBuffer = 16

// Registry routes component interactions to the collector watching that
// message. The bot's interaction handler offers every component click here
// first; clicks on messages without a live collector fall through to the
// regular module routing.
type Registry struct {
	mu         sync.RWMutex
	collectors map[string]*Collector // keyed by message ID

	// ack silently acknowledges a filtered-out click; swappable in tests.
	ack func(s *discordgo.Session, i *discordgo.InteractionCreate)
}

func NewRegistry() *Registry {
	return &Registry{
		collectors: make(map[string]*Collector),
		ack:        deferredUpdateAck,
	}
}

func deferredUpdateAck(s *discordgo.Session, i *discordgo.InteractionCreate) {
	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
}

// Collect registers a collector for a message. An empty actorID accepts
// events from any actor; a non-empty one filters at the transport so other
// users' clicks never reach the loop.
func (r *Registry) Collect(messageID, actorID string) *Collector {
	c := &Collector{
		registry:  r,
		messageID: messageID,
		actorID:   actorID,
		events:    make(chan *Event, eventBuffer),
		done:      make(chan struct{}),
	}

	r.mu.Lock()
	// A stale collector on the same message loses its feed; the newest
	// registration wins.
	r.collectors[messageID] = c
	r.mu.Unlock()

	return c
}

// Dispatch offers a component interaction to the collector watching its
// message, if any. Returns true when the interaction belonged to a live
// session message (even if it was filtered out), so the caller knows not to
// route it elsewhere.
func (r *Registry) Dispatch(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if i.Message == nil {
		return false
	}

	r.mu.RLock()
	c, ok := r.collectors[i.Message.ID]
	r.mu.RUnlock()
	if !ok {
		return false
	}

	actorID := interactionActorID(i)
	if c.actorID != "" && c.actorID != actorID {
		// Single-player session: outsiders are acknowledged so the client
		// doesn't show a failure, but their event is never delivered.
		r.ack(s, i)
		return true
	}

	c.deliver(&Event{
		ActorID:     actorID,
		CustomID:    i.MessageComponentData().CustomID,
		When:        time.Now(),
		Interaction: i,
	})
	return true
}

func (r *Registry) remove(c *Collector) {
	r.mu.Lock()
	// Only drop the entry if it still points at this collector; a newer
	// registration on the same message must survive.
	if r.collectors[c.messageID] == c {
		delete(r.collectors, c.messageID)
	}
	r.mu.Unlock()
}

// Active returns how many collectors are currently registered.
func (r *Registry) Active() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.collectors)
}

func interactionActorID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
