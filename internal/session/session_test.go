package session

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorDeliversEvents(t *testing.T) {
	reg := NewRegistry()
	c := reg.Collect("msg1", "")
	defer c.Close()

	require.True(t, c.deliver(&Event{ActorID: "a", CustomID: "x"}))

	ev, ok := c.Next(time.Second)
	require.True(t, ok)
	assert.Equal(t, "a", ev.ActorID)
	assert.Equal(t, "x", ev.CustomID)
}

func TestCollectorTimeoutIsDistinctOutcome(t *testing.T) {
	reg := NewRegistry()
	c := reg.Collect("msg1", "")
	defer c.Close()

	start := time.Now()
	ev, ok := c.Next(20 * time.Millisecond)
	assert.False(t, ok)
	assert.Nil(t, ev)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestCollectorCloseDropsLateEvents(t *testing.T) {
	reg := NewRegistry()
	c := reg.Collect("msg1", "")

	c.Close()
	c.Close() // idempotent

	assert.False(t, c.deliver(&Event{ActorID: "a"}))
	assert.Zero(t, reg.Active())
}

func TestNewestCollectorWinsMessage(t *testing.T) {
	reg := NewRegistry()
	old := reg.Collect("msg1", "")
	fresh := reg.Collect("msg1", "")
	defer fresh.Close()

	assert.Equal(t, 1, reg.Active())

	// Closing the replaced collector must not tear down the fresh one
	old.Close()
	assert.Equal(t, 1, reg.Active())

	// The replaced collector no longer receives anything
	assert.False(t, old.deliver(&Event{ActorID: "a"}))
	assert.True(t, fresh.deliver(&Event{ActorID: "a"}))
}

func TestRunTimesOutExactlyOnce(t *testing.T) {
	reg := NewRegistry()
	c := reg.Collect("msg1", "")
	defer c.Close()

	calls := 0
	stopped := c.Run(30*time.Millisecond, false, func(*Event) Disposition {
		calls++
		return Continue
	})

	assert.False(t, stopped)
	assert.Zero(t, calls)
}

func TestRunAbsoluteCeiling(t *testing.T) {
	reg := NewRegistry()
	c := reg.Collect("msg1", "")
	defer c.Close()

	// Keep feeding events; an absolute ceiling must still expire.
	go func() {
		for i := 0; i < 50; i++ {
			c.deliver(&Event{ActorID: "a", CustomID: "tick"})
			time.Sleep(5 * time.Millisecond)
		}
	}()

	start := time.Now()
	stopped := c.Run(50*time.Millisecond, false, func(*Event) Disposition {
		return Continue
	})

	assert.False(t, stopped)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestRunStopsOnHandlerDecision(t *testing.T) {
	reg := NewRegistry()
	c := reg.Collect("msg1", "")
	defer c.Close()

	c.deliver(&Event{CustomID: "first"})
	c.deliver(&Event{CustomID: "second"})

	var seen []string
	stopped := c.Run(time.Second, true, func(ev *Event) Disposition {
		seen = append(seen, ev.CustomID)
		if ev.CustomID == "second" {
			return Stop
		}
		return Continue
	})

	assert.True(t, stopped)
	assert.Equal(t, []string{"first", "second"}, seen)
}

func componentClick(messageID, actorID, customID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:    discordgo.InteractionMessageComponent,
		Message: &discordgo.Message{ID: messageID},
		User:    &discordgo.User{ID: actorID},
		Data:    discordgo.MessageComponentInteractionData{CustomID: customID},
	}}
}

func TestDispatchFiltersOutsiders(t *testing.T) {
	reg := NewRegistry()
	acked := 0
	reg.ack = func(*discordgo.Session, *discordgo.InteractionCreate) { acked++ }

	c := reg.Collect("msg1", "owner")
	defer c.Close()

	// An outsider's click is claimed and acknowledged, never delivered.
	require.True(t, reg.Dispatch(nil, componentClick("msg1", "intruder", "btn")))
	assert.Equal(t, 1, acked)
	_, ok := c.Next(20 * time.Millisecond)
	assert.False(t, ok)

	// The owner's click flows through untouched.
	require.True(t, reg.Dispatch(nil, componentClick("msg1", "owner", "btn")))
	ev, ok := c.Next(time.Second)
	require.True(t, ok)
	assert.Equal(t, "owner", ev.ActorID)
	assert.Equal(t, "btn", ev.CustomID)
	assert.Equal(t, 1, acked)

	// Clicks on messages without a collector fall through.
	assert.False(t, reg.Dispatch(nil, componentClick("other", "owner", "btn")))
}

func TestLockSetExclusive(t *testing.T) {
	locks := NewLockSet()

	guard, ok := locks.TryAcquire("channel1")
	require.True(t, ok)

	_, ok = locks.TryAcquire("channel1")
	assert.False(t, ok)

	// Different keys don't contend
	other, ok := locks.TryAcquire("channel2")
	require.True(t, ok)
	other.Release()

	guard.Release()
	guard.Release() // idempotent

	_, ok = locks.TryAcquire("channel1")
	assert.True(t, ok)
}

func TestStaleGuardReleaseKeepsNewLease(t *testing.T) {
	locks := NewLockSet()

	stale, ok := locks.TryAcquire("channel1")
	require.True(t, ok)

	// The sweeper reclaims the lease and a new session takes the channel.
	require.Equal(t, []string{"channel1"}, locks.ReleaseStale(0))
	fresh, ok := locks.TryAcquire("channel1")
	require.True(t, ok)

	// The stale guard's deferred Release fires late; the new holder's
	// lease must survive it.
	stale.Release()
	_, ok = locks.TryAcquire("channel1")
	assert.False(t, ok)

	fresh.Release()
	_, ok = locks.TryAcquire("channel1")
	assert.True(t, ok)
}

func TestLockSetReleaseStale(t *testing.T) {
	locks := NewLockSet()

	_, ok := locks.TryAcquire("leaked")
	require.True(t, ok)

	assert.Empty(t, locks.ReleaseStale(time.Hour))

	cleared := locks.ReleaseStale(0)
	assert.Equal(t, []string{"leaked"}, cleared)

	_, ok = locks.TryAcquire("leaked")
	assert.True(t, ok)
}
