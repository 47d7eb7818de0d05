package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"duelarena/game"
)

func TestRoomTicksOnlyWhileActive(t *testing.T) {
	sink := &recordSink{}
	r := NewRoom("r1", sink)
	r.manual = true

	assert.False(t, r.Tick(), "empty room")
	require.NoError(t, r.Join("a", "alice"))
	assert.False(t, r.Tick(), "solo room")
	assert.Zero(t, r.Snapshot().Tick)

	require.NoError(t, r.Join("b", "bob"))
	assert.True(t, r.Tick())
	assert.EqualValues(t, 1, r.Snapshot().Tick)
}

func TestRoomSnapshotEveryTick(t *testing.T) {
	sink := &recordSink{}
	r := NewRoom("r1", sink)
	r.manual = true
	require.NoError(t, r.Join("a", "alice"))
	require.NoError(t, r.Join("b", "bob"))
	joinSnaps := sink.count(MsgState)

	r.SetInput("a", game.Input{Right: true})
	for i := 0; i < game.TickRate; i++ {
		require.True(t, r.Tick())
	}

	states := sink.ofType(MsgState)
	require.Len(t, states, joinSnaps+game.TickRate)
	last := states[len(states)-1].(StateSnapshot)
	assert.Equal(t, "r1", last.RoomID)
	assert.Equal(t, PhaseActive, last.Phase)
	assert.InDelta(t, 340.0, last.Players["a"].X, 1e-6)
	assert.Equal(t, game.StateRun, last.Players["a"].CombatState)
	assert.Equal(t, game.PlayerWidth, last.Players["a"].W)
	assert.Equal(t, game.PlayerHeight, last.Players["a"].H)
	assert.ElementsMatch(t, []string{"a", "b"}, last.Recipients())
}

func TestRoomKnockoutEmitsSingleGameOver(t *testing.T) {
	sink := &recordSink{}
	r := NewRoom("r1", sink)
	r.manual = true
	require.NoError(t, r.Join("a", "alice"))
	require.NoError(t, r.Join("b", "bob"))

	var healths []int
	last := game.MaxHealth
	running := true
	for cycle := 0; cycle < 7 && running; cycle++ {
		closeIn(r, "a", "b")
		r.SetInput("a", game.Input{Attack: true})
		running = r.Tick()
		r.SetInput("a", game.Input{})
		for i := 0; i < 30 && running; i++ {
			running = r.Tick()
			if h := r.Snapshot().Players["b"].Health; h != last {
				healths = append(healths, h)
				last = h
			}
		}
	}

	assert.Equal(t, []int{85, 70, 55, 40, 25, 10, 0}, healths)
	assert.Equal(t, PhaseFinished, r.Phase())
	assert.Equal(t, game.StateDead, r.Snapshot().Players["b"].CombatState)

	over := sink.ofType(MsgGameOver)
	require.Len(t, over, 1)
	g := over[0].(GameOver)
	assert.Equal(t, "a", g.Winner)
	assert.Equal(t, "b", g.Loser)
	assert.Equal(t, "alice", g.WinnerName)
	assert.False(t, g.Draw)
	assert.ElementsMatch(t, []string{"a", "b"}, g.Recipients())

	// The finished room never ticks again.
	n := sink.count(MsgState)
	assert.False(t, r.Tick())
	assert.Equal(t, n, sink.count(MsgState))
	assert.Len(t, sink.ofType(MsgGameOver), 1)
}

func TestRoomDoubleKnockoutIsDraw(t *testing.T) {
	sink := &recordSink{}
	r := NewRoom("r1", sink)
	r.manual = true
	require.NoError(t, r.Join("a", "alice"))
	require.NoError(t, r.Join("b", "bob"))
	closeIn(r, "a", "b")
	for _, id := range []string{"a", "b"} {
		withPlayer(r, id, func(p *game.Player) { p.Health = game.AttackDamage })
	}

	r.SetInput("a", game.Input{Attack: true})
	r.SetInput("b", game.Input{Attack: true})
	for i := 0; i < 30 && r.Tick(); i++ {
	}

	over := sink.ofType(MsgGameOver)
	require.Len(t, over, 1)
	g := over[0].(GameOver)
	assert.True(t, g.Draw)
	assert.Empty(t, g.Winner)
	assert.Empty(t, g.Loser)
	assert.Equal(t, PhaseFinished, r.Phase())
}

func TestRoomLeaveIsIdempotent(t *testing.T) {
	r := NewRoom("r1", nil)
	r.manual = true
	require.NoError(t, r.Join("a", "alice"))

	remaining, ok := r.Leave("a")
	assert.True(t, ok)
	assert.Zero(t, remaining)

	_, ok = r.Leave("a")
	assert.False(t, ok)
}

func TestRoomStopIsIdempotent(t *testing.T) {
	sink := &recordSink{}
	r := NewRoom("r1", sink)
	r.interval = time.Millisecond
	require.NoError(t, r.Join("a", "alice"))
	require.NoError(t, r.Join("b", "bob"))

	require.Eventually(t, func() bool { return r.Snapshot().Tick > 2 }, time.Second, time.Millisecond)

	r.Stop()
	r.Stop()
	n := sink.count(MsgState)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, n, sink.count(MsgState))
	assert.Equal(t, PhaseFinished, r.Phase())
	assert.False(t, r.Tick())
}

func TestRoomGameOverHaltsSchedule(t *testing.T) {
	sink := &recordSink{}
	r := NewRoom("r1", sink)
	r.interval = time.Millisecond
	require.NoError(t, r.Join("a", "alice"))
	require.NoError(t, r.Join("b", "bob"))

	withPlayer(r, "b", func(p *game.Player) { p.Health = 0 })

	require.Eventually(t, func() bool { return r.Phase() == PhaseFinished }, time.Second, time.Millisecond)
	n := sink.count(MsgState)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, n, sink.count(MsgState))
	assert.Len(t, sink.ofType(MsgGameOver), 1)
	r.Stop()
}
