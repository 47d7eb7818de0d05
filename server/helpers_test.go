package server

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"duelarena/game"
)

// recordSink keeps every published event for later inspection.
type recordSink struct {
	mu     sync.Mutex
	events []Event
	// panicOn, when set, makes Publish panic for matching events.
	panicOn func(Event) bool
}

func (s *recordSink) Publish(ev Event) {
	if s.panicOn != nil && s.panicOn(ev) {
		panic("sink exploded")
	}
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
}

func (s *recordSink) ofType(t string) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Event
	for _, ev := range s.events {
		if ev.Type() == t {
			out = append(out, ev)
		}
	}
	return out
}

func (s *recordSink) count(t string) int { return len(s.ofType(t)) }

// joinPair fills roomID with alice and bob and returns their ids.
func joinPair(t *testing.T, reg *Registry, roomID string) (string, string) {
	t.Helper()
	a, err := reg.JoinRoom("alice", roomID)
	require.NoError(t, err)
	b, err := reg.JoinRoom("bob", roomID)
	require.NoError(t, err)
	return a, b
}

// withPlayer runs fn on a player under the room lock.
func withPlayer(r *Room, id string, fn func(p *game.Player)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.players[id])
}

// closeIn puts two players inside each other's attack reach.
func closeIn(r *Room, left, right string) {
	withPlayer(r, left, func(p *game.Player) { p.X = 100 })
	withPlayer(r, right, func(p *game.Player) { p.X = 160 })
}
