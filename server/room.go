package server

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"duelarena/game"
)

// MaxPlayers is the room capacity.
const MaxPlayers = 2

var (
	ErrRoomFull      = errors.New("room full")
	ErrEmptyRoomID   = errors.New("empty room id")
	ErrAlreadyJoined = errors.New("player already in a room")
)

// Phase is the room lifecycle stage.
type Phase int

const (
	PhaseWaiting Phase = iota
	PhaseActive
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhaseActive:
		return "active"
	case PhaseFinished:
		return "finished"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// Room is one match: up to two players, their latest inputs, and the
// fixed-rate schedule that steps them while the match is active.
type Room struct {
	ID string

	mu      sync.Mutex
	phase   Phase
	order   []string // join order; index is the spawn slot
	players map[string]*game.Player
	inputs  map[string]game.Input
	tickSeq int64
	sched   *schedule

	interval time.Duration
	manual   bool // no background schedule; ticks are driven by the caller
	sink     EventSink
	metrics  *RoomMetrics
	onFault  func(*Room)
}

// NewRoom creates an empty waiting room.
func NewRoom(id string, sink EventSink) *Room {
	if sink == nil {
		sink = nopSink{}
	}
	return &Room{
		ID:       id,
		players:  make(map[string]*game.Player),
		inputs:   make(map[string]game.Input),
		interval: tickInterval,
		sink:     sink,
		metrics:  &RoomMetrics{},
	}
}

// Join adds a player. The first occupant spawns on the left, the second on
// the right; the second join starts the match.
func (r *Room) Join(playerID, name string) error {
	r.mu.Lock()
	if len(r.order) >= MaxPlayers {
		r.mu.Unlock()
		r.sink.Publish(RoomFull{RoomID: r.ID, to: playerID})
		return ErrRoomFull
	}
	if _, ok := r.players[playerID]; ok {
		r.mu.Unlock()
		return ErrAlreadyJoined
	}

	r.players[playerID] = game.NewPlayer(playerID, name, len(r.order))
	r.inputs[playerID] = game.Input{}
	r.order = append(r.order, playerID)

	if len(r.order) == MaxPlayers {
		r.activateLocked()
	}

	events := []Event{
		PlayerJoined{
			RoomID:      r.ID,
			PlayerID:    playerID,
			PlayerName:  name,
			RoomPlayers: r.idsLocked(),
		},
		r.snapshotLocked(),
	}
	occupancy, phase := len(r.order), r.phase
	r.mu.Unlock()

	Log.Infof("join: room=%s player=%s name=%q occupancy=%d/%d phase=%s",
		r.ID, playerID, name, occupancy, MaxPlayers, phase)
	r.publish(events)
	return nil
}

// activateLocked starts a fresh match: everyone respawns by slot and stale
// inputs are dropped.
func (r *Room) activateLocked() {
	for slot, id := range r.order {
		r.players[id].Respawn(slot)
		r.inputs[id] = game.Input{}
	}
	r.phase = PhaseActive
	r.startTickerLocked()
	Log.Infof("match start: room=%s players=%v", r.ID, r.order)
}

// Leave removes a player and returns how many remain. A room that drops
// below two players goes back to waiting and its schedule is stopped before
// Leave returns.
func (r *Room) Leave(playerID string) (remaining int, ok bool) {
	r.mu.Lock()
	p, ok := r.players[playerID]
	if !ok {
		remaining = len(r.order)
		r.mu.Unlock()
		return remaining, false
	}

	delete(r.players, playerID)
	delete(r.inputs, playerID)
	for i, id := range r.order {
		if id == playerID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	remaining = len(r.order)
	r.phase = PhaseWaiting
	s := r.sched
	r.sched = nil

	events := []Event{PlayerLeft{
		RoomID:      r.ID,
		PlayerID:    playerID,
		PlayerName:  p.Name,
		RoomPlayers: r.idsLocked(),
	}}
	if remaining > 0 {
		events = append(events, r.snapshotLocked())
	}
	r.mu.Unlock()

	// No tick may publish after the leave notifications.
	s.halt()

	Log.Infof("leave: room=%s player=%s remaining=%d", r.ID, playerID, remaining)
	r.publish(events)
	return remaining, true
}

// SetInput overwrites the player's latest input. Unknown players are
// ignored; this races legitimately with disconnects.
func (r *Room) SetInput(playerID string, in game.Input) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.inputs[playerID]; !ok {
		r.metrics.IncIgnored()
		return false
	}
	r.inputs[playerID] = in
	r.metrics.IncAccepted()
	return true
}

// Tick advances an active room by one fixed step and publishes the result.
// It returns false once the room is no longer active. A panic while stepping
// finishes the room instead of propagating.
func (r *Room) Tick() (running bool) {
	defer func() {
		if v := recover(); v != nil {
			r.fault(v)
			running = false
		}
	}()

	start := time.Now()
	events, running := r.advance(game.DT)
	r.publish(events)
	if len(events) > 0 {
		r.metrics.AddTick(time.Since(start).Nanoseconds())
	}
	return running
}

func (r *Room) advance(dt float64) ([]Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != PhaseActive {
		return nil, false
	}

	r.tickSeq++
	players := r.orderedLocked()
	hits := game.Step(players, r.inputs, dt)
	if len(hits) > 0 {
		r.metrics.AddHits(len(hits))
		for _, h := range hits {
			Log.Debugf("hit: room=%s tick=%d attacker=%s target=%s health=%d",
				r.ID, r.tickSeq, h.AttackerID, h.TargetID, h.TargetHealth)
		}
	}

	events := []Event{r.snapshotLocked()}

	out, over := game.Decide(players)
	if !over {
		return events, true
	}
	r.phase = PhaseFinished
	events = append(events, GameOver{
		RoomID:     r.ID,
		Winner:     out.WinnerID,
		Loser:      out.LoserID,
		WinnerName: out.WinnerName,
		Draw:       out.Draw,
		to:         r.idsLocked(),
	})
	if out.Draw {
		Log.Infof("game over: room=%s draw tick=%d", r.ID, r.tickSeq)
	} else {
		Log.Infof("game over: room=%s winner=%s (%s) tick=%d", r.ID, out.WinnerID, out.WinnerName, r.tickSeq)
	}
	return events, false
}

func (r *Room) fault(v any) {
	r.mu.Lock()
	r.phase = PhaseFinished
	r.mu.Unlock()

	r.metrics.IncFaults()
	Log.Errorw("room tick panicked; tearing room down",
		"room", r.ID, "panic", fmt.Sprint(v), "stack", string(debug.Stack()))
	if r.onFault != nil {
		// The schedule goroutine may be the caller; teardown waits on it.
		go r.onFault(r)
	}
}

// Stop finishes the room and tears down its schedule. It is idempotent and
// returns once no tick can run.
func (r *Room) Stop() {
	r.mu.Lock()
	if r.phase == PhaseActive {
		r.phase = PhaseFinished
	}
	s := r.sched
	r.sched = nil
	r.mu.Unlock()
	s.halt()
}

func (r *Room) publish(events []Event) {
	for _, ev := range events {
		if _, ok := ev.(StateSnapshot); ok {
			r.metrics.IncSnapshots()
		}
		r.sink.Publish(ev)
	}
}

// Phase returns the current lifecycle stage.
func (r *Room) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// NumPlayers returns the current occupancy.
func (r *Room) NumPlayers() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

// Snapshot returns the current state of every player.
func (r *Room) Snapshot() StateSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Metrics returns the room's counters.
func (r *Room) Metrics() *RoomMetrics { return r.metrics }

func (r *Room) snapshotLocked() StateSnapshot {
	snap := StateSnapshot{
		RoomID:  r.ID,
		Tick:    r.tickSeq,
		Phase:   r.phase,
		Players: make(map[string]PlayerState, len(r.players)),
	}
	for id, p := range r.players {
		snap.Players[id] = newPlayerState(p)
	}
	return snap
}

func (r *Room) orderedLocked() []*game.Player {
	out := make([]*game.Player, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.players[id])
	}
	return out
}

func (r *Room) idsLocked() []string {
	return append([]string(nil), r.order...)
}
