package server

import (
	"sort"
	"sync"
	"time"

	uuid "github.com/satori/go.uuid"

	"duelarena/game"
)

// RoomInfo is the listing entry for one room.
type RoomInfo struct {
	ID      string `json:"id"`
	Phase   Phase  `json:"phase"`
	Players int    `json:"players"`
}

// Registry owns every room. Rooms are created on the first join to an unseen
// id and removed the moment their last player leaves.
type Registry struct {
	mu      sync.RWMutex
	rooms   map[string]*Room
	players map[string]*Room // player id -> room

	sink     EventSink
	interval time.Duration
	manual   bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithManualTicks disables background schedules; callers step rooms with
// Room.Tick. Used by tests and replay tools.
func WithManualTicks() Option {
	return func(g *Registry) { g.manual = true }
}

// WithTickInterval overrides the wall-clock spacing of ticks. The simulated
// step stays 1/60 s.
func WithTickInterval(d time.Duration) Option {
	return func(g *Registry) { g.interval = d }
}

func NewRegistry(sink EventSink, opts ...Option) *Registry {
	if sink == nil {
		sink = nopSink{}
	}
	g := &Registry{
		rooms:    make(map[string]*Room),
		players:  make(map[string]*Room),
		sink:     sink,
		interval: tickInterval,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// JoinRoom joins roomID under a freshly generated player id.
func (g *Registry) JoinRoom(name, roomID string) (string, error) {
	id := uuid.Must(uuid.NewV4()).String()
	if err := g.Join(id, name, roomID); err != nil {
		return "", err
	}
	return id, nil
}

// Join joins roomID using a caller-supplied player id, typically the
// transport's connection id.
func (g *Registry) Join(playerID, name, roomID string) error {
	if roomID == "" {
		return ErrEmptyRoomID
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.players[playerID]; ok {
		return ErrAlreadyJoined
	}

	r, ok := g.rooms[roomID]
	if !ok {
		r = g.newRoomLocked(roomID)
	}
	if err := r.Join(playerID, name); err != nil {
		if err == ErrRoomFull {
			Log.Warnf("join rejected: room=%s full, player=%s", roomID, playerID)
		}
		return err
	}
	g.players[playerID] = r
	return nil
}

func (g *Registry) newRoomLocked(id string) *Room {
	r := NewRoom(id, g.sink)
	r.interval = g.interval
	r.manual = g.manual
	r.onFault = g.removeRoom
	g.rooms[id] = r
	Log.Infof("room created: %s", id)
	return r
}

// SetInput stores the player's latest input. Unknown players are ignored.
func (g *Registry) SetInput(playerID string, in game.Input) {
	g.mu.RLock()
	r := g.players[playerID]
	g.mu.RUnlock()
	if r == nil {
		return
	}
	r.SetInput(playerID, in)
}

// LeaveRoom removes the player. An emptied room is stopped and deleted.
func (g *Registry) LeaveRoom(playerID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.players[playerID]
	if !ok {
		return
	}
	delete(g.players, playerID)

	remaining, _ := r.Leave(playerID)
	if remaining > 0 {
		return
	}
	r.Stop()
	if g.rooms[r.ID] == r {
		delete(g.rooms, r.ID)
	}
	Log.Infof("room removed: %s (empty)", r.ID)
}

// removeRoom tears down a single faulted room without touching the others.
func (g *Registry) removeRoom(r *Room) {
	g.mu.Lock()
	if g.rooms[r.ID] == r {
		delete(g.rooms, r.ID)
	}
	for id, pr := range g.players {
		if pr == r {
			delete(g.players, id)
		}
	}
	g.mu.Unlock()

	r.Stop()
	Log.Warnf("room removed: %s (fault)", r.ID)
}

// Room returns the room with the given id, or nil.
func (g *Registry) Room(id string) *Room {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.rooms[id]
}

// RoomOf returns the room the player is in, or nil.
func (g *Registry) RoomOf(playerID string) *Room {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.players[playerID]
}

// Rooms lists every live room sorted by id.
func (g *Registry) Rooms() []RoomInfo {
	g.mu.RLock()
	rooms := make([]*Room, 0, len(g.rooms))
	for _, r := range g.rooms {
		rooms = append(rooms, r)
	}
	g.mu.RUnlock()

	out := make([]RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, RoomInfo{ID: r.ID, Phase: r.Phase(), Players: r.NumPlayers()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Shutdown stops every room and empties the registry.
func (g *Registry) Shutdown() {
	g.mu.Lock()
	rooms := make([]*Room, 0, len(g.rooms))
	for _, r := range g.rooms {
		rooms = append(rooms, r)
	}
	clear(g.rooms)
	clear(g.players)
	g.mu.Unlock()

	for _, r := range rooms {
		r.Stop()
	}
}
