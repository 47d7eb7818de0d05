package server

import "sort"

// Outbound message types.
const (
	MsgLoginSuccess = "login-success"
	MsgPlayerJoined = "player-joined"
	MsgPlayerLeft   = "player-left"
	MsgState        = "state"
	MsgRoomFull     = "room-full"
	MsgGameOver     = "game-over"
)

// Event is something a room wants delivered to clients. The transport decides
// how; rooms only say what and to whom.
type Event interface {
	Type() string
	Recipients() []string
}

// EventSink receives room events. Publish must not block: it is called from
// room ticks.
type EventSink interface {
	Publish(Event)
}

type nopSink struct{}

func (nopSink) Publish(Event) {}

// LoginSuccess confirms a join to the joining client only.
type LoginSuccess struct {
	PlayerID string `json:"playerId"`
}

func (LoginSuccess) Type() string           { return MsgLoginSuccess }
func (e LoginSuccess) Recipients() []string { return []string{e.PlayerID} }

type PlayerJoined struct {
	RoomID      string   `json:"roomId"`
	PlayerID    string   `json:"playerId"`
	PlayerName  string   `json:"playerName"`
	RoomPlayers []string `json:"roomPlayers"`
}

func (PlayerJoined) Type() string           { return MsgPlayerJoined }
func (e PlayerJoined) Recipients() []string { return e.RoomPlayers }

// PlayerLeft goes to the players still in the room.
type PlayerLeft struct {
	RoomID      string   `json:"roomId"`
	PlayerID    string   `json:"playerId"`
	PlayerName  string   `json:"playerName"`
	RoomPlayers []string `json:"roomPlayers"`
}

func (PlayerLeft) Type() string           { return MsgPlayerLeft }
func (e PlayerLeft) Recipients() []string { return e.RoomPlayers }

// StateSnapshot is the full authoritative room state.
type StateSnapshot struct {
	RoomID  string                 `json:"roomId"`
	Tick    int64                  `json:"tick"`
	Phase   Phase                  `json:"phase"`
	Players map[string]PlayerState `json:"players"`
}

func (StateSnapshot) Type() string { return MsgState }

func (e StateSnapshot) Recipients() []string {
	ids := make([]string, 0, len(e.Players))
	for id := range e.Players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RoomFull rejects a join. It is addressed to the rejected connection.
type RoomFull struct {
	RoomID string `json:"roomId"`

	to string
}

func (RoomFull) Type() string { return MsgRoomFull }

func (e RoomFull) Recipients() []string {
	if e.to == "" {
		return nil
	}
	return []string{e.to}
}

// GameOver ends a match. Draw is set when both players fell on the same tick.
type GameOver struct {
	RoomID     string `json:"roomId"`
	Winner     string `json:"winner"`
	Loser      string `json:"loser"`
	WinnerName string `json:"winnerName"`
	Draw       bool   `json:"draw,omitempty"`

	to []string
}

func (GameOver) Type() string           { return MsgGameOver }
func (e GameOver) Recipients() []string { return e.to }
