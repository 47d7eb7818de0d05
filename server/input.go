package server

import "duelarena/game"

// Inbound message types.
const (
	MsgInput     = "input"
	MsgLeaveRoom = "leave-room"
)

// InputMessage documents the payload of an "input" message. Example:
// {"t":"input","p":{"left":false,"right":true,"up":false,"attack":false}}
type InputMessage struct {
	Left   bool `json:"left" jsonschema:"required"`
	Right  bool `json:"right" jsonschema:"required"`
	Up     bool `json:"up" jsonschema:"required"`
	Attack bool `json:"attack" jsonschema:"required"`
}

// parseInput reads the four control flags independently. A missing or
// non-boolean field counts as false so a sloppy client never stalls the
// simulation.
func parseInput(p map[string]any) game.Input {
	return game.Input{
		Left:   boolField(p, "left"),
		Right:  boolField(p, "right"),
		Up:     boolField(p, "up"),
		Attack: boolField(p, "attack"),
	}
}

func boolField(p map[string]any, key string) bool {
	v, _ := p[key].(bool)
	return v
}
