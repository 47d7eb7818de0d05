package server

import (
	"reflect"

	"github.com/invopop/jsonschema"
)

// JSONSchema describes Phase as its text form.
func (Phase) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "string",
		Enum: []any{PhaseWaiting.String(), PhaseActive.String(), PhaseFinished.String()},
	}
}

// ProtocolSchema returns JSON Schemas for every envelope payload, keyed by
// direction and message type.
func ProtocolSchema() map[string]map[string]*jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}
	build := func(v any, desc string) *jsonschema.Schema {
		s := reflector.ReflectFromType(reflect.TypeOf(v))
		s.Version = ""
		s.Description = desc
		return s
	}

	return map[string]map[string]*jsonschema.Schema{
		"inbound": {
			MsgInput:     build(InputMessage{}, "Latest control state; missing or non-boolean fields read as false."),
			MsgLeaveRoom: build(struct{}{}, "Leave the current room and close the connection."),
		},
		"outbound": {
			MsgLoginSuccess: build(LoginSuccess{}, "Join accepted."),
			MsgPlayerJoined: build(PlayerJoined{}, "A player entered the room."),
			MsgPlayerLeft:   build(PlayerLeft{}, "A player left or disconnected."),
			MsgState:        build(StateSnapshot{}, "Authoritative room state, once per tick while active."),
			MsgRoomFull:     build(RoomFull{}, "Join rejected: the room already holds two players."),
			MsgGameOver:     build(GameOver{}, "Match result."),
		},
	}
}
