package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"duelarena/game"
)

func TestParseInputIsLenient(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want game.Input
	}{
		{"all set", `{"t":"input","p":{"left":true,"right":true,"up":true,"attack":true}}`,
			game.Input{Left: true, Right: true, Up: true, Attack: true}},
		{"missing fields", `{"t":"input","p":{"attack":true}}`, game.Input{Attack: true}},
		{"wrong types", `{"t":"input","p":{"left":1,"right":"true","up":null,"attack":true}}`, game.Input{Attack: true}},
		{"payload not an object", `{"t":"input","p":[true,true]}`, game.Input{}},
		{"no payload", `{"t":"input"}`, game.Input{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			typ, p, err := JSONCodec.Decode([]byte(tc.raw))
			require.NoError(t, err)
			assert.Equal(t, MsgInput, typ)
			assert.Equal(t, tc.want, parseInput(p))
		})
	}
}

func TestJSONCodecRejectsGarbage(t *testing.T) {
	_, _, err := JSONCodec.Decode(nil)
	assert.Error(t, err)
	_, _, err = JSONCodec.Decode([]byte("not json"))
	assert.Error(t, err)
	_, err = JSONCodec.Encode("", struct{}{})
	assert.Error(t, err)
}

func TestCodecsCarrySameKeys(t *testing.T) {
	ev := GameOver{RoomID: "r1", Winner: "a", Loser: "b", WinnerName: "alice", to: []string{"a", "b"}}
	for _, c := range []Codec{JSONCodec, MsgpackCodec} {
		t.Run(c.Name(), func(t *testing.T) {
			b, err := c.Encode(ev.Type(), ev)
			require.NoError(t, err)
			typ, p, err := c.Decode(b)
			require.NoError(t, err)
			assert.Equal(t, MsgGameOver, typ)
			assert.Equal(t, "alice", p["winnerName"])
			assert.Equal(t, "a", p["winner"])
			assert.NotContains(t, p, "draw", "draw is omitted when false")
			assert.NotContains(t, p, "to")
		})
	}
}

func TestCodecByName(t *testing.T) {
	assert.Equal(t, MsgpackCodec, CodecByName("msgpack"))
	assert.Equal(t, JSONCodec, CodecByName("json"))
	assert.Equal(t, JSONCodec, CodecByName(""))
	assert.Equal(t, JSONCodec, CodecByName("xml"))
}
