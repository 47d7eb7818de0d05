package server

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

// Codec frames envelopes on the wire. Both codecs share the same envelope
// shape: {"t": type, "p": payload}.
type Codec interface {
	Name() string
	// FrameType is the websocket message type used for this codec.
	FrameType() int
	Encode(t string, payload any) ([]byte, error)
	// Decode returns the envelope type and its payload as a generic map.
	// A payload that is not an object decodes to an empty map.
	Decode(b []byte) (string, map[string]any, error)
}

// CodecByName returns the named codec; unknown or empty names get JSON.
func CodecByName(name string) Codec {
	if name == MsgpackCodec.Name() {
		return MsgpackCodec
	}
	return JSONCodec
}

var (
	JSONCodec    Codec = jsonCodec{}
	MsgpackCodec Codec = msgpackCodec{}
)

type envelope struct {
	T string `json:"t"`
	P any    `json:"p"`
}

type jsonCodec struct{}

func (jsonCodec) Name() string   { return "json" }
func (jsonCodec) FrameType() int { return websocket.TextMessage }

func (jsonCodec) Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, fmt.Errorf("encode: empty envelope type")
	}
	return json.Marshal(envelope{T: t, P: payload})
}

func (jsonCodec) Decode(b []byte) (string, map[string]any, error) {
	if len(b) == 0 {
		return "", nil, fmt.Errorf("decode: empty frame")
	}
	var env struct {
		T string          `json:"t"`
		P json.RawMessage `json:"p"`
	}
	if err := json.Unmarshal(b, &env); err != nil {
		return "", nil, err
	}
	p := map[string]any{}
	if len(env.P) > 0 {
		_ = json.Unmarshal(env.P, &p)
	}
	return env.T, p, nil
}

type msgpackCodec struct{}

func (msgpackCodec) Name() string   { return "msgpack" }
func (msgpackCodec) FrameType() int { return websocket.BinaryMessage }

func (msgpackCodec) Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, fmt.Errorf("encode: empty envelope type")
	}
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	// Reuse the JSON field names so both codecs carry identical keys.
	enc.SetCustomStructTag("json")
	if err := enc.Encode(envelope{T: t, P: payload}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (msgpackCodec) Decode(b []byte) (string, map[string]any, error) {
	if len(b) == 0 {
		return "", nil, fmt.Errorf("decode: empty frame")
	}
	var env struct {
		T string             `msgpack:"t"`
		P msgpack.RawMessage `msgpack:"p"`
	}
	if err := msgpack.Unmarshal(b, &env); err != nil {
		return "", nil, err
	}
	p := map[string]any{}
	if len(env.P) > 0 {
		_ = msgpack.Unmarshal(env.P, &p)
	}
	return env.T, p, nil
}
