package server

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	uuid "github.com/satori/go.uuid"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 25 * time.Second
	sendQueue  = 64
)

// ClientConn wraps one websocket with a buffered outbound queue drained by a
// dedicated writer goroutine.
type ClientConn struct {
	ws    *websocket.Conn
	codec Codec
	send  chan []byte

	mu     sync.Mutex
	closed bool
}

func NewClientConn(ws *websocket.Conn, codec Codec) *ClientConn {
	return &ClientConn{
		ws:    ws,
		codec: codec,
		send:  make(chan []byte, sendQueue),
	}
}

// Enqueue queues a frame without blocking. When the queue is full the frame
// is dropped so a slow client never stalls a room tick.
func (c *ClientConn) Enqueue(b []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- b:
		return true
	default:
		return false
	}
}

// Close ends the writer after it flushes what is already queued.
func (c *ClientConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

func (c *ClientConn) writePump() {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		_ = c.ws.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.ws.WriteMessage(c.codec.FrameType(), msg); err != nil {
				Log.Debugf("write: %v", err)
				return
			}
		case <-ping.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Gateway is the websocket transport. It turns connections into registry
// calls and delivers room events to the addressed connections.
type Gateway struct {
	mu    sync.RWMutex
	conns map[string]*ClientConn

	upgrader websocket.Upgrader
}

func NewGateway() *Gateway {
	return &Gateway{
		conns: make(map[string]*ClientConn),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Demo setting: accept every origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Publish implements EventSink.
func (g *Gateway) Publish(ev Event) {
	to := ev.Recipients()
	if len(to) == 0 {
		return
	}

	// Frames are encoded once per codec in use.
	frames := make(map[Codec][]byte, 2)
	encode := func(c Codec) []byte {
		if b, ok := frames[c]; ok {
			return b
		}
		b, err := c.Encode(ev.Type(), ev)
		if err != nil {
			Log.Errorf("encode %s: %v", ev.Type(), err)
		}
		frames[c] = b
		return b
	}

	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, id := range to {
		c, ok := g.conns[id]
		if !ok {
			continue
		}
		if pj, ok := ev.(PlayerJoined); ok && pj.PlayerID == id {
			g.sendTo(c, LoginSuccess{PlayerID: id})
		}
		if b := encode(c.codec); b != nil && !c.Enqueue(b) {
			Log.Debugf("dropped %s for %s: send queue full", ev.Type(), id)
		}
	}
}

func (g *Gateway) sendTo(c *ClientConn, ev Event) {
	b, err := c.codec.Encode(ev.Type(), ev)
	if err != nil {
		Log.Errorf("encode %s: %v", ev.Type(), err)
		return
	}
	c.Enqueue(b)
}

func (g *Gateway) register(id string, c *ClientConn) {
	g.mu.Lock()
	g.conns[id] = c
	g.mu.Unlock()
}

func (g *Gateway) unregister(id string) {
	g.mu.Lock()
	delete(g.conns, id)
	g.mu.Unlock()
}

// Handler serves GET /ws?room=<id>&name=<name>[&codec=json|msgpack].
func (g *Gateway) Handler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		roomID := q.Get("room")
		if roomID == "" {
			http.Error(w, "missing room query", http.StatusBadRequest)
			return
		}
		name := strings.TrimSpace(q.Get("name"))
		if name == "" {
			name = "Player"
		}
		codec := CodecByName(q.Get("codec"))

		ws, err := g.upgrader.Upgrade(w, r, nil)
		if err != nil {
			Log.Warnf("upgrade: %v", err)
			return
		}

		client := NewClientConn(ws, codec)
		playerID := uuid.Must(uuid.NewV4()).String()
		g.register(playerID, client)
		go client.writePump()

		if err := reg.Join(playerID, name, roomID); err != nil {
			// RoomFull has already been queued for this connection.
			Log.Infof("ws join failed: room=%s player=%s: %v", roomID, playerID, err)
			g.unregister(playerID)
			client.Close()
			return
		}

		go g.readPump(reg, client, playerID)
	}
}

// readPump turns inbound frames into registry calls. Any read error counts
// as a disconnect and leaves the room.
func (g *Gateway) readPump(reg *Registry, c *ClientConn, playerID string) {
	defer func() {
		reg.LeaveRoom(playerID)
		g.unregister(playerID)
		c.Close()
	}()

	c.ws.SetReadLimit(1 << 16)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				Log.Debugf("read: player=%s: %v", playerID, err)
			}
			return
		}
		_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))

		t, p, err := c.codec.Decode(payload)
		if err != nil {
			continue
		}
		switch t {
		case MsgInput:
			reg.SetInput(playerID, parseInput(p))
		case MsgLeaveRoom:
			return
		}
	}
}
