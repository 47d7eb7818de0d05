package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"duelarena/game"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// HandleRooms lists live rooms.
// GET /rooms
func HandleRooms(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, reg.Rooms())
	}
}

// HandleRoom returns the current snapshot of one room.
// GET /rooms/{id}
func HandleRoom(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		room := reg.Room(chi.URLParam(r, "id"))
		if room == nil {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, room.Snapshot())
	}
}

// HandleMetrics returns the counters of one room.
// GET /rooms/{id}/metrics
func HandleMetrics(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		room := reg.Room(chi.URLParam(r, "id"))
		if room == nil {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"room":    room.ID,
			"phase":   room.Phase(),
			"metrics": room.Metrics().Snapshot(),
		})
	}
}

// HandleConfig exposes the gameplay constants clients must agree with.
// GET /config
func HandleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"tickRate":          game.TickRate,
		"arenaWidth":        game.ArenaWidth,
		"groundY":           game.GroundY,
		"playerWidth":       game.PlayerWidth,
		"playerHeight":      game.PlayerHeight,
		"spawnX":            []float64{game.SpawnLeftX, game.SpawnRightX},
		"gravity":           game.Gravity,
		"jumpImpulse":       game.JumpImpulse,
		"moveSpeed":         game.MoveSpeed,
		"attackDuration":    game.AttackDuration,
		"attackWindow":      []float64{game.AttackWindowStart, game.AttackWindowEnd},
		"attackDamage":      game.AttackDamage,
		"knockback":         game.Knockback,
		"hitStun":           game.HitStun,
		"maxPlayersPerRoom": MaxPlayers,
	})
}

// HandleSchema publishes the wire protocol as JSON Schema.
// GET /protocol/schema
func HandleSchema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ProtocolSchema())
}

// NewRouter wires every HTTP route. staticDir may be empty to skip serving
// the client bundle.
func NewRouter(reg *Registry, gw *Gateway, staticDir string) http.Handler {
	r := chi.NewRouter()
	r.Get("/ws", gw.Handler(reg))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/config", HandleConfig)
	r.Get("/protocol/schema", HandleSchema)
	r.Get("/rooms", HandleRooms(reg))
	r.Get("/rooms/{id}", HandleRoom(reg))
	r.Get("/rooms/{id}/metrics", HandleMetrics(reg))
	if staticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(staticDir)))
	}
	return r
}
