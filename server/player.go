package server

import "duelarena/game"

// PlayerState is the per-player view sent to clients in every snapshot.
type PlayerState struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	X           float64          `json:"x"`
	Y           float64          `json:"y"`
	W           float64          `json:"w"`
	H           float64          `json:"h"`
	Facing      game.Facing      `json:"facing"`
	CombatState game.CombatState `json:"combatState"`
	Health      int              `json:"health"`
	Attacking   bool             `json:"attacking"`
}

func newPlayerState(p *game.Player) PlayerState {
	return PlayerState{
		ID:          p.ID,
		Name:        p.Name,
		X:           p.X,
		Y:           p.Y,
		W:           p.W,
		H:           p.H,
		Facing:      p.Facing,
		CombatState: p.State,
		Health:      p.Health,
		Attacking:   p.Attacking,
	}
}
