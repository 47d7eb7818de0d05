package game

// Facing is the horizontal orientation of a player.
type Facing string

const (
	FacingLeft  Facing = "left"
	FacingRight Facing = "right"
)

// CombatState is the abstract animation/combat state reported to clients.
// Renderers pick sprites from it; the simulation never looks at frames.
type CombatState string

const (
	StateIdle   CombatState = "idle"
	StateRun    CombatState = "run"
	StateJump   CombatState = "jump"
	StateFall   CombatState = "fall"
	StateAttack CombatState = "attack"
	StateHit    CombatState = "hit"
	StateDead   CombatState = "dead"
)

// Input is the latest control snapshot for a player. It is overwritten, not
// queued.
type Input struct {
	Left   bool `json:"left"`
	Right  bool `json:"right"`
	Up     bool `json:"up"`
	Attack bool `json:"attack"`
}

// Player is the authoritative state of one combatant.
type Player struct {
	ID   string
	Name string

	X, Y   float64
	VX, VY float64
	W, H   float64

	Facing Facing
	State  CombatState
	Health int

	Attacking        bool
	AttackElapsed    float64
	AttackHitApplied bool

	// StunLeft counts down the remaining hit-stun in seconds.
	StunLeft float64

	prevAttack bool // attack input seen on the previous step
}

// NewPlayer returns a player standing on the ground at the spawn point for
// the given slot (0 = left side, anything else = right side).
func NewPlayer(id, name string, slot int) *Player {
	p := &Player{ID: id, Name: name, W: PlayerWidth, H: PlayerHeight}
	p.Respawn(slot)
	return p
}

// Respawn resets kinematic and combat state to the slot's spawn point.
func (p *Player) Respawn(slot int) {
	p.X, p.Facing = SpawnLeftX, FacingRight
	if slot != 0 {
		p.X, p.Facing = SpawnRightX, FacingLeft
	}
	p.Y = GroundY - p.H
	p.VX, p.VY = 0, 0
	p.State = StateIdle
	p.Health = MaxHealth
	p.StunLeft = 0
	p.prevAttack = false
	p.endAttack()
}

// Alive reports whether the player still has health.
func (p *Player) Alive() bool { return p.Health > 0 }

// Grounded reports whether the player is resting on the ground line.
func (p *Player) Grounded() bool {
	return abs(p.VY) < VelocityEps && p.Y >= GroundY-p.H-GroundedEps
}

// Bounds is the player's body box.
func (p *Player) Bounds() Rect {
	return Rect{X: p.X, Y: p.Y, W: p.W, H: p.H}
}

// AttackBox is the hitbox in front of the player while swinging.
func (p *Player) AttackBox() Rect {
	x := p.X - AttackReach
	if p.Facing == FacingRight {
		x = p.X + p.W
	}
	return Rect{X: x, Y: p.Y + AttackOffsetY, W: AttackReach, H: p.H - AttackTrimH}
}

func (p *Player) startAttack() {
	p.Attacking = true
	p.AttackElapsed = 0
	p.AttackHitApplied = false
	p.State = StateAttack
}

func (p *Player) endAttack() {
	p.Attacking = false
	p.AttackElapsed = 0
	p.AttackHitApplied = false
}

// takeHit applies damage and knockback. dir is the sign of the push.
func (p *Player) takeHit(damage int, dir float64) {
	p.Health -= damage
	if p.Health < 0 {
		p.Health = 0
	}
	p.State = StateHit
	p.VX = dir * Knockback
	p.StunLeft = HitStun
}

func (p *Player) stunned() bool { return p.StunLeft > timeEps }

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
