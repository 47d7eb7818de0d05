package game

// Arena and combat constants. These values are shared with clients and form
// part of the wire contract, so they are not runtime-configurable.
const (
	TickRate = 60
	DT       = 1.0 / TickRate

	ArenaWidth = 800.0
	GroundY    = 320.0

	PlayerWidth  = 50.0
	PlayerHeight = 80.0
	MaxHealth    = 100

	SpawnLeftX  = 100.0
	SpawnRightX = 700.0

	Gravity      = 1200.0 // px/s^2
	JumpImpulse  = -650.0 // px/s
	MoveSpeed    = 240.0  // px/s
	GroundedEps  = 0.5
	VelocityEps  = 0.001
	FacingVelMin = 1.0

	AttackDuration    = 0.35 // s
	AttackWindowStart = 0.12
	AttackWindowEnd   = 0.20
	AttackDamage      = 15
	AttackReach       = 40.0
	AttackOffsetY     = 20.0
	AttackTrimH       = 30.0
	Knockback         = 120.0 // px/s

	// HitStun is how long a struck player keeps its knockback velocity and
	// ignores movement input.
	HitStun = 0.20

	// timeEps absorbs float drift from accumulating DT.
	timeEps = 1e-9
)
