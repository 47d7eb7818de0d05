package game

// Hit records an attack connecting during a step.
type Hit struct {
	AttackerID   string
	TargetID     string
	Damage       int
	TargetHealth int
}

// Step advances players by dt seconds. Movement is integrated for each
// player first, then attack windows are resolved pairwise against the
// post-movement boxes, then vertical state, facing and death are settled.
//
// players must be in a stable order; hits are resolved in that order.
// Players that are dead when the step begins ignore input and can no longer
// be hit; they only drop to the ground.
func Step(players []*Player, inputs map[string]Input, dt float64) []Hit {
	alive := make(map[*Player]bool, len(players))
	for _, p := range players {
		alive[p] = p.State != StateDead
	}

	for _, p := range players {
		if alive[p] {
			move(p, inputs[p.ID], dt)
		} else {
			fall(p, dt)
		}
	}

	var hits []Hit
	for _, p := range players {
		if !alive[p] || !p.Attacking {
			continue
		}
		hits = resolveAttack(p, players, alive, dt, hits)
	}

	for _, p := range players {
		if alive[p] {
			settle(p)
		}
	}
	return hits
}

func move(p *Player, in Input, dt float64) {
	if p.StunLeft > 0 {
		p.StunLeft -= dt
		if p.StunLeft < timeEps {
			p.StunLeft = 0
		}
	}

	// Knockback velocity is kept while stunned.
	if !p.stunned() {
		// Right wins when both directions are held.
		switch {
		case in.Right:
			p.VX = MoveSpeed
		case in.Left:
			p.VX = -MoveSpeed
		default:
			p.VX = 0
		}
		if in.Up && p.Grounded() {
			p.VY = JumpImpulse
			p.State = StateJump
		}
		// A swing starts on the press, not while the key stays down.
		if in.Attack && !p.prevAttack && !p.Attacking {
			p.startAttack()
		}
	}
	p.prevAttack = in.Attack

	p.VY += Gravity * dt
	p.X += p.VX * dt
	p.Y += p.VY * dt

	if floor := GroundY - p.H; p.Y > floor {
		p.Y = floor
		p.VY = 0
		if !p.Attacking && !p.stunned() {
			if abs(p.VX) < FacingVelMin {
				p.State = StateIdle
			} else {
				p.State = StateRun
			}
		}
	}

	p.X = clamp(p.X, 0, ArenaWidth-p.W)
}

// fall lets a dead body settle on the ground.
func fall(p *Player, dt float64) {
	floor := GroundY - p.H
	if p.Y >= floor {
		p.VY = 0
		return
	}
	p.VY += Gravity * dt
	p.Y += p.VY * dt
	if p.Y > floor {
		p.Y = floor
		p.VY = 0
	}
}

func resolveAttack(p *Player, players []*Player, alive map[*Player]bool, dt float64, hits []Hit) []Hit {
	p.AttackElapsed += dt

	inWindow := p.AttackElapsed >= AttackWindowStart-timeEps &&
		p.AttackElapsed <= AttackWindowEnd+timeEps
	if inWindow && !p.AttackHitApplied {
		box := p.AttackBox()
		for _, o := range players {
			if o == p || !alive[o] {
				continue
			}
			if !Overlaps(box, o.Bounds()) {
				continue
			}
			o.takeHit(AttackDamage, pushDir(p, o))
			p.AttackHitApplied = true
			hits = append(hits, Hit{
				AttackerID:   p.ID,
				TargetID:     o.ID,
				Damage:       AttackDamage,
				TargetHealth: o.Health,
			})
		}
	}

	if p.AttackElapsed >= AttackDuration-timeEps {
		p.endAttack()
		p.State = StateIdle
	}
	return hits
}

// pushDir points from attacker to target, falling back to the attacker's
// facing when they share the same x.
func pushDir(attacker, target *Player) float64 {
	switch {
	case target.X > attacker.X:
		return 1
	case target.X < attacker.X:
		return -1
	case attacker.Facing == FacingLeft:
		return -1
	default:
		return 1
	}
}

func settle(p *Player) {
	switch {
	case p.VY < 0:
		p.State = StateJump
	case p.VY > 0 && !p.Attacking && p.State != StateHit:
		p.State = StateFall
	}

	switch {
	case p.VX > FacingVelMin:
		p.Facing = FacingRight
	case p.VX < -FacingVelMin:
		p.Facing = FacingLeft
	}

	if p.Health <= 0 {
		p.Health = 0
		p.State = StateDead
		p.VX, p.VY = 0, 0
		p.StunLeft = 0
		p.endAttack()
	}
}
