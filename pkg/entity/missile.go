// pkg/entity/missile.go
package entity

import (
	"github.com/opd-ai/go-spacebattle/pkg/physics"
)

// Missile is a projectile flying in a straight line until it hits a ship
// or its lifetime runs out.
type Missile struct {
	BaseEntity
	Velocity physics.Vector2D
	Damage   int
	// Lifetime is the number of ticks left before the missile expires.
	Lifetime int
	Active   bool
}

// NewMissile launches a missile from shooter using the given weapon spec.
func NewMissile(shooter *Ship, spec WeaponSpec) *Missile {
	pos, vel := physics.Launch(shooter.Position, shooter.Direction, shooter.Stats.Radius, spec.Speed)
	return &Missile{
		BaseEntity: BaseEntity{
			Position: pos,
			Radius:   spec.Radius,
			OwnerID:  shooter.OwnerID,
		},
		Velocity: vel,
		Damage:   spec.Damage,
		Lifetime: spec.Lifetime,
		Active:   spec.Lifetime > 0,
	}
}

// Tick moves the missile and counts down its lifetime.
func (m *Missile) Tick() {
	if !m.Active {
		return
	}
	m.Position = m.Position.Add(m.Velocity)
	m.Lifetime--
	if m.Lifetime <= 0 {
		m.Active = false
	}
}

// IsDead reports whether the missile has expired or hit something.
func (m *Missile) IsDead() bool {
	return !m.Active
}

// Clone returns an independent copy of the missile.
func (m *Missile) Clone() *Missile {
	c := *m
	return &c
}

// Render hands the missile to r.
func (m *Missile) Render(r Renderer) {
	r.RenderMissile(m)
}
