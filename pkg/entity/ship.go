// pkg/entity/ship.go
package entity

import (
	"errors"
	"image/color"
	"slices"

	"github.com/opd-ai/go-spacebattle/pkg/physics"
)

// ErrShipTick is the panic value raised when a ship is advanced through the
// input-less Tick path instead of Update.
var ErrShipTick = errors.New("entity: ships advance through Update(action), not Tick")

// DefaultHeading is the heading of a freshly spawned ship (screen up).
var DefaultHeading = physics.Vector2D{X: 0, Y: -1}

// ShipStats contains the constants a ship is simulated with.
type ShipStats struct {
	MaxSpeed  float64
	MaxHealth int
	KillAward float64
	Radius    float64
	Physics   physics.Params
	Missile   WeaponSpec
}

// Ship represents a player-controlled craft.
type Ship struct {
	BaseEntity
	Direction physics.Vector2D
	Velocity  physics.Vector2D
	Stats     ShipStats

	weapons   []WeaponSystem
	health    int
	kills     int
	cost      float64
	winState  WinState
	thrusting bool
}

// NewShip creates a ship at position facing direction, at full health and
// carrying the default loadout.
func NewShip(ownerID int, position, direction physics.Vector2D, stats ShipStats) *Ship {
	ship := &Ship{
		BaseEntity: BaseEntity{
			Position: position,
			Radius:   stats.Radius,
			OwnerID:  ownerID,
		},
		Direction: direction,
		Stats:     stats,
	}
	ship.setParams()
	return ship
}

// Reset moves the ship back to position and restores its spawn state.
func (s *Ship) Reset(position physics.Vector2D) {
	s.Position = position
	s.Direction = DefaultHeading
	s.Velocity = physics.Vector2D{}
	s.setParams()
}

func (s *Ship) setParams() {
	s.Radius = s.Stats.Radius
	s.thrusting = false
	s.health = s.Stats.MaxHealth
	s.winState = NoWinner
	s.cost = 0
	s.kills = 0
	s.weapons = []WeaponSystem{NewLauncher(s.Stats.Missile)}
}

type effect int

const (
	effectThrust effect = iota
	effectSteerLeft
	effectSteerRight
	effectRecoil
)

// actionEffects lists the physics applied for each action, in order.
// Effects accumulate: an action also applies every effect of the actions
// that follow it down to Fire, so Thrust also steers both ways and recoils.
var actionEffects = map[Action][]effect{
	ActionThrust: {effectThrust, effectSteerLeft, effectSteerRight, effectRecoil},
	ActionLeft:   {effectSteerLeft, effectSteerRight, effectRecoil},
	ActionRight:  {effectSteerRight, effectRecoil},
	ActionFire:   {effectRecoil},
}

// Update advances the ship by one tick under action. It does not check
// whether the ship is alive.
func (s *Ship) Update(action Action) {
	s.thrusting = false
	p := s.Stats.Physics

	for _, e := range actionEffects[action] {
		switch e {
		case effectThrust:
			s.thrusting = true
			physics.Thrust(&s.Velocity, s.Direction, p)
		case effectSteerLeft:
			physics.Steer(&s.Direction, -1, p)
		case effectSteerRight:
			physics.Steer(&s.Direction, 1, p)
		case effectRecoil:
			physics.Repulse(&s.Position, s.Direction, false, p)
		}
	}

	physics.Gravity(s.Position, &s.Velocity, p)
	s.Velocity = physics.ClampAxes(s.Velocity, s.Stats.MaxSpeed)
	s.Position = s.Position.Add(s.Velocity)

	for _, ws := range s.weapons {
		ws.Update()
	}
}

// Tick panics: ships must be advanced with Update.
func (s *Ship) Tick() {
	panic(ErrShipTick)
}

// Weapon finds a mounted weapon by id.
func (s *Ship) Weapon(id WeaponID) (WeaponSystem, bool) {
	for _, ws := range s.weapons {
		if ws.GetID() == id {
			return ws, true
		}
	}
	return nil, false
}

// Weapons returns the mounted weapons in mount order. The returned slice
// is a copy; the weapons themselves are shared.
func (s *Ship) Weapons() []WeaponSystem {
	return slices.Clone(s.weapons)
}

// CanFireWeapon reports whether weapon id may fire now. A privileged owner
// may always fire.
func (s *Ship) CanFireWeapon(ctl Control, id WeaponID) bool {
	if ctl.Privileged(s.OwnerID) {
		return true
	}
	ws, ok := s.Weapon(id)
	if !ok {
		return false
	}
	return ws.CanFire()
}

// FireWeapon fires weapon id and deducts its cost. A privileged owner fires
// without touching the weapon's cooldown or ammunition, but still pays.
func (s *Ship) FireWeapon(ctl Control, id WeaponID) bool {
	ws, ok := s.Weapon(id)
	if ctl.Privileged(s.OwnerID) {
		if ok {
			s.cost -= ws.GetCost()
		}
		return true
	}
	if !ok || !ws.Fire() {
		return false
	}
	s.cost -= ws.GetCost()
	return true
}

// ApplyDamage subtracts amount from the ship's health, clamped to
// [0, MaxHealth].
func (s *Ship) ApplyDamage(amount int) {
	s.health = physics.Clamp(s.health-amount, 0, s.Stats.MaxHealth)
}

// IsDead reports whether the ship has no health left.
func (s *Ship) IsDead() bool {
	return s.health <= 0
}

// RecordKill credits the ship with eliminating another one.
func (s *Ship) RecordKill() {
	s.kills++
}

// Score is the fitness of the ship: kill awards plus the (non-positive)
// accumulated weapon cost.
func (s *Ship) Score() float64 {
	return float64(s.kills)*s.Stats.KillAward + s.cost
}

// GetHealthPoints returns the ship's remaining health.
func (s *Ship) GetHealthPoints() int {
	return s.health
}

// GetKills returns the number of ships this ship destroyed.
func (s *Ship) GetKills() int {
	return s.kills
}

// GetCost returns the accumulated weapon cost, zero or negative.
func (s *Ship) GetCost() float64 {
	return s.cost
}

// GetWinState returns the ship's outcome for the episode.
func (s *Ship) GetWinState() WinState {
	return s.winState
}

// SetWinState records the ship's outcome for the episode.
func (s *Ship) SetWinState(w WinState) {
	s.winState = w
}

// Thrusting reports whether the last update thrusted.
func (s *Ship) Thrusting() bool {
	return s.thrusting
}

// CostUnit returns the cost of one missile shot.
func (s *Ship) CostUnit() float64 {
	if ws, ok := s.Weapon(WeaponMissile); ok {
		return ws.GetCost()
	}
	return 0
}

// Cooldown returns the missile launcher's cooldown in ticks.
func (s *Ship) Cooldown() int {
	if ws, ok := s.Weapon(WeaponMissile); ok {
		return ws.GetCooldown()
	}
	return 0
}

// Color returns the owner's colour.
func (s *Ship) Color() color.RGBA {
	return PlayerColor(s.OwnerID)
}

// Clone returns a deep copy of the ship that shares no mutable state with
// the original.
func (s *Ship) Clone() *Ship {
	c := *s
	c.weapons = make([]WeaponSystem, len(s.weapons))
	for i, ws := range s.weapons {
		c.weapons[i] = ws.Clone()
	}
	return &c
}

// DotTo returns the cosine of the angle between the ship's heading and the
// direction to other.
func (s *Ship) DotTo(other *Ship) float64 {
	diff := other.Position.Sub(s.Position).Normalize()
	return diff.Dot(s.Direction.Normalize())
}

// DotDirections returns the cosine of the angle between the two headings.
func (s *Ship) DotDirections(other *Ship) float64 {
	return s.Direction.Normalize().Dot(other.Direction.Normalize())
}

// DistTo returns the distance between the two ships.
func (s *Ship) DistTo(other *Ship) float64 {
	return s.Position.Distance(other.Position)
}

// Bounds returns the coarse bounding box of the ship's silhouette, anchored
// at its position.
func (s *Ship) Bounds() physics.Rect {
	return physics.Rect{
		Min:    s.Position,
		Width:  2 * s.Stats.Radius,
		Height: 2 * s.Stats.Radius,
	}
}

// Render hands the ship to r.
func (s *Ship) Render(r Renderer) {
	r.RenderShip(s)
}
