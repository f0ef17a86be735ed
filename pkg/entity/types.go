// pkg/entity/types.go
package entity

import (
	"image/color"
)

// Action is the input applied to a ship for one tick.
type Action int

const (
	ActionNil Action = iota
	ActionThrust
	ActionLeft
	ActionRight
	ActionFire
)

// Actions lists every action a ship accepts, in a stable order.
var Actions = []Action{ActionNil, ActionThrust, ActionLeft, ActionRight, ActionFire}

func (a Action) String() string {
	switch a {
	case ActionNil:
		return "Nil"
	case ActionThrust:
		return "Thrust"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionFire:
		return "Fire"
	default:
		return "Unknown"
	}
}

// WinState is the outcome of an episode for one ship.
type WinState int

const (
	NoWinner WinState = iota
	Win
	Lose
)

func (w WinState) String() string {
	switch w {
	case NoWinner:
		return "NoWinner"
	case Win:
		return "Win"
	case Lose:
		return "Lose"
	default:
		return "Unknown"
	}
}

// WeaponID identifies a weapon subsystem on a ship.
type WeaponID int

const (
	WeaponMissile WeaponID = iota
)

// PlayerColors is the colour of each player slot.
var PlayerColors = []color.RGBA{
	{R: 0x00, G: 0x80, B: 0xff, A: 0xff},
	{R: 0xff, G: 0xc8, B: 0x00, A: 0xff},
	{R: 0x00, G: 0xc8, B: 0x50, A: 0xff},
	{R: 0xd0, G: 0x30, B: 0xd0, A: 0xff},
}

// PlayerColor returns the colour of a player slot, or grey for ids outside
// the table.
func PlayerColor(playerID int) color.RGBA {
	if playerID < 0 || playerID >= len(PlayerColors) {
		return color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	}
	return PlayerColors[playerID]
}

// Control carries the capabilities the arena grants for a call. The zero
// value grants nothing.
type Control struct {
	privileged int
	enabled    bool
}

// PrivilegeFor returns a Control that lets playerID fire without cooldown
// or resource checks.
func PrivilegeFor(playerID int) Control {
	return Control{privileged: playerID, enabled: true}
}

// Privileged reports whether playerID holds the privileged capability.
func (c Control) Privileged(playerID int) bool {
	return c.enabled && c.privileged == playerID
}

// PrivilegedPlayer returns the privileged player id and whether one is set.
func (c Control) PrivilegedPlayer() (int, bool) {
	return c.privileged, c.enabled
}
