// pkg/entity/entity.go
package entity

import (
	"github.com/opd-ai/go-spacebattle/pkg/physics"
)

// Entity is the contract shared by every arena object.
type Entity interface {
	GetOwnerID() int
	GetPosition() physics.Vector2D
	// Tick advances an entity that needs no input. Ships are driven by
	// actions instead and panic if ticked.
	Tick()
	IsDead() bool
	Render(r Renderer)
}

// BaseEntity holds the fields common to all arena objects.
type BaseEntity struct {
	Position physics.Vector2D
	Radius   float64
	OwnerID  int
}

// GetOwnerID returns the id of the player owning the entity.
func (e *BaseEntity) GetOwnerID() int {
	return e.OwnerID
}

// GetPosition returns the entity's position.
func (e *BaseEntity) GetPosition() physics.Vector2D {
	return e.Position
}

var (
	_ Entity = (*Ship)(nil)
	_ Entity = (*Missile)(nil)
)
