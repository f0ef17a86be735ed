package entity

// Renderer draws arena entities. Implementations read entity state and must
// not modify it.
type Renderer interface {
	RenderShip(ship *Ship)
	RenderMissile(missile *Missile)
}
