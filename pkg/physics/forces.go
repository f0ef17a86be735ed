// pkg/physics/forces.go
package physics

// Params holds the constants used by the force functions. A zero Params
// makes every force function a no-op.
type Params struct {
	// ThrustImpulse is added to velocity along the heading per thrust.
	ThrustImpulse float64
	// SteerStep is the heading rotation per steer, in radians.
	SteerStep float64
	// Gravity is the per-tick pull towards GravityCenter.
	Gravity       float64
	GravityCenter Vector2D
	// Recoil is the distance a ship is pushed back along its heading when
	// it fires.
	Recoil float64
}

// Thrust adds an impulse along direction to velocity. direction is used as
// given, so a denormalized heading scales the impulse.
func Thrust(velocity *Vector2D, direction Vector2D, p Params) {
	*velocity = velocity.AddScaled(direction, p.ThrustImpulse)
}

// Steer rotates direction by one steering step; sign is -1 for left and +1
// for right.
func Steer(direction *Vector2D, sign float64, p Params) {
	*direction = direction.Rotate(sign * p.SteerStep)
}

// Gravity pulls velocity towards the gravity centre. The pull has constant
// magnitude and vanishes at the centre itself.
func Gravity(position Vector2D, velocity *Vector2D, p Params) {
	pull := p.GravityCenter.Sub(position).Normalize()
	*velocity = velocity.AddScaled(pull, p.Gravity)
}

// Repulse moves position along the normalized heading: backwards when
// forward is false (recoil from firing), forwards otherwise.
func Repulse(position *Vector2D, direction Vector2D, forward bool, p Params) {
	step := p.Recoil
	if !forward {
		step = -step
	}
	*position = position.AddScaled(direction.Normalize(), step)
}

// Launch returns the spawn point and velocity of a projectile fired from a
// body at position facing direction. The projectile starts offset from the
// body's centre so it does not overlap its shooter.
func Launch(position, direction Vector2D, offset, speed float64) (Vector2D, Vector2D) {
	heading := direction.Normalize()
	return position.AddScaled(heading, offset), heading.Scale(speed)
}
