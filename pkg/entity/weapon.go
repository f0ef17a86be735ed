// pkg/entity/weapon.go
package entity

// WeaponSystem is a weapon mounted on a ship. Implementations own all of
// their state so that Clone yields a fully independent copy.
type WeaponSystem interface {
	GetID() WeaponID
	// GetCost is the score deducted each time the weapon fires.
	GetCost() float64
	// GetCooldown is the number of ticks between shots.
	GetCooldown() int
	GetResource() int
	GetSpec() WeaponSpec
	CanFire() bool
	// Fire consumes one shot and restarts the cooldown. It returns false,
	// changing nothing, if the weapon cannot fire.
	Fire() bool
	// Update advances the cooldown by one tick.
	Update()
	Clone() WeaponSystem
}

// WeaponSpec describes a weapon and the projectile it launches.
type WeaponSpec struct {
	ID          WeaponID `json:"id" mapstructure:"id"`
	Cost        float64  `json:"cost" mapstructure:"cost"`
	Cooldown    int      `json:"cooldown" mapstructure:"cooldown"`
	MaxResource int      `json:"maxResource" mapstructure:"maxResource"`
	Damage      int      `json:"damage" mapstructure:"damage"`
	Speed       float64  `json:"speed" mapstructure:"speed"`
	Lifetime    int      `json:"lifetime" mapstructure:"lifetime"`
	Radius      float64  `json:"radius" mapstructure:"radius"`
}

// BaseWeapon tracks cooldown and ammunition for a weapon.
type BaseWeapon struct {
	Spec     WeaponSpec
	Resource int
	// CooldownLeft counts the ticks until the weapon may fire again.
	CooldownLeft int
}

// GetID returns the weapon's identifier.
func (w *BaseWeapon) GetID() WeaponID {
	return w.Spec.ID
}

// GetCost returns the score cost of one shot.
func (w *BaseWeapon) GetCost() float64 {
	return w.Spec.Cost
}

// GetCooldown returns the ticks between shots.
func (w *BaseWeapon) GetCooldown() int {
	return w.Spec.Cooldown
}

// GetResource returns the ammunition left.
func (w *BaseWeapon) GetResource() int {
	return w.Resource
}

// GetSpec returns the weapon's configuration.
func (w *BaseWeapon) GetSpec() WeaponSpec {
	return w.Spec
}

// CanFire reports whether the cooldown has elapsed and ammunition remains.
func (w *BaseWeapon) CanFire() bool {
	return w.CooldownLeft <= 0 && w.Resource > 0
}

// Fire consumes one round and restarts the cooldown.
func (w *BaseWeapon) Fire() bool {
	if !w.CanFire() {
		return false
	}
	w.Resource--
	w.CooldownLeft = w.Spec.Cooldown
	return true
}

// Update decays the cooldown by one tick.
func (w *BaseWeapon) Update() {
	if w.CooldownLeft > 0 {
		w.CooldownLeft--
	}
}

// Launcher is a projectile weapon such as the missile launcher.
type Launcher struct {
	BaseWeapon
}

// NewLauncher creates a fully loaded launcher ready to fire.
func NewLauncher(spec WeaponSpec) *Launcher {
	return &Launcher{
		BaseWeapon: BaseWeapon{
			Spec:     spec,
			Resource: spec.MaxResource,
		},
	}
}

// Clone returns an independent copy of the launcher.
func (l *Launcher) Clone() WeaponSystem {
	c := *l
	return &c
}
