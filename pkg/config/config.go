// pkg/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/opd-ai/go-spacebattle/pkg/entity"
	"github.com/opd-ai/go-spacebattle/pkg/physics"
)

// EnvPrefix prefixes environment overrides, e.g. SPACEBATTLE_SHIP_MAXSPEED.
const EnvPrefix = "SPACEBATTLE"

// NoPrivilegedPlayer disables privileged control.
const NoPrivilegedPlayer = -1

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// GameConfig contains configuration for an arena episode
type GameConfig struct {
	Arena   ArenaConfig       `json:"arena" mapstructure:"arena"`
	Ship    ShipConfig        `json:"ship" mapstructure:"ship"`
	Missile entity.WeaponSpec `json:"missile" mapstructure:"missile"`
	Physics PhysicsConfig     `json:"physics" mapstructure:"physics"`
	Rules   GameRules         `json:"rules" mapstructure:"rules"`
}

// ArenaConfig describes the playing field
type ArenaConfig struct {
	Width       float64 `json:"width" mapstructure:"width"`
	Height      float64 `json:"height" mapstructure:"height"`
	Players     int     `json:"players" mapstructure:"players"`
	SpawnRadius float64 `json:"spawnRadius" mapstructure:"spawnRadius"`
}

// ShipConfig contains per-ship constants
type ShipConfig struct {
	MaxSpeed  float64 `json:"maxSpeed" mapstructure:"maxSpeed"`
	MaxHealth int     `json:"maxHealth" mapstructure:"maxHealth"`
	KillAward float64 `json:"killAward" mapstructure:"killAward"`
	Radius    float64 `json:"radius" mapstructure:"radius"`
}

// PhysicsConfig contains physics-related configuration
type PhysicsConfig struct {
	ThrustImpulse float64 `json:"thrustImpulse" mapstructure:"thrustImpulse"`
	SteerStep     float64 `json:"steerStep" mapstructure:"steerStep"`
	Gravity       float64 `json:"gravity" mapstructure:"gravity"`
	Recoil        float64 `json:"recoil" mapstructure:"recoil"`
}

// GameRules contains game rules configuration
type GameRules struct {
	// MaxTicks ends the episode after this many ticks; 0 means no limit.
	MaxTicks         int `json:"maxTicks" mapstructure:"maxTicks"`
	PrivilegedPlayer int `json:"privilegedPlayer" mapstructure:"privilegedPlayer"`
}

// DefaultConfig returns a default game configuration
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Arena: ArenaConfig{
			Width:       640,
			Height:      640,
			Players:     2,
			SpawnRadius: 200,
		},
		Ship: ShipConfig{
			MaxSpeed:  3,
			MaxHealth: 10,
			KillAward: 100,
			Radius:    10,
		},
		Missile: entity.WeaponSpec{
			ID:          entity.WeaponMissile,
			Cost:        1,
			Cooldown:    4,
			MaxResource: 100,
			Damage:      5,
			Speed:       6,
			Lifetime:    60,
			Radius:      2,
		},
		Physics: PhysicsConfig{
			ThrustImpulse: 0.2,
			SteerStep:     math.Pi / 30,
			Gravity:       0.01,
			Recoil:        0.2,
		},
		Rules: GameRules{
			MaxTicks:         2000,
			PrivilegedPlayer: NoPrivilegedPlayer,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("arena.width", d.Arena.Width)
	v.SetDefault("arena.height", d.Arena.Height)
	v.SetDefault("arena.players", d.Arena.Players)
	v.SetDefault("arena.spawnRadius", d.Arena.SpawnRadius)

	v.SetDefault("ship.maxSpeed", d.Ship.MaxSpeed)
	v.SetDefault("ship.maxHealth", d.Ship.MaxHealth)
	v.SetDefault("ship.killAward", d.Ship.KillAward)
	v.SetDefault("ship.radius", d.Ship.Radius)

	v.SetDefault("missile.id", int(d.Missile.ID))
	v.SetDefault("missile.cost", d.Missile.Cost)
	v.SetDefault("missile.cooldown", d.Missile.Cooldown)
	v.SetDefault("missile.maxResource", d.Missile.MaxResource)
	v.SetDefault("missile.damage", d.Missile.Damage)
	v.SetDefault("missile.speed", d.Missile.Speed)
	v.SetDefault("missile.lifetime", d.Missile.Lifetime)
	v.SetDefault("missile.radius", d.Missile.Radius)

	v.SetDefault("physics.thrustImpulse", d.Physics.ThrustImpulse)
	v.SetDefault("physics.steerStep", d.Physics.SteerStep)
	v.SetDefault("physics.gravity", d.Physics.Gravity)
	v.SetDefault("physics.recoil", d.Physics.Recoil)

	v.SetDefault("rules.maxTicks", d.Rules.MaxTicks)
	v.SetDefault("rules.privilegedPlayer", d.Rules.PrivilegedPlayer)
}

// Load reads the JSON configuration at path, layered over the defaults and
// under SPACEBATTLE_* environment overrides. An empty path loads defaults
// and environment only.
func Load(path string) (*GameConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg GameConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *GameConfig, path string) error {
	if config == nil {
		return fmt.Errorf("%w: nil config", ErrInvalid)
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate reports every out-of-range setting.
func (c *GameConfig) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...)))
		}
	}

	check(c.Arena.Width > 0 && c.Arena.Height > 0, "arena size %vx%v must be positive", c.Arena.Width, c.Arena.Height)
	check(c.Arena.Players > 0, "arena.players %d must be positive", c.Arena.Players)
	check(c.Arena.SpawnRadius >= 0, "arena.spawnRadius %v must not be negative", c.Arena.SpawnRadius)
	check(c.Ship.MaxSpeed > 0, "ship.maxSpeed %v must be positive", c.Ship.MaxSpeed)
	check(c.Ship.MaxHealth > 0, "ship.maxHealth %d must be positive", c.Ship.MaxHealth)
	check(c.Ship.Radius > 0, "ship.radius %v must be positive", c.Ship.Radius)
	check(c.Missile.Cost >= 0, "missile.cost %v must not be negative", c.Missile.Cost)
	check(c.Missile.Cooldown >= 0, "missile.cooldown %d must not be negative", c.Missile.Cooldown)
	check(c.Missile.MaxResource >= 0, "missile.maxResource %d must not be negative", c.Missile.MaxResource)
	check(c.Rules.MaxTicks >= 0, "rules.maxTicks %d must not be negative", c.Rules.MaxTicks)
	check(c.Rules.PrivilegedPlayer >= NoPrivilegedPlayer, "rules.privilegedPlayer %d out of range", c.Rules.PrivilegedPlayer)

	return errors.Join(errs...)
}

// Center returns the centre of the arena, which is also the gravity well.
func (c *GameConfig) Center() physics.Vector2D {
	return physics.Vector2D{X: c.Arena.Width / 2, Y: c.Arena.Height / 2}
}

// ShipStats converts the configuration into the constants ships run with.
func (c *GameConfig) ShipStats() entity.ShipStats {
	return entity.ShipStats{
		MaxSpeed:  c.Ship.MaxSpeed,
		MaxHealth: c.Ship.MaxHealth,
		KillAward: c.Ship.KillAward,
		Radius:    c.Ship.Radius,
		Physics: physics.Params{
			ThrustImpulse: c.Physics.ThrustImpulse,
			SteerStep:     c.Physics.SteerStep,
			Gravity:       c.Physics.Gravity,
			GravityCenter: c.Center(),
			Recoil:        c.Physics.Recoil,
		},
		Missile: c.Missile,
	}
}

// Control returns the privileged capability configured for the episode.
func (c *GameConfig) Control() entity.Control {
	if c.Rules.PrivilegedPlayer == NoPrivilegedPlayer {
		return entity.Control{}
	}
	return entity.PrivilegeFor(c.Rules.PrivilegedPlayer)
}
