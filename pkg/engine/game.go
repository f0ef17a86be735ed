// pkg/engine/game.go
package engine

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/opd-ai/go-spacebattle/pkg/config"
	"github.com/opd-ai/go-spacebattle/pkg/entity"
	"github.com/opd-ai/go-spacebattle/pkg/event"
	"github.com/opd-ai/go-spacebattle/pkg/logging"
	"github.com/opd-ai/go-spacebattle/pkg/physics"
)

// GameStatus is the phase of an episode.
type GameStatus int

const (
	GameStatusWaiting GameStatus = iota
	GameStatusActive
	GameStatusEnded
)

func (s GameStatus) String() string {
	switch s {
	case GameStatusWaiting:
		return "waiting"
	case GameStatusActive:
		return "active"
	case GameStatusEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Game drives the ships of one arena episode tick by tick. A Game is not
// safe for concurrent use, but clones share no state and may be stepped on
// separate goroutines.
type Game struct {
	Config      *config.GameConfig
	Ships       []*entity.Ship // indexed by owner id
	Missiles    []*entity.Missile
	CurrentTick uint64
	Status      GameStatus
	EventBus    *event.Bus

	control entity.Control
	logger  *logging.Logger
	metrics *gameMetrics
}

// Option customises a Game built by NewGame.
type Option func(*Game)

// WithLogger sets the logger used for episode-level messages.
func WithLogger(l *logging.Logger) Option {
	return func(g *Game) { g.logger = l }
}

// WithEventBus publishes arena events on bus.
func WithEventBus(bus *event.Bus) Option {
	return func(g *Game) { g.EventBus = bus }
}

// WithControl grants the privileged capability for the episode, overriding
// the configured privileged player.
func WithControl(ctl entity.Control) Option {
	return func(g *Game) { g.control = ctl }
}

// NewGame creates an episode with one ship per configured player, spawned on
// a circle around the arena centre and facing it.
func NewGame(cfg *config.GameConfig, opts ...Option) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	metrics, err := newGameMetrics()
	if err != nil {
		return nil, fmt.Errorf("initializing metrics: %w", err)
	}

	g := &Game{
		Config:   cfg,
		Ships:    make([]*entity.Ship, cfg.Arena.Players),
		EventBus: event.NewEventBus(),
		control:  cfg.Control(),
		logger:   logging.NewLogger(),
		metrics:  metrics,
	}
	for _, opt := range opts {
		opt(g)
	}

	stats := cfg.ShipStats()
	for i := range g.Ships {
		pos, dir := g.spawnPoint(i)
		g.Ships[i] = entity.NewShip(i, pos, dir, stats)
	}

	return g, nil
}

// spawnPoint spreads players evenly on the spawn circle, player 0 at the
// top.
func (g *Game) spawnPoint(player int) (physics.Vector2D, physics.Vector2D) {
	center := g.Config.Center()
	angle := 2*math.Pi*float64(player)/float64(len(g.Ships)) - math.Pi/2
	pos := center.Add(physics.FromAngle(angle, g.Config.Arena.SpawnRadius))

	dir := center.Sub(pos).Normalize()
	if dir == (physics.Vector2D{}) {
		dir = entity.DefaultHeading
	}
	return pos, dir
}

// Reset puts every ship back at its spawn point and clears the arena.
func (g *Game) Reset() {
	for i, ship := range g.Ships {
		pos, dir := g.spawnPoint(i)
		ship.Reset(pos)
		ship.Direction = dir
	}
	g.Missiles = nil
	g.CurrentTick = 0
	g.Status = GameStatusWaiting
}

// Start begins the episode.
func (g *Game) Start(ctx context.Context) {
	if g.Status != GameStatusWaiting {
		return
	}
	g.Status = GameStatusActive
	g.logger.Info(ctx, "game started", "players", len(g.Ships), "max_ticks", g.Config.Rules.MaxTicks)
	g.EventBus.Publish(&event.BaseEvent{EventType: event.GameStarted, Source: g})
}

// Control returns the privileged capability in force.
func (g *Game) Control() entity.Control {
	return g.control
}

// SetControl replaces the privileged capability.
func (g *Game) SetControl(ctl entity.Control) {
	g.control = ctl
}

// Ship returns the ship owned by player.
func (g *Game) Ship(player int) (*entity.Ship, bool) {
	if player < 0 || player >= len(g.Ships) {
		return nil, false
	}
	return g.Ships[player], true
}

// AliveCount returns the number of ships still alive.
func (g *Game) AliveCount() int {
	n := 0
	for _, ship := range g.Ships {
		if !ship.IsDead() {
			n++
		}
	}
	return n
}

// IsOver reports whether the episode has ended.
func (g *Game) IsOver() bool {
	return g.Status == GameStatusEnded
}

// Scores returns every ship's score, indexed by player.
func (g *Game) Scores() []float64 {
	scores := make([]float64, len(g.Ships))
	for i, ship := range g.Ships {
		scores[i] = ship.Score()
	}
	return scores
}

// Step advances the episode by one tick. actions is indexed by player; a
// missing entry means ActionNil. Dead ships take no action. Stepping a
// waiting game starts it; stepping an ended game does nothing.
func (g *Game) Step(ctx context.Context, actions []entity.Action) {
	switch g.Status {
	case GameStatusEnded:
		return
	case GameStatusWaiting:
		g.Start(ctx)
	}

	for i, ship := range g.Ships {
		if ship.IsDead() {
			continue
		}
		action := entity.ActionNil
		if i < len(actions) {
			action = actions[i]
		}
		ship.Update(action)
		if action == entity.ActionFire {
			g.fire(ctx, ship)
		}
	}

	g.updateMissiles(ctx)

	g.CurrentTick++
	g.metrics.tick(ctx)
	g.checkGameEnd(ctx)
}

func (g *Game) fire(ctx context.Context, ship *entity.Ship) {
	if !ship.CanFireWeapon(g.control, entity.WeaponMissile) {
		return
	}
	if !ship.FireWeapon(g.control, entity.WeaponMissile) {
		return
	}

	spec := ship.Stats.Missile
	if ws, ok := ship.Weapon(entity.WeaponMissile); ok {
		spec = ws.GetSpec()
	}
	g.Missiles = append(g.Missiles, entity.NewMissile(ship, spec))

	g.metrics.shot(ctx, ship.OwnerID)
	g.logger.Debug(ctx, "weapon fired", "player", ship.OwnerID, "tick", g.CurrentTick, "cost", ship.GetCost())
	g.EventBus.Publish(event.NewShipEvent(event.WeaponFired, g, ship.OwnerID, g.CurrentTick))
}

// updateMissiles moves every missile, resolves hits on enemy ships and drops
// spent missiles.
func (g *Game) updateMissiles(ctx context.Context) {
	if len(g.Missiles) == 0 {
		return
	}
	index := g.indexShips()

	live := g.Missiles[:0]
	for _, m := range g.Missiles {
		if !m.Active {
			continue
		}
		// A missile expiring this tick still hits at its final position.
		m.Tick()
		if target := g.missileTarget(index, m); target != nil {
			m.Active = false
			g.ApplyHit(ctx, m.OwnerID, target.OwnerID, m.Damage)
			continue
		}
		if m.Active {
			live = append(live, m)
		}
	}
	clear(g.Missiles[len(live):])
	g.Missiles = live
}

// indexShips builds a quad tree over the live ships' positions.
func (g *Game) indexShips() *physics.QuadTree[*entity.Ship] {
	var lo, hi physics.Vector2D
	first := true
	for _, ship := range g.Ships {
		if ship.IsDead() {
			continue
		}
		p := ship.Position
		if first {
			lo, hi = p, p
			first = false
			continue
		}
		lo = physics.Vector2D{X: min(lo.X, p.X), Y: min(lo.Y, p.Y)}
		hi = physics.Vector2D{X: max(hi.X, p.X), Y: max(hi.Y, p.Y)}
	}

	bounds := physics.Rect{Min: lo, Width: hi.X - lo.X + 1, Height: hi.Y - lo.Y + 1}
	index := physics.NewQuadTree[*entity.Ship](bounds, 4)
	for _, ship := range g.Ships {
		if !ship.IsDead() {
			index.Insert(ship.Position, ship)
		}
	}
	return index
}

// missileTarget returns the first enemy ship whose bounding box holds the
// missile, in player order.
func (g *Game) missileTarget(index *physics.QuadTree[*entity.Ship], m *entity.Missile) *entity.Ship {
	reach := 2*g.Config.Ship.Radius + 1
	area := physics.RectAround(m.Position, 2*reach, 2*reach)

	var target *entity.Ship
	for _, ship := range index.Query(area) {
		if ship.OwnerID == m.OwnerID || ship.IsDead() || !ship.Bounds().Contains(m.Position) {
			continue
		}
		if target == nil || ship.OwnerID < target.OwnerID {
			target = ship
		}
	}
	return target
}

// ApplyHit damages target on behalf of attacker. If the hit destroys the
// target, attacker is credited with the kill. Hits on dead ships or unknown
// players are ignored.
func (g *Game) ApplyHit(ctx context.Context, attacker, target, damage int) {
	victim, ok := g.Ship(target)
	if !ok || victim.IsDead() {
		return
	}

	victim.ApplyDamage(damage)
	g.EventBus.Publish(event.NewCombatEvent(event.ShipHit, g, attacker, target, damage, g.CurrentTick))
	if !victim.IsDead() {
		return
	}

	g.logger.Info(ctx, "ship destroyed", "player", target, "by", attacker, "tick", g.CurrentTick)
	g.EventBus.Publish(event.NewShipEvent(event.ShipDestroyed, g, target, g.CurrentTick))

	killer, ok := g.Ship(attacker)
	if !ok || attacker == target {
		return
	}
	killer.RecordKill()
	g.metrics.kill(ctx, attacker)
	g.EventBus.Publish(event.NewCombatEvent(event.KillRecorded, g, attacker, target, damage, g.CurrentTick))
}

func (g *Game) checkGameEnd(ctx context.Context) {
	alive := g.AliveCount()
	lastStanding := alive == 0 || (len(g.Ships) > 1 && alive <= 1)
	outOfTime := g.Config.Rules.MaxTicks > 0 && g.CurrentTick >= uint64(g.Config.Rules.MaxTicks)

	if lastStanding || outOfTime {
		g.end(ctx)
	}
}

// end closes the episode. The best-scoring survivors win (the best-scoring
// ships overall if nobody survived) and everyone else loses. Ships that
// already carry a win state keep it.
func (g *Game) end(ctx context.Context) {
	contenders := make([]*entity.Ship, 0, len(g.Ships))
	for _, ship := range g.Ships {
		if !ship.IsDead() {
			contenders = append(contenders, ship)
		}
	}
	if len(contenders) == 0 {
		contenders = g.Ships
	}

	best := math.Inf(-1)
	for _, ship := range contenders {
		best = max(best, ship.Score())
	}

	var winners []int
	for _, ship := range g.Ships {
		if ship.GetWinState() != entity.NoWinner {
			continue
		}
		if slices.Contains(contenders, ship) && ship.Score() == best {
			ship.SetWinState(entity.Win)
			winners = append(winners, ship.OwnerID)
		} else {
			ship.SetWinState(entity.Lose)
		}
	}

	g.Status = GameStatusEnded
	g.logger.Info(ctx, "game ended", "tick", g.CurrentTick, "winners", winners, "scores", g.Scores())
	g.EventBus.Publish(&event.BaseEvent{EventType: event.GameEnded, Source: g})
}

// Clone returns an independent copy of the episode for forward-model
// search. The clone owns a copy of the configuration, starts with an empty
// event bus, and neither logs nor records metrics.
func (g *Game) Clone() *Game {
	cfg := *g.Config
	c := &Game{
		Config:      &cfg,
		Ships:       make([]*entity.Ship, len(g.Ships)),
		Missiles:    make([]*entity.Missile, len(g.Missiles)),
		CurrentTick: g.CurrentTick,
		Status:      g.Status,
		EventBus:    event.NewEventBus(),
		control:     g.control,
		logger:      logging.Discard(),
	}
	for i, ship := range g.Ships {
		c.Ships[i] = ship.Clone()
	}
	for i, m := range g.Missiles {
		c.Missiles[i] = m.Clone()
	}
	return c
}

// Entities returns every ship followed by every missile in flight.
func (g *Game) Entities() []entity.Entity {
	entities := make([]entity.Entity, 0, len(g.Ships)+len(g.Missiles))
	for _, ship := range g.Ships {
		entities = append(entities, ship)
	}
	for _, m := range g.Missiles {
		entities = append(entities, m)
	}
	return entities
}

// Render draws every live ship and missile with r.
func (g *Game) Render(r entity.Renderer) {
	for _, e := range g.Entities() {
		if !e.IsDead() {
			e.Render(r)
		}
	}
}
