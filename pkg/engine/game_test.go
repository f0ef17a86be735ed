// pkg/engine/game_test.go
package engine

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/opd-ai/go-spacebattle/pkg/config"
	"github.com/opd-ai/go-spacebattle/pkg/entity"
	"github.com/opd-ai/go-spacebattle/pkg/event"
	"github.com/opd-ai/go-spacebattle/pkg/logging"
	"github.com/opd-ai/go-spacebattle/pkg/physics"
)

// duelConfig returns two ships 100 units apart facing each other, with no
// forces acting on them.
func duelConfig() *config.GameConfig {
	cfg := config.DefaultConfig()
	cfg.Arena.SpawnRadius = 50
	cfg.Ship.MaxHealth = 5
	cfg.Missile.Damage = 5
	cfg.Physics.Gravity = 0
	cfg.Physics.Recoil = 0
	return cfg
}

func newTestGame(t *testing.T, cfg *config.GameConfig, opts ...Option) *Game {
	t.Helper()
	opts = append([]Option{WithLogger(logging.Discard())}, opts...)
	g, err := NewGame(cfg, opts...)
	if err != nil {
		t.Fatalf("NewGame() failed: %v", err)
	}
	return g
}

func nearly(a, b physics.Vector2D) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

// recordEvents subscribes to every arena event type and returns the list
// the events are appended to.
func recordEvents(bus *event.Bus) *[]event.Type {
	var seen []event.Type
	for _, typ := range []event.Type{
		event.GameStarted, event.GameEnded, event.WeaponFired,
		event.ShipHit, event.ShipDestroyed, event.KillRecorded,
	} {
		bus.Subscribe(typ, func(e event.Event) { seen = append(seen, e.GetType()) })
	}
	return &seen
}

func count(types []event.Type, want event.Type) int {
	n := 0
	for _, typ := range types {
		if typ == want {
			n++
		}
	}
	return n
}

func TestNewGame_SpawnsShipsFacingCentre(t *testing.T) {
	g := newTestGame(t, config.DefaultConfig())

	if len(g.Ships) != 2 {
		t.Fatalf("Expected 2 ships, got %d", len(g.Ships))
	}
	if g.Status != GameStatusWaiting {
		t.Errorf("Expected waiting status, got %v", g.Status)
	}

	tests := []struct {
		player int
		pos    physics.Vector2D
		dir    physics.Vector2D
	}{
		{0, physics.Vector2D{X: 320, Y: 120}, physics.Vector2D{X: 0, Y: 1}},
		{1, physics.Vector2D{X: 320, Y: 520}, physics.Vector2D{X: 0, Y: -1}},
	}
	for _, tt := range tests {
		ship, ok := g.Ship(tt.player)
		if !ok {
			t.Fatalf("Ship(%d) not found", tt.player)
		}
		if ship.OwnerID != tt.player {
			t.Errorf("ship %d has owner %d", tt.player, ship.OwnerID)
		}
		if !nearly(ship.Position, tt.pos) || !nearly(ship.Direction, tt.dir) {
			t.Errorf("ship %d spawned at %v facing %v, want %v facing %v",
				tt.player, ship.Position, ship.Direction, tt.pos, tt.dir)
		}
	}

	if _, ok := g.Ship(5); ok {
		t.Error("Ship(5) found in a two-player game")
	}
}

func TestNewGame_InvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Arena.Players = 0

	_, err := NewGame(cfg, WithLogger(logging.Discard()))
	if !errors.Is(err, config.ErrInvalid) {
		t.Errorf("Expected ErrInvalid, got %v", err)
	}
}

func TestStep_FireSpawnsMissile(t *testing.T) {
	g := newTestGame(t, config.DefaultConfig())
	events := recordEvents(g.EventBus)
	ctx := context.Background()

	g.Step(ctx, []entity.Action{entity.ActionFire, entity.ActionNil})

	if g.Status != GameStatusActive {
		t.Errorf("Expected game to start on first step, status %v", g.Status)
	}
	if len(g.Missiles) != 1 || g.Missiles[0].OwnerID != 0 {
		t.Fatalf("Expected one missile from player 0, got %d", len(g.Missiles))
	}
	if g.Ships[0].GetCost() != -1 || g.Ships[1].GetCost() != 0 {
		t.Errorf("costs = %v/%v, want -1/0", g.Ships[0].GetCost(), g.Ships[1].GetCost())
	}
	if count(*events, event.GameStarted) != 1 || count(*events, event.WeaponFired) != 1 {
		t.Errorf("unexpected events %v", *events)
	}

	// The launcher is cooling down, so a second fire order does nothing.
	g.Step(ctx, []entity.Action{entity.ActionFire})
	if len(g.Missiles) != 1 {
		t.Errorf("Expected cooldown to block the second shot, got %d missiles", len(g.Missiles))
	}
	if g.CurrentTick != 2 {
		t.Errorf("CurrentTick = %d, want 2", g.CurrentTick)
	}
}

func TestStep_MissileKillEndsGame(t *testing.T) {
	g := newTestGame(t, duelConfig())
	events := recordEvents(g.EventBus)
	ctx := context.Background()

	g.Step(ctx, []entity.Action{entity.ActionFire})
	for i := 0; i < 30 && !g.IsOver(); i++ {
		g.Step(ctx, nil)
	}

	shooter, target := g.Ships[0], g.Ships[1]
	if !target.IsDead() || target.GetHealthPoints() != 0 {
		t.Fatalf("Expected target destroyed, health %d", target.GetHealthPoints())
	}
	if shooter.GetKills() != 1 {
		t.Errorf("Expected shooter to have 1 kill, got %d", shooter.GetKills())
	}
	if want := shooter.Stats.KillAward - 1; shooter.Score() != want {
		t.Errorf("shooter score = %v, want %v", shooter.Score(), want)
	}
	if !g.IsOver() {
		t.Fatal("Expected game over with one ship left")
	}
	if shooter.GetWinState() != entity.Win || target.GetWinState() != entity.Lose {
		t.Errorf("win states = %v/%v, want Win/Lose", shooter.GetWinState(), target.GetWinState())
	}
	if len(g.Missiles) != 0 {
		t.Errorf("Expected spent missile to be removed, %d left", len(g.Missiles))
	}
	for _, typ := range []event.Type{event.ShipHit, event.ShipDestroyed, event.KillRecorded, event.GameEnded} {
		if count(*events, typ) != 1 {
			t.Errorf("Expected one %s event, got %v", typ, *events)
		}
	}
}

func TestStep_MaxTicksEndsGame(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Rules.MaxTicks = 5
	g := newTestGame(t, cfg)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		g.Step(ctx, nil)
	}

	if !g.IsOver() || g.CurrentTick != 5 {
		t.Fatalf("Expected game over at tick 5, status %v tick %d", g.Status, g.CurrentTick)
	}
	for _, ship := range g.Ships {
		if ship.GetWinState() != entity.Win {
			t.Errorf("tied ship %d got %v, want Win", ship.OwnerID, ship.GetWinState())
		}
	}
}

func TestStep_BestScoreWinsOnTimeout(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Rules.MaxTicks = 1
	g := newTestGame(t, cfg)

	g.Step(context.Background(), []entity.Action{entity.ActionNil, entity.ActionFire})

	if g.Ships[0].GetWinState() != entity.Win || g.Ships[1].GetWinState() != entity.Lose {
		t.Errorf("win states = %v/%v, want Win/Lose", g.Ships[0].GetWinState(), g.Ships[1].GetWinState())
	}
}

func TestStep_DeadShipsDoNotAct(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Arena.Players = 3
	g := newTestGame(t, cfg)
	ctx := context.Background()

	g.ApplyHit(ctx, 0, 2, 1000)
	dead := g.Ships[2]
	pos := dead.Position

	g.Step(ctx, []entity.Action{entity.ActionNil, entity.ActionNil, entity.ActionThrust})

	if dead.Position != pos || dead.Thrusting() {
		t.Error("dead ship was updated")
	}
	if g.IsOver() {
		t.Error("game ended with two ships alive")
	}
	if g.AliveCount() != 2 {
		t.Errorf("AliveCount() = %d, want 2", g.AliveCount())
	}
}

func TestApplyHit(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Arena.Players = 3
	g := newTestGame(t, cfg)
	ctx := context.Background()

	g.ApplyHit(ctx, 0, 7, 5)
	g.ApplyHit(ctx, 1, 1, 100)
	if g.Ships[1].GetKills() != 0 || !g.Ships[1].IsDead() {
		t.Error("self-destruction should kill without crediting a kill")
	}

	g.ApplyHit(ctx, 0, 2, 3)
	if g.Ships[2].GetHealthPoints() != 7 || g.Ships[0].GetKills() != 0 {
		t.Error("non-lethal hit mishandled")
	}
	g.ApplyHit(ctx, 0, 2, 7)
	g.ApplyHit(ctx, 0, 2, 7)
	if g.Ships[0].GetKills() != 1 {
		t.Errorf("Expected exactly one kill, got %d", g.Ships[0].GetKills())
	}
}

func TestPrivilegedControlBypassesCooldown(t *testing.T) {
	g := newTestGame(t, config.DefaultConfig(), WithControl(entity.PrivilegeFor(0)))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		g.Step(ctx, []entity.Action{entity.ActionFire, entity.ActionFire})
	}

	if got := g.Ships[0].GetCost(); got != -3 {
		t.Errorf("privileged cost = %v, want -3", got)
	}
	if got := g.Ships[1].GetCost(); got != -1 {
		t.Errorf("unprivileged cost = %v, want -1", got)
	}

	g.SetControl(entity.Control{})
	if _, ok := g.Control().PrivilegedPlayer(); ok {
		t.Error("SetControl did not clear privilege")
	}
}

func TestClone_IsIndependent(t *testing.T) {
	g := newTestGame(t, config.DefaultConfig())
	ctx := context.Background()
	g.Step(ctx, []entity.Action{entity.ActionFire, entity.ActionThrust})

	snapshot := struct {
		tick     uint64
		missiles int
		pos      []physics.Vector2D
		scores   []float64
	}{tick: g.CurrentTick, missiles: len(g.Missiles), scores: g.Scores()}
	for _, s := range g.Ships {
		snapshot.pos = append(snapshot.pos, s.Position)
	}
	missilePos := g.Missiles[0].Position

	c := g.Clone()
	if c.EventBus == g.EventBus {
		t.Error("clone shares the event bus")
	}
	for i := 0; i < 20; i++ {
		c.Step(ctx, []entity.Action{entity.ActionFire, entity.ActionFire})
	}
	c.ApplyHit(ctx, 1, 0, 3)

	if g.CurrentTick != snapshot.tick || len(g.Missiles) != snapshot.missiles {
		t.Error("clone steps changed the original game")
	}
	if g.Missiles[0].Position != missilePos {
		t.Error("clone moved the original's missile")
	}
	for i, s := range g.Ships {
		if s.Position != snapshot.pos[i] || s.Score() != snapshot.scores[i] {
			t.Errorf("ship %d changed after clone mutation", i)
		}
		if s.GetHealthPoints() != s.Stats.MaxHealth {
			t.Errorf("ship %d took damage dealt to its clone", i)
		}
	}
}

func TestClone_DeterministicConcurrentBranches(t *testing.T) {
	g := newTestGame(t, config.DefaultConfig())
	ctx := context.Background()
	script := []entity.Action{
		entity.ActionThrust, entity.ActionFire, entity.ActionLeft,
		entity.ActionRight, entity.ActionNil, entity.ActionFire,
	}

	const branches = 8
	results := make([]*Game, branches)
	var wg sync.WaitGroup
	for b := 0; b < branches; b++ {
		wg.Add(1)
		go func(b int) {
			defer wg.Done()
			branch := g.Clone()
			for i := 0; i < 50; i++ {
				a := script[i%len(script)]
				branch.Step(ctx, []entity.Action{a, a})
			}
			results[b] = branch
		}(b)
	}
	wg.Wait()

	if g.CurrentTick != 0 || g.Status != GameStatusWaiting {
		t.Error("branches advanced the base game")
	}
	for b := 1; b < branches; b++ {
		for i := range g.Ships {
			x, y := results[0].Ships[i], results[b].Ships[i]
			if x.Position != y.Position || x.Velocity != y.Velocity || x.Score() != y.Score() {
				t.Errorf("branch %d diverged on ship %d", b, i)
			}
		}
	}
}

func TestReset(t *testing.T) {
	g := newTestGame(t, duelConfig())
	ctx := context.Background()
	start := g.Ships[0].Position
	startDir := g.Ships[0].Direction

	g.Step(ctx, []entity.Action{entity.ActionFire, entity.ActionThrust})
	g.Reset()

	if g.CurrentTick != 0 || g.Status != GameStatusWaiting || len(g.Missiles) != 0 {
		t.Error("Reset did not clear episode state")
	}
	if g.Ships[0].Position != start || g.Ships[0].Direction != startDir || g.Ships[0].GetCost() != 0 {
		t.Error("Reset did not restore ship 0")
	}
}

// countingRenderer counts draw calls.
type countingRenderer struct {
	ships, missiles int
}

func (r *countingRenderer) RenderShip(*entity.Ship) {
	r.ships++
}

func (r *countingRenderer) RenderMissile(*entity.Missile) {
	r.missiles++
}

func TestRender(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Arena.Players = 3
	g := newTestGame(t, cfg)
	ctx := context.Background()

	g.Step(ctx, []entity.Action{entity.ActionFire})
	g.ApplyHit(ctx, 0, 2, 1000)

	r := &countingRenderer{}
	g.Render(r)
	if r.ships != 2 || r.missiles != 1 {
		t.Errorf("rendered %d ships and %d missiles, want 2 and 1", r.ships, r.missiles)
	}
}

func TestGameStatus_String(t *testing.T) {
	if GameStatusActive.String() != "active" || GameStatus(9).String() != "unknown" {
		t.Error("unexpected GameStatus names")
	}
}

func TestUpdateMissiles_ExpiringMissileStillHits(t *testing.T) {
	tests := []struct {
		name     string
		lifetime int
		active   bool
		wantHit  bool
	}{
		{"last_tick_lands_inside", 1, true, true},
		{"several_ticks_left", 5, true, true},
		{"already_spent", 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, duelConfig())
			target := g.Ships[1]
			m := &entity.Missile{
				BaseEntity: entity.BaseEntity{
					Position: target.Position.Add(physics.Vector2D{X: 5, Y: -5}),
					OwnerID:  0,
				},
				Velocity: physics.Vector2D{X: 0, Y: 6},
				Damage:   5,
				Lifetime: tt.lifetime,
				Active:   tt.active,
			}
			g.Missiles = []*entity.Missile{m}

			g.updateMissiles(context.Background())

			if got := target.IsDead(); got != tt.wantHit {
				t.Errorf("target dead = %v, want %v (health %d)", got, tt.wantHit, target.GetHealthPoints())
			}
			if len(g.Missiles) != 0 {
				t.Errorf("Expected missile to be removed, %d left", len(g.Missiles))
			}
		})
	}
}

func TestUpdateMissiles_ExpiresWithoutTarget(t *testing.T) {
	g := newTestGame(t, duelConfig())
	g.Missiles = []*entity.Missile{{
		BaseEntity: entity.BaseEntity{Position: physics.Vector2D{X: 10, Y: 10}},
		Velocity:   physics.Vector2D{X: 1},
		Lifetime:   2,
		Active:     true,
	}}
	ctx := context.Background()

	g.updateMissiles(ctx)
	if len(g.Missiles) != 1 {
		t.Fatalf("Expected missile in flight after one tick, got %d", len(g.Missiles))
	}
	g.updateMissiles(ctx)
	if len(g.Missiles) != 0 {
		t.Errorf("Expected missile to expire, %d left", len(g.Missiles))
	}
}

func TestClone_OwnsConfig(t *testing.T) {
	g := newTestGame(t, config.DefaultConfig())
	c := g.Clone()

	c.Config.Rules.MaxTicks = 1
	c.Config.Ship.Radius = 99

	if g.Config.Rules.MaxTicks != 2000 || g.Config.Ship.Radius != 10 {
		t.Errorf("clone config edits reached the original: %+v", g.Config.Rules)
	}
}

func TestEntities(t *testing.T) {
	g := newTestGame(t, config.DefaultConfig())
	g.Step(context.Background(), []entity.Action{entity.ActionFire})

	entities := g.Entities()
	if len(entities) != 3 {
		t.Fatalf("Entities() returned %d, want 3", len(entities))
	}
	if entities[0] != entity.Entity(g.Ships[0]) || entities[2] != entity.Entity(g.Missiles[0]) {
		t.Error("Entities() should list ships before missiles")
	}
	if entities[2].GetOwnerID() != 0 {
		t.Errorf("missile owner = %d, want 0", entities[2].GetOwnerID())
	}
}
