// cmd/arena/main.go
package main

import (
	"context"
	"flag"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/opd-ai/go-spacebattle/pkg/config"
	"github.com/opd-ai/go-spacebattle/pkg/engine"
	"github.com/opd-ai/go-spacebattle/pkg/entity"
	"github.com/opd-ai/go-spacebattle/pkg/event"
	"github.com/opd-ai/go-spacebattle/pkg/logging"
	"github.com/opd-ai/go-spacebattle/pkg/render"
)

const screenColumns = 64

func main() {
	logger := logging.NewLogger()

	configPath := flag.String("config", "", "Path to configuration file (defaults and environment only if empty)")
	createDefault := flag.String("default", "", "Write the default configuration to this path and exit")
	seed := flag.Uint64("seed", 1, "Seed for the random agents")
	renderEvery := flag.Int("render", 0, "Draw the arena to stdout every N ticks (0 disables)")
	renderLog := flag.Bool("render-log", false, "Draw frames as debug log records instead of ASCII (needs SPACEBATTLE_LOG_LEVEL=DEBUG)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithRunID(ctx, "")

	if *createDefault != "" {
		if err := config.SaveConfig(config.DefaultConfig(), *createDefault); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", *createDefault,
			)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file",
			"config_path", *createDefault,
		)
		return
	}

	gameConfig, err := config.Load(*configPath)
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err,
			"config_path", *configPath,
		)
		os.Exit(1)
	}

	game, err := engine.NewGame(gameConfig, engine.WithLogger(logger))
	if err != nil {
		logger.Error(ctx, "Failed to create game", err)
		os.Exit(1)
	}

	kills := game.EventBus.Subscribe(event.KillRecorded, func(e event.Event) {
		if ce, ok := e.(*event.CombatEvent); ok {
			logger.Info(ctx, "Kill recorded",
				"attacker", ce.AttackerID,
				"target", ce.TargetID,
				"tick", ce.Tick,
			)
		}
	})

	var (
		frames entity.Renderer
		screen *render.TerminalRenderer
	)
	switch {
	case *renderEvery <= 0:
	case *renderLog:
		frames = render.NewLogRenderer(logger)
	default:
		scale := gameConfig.Arena.Width / screenColumns
		screen = render.NewTerminalRenderer(os.Stdout, screenColumns, int(gameConfig.Arena.Height/scale), scale)
		frames = screen
	}

	rng := rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))
	actions := make([]entity.Action, len(game.Ships))

	for !game.IsOver() {
		if ctx.Err() != nil {
			logger.Warn(ctx, "Interrupted before the game ended", "tick", game.CurrentTick)
			break
		}
		for i := range actions {
			actions[i] = entity.Actions[rng.IntN(len(entity.Actions))]
		}
		game.Step(ctx, actions)

		if frames == nil || game.CurrentTick%uint64(*renderEvery) != 0 {
			continue
		}
		if screen != nil {
			screen.Clear()
		}
		game.Render(frames)
		if screen != nil {
			if err := screen.Present(); err != nil {
				logger.Error(ctx, "Failed to draw arena", err)
				frames, screen = nil, nil
			}
		}
	}
	kills.Cancel()

	for _, ship := range game.Ships {
		logger.Info(ctx, "Final result",
			"player", ship.OwnerID,
			"result", ship.GetWinState().String(),
			"score", ship.Score(),
			"kills", ship.GetKills(),
			"health", ship.GetHealthPoints(),
		)
	}
}
