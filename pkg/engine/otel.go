package engine

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/opd-ai/go-spacebattle/pkg/engine"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// gameMetrics records arena activity. A nil *gameMetrics records nothing,
// which is how search clones stay out of the numbers.
type gameMetrics struct {
	ticks metric.Int64Counter
	shots metric.Int64Counter
	kills metric.Int64Counter
}

func newGameMetrics() (*gameMetrics, error) {
	m := meter()
	gm := &gameMetrics{}

	var err error
	gm.ticks, err = m.Int64Counter(
		"arena.ticks",
		metric.WithDescription("Total simulation ticks advanced"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tick counter: %w", err)
	}

	gm.shots, err = m.Int64Counter(
		"arena.shots",
		metric.WithDescription("Total weapons fired"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating shot counter: %w", err)
	}

	gm.kills, err = m.Int64Counter(
		"arena.kills",
		metric.WithDescription("Total ships destroyed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating kill counter: %w", err)
	}

	return gm, nil
}

func (gm *gameMetrics) tick(ctx context.Context) {
	if gm == nil {
		return
	}
	gm.ticks.Add(ctx, 1)
}

func (gm *gameMetrics) shot(ctx context.Context, player int) {
	if gm == nil {
		return
	}
	gm.shots.Add(ctx, 1, metric.WithAttributes(attribute.Int("player", player)))
}

func (gm *gameMetrics) kill(ctx context.Context, player int) {
	if gm == nil {
		return
	}
	gm.kills.Add(ctx, 1, metric.WithAttributes(attribute.Int("player", player)))
}
