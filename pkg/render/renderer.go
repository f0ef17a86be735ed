// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/go-spacebattle/pkg/entity"
	"github.com/opd-ai/go-spacebattle/pkg/logging"
)

// LogRenderer is an entity.Renderer that reports every draw call at debug
// level instead of drawing.
type LogRenderer struct {
	logger *logging.Logger
}

// NewLogRenderer creates a LogRenderer writing to logger.
func NewLogRenderer(logger *logging.Logger) *LogRenderer {
	return &LogRenderer{logger: logger}
}

func (d *LogRenderer) logEntity(msg string, e entity.Entity, args ...any) {
	pos := e.GetPosition()
	args = append([]any{"player", e.GetOwnerID(), "x", pos.X, "y", pos.Y}, args...)
	d.logger.Debug(context.Background(), msg, args...)
}

// RenderShip implements entity.Renderer.
func (d *LogRenderer) RenderShip(ship *entity.Ship) {
	if ship == nil {
		d.logger.Debug(context.Background(), "RenderShip called with nil ship")
		return
	}
	d.logEntity("RenderShip called", ship,
		"health", ship.GetHealthPoints(),
		"thrusting", ship.Thrusting(),
	)
}

// RenderMissile implements entity.Renderer.
func (d *LogRenderer) RenderMissile(missile *entity.Missile) {
	if missile == nil {
		d.logger.Debug(context.Background(), "RenderMissile called with nil missile")
		return
	}
	d.logEntity("RenderMissile called", missile, "lifetime", missile.Lifetime)
}

var _ entity.Renderer = (*LogRenderer)(nil)
var _ entity.Renderer = (*TerminalRenderer)(nil)
