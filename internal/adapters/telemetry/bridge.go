package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/rugby/internal/core/ports"
	"go.trai.ch/rugby/internal/ui/style"
)

var _ sdktrace.SpanProcessor = (*LogBridge)(nil)

// LogBridge implements sdktrace.SpanProcessor and reports every finished
// span as a step line on the logger.
type LogBridge struct {
	logger ports.Logger
}

// NewLogBridge returns a new LogBridge.
func NewLogBridge(logger ports.Logger) *LogBridge {
	return &LogBridge{logger: logger}
}

// OnStart is called when a span starts.
func (b *LogBridge) OnStart(_ context.Context, s sdktrace.ReadWriteSpan) {
	b.logger.Debug(s.Name() + "...")
}

// OnEnd is called when a span ends.
func (b *LogBridge) OnEnd(s sdktrace.ReadOnlySpan) {
	elapsed := formatDuration(s.EndTime().Sub(s.StartTime()))
	if s.Status().Code == codes.Error {
		b.logger.Warn(fmt.Sprintf("%s %s [%s]", style.Cross, s.Name(), elapsed))
		return
	}
	b.logger.Info(fmt.Sprintf("%s %s [%s]", style.Check, s.Name(), elapsed))
}

// ForceFlush does nothing.
func (b *LogBridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *LogBridge) Shutdown(_ context.Context) error {
	return nil
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}
