package telemetry

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
)

// Silent discards every event. Useful as a default in tests and for
// maintenance runs that don't want progress noise.
type Silent struct{}

func NewSilent() Silent { return Silent{} }

func (Silent) Report(context.Context, Event) {}

// Text formats one line per event, prefixed "[Portfolio] ": "<name>
// starting [k=v ...]" on start, "<name> completed in <duration> ok
// [k=v ...]" on stop and "<name> failed in <duration> error=<err>
// [k=v ...]" on exception. Metadata is printed as key=value pairs in map
// order; no field (model, character counts, prompt size) has a fixed place
// in the line.
type Text struct {
	out io.Writer
}

func NewText(out io.Writer) *Text {
	if out == nil {
		out = os.Stdout
	}
	return &Text{out: out}
}

func (t *Text) Report(_ context.Context, ev Event) {
	switch ev.Phase {
	case PhaseStart:
		fmt.Fprintf(t.out, "[Portfolio] %s starting %s\n", ev.Name, formatMeta(ev.Meta))
	case PhaseStop:
		fmt.Fprintf(t.out, "[Portfolio] %s completed in %s ok %s\n", ev.Name, ev.Duration.Round(time.Millisecond), formatMeta(ev.Meta))
	case PhaseException:
		fmt.Fprintf(t.out, "[Portfolio] %s failed in %s error=%v %s\n", ev.Name, ev.Duration.Round(time.Millisecond), ev.Err, formatMeta(ev.Meta))
	}
}

func formatMeta(meta map[string]any) string {
	if len(meta) == 0 {
		return ""
	}
	s := "["
	first := true
	for k, v := range meta {
		if !first {
			s += " "
		}
		first = false
		s += fmt.Sprintf("%s=%v", k, v)
	}
	return s + "]"
}

// Zap emits every event as a structured JSON log line via zap, matching the
// teacher's preference for zap.Logger fields (zap.String, zap.Error, ...)
// over a bespoke encoder.
type Zap struct {
	logger *zap.Logger
}

func NewZap(logger *zap.Logger) *Zap {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &Zap{logger: logger}
}

func (z *Zap) Report(_ context.Context, ev Event) {
	fields := make([]zap.Field, 0, len(ev.Meta)+2)
	fields = append(fields, zap.String("phase", string(ev.Phase)), zap.String("namespace", ev.Namespace))
	if ev.Duration > 0 {
		fields = append(fields, zap.Duration("duration", ev.Duration))
	}
	for k, v := range ev.Meta {
		fields = append(fields, zap.Any(k, v))
	}
	switch ev.Phase {
	case PhaseException:
		fields = append(fields, zap.Error(ev.Err))
		z.logger.Error(ev.Name, fields...)
	default:
		z.logger.Info(ev.Name, fields...)
	}
}

// Multi fans an event out to every reporter, used to run the silent/text/zap
// reporters side by side (e.g. text for a human operator, zap for shipping).
type Multi []Reporter

func (m Multi) Report(ctx context.Context, ev Event) {
	for _, r := range m {
		r.Report(ctx, ev)
	}
}
