package maintenance

import (
	"context"
	"fmt"

	"github.com/tangerg/ragengine/telemetry"
)

// Event is the canonical progress shape maintenance operations report
// (spec §4.10: "{operation, current, total, percentage, message?}").
type Event struct {
	Operation string
	Current   int
	Total     int
	Message   string
}

// Percentage reports Current/Total as a percentage, 0 when Total is 0.
func (e Event) Percentage() float64 {
	if e.Total == 0 {
		return 0
	}
	return float64(e.Current) / float64(e.Total) * 100
}

// Reporter is the pluggable progress sink (spec §4.10: "Built-in
// reporters: silent, text-to-stdout, telemetry-emitting").
type Reporter interface {
	Report(ctx context.Context, ev Event)
}

// Silent discards every event.
type Silent struct{}

func (Silent) Report(context.Context, Event) {}

// TextWriter formats one line per event to an io.Writer-like Printer,
// mirroring the teacher's text reporter conventions.
type TextWriter struct {
	Write func(line string)
}

func (t TextWriter) Report(_ context.Context, ev Event) {
	if t.Write == nil {
		return
	}
	line := fmt.Sprintf("[maintenance] %s %d/%d (%.1f%%)", ev.Operation, ev.Current, ev.Total, ev.Percentage())
	if ev.Message != "" {
		line += " " + ev.Message
	}
	t.Write(line)
}

// reportFunc adapts a plain func(ctx, Event) into a Reporter, the
// lightest-weight way callers hand maintenance a closure (e.g. an
// on_progress callback) without implementing the interface themselves.
type reportFunc func(ctx context.Context, ev Event)

func (f reportFunc) Report(ctx context.Context, ev Event) { f(ctx, ev) }

// ReporterFunc wraps fn as a Reporter.
func ReporterFunc(fn func(ctx context.Context, ev Event)) Reporter {
	return reportFunc(fn)
}

// TelemetryReporter emits progress as telemetry spans under the
// "maintenance" namespace, reusing the same Reporter abstraction spans
// already use elsewhere in the engine.
type TelemetryReporter struct {
	Telemetry telemetry.Reporter
}

func (t TelemetryReporter) Report(ctx context.Context, ev Event) {
	if t.Telemetry == nil {
		return
	}
	t.Telemetry.Report(ctx, telemetry.Event{
		Namespace: "maintenance",
		Name:      ev.Operation,
		Phase:     telemetry.PhaseStop,
		Meta: map[string]any{
			"current":    ev.Current,
			"total":      ev.Total,
			"percentage": ev.Percentage(),
			"message":    ev.Message,
		},
	})
}
