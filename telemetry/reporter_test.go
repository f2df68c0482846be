package telemetry

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTextReportsOneLinePerPhase(t *testing.T) {
	var buf bytes.Buffer
	r := NewText(&buf)

	r.Report(context.Background(), Event{Name: "llm.complete", Phase: PhaseStart})
	r.Report(context.Background(), Event{Name: "llm.complete", Phase: PhaseStop, Duration: 10 * time.Millisecond})
	r.Report(context.Background(), Event{Name: "llm.complete", Phase: PhaseException, Err: errors.New("boom")})

	out := buf.String()
	assert.Contains(t, out, "[Portfolio] llm.complete starting")
	assert.Contains(t, out, "completed in")
	assert.Contains(t, out, "failed in")
	assert.Contains(t, out, "error=boom")
}

func TestTextDefaultsToStdoutWithoutPanicking(t *testing.T) {
	r := NewText(nil)
	assert.NotPanics(t, func() {
		r.Report(context.Background(), Event{Name: "x", Phase: PhaseStart})
	})
}

func TestSilentDiscardsEverything(t *testing.T) {
	s := NewSilent()
	assert.NotPanics(t, func() {
		s.Report(context.Background(), Event{Name: "x", Phase: PhaseStart})
	})
}

func TestMultiFansOutToEveryReporter(t *testing.T) {
	a := &recordingReporter{}
	b := &recordingReporter{}
	m := Multi{a, b}

	m.Report(context.Background(), Event{Name: "x", Phase: PhaseStart})

	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1)
}
