package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressReporter_EmitAndSubscribe(t *testing.T) {
	pr := NewProgressReporter()
	pr.Emit(ProgressEvent{Path: "a.py", Status: ProgressWorking})
	pr.Emit(ProgressEvent{Path: "a.py", Status: ProgressComplete})
	pr.Close()

	var events []ProgressEvent
	for ev := range pr.Subscribe() {
		events = append(events, ev)
	}
	assert.Len(t, events, 2)
	assert.Equal(t, ProgressComplete, events[1].Status)
}

func TestProgressReporter_NonBlockingWhenFull(t *testing.T) {
	pr := NewProgressReporter()
	// The channel buffers 64 events; the rest are dropped, not blocked on.
	for i := 0; i < 200; i++ {
		pr.Emit(ProgressEvent{Path: "x.py", Status: ProgressWorking})
	}
	pr.Close()

	count := 0
	for range pr.Subscribe() {
		count++
	}
	assert.Equal(t, 64, count)
}

func TestProgressReporter_NilSafe(t *testing.T) {
	var pr *ProgressReporter
	assert.NotPanics(t, func() {
		pr.Emit(ProgressEvent{Path: "a.py", Status: ProgressWorking})
	})
}

func TestFormatProgress(t *testing.T) {
	assert.Contains(t, FormatProgress(ProgressEvent{Path: "a.py", Status: ProgressComplete}), "a.py")
	assert.Contains(t, FormatProgress(ProgressEvent{Path: "b.py", Status: ProgressFailed, Message: "eof"}), "eof")
}
