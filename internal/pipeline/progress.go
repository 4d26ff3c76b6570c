package pipeline

import "fmt"

// ProgressStatus tracks the lifecycle of one file through extraction.
type ProgressStatus int

const (
	ProgressWorking ProgressStatus = iota
	ProgressComplete
	ProgressFailed
)

// ProgressEvent reports the status of a single file during an analysis run.
type ProgressEvent struct {
	Path    string
	Status  ProgressStatus
	Message string
}

// ProgressReporter emits progress events through a buffered channel.
type ProgressReporter struct {
	ch chan ProgressEvent
}

// NewProgressReporter creates a ProgressReporter with a buffered channel of size 64.
func NewProgressReporter() *ProgressReporter {
	return &ProgressReporter{
		ch: make(chan ProgressEvent, 64),
	}
}

// Emit sends a progress event in a non-blocking fashion.
// If the channel is full, the event is silently dropped.
func (pr *ProgressReporter) Emit(event ProgressEvent) {
	if pr == nil {
		return
	}
	select {
	case pr.ch <- event:
	default:
		// Drop the event if the channel is full.
	}
}

// Subscribe returns a read-only channel for consuming progress events.
func (pr *ProgressReporter) Subscribe() <-chan ProgressEvent {
	return pr.ch
}

// Close closes the progress event channel.
func (pr *ProgressReporter) Close() {
	close(pr.ch)
}

// FormatProgress formats a ProgressEvent as a human-readable status line.
func FormatProgress(event ProgressEvent) string {
	switch event.Status {
	case ProgressWorking:
		return fmt.Sprintf("  ● %s...", event.Path)
	case ProgressComplete:
		return fmt.Sprintf("  ✓ %s", event.Path)
	case ProgressFailed:
		return fmt.Sprintf("  ✗ %s: %s", event.Path, event.Message)
	default:
		return fmt.Sprintf("  ? %s (unknown status)", event.Path)
	}
}
