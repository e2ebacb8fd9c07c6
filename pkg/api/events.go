package api

import "time"

// EventType identifies a run history event.
type EventType string

const (
	EventRunStarted   EventType = "run.started"
	EventRunCompleted EventType = "run.completed"
	EventRunNoPath    EventType = "run.no_path"
	EventRunCancelled EventType = "run.cancelled"
	EventRunFailed    EventType = "run.failed"

	EventVisit       EventType = "visit"
	EventPathStep    EventType = "path.step"
	EventUnreachable EventType = "path.unreachable"
)

// RunEvent is an append-only history record. Seq orders events within a
// run.
type RunEvent struct {
	RunID     string
	Seq       int
	At        time.Time
	Type      EventType
	Algorithm string

	// Pos and Count are set for visit and path step events. For path steps
	// Count is the index along the path.
	Pos   Position
	Count int

	// Small, human-oriented details such as an error string.
	Detail string
}
