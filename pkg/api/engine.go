package api

import "context"

// Controller owns the run lifecycle. It runs at most one algorithm at a
// time: Idle -> Running -> {Completed, Cancelled, Errored} -> Idle.
type Controller interface {
	// RegisterAlgorithm makes a by name available to Start.
	RegisterAlgorithm(a Algorithm) error

	// Algorithms lists registered algorithm names in sorted order.
	Algorithms() []string

	// Start builds the graph for req.Board and launches the named algorithm
	// in the background. It fails with ErrInvalidRunRequest when the board
	// has no start or end, ErrUnknownAlgorithm for unregistered names and
	// ErrRunInProgress while the controller is not idle.
	//
	// ctx is the host's context: when it is done the run stops at the next
	// check point and any path replay is abandoned.
	Start(ctx context.Context, req RunRequest) (*Run, error)

	// Cancel asks the running algorithm to stop. It only sets the signal;
	// the run ends at the algorithm's next check point.
	// Returns ErrNotRunning unless the controller is Running.
	Cancel() error

	// State returns the current lifecycle state.
	State() State

	// GetRun looks up a run record by ID.
	GetRun(ctx context.Context, id string) (*RunRecord, error)

	// ListRuns returns stored runs matching opts, oldest first.
	ListRuns(ctx context.Context, opts RunListOptions) ([]*RunRecord, error)

	// RunEvents returns the recorded history of a run in order.
	RunEvents(ctx context.Context, id string) ([]RunEvent, error)
}
