package api

import (
	"context"
	"errors"
)

var (
	// ErrInvalidRunRequest is returned by Start when the board has no start
	// or no end. No state changes.
	ErrInvalidRunRequest = errors.New("invalid run request")

	// ErrCancelled is returned by EmitFunc and CancelCheck once a stop was
	// requested. It is an outcome, not a failure.
	ErrCancelled = errors.New("run was cancelled")

	// ErrRunInProgress is returned by Start while the controller is not idle.
	ErrRunInProgress = errors.New("a run is already in progress")

	// ErrNotRunning is returned by Cancel when no algorithm is in flight.
	ErrNotRunning = errors.New("no run in progress")

	// ErrUnknownAlgorithm is returned for algorithm names nobody registered.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")

	// ErrRunNotFound is returned when a run record does not exist.
	ErrRunNotFound = errors.New("run not found")

	// ErrInvalidPath marks a path that does not lead from start to end
	// through adjacent cells.
	ErrInvalidPath = errors.New("invalid path")
)

// AlgorithmFault wraps an error raised by algorithm code, including
// recovered panics.
type AlgorithmFault struct {
	Algorithm string
	Err       error
}

func (f *AlgorithmFault) Error() string {
	return "algorithm " + f.Algorithm + " failed: " + f.Err.Error()
}

func (f *AlgorithmFault) Unwrap() error {
	return f.Err
}

// IsCancellation reports whether err means the run was stopped on request,
// either through the controller or through the caller's context. An
// *AlgorithmFault is never a cancellation, whatever it wraps.
func IsCancellation(err error) bool {
	var fault *AlgorithmFault
	if errors.As(err, &fault) {
		return false
	}
	return errors.Is(err, ErrCancelled) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
