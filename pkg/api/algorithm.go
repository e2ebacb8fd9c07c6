package api

import "context"

// RunSettings is the input handed to an Algorithm.
type RunSettings struct {
	Graph Graph
	Start Position
	End   Position
}

// EmitFunc reports that the algorithm touched pos. It blocks for the
// controller's pacing delay and returns ErrCancelled once the run has been
// asked to stop.
type EmitFunc func(ctx context.Context, pos Position) error

// CancelCheck returns ErrCancelled (possibly wrapped) when the run has been
// asked to stop. Algorithms call it at the top of every outer-loop iteration.
type CancelCheck func() error

// Algorithm is the contract every search implementation satisfies, whether
// built in or supplied by the host.
//
// Search must call emit once per newly discovered or relaxed neighbor and
// check once per outer-loop iteration, and return errors from either
// unchanged. It returns the path from Start to End inclusive, or nil when
// End cannot be reached. Any other error is treated as a fault in the
// algorithm.
type Algorithm interface {
	Name() string
	Search(ctx context.Context, settings RunSettings, emit EmitFunc, check CancelCheck) ([]Position, error)
}

// SearchFunc is the function form of Algorithm.Search.
type SearchFunc func(ctx context.Context, settings RunSettings, emit EmitFunc, check CancelCheck) ([]Position, error)

type funcAlgorithm struct {
	name string
	fn   SearchFunc
}

func (a funcAlgorithm) Name() string { return a.name }

func (a funcAlgorithm) Search(ctx context.Context, settings RunSettings, emit EmitFunc, check CancelCheck) ([]Position, error) {
	return a.fn(ctx, settings, emit, check)
}

// NewAlgorithm wraps fn as a named Algorithm. A nil fn behaves like the
// custom slot and finds no path.
func NewAlgorithm(name string, fn SearchFunc) Algorithm {
	if fn == nil {
		fn = func(context.Context, RunSettings, EmitFunc, CancelCheck) ([]Position, error) {
			return nil, nil
		}
	}
	return funcAlgorithm{name: name, fn: fn}
}
