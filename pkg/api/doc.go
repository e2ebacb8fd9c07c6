// Package api contains the core types shared by the gridpath engine, its
// algorithms and its hosts.
//
// Most users interact with the higher-level gridpath package, which
// re-exports selected types and helpers from this package. The api package is
// intended for custom algorithms, custom observers, and contributors
// extending the engine itself.
//
// # Concepts
//
//   - Board and Graph: grid geometry, walls and cell weights, and the
//     adjacency built from them.
//   - Algorithm: the narrow contract every search implements.
//   - Controller: the run lifecycle that drives one algorithm at a time.
//   - Observer: the hook through which a host watches a run.
//
// # Boards and Graphs
//
// A Board describes rows, columns, optional start and end cells, walls, and
// weight overrides. A Graph maps every non-wall Position to its neighbors in
// a fixed order (left, up, right, down), each carrying the cost of entering
// that neighbor. The fixed order makes every built-in algorithm
// deterministic: two runs over the same board emit the same events in the
// same order.
//
// # Algorithms
//
// An Algorithm receives RunSettings together with two callbacks:
//
//   - EmitFunc, called once per neighbor discovered or relaxed. It blocks for
//     the controller's pacing delay and is where cancellation is observed.
//   - CancelCheck, called at the top of each outer-loop iteration.
//
// Both return ErrCancelled once a stop was requested; algorithms return that
// error unchanged. The result is a path from start to end inclusive, or nil
// when the end is unreachable.
//
// Algorithms know nothing about how they were obtained. Hosts that accept
// user-authored code load it behind their own sandbox and hand the engine an
// Algorithm value (NewAlgorithm adapts a plain function).
//
// # Outcomes and errors
//
// Every run ends in exactly one Outcome: a path, no path, cancelled, or
// errored. Only the last is an error; faults raised by algorithm code
// (including panics) are wrapped in *AlgorithmFault.
//
// # Observability
//
// Observer receives run lifecycle, visit and path replay callbacks.
// LoggingObserver writes them to log/slog, BasicMetrics keeps atomic
// counters, PrometheusObserver exports collectors, and NewCompositeObserver
// fans out to several of them.
package api
