// Package gridpath runs shortest-path searches over a 2-D grid and reports
// their progress cell by cell.
//
// A host describes a Board (size, start, end, walls and weighted cells),
// picks an algorithm by name and starts a run on a Controller. The
// controller builds the adjacency graph, drives the algorithm on its own
// goroutine, and streams every cell the algorithm touches to an Observer at
// a configurable pace. When the search ends the winning path is replayed one
// cell at a time, or the observer hears that the end was unreachable.
//
// # Core Concepts
//
//  1. Board and Graph
//  2. Algorithm
//  3. Controller and Run
//  4. Observer
//
// # Boards and Graphs
//
// BuildGraph turns grid geometry into a Graph. Walls have no entry in the
// graph and are never anyone's neighbor. Entering a cell costs its weight
// override, or 1. Neighbors are always listed left, up, right, down, which
// makes every built-in algorithm deterministic.
//
// Boards are plain structs and can be loaded from YAML with LoadBoard.
// RandomBoard lays out a random board from a Config.
//
// # Algorithms
//
// The controller ships with four algorithms:
//
//   - "bfs": breadth-first search, fewest steps, ignores weights.
//   - "dijkstra": lowest total weight.
//   - "astar": lowest total weight, guided by Manhattan distance.
//   - "custom": an empty slot that finds no path.
//
// Any value implementing Algorithm can be registered with
// Controller.RegisterAlgorithm. NewAlgorithm adapts a plain function.
//
// # Controller
//
// A Controller runs at most one algorithm at a time:
//
//	Idle -> Running -> Completed | Cancelled | Errored -> Idle
//
// Start returns a *Run handle immediately. Cancel sets a signal that the
// algorithm observes at its next check point. Wait blocks until the run,
// including path replay, has finished:
//
//	ctrl := gridpath.NewInMemoryController(gridpath.DefaultConfig(), nil)
//	run, err := ctrl.Start(ctx, gridpath.RunRequest{Algorithm: "astar", Board: board})
//	if err != nil {
//		return err
//	}
//	rec, err := run.Wait(ctx)
//
// A run that finds no path or is cancelled is not an error. Faults raised by
// algorithm code, panics included, surface as *AlgorithmFault.
//
// # Persistence
//
// Runs and their event history are stored in memory by default.
// NewSQLiteController stores them in SQLite through database/sql.
//
// # Observability
//
// LoggingObserver writes structured logs with log/slog, BasicMetrics keeps
// in-process counters and PrometheusObserver exports Prometheus collectors.
// NewCompositeObserver combines them. Each run is also traced as an
// OpenTelemetry span named "gridpath.run".
package gridpath
