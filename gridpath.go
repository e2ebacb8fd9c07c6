package gridpath

import (
	"database/sql"
	"math/rand/v2"

	"github.com/petrijr/gridpath/internal/engine"
	"github.com/petrijr/gridpath/internal/grid"
	"github.com/petrijr/gridpath/pkg/api"
)

// Re-export key types so users don't need to dig into pkg/api.

type (
	Controller           = api.Controller
	Algorithm            = api.Algorithm
	SearchFunc           = api.SearchFunc
	EmitFunc             = api.EmitFunc
	CancelCheck          = api.CancelCheck
	RunSettings          = api.RunSettings
	RunRequest           = api.RunRequest
	RunRecord            = api.RunRecord
	RunEvent             = api.RunEvent
	EventType            = api.EventType
	RunListOptions       = api.RunListOptions
	Run                  = api.Run
	State                = api.State
	Outcome              = api.Outcome
	Position             = api.Position
	WeightedPosition     = api.WeightedPosition
	Board                = api.Board
	Graph                = api.Graph
	Config               = api.Config
	AlgorithmFault       = api.AlgorithmFault
	Observer             = api.Observer
	LoggingObserver      = api.LoggingObserver
	BasicMetrics         = api.BasicMetrics
	BasicMetricsSnapshot = api.BasicMetricsSnapshot
	CompositeObserver    = api.CompositeObserver
	NoopObserver         = api.NoopObserver
	PrometheusObserver   = api.PrometheusObserver
)

// Re-export common helpers.

var (
	Pos                   = api.Pos
	NewAlgorithm          = api.NewAlgorithm
	NewLoggingObserver    = api.NewLoggingObserver
	NewCompositeObserver  = api.NewCompositeObserver
	NewPrometheusObserver = api.NewPrometheusObserver
	DefaultConfig         = api.DefaultConfig
	LoadConfig            = api.LoadConfig
	ParseConfig           = api.ParseConfig
	LoadBoard             = api.LoadBoard
	ParseBoard            = api.ParseBoard
	PathCost              = api.PathCost
	IsCancellation        = api.IsCancellation
)

// Re-export lifecycle states, outcomes and event types.

const (
	StateIdle      = api.StateIdle
	StateRunning   = api.StateRunning
	StateCompleted = api.StateCompleted
	StateCancelled = api.StateCancelled
	StateErrored   = api.StateErrored

	OutcomePath      = api.OutcomePath
	OutcomeNoPath    = api.OutcomeNoPath
	OutcomeCancelled = api.OutcomeCancelled
	OutcomeErrored   = api.OutcomeErrored

	EventRunStarted   = api.EventRunStarted
	EventRunCompleted = api.EventRunCompleted
	EventRunNoPath    = api.EventRunNoPath
	EventRunCancelled = api.EventRunCancelled
	EventRunFailed    = api.EventRunFailed
	EventVisit        = api.EventVisit
	EventPathStep     = api.EventPathStep
	EventUnreachable  = api.EventUnreachable
)

// Re-export errors.

var (
	ErrInvalidRunRequest = api.ErrInvalidRunRequest
	ErrCancelled         = api.ErrCancelled
	ErrRunInProgress     = api.ErrRunInProgress
	ErrNotRunning        = api.ErrNotRunning
	ErrUnknownAlgorithm  = api.ErrUnknownAlgorithm
	ErrRunNotFound       = api.ErrRunNotFound
	ErrInvalidPath       = api.ErrInvalidPath
)

// Controller constructors
// These wrap the internal/engine package so external callers
// never need to import internal packages.

func engineConfig(cfg Config, obs Observer) engine.Config {
	return engine.Config{
		Observer:    obs,
		UpdateSpeed: cfg.UpdateSpeed,
		ReplayDelay: cfg.EffectiveReplayDelay(),
	}
}

// NewInMemoryController returns a Controller that keeps runs and their
// history in memory. obs may be nil.
func NewInMemoryController(cfg Config, obs Observer) Controller {
	return engine.NewInMemoryController(engineConfig(cfg, obs))
}

// NewSQLiteController returns a Controller that persists runs and their
// history in a SQLite database. The caller imports the driver, for example
// modernc.org/sqlite.
func NewSQLiteController(db *sql.DB, cfg Config, obs Observer) (Controller, error) {
	return engine.NewSQLiteController(db, engineConfig(cfg, obs))
}

// BuildGraph returns the adjacency of a rows x columns grid with the given
// walls and weight overrides.
func BuildGraph(rows, columns int, walls []Position, weights []WeightedPosition) Graph {
	return grid.BuildGraph(rows, columns, walls, weights)
}

// BuildBoardGraph returns the adjacency of b.
func BuildBoardGraph(b Board) Graph {
	return grid.BuildBoardGraph(b)
}

// RandomBoard lays out a board using cfg's size and percentages.
func RandomBoard(cfg Config, rng *rand.Rand) (Board, error) {
	return grid.Randomize(grid.RandomOptionsFromConfig(cfg), rng)
}
