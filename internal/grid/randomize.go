package grid

import (
	"errors"
	"math/rand/v2"

	"github.com/petrijr/gridpath/pkg/api"
)

// MaxPercent caps the share of cells that randomisation turns into walls or
// weights.
const MaxPercent = 40

// RandomOptions controls Randomize.
type RandomOptions struct {
	Rows           int
	Columns        int
	PercentWalls   int
	PercentWeights int
	// MaxWeight bounds weights, which are drawn from [2, MaxWeight]. Values
	// below 2 produce weight 2; Config validation rejects them.
	MaxWeight int
}

// RandomOptionsFromConfig copies the board settings out of cfg.
func RandomOptionsFromConfig(cfg api.Config) RandomOptions {
	return RandomOptions{
		Rows:           cfg.BoardRows,
		Columns:        cfg.BoardColumns,
		PercentWalls:   cfg.PercentWalls,
		PercentWeights: cfg.PercentWeights,
		MaxWeight:      cfg.MaxWeight,
	}
}

// Randomize places a start, an end, floor(cells*PercentWalls/100) walls and
// floor(cells*PercentWeights/100) weighted cells, all on distinct cells.
// Percentages are clamped to [0, MaxPercent].
func Randomize(opts RandomOptions, rng *rand.Rand) (api.Board, error) {
	if opts.Rows <= 0 || opts.Columns <= 0 {
		return api.Board{}, errors.New("board must have at least one row and one column")
	}
	cells := opts.Rows * opts.Columns
	if cells < 2 {
		return api.Board{}, errors.New("board needs at least two cells for a start and an end")
	}

	wallCount := cells * clampPercent(opts.PercentWalls) / 100
	weightCount := cells * clampPercent(opts.PercentWeights) / 100
	if free := cells - 2; wallCount+weightCount > free {
		wallCount = min(wallCount, free)
		weightCount = free - wallCount
	}

	order := rng.Perm(cells)
	at := func(i int) api.Position {
		return api.Position{X: order[i] % opts.Columns, Y: order[i] / opts.Columns}
	}

	start, end := at(0), at(1)
	board := api.Board{
		Rows:    opts.Rows,
		Columns: opts.Columns,
		Start:   &start,
		End:     &end,
	}

	next := 2
	for i := 0; i < wallCount; i++ {
		board.Walls = append(board.Walls, at(next))
		next++
	}
	for i := 0; i < weightCount; i++ {
		w := 2
		if opts.MaxWeight > 2 {
			w += rng.IntN(opts.MaxWeight - 1)
		}
		board.Weights = append(board.Weights, api.WeightedPosition{Pos: at(next), Weight: w})
		next++
	}
	return board, nil
}

func clampPercent(p int) int {
	return max(0, min(p, MaxPercent))
}
