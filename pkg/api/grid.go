package api

import (
	"fmt"
	"strconv"
	"strings"
)

// Position is a cell on the board. X is the column, Y is the row; both are
// 0-based.
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Pos is shorthand for Position{X: x, Y: y}.
func Pos(x, y int) Position {
	return Position{X: x, Y: y}
}

// Key returns the stable "x,y" encoding used when a Graph is serialized.
func (p Position) Key() string {
	return strconv.Itoa(p.X) + "," + strconv.Itoa(p.Y)
}

func (p Position) String() string {
	return "(" + p.Key() + ")"
}

// ParsePositionKey parses the "x,y" form produced by Position.Key.
func ParsePositionKey(key string) (Position, error) {
	xs, ys, ok := strings.Cut(key, ",")
	if !ok {
		return Position{}, fmt.Errorf("invalid position key %q", key)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return Position{}, fmt.Errorf("invalid position key %q: %w", key, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return Position{}, fmt.Errorf("invalid position key %q: %w", key, err)
	}
	return Position{X: x, Y: y}, nil
}

// Manhattan returns |a.X-b.X| + |a.Y-b.Y|.
func Manhattan(a, b Position) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// WeightedPosition overrides the cost of entering a cell.
type WeightedPosition struct {
	Pos    Position `json:"pos" yaml:"pos"`
	Weight int      `json:"weight" yaml:"weight"`
}

// Board describes the grid a run is executed against.
//
// Start and End are optional on the board itself; a run request without
// either is rejected by the controller.
type Board struct {
	Rows    int                `json:"rows" yaml:"rows" validate:"gte=1"`
	Columns int                `json:"columns" yaml:"columns" validate:"gte=1"`
	Start   *Position          `json:"start,omitempty" yaml:"start,omitempty"`
	End     *Position          `json:"end,omitempty" yaml:"end,omitempty"`
	Walls   []Position         `json:"walls,omitempty" yaml:"walls,omitempty"`
	Weights []WeightedPosition `json:"weights,omitempty" yaml:"weights,omitempty"`
}

// InBounds reports whether p lies inside [0,Columns) x [0,Rows).
func (b Board) InBounds(p Position) bool {
	return p.X >= 0 && p.X < b.Columns && p.Y >= 0 && p.Y < b.Rows
}

// Edge is a traversable step into Pos costing Weight.
type Edge struct {
	Pos    Position `json:"position"`
	Weight int      `json:"weight"`
}

// GraphNode is a non-wall cell and its neighbors in left, up, right, down
// order.
type GraphNode struct {
	Pos       Position `json:"position"`
	Neighbors []Edge   `json:"neighbors"`
}

// Graph maps every traversable cell to its adjacency. Wall cells have no
// entry.
type Graph map[Position]GraphNode

// Neighbors returns the adjacency of p, or nil when p is not in the graph.
func (g Graph) Neighbors(p Position) []Edge {
	n, ok := g[p]
	if !ok {
		return nil
	}
	return n.Neighbors
}

// Contains reports whether p is a traversable cell.
func (g Graph) Contains(p Position) bool {
	_, ok := g[p]
	return ok
}

// EdgeWeight returns the cost of stepping from a to b, if they are adjacent.
func (g Graph) EdgeWeight(from, to Position) (int, bool) {
	for _, e := range g.Neighbors(from) {
		if e.Pos == to {
			return e.Weight, true
		}
	}
	return 0, false
}

// PathCost sums the destination edge weights along path. The second result
// is false if two consecutive positions are not adjacent in g.
func PathCost(g Graph, path []Position) (int, bool) {
	total := 0
	for i := 1; i < len(path); i++ {
		w, ok := g.EdgeWeight(path[i-1], path[i])
		if !ok {
			return 0, false
		}
		total += w
	}
	return total, true
}
