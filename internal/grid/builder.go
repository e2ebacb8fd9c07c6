// Package grid turns board geometry into the adjacency graph algorithms
// search.
package grid

import "github.com/petrijr/gridpath/pkg/api"

// directions is the neighbor enumeration order: left, up, right, down.
// Algorithms break ties by this order, so it must not change.
var directions = [4]api.Position{
	{X: -1, Y: 0},
	{X: 0, Y: -1},
	{X: 1, Y: 0},
	{X: 0, Y: 1},
}

// BuildGraph returns the adjacency of a rows x columns grid. Walls are left
// out of the graph entirely and never appear as neighbors. Entering a cell
// costs its weight override, or 1 without one. Out-of-bounds walls and
// weights are ignored, as are non-positive weights. Non-positive dimensions
// produce an empty graph.
func BuildGraph(rows, columns int, walls []api.Position, weights []api.WeightedPosition) api.Graph {
	if rows <= 0 || columns <= 0 {
		return api.Graph{}
	}
	bounds := api.Board{Rows: rows, Columns: columns}

	wallSet := make(map[api.Position]struct{}, len(walls))
	for _, w := range walls {
		if bounds.InBounds(w) {
			wallSet[w] = struct{}{}
		}
	}

	cost := make(map[api.Position]int, len(weights))
	for _, w := range weights {
		if bounds.InBounds(w.Pos) && w.Weight > 0 {
			cost[w.Pos] = w.Weight
		}
	}

	graph := make(api.Graph, rows*columns-len(wallSet))
	for y := 0; y < rows; y++ {
		for x := 0; x < columns; x++ {
			p := api.Position{X: x, Y: y}
			if _, wall := wallSet[p]; wall {
				continue
			}

			neighbors := make([]api.Edge, 0, len(directions))
			for _, d := range directions {
				n := api.Position{X: p.X + d.X, Y: p.Y + d.Y}
				if !bounds.InBounds(n) {
					continue
				}
				if _, wall := wallSet[n]; wall {
					continue
				}
				weight, ok := cost[n]
				if !ok {
					weight = 1
				}
				neighbors = append(neighbors, api.Edge{Pos: n, Weight: weight})
			}
			graph[p] = api.GraphNode{Pos: p, Neighbors: neighbors}
		}
	}
	return graph
}

// BuildBoardGraph builds the graph for b's geometry.
func BuildBoardGraph(b api.Board) api.Graph {
	return BuildGraph(b.Rows, b.Columns, b.Walls, b.Weights)
}
