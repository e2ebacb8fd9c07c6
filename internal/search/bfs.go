package search

import (
	"context"

	"github.com/petrijr/gridpath/pkg/api"
)

// BFS is unweighted breadth-first search. It returns a path with the fewest
// steps and ignores cell weights.
type BFS struct{}

func (BFS) Name() string { return "bfs" }

func (BFS) Search(ctx context.Context, s api.RunSettings, emit api.EmitFunc, check api.CancelCheck) ([]api.Position, error) {
	if path, done := trivial(s); done {
		return path, nil
	}

	var nodes arena
	queue := []int{nodes.add(node{pos: s.Start, parent: noParent})}
	// seen covers both visited and enqueued cells, so nothing is queued twice.
	seen := map[api.Position]bool{s.Start: true}

	for len(queue) > 0 {
		if err := check(); err != nil {
			return nil, err
		}

		i := queue[0]
		queue = queue[1:]
		current := *nodes.at(i)
		if current.pos == s.End {
			return nodes.path(i), nil
		}

		for _, e := range s.Graph.Neighbors(current.pos) {
			if seen[e.Pos] {
				continue
			}
			seen[e.Pos] = true
			queue = append(queue, nodes.add(node{pos: e.Pos, cost: current.cost + 1, parent: i}))
			if err := emit(ctx, e.Pos); err != nil {
				return nil, err
			}
		}
	}
	return nil, nil
}
