package search

import (
	"context"
	"slices"

	"github.com/petrijr/gridpath/pkg/api"
)

// AStar is A* with the Manhattan distance as heuristic. With 4-directional
// moves and weights of at least 1 the heuristic is consistent, so the
// closed set never has to be reopened and the path cost matches Dijkstra's.
type AStar struct{}

func (AStar) Name() string { return "astar" }

func (AStar) Search(ctx context.Context, s api.RunSettings, emit api.EmitFunc, check api.CancelCheck) ([]api.Position, error) {
	if path, done := trivial(s); done {
		return path, nil
	}

	var nodes arena
	open := []int{nodes.add(node{pos: s.Start, h: api.Manhattan(s.Start, s.End), parent: noParent})}
	openIndex := map[api.Position]int{s.Start: open[0]}
	closed := make(map[api.Position]bool)

	for len(open) > 0 {
		if err := check(); err != nil {
			return nil, err
		}

		best := 0
		for k := 1; k < len(open); k++ {
			if better(nodes.at(open[k]), nodes.at(open[best])) {
				best = k
			}
		}
		i := open[best]
		open = slices.Delete(open, best, best+1)
		current := *nodes.at(i)
		delete(openIndex, current.pos)

		if current.pos == s.End {
			return nodes.path(i), nil
		}
		closed[current.pos] = true

		for _, e := range s.Graph.Neighbors(current.pos) {
			if closed[e.Pos] {
				continue
			}
			cost := current.cost + e.Weight
			if j, ok := openIndex[e.Pos]; ok {
				if n := nodes.at(j); cost < n.cost {
					n.cost = cost
					n.parent = i
				}
			} else {
				j := nodes.add(node{pos: e.Pos, cost: cost, h: api.Manhattan(e.Pos, s.End), parent: i})
				open = append(open, j)
				openIndex[e.Pos] = j
			}
			if err := emit(ctx, e.Pos); err != nil {
				return nil, err
			}
		}
	}
	return nil, nil
}

// better orders open nodes by combined score, then by distance to the end.
// Remaining ties go to the node opened first.
func better(a, b *node) bool {
	if a.score() != b.score() {
		return a.score() < b.score()
	}
	return a.h < b.h
}
