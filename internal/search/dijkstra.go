package search

import (
	"cmp"
	"context"
	"slices"

	"github.com/petrijr/gridpath/pkg/api"
)

// Dijkstra finds the path with the lowest total weight.
//
// The frontier is a slice re-sorted (stably, by cost) after each expansion
// instead of a heap; equal costs keep insertion order, which keeps runs
// reproducible.
type Dijkstra struct{}

func (Dijkstra) Name() string { return "dijkstra" }

func (Dijkstra) Search(ctx context.Context, s api.RunSettings, emit api.EmitFunc, check api.CancelCheck) ([]api.Position, error) {
	if path, done := trivial(s); done {
		return path, nil
	}

	var nodes arena
	frontier := []int{nodes.add(node{pos: s.Start, parent: noParent})}
	inFrontier := map[api.Position]int{s.Start: frontier[0]}
	finalized := make(map[api.Position]bool)

	for len(frontier) > 0 {
		if err := check(); err != nil {
			return nil, err
		}

		i := frontier[0]
		frontier = frontier[1:]
		current := *nodes.at(i)
		delete(inFrontier, current.pos)
		finalized[current.pos] = true

		if current.pos == s.End {
			return nodes.path(i), nil
		}

		for _, e := range s.Graph.Neighbors(current.pos) {
			if finalized[e.Pos] {
				continue
			}
			cost := current.cost + e.Weight
			if j, ok := inFrontier[e.Pos]; ok {
				if n := nodes.at(j); cost < n.cost {
					n.cost = cost
					n.parent = i
				}
			} else {
				j := nodes.add(node{pos: e.Pos, cost: cost, parent: i})
				frontier = append(frontier, j)
				inFrontier[e.Pos] = j
			}
			if err := emit(ctx, e.Pos); err != nil {
				return nil, err
			}
		}

		slices.SortStableFunc(frontier, func(a, b int) int {
			return cmp.Compare(nodes.at(a).cost, nodes.at(b).cost)
		})
	}
	return nil, nil
}
