package search

import (
	"slices"

	"github.com/petrijr/gridpath/pkg/api"
)

const noParent = -1

// node is a search record owned by one Search call.
type node struct {
	pos    api.Position
	cost   int // from start
	h      int // heuristic to end, A* only
	parent int // index into the arena, noParent for the root
}

func (n node) score() int {
	return n.cost + n.h
}

type arena struct {
	nodes []node
}

func (a *arena) add(n node) int {
	a.nodes = append(a.nodes, n)
	return len(a.nodes) - 1
}

func (a *arena) at(i int) *node {
	return &a.nodes[i]
}

// path walks predecessors from i back to the root and returns the positions
// root first.
func (a *arena) path(i int) []api.Position {
	var out []api.Position
	for ; i != noParent; i = a.nodes[i].parent {
		out = append(out, a.nodes[i].pos)
	}
	slices.Reverse(out)
	return out
}

// trivial handles the cases every algorithm answers without searching: the
// start is the end, or the start is not a traversable cell.
func trivial(s api.RunSettings) (path []api.Position, done bool) {
	if s.Start == s.End {
		return []api.Position{s.Start}, true
	}
	if !s.Graph.Contains(s.Start) {
		return nil, true
	}
	return nil, false
}
