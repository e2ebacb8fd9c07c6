package search

import (
	"context"

	"github.com/petrijr/gridpath/pkg/api"
)

// Custom is the empty slot a host replaces with its own implementation. On
// its own it finds no path and emits nothing.
type Custom struct{}

func (Custom) Name() string { return "custom" }

func (Custom) Search(ctx context.Context, s api.RunSettings, emit api.EmitFunc, check api.CancelCheck) ([]api.Position, error) {
	return nil, nil
}

// Builtins returns one instance of every built-in algorithm.
func Builtins() []api.Algorithm {
	return []api.Algorithm{BFS{}, Dijkstra{}, AStar{}, Custom{}}
}
