package engine

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/petrijr/gridpath/pkg/api"
)

type algorithmRegistry struct {
	mu     sync.RWMutex
	byName map[string]api.Algorithm
}

func newAlgorithmRegistry() *algorithmRegistry {
	return &algorithmRegistry{
		byName: make(map[string]api.Algorithm),
	}
}

func (r *algorithmRegistry) Register(a api.Algorithm) error {
	if a == nil {
		return errors.New("algorithm is nil")
	}
	name := a.Name()
	if name == "" {
		return errors.New("algorithm name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("algorithm %q already registered", name)
	}

	r.byName[name] = a
	return nil
}

func (r *algorithmRegistry) Get(name string) (api.Algorithm, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", api.ErrUnknownAlgorithm, name)
	}
	return a, nil
}

func (r *algorithmRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.byName))
	for name := range r.byName {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}
