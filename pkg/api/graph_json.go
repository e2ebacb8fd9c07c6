package api

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes the graph as an object keyed by Position.Key:
//
//	{"0,0": {"position": {"x":0,"y":0}, "neighbors": [{"position": {"x":1,"y":0}, "weight": 1}]}}
func (g Graph) MarshalJSON() ([]byte, error) {
	out := make(map[string]GraphNode, len(g))
	for p, n := range g {
		if n.Neighbors == nil {
			n.Neighbors = []Edge{}
		}
		out[p.Key()] = n
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the format written by MarshalJSON. The key and the
// embedded position must agree.
func (g *Graph) UnmarshalJSON(data []byte) error {
	var raw map[string]GraphNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Graph, len(raw))
	for key, n := range raw {
		p, err := ParsePositionKey(key)
		if err != nil {
			return err
		}
		if p != n.Pos {
			return fmt.Errorf("graph key %q does not match position %s", key, n.Pos)
		}
		out[p] = n
	}
	*g = out
	return nil
}
