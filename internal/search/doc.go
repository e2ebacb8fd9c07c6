// Package search holds the built-in algorithms: breadth-first search,
// Dijkstra, A* and the empty custom slot.
//
// Every algorithm keeps its search nodes in an arena and links each node to
// its predecessor by index, so path reconstruction is a backwards walk over
// a slice rather than a chain of pointers.
package search
