package persistence

// Persistence bundles the store interfaces so the controller can depend on
// a single abstraction.
type Persistence struct {
	Runs   RunStore
	Events EventStore
}
