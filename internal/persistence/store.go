package persistence

import (
	"github.com/petrijr/gridpath/pkg/api"
)

// RunFilter is used to select runs from the store.
// Empty fields mean "no filter" for that field.
type RunFilter struct {
	Algorithm string
	Outcome   api.Outcome
}

func (f RunFilter) match(rec *api.RunRecord) bool {
	if f.Algorithm != "" && rec.Algorithm != f.Algorithm {
		return false
	}
	if f.Outcome != "" && rec.Outcome != f.Outcome {
		return false
	}
	return true
}

// RunStore handles storage of run records. Lookups that find nothing return
// api.ErrRunNotFound.
type RunStore interface {
	SaveRun(rec *api.RunRecord) error
	UpdateRun(rec *api.RunRecord) error
	GetRun(id string) (*api.RunRecord, error)
	// ListRuns returns matching runs ordered by start time.
	ListRuns(filter RunFilter) ([]*api.RunRecord, error)
}
