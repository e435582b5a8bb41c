package core

import (
	"momentsdb/table"
)

// Result is a finalized, read-only snapshot of the ten statistics for every
// feature. Variation is NaN for a feature whose mean is exactly zero.
type Result struct {
	nObservations uint64
	nFeatures     int
	values        [numResultIDs][]float64
}

func newResult(nObservations uint64, nFeatures int) *Result {
	r := &Result{
		nObservations: nObservations,
		nFeatures:     nFeatures,
	}
	for id := range r.values {
		r.values[id] = make([]float64, nFeatures)
	}
	return r
}

func (r *Result) NObservations() uint64 {
	return r.nObservations
}

func (r *Result) NFeatures() int {
	return r.nFeatures
}

// Get returns a copy of the per-feature values of id.
func (r *Result) Get(id ResultID) []float64 {
	if id < 0 || id >= numResultIDs {
		return nil
	}
	return append([]float64(nil), r.values[id]...)
}

// At returns statistic id of one feature.
func (r *Result) At(id ResultID, feature int) float64 {
	return r.values[id][feature]
}

// Table returns statistic id as a one row table, one column per feature.
func (r *Result) Table(id ResultID) *table.DenseTable {
	t, err := table.NewDenseTable(1, r.nFeatures, r.values[id])
	if err != nil {
		// The shape is fixed by construction.
		panic(err)
	}
	return t
}
