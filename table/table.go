// Package table holds the numeric table abstraction consumed by the moments
// accumulator, together with readers for the two on-disk encodings and a
// fixed-width console printer.
package table

import "errors"

var (
	// ErrBadShape is returned when the declared shape does not match the data.
	ErrBadShape = errors.New("table: invalid shape")

	// ErrRaggedRow is returned when rows of a dense table differ in length.
	ErrRaggedRow = errors.New("table: ragged row")

	// ErrBadCSR is returned for inconsistent compressed sparse row data.
	ErrBadCSR = errors.New("table: malformed csr data")

	// ErrUnknownFormat is returned for a file format other than dense or csr.
	ErrUnknownFormat = errors.New("table: unknown format")
)

// NumericTable is a read-only two-dimensional collection of observations:
// rows are samples, columns are features.
type NumericTable interface {
	NumRows() int
	NumCols() int
	At(i, j int) float64
}

// SparseTable is a NumericTable that stores only its non-zero entries.
// Entries that are not stored are exactly zero.
type SparseTable interface {
	NumericTable
	NNZ() int
	// RowNonZeros returns the zero-based column indices and values stored in
	// row i, columns strictly increasing. The slices must not be modified.
	RowNonZeros(i int) (cols []int, values []float64)
}

// RowViewer is implemented by dense tables that can expose a row without
// copying. The returned slice must not be modified.
type RowViewer interface {
	RawRowView(i int) []float64
}
