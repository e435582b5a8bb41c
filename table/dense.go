package table

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// DenseTable is a row-major table backed by a gonum matrix. A table with no
// rows or no columns has no backing matrix.
type DenseTable struct {
	rows int
	cols int
	m    *mat.Dense
}

var (
	_ NumericTable = (*DenseTable)(nil)
	_ RowViewer    = (*DenseTable)(nil)
)

// NewDenseTable copies data, which is laid out row-major, into a new table.
func NewDenseTable(rows, cols int, data []float64) (*DenseTable, error) {
	if rows < 0 || cols < 0 || len(data) != rows*cols {
		return nil, fmt.Errorf("%w: %dx%d with %d values", ErrBadShape, rows, cols, len(data))
	}
	t := &DenseTable{rows: rows, cols: cols}
	if rows > 0 && cols > 0 {
		buf := make([]float64, len(data))
		copy(buf, data)
		t.m = mat.NewDense(rows, cols, buf)
	}
	return t, nil
}

func (t *DenseTable) NumRows() int {
	return t.rows
}

func (t *DenseTable) NumCols() int {
	return t.cols
}

func (t *DenseTable) At(i, j int) float64 {
	return t.m.At(i, j)
}

func (t *DenseTable) RawRowView(i int) []float64 {
	return t.m.RawRowView(i)
}
