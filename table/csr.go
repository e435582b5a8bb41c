package table

import (
	"fmt"
	"sort"
)

// CSRTable is a compressed sparse row table. Offsets and column indices are
// zero-based.
type CSRTable struct {
	rows       int
	cols       int
	rowOffsets []int
	colIndices []int
	values     []float64
}

var _ SparseTable = (*CSRTable)(nil)

// NewCSRTable validates and copies CSR arrays. rowOffsets has one entry per
// row plus a terminating entry equal to len(values).
func NewCSRTable(cols int, rowOffsets, colIndices []int, values []float64) (*CSRTable, error) {
	if cols < 0 {
		return nil, fmt.Errorf("%w: %d columns", ErrBadShape, cols)
	}
	if len(rowOffsets) == 0 || rowOffsets[0] != 0 {
		return nil, fmt.Errorf("%w: row offsets must start at zero", ErrBadCSR)
	}
	if len(colIndices) != len(values) {
		return nil, fmt.Errorf("%w: %d column indices for %d values", ErrBadCSR, len(colIndices), len(values))
	}
	if last := rowOffsets[len(rowOffsets)-1]; last != len(values) {
		return nil, fmt.Errorf("%w: last row offset %d, want %d", ErrBadCSR, last, len(values))
	}
	rows := len(rowOffsets) - 1
	for i := 0; i < rows; i++ {
		lo, hi := rowOffsets[i], rowOffsets[i+1]
		if hi < lo {
			return nil, fmt.Errorf("%w: row offsets decrease at row %d", ErrBadCSR, i)
		}
		if hi > len(values) {
			return nil, fmt.Errorf("%w: row %d offset %d beyond %d values", ErrBadCSR, i, hi, len(values))
		}
	}
	for i := 0; i < rows; i++ {
		lo, hi := rowOffsets[i], rowOffsets[i+1]
		for k := lo; k < hi; k++ {
			c := colIndices[k]
			if c < 0 || c >= cols {
				return nil, fmt.Errorf("%w: row %d column %d out of range [0, %d)", ErrBadCSR, i, c, cols)
			}
			if k > lo && c <= colIndices[k-1] {
				return nil, fmt.Errorf("%w: row %d columns not strictly increasing", ErrBadCSR, i)
			}
		}
	}

	t := &CSRTable{
		rows:       rows,
		cols:       cols,
		rowOffsets: append([]int(nil), rowOffsets...),
		colIndices: append([]int(nil), colIndices...),
		values:     append([]float64(nil), values...),
	}
	return t, nil
}

func (t *CSRTable) NumRows() int {
	return t.rows
}

func (t *CSRTable) NumCols() int {
	return t.cols
}

func (t *CSRTable) NNZ() int {
	return len(t.values)
}

func (t *CSRTable) RowNonZeros(i int) ([]int, []float64) {
	lo, hi := t.rowOffsets[i], t.rowOffsets[i+1]
	return t.colIndices[lo:hi], t.values[lo:hi]
}

func (t *CSRTable) At(i, j int) float64 {
	cols, values := t.RowNonZeros(i)
	k := sort.SearchInts(cols, j)
	if k < len(cols) && cols[k] == j {
		return values[k]
	}
	return 0
}
