package core

import (
	"math"
	"momentsdb/stats"
	"momentsdb/table"
)

// summarizeBlock reduces one block to a partial result. Means and centered
// sums of squares are computed in two passes over the block, which keeps
// them accurate before they are merged pairwise into the running state.
func summarizeBlock(block table.NumericTable) *PartialResult {
	if sparse, ok := block.(table.SparseTable); ok {
		return summarizeSparse(sparse)
	}
	return summarizeDense(block)
}

func summarizeDense(block table.NumericTable) *PartialResult {
	rows, cols := block.NumRows(), block.NumCols()
	p := NewPartialResult(cols)
	p.NObservations = uint64(rows)

	rowAt := denseRowFunc(block)
	buf := make([]float64, cols)
	for i := 0; i < rows; i++ {
		row := rowAt(i, buf)
		for j, v := range row {
			p.Minimum[j] = math.Min(p.Minimum[j], v)
			p.Maximum[j] = math.Max(p.Maximum[j], v)
			p.Sum[j] += v
			p.SumSquares[j] += v * v
		}
	}

	n := float64(rows)
	for j := range p.Mean {
		p.Mean[j] = p.Sum[j] / n
	}
	for i := 0; i < rows; i++ {
		row := rowAt(i, buf)
		for j, v := range row {
			d := v - p.Mean[j]
			p.SumSquaresCentered[j] += d * d
		}
	}
	return p
}

func denseRowFunc(block table.NumericTable) func(i int, buf []float64) []float64 {
	if viewer, ok := block.(table.RowViewer); ok {
		return func(i int, _ []float64) []float64 {
			return viewer.RawRowView(i)
		}
	}
	return func(i int, buf []float64) []float64 {
		for j := range buf {
			buf[j] = block.At(i, j)
		}
		return buf
	}
}

// summarizeSparse visits stored entries only. The stored entries of each
// feature are summarized in two passes, then the unstored entries, which
// are exact zeros, are folded in with stats.Welford.UpdateZeros; they also
// pull the extremes towards zero.
func summarizeSparse(block table.SparseTable) *PartialResult {
	rows, cols := block.NumRows(), block.NumCols()
	p := NewPartialResult(cols)
	p.NObservations = uint64(rows)

	stored := make([]int, cols)
	for i := 0; i < rows; i++ {
		idx, values := block.RowNonZeros(i)
		for k, j := range idx {
			v := values[k]
			stored[j]++
			p.Minimum[j] = math.Min(p.Minimum[j], v)
			p.Maximum[j] = math.Max(p.Maximum[j], v)
			p.Sum[j] += v
			p.SumSquares[j] += v * v
		}
	}

	storedMean := make([]float64, cols)
	for j := range storedMean {
		if stored[j] > 0 {
			storedMean[j] = p.Sum[j] / float64(stored[j])
		}
	}
	storedM2 := make([]float64, cols)
	for i := 0; i < rows; i++ {
		idx, values := block.RowNonZeros(i)
		for k, j := range idx {
			d := values[k] - storedMean[j]
			storedM2[j] += d * d
		}
	}

	n := float64(rows)
	for j := 0; j < cols; j++ {
		zeros := rows - stored[j]
		if zeros > 0 {
			p.Minimum[j] = math.Min(p.Minimum[j], 0)
			p.Maximum[j] = math.Max(p.Maximum[j], 0)
		}
		w := stats.NewWelfordFromMoments(uint64(stored[j]), storedMean[j], storedM2[j])
		w.UpdateZeros(uint64(zeros))
		p.Mean[j] = p.Sum[j] / n
		p.SumSquaresCentered[j] = w.GetM2()
	}
	return p
}
