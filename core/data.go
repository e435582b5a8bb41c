package core

import (
	"fmt"
	"math"
	"momentsdb/stats"
)

// PartialResult is the running state of a moments computation: the number
// of observations plus per-feature aggregates. Every aggregate is additive
// across blocks except Mean and SumSquaresCentered, which are combined with
// the pairwise update in stats.Welford.
type PartialResult struct {
	NObservations      uint64
	Minimum            []float64
	Maximum            []float64
	Sum                []float64
	SumSquares         []float64
	Mean               []float64
	SumSquaresCentered []float64
}

// NewPartialResult returns the identity state for nFeatures features.
func NewPartialResult(nFeatures int) *PartialResult {
	p := &PartialResult{
		NObservations:      0,
		Minimum:            make([]float64, nFeatures),
		Maximum:            make([]float64, nFeatures),
		Sum:                make([]float64, nFeatures),
		SumSquares:         make([]float64, nFeatures),
		Mean:               make([]float64, nFeatures),
		SumSquaresCentered: make([]float64, nFeatures),
	}
	for j := 0; j < nFeatures; j++ {
		p.Minimum[j] = math.Inf(1)
		p.Maximum[j] = math.Inf(-1)
	}
	return p
}

func (p *PartialResult) NFeatures() int {
	return len(p.Sum)
}

func (p *PartialResult) Clone() *PartialResult {
	return &PartialResult{
		NObservations:      p.NObservations,
		Minimum:            append([]float64(nil), p.Minimum...),
		Maximum:            append([]float64(nil), p.Maximum...),
		Sum:                append([]float64(nil), p.Sum...),
		SumSquares:         append([]float64(nil), p.SumSquares...),
		Mean:               append([]float64(nil), p.Mean...),
		SumSquaresCentered: append([]float64(nil), p.SumSquaresCentered...),
	}
}

// Merge folds other into p. other is left unchanged.
func (p *PartialResult) Merge(other *PartialResult) error {
	if other.NFeatures() != p.NFeatures() {
		return fmt.Errorf("%w: have %d features, got %d",
			ErrDimensionMismatch, p.NFeatures(), other.NFeatures())
	}
	p.merge(other)
	return nil
}

func (p *PartialResult) merge(other *PartialResult) {
	if other.NObservations == 0 {
		return
	}
	for j := range p.Sum {
		w := stats.NewWelfordFromMoments(p.NObservations, p.Mean[j], p.SumSquaresCentered[j])
		w.Merge(stats.NewWelfordFromMoments(other.NObservations, other.Mean[j], other.SumSquaresCentered[j]))
		p.Mean[j] = w.GetMean()
		p.SumSquaresCentered[j] = w.GetM2()

		p.Minimum[j] = math.Min(p.Minimum[j], other.Minimum[j])
		p.Maximum[j] = math.Max(p.Maximum[j], other.Maximum[j])
		p.Sum[j] += other.Sum[j]
		p.SumSquares[j] += other.SumSquares[j]
	}
	p.NObservations += other.NObservations
}

// validate checks the internal consistency of a decoded partial result.
func (p *PartialResult) validate() error {
	n := p.NFeatures()
	for _, s := range [][]float64{p.Minimum, p.Maximum, p.SumSquares, p.Mean, p.SumSquaresCentered} {
		if len(s) != n {
			return fmt.Errorf("%w: aggregate length %d, want %d", ErrCorruptPartial, len(s), n)
		}
	}
	return nil
}

// Finalize derives the descriptive statistics from p without modifying it.
func (p *PartialResult) Finalize() (*Result, error) {
	if p.NObservations == 0 {
		return nil, ErrEmptyInput
	}
	if p.NObservations < 2 {
		return nil, fmt.Errorf("%w: have %d", ErrInsufficientSamples, p.NObservations)
	}

	result := newResult(p.NObservations, p.NFeatures())
	n := float64(p.NObservations)
	for j := 0; j < p.NFeatures(); j++ {
		moments := featureMoments{
			n:                  n,
			minimum:            p.Minimum[j],
			maximum:            p.Maximum[j],
			sum:                p.Sum[j],
			sumSquares:         p.SumSquares[j],
			sumSquaresCentered: p.SumSquaresCentered[j],
			// Reported mean and spread come from the same state, so the
			// zero-mean rule of GetCV agrees with the printed mean.
			spread: stats.NewWelfordFromMoments(p.NObservations, p.Sum[j]/n, p.SumSquaresCentered[j]),
		}
		for id, op := range ops {
			result.values[id][j] = op(&moments)
		}
	}
	return result, nil
}
