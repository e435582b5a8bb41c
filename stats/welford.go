package stats

import "math"

// Welford keeps a count, mean and sum of squared deviations (m2) for a
// single series. Two Welfords are combined with Merge, which uses the
// pairwise update of Chan et al. so that block-wise accumulation does not
// lose precision against a single pass.
type Welford struct {
	count uint64
	mean  float64
	m2    float64
}

func NewWelford() *Welford {
	return &Welford{
		count: 0,
		mean:  0,
		m2:    0,
	}
}

// NewWelfordFromMoments rebuilds an accumulator from previously exported
// state, e.g. a block summary or a decoded partial result.
func NewWelfordFromMoments(count uint64, mean, m2 float64) *Welford {
	if count == 0 {
		return NewWelford()
	}
	return &Welford{
		count: count,
		mean:  mean,
		m2:    m2,
	}
}

// Merge folds other into welford. other is not modified.
func (welford *Welford) Merge(other *Welford) {
	if other.count == 0 {
		return
	}
	if welford.count == 0 {
		*welford = *other
		return
	}
	na := float64(welford.count)
	nb := float64(other.count)
	n := na + nb
	delta := other.mean - welford.mean
	welford.mean += delta * nb / n
	welford.m2 += other.m2 + delta*delta*na*nb/n
	welford.count += other.count
}

// UpdateZeros accounts for n observations that are exactly zero in O(1).
func (welford *Welford) UpdateZeros(n uint64) {
	welford.Merge(NewWelfordFromMoments(n, 0, 0))
}

func (welford *Welford) GetMean() float64 {
	return welford.mean
}

func (welford *Welford) GetM2() float64 {
	return welford.m2
}

// GetSampleVariance is m2/(count-1), NaN with fewer than two values.
func (welford *Welford) GetSampleVariance() float64 {
	if welford.count < 2 {
		return math.NaN()
	}
	return welford.m2 / float64(welford.count-1)
}

func (welford *Welford) GetSD() float64 {
	return math.Sqrt(welford.GetSampleVariance())
}

// GetCV returns the coefficient of variation, sd/mean. A zero mean yields
// NaN, as does a series of fewer than two values.
func (welford *Welford) GetCV() float64 {
	if welford.count < 2 || welford.mean == 0 {
		return math.NaN()
	}
	return welford.GetSD() / welford.GetMean()
}
