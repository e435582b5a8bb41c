package core

import (
	"fmt"
	"momentsdb/stats"
	"strings"
)

// ResultID names one of the finalized statistics.
type ResultID int

const (
	Minimum ResultID = iota
	Maximum
	Sum
	SumSquares
	SumSquaresCentered
	Mean
	SecondOrderRawMoment
	Variance
	StandardDeviation
	Variation
	numResultIDs
)

var resultNames = [numResultIDs]string{
	"minimum",
	"maximum",
	"sum",
	"sumSquares",
	"sumSquaresCentered",
	"mean",
	"secondOrderRawMoment",
	"variance",
	"standardDeviation",
	"variation",
}

var resultTitles = [numResultIDs]string{
	"Minimum:",
	"Maximum:",
	"Sum:",
	"Sum of squares:",
	"Sum of squared difference from the means:",
	"Mean:",
	"Second order raw moment:",
	"Variance:",
	"Standard deviation:",
	"Variation:",
}

func (id ResultID) String() string {
	if id < 0 || id >= numResultIDs {
		return fmt.Sprintf("ResultID(%d)", int(id))
	}
	return resultNames[id]
}

// Title is the heading used when printing the statistic.
func (id ResultID) Title() string {
	if id < 0 || id >= numResultIDs {
		return id.String()
	}
	return resultTitles[id]
}

// ParseResultID matches name case-insensitively against the result names.
func ParseResultID(name string) (ResultID, error) {
	for id, n := range resultNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return ResultID(id), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownResult, name)
}

// AllResultIDs lists every statistic in reporting order.
func AllResultIDs() []ResultID {
	ids := make([]ResultID, numResultIDs)
	for i := range ids {
		ids[i] = ResultID(i)
	}
	return ids
}

type featureMoments struct {
	n                  float64
	minimum            float64
	maximum            float64
	sum                float64
	sumSquares         float64
	sumSquaresCentered float64
	spread             *stats.Welford
}

// Op derives one statistic of a feature from its accumulated moments.
type Op func(m *featureMoments) float64

var ops = [numResultIDs]Op{
	Minimum:            func(m *featureMoments) float64 { return m.minimum },
	Maximum:            func(m *featureMoments) float64 { return m.maximum },
	Sum:                func(m *featureMoments) float64 { return m.sum },
	SumSquares:         func(m *featureMoments) float64 { return m.sumSquares },
	SumSquaresCentered: func(m *featureMoments) float64 { return m.sumSquaresCentered },
	Mean:               func(m *featureMoments) float64 { return m.sum / m.n },
	SecondOrderRawMoment: func(m *featureMoments) float64 {
		return m.sumSquares / m.n
	},
	Variance:          func(m *featureMoments) float64 { return m.spread.GetSampleVariance() },
	StandardDeviation: func(m *featureMoments) float64 { return m.spread.GetSD() },
	Variation:         func(m *featureMoments) float64 { return m.spread.GetCV() },
}
