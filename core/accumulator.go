package core

import (
	"fmt"
	"momentsdb/table"

	"go.uber.org/zap"
)

// Accumulator computes low order moments online: blocks are ingested one
// after another and the statistics can be finalized at any point. The
// feature count is fixed by the first ingested block.
//
// An Accumulator is not safe for concurrent use. To spread work over
// goroutines, give each its own Accumulator and combine them with Merge.
type Accumulator struct {
	partial *PartialResult
	nBlocks int64
	logger  *zap.Logger
}

func NewAccumulator() *Accumulator {
	return &Accumulator{
		partial: nil,
		nBlocks: 0,
		logger:  zap.NewNop(),
	}
}

func (acc *Accumulator) SetLogger(logger *zap.Logger) *Accumulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	acc.logger = logger
	return acc
}

// Ingest adds block to the running statistics. On error the accumulator is
// left exactly as it was.
func (acc *Accumulator) Ingest(block table.NumericTable) error {
	if err := acc.checkBlock(block); err != nil {
		return err
	}

	summary := summarizeBlock(block)
	if acc.partial == nil {
		acc.partial = summary
	} else {
		acc.partial.merge(summary)
	}
	acc.nBlocks++

	acc.logger.Debug("ingested block",
		zap.Int64("block", acc.nBlocks),
		zap.Int("rows", block.NumRows()),
		zap.Int("features", block.NumCols()),
		zap.Uint64("observations", acc.partial.NObservations))
	return nil
}

func (acc *Accumulator) checkBlock(block table.NumericTable) error {
	if block == nil {
		return ErrEmptyBlock
	}
	if acc.partial != nil && block.NumCols() != acc.partial.NFeatures() {
		return fmt.Errorf("%w: have %d features, block has %d",
			ErrDimensionMismatch, acc.partial.NFeatures(), block.NumCols())
	}
	if block.NumRows() == 0 || block.NumCols() == 0 {
		return fmt.Errorf("%w: %dx%d", ErrEmptyBlock, block.NumRows(), block.NumCols())
	}
	return nil
}

// Merge combines a partial result computed elsewhere, e.g. by another
// Accumulator over a disjoint part of the data.
func (acc *Accumulator) Merge(p *PartialResult) error {
	if p == nil || p.NObservations == 0 {
		return nil
	}
	if err := p.validate(); err != nil {
		return err
	}
	if acc.partial == nil {
		acc.partial = p.Clone()
	} else if err := acc.partial.Merge(p); err != nil {
		return err
	}
	acc.logger.Debug("merged partial result",
		zap.Uint64("partialObservations", p.NObservations),
		zap.Uint64("observations", acc.partial.NObservations))
	return nil
}

// Finalize computes the statistics of everything ingested so far. It does
// not change the accumulator, so it may be called repeatedly while more
// blocks arrive.
func (acc *Accumulator) Finalize() (*Result, error) {
	if acc.partial == nil {
		return nil, ErrEmptyInput
	}
	return acc.partial.Finalize()
}

// Partial returns a copy of the running state, or nil before the first block.
func (acc *Accumulator) Partial() *PartialResult {
	if acc.partial == nil {
		return nil
	}
	return acc.partial.Clone()
}

// Reset drops all state, including the feature count.
func (acc *Accumulator) Reset() {
	acc.partial = nil
	acc.nBlocks = 0
}

// NFeatures is zero until the first block is ingested.
func (acc *Accumulator) NFeatures() int {
	if acc.partial == nil {
		return 0
	}
	return acc.partial.NFeatures()
}

func (acc *Accumulator) NObservations() uint64 {
	if acc.partial == nil {
		return 0
	}
	return acc.partial.NObservations
}

func (acc *Accumulator) NBlocks() int64 {
	return acc.nBlocks
}
