package core

import (
	"context"
	"fmt"
	"momentsdb/table"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ComputeDistributed summarizes every block as its own local step on at
// most workers goroutines, ships each serialized partial result to master
// under the block's index as node ID, and finalizes on master. All blocks
// must have the same feature count.
func ComputeDistributed(
	ctx context.Context,
	blocks []table.NumericTable,
	master *Master,
	workers int) (*Result, error) {
	if len(blocks) == 0 {
		return nil, ErrEmptyInput
	}
	nFeatures := -1
	for i, block := range blocks {
		if block == nil || block.NumRows() == 0 || block.NumCols() == 0 {
			return nil, fmt.Errorf("block %d: %w", i, ErrEmptyBlock)
		}
		if nFeatures == -1 {
			nFeatures = block.NumCols()
		} else if block.NumCols() != nFeatures {
			return nil, fmt.Errorf("block %d: %w: have %d features, block has %d",
				i, ErrDimensionMismatch, nFeatures, block.NumCols())
		}
	}
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, block := range blocks {
		nodeID, block := int64(i), block
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			buf, err := PartialResultToBytes(summarizeBlock(block))
			if err != nil {
				return fmt.Errorf("node %d: %w", nodeID, err)
			}
			return master.PutBytes(nodeID, buf)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	master.logger.Info("local steps done",
		zap.Int64("job", master.JobID()),
		zap.Int("blocks", len(blocks)),
		zap.Int("workers", workers))
	return master.Finalize(ctx)
}
