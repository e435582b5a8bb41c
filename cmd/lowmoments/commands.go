package main

import (
	"context"
	"fmt"
	"io"
	"momentsdb/config"
	"momentsdb/core"
	"momentsdb/storage"
	"momentsdb/table"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const distributedJobID = 1

func newOnlineCmd(opts *options) *cobra.Command {
	var stream bool
	cmd := &cobra.Command{
		Use:   "online [datasets...]",
		Short: "Ingest the datasets one block at a time and finalize",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts, args)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			blocks, err := loadBlocks(cfg, logger)
			if err != nil {
				return err
			}
			var result *core.Result
			if stream {
				result, err = runStream(cfg, blocks, logger)
			} else {
				result, err = runOnline(blocks, logger)
			}
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), cfg, result)
		},
	}
	cmd.Flags().BoolVar(&stream, "stream", false, "re-block the rows with the configured buffer size")
	return cmd
}

func newDistributedCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "distributed [datasets...]",
		Short: "Run one local step per dataset and combine them on a master",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts, args)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			blocks, err := loadBlocks(cfg, logger)
			if err != nil {
				return err
			}
			result, err := runDistributed(cmd.Context(), cfg, blocks, logger)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), cfg, result)
		},
	}
	flags := cmd.Flags()
	flags.IntVarP(&opts.workers, "workers", "w", 0, "number of concurrent local steps")
	flags.StringVar(&opts.backend, "backend", "", "partial result store: memory or badger")
	flags.StringVar(&opts.badgerPath, "badger-path", "", "badger directory, empty for in-memory")
	return cmd
}

func runOnline(blocks []table.NumericTable, logger *zap.Logger) (*core.Result, error) {
	acc := core.NewAccumulator().SetLogger(logger)
	for i, block := range blocks {
		if err := acc.Ingest(block); err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
	}
	logger.Info("ingested",
		zap.Int64("blocks", acc.NBlocks()),
		zap.Uint64("observations", acc.NObservations()),
		zap.Int("features", acc.NFeatures()))
	return acc.Finalize()
}

func runStream(cfg *config.Config, blocks []table.NumericTable, logger *zap.Logger) (*core.Result, error) {
	stream := core.NewStream(cfg.BufferSize).SetLogger(logger)
	for i, block := range blocks {
		row := make([]float64, block.NumCols())
		for r := 0; r < block.NumRows(); r++ {
			for c := range row {
				row[c] = block.At(r, c)
			}
			if err := stream.Append(row); err != nil {
				return nil, fmt.Errorf("block %d row %d: %w", i, r, err)
			}
		}
	}
	result, err := stream.Finalize()
	if err != nil {
		return nil, err
	}
	logger.Info("streamed",
		zap.Int64("rows", stream.NumElements()),
		zap.Int64("blocks", stream.Accumulator().NBlocks()))
	return result, nil
}

func openBackend(cfg *config.Config, logger *zap.Logger) (storage.Backend, error) {
	switch cfg.Backend {
	case config.BackendBadger:
		db, err := storage.OpenBadger(cfg.BadgerPath, logger)
		if err != nil {
			return nil, err
		}
		return storage.NewBadgerBackend(db), nil
	default:
		return storage.NewInMemoryBackend(), nil
	}
}

func runDistributed(
	ctx context.Context,
	cfg *config.Config,
	blocks []table.NumericTable,
	logger *zap.Logger) (result *core.Result, err error) {
	backend, err := openBackend(cfg, logger)
	if err != nil {
		return nil, err
	}
	store, err := core.NewBackingStore(backend, cfg.CacheEnabled)
	if err != nil {
		return nil, multierr.Append(err, backend.Close())
	}
	defer multierr.AppendInvoke(&err, multierr.Close(store))

	master := core.NewMaster(distributedJobID, store).SetLogger(logger)
	// A persistent badger directory may hold partials of an earlier run.
	if err := master.Clear(); err != nil {
		return nil, err
	}
	result, err = core.ComputeDistributed(ctx, blocks, master, cfg.Workers)
	if err != nil {
		return nil, err
	}
	return result, master.Clear()
}

func printResult(w io.Writer, cfg *config.Config, result *core.Result) error {
	set, err := core.NewOpSet(cfg.Results)
	if err != nil {
		return err
	}
	return set.Print(w, result, cfg.PrintRows, cfg.PrintCols)
}
