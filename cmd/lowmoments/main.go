// Command lowmoments computes low order moments of CSV datasets, either
// online block by block or as a distributed computation over local steps.
package main

import (
	"momentsdb/config"
	"momentsdb/table"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type options struct {
	configPath string
	dataDir    string
	format     string
	workers    int
	backend    string
	badgerPath string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "lowmoments",
		Short:         "Low order moments of dense or CSR datasets",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file")
	flags.StringVar(&opts.dataDir, "data-dir", "", "directory the datasets are relative to")
	flags.StringVar(&opts.format, "format", "", "input format: dense or csr")

	root.AddCommand(newOnlineCmd(opts), newDistributedCmd(opts))
	return root
}

// loadConfig reads the config file and applies flags and positional
// dataset arguments over it.
func loadConfig(cmd *cobra.Command, opts *options, args []string) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.DataDir = opts.dataDir
	}
	if flags.Changed("format") {
		cfg.Format = opts.format
	}
	if flags.Changed("workers") {
		cfg.Workers = opts.workers
	}
	if flags.Changed("backend") {
		cfg.Backend = opts.backend
	}
	if flags.Changed("badger-path") {
		cfg.BadgerPath = opts.badgerPath
	}
	if len(args) > 0 {
		cfg.Datasets = args
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	zapConfig := zap.NewDevelopmentConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	zapConfig.DisableStacktrace = true
	return zapConfig.Build()
}

// loadBlocks reads every dataset. All files are attempted so that one run
// reports every unreadable file.
func loadBlocks(cfg *config.Config, logger *zap.Logger) ([]table.NumericTable, error) {
	format, err := table.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	var errs error
	blocks := make([]table.NumericTable, 0, len(cfg.Datasets))
	for _, path := range cfg.DatasetPaths() {
		block, err := table.LoadFile(path, format, cfg.Features)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		logger.Debug("loaded block",
			zap.String("path", path),
			zap.Int("rows", block.NumRows()),
			zap.Int("cols", block.NumCols()))
		blocks = append(blocks, block)
	}
	if errs != nil {
		return nil, errs
	}
	return blocks, nil
}
