// Package cli wires the vigil commands: one-shot checks, the headless loop
// and the full server with API and dashboard.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wellsgz/vigil/internal/collector"
	"github.com/wellsgz/vigil/internal/config"
	"github.com/wellsgz/vigil/internal/logging"
	"github.com/wellsgz/vigil/internal/paths"
	"github.com/wellsgz/vigil/internal/publish"
	"github.com/wellsgz/vigil/internal/report"
	"github.com/wellsgz/vigil/internal/storage"
)

var (
	flagConfig    string
	flagLogFormat string
	flagLogFile   string
)

var rootCmd = &cobra.Command{
	Use:   "vigil",
	Short: "HTTP endpoint availability monitor",
	Long: `vigil periodically probes HTTP endpoints (such as the EU VIES
VAT-validation API), records every measurement in an append-only JSON log
and derives lifetime and recent-window statistics from it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "path to config file (default: ~/.vigil/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "log format: text or json (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "also write JSON logs to this rotating file (overrides config)")
}

// loadConfig resolves the config path (flag or default location) and loads it.
func loadConfig() (*config.Config, error) {
	path := flagConfig
	if path == "" {
		p, err := paths.DefaultPaths()
		if err != nil {
			return nil, err
		}
		if !p.ConfigExists() {
			return nil, fmt.Errorf("no config file at %s (run 'vigil init' to create one, or pass --config)", p.ConfigFile)
		}
		path = p.ConfigFile
	}

	return config.Load(path)
}

// newLogger builds the logger from config with flag overrides.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	format := cfg.Logging.Format
	if flagLogFormat != "" {
		format = flagLogFormat
	}
	file := cfg.Logging.File
	if flagLogFile != "" {
		file = flagLogFile
	}
	return logging.New(format, file)
}

// buildCollector assembles the store, collector and optional publisher.
func buildCollector(cfg *config.Config, logger *zap.Logger) (*collector.Collector, *storage.FileStore, error) {
	store, err := storage.NewFileStore(cfg.Global.DataDir)
	if err != nil {
		return nil, nil, err
	}

	coll := collector.New(cfg, store, logger)

	if cfg.Publish.Enabled {
		summaryPath := filepath.Join(store.DataDir(), report.SummaryFilename)
		coll.SetPublisher(publish.NewGitPublisher(cfg.Publish, summaryPath, logger))
	}

	return coll, store, nil
}
