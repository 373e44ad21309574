package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Monitor continuously without the API or dashboard",
	Long: `Runs measurement cycles at the configured interval until interrupted.
Suitable for cron-adjacent or containerized deployments where the HTTP
API and dashboard are not wanted.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	coll, _, err := buildCollector(cfg, logger)
	if err != nil {
		return err
	}

	coll.Start()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	s := <-sig
	logger.Info("received signal, shutting down", zap.String("signal", s.String()))

	coll.Stop()
	return nil
}
