package cli

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wellsgz/vigil/internal/api"
	"github.com/wellsgz/vigil/internal/tui"
)

var (
	flagAddress string
	flagNoTUI   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Monitor continuously with the HTTP API and dashboard",
	Long: `Runs measurement cycles at the configured interval while serving the
REST API and WebSocket stream, with a terminal dashboard attached unless
disabled. Without the dashboard, serve blocks until interrupted.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&flagAddress, "address", "a", "", "API listen address (overrides config)")
	serveCmd.Flags().BoolVar(&flagNoTUI, "no-tui", false, "disable the terminal dashboard")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	coll, store, err := buildCollector(cfg, logger)
	if err != nil {
		return err
	}

	address := cfg.Server.Address
	if flagAddress != "" {
		address = flagAddress
	}

	server := api.NewServer(cfg, logger)
	server.Handler().SetStore(store)
	server.Hub().SetSource(coll)
	server.StartAsync(address)

	coll.Start()

	if cfg.Server.EnableTUI && !flagNoTUI {
		// The dashboard owns the terminal; quitting it shuts everything down.
		if err := tui.Run(coll, address); err != nil {
			logger.Error("dashboard error", zap.Error(err))
		}
	} else {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		s := <-sig
		logger.Info("received signal, shutting down", zap.String("signal", s.String()))
	}

	coll.Stop()
	if err := server.Shutdown(5 * time.Second); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	return nil
}
