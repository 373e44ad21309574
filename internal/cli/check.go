package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/wellsgz/vigil/internal/report"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run one measurement cycle and print the results",
	Long: `Probes every configured target once, appends the measurements to the
result logs, rewrites the summary document and prints the per-target
statistics to stdout.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
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

	reports := coll.RunCycle(context.Background())
	report.Render(os.Stdout, reports)

	// A structural failure on any target makes the run non-zero. Probe
	// failures do not: a down endpoint is a recorded result, not a crash.
	for _, r := range reports {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}
