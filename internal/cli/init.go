package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wellsgz/vigil/internal/paths"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the default configuration file",
	Long: `Creates the configuration directory and writes a starter config with
one example target. Does nothing if a config file already exists.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	p, err := paths.DefaultPaths()
	if err != nil {
		return err
	}

	if err := p.EnsureDirectories(); err != nil {
		return err
	}

	created, err := p.CreateDefaultConfig()
	if err != nil {
		return err
	}
	if !created {
		fmt.Printf("Config already exists at %s\n", p.ConfigFile)
		return nil
	}

	fmt.Printf("Created config at %s\n", p.ConfigFile)
	fmt.Println("Edit it to add your targets, then run 'vigil check' or 'vigil serve'.")
	return nil
}
