package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/flowctl/internal/config"
	"github.com/hugo-lorenzo-mato/flowctl/internal/core"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default configuration file",
	Long: `Write a default .flowctl.yaml in the current directory.
Edit tower.host and credentials before running other commands.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var (
	initForce bool
	initPath  string
)

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing configuration")
	initCmd.Flags().StringVar(&initPath, "path", config.DefaultConfigFile, "where to write the configuration")
}

func runInit(cmd *cobra.Command, _ []string) error {
	if err := config.WriteDefault(initPath, initForce); err != nil {
		if errors.Is(err, config.ErrConfigExists) {
			return core.ErrValidation(core.CodeInvalidConfig, fmt.Sprintf("%s: %v", initPath, err))
		}
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Configuration file:", initPath)
	fmt.Fprintln(out, "Set tower.host and credentials, then run 'flowctl status <id>' to verify access")
	return nil
}
