package cmd

import (
	"github.com/spf13/cobra"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor <workflow_job_id>",
	Short: "Wait for a workflow job to finish",
	Long: `Poll a workflow job until it reaches a terminal status, printing
scorecard lines as its child jobs finish.

Exits 2 when the job fails and 3 when --timeout elapses first.`,
	Args: cobra.ExactArgs(1),
	RunE: runMonitor,
}

var monitorTimeout int

func init() {
	rootCmd.AddCommand(monitorCmd)
	monitorCmd.Flags().IntVar(&monitorTimeout, "timeout", 0, "seconds to wait (0: no limit)")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	id, err := parseJobID(args[0])
	if err != nil {
		return err
	}

	d, err := loadDeps(cmd)
	if err != nil {
		return err
	}

	m, err := d.newMonitor(cmd)
	if err != nil {
		return err
	}

	result, err := m.Monitor(cmd.Context(), id, secondsFlag(monitorTimeout))
	if err != nil {
		return err
	}

	if err := writeJobResult(cmd.OutOrStdout(), d.cfg.Output.Format, result); err != nil {
		return err
	}
	return resultError(result)
}
