package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/flowctl/internal/service"
)

var scorecardCmd = &cobra.Command{
	Use:   "scorecard <workflow_job_id>",
	Short: "Summarize the finished child jobs of a workflow job",
	Long: `Print one line per finished child job of a workflow job, in finish order:

  <name> <STATUS> at <finished> in <elapsed> seconds

--start-line and --end-line select the half-open range [start, end) of
lines; out-of-range values are clamped.`,
	Args: cobra.ExactArgs(1),
	RunE: runScorecard,
}

var (
	scorecardStart int
	scorecardEnd   int
)

func init() {
	rootCmd.AddCommand(scorecardCmd)
	scorecardCmd.Flags().IntVar(&scorecardStart, "start-line", 0, "first line to print (0-based)")
	scorecardCmd.Flags().IntVar(&scorecardEnd, "end-line", 0, "line to stop before (default: last line)")
}

type scorecardResult struct {
	ID        int    `json:"id"`
	Changed   bool   `json:"changed"`
	Scorecard string `json:"scorecard"`
}

func runScorecard(cmd *cobra.Command, args []string) error {
	id, err := parseJobID(args[0])
	if err != nil {
		return err
	}

	d, err := loadDeps(cmd)
	if err != nil {
		return err
	}

	var start, end *int
	if cmd.Flags().Changed("start-line") {
		start = &scorecardStart
	}
	if cmd.Flags().Changed("end-line") {
		end = &scorecardEnd
	}

	builder := service.NewScorecardBuilder(d.client, d.logger)
	text, err := builder.Build(cmd.Context(), id, start, end)
	if err != nil {
		return err
	}

	result := scorecardResult{ID: id, Changed: false, Scorecard: text}
	return writeResult(cmd.OutOrStdout(), d.cfg.Output.Format, result, func(w io.Writer) error {
		_, err := fmt.Fprint(w, text)
		return err
	})
}
