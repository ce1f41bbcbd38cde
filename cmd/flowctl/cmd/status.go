package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/flowctl/internal/core"
)

var statusCmd = &cobra.Command{
	Use:   "status <workflow_job_id>",
	Short: "Show a workflow job",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	id, err := parseJobID(args[0])
	if err != nil {
		return err
	}

	d, err := loadDeps(cmd)
	if err != nil {
		return err
	}

	var job map[string]any
	path := fmt.Sprintf("%s%d/", core.WorkflowJobResource.Endpoint, id)
	if err := d.client.Get(cmd.Context(), path, &job); err != nil {
		return err
	}

	return writeResult(cmd.OutOrStdout(), d.cfg.Output.Format, job, func(w io.Writer) error {
		return writeTable(w, core.WorkflowJobResource.DisplayFields(), job)
	})
}

// writeTable prints the display fields of record as a two-line table.
func writeTable(w io.Writer, fields []core.Field, record map[string]any) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	headers := make([]string, len(fields))
	values := make([]string, len(fields))
	for i, f := range fields {
		headers[i] = strings.ToUpper(f.Name)
		if v, ok := record[f.Key]; ok && v != nil {
			values[i] = fmt.Sprint(v)
		}
	}

	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	fmt.Fprintln(tw, strings.Join(values, "\t"))
	return tw.Flush()
}
