package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/flowctl/internal/core"
	"github.com/hugo-lorenzo-mato/flowctl/internal/service"
)

var launchCmd = &cobra.Command{
	Use:   "launch",
	Short: "Launch a workflow job template",
	Long: `Launch a workflow job from a workflow job template.

Extra variables may be given several times; later values win:
  --extra-vars 'region=eu replicas=2'
  --extra-vars '{"region": "us"}'
  --extra-vars @vars.yml

With --monitor the command waits for the job, printing scorecard lines
as child jobs finish. It exits 2 when the job fails and 3 when --timeout
elapses first.`,
	Args: cobra.NoArgs,
	RunE: runLaunch,
}

var (
	launchMonitor bool
	launchTimeout int
)

// launchInputFields are the workflow job fields a launch takes as input.
var launchInputFields = workflowJobFields("workflow-job-template", "extra-vars")

func workflowJobFields(names ...string) []core.Field {
	fields := make([]core.Field, 0, len(names))
	for _, name := range names {
		f, ok := core.WorkflowJobResource.Field(name)
		if !ok {
			panic("unknown workflow job field " + name)
		}
		fields = append(fields, f)
	}
	return fields
}

func init() {
	rootCmd.AddCommand(launchCmd)

	addFieldFlags(launchCmd.Flags(), launchInputFields)
	launchCmd.Flags().BoolVar(&launchMonitor, "monitor", false, "wait for the job to finish")
	launchCmd.Flags().IntVar(&launchTimeout, "timeout", 0, "seconds to wait with --monitor (0: no limit)")

	addFieldFlags(launchCmd.Flags(), core.LaunchOverrideFields)
}

func runLaunch(cmd *cobra.Command, _ []string) error {
	d, err := loadDeps(cmd)
	if err != nil {
		return err
	}

	fields, err := changedFields(cmd.Flags(), core.LaunchOverrideFields)
	if err != nil {
		return err
	}
	templateID, err := cmd.Flags().GetInt("workflow-job-template")
	if err != nil {
		return err
	}
	extraVars, err := cmd.Flags().GetStringArray("extra-vars")
	if err != nil {
		return err
	}

	var monitor core.JobMonitor
	if launchMonitor {
		m, err := d.newMonitor(cmd)
		if err != nil {
			return err
		}
		monitor = m
	}

	launcher := service.NewLauncher(d.client, monitor, d.logger)
	result, err := launcher.Launch(cmd.Context(), service.LaunchRequest{
		TemplateID: templateID,
		ExtraVars:  extraVars,
		Fields:     fields,
		Monitor:    launchMonitor,
		Timeout:    secondsFlag(launchTimeout),
	})
	if err != nil {
		return err
	}

	if err := writeJobResult(cmd.OutOrStdout(), d.cfg.Output.Format, result); err != nil {
		return err
	}
	return resultError(result)
}

// writeJobResult prints a launch or monitor result.
func writeJobResult(w io.Writer, format string, result *core.JobResult) error {
	return writeResult(w, format, result, func(w io.Writer) error {
		var err error
		switch result.Outcome {
		case core.OutcomeLaunched:
			_, err = fmt.Fprintf(w, "Launched workflow job %d (%s)\n", result.ID, statusText(result.Status))
		case core.OutcomeTimeout:
			_, err = fmt.Fprintf(w, "Workflow job %d still %s after %v\n",
				result.ID, statusText(result.Status), result.Waited.Round(time.Second))
		default:
			_, err = fmt.Fprintf(w, "Workflow job %d finished: %s\n",
				result.ID, strings.ToUpper(string(result.Status)))
		}
		return err
	})
}

func statusText(s core.JobStatus) string {
	if s == "" {
		return "unknown"
	}
	return string(s)
}
