package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	cfgFile      string
	logLevel     string
	logFormat    string
	outputFormat string
	towerHost    string

	// Version info - set via SetVersion()
	appVersion string
	appCommit  string
	appDate    string
)

var rootCmd = &cobra.Command{
	Use:   "flowctl",
	Short: "Launch, monitor, and report on AWX/Tower workflow jobs",
	Long: `flowctl drives workflow jobs on an AWX or Ansible Tower compatible API.
It launches workflow job templates, waits for the resulting jobs with an
optional timeout, and prints a scorecard of the child jobs each run spawned.

Connection settings come from .flowctl.yaml, ~/.config/flowctl/config.yaml,
or FLOWCTL_* environment variables. Run 'flowctl init' to create a config.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func SetVersion(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

// GetVersion returns the application version string.
func GetVersion() string {
	return appVersion
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: .flowctl.yaml, then ~/.config/flowctl/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "auto",
		"log format (auto, text, json)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "human",
		"output format (human, json, yaml)")
	rootCmd.PersistentFlags().StringVar(&towerHost, "host", "",
		"AWX/Tower host, e.g. https://tower.example.com")
}

// persistentBindings maps config keys to root flags.
var persistentBindings = map[string]string{
	"log.level":     "log-level",
	"log.format":    "log-format",
	"output.format": "format",
	"tower.host":    "host",
}

// bindFlags binds the root persistent flags to v. Explicitly set flags
// take precedence over environment and config files.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for key, name := range persistentBindings {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return err
		}
	}
	return nil
}
