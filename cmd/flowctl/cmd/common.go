package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hugo-lorenzo-mato/flowctl/internal/adapters/tower"
	"github.com/hugo-lorenzo-mato/flowctl/internal/config"
	"github.com/hugo-lorenzo-mato/flowctl/internal/core"
	"github.com/hugo-lorenzo-mato/flowctl/internal/logging"
	"github.com/hugo-lorenzo-mato/flowctl/internal/service"
)

// deps holds what every API command needs.
type deps struct {
	cfg    *config.Config
	logger *logging.Logger
	client *tower.Client
}

// loadDeps loads and validates configuration, then builds the logger and
// API client from it.
func loadDeps(cmd *cobra.Command) (*deps, error) {
	v := viper.New()
	if err := bindFlags(v, cmd.Root().PersistentFlags()); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}

	loader := config.NewLoaderWithViper(v)
	if cfgFile != "" {
		loader.WithConfigFile(cfgFile)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, core.ErrValidation(core.CodeInvalidConfig, "loading config").WithCause(err)
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, core.ErrValidation(core.CodeInvalidConfig, "validating config").WithCause(err)
	}

	logger := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
	if used := loader.ConfigFile(); used != "" {
		logger.Debug("loaded config", "path", used)
	}

	client, err := newClient(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &deps{cfg: cfg, logger: logger, client: client}, nil
}

func newClient(cfg *config.Config, logger *logging.Logger) (*tower.Client, error) {
	timeout, err := cfg.Tower.Timeout()
	if err != nil {
		return nil, core.ErrValidation(core.CodeInvalidConfig, "invalid request timeout").WithCause(err)
	}

	opts := []tower.Option{
		tower.WithLogger(logger),
		tower.WithTimeout(timeout),
		tower.WithRateLimit(cfg.Tower.RateLimit),
		tower.WithPaging(cfg.Tower.PageSize, cfg.Tower.MaxPages),
	}
	// Transport changes must precede WithToken, which wraps the transport.
	if !cfg.Tower.VerifySSL {
		opts = append(opts, tower.WithInsecureSkipVerify())
	}
	switch {
	case cfg.Tower.Token != "":
		opts = append(opts, tower.WithToken(cfg.Tower.Token))
	case cfg.Tower.Username != "":
		opts = append(opts, tower.WithBasicAuth(cfg.Tower.Username, cfg.Tower.Password))
	}

	return tower.NewClient(cfg.Tower.BaseURL(), opts...)
}

// newMonitor builds a monitor that streams scorecard lines to the command's
// stdout when output is human readable.
func (d *deps) newMonitor(cmd *cobra.Command) (*service.Monitor, error) {
	interval, err := d.cfg.Monitor.Interval()
	if err != nil {
		return nil, core.ErrValidation(core.CodeInvalidConfig, "invalid poll interval").WithCause(err)
	}

	m := service.NewMonitor(d.client, d.logger).WithPollInterval(interval)
	if d.cfg.Output.Format == formatHuman {
		m.WithOutput(cmd.OutOrStdout(), service.NewScorecardBuilder(d.client, d.logger))
	}
	return m, nil
}

// parseJobID parses a positional workflow job id.
func parseJobID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, core.ErrValidation(core.CodeInvalidJobID,
			fmt.Sprintf("invalid workflow job id %q", arg))
	}
	return id, nil
}

// secondsFlag converts a --timeout value in seconds to a duration.
func secondsFlag(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}
