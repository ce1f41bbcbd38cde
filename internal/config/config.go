package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Tower   TowerConfig   `mapstructure:"tower"`
	Monitor MonitorConfig `mapstructure:"monitor"`
	Output  OutputConfig  `mapstructure:"output"`
}

// LogConfig configures logging behavior.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TowerConfig configures access to the orchestration API.
type TowerConfig struct {
	Host           string  `mapstructure:"host"`
	Token          string  `mapstructure:"token"`
	Username       string  `mapstructure:"username"`
	Password       string  `mapstructure:"password"`
	VerifySSL      bool    `mapstructure:"verify_ssl"`
	RequestTimeout string  `mapstructure:"request_timeout"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	PageSize       int     `mapstructure:"page_size"`
	MaxPages       int     `mapstructure:"max_pages"`
}

// MonitorConfig configures how launched jobs are watched.
type MonitorConfig struct {
	PollInterval string `mapstructure:"poll_interval"`
}

// OutputConfig configures command result rendering.
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// BaseURL returns the API root for the configured host, e.g.
// "https://tower.example.com/api/v2/". A host without a scheme is
// assumed to be https.
func (c TowerConfig) BaseURL() string {
	host := strings.TrimRight(strings.TrimSpace(c.Host), "/")
	if host == "" {
		return ""
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "https://" + host
	}
	return host + "/api/v2/"
}

// Timeout parses RequestTimeout.
func (c TowerConfig) Timeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil {
		return 0, fmt.Errorf("parsing tower.request_timeout %q: %w", c.RequestTimeout, err)
	}
	return d, nil
}

// Interval parses PollInterval.
func (c MonitorConfig) Interval() (time.Duration, error) {
	d, err := time.ParseDuration(c.PollInterval)
	if err != nil {
		return 0, fmt.Errorf("parsing monitor.poll_interval %q: %w", c.PollInterval, err)
	}
	return d, nil
}
