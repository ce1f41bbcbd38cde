package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Log: LogConfig{Level: "info", Format: "auto"},
		Tower: TowerConfig{
			Host:           "tower.example.com",
			Token:          "token",
			VerifySSL:      true,
			RequestTimeout: "30s",
			PageSize:       200,
			MaxPages:       500,
		},
		Monitor: MonitorConfig{PollInterval: "2s"},
		Output:  OutputConfig{Format: "human"},
	}
}

func TestValidateConfig_Valid(t *testing.T) {
	assert.NoError(t, ValidateConfig(validConfig()))
}

func TestValidateConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"missing host", func(c *Config) { c.Tower.Host = " " }, "tower.host"},
		{"token and password", func(c *Config) {
			c.Tower.Username = "admin"
			c.Tower.Password = "pw"
		}, "tower.token"},
		{"username without password", func(c *Config) {
			c.Tower.Token = ""
			c.Tower.Username = "admin"
		}, "tower.username"},
		{"bad timeout", func(c *Config) { c.Tower.RequestTimeout = "soon" }, "tower.request_timeout"},
		{"zero timeout", func(c *Config) { c.Tower.RequestTimeout = "0s" }, "tower.request_timeout"},
		{"negative rate", func(c *Config) { c.Tower.RateLimit = -1 }, "tower.rate_limit"},
		{"page size too big", func(c *Config) { c.Tower.PageSize = 500 }, "tower.page_size"},
		{"zero max pages", func(c *Config) { c.Tower.MaxPages = 0 }, "tower.max_pages"},
		{"bad poll interval", func(c *Config) { c.Monitor.PollInterval = "often" }, "monitor.poll_interval"},
		{"bad output format", func(c *Config) { c.Output.Format = "table" }, "output.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := ValidateConfig(cfg)
			require.Error(t, err)

			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))
			fields := make([]string, 0, len(verrs))
			for _, e := range verrs {
				fields = append(fields, e.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "a", Value: 1, Message: "bad"},
		{Field: "b", Value: "x", Message: "worse"},
	}
	assert.True(t, errs.HasErrors())
	assert.Equal(t,
		"config validation: a: bad (got: 1); config validation: b: worse (got: x)",
		errs.Error())
}

func TestTowerConfig_BaseURL(t *testing.T) {
	tests := map[string]string{
		"tower.example.com":         "https://tower.example.com/api/v2/",
		"https://tower.example.com/": "https://tower.example.com/api/v2/",
		"http://localhost:8052":     "http://localhost:8052/api/v2/",
		"":                          "",
	}
	for host, want := range tests {
		assert.Equal(t, want, TowerConfig{Host: host}.BaseURL(), host)
	}
}

func TestDurations(t *testing.T) {
	d, err := TowerConfig{RequestTimeout: "45s"}.Timeout()
	require.NoError(t, err)
	assert.Equal(t, "45s", d.String())

	_, err = MonitorConfig{PollInterval: "nope"}.Interval()
	assert.Error(t, err)
}
