package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation: %s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors collects multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator validates configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{
		errors: make(ValidationErrors, 0),
	}
}

// Validate validates the entire configuration.
func (v *Validator) Validate(cfg *Config) error {
	v.validateLog(&cfg.Log)
	v.validateTower(&cfg.Tower)
	v.validateMonitor(&cfg.Monitor)
	v.validateOutput(&cfg.Output)

	if len(v.errors) > 0 {
		return v.errors
	}
	return nil
}

// Errors returns the collected validation errors.
func (v *Validator) Errors() ValidationErrors {
	return v.errors
}

func (v *Validator) addError(field string, value interface{}, msg string) {
	v.errors = append(v.errors, ValidationError{
		Field:   field,
		Value:   value,
		Message: msg,
	})
}

func (v *Validator) validateLog(cfg *LogConfig) {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[cfg.Level] {
		v.addError("log.level", cfg.Level, "must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"auto": true, "text": true, "json": true,
	}
	if !validFormats[cfg.Format] {
		v.addError("log.format", cfg.Format, "must be one of: auto, text, json")
	}
}

func (v *Validator) validateTower(cfg *TowerConfig) {
	if strings.TrimSpace(cfg.Host) == "" {
		v.addError("tower.host", cfg.Host, "host required")
	} else if u, err := url.Parse(cfg.BaseURL()); err != nil || u.Host == "" {
		v.addError("tower.host", cfg.Host, "invalid host")
	}

	if cfg.Token != "" && (cfg.Username != "" || cfg.Password != "") {
		v.addError("tower.token", "[set]", "use either token or username/password, not both")
	}
	if (cfg.Username == "") != (cfg.Password == "") {
		v.addError("tower.username", cfg.Username, "username and password must be set together")
	}

	if d, err := time.ParseDuration(cfg.RequestTimeout); err != nil {
		v.addError("tower.request_timeout", cfg.RequestTimeout, "invalid duration format")
	} else if d <= 0 {
		v.addError("tower.request_timeout", cfg.RequestTimeout, "must be positive")
	}

	if cfg.RateLimit < 0 {
		v.addError("tower.rate_limit", cfg.RateLimit, "must be non-negative")
	}
	if cfg.PageSize < 1 || cfg.PageSize > 200 {
		v.addError("tower.page_size", cfg.PageSize, "must be between 1 and 200")
	}
	if cfg.MaxPages < 1 {
		v.addError("tower.max_pages", cfg.MaxPages, "must be positive")
	}
}

func (v *Validator) validateMonitor(cfg *MonitorConfig) {
	if d, err := time.ParseDuration(cfg.PollInterval); err != nil {
		v.addError("monitor.poll_interval", cfg.PollInterval, "invalid duration format")
	} else if d <= 0 {
		v.addError("monitor.poll_interval", cfg.PollInterval, "must be positive")
	}
}

func (v *Validator) validateOutput(cfg *OutputConfig) {
	validFormats := map[string]bool{
		"human": true, "json": true, "yaml": true,
	}
	if !validFormats[cfg.Format] {
		v.addError("output.format", cfg.Format, "must be one of: human, json, yaml")
	}
}

// ValidateConfig is a convenience function that creates a validator and validates config.
func ValidateConfig(cfg *Config) error {
	v := NewValidator()
	return v.Validate(cfg)
}
