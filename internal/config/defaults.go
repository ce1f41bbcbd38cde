package config

import (
	"errors"
	"fmt"
	"os"
)

// DefaultConfigFile is the project config file name searched in the working directory.
const DefaultConfigFile = ".flowctl.yaml"

// DefaultConfigYAML contains the configuration written by `flowctl init`.
const DefaultConfigYAML = `# flowctl configuration
# Every key can be overridden with an environment variable, e.g.
# FLOWCTL_TOWER_HOST or FLOWCTL_TOWER_TOKEN.

tower:
  host: ""
  # Use either an OAuth2 token or username/password.
  token: ""
  username: ""
  password: ""
  verify_ssl: true
  request_timeout: 30s
  # Requests per second; 0 disables client-side limiting.
  rate_limit: 0
  page_size: 200
  # Upper bound on pages fetched for a single listing.
  max_pages: 500

monitor:
  poll_interval: 2s

output:
  # human | json | yaml
  format: human

log:
  level: info
  format: auto
`

// ErrConfigExists is returned by WriteDefault when the target exists and force is false.
var ErrConfigExists = errors.New("configuration already exists, use --force to overwrite")

// WriteDefault atomically writes DefaultConfigYAML to path.
// The file holds credentials, so it is created owner-readable only.
func WriteDefault(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return ErrConfigExists
	}
	if err := atomicWriteFile(path, []byte(DefaultConfigYAML), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
