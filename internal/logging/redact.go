package logging

import (
	"log/slog"
	"regexp"
	"strings"
)

const redacted = "[REDACTED]"

// secretKeys are attribute keys whose values are never logged.
var secretKeys = map[string]bool{
	"token":         true,
	"password":      true,
	"authorization": true,
	"api_key":       true,
	"secret":        true,
}

type valueRule struct {
	re   *regexp.Regexp
	repl string
}

// valueRules catch credentials inside otherwise loggable strings: the
// Authorization headers the tower client sends, credentials embedded in a
// host URL, and token-like query parameters.
var valueRules = []valueRule{
	{regexp.MustCompile(`\b(Bearer|Basic)\s+[A-Za-z0-9._~+/=-]{8,}`), "$1 " + redacted},
	{regexp.MustCompile(`(://[^/\s:@]+:)[^/\s@]+@`), "${1}" + redacted + "@"},
	{regexp.MustCompile(`(?i)([?&](?:access_token|token|password)=)[^&\s]+`), "${1}" + redacted},
}

// RedactString masks credentials found in s.
func RedactString(s string) string {
	for _, r := range valueRules {
		s = r.re.ReplaceAllString(s, r.repl)
	}
	return s
}

// redactAttr has the slog.HandlerOptions.ReplaceAttr signature. Values of
// secret keys are replaced outright; other strings and errors are scanned.
func redactAttr(_ []string, a slog.Attr) slog.Attr {
	if secretKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, redacted)
	}
	switch a.Value.Kind() {
	case slog.KindString:
		return slog.String(a.Key, RedactString(a.Value.String()))
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok {
			return slog.String(a.Key, RedactString(err.Error()))
		}
	}
	return a
}
