package service

import (
	"fmt"
	"strings"

	"github.com/google/shlex"
	"gopkg.in/yaml.v3"

	"github.com/hugo-lorenzo-mato/flowctl/internal/core"
	"github.com/hugo-lorenzo-mato/flowctl/internal/fsutil"
)

// maxExtraVarsFile bounds the size of an @file source.
const maxExtraVarsFile = 1 << 20

// MergeExtraVars parses each source and merges them left to right into a
// single map; keys in later sources replace earlier ones. A source is one of:
//
//   - "@path": the file at path, parsed as below
//   - a YAML or JSON mapping
//   - key=value tokens split with shell quoting, values decoded as YAML scalars
//
// Blank sources contribute nothing.
func MergeExtraVars(sources []string) (map[string]any, error) {
	merged := make(map[string]any)
	for i, src := range sources {
		vars, err := parseExtraVars(src)
		if err != nil {
			return nil, core.ErrValidation(core.CodeInvalidExtraVars,
				fmt.Sprintf("extra vars source %d: %v", i+1, err)).WithCause(err)
		}
		for k, v := range vars {
			merged[k] = v
		}
	}
	return merged, nil
}

func parseExtraVars(src string) (map[string]any, error) {
	src = strings.TrimSpace(src)
	if strings.HasPrefix(src, "@") {
		path := strings.TrimPrefix(src, "@")
		data, err := fsutil.ReadFileLimited(path, maxExtraVarsFile)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		src = strings.TrimSpace(string(data))
	}
	if src == "" {
		return nil, nil
	}

	if tokens, ok := keyValueTokens(src); ok {
		return parseKeyValue(tokens), nil
	}

	var doc any
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		return nil, fmt.Errorf("parsing YAML/JSON: %w", err)
	}
	switch v := doc.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return v, nil
	default:
		return nil, fmt.Errorf("expected a mapping, got %T", doc)
	}
}

// keyValueTokens splits src with shell quoting rules and reports whether
// every token is key=value with a non-empty key that is not itself YAML or
// JSON syntax. Quotes are removed, so msg="hello world" yields one token.
func keyValueTokens(src string) ([]string, bool) {
	if strings.HasPrefix(src, "{") || strings.HasPrefix(src, "---") {
		return nil, false
	}
	tokens, err := shlex.Split(src)
	if err != nil || len(tokens) == 0 {
		return nil, false
	}
	for _, tok := range tokens {
		key, _, ok := strings.Cut(tok, "=")
		if !ok || key == "" || strings.ContainsAny(key, ":{}[]\"' \t\n") {
			return nil, false
		}
	}
	return tokens, true
}

func parseKeyValue(tokens []string) map[string]any {
	out := make(map[string]any, len(tokens))
	for _, tok := range tokens {
		key, raw, _ := strings.Cut(tok, "=")
		var value any
		if raw != "" {
			if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
				value = raw
			}
		}
		switch value.(type) {
		case map[string]any, []any, nil:
			value = raw
		}
		out[key] = value
	}
	return out
}
