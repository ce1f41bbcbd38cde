package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hugo-lorenzo-mato/flowctl/internal/core"
)

// addFieldFlags registers one flag per field, typed by the field kind.
// Multiple fields become repeatable string flags and Required fields are
// marked required for cobra.
func addFieldFlags(fs *pflag.FlagSet, fields []core.Field) {
	for _, f := range fields {
		switch {
		case f.Multiple:
			fs.StringArrayP(f.Name, f.Short, nil, f.Help)
		case f.Kind == core.FieldInt:
			fs.IntP(f.Name, f.Short, 0, f.Help)
		case f.Kind == core.FieldBool:
			fs.BoolP(f.Name, f.Short, false, f.Help)
		default:
			fs.StringP(f.Name, f.Short, "", f.Help)
		}
		if f.Required {
			_ = cobra.MarkFlagRequired(fs, f.Name)
		}
	}
}

// changedFields returns the values of flags given on the command line keyed
// by wire name. Fields left unset are present with a nil value so callers
// can tell them apart from explicit zero values.
func changedFields(fs *pflag.FlagSet, fields []core.Field) (map[string]any, error) {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		if !fs.Changed(f.Name) {
			out[f.Key] = nil
			continue
		}

		var (
			v   any
			err error
		)
		switch {
		case f.Multiple:
			v, err = fs.GetStringArray(f.Name)
		case f.Kind == core.FieldInt:
			v, err = fs.GetInt(f.Name)
		case f.Kind == core.FieldBool:
			v, err = fs.GetBool(f.Name)
		default:
			v, err = fs.GetString(f.Name)
		}
		if err != nil {
			return nil, fmt.Errorf("reading --%s: %w", f.Name, err)
		}
		out[f.Key] = v
	}
	return out, nil
}
