package printer

import (
	"fmt"
)

// OutputFormat specifies the output format for printing results.
type OutputFormat string

const (
	// Table specifies human-readable table output.
	Table OutputFormat = "table"
	// JSON specifies JSON output.
	JSON OutputFormat = "json"
	// YAML specifies YAML output.
	YAML OutputFormat = "yaml"
)

func (f *OutputFormat) String() string {
	return string(*f)
}

// Set implements the pflag.Value interface for OutputFormat.
func (f *OutputFormat) Set(v string) error {
	switch v {
	case string(Table), string(JSON), string(YAML):
		*f = OutputFormat(v)

		return nil
	default:
		return fmt.Errorf("invalid format: %s (must be '%s', '%s', or '%s')", v, Table, JSON, YAML)
	}
}

// Type returns the type name for the flag value.
func (f *OutputFormat) Type() string {
	return "OutputFormat"
}

// Validate checks if the output format is valid.
func (f OutputFormat) Validate() error {
	switch f {
	case Table, JSON, YAML:
		return nil
	default:
		return fmt.Errorf("invalid output format: %s (must be one of: table, json, yaml)", f)
	}
}
