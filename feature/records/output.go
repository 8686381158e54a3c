package records

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

const (
	// FormatJSON writes indented JSON.
	FormatJSON = "json"
	// FormatYAML writes YAML.
	FormatYAML = "yaml"
)

// Write encodes rows to w in format.
func Write(w io.Writer, rows []Row, format string) error {
	if rows == nil {
		rows = []Row{}
	}
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	case FormatYAML:
		b, err := yaml.Marshal(rows)
		if err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		_, err = w.Write(b)
		return err
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
