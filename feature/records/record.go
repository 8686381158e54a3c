package records

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Row is one decoded record.
type Row = map[string]any

// Record wraps an element row. Results are keyed by record identity.
type Record struct {
	Fields Row
}

// LoadRows decodes a YAML or JSON file holding a list of rows.
func LoadRows(path string) ([]Row, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var rows []Row
	if err := yaml.Unmarshal(b, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return rows, nil
}

// Load decodes a record file into element records.
func Load(path string) ([]*Record, error) {
	rows, err := LoadRows(path)
	if err != nil {
		return nil, err
	}
	out := make([]*Record, 0, len(rows))
	for _, r := range rows {
		if r == nil {
			r = Row{}
		}
		out = append(out, &Record{Fields: r})
	}
	return out, nil
}
