package utils

import (
	"fmt"
	"strconv"
)

// ToKey converts a decoded field value to its comparable string form.
// Integral floats drop their fraction so that 10, uint64(10) and 10.0 agree.
func ToKey(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToKeys converts a list field to keys, skipping nil entries.
// A scalar yields a single key.
func ToKeys(val any) []string {
	switch v := val.(type) {
	case nil:
		return nil
	case []any:
		keys := make([]string, 0, len(v))
		for _, e := range v {
			if e != nil {
				keys = append(keys, ToKey(e))
			}
		}
		return keys
	case []string:
		return v
	default:
		return []string{ToKey(v)}
	}
}
