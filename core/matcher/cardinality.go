package matcher

import (
	"fmt"
	"strings"
)

// Cardinality selects the shape of the association produced by a match.
type Cardinality int

const (
	// OneToOne associates each element with at most one datum.
	OneToOne Cardinality = iota
	// OneToMany associates each element with the list of data sharing its key.
	OneToMany
	// ManyToMany associates each element with the concatenated lists of all its keys.
	ManyToMany
)

// String returns the kebab-case name of the cardinality.
func (c Cardinality) String() string {
	switch c {
	case OneToOne:
		return "one-to-one"
	case OneToMany:
		return "one-to-many"
	case ManyToMany:
		return "many-to-many"
	default:
		return fmt.Sprintf("cardinality(%d)", int(c))
	}
}

// ParseCardinality parses the names produced by Cardinality.String.
// Underscores are accepted in place of dashes.
func ParseCardinality(s string) (Cardinality, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-") {
	case "one-to-one", "1:1":
		return OneToOne, nil
	case "one-to-many", "1:n":
		return OneToMany, nil
	case "many-to-many", "n:m":
		return ManyToMany, nil
	default:
		return OneToOne, fmt.Errorf("unknown cardinality %q", s)
	}
}

// Aggregation controls how pending identifiers are collected before querying.
type Aggregation int

const (
	aggregateUnset Aggregation = iota
	// AggregateList keeps every identifier in encounter order, duplicates included.
	AggregateList
	// AggregateSet keeps the first occurrence of every identifier.
	AggregateSet
)

func (a Aggregation) String() string {
	switch a {
	case AggregateList:
		return "list"
	case AggregateSet:
		return "set"
	default:
		return "unset"
	}
}

// aggregate applies a to ids. The input slice is not modified.
func aggregate[I comparable](a Aggregation, ids []I) []I {
	if a != AggregateSet {
		return ids
	}
	seen := make(map[I]struct{}, len(ids))
	out := make([]I, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
