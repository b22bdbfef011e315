package metriclist

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rileyhilliard/mdash/internal/metric"
)

// Column is a sortable column of the metric table.
type Column string

const (
	ColumnState Column = "state"
	ColumnName  Column = "name"
	ColumnEvent Column = "event"
	ColumnValue Column = "value"
)

// Columns lists the sortable columns in table order.
var Columns = []Column{ColumnState, ColumnName, ColumnEvent, ColumnValue}

// ParseColumn converts a config or flag value to a Column.
func ParseColumn(s string) (Column, error) {
	c := Column(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Columns {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown sort column %q (want one of state, name, event, value)", s)
}

// SortSpec is the active sort column and direction.
type SortSpec struct {
	Column     Column
	Descending bool
}

// DefaultSort orders by name, ascending.
func DefaultSort() SortSpec {
	return SortSpec{Column: ColumnName}
}

// Toggle returns the spec after the user picks column c: picking the active
// column flips the direction, picking another column starts it ascending.
func (s SortSpec) Toggle(c Column) SortSpec {
	if s.Column == c {
		return SortSpec{Column: c, Descending: !s.Descending}
	}
	return SortSpec{Column: c}
}

// Order returns the keys of items sorted by spec. Ties are always broken by
// key ascending, whatever the direction, so the result is a deterministic
// total order. items is not modified.
func Order(items map[string]metric.Metric, spec SortSpec) []string {
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		c := compare(spec.Column, a, items[a], b, items[b])
		if c != 0 {
			if spec.Descending {
				return c > 0
			}
			return c < 0
		}
		return a < b
	})
	return keys
}

// compare orders two metrics by column, returning -1, 0 or 1. Unknown
// columns compare equal, leaving the key tie-break in charge.
func compare(col Column, ka string, a metric.Metric, kb string, b metric.Metric) int {
	switch col {
	case ColumnName:
		return strings.Compare(ka, kb)
	case ColumnEvent:
		return compareInt(a.EventTimestamp, b.EventTimestamp)
	case ColumnState:
		return compareInt(int64(a.State.Rank()), int64(b.State.Rank()))
	case ColumnValue:
		av, aok := a.Number()
		bv, bok := b.Number()
		switch {
		case !aok && !bok:
			return 0
		case !aok:
			return -1
		case !bok:
			return 1
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	}
	return 0
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
