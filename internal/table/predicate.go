package table

import (
	"fmt"
	"strconv"
	"strings"
)

// Operator compares a row value against a predicate value
type Operator string

const (
	// OpContains matches a case-insensitive substring
	OpContains Operator = "like"
	// OpEquals matches the exact value
	OpEquals Operator = "="
)

// Row is one record keyed by field name
type Row map[string]any

// Predicate tests one field of a row
type Predicate struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    string   `json:"value"`
}

// Match reports whether the row satisfies the predicate. A row without the
// field never matches.
func (p Predicate) Match(row Row) bool {
	raw, ok := row[p.Field]
	if !ok || raw == nil {
		return false
	}
	text := Text(raw)
	switch p.Operator {
	case OpContains:
		return strings.Contains(strings.ToLower(text), strings.ToLower(p.Value))
	case OpEquals:
		return text == p.Value
	default:
		return false
	}
}

func (p Predicate) String() string {
	return fmt.Sprintf("%s %s %q", p.Field, p.Operator, p.Value)
}

// Text renders a raw value the way predicates and the default formatter see it
func Text(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []string:
		return strings.Join(val, ", ")
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}

// number converts a raw value for numeric sorting
func number(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// matchAny is the search rule: an empty set matches everything
func matchAny(preds []Predicate, row Row) bool {
	if len(preds) == 0 {
		return true
	}
	for _, p := range preds {
		if p.Match(row) {
			return true
		}
	}
	return false
}

// matchAll is the filter rule: an empty set matches everything
func matchAll(preds []Predicate, row Row) bool {
	for _, p := range preds {
		if !p.Match(row) {
			return false
		}
	}
	return true
}
