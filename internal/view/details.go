package view

import (
	"fmt"
	"strconv"
	"strings"

	"netmap/internal/domain"
)

// detailDenylist holds keys that never appear in the details panel
var detailDenylist = map[string]bool{
	"fx":                  true,
	"fy":                  true,
	"vx":                  true,
	"vy":                  true,
	"x":                   true,
	"y":                   true,
	"index":               true,
	"static-right-column": true,
	domain.FieldTags:      true,
}

// Detail is one key/value row of the selected device
type Detail struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Details lists the selected device's fields in declared order, minus
// layout state, tags and anything the detail filter rejects.
func (r *Renderer) Details() []Detail {
	if r.selected == nil {
		return nil
	}
	rec := r.selected.Record()
	var out []Detail
	for _, key := range domain.RecordFields() {
		value, ok := rec[key]
		if !ok || detailDenylist[key] {
			continue
		}
		if r.opts.DetailFilter != nil && !r.opts.DetailFilter(key) {
			continue
		}
		out = append(out, Detail{Key: key, Value: formatValue(value)})
	}
	return out
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []string:
		return strings.Join(val, ", ")
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}
