package table

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var (
	cities   = []string{"NY", "LA", "SF", "Austin"}
	statuses = []string{"online", "offline"}
	searches = []string{"", "n", "ny", "LINE", "zz"}
)

// randomRows draws city and status from small pools so filters collide;
// every third row has no city.
func randomRows(picks []int) Dataset {
	ds := Dataset{
		Name:    "random",
		Columns: []Column{{Field: "id"}, {Field: "city"}, {Field: "status"}},
		IDField: "id",
	}
	for i, p := range picks {
		row := Row{"id": fmt.Sprintf("r%d", i), "status": statuses[p%len(statuses)]}
		if i%3 != 2 {
			row["city"] = cities[p%len(cities)]
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds
}

func TestFilterProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("visible rows are exactly those matching search and filters", prop.ForAll(
		func(picks []int, city int, status int, search int) bool {
			e := New(randomRows(picks))
			e.SetSearch(searches[search])
			if err := e.AddCellFilter("city", cities[city]); err != nil {
				return false
			}
			if err := e.AddCellFilter("status", statuses[status]); err != nil {
				return false
			}

			want := 0
			for _, row := range randomRows(picks).Rows {
				if matchAny(e.SearchSet(), row) && matchAll(e.Filters(), row) {
					want++
				}
			}
			return len(e.Rows()) == want
		},
		gen.SliceOf(gen.IntRange(0, 11)),
		gen.IntRange(0, len(cities)-1),
		gen.IntRange(0, len(statuses)-1),
		gen.IntRange(0, len(searches)-1),
	))

	properties.Property("adding a filter never grows the result", prop.ForAll(
		func(picks []int, city int) bool {
			e := New(randomRows(picks))
			before := len(e.Rows())
			if err := e.AddCellFilter("city", cities[city]); err != nil {
				return false
			}
			return len(e.Rows()) <= before
		},
		gen.SliceOf(gen.IntRange(0, 11)),
		gen.IntRange(0, len(cities)-1),
	))

	properties.Property("clear all restores every row", prop.ForAll(
		func(picks []int, city int, search string) bool {
			e := New(randomRows(picks))
			e.SetSearch(search)
			_ = e.AddCellFilter("city", cities[city])
			e.ClearAll()
			return len(e.Rows()) == len(picks)
		},
		gen.SliceOf(gen.IntRange(0, 11)),
		gen.IntRange(0, len(cities)-1),
		gen.AlphaString(),
	))

	properties.Property("toggling a column twice restores the visible set", prop.ForAll(
		func(hint []int, col int) bool {
			ds := tenColumns()
			for _, h := range hint {
				ds.DefaultFields = append(ds.DefaultFields, fmt.Sprintf("c%d", h))
			}
			e := New(ds)
			before := fields(e.VisibleColumns())
			field := fmt.Sprintf("c%d", col)
			if e.ToggleColumn(field) != nil || e.ToggleColumn(field) != nil {
				return false
			}
			after := fields(e.VisibleColumns())
			if len(before) != len(after) {
				return false
			}
			for i := range before {
				if before[i] != after[i] {
					return false
				}
			}
			return len(before) >= MinVisibleColumns
		},
		gen.SliceOf(gen.IntRange(0, 12)),
		gen.IntRange(0, 9),
	))

	properties.Property("pages partition the visible rows", prop.ForAll(
		func(picks []int, sizeIdx int) bool {
			e := New(randomRows(picks))
			if err := e.SetPageSize(PageSizes[sizeIdx]); err != nil {
				return false
			}
			total := 0
			for n := 1; n <= e.Pages(); n++ {
				total += len(e.Page(n).Rows)
			}
			return total == len(e.Rows())
		},
		gen.SliceOf(gen.IntRange(0, 11)),
		gen.IntRange(0, len(PageSizes)-1),
	))

	properties.TestingRun(t)
}
