package tui

import (
	"fmt"
	"sort"
	"strings"

	table "github.com/charmbracelet/bubbles/table"

	"geoglobe/internal/country"
)

// visitedColumns are fixed; property columns are appended per dataset.
var visitedColumns = []string{"country", "iso", "region"}

// refreshVisited rebuilds the table from the visited list.
func (m *Model) refreshVisited() {
	cols, rows := m.buildVisited()
	tcols := make([]table.Column, 0, len(cols)+1)
	tcols = append(tcols, table.Column{Title: "#", Width: 4})
	maxColW := 24
	for i, c := range cols {
		w := len(c) + 2
		for _, r := range rows {
			if len(r[i])+2 > w {
				w = len(r[i]) + 2
			}
		}
		if w > maxColW {
			w = maxColW
		}
		tcols = append(tcols, table.Column{Title: c, Width: w})
	}
	trows := make([]table.Row, 0, len(rows))
	for i, r := range rows {
		row := make([]string, 0, len(r)+1)
		row = append(row, fmt.Sprintf("%d", i+1))
		row = append(row, r...)
		trows = append(trows, table.Row(row))
	}
	// Avoid transient mismatch: clear rows, set columns, then set rows
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
}

// buildVisited returns (columns, rows) for the visited countries in display order.
// Dataset properties shared by the visited countries are added as extra columns.
func (m *Model) buildVisited() ([]string, [][]string) {
	reg := m.sess.Registry()
	names := m.sess.Visited()

	seen := map[string]bool{}
	var extra []string
	for _, n := range names {
		e, ok := reg.Get(n)
		if !ok {
			continue
		}
		for k := range e.Properties {
			if !seen[k] && !isNameKey(k) {
				seen[k] = true
				extra = append(extra, k)
			}
		}
	}
	sort.Strings(extra)
	if len(extra) > 3 {
		extra = extra[:3]
	}

	cols := append(append([]string{}, visitedColumns...), extra...)
	rows := make([][]string, 0, len(names))
	for _, n := range names {
		row := []string{n, country.ISOCode(n), country.Region(n)}
		e, known := reg.Get(n)
		for _, k := range extra {
			v := ""
			if known {
				v = formatProperty(e.Properties[k])
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	return cols, rows
}

func isNameKey(k string) bool {
	switch strings.ToLower(k) {
	case "name", "admin", "name_long":
		return true
	}
	return false
}

func formatProperty(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return fmt.Sprintf("%g", t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(t)
	}
}
