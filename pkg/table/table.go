// Package table implements the common tabular shape shared by providers,
// the consensus builder, and the renderer.
//
// A [Table] is a small column-ordered rowset. It exists because consensus
// output carries one rank_<provider> column per contributing source, so the
// column set is not fixed at compile time the way a struct would require.
package table

import (
	"fmt"
	"strings"

	"github.com/fantasytools/ranksheet/pkg/errors"
	"github.com/fantasytools/ranksheet/pkg/model"
)

// RequiredColumns are the columns every renderable ranking table must carry.
var RequiredColumns = []string{"rank", "name", "team", "pos"}

// Table is an ordered set of columns over generic rows.
// Cell values are nil, string, int, or float64.
type Table struct {
	Cols []string
	Rows []map[string]any
}

// New creates an empty table with the given column order.
func New(cols ...string) Table {
	return Table{Cols: cols}
}

// FromRanks converts normalized provider rows into a Table.
// Column order matches the canonical row shape; absent byes stay nil.
func FromRanks(rows []model.PlayerRank) Table {
	t := New("rank", "name", "team", "pos", "bye", "source", "scoring", "date", "notes")
	for _, r := range rows {
		row := map[string]any{
			"rank":    r.Rank,
			"name":    r.Name,
			"team":    r.Team,
			"pos":     r.Pos,
			"source":  r.Source,
			"scoring": string(r.Scoring),
			"date":    r.Date.Format("2006-01-02"),
		}
		if r.Bye != nil {
			row["bye"] = *r.Bye
		}
		if r.Notes != "" {
			row["notes"] = r.Notes
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// Empty reports whether the table has no rows.
func (t Table) Empty() bool { return len(t.Rows) == 0 }

// Has reports whether the table carries the named column.
func (t Table) Has(col string) bool {
	for _, c := range t.Cols {
		if c == col {
			return true
		}
	}
	return false
}

// Select projects the table to the given columns, in the given order.
// Unknown columns are ignored.
func (t Table) Select(cols ...string) Table {
	var kept []string
	for _, c := range cols {
		if t.Has(c) {
			kept = append(kept, c)
		}
	}
	out := Table{Cols: kept}
	for _, row := range t.Rows {
		nr := make(map[string]any, len(kept))
		for _, c := range kept {
			nr[c] = row[c]
		}
		out.Rows = append(out.Rows, nr)
	}
	return out
}

// Head returns the first n rows (all rows when n <= 0 or n >= Len).
func (t Table) Head(n int) Table {
	if n <= 0 || n >= len(t.Rows) {
		return t
	}
	return Table{Cols: t.Cols, Rows: t.Rows[:n]}
}

// WithColumn appends a column and fills it from values, row by row.
// The values slice must match the row count.
func (t Table) WithColumn(name string, values []any) Table {
	out := Table{Cols: append(append([]string{}, t.Cols...), name)}
	for i, row := range t.Rows {
		nr := make(map[string]any, len(row)+1)
		for k, v := range row {
			nr[k] = v
		}
		nr[name] = values[i]
		out.Rows = append(out.Rows, nr)
	}
	return out
}

// EnsureColumns verifies the required ranking columns are present and
// projects to {rank, name, team, pos} plus bye when requested and present,
// in that fixed order. It fails naming every missing required column.
func EnsureColumns(t Table, includeBye bool) (Table, error) {
	var missing []string
	for _, c := range RequiredColumns {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return Table{}, errors.New(errors.ErrCodeMissingColumns,
			"missing required columns: [%s]", strings.Join(missing, ", "))
	}
	cols := append([]string{}, RequiredColumns...)
	if includeBye && t.Has("bye") {
		cols = append(cols, "bye")
	}
	return t.Select(cols...), nil
}

// FilterPositions restricts the table to rows whose pos is in positions,
// case-insensitively, preserving row order. A nil or empty filter is a no-op.
func FilterPositions(t Table, positions []string) Table {
	if len(positions) == 0 {
		return t
	}
	allowed := make(map[string]bool, len(positions))
	for _, p := range positions {
		allowed[strings.ToUpper(strings.TrimSpace(p))] = true
	}
	out := Table{Cols: t.Cols}
	for _, row := range t.Rows {
		if allowed[strings.ToUpper(CellString(row["pos"]))] {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// CellString formats a cell value for display. nil renders as "".
func CellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return fmt.Sprintf("%d", x)
	case float64:
		// Ranks travel through JSON as float64; render whole numbers bare.
		if x == float64(int64(x)) {
			return fmt.Sprintf("%d", int64(x))
		}
		return fmt.Sprintf("%g", x)
	default:
		return fmt.Sprint(x)
	}
}

// CellFloat extracts a numeric cell value.
func CellFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

// CellInt extracts an integer cell value (accepting JSON float64 forms).
func CellInt(v any) (int, bool) {
	f, ok := CellFloat(v)
	if !ok {
		return 0, false
	}
	return int(f), true
}
