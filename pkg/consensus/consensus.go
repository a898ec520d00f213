// Package consensus merges ranking tables from multiple providers into a
// single consensus ranking.
package consensus

import (
	"sort"
	"strings"

	"github.com/fantasytools/ranksheet/pkg/errors"
	"github.com/fantasytools/ranksheet/pkg/table"
)

// Reference providers for the delta column: delta is the editorial rank
// minus the trending-ADP rank when both sources contributed, else 0.
const (
	deltaRefA = "espn-editorial"
	deltaRefB = "sleeper-adp"
)

// Source is one provider's contribution to the consensus.
type Source struct {
	Name  string
	Table table.Table
}

// mergedRow accumulates one player's data across providers.
type mergedRow struct {
	key   string
	name  string
	team  string
	pos   string
	ranks map[string]int // provider name -> derived rank
	mean  float64
}

// Build merges the sources by identity key (lowercased trimmed name +
// uppercased position) and produces one row per player in the union, with a
// rank_<provider> column per source, a delta column for the reference pair,
// and consensus_rank assigned 1..N by ascending mean rank (ties broken by
// name ascending).
func Build(sources []Source) (table.Table, error) {
	if len(sources) == 0 {
		return table.Table{}, errors.New(errors.ErrCodeInvalidInput, "consensus requires at least one source")
	}

	var order []*mergedRow
	index := map[[4]string]*mergedRow{}

	for _, src := range sources {
		ranks := deriveRanks(src.Table)
		for i, row := range src.Table.Rows {
			name := strings.TrimSpace(table.CellString(row["name"]))
			team := strings.TrimSpace(table.CellString(row["team"]))
			pos := strings.TrimSpace(table.CellString(row["pos"]))
			key := strings.ToLower(name) + "|" + strings.ToUpper(pos)

			// Merge on the full identity tuple: the same key with a
			// differing team spelling stays a separate row.
			id := [4]string{key, name, team, pos}
			m, seen := index[id]
			if !seen {
				m = &mergedRow{key: key, name: name, team: team, pos: pos, ranks: map[string]int{}}
				index[id] = m
				order = append(order, m)
			}
			m.ranks[src.Name] = ranks[i]
		}
	}

	for _, m := range order {
		sum, n := 0, 0
		for _, r := range m.ranks {
			sum += r
			n++
		}
		if n > 0 {
			m.mean = float64(sum) / float64(n)
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].mean != order[j].mean {
			return order[i].mean < order[j].mean
		}
		return order[i].name < order[j].name
	})

	cols := []string{"name", "team", "pos"}
	for _, src := range sources {
		cols = append(cols, "rank_"+src.Name)
	}
	cols = append(cols, "delta", "consensus_rank")

	hasRefs := false
	for _, src := range sources {
		if src.Name == deltaRefA {
			for _, s := range sources {
				if s.Name == deltaRefB {
					hasRefs = true
				}
			}
		}
	}

	out := table.Table{Cols: cols}
	for i, m := range order {
		row := map[string]any{
			"name":           m.name,
			"team":           m.team,
			"pos":            m.pos,
			"consensus_rank": i + 1,
			"delta":          0,
		}
		for _, src := range sources {
			if r, ok := m.ranks[src.Name]; ok {
				row["rank_"+src.Name] = r
			} else {
				row["rank_"+src.Name] = nil
			}
		}
		if hasRefs {
			a, okA := m.ranks[deltaRefA]
			b, okB := m.ranks[deltaRefB]
			if okA && okB {
				row["delta"] = a - b
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

// deriveRanks assigns a rank to every row of a source table: the row's own
// numeric rank when present, else ascending rank-order of its adp value
// (first-seen order breaking ties), else the row's 1-based position.
func deriveRanks(t table.Table) []int {
	ranks := make([]int, t.Len())

	if t.Has("rank") {
		numeric := true
		for i, row := range t.Rows {
			r, ok := table.CellInt(row["rank"])
			if !ok {
				numeric = false
				break
			}
			ranks[i] = r
		}
		if numeric {
			return ranks
		}
	}

	if t.Has("adp") {
		type adpRow struct {
			idx int
			adp float64
		}
		rows := make([]adpRow, 0, t.Len())
		usable := true
		for i, row := range t.Rows {
			v, ok := table.CellFloat(row["adp"])
			if !ok {
				usable = false
				break
			}
			rows = append(rows, adpRow{idx: i, adp: v})
		}
		if usable {
			sort.SliceStable(rows, func(i, j int) bool { return rows[i].adp < rows[j].adp })
			for pos, r := range rows {
				ranks[r.idx] = pos + 1
			}
			return ranks
		}
	}

	for i := range ranks {
		ranks[i] = i + 1
	}
	return ranks
}
