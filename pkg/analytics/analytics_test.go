package analytics

import (
	"math"
	"testing"

	"github.com/fantasytools/ranksheet/pkg/table"
)

func rankedTable(ranks []int, positions []string) table.Table {
	t := table.New("rank", "name", "team", "pos")
	for i, r := range ranks {
		t.Rows = append(t.Rows, map[string]any{
			"rank": r,
			"name": string(rune('A' + i)),
			"team": "AAA",
			"pos":  positions[i%len(positions)],
		})
	}
	return t
}

func TestAddTiers_MonotoneFromOne(t *testing.T) {
	in := rankedTable([]int{1, 2, 3, 10, 11, 12, 30, 31}, []string{"RB"})
	got := AddTiers(in)

	if !got.Has("tier") {
		t.Fatal("tier column missing")
	}
	prev := 0
	for i, row := range got.Rows {
		tier, ok := table.CellInt(row["tier"])
		if !ok {
			t.Fatalf("row %d tier not numeric: %v", i, row["tier"])
		}
		if i == 0 && tier != 1 {
			t.Errorf("first tier = %d, want 1", tier)
		}
		if tier < prev {
			t.Errorf("tiers decreased at row %d: %d -> %d", i, prev, tier)
		}
		prev = tier
	}
	last, _ := table.CellInt(got.Rows[len(got.Rows)-1]["tier"])
	if last < 2 {
		t.Error("large rank gaps should open at least one new tier")
	}
}

func TestAddTiers_SmallInputUsesMeanStd(t *testing.T) {
	// 5 rows or fewer: threshold is mean+std of diffs. The 1->20 jump is the
	// only diff above it.
	in := rankedTable([]int{1, 2, 3, 4, 24}, []string{"RB"})
	got := AddTiers(in)

	tiers := make([]int, got.Len())
	for i, row := range got.Rows {
		tiers[i], _ = table.CellInt(row["tier"])
	}
	for i := 0; i < 4; i++ {
		if tiers[i] != 1 {
			t.Errorf("row %d tier = %d, want 1", i, tiers[i])
		}
	}
	if tiers[4] != 2 {
		t.Errorf("outlier tier = %d, want 2", tiers[4])
	}
}

func TestAddTiers_SingleRow(t *testing.T) {
	got := AddTiers(rankedTable([]int{1}, []string{"QB"}))
	tier, _ := table.CellInt(got.Rows[0]["tier"])
	if tier != 1 {
		t.Errorf("single row tier = %d, want 1", tier)
	}
}

func TestAddTiers_Empty(t *testing.T) {
	got := AddTiers(table.New("rank", "name", "team", "pos"))
	if !got.Has("tier") || got.Len() != 0 {
		t.Errorf("empty input should yield empty table with tier column: %v", got.Cols)
	}
}

func TestAddVORP_StrictlyDecreasingWithinPosition(t *testing.T) {
	in := rankedTable([]int{1, 2, 3, 4, 5, 6}, []string{"RB", "WR"})
	got := AddVORP(in, nil)

	if !got.Has("VORP") || !got.Has("pos_rank") {
		t.Fatalf("derived columns missing: %v", got.Cols)
	}

	byPos := map[string][]float64{}
	for _, row := range got.Rows {
		v, ok := table.CellFloat(row["VORP"])
		if !ok {
			t.Fatalf("VORP not numeric: %v", row["VORP"])
		}
		pos := table.CellString(row["pos"])
		byPos[pos] = append(byPos[pos], v)
	}
	for pos, vs := range byPos {
		for i := 1; i < len(vs); i++ {
			if vs[i] >= vs[i-1] {
				t.Errorf("%s VORP not strictly decreasing: %v", pos, vs)
			}
		}
	}
}

func TestAddVORP_Values(t *testing.T) {
	in := rankedTable([]int{1, 2}, []string{"RB"})
	got := AddVORP(in, nil)

	// RB replacement level 24: first RB = 1/1 - 1/24 = 0.9583.
	v, _ := table.CellFloat(got.Rows[0]["VORP"])
	if math.Abs(v-0.9583) > 1e-9 {
		t.Errorf("first RB VORP = %v, want 0.9583", v)
	}
	v, _ = table.CellFloat(got.Rows[1]["VORP"])
	if math.Abs(v-(0.5-1.0/24)) > 1e-4 {
		t.Errorf("second RB VORP = %v", v)
	}
}

func TestAddVORP_ReplacementOverride(t *testing.T) {
	in := rankedTable([]int{1}, []string{"QB"})
	got := AddVORP(in, map[string]int{"qb": 10})

	v, _ := table.CellFloat(got.Rows[0]["VORP"])
	if math.Abs(v-(1.0-0.1)) > 1e-9 {
		t.Errorf("override not applied: VORP = %v, want 0.9", v)
	}
}

func TestAddVORP_PrefersConsensusRank(t *testing.T) {
	in := table.Table{
		Cols: []string{"rank", "consensus_rank", "name", "team", "pos"},
		Rows: []map[string]any{
			// rank says first, consensus says second; consensus must win.
			{"rank": 1, "consensus_rank": 2, "name": "X", "team": "AAA", "pos": "RB"},
			{"rank": 2, "consensus_rank": 1, "name": "Y", "team": "BBB", "pos": "RB"},
		},
	}
	got := AddVORP(in, nil)
	pr, _ := table.CellInt(got.Rows[1]["pos_rank"])
	if pr != 1 {
		t.Errorf("consensus_rank not preferred: Y pos_rank = %d, want 1", pr)
	}
}

func TestQuantile(t *testing.T) {
	xs := []float64{0, 1, 1, 1, 1, 1, 1, 1, 1, 10}
	got := quantile(xs, 0.9)
	if got < 1 || got > 10 {
		t.Errorf("quantile(0.9) = %v, out of range", got)
	}
	if q := quantile([]float64{5}, 0.9); q != 5 {
		t.Errorf("single-element quantile = %v, want 5", q)
	}
}
