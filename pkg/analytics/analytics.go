// Package analytics derives tier and value-over-replacement columns from a
// ranking table.
package analytics

import (
	"math"
	"sort"
	"strings"

	"github.com/fantasytools/ranksheet/pkg/table"
)

// DefaultReplacementLevels is the positional replacement baseline used by
// [AddVORP] when no override is given (one starter-pool slot count per
// position in a typical 12-team league).
var DefaultReplacementLevels = map[string]int{
	"QB":  12,
	"RB":  24,
	"WR":  24,
	"TE":  12,
	"K":   12,
	"DST": 12,
}

// gapQuantile is the diff quantile that opens a new tier for larger tables.
const gapQuantile = 0.9

// rankSeries picks the ordering field for analytics: consensus_rank when
// present, else rank, else the 1-based row position.
func rankSeries(t table.Table) []int {
	out := make([]int, t.Len())
	col := ""
	if t.Has("consensus_rank") {
		col = "consensus_rank"
	} else if t.Has("rank") {
		col = "rank"
	}
	for i, row := range t.Rows {
		if col != "" {
			if v, ok := table.CellInt(row[col]); ok {
				out[i] = v
				continue
			}
		}
		out[i] = i + 1
	}
	return out
}

// AddTiers appends a tier column using rank-gap detection: successive diffs
// of the rank series open a new tier whenever a diff is at least the
// threshold and strictly positive. The threshold is the 90th percentile of
// diffs when more than 5 rows exist, else mean plus sample standard
// deviation. Tiers start at 1 and increase monotonically.
func AddTiers(t table.Table) table.Table {
	if t.Empty() {
		return t.WithColumn("tier", nil)
	}
	sr := rankSeries(t)
	diffs := make([]float64, len(sr))
	for i := 1; i < len(sr); i++ {
		diffs[i] = float64(sr[i] - sr[i-1])
	}

	var threshold float64
	if len(diffs) > 5 {
		threshold = quantile(diffs, gapQuantile)
	} else {
		threshold = mean(diffs) + sampleStd(diffs)
	}

	tier := 1
	values := make([]any, len(sr))
	for i, d := range diffs {
		if d >= threshold && d > 0 {
			tier++
		}
		values[i] = tier
	}
	return t.WithColumn("tier", values)
}

// AddVORP appends pos_rank and VORP columns. Players are ranked within their
// position by the chosen order field; value is the inverse of that
// within-position rank and VORP is value minus the inverse of the positional
// replacement level, rounded to 4 decimal places. Overrides merge over
// [DefaultReplacementLevels] by uppercased position.
func AddVORP(t table.Table, replacementLevels map[string]int) table.Table {
	levels := make(map[string]int, len(DefaultReplacementLevels))
	for k, v := range DefaultReplacementLevels {
		levels[k] = v
	}
	for k, v := range replacementLevels {
		levels[strings.ToUpper(k)] = v
	}

	order := rankSeries(t)
	idx := make([]int, t.Len())
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		pa := table.CellString(t.Rows[idx[a]]["pos"])
		pb := table.CellString(t.Rows[idx[b]]["pos"])
		if pa != pb {
			return pa < pb
		}
		return order[idx[a]] < order[idx[b]]
	})

	posRank := make([]any, t.Len())
	counts := map[string]int{}
	for _, i := range idx {
		pos := table.CellString(t.Rows[i]["pos"])
		counts[pos]++
		posRank[i] = counts[pos]
	}

	vorp := make([]any, t.Len())
	for i, row := range t.Rows {
		pos := strings.ToUpper(table.CellString(row["pos"]))
		repl, ok := levels[pos]
		if !ok {
			repl = 12
		}
		pr := posRank[i].(int)
		value := 0.0
		if pr > 0 {
			value = 1.0 / float64(pr)
		}
		vorp[i] = round4(value - 1.0/float64(repl))
	}

	return t.WithColumn("pos_rank", posRank).WithColumn("VORP", vorp)
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// sampleStd is the ddof=1 standard deviation; NaN for fewer than 2 values,
// which makes the tier threshold comparison fail and keeps everyone in
// tier 1 for degenerate inputs.
func sampleStd(xs []float64) float64 {
	if len(xs) < 2 {
		return math.NaN()
	}
	m := mean(xs)
	sum := 0.0
	for _, x := range xs {
		sum += (x - m) * (x - m)
	}
	return math.Sqrt(sum / float64(len(xs)-1))
}

// quantile computes the q-quantile with linear interpolation between order
// statistics.
func quantile(xs []float64, q float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sorted := append([]float64{}, xs...)
	sort.Float64s(sorted)
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
