package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/fantasytools/ranksheet/pkg/errors"
	"github.com/fantasytools/ranksheet/pkg/model"
	"github.com/fantasytools/ranksheet/pkg/table"
)

func testContext() Context {
	return Context{
		Title:   "Draft Rankings",
		Source:  "espn-editorial",
		URL:     "https://www.espn.com/fantasy/football/",
		Scoring: model.ScoringPPR,
		Date:    time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		Theme:   ThemeLight,
	}
}

func rankingTable() table.Table {
	return table.Table{
		Cols: []string{"rank", "name", "team", "pos", "bye"},
		Rows: []map[string]any{
			{"rank": 1, "name": "Justin Jefferson", "team": "MIN", "pos": "WR", "bye": 6},
			{"rank": 2, "name": "Christian McCaffrey", "team": "SF", "pos": "RB", "bye": 9},
		},
	}
}

func consensusTable() table.Table {
	return table.Table{
		Cols: []string{"name", "team", "pos", "delta", "consensus_rank"},
		Rows: []map[string]any{
			{"consensus_rank": 1, "name": "Small Move", "team": "MIN", "pos": "WR", "delta": 1.0},
			{"consensus_rank": 2, "name": "Big Move", "team": "SF", "pos": "RB", "delta": -9.0},
			{"consensus_rank": 3, "name": "No Move", "team": "KC", "pos": "QB", "delta": 0.0},
		},
	}
}

func TestRankings_ContainsHeaderFooterAndRows(t *testing.T) {
	var buf bytes.Buffer
	if err := Rankings(&buf, rankingTable(), testContext()); err != nil {
		t.Fatalf("Rankings: %v", err)
	}
	out := buf.Bytes()

	// Compression is off so the content stream is directly inspectable.
	for _, want := range []string{
		"Draft Rankings - PPR",
		"2026-08-20",
		"Source: espn-editorial | https://www.espn.com/fantasy/football/",
		"Justin Jefferson",
		"Christian McCaffrey",
	} {
		if !bytes.Contains(out, []byte(want)) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRankings_PositionColorFillsRows(t *testing.T) {
	var buf bytes.Buffer
	if err := Rankings(&buf, rankingTable(), testContext()); err != nil {
		t.Fatalf("Rankings: %v", err)
	}
	out := buf.Bytes()

	// Row cells must be drawn as filled rectangles, not text-only accents.
	if !bytes.Contains(out, []byte("re f")) {
		t.Error("content stream has no filled cell rectangles")
	}
	// RB accent (52,168,83) as a fill-color operator.
	if !bytes.Contains(out, []byte("0.204 0.659 0.325 rg")) {
		t.Error("RB accent color not set as fill color")
	}
	// WR accent (234,67,53).
	if !bytes.Contains(out, []byte("0.918 0.263 0.208 rg")) {
		t.Error("WR accent color not set as fill color")
	}
}

func TestRankings_FooterIsGray(t *testing.T) {
	var buf bytes.Buffer
	if err := Rankings(&buf, rankingTable(), testContext()); err != nil {
		t.Fatalf("Rankings: %v", err)
	}
	// SetTextColor(120,120,120) emits a grayscale operator, 120/255 = 0.471.
	if !bytes.Contains(buf.Bytes(), []byte("0.471 g")) {
		t.Error("footer text color is not the pinned gray")
	}
}

func TestRankings_Deterministic(t *testing.T) {
	var a, b bytes.Buffer
	if err := Rankings(&a, rankingTable(), testContext()); err != nil {
		t.Fatal(err)
	}
	if err := Rankings(&b, rankingTable(), testContext()); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("identical inputs produced different PDF bytes")
	}
}

func TestRankings_DarkTheme(t *testing.T) {
	ctx := testContext()
	ctx.Theme = ThemeDark
	var buf bytes.Buffer
	if err := Rankings(&buf, rankingTable(), ctx); err != nil {
		t.Fatalf("Rankings dark: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("empty output")
	}
}

func TestConsensus_TwoPages(t *testing.T) {
	var buf bytes.Buffer
	if err := Consensus(&buf, consensusTable(), testContext()); err != nil {
		t.Fatalf("Consensus: %v", err)
	}
	out := buf.Bytes()

	if n := bytes.Count(out, []byte("/Type /Page")); n < 2 {
		t.Errorf("expected at least 2 pages, found %d page markers", n)
	}
	if !bytes.Contains(out, []byte("Biggest Disagreements")) {
		t.Error("movers page title missing")
	}
	if !bytes.Contains(out, []byte("Big Move")) {
		t.Error("mover row missing")
	}
}

func TestTopMovers_OrdersByAbsoluteDelta(t *testing.T) {
	got := topMovers(consensusTable(), 2)
	if got.Len() != 2 {
		t.Fatalf("len = %d, want 2", got.Len())
	}
	if table.CellString(got.Rows[0]["name"]) != "Big Move" {
		t.Errorf("first mover = %q, want Big Move", got.Rows[0]["name"])
	}
	if table.CellString(got.Rows[1]["name"]) != "Small Move" {
		t.Errorf("second mover = %q, want Small Move", got.Rows[1]["name"])
	}
}

func TestParseTheme(t *testing.T) {
	if th, err := ParseTheme(""); err != nil || th != ThemeLight {
		t.Errorf("empty theme: %v %v", th, err)
	}
	if th, err := ParseTheme("dark"); err != nil || th != ThemeDark {
		t.Errorf("dark theme: %v %v", th, err)
	}
	_, err := ParseTheme("sepia")
	if err == nil || errors.GetCode(err) != errors.ErrCodeInvalidStyle {
		t.Errorf("bad theme error = %v", err)
	}
}
