// Package render turns ranking tables into shareable artifacts. The PDF
// sink targets printable draft cheat sheets; CSV output lives next to the
// table type in pkg/table.
package render

import (
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/fantasytools/ranksheet/pkg/errors"
	"github.com/fantasytools/ranksheet/pkg/model"
	"github.com/fantasytools/ranksheet/pkg/table"
)

// Theme selects the page palette.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme validates a theme name.
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), nil
	case "":
		return ThemeLight, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidStyle, "unknown style %q (want light or dark)", s)
	}
}

type rgb struct{ r, g, b int }

var (
	lightText = rgb{34, 34, 34}
	darkText  = rgb{240, 240, 240}
	lightBG   = rgb{255, 255, 255}
	darkBG    = rgb{24, 24, 24}

	// positionColors fill table rows by position so a sheet scans at a glance.
	positionColors = map[string]rgb{
		"QB":  {66, 135, 245},
		"RB":  {52, 168, 83},
		"WR":  {234, 67, 53},
		"TE":  {251, 188, 5},
		"K":   {170, 0, 255},
		"DST": {0, 173, 181},
	}
	otherPosColor = rgb{200, 200, 200}
)

// pinnedDate keeps PDF output byte-identical across runs; the displayed
// date comes from Context.Date instead.
var pinnedDate = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// Context carries the display metadata stamped on every page.
type Context struct {
	Title   string
	Source  string // provider name for the footer attribution
	URL     string // provider homepage for the footer attribution
	Scoring model.Scoring
	Date    time.Time
	Theme   Theme
}

func (c Context) colors() (text, bg rgb) {
	if c.Theme == ThemeDark {
		return darkText, darkBG
	}
	return lightText, lightBG
}

func newDoc(ctx Context) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	// Compression off so golden-file tests can grep the content stream.
	pdf.SetCompression(false)
	pdf.SetCreationDate(pinnedDate)
	pdf.SetModificationDate(pinnedDate)
	pdf.SetTitle(ctx.Title, true)
	pdf.SetAuthor("ranksheet", true)
	pdf.SetCreator("ranksheet", true)
	pdf.SetSubject(fmt.Sprintf("Source: %s | %s", ctx.Source, ctx.URL), true)

	text, bg := ctx.colors()
	pdf.SetHeaderFunc(func() {
		if ctx.Theme == ThemeDark {
			pdf.SetFillColor(bg.r, bg.g, bg.b)
			pdf.Rect(0, 0, 210, 297, "F")
		}
		pdf.SetTextColor(text.r, text.g, text.b)
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 8, fmt.Sprintf("%s - %s", ctx.Title, upperScoring(ctx.Scoring)),
			"", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 5, ctx.Date.Format("2006-01-02"), "", 1, "L", false, 0, "")
		pdf.Ln(2)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		// Footer attribution is gray on both themes.
		pdf.SetTextColor(120, 120, 120)
		pdf.SetFont("Helvetica", "I", 7)
		pdf.CellFormat(0, 5, fmt.Sprintf("Source: %s | %s", ctx.Source, ctx.URL),
			"", 0, "C", false, 0, "")
	})
	return pdf
}

func upperScoring(s model.Scoring) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			c -= 32
		}
		out[i] = c
	}
	return string(out)
}

type column struct {
	key    string
	label  string
	width  float64
	numFmt bool
}

var rankingColumns = []column{
	{"rank", "Rank", 15, false},
	{"name", "Player", 70, false},
	{"team", "Team", 20, false},
	{"pos", "Pos", 15, false},
	{"bye", "Bye", 15, false},
}

// Rankings renders a single-source ranking table as a one-page-per-fill
// cheat sheet.
func Rankings(w io.Writer, t table.Table, ctx Context) error {
	pdf := newDoc(ctx)
	pdf.AddPage()
	cols := presentColumns(t, rankingColumns)
	drawTable(pdf, ctx, t, cols)
	return output(pdf, w)
}

// consensusPageSize and moversPageSize bound the two consensus pages.
const (
	consensusPageSize = 150
	moversPageSize    = 25
)

var consensusColumns = []column{
	{"consensus_rank", "Rank", 15, false},
	{"name", "Player", 65, false},
	{"team", "Team", 20, false},
	{"pos", "Pos", 15, false},
	{"delta", "Delta", 20, true},
}

// Consensus renders the aggregated sheet: the top consensus ranks first,
// then a movers page ordered by absolute source disagreement.
func Consensus(w io.Writer, t table.Table, ctx Context) error {
	pdf := newDoc(ctx)
	cols := presentColumns(t, consensusColumns)

	pdf.AddPage()
	drawTable(pdf, ctx, t.Head(consensusPageSize), cols)

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, "Biggest Disagreements", "", 1, "L", false, 0, "")
	pdf.Ln(1)
	drawTable(pdf, ctx, topMovers(t, moversPageSize), cols)

	return output(pdf, w)
}

// topMovers orders rows by |delta| descending, keeping the consensus order
// for ties.
func topMovers(t table.Table, n int) table.Table {
	out := table.Table{Cols: t.Cols, Rows: append([]map[string]any{}, t.Rows...)}
	sort.SliceStable(out.Rows, func(i, j int) bool {
		a, _ := table.CellFloat(out.Rows[i]["delta"])
		b, _ := table.CellFloat(out.Rows[j]["delta"])
		return math.Abs(a) > math.Abs(b)
	})
	return out.Head(n)
}

func presentColumns(t table.Table, want []column) []column {
	cols := make([]column, 0, len(want))
	for _, c := range want {
		if t.Has(c.key) {
			cols = append(cols, c)
		}
	}
	return cols
}

func drawTable(pdf *fpdf.Fpdf, ctx Context, t table.Table, cols []column) {
	text, _ := ctx.colors()

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(text.r, text.g, text.b)
	for _, c := range cols {
		pdf.CellFormat(c.width, 6, c.label, "B", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, row := range t.Rows {
		// Each row is filled with its position's accent color.
		accent, ok := positionColors[table.CellString(row["pos"])]
		if !ok {
			accent = otherPosColor
		}
		pdf.SetFillColor(accent.r, accent.g, accent.b)
		pdf.SetTextColor(text.r, text.g, text.b)
		for _, c := range cols {
			val := table.CellString(row[c.key])
			if c.numFmt {
				if f, ok := table.CellFloat(row[c.key]); ok {
					val = fmt.Sprintf("%+.0f", f)
				}
			}
			pdf.CellFormat(c.width, 5, val, "", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}
}

func output(pdf *fpdf.Fpdf, w io.Writer) error {
	if err := pdf.Error(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "pdf generation failed")
	}
	return pdf.Output(w)
}
