// Package editorial scrapes ranking tables from editorial fantasy-football
// pages. ESPN and Yahoo share one scraper engine and differ only in name,
// homepage, and configured URL override.
//
// The scraper is deliberately permissive: header labels are matched
// case-insensitively with positional fallbacks, tier-separator rows are
// skipped, and rows failing validation are dropped rather than failing the
// fetch. An empty end-to-end result substitutes a fixed sample so downstream
// rendering still produces output.
package editorial

import (
	"context"
	"encoding/csv"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/fantasytools/ranksheet/pkg/cache"
	"github.com/fantasytools/ranksheet/pkg/errors"
	"github.com/fantasytools/ranksheet/pkg/httputil"
	"github.com/fantasytools/ranksheet/pkg/model"
	"github.com/fantasytools/ranksheet/pkg/providers"
)

// cacheVersion is bumped whenever the normalized row format changes, so old
// entries read as misses.
const cacheVersion = "v1"

// Config selects which editorial source a scraper instance represents.
type Config struct {
	Name        string             // provider identifier, e.g. "espn-editorial"
	Homepage    string             // fallback URL when no override is configured
	URLOverride string             // resolved by the config layer, never read from the environment here
	Sample      []model.PlayerRank // offline/deterministic fallback rows (rank, name, team, pos, bye only)
	Logger      func(format string, args ...any)
	Now         func() time.Time
}

// Provider scrapes one editorial source.
type Provider struct {
	cfg    Config
	client *providers.Client
}

// New creates an editorial scraper from an explicit config.
func New(cfg Config, client *providers.Client) *Provider {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = func(string, ...any) {}
	}
	return &Provider{cfg: cfg, client: client}
}

// NewESPN creates the ESPN editorial rankings scraper.
func NewESPN(client *providers.Client, urlOverride string) *Provider {
	return New(Config{
		Name:        "espn-editorial",
		Homepage:    "https://www.espn.com/fantasy/football/",
		URLOverride: urlOverride,
		Sample: []model.PlayerRank{
			{Rank: 1, Name: "Justin Jefferson", Team: "MIN", Pos: "WR", Bye: model.Bye(6)},
			{Rank: 2, Name: "Christian McCaffrey", Team: "SF", Pos: "RB", Bye: model.Bye(9)},
			{Rank: 3, Name: "Ja'Marr Chase", Team: "CIN", Pos: "WR", Bye: model.Bye(12)},
			{Rank: 4, Name: "CeeDee Lamb", Team: "DAL", Pos: "WR", Bye: model.Bye(7)},
		},
	}, client)
}

// NewYahoo creates the Yahoo editorial rankings scraper.
func NewYahoo(client *providers.Client, urlOverride string) *Provider {
	return New(Config{
		Name:        "yahoo-editorial",
		Homepage:    "https://sports.yahoo.com/fantasy/football/",
		URLOverride: urlOverride,
		Sample: []model.PlayerRank{
			{Rank: 1, Name: "Yahoo Sample RB", Team: "AAA", Pos: "RB"},
			{Rank: 2, Name: "Yahoo Sample WR", Team: "BBB", Pos: "WR"},
		},
	}, client)
}

// SetLogger installs the diagnostic sink for dropped-row counts and sheet
// fallbacks. Nil restores the no-op default.
func (p *Provider) SetLogger(fn func(format string, args ...any)) {
	if fn == nil {
		fn = func(string, ...any) {}
	}
	p.cfg.Logger = fn
}

// Name returns the provider identifier.
func (p *Provider) Name() string { return p.cfg.Name }

// Homepage returns the provider landing page.
func (p *Provider) Homepage() string { return p.cfg.Homepage }

// Fetch resolves the page URL, consults the cache, scrapes and normalizes
// the ranking table, and applies the position/limit filters.
func (p *Provider) Fetch(ctx context.Context, scoring model.Scoring, opts providers.Options) ([]model.PlayerRank, error) {
	season := opts.Season
	if season == 0 {
		season = p.cfg.Now().Year()
	}
	url := p.resolveURL(scoring, season)
	key := cache.Key(cacheVersion, p.cfg.Name, season, scoring, url)

	if !opts.Refresh {
		var cached []model.PlayerRank
		if ok, _ := cache.GetJSON(ctx, p.client.Cache(), key, opts.CacheTTL, &cached); ok && len(cached) > 0 {
			return providers.Finalize(cached, opts), nil
		}
	}

	var rows []model.PlayerRank
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		// Non-network override: deterministic sample for offline use.
		rows = p.sample(scoring)
	} else {
		var err error
		rows, err = p.scrape(ctx, url, scoring)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFetch, err, "failed to fetch %s page: %s", p.cfg.Name, url)
		}
	}
	if len(rows) == 0 {
		rows = p.sample(scoring)
	}

	_ = cache.SetJSON(ctx, p.client.Cache(), key, rows)
	return providers.Finalize(rows, opts), nil
}

// resolveURL picks the page to scrape. A configured override wins; otherwise
// the homepage is the fallback, since no per-scoring page link is derivable
// without live layout knowledge.
//
// TODO: make URL resolution pluggable per scoring format once the editorial
// page layout exposes stable per-format links.
func (p *Provider) resolveURL(scoring model.Scoring, season int) string {
	if p.cfg.URLOverride != "" {
		return p.cfg.URLOverride
	}
	return p.cfg.Homepage
}

// scrape fetches the page under the retry policy and parses it into
// normalized rows.
func (p *Provider) scrape(ctx context.Context, url string, scoring model.Scoring) ([]model.PlayerRank, error) {
	var doc *goquery.Document
	err := httputil.RetryWithBackoff(ctx, func() error {
		var ferr error
		doc, ferr = p.client.GetDoc(ctx, url)
		return ferr
	})
	if err != nil {
		return nil, err
	}

	// Prefer a downloadable sheet over scraping the rendered table.
	if href, ok := findSheetLink(doc, url); ok {
		text, terr := p.client.GetText(ctx, href)
		if terr == nil {
			if rows := p.parseCSV(text, scoring); len(rows) > 0 {
				return rows, nil
			}
		}
		p.cfg.Logger("linked sheet unusable, falling back to HTML tables: %s", href)
	}

	return p.parseTables(doc, scoring), nil
}

// sheetExts are the structured-download extensions preferred over HTML.
var sheetExts = []string{".csv", ".xls", ".xlsx"}

// findSheetLink scans anchors for a CSV/Excel download, resolving relative
// hrefs against the page URL.
func findSheetLink(doc *goquery.Document, pageURL string) (string, bool) {
	var found string
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		lower := strings.ToLower(href)
		for _, ext := range sheetExts {
			if strings.HasSuffix(lower, ext) || strings.Contains(lower, ext+"?") {
				found = resolveHref(pageURL, href)
				return false
			}
		}
		return true
	})
	return found, found != ""
}

// resolveHref resolves an anchor href against the page URL, handling
// absolute, root-relative, and directory-relative forms.
func resolveHref(pageURL, href string) string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

var spaceRE = regexp.MustCompile(`\s+`)

// cleanText normalizes whitespace and repairs the UTF-8-as-Latin-1
// apostrophe mangling common on editorial pages.
func cleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.ReplaceAll(s, "â€™", "'")
	return strings.TrimSpace(spaceRE.ReplaceAllString(s, " "))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// headerIndex maps recognized header labels to cell indexes, falling back to
// the conventional column order when a label is absent.
func headerIndex(headers []string) map[string]int {
	idx := map[string]int{"RK": 0, "PLAYER": 1, "TEAM": 2, "POS": 3, "BYE": 4}
	for i, h := range headers {
		label := strings.ToUpper(cleanText(h))
		if _, known := idx[label]; known {
			idx[label] = i
		}
	}
	return idx
}

// rowFromCells builds a normalized row from one table row's cell text.
// Returns ok=false for separator rows and structurally short rows.
func (p *Provider) rowFromCells(idx map[string]int, cells []string, scoring model.Scoring) (model.PlayerRank, bool) {
	at := func(col string) string {
		i := idx[col]
		if i < 0 || i >= len(cells) {
			return ""
		}
		return cells[i]
	}

	rankStr := at("RK")
	if !isDigits(rankStr) {
		return model.PlayerRank{}, false
	}
	rank, _ := strconv.Atoi(rankStr)

	row := model.PlayerRank{
		Rank:    rank,
		Name:    cleanText(at("PLAYER")),
		Team:    strings.ToUpper(cleanText(at("TEAM"))),
		Pos:     model.NormalizePosition(at("POS")),
		Source:  p.cfg.Name,
		Scoring: scoring,
		Date:    p.cfg.Now(),
	}
	if bye := at("BYE"); isDigits(bye) {
		week, _ := strconv.Atoi(bye)
		row.Bye = &week
	}
	return row, true
}

// parseTables scans every table on the page and normalizes all candidate
// rows: dedupe on (rank, name) first-wins, rank-ascending sort, then the
// validate-or-drop pass.
func (p *Provider) parseTables(doc *goquery.Document, scoring model.Scoring) []model.PlayerRank {
	var rows []model.PlayerRank
	doc.Find("table").Each(func(_ int, tbl *goquery.Selection) {
		var headers []string
		tbl.Find("thead th, tr th").Each(func(_ int, th *goquery.Selection) {
			headers = append(headers, th.Text())
		})
		idx := headerIndex(headers)

		tbl.Find("tbody tr, tr").Each(func(_ int, tr *goquery.Selection) {
			var cells []string
			tr.Find("td, th").Each(func(_ int, td *goquery.Selection) {
				cells = append(cells, cleanText(td.Text()))
			})
			if len(cells) == 0 || allEmpty(cells) {
				return
			}
			// Tier separators and ad rows don't start with a rank number.
			if !isDigits(cells[0]) {
				return
			}
			if row, ok := p.rowFromCells(idx, cells, scoring); ok {
				rows = append(rows, row)
			}
		})
	})
	return p.normalize(rows)
}

// parseCSV parses a linked rankings sheet using the same header conventions
// as the HTML tables.
func (p *Provider) parseCSV(text string, scoring model.Scoring) []model.PlayerRank {
	records, err := readCSV(text)
	if err != nil || len(records) == 0 {
		return nil
	}
	idx := headerIndex(records[0])
	var rows []model.PlayerRank
	for _, rec := range records[1:] {
		for i := range rec {
			rec[i] = cleanText(rec[i])
		}
		if row, ok := p.rowFromCells(idx, rec, scoring); ok {
			rows = append(rows, row)
		}
	}
	return p.normalize(rows)
}

// readCSV parses sheet text leniently: ragged rows are allowed since
// editorial exports often omit trailing empty cells.
func readCSV(text string) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	return r.ReadAll()
}

// normalize applies dedupe, ordering, and the silent validate-drop policy.
func (p *Provider) normalize(rows []model.PlayerRank) []model.PlayerRank {
	type dupKey struct {
		rank int
		name string
	}
	seen := map[dupKey]bool{}
	deduped := make([]model.PlayerRank, 0, len(rows))
	for _, r := range rows {
		k := dupKey{r.Rank, r.Name}
		if seen[k] {
			continue
		}
		seen[k] = true
		deduped = append(deduped, r)
	}

	sort.SliceStable(deduped, func(i, j int) bool { return deduped[i].Rank < deduped[j].Rank })

	valid := deduped[:0]
	dropped := 0
	for _, r := range deduped {
		if err := r.Validate(); err != nil {
			dropped++
			continue
		}
		valid = append(valid, r)
	}
	if dropped > 0 {
		p.cfg.Logger("dropped %d invalid rows from %s", dropped, p.cfg.Name)
	}
	return valid
}

// sample returns the provider's fixed fallback rows stamped with the current
// metadata.
func (p *Provider) sample(scoring model.Scoring) []model.PlayerRank {
	out := make([]model.PlayerRank, len(p.cfg.Sample))
	for i, r := range p.cfg.Sample {
		r.Source = p.cfg.Name
		r.Scoring = scoring
		r.Date = p.cfg.Now()
		out[i] = r
	}
	return out
}

func allEmpty(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
