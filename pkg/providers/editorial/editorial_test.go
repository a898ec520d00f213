package editorial

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fantasytools/ranksheet/pkg/cache"
	"github.com/fantasytools/ranksheet/pkg/model"
	"github.com/fantasytools/ranksheet/pkg/providers"
)

const rankingsHTML = `<html><body>
<table>
  <thead>
    <tr><th>RK</th><th>PLAYER</th><th>TEAM</th><th>POS</th><th>BYE</th></tr>
  </thead>
  <tbody>
    <tr><td>1</td><td>Justin&nbsp;Jefferson</td><td>min</td><td>WR</td><td>6</td></tr>
    <tr><td colspan="5">Tier 2</td></tr>
    <tr><td>2</td><td>Jaâ€™Marr Chase</td><td>CIN</td><td>WR/RB</td><td>12</td></tr>
    <tr><td>3</td><td>Niners D</td><td>SF</td><td>D/ST</td><td>9</td></tr>
    <tr><td>3</td><td>Niners D</td><td>SF</td><td>D/ST</td><td>9</td></tr>
    <tr><td>4</td><td>Broken Row</td><td>XX</td><td>??</td><td>1</td></tr>
  </tbody>
</table>
</body></html>`

func testProvider(t *testing.T, handler http.Handler) (*Provider, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := providers.NewClient(cache.NewNullCache(), nil).WithHTTPClient(srv.Client())
	return NewESPN(client, srv.URL+"/rankings"), srv
}

func TestFetch_ParsesHTMLTable(t *testing.T) {
	p, _ := testProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rankingsHTML))
	}))

	rows, err := p.Fetch(context.Background(), model.ScoringPPR, providers.Options{})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3: %+v", len(rows), rows)
	}

	if rows[0].Name != "Justin Jefferson" || rows[0].Team != "MIN" {
		t.Errorf("NBSP/case cleanup failed: %+v", rows[0])
	}
	if rows[1].Name != "Ja'Marr Chase" {
		t.Errorf("apostrophe repair failed: %q", rows[1].Name)
	}
	if rows[1].Pos != "WR" {
		t.Errorf("slash-compound position = %q, want WR", rows[1].Pos)
	}
	if rows[2].Pos != "DST" {
		t.Errorf("D/ST normalization = %q, want DST", rows[2].Pos)
	}
	if rows[0].Bye == nil || *rows[0].Bye != 6 {
		t.Errorf("bye week = %v, want 6", rows[0].Bye)
	}
	for _, r := range rows {
		if r.Source != "espn-editorial" || r.Scoring != model.ScoringPPR {
			t.Errorf("metadata not stamped: %+v", r)
		}
	}
}

func TestFetch_PrefersLinkedSheet(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rankings", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<a href="/download/cheatsheet.csv">Download</a>
			<table><tr><th>RK</th><th>PLAYER</th></tr>
			<tr><td>1</td><td>HTML Player</td></tr></table>
		</body></html>`))
	})
	mux.HandleFunc("/download/cheatsheet.csv", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("RK,PLAYER,TEAM,POS,BYE\n1,Sheet Player,KC,QB,10\n"))
	})
	p, _ := testProvider(t, mux)

	rows, err := p.Fetch(context.Background(), model.ScoringHalf, providers.Options{})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Sheet Player" {
		t.Fatalf("linked sheet not preferred: %+v", rows)
	}
	if rows[0].Pos != "QB" || rows[0].Bye == nil || *rows[0].Bye != 10 {
		t.Errorf("CSV columns misparsed: %+v", rows[0])
	}
}

func TestResolveHref(t *testing.T) {
	tests := []struct {
		page, href, want string
	}{
		{"https://example.com/fantasy/rankings", "https://cdn.example.com/r.csv", "https://cdn.example.com/r.csv"},
		{"https://example.com/fantasy/rankings", "/downloads/r.csv", "https://example.com/downloads/r.csv"},
		{"https://example.com/fantasy/rankings", "sheets/r.csv", "https://example.com/fantasy/sheets/r.csv"},
		{"https://example.com/fantasy/rankings/", "sheets/r.csv", "https://example.com/fantasy/rankings/sheets/r.csv"},
	}
	for _, tt := range tests {
		if got := resolveHref(tt.page, tt.href); got != tt.want {
			t.Errorf("resolveHref(%q, %q) = %q, want %q", tt.page, tt.href, got, tt.want)
		}
	}
}

func TestFetch_DirectoryRelativeSheetLink(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/fantasy/rankings", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><a href="sheets/ranks.csv">Download</a></body></html>`))
	})
	mux.HandleFunc("/fantasy/sheets/ranks.csv", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("RK,PLAYER,TEAM,POS,BYE\n1,Relative Player,KC,QB,10\n"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := providers.NewClient(cache.NewNullCache(), nil).WithHTTPClient(srv.Client())
	p := NewESPN(client, srv.URL+"/fantasy/rankings")

	rows, err := p.Fetch(context.Background(), model.ScoringPPR, providers.Options{})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Relative Player" {
		t.Fatalf("relative sheet link not resolved against the page path: %+v", rows)
	}
}

func TestFetch_BrokenSheetFallsBackToHTML(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rankings", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<a href="/dead.xlsx">Download</a>
			<table><tr><th>RK</th><th>PLAYER</th><th>TEAM</th><th>POS</th></tr>
			<tr><td>1</td><td>HTML Player</td><td>DAL</td><td>WR</td></tr></table>
		</body></html>`))
	})
	mux.HandleFunc("/dead.xlsx", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})
	p, _ := testProvider(t, mux)

	rows, err := p.Fetch(context.Background(), model.ScoringPPR, providers.Options{})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "HTML Player" {
		t.Fatalf("HTML fallback failed: %+v", rows)
	}
}

func TestFetch_NonNetworkURLUsesSample(t *testing.T) {
	client := providers.NewClient(cache.NewNullCache(), nil)
	p := NewESPN(client, "builtin:sample")

	rows, err := p.Fetch(context.Background(), model.ScoringStandard, providers.Options{})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(rows) != 4 || rows[0].Name != "Justin Jefferson" {
		t.Fatalf("sample rows not returned: %+v", rows)
	}
	if rows[0].Source != "espn-editorial" || rows[0].Scoring != model.ScoringStandard {
		t.Errorf("sample metadata not stamped: %+v", rows[0])
	}
}

func TestFetch_EmptyPageFallsBackToSample(t *testing.T) {
	p, _ := testProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>No rankings today.</p></body></html>"))
	}))

	rows, err := p.Fetch(context.Background(), model.ScoringPPR, providers.Options{})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("empty page should yield sample rows, got %d", len(rows))
	}
}

func TestFetch_FetchErrorIsFatal(t *testing.T) {
	p, _ := testProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))

	_, err := p.Fetch(context.Background(), model.ScoringPPR, providers.Options{})
	if err == nil {
		t.Fatal("expected error for non-OK page")
	}
}

func TestFetch_CacheHitSkipsNetwork(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(rankingsHTML))
	}))
	defer srv.Close()

	fc, err := cache.NewFileCache(t.TempDir(), 0)
	if err != nil {
		t.Fatal(err)
	}
	client := providers.NewClient(fc, nil).WithHTTPClient(srv.Client())
	p := NewESPN(client, srv.URL)

	ctx := context.Background()
	if _, err := p.Fetch(ctx, model.ScoringPPR, providers.Options{}); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Fetch(ctx, model.ScoringPPR, providers.Options{}); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("server hit %d times, want 1", calls)
	}

	if _, err := p.Fetch(ctx, model.ScoringPPR, providers.Options{Refresh: true}); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("refresh should bypass cache, server hit %d times", calls)
	}
}

func TestFetch_OptionsFilters(t *testing.T) {
	p, _ := testProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rankingsHTML))
	}))

	rows, err := p.Fetch(context.Background(), model.ScoringPPR, providers.Options{
		Positions: []string{"wr"},
		Limit:     1,
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(rows) != 1 || rows[0].Pos != "WR" {
		t.Fatalf("filters not applied: %+v", rows)
	}

	rows, err = p.Fetch(context.Background(), model.ScoringPPR, providers.Options{ExcludeDefK: true})
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range rows {
		if r.Pos == "DST" || r.Pos == "K" {
			t.Errorf("defense/kicker not excluded: %+v", r)
		}
	}
}

func TestYahooIdentity(t *testing.T) {
	p := NewYahoo(providers.NewClient(cache.NewNullCache(), nil), "")
	if p.Name() != "yahoo-editorial" {
		t.Errorf("name = %q", p.Name())
	}
	if p.Homepage() != "https://sports.yahoo.com/fantasy/football/" {
		t.Errorf("homepage = %q", p.Homepage())
	}
}
