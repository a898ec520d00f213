// Package sleeper implements the Sleeper trending-adds provider. Sleeper has
// no public ADP endpoint, so trending add counts serve as the ADP proxy:
// the most-added player ranks first.
package sleeper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fantasytools/ranksheet/pkg/cache"
	"github.com/fantasytools/ranksheet/pkg/errors"
	"github.com/fantasytools/ranksheet/pkg/model"
	"github.com/fantasytools/ranksheet/pkg/providers"
)

const (
	baseURL       = "https://api.sleeper.app/v1"
	cacheVersion  = "v1"
	trendingLimit = 300
	lookbackHours = 24

	// playersTTL: the full player-metadata dump is ~5MB and changes rarely,
	// so it gets a longer default than page-level caches.
	playersTTL = 24 * time.Hour
)

// Config tunes the provider. The zero value targets the public API.
type Config struct {
	BaseURL string
	// DataURL, when set, points at a pre-ranked JSON export and is used
	// instead of the trending endpoints. Offline and CI runs use this.
	DataURL string
	Now     func() time.Time
}

// Provider fetches trending-add ADP rankings from Sleeper.
type Provider struct {
	cfg    Config
	client *providers.Client
}

// New creates a Sleeper provider.
func New(client *providers.Client, cfg Config) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = baseURL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Provider{cfg: cfg, client: client}
}

// Name returns the provider identifier.
func (p *Provider) Name() string { return "sleeper-adp" }

// Homepage returns the Sleeper fantasy landing page.
func (p *Provider) Homepage() string { return "https://sleeper.com/fantasy-football" }

type leagueState struct {
	Season string `json:"season"`
}

type trendingEntry struct {
	PlayerID string `json:"player_id"`
	Count    int    `json:"count"`
}

type playerMeta struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Team      string `json:"team"`
	Position  string `json:"position"`
}

// rankedRow is the shape of a pre-ranked DataURL export.
type rankedRow struct {
	Rank int    `json:"rank"`
	Name string `json:"name"`
	Team string `json:"team"`
	Pos  string `json:"pos"`
	Bye  *int   `json:"bye,omitempty"`
}

// Fetch returns ADP rows: either the configured pre-ranked export, or the
// live trending list joined against player metadata.
func (p *Provider) Fetch(ctx context.Context, scoring model.Scoring, opts providers.Options) ([]model.PlayerRank, error) {
	season := opts.Season
	if season == 0 {
		season = p.season(ctx, opts)
	}

	var rows []model.PlayerRank
	var err error
	if p.cfg.DataURL != "" {
		rows, err = p.fetchExport(ctx, scoring, season, opts)
	} else {
		rows, err = p.fetchTrending(ctx, scoring, season, opts)
	}
	if err != nil {
		return nil, err
	}
	return providers.Finalize(rows, opts), nil
}

// season asks the league-state endpoint for the active season, falling back
// to the current calendar year when the API is unreachable.
func (p *Provider) season(ctx context.Context, opts providers.Options) int {
	key := cache.Key(cacheVersion, p.Name(), "state")
	var state leagueState
	err := p.client.Cached(ctx, key, opts.Refresh, opts.CacheTTL, &state, func() error {
		return p.client.GetJSON(ctx, p.cfg.BaseURL+"/state/nfl", &state)
	})
	if err == nil {
		var year int
		if _, serr := fmt.Sscanf(state.Season, "%d", &year); serr == nil && year > 0 {
			return year
		}
	}
	return p.cfg.Now().Year()
}

func (p *Provider) fetchExport(ctx context.Context, scoring model.Scoring, season int, opts providers.Options) ([]model.PlayerRank, error) {
	key := cache.Key(cacheVersion, p.Name(), "export", season, scoring, p.cfg.DataURL)
	var export []rankedRow
	err := p.client.Cached(ctx, key, opts.Refresh, opts.CacheTTL, &export, func() error {
		return p.client.GetJSON(ctx, p.cfg.DataURL, &export)
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetch, err, "failed to fetch sleeper export: %s", p.cfg.DataURL)
	}

	now := p.cfg.Now()
	rows := make([]model.PlayerRank, 0, len(export))
	for i, e := range export {
		rank := e.Rank
		if rank <= 0 {
			rank = i + 1
		}
		r := model.PlayerRank{
			Rank:    rank,
			Name:    strings.TrimSpace(e.Name),
			Team:    strings.ToUpper(strings.TrimSpace(e.Team)),
			Pos:     model.NormalizePosition(e.Pos),
			Bye:     e.Bye,
			Source:  p.Name(),
			Scoring: scoring,
			Date:    now,
		}
		if r.Validate() != nil {
			continue
		}
		rows = append(rows, r)
	}
	return rows, nil
}

func (p *Provider) fetchTrending(ctx context.Context, scoring model.Scoring, season int, opts providers.Options) ([]model.PlayerRank, error) {
	trendURL := fmt.Sprintf("%s/players/nfl/trending/add?lookback_hours=%d&limit=%d",
		p.cfg.BaseURL, lookbackHours, trendingLimit)
	trendKey := cache.Key(cacheVersion, p.Name(), "trending", season)
	var trending []trendingEntry
	err := p.client.Cached(ctx, trendKey, opts.Refresh, opts.CacheTTL, &trending, func() error {
		return p.client.GetJSON(ctx, trendURL, &trending)
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetch, err, "failed to fetch sleeper trending list")
	}

	players, err := p.players(ctx, opts)
	if err != nil {
		return nil, err
	}

	now := p.cfg.Now()
	rows := make([]model.PlayerRank, 0, len(trending))
	for i, t := range trending {
		meta := players[t.PlayerID]
		name := strings.TrimSpace(meta.FirstName + " " + meta.LastName)
		if name == "" {
			name = t.PlayerID
		}
		r := model.PlayerRank{
			Rank:    i + 1,
			Name:    name,
			Team:    strings.ToUpper(meta.Team),
			Pos:     model.NormalizePosition(meta.Position),
			Source:  p.Name(),
			Scoring: scoring,
			Date:    now,
			Notes:   fmt.Sprintf("adds: %d", t.Count),
		}
		if r.Validate() != nil {
			continue
		}
		rows = append(rows, r)
	}
	return rows, nil
}

// players fetches the full player-metadata map. The per-call TTL override is
// ignored here in favor of the longer metadata TTL unless the caller asks
// for an even longer one.
func (p *Provider) players(ctx context.Context, opts providers.Options) (map[string]playerMeta, error) {
	ttl := playersTTL
	if opts.CacheTTL > ttl {
		ttl = opts.CacheTTL
	}
	key := cache.Key(cacheVersion, p.Name(), "players")
	players := map[string]playerMeta{}
	err := p.client.Cached(ctx, key, opts.Refresh, ttl, &players, func() error {
		return p.client.GetJSON(ctx, p.cfg.BaseURL+"/players/nfl", &players)
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetch, err, "failed to fetch sleeper player metadata")
	}
	return players, nil
}
