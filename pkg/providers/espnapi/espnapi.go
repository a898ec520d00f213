// Package espnapi reserves the provider slot for ESPN's private fantasy API.
//
// The API needs the espn_s2 and SWID session cookies and an undocumented
// request shape that changes between seasons, so the provider currently
// reports not-implemented. Aggregations treat that as an empty contribution
// when other sources remain.
package espnapi

import (
	"context"

	"github.com/fantasytools/ranksheet/pkg/model"
	"github.com/fantasytools/ranksheet/pkg/providers"
)

// Config carries the ESPN session cookies. Both are required once the
// backend lands.
type Config struct {
	ESPNS2 string
	SWID   string
}

// Provider is the placeholder ESPN API source.
type Provider struct {
	cfg    Config
	client *providers.Client
}

// New creates the placeholder provider. The config is accepted now so
// call sites don't change when the backend is implemented.
func New(client *providers.Client, cfg Config) *Provider {
	return &Provider{cfg: cfg, client: client}
}

// Name returns the provider identifier.
func (p *Provider) Name() string { return "espn-api" }

// Homepage returns the ESPN fantasy landing page.
func (p *Provider) Homepage() string { return "https://fantasy.espn.com/football/" }

// Fetch always returns [providers.ErrNotImplemented].
func (p *Provider) Fetch(ctx context.Context, scoring model.Scoring, opts providers.Options) ([]model.PlayerRank, error) {
	return nil, providers.ErrNotImplemented
}
