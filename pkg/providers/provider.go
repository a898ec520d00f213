// Package providers defines the data-source contract and the shared HTTP
// client used by every ranking source.
//
// A provider fetches raw data from one upstream (an editorial page, a public
// API) and normalizes it into [model.PlayerRank] rows. Providers share no
// state; each is a struct implementing [Provider].
package providers

import (
	"context"
	"errors"
	"time"

	"github.com/fantasytools/ranksheet/pkg/model"
)

var (
	// ErrNotImplemented is returned by providers that lack a working backend.
	// For a single-source request this is fatal; a multi-source aggregate
	// treats it as a usable-but-empty contribution.
	ErrNotImplemented = errors.New("provider not implemented")

	// ErrNotFound is returned when an upstream resource doesn't exist.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors,
	// 5xx responses).
	ErrNetwork = errors.New("network error")
)

// Options control a fetch. The zero value means: all positions, no row
// limit, current season, kickers and defenses included, cache honored.
type Options struct {
	Positions   []string      // restrict to these positions (case-insensitive)
	Limit       int           // truncate to at most this many rows, after filtering
	Season      int           // season year; 0 means current calendar year
	ExcludeDefK bool          // drop K and DST rows
	Refresh     bool          // bypass the cache
	CacheTTL    time.Duration // per-call TTL override; 0 uses the cache default
}

// Provider is a pluggable data source yielding normalized ranking rows.
type Provider interface {
	// Name returns the provider identifier, e.g. "espn-editorial".
	Name() string
	// Homepage returns the provider's public landing page URL.
	Homepage() string
	// Fetch retrieves and normalizes rankings for a scoring format.
	Fetch(ctx context.Context, scoring model.Scoring, opts Options) ([]model.PlayerRank, error)
}

// Finalize applies the post-normalization filters shared by all providers:
// position restriction, kicker/defense exclusion, then the row limit.
func Finalize(rows []model.PlayerRank, opts Options) []model.PlayerRank {
	out := rows
	if len(opts.Positions) > 0 {
		allowed := make(map[string]bool, len(opts.Positions))
		for _, p := range opts.Positions {
			allowed[model.NormalizePosition(p)] = true
		}
		filtered := make([]model.PlayerRank, 0, len(out))
		for _, r := range out {
			if allowed[r.Pos] {
				filtered = append(filtered, r)
			}
		}
		out = filtered
	}
	if opts.ExcludeDefK {
		filtered := make([]model.PlayerRank, 0, len(out))
		for _, r := range out {
			if r.Pos != "K" && r.Pos != "DST" {
				filtered = append(filtered, r)
			}
		}
		out = filtered
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out
}
