package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/fantasytools/ranksheet/pkg/cache"
	"github.com/fantasytools/ranksheet/pkg/config"
	"github.com/fantasytools/ranksheet/pkg/errors"
	"github.com/fantasytools/ranksheet/pkg/providers"
	"github.com/fantasytools/ranksheet/pkg/providers/editorial"
	"github.com/fantasytools/ranksheet/pkg/providers/espnapi"
	"github.com/fantasytools/ranksheet/pkg/providers/sleeper"
)

// sourceNames lists the selectable sources in display order.
var sourceNames = []string{"espn", "yahoo", "sleeper", "espn-api"}

// app bundles the resolved config, cache backend, and shared HTTP client
// for one command invocation.
type app struct {
	cfg    config.Config
	cache  cache.Cache
	client *providers.Client
}

// newApp loads the config file and builds the cache backend: Redis when
// configured, the file cache otherwise, and the null cache when caching is
// disabled.
func newApp(ctx context.Context, cfgPath string, noCache bool) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	var c cache.Cache
	switch {
	case noCache:
		c = cache.NewNullCache()
	case cfg.RedisURL != "":
		c, err = cache.NewRedisCache(ctx, cfg.RedisURL, cfg.CacheTTL())
		if err != nil {
			return nil, err
		}
	default:
		c, err = cache.NewFileCache("", cfg.CacheTTL())
		if err != nil {
			return nil, err
		}
	}

	return &app{cfg: cfg, cache: c, client: providers.NewClient(c, nil)}, nil
}

func (a *app) Close() error {
	return a.cache.Close()
}

// provider resolves a source name (short or full form) to its provider.
// logf receives scraper diagnostics such as dropped-row counts.
func (a *app) provider(name string, logf func(format string, args ...any)) (providers.Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "espn", "espn-editorial":
		p := editorial.NewESPN(a.client, a.cfg.ESPNURL)
		p.SetLogger(logf)
		return p, nil
	case "yahoo", "yahoo-editorial":
		p := editorial.NewYahoo(a.client, a.cfg.YahooURL)
		p.SetLogger(logf)
		return p, nil
	case "sleeper", "sleeper-adp":
		return sleeper.New(a.client, sleeper.Config{DataURL: a.cfg.ADPURL}), nil
	case "espn-api":
		return espnapi.New(a.client, espnapi.Config{ESPNS2: a.cfg.ESPNS2, SWID: a.cfg.SWID}), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidSource,
			"unknown source %q (want one of: %s)", name, strings.Join(sourceNames, ", "))
	}
}

// splitList parses a comma-separated flag value into trimmed parts.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// defaultOutputName builds the artifact filename when --out is omitted.
func defaultOutputName(kind, scoring, format string) string {
	return fmt.Sprintf("%s_%s.%s", kind, scoring, format)
}
