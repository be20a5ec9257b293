package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/amanah-labs/halal-screener/internal/entitlement"
	"github.com/amanah-labs/halal-screener/internal/facts"
	"github.com/amanah-labs/halal-screener/internal/screening"
	"github.com/amanah-labs/halal-screener/internal/store"
	"github.com/amanah-labs/halal-screener/pkg/coingecko"
)

// env bundles the wired components a command needs.
type env struct {
	Store    store.Store
	Engine   *screening.Engine
	Provider *facts.MarketSource
}

// initEnv opens the record store, loads the facts catalog, and builds
// the screening engine from the loaded configuration.
func initEnv(ctx context.Context) (*env, error) {
	if err := screening.ValidateMethodology(cfg.Methodology); err != nil {
		return nil, err
	}

	st, err := openStore(ctx)
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	catalog, err := facts.NewFileSource(cfg.Facts.CatalogPath)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	provider := facts.NewMarketSource(catalog, marketClient())

	ent := entitlement.NewFreeTier(
		cfg.Entitlement.FreeMonthlyScreenings,
		cfg.Entitlement.AnonymousPerSec,
		cfg.Entitlement.AnonymousBurst,
	)

	eng := screening.NewEngine(st, ent, cfg.Methodology)

	zap.L().Debug("environment ready",
		zap.String("store", cfg.Store.Driver),
		zap.Int("cataloged_coins", catalog.Len()),
		zap.String("methodology", screening.MethodologyHash(cfg.Methodology)),
	)

	return &env{Store: st, Engine: eng, Provider: provider}, nil
}

func (e *env) Close() {
	if err := e.Store.Close(); err != nil {
		zap.L().Warn("close store", zap.Error(err))
	}
}

// openStore selects the record store backend from config.
func openStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite", "":
		return store.NewSQLite(cfg.Store.DatabaseURL)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	case "memory":
		return store.NewMemory(), nil
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// marketClient builds the CoinGecko client, or nil when enrichment is
// disabled via an empty base URL.
func marketClient() coingecko.Client {
	if cfg.CoinGecko.BaseURL == "" {
		return nil
	}

	timeout := time.Duration(cfg.CoinGecko.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return coingecko.NewClient(cfg.CoinGecko.Key,
		coingecko.WithBaseURL(cfg.CoinGecko.BaseURL),
		coingecko.WithRateLimit(cfg.CoinGecko.RatePerSec, 2),
		coingecko.WithHTTPClient(&http.Client{Timeout: timeout}),
	)
}
