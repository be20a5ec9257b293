package facts

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amanah-labs/halal-screener/pkg/coingecko"
)

// stubMarket returns canned CoinGecko responses.
type stubMarket struct {
	coin *coingecko.CoinResponse
	err  error
}

func (s *stubMarket) GetCoin(context.Context, string) (*coingecko.CoinResponse, error) {
	return s.coin, s.err
}

func (s *stubMarket) Search(context.Context, string) (*coingecko.SearchResponse, error) {
	return nil, eris.New("not implemented")
}

func TestMarketSourceEnrichment(t *testing.T) {
	base, err := NewFileSource(writeCatalog(t, testCatalog))
	require.NoError(t, err)

	market := &stubMarket{coin: &coingecko.CoinResponse{
		ID:     "bitcoin",
		Symbol: "btc",
		Name:   "Bitcoin",
		Image:  coingecko.CoinImage{Large: "https://img.example/btc.png"},
		MarketData: coingecko.MarketData{
			CurrentPrice: map[string]float64{"usd": 65000},
			MarketCap:    map[string]float64{"usd": 1.2e12},
			TotalVolume:  map[string]float64{"usd": 3.4e10},
		},
	}}

	src := NewMarketSource(base, market)
	f, err := src.Lookup(context.Background(), "bitcoin")
	require.NoError(t, err)

	assert.Equal(t, 65000.0, f.Coin.CurrentPrice)
	assert.Equal(t, 1.2e12, f.Coin.MarketCap)
	assert.Equal(t, 3.4e10, f.Coin.Volume24h)
	assert.Equal(t, "https://img.example/btc.png", f.Coin.LogoURL)
	assert.Equal(t, []string{SourceName, MarketSourceName}, src.Sources())
}

func TestMarketSourceDegradesWhenUpstreamFails(t *testing.T) {
	base, err := NewFileSource(writeCatalog(t, testCatalog))
	require.NoError(t, err)

	src := NewMarketSource(base, &stubMarket{err: eris.New("rate limited")})
	f, err := src.Lookup(context.Background(), "bitcoin")
	require.NoError(t, err, "enrichment failure must not fail the screening")
	assert.Zero(t, f.Coin.CurrentPrice)
}

func TestMarketSourceWithoutClient(t *testing.T) {
	base, err := NewFileSource(writeCatalog(t, testCatalog))
	require.NoError(t, err)

	src := NewMarketSource(base, nil)
	f, err := src.Lookup(context.Background(), "bitcoin")
	require.NoError(t, err)
	assert.Zero(t, f.Coin.CurrentPrice)
	assert.Equal(t, []string{SourceName}, src.Sources())
}
