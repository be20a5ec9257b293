package facts

import (
	"context"

	"go.uber.org/zap"

	"github.com/amanah-labs/halal-screener/internal/model"
	"github.com/amanah-labs/halal-screener/pkg/coingecko"
)

// MarketSourceName identifies CoinGecko in a record's data source list.
const MarketSourceName = "coingecko"

// MarketSource layers live CoinGecko market data over a base facts
// provider. Enrichment is display-only: price, market cap, volume and
// logo never influence the compliance outcome, so a failed fetch
// degrades to the base facts instead of failing the screening.
type MarketSource struct {
	base   *FileSource
	market coingecko.Client
}

// NewMarketSource wraps base with CoinGecko enrichment. A nil client
// disables enrichment.
func NewMarketSource(base *FileSource, client coingecko.Client) *MarketSource {
	return &MarketSource{base: base, market: client}
}

// Lookup resolves facts from the catalog and enriches the coin with
// current market figures when CoinGecko is reachable.
func (s *MarketSource) Lookup(ctx context.Context, coinID string) (*model.CryptocurrencyFacts, error) {
	f, err := s.base.Lookup(ctx, coinID)
	if err != nil {
		return nil, err
	}
	if s.market == nil {
		return f, nil
	}

	coin, err := s.market.GetCoin(ctx, f.Coin.SourceID)
	if err != nil {
		zap.L().Warn("facts: market enrichment unavailable",
			zap.String("coin", f.Coin.SourceID),
			zap.Error(err),
		)
		return f, nil
	}

	f.Coin.Name = coingecko.DisplayName(coin.Name, coin.ID)
	f.Coin.CurrentPrice = coin.MarketData.PriceUSD()
	f.Coin.MarketCap = coin.MarketData.MarketCapUSD()
	f.Coin.Volume24h = coin.MarketData.VolumeUSD()
	if coin.Image.Large != "" {
		f.Coin.LogoURL = coin.Image.Large
	}
	return f, nil
}

// IDs returns all cataloged coin ids.
func (s *MarketSource) IDs() []string {
	return s.base.IDs()
}

// Sources names the data sources a lookup through this provider can
// draw on, for attribution on screening records.
func (s *MarketSource) Sources() []string {
	if s.market == nil {
		return []string{SourceName}
	}
	return []string{SourceName, MarketSourceName}
}
