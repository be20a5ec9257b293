package coingecko

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.Handler) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-key",
		WithBaseURL(srv.URL),
		WithRateLimit(1000, 1000),
	)
}

func TestGetCoin(t *testing.T) {
	var gotPath, gotKey string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-cg-demo-api-key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "bitcoin",
			"symbol": "btc",
			"name": "Bitcoin",
			"image": {"large": "https://img.example/btc.png"},
			"market_data": {
				"current_price": {"usd": 65000.5},
				"market_cap": {"usd": 1200000000000},
				"total_volume": {"usd": 34000000000}
			}
		}`))
	}))

	coin, err := c.GetCoin(context.Background(), "Bitcoin")
	require.NoError(t, err)

	assert.Equal(t, "/coins/bitcoin", gotPath, "coin ids are lowercased")
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "Bitcoin", coin.Name)
	assert.Equal(t, 65000.5, coin.MarketData.PriceUSD())
	assert.Equal(t, 1.2e12, coin.MarketData.MarketCapUSD())
	assert.Equal(t, "https://img.example/btc.png", coin.Image.Large)
}

func TestGetCoinNotFound(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"coin not found"}`, http.StatusNotFound)
	}))

	_, err := c.GetCoin(context.Background(), "not-a-coin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGetCoinRetriesTransientErrors(t *testing.T) {
	var calls atomic.Int64
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"id": "bitcoin", "symbol": "btc", "name": "Bitcoin"}`))
	}))

	coin, err := c.GetCoin(context.Background(), "bitcoin")
	require.NoError(t, err)
	assert.Equal(t, "bitcoin", coin.ID)
	assert.EqualValues(t, 3, calls.Load())
}

func TestSearch(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "cardano", r.URL.Query().Get("query"))
		_, _ = w.Write([]byte(`{"coins": [{"id": "cardano", "symbol": "ada", "name": "Cardano", "market_cap_rank": 9}]}`))
	}))

	res, err := c.Search(context.Background(), "cardano")
	require.NoError(t, err)
	require.Len(t, res.Coins, 1)
	assert.Equal(t, "cardano", res.Coins[0].ID)
	assert.Equal(t, 9, res.Coins[0].MarketCapRank)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Bitcoin", DisplayName("Bitcoin", "bitcoin"))
	assert.Equal(t, "Wrapped Bitcoin", DisplayName("", "wrapped-bitcoin"))
}
