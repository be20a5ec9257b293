// Package coingecko provides a client for the CoinGecko v3 market data
// API. Only the endpoints needed for screening enrichment are covered.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/time/rate"

	"github.com/amanah-labs/halal-screener/internal/resilience"
)

// Client defines the CoinGecko operations used by the screener.
type Client interface {
	// GetCoin fetches market data for a coin by its CoinGecko id.
	GetCoin(ctx context.Context, id string) (*CoinResponse, error)
	// Search looks up coins matching a free-text query.
	Search(ctx context.Context, query string) (*SearchResponse, error)
}

// CoinResponse is the parsed /coins/{id} response, trimmed to the
// fields the screener consumes.
type CoinResponse struct {
	ID         string     `json:"id"`
	Symbol     string     `json:"symbol"`
	Name       string     `json:"name"`
	Image      CoinImage  `json:"image"`
	MarketData MarketData `json:"market_data"`
}

// CoinImage holds the coin's logo URLs.
type CoinImage struct {
	Thumb string `json:"thumb"`
	Small string `json:"small"`
	Large string `json:"large"`
}

// MarketData holds per-currency market figures. CoinGecko keys these
// by fiat currency code; the screener reads the usd entries.
type MarketData struct {
	CurrentPrice map[string]float64 `json:"current_price"`
	MarketCap    map[string]float64 `json:"market_cap"`
	TotalVolume  map[string]float64 `json:"total_volume"`
}

// USD convenience accessors; zero when CoinGecko has no usd quote.

func (m MarketData) PriceUSD() float64     { return m.CurrentPrice["usd"] }
func (m MarketData) MarketCapUSD() float64 { return m.MarketCap["usd"] }
func (m MarketData) VolumeUSD() float64    { return m.TotalVolume["usd"] }

// SearchResponse is the parsed /search response.
type SearchResponse struct {
	Coins []SearchCoin `json:"coins"`
}

// SearchCoin is a single coin hit from /search.
type SearchCoin struct {
	ID            string `json:"id"`
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	MarketCapRank int    `json:"market_cap_rank"`
	Large         string `json:"large"`
}

// Option configures the CoinGecko client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit overrides the client-side request rate limit.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a CoinGecko client. The apiKey may be empty for
// the public demo tier. The default rate limit stays under CoinGecko's
// free-tier ceiling of roughly 30 calls per minute.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: "https://api.coingecko.com/api/v3",
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(0.5), 2),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// retryDo executes an HTTP request with exponential backoff retries on
// transient failures. Returns the response body and status code on
// success, or the last error after exhausting retries.
func (c *httpClient) retryDo(ctx context.Context, req *http.Request) ([]byte, int, error) {
	type reply struct {
		body   []byte
		status int
	}

	cfg := resilience.DefaultRetryConfig()
	cfg.OnRetry = resilience.RetryLogger("coingecko", req.URL.Path)

	r, err := resilience.DoVal(ctx, cfg, func(ctx context.Context) (reply, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return reply{}, eris.Wrap(err, "coingecko: rate limit wait")
		}

		resp, err := c.http.Do(req.Clone(ctx))
		if err != nil {
			return reply{}, resilience.NewTransientError(err, 0)
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return reply{}, eris.Wrap(readErr, "coingecko: read response body")
		}

		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return reply{}, resilience.NewTransientError(
				eris.Errorf("coingecko: status %d: %s", resp.StatusCode, string(body)),
				resp.StatusCode,
			)
		}

		return reply{body: body, status: resp.StatusCode}, nil
	})
	if err != nil {
		return nil, 0, err
	}
	return r.body, r.status, nil
}

func (c *httpClient) GetCoin(ctx context.Context, id string) (*CoinResponse, error) {
	reqURL := fmt.Sprintf(
		"%s/coins/%s?localization=false&tickers=false&community_data=false&developer_data=false&sparkline=false",
		c.baseURL, url.PathEscape(strings.ToLower(id)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "coingecko: create request")
	}
	c.setHeaders(req)

	body, statusCode, err := c.retryDo(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "coingecko: request failed")
	}

	if statusCode == http.StatusNotFound {
		return nil, eris.Errorf("coingecko: coin %q not found", id)
	}
	if statusCode != http.StatusOK {
		return nil, eris.Errorf("coingecko: unexpected status %d: %s", statusCode, string(body))
	}

	var result CoinResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "coingecko: unmarshal response")
	}

	return &result, nil
}

func (c *httpClient) Search(ctx context.Context, query string) (*SearchResponse, error) {
	reqURL := fmt.Sprintf("%s/search?query=%s", c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "coingecko: create search request")
	}
	c.setHeaders(req)

	body, statusCode, err := c.retryDo(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "coingecko: search request failed")
	}

	if statusCode != http.StatusOK {
		return nil, eris.Errorf("coingecko: search unexpected status %d: %s", statusCode, string(body))
	}

	var result SearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "coingecko: unmarshal search response")
	}

	return &result, nil
}

func (c *httpClient) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}
}

var titleCaser = cases.Title(language.English)

// DisplayName returns a presentable coin name, falling back to a
// title-cased id when CoinGecko has no name on record.
func DisplayName(name, id string) string {
	if name != "" {
		return name
	}
	return titleCaser.String(strings.ReplaceAll(id, "-", " "))
}
