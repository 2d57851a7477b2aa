// Package coingecko provides a client for the CoinGecko API
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/coinfolio/internal/common"
	"github.com/bobmcallan/coinfolio/internal/interfaces"
	"github.com/bobmcallan/coinfolio/internal/models"
)

const (
	DefaultBaseURL   = "https://api.coingecko.com/api/v3"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10 // requests per second
)

// flexFloat64 handles JSON values that may be either a number, a string, or null.
type flexFloat64 float64

func (f *flexFloat64) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = 0
		return nil
	}
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexFloat64(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" || s == "N/A" {
			*f = 0
			return nil
		}
		num, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat64(num)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into float64", string(data))
}

// Client implements the PriceOracle interface
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new CoinGecko client. apiKey may be empty for the
// public endpoints.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("CoinGecko API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	c.logger.Debug().Str("url", c.baseURL+path).Msg("CoinGecko API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// marketRow is one entry of the /coins/markets response.
type marketRow struct {
	ID           string      `json:"id"`
	CurrentPrice flexFloat64 `json:"current_price"`
	Pct1h        flexFloat64 `json:"price_change_percentage_1h_in_currency"`
	Pct24h       flexFloat64 `json:"price_change_percentage_24h_in_currency"`
	Pct7d        flexFloat64 `json:"price_change_percentage_7d_in_currency"`
}

// GetCurrentQuotes retrieves current prices and percent changes for the full
// asset batch in a single request.
func (c *Client) GetCurrentQuotes(ctx context.Context, assetIDs []string) (map[string]models.Quote, error) {
	if len(assetIDs) == 0 {
		return map[string]models.Quote{}, nil
	}

	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("ids", strings.Join(assetIDs, ","))
	params.Set("price_change_percentage", "1h,24h,7d")
	params.Set("per_page", strconv.Itoa(len(assetIDs)))

	var rows []marketRow
	if err := c.get(ctx, "/coins/markets", params, &rows); err != nil {
		return nil, err
	}

	quotes := make(map[string]models.Quote, len(rows))
	for _, row := range rows {
		quotes[row.ID] = models.Quote{
			Price:  float64(row.CurrentPrice),
			Pct1h:  float64(row.Pct1h),
			Pct24h: float64(row.Pct24h),
			Pct7d:  float64(row.Pct7d),
		}
	}

	return quotes, nil
}

// marketChart is the /coins/{id}/market_chart response.
// Prices are [unix_millis, price] pairs.
type marketChart struct {
	Prices [][2]float64 `json:"prices"`
}

// GetHistoricalQuotes retrieves close series for each asset covering
// pointCount samples at the given interval. The provider exposes one chart
// endpoint per asset, so the batch fans out behind the shared rate limiter;
// the first hard failure aborts the batch so callers can fall back.
func (c *Client) GetHistoricalQuotes(ctx context.Context, assetIDs []string, pointCount int, interval interfaces.QuoteInterval) (map[string]models.HistoricalQuotes, error) {
	result := make(map[string]models.HistoricalQuotes, len(assetIDs))

	params := url.Values{}
	params.Set("vs_currency", "usd")
	switch interval {
	case interfaces.IntervalHourly:
		params.Set("days", "1")
	default:
		params.Set("days", strconv.Itoa(pointCount))
		params.Set("interval", "daily")
	}

	for _, assetID := range assetIDs {
		var chart marketChart
		path := fmt.Sprintf("/coins/%s/market_chart", url.PathEscape(assetID))
		if err := c.get(ctx, path, params, &chart); err != nil {
			return nil, fmt.Errorf("historical quotes for '%s': %w", assetID, err)
		}

		quotes := make([]models.HistoricalQuote, 0, len(chart.Prices))
		for _, p := range chart.Prices {
			quotes = append(quotes, models.HistoricalQuote{
				CloseTime: time.UnixMilli(int64(p[0])),
				Close:     p[1],
			})
		}
		sort.Slice(quotes, func(i, j int) bool { return quotes[i].CloseTime.Before(quotes[j].CloseTime) })

		result[assetID] = models.HistoricalQuotes{AssetID: assetID, Quotes: quotes}
	}

	return result, nil
}

// Ensure Client implements PriceOracle
var _ interfaces.PriceOracle = (*Client)(nil)
