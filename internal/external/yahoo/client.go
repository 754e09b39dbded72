package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/wonny/marketsnap/internal/contracts"
	"github.com/wonny/marketsnap/pkg/config"
	"github.com/wonny/marketsnap/pkg/httputil"
	"github.com/wonny/marketsnap/pkg/logger"
	"github.com/wonny/marketsnap/pkg/redis"
)

// Client handles communication with the Yahoo Finance public API
// ⭐ SSOT: Yahoo Finance 호출은 이 클라이언트에서만
type Client struct {
	httpClient     *httputil.Client
	logger         *logger.Logger
	cache          *redis.Cache
	cacheTTL       time.Duration
	chartBaseURL   string
	summaryBaseURL string
}

// NewClient creates a new Yahoo Finance client
func NewClient(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient:     httpClient,
		logger:         log,
		chartBaseURL:   cfg.Yahoo.ChartBaseURL,
		summaryBaseURL: cfg.Yahoo.SummaryBaseURL,
	}
}

// WithCache enables raw payload caching
func (c *Client) WithCache(cache *redis.Cache, ttl time.Duration) *Client {
	c.cache = cache
	c.cacheTTL = ttl
	return c
}

// chartResponse is the v8 chart API envelope
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency string `json:"currency"`
				Symbol   string `json:"symbol"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []interface{} `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchDailyCloses fetches daily closing prices for a symbol
// ⭐ SSOT: Yahoo 차트 API 호출은 이 함수에서만
func (c *Client) FetchDailyCloses(ctx context.Context, symbol string, from, to time.Time) (*contracts.RawSeries, error) {
	cacheKey := redis.ChartKey(symbol, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if c.cache != nil {
		var cached contracts.RawSeries
		if found, _ := c.cache.Get(ctx, cacheKey, &cached); found {
			c.logger.WithField("symbol", symbol).Debug("Chart served from cache")
			return &cached, nil
		}
	}

	// period2 is exclusive upstream, extend by one day to include the end date
	fullURL := fmt.Sprintf("%s/%s?period1=%d&period2=%d&interval=1d&events=history",
		c.chartBaseURL, url.PathEscape(symbol),
		from.Unix(), to.AddDate(0, 0, 1).Unix())

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("%w: yahoo chart %s: %v", contracts.ErrSourceUnavailable, symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: yahoo chart %s: read body: %v", contracts.ErrSourceUnavailable, symbol, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: yahoo chart %s", contracts.ErrNotFound, symbol)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: yahoo chart %s: status %d", contracts.ErrSourceUnavailable, symbol, resp.StatusCode)
	}

	series, err := c.parseChart(body, symbol)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, cacheKey, series, c.cacheTTL)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"count":  len(series.Points),
	}).Debug("Fetched daily closes")
	return series, nil
}

// parseChart parses the chart API response into a raw series
func (c *Client) parseChart(body []byte, symbol string) (*contracts.RawSeries, error) {
	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("%w: yahoo chart %s: decode: %v", contracts.ErrSourceUnavailable, symbol, err)
	}

	if chart.Chart.Error != nil {
		if chart.Chart.Error.Code == "Not Found" {
			return nil, fmt.Errorf("%w: yahoo chart %s: %s", contracts.ErrNotFound, symbol, chart.Chart.Error.Description)
		}
		return nil, fmt.Errorf("%w: yahoo chart %s: %s", contracts.ErrSourceUnavailable, symbol, chart.Chart.Error.Description)
	}

	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: yahoo chart %s: empty result", contracts.ErrNotFound, symbol)
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: yahoo chart %s: no quote data", contracts.ErrNotFound, symbol)
	}

	closes := result.Indicators.Quote[0].Close
	points := make([]contracts.RawPoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) {
			break
		}
		closeVal, ok := toFloat(closes[i])
		if !ok {
			// Yahoo reports null closes for halted days, skip them
			continue
		}
		points = append(points, contracts.RawPoint{
			Date:  time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Close: closeVal,
		})
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})

	currency := result.Meta.Currency
	if currency == "" {
		currency = "USD"
	}

	return &contracts.RawSeries{
		Symbol:   symbol,
		Currency: currency,
		Points:   points,
	}, nil
}

// toFloat converts a chart value to float64, rejecting nulls
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
