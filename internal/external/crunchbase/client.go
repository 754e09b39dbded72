package crunchbase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/wonny/marketsnap/internal/contracts"
	"github.com/wonny/marketsnap/pkg/config"
	"github.com/wonny/marketsnap/pkg/httputil"
	"github.com/wonny/marketsnap/pkg/logger"
	"github.com/wonny/marketsnap/pkg/redis"
)

// Client fetches funding round history from the Crunchbase API
// ⭐ SSOT: 펀딩 라운드 조회는 이 클라이언트를 통해서만 수행
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	cache      *redis.Cache
	cacheTTL   time.Duration
	baseURL    string
	apiKey     string
}

// NewClient creates a new Crunchbase API client
func NewClient(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    cfg.Crunchbase.BaseURL,
		apiKey:     cfg.Crunchbase.APIKey,
	}
}

// WithCache enables Redis caching of fetched rounds
func (c *Client) WithCache(cache *redis.Cache, ttl time.Duration) *Client {
	c.cache = cache
	c.cacheTTL = ttl
	return c
}

// fundingResponse is the relevant part of the API payload
type fundingResponse struct {
	Organization struct {
		Name string `json:"name"`
	} `json:"organization"`
	FundingRounds []struct {
		AnnouncedOn string  `json:"announced_on"`
		RaisedUSD   float64 `json:"money_raised_usd"`
		Investors   []struct {
			Name string `json:"name"`
		} `json:"investors"`
	} `json:"funding_rounds"`
	Error string `json:"error,omitempty"`
}

// FetchFundingRounds returns all known financing events for a ticker,
// sorted by announcement date ascending.
func (c *Client) FetchFundingRounds(ctx context.Context, ticker string) ([]contracts.RawFundingRound, error) {
	cacheKey := redis.FundingKey(ticker)
	if c.cache != nil {
		var cached []contracts.RawFundingRound
		if found, _ := c.cache.Get(ctx, cacheKey, &cached); found {
			c.logger.WithField("ticker", ticker).Debug("Funding rounds served from cache")
			return cached, nil
		}
	}

	fullURL := fmt.Sprintf("%s/organizations/%s/funding_rounds", c.baseURL, strings.ToLower(ticker))

	headers := map[string]string{"Accept": "application/json"}
	if c.apiKey != "" {
		headers["X-Api-Key"] = c.apiKey
	}

	resp, err := c.httpClient.GetWithHeaders(ctx, fullURL, headers)
	if err != nil {
		return nil, fmt.Errorf("%w: funding %s: %v", contracts.ErrSourceUnavailable, ticker, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: funding %s", contracts.ErrNotFound, ticker)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: funding %s: status %d", contracts.ErrSourceUnavailable, ticker, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: funding %s: read body: %v", contracts.ErrSourceUnavailable, ticker, err)
	}

	rounds, err := parseFundingRounds(body, ticker)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, cacheKey, rounds, c.cacheTTL)
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"rounds": len(rounds),
	}).Debug("Fetched funding rounds")
	return rounds, nil
}

// parseFundingRounds decodes the API payload into raw rounds
func parseFundingRounds(body []byte, ticker string) ([]contracts.RawFundingRound, error) {
	var payload fundingResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: funding %s: decode: %v", contracts.ErrSourceUnavailable, ticker, err)
	}

	if payload.Error != "" {
		if strings.Contains(strings.ToLower(payload.Error), "not found") {
			return nil, fmt.Errorf("%w: funding %s: %s", contracts.ErrNotFound, ticker, payload.Error)
		}
		return nil, fmt.Errorf("%w: funding %s: %s", contracts.ErrSourceUnavailable, ticker, payload.Error)
	}

	rounds := make([]contracts.RawFundingRound, 0, len(payload.FundingRounds))
	for _, fr := range payload.FundingRounds {
		date, err := time.Parse("2006-01-02", fr.AnnouncedOn)
		if err != nil {
			// Rounds without a parsable date are unusable for a timeline
			continue
		}

		investors := make([]string, 0, len(fr.Investors))
		for _, inv := range fr.Investors {
			if inv.Name != "" {
				investors = append(investors, inv.Name)
			}
		}

		rounds = append(rounds, contracts.RawFundingRound{
			Date:      date.UTC(),
			Amount:    fr.RaisedUSD,
			Investors: investors,
		})
	}

	sort.Slice(rounds, func(i, j int) bool {
		return rounds[i].Date.Before(rounds[j].Date)
	})

	return rounds, nil
}
