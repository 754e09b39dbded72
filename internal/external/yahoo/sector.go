package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/wonny/marketsnap/internal/contracts"
	"github.com/wonny/marketsnap/pkg/redis"
)

// sectorIndexes maps Yahoo sector names to SPDR sector index symbols
var sectorIndexes = map[string]string{
	"Technology":             "^XLK",
	"Financial Services":     "^XLF",
	"Healthcare":             "^XLV",
	"Energy":                 "^XLE",
	"Consumer Cyclical":      "^XLY",
	"Consumer Defensive":     "^XLP",
	"Industrials":            "^XLI",
	"Basic Materials":        "^XLB",
	"Utilities":              "^XLU",
	"Real Estate":            "^XLRE",
	"Communication Services": "^XLC",
}

// SectorIndex returns the index symbol for a sector name
func SectorIndex(sector string) (string, bool) {
	symbol, ok := sectorIndexes[sector]
	return symbol, ok
}

// quoteSummaryResponse is the v10 quoteSummary envelope, trimmed to the
// assetProfile module
type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			AssetProfile struct {
				Sector   string `json:"sector"`
				Industry string `json:"industry"`
				Website  string `json:"website"`
			} `json:"assetProfile"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// ResolveSectorIndex resolves a ticker to its sector benchmark symbol.
// Returns ErrNotFound when the ticker has no profile or its sector has
// no index mapping; the caller treats both as a missing benchmark.
func (c *Client) ResolveSectorIndex(ctx context.Context, ticker string) (string, error) {
	cacheKey := redis.SectorKey(ticker)
	if c.cache != nil {
		var cached string
		if found, _ := c.cache.Get(ctx, cacheKey, &cached); found {
			return cached, nil
		}
	}

	fullURL := fmt.Sprintf("%s/%s?modules=assetProfile", c.summaryBaseURL, url.PathEscape(ticker))

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return "", fmt.Errorf("%w: yahoo summary %s: %v", contracts.ErrSourceUnavailable, ticker, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: yahoo summary %s: read body: %v", contracts.ErrSourceUnavailable, ticker, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("%w: yahoo summary %s", contracts.ErrNotFound, ticker)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("%w: yahoo summary %s: status %d", contracts.ErrSourceUnavailable, ticker, resp.StatusCode)
	}

	symbol, err := parseSectorIndex(body, ticker)
	if err != nil {
		return "", err
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, cacheKey, symbol, redis.TTLLong)
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"index":  symbol,
	}).Debug("Resolved sector index")
	return symbol, nil
}

// parseSectorIndex extracts the sector and maps it to an index symbol
func parseSectorIndex(body []byte, ticker string) (string, error) {
	var summary quoteSummaryResponse
	if err := json.Unmarshal(body, &summary); err != nil {
		return "", fmt.Errorf("%w: yahoo summary %s: decode: %v", contracts.ErrSourceUnavailable, ticker, err)
	}

	if summary.QuoteSummary.Error != nil {
		return "", fmt.Errorf("%w: yahoo summary %s: %s", contracts.ErrNotFound, ticker, summary.QuoteSummary.Error.Description)
	}

	if len(summary.QuoteSummary.Result) == 0 {
		return "", fmt.Errorf("%w: yahoo summary %s: empty result", contracts.ErrNotFound, ticker)
	}

	sector := summary.QuoteSummary.Result[0].AssetProfile.Sector
	if sector == "" {
		return "", fmt.Errorf("%w: yahoo summary %s: no sector in profile", contracts.ErrNotFound, ticker)
	}

	symbol, ok := SectorIndex(sector)
	if !ok {
		return "", fmt.Errorf("%w: yahoo summary %s: no index for sector %q", contracts.ErrNotFound, ticker, sector)
	}

	return symbol, nil
}
