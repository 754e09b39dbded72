package linkedin

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/marketsnap/internal/contracts"
	"github.com/wonny/marketsnap/pkg/config"
	"github.com/wonny/marketsnap/pkg/httputil"
	"github.com/wonny/marketsnap/pkg/logger"
	"github.com/wonny/marketsnap/pkg/redis"
)

// Client scrapes public company profile pages
// ⭐ SSOT: 회사 프로필 스크래핑은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	cache      *redis.Cache
	cacheTTL   time.Duration
	baseURL    string
}

// NewClient creates a new profile client
func NewClient(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    cfg.LinkedIn.BaseURL,
	}
}

// WithCache enables raw payload caching
func (c *Client) WithCache(cache *redis.Cache, ttl time.Duration) *Client {
	c.cache = cache
	c.cacheTTL = ttl
	return c
}

// FetchProfile fetches and parses the company about page for a ticker.
// Company slugs are assumed to match the lowercased ticker; a dedicated
// resolver can override via the configured base URL.
func (c *Client) FetchProfile(ctx context.Context, ticker string) (*contracts.RawProfile, error) {
	cacheKey := redis.ProfileKey(ticker)
	if c.cache != nil {
		var cached contracts.RawProfile
		if found, _ := c.cache.Get(ctx, cacheKey, &cached); found {
			c.logger.WithField("ticker", ticker).Debug("Profile served from cache")
			return &cached, nil
		}
	}

	fullURL := fmt.Sprintf("%s/%s/about", c.baseURL, strings.ToLower(ticker))

	resp, err := c.httpClient.GetWithHeaders(ctx, fullURL, map[string]string{
		"Accept": "text/html",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: profile %s: %v", contracts.ErrSourceUnavailable, ticker, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: profile %s", contracts.ErrNotFound, ticker)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: profile %s: status %d", contracts.ErrSourceUnavailable, ticker, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: profile %s: read body: %v", contracts.ErrSourceUnavailable, ticker, err)
	}

	profile, err := parseProfileHTML(string(body), ticker)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, cacheKey, profile, c.cacheTTL)
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker":      ticker,
		"specialties": len(profile.Specialties),
	}).Debug("Fetched company profile")
	return profile, nil
}

var employeeCountRe = regexp.MustCompile(`([\d,]+)\s+employees`)

// parseProfileHTML extracts profile fields from the about page
func parseProfileHTML(html, ticker string) (*contracts.RawProfile, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: profile %s: parse html: %v", contracts.ErrSourceUnavailable, ticker, err)
	}

	profile := &contracts.RawProfile{
		Name:        strings.TrimSpace(doc.Find("h1").First().Text()),
		Description: strings.TrimSpace(doc.Find("section.about p, p.about-description").First().Text()),
	}

	// Definition lists carry the structured fields
	doc.Find("dl dt").Each(func(i int, dt *goquery.Selection) {
		label := strings.ToLower(strings.TrimSpace(dt.Text()))
		dd := dt.NextFiltered("dd")
		value := strings.TrimSpace(dd.Text())
		if value == "" {
			return
		}

		switch label {
		case "industry":
			profile.Industry = value
		case "website":
			profile.Website = value
		case "company size", "employees":
			if n, ok := parseEmployeeCount(value); ok {
				profile.EmployeeCount = &n
			}
		case "specialties":
			for _, s := range strings.Split(value, ",") {
				if trimmed := strings.TrimSpace(s); trimmed != "" {
					profile.Specialties = append(profile.Specialties, trimmed)
				}
			}
		}
	})

	// Some layouts put the headcount in free text instead
	if profile.EmployeeCount == nil {
		if m := employeeCountRe.FindStringSubmatch(doc.Text()); m != nil {
			if n, ok := parseEmployeeCount(m[1]); ok {
				profile.EmployeeCount = &n
			}
		}
	}

	if profile.Name == "" && profile.Description == "" && profile.EmployeeCount == nil {
		return nil, fmt.Errorf("%w: profile %s: page has no profile data", contracts.ErrNotFound, ticker)
	}

	return profile, nil
}

// parseEmployeeCount parses headcount strings like "10,001" or "51-200"
func parseEmployeeCount(s string) (int, bool) {
	s = strings.ReplaceAll(s, ",", "")
	// Ranges report their lower bound
	if idx := strings.IndexAny(s, "-–"); idx > 0 {
		s = s[:idx]
	}
	s = strings.TrimSpace(strings.TrimSuffix(s, "+"))

	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
