package commands

import (
	"time"

	"github.com/wonny/marketsnap/internal/contracts"
	"github.com/wonny/marketsnap/internal/external/crunchbase"
	"github.com/wonny/marketsnap/internal/external/linkedin"
	"github.com/wonny/marketsnap/internal/external/yahoo"
	"github.com/wonny/marketsnap/internal/pipeline"
	"github.com/wonny/marketsnap/pkg/config"
	"github.com/wonny/marketsnap/pkg/httputil"
	"github.com/wonny/marketsnap/pkg/logger"
	"github.com/wonny/marketsnap/pkg/redis"
)

// buildRunner wires the provider clients into a pipeline runner.
// Redis is optional: with it disabled, caching is skipped and rate
// limiting falls back to in-process limiters.
func buildRunner(cfg *config.Config, log *logger.Logger) (*pipeline.Runner, *redis.Client, error) {
	redisClient, err := redis.New(cfg)
	if err != nil {
		return nil, nil, err
	}

	var cache *redis.Cache
	var limiter *redis.RateLimiter
	if redisClient.Enabled() {
		cache = redis.NewCache(redisClient, "marketsnap")
		limiter = redis.NewRateLimiter(redisClient, "marketsnap")
		log.Info("Redis cache and rate limiter enabled")
	}

	yahooHTTP := httputil.New(cfg, log)
	linkedinHTTP := httputil.New(cfg, log).WithUserAgent("Mozilla/5.0 (compatible; marketsnap/1.0)")
	crunchbaseHTTP := httputil.New(cfg, log)

	if limiter != nil {
		yahooHTTP.WithRateLimiter(limiter, redis.YahooRateLimit)
		linkedinHTTP.WithRateLimiter(limiter, redis.LinkedInRateLimit)
		crunchbaseHTTP.WithRateLimiter(limiter, redis.CrunchbaseRateLimit)
	} else {
		yahooHTTP.WithLocalRateLimit(5, 5)
		linkedinHTTP.WithLocalRateLimit(float64(10)/60, 2)
		crunchbaseHTTP.WithLocalRateLimit(1, 2)
	}

	yahooClient := yahoo.NewClient(cfg, yahooHTTP, log)
	linkedinClient := linkedin.NewClient(cfg, linkedinHTTP, log)
	crunchbaseClient := crunchbase.NewClient(cfg, crunchbaseHTTP, log)

	if cache != nil {
		ttl := cfg.Snapshot.CacheTTL
		if ttl <= 0 {
			ttl = 15 * time.Minute
		}
		yahooClient.WithCache(cache, ttl)
		linkedinClient.WithCache(cache, ttl)
		crunchbaseClient.WithCache(cache, ttl)
	}

	sources := []contracts.SourceClient{
		pipeline.NewPriceSource(yahooClient),
		pipeline.NewSectorSource(yahooClient),
		pipeline.NewMarketSource(yahooClient, cfg.Snapshot.MarketIndex),
		pipeline.NewProfileSource(linkedinClient),
		pipeline.NewFundingSource(crunchbaseClient),
	}

	runner := pipeline.NewRunner(sources, cfg.Snapshot.RunTimeout, log)
	return runner, redisClient, nil
}
