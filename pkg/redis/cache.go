package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Cache provides typed caching utilities
// ⭐ SSOT: 캐시 헬퍼는 여기서만
type Cache struct {
	client *Client
	prefix string
}

// NewCache creates a new cache helper
func NewCache(client *Client, prefix string) *Cache {
	return &Cache{
		client: client,
		prefix: prefix,
	}
}

// Get retrieves a cached value
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.client.Enabled() {
		return false, nil
	}

	fullKey := fmt.Sprintf("%s:cache:%s", c.prefix, key)
	data, err := c.client.Redis().Get(ctx, fullKey).Bytes()
	if err != nil {
		// Key not found is not an error
		return false, nil
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed: %w", err)
	}

	return true, nil
}

// Set stores a value in cache with TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.client.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}

	fullKey := fmt.Sprintf("%s:cache:%s", c.prefix, key)
	return c.client.Redis().Set(ctx, fullKey, data, ttl).Err()
}

// Delete removes a cached value
func (c *Cache) Delete(ctx context.Context, key string) error {
	if !c.client.Enabled() {
		return nil
	}

	fullKey := fmt.Sprintf("%s:cache:%s", c.prefix, key)
	return c.client.Redis().Del(ctx, fullKey).Err()
}

// Predefined TTLs
const (
	TTLShort  = 1 * time.Minute  // 실시간 시세
	TTLMedium = 15 * time.Minute // 원천 데이터 (raw records)
	TTLLong   = 1 * time.Hour    // 섹터 매핑
	TTLDaily  = 24 * time.Hour   // 일별 데이터
)

// Common cache key generators

// ChartKey caches raw price/benchmark chart payloads per symbol and window
func ChartKey(symbol, start, end string) string {
	return fmt.Sprintf("chart:%s:%s:%s", symbol, start, end)
}

// ProfileKey caches raw company profile payloads
func ProfileKey(ticker string) string {
	return fmt.Sprintf("profile:%s", ticker)
}

// FundingKey caches raw funding round payloads
func FundingKey(ticker string) string {
	return fmt.Sprintf("funding:%s", ticker)
}

// SectorKey caches resolved ticker -> sector index mappings
func SectorKey(ticker string) string {
	return fmt.Sprintf("sector:%s", ticker)
}
