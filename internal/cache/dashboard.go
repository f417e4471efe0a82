package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stocklens/backend-go/internal/config"
	"github.com/stocklens/backend-go/internal/domain"
)

const (
	dashboardKeyPrefix = "dashboard:low_stock"
	dashboardScanBatch = 100
)

type LowStockDashboardCache interface {
	Get(ctx context.Context, filter domain.SalesFilter) (*domain.LowStockDashboard, bool, error)
	Set(ctx context.Context, filter domain.SalesFilter, dashboard *domain.LowStockDashboard) error
	InvalidateAll(ctx context.Context) error
}

type redisDashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopDashboardCache struct{}

func NewLowStockDashboardCache(cfg config.CacheConfig) (LowStockDashboardCache, error) {
	if !cfg.Enabled {
		return &noopDashboardCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg, cfg.DashboardTTLSeconds)
	if err != nil {
		return nil, err
	}

	return &redisDashboardCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopLowStockDashboardCache() LowStockDashboardCache {
	return &noopDashboardCache{}
}

func (c *redisDashboardCache) Get(ctx context.Context, filter domain.SalesFilter) (*domain.LowStockDashboard, bool, error) {
	key := buildDashboardKey(filter)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var dashboard domain.LowStockDashboard
	if err := json.Unmarshal(payload, &dashboard); err != nil {
		return nil, false, fmt.Errorf("decode low stock dashboard cache: %w", err)
	}

	return &dashboard, true, nil
}

func (c *redisDashboardCache) Set(ctx context.Context, filter domain.SalesFilter, dashboard *domain.LowStockDashboard) error {
	key := buildDashboardKey(filter)
	payload, err := json.Marshal(dashboard)
	if err != nil {
		return fmt.Errorf("encode low stock dashboard cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (c *redisDashboardCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, dashboardKeyPrefix, dashboardScanBatch)
}

func (n *noopDashboardCache) Get(ctx context.Context, filter domain.SalesFilter) (*domain.LowStockDashboard, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) Set(ctx context.Context, filter domain.SalesFilter, dashboard *domain.LowStockDashboard) error {
	return nil
}

func (n *noopDashboardCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildDashboardKey(filter domain.SalesFilter) string {
	var parts []string

	if filter.WarehouseID != "" {
		parts = append(parts, "warehouse="+strings.TrimSpace(filter.WarehouseID))
	}
	if filter.Category != "" {
		parts = append(parts, "category="+strings.ToLower(strings.TrimSpace(filter.Category)))
	}
	if len(filter.ProductIDs) > 0 {
		ids := append([]string(nil), filter.ProductIDs...)
		for i := range ids {
			ids[i] = strings.TrimSpace(strings.ToLower(ids[i]))
		}
		sort.Strings(ids)
		parts = append(parts, "product_ids="+strings.Join(ids, ","))
	}

	if len(parts) == 0 {
		return dashboardKeyPrefix + ":default"
	}

	sort.Strings(parts)
	raw := strings.Join(parts, "|")
	sum := sha1.Sum([]byte(raw))
	return fmt.Sprintf("%s:%s", dashboardKeyPrefix, hex.EncodeToString(sum[:]))
}
