package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/srcnozturk/ECommerce-Mobiliva/internal/repository"
	"github.com/srcnozturk/ECommerce-Mobiliva/pkg/models"
)

const snapshotKey = "catalog:all-products"

// CatalogCache keeps the product snapshot in Redis so several API
// instances can share one entry. The absolute TTL is enforced by the
// key expiry set on write; the sliding floor is enforced by extending
// the expiry whenever a read finds less than the floor remaining.
type CatalogCache struct {
	client  *redis.Client
	ttl     time.Duration
	sliding time.Duration
	tracer  trace.Tracer
}

func NewCatalogCache(client *redis.Client, ttl, sliding time.Duration, tracer trace.Tracer) repository.CatalogCache {
	return &CatalogCache{client: client, ttl: ttl, sliding: sliding, tracer: tracer}
}

func (c *CatalogCache) GetSnapshot(ctx context.Context) ([]models.ProductView, bool, error) {
	ctx, span := c.tracer.Start(ctx, "redis.GetCatalogSnapshot")
	defer span.End()

	pipe := c.client.Pipeline()
	getCmd := pipe.Get(ctx, snapshotKey)
	ttlCmd := pipe.PTTL(ctx, snapshotKey)
	if _, err := pipe.Exec(ctx); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get snapshot: %w", err)
	}

	raw, err := getCmd.Bytes()
	if err != nil {
		return nil, false, fmt.Errorf("redis snapshot bytes: %w", err)
	}
	var views []models.ProductView
	if err := json.Unmarshal(raw, &views); err != nil {
		return nil, false, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	if remaining := ttlCmd.Val(); remaining > 0 && remaining < c.sliding {
		if err := c.client.PExpire(ctx, snapshotKey, c.sliding).Err(); err != nil {
			return nil, false, fmt.Errorf("redis extend snapshot: %w", err)
		}
	}
	span.SetAttributes(attribute.Int("products.count", len(views)))
	return views, true, nil
}

func (c *CatalogCache) SetSnapshot(ctx context.Context, products []models.ProductView) error {
	ctx, span := c.tracer.Start(ctx, "redis.SetCatalogSnapshot")
	defer span.End()

	raw, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := c.client.Set(ctx, snapshotKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set snapshot: %w", err)
	}
	span.SetAttributes(attribute.Int("products.count", len(products)))
	return nil
}
