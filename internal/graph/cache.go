package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	sharedredis "github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/shared/redis"

	"github.com/redis/go-redis/v9"
)

const neighborCacheTTL = 5 * time.Minute

// Cache is a read-through layer over Neighbors backed by redis. It is never
// the source of truth: every tunnel mutation invalidates the affected key. A
// nil *Cache (redis disabled) is a permanent miss.
type Cache struct {
	client *sharedredis.Client
	logger *slog.Logger
}

func NewCache(client *sharedredis.Client, logger *slog.Logger) *Cache {
	if client == nil {
		return nil
	}
	return &Cache{client: client, logger: logger}
}

func neighborKey(nodeID int) string {
	return fmt.Sprintf("nav:neighbors:%d", nodeID)
}

func (c *Cache) Neighbors(ctx context.Context, nodeID int) ([]int, bool) {
	if c == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, neighborKey(nodeID)).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("Neighbor cache read failed", "node_id", nodeID, "error", err)
		return nil, false
	}

	var neighbors []int
	if err := json.Unmarshal([]byte(raw), &neighbors); err != nil {
		c.logger.Warn("Neighbor cache entry corrupt, dropping", "node_id", nodeID, "error", err)
		c.Invalidate(ctx, nodeID)
		return nil, false
	}

	return neighbors, true
}

func (c *Cache) SetNeighbors(ctx context.Context, nodeID int, neighbors []int) {
	if c == nil {
		return
	}

	data, err := json.Marshal(neighbors)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, neighborKey(nodeID), data, neighborCacheTTL).Err(); err != nil {
		c.logger.Warn("Neighbor cache write failed", "node_id", nodeID, "error", err)
	}
}

func (c *Cache) Invalidate(ctx context.Context, nodeIDs ...int) {
	if c == nil || len(nodeIDs) == 0 {
		return
	}

	keys := make([]string, len(nodeIDs))
	for i, id := range nodeIDs {
		keys[i] = neighborKey(id)
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("Neighbor cache invalidation failed", "node_ids", nodeIDs, "error", err)
	}
}
