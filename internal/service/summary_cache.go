package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/watshodapay/watshodapay-go/internal/cache"
	"github.com/watshodapay/watshodapay-go/internal/logger"
	"github.com/watshodapay/watshodapay-go/internal/metrics"
	"github.com/watshodapay/watshodapay-go/internal/model"
)

const summaryEpochKey = "summary:epoch"

// SummaryCache stores each user's debts summary for one calendar day.
//
// Entry keys carry a global epoch and a per-user version. Invalidate moves
// the user to a new version and InvalidateAll moves everyone to a new epoch,
// so older entries become unreachable and expire with their ttl. A nil
// *SummaryCache caches nothing.
type SummaryCache struct {
	client cache.Client
	ttl    time.Duration
}

// NewSummaryCache creates a SummaryCache over client.
func NewSummaryCache(client cache.Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{client: client, ttl: ttl}
}

func (c *SummaryCache) read(ctx context.Context, key string) string {
	v, err := c.client.Get(ctx, key)
	if err != nil {
		return "0"
	}
	return v
}

func versionKey(userID int64) string {
	return fmt.Sprintf("summary:version:%d", userID)
}

func (c *SummaryCache) key(ctx context.Context, userID int64, day time.Time) string {
	return fmt.Sprintf("summary:%s:%s:%d:%s",
		c.read(ctx, summaryEpochKey), c.read(ctx, versionKey(userID)), userID, day.Format("2006-01-02"))
}

// Get returns the cached summary of userID for day and the key it is stored
// under. After a miss, a summary built from storage must be stored with Put
// under that same key; an invalidation in between then leaves it unread.
func (c *SummaryCache) Get(ctx context.Context, userID int64, day time.Time) (model.DebtsSummary, string, bool) {
	if c == nil {
		return model.DebtsSummary{}, "", false
	}
	key := c.key(ctx, userID, day)
	raw, err := c.client.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			metrics.CacheRequests.WithLabelValues("error").Inc()
			logger.From(ctx).Warn("summary cache read failed", logger.UserID(userID), logger.Err(err))
		} else {
			metrics.CacheRequests.WithLabelValues("miss").Inc()
		}
		return model.DebtsSummary{}, key, false
	}

	var s model.DebtsSummary
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		metrics.CacheRequests.WithLabelValues("error").Inc()
		return model.DebtsSummary{}, key, false
	}
	metrics.CacheRequests.WithLabelValues("hit").Inc()
	return s, key, true
}

// Put stores s under key, as returned by Get.
func (c *SummaryCache) Put(ctx context.Context, key string, s model.DebtsSummary) {
	if c == nil || key == "" {
		return
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, string(raw), c.ttl); err != nil {
		logger.From(ctx).Warn("summary cache write failed", logger.Err(err))
	}
}

// Invalidate drops every cached summary of userID.
func (c *SummaryCache) Invalidate(ctx context.Context, userID int64) {
	if c == nil {
		return
	}
	if err := c.client.Set(ctx, versionKey(userID), uuid.NewString(), 0); err != nil {
		logger.From(ctx).Warn("summary cache invalidation failed", logger.UserID(userID), logger.Err(err))
	}
}

// InvalidateAll drops every cached summary.
func (c *SummaryCache) InvalidateAll(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.client.Set(ctx, summaryEpochKey, uuid.NewString(), 0); err != nil {
		logger.From(ctx).Warn("summary cache epoch bump failed", logger.Err(err))
	}
}
