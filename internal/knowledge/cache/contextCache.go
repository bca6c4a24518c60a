package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/gitclixlogix/contentry-knowledge/internal/config"
	"github.com/gitclixlogix/contentry-knowledge/internal/data/redisStore"
	"github.com/gitclixlogix/contentry-knowledge/internal/domain/docModel"
	"github.com/gitclixlogix/contentry-knowledge/internal/knowledge/assembler"
	"github.com/gitclixlogix/contentry-knowledge/pkg/logger_i"
)

// ContextCache memoises assembled context strings in redis. Invalidation is
// indirect: every scope carries a version counter that ingestion and
// deletion bump, and the version participates in the cache key - stale
// entries become unreachable and age out through the TTL.
type ContextCache struct {
	store  *redisStore.Store
	ttl    time.Duration
	logger *logger_i.Logger
}

func NewContextCache(store *redisStore.Store, ttl time.Duration) *ContextCache {
	if store == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = config.ContextCacheTTL
	}
	return &ContextCache{
		store:  store,
		ttl:    ttl,
		logger: logger_i.NewLogger("Context Cache"),
	}
}

func versionKey(tier docModel.Tier, scopeId string) string {
	return fmt.Sprintf("ctxver:%s:%s", tier, scopeId)
}

func (c *ContextCache) Get(ctx context.Context, req assembler.Request) (string, bool) {
	if c == nil {
		return "", false
	}
	val, err := c.store.Get(ctx, c.cacheKey(ctx, req))
	if c.store.IsNil(err) {
		return "", false
	} else if err != nil {
		c.logger.Error("cache read failed", "error", err)
		return "", false
	}
	return val, true
}

func (c *ContextCache) Put(ctx context.Context, req assembler.Request, assembledContext string) {
	if c == nil {
		return
	}
	if err := c.store.Set(ctx, c.cacheKey(ctx, req), assembledContext, c.ttl); err != nil {
		c.logger.Error("cache write failed", "error", err)
	}
}

// Invalidate bumps the scope's version so every cached context that touched
// it becomes unreachable.
func (c *ContextCache) Invalidate(ctx context.Context, tier docModel.Tier, scopeId string) {
	if c == nil {
		return
	}
	if _, err := c.store.Increment(ctx, versionKey(tier, scopeId)); err != nil {
		c.logger.Error("cache invalidation failed", "tier", tier, "scope", scopeId, "error", err)
	}
}

func (c *ContextCache) scopeVersion(ctx context.Context, tier docModel.Tier, scopeId string) string {
	if scopeId == "" {
		return "0"
	}
	val, err := c.store.Get(ctx, versionKey(tier, scopeId))
	if err != nil {
		return "0"
	}
	return val
}

func (c *ContextCache) cacheKey(ctx context.Context, req assembler.Request) string {
	hasher := sha256.New()
	fmt.Fprintf(hasher, "%s|%s|%s|%s|%s|%s",
		req.Query, req.UserId, req.CompanyId, req.ProfileId, req.ProfileType,
		strconv.Itoa(req.ResultsPerTier))
	fmt.Fprintf(hasher, "|%s|%s|%s|%s",
		c.scopeVersion(ctx, docModel.TierCompanyUniversal, req.CompanyId),
		c.scopeVersion(ctx, docModel.TierCompanyProfessional, req.CompanyId),
		c.scopeVersion(ctx, docModel.TierUser, req.UserId),
		c.scopeVersion(ctx, docModel.TierProfile, req.ProfileId))
	return "ctx:" + hex.EncodeToString(hasher.Sum(nil))
}
