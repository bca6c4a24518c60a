package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/gitclixlogix/contentry-knowledge/internal/data/redisStore"
	"github.com/gitclixlogix/contentry-knowledge/internal/domain/docModel"
	"github.com/gitclixlogix/contentry-knowledge/internal/knowledge/assembler"
)

func newCache(t *testing.T) *ContextCache {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewContextCache(redisStore.NewTestStore(client), time.Minute)
}

func TestContextCache_Roundtrip(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()
	req := assembler.Request{
		Query: "write a post", UserId: "alice", CompanyId: "acme",
		ProfileType: docModel.ProfileCompany, ResultsPerTier: 3,
	}

	if _, found := c.Get(ctx, req); found {
		t.Fatal("Fresh cache should miss")
	}

	c.Put(ctx, req, "assembled context")

	got, found := c.Get(ctx, req)
	if !found || got != "assembled context" {
		t.Errorf("Expected cache hit with stored value, got found=%v val=%q", found, got)
	}
}

func TestContextCache_KeyCoversRequestFields(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()
	req := assembler.Request{Query: "q", UserId: "alice", ProfileType: docModel.ProfilePersonal}

	c.Put(ctx, req, "for alice")

	other := req
	other.UserId = "bob"
	if _, found := c.Get(ctx, other); found {
		t.Error("A different user must not hit alice's cache entry")
	}

	other = req
	other.ProfileType = docModel.ProfileCompany
	if _, found := c.Get(ctx, other); found {
		t.Error("A different profile type must not share the entry")
	}
}

func TestContextCache_InvalidationByScope(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()
	req := assembler.Request{
		Query: "q", UserId: "alice", CompanyId: "acme",
		ProfileType: docModel.ProfilePersonal,
	}

	c.Put(ctx, req, "stale soon")
	if _, found := c.Get(ctx, req); !found {
		t.Fatal("Expected a hit before invalidation")
	}

	// Ingestion into any participating scope bumps its version.
	c.Invalidate(ctx, docModel.TierCompanyUniversal, "acme")

	if _, found := c.Get(ctx, req); found {
		t.Error("Entry must become unreachable after its scope is invalidated")
	}
}

func TestContextCache_InvalidationOfUnrelatedScope(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()
	req := assembler.Request{Query: "q", UserId: "alice", ProfileType: docModel.ProfilePersonal}

	c.Put(ctx, req, "still valid")
	c.Invalidate(ctx, docModel.TierUser, "bob")

	if _, found := c.Get(ctx, req); !found {
		t.Error("Invalidating another scope must not evict this entry")
	}
}

func TestContextCache_NilIsDisabled(t *testing.T) {
	var c *ContextCache
	ctx := context.Background()
	req := assembler.Request{Query: "q", UserId: "alice"}

	// All operations must be safe no-ops on a nil cache.
	c.Put(ctx, req, "ignored")
	c.Invalidate(ctx, docModel.TierUser, "alice")
	if _, found := c.Get(ctx, req); found {
		t.Error("Nil cache must never report a hit")
	}

	if NewContextCache(nil, time.Minute) != nil {
		t.Error("A missing store must disable the cache entirely")
	}
}
