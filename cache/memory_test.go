package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/terralink/cadastre"
	"github.com/terralink/cadastre/id"
)

func TestMemoryCacheHitMiss(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(WithTTL(time.Minute))

	req := &cadastre.CheckRequest{
		PrincipalID: id.NewPrincipalID(),
		Action:      "org.view",
		Object:      "organization/big-org",
	}
	result := &cadastre.CheckResult{Allowed: true, Decision: cadastre.DecisionAllow}

	// Miss
	_, ok := c.Get(ctx, req)
	if ok {
		t.Fatal("expected cache miss")
	}

	// Set + Hit
	c.Set(ctx, req, result)
	got, ok := c.Get(ctx, req)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if !got.Allowed {
		t.Fatal("expected allowed")
	}
}

func TestMemoryCacheTTLExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(WithTTL(1 * time.Millisecond))

	req := &cadastre.CheckRequest{
		PrincipalID: id.NewPrincipalID(),
		Action:      "org.view",
		Object:      "organization/big-org",
	}

	c.Set(ctx, req, &cadastre.CheckResult{Allowed: true})
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get(ctx, req)
	if ok {
		t.Fatal("expected cache miss after TTL expiry")
	}
}

func TestMemoryCacheInvalidatePrincipal(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	p1 := id.NewPrincipalID()
	p2 := id.NewPrincipalID()

	req1 := &cadastre.CheckRequest{PrincipalID: p1, Action: "org.view", Object: "organization/big-org"}
	req2 := &cadastre.CheckRequest{PrincipalID: p1, Action: "project.view", Object: "project/big-org/survey"}
	req3 := &cadastre.CheckRequest{PrincipalID: p2, Action: "org.view", Object: "organization/big-org"}

	c.Set(ctx, req1, &cadastre.CheckResult{Allowed: true})
	c.Set(ctx, req2, &cadastre.CheckResult{Allowed: false})
	c.Set(ctx, req3, &cadastre.CheckResult{Allowed: true})

	c.InvalidatePrincipal(ctx, p1)

	if _, ok := c.Get(ctx, req1); ok {
		t.Fatal("p1 req1 should be invalidated")
	}
	if _, ok := c.Get(ctx, req2); ok {
		t.Fatal("p1 req2 should be invalidated")
	}
	if _, ok := c.Get(ctx, req3); !ok {
		t.Fatal("p2 req3 should still be cached")
	}
}

func TestMemoryCachePurge(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	req := &cadastre.CheckRequest{PrincipalID: id.NewPrincipalID(), Action: "org.view", Object: "organization/big-org"}
	c.Set(ctx, req, &cadastre.CheckResult{Allowed: true})

	c.Purge(ctx)

	if _, ok := c.Get(ctx, req); ok {
		t.Fatal("expected miss after purge")
	}
}

func TestMemoryCacheMaxSize(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(WithMaxSize(2))

	principalID := id.NewPrincipalID()
	for i := 0; i < 5; i++ {
		req := &cadastre.CheckRequest{
			PrincipalID: principalID,
			Action:      "spatial.view",
			Object:      fmt.Sprintf("spatial/big-org/survey/unit-%d", i),
		}
		c.Set(ctx, req, &cadastre.CheckResult{Allowed: true})
	}

	c.mu.RLock()
	size := len(c.entries)
	c.mu.RUnlock()
	if size > 2 {
		t.Fatalf("expected max 2 entries, got %d", size)
	}
}
