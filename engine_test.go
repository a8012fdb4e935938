package cadastre

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/terralink/cadastre/assignment"
	"github.com/terralink/cadastre/checklog"
	"github.com/terralink/cadastre/id"
	"github.com/terralink/cadastre/policy"
	"github.com/terralink/cadastre/principal"
	"github.com/terralink/cadastre/store/memory"
)

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *memory.Store) {
	t.Helper()
	s := memory.New()
	eng, err := NewEngine(append([]Option{WithStore(s)}, opts...)...)
	if err != nil {
		t.Fatal(err)
	}
	if err := eng.LoadSeedDocuments(context.Background()); err != nil {
		t.Fatalf("LoadSeedDocuments: %v", err)
	}
	return eng, s
}

func TestNewEngineRequiresStore(t *testing.T) {
	if _, err := NewEngine(); err == nil {
		t.Fatal("expected error when store is nil")
	}
}

func TestLoadSeedDocumentsIdempotent(t *testing.T) {
	ctx := context.Background()
	eng, s := newTestEngine(t)

	if err := eng.LoadSeedDocuments(ctx); err != nil {
		t.Fatalf("LoadSeedDocuments (second run): %v", err)
	}
	doc, err := s.GetDocumentByName(ctx, policy.SeedDefault)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Version != 1 {
		t.Fatalf("reseeding bumped version to %d", doc.Version)
	}
}

func TestCheckDefaultPolicyFlow(t *testing.T) {
	ctx := context.Background()
	eng, s := newTestEngine(t)

	p := &principal.Principal{Username: "alice"}
	if err := s.CreatePrincipal(ctx, p); err != nil {
		t.Fatal(err)
	}
	if err := eng.Binder().GrantDefault(ctx, p.ID); err != nil {
		t.Fatal(err)
	}

	allowed, err := eng.IsAllowed(ctx, p.ID, "org.list", "organization")
	if err != nil {
		t.Fatalf("IsAllowed: %v", err)
	}
	if !allowed {
		t.Fatal("default policy must allow organization discovery")
	}

	allowed, err = eng.IsAllowed(ctx, p.ID, "org.update", "organization/big-org")
	if err != nil {
		t.Fatalf("IsAllowed: %v", err)
	}
	if allowed {
		t.Fatal("default policy must not allow organization updates")
	}
}

func TestCheckNoAssignments(t *testing.T) {
	eng, _ := newTestEngine(t)

	result, err := eng.Check(context.Background(), &CheckRequest{
		PrincipalID: id.NewPrincipalID(),
		Action:      "org.list",
		Object:      "organization",
	})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if result.Allowed || result.Decision != DecisionDenyNoAssignments {
		t.Fatalf("got (%v, %q), want deny_no_assignments", result.Allowed, result.Decision)
	}
}

func TestCheckSkipsDanglingAssignment(t *testing.T) {
	ctx := context.Background()
	eng, s := newTestEngine(t)

	p := &principal.Principal{Username: "bob"}
	if err := s.CreatePrincipal(ctx, p); err != nil {
		t.Fatal(err)
	}

	// An assignment whose document was deleted out from under it. It must
	// neither grant access nor fail the check.
	dangling := &assignment.Assignment{
		PrincipalID: p.ID,
		PolicyID:    id.NewPolicyID(),
		PolicyName:  "deleted-policy",
	}
	if err := s.CreateAssignment(ctx, dangling); err != nil {
		t.Fatal(err)
	}
	if err := eng.Binder().GrantDefault(ctx, p.ID); err != nil {
		t.Fatal(err)
	}

	allowed, err := eng.IsAllowed(ctx, p.ID, "org.list", "organization")
	if err != nil {
		t.Fatalf("IsAllowed: %v", err)
	}
	if !allowed {
		t.Fatal("surviving assignments must still be evaluated")
	}

	denied, err := eng.Check(ctx, &CheckRequest{PrincipalID: p.ID, Action: "org.archive", Object: "organization/x"})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if denied.Allowed {
		t.Fatal("a dangling assignment must not grant anything")
	}
}

func TestCheckWritesDecisionLog(t *testing.T) {
	ctx := context.Background()
	eng, s := newTestEngine(t, WithConfig(Config{LogDecisions: true}))

	p := &principal.Principal{Username: "carol"}
	if err := s.CreatePrincipal(ctx, p); err != nil {
		t.Fatal(err)
	}
	if err := eng.Binder().GrantDefault(ctx, p.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := eng.Check(ctx, &CheckRequest{PrincipalID: p.ID, Action: "org.list", Object: "organization"}); err != nil {
		t.Fatalf("Check: %v", err)
	}

	entries, err := s.ListCheckLogs(ctx, &checklog.QueryFilter{PrincipalID: &p.ID})
	if err != nil {
		t.Fatalf("ListCheckLogs: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("decision log has %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.Action != "org.list" || e.Object != "organization" || e.Decision != string(DecisionAllow) {
		t.Fatalf("unexpected log entry: %+v", e)
	}
}

func TestCheckDecisionLogOffByDefault(t *testing.T) {
	ctx := context.Background()
	eng, s := newTestEngine(t)

	p := &principal.Principal{Username: "dave"}
	if err := s.CreatePrincipal(ctx, p); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.Check(ctx, &CheckRequest{PrincipalID: p.ID, Action: "org.list", Object: "organization"}); err != nil {
		t.Fatalf("Check: %v", err)
	}

	entries, err := s.ListCheckLogs(ctx, &checklog.QueryFilter{})
	if err != nil {
		t.Fatalf("ListCheckLogs: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("decision log has %d entries, want 0", len(entries))
	}
}

// recordingCache counts hits and misses to observe the engine's cache path.
type recordingCache struct {
	mu      sync.Mutex
	entries map[string]*CheckResult
	sets    int
	hits    int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{entries: make(map[string]*CheckResult)}
}

func (c *recordingCache) key(req *CheckRequest) string {
	return req.PrincipalID.String() + "|" + req.Action + "|" + req.Object
}

func (c *recordingCache) Get(_ context.Context, req *CheckRequest) (*CheckResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.entries[c.key(req)]
	if ok {
		c.hits++
	}
	return r, ok
}

func (c *recordingCache) Set(_ context.Context, req *CheckRequest, result *CheckResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[c.key(req)] = result
	c.sets++
}

func (c *recordingCache) InvalidatePrincipal(_ context.Context, principalID id.PrincipalID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := principalID.String() + "|"
	for k := range c.entries {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(c.entries, k)
		}
	}
}

func (c *recordingCache) Purge(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*CheckResult)
}

func TestCheckUsesCache(t *testing.T) {
	ctx := context.Background()
	rc := newRecordingCache()
	eng, s := newTestEngine(t, WithCache(rc), WithConfig(Config{CacheTTL: time.Minute}))

	p := &principal.Principal{Username: "erin"}
	if err := s.CreatePrincipal(ctx, p); err != nil {
		t.Fatal(err)
	}
	if err := eng.Binder().GrantDefault(ctx, p.ID); err != nil {
		t.Fatal(err)
	}

	req := &CheckRequest{PrincipalID: p.ID, Action: "org.list", Object: "organization"}
	if _, err := eng.Check(ctx, req); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if rc.sets != 1 {
		t.Fatalf("cache sets = %d, want 1", rc.sets)
	}

	result, err := eng.Check(ctx, req)
	if err != nil {
		t.Fatalf("Check (cached): %v", err)
	}
	if rc.hits != 1 {
		t.Fatalf("cache hits = %d, want 1", rc.hits)
	}
	if !result.Allowed {
		t.Fatal("cached result must carry the original decision")
	}
}

func TestCheckZeroTTLBypassesCache(t *testing.T) {
	ctx := context.Background()
	rc := newRecordingCache()
	eng, s := newTestEngine(t, WithCache(rc), WithConfig(Config{CacheTTL: 0}))

	p := &principal.Principal{Username: "frank"}
	if err := s.CreatePrincipal(ctx, p); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.Check(ctx, &CheckRequest{PrincipalID: p.ID, Action: "org.list", Object: "organization"}); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if rc.sets != 0 || rc.hits != 0 {
		t.Fatalf("cache touched with zero TTL: sets=%d hits=%d", rc.sets, rc.hits)
	}
}

func TestBinderInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	rc := newRecordingCache()
	eng, s := newTestEngine(t, WithCache(rc), WithConfig(Config{CacheTTL: time.Minute}))

	p := &principal.Principal{Username: "grace"}
	if err := s.CreatePrincipal(ctx, p); err != nil {
		t.Fatal(err)
	}

	req := &CheckRequest{PrincipalID: p.ID, Action: "org.list", Object: "organization"}
	result, err := eng.Check(ctx, req)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if result.Allowed {
		t.Fatal("principal without grants must be denied")
	}

	// Granting through the engine's binder must evict the stale deny.
	if err := eng.Binder().GrantDefault(ctx, p.ID); err != nil {
		t.Fatal(err)
	}
	result, err = eng.Check(ctx, req)
	if err != nil {
		t.Fatalf("Check (after grant): %v", err)
	}
	if !result.Allowed {
		t.Fatal("grant must take effect immediately after invalidation")
	}
}

func TestEnforce(t *testing.T) {
	ctx := context.Background()
	eng, s := newTestEngine(t)

	p := &principal.Principal{Username: "heidi"}
	if err := s.CreatePrincipal(ctx, p); err != nil {
		t.Fatal(err)
	}
	if err := eng.Binder().GrantDefault(ctx, p.ID); err != nil {
		t.Fatal(err)
	}

	if err := eng.Enforce(ctx, &CheckRequest{PrincipalID: p.ID, Action: "org.list", Object: "organization"}); err != nil {
		t.Fatalf("Enforce (allowed): %v", err)
	}

	err := eng.Enforce(ctx, &CheckRequest{PrincipalID: p.ID, Action: "org.archive", Object: "organization/big-org"})
	if !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("Enforce (denied) = %v, want ErrAccessDenied", err)
	}
}
