package cadastre

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/terralink/cadastre/checklog"
	"github.com/terralink/cadastre/plugin"
	"github.com/terralink/cadastre/policy"
	"github.com/terralink/cadastre/store"

	"github.com/terralink/cadastre/id"
)

// Engine is the central authorization engine. It loads a principal's
// assignments, binds policy documents to their variables, and folds the
// clauses into a decision. Evaluation is read-only; all failure paths
// degrade to deny.
type Engine struct {
	store     store.Store
	evaluator Evaluator
	cache     Cache
	plugins   *plugin.Registry
	logger    *slog.Logger
	config    Config
}

// NewEngine creates a new engine with the given options.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		evaluator: DefaultEvaluator(),
		logger:    slog.Default(),
		config:    DefaultConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.store == nil {
		return nil, errors.New("cadastre: store is required")
	}
	return e, nil
}

// Store returns the underlying composite store.
func (e *Engine) Store() store.Store { return e.store }

// Plugins returns the plugin registry (may be nil).
func (e *Engine) Plugins() *plugin.Registry { return e.plugins }

// Binder returns a binder sharing the engine's store, cache, plugins and
// logger.
func (e *Engine) Binder() *Binder {
	return &Binder{
		store:   e.store,
		cache:   e.cache,
		plugins: e.plugins,
		logger:  e.logger,
	}
}

// Start performs any startup initialization.
func (e *Engine) Start(_ context.Context) error { return nil }

// Stop performs graceful shutdown.
func (e *Engine) Stop(ctx context.Context) error {
	if e.plugins != nil {
		e.plugins.EmitShutdown(ctx)
	}
	return nil
}

// LoadSeedDocuments stores the built-in policy documents for any name not
// yet present. Existing documents are left untouched, so redeploys never
// bump versions.
func (e *Engine) LoadSeedDocuments(ctx context.Context) error {
	for _, d := range policy.SeedDocuments() {
		_, err := e.store.GetDocumentByName(ctx, d.Name)
		if err == nil {
			continue
		}

		if createErr := e.store.CreateDocument(ctx, d); createErr != nil {
			return fmt.Errorf("cadastre: seed document %q: %w", d.Name, createErr)
		}

		if e.plugins != nil {
			e.plugins.EmitDocumentCreated(ctx, d)
		}
	}

	return nil
}

// Check performs an authorization check. This is the hot path.
func (e *Engine) Check(ctx context.Context, req *CheckRequest) (*CheckResult, error) {
	start := time.Now()

	// 1. Cache hit?
	if e.cache != nil && e.config.CacheTTL > 0 {
		if cached, ok := e.cache.Get(ctx, req); ok {
			cached.EvalTimeNs = time.Since(start).Nanoseconds()
			return cached, nil
		}
	}

	// 2. Extension hook: before check.
	if e.plugins != nil {
		e.plugins.EmitBeforeCheck(ctx, req)
	}

	// 3. Load assignments in grant order and bind their documents.
	bound, err := e.boundPolicies(ctx, req.PrincipalID)
	if err != nil {
		return nil, fmt.Errorf("cadastre check: %w", err)
	}

	// 4. Fold clauses: deny wins, then allow, then default deny.
	result, err := e.evaluator.Evaluate(ctx, bound, req)
	if err != nil {
		return nil, fmt.Errorf("cadastre check: %w", err)
	}
	result.EvalTimeNs = time.Since(start).Nanoseconds()

	// 5. Cache the result.
	if e.cache != nil && e.config.CacheTTL > 0 {
		e.cache.Set(ctx, req, result)
	}

	// 6. Best-effort audit trail.
	if e.config.LogDecisions {
		e.logDecision(ctx, req, result)
	}

	// 7. Extension hook: after check.
	if e.plugins != nil {
		e.plugins.EmitAfterCheck(ctx, req, result)
	}

	return result, nil
}

// IsAllowed is a shorthand for a simple authorization check.
func (e *Engine) IsAllowed(ctx context.Context, principalID id.PrincipalID, action, object string) (bool, error) {
	result, err := e.Check(ctx, &CheckRequest{
		PrincipalID: principalID,
		Action:      action,
		Object:      object,
	})
	if err != nil {
		return false, err
	}
	return result.Allowed, nil
}

// Enforce returns ErrAccessDenied if the authorization check is denied.
func (e *Engine) Enforce(ctx context.Context, req *CheckRequest) error {
	result, err := e.Check(ctx, req)
	if err != nil {
		return fmt.Errorf("cadastre check: %w", err)
	}
	if !result.Allowed {
		return fmt.Errorf("%w: %s: %s", ErrAccessDenied, result.Decision, result.Reason)
	}
	return nil
}

// boundPolicies loads the principal's assignments in Seq order and resolves
// each to its pinned document version. A dangling assignment (document
// deleted out from under it) is skipped with a warning: it must neither
// grant access nor fail the check.
func (e *Engine) boundPolicies(ctx context.Context, principalID id.PrincipalID) ([]*BoundPolicy, error) {
	assignments, err := e.store.ListAssignmentsForPrincipal(ctx, principalID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}

	bound := make([]*BoundPolicy, 0, len(assignments))
	for _, a := range assignments {
		doc, err := e.store.GetDocument(ctx, a.PolicyID)
		if err != nil {
			e.logger.Warn("skipping assignment with missing policy document",
				slog.String("principal_id", principalID.String()),
				slog.String("policy_id", a.PolicyID.String()),
				slog.String("policy_name", a.PolicyName),
				slog.String("error", err.Error()),
			)
			continue
		}

		bound = append(bound, &BoundPolicy{
			Name:      doc.Name,
			Version:   doc.Version,
			Clauses:   doc.Clauses,
			Variables: a.Variables,
		})
	}

	return bound, nil
}

func (e *Engine) logDecision(ctx context.Context, req *CheckRequest, result *CheckResult) {
	entry := &checklog.Entry{
		PrincipalID: req.PrincipalID,
		Action:      req.Action,
		Object:      req.Object,
		Decision:    string(result.Decision),
		Reason:      result.Reason,
		EvalTimeNs:  result.EvalTimeNs,
	}
	if err := e.store.CreateCheckLog(ctx, entry); err != nil {
		e.logger.Warn("failed to write decision log",
			slog.String("principal_id", req.PrincipalID.String()),
			slog.String("action", req.Action),
			slog.String("error", err.Error()),
		)
	}
}
