package cadastre

import (
	"context"

	"github.com/terralink/cadastre/id"
)

// Cache provides caching for authorization check results. The binder
// invalidates per principal whenever assignments change, so entries never
// outlive the grants they were computed from by more than the TTL.
type Cache interface {
	// Get returns a cached check result, if available.
	Get(ctx context.Context, req *CheckRequest) (*CheckResult, bool)

	// Set stores a check result in the cache.
	Set(ctx context.Context, req *CheckRequest, result *CheckResult)

	// InvalidatePrincipal removes all cached results for a principal.
	InvalidatePrincipal(ctx context.Context, principalID id.PrincipalID)

	// Purge removes all cached results.
	Purge(ctx context.Context)
}
