// Package plugin defines the plugin system for cadastre.
// Plugins are notified of lifecycle events (check performed, assignment
// created, membership changed, etc.) and can react with logging, metrics,
// tracing or webhook fan-out.
//
// Each lifecycle hook is a separate interface so plugins opt in only
// to the events they care about.
package plugin

import (
	"context"

	"github.com/terralink/cadastre/assignment"
	"github.com/terralink/cadastre/id"
	"github.com/terralink/cadastre/membership"
	"github.com/terralink/cadastre/policy"
)

// Plugin is the base interface all plugins must implement.
type Plugin interface {
	// Name returns a unique human-readable name for the plugin.
	Name() string
}

// ──────────────────────────────────────────────────
// Check lifecycle hooks
// ──────────────────────────────────────────────────

// BeforeCheck is called before an authorization check is evaluated.
// The req parameter is *cadastre.CheckRequest (passed as any to avoid import cycle).
type BeforeCheck interface {
	OnBeforeCheck(ctx context.Context, req any) error
}

// AfterCheck is called after an authorization check completes.
// The req parameter is *cadastre.CheckRequest; result is *cadastre.CheckResult.
type AfterCheck interface {
	OnAfterCheck(ctx context.Context, req, result any) error
}

// ──────────────────────────────────────────────────
// Assignment lifecycle hooks
// ──────────────────────────────────────────────────

// AssignmentCreated is called after a policy is assigned to a principal.
type AssignmentCreated interface {
	OnAssignmentCreated(ctx context.Context, a *assignment.Assignment) error
}

// AssignmentRevoked is called after assignments are revoked from a
// principal. Revocations are reported by policy name and variables since a
// single revoke may remove several stored rows.
type AssignmentRevoked interface {
	OnAssignmentRevoked(ctx context.Context, principalID id.PrincipalID, policyName string, vars []assignment.Variable) error
}

// ──────────────────────────────────────────────────
// Membership lifecycle hooks
// ──────────────────────────────────────────────────

// OrganizationRoleChanged is called after an organization membership is
// created, updated or deleted and the binder has finished rebinding.
type OrganizationRoleChanged interface {
	OnOrganizationRoleChanged(ctx context.Context, r *membership.OrganizationRole) error
}

// ProjectRoleChanged is called after a project membership is created,
// updated or deleted and the binder has finished rebinding.
type ProjectRoleChanged interface {
	OnProjectRoleChanged(ctx context.Context, r *membership.ProjectRole) error
}

// ──────────────────────────────────────────────────
// Policy lifecycle hooks
// ──────────────────────────────────────────────────

// DocumentCreated is called after a policy document version is stored.
type DocumentCreated interface {
	OnDocumentCreated(ctx context.Context, d *policy.Document) error
}

// ──────────────────────────────────────────────────
// Shutdown hook
// ──────────────────────────────────────────────────

// Shutdown is called during graceful shutdown.
type Shutdown interface {
	OnShutdown(ctx context.Context) error
}
