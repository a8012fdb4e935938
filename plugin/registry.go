package plugin

import (
	"context"
	"log/slog"

	"github.com/terralink/cadastre/assignment"
	"github.com/terralink/cadastre/id"
	"github.com/terralink/cadastre/membership"
	"github.com/terralink/cadastre/policy"
)

// Named entry types pair a hook with the plugin name for logging.

type beforeCheckEntry struct {
	name string
	hook BeforeCheck
}
type afterCheckEntry struct {
	name string
	hook AfterCheck
}
type assignmentCreatedEntry struct {
	name string
	hook AssignmentCreated
}
type assignmentRevokedEntry struct {
	name string
	hook AssignmentRevoked
}
type orgRoleChangedEntry struct {
	name string
	hook OrganizationRoleChanged
}
type projectRoleChangedEntry struct {
	name string
	hook ProjectRoleChanged
}
type documentCreatedEntry struct {
	name string
	hook DocumentCreated
}
type shutdownEntry struct {
	name string
	hook Shutdown
}

// Registry holds registered plugins and dispatches lifecycle events.
// It type-caches plugins at registration time so emit calls iterate
// only over plugins implementing the relevant hook.
type Registry struct {
	plugins []Plugin
	logger  *slog.Logger

	beforeCheck        []beforeCheckEntry
	afterCheck         []afterCheckEntry
	assignmentCreated  []assignmentCreatedEntry
	assignmentRevoked  []assignmentRevokedEntry
	orgRoleChanged     []orgRoleChangedEntry
	projectRoleChanged []projectRoleChangedEntry
	documentCreated    []documentCreatedEntry
	shutdown           []shutdownEntry
}

// NewRegistry creates a plugin registry with the given logger.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{logger: logger}
}

// Register adds a plugin and type-asserts it into all applicable
// hook caches. Plugins are notified in registration order.
func (r *Registry) Register(p Plugin) {
	r.plugins = append(r.plugins, p)
	name := p.Name()

	if h, ok := p.(BeforeCheck); ok {
		r.beforeCheck = append(r.beforeCheck, beforeCheckEntry{name, h})
	}
	if h, ok := p.(AfterCheck); ok {
		r.afterCheck = append(r.afterCheck, afterCheckEntry{name, h})
	}
	if h, ok := p.(AssignmentCreated); ok {
		r.assignmentCreated = append(r.assignmentCreated, assignmentCreatedEntry{name, h})
	}
	if h, ok := p.(AssignmentRevoked); ok {
		r.assignmentRevoked = append(r.assignmentRevoked, assignmentRevokedEntry{name, h})
	}
	if h, ok := p.(OrganizationRoleChanged); ok {
		r.orgRoleChanged = append(r.orgRoleChanged, orgRoleChangedEntry{name, h})
	}
	if h, ok := p.(ProjectRoleChanged); ok {
		r.projectRoleChanged = append(r.projectRoleChanged, projectRoleChangedEntry{name, h})
	}
	if h, ok := p.(DocumentCreated); ok {
		r.documentCreated = append(r.documentCreated, documentCreatedEntry{name, h})
	}
	if h, ok := p.(Shutdown); ok {
		r.shutdown = append(r.shutdown, shutdownEntry{name, h})
	}
}

// Plugins returns all registered plugins.
func (r *Registry) Plugins() []Plugin { return r.plugins }

// EmitBeforeCheck notifies all plugins that implement BeforeCheck.
func (r *Registry) EmitBeforeCheck(ctx context.Context, req any) {
	for _, e := range r.beforeCheck {
		if err := e.hook.OnBeforeCheck(ctx, req); err != nil {
			r.logHookError("OnBeforeCheck", e.name, err)
		}
	}
}

// EmitAfterCheck notifies all plugins that implement AfterCheck.
func (r *Registry) EmitAfterCheck(ctx context.Context, req, result any) {
	for _, e := range r.afterCheck {
		if err := e.hook.OnAfterCheck(ctx, req, result); err != nil {
			r.logHookError("OnAfterCheck", e.name, err)
		}
	}
}

// EmitAssignmentCreated notifies all plugins that implement AssignmentCreated.
func (r *Registry) EmitAssignmentCreated(ctx context.Context, a *assignment.Assignment) {
	for _, e := range r.assignmentCreated {
		if err := e.hook.OnAssignmentCreated(ctx, a); err != nil {
			r.logHookError("OnAssignmentCreated", e.name, err)
		}
	}
}

// EmitAssignmentRevoked notifies all plugins that implement AssignmentRevoked.
func (r *Registry) EmitAssignmentRevoked(ctx context.Context, principalID id.PrincipalID, policyName string, vars []assignment.Variable) {
	for _, e := range r.assignmentRevoked {
		if err := e.hook.OnAssignmentRevoked(ctx, principalID, policyName, vars); err != nil {
			r.logHookError("OnAssignmentRevoked", e.name, err)
		}
	}
}

// EmitOrganizationRoleChanged notifies all plugins that implement
// OrganizationRoleChanged.
func (r *Registry) EmitOrganizationRoleChanged(ctx context.Context, role *membership.OrganizationRole) {
	for _, e := range r.orgRoleChanged {
		if err := e.hook.OnOrganizationRoleChanged(ctx, role); err != nil {
			r.logHookError("OnOrganizationRoleChanged", e.name, err)
		}
	}
}

// EmitProjectRoleChanged notifies all plugins that implement ProjectRoleChanged.
func (r *Registry) EmitProjectRoleChanged(ctx context.Context, role *membership.ProjectRole) {
	for _, e := range r.projectRoleChanged {
		if err := e.hook.OnProjectRoleChanged(ctx, role); err != nil {
			r.logHookError("OnProjectRoleChanged", e.name, err)
		}
	}
}

// EmitDocumentCreated notifies all plugins that implement DocumentCreated.
func (r *Registry) EmitDocumentCreated(ctx context.Context, d *policy.Document) {
	for _, e := range r.documentCreated {
		if err := e.hook.OnDocumentCreated(ctx, d); err != nil {
			r.logHookError("OnDocumentCreated", e.name, err)
		}
	}
}

// EmitShutdown notifies all plugins that implement Shutdown.
func (r *Registry) EmitShutdown(ctx context.Context) {
	for _, e := range r.shutdown {
		if err := e.hook.OnShutdown(ctx); err != nil {
			r.logHookError("OnShutdown", e.name, err)
		}
	}
}

// logHookError logs a warning when a lifecycle hook returns an error.
// Errors from hooks are never propagated; they must not block the pipeline.
func (r *Registry) logHookError(hook, pluginName string, err error) {
	r.logger.Warn("plugin hook error",
		slog.String("hook", hook),
		slog.String("plugin", pluginName),
		slog.String("error", err.Error()),
	)
}
