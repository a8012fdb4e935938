package cadastre

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/terralink/cadastre/assignment"
	"github.com/terralink/cadastre/id"
	"github.com/terralink/cadastre/membership"
	"github.com/terralink/cadastre/plugin"
	"github.com/terralink/cadastre/policy"
	"github.com/terralink/cadastre/store"
)

// varOrganization and varProject are the variable names bound by the
// binder. Clause placeholders in the seed documents reference them.
const (
	varOrganization = "organization"
	varProject      = "project"
)

// Binder translates membership relation changes into policy assignments.
// It is the only writer of binder-managed assignments; manual assignments
// under other policy names are never touched.
//
// Binder methods are idempotent: duplicate grants and absent revokes are
// no-ops, so redelivered membership events converge to the same state.
type Binder struct {
	store   store.Store
	cache   Cache
	plugins *plugin.Registry
	logger  *slog.Logger
}

// NewBinder creates a binder on the given store.
func NewBinder(s store.Store, opts ...BinderOption) *Binder {
	b := &Binder{
		store:  s,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BinderOption is a functional option for a standalone Binder.
type BinderOption func(*Binder)

// WithBinderCache sets the decision cache to invalidate on changes.
func WithBinderCache(c Cache) BinderOption { return func(b *Binder) { b.cache = c } }

// WithBinderLogger sets the structured logger.
func WithBinderLogger(l *slog.Logger) BinderOption { return func(b *Binder) { b.logger = l } }

// WithBinderPlugins sets the plugin registry to notify on changes.
func WithBinderPlugins(r *plugin.Registry) BinderOption { return func(b *Binder) { b.plugins = r } }

// GrantDefault assigns the default policy (no variables) to a principal.
// Called once when a principal is created.
func (b *Binder) GrantDefault(ctx context.Context, principalID id.PrincipalID) error {
	if err := b.grant(ctx, principalID, policy.SeedDefault, nil); err != nil {
		return err
	}
	b.invalidate(ctx, principalID)
	return nil
}

// OrganizationRoleCreated reacts to a new organization membership.
func (b *Binder) OrganizationRoleCreated(ctx context.Context, r *membership.OrganizationRole) error {
	vars, err := b.orgVars(ctx, r.OrganizationID)
	if err != nil {
		return err
	}

	if err := b.grant(ctx, r.PrincipalID, policy.SeedOrgMember, vars); err != nil {
		return err
	}
	if r.Admin {
		if err := b.grant(ctx, r.PrincipalID, policy.SeedOrgAdmin, vars); err != nil {
			return err
		}
	}

	b.invalidate(ctx, r.PrincipalID)
	if b.plugins != nil {
		b.plugins.EmitOrganizationRoleChanged(ctx, r)
	}
	return nil
}

// OrganizationRoleChanged reacts to a flipped admin flag. Membership itself
// is unchanged, so only the org-admin grant moves.
func (b *Binder) OrganizationRoleChanged(ctx context.Context, r *membership.OrganizationRole) error {
	vars, err := b.orgVars(ctx, r.OrganizationID)
	if err != nil {
		return err
	}

	if err := b.grant(ctx, r.PrincipalID, policy.SeedOrgMember, vars); err != nil {
		return err
	}

	if r.Admin {
		err = b.grant(ctx, r.PrincipalID, policy.SeedOrgAdmin, vars)
	} else {
		err = b.revoke(ctx, r.PrincipalID, policy.SeedOrgAdmin, vars)
	}
	if err != nil {
		return err
	}

	b.invalidate(ctx, r.PrincipalID)
	if b.plugins != nil {
		b.plugins.EmitOrganizationRoleChanged(ctx, r)
	}
	return nil
}

// OrganizationRoleDeleted reacts to a removed organization membership.
// The cascade is scoped to that organization: every assignment binding
// {organization} to its slug is revoked, and the principal's project roles
// within that organization's projects are deleted. Roles and assignments in
// other organizations are untouched.
func (b *Binder) OrganizationRoleDeleted(ctx context.Context, r *membership.OrganizationRole) error {
	org, err := b.store.GetOrganization(ctx, r.OrganizationID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrOrganizationNotFound, r.OrganizationID)
	}

	projects, err := b.store.ListProjectsForOrganization(ctx, r.OrganizationID)
	if err != nil {
		return fmt.Errorf("cadastre binder: list projects: %w", err)
	}
	for _, p := range projects {
		if err := b.store.DeleteProjectRole(ctx, r.PrincipalID, p.ID); err != nil {
			return fmt.Errorf("cadastre binder: delete project role: %w", err)
		}
	}

	// Emit revocations before the bulk delete so hooks see what goes away.
	if b.plugins != nil {
		assignments, listErr := b.store.ListAssignmentsForPrincipal(ctx, r.PrincipalID)
		if listErr == nil {
			for _, a := range assignments {
				if a.HasVariable(varOrganization, org.Slug) {
					b.plugins.EmitAssignmentRevoked(ctx, r.PrincipalID, a.PolicyName, a.Variables)
				}
			}
		}
	}

	if err := b.store.DeleteAssignmentsByVariable(ctx, r.PrincipalID, varOrganization, org.Slug); err != nil {
		return fmt.Errorf("cadastre binder: revoke organization assignments: %w", err)
	}

	b.invalidate(ctx, r.PrincipalID)
	if b.plugins != nil {
		b.plugins.EmitOrganizationRoleChanged(ctx, r)
	}
	return nil
}

// ProjectRoleCreated reacts to a new project membership.
func (b *Binder) ProjectRoleCreated(ctx context.Context, r *membership.ProjectRole) error {
	vars, err := b.projectVars(ctx, r.ProjectID)
	if err != nil {
		return err
	}

	if err := b.grant(ctx, r.PrincipalID, policyForRole(r.Role), vars); err != nil {
		return err
	}

	b.invalidate(ctx, r.PrincipalID)
	if b.plugins != nil {
		b.plugins.EmitProjectRoleChanged(ctx, r)
	}
	return nil
}

// ProjectRoleChanged reacts to a changed role code: the grants implied by
// the old and new codes differ by exactly one policy each way.
func (b *Binder) ProjectRoleChanged(ctx context.Context, r *membership.ProjectRole) error {
	vars, err := b.projectVars(ctx, r.ProjectID)
	if err != nil {
		return err
	}

	want := policyForRole(r.Role)
	for _, name := range projectPolicies {
		if name == want {
			continue
		}
		if err := b.revoke(ctx, r.PrincipalID, name, vars); err != nil {
			return err
		}
	}
	if err := b.grant(ctx, r.PrincipalID, want, vars); err != nil {
		return err
	}

	b.invalidate(ctx, r.PrincipalID)
	if b.plugins != nil {
		b.plugins.EmitProjectRoleChanged(ctx, r)
	}
	return nil
}

// ProjectRoleDeleted reacts to a removed project membership.
func (b *Binder) ProjectRoleDeleted(ctx context.Context, r *membership.ProjectRole) error {
	vars, err := b.projectVars(ctx, r.ProjectID)
	if err != nil {
		return err
	}

	for _, name := range projectPolicies {
		if err := b.revoke(ctx, r.PrincipalID, name, vars); err != nil {
			return err
		}
	}

	b.invalidate(ctx, r.PrincipalID)
	if b.plugins != nil {
		b.plugins.EmitProjectRoleChanged(ctx, r)
	}
	return nil
}

// Reconcile re-derives the expected binder-managed assignment set from the
// principal's current membership relations and repairs any drift. Drift is
// logged as a warning and repaired silently; callers never see
// ErrInconsistentAssignments.
func (b *Binder) Reconcile(ctx context.Context, principalID id.PrincipalID) error {
	expected, err := b.expectedAssignments(ctx, principalID)
	if err != nil {
		return err
	}

	actual, err := b.store.ListAssignmentsForPrincipal(ctx, principalID)
	if err != nil {
		return fmt.Errorf("cadastre binder: list assignments: %w", err)
	}

	seen := make(map[string]bool, len(actual))
	for _, a := range actual {
		if !managedPolicy(a.PolicyName) {
			continue
		}
		key := assignmentKey(a.PolicyName, a.Variables)
		if _, ok := expected[key]; !ok {
			b.logDrift(principalID, "revoking stray assignment", a.PolicyName, a.Variables)
			if err := b.revoke(ctx, principalID, a.PolicyName, a.Variables); err != nil {
				return err
			}
			continue
		}
		seen[key] = true
	}

	for key, grant := range expected {
		if seen[key] {
			continue
		}
		b.logDrift(principalID, "restoring missing assignment", grant.name, grant.vars)
		if err := b.grant(ctx, principalID, grant.name, grant.vars); err != nil {
			return err
		}
	}

	b.invalidate(ctx, principalID)
	return nil
}

type expectedGrant struct {
	name string
	vars []assignment.Variable
}

func (b *Binder) expectedAssignments(ctx context.Context, principalID id.PrincipalID) (map[string]expectedGrant, error) {
	expected := map[string]expectedGrant{
		assignmentKey(policy.SeedDefault, nil): {name: policy.SeedDefault},
	}

	orgRoles, err := b.store.ListOrganizationRolesForPrincipal(ctx, principalID)
	if err != nil {
		return nil, fmt.Errorf("cadastre binder: list organization roles: %w", err)
	}
	for _, r := range orgRoles {
		vars, err := b.orgVars(ctx, r.OrganizationID)
		if err != nil {
			return nil, err
		}
		expected[assignmentKey(policy.SeedOrgMember, vars)] = expectedGrant{policy.SeedOrgMember, vars}
		if r.Admin {
			expected[assignmentKey(policy.SeedOrgAdmin, vars)] = expectedGrant{policy.SeedOrgAdmin, vars}
		}
	}

	projRoles, err := b.store.ListProjectRolesForPrincipal(ctx, principalID)
	if err != nil {
		return nil, fmt.Errorf("cadastre binder: list project roles: %w", err)
	}
	for _, r := range projRoles {
		vars, err := b.projectVars(ctx, r.ProjectID)
		if err != nil {
			return nil, err
		}
		name := policyForRole(r.Role)
		expected[assignmentKey(name, vars)] = expectedGrant{name, vars}
	}

	return expected, nil
}

// projectPolicies are the binder-managed project-scope policy names.
var projectPolicies = []string{
	policy.SeedProjectManager,
	policy.SeedDataCollector,
	policy.SeedProjectUser,
}

func policyForRole(code membership.RoleCode) string {
	switch code {
	case membership.RoleProjectManager:
		return policy.SeedProjectManager
	case membership.RoleDataCollector:
		return policy.SeedDataCollector
	default:
		return policy.SeedProjectUser
	}
}

func managedPolicy(name string) bool {
	switch name {
	case policy.SeedDefault, policy.SeedOrgMember, policy.SeedOrgAdmin,
		policy.SeedProjectManager, policy.SeedDataCollector, policy.SeedProjectUser:
		return true
	default:
		return false
	}
}

func assignmentKey(name string, vars []assignment.Variable) string {
	var sb strings.Builder
	sb.WriteString(name)
	for _, v := range vars {
		sb.WriteByte('|')
		sb.WriteString(v.Name)
		sb.WriteByte('=')
		sb.WriteString(v.Value)
	}
	return sb.String()
}

func (b *Binder) orgVars(ctx context.Context, orgID id.OrganizationID) ([]assignment.Variable, error) {
	org, err := b.store.GetOrganization(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrOrganizationNotFound, orgID)
	}
	return []assignment.Variable{{Name: varOrganization, Value: org.Slug}}, nil
}

func (b *Binder) projectVars(ctx context.Context, projID id.ProjectID) ([]assignment.Variable, error) {
	proj, err := b.store.GetProject(ctx, projID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, projID)
	}
	org, err := b.store.GetOrganization(ctx, proj.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrOrganizationNotFound, proj.OrganizationID)
	}
	return []assignment.Variable{
		{Name: varOrganization, Value: org.Slug},
		{Name: varProject, Value: proj.Slug},
	}, nil
}

// grant assigns the latest version of a named policy. An existing identical
// assignment is treated as success.
func (b *Binder) grant(ctx context.Context, principalID id.PrincipalID, policyName string, vars []assignment.Variable) error {
	doc, err := b.store.GetDocumentByName(ctx, policyName)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrPolicyNotFound, policyName)
	}

	a := &assignment.Assignment{
		PrincipalID:   principalID,
		PolicyID:      doc.ID,
		PolicyName:    doc.Name,
		PolicyVersion: doc.Version,
		Variables:     vars,
	}
	if err := b.store.CreateAssignment(ctx, a); err != nil {
		if errors.Is(err, assignment.ErrDuplicate) {
			return nil
		}
		return fmt.Errorf("cadastre binder: assign %q: %w", policyName, err)
	}

	if b.plugins != nil {
		b.plugins.EmitAssignmentCreated(ctx, a)
	}
	return nil
}

// revoke removes the matching assignment, if any.
func (b *Binder) revoke(ctx context.Context, principalID id.PrincipalID, policyName string, vars []assignment.Variable) error {
	if err := b.store.DeleteAssignmentsMatching(ctx, principalID, policyName, vars); err != nil {
		return fmt.Errorf("cadastre binder: revoke %q: %w", policyName, err)
	}

	if b.plugins != nil {
		b.plugins.EmitAssignmentRevoked(ctx, principalID, policyName, vars)
	}
	return nil
}

func (b *Binder) invalidate(ctx context.Context, principalID id.PrincipalID) {
	if b.cache != nil {
		b.cache.InvalidatePrincipal(ctx, principalID)
	}
}

func (b *Binder) logDrift(principalID id.PrincipalID, action, policyName string, vars []assignment.Variable) {
	b.logger.Warn("assignment drift detected",
		slog.String("error", ErrInconsistentAssignments.Error()),
		slog.String("repair", action),
		slog.String("principal_id", principalID.String()),
		slog.String("policy_name", policyName),
		slog.String("key", assignmentKey(policyName, vars)),
	)
}
