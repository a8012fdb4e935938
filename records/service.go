package records

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xraph/forge"

	"github.com/terralink/cadastre"
	"github.com/terralink/cadastre/id"
	"github.com/terralink/cadastre/membership"
	"github.com/terralink/cadastre/organization"
	"github.com/terralink/cadastre/party"
	"github.com/terralink/cadastre/principal"
	"github.com/terralink/cadastre/project"
	"github.com/terralink/cadastre/spatial"
	"github.com/terralink/cadastre/store"
	"github.com/terralink/cadastre/tenure"
)

// Service is the authorized record surface. Every operation resolves the
// acting principal from the context, builds the object path, and enforces
// the corresponding action before touching the store. Membership writes
// additionally invoke the binder so assignments track relations.
//
// Reads are permitted on archived scopes; writes short-circuit with
// ErrScopeArchived before reaching the store.
type Service struct {
	store  store.Store
	engine *cadastre.Engine
	binder *cadastre.Binder
	logger *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// NewService creates a record service on the given engine. The binder is
// derived from the engine so both share its store, cache and hooks.
func NewService(engine *cadastre.Engine, opts ...ServiceOption) *Service {
	s := &Service{
		store:  engine.Store(),
		engine: engine,
		binder: engine.Binder(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// enforce resolves the acting principal and checks action on object.
// A context without an acting principal is denied outright.
func (s *Service) enforce(ctx context.Context, action, object string) error {
	actor, ok := s.actingPrincipal(ctx)
	if !ok {
		return fmt.Errorf("%w: no acting principal", cadastre.ErrAccessDenied)
	}
	return s.engine.Enforce(ctx, &cadastre.CheckRequest{
		PrincipalID: actor,
		Action:      action,
		Object:      object,
	})
}

// actingPrincipal resolves the caller. An explicitly set acting principal
// wins; otherwise the authenticated Forge user ID is parsed as one, so
// HTTP handlers can call the service without extra plumbing.
func (s *Service) actingPrincipal(ctx context.Context) (id.PrincipalID, bool) {
	if pid, ok := cadastre.ActingPrincipalFromContext(ctx); ok {
		return pid, true
	}
	userID := forge.UserIDFromContext(ctx)
	if userID == "" {
		return id.Nil, false
	}
	pid, err := id.ParsePrincipalID(userID)
	if err != nil {
		return id.Nil, false
	}
	return pid, true
}

// ──────────────────────────────────────────────────
// Principals
// ──────────────────────────────────────────────────

// CreatePrincipal registers a principal and grants it the default policy.
// It is unguarded: principal provisioning sits upstream of authorization.
func (s *Service) CreatePrincipal(ctx context.Context, p *principal.Principal) error {
	if err := s.store.CreatePrincipal(ctx, p); err != nil {
		return fmt.Errorf("records: create principal: %w", err)
	}
	if err := s.binder.GrantDefault(ctx, p.ID); err != nil {
		return fmt.Errorf("records: grant default policy: %w", err)
	}
	return nil
}

// ──────────────────────────────────────────────────
// Organizations
// ──────────────────────────────────────────────────

// CreateOrganization creates a new organization scope.
func (s *Service) CreateOrganization(ctx context.Context, o *organization.Organization) error {
	if err := s.enforce(ctx, "org.create", OrganizationsPath()); err != nil {
		return err
	}
	if err := s.store.CreateOrganization(ctx, o); err != nil {
		return fmt.Errorf("records: create organization: %w", err)
	}
	return nil
}

// GetOrganization returns an organization by slug.
func (s *Service) GetOrganization(ctx context.Context, slug string) (*organization.Organization, error) {
	if err := s.enforce(ctx, "org.view", OrganizationPath(slug)); err != nil {
		return nil, err
	}
	org, err := s.store.GetOrganizationBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", cadastre.ErrOrganizationNotFound, slug)
	}
	return org, nil
}

// ListOrganizations returns organizations matching the filter.
func (s *Service) ListOrganizations(ctx context.Context, filter *organization.ListFilter) ([]*organization.Organization, error) {
	if err := s.enforce(ctx, "org.list", OrganizationsPath()); err != nil {
		return nil, err
	}
	orgs, err := s.store.ListOrganizations(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("records: list organizations: %w", err)
	}
	return orgs, nil
}

// UpdateOrganization updates an organization's mutable fields. Archived
// organizations reject updates; unarchive first.
func (s *Service) UpdateOrganization(ctx context.Context, slug string, update func(*organization.Organization)) (*organization.Organization, error) {
	if err := s.enforce(ctx, "org.update", OrganizationPath(slug)); err != nil {
		return nil, err
	}
	org, err := s.store.GetOrganizationBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", cadastre.ErrOrganizationNotFound, slug)
	}
	if org.Archived {
		return nil, fmt.Errorf("%w: organization %s", cadastre.ErrScopeArchived, slug)
	}
	update(org)
	if err := s.store.UpdateOrganization(ctx, org); err != nil {
		return nil, fmt.Errorf("records: update organization: %w", err)
	}
	return org, nil
}

// ArchiveOrganization marks an organization archived. Its records become
// read-only until unarchived.
func (s *Service) ArchiveOrganization(ctx context.Context, slug string) error {
	return s.setOrganizationArchived(ctx, slug, "org.archive", true)
}

// UnarchiveOrganization clears the archived flag.
func (s *Service) UnarchiveOrganization(ctx context.Context, slug string) error {
	return s.setOrganizationArchived(ctx, slug, "org.unarchive", false)
}

func (s *Service) setOrganizationArchived(ctx context.Context, slug, action string, archived bool) error {
	if err := s.enforce(ctx, action, OrganizationPath(slug)); err != nil {
		return err
	}
	org, err := s.store.GetOrganizationBySlug(ctx, slug)
	if err != nil {
		return fmt.Errorf("%w: %s", cadastre.ErrOrganizationNotFound, slug)
	}
	if org.Archived == archived {
		return nil
	}
	org.Archived = archived
	if err := s.store.UpdateOrganization(ctx, org); err != nil {
		return fmt.Errorf("records: update organization: %w", err)
	}
	return nil
}

// ──────────────────────────────────────────────────
// Projects
// ──────────────────────────────────────────────────

// CreateProject creates a project inside an organization.
func (s *Service) CreateProject(ctx context.Context, orgSlug string, p *project.Project) error {
	if err := s.enforce(ctx, "project.create", OrganizationPath(orgSlug)); err != nil {
		return err
	}
	org, err := s.store.GetOrganizationBySlug(ctx, orgSlug)
	if err != nil {
		return fmt.Errorf("%w: %s", cadastre.ErrOrganizationNotFound, orgSlug)
	}
	if org.Archived {
		return fmt.Errorf("%w: organization %s", cadastre.ErrScopeArchived, orgSlug)
	}
	p.OrganizationID = org.ID
	if err := s.store.CreateProject(ctx, p); err != nil {
		return fmt.Errorf("records: create project: %w", err)
	}
	return nil
}

// GetProject returns a project by its organization and project slugs.
func (s *Service) GetProject(ctx context.Context, orgSlug, projSlug string) (*project.Project, error) {
	if err := s.enforce(ctx, "project.view", ProjectPath(orgSlug, projSlug)); err != nil {
		return nil, err
	}
	_, proj, err := s.resolveProject(ctx, orgSlug, projSlug)
	if err != nil {
		return nil, err
	}
	return proj, nil
}

// ListProjects returns the projects of an organization.
func (s *Service) ListProjects(ctx context.Context, orgSlug string) ([]*project.Project, error) {
	if err := s.enforce(ctx, "project.list", OrganizationPath(orgSlug)); err != nil {
		return nil, err
	}
	org, err := s.store.GetOrganizationBySlug(ctx, orgSlug)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", cadastre.ErrOrganizationNotFound, orgSlug)
	}
	projects, err := s.store.ListProjectsForOrganization(ctx, org.ID)
	if err != nil {
		return nil, fmt.Errorf("records: list projects: %w", err)
	}
	return projects, nil
}

// UpdateProject updates a project's mutable fields. Archived projects and
// projects in archived organizations reject updates.
func (s *Service) UpdateProject(ctx context.Context, orgSlug, projSlug string, update func(*project.Project)) (*project.Project, error) {
	if err := s.enforce(ctx, "project.update", ProjectPath(orgSlug, projSlug)); err != nil {
		return nil, err
	}
	org, proj, err := s.resolveProject(ctx, orgSlug, projSlug)
	if err != nil {
		return nil, err
	}
	if err := scopeWritable(org, proj); err != nil {
		return nil, err
	}
	update(proj)
	if err := s.store.UpdateProject(ctx, proj); err != nil {
		return nil, fmt.Errorf("records: update project: %w", err)
	}
	return proj, nil
}

// ArchiveProject marks a project archived.
func (s *Service) ArchiveProject(ctx context.Context, orgSlug, projSlug string) error {
	return s.setProjectArchived(ctx, orgSlug, projSlug, "project.archive", true)
}

// UnarchiveProject clears a project's archived flag.
func (s *Service) UnarchiveProject(ctx context.Context, orgSlug, projSlug string) error {
	return s.setProjectArchived(ctx, orgSlug, projSlug, "project.unarchive", false)
}

func (s *Service) setProjectArchived(ctx context.Context, orgSlug, projSlug, action string, archived bool) error {
	if err := s.enforce(ctx, action, ProjectPath(orgSlug, projSlug)); err != nil {
		return err
	}
	_, proj, err := s.resolveProject(ctx, orgSlug, projSlug)
	if err != nil {
		return err
	}
	if proj.Archived == archived {
		return nil
	}
	proj.Archived = archived
	if err := s.store.UpdateProject(ctx, proj); err != nil {
		return fmt.Errorf("records: update project: %w", err)
	}
	return nil
}

func (s *Service) resolveProject(ctx context.Context, orgSlug, projSlug string) (*organization.Organization, *project.Project, error) {
	org, err := s.store.GetOrganizationBySlug(ctx, orgSlug)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", cadastre.ErrOrganizationNotFound, orgSlug)
	}
	proj, err := s.store.GetProjectBySlug(ctx, org.ID, projSlug)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s/%s", cadastre.ErrProjectNotFound, orgSlug, projSlug)
	}
	return org, proj, nil
}

func scopeWritable(org *organization.Organization, proj *project.Project) error {
	if org.Archived {
		return fmt.Errorf("%w: organization %s", cadastre.ErrScopeArchived, org.Slug)
	}
	if proj.Archived {
		return fmt.Errorf("%w: project %s/%s", cadastre.ErrScopeArchived, org.Slug, proj.Slug)
	}
	return nil
}

// ──────────────────────────────────────────────────
// Organization membership
// ──────────────────────────────────────────────────

// AddOrganizationMember adds a principal to an organization and binds the
// implied policies.
func (s *Service) AddOrganizationMember(ctx context.Context, orgSlug string, principalID id.PrincipalID, admin bool) error {
	if err := s.enforce(ctx, "org.users.add", OrganizationPath(orgSlug)); err != nil {
		return err
	}
	org, err := s.store.GetOrganizationBySlug(ctx, orgSlug)
	if err != nil {
		return fmt.Errorf("%w: %s", cadastre.ErrOrganizationNotFound, orgSlug)
	}
	if org.Archived {
		return fmt.Errorf("%w: organization %s", cadastre.ErrScopeArchived, orgSlug)
	}
	if err := s.requirePrincipal(ctx, principalID); err != nil {
		return err
	}

	role := &membership.OrganizationRole{
		PrincipalID:    principalID,
		OrganizationID: org.ID,
		Admin:          admin,
	}
	if err := s.store.CreateOrganizationRole(ctx, role); err != nil {
		return fmt.Errorf("records: add organization member: %w", err)
	}
	if err := s.binder.OrganizationRoleCreated(ctx, role); err != nil {
		return fmt.Errorf("records: bind organization member: %w", err)
	}
	return nil
}

// UpdateOrganizationMember flips a member's admin flag and rebinds.
func (s *Service) UpdateOrganizationMember(ctx context.Context, orgSlug string, principalID id.PrincipalID, admin bool) error {
	if err := s.enforce(ctx, "org.users.edit", OrganizationPath(orgSlug)); err != nil {
		return err
	}
	org, err := s.store.GetOrganizationBySlug(ctx, orgSlug)
	if err != nil {
		return fmt.Errorf("%w: %s", cadastre.ErrOrganizationNotFound, orgSlug)
	}
	role, err := s.store.GetOrganizationRole(ctx, principalID, org.ID)
	if err != nil {
		return fmt.Errorf("records: get organization role: %w", err)
	}
	if role.Admin == admin {
		return nil
	}
	role.Admin = admin
	if err := s.store.UpdateOrganizationRole(ctx, role); err != nil {
		return fmt.Errorf("records: update organization member: %w", err)
	}
	if err := s.binder.OrganizationRoleChanged(ctx, role); err != nil {
		return fmt.Errorf("records: rebind organization member: %w", err)
	}
	return nil
}

// RemoveOrganizationMember removes a principal from an organization. The
// binder cascade revokes every assignment scoped to this organization,
// including project-level ones, and deletes the project roles behind them.
func (s *Service) RemoveOrganizationMember(ctx context.Context, orgSlug string, principalID id.PrincipalID) error {
	if err := s.enforce(ctx, "org.users.remove", OrganizationPath(orgSlug)); err != nil {
		return err
	}
	org, err := s.store.GetOrganizationBySlug(ctx, orgSlug)
	if err != nil {
		return fmt.Errorf("%w: %s", cadastre.ErrOrganizationNotFound, orgSlug)
	}
	role, err := s.store.GetOrganizationRole(ctx, principalID, org.ID)
	if err != nil {
		// Removing an absent membership is a no-op.
		return nil
	}
	if err := s.store.DeleteOrganizationRole(ctx, principalID, org.ID); err != nil {
		return fmt.Errorf("records: remove organization member: %w", err)
	}
	if err := s.binder.OrganizationRoleDeleted(ctx, role); err != nil {
		return fmt.Errorf("records: unbind organization member: %w", err)
	}
	return nil
}

// ListOrganizationMembers returns the membership roles of an organization.
func (s *Service) ListOrganizationMembers(ctx context.Context, orgSlug string) ([]*membership.OrganizationRole, error) {
	if err := s.enforce(ctx, "org.users.list", OrganizationPath(orgSlug)); err != nil {
		return nil, err
	}
	org, err := s.store.GetOrganizationBySlug(ctx, orgSlug)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", cadastre.ErrOrganizationNotFound, orgSlug)
	}
	roles, err := s.store.ListOrganizationRoles(ctx, org.ID)
	if err != nil {
		return nil, fmt.Errorf("records: list organization members: %w", err)
	}
	return roles, nil
}

// ──────────────────────────────────────────────────
// Project membership
// ──────────────────────────────────────────────────

// AddProjectMember gives a principal a role in a project and binds the
// implied policy.
func (s *Service) AddProjectMember(ctx context.Context, orgSlug, projSlug string, principalID id.PrincipalID, roleCode membership.RoleCode) error {
	if err := s.enforce(ctx, "project.users.add", ProjectPath(orgSlug, projSlug)); err != nil {
		return err
	}
	if !roleCode.Valid() {
		return fmt.Errorf("records: invalid project role %q", roleCode)
	}
	org, proj, err := s.resolveProject(ctx, orgSlug, projSlug)
	if err != nil {
		return err
	}
	if err := scopeWritable(org, proj); err != nil {
		return err
	}
	if err := s.requirePrincipal(ctx, principalID); err != nil {
		return err
	}

	role := &membership.ProjectRole{
		PrincipalID: principalID,
		ProjectID:   proj.ID,
		Role:        roleCode,
	}
	if err := s.store.CreateProjectRole(ctx, role); err != nil {
		return fmt.Errorf("records: add project member: %w", err)
	}
	if err := s.binder.ProjectRoleCreated(ctx, role); err != nil {
		return fmt.Errorf("records: bind project member: %w", err)
	}
	return nil
}

// UpdateProjectMember changes a member's role code and rebinds: the old
// role's policy is revoked and the new one granted.
func (s *Service) UpdateProjectMember(ctx context.Context, orgSlug, projSlug string, principalID id.PrincipalID, roleCode membership.RoleCode) error {
	if err := s.enforce(ctx, "project.users.edit", ProjectPath(orgSlug, projSlug)); err != nil {
		return err
	}
	if !roleCode.Valid() {
		return fmt.Errorf("records: invalid project role %q", roleCode)
	}
	_, proj, err := s.resolveProject(ctx, orgSlug, projSlug)
	if err != nil {
		return err
	}
	role, err := s.store.GetProjectRole(ctx, principalID, proj.ID)
	if err != nil {
		return fmt.Errorf("records: get project role: %w", err)
	}
	if role.Role == roleCode {
		return nil
	}
	role.Role = roleCode
	if err := s.store.UpdateProjectRole(ctx, role); err != nil {
		return fmt.Errorf("records: update project member: %w", err)
	}
	if err := s.binder.ProjectRoleChanged(ctx, role); err != nil {
		return fmt.Errorf("records: rebind project member: %w", err)
	}
	return nil
}

// RemoveProjectMember removes a principal's project role and revokes the
// implied policy.
func (s *Service) RemoveProjectMember(ctx context.Context, orgSlug, projSlug string, principalID id.PrincipalID) error {
	if err := s.enforce(ctx, "project.users.remove", ProjectPath(orgSlug, projSlug)); err != nil {
		return err
	}
	_, proj, err := s.resolveProject(ctx, orgSlug, projSlug)
	if err != nil {
		return err
	}
	role, err := s.store.GetProjectRole(ctx, principalID, proj.ID)
	if err != nil {
		return nil
	}
	if err := s.store.DeleteProjectRole(ctx, principalID, proj.ID); err != nil {
		return fmt.Errorf("records: remove project member: %w", err)
	}
	if err := s.binder.ProjectRoleDeleted(ctx, role); err != nil {
		return fmt.Errorf("records: unbind project member: %w", err)
	}
	return nil
}

// ListProjectMembers returns the membership roles of a project.
func (s *Service) ListProjectMembers(ctx context.Context, orgSlug, projSlug string) ([]*membership.ProjectRole, error) {
	if err := s.enforce(ctx, "project.users.list", ProjectPath(orgSlug, projSlug)); err != nil {
		return nil, err
	}
	_, proj, err := s.resolveProject(ctx, orgSlug, projSlug)
	if err != nil {
		return nil, err
	}
	roles, err := s.store.ListProjectRoles(ctx, proj.ID)
	if err != nil {
		return nil, fmt.Errorf("records: list project members: %w", err)
	}
	return roles, nil
}

func (s *Service) requirePrincipal(ctx context.Context, principalID id.PrincipalID) error {
	exists, err := s.store.PrincipalExists(ctx, principalID)
	if err != nil {
		return fmt.Errorf("records: check principal: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", cadastre.ErrUnknownPrincipal, principalID)
	}
	return nil
}

// ──────────────────────────────────────────────────
// Spatial units
// ──────────────────────────────────────────────────

// CreateSpatialUnit creates a spatial unit in a project. The ID is assigned
// before the check so the object path names the concrete unit.
func (s *Service) CreateSpatialUnit(ctx context.Context, orgSlug, projSlug string, u *spatial.Unit) error {
	if u.ID.IsNil() {
		u.ID = id.NewSpatialUnitID()
	}
	if err := s.enforce(ctx, "spatial.create", SpatialUnitPath(orgSlug, projSlug, u.ID)); err != nil {
		return err
	}
	org, proj, err := s.resolveProject(ctx, orgSlug, projSlug)
	if err != nil {
		return err
	}
	if err := scopeWritable(org, proj); err != nil {
		return err
	}
	u.ProjectID = proj.ID
	if err := s.store.CreateUnit(ctx, u); err != nil {
		return fmt.Errorf("records: create spatial unit: %w", err)
	}
	return nil
}

// GetSpatialUnit returns a spatial unit.
func (s *Service) GetSpatialUnit(ctx context.Context, orgSlug, projSlug string, unitID id.SpatialUnitID) (*spatial.Unit, error) {
	if err := s.enforce(ctx, "spatial.view", SpatialUnitPath(orgSlug, projSlug, unitID)); err != nil {
		return nil, err
	}
	u, err := s.store.GetUnit(ctx, unitID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", cadastre.ErrSpatialUnitNotFound, unitID)
	}
	return u, nil
}

// ListSpatialUnits returns the spatial units of a project.
func (s *Service) ListSpatialUnits(ctx context.Context, orgSlug, projSlug string) ([]*spatial.Unit, error) {
	if err := s.enforce(ctx, "spatial.list", ProjectPath(orgSlug, projSlug)); err != nil {
		return nil, err
	}
	_, proj, err := s.resolveProject(ctx, orgSlug, projSlug)
	if err != nil {
		return nil, err
	}
	units, err := s.store.ListUnits(ctx, &spatial.ListFilter{ProjectID: &proj.ID})
	if err != nil {
		return nil, fmt.Errorf("records: list spatial units: %w", err)
	}
	return units, nil
}

// UpdateSpatialUnit updates a spatial unit's type or geometry.
func (s *Service) UpdateSpatialUnit(ctx context.Context, orgSlug, projSlug string, unitID id.SpatialUnitID, update func(*spatial.Unit)) (*spatial.Unit, error) {
	if err := s.enforce(ctx, "spatial.update", SpatialUnitPath(orgSlug, projSlug, unitID)); err != nil {
		return nil, err
	}
	org, proj, err := s.resolveProject(ctx, orgSlug, projSlug)
	if err != nil {
		return nil, err
	}
	if err := scopeWritable(org, proj); err != nil {
		return nil, err
	}
	u, err := s.store.GetUnit(ctx, unitID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", cadastre.ErrSpatialUnitNotFound, unitID)
	}
	update(u)
	if err := s.store.UpdateUnit(ctx, u); err != nil {
		return nil, fmt.Errorf("records: update spatial unit: %w", err)
	}
	return u, nil
}

// DeleteSpatialUnit removes a spatial unit.
func (s *Service) DeleteSpatialUnit(ctx context.Context, orgSlug, projSlug string, unitID id.SpatialUnitID) error {
	if err := s.enforce(ctx, "spatial.delete", SpatialUnitPath(orgSlug, projSlug, unitID)); err != nil {
		return err
	}
	org, proj, err := s.resolveProject(ctx, orgSlug, projSlug)
	if err != nil {
		return err
	}
	if err := scopeWritable(org, proj); err != nil {
		return err
	}
	if err := s.store.DeleteUnit(ctx, unitID); err != nil {
		return fmt.Errorf("records: delete spatial unit: %w", err)
	}
	return nil
}

// CreateSpatialRelationship links two spatial units.
func (s *Service) CreateSpatialRelationship(ctx context.Context, orgSlug, projSlug string, r *spatial.Relationship) error {
	if r.ID.IsNil() {
		r.ID = id.NewSpatialRelID()
	}
	if err := s.enforce(ctx, "spatial_rel.create", SpatialRelPath(orgSlug, projSlug, r.ID)); err != nil {
		return err
	}
	org, proj, err := s.resolveProject(ctx, orgSlug, projSlug)
	if err != nil {
		return err
	}
	if err := scopeWritable(org, proj); err != nil {
		return err
	}
	r.ProjectID = proj.ID
	if err := s.store.CreateRelationship(ctx, r); err != nil {
		return fmt.Errorf("records: create spatial relationship: %w", err)
	}
	return nil
}

// DeleteSpatialRelationship removes a spatial relationship.
func (s *Service) DeleteSpatialRelationship(ctx context.Context, orgSlug, projSlug string, relID id.SpatialRelID) error {
	if err := s.enforce(ctx, "spatial_rel.delete", SpatialRelPath(orgSlug, projSlug, relID)); err != nil {
		return err
	}
	org, proj, err := s.resolveProject(ctx, orgSlug, projSlug)
	if err != nil {
		return err
	}
	if err := scopeWritable(org, proj); err != nil {
		return err
	}
	if err := s.store.DeleteRelationship(ctx, relID); err != nil {
		return fmt.Errorf("records: delete spatial relationship: %w", err)
	}
	return nil
}

// ──────────────────────────────────────────────────
// Parties
// ──────────────────────────────────────────────────

// CreateParty creates a party in a project.
func (s *Service) CreateParty(ctx context.Context, orgSlug, projSlug string, p *party.Party) error {
	if p.ID.IsNil() {
		p.ID = id.NewPartyID()
	}
	if err := s.enforce(ctx, "party.create", PartyPath(orgSlug, projSlug, p.ID)); err != nil {
		return err
	}
	if !p.Type.Valid() {
		return fmt.Errorf("records: invalid party type %q", p.Type)
	}
	org, proj, err := s.resolveProject(ctx, orgSlug, projSlug)
	if err != nil {
		return err
	}
	if err := scopeWritable(org, proj); err != nil {
		return err
	}
	p.ProjectID = proj.ID
	if err := s.store.CreateParty(ctx, p); err != nil {
		return fmt.Errorf("records: create party: %w", err)
	}
	return nil
}

// GetParty returns a party.
func (s *Service) GetParty(ctx context.Context, orgSlug, projSlug string, partyID id.PartyID) (*party.Party, error) {
	if err := s.enforce(ctx, "party.view", PartyPath(orgSlug, projSlug, partyID)); err != nil {
		return nil, err
	}
	p, err := s.store.GetParty(ctx, partyID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", cadastre.ErrPartyNotFound, partyID)
	}
	return p, nil
}

// ListParties returns the parties of a project.
func (s *Service) ListParties(ctx context.Context, orgSlug, projSlug string) ([]*party.Party, error) {
	if err := s.enforce(ctx, "party.list", ProjectPath(orgSlug, projSlug)); err != nil {
		return nil, err
	}
	_, proj, err := s.resolveProject(ctx, orgSlug, projSlug)
	if err != nil {
		return nil, err
	}
	parties, err := s.store.ListParties(ctx, &party.ListFilter{ProjectID: &proj.ID})
	if err != nil {
		return nil, fmt.Errorf("records: list parties: %w", err)
	}
	return parties, nil
}

// UpdateParty updates a party.
func (s *Service) UpdateParty(ctx context.Context, orgSlug, projSlug string, partyID id.PartyID, update func(*party.Party)) (*party.Party, error) {
	if err := s.enforce(ctx, "party.update", PartyPath(orgSlug, projSlug, partyID)); err != nil {
		return nil, err
	}
	org, proj, err := s.resolveProject(ctx, orgSlug, projSlug)
	if err != nil {
		return nil, err
	}
	if err := scopeWritable(org, proj); err != nil {
		return nil, err
	}
	p, err := s.store.GetParty(ctx, partyID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", cadastre.ErrPartyNotFound, partyID)
	}
	update(p)
	if err := s.store.UpdateParty(ctx, p); err != nil {
		return nil, fmt.Errorf("records: update party: %w", err)
	}
	return p, nil
}

// DeleteParty removes a party.
func (s *Service) DeleteParty(ctx context.Context, orgSlug, projSlug string, partyID id.PartyID) error {
	if err := s.enforce(ctx, "party.delete", PartyPath(orgSlug, projSlug, partyID)); err != nil {
		return err
	}
	org, proj, err := s.resolveProject(ctx, orgSlug, projSlug)
	if err != nil {
		return err
	}
	if err := scopeWritable(org, proj); err != nil {
		return err
	}
	if err := s.store.DeleteParty(ctx, partyID); err != nil {
		return fmt.Errorf("records: delete party: %w", err)
	}
	return nil
}

// ──────────────────────────────────────────────────
// Tenure relationships
// ──────────────────────────────────────────────────

// CreateTenure records a party's claim over a spatial unit.
func (s *Service) CreateTenure(ctx context.Context, orgSlug, projSlug string, t *tenure.Relationship) error {
	if t.ID.IsNil() {
		t.ID = id.NewTenureID()
	}
	if err := s.enforce(ctx, "tenure.create", TenurePath(orgSlug, projSlug, t.ID)); err != nil {
		return err
	}
	org, proj, err := s.resolveProject(ctx, orgSlug, projSlug)
	if err != nil {
		return err
	}
	if err := scopeWritable(org, proj); err != nil {
		return err
	}
	t.ProjectID = proj.ID
	if err := s.store.CreateTenure(ctx, t); err != nil {
		return fmt.Errorf("records: create tenure: %w", err)
	}
	return nil
}

// GetTenure returns a tenure relationship.
func (s *Service) GetTenure(ctx context.Context, orgSlug, projSlug string, tenureID id.TenureID) (*tenure.Relationship, error) {
	if err := s.enforce(ctx, "tenure.view", TenurePath(orgSlug, projSlug, tenureID)); err != nil {
		return nil, err
	}
	t, err := s.store.GetTenure(ctx, tenureID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", cadastre.ErrTenureNotFound, tenureID)
	}
	return t, nil
}

// ListTenures returns the tenure relationships of a project.
func (s *Service) ListTenures(ctx context.Context, orgSlug, projSlug string) ([]*tenure.Relationship, error) {
	if err := s.enforce(ctx, "tenure.list", ProjectPath(orgSlug, projSlug)); err != nil {
		return nil, err
	}
	_, proj, err := s.resolveProject(ctx, orgSlug, projSlug)
	if err != nil {
		return nil, err
	}
	tenures, err := s.store.ListTenures(ctx, &tenure.ListFilter{ProjectID: &proj.ID})
	if err != nil {
		return nil, fmt.Errorf("records: list tenures: %w", err)
	}
	return tenures, nil
}

// UpdateTenure updates a tenure relationship.
func (s *Service) UpdateTenure(ctx context.Context, orgSlug, projSlug string, tenureID id.TenureID, update func(*tenure.Relationship)) (*tenure.Relationship, error) {
	if err := s.enforce(ctx, "tenure.update", TenurePath(orgSlug, projSlug, tenureID)); err != nil {
		return nil, err
	}
	org, proj, err := s.resolveProject(ctx, orgSlug, projSlug)
	if err != nil {
		return nil, err
	}
	if err := scopeWritable(org, proj); err != nil {
		return nil, err
	}
	t, err := s.store.GetTenure(ctx, tenureID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", cadastre.ErrTenureNotFound, tenureID)
	}
	update(t)
	if err := s.store.UpdateTenure(ctx, t); err != nil {
		return nil, fmt.Errorf("records: update tenure: %w", err)
	}
	return t, nil
}

// DeleteTenure removes a tenure relationship.
func (s *Service) DeleteTenure(ctx context.Context, orgSlug, projSlug string, tenureID id.TenureID) error {
	if err := s.enforce(ctx, "tenure.delete", TenurePath(orgSlug, projSlug, tenureID)); err != nil {
		return err
	}
	org, proj, err := s.resolveProject(ctx, orgSlug, projSlug)
	if err != nil {
		return err
	}
	if err := scopeWritable(org, proj); err != nil {
		return err
	}
	if err := s.store.DeleteTenure(ctx, tenureID); err != nil {
		return fmt.Errorf("records: delete tenure: %w", err)
	}
	return nil
}
