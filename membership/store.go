package membership

import (
	"context"

	"github.com/terralink/cadastre/id"
)

// Store defines persistence operations for membership relations.
type Store interface {
	// CreateOrganizationRole persists a new organization membership.
	// Returns ErrDuplicateRole when the principal is already a member.
	CreateOrganizationRole(ctx context.Context, r *OrganizationRole) error

	// GetOrganizationRole retrieves a principal's membership in an
	// organization.
	GetOrganizationRole(ctx context.Context, principalID id.PrincipalID, orgID id.OrganizationID) (*OrganizationRole, error)

	// UpdateOrganizationRole persists a changed admin flag.
	UpdateOrganizationRole(ctx context.Context, r *OrganizationRole) error

	// DeleteOrganizationRole removes an organization membership. Deleting
	// an absent membership is a no-op.
	DeleteOrganizationRole(ctx context.Context, principalID id.PrincipalID, orgID id.OrganizationID) error

	// ListOrganizationRoles returns all memberships of an organization.
	ListOrganizationRoles(ctx context.Context, orgID id.OrganizationID) ([]*OrganizationRole, error)

	// ListOrganizationRolesForPrincipal returns all organization
	// memberships held by a principal.
	ListOrganizationRolesForPrincipal(ctx context.Context, principalID id.PrincipalID) ([]*OrganizationRole, error)

	// CreateProjectRole persists a new project membership. Returns
	// ErrDuplicateRole when the principal already has a role in the project.
	CreateProjectRole(ctx context.Context, r *ProjectRole) error

	// GetProjectRole retrieves a principal's membership in a project.
	GetProjectRole(ctx context.Context, principalID id.PrincipalID, projID id.ProjectID) (*ProjectRole, error)

	// UpdateProjectRole persists a changed role code.
	UpdateProjectRole(ctx context.Context, r *ProjectRole) error

	// DeleteProjectRole removes a project membership. Deleting an absent
	// membership is a no-op; the organization cascade sweeps every project
	// without checking membership first.
	DeleteProjectRole(ctx context.Context, principalID id.PrincipalID, projID id.ProjectID) error

	// ListProjectRoles returns all memberships of a project.
	ListProjectRoles(ctx context.Context, projID id.ProjectID) ([]*ProjectRole, error)

	// ListProjectRolesForPrincipal returns all project memberships held by
	// a principal.
	ListProjectRolesForPrincipal(ctx context.Context, principalID id.PrincipalID) ([]*ProjectRole, error)
}
