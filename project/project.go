// Package project defines the Project entity, the scope that land records
// belong to.
package project

import (
	"context"
	"time"

	"github.com/terralink/cadastre/id"
)

// AccessPolicy controls whether a project is publicly discoverable.
type AccessPolicy string

const (
	// AccessPublic projects are visible to any principal with the default
	// policy.
	AccessPublic AccessPolicy = "public"

	// AccessPrivate projects are visible only to organization members.
	AccessPrivate AccessPolicy = "private"
)

// Project is a scope within an organization, identified in object paths by
// the pair of slugs.
type Project struct {
	ID             id.ProjectID      `json:"id" db:"id"`
	OrganizationID id.OrganizationID `json:"organization_id" db:"organization_id"`
	Slug           string            `json:"slug" db:"slug"`
	Name           string            `json:"name" db:"name"`
	Description    string            `json:"description,omitempty" db:"description"`
	AccessPolicy   AccessPolicy      `json:"access_policy" db:"access_policy"`
	Archived       bool              `json:"archived" db:"archived"`
	CreatedAt      time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at" db:"updated_at"`
}

// ListFilter contains filters for listing projects.
type ListFilter struct {
	OrganizationID *id.OrganizationID `json:"organization_id,omitempty"`
	Archived       *bool              `json:"archived,omitempty"`
	Search         string             `json:"search,omitempty"`
	Limit          int                `json:"limit,omitempty"`
	Offset         int                `json:"offset,omitempty"`
}

// Store defines persistence operations for projects. Slugs are unique
// within an organization.
type Store interface {
	// CreateProject persists a new project.
	CreateProject(ctx context.Context, p *Project) error

	// GetProject retrieves a project by ID.
	GetProject(ctx context.Context, projID id.ProjectID) (*Project, error)

	// GetProjectBySlug retrieves a project by organization and slug.
	GetProjectBySlug(ctx context.Context, orgID id.OrganizationID, slug string) (*Project, error)

	// UpdateProject persists changes to a project.
	UpdateProject(ctx context.Context, p *Project) error

	// DeleteProject removes a project.
	DeleteProject(ctx context.Context, projID id.ProjectID) error

	// ListProjects returns projects matching the filter.
	ListProjects(ctx context.Context, filter *ListFilter) ([]*Project, error)

	// ListProjectsForOrganization returns all projects in an organization.
	ListProjectsForOrganization(ctx context.Context, orgID id.OrganizationID) ([]*Project, error)
}
