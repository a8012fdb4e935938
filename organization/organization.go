// Package organization defines the Organization entity, the top-level scope
// that projects and memberships hang off.
package organization

import (
	"context"
	"time"

	"github.com/terralink/cadastre/id"
)

// Organization is a top-level scope identified in object paths by its slug.
type Organization struct {
	ID          id.OrganizationID `json:"id" db:"id"`
	Slug        string            `json:"slug" db:"slug"`
	Name        string            `json:"name" db:"name"`
	Description string            `json:"description,omitempty" db:"description"`
	Archived    bool              `json:"archived" db:"archived"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" db:"updated_at"`
}

// ListFilter contains filters for listing organizations.
type ListFilter struct {
	Archived *bool  `json:"archived,omitempty"`
	Search   string `json:"search,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}

// Store defines persistence operations for organizations. Slugs are unique.
type Store interface {
	// CreateOrganization persists a new organization.
	CreateOrganization(ctx context.Context, o *Organization) error

	// GetOrganization retrieves an organization by ID.
	GetOrganization(ctx context.Context, orgID id.OrganizationID) (*Organization, error)

	// GetOrganizationBySlug retrieves an organization by slug.
	GetOrganizationBySlug(ctx context.Context, slug string) (*Organization, error)

	// UpdateOrganization persists changes to an organization.
	UpdateOrganization(ctx context.Context, o *Organization) error

	// DeleteOrganization removes an organization.
	DeleteOrganization(ctx context.Context, orgID id.OrganizationID) error

	// ListOrganizations returns organizations matching the filter.
	ListOrganizations(ctx context.Context, filter *ListFilter) ([]*Organization, error)
}
