// Package principal defines the principal directory: the identities that
// hold memberships and assignments.
package principal

import (
	"context"
	"time"

	"github.com/terralink/cadastre/id"
)

// Principal is an identity known to the platform. The engine treats
// principals as opaque; only existence matters for assignment validation.
type Principal struct {
	ID        id.PrincipalID `json:"id" db:"id"`
	Username  string         `json:"username" db:"username"`
	Email     string         `json:"email,omitempty" db:"email"`
	FullName  string         `json:"full_name,omitempty" db:"full_name"`
	Active    bool           `json:"active" db:"active"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}

// ListFilter contains filters for listing principals.
type ListFilter struct {
	Search string `json:"search,omitempty"`
	Active *bool  `json:"active,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// Store defines persistence operations for principals.
type Store interface {
	// CreatePrincipal persists a new principal.
	CreatePrincipal(ctx context.Context, p *Principal) error

	// GetPrincipal retrieves a principal by ID.
	GetPrincipal(ctx context.Context, principalID id.PrincipalID) (*Principal, error)

	// GetPrincipalByUsername retrieves a principal by username.
	GetPrincipalByUsername(ctx context.Context, username string) (*Principal, error)

	// UpdatePrincipal persists changes to a principal.
	UpdatePrincipal(ctx context.Context, p *Principal) error

	// DeletePrincipal removes a principal.
	DeletePrincipal(ctx context.Context, principalID id.PrincipalID) error

	// PrincipalExists reports whether a principal exists. Membership and
	// assignment writes validate their targets through this.
	PrincipalExists(ctx context.Context, principalID id.PrincipalID) (bool, error)

	// ListPrincipals returns principals matching the filter.
	ListPrincipals(ctx context.Context, filter *ListFilter) ([]*Principal, error)
}
