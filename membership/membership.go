// Package membership defines the role-granting relations between principals
// and scopes: organization membership (with an admin flag) and project
// membership (with a role code). The binder translates changes to these
// relations into policy assignments.
package membership

import (
	"errors"
	"time"

	"github.com/terralink/cadastre/id"
)

// ErrDuplicateRole is returned when a principal already holds a role in the
// given scope. Membership is unique per (principal, organization) and
// (principal, project).
var ErrDuplicateRole = errors.New("cadastre: membership role already exists")

// RoleCode is a project-level role.
type RoleCode string

const (
	// RoleProjectManager administers a project and all of its records.
	RoleProjectManager RoleCode = "PM"

	// RoleDataCollector contributes new records to a project.
	RoleDataCollector RoleCode = "DC"

	// RoleProjectUser has read-only access to a project.
	RoleProjectUser RoleCode = "PU"
)

// Valid reports whether the role code is one of the defined values.
func (r RoleCode) Valid() bool {
	switch r {
	case RoleProjectManager, RoleDataCollector, RoleProjectUser:
		return true
	default:
		return false
	}
}

// OrganizationRole records a principal's membership in an organization.
// Admins additionally manage the organization and everything inside it.
type OrganizationRole struct {
	ID             id.OrgRoleID       `json:"id" db:"id"`
	PrincipalID    id.PrincipalID     `json:"principal_id" db:"principal_id"`
	OrganizationID id.OrganizationID  `json:"organization_id" db:"organization_id"`
	Admin          bool               `json:"admin" db:"admin"`
	CreatedAt      time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" db:"updated_at"`
}

// ProjectRole records a principal's membership in a project.
type ProjectRole struct {
	ID          id.ProjectRoleID `json:"id" db:"id"`
	PrincipalID id.PrincipalID   `json:"principal_id" db:"principal_id"`
	ProjectID   id.ProjectID     `json:"project_id" db:"project_id"`
	Role        RoleCode         `json:"role" db:"role"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at" db:"updated_at"`
}
