package cadastre

import (
	"errors"

	"github.com/terralink/cadastre/assignment"
	"github.com/terralink/cadastre/membership"
	"github.com/terralink/cadastre/policy"
)

var (
	// ErrAccessDenied is returned by Enforce when a check is denied.
	ErrAccessDenied = errors.New("cadastre: access denied")

	// ErrMalformedPolicy is returned when a policy document body fails
	// validation at load time.
	ErrMalformedPolicy = policy.ErrMalformed

	// ErrUnknownPrincipal is returned when a membership or assignment
	// write references a principal that does not exist.
	ErrUnknownPrincipal = errors.New("cadastre: unknown principal")

	// ErrPolicyNotFound is returned when a policy document cannot be
	// found. During evaluation a missing document is skipped with a
	// warning instead.
	ErrPolicyNotFound = errors.New("cadastre: policy document not found")

	// ErrAssignmentNotFound is returned when an assignment cannot be found.
	ErrAssignmentNotFound = errors.New("cadastre: assignment not found")

	// ErrDuplicateAssignment is returned when an identical assignment
	// already exists.
	ErrDuplicateAssignment = assignment.ErrDuplicate

	// ErrDuplicateMembership is returned when a principal already holds a
	// role in the given scope.
	ErrDuplicateMembership = membership.ErrDuplicateRole

	// ErrInconsistentAssignments indicates drift between membership
	// relations and assignments, repaired by Binder.Reconcile.
	ErrInconsistentAssignments = errors.New("cadastre: assignments inconsistent with memberships")

	// ErrOrganizationNotFound is returned when an organization cannot be found.
	ErrOrganizationNotFound = errors.New("cadastre: organization not found")

	// ErrProjectNotFound is returned when a project cannot be found.
	ErrProjectNotFound = errors.New("cadastre: project not found")

	// ErrPartyNotFound is returned when a party cannot be found.
	ErrPartyNotFound = errors.New("cadastre: party not found")

	// ErrSpatialUnitNotFound is returned when a spatial unit cannot be found.
	ErrSpatialUnitNotFound = errors.New("cadastre: spatial unit not found")

	// ErrTenureNotFound is returned when a tenure relationship cannot be found.
	ErrTenureNotFound = errors.New("cadastre: tenure relationship not found")

	// ErrScopeArchived is returned when a write targets an archived
	// organization or project.
	ErrScopeArchived = errors.New("cadastre: scope is archived")
)
