package assignment

import (
	"context"

	"github.com/terralink/cadastre/id"
)

// Store defines persistence operations for assignments. Implementations
// assign Seq monotonically per store so that evaluation order is the order
// of assignment.
type Store interface {
	// CreateAssignment persists a new assignment, assigning ID, Seq and
	// CreatedAt. Returns ErrDuplicate when an assignment with the same
	// principal, policy name and variables already exists.
	CreateAssignment(ctx context.Context, a *Assignment) error

	// ListAssignmentsForPrincipal returns all assignments for a principal
	// in Seq ascending order.
	ListAssignmentsForPrincipal(ctx context.Context, principalID id.PrincipalID) ([]*Assignment, error)

	// DeleteAssignmentsMatching removes assignments for the principal with
	// the given policy name and exact variable list. Removing an absent
	// assignment is a no-op.
	DeleteAssignmentsMatching(ctx context.Context, principalID id.PrincipalID, policyName string, vars []Variable) error

	// DeleteAssignmentsByVariable removes every assignment for the
	// principal that binds the named variable to the given value. Used by
	// the organization cascade; a no-op when nothing matches.
	DeleteAssignmentsByVariable(ctx context.Context, principalID id.PrincipalID, name, value string) error

	// DeleteAssignmentsForPrincipal removes all assignments for a principal.
	DeleteAssignmentsForPrincipal(ctx context.Context, principalID id.PrincipalID) error

	// ListAssignments returns assignments matching the filter in Seq
	// ascending order.
	ListAssignments(ctx context.Context, filter *ListFilter) ([]*Assignment, error)

	// CountAssignments returns the number of assignments matching the filter.
	CountAssignments(ctx context.Context, filter *ListFilter) (int64, error)
}
