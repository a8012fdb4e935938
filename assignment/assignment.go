// Package assignment defines the Assignment entity: a policy document bound
// to a principal with an ordered set of variable bindings.
package assignment

import (
	"errors"
	"time"

	"github.com/terralink/cadastre/id"
)

// ErrDuplicate is returned when an identical (principal, policy, variables)
// assignment already exists. Redelivered membership events hit this and
// treat it as success.
var ErrDuplicate = errors.New("cadastre: assignment already exists")

// Variable is a single named binding substituted into clause placeholders
// during evaluation.
type Variable struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Assignment binds a policy document to a principal. Variables is ordered;
// assignments for a principal evaluate in Seq order, so later assignments
// can override earlier ones only through deny clauses (deny always wins).
type Assignment struct {
	ID            id.AssignmentID `json:"id" db:"id"`
	PrincipalID   id.PrincipalID  `json:"principal_id" db:"principal_id"`
	PolicyID      id.PolicyID     `json:"policy_id" db:"policy_id"`
	PolicyName    string          `json:"policy_name" db:"policy_name"`
	PolicyVersion int             `json:"policy_version" db:"policy_version"`
	Variables     []Variable      `json:"variables" db:"-"`
	Seq           int64           `json:"seq" db:"seq"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// Lookup returns the value bound to name, if any.
func (a *Assignment) Lookup(name string) (string, bool) {
	for _, v := range a.Variables {
		if v.Name == name {
			return v.Value, true
		}
	}

	return "", false
}

// HasVariable reports whether the assignment binds name to value.
func (a *Assignment) HasVariable(name, value string) bool {
	got, ok := a.Lookup(name)

	return ok && got == value
}

// VariablesEqual reports whether two variable lists are identical,
// including order.
func VariablesEqual(a, b []Variable) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// ListFilter contains filters for listing assignments.
type ListFilter struct {
	PrincipalID *id.PrincipalID `json:"principal_id,omitempty"`
	PolicyName  string          `json:"policy_name,omitempty"`
	Limit       int             `json:"limit,omitempty"`
	Offset      int             `json:"offset,omitempty"`
}
