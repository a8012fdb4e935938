// Package party defines the Party entity: a person, group or corporation
// that can hold tenure over spatial units.
package party

import (
	"context"
	"time"

	"github.com/terralink/cadastre/id"
)

// Type classifies a party.
type Type string

const (
	// TypeIndividual is a natural person.
	TypeIndividual Type = "IN"

	// TypeCorporation is a company or other legal entity.
	TypeCorporation Type = "CO"

	// TypeGroup is an informal group such as a family or community.
	TypeGroup Type = "GR"
)

// Valid reports whether the party type is one of the defined values.
func (t Type) Valid() bool {
	switch t {
	case TypeIndividual, TypeCorporation, TypeGroup:
		return true
	default:
		return false
	}
}

// Party is a record within a project.
type Party struct {
	ID        id.PartyID   `json:"id" db:"id"`
	ProjectID id.ProjectID `json:"project_id" db:"project_id"`
	Name      string       `json:"name" db:"name"`
	Type      Type         `json:"type" db:"type"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
}

// ListFilter contains filters for listing parties.
type ListFilter struct {
	ProjectID *id.ProjectID `json:"project_id,omitempty"`
	Type      Type          `json:"type,omitempty"`
	Search    string        `json:"search,omitempty"`
	Limit     int           `json:"limit,omitempty"`
	Offset    int           `json:"offset,omitempty"`
}

// Store defines persistence operations for parties.
type Store interface {
	// CreateParty persists a new party.
	CreateParty(ctx context.Context, p *Party) error

	// GetParty retrieves a party by ID.
	GetParty(ctx context.Context, partyID id.PartyID) (*Party, error)

	// UpdateParty persists changes to a party.
	UpdateParty(ctx context.Context, p *Party) error

	// DeleteParty removes a party.
	DeleteParty(ctx context.Context, partyID id.PartyID) error

	// ListParties returns parties matching the filter.
	ListParties(ctx context.Context, filter *ListFilter) ([]*Party, error)
}
