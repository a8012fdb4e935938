// Package tenure defines the TenureRelationship entity: the claim a party
// holds over a spatial unit.
package tenure

import (
	"context"
	"time"

	"github.com/terralink/cadastre/id"
)

// RelType classifies a tenure relationship. The vocabulary follows common
// land-administration practice; deployments may not use all of them.
type RelType string

const (
	RelFreehold        RelType = "FH"
	RelLeasehold       RelType = "LH"
	RelCustomaryRights RelType = "CR"
	RelOccupancy       RelType = "OC"
	RelTenancy         RelType = "TN"
	RelGrazingRights   RelType = "GZ"
	RelEasement        RelType = "ES"
	RelWaterRights     RelType = "WR"
)

// Relationship links a party to a spatial unit within a project.
type Relationship struct {
	ID            id.TenureID      `json:"id" db:"id"`
	ProjectID     id.ProjectID     `json:"project_id" db:"project_id"`
	PartyID       id.PartyID       `json:"party_id" db:"party_id"`
	SpatialUnitID id.SpatialUnitID `json:"spatial_unit_id" db:"spatial_unit_id"`
	Type          RelType          `json:"type" db:"type"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at" db:"updated_at"`
}

// ListFilter contains filters for listing tenure relationships.
type ListFilter struct {
	ProjectID     *id.ProjectID     `json:"project_id,omitempty"`
	PartyID       *id.PartyID       `json:"party_id,omitempty"`
	SpatialUnitID *id.SpatialUnitID `json:"spatial_unit_id,omitempty"`
	Limit         int               `json:"limit,omitempty"`
	Offset        int               `json:"offset,omitempty"`
}

// Store defines persistence operations for tenure relationships. Method
// names carry the Tenure prefix so the interface composes with the spatial
// relationship store in the aggregate store.
type Store interface {
	// CreateTenure persists a new tenure relationship.
	CreateTenure(ctx context.Context, r *Relationship) error

	// GetTenure retrieves a tenure relationship by ID.
	GetTenure(ctx context.Context, tenureID id.TenureID) (*Relationship, error)

	// UpdateTenure persists changes to a tenure relationship.
	UpdateTenure(ctx context.Context, r *Relationship) error

	// DeleteTenure removes a tenure relationship.
	DeleteTenure(ctx context.Context, tenureID id.TenureID) error

	// ListTenures returns tenure relationships matching the filter.
	ListTenures(ctx context.Context, filter *ListFilter) ([]*Relationship, error)
}
