// Package spatial defines the SpatialUnit entity (a land parcel or other
// unit of land) and the relationships between spatial units. Geometry is an
// opaque GeoJSON string; the platform stores and returns it but never
// interprets it.
package spatial

import (
	"context"
	"time"

	"github.com/terralink/cadastre/id"
)

// UnitType classifies a spatial unit.
type UnitType string

const (
	// UnitParcel is a land parcel.
	UnitParcel UnitType = "PA"

	// UnitBuilding is a building.
	UnitBuilding UnitType = "BU"

	// UnitApartment is a unit within a building.
	UnitApartment UnitType = "AP"

	// UnitRightOfWay is a right-of-way strip.
	UnitRightOfWay UnitType = "RW"

	// UnitMiscellaneous covers everything else.
	UnitMiscellaneous UnitType = "MI"
)

// Unit is a spatial unit within a project.
type Unit struct {
	ID        id.SpatialUnitID `json:"id" db:"id"`
	ProjectID id.ProjectID     `json:"project_id" db:"project_id"`
	Type      UnitType         `json:"type" db:"type"`
	Geometry  string           `json:"geometry,omitempty" db:"geometry"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt time.Time        `json:"updated_at" db:"updated_at"`
}

// RelType classifies a relationship between two spatial units.
type RelType string

const (
	// RelContains means the first unit spatially contains the second.
	RelContains RelType = "C"

	// RelSplit means the first unit was split into the second.
	RelSplit RelType = "S"

	// RelMerge means the first unit was merged into the second.
	RelMerge RelType = "M"
)

// Relationship links two spatial units within a project.
type Relationship struct {
	ID        id.SpatialRelID  `json:"id" db:"id"`
	ProjectID id.ProjectID     `json:"project_id" db:"project_id"`
	Unit1ID   id.SpatialUnitID `json:"unit1_id" db:"unit1_id"`
	Unit2ID   id.SpatialUnitID `json:"unit2_id" db:"unit2_id"`
	Type      RelType          `json:"type" db:"type"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}

// ListFilter contains filters for listing spatial units.
type ListFilter struct {
	ProjectID *id.ProjectID `json:"project_id,omitempty"`
	Type      UnitType      `json:"type,omitempty"`
	Limit     int           `json:"limit,omitempty"`
	Offset    int           `json:"offset,omitempty"`
}

// Store defines persistence operations for spatial units and relationships.
type Store interface {
	// CreateUnit persists a new spatial unit.
	CreateUnit(ctx context.Context, u *Unit) error

	// GetUnit retrieves a spatial unit by ID.
	GetUnit(ctx context.Context, unitID id.SpatialUnitID) (*Unit, error)

	// UpdateUnit persists changes to a spatial unit.
	UpdateUnit(ctx context.Context, u *Unit) error

	// DeleteUnit removes a spatial unit.
	DeleteUnit(ctx context.Context, unitID id.SpatialUnitID) error

	// ListUnits returns spatial units matching the filter.
	ListUnits(ctx context.Context, filter *ListFilter) ([]*Unit, error)

	// CreateRelationship persists a new spatial relationship.
	CreateRelationship(ctx context.Context, r *Relationship) error

	// GetRelationship retrieves a spatial relationship by ID.
	GetRelationship(ctx context.Context, relID id.SpatialRelID) (*Relationship, error)

	// DeleteRelationship removes a spatial relationship.
	DeleteRelationship(ctx context.Context, relID id.SpatialRelID) error

	// ListRelationshipsForUnit returns relationships where the unit appears
	// on either side.
	ListRelationshipsForUnit(ctx context.Context, unitID id.SpatialUnitID) ([]*Relationship, error)
}
