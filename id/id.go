// Package id defines TypeID-based identity types for all cadastre entities.
//
// Every entity uses a single ID struct with a prefix that identifies the
// entity type. IDs are K-sortable (UUIDv7-based), globally unique, URL-safe
// strings in the format "prefix_suffix". Record identifiers are never
// sequential integers: an outside observer cannot enumerate parcels or
// parties by walking an integer keyspace, and records from independent
// deployments can be merged without key collisions.
package id

import (
	"database/sql/driver"
	"fmt"

	"go.jetify.com/typeid/v2"
)

// Prefix identifies the entity type encoded in a TypeID.
type Prefix string

// Prefix constants for all cadastre entity types.
const (
	PrefixOrganization Prefix = "org"
	PrefixProject      Prefix = "proj"
	PrefixParty        Prefix = "party"
	PrefixSpatialUnit  Prefix = "spat"
	PrefixSpatialRel   Prefix = "sprel"
	PrefixTenure       Prefix = "tenure"
	PrefixPrincipal    Prefix = "user"
	PrefixPolicy       Prefix = "pol"
	PrefixAssignment   Prefix = "asgn"
	PrefixOrgRole      Prefix = "orgrole"
	PrefixProjectRole  Prefix = "projrole"
	PrefixCheckLog     Prefix = "chklog"
)

// ID is the primary identifier type for all cadastre entities.
// It wraps a TypeID providing a prefix-qualified, globally unique,
// sortable, URL-safe identifier in the format "prefix_suffix".
//
//nolint:recvcheck // Value receivers for read-only methods, pointer receivers for UnmarshalText/Scan.
type ID struct {
	inner typeid.TypeID
	valid bool
}

// Nil is the zero-value ID.
var Nil ID

// New generates a new globally unique ID with the given prefix.
// It panics if prefix is not a valid TypeID prefix (programming error).
func New(prefix Prefix) ID {
	tid, err := typeid.Generate(string(prefix))
	if err != nil {
		panic(fmt.Sprintf("id: invalid prefix %q: %v", prefix, err))
	}

	return ID{inner: tid, valid: true}
}

// Parse parses a TypeID string (e.g., "org_01h2xcejqtf2nbrexx3vqjhp41")
// into an ID. Returns an error if the string is not valid.
func Parse(s string) (ID, error) {
	if s == "" {
		return Nil, fmt.Errorf("id: parse %q: empty string", s)
	}

	tid, err := typeid.Parse(s)
	if err != nil {
		return Nil, fmt.Errorf("id: parse %q: %w", s, err)
	}

	return ID{inner: tid, valid: true}, nil
}

// ParseWithPrefix parses a TypeID string and validates that its prefix
// matches the expected value.
func ParseWithPrefix(s string, expected Prefix) (ID, error) {
	parsed, err := Parse(s)
	if err != nil {
		return Nil, err
	}

	if parsed.Prefix() != expected {
		return Nil, fmt.Errorf("id: expected prefix %q, got %q", expected, parsed.Prefix())
	}

	return parsed, nil
}

// MustParse is like Parse but panics on error. Use for hardcoded ID values.
func MustParse(s string) ID {
	parsed, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("id: must parse %q: %v", s, err))
	}

	return parsed
}

// ──────────────────────────────────────────────────
// Type aliases
// ──────────────────────────────────────────────────

// OrganizationID is a type-safe identifier for organizations (prefix: "org").
type OrganizationID = ID

// ProjectID is a type-safe identifier for projects (prefix: "proj").
type ProjectID = ID

// PartyID is a type-safe identifier for parties (prefix: "party").
type PartyID = ID

// SpatialUnitID is a type-safe identifier for spatial units (prefix: "spat").
type SpatialUnitID = ID

// SpatialRelID is a type-safe identifier for spatial relationships (prefix: "sprel").
type SpatialRelID = ID

// TenureID is a type-safe identifier for tenure relationships (prefix: "tenure").
type TenureID = ID

// PrincipalID is a type-safe identifier for principals (prefix: "user").
type PrincipalID = ID

// PolicyID is a type-safe identifier for policy documents (prefix: "pol").
type PolicyID = ID

// AssignmentID is a type-safe identifier for policy assignments (prefix: "asgn").
type AssignmentID = ID

// OrgRoleID is a type-safe identifier for organization roles (prefix: "orgrole").
type OrgRoleID = ID

// ProjectRoleID is a type-safe identifier for project roles (prefix: "projrole").
type ProjectRoleID = ID

// CheckLogID is a type-safe identifier for decision log entries (prefix: "chklog").
type CheckLogID = ID

// ──────────────────────────────────────────────────
// Convenience constructors
// ──────────────────────────────────────────────────

// NewOrganizationID generates a new unique organization ID.
func NewOrganizationID() ID { return New(PrefixOrganization) }

// NewProjectID generates a new unique project ID.
func NewProjectID() ID { return New(PrefixProject) }

// NewPartyID generates a new unique party ID.
func NewPartyID() ID { return New(PrefixParty) }

// NewSpatialUnitID generates a new unique spatial unit ID.
func NewSpatialUnitID() ID { return New(PrefixSpatialUnit) }

// NewSpatialRelID generates a new unique spatial relationship ID.
func NewSpatialRelID() ID { return New(PrefixSpatialRel) }

// NewTenureID generates a new unique tenure relationship ID.
func NewTenureID() ID { return New(PrefixTenure) }

// NewPrincipalID generates a new unique principal ID.
func NewPrincipalID() ID { return New(PrefixPrincipal) }

// NewPolicyID generates a new unique policy document ID.
func NewPolicyID() ID { return New(PrefixPolicy) }

// NewAssignmentID generates a new unique assignment ID.
func NewAssignmentID() ID { return New(PrefixAssignment) }

// NewOrgRoleID generates a new unique organization role ID.
func NewOrgRoleID() ID { return New(PrefixOrgRole) }

// NewProjectRoleID generates a new unique project role ID.
func NewProjectRoleID() ID { return New(PrefixProjectRole) }

// NewCheckLogID generates a new unique decision log entry ID.
func NewCheckLogID() ID { return New(PrefixCheckLog) }

// ──────────────────────────────────────────────────
// Convenience parsers
// ──────────────────────────────────────────────────

// ParseOrganizationID parses a string and validates the "org" prefix.
func ParseOrganizationID(s string) (ID, error) { return ParseWithPrefix(s, PrefixOrganization) }

// ParseProjectID parses a string and validates the "proj" prefix.
func ParseProjectID(s string) (ID, error) { return ParseWithPrefix(s, PrefixProject) }

// ParsePartyID parses a string and validates the "party" prefix.
func ParsePartyID(s string) (ID, error) { return ParseWithPrefix(s, PrefixParty) }

// ParseSpatialUnitID parses a string and validates the "spat" prefix.
func ParseSpatialUnitID(s string) (ID, error) { return ParseWithPrefix(s, PrefixSpatialUnit) }

// ParseSpatialRelID parses a string and validates the "sprel" prefix.
func ParseSpatialRelID(s string) (ID, error) { return ParseWithPrefix(s, PrefixSpatialRel) }

// ParseTenureID parses a string and validates the "tenure" prefix.
func ParseTenureID(s string) (ID, error) { return ParseWithPrefix(s, PrefixTenure) }

// ParsePrincipalID parses a string and validates the "user" prefix.
func ParsePrincipalID(s string) (ID, error) { return ParseWithPrefix(s, PrefixPrincipal) }

// ParsePolicyID parses a string and validates the "pol" prefix.
func ParsePolicyID(s string) (ID, error) { return ParseWithPrefix(s, PrefixPolicy) }

// ParseAssignmentID parses a string and validates the "asgn" prefix.
func ParseAssignmentID(s string) (ID, error) { return ParseWithPrefix(s, PrefixAssignment) }

// ParseOrgRoleID parses a string and validates the "orgrole" prefix.
func ParseOrgRoleID(s string) (ID, error) { return ParseWithPrefix(s, PrefixOrgRole) }

// ParseProjectRoleID parses a string and validates the "projrole" prefix.
func ParseProjectRoleID(s string) (ID, error) { return ParseWithPrefix(s, PrefixProjectRole) }

// ParseCheckLogID parses a string and validates the "chklog" prefix.
func ParseCheckLogID(s string) (ID, error) { return ParseWithPrefix(s, PrefixCheckLog) }

// ──────────────────────────────────────────────────
// ID methods
// ──────────────────────────────────────────────────

// String returns the full TypeID string representation (prefix_suffix).
// Returns an empty string for the Nil ID.
func (i ID) String() string {
	if !i.valid {
		return ""
	}

	return i.inner.String()
}

// Prefix returns the prefix component of this ID.
func (i ID) Prefix() Prefix {
	if !i.valid {
		return ""
	}

	return Prefix(i.inner.Prefix())
}

// IsNil reports whether this ID is the zero value.
func (i ID) IsNil() bool {
	return !i.valid
}

// MarshalText implements encoding.TextMarshaler.
func (i ID) MarshalText() ([]byte, error) {
	if !i.valid {
		return []byte{}, nil
	}

	return []byte(i.inner.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *ID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*i = Nil

		return nil
	}

	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}

	*i = parsed

	return nil
}

// Value implements driver.Valuer for database storage.
// Returns nil for the Nil ID so that optional foreign key columns store NULL.
func (i ID) Value() (driver.Value, error) {
	if !i.valid {
		return nil, nil //nolint:nilnil // nil is the canonical NULL for driver.Valuer
	}

	return i.inner.String(), nil
}

// Scan implements sql.Scanner for database retrieval.
func (i *ID) Scan(src any) error {
	if src == nil {
		*i = Nil

		return nil
	}

	switch v := src.(type) {
	case string:
		if v == "" {
			*i = Nil

			return nil
		}

		return i.UnmarshalText([]byte(v))
	case []byte:
		if len(v) == 0 {
			*i = Nil

			return nil
		}

		return i.UnmarshalText(v)
	default:
		return fmt.Errorf("id: cannot scan %T into ID", src)
	}
}
