// Package records exposes the land-administration record surface:
// organizations, projects, spatial units, parties and tenure relationships,
// every operation guarded by the authorization engine. It is the component
// that turns entities into the slash-delimited object paths the engine
// evaluates; the engine itself never sees entities, only paths.
package records

import (
	"strings"

	"github.com/terralink/cadastre/id"
)

// Object path prefixes. Policy clauses match on these.
const (
	prefixOrganization = "organization"
	prefixProject      = "project"
	prefixSpatial      = "spatial"
	prefixSpatialRel   = "spatial_rel"
	prefixParty        = "party"
	prefixTenure       = "tenure"
)

// OrganizationsPath is the collection path for organization-level actions
// such as org.list and org.create.
func OrganizationsPath() string { return prefixOrganization }

// OrganizationPath returns "organization/<slug>".
func OrganizationPath(orgSlug string) string {
	return joinPath(prefixOrganization, orgSlug)
}

// ProjectPath returns "project/<org-slug>/<project-slug>".
func ProjectPath(orgSlug, projSlug string) string {
	return joinPath(prefixProject, orgSlug, projSlug)
}

// SpatialUnitPath returns "spatial/<org-slug>/<project-slug>/<unit-id>".
func SpatialUnitPath(orgSlug, projSlug string, unitID id.SpatialUnitID) string {
	return joinPath(prefixSpatial, orgSlug, projSlug, unitID.String())
}

// SpatialRelPath returns "spatial_rel/<org-slug>/<project-slug>/<rel-id>".
func SpatialRelPath(orgSlug, projSlug string, relID id.SpatialRelID) string {
	return joinPath(prefixSpatialRel, orgSlug, projSlug, relID.String())
}

// PartyPath returns "party/<org-slug>/<project-slug>/<party-id>".
func PartyPath(orgSlug, projSlug string, partyID id.PartyID) string {
	return joinPath(prefixParty, orgSlug, projSlug, partyID.String())
}

// TenurePath returns "tenure/<org-slug>/<project-slug>/<tenure-id>".
func TenurePath(orgSlug, projSlug string, tenureID id.TenureID) string {
	return joinPath(prefixTenure, orgSlug, projSlug, tenureID.String())
}

func joinPath(segments ...string) string {
	return strings.Join(segments, "/")
}
