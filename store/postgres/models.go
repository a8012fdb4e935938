package postgres

import (
	"time"

	"github.com/xraph/grove"

	"github.com/terralink/cadastre/assignment"
	"github.com/terralink/cadastre/checklog"
	"github.com/terralink/cadastre/id"
	"github.com/terralink/cadastre/membership"
	"github.com/terralink/cadastre/organization"
	"github.com/terralink/cadastre/party"
	"github.com/terralink/cadastre/policy"
	"github.com/terralink/cadastre/principal"
	"github.com/terralink/cadastre/project"
	"github.com/terralink/cadastre/spatial"
	"github.com/terralink/cadastre/tenure"
)

// ──────────────────────────────────────────────────
// Policy document model
// ──────────────────────────────────────────────────

type documentModel struct {
	grove.BaseModel `grove:"table:cadastre_policy_documents"`
	ID              string          `grove:"id,pk"`
	Name            string          `grove:"name,notnull"`
	Version         int             `grove:"version,notnull"`
	Clauses         []policy.Clause `grove:"clauses,type:jsonb"`
	CreatedAt       time.Time       `grove:"created_at,notnull"`
}

func documentToModel(d *policy.Document) *documentModel {
	return &documentModel{
		ID:        d.ID.String(),
		Name:      d.Name,
		Version:   d.Version,
		Clauses:   d.Clauses,
		CreatedAt: d.CreatedAt,
	}
}

func documentFromModel(m *documentModel) *policy.Document {
	pid, _ := id.ParsePolicyID(m.ID) //nolint:errcheck // stored IDs are always valid
	return &policy.Document{
		ID:        pid,
		Name:      m.Name,
		Version:   m.Version,
		Clauses:   m.Clauses,
		CreatedAt: m.CreatedAt,
	}
}

// ──────────────────────────────────────────────────
// Assignment model
// ──────────────────────────────────────────────────

type assignmentModel struct {
	grove.BaseModel `grove:"table:cadastre_assignments"`
	ID              string                `grove:"id,pk"`
	PrincipalID     string                `grove:"principal_id,notnull"`
	PolicyID        string                `grove:"policy_id,notnull"`
	PolicyName      string                `grove:"policy_name,notnull"`
	PolicyVersion   int                   `grove:"policy_version,notnull"`
	Variables       []assignment.Variable `grove:"variables,type:jsonb"`
	Seq             int64                 `grove:"seq,notnull"`
	CreatedAt       time.Time             `grove:"created_at,notnull"`
}

func assignmentToModel(a *assignment.Assignment) *assignmentModel {
	return &assignmentModel{
		ID:            a.ID.String(),
		PrincipalID:   a.PrincipalID.String(),
		PolicyID:      a.PolicyID.String(),
		PolicyName:    a.PolicyName,
		PolicyVersion: a.PolicyVersion,
		Variables:     a.Variables,
		Seq:           a.Seq,
		CreatedAt:     a.CreatedAt,
	}
}

func assignmentFromModel(m *assignmentModel) *assignment.Assignment {
	aid, _ := id.ParseAssignmentID(m.ID)       //nolint:errcheck // stored IDs are always valid
	prid, _ := id.ParsePrincipalID(m.PrincipalID) //nolint:errcheck // stored IDs are always valid
	pid, _ := id.ParsePolicyID(m.PolicyID)     //nolint:errcheck // stored IDs are always valid
	return &assignment.Assignment{
		ID:            aid,
		PrincipalID:   prid,
		PolicyID:      pid,
		PolicyName:    m.PolicyName,
		PolicyVersion: m.PolicyVersion,
		Variables:     m.Variables,
		Seq:           m.Seq,
		CreatedAt:     m.CreatedAt,
	}
}

// ──────────────────────────────────────────────────
// Membership models
// ──────────────────────────────────────────────────

type orgRoleModel struct {
	grove.BaseModel `grove:"table:cadastre_organization_roles"`
	ID              string    `grove:"id,pk"`
	PrincipalID     string    `grove:"principal_id,notnull"`
	OrganizationID  string    `grove:"organization_id,notnull"`
	Admin           bool      `grove:"admin,notnull"`
	CreatedAt       time.Time `grove:"created_at,notnull"`
	UpdatedAt       time.Time `grove:"updated_at,notnull"`
}

func orgRoleToModel(r *membership.OrganizationRole) *orgRoleModel {
	return &orgRoleModel{
		ID:             r.ID.String(),
		PrincipalID:    r.PrincipalID.String(),
		OrganizationID: r.OrganizationID.String(),
		Admin:          r.Admin,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func orgRoleFromModel(m *orgRoleModel) *membership.OrganizationRole {
	rid, _ := id.ParseOrgRoleID(m.ID)              //nolint:errcheck // stored IDs are always valid
	prid, _ := id.ParsePrincipalID(m.PrincipalID)  //nolint:errcheck // stored IDs are always valid
	oid, _ := id.ParseOrganizationID(m.OrganizationID) //nolint:errcheck // stored IDs are always valid
	return &membership.OrganizationRole{
		ID:             rid,
		PrincipalID:    prid,
		OrganizationID: oid,
		Admin:          m.Admin,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

type projectRoleModel struct {
	grove.BaseModel `grove:"table:cadastre_project_roles"`
	ID              string    `grove:"id,pk"`
	PrincipalID     string    `grove:"principal_id,notnull"`
	ProjectID       string    `grove:"project_id,notnull"`
	Role            string    `grove:"role,notnull"`
	CreatedAt       time.Time `grove:"created_at,notnull"`
	UpdatedAt       time.Time `grove:"updated_at,notnull"`
}

func projectRoleToModel(r *membership.ProjectRole) *projectRoleModel {
	return &projectRoleModel{
		ID:          r.ID.String(),
		PrincipalID: r.PrincipalID.String(),
		ProjectID:   r.ProjectID.String(),
		Role:        string(r.Role),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func projectRoleFromModel(m *projectRoleModel) *membership.ProjectRole {
	rid, _ := id.ParseProjectRoleID(m.ID)         //nolint:errcheck // stored IDs are always valid
	prid, _ := id.ParsePrincipalID(m.PrincipalID) //nolint:errcheck // stored IDs are always valid
	pjid, _ := id.ParseProjectID(m.ProjectID)     //nolint:errcheck // stored IDs are always valid
	return &membership.ProjectRole{
		ID:          rid,
		PrincipalID: prid,
		ProjectID:   pjid,
		Role:        membership.RoleCode(m.Role),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// ──────────────────────────────────────────────────
// Principal model
// ──────────────────────────────────────────────────

type principalModel struct {
	grove.BaseModel `grove:"table:cadastre_principals"`
	ID              string    `grove:"id,pk"`
	Username        string    `grove:"username,notnull"`
	Email           string    `grove:"email"`
	FullName        string    `grove:"full_name"`
	Active          bool      `grove:"active,notnull"`
	CreatedAt       time.Time `grove:"created_at,notnull"`
	UpdatedAt       time.Time `grove:"updated_at,notnull"`
}

func principalToModel(p *principal.Principal) *principalModel {
	return &principalModel{
		ID:        p.ID.String(),
		Username:  p.Username,
		Email:     p.Email,
		FullName:  p.FullName,
		Active:    p.Active,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func principalFromModel(m *principalModel) *principal.Principal {
	pid, _ := id.ParsePrincipalID(m.ID) //nolint:errcheck // stored IDs are always valid
	return &principal.Principal{
		ID:        pid,
		Username:  m.Username,
		Email:     m.Email,
		FullName:  m.FullName,
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// ──────────────────────────────────────────────────
// Organization model
// ──────────────────────────────────────────────────

type organizationModel struct {
	grove.BaseModel `grove:"table:cadastre_organizations"`
	ID              string    `grove:"id,pk"`
	Slug            string    `grove:"slug,notnull"`
	Name            string    `grove:"name,notnull"`
	Description     string    `grove:"description"`
	Archived        bool      `grove:"archived,notnull"`
	CreatedAt       time.Time `grove:"created_at,notnull"`
	UpdatedAt       time.Time `grove:"updated_at,notnull"`
}

func organizationToModel(o *organization.Organization) *organizationModel {
	return &organizationModel{
		ID:          o.ID.String(),
		Slug:        o.Slug,
		Name:        o.Name,
		Description: o.Description,
		Archived:    o.Archived,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func organizationFromModel(m *organizationModel) *organization.Organization {
	oid, _ := id.ParseOrganizationID(m.ID) //nolint:errcheck // stored IDs are always valid
	return &organization.Organization{
		ID:          oid,
		Slug:        m.Slug,
		Name:        m.Name,
		Description: m.Description,
		Archived:    m.Archived,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// ──────────────────────────────────────────────────
// Project model
// ──────────────────────────────────────────────────

type projectModel struct {
	grove.BaseModel `grove:"table:cadastre_projects"`
	ID              string    `grove:"id,pk"`
	OrganizationID  string    `grove:"organization_id,notnull"`
	Slug            string    `grove:"slug,notnull"`
	Name            string    `grove:"name,notnull"`
	Description     string    `grove:"description"`
	AccessPolicy    string    `grove:"access_policy,notnull"`
	Archived        bool      `grove:"archived,notnull"`
	CreatedAt       time.Time `grove:"created_at,notnull"`
	UpdatedAt       time.Time `grove:"updated_at,notnull"`
}

func projectToModel(p *project.Project) *projectModel {
	return &projectModel{
		ID:             p.ID.String(),
		OrganizationID: p.OrganizationID.String(),
		Slug:           p.Slug,
		Name:           p.Name,
		Description:    p.Description,
		AccessPolicy:   string(p.AccessPolicy),
		Archived:       p.Archived,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func projectFromModel(m *projectModel) *project.Project {
	pid, _ := id.ParseProjectID(m.ID)                  //nolint:errcheck // stored IDs are always valid
	oid, _ := id.ParseOrganizationID(m.OrganizationID) //nolint:errcheck // stored IDs are always valid
	return &project.Project{
		ID:             pid,
		OrganizationID: oid,
		Slug:           m.Slug,
		Name:           m.Name,
		Description:    m.Description,
		AccessPolicy:   project.AccessPolicy(m.AccessPolicy),
		Archived:       m.Archived,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// ──────────────────────────────────────────────────
// Party model
// ──────────────────────────────────────────────────

type partyModel struct {
	grove.BaseModel `grove:"table:cadastre_parties"`
	ID              string    `grove:"id,pk"`
	ProjectID       string    `grove:"project_id,notnull"`
	Name            string    `grove:"name,notnull"`
	Type            string    `grove:"type,notnull"`
	CreatedAt       time.Time `grove:"created_at,notnull"`
	UpdatedAt       time.Time `grove:"updated_at,notnull"`
}

func partyToModel(p *party.Party) *partyModel {
	return &partyModel{
		ID:        p.ID.String(),
		ProjectID: p.ProjectID.String(),
		Name:      p.Name,
		Type:      string(p.Type),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func partyFromModel(m *partyModel) *party.Party {
	pid, _ := id.ParsePartyID(m.ID)           //nolint:errcheck // stored IDs are always valid
	pjid, _ := id.ParseProjectID(m.ProjectID) //nolint:errcheck // stored IDs are always valid
	return &party.Party{
		ID:        pid,
		ProjectID: pjid,
		Name:      m.Name,
		Type:      party.Type(m.Type),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// ──────────────────────────────────────────────────
// Spatial unit and relationship models
// ──────────────────────────────────────────────────

type spatialUnitModel struct {
	grove.BaseModel `grove:"table:cadastre_spatial_units"`
	ID              string    `grove:"id,pk"`
	ProjectID       string    `grove:"project_id,notnull"`
	Type            string    `grove:"type,notnull"`
	Geometry        string    `grove:"geometry"`
	CreatedAt       time.Time `grove:"created_at,notnull"`
	UpdatedAt       time.Time `grove:"updated_at,notnull"`
}

func spatialUnitToModel(u *spatial.Unit) *spatialUnitModel {
	return &spatialUnitModel{
		ID:        u.ID.String(),
		ProjectID: u.ProjectID.String(),
		Type:      string(u.Type),
		Geometry:  u.Geometry,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func spatialUnitFromModel(m *spatialUnitModel) *spatial.Unit {
	uid, _ := id.ParseSpatialUnitID(m.ID)     //nolint:errcheck // stored IDs are always valid
	pjid, _ := id.ParseProjectID(m.ProjectID) //nolint:errcheck // stored IDs are always valid
	return &spatial.Unit{
		ID:        uid,
		ProjectID: pjid,
		Type:      spatial.UnitType(m.Type),
		Geometry:  m.Geometry,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type spatialRelModel struct {
	grove.BaseModel `grove:"table:cadastre_spatial_relationships"`
	ID              string    `grove:"id,pk"`
	ProjectID       string    `grove:"project_id,notnull"`
	Unit1ID         string    `grove:"unit1_id,notnull"`
	Unit2ID         string    `grove:"unit2_id,notnull"`
	Type            string    `grove:"type,notnull"`
	CreatedAt       time.Time `grove:"created_at,notnull"`
}

func spatialRelToModel(r *spatial.Relationship) *spatialRelModel {
	return &spatialRelModel{
		ID:        r.ID.String(),
		ProjectID: r.ProjectID.String(),
		Unit1ID:   r.Unit1ID.String(),
		Unit2ID:   r.Unit2ID.String(),
		Type:      string(r.Type),
		CreatedAt: r.CreatedAt,
	}
}

func spatialRelFromModel(m *spatialRelModel) *spatial.Relationship {
	rid, _ := id.ParseSpatialRelID(m.ID)      //nolint:errcheck // stored IDs are always valid
	pjid, _ := id.ParseProjectID(m.ProjectID) //nolint:errcheck // stored IDs are always valid
	u1, _ := id.ParseSpatialUnitID(m.Unit1ID) //nolint:errcheck // stored IDs are always valid
	u2, _ := id.ParseSpatialUnitID(m.Unit2ID) //nolint:errcheck // stored IDs are always valid
	return &spatial.Relationship{
		ID:        rid,
		ProjectID: pjid,
		Unit1ID:   u1,
		Unit2ID:   u2,
		Type:      spatial.RelType(m.Type),
		CreatedAt: m.CreatedAt,
	}
}

// ──────────────────────────────────────────────────
// Tenure model
// ──────────────────────────────────────────────────

type tenureModel struct {
	grove.BaseModel `grove:"table:cadastre_tenure_relationships"`
	ID              string    `grove:"id,pk"`
	ProjectID       string    `grove:"project_id,notnull"`
	PartyID         string    `grove:"party_id,notnull"`
	SpatialUnitID   string    `grove:"spatial_unit_id,notnull"`
	Type            string    `grove:"type,notnull"`
	CreatedAt       time.Time `grove:"created_at,notnull"`
	UpdatedAt       time.Time `grove:"updated_at,notnull"`
}

func tenureToModel(r *tenure.Relationship) *tenureModel {
	return &tenureModel{
		ID:            r.ID.String(),
		ProjectID:     r.ProjectID.String(),
		PartyID:       r.PartyID.String(),
		SpatialUnitID: r.SpatialUnitID.String(),
		Type:          string(r.Type),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func tenureFromModel(m *tenureModel) *tenure.Relationship {
	tid, _ := id.ParseTenureID(m.ID)               //nolint:errcheck // stored IDs are always valid
	pjid, _ := id.ParseProjectID(m.ProjectID)      //nolint:errcheck // stored IDs are always valid
	paid, _ := id.ParsePartyID(m.PartyID)          //nolint:errcheck // stored IDs are always valid
	suid, _ := id.ParseSpatialUnitID(m.SpatialUnitID) //nolint:errcheck // stored IDs are always valid
	return &tenure.Relationship{
		ID:            tid,
		ProjectID:     pjid,
		PartyID:       paid,
		SpatialUnitID: suid,
		Type:          tenure.RelType(m.Type),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// ──────────────────────────────────────────────────
// Check log model
// ──────────────────────────────────────────────────

type checkLogModel struct {
	grove.BaseModel `grove:"table:cadastre_check_logs"`
	ID              string    `grove:"id,pk"`
	PrincipalID     string    `grove:"principal_id,notnull"`
	Action          string    `grove:"action,notnull"`
	Object          string    `grove:"object,notnull"`
	Decision        string    `grove:"decision,notnull"`
	Reason          string    `grove:"reason"`
	EvalTimeNs      int64     `grove:"eval_time_ns,notnull"`
	CreatedAt       time.Time `grove:"created_at,notnull"`
}

func checkLogToModel(e *checklog.Entry) *checkLogModel {
	return &checkLogModel{
		ID:          e.ID.String(),
		PrincipalID: e.PrincipalID.String(),
		Action:      e.Action,
		Object:      e.Object,
		Decision:    e.Decision,
		Reason:      e.Reason,
		EvalTimeNs:  e.EvalTimeNs,
		CreatedAt:   e.CreatedAt,
	}
}

func checkLogFromModel(m *checkLogModel) *checklog.Entry {
	clid, _ := id.ParseCheckLogID(m.ID)           //nolint:errcheck // stored IDs are always valid
	prid, _ := id.ParsePrincipalID(m.PrincipalID) //nolint:errcheck // stored IDs are always valid
	return &checklog.Entry{
		ID:          clid,
		PrincipalID: prid,
		Action:      m.Action,
		Object:      m.Object,
		Decision:    m.Decision,
		Reason:      m.Reason,
		EvalTimeNs:  m.EvalTimeNs,
		CreatedAt:   m.CreatedAt,
	}
}
