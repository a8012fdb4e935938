// Package sqlite provides a SQLite implementation of the Cadastre composite
// store using grove ORM. Suited to field deployments and tests; JSON-valued
// columns are stored as text.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"
	"github.com/xraph/grove/migrate"

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
	"github.com/terralink/cadastre/store"
	"github.com/terralink/cadastre/tenure"
)

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// errNotFound is the sentinel for missing entities.
var errNotFound = fmt.Errorf("not found")

// Store is a SQLite implementation of the composite Cadastre store.
type Store struct {
	db  *grove.DB
	sdb *sqlitedriver.SqliteDB
}

// New creates a new SQLite store.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		sdb: sqlitedriver.Unwrap(db),
	}
}

// Migrate runs programmatic migrations via the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.sdb)
	if err != nil {
		return fmt.Errorf("cadastre/sqlite: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("cadastre/sqlite: migration failed: %w", err)
	}
	return nil
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// ──────────────────────────────────────────────────
// Policy document operations
// ──────────────────────────────────────────────────

func (s *Store) CreateDocument(ctx context.Context, d *policy.Document) error {
	if d.ID.IsNil() {
		d.ID = id.NewPolicyID()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	prev := new(documentModel)
	err := s.sdb.NewSelect(prev).
		Where("name = ?", d.Name).
		OrderExpr("version DESC").
		Limit(1).
		Scan(ctx)
	switch {
	case err == nil:
		d.Version = prev.Version + 1
	case isNoRows(err):
		d.Version = 1
	default:
		return fmt.Errorf("cadastre: create document: %w", err)
	}
	m, err := documentToModel(d)
	if err != nil {
		return fmt.Errorf("cadastre: create document: %w", err)
	}
	if _, err := s.sdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("cadastre: create document: %w", err)
	}
	return nil
}

func (s *Store) GetDocument(ctx context.Context, polID id.PolicyID) (*policy.Document, error) {
	m := new(documentModel)
	err := s.sdb.NewSelect(m).Where("id = ?", polID.String()).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("policy document %s: %w", polID, errNotFound)
		}
		return nil, fmt.Errorf("cadastre: get document: %w", err)
	}
	d, err := documentFromModel(m)
	if err != nil {
		return nil, fmt.Errorf("cadastre: get document: %w", err)
	}
	return d, nil
}

func (s *Store) GetDocumentByName(ctx context.Context, name string) (*policy.Document, error) {
	m := new(documentModel)
	err := s.sdb.NewSelect(m).
		Where("name = ?", name).
		OrderExpr("version DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("policy document %q: %w", name, errNotFound)
		}
		return nil, fmt.Errorf("cadastre: get document by name: %w", err)
	}
	d, err := documentFromModel(m)
	if err != nil {
		return nil, fmt.Errorf("cadastre: get document by name: %w", err)
	}
	return d, nil
}

func (s *Store) ListDocuments(ctx context.Context, filter *policy.ListFilter) ([]*policy.Document, error) {
	var models []documentModel
	q := s.sdb.NewSelect(&models).OrderExpr("created_at DESC")
	latestOnly := false
	if filter != nil {
		latestOnly = filter.LatestOnly
		if filter.Name != "" {
			q = q.Where("name = ?", filter.Name)
		}
		if !latestOnly {
			if filter.Limit > 0 {
				q = q.Limit(filter.Limit)
			}
			if filter.Offset > 0 {
				q = q.Offset(filter.Offset)
			}
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("cadastre: list documents: %w", err)
	}
	docs := make([]*policy.Document, 0, len(models))
	for i := range models {
		d, err := documentFromModel(&models[i])
		if err != nil {
			return nil, fmt.Errorf("cadastre: list documents: %w", err)
		}
		docs = append(docs, d)
	}
	if !latestOnly {
		return docs, nil
	}
	best := make(map[string]int)
	result := make([]*policy.Document, 0, len(docs))
	for _, d := range docs {
		if v, ok := best[d.Name]; !ok || d.Version > v {
			best[d.Name] = d.Version
		}
	}
	for _, d := range docs {
		if best[d.Name] == d.Version {
			result = append(result, d)
		}
	}
	if filter != nil {
		if filter.Offset > 0 {
			if filter.Offset >= len(result) {
				return []*policy.Document{}, nil
			}
			result = result[filter.Offset:]
		}
		if filter.Limit > 0 && filter.Limit < len(result) {
			result = result[:filter.Limit]
		}
	}
	return result, nil
}

func (s *Store) CountDocuments(ctx context.Context, filter *policy.ListFilter) (int64, error) {
	if filter != nil && filter.LatestOnly {
		f := *filter
		f.Limit = 0
		f.Offset = 0
		docs, err := s.ListDocuments(ctx, &f)
		if err != nil {
			return 0, err
		}
		return int64(len(docs)), nil
	}
	q := s.sdb.NewSelect((*documentModel)(nil))
	if filter != nil && filter.Name != "" {
		q = q.Where("name = ?", filter.Name)
	}
	count, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("cadastre: count documents: %w", err)
	}
	return count, nil
}

// ──────────────────────────────────────────────────
// Assignment operations
// ──────────────────────────────────────────────────

func (s *Store) CreateAssignment(ctx context.Context, a *assignment.Assignment) error {
	if a.ID.IsNil() {
		a.ID = id.NewAssignmentID()
	}
	a.CreatedAt = time.Now().UTC()
	m, err := assignmentToModel(a)
	if err != nil {
		return fmt.Errorf("cadastre: create assignment: %w", err)
	}
	count, err := s.sdb.NewSelect((*assignmentModel)(nil)).
		Where("principal_id = ?", m.PrincipalID).
		Where("policy_name = ?", m.PolicyName).
		Where("variables = ?", m.Variables).
		Count(ctx)
	if err != nil {
		return fmt.Errorf("cadastre: create assignment: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("principal %s policy %q: %w", a.PrincipalID, a.PolicyName, assignment.ErrDuplicate)
	}
	last := new(assignmentModel)
	err = s.sdb.NewSelect(last).OrderExpr("seq DESC").Limit(1).Scan(ctx)
	switch {
	case err == nil:
		a.Seq = last.Seq + 1
	case isNoRows(err):
		a.Seq = 1
	default:
		return fmt.Errorf("cadastre: create assignment: %w", err)
	}
	m.Seq = a.Seq
	if _, err := s.sdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("cadastre: create assignment: %w", err)
	}
	return nil
}

func (s *Store) ListAssignmentsForPrincipal(ctx context.Context, principalID id.PrincipalID) ([]*assignment.Assignment, error) {
	var models []assignmentModel
	err := s.sdb.NewSelect(&models).
		Where("principal_id = ?", principalID.String()).
		OrderExpr("seq ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("cadastre: list assignments for principal: %w", err)
	}
	result := make([]*assignment.Assignment, 0, len(models))
	for i := range models {
		a, err := assignmentFromModel(&models[i])
		if err != nil {
			return nil, fmt.Errorf("cadastre: list assignments for principal: %w", err)
		}
		result = append(result, a)
	}
	return result, nil
}

func (s *Store) DeleteAssignmentsMatching(ctx context.Context, principalID id.PrincipalID, policyName string, vars []assignment.Variable) error {
	if vars == nil {
		vars = []assignment.Variable{}
	}
	varsJSON, err := json.Marshal(vars)
	if err != nil {
		return fmt.Errorf("cadastre: delete assignments matching: %w", err)
	}
	_, err = s.sdb.NewDelete((*assignmentModel)(nil)).
		Where("principal_id = ?", principalID.String()).
		Where("policy_name = ?", policyName).
		Where("variables = ?", string(varsJSON)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("cadastre: delete assignments matching: %w", err)
	}
	return nil
}

func (s *Store) DeleteAssignmentsByVariable(ctx context.Context, principalID id.PrincipalID, name, value string) error {
	// Containment over the JSON text is not expressible here, so filter in Go.
	list, err := s.ListAssignmentsForPrincipal(ctx, principalID)
	if err != nil {
		return fmt.Errorf("cadastre: delete assignments by variable: %w", err)
	}
	for _, a := range list {
		if !a.HasVariable(name, value) {
			continue
		}
		_, err := s.sdb.NewDelete((*assignmentModel)(nil)).
			Where("id = ?", a.ID.String()).Exec(ctx)
		if err != nil {
			return fmt.Errorf("cadastre: delete assignments by variable: %w", err)
		}
	}
	return nil
}

func (s *Store) DeleteAssignmentsForPrincipal(ctx context.Context, principalID id.PrincipalID) error {
	_, err := s.sdb.NewDelete((*assignmentModel)(nil)).
		Where("principal_id = ?", principalID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("cadastre: delete assignments for principal: %w", err)
	}
	return nil
}

func (s *Store) ListAssignments(ctx context.Context, filter *assignment.ListFilter) ([]*assignment.Assignment, error) {
	var models []assignmentModel
	q := s.sdb.NewSelect(&models).OrderExpr("seq ASC")
	if filter != nil {
		if filter.PrincipalID != nil {
			q = q.Where("principal_id = ?", filter.PrincipalID.String())
		}
		if filter.PolicyName != "" {
			q = q.Where("policy_name = ?", filter.PolicyName)
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("cadastre: list assignments: %w", err)
	}
	result := make([]*assignment.Assignment, 0, len(models))
	for i := range models {
		a, err := assignmentFromModel(&models[i])
		if err != nil {
			return nil, fmt.Errorf("cadastre: list assignments: %w", err)
		}
		result = append(result, a)
	}
	return result, nil
}

func (s *Store) CountAssignments(ctx context.Context, filter *assignment.ListFilter) (int64, error) {
	q := s.sdb.NewSelect((*assignmentModel)(nil))
	if filter != nil {
		if filter.PrincipalID != nil {
			q = q.Where("principal_id = ?", filter.PrincipalID.String())
		}
		if filter.PolicyName != "" {
			q = q.Where("policy_name = ?", filter.PolicyName)
		}
	}
	count, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("cadastre: count assignments: %w", err)
	}
	return count, nil
}

// ──────────────────────────────────────────────────
// Membership operations
// ──────────────────────────────────────────────────

func (s *Store) CreateOrganizationRole(ctx context.Context, r *membership.OrganizationRole) error {
	if r.ID.IsNil() {
		r.ID = id.NewOrgRoleID()
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	count, err := s.sdb.NewSelect((*orgRoleModel)(nil)).
		Where("principal_id = ?", r.PrincipalID.String()).
		Where("organization_id = ?", r.OrganizationID.String()).
		Count(ctx)
	if err != nil {
		return fmt.Errorf("cadastre: create organization role: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("principal %s organization %s: %w", r.PrincipalID, r.OrganizationID, membership.ErrDuplicateRole)
	}
	m := orgRoleToModel(r)
	if _, err := s.sdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("cadastre: create organization role: %w", err)
	}
	return nil
}

func (s *Store) GetOrganizationRole(ctx context.Context, principalID id.PrincipalID, orgID id.OrganizationID) (*membership.OrganizationRole, error) {
	m := new(orgRoleModel)
	err := s.sdb.NewSelect(m).
		Where("principal_id = ?", principalID.String()).
		Where("organization_id = ?", orgID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("organization role for %s in %s: %w", principalID, orgID, errNotFound)
		}
		return nil, fmt.Errorf("cadastre: get organization role: %w", err)
	}
	return orgRoleFromModel(m), nil
}

func (s *Store) UpdateOrganizationRole(ctx context.Context, r *membership.OrganizationRole) error {
	r.UpdatedAt = time.Now().UTC()
	m := orgRoleToModel(r)
	if _, err := s.sdb.NewUpdate(m).WherePK().Exec(ctx); err != nil {
		return fmt.Errorf("cadastre: update organization role: %w", err)
	}
	return nil
}

func (s *Store) DeleteOrganizationRole(ctx context.Context, principalID id.PrincipalID, orgID id.OrganizationID) error {
	_, err := s.sdb.NewDelete((*orgRoleModel)(nil)).
		Where("principal_id = ?", principalID.String()).
		Where("organization_id = ?", orgID.String()).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("cadastre: delete organization role: %w", err)
	}
	return nil
}

func (s *Store) ListOrganizationRoles(ctx context.Context, orgID id.OrganizationID) ([]*membership.OrganizationRole, error) {
	var models []orgRoleModel
	err := s.sdb.NewSelect(&models).
		Where("organization_id = ?", orgID.String()).
		OrderExpr("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("cadastre: list organization roles: %w", err)
	}
	result := make([]*membership.OrganizationRole, len(models))
	for i := range models {
		result[i] = orgRoleFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) ListOrganizationRolesForPrincipal(ctx context.Context, principalID id.PrincipalID) ([]*membership.OrganizationRole, error) {
	var models []orgRoleModel
	err := s.sdb.NewSelect(&models).
		Where("principal_id = ?", principalID.String()).
		OrderExpr("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("cadastre: list organization roles for principal: %w", err)
	}
	result := make([]*membership.OrganizationRole, len(models))
	for i := range models {
		result[i] = orgRoleFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) CreateProjectRole(ctx context.Context, r *membership.ProjectRole) error {
	if r.ID.IsNil() {
		r.ID = id.NewProjectRoleID()
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	count, err := s.sdb.NewSelect((*projectRoleModel)(nil)).
		Where("principal_id = ?", r.PrincipalID.String()).
		Where("project_id = ?", r.ProjectID.String()).
		Count(ctx)
	if err != nil {
		return fmt.Errorf("cadastre: create project role: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("principal %s project %s: %w", r.PrincipalID, r.ProjectID, membership.ErrDuplicateRole)
	}
	m := projectRoleToModel(r)
	if _, err := s.sdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("cadastre: create project role: %w", err)
	}
	return nil
}

func (s *Store) GetProjectRole(ctx context.Context, principalID id.PrincipalID, projID id.ProjectID) (*membership.ProjectRole, error) {
	m := new(projectRoleModel)
	err := s.sdb.NewSelect(m).
		Where("principal_id = ?", principalID.String()).
		Where("project_id = ?", projID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("project role for %s in %s: %w", principalID, projID, errNotFound)
		}
		return nil, fmt.Errorf("cadastre: get project role: %w", err)
	}
	return projectRoleFromModel(m), nil
}

func (s *Store) UpdateProjectRole(ctx context.Context, r *membership.ProjectRole) error {
	r.UpdatedAt = time.Now().UTC()
	m := projectRoleToModel(r)
	if _, err := s.sdb.NewUpdate(m).WherePK().Exec(ctx); err != nil {
		return fmt.Errorf("cadastre: update project role: %w", err)
	}
	return nil
}

func (s *Store) DeleteProjectRole(ctx context.Context, principalID id.PrincipalID, projID id.ProjectID) error {
	_, err := s.sdb.NewDelete((*projectRoleModel)(nil)).
		Where("principal_id = ?", principalID.String()).
		Where("project_id = ?", projID.String()).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("cadastre: delete project role: %w", err)
	}
	return nil
}

func (s *Store) ListProjectRoles(ctx context.Context, projID id.ProjectID) ([]*membership.ProjectRole, error) {
	var models []projectRoleModel
	err := s.sdb.NewSelect(&models).
		Where("project_id = ?", projID.String()).
		OrderExpr("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("cadastre: list project roles: %w", err)
	}
	result := make([]*membership.ProjectRole, len(models))
	for i := range models {
		result[i] = projectRoleFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) ListProjectRolesForPrincipal(ctx context.Context, principalID id.PrincipalID) ([]*membership.ProjectRole, error) {
	var models []projectRoleModel
	err := s.sdb.NewSelect(&models).
		Where("principal_id = ?", principalID.String()).
		OrderExpr("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("cadastre: list project roles for principal: %w", err)
	}
	result := make([]*membership.ProjectRole, len(models))
	for i := range models {
		result[i] = projectRoleFromModel(&models[i])
	}
	return result, nil
}

// ──────────────────────────────────────────────────
// Principal operations
// ──────────────────────────────────────────────────

func (s *Store) CreatePrincipal(ctx context.Context, p *principal.Principal) error {
	if p.ID.IsNil() {
		p.ID = id.NewPrincipalID()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	m := principalToModel(p)
	if _, err := s.sdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("cadastre: create principal: %w", err)
	}
	return nil
}

func (s *Store) GetPrincipal(ctx context.Context, principalID id.PrincipalID) (*principal.Principal, error) {
	m := new(principalModel)
	err := s.sdb.NewSelect(m).Where("id = ?", principalID.String()).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("principal %s: %w", principalID, errNotFound)
		}
		return nil, fmt.Errorf("cadastre: get principal: %w", err)
	}
	return principalFromModel(m), nil
}

func (s *Store) GetPrincipalByUsername(ctx context.Context, username string) (*principal.Principal, error) {
	m := new(principalModel)
	err := s.sdb.NewSelect(m).Where("username = ?", username).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("principal %q: %w", username, errNotFound)
		}
		return nil, fmt.Errorf("cadastre: get principal by username: %w", err)
	}
	return principalFromModel(m), nil
}

func (s *Store) UpdatePrincipal(ctx context.Context, p *principal.Principal) error {
	p.UpdatedAt = time.Now().UTC()
	m := principalToModel(p)
	if _, err := s.sdb.NewUpdate(m).WherePK().Exec(ctx); err != nil {
		return fmt.Errorf("cadastre: update principal: %w", err)
	}
	return nil
}

func (s *Store) DeletePrincipal(ctx context.Context, principalID id.PrincipalID) error {
	_, err := s.sdb.NewDelete((*principalModel)(nil)).
		Where("id = ?", principalID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("cadastre: delete principal: %w", err)
	}
	return nil
}

func (s *Store) PrincipalExists(ctx context.Context, principalID id.PrincipalID) (bool, error) {
	count, err := s.sdb.NewSelect((*principalModel)(nil)).
		Where("id = ?", principalID.String()).
		Count(ctx)
	if err != nil {
		return false, fmt.Errorf("cadastre: principal exists: %w", err)
	}
	return count > 0, nil
}

func (s *Store) ListPrincipals(ctx context.Context, filter *principal.ListFilter) ([]*principal.Principal, error) {
	var models []principalModel
	q := s.sdb.NewSelect(&models).OrderExpr("created_at ASC")
	if filter != nil {
		if filter.Search != "" {
			q = q.Where("LOWER(username) LIKE LOWER(?)", "%"+filter.Search+"%")
		}
		if filter.Active != nil {
			q = q.Where("active = ?", *filter.Active)
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("cadastre: list principals: %w", err)
	}
	result := make([]*principal.Principal, len(models))
	for i := range models {
		result[i] = principalFromModel(&models[i])
	}
	return result, nil
}

// ──────────────────────────────────────────────────
// Organization operations
// ──────────────────────────────────────────────────

func (s *Store) CreateOrganization(ctx context.Context, o *organization.Organization) error {
	if o.ID.IsNil() {
		o.ID = id.NewOrganizationID()
	}
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
	m := organizationToModel(o)
	if _, err := s.sdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("cadastre: create organization: %w", err)
	}
	return nil
}

func (s *Store) GetOrganization(ctx context.Context, orgID id.OrganizationID) (*organization.Organization, error) {
	m := new(organizationModel)
	err := s.sdb.NewSelect(m).Where("id = ?", orgID.String()).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("organization %s: %w", orgID, errNotFound)
		}
		return nil, fmt.Errorf("cadastre: get organization: %w", err)
	}
	return organizationFromModel(m), nil
}

func (s *Store) GetOrganizationBySlug(ctx context.Context, slug string) (*organization.Organization, error) {
	m := new(organizationModel)
	err := s.sdb.NewSelect(m).Where("slug = ?", slug).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("organization slug %q: %w", slug, errNotFound)
		}
		return nil, fmt.Errorf("cadastre: get organization by slug: %w", err)
	}
	return organizationFromModel(m), nil
}

func (s *Store) UpdateOrganization(ctx context.Context, o *organization.Organization) error {
	o.UpdatedAt = time.Now().UTC()
	m := organizationToModel(o)
	if _, err := s.sdb.NewUpdate(m).WherePK().Exec(ctx); err != nil {
		return fmt.Errorf("cadastre: update organization: %w", err)
	}
	return nil
}

func (s *Store) DeleteOrganization(ctx context.Context, orgID id.OrganizationID) error {
	_, err := s.sdb.NewDelete((*organizationModel)(nil)).
		Where("id = ?", orgID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("cadastre: delete organization: %w", err)
	}
	return nil
}

func (s *Store) ListOrganizations(ctx context.Context, filter *organization.ListFilter) ([]*organization.Organization, error) {
	var models []organizationModel
	q := s.sdb.NewSelect(&models).OrderExpr("created_at ASC")
	if filter != nil {
		if filter.Archived != nil {
			q = q.Where("archived = ?", *filter.Archived)
		}
		if filter.Search != "" {
			q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Search+"%")
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("cadastre: list organizations: %w", err)
	}
	result := make([]*organization.Organization, len(models))
	for i := range models {
		result[i] = organizationFromModel(&models[i])
	}
	return result, nil
}

// ──────────────────────────────────────────────────
// Project operations
// ──────────────────────────────────────────────────

func (s *Store) CreateProject(ctx context.Context, p *project.Project) error {
	if p.ID.IsNil() {
		p.ID = id.NewProjectID()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.AccessPolicy == "" {
		p.AccessPolicy = project.AccessPrivate
	}
	m := projectToModel(p)
	if _, err := s.sdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("cadastre: create project: %w", err)
	}
	return nil
}

func (s *Store) GetProject(ctx context.Context, projID id.ProjectID) (*project.Project, error) {
	m := new(projectModel)
	err := s.sdb.NewSelect(m).Where("id = ?", projID.String()).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("project %s: %w", projID, errNotFound)
		}
		return nil, fmt.Errorf("cadastre: get project: %w", err)
	}
	return projectFromModel(m), nil
}

func (s *Store) GetProjectBySlug(ctx context.Context, orgID id.OrganizationID, slug string) (*project.Project, error) {
	m := new(projectModel)
	err := s.sdb.NewSelect(m).
		Where("organization_id = ?", orgID.String()).
		Where("slug = ?", slug).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("project slug %q: %w", slug, errNotFound)
		}
		return nil, fmt.Errorf("cadastre: get project by slug: %w", err)
	}
	return projectFromModel(m), nil
}

func (s *Store) UpdateProject(ctx context.Context, p *project.Project) error {
	p.UpdatedAt = time.Now().UTC()
	m := projectToModel(p)
	if _, err := s.sdb.NewUpdate(m).WherePK().Exec(ctx); err != nil {
		return fmt.Errorf("cadastre: update project: %w", err)
	}
	return nil
}

func (s *Store) DeleteProject(ctx context.Context, projID id.ProjectID) error {
	_, err := s.sdb.NewDelete((*projectModel)(nil)).
		Where("id = ?", projID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("cadastre: delete project: %w", err)
	}
	return nil
}

func (s *Store) ListProjects(ctx context.Context, filter *project.ListFilter) ([]*project.Project, error) {
	var models []projectModel
	q := s.sdb.NewSelect(&models).OrderExpr("created_at ASC")
	if filter != nil {
		if filter.OrganizationID != nil {
			q = q.Where("organization_id = ?", filter.OrganizationID.String())
		}
		if filter.Archived != nil {
			q = q.Where("archived = ?", *filter.Archived)
		}
		if filter.Search != "" {
			q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Search+"%")
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("cadastre: list projects: %w", err)
	}
	result := make([]*project.Project, len(models))
	for i := range models {
		result[i] = projectFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) ListProjectsForOrganization(ctx context.Context, orgID id.OrganizationID) ([]*project.Project, error) {
	return s.ListProjects(ctx, &project.ListFilter{OrganizationID: &orgID})
}

// ──────────────────────────────────────────────────
// Party operations
// ──────────────────────────────────────────────────

func (s *Store) CreateParty(ctx context.Context, p *party.Party) error {
	if p.ID.IsNil() {
		p.ID = id.NewPartyID()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	m := partyToModel(p)
	if _, err := s.sdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("cadastre: create party: %w", err)
	}
	return nil
}

func (s *Store) GetParty(ctx context.Context, partyID id.PartyID) (*party.Party, error) {
	m := new(partyModel)
	err := s.sdb.NewSelect(m).Where("id = ?", partyID.String()).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("party %s: %w", partyID, errNotFound)
		}
		return nil, fmt.Errorf("cadastre: get party: %w", err)
	}
	return partyFromModel(m), nil
}

func (s *Store) UpdateParty(ctx context.Context, p *party.Party) error {
	p.UpdatedAt = time.Now().UTC()
	m := partyToModel(p)
	if _, err := s.sdb.NewUpdate(m).WherePK().Exec(ctx); err != nil {
		return fmt.Errorf("cadastre: update party: %w", err)
	}
	return nil
}

func (s *Store) DeleteParty(ctx context.Context, partyID id.PartyID) error {
	_, err := s.sdb.NewDelete((*partyModel)(nil)).
		Where("id = ?", partyID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("cadastre: delete party: %w", err)
	}
	return nil
}

func (s *Store) ListParties(ctx context.Context, filter *party.ListFilter) ([]*party.Party, error) {
	var models []partyModel
	q := s.sdb.NewSelect(&models).OrderExpr("created_at ASC")
	if filter != nil {
		if filter.ProjectID != nil {
			q = q.Where("project_id = ?", filter.ProjectID.String())
		}
		if filter.Type != "" {
			q = q.Where("type = ?", string(filter.Type))
		}
		if filter.Search != "" {
			q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Search+"%")
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("cadastre: list parties: %w", err)
	}
	result := make([]*party.Party, len(models))
	for i := range models {
		result[i] = partyFromModel(&models[i])
	}
	return result, nil
}

// ──────────────────────────────────────────────────
// Spatial unit and relationship operations
// ──────────────────────────────────────────────────

func (s *Store) CreateUnit(ctx context.Context, u *spatial.Unit) error {
	if u.ID.IsNil() {
		u.ID = id.NewSpatialUnitID()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	m := spatialUnitToModel(u)
	if _, err := s.sdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("cadastre: create spatial unit: %w", err)
	}
	return nil
}

func (s *Store) GetUnit(ctx context.Context, unitID id.SpatialUnitID) (*spatial.Unit, error) {
	m := new(spatialUnitModel)
	err := s.sdb.NewSelect(m).Where("id = ?", unitID.String()).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("spatial unit %s: %w", unitID, errNotFound)
		}
		return nil, fmt.Errorf("cadastre: get spatial unit: %w", err)
	}
	return spatialUnitFromModel(m), nil
}

func (s *Store) UpdateUnit(ctx context.Context, u *spatial.Unit) error {
	u.UpdatedAt = time.Now().UTC()
	m := spatialUnitToModel(u)
	if _, err := s.sdb.NewUpdate(m).WherePK().Exec(ctx); err != nil {
		return fmt.Errorf("cadastre: update spatial unit: %w", err)
	}
	return nil
}

func (s *Store) DeleteUnit(ctx context.Context, unitID id.SpatialUnitID) error {
	_, err := s.sdb.NewDelete((*spatialUnitModel)(nil)).
		Where("id = ?", unitID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("cadastre: delete spatial unit: %w", err)
	}
	return nil
}

func (s *Store) ListUnits(ctx context.Context, filter *spatial.ListFilter) ([]*spatial.Unit, error) {
	var models []spatialUnitModel
	q := s.sdb.NewSelect(&models).OrderExpr("created_at ASC")
	if filter != nil {
		if filter.ProjectID != nil {
			q = q.Where("project_id = ?", filter.ProjectID.String())
		}
		if filter.Type != "" {
			q = q.Where("type = ?", string(filter.Type))
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("cadastre: list spatial units: %w", err)
	}
	result := make([]*spatial.Unit, len(models))
	for i := range models {
		result[i] = spatialUnitFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) CreateRelationship(ctx context.Context, r *spatial.Relationship) error {
	if r.ID.IsNil() {
		r.ID = id.NewSpatialRelID()
	}
	r.CreatedAt = time.Now().UTC()
	m := spatialRelToModel(r)
	if _, err := s.sdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("cadastre: create spatial relationship: %w", err)
	}
	return nil
}

func (s *Store) GetRelationship(ctx context.Context, relID id.SpatialRelID) (*spatial.Relationship, error) {
	m := new(spatialRelModel)
	err := s.sdb.NewSelect(m).Where("id = ?", relID.String()).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("spatial relationship %s: %w", relID, errNotFound)
		}
		return nil, fmt.Errorf("cadastre: get spatial relationship: %w", err)
	}
	return spatialRelFromModel(m), nil
}

func (s *Store) DeleteRelationship(ctx context.Context, relID id.SpatialRelID) error {
	_, err := s.sdb.NewDelete((*spatialRelModel)(nil)).
		Where("id = ?", relID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("cadastre: delete spatial relationship: %w", err)
	}
	return nil
}

func (s *Store) ListRelationshipsForUnit(ctx context.Context, unitID id.SpatialUnitID) ([]*spatial.Relationship, error) {
	var models []spatialRelModel
	err := s.sdb.NewSelect(&models).
		Where("unit1_id = ? OR unit2_id = ?", unitID.String(), unitID.String()).
		OrderExpr("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("cadastre: list spatial relationships for unit: %w", err)
	}
	result := make([]*spatial.Relationship, len(models))
	for i := range models {
		result[i] = spatialRelFromModel(&models[i])
	}
	return result, nil
}

// ──────────────────────────────────────────────────
// Tenure operations
// ──────────────────────────────────────────────────

func (s *Store) CreateTenure(ctx context.Context, r *tenure.Relationship) error {
	if r.ID.IsNil() {
		r.ID = id.NewTenureID()
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	m := tenureToModel(r)
	if _, err := s.sdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("cadastre: create tenure: %w", err)
	}
	return nil
}

func (s *Store) GetTenure(ctx context.Context, tenureID id.TenureID) (*tenure.Relationship, error) {
	m := new(tenureModel)
	err := s.sdb.NewSelect(m).Where("id = ?", tenureID.String()).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("tenure %s: %w", tenureID, errNotFound)
		}
		return nil, fmt.Errorf("cadastre: get tenure: %w", err)
	}
	return tenureFromModel(m), nil
}

func (s *Store) UpdateTenure(ctx context.Context, r *tenure.Relationship) error {
	r.UpdatedAt = time.Now().UTC()
	m := tenureToModel(r)
	if _, err := s.sdb.NewUpdate(m).WherePK().Exec(ctx); err != nil {
		return fmt.Errorf("cadastre: update tenure: %w", err)
	}
	return nil
}

func (s *Store) DeleteTenure(ctx context.Context, tenureID id.TenureID) error {
	_, err := s.sdb.NewDelete((*tenureModel)(nil)).
		Where("id = ?", tenureID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("cadastre: delete tenure: %w", err)
	}
	return nil
}

func (s *Store) ListTenures(ctx context.Context, filter *tenure.ListFilter) ([]*tenure.Relationship, error) {
	var models []tenureModel
	q := s.sdb.NewSelect(&models).OrderExpr("created_at ASC")
	if filter != nil {
		if filter.ProjectID != nil {
			q = q.Where("project_id = ?", filter.ProjectID.String())
		}
		if filter.PartyID != nil {
			q = q.Where("party_id = ?", filter.PartyID.String())
		}
		if filter.SpatialUnitID != nil {
			q = q.Where("spatial_unit_id = ?", filter.SpatialUnitID.String())
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("cadastre: list tenures: %w", err)
	}
	result := make([]*tenure.Relationship, len(models))
	for i := range models {
		result[i] = tenureFromModel(&models[i])
	}
	return result, nil
}

// ──────────────────────────────────────────────────
// Check log operations
// ──────────────────────────────────────────────────

func (s *Store) CreateCheckLog(ctx context.Context, e *checklog.Entry) error {
	if e.ID.IsNil() {
		e.ID = id.NewCheckLogID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	m := checkLogToModel(e)
	if _, err := s.sdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("cadastre: create check log: %w", err)
	}
	return nil
}

func (s *Store) GetCheckLog(ctx context.Context, logID id.CheckLogID) (*checklog.Entry, error) {
	m := new(checkLogModel)
	err := s.sdb.NewSelect(m).Where("id = ?", logID.String()).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("check log %s: %w", logID, errNotFound)
		}
		return nil, fmt.Errorf("cadastre: get check log: %w", err)
	}
	return checkLogFromModel(m), nil
}

func (s *Store) ListCheckLogs(ctx context.Context, filter *checklog.QueryFilter) ([]*checklog.Entry, error) {
	var models []checkLogModel
	q := s.sdb.NewSelect(&models).OrderExpr("created_at DESC")
	if filter != nil {
		if filter.PrincipalID != nil {
			q = q.Where("principal_id = ?", filter.PrincipalID.String())
		}
		if filter.Action != "" {
			q = q.Where("action = ?", filter.Action)
		}
		if filter.Object != "" {
			q = q.Where("object = ?", filter.Object)
		}
		if filter.Decision != "" {
			q = q.Where("decision = ?", filter.Decision)
		}
		if filter.After != nil {
			q = q.Where("created_at >= ?", *filter.After)
		}
		if filter.Before != nil {
			q = q.Where("created_at <= ?", *filter.Before)
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("cadastre: list check logs: %w", err)
	}
	result := make([]*checklog.Entry, len(models))
	for i := range models {
		result[i] = checkLogFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) CountCheckLogs(ctx context.Context, filter *checklog.QueryFilter) (int64, error) {
	q := s.sdb.NewSelect((*checkLogModel)(nil))
	if filter != nil {
		if filter.PrincipalID != nil {
			q = q.Where("principal_id = ?", filter.PrincipalID.String())
		}
		if filter.Action != "" {
			q = q.Where("action = ?", filter.Action)
		}
		if filter.Object != "" {
			q = q.Where("object = ?", filter.Object)
		}
		if filter.Decision != "" {
			q = q.Where("decision = ?", filter.Decision)
		}
		if filter.After != nil {
			q = q.Where("created_at >= ?", *filter.After)
		}
		if filter.Before != nil {
			q = q.Where("created_at <= ?", *filter.Before)
		}
	}
	count, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("cadastre: count check logs: %w", err)
	}
	return count, nil
}

func (s *Store) PurgeCheckLogs(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.sdb.NewDelete((*checkLogModel)(nil)).
		Where("created_at < ?", before).Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("cadastre: purge check logs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cadastre: purge check logs rows: %w", err)
	}
	return n, nil
}
