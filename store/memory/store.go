// Package memory provides an in-memory implementation of the cadastre
// composite store. It is intended for testing and development.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

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

// Compile-time interface checks.
var (
	_ policy.Store       = (*Store)(nil)
	_ assignment.Store   = (*Store)(nil)
	_ membership.Store   = (*Store)(nil)
	_ principal.Store    = (*Store)(nil)
	_ organization.Store = (*Store)(nil)
	_ project.Store      = (*Store)(nil)
	_ party.Store        = (*Store)(nil)
	_ spatial.Store      = (*Store)(nil)
	_ tenure.Store       = (*Store)(nil)
	_ checklog.Store     = (*Store)(nil)
)

// Store is a thread-safe in-memory store for all cadastre entities.
// Writes are serialized under a single mutex, so two concurrent membership
// changes for the same principal cannot interleave.
type Store struct {
	mu sync.RWMutex

	documents     map[string]*policy.Document
	assignments   map[string]*assignment.Assignment
	orgRoles      map[string]*membership.OrganizationRole
	projRoles     map[string]*membership.ProjectRole
	principals    map[string]*principal.Principal
	organizations map[string]*organization.Organization
	projects      map[string]*project.Project
	parties       map[string]*party.Party
	spatialUnits  map[string]*spatial.Unit
	spatialRels   map[string]*spatial.Relationship
	tenures       map[string]*tenure.Relationship
	checkLogs     map[string]*checklog.Entry

	nextSeq int64
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		documents:     make(map[string]*policy.Document),
		assignments:   make(map[string]*assignment.Assignment),
		orgRoles:      make(map[string]*membership.OrganizationRole),
		projRoles:     make(map[string]*membership.ProjectRole),
		principals:    make(map[string]*principal.Principal),
		organizations: make(map[string]*organization.Organization),
		projects:      make(map[string]*project.Project),
		parties:       make(map[string]*party.Party),
		spatialUnits:  make(map[string]*spatial.Unit),
		spatialRels:   make(map[string]*spatial.Relationship),
		tenures:       make(map[string]*tenure.Relationship),
		checkLogs:     make(map[string]*checklog.Entry),
	}
}

// Migrate is a no-op for the memory store.
func (s *Store) Migrate(_ context.Context) error { return nil }

// Ping is a no-op for the memory store.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op for the memory store.
func (s *Store) Close() error { return nil }

// ──────────────────────────────────────────────────
// Policy Store
// ──────────────────────────────────────────────────

func (s *Store) CreateDocument(_ context.Context, d *policy.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.ID.IsNil() {
		d.ID = id.NewPolicyID()
	}
	version := 1
	for _, existing := range s.documents {
		if existing.Name == d.Name && existing.Version >= version {
			version = existing.Version + 1
		}
	}
	d.Version = version
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}

	s.documents[d.ID.String()] = copyDocument(d)
	return nil
}

func (s *Store) GetDocument(_ context.Context, polID id.PolicyID) (*policy.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.documents[polID.String()]
	if !ok {
		return nil, fmt.Errorf("policy document %s: %w", polID, errNotFound)
	}
	return copyDocument(d), nil
}

func (s *Store) GetDocumentByName(_ context.Context, name string) (*policy.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *policy.Document
	for _, d := range s.documents {
		if d.Name != name {
			continue
		}
		if latest == nil || d.Version > latest.Version {
			latest = d
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("policy document %q: %w", name, errNotFound)
	}
	return copyDocument(latest), nil
}

func (s *Store) ListDocuments(_ context.Context, filter *policy.ListFilter) ([]*policy.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	latest := make(map[string]int)
	if filter != nil && filter.LatestOnly {
		for _, d := range s.documents {
			if d.Version > latest[d.Name] {
				latest[d.Name] = d.Version
			}
		}
	}

	result := make([]*policy.Document, 0, len(s.documents))
	for _, d := range s.documents {
		if filter != nil {
			if filter.Name != "" && d.Name != filter.Name {
				continue
			}
			if filter.LatestOnly && d.Version != latest[d.Name] {
				continue
			}
		}
		result = append(result, copyDocument(d))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].Version > result[j].Version
	})
	return applyPagination(result, paginationOptsPol(filter)), nil
}

func (s *Store) CountDocuments(ctx context.Context, filter *policy.ListFilter) (int64, error) {
	var unpaged *policy.ListFilter
	if filter != nil {
		f := *filter
		f.Limit = 0
		f.Offset = 0
		unpaged = &f
	}
	list, err := s.ListDocuments(ctx, unpaged)
	if err != nil {
		return 0, err
	}
	return int64(len(list)), nil
}

// ──────────────────────────────────────────────────
// Assignment Store
// ──────────────────────────────────────────────────

func (s *Store) CreateAssignment(_ context.Context, a *assignment.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.assignments {
		if existing.PrincipalID.String() == a.PrincipalID.String() &&
			existing.PolicyName == a.PolicyName &&
			assignment.VariablesEqual(existing.Variables, a.Variables) {
			return fmt.Errorf("principal %s policy %q: %w", a.PrincipalID, a.PolicyName, assignment.ErrDuplicate)
		}
	}

	if a.ID.IsNil() {
		a.ID = id.NewAssignmentID()
	}
	s.nextSeq++
	a.Seq = s.nextSeq
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	s.assignments[a.ID.String()] = copyAssignment(a)
	return nil
}

func (s *Store) ListAssignmentsForPrincipal(_ context.Context, principalID id.PrincipalID) ([]*assignment.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*assignment.Assignment
	for _, a := range s.assignments {
		if a.PrincipalID.String() == principalID.String() {
			result = append(result, copyAssignment(a))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Seq < result[j].Seq })
	return result, nil
}

func (s *Store) DeleteAssignmentsMatching(_ context.Context, principalID id.PrincipalID, policyName string, vars []assignment.Variable) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, a := range s.assignments {
		if a.PrincipalID.String() == principalID.String() &&
			a.PolicyName == policyName &&
			assignment.VariablesEqual(a.Variables, vars) {
			delete(s.assignments, k)
		}
	}
	return nil
}

func (s *Store) DeleteAssignmentsByVariable(_ context.Context, principalID id.PrincipalID, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, a := range s.assignments {
		if a.PrincipalID.String() == principalID.String() && a.HasVariable(name, value) {
			delete(s.assignments, k)
		}
	}
	return nil
}

func (s *Store) DeleteAssignmentsForPrincipal(_ context.Context, principalID id.PrincipalID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, a := range s.assignments {
		if a.PrincipalID.String() == principalID.String() {
			delete(s.assignments, k)
		}
	}
	return nil
}

func (s *Store) ListAssignments(_ context.Context, filter *assignment.ListFilter) ([]*assignment.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*assignment.Assignment, 0, len(s.assignments))
	for _, a := range s.assignments {
		if filter != nil {
			if filter.PrincipalID != nil && a.PrincipalID.String() != filter.PrincipalID.String() {
				continue
			}
			if filter.PolicyName != "" && a.PolicyName != filter.PolicyName {
				continue
			}
		}
		result = append(result, copyAssignment(a))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Seq < result[j].Seq })
	return applyPagination(result, paginationOptsAssign(filter)), nil
}

func (s *Store) CountAssignments(ctx context.Context, filter *assignment.ListFilter) (int64, error) {
	var unpaged *assignment.ListFilter
	if filter != nil {
		f := *filter
		f.Limit = 0
		f.Offset = 0
		unpaged = &f
	}
	list, err := s.ListAssignments(ctx, unpaged)
	if err != nil {
		return 0, err
	}
	return int64(len(list)), nil
}

// ──────────────────────────────────────────────────
// Membership Store
// ──────────────────────────────────────────────────

func (s *Store) CreateOrganizationRole(_ context.Context, r *membership.OrganizationRole) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.orgRoles {
		if existing.PrincipalID.String() == r.PrincipalID.String() &&
			existing.OrganizationID.String() == r.OrganizationID.String() {
			return fmt.Errorf("principal %s organization %s: %w", r.PrincipalID, r.OrganizationID, membership.ErrDuplicateRole)
		}
	}

	if r.ID.IsNil() {
		r.ID = id.NewOrgRoleID()
	}
	now := time.Now().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now

	s.orgRoles[r.ID.String()] = copyOrgRole(r)
	return nil
}

func (s *Store) GetOrganizationRole(_ context.Context, principalID id.PrincipalID, orgID id.OrganizationID) (*membership.OrganizationRole, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.orgRoles {
		if r.PrincipalID.String() == principalID.String() && r.OrganizationID.String() == orgID.String() {
			return copyOrgRole(r), nil
		}
	}
	return nil, fmt.Errorf("organization role for %s in %s: %w", principalID, orgID, errNotFound)
}

func (s *Store) UpdateOrganizationRole(_ context.Context, r *membership.OrganizationRole) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orgRoles[r.ID.String()]; !ok {
		return fmt.Errorf("organization role %s: %w", r.ID, errNotFound)
	}
	r.UpdatedAt = time.Now().UTC()
	s.orgRoles[r.ID.String()] = copyOrgRole(r)
	return nil
}

func (s *Store) DeleteOrganizationRole(_ context.Context, principalID id.PrincipalID, orgID id.OrganizationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, r := range s.orgRoles {
		if r.PrincipalID.String() == principalID.String() && r.OrganizationID.String() == orgID.String() {
			delete(s.orgRoles, k)
		}
	}
	return nil
}

func (s *Store) ListOrganizationRoles(_ context.Context, orgID id.OrganizationID) ([]*membership.OrganizationRole, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*membership.OrganizationRole
	for _, r := range s.orgRoles {
		if r.OrganizationID.String() == orgID.String() {
			result = append(result, copyOrgRole(r))
		}
	}
	return result, nil
}

func (s *Store) ListOrganizationRolesForPrincipal(_ context.Context, principalID id.PrincipalID) ([]*membership.OrganizationRole, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*membership.OrganizationRole
	for _, r := range s.orgRoles {
		if r.PrincipalID.String() == principalID.String() {
			result = append(result, copyOrgRole(r))
		}
	}
	return result, nil
}

func (s *Store) CreateProjectRole(_ context.Context, r *membership.ProjectRole) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.projRoles {
		if existing.PrincipalID.String() == r.PrincipalID.String() &&
			existing.ProjectID.String() == r.ProjectID.String() {
			return fmt.Errorf("principal %s project %s: %w", r.PrincipalID, r.ProjectID, membership.ErrDuplicateRole)
		}
	}

	if r.ID.IsNil() {
		r.ID = id.NewProjectRoleID()
	}
	now := time.Now().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now

	s.projRoles[r.ID.String()] = copyProjectRole(r)
	return nil
}

func (s *Store) GetProjectRole(_ context.Context, principalID id.PrincipalID, projID id.ProjectID) (*membership.ProjectRole, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.projRoles {
		if r.PrincipalID.String() == principalID.String() && r.ProjectID.String() == projID.String() {
			return copyProjectRole(r), nil
		}
	}
	return nil, fmt.Errorf("project role for %s in %s: %w", principalID, projID, errNotFound)
}

func (s *Store) UpdateProjectRole(_ context.Context, r *membership.ProjectRole) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projRoles[r.ID.String()]; !ok {
		return fmt.Errorf("project role %s: %w", r.ID, errNotFound)
	}
	r.UpdatedAt = time.Now().UTC()
	s.projRoles[r.ID.String()] = copyProjectRole(r)
	return nil
}

func (s *Store) DeleteProjectRole(_ context.Context, principalID id.PrincipalID, projID id.ProjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, r := range s.projRoles {
		if r.PrincipalID.String() == principalID.String() && r.ProjectID.String() == projID.String() {
			delete(s.projRoles, k)
		}
	}
	return nil
}

func (s *Store) ListProjectRoles(_ context.Context, projID id.ProjectID) ([]*membership.ProjectRole, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*membership.ProjectRole
	for _, r := range s.projRoles {
		if r.ProjectID.String() == projID.String() {
			result = append(result, copyProjectRole(r))
		}
	}
	return result, nil
}

func (s *Store) ListProjectRolesForPrincipal(_ context.Context, principalID id.PrincipalID) ([]*membership.ProjectRole, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*membership.ProjectRole
	for _, r := range s.projRoles {
		if r.PrincipalID.String() == principalID.String() {
			result = append(result, copyProjectRole(r))
		}
	}
	return result, nil
}

// ──────────────────────────────────────────────────
// Principal Store
// ──────────────────────────────────────────────────

func (s *Store) CreatePrincipal(_ context.Context, p *principal.Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID.IsNil() {
		p.ID = id.NewPrincipalID()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	s.principals[p.ID.String()] = copyPrincipal(p)
	return nil
}

func (s *Store) GetPrincipal(_ context.Context, principalID id.PrincipalID) (*principal.Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.principals[principalID.String()]
	if !ok {
		return nil, fmt.Errorf("principal %s: %w", principalID, errNotFound)
	}
	return copyPrincipal(p), nil
}

func (s *Store) GetPrincipalByUsername(_ context.Context, username string) (*principal.Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.principals {
		if p.Username == username {
			return copyPrincipal(p), nil
		}
	}
	return nil, fmt.Errorf("principal %q: %w", username, errNotFound)
}

func (s *Store) UpdatePrincipal(_ context.Context, p *principal.Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.principals[p.ID.String()]; !ok {
		return fmt.Errorf("principal %s: %w", p.ID, errNotFound)
	}
	p.UpdatedAt = time.Now().UTC()
	s.principals[p.ID.String()] = copyPrincipal(p)
	return nil
}

func (s *Store) DeletePrincipal(_ context.Context, principalID id.PrincipalID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.principals, principalID.String())
	return nil
}

func (s *Store) PrincipalExists(_ context.Context, principalID id.PrincipalID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.principals[principalID.String()]
	return ok, nil
}

func (s *Store) ListPrincipals(_ context.Context, filter *principal.ListFilter) ([]*principal.Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*principal.Principal, 0, len(s.principals))
	for _, p := range s.principals {
		if filter != nil {
			if filter.Active != nil && p.Active != *filter.Active {
				continue
			}
			if filter.Search != "" && !strings.Contains(p.Username, filter.Search) &&
				!strings.Contains(p.FullName, filter.Search) {
				continue
			}
		}
		result = append(result, copyPrincipal(p))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Username < result[j].Username })
	return applyPagination(result, paginationOptsPrincipal(filter)), nil
}

// ──────────────────────────────────────────────────
// Organization Store
// ──────────────────────────────────────────────────

func (s *Store) CreateOrganization(_ context.Context, o *organization.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID.IsNil() {
		o.ID = id.NewOrganizationID()
	}
	now := time.Now().UTC()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now
	s.organizations[o.ID.String()] = copyOrganization(o)
	return nil
}

func (s *Store) GetOrganization(_ context.Context, orgID id.OrganizationID) (*organization.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.organizations[orgID.String()]
	if !ok {
		return nil, fmt.Errorf("organization %s: %w", orgID, errNotFound)
	}
	return copyOrganization(o), nil
}

func (s *Store) GetOrganizationBySlug(_ context.Context, slug string) (*organization.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.organizations {
		if o.Slug == slug {
			return copyOrganization(o), nil
		}
	}
	return nil, fmt.Errorf("organization %q: %w", slug, errNotFound)
}

func (s *Store) UpdateOrganization(_ context.Context, o *organization.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.organizations[o.ID.String()]; !ok {
		return fmt.Errorf("organization %s: %w", o.ID, errNotFound)
	}
	o.UpdatedAt = time.Now().UTC()
	s.organizations[o.ID.String()] = copyOrganization(o)
	return nil
}

func (s *Store) DeleteOrganization(_ context.Context, orgID id.OrganizationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.organizations, orgID.String())
	return nil
}

func (s *Store) ListOrganizations(_ context.Context, filter *organization.ListFilter) ([]*organization.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*organization.Organization, 0, len(s.organizations))
	for _, o := range s.organizations {
		if filter != nil {
			if filter.Archived != nil && o.Archived != *filter.Archived {
				continue
			}
			if filter.Search != "" && !strings.Contains(o.Name, filter.Search) &&
				!strings.Contains(o.Slug, filter.Search) {
				continue
			}
		}
		result = append(result, copyOrganization(o))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Slug < result[j].Slug })
	return applyPagination(result, paginationOptsOrg(filter)), nil
}

// ──────────────────────────────────────────────────
// Project Store
// ──────────────────────────────────────────────────

func (s *Store) CreateProject(_ context.Context, p *project.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID.IsNil() {
		p.ID = id.NewProjectID()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	s.projects[p.ID.String()] = copyProject(p)
	return nil
}

func (s *Store) GetProject(_ context.Context, projID id.ProjectID) (*project.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[projID.String()]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", projID, errNotFound)
	}
	return copyProject(p), nil
}

func (s *Store) GetProjectBySlug(_ context.Context, orgID id.OrganizationID, slug string) (*project.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.projects {
		if p.OrganizationID.String() == orgID.String() && p.Slug == slug {
			return copyProject(p), nil
		}
	}
	return nil, fmt.Errorf("project %q in %s: %w", slug, orgID, errNotFound)
}

func (s *Store) UpdateProject(_ context.Context, p *project.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[p.ID.String()]; !ok {
		return fmt.Errorf("project %s: %w", p.ID, errNotFound)
	}
	p.UpdatedAt = time.Now().UTC()
	s.projects[p.ID.String()] = copyProject(p)
	return nil
}

func (s *Store) DeleteProject(_ context.Context, projID id.ProjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.projects, projID.String())
	return nil
}

func (s *Store) ListProjects(_ context.Context, filter *project.ListFilter) ([]*project.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*project.Project, 0, len(s.projects))
	for _, p := range s.projects {
		if filter != nil {
			if filter.OrganizationID != nil && p.OrganizationID.String() != filter.OrganizationID.String() {
				continue
			}
			if filter.Archived != nil && p.Archived != *filter.Archived {
				continue
			}
			if filter.Search != "" && !strings.Contains(p.Name, filter.Search) &&
				!strings.Contains(p.Slug, filter.Search) {
				continue
			}
		}
		result = append(result, copyProject(p))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Slug < result[j].Slug })
	return applyPagination(result, paginationOptsProj(filter)), nil
}

func (s *Store) ListProjectsForOrganization(ctx context.Context, orgID id.OrganizationID) ([]*project.Project, error) {
	return s.ListProjects(ctx, &project.ListFilter{OrganizationID: &orgID})
}

// ──────────────────────────────────────────────────
// Party Store
// ──────────────────────────────────────────────────

func (s *Store) CreateParty(_ context.Context, p *party.Party) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID.IsNil() {
		p.ID = id.NewPartyID()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	s.parties[p.ID.String()] = copyParty(p)
	return nil
}

func (s *Store) GetParty(_ context.Context, partyID id.PartyID) (*party.Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.parties[partyID.String()]
	if !ok {
		return nil, fmt.Errorf("party %s: %w", partyID, errNotFound)
	}
	return copyParty(p), nil
}

func (s *Store) UpdateParty(_ context.Context, p *party.Party) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.parties[p.ID.String()]; !ok {
		return fmt.Errorf("party %s: %w", p.ID, errNotFound)
	}
	p.UpdatedAt = time.Now().UTC()
	s.parties[p.ID.String()] = copyParty(p)
	return nil
}

func (s *Store) DeleteParty(_ context.Context, partyID id.PartyID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.parties, partyID.String())
	return nil
}

func (s *Store) ListParties(_ context.Context, filter *party.ListFilter) ([]*party.Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*party.Party, 0, len(s.parties))
	for _, p := range s.parties {
		if filter != nil {
			if filter.ProjectID != nil && p.ProjectID.String() != filter.ProjectID.String() {
				continue
			}
			if filter.Type != "" && p.Type != filter.Type {
				continue
			}
			if filter.Search != "" && !strings.Contains(p.Name, filter.Search) {
				continue
			}
		}
		result = append(result, copyParty(p))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return applyPagination(result, paginationOptsParty(filter)), nil
}

// ──────────────────────────────────────────────────
// Spatial Store
// ──────────────────────────────────────────────────

func (s *Store) CreateUnit(_ context.Context, u *spatial.Unit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID.IsNil() {
		u.ID = id.NewSpatialUnitID()
	}
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	s.spatialUnits[u.ID.String()] = copyUnit(u)
	return nil
}

func (s *Store) GetUnit(_ context.Context, unitID id.SpatialUnitID) (*spatial.Unit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.spatialUnits[unitID.String()]
	if !ok {
		return nil, fmt.Errorf("spatial unit %s: %w", unitID, errNotFound)
	}
	return copyUnit(u), nil
}

func (s *Store) UpdateUnit(_ context.Context, u *spatial.Unit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.spatialUnits[u.ID.String()]; !ok {
		return fmt.Errorf("spatial unit %s: %w", u.ID, errNotFound)
	}
	u.UpdatedAt = time.Now().UTC()
	s.spatialUnits[u.ID.String()] = copyUnit(u)
	return nil
}

func (s *Store) DeleteUnit(_ context.Context, unitID id.SpatialUnitID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.spatialUnits, unitID.String())
	return nil
}

func (s *Store) ListUnits(_ context.Context, filter *spatial.ListFilter) ([]*spatial.Unit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*spatial.Unit, 0, len(s.spatialUnits))
	for _, u := range s.spatialUnits {
		if filter != nil {
			if filter.ProjectID != nil && u.ProjectID.String() != filter.ProjectID.String() {
				continue
			}
			if filter.Type != "" && u.Type != filter.Type {
				continue
			}
		}
		result = append(result, copyUnit(u))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID.String() < result[j].ID.String() })
	return applyPagination(result, paginationOptsSpatial(filter)), nil
}

func (s *Store) CreateRelationship(_ context.Context, r *spatial.Relationship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID.IsNil() {
		r.ID = id.NewSpatialRelID()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	s.spatialRels[r.ID.String()] = copySpatialRel(r)
	return nil
}

func (s *Store) GetRelationship(_ context.Context, relID id.SpatialRelID) (*spatial.Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.spatialRels[relID.String()]
	if !ok {
		return nil, fmt.Errorf("spatial relationship %s: %w", relID, errNotFound)
	}
	return copySpatialRel(r), nil
}

func (s *Store) DeleteRelationship(_ context.Context, relID id.SpatialRelID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.spatialRels, relID.String())
	return nil
}

func (s *Store) ListRelationshipsForUnit(_ context.Context, unitID id.SpatialUnitID) ([]*spatial.Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*spatial.Relationship
	for _, r := range s.spatialRels {
		if r.Unit1ID.String() == unitID.String() || r.Unit2ID.String() == unitID.String() {
			result = append(result, copySpatialRel(r))
		}
	}
	return result, nil
}

// ──────────────────────────────────────────────────
// Tenure Store
// ──────────────────────────────────────────────────

func (s *Store) CreateTenure(_ context.Context, r *tenure.Relationship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID.IsNil() {
		r.ID = id.NewTenureID()
	}
	now := time.Now().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	s.tenures[r.ID.String()] = copyTenure(r)
	return nil
}

func (s *Store) GetTenure(_ context.Context, tenureID id.TenureID) (*tenure.Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.tenures[tenureID.String()]
	if !ok {
		return nil, fmt.Errorf("tenure relationship %s: %w", tenureID, errNotFound)
	}
	return copyTenure(r), nil
}

func (s *Store) UpdateTenure(_ context.Context, r *tenure.Relationship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tenures[r.ID.String()]; !ok {
		return fmt.Errorf("tenure relationship %s: %w", r.ID, errNotFound)
	}
	r.UpdatedAt = time.Now().UTC()
	s.tenures[r.ID.String()] = copyTenure(r)
	return nil
}

func (s *Store) DeleteTenure(_ context.Context, tenureID id.TenureID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tenures, tenureID.String())
	return nil
}

func (s *Store) ListTenures(_ context.Context, filter *tenure.ListFilter) ([]*tenure.Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*tenure.Relationship, 0, len(s.tenures))
	for _, r := range s.tenures {
		if filter != nil {
			if filter.ProjectID != nil && r.ProjectID.String() != filter.ProjectID.String() {
				continue
			}
			if filter.PartyID != nil && r.PartyID.String() != filter.PartyID.String() {
				continue
			}
			if filter.SpatialUnitID != nil && r.SpatialUnitID.String() != filter.SpatialUnitID.String() {
				continue
			}
		}
		result = append(result, copyTenure(r))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID.String() < result[j].ID.String() })
	return applyPagination(result, paginationOptsTenure(filter)), nil
}

// ──────────────────────────────────────────────────
// CheckLog Store
// ──────────────────────────────────────────────────

func (s *Store) CreateCheckLog(_ context.Context, e *checklog.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID.IsNil() {
		e.ID = id.NewCheckLogID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	s.checkLogs[e.ID.String()] = copyCheckLog(e)
	return nil
}

func (s *Store) GetCheckLog(_ context.Context, logID id.CheckLogID) (*checklog.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.checkLogs[logID.String()]
	if !ok {
		return nil, fmt.Errorf("check log %s: %w", logID, errNotFound)
	}
	return copyCheckLog(e), nil
}

func (s *Store) ListCheckLogs(_ context.Context, filter *checklog.QueryFilter) ([]*checklog.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*checklog.Entry, 0, len(s.checkLogs))
	for _, e := range s.checkLogs {
		if filter != nil {
			if filter.PrincipalID != nil && e.PrincipalID.String() != filter.PrincipalID.String() {
				continue
			}
			if filter.Action != "" && e.Action != filter.Action {
				continue
			}
			if filter.Object != "" && e.Object != filter.Object {
				continue
			}
			if filter.Decision != "" && e.Decision != filter.Decision {
				continue
			}
			if filter.After != nil && e.CreatedAt.Before(*filter.After) {
				continue
			}
			if filter.Before != nil && e.CreatedAt.After(*filter.Before) {
				continue
			}
		}
		result = append(result, copyCheckLog(e))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return applyPagination(result, paginationOptsCL(filter)), nil
}

func (s *Store) CountCheckLogs(ctx context.Context, filter *checklog.QueryFilter) (int64, error) {
	var unpaged *checklog.QueryFilter
	if filter != nil {
		f := *filter
		f.Limit = 0
		f.Offset = 0
		unpaged = &f
	}
	list, err := s.ListCheckLogs(ctx, unpaged)
	if err != nil {
		return 0, err
	}
	return int64(len(list)), nil
}

func (s *Store) PurgeCheckLogs(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for k, e := range s.checkLogs {
		if e.CreatedAt.Before(before) {
			delete(s.checkLogs, k)
			count++
		}
	}
	return count, nil
}

// ──────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────

var errNotFound = fmt.Errorf("not found")

func copyDocument(d *policy.Document) *policy.Document {
	c := *d
	if d.Clauses != nil {
		c.Clauses = make([]policy.Clause, len(d.Clauses))
		copy(c.Clauses, d.Clauses)
	}
	return &c
}

func copyAssignment(a *assignment.Assignment) *assignment.Assignment {
	c := *a
	if a.Variables != nil {
		c.Variables = make([]assignment.Variable, len(a.Variables))
		copy(c.Variables, a.Variables)
	}
	return &c
}

func copyOrgRole(r *membership.OrganizationRole) *membership.OrganizationRole {
	c := *r
	return &c
}

func copyProjectRole(r *membership.ProjectRole) *membership.ProjectRole {
	c := *r
	return &c
}

func copyPrincipal(p *principal.Principal) *principal.Principal {
	c := *p
	return &c
}

func copyOrganization(o *organization.Organization) *organization.Organization {
	c := *o
	return &c
}

func copyProject(p *project.Project) *project.Project {
	c := *p
	return &c
}

func copyParty(p *party.Party) *party.Party {
	c := *p
	return &c
}

func copyUnit(u *spatial.Unit) *spatial.Unit {
	c := *u
	return &c
}

func copySpatialRel(r *spatial.Relationship) *spatial.Relationship {
	c := *r
	return &c
}

func copyTenure(r *tenure.Relationship) *tenure.Relationship {
	c := *r
	return &c
}

func copyCheckLog(e *checklog.Entry) *checklog.Entry {
	c := *e
	return &c
}

// Pagination helpers.
type pagOpts struct{ limit, offset int }

func applyPagination[T any](items []*T, p pagOpts) []*T {
	if p.offset > 0 && p.offset < len(items) {
		items = items[p.offset:]
	} else if p.offset >= len(items) && p.offset > 0 {
		return nil
	}
	if p.limit > 0 && p.limit < len(items) {
		items = items[:p.limit]
	}
	return items
}

func paginationOptsPol(f *policy.ListFilter) pagOpts {
	if f == nil {
		return pagOpts{}
	}
	return pagOpts{limit: f.Limit, offset: f.Offset}
}

func paginationOptsAssign(f *assignment.ListFilter) pagOpts {
	if f == nil {
		return pagOpts{}
	}
	return pagOpts{limit: f.Limit, offset: f.Offset}
}

func paginationOptsPrincipal(f *principal.ListFilter) pagOpts {
	if f == nil {
		return pagOpts{}
	}
	return pagOpts{limit: f.Limit, offset: f.Offset}
}

func paginationOptsOrg(f *organization.ListFilter) pagOpts {
	if f == nil {
		return pagOpts{}
	}
	return pagOpts{limit: f.Limit, offset: f.Offset}
}

func paginationOptsProj(f *project.ListFilter) pagOpts {
	if f == nil {
		return pagOpts{}
	}
	return pagOpts{limit: f.Limit, offset: f.Offset}
}

func paginationOptsParty(f *party.ListFilter) pagOpts {
	if f == nil {
		return pagOpts{}
	}
	return pagOpts{limit: f.Limit, offset: f.Offset}
}

func paginationOptsSpatial(f *spatial.ListFilter) pagOpts {
	if f == nil {
		return pagOpts{}
	}
	return pagOpts{limit: f.Limit, offset: f.Offset}
}

func paginationOptsTenure(f *tenure.ListFilter) pagOpts {
	if f == nil {
		return pagOpts{}
	}
	return pagOpts{limit: f.Limit, offset: f.Offset}
}

func paginationOptsCL(f *checklog.QueryFilter) pagOpts {
	if f == nil {
		return pagOpts{}
	}
	return pagOpts{limit: f.Limit, offset: f.Offset}
}
