package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/terralink/cadastre/assignment"
	"github.com/terralink/cadastre/checklog"
	"github.com/terralink/cadastre/id"
	"github.com/terralink/cadastre/membership"
	"github.com/terralink/cadastre/organization"
	"github.com/terralink/cadastre/policy"
	"github.com/terralink/cadastre/project"
)

func TestDocumentVersioning(t *testing.T) {
	ctx := context.Background()
	s := New()

	body := []byte(`{"clause": [{"effect": "allow", "action": ["org.view"], "object": ["organization/*"]}]}`)

	d1, err := policy.Parse("org-member", body)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := s.CreateDocument(ctx, d1); err != nil {
		t.Fatalf("create v1: %v", err)
	}
	if d1.Version != 1 {
		t.Fatalf("expected version 1, got %d", d1.Version)
	}

	d2, _ := policy.Parse("org-member", body)
	if err := s.CreateDocument(ctx, d2); err != nil {
		t.Fatalf("create v2: %v", err)
	}
	if d2.Version != 2 {
		t.Fatalf("expected version 2, got %d", d2.Version)
	}
	if d1.ID.String() == d2.ID.String() {
		t.Fatal("versions must have distinct IDs")
	}

	// GetDocumentByName returns the latest version.
	latest, err := s.GetDocumentByName(ctx, "org-member")
	if err != nil {
		t.Fatalf("get by name: %v", err)
	}
	if latest.Version != 2 {
		t.Fatalf("expected latest version 2, got %d", latest.Version)
	}

	// The old version remains addressable by ID.
	old, err := s.GetDocument(ctx, d1.ID)
	if err != nil {
		t.Fatalf("get v1: %v", err)
	}
	if old.Version != 1 {
		t.Fatalf("expected version 1, got %d", old.Version)
	}
}

func TestAssignmentDuplicateAndOrder(t *testing.T) {
	ctx := context.Background()
	s := New()

	principalID := id.NewPrincipalID()
	vars := []assignment.Variable{{Name: "organization", Value: "big-org"}}

	a1 := &assignment.Assignment{PrincipalID: principalID, PolicyName: "org-member", Variables: vars}
	if err := s.CreateAssignment(ctx, a1); err != nil {
		t.Fatalf("create: %v", err)
	}

	dup := &assignment.Assignment{PrincipalID: principalID, PolicyName: "org-member", Variables: vars}
	if err := s.CreateAssignment(ctx, dup); !errors.Is(err, assignment.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	// Same policy, different variables: not a duplicate.
	a2 := &assignment.Assignment{
		PrincipalID: principalID,
		PolicyName:  "org-member",
		Variables:   []assignment.Variable{{Name: "organization", Value: "other-org"}},
	}
	if err := s.CreateAssignment(ctx, a2); err != nil {
		t.Fatalf("create second: %v", err)
	}

	list, err := s.ListAssignmentsForPrincipal(ctx, principalID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(list))
	}
	if list[0].Seq >= list[1].Seq {
		t.Fatalf("expected Seq ascending, got %d then %d", list[0].Seq, list[1].Seq)
	}
}

func TestDeleteAssignmentsMatchingIdempotent(t *testing.T) {
	ctx := context.Background()
	s := New()

	principalID := id.NewPrincipalID()
	vars := []assignment.Variable{{Name: "organization", Value: "big-org"}}

	a := &assignment.Assignment{PrincipalID: principalID, PolicyName: "org-admin", Variables: vars}
	if err := s.CreateAssignment(ctx, a); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := s.DeleteAssignmentsMatching(ctx, principalID, "org-admin", vars); err != nil {
		t.Fatalf("delete: %v", err)
	}
	// Second delete of the same assignment is a no-op.
	if err := s.DeleteAssignmentsMatching(ctx, principalID, "org-admin", vars); err != nil {
		t.Fatalf("idempotent delete: %v", err)
	}

	list, _ := s.ListAssignmentsForPrincipal(ctx, principalID)
	if len(list) != 0 {
		t.Fatalf("expected no assignments, got %d", len(list))
	}
}

func TestDeleteAssignmentsByVariable(t *testing.T) {
	ctx := context.Background()
	s := New()

	principalID := id.NewPrincipalID()

	for _, a := range []*assignment.Assignment{
		{PrincipalID: principalID, PolicyName: "org-member", Variables: []assignment.Variable{{Name: "organization", Value: "org-a"}}},
		{PrincipalID: principalID, PolicyName: "project-user", Variables: []assignment.Variable{{Name: "organization", Value: "org-a"}, {Name: "project", Value: "p1"}}},
		{PrincipalID: principalID, PolicyName: "org-member", Variables: []assignment.Variable{{Name: "organization", Value: "org-b"}}},
	} {
		if err := s.CreateAssignment(ctx, a); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	if err := s.DeleteAssignmentsByVariable(ctx, principalID, "organization", "org-a"); err != nil {
		t.Fatalf("delete by variable: %v", err)
	}

	list, _ := s.ListAssignmentsForPrincipal(ctx, principalID)
	if len(list) != 1 {
		t.Fatalf("expected 1 assignment, got %d", len(list))
	}
	if !list[0].HasVariable("organization", "org-b") {
		t.Fatal("org-b assignment should survive")
	}
}

func TestOrganizationRoleUniqueness(t *testing.T) {
	ctx := context.Background()
	s := New()

	principalID := id.NewPrincipalID()
	orgID := id.NewOrganizationID()

	r := &membership.OrganizationRole{PrincipalID: principalID, OrganizationID: orgID}
	if err := s.CreateOrganizationRole(ctx, r); err != nil {
		t.Fatalf("create: %v", err)
	}

	dup := &membership.OrganizationRole{PrincipalID: principalID, OrganizationID: orgID, Admin: true}
	if err := s.CreateOrganizationRole(ctx, dup); !errors.Is(err, membership.ErrDuplicateRole) {
		t.Fatalf("expected ErrDuplicateRole, got %v", err)
	}

	// Admin flip goes through update.
	r.Admin = true
	if err := s.UpdateOrganizationRole(ctx, r); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := s.GetOrganizationRole(ctx, principalID, orgID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Admin {
		t.Fatal("expected admin after update")
	}
}

func TestProjectRoleLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()

	principalID := id.NewPrincipalID()
	projID := id.NewProjectID()

	r := &membership.ProjectRole{PrincipalID: principalID, ProjectID: projID, Role: membership.RoleDataCollector}
	if err := s.CreateProjectRole(ctx, r); err != nil {
		t.Fatalf("create: %v", err)
	}

	dup := &membership.ProjectRole{PrincipalID: principalID, ProjectID: projID, Role: membership.RoleProjectUser}
	if err := s.CreateProjectRole(ctx, dup); !errors.Is(err, membership.ErrDuplicateRole) {
		t.Fatalf("expected ErrDuplicateRole, got %v", err)
	}

	r.Role = membership.RoleProjectUser
	if err := s.UpdateProjectRole(ctx, r); err != nil {
		t.Fatalf("update: %v", err)
	}

	if err := s.DeleteProjectRole(ctx, principalID, projID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	// Deleting an absent role is a no-op.
	if err := s.DeleteProjectRole(ctx, principalID, projID); err != nil {
		t.Fatalf("idempotent delete: %v", err)
	}

	if _, err := s.GetProjectRole(ctx, principalID, projID); err == nil {
		t.Fatal("expected not found after delete")
	}
}

func TestProjectsForOrganization(t *testing.T) {
	ctx := context.Background()
	s := New()

	orgA := &organization.Organization{Slug: "org-a", Name: "Org A"}
	orgB := &organization.Organization{Slug: "org-b", Name: "Org B"}
	if err := s.CreateOrganization(ctx, orgA); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateOrganization(ctx, orgB); err != nil {
		t.Fatal(err)
	}

	for _, p := range []*project.Project{
		{OrganizationID: orgA.ID, Slug: "p1", Name: "P1"},
		{OrganizationID: orgA.ID, Slug: "p2", Name: "P2"},
		{OrganizationID: orgB.ID, Slug: "p3", Name: "P3"},
	} {
		if err := s.CreateProject(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	list, err := s.ListProjectsForOrganization(ctx, orgA.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(list))
	}

	got, err := s.GetProjectBySlug(ctx, orgB.ID, "p3")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if got.Name != "P3" {
		t.Fatalf("expected P3, got %q", got.Name)
	}
}

func TestCheckLogPurge(t *testing.T) {
	ctx := context.Background()
	s := New()

	principalID := id.NewPrincipalID()
	old := &checklog.Entry{
		PrincipalID: principalID,
		Action:      "org.view",
		Object:      "organization/big-org",
		Decision:    "allow",
		CreatedAt:   time.Now().Add(-48 * time.Hour),
	}
	recent := &checklog.Entry{
		PrincipalID: principalID,
		Action:      "org.update",
		Object:      "organization/big-org",
		Decision:    "deny_default",
	}
	if err := s.CreateCheckLog(ctx, old); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateCheckLog(ctx, recent); err != nil {
		t.Fatal(err)
	}

	n, err := s.PurgeCheckLogs(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 purged, got %d", n)
	}

	count, _ := s.CountCheckLogs(ctx, nil)
	if count != 1 {
		t.Fatalf("expected 1 remaining, got %d", count)
	}
}
