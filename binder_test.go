package cadastre

import (
	"context"
	"testing"

	"github.com/terralink/cadastre/assignment"
	"github.com/terralink/cadastre/id"
	"github.com/terralink/cadastre/membership"
	"github.com/terralink/cadastre/organization"
	"github.com/terralink/cadastre/policy"
	"github.com/terralink/cadastre/principal"
	"github.com/terralink/cadastre/project"
	"github.com/terralink/cadastre/store/memory"
)

func newBinderFixture(t *testing.T) (*Binder, *memory.Store) {
	t.Helper()
	s := memory.New()
	eng, err := NewEngine(WithStore(s))
	if err != nil {
		t.Fatal(err)
	}
	if err := eng.LoadSeedDocuments(context.Background()); err != nil {
		t.Fatalf("LoadSeedDocuments: %v", err)
	}
	return eng.Binder(), s
}

func seedPrincipal(t *testing.T, s *memory.Store, username string) id.PrincipalID {
	t.Helper()
	p := &principal.Principal{Username: username}
	if err := s.CreatePrincipal(context.Background(), p); err != nil {
		t.Fatalf("CreatePrincipal(%s): %v", username, err)
	}
	return p.ID
}

func seedOrganization(t *testing.T, s *memory.Store, slug string) *organization.Organization {
	t.Helper()
	o := &organization.Organization{Slug: slug, Name: slug}
	if err := s.CreateOrganization(context.Background(), o); err != nil {
		t.Fatalf("CreateOrganization(%s): %v", slug, err)
	}
	return o
}

func seedProject(t *testing.T, s *memory.Store, orgID id.OrganizationID, slug string) *project.Project {
	t.Helper()
	p := &project.Project{OrganizationID: orgID, Slug: slug, Name: slug}
	if err := s.CreateProject(context.Background(), p); err != nil {
		t.Fatalf("CreateProject(%s): %v", slug, err)
	}
	return p
}

// assignmentsByPolicy indexes a principal's current assignments by policy name.
func assignmentsByPolicy(t *testing.T, s *memory.Store, principalID id.PrincipalID) map[string][]*assignment.Assignment {
	t.Helper()
	list, err := s.ListAssignmentsForPrincipal(context.Background(), principalID)
	if err != nil {
		t.Fatalf("ListAssignmentsForPrincipal: %v", err)
	}
	byName := make(map[string][]*assignment.Assignment)
	for _, a := range list {
		byName[a.PolicyName] = append(byName[a.PolicyName], a)
	}
	return byName
}

func TestGrantDefaultIdempotent(t *testing.T) {
	ctx := context.Background()
	b, s := newBinderFixture(t)
	pid := seedPrincipal(t, s, "alice")

	if err := b.GrantDefault(ctx, pid); err != nil {
		t.Fatalf("GrantDefault: %v", err)
	}
	if err := b.GrantDefault(ctx, pid); err != nil {
		t.Fatalf("GrantDefault (redelivered): %v", err)
	}

	byName := assignmentsByPolicy(t, s, pid)
	if got := len(byName[policy.SeedDefault]); got != 1 {
		t.Fatalf("default assignments = %d, want 1", got)
	}
}

func TestOrganizationRoleCreatedGrants(t *testing.T) {
	ctx := context.Background()
	b, s := newBinderFixture(t)
	pid := seedPrincipal(t, s, "bob")
	org := seedOrganization(t, s, "big-org")

	role := &membership.OrganizationRole{PrincipalID: pid, OrganizationID: org.ID}
	if err := b.OrganizationRoleCreated(ctx, role); err != nil {
		t.Fatalf("OrganizationRoleCreated: %v", err)
	}

	byName := assignmentsByPolicy(t, s, pid)
	members := byName[policy.SeedOrgMember]
	if len(members) != 1 {
		t.Fatalf("org-member assignments = %d, want 1", len(members))
	}
	if !members[0].HasVariable("organization", "big-org") {
		t.Fatalf("org-member assignment not bound to big-org: %+v", members[0].Variables)
	}
	if len(byName[policy.SeedOrgAdmin]) != 0 {
		t.Fatal("non-admin membership must not grant org-admin")
	}

	// Redelivery of the same event converges.
	if err := b.OrganizationRoleCreated(ctx, role); err != nil {
		t.Fatalf("OrganizationRoleCreated (redelivered): %v", err)
	}
	if got := len(assignmentsByPolicy(t, s, pid)[policy.SeedOrgMember]); got != 1 {
		t.Fatalf("org-member assignments after redelivery = %d, want 1", got)
	}
}

func TestAdminFlagFlip(t *testing.T) {
	ctx := context.Background()
	b, s := newBinderFixture(t)
	pid := seedPrincipal(t, s, "carol")
	org := seedOrganization(t, s, "big-org")

	role := &membership.OrganizationRole{PrincipalID: pid, OrganizationID: org.ID}
	if err := b.OrganizationRoleCreated(ctx, role); err != nil {
		t.Fatalf("OrganizationRoleCreated: %v", err)
	}

	role.Admin = true
	if err := b.OrganizationRoleChanged(ctx, role); err != nil {
		t.Fatalf("OrganizationRoleChanged(admin=true): %v", err)
	}
	byName := assignmentsByPolicy(t, s, pid)
	if len(byName[policy.SeedOrgAdmin]) != 1 {
		t.Fatal("promotion must grant org-admin")
	}

	role.Admin = false
	if err := b.OrganizationRoleChanged(ctx, role); err != nil {
		t.Fatalf("OrganizationRoleChanged(admin=false): %v", err)
	}
	byName = assignmentsByPolicy(t, s, pid)
	if len(byName[policy.SeedOrgAdmin]) != 0 {
		t.Fatal("demotion must revoke org-admin")
	}
	if len(byName[policy.SeedOrgMember]) != 1 {
		t.Fatal("demotion must keep org-member")
	}
}

func TestProjectRoleChangeSwapsPolicy(t *testing.T) {
	ctx := context.Background()
	b, s := newBinderFixture(t)
	pid := seedPrincipal(t, s, "dave")
	org := seedOrganization(t, s, "big-org")
	proj := seedProject(t, s, org.ID, "parcel-survey")

	role := &membership.ProjectRole{PrincipalID: pid, ProjectID: proj.ID, Role: membership.RoleDataCollector}
	if err := b.ProjectRoleCreated(ctx, role); err != nil {
		t.Fatalf("ProjectRoleCreated: %v", err)
	}
	byName := assignmentsByPolicy(t, s, pid)
	dc := byName[policy.SeedDataCollector]
	if len(dc) != 1 {
		t.Fatalf("data-collector assignments = %d, want 1", len(dc))
	}
	if !dc[0].HasVariable("project", "parcel-survey") || !dc[0].HasVariable("organization", "big-org") {
		t.Fatalf("grant not scoped to the project: %+v", dc[0].Variables)
	}

	role.Role = membership.RoleProjectUser
	if err := b.ProjectRoleChanged(ctx, role); err != nil {
		t.Fatalf("ProjectRoleChanged: %v", err)
	}
	byName = assignmentsByPolicy(t, s, pid)
	if len(byName[policy.SeedDataCollector]) != 0 {
		t.Fatal("old role grant must be revoked")
	}
	if len(byName[policy.SeedProjectUser]) != 1 {
		t.Fatal("new role grant must be in place")
	}
}

func TestProjectRoleDeletedIdempotent(t *testing.T) {
	ctx := context.Background()
	b, s := newBinderFixture(t)
	pid := seedPrincipal(t, s, "erin")
	org := seedOrganization(t, s, "big-org")
	proj := seedProject(t, s, org.ID, "parcel-survey")

	role := &membership.ProjectRole{PrincipalID: pid, ProjectID: proj.ID, Role: membership.RoleProjectManager}
	if err := b.ProjectRoleCreated(ctx, role); err != nil {
		t.Fatalf("ProjectRoleCreated: %v", err)
	}

	if err := b.ProjectRoleDeleted(ctx, role); err != nil {
		t.Fatalf("ProjectRoleDeleted: %v", err)
	}
	if err := b.ProjectRoleDeleted(ctx, role); err != nil {
		t.Fatalf("ProjectRoleDeleted (redelivered): %v", err)
	}
	if got := len(assignmentsByPolicy(t, s, pid)[policy.SeedProjectManager]); got != 0 {
		t.Fatalf("project-manager assignments = %d, want 0", got)
	}
}

func TestOrganizationRoleDeletedCascade(t *testing.T) {
	ctx := context.Background()
	b, s := newBinderFixture(t)
	pid := seedPrincipal(t, s, "frank")

	orgA := seedOrganization(t, s, "org-a")
	orgB := seedOrganization(t, s, "org-b")
	projA := seedProject(t, s, orgA.ID, "proj-a")
	projB := seedProject(t, s, orgB.ID, "proj-b")

	roleA := &membership.OrganizationRole{PrincipalID: pid, OrganizationID: orgA.ID}
	roleB := &membership.OrganizationRole{PrincipalID: pid, OrganizationID: orgB.ID}
	if err := s.CreateOrganizationRole(ctx, roleA); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateOrganizationRole(ctx, roleB); err != nil {
		t.Fatal(err)
	}
	if err := b.OrganizationRoleCreated(ctx, roleA); err != nil {
		t.Fatal(err)
	}
	if err := b.OrganizationRoleCreated(ctx, roleB); err != nil {
		t.Fatal(err)
	}

	prA := &membership.ProjectRole{PrincipalID: pid, ProjectID: projA.ID, Role: membership.RoleProjectManager}
	prB := &membership.ProjectRole{PrincipalID: pid, ProjectID: projB.ID, Role: membership.RoleProjectManager}
	if err := s.CreateProjectRole(ctx, prA); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateProjectRole(ctx, prB); err != nil {
		t.Fatal(err)
	}
	if err := b.ProjectRoleCreated(ctx, prA); err != nil {
		t.Fatal(err)
	}
	if err := b.ProjectRoleCreated(ctx, prB); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteOrganizationRole(ctx, pid, orgA.ID); err != nil {
		t.Fatal(err)
	}
	if err := b.OrganizationRoleDeleted(ctx, roleA); err != nil {
		t.Fatalf("OrganizationRoleDeleted: %v", err)
	}

	list, err := s.ListAssignmentsForPrincipal(ctx, pid)
	if err != nil {
		t.Fatal(err)
	}
	for _, a := range list {
		if a.HasVariable("organization", "org-a") {
			t.Fatalf("assignment for org-a survived the cascade: %s %+v", a.PolicyName, a.Variables)
		}
	}
	byName := assignmentsByPolicy(t, s, pid)
	if len(byName[policy.SeedOrgMember]) != 1 {
		t.Fatal("org-b membership grant must survive")
	}
	if len(byName[policy.SeedProjectManager]) != 1 {
		t.Fatal("org-b project grant must survive")
	}

	// The cascade also deletes project roles inside the removed organization.
	if _, err := s.GetProjectRole(ctx, pid, projA.ID); err == nil {
		t.Fatal("project role inside org-a must be deleted")
	}
	if _, err := s.GetProjectRole(ctx, pid, projB.ID); err != nil {
		t.Fatalf("project role inside org-b must survive: %v", err)
	}
}

func TestReconcileRepairsDrift(t *testing.T) {
	ctx := context.Background()
	b, s := newBinderFixture(t)
	pid := seedPrincipal(t, s, "grace")
	org := seedOrganization(t, s, "big-org")

	role := &membership.OrganizationRole{PrincipalID: pid, OrganizationID: org.ID, Admin: true}
	if err := s.CreateOrganizationRole(ctx, role); err != nil {
		t.Fatal(err)
	}
	if err := b.GrantDefault(ctx, pid); err != nil {
		t.Fatal(err)
	}
	if err := b.OrganizationRoleCreated(ctx, role); err != nil {
		t.Fatal(err)
	}

	// Introduce drift: one expected assignment lost, one stray grant added.
	vars := []assignment.Variable{{Name: "organization", Value: "big-org"}}
	if err := s.DeleteAssignmentsMatching(ctx, pid, policy.SeedOrgAdmin, vars); err != nil {
		t.Fatal(err)
	}
	doc, err := s.GetDocumentByName(ctx, policy.SeedProjectManager)
	if err != nil {
		t.Fatal(err)
	}
	stray := &assignment.Assignment{
		PrincipalID:   pid,
		PolicyID:      doc.ID,
		PolicyName:    doc.Name,
		PolicyVersion: doc.Version,
		Variables: []assignment.Variable{
			{Name: "organization", Value: "big-org"},
			{Name: "project", Value: "ghost-project"},
		},
	}
	if err := s.CreateAssignment(ctx, stray); err != nil {
		t.Fatal(err)
	}

	// A manual grant under a non-seed name must be left alone.
	custom := &policy.Document{Name: "custom-audit", Clauses: []policy.Clause{
		{Effect: policy.EffectAllow, Action: []string{"org.list"}, Object: []string{"organization"}},
	}}
	if err := s.CreateDocument(ctx, custom); err != nil {
		t.Fatal(err)
	}
	manual := &assignment.Assignment{
		PrincipalID:   pid,
		PolicyID:      custom.ID,
		PolicyName:    custom.Name,
		PolicyVersion: custom.Version,
	}
	if err := s.CreateAssignment(ctx, manual); err != nil {
		t.Fatal(err)
	}

	if err := b.Reconcile(ctx, pid); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	byName := assignmentsByPolicy(t, s, pid)
	if len(byName[policy.SeedOrgAdmin]) != 1 {
		t.Fatal("Reconcile must restore the missing org-admin grant")
	}
	if len(byName[policy.SeedProjectManager]) != 0 {
		t.Fatal("Reconcile must revoke the stray project-manager grant")
	}
	if len(byName["custom-audit"]) != 1 {
		t.Fatal("Reconcile must not touch manual assignments")
	}
	if len(byName[policy.SeedDefault]) != 1 || len(byName[policy.SeedOrgMember]) != 1 {
		t.Fatalf("unexpected assignment set after reconcile: %v", byName)
	}

	// A clean state reconciles to itself.
	if err := b.Reconcile(ctx, pid); err != nil {
		t.Fatalf("Reconcile (steady state): %v", err)
	}
	after := assignmentsByPolicy(t, s, pid)
	if len(after) != len(byName) {
		t.Fatalf("steady-state reconcile changed assignments: %v", after)
	}
}
