package records_test

import (
	"context"
	"errors"
	"testing"

	"github.com/terralink/cadastre"
	"github.com/terralink/cadastre/id"
	"github.com/terralink/cadastre/membership"
	"github.com/terralink/cadastre/organization"
	"github.com/terralink/cadastre/party"
	"github.com/terralink/cadastre/principal"
	"github.com/terralink/cadastre/project"
	"github.com/terralink/cadastre/records"
	"github.com/terralink/cadastre/spatial"
	"github.com/terralink/cadastre/store/memory"
	"github.com/terralink/cadastre/tenure"
)

// fixture wires an engine, binder-backed service and a seeded org admin
// against the in-memory store.
type fixture struct {
	svc   *records.Service
	admin id.PrincipalID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	st := memory.New()
	eng, err := cadastre.NewEngine(cadastre.WithStore(st))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if err := eng.LoadSeedDocuments(ctx); err != nil {
		t.Fatalf("LoadSeedDocuments: %v", err)
	}
	svc := records.NewService(eng)

	admin := &principal.Principal{Username: "root-admin"}
	if err := svc.CreatePrincipal(ctx, admin); err != nil {
		t.Fatalf("CreatePrincipal: %v", err)
	}

	// Bootstrap: the first organization and its admin are created directly
	// through the store, the way an installer would.
	org := &organization.Organization{Slug: "big-org", Name: "Big Org"}
	if err := st.CreateOrganization(ctx, org); err != nil {
		t.Fatalf("CreateOrganization: %v", err)
	}
	role := &membership.OrganizationRole{
		PrincipalID:    admin.ID,
		OrganizationID: org.ID,
		Admin:          true,
	}
	if err := st.CreateOrganizationRole(ctx, role); err != nil {
		t.Fatalf("CreateOrganizationRole: %v", err)
	}
	if err := eng.Binder().OrganizationRoleCreated(ctx, role); err != nil {
		t.Fatalf("OrganizationRoleCreated: %v", err)
	}

	return &fixture{svc: svc, admin: admin.ID}
}

func (f *fixture) as(principalID id.PrincipalID) context.Context {
	return cadastre.WithActingPrincipal(context.Background(), principalID)
}

// addPrincipal registers a principal with the default policy only.
func (f *fixture) addPrincipal(t *testing.T, username string) id.PrincipalID {
	t.Helper()
	p := &principal.Principal{Username: username}
	if err := f.svc.CreatePrincipal(context.Background(), p); err != nil {
		t.Fatalf("CreatePrincipal(%s): %v", username, err)
	}
	return p.ID
}

func TestNoActingPrincipalDenied(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetOrganization(context.Background(), "big-org")
	if !errors.Is(err, cadastre.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied without acting principal, got %v", err)
	}
}

func TestDefaultPolicyDiscovery(t *testing.T) {
	f := newFixture(t)
	visitor := f.addPrincipal(t, "visitor")
	ctx := f.as(visitor)

	// Default policy: list and view organizations, nothing more.
	if _, err := f.svc.ListOrganizations(ctx, nil); err != nil {
		t.Fatalf("ListOrganizations: %v", err)
	}
	if _, err := f.svc.GetOrganization(ctx, "big-org"); err != nil {
		t.Fatalf("GetOrganization: %v", err)
	}
	_, err := f.svc.UpdateOrganization(ctx, "big-org", func(o *organization.Organization) {
		o.Name = "Hijacked"
	})
	if !errors.Is(err, cadastre.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied on update, got %v", err)
	}
}

func TestAdminManagesOrganization(t *testing.T) {
	f := newFixture(t)
	ctx := f.as(f.admin)

	org, err := f.svc.UpdateOrganization(ctx, "big-org", func(o *organization.Organization) {
		o.Description = "land records for the big region"
	})
	if err != nil {
		t.Fatalf("UpdateOrganization: %v", err)
	}
	if org.Description == "" {
		t.Fatal("expected description to be set")
	}

	if err := f.svc.CreateProject(ctx, "big-org", &project.Project{Slug: "parcel-survey", Name: "Parcel Survey"}); err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	projects, err := f.svc.ListProjects(ctx, "big-org")
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("expected 1 project, got %d", len(projects))
	}
}

func TestArchivedScopeRejectsWrites(t *testing.T) {
	f := newFixture(t)
	ctx := f.as(f.admin)

	if err := f.svc.ArchiveOrganization(ctx, "big-org"); err != nil {
		t.Fatalf("ArchiveOrganization: %v", err)
	}

	err := f.svc.CreateProject(ctx, "big-org", &project.Project{Slug: "late", Name: "Late"})
	if !errors.Is(err, cadastre.ErrScopeArchived) {
		t.Fatalf("expected ErrScopeArchived, got %v", err)
	}
	// Reads still work on archived scopes.
	if _, err := f.svc.GetOrganization(ctx, "big-org"); err != nil {
		t.Fatalf("GetOrganization on archived: %v", err)
	}

	if err := f.svc.UnarchiveOrganization(ctx, "big-org"); err != nil {
		t.Fatalf("UnarchiveOrganization: %v", err)
	}
	if err := f.svc.CreateProject(ctx, "big-org", &project.Project{Slug: "late", Name: "Late"}); err != nil {
		t.Fatalf("CreateProject after unarchive: %v", err)
	}
}

func TestMembershipBindingGrantsAccess(t *testing.T) {
	f := newFixture(t)
	ctx := f.as(f.admin)

	if err := f.svc.CreateProject(ctx, "big-org", &project.Project{Slug: "survey", Name: "Survey"}); err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	collector := f.addPrincipal(t, "collector")
	cctx := f.as(collector)

	// Before membership: private project is invisible, creates denied.
	err := f.svc.CreateSpatialUnit(cctx, "big-org", "survey", &spatial.Unit{Type: spatial.UnitParcel})
	if !errors.Is(err, cadastre.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied before membership, got %v", err)
	}

	if err := f.svc.AddProjectMember(ctx, "big-org", "survey", collector, membership.RoleDataCollector); err != nil {
		t.Fatalf("AddProjectMember: %v", err)
	}

	unit := &spatial.Unit{Type: spatial.UnitParcel, Geometry: `{"type":"Point","coordinates":[0,0]}`}
	if err := f.svc.CreateSpatialUnit(cctx, "big-org", "survey", unit); err != nil {
		t.Fatalf("CreateSpatialUnit as collector: %v", err)
	}

	// Collectors add records but never delete them.
	err = f.svc.DeleteSpatialUnit(cctx, "big-org", "survey", unit.ID)
	if !errors.Is(err, cadastre.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied on delete as collector, got %v", err)
	}
}

func TestProjectRoleChangeRebinding(t *testing.T) {
	f := newFixture(t)
	ctx := f.as(f.admin)

	if err := f.svc.CreateProject(ctx, "big-org", &project.Project{Slug: "survey", Name: "Survey"}); err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	member := f.addPrincipal(t, "field-staff")
	if err := f.svc.AddProjectMember(ctx, "big-org", "survey", member, membership.RoleDataCollector); err != nil {
		t.Fatalf("AddProjectMember: %v", err)
	}

	mctx := f.as(member)
	p := &party.Party{Name: "Amina", Type: party.TypeIndividual}
	if err := f.svc.CreateParty(mctx, "big-org", "survey", p); err != nil {
		t.Fatalf("CreateParty as collector: %v", err)
	}

	// Demote to read-only project user: creates must now be denied.
	if err := f.svc.UpdateProjectMember(ctx, "big-org", "survey", member, membership.RoleProjectUser); err != nil {
		t.Fatalf("UpdateProjectMember: %v", err)
	}
	err := f.svc.CreateParty(mctx, "big-org", "survey", &party.Party{Name: "Bekele", Type: party.TypeIndividual})
	if !errors.Is(err, cadastre.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied after demotion, got %v", err)
	}
	// Reads survive the demotion.
	if _, err := f.svc.GetParty(mctx, "big-org", "survey", p.ID); err != nil {
		t.Fatalf("GetParty as project user: %v", err)
	}
}

func TestRemoveOrganizationMemberCascades(t *testing.T) {
	f := newFixture(t)
	ctx := f.as(f.admin)

	if err := f.svc.CreateProject(ctx, "big-org", &project.Project{Slug: "survey", Name: "Survey"}); err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	member := f.addPrincipal(t, "departing")
	if err := f.svc.AddOrganizationMember(ctx, "big-org", member, false); err != nil {
		t.Fatalf("AddOrganizationMember: %v", err)
	}
	if err := f.svc.AddProjectMember(ctx, "big-org", "survey", member, membership.RoleProjectManager); err != nil {
		t.Fatalf("AddProjectMember: %v", err)
	}

	mctx := f.as(member)
	if _, err := f.svc.ListSpatialUnits(mctx, "big-org", "survey"); err != nil {
		t.Fatalf("ListSpatialUnits as manager: %v", err)
	}

	if err := f.svc.RemoveOrganizationMember(ctx, "big-org", member); err != nil {
		t.Fatalf("RemoveOrganizationMember: %v", err)
	}

	// The cascade revoked project access along with org access.
	_, err := f.svc.ListSpatialUnits(mctx, "big-org", "survey")
	if !errors.Is(err, cadastre.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied after removal, got %v", err)
	}
	members, err := f.svc.ListProjectMembers(ctx, "big-org", "survey")
	if err != nil {
		t.Fatalf("ListProjectMembers: %v", err)
	}
	if len(members) != 0 {
		t.Fatalf("expected project roles swept by cascade, found %d", len(members))
	}

	// Removing again is a no-op.
	if err := f.svc.RemoveOrganizationMember(ctx, "big-org", member); err != nil {
		t.Fatalf("second RemoveOrganizationMember: %v", err)
	}
}

func TestUnknownPrincipalRejected(t *testing.T) {
	f := newFixture(t)
	ctx := f.as(f.admin)

	err := f.svc.AddOrganizationMember(ctx, "big-org", id.NewPrincipalID(), false)
	if !errors.Is(err, cadastre.ErrUnknownPrincipal) {
		t.Fatalf("expected ErrUnknownPrincipal, got %v", err)
	}
}

func TestTenureLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := f.as(f.admin)

	if err := f.svc.CreateProject(ctx, "big-org", &project.Project{Slug: "survey", Name: "Survey"}); err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	unit := &spatial.Unit{Type: spatial.UnitParcel}
	if err := f.svc.CreateSpatialUnit(ctx, "big-org", "survey", unit); err != nil {
		t.Fatalf("CreateSpatialUnit: %v", err)
	}
	p := &party.Party{Name: "Village Trust", Type: party.TypeGroup}
	if err := f.svc.CreateParty(ctx, "big-org", "survey", p); err != nil {
		t.Fatalf("CreateParty: %v", err)
	}

	ten := &tenure.Relationship{
		PartyID:       p.ID,
		SpatialUnitID: unit.ID,
		Type:          tenure.RelCustomaryRights,
	}
	if err := f.svc.CreateTenure(ctx, "big-org", "survey", ten); err != nil {
		t.Fatalf("CreateTenure: %v", err)
	}

	got, err := f.svc.GetTenure(ctx, "big-org", "survey", ten.ID)
	if err != nil {
		t.Fatalf("GetTenure: %v", err)
	}
	if got.Type != tenure.RelCustomaryRights {
		t.Fatalf("expected customary rights tenure, got %q", got.Type)
	}

	updated, err := f.svc.UpdateTenure(ctx, "big-org", "survey", ten.ID, func(r *tenure.Relationship) {
		r.Type = tenure.RelFreehold
	})
	if err != nil {
		t.Fatalf("UpdateTenure: %v", err)
	}
	if updated.Type != tenure.RelFreehold {
		t.Fatalf("expected freehold after update, got %q", updated.Type)
	}

	if err := f.svc.DeleteTenure(ctx, "big-org", "survey", ten.ID); err != nil {
		t.Fatalf("DeleteTenure: %v", err)
	}
	if _, err := f.svc.GetTenure(ctx, "big-org", "survey", ten.ID); !errors.Is(err, cadastre.ErrTenureNotFound) {
		t.Fatalf("expected ErrTenureNotFound after delete, got %v", err)
	}
}
