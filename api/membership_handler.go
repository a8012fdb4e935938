package api

import (
	"fmt"
	"net/http"

	"github.com/xraph/forge"

	"github.com/terralink/cadastre/id"
	"github.com/terralink/cadastre/membership"
)

func (a *API) registerMembershipRoutes(router forge.Router) error {
	g := router.Group("/v1", forge.WithGroupTags("memberships"))

	if err := g.GET("/organizations/:orgSlug/members", a.listOrgMembers,
		forge.WithSummary("List organization members"),
		forge.WithOperationID("listOrgMembers"),
		forge.WithResponseSchema(http.StatusOK, "Member list", []*membership.OrganizationRole{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.POST("/organizations/:orgSlug/members", a.addOrgMember,
		forge.WithSummary("Add organization member"),
		forge.WithDescription("Adds a principal to the organization and binds the implied policies."),
		forge.WithOperationID("addOrgMember"),
		forge.WithRequestSchema(AddOrgMemberRequest{}),
		forge.WithCreatedResponse(&membership.OrganizationRole{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.PUT("/organizations/:orgSlug/members/:principalId", a.updateOrgMember,
		forge.WithSummary("Update organization member"),
		forge.WithDescription("Flips the member's admin flag and rebinds the org-admin policy."),
		forge.WithOperationID("updateOrgMember"),
		forge.WithRequestSchema(UpdateOrgMemberRequest{}),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.DELETE("/organizations/:orgSlug/members/:principalId", a.removeOrgMember,
		forge.WithSummary("Remove organization member"),
		forge.WithDescription("Removes the member and cascades: project roles and every assignment scoped to this organization are revoked."),
		forge.WithOperationID("removeOrgMember"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/organizations/:orgSlug/projects/:projSlug/members", a.listProjectMembers,
		forge.WithSummary("List project members"),
		forge.WithOperationID("listProjectMembers"),
		forge.WithResponseSchema(http.StatusOK, "Member list", []*membership.ProjectRole{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.POST("/organizations/:orgSlug/projects/:projSlug/members", a.addProjectMember,
		forge.WithSummary("Add project member"),
		forge.WithDescription("Gives a principal a role in the project and binds the implied policy."),
		forge.WithOperationID("addProjectMember"),
		forge.WithRequestSchema(AddProjectMemberRequest{}),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.PUT("/organizations/:orgSlug/projects/:projSlug/members/:principalId", a.updateProjectMember,
		forge.WithSummary("Update project member"),
		forge.WithDescription("Changes the member's role code and rebinds the implied policy."),
		forge.WithOperationID("updateProjectMember"),
		forge.WithRequestSchema(UpdateProjectMemberRequest{}),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.DELETE("/organizations/:orgSlug/projects/:projSlug/members/:principalId", a.removeProjectMember,
		forge.WithSummary("Remove project member"),
		forge.WithOperationID("removeProjectMember"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	)
}

func (a *API) listOrgMembers(ctx forge.Context, _ *OrgPathRequest) ([]*membership.OrganizationRole, error) {
	roles, err := a.svc.ListOrganizationMembers(ctx.Context(), ctx.Param("orgSlug"))
	if err != nil {
		return nil, mapError(err)
	}
	return roles, ctx.JSON(http.StatusOK, roles)
}

func (a *API) addOrgMember(ctx forge.Context, req *AddOrgMemberRequest) (*struct{}, error) {
	pid, err := parsePrincipal(req.PrincipalID)
	if err != nil {
		return nil, err
	}

	if err := a.svc.AddOrganizationMember(ctx.Context(), ctx.Param("orgSlug"), pid, req.Admin); err != nil {
		return nil, mapError(err)
	}
	return nil, ctx.NoContent(http.StatusCreated)
}

func (a *API) updateOrgMember(ctx forge.Context, req *UpdateOrgMemberRequest) (*struct{}, error) {
	pid, err := parsePrincipal(ctx.Param("principalId"))
	if err != nil {
		return nil, err
	}

	if err := a.svc.UpdateOrganizationMember(ctx.Context(), ctx.Param("orgSlug"), pid, req.Admin); err != nil {
		return nil, mapError(err)
	}
	return nil, ctx.NoContent(http.StatusNoContent)
}

func (a *API) removeOrgMember(ctx forge.Context, _ *OrgMemberPathRequest) (*struct{}, error) {
	pid, err := parsePrincipal(ctx.Param("principalId"))
	if err != nil {
		return nil, err
	}

	if err := a.svc.RemoveOrganizationMember(ctx.Context(), ctx.Param("orgSlug"), pid); err != nil {
		return nil, mapError(err)
	}
	return nil, ctx.NoContent(http.StatusNoContent)
}

func (a *API) listProjectMembers(ctx forge.Context, _ *ProjectPathRequest) ([]*membership.ProjectRole, error) {
	roles, err := a.svc.ListProjectMembers(ctx.Context(), ctx.Param("orgSlug"), ctx.Param("projSlug"))
	if err != nil {
		return nil, mapError(err)
	}
	return roles, ctx.JSON(http.StatusOK, roles)
}

func (a *API) addProjectMember(ctx forge.Context, req *AddProjectMemberRequest) (*struct{}, error) {
	pid, err := parsePrincipal(req.PrincipalID)
	if err != nil {
		return nil, err
	}
	role := membership.RoleCode(req.Role)
	if !role.Valid() {
		return nil, forge.BadRequest(fmt.Sprintf("invalid role %q: must be PM, DC or PU", req.Role))
	}

	if err := a.svc.AddProjectMember(ctx.Context(), ctx.Param("orgSlug"), ctx.Param("projSlug"), pid, role); err != nil {
		return nil, mapError(err)
	}
	return nil, ctx.NoContent(http.StatusCreated)
}

func (a *API) updateProjectMember(ctx forge.Context, req *UpdateProjectMemberRequest) (*struct{}, error) {
	pid, err := parsePrincipal(ctx.Param("principalId"))
	if err != nil {
		return nil, err
	}
	role := membership.RoleCode(req.Role)
	if !role.Valid() {
		return nil, forge.BadRequest(fmt.Sprintf("invalid role %q: must be PM, DC or PU", req.Role))
	}

	if err := a.svc.UpdateProjectMember(ctx.Context(), ctx.Param("orgSlug"), ctx.Param("projSlug"), pid, role); err != nil {
		return nil, mapError(err)
	}
	return nil, ctx.NoContent(http.StatusNoContent)
}

func (a *API) removeProjectMember(ctx forge.Context, _ *ProjectMemberPathRequest) (*struct{}, error) {
	pid, err := parsePrincipal(ctx.Param("principalId"))
	if err != nil {
		return nil, err
	}

	if err := a.svc.RemoveProjectMember(ctx.Context(), ctx.Param("orgSlug"), ctx.Param("projSlug"), pid); err != nil {
		return nil, mapError(err)
	}
	return nil, ctx.NoContent(http.StatusNoContent)
}

func parsePrincipal(s string) (id.PrincipalID, error) {
	if s == "" {
		return id.Nil, forge.BadRequest("principal_id is required")
	}
	pid, err := id.ParsePrincipalID(s)
	if err != nil {
		return id.Nil, forge.BadRequest(fmt.Sprintf("invalid principal_id: %v", err))
	}
	return pid, nil
}
