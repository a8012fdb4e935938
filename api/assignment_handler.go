package api

import (
	"fmt"
	"net/http"

	"github.com/xraph/forge"

	"github.com/terralink/cadastre/assignment"
	"github.com/terralink/cadastre/id"
)

func (a *API) registerAssignmentRoutes(router forge.Router) error {
	g := router.Group("/v1", forge.WithGroupTags("assignments"))

	if err := g.GET("/assignments", a.listAssignments,
		forge.WithSummary("List assignments"),
		forge.WithDescription("Returns policy assignments with optional filters, in grant order."),
		forge.WithOperationID("listAssignments"),
		forge.WithRequestSchema(ListAssignmentsRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Assignment list", []*assignment.Assignment{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/principals/:principalId/assignments", a.listPrincipalAssignments,
		forge.WithSummary("List principal assignments"),
		forge.WithDescription("Returns a principal's assignments in grant order."),
		forge.WithOperationID("listPrincipalAssignments"),
		forge.WithResponseSchema(http.StatusOK, "Assignment list", []*assignment.Assignment{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.POST("/principals/:principalId/reconcile", a.reconcilePrincipal,
		forge.WithSummary("Reconcile principal assignments"),
		forge.WithDescription("Re-derives the expected assignment set from membership relations and repairs drift."),
		forge.WithOperationID("reconcilePrincipal"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	)
}

func (a *API) listAssignments(ctx forge.Context, req *ListAssignmentsRequest) ([]*assignment.Assignment, error) {
	filter := &assignment.ListFilter{
		PolicyName: req.PolicyName,
		Limit:      defaultLimit(req.Limit),
		Offset:     req.Offset,
	}

	if req.PrincipalID != "" {
		pid, err := id.ParsePrincipalID(req.PrincipalID)
		if err != nil {
			return nil, forge.BadRequest(fmt.Sprintf("invalid principal_id: %v", err))
		}
		filter.PrincipalID = &pid
	}

	assignments, err := a.eng.Store().ListAssignments(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}

	return assignments, ctx.JSON(http.StatusOK, assignments)
}

func (a *API) listPrincipalAssignments(ctx forge.Context, _ *PrincipalPathRequest) ([]*assignment.Assignment, error) {
	pid, err := id.ParsePrincipalID(ctx.Param("principalId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid principal ID: %v", err))
	}

	assignments, err := a.eng.Store().ListAssignmentsForPrincipal(ctx.Context(), pid)
	if err != nil {
		return nil, mapError(err)
	}

	return assignments, ctx.JSON(http.StatusOK, assignments)
}

func (a *API) reconcilePrincipal(ctx forge.Context, _ *PrincipalPathRequest) (*struct{}, error) {
	pid, err := id.ParsePrincipalID(ctx.Param("principalId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid principal ID: %v", err))
	}

	if err := a.binder.Reconcile(ctx.Context(), pid); err != nil {
		return nil, mapError(err)
	}

	return nil, ctx.NoContent(http.StatusNoContent)
}
