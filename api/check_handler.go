package api

import (
	"fmt"
	"net/http"

	"github.com/xraph/forge"

	"github.com/terralink/cadastre"
	"github.com/terralink/cadastre/id"
)

func (a *API) registerCheckRoutes(router forge.Router) error {
	g := router.Group("/v1/authz", forge.WithGroupTags("authorization"))

	if err := g.POST("/check", a.check,
		forge.WithSummary("Authorization check"),
		forge.WithDescription("Evaluates whether the principal can perform the action on the object path."),
		forge.WithOperationID("authzCheck"),
		forge.WithRequestSchema(CheckRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Check result", CheckResponse{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.POST("/enforce", a.enforce,
		forge.WithSummary("Enforce authorization"),
		forge.WithDescription("Returns 200 if allowed, 403 if denied."),
		forge.WithOperationID("authzEnforce"),
		forge.WithRequestSchema(CheckRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Allowed", CheckResponse{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.POST("/batch-check", a.batchCheck,
		forge.WithSummary("Batch authorization check"),
		forge.WithDescription("Evaluates multiple authorization checks in one request."),
		forge.WithOperationID("authzBatchCheck"),
		forge.WithRequestSchema(BatchCheckRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Batch results", BatchCheckResponse{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) check(ctx forge.Context, req *CheckRequest) (*CheckResponse, error) {
	creq, err := toCheckRequest(req)
	if err != nil {
		return nil, err
	}

	result, err := a.eng.Check(ctx.Context(), creq)
	if err != nil {
		return nil, mapError(err)
	}

	resp := toCheckResponse(result)
	return resp, ctx.JSON(http.StatusOK, resp)
}

func (a *API) enforce(ctx forge.Context, req *CheckRequest) (*CheckResponse, error) {
	creq, err := toCheckRequest(req)
	if err != nil {
		return nil, err
	}

	result, err := a.eng.Check(ctx.Context(), creq)
	if err != nil {
		return nil, mapError(err)
	}

	resp := toCheckResponse(result)
	if !result.Allowed {
		return resp, ctx.JSON(http.StatusForbidden, resp)
	}
	return resp, ctx.JSON(http.StatusOK, resp)
}

func (a *API) batchCheck(ctx forge.Context, req *BatchCheckRequest) (*BatchCheckResponse, error) {
	if len(req.Checks) == 0 {
		return nil, forge.BadRequest("checks cannot be empty")
	}

	results := make([]CheckResponse, len(req.Checks))
	for i, c := range req.Checks {
		creq, err := toCheckRequest(&c)
		if err != nil {
			return nil, err
		}
		result, err := a.eng.Check(ctx.Context(), creq)
		if err != nil {
			return nil, mapError(err)
		}
		results[i] = *toCheckResponse(result)
	}

	resp := &BatchCheckResponse{Results: results}
	return resp, ctx.JSON(http.StatusOK, resp)
}

func toCheckRequest(r *CheckRequest) (*cadastre.CheckRequest, error) {
	if r.PrincipalID == "" || r.Action == "" || r.Object == "" {
		return nil, forge.BadRequest("principal_id, action, and object are required")
	}
	principalID, err := id.ParsePrincipalID(r.PrincipalID)
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid principal_id: %v", err))
	}
	return &cadastre.CheckRequest{
		PrincipalID: principalID,
		Action:      r.Action,
		Object:      r.Object,
	}, nil
}

func toCheckResponse(r *cadastre.CheckResult) *CheckResponse {
	resp := &CheckResponse{
		Allowed:    r.Allowed,
		Decision:   string(r.Decision),
		Reason:     r.Reason,
		EvalTimeNs: r.EvalTimeNs,
	}
	for _, m := range r.MatchedBy {
		resp.MatchedBy = append(resp.MatchedBy, MatchInfo{
			PolicyName:    m.PolicyName,
			PolicyVersion: m.PolicyVersion,
			ClauseIndex:   m.ClauseIndex,
			Effect:        m.Effect,
		})
	}
	return resp
}
