package api

import (
	"encoding/json"
	"net/http"

	"github.com/xraph/forge"

	"github.com/terralink/cadastre"
	"github.com/terralink/cadastre/policy"
)

func (a *API) registerPolicyRoutes(router forge.Router) error {
	g := router.Group("/v1", forge.WithGroupTags("policies"))

	if err := g.PUT("/policies/:name", a.putPolicy,
		forge.WithSummary("Put policy document"),
		forge.WithDescription("Creates a new version of the named policy document. Documents are immutable; existing versions and the assignments pinned to them are untouched."),
		forge.WithOperationID("putPolicy"),
		forge.WithRequestSchema(PutPolicyRequest{}),
		forge.WithCreatedResponse(&policy.Document{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/policies/:name", a.getPolicy,
		forge.WithSummary("Get policy document"),
		forge.WithDescription("Returns the latest version of the named policy document."),
		forge.WithOperationID("getPolicy"),
		forge.WithResponseSchema(http.StatusOK, "Policy document", &policy.Document{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.GET("/policies", a.listPolicies,
		forge.WithSummary("List policy documents"),
		forge.WithOperationID("listPolicies"),
		forge.WithRequestSchema(ListPoliciesRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Policy document list", []*policy.Document{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) putPolicy(ctx forge.Context, req *PutPolicyRequest) (*policy.Document, error) {
	name := ctx.Param("name")
	if name == "" {
		return nil, forge.BadRequest("policy name is required")
	}

	// Round-trip through the wire format so validation lives in one place.
	raw, err := json.Marshal(req)
	if err != nil {
		return nil, forge.BadRequest(err.Error())
	}
	doc, err := policy.Parse(name, raw)
	if err != nil {
		return nil, mapError(err)
	}

	if err := a.eng.Store().CreateDocument(ctx.Context(), doc); err != nil {
		return nil, mapError(err)
	}

	if a.eng.Plugins() != nil {
		a.eng.Plugins().EmitDocumentCreated(ctx.Context(), doc)
	}

	return doc, ctx.JSON(http.StatusCreated, doc)
}

func (a *API) getPolicy(ctx forge.Context, _ *GetPolicyRequest) (*policy.Document, error) {
	name := ctx.Param("name")
	if name == "" {
		return nil, forge.BadRequest("policy name is required")
	}

	doc, err := a.eng.Store().GetDocumentByName(ctx.Context(), name)
	if err != nil {
		return nil, mapError(cadastre.ErrPolicyNotFound)
	}

	return doc, ctx.JSON(http.StatusOK, doc)
}

func (a *API) listPolicies(ctx forge.Context, req *ListPoliciesRequest) ([]*policy.Document, error) {
	filter := &policy.ListFilter{
		Name:       req.Name,
		LatestOnly: req.Latest == "true",
		Limit:      defaultLimit(req.Limit),
		Offset:     req.Offset,
	}

	docs, err := a.eng.Store().ListDocuments(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}

	return docs, ctx.JSON(http.StatusOK, docs)
}
