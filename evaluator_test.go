package cadastre

import (
	"context"
	"testing"

	"github.com/terralink/cadastre/assignment"
	"github.com/terralink/cadastre/id"
	"github.com/terralink/cadastre/policy"
)

func evalRequest(action, object string) *CheckRequest {
	return &CheckRequest{
		PrincipalID: id.NewPrincipalID(),
		Action:      action,
		Object:      object,
	}
}

func TestEvaluateNoAssignments(t *testing.T) {
	ev := DefaultEvaluator()

	result, err := ev.Evaluate(context.Background(), nil, evalRequest("org.list", "organization"))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if result.Allowed {
		t.Fatal("expected deny")
	}
	if result.Decision != DecisionDenyNoAssignments {
		t.Fatalf("decision = %q, want %q", result.Decision, DecisionDenyNoAssignments)
	}
}

func TestEvaluateDefaultDeny(t *testing.T) {
	ev := DefaultEvaluator()
	bound := []*BoundPolicy{{
		Name:    "default",
		Version: 1,
		Clauses: []policy.Clause{
			{Effect: policy.EffectAllow, Action: []string{"org.list"}, Object: []string{"organization"}},
		},
	}}

	result, err := ev.Evaluate(context.Background(), bound, evalRequest("org.create", "organization"))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if result.Allowed || result.Decision != DecisionDenyDefault {
		t.Fatalf("got (%v, %q), want denied with %q", result.Allowed, result.Decision, DecisionDenyDefault)
	}
}

func TestEvaluateAllowReportsMatch(t *testing.T) {
	ev := DefaultEvaluator()
	bound := []*BoundPolicy{{
		Name:    "org-member",
		Version: 3,
		Clauses: []policy.Clause{
			{Effect: policy.EffectAllow, Action: []string{"project.create"}, Object: []string{"organization/{organization}"}},
			{Effect: policy.EffectAllow, Action: []string{"project.view"}, Object: []string{"project/{organization}/*"}},
		},
		Variables: []assignment.Variable{{Name: "organization", Value: "big-org"}},
	}}

	result, err := ev.Evaluate(context.Background(), bound, evalRequest("project.view", "project/big-org/parcel-survey"))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !result.Allowed || result.Decision != DecisionAllow {
		t.Fatalf("got (%v, %q), want allowed", result.Allowed, result.Decision)
	}
	if len(result.MatchedBy) != 1 {
		t.Fatalf("MatchedBy has %d entries, want 1", len(result.MatchedBy))
	}
	m := result.MatchedBy[0]
	if m.PolicyName != "org-member" || m.PolicyVersion != 3 || m.ClauseIndex != 1 || m.Effect != "allow" {
		t.Fatalf("unexpected match info: %+v", m)
	}
}

func TestEvaluateDenyOverrides(t *testing.T) {
	allow := policy.Clause{Effect: policy.EffectAllow, Action: []string{"spatial.delete"}, Object: []string{"spatial/*/*/*"}}
	deny := policy.Clause{Effect: policy.EffectDeny, Action: []string{"spatial.delete"}, Object: []string{"spatial/big-org/*/*"}}

	orders := map[string][]policy.Clause{
		"deny first":  {deny, allow},
		"allow first": {allow, deny},
	}

	for name, clauses := range orders {
		t.Run(name, func(t *testing.T) {
			ev := DefaultEvaluator()
			bound := []*BoundPolicy{{Name: "mixed", Version: 1, Clauses: clauses}}

			result, err := ev.Evaluate(context.Background(), bound, evalRequest("spatial.delete", "spatial/big-org/parcel-survey/su_x"))
			if err != nil {
				t.Fatalf("Evaluate: %v", err)
			}
			if result.Allowed || result.Decision != DecisionDenyExplicit {
				t.Fatalf("got (%v, %q), want explicit deny", result.Allowed, result.Decision)
			}
			if len(result.MatchedBy) != 1 || result.MatchedBy[0].Effect != "deny" {
				t.Fatalf("unexpected match info: %+v", result.MatchedBy)
			}
		})
	}
}

func TestEvaluateDenyAcrossDocuments(t *testing.T) {
	ev := DefaultEvaluator()
	bound := []*BoundPolicy{
		{
			Name:    "grants",
			Version: 1,
			Clauses: []policy.Clause{
				{Effect: policy.EffectAllow, Action: []string{"party.update"}, Object: []string{"party/*/*/*"}},
			},
		},
		{
			Name:    "lockdown",
			Version: 2,
			Clauses: []policy.Clause{
				{Effect: policy.EffectDeny, Action: []string{"party.update"}, Object: []string{"party/big-org/*/*"}},
			},
		},
	}

	result, err := ev.Evaluate(context.Background(), bound, evalRequest("party.update", "party/big-org/parcel-survey/pty_x"))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if result.Allowed {
		t.Fatal("deny in a later document must override an earlier allow")
	}
	if result.MatchedBy[0].PolicyName != "lockdown" {
		t.Fatalf("matched policy = %q, want lockdown", result.MatchedBy[0].PolicyName)
	}
}

func TestEvaluateVariableScoping(t *testing.T) {
	clauses := []policy.Clause{
		{Effect: policy.EffectAllow, Action: []string{"project.view"}, Object: []string{"project/{organization}/*"}},
	}
	ev := DefaultEvaluator()
	bound := []*BoundPolicy{{
		Name:      "org-member",
		Version:   1,
		Clauses:   clauses,
		Variables: []assignment.Variable{{Name: "organization", Value: "org-one"}},
	}}

	allowed, err := ev.Evaluate(context.Background(), bound, evalRequest("project.view", "project/org-one/p1"))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !allowed.Allowed {
		t.Fatal("expected allow inside the bound organization")
	}

	denied, err := ev.Evaluate(context.Background(), bound, evalRequest("project.view", "project/org-two/p1"))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if denied.Allowed {
		t.Fatal("binding for org-one must not reach into org-two")
	}
}
