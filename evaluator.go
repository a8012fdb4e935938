package cadastre

import (
	"context"
	"fmt"

	"github.com/terralink/cadastre/assignment"
	"github.com/terralink/cadastre/policy"
)

// BoundPolicy is a policy document paired with the variable bindings of the
// assignment that granted it. The engine builds the bound list in assignment
// order before handing it to the evaluator.
type BoundPolicy struct {
	Name      string
	Version   int
	Clauses   []policy.Clause
	Variables []assignment.Variable
}

// Evaluator folds bound policies into a decision.
type Evaluator interface {
	Evaluate(ctx context.Context, bound []*BoundPolicy, req *CheckRequest) (*CheckResult, error)
}

// DefaultEvaluator returns the built-in deny-overrides clause evaluator.
func DefaultEvaluator() Evaluator { return &clauseEvaluator{} }

// clauseEvaluator is stateless and safe for concurrent use. It is a pure
// function of its inputs: same bound policies and request, same decision.
type clauseEvaluator struct{}

func (e *clauseEvaluator) Evaluate(_ context.Context, bound []*BoundPolicy, req *CheckRequest) (*CheckResult, error) {
	if len(bound) == 0 {
		return &CheckResult{
			Decision: DecisionDenyNoAssignments,
			Reason:   "principal has no policy assignments",
		}, nil
	}

	var firstDeny, firstAllow *CheckResult

	for _, bp := range bound {
		for i, c := range bp.Clauses {
			if !clauseMatches(c, req, bp.Variables) {
				continue
			}

			info := MatchInfo{
				PolicyName:    bp.Name,
				PolicyVersion: bp.Version,
				ClauseIndex:   i,
				Effect:        string(c.Effect),
			}

			if c.Effect == policy.EffectDeny {
				if firstDeny == nil {
					firstDeny = &CheckResult{
						Decision:  DecisionDenyExplicit,
						Reason:    fmt.Sprintf("denied by policy %q clause %d", bp.Name, i),
						MatchedBy: []MatchInfo{info},
					}
				}

				continue
			}

			if firstAllow == nil {
				firstAllow = &CheckResult{
					Allowed:   true,
					Decision:  DecisionAllow,
					MatchedBy: []MatchInfo{info},
				}
			}
		}
	}

	// A matching deny wins regardless of assignment or clause order.
	if firstDeny != nil {
		return firstDeny, nil
	}
	if firstAllow != nil {
		return firstAllow, nil
	}

	return &CheckResult{
		Decision: DecisionDenyDefault,
		Reason:   "no clause matched",
	}, nil
}

// clauseMatches reports whether the clause covers the request: at least one
// action pattern and at least one object pattern must match.
func clauseMatches(c policy.Clause, req *CheckRequest, vars []assignment.Variable) bool {
	actionOK := false
	for _, p := range c.Action {
		if matchAction(p, req.Action, vars) {
			actionOK = true

			break
		}
	}
	if !actionOK {
		return false
	}

	for _, p := range c.Object {
		if matchObject(p, req.Object, vars) {
			return true
		}
	}

	return false
}
