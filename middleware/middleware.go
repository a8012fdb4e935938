// Package middleware provides HTTP authorization middleware for Cadastre.
package middleware

import (
	"encoding/json"

	"github.com/xraph/forge"

	"github.com/terralink/cadastre"
	"github.com/terralink/cadastre/id"
)

// ObjectFunc builds the object path for a request, typically from path
// parameters. It runs after routing, so ctx.Param is populated.
type ObjectFunc func(ctx forge.Context) string

// StaticObject returns an ObjectFunc for a fixed object path.
func StaticObject(object string) ObjectFunc {
	return func(forge.Context) string { return object }
}

// Require enforces a single action on the object built from the request.
// The acting principal is resolved from the authenticated Forge user; an
// unauthenticated request is denied.
func Require(eng *cadastre.Engine, action string, object ObjectFunc) forge.Middleware {
	return func(next forge.Handler) forge.Handler {
		return func(ctx forge.Context) error {
			pid, ok := resolvePrincipal(ctx)
			if !ok {
				return denyResponse(ctx)
			}

			err := eng.Enforce(ctx.Context(), &cadastre.CheckRequest{
				PrincipalID: pid,
				Action:      action,
				Object:      object(ctx),
			})
			if err != nil {
				return denyResponse(ctx)
			}
			return next(ctx)
		}
	}
}

// Check pairs an action with an object builder for RequireAny/RequireAll.
type Check struct {
	Action string
	Object ObjectFunc
}

// RequireAny allows the request if ANY of the checks pass.
func RequireAny(eng *cadastre.Engine, checks ...Check) forge.Middleware {
	return func(next forge.Handler) forge.Handler {
		return func(ctx forge.Context) error {
			pid, ok := resolvePrincipal(ctx)
			if !ok {
				return denyResponse(ctx)
			}

			for _, c := range checks {
				result, err := eng.Check(ctx.Context(), &cadastre.CheckRequest{
					PrincipalID: pid,
					Action:      c.Action,
					Object:      c.Object(ctx),
				})
				if err == nil && result.Allowed {
					return next(ctx)
				}
			}
			return denyResponse(ctx)
		}
	}
}

// RequireAll allows the request only if ALL checks pass.
func RequireAll(eng *cadastre.Engine, checks ...Check) forge.Middleware {
	return func(next forge.Handler) forge.Handler {
		return func(ctx forge.Context) error {
			pid, ok := resolvePrincipal(ctx)
			if !ok {
				return denyResponse(ctx)
			}

			for _, c := range checks {
				err := eng.Enforce(ctx.Context(), &cadastre.CheckRequest{
					PrincipalID: pid,
					Action:      c.Action,
					Object:      c.Object(ctx),
				})
				if err != nil {
					return denyResponse(ctx)
				}
			}
			return next(ctx)
		}
	}
}

// resolvePrincipal extracts the principal from the request. An explicitly
// set acting principal wins; otherwise the authenticated Forge user ID is
// parsed as a principal ID.
func resolvePrincipal(ctx forge.Context) (id.PrincipalID, bool) {
	if pid, ok := cadastre.ActingPrincipalFromContext(ctx.Context()); ok {
		return pid, true
	}
	userID := forge.UserIDFromContext(ctx.Context())
	if userID == "" {
		return id.Nil, false
	}
	pid, err := id.ParsePrincipalID(userID)
	if err != nil {
		return id.Nil, false
	}
	return pid, true
}

func denyResponse(ctx forge.Context) error {
	ctx.SetHeader("Content-Type", "application/json")
	ctx.Response().WriteHeader(403)
	return json.NewEncoder(ctx.Response()).Encode(map[string]string{"error": "access denied"})
}
