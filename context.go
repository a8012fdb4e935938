package cadastre

import (
	"context"

	"github.com/terralink/cadastre/id"
)

type contextKey int

const ctxKeyActingPrincipal contextKey = iota

// WithActingPrincipal returns a context carrying the principal on whose
// behalf subsequent operations run. The HTTP middleware sets this from the
// authenticated request.
func WithActingPrincipal(ctx context.Context, principalID id.PrincipalID) context.Context {
	return context.WithValue(ctx, ctxKeyActingPrincipal, principalID)
}

// ActingPrincipalFromContext returns the acting principal, if set.
func ActingPrincipalFromContext(ctx context.Context) (id.PrincipalID, bool) {
	v, ok := ctx.Value(ctxKeyActingPrincipal).(id.PrincipalID)
	if !ok || v.IsNil() {
		return id.Nil, false
	}

	return v, true
}
