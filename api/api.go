// Package api provides HTTP handlers for the Cadastre platform: the
// authorization check surface, policy document management, assignment
// inspection, membership management, and the decision audit log.
package api

import (
	"net/http"

	"github.com/xraph/forge"

	"github.com/terralink/cadastre"
	"github.com/terralink/cadastre/records"
)

// API wires all Cadastre HTTP handlers together.
type API struct {
	eng    *cadastre.Engine
	svc    *records.Service
	binder *cadastre.Binder
	router forge.Router
}

// New creates an API from an Engine, a record service and a Forge router.
func New(eng *cadastre.Engine, svc *records.Service, router forge.Router) *API {
	return &API{eng: eng, svc: svc, binder: eng.Binder(), router: router}
}

// Handler returns the fully assembled http.Handler with all routes.
func (a *API) Handler() http.Handler {
	if a.router == nil {
		a.router = forge.NewRouter()
	}
	if err := a.RegisterRoutes(a.router); err != nil {
		panic("cadastre: register routes: " + err.Error())
	}
	return a.router.Handler()
}

// RegisterRoutes registers all API routes into the given Forge router.
func (a *API) RegisterRoutes(router forge.Router) error {
	registerers := []func(forge.Router) error{
		a.registerCheckRoutes,
		a.registerPolicyRoutes,
		a.registerAssignmentRoutes,
		a.registerMembershipRoutes,
		a.registerCheckLogRoutes,
	}
	for _, fn := range registerers {
		if err := fn(router); err != nil {
			return err
		}
	}
	return nil
}
