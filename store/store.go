// Package store defines the aggregate persistence interface. Each subsystem
// (policy, assignment, membership, principal, organization, project, party,
// spatial, tenure, checklog) defines its own store interface. The composite
// Store composes them all. Backends: Postgres, SQLite, and Memory.
package store

import (
	"context"

	"github.com/terralink/cadastre/assignment"
	"github.com/terralink/cadastre/checklog"
	"github.com/terralink/cadastre/membership"
	"github.com/terralink/cadastre/organization"
	"github.com/terralink/cadastre/party"
	"github.com/terralink/cadastre/policy"
	"github.com/terralink/cadastre/principal"
	"github.com/terralink/cadastre/project"
	"github.com/terralink/cadastre/spatial"
	"github.com/terralink/cadastre/tenure"
)

// Store is the aggregate persistence interface.
// A single backend (postgres, sqlite, memory) implements all of them.
type Store interface {
	policy.Store
	assignment.Store
	membership.Store
	principal.Store
	organization.Store
	project.Store
	party.Store
	spatial.Store
	tenure.Store
	checklog.Store

	// Migrate runs all schema migrations.
	Migrate(ctx context.Context) error

	// Ping checks database connectivity.
	Ping(ctx context.Context) error

	// Close closes the store connection.
	Close() error
}
