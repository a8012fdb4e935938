package sqlite

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the Cadastre store (SQLite).
var Migrations = migrate.NewGroup("cadastre")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_policy_documents",
			Version: "20240601000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS cadastre_policy_documents (
    id              TEXT PRIMARY KEY,
    name            TEXT NOT NULL,
    version         INTEGER NOT NULL DEFAULT 1,
    clauses         TEXT NOT NULL DEFAULT '[]',
    created_at      TEXT NOT NULL DEFAULT (datetime('now')),

    UNIQUE(name, version)
);

CREATE INDEX IF NOT EXISTS idx_cadastre_documents_name ON cadastre_policy_documents (name, version);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS cadastre_policy_documents`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_assignments",
			Version: "20240601000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS cadastre_assignments (
    id              TEXT PRIMARY KEY,
    principal_id    TEXT NOT NULL,
    policy_id       TEXT NOT NULL,
    policy_name     TEXT NOT NULL,
    policy_version  INTEGER NOT NULL DEFAULT 1,
    variables       TEXT NOT NULL DEFAULT '[]',
    seq             INTEGER NOT NULL,
    created_at      TEXT NOT NULL DEFAULT (datetime('now')),

    UNIQUE(principal_id, policy_name, variables)
);

CREATE INDEX IF NOT EXISTS idx_cadastre_assign_principal ON cadastre_assignments (principal_id, seq);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS cadastre_assignments`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_memberships",
			Version: "20240601000003",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS cadastre_organization_roles (
    id              TEXT PRIMARY KEY,
    principal_id    TEXT NOT NULL,
    organization_id TEXT NOT NULL,
    admin           INTEGER NOT NULL DEFAULT 0,
    created_at      TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at      TEXT NOT NULL DEFAULT (datetime('now')),

    UNIQUE(principal_id, organization_id)
);

CREATE INDEX IF NOT EXISTS idx_cadastre_orgroles_org ON cadastre_organization_roles (organization_id);
CREATE INDEX IF NOT EXISTS idx_cadastre_orgroles_principal ON cadastre_organization_roles (principal_id);

CREATE TABLE IF NOT EXISTS cadastre_project_roles (
    id              TEXT PRIMARY KEY,
    principal_id    TEXT NOT NULL,
    project_id      TEXT NOT NULL,
    role            TEXT NOT NULL,
    created_at      TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at      TEXT NOT NULL DEFAULT (datetime('now')),

    UNIQUE(principal_id, project_id)
);

CREATE INDEX IF NOT EXISTS idx_cadastre_projroles_project ON cadastre_project_roles (project_id);
CREATE INDEX IF NOT EXISTS idx_cadastre_projroles_principal ON cadastre_project_roles (principal_id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
DROP TABLE IF EXISTS cadastre_project_roles;
DROP TABLE IF EXISTS cadastre_organization_roles;
`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_principals",
			Version: "20240601000004",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS cadastre_principals (
    id              TEXT PRIMARY KEY,
    username        TEXT NOT NULL,
    email           TEXT NOT NULL DEFAULT '',
    full_name       TEXT NOT NULL DEFAULT '',
    active          INTEGER NOT NULL DEFAULT 1,
    created_at      TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at      TEXT NOT NULL DEFAULT (datetime('now')),

    UNIQUE(username)
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS cadastre_principals`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_organizations",
			Version: "20240601000005",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS cadastre_organizations (
    id              TEXT PRIMARY KEY,
    slug            TEXT NOT NULL,
    name            TEXT NOT NULL,
    description     TEXT NOT NULL DEFAULT '',
    archived        INTEGER NOT NULL DEFAULT 0,
    created_at      TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at      TEXT NOT NULL DEFAULT (datetime('now')),

    UNIQUE(slug)
);

CREATE TABLE IF NOT EXISTS cadastre_projects (
    id              TEXT PRIMARY KEY,
    organization_id TEXT NOT NULL REFERENCES cadastre_organizations(id) ON DELETE CASCADE,
    slug            TEXT NOT NULL,
    name            TEXT NOT NULL,
    description     TEXT NOT NULL DEFAULT '',
    access_policy   TEXT NOT NULL DEFAULT 'private',
    archived        INTEGER NOT NULL DEFAULT 0,
    created_at      TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at      TEXT NOT NULL DEFAULT (datetime('now')),

    UNIQUE(organization_id, slug)
);

CREATE INDEX IF NOT EXISTS idx_cadastre_projects_org ON cadastre_projects (organization_id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
DROP TABLE IF EXISTS cadastre_projects;
DROP TABLE IF EXISTS cadastre_organizations;
`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_records",
			Version: "20240601000006",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS cadastre_parties (
    id              TEXT PRIMARY KEY,
    project_id      TEXT NOT NULL REFERENCES cadastre_projects(id) ON DELETE CASCADE,
    name            TEXT NOT NULL,
    type            TEXT NOT NULL,
    created_at      TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at      TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_cadastre_parties_project ON cadastre_parties (project_id);

CREATE TABLE IF NOT EXISTS cadastre_spatial_units (
    id              TEXT PRIMARY KEY,
    project_id      TEXT NOT NULL REFERENCES cadastre_projects(id) ON DELETE CASCADE,
    type            TEXT NOT NULL,
    geometry        TEXT NOT NULL DEFAULT '',
    created_at      TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at      TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_cadastre_spatial_project ON cadastre_spatial_units (project_id);

CREATE TABLE IF NOT EXISTS cadastre_spatial_relationships (
    id              TEXT PRIMARY KEY,
    project_id      TEXT NOT NULL REFERENCES cadastre_projects(id) ON DELETE CASCADE,
    unit1_id        TEXT NOT NULL REFERENCES cadastre_spatial_units(id) ON DELETE CASCADE,
    unit2_id        TEXT NOT NULL REFERENCES cadastre_spatial_units(id) ON DELETE CASCADE,
    type            TEXT NOT NULL,
    created_at      TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_cadastre_sprel_unit1 ON cadastre_spatial_relationships (unit1_id);
CREATE INDEX IF NOT EXISTS idx_cadastre_sprel_unit2 ON cadastre_spatial_relationships (unit2_id);

CREATE TABLE IF NOT EXISTS cadastre_tenure_relationships (
    id              TEXT PRIMARY KEY,
    project_id      TEXT NOT NULL REFERENCES cadastre_projects(id) ON DELETE CASCADE,
    party_id        TEXT NOT NULL REFERENCES cadastre_parties(id) ON DELETE CASCADE,
    spatial_unit_id TEXT NOT NULL REFERENCES cadastre_spatial_units(id) ON DELETE CASCADE,
    type            TEXT NOT NULL,
    created_at      TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at      TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_cadastre_tenure_project ON cadastre_tenure_relationships (project_id);
CREATE INDEX IF NOT EXISTS idx_cadastre_tenure_party ON cadastre_tenure_relationships (party_id);
CREATE INDEX IF NOT EXISTS idx_cadastre_tenure_unit ON cadastre_tenure_relationships (spatial_unit_id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
DROP TABLE IF EXISTS cadastre_tenure_relationships;
DROP TABLE IF EXISTS cadastre_spatial_relationships;
DROP TABLE IF EXISTS cadastre_spatial_units;
DROP TABLE IF EXISTS cadastre_parties;
`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_check_logs",
			Version: "20240601000007",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS cadastre_check_logs (
    id              TEXT PRIMARY KEY,
    principal_id    TEXT NOT NULL,
    action          TEXT NOT NULL,
    object          TEXT NOT NULL,
    decision        TEXT NOT NULL,
    reason          TEXT NOT NULL DEFAULT '',
    eval_time_ns    INTEGER NOT NULL DEFAULT 0,
    created_at      TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_cadastre_clogs_principal ON cadastre_check_logs (principal_id);
CREATE INDEX IF NOT EXISTS idx_cadastre_clogs_decision ON cadastre_check_logs (decision);
CREATE INDEX IF NOT EXISTS idx_cadastre_clogs_created ON cadastre_check_logs (created_at);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS cadastre_check_logs`)
				return err
			},
		},
	)
}
