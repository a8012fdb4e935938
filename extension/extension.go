// Package extension provides a Forge extension entry point for Cadastre.
package extension

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	"github.com/terralink/cadastre"
	"github.com/terralink/cadastre/api"
	"github.com/terralink/cadastre/plugin"
	"github.com/terralink/cadastre/records"
	"github.com/terralink/cadastre/store"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "cadastre"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Land administration records with policy-based authorization"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts Cadastre as a Forge extension.
type Extension struct {
	config       Config
	eng          *cadastre.Engine
	svc          *records.Service
	apiHandler   *api.API
	logger       *slog.Logger
	cadastreOpts []cadastre.Option
	plugins      []plugin.Plugin
}

// New creates a Cadastre Forge extension with the given options.
func New(opts ...ExtOption) *Extension {
	e := &Extension{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns the extension name.
func (e *Extension) Name() string { return ExtensionName }

// Description returns the extension description.
func (e *Extension) Description() string { return ExtensionDescription }

// Version returns the extension version.
func (e *Extension) Version() string { return ExtensionVersion }

// Dependencies returns the list of extension names this extension depends on.
func (e *Extension) Dependencies() []string { return []string{} }

// Engine returns the underlying Cadastre engine.
func (e *Extension) Engine() *cadastre.Engine { return e.eng }

// Records returns the authorized record service.
func (e *Extension) Records() *records.Service { return e.svc }

// API returns the API handler.
func (e *Extension) API() *api.API { return e.apiHandler }

// Register implements [forge.Extension]. It initializes the engine and the
// record service, registers them in the DI container, and optionally
// registers HTTP routes.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.init(fapp); err != nil {
		return err
	}

	if err := vessel.Provide(fapp.Container(), func() (*cadastre.Engine, error) {
		return e.eng, nil
	}); err != nil {
		return fmt.Errorf("cadastre: register engine in container: %w", err)
	}

	if err := vessel.Provide(fapp.Container(), func() (*records.Service, error) {
		return e.svc, nil
	}); err != nil {
		return fmt.Errorf("cadastre: register record service in container: %w", err)
	}

	return nil
}

func (e *Extension) init(fapp forge.App) error {
	logger := e.logger
	if logger == nil {
		logger = slog.Default()
	}

	opts := make([]cadastre.Option, 0, len(e.cadastreOpts)+len(e.plugins)+2)
	opts = append(opts, cadastre.WithLogger(logger))

	// Try to resolve the store from the DI container, fall back to the
	// option-provided store.
	if s, err := forge.Inject[store.Store](fapp.Container()); err == nil {
		opts = append(opts, cadastre.WithStore(s))
	}

	opts = append(opts, e.cadastreOpts...)

	for _, x := range e.plugins {
		opts = append(opts, cadastre.WithPlugin(x))
	}

	eng, err := cadastre.NewEngine(opts...)
	if err != nil {
		return fmt.Errorf("cadastre: create engine: %w", err)
	}
	e.eng = eng
	e.svc = records.NewService(eng, records.WithLogger(logger))

	e.apiHandler = api.New(eng, e.svc, fapp.Router())

	if !e.config.DisableRoutes {
		if err := e.apiHandler.RegisterRoutes(fapp.Router()); err != nil {
			return fmt.Errorf("cadastre: register routes: %w", err)
		}
	}

	return nil
}

// Start runs migrations, loads the seed policy documents and starts the
// engine.
func (e *Extension) Start(ctx context.Context) error {
	if e.eng == nil {
		return errors.New("cadastre: extension not initialized")
	}

	if !e.config.DisableMigrate {
		s := e.eng.Store()
		if s != nil {
			if err := s.Migrate(ctx); err != nil {
				return fmt.Errorf("cadastre: migration failed: %w", err)
			}
		}
	}

	if !e.config.DisableSeed {
		if err := e.eng.LoadSeedDocuments(ctx); err != nil {
			return fmt.Errorf("cadastre: load seed documents: %w", err)
		}
	}

	return e.eng.Start(ctx)
}

// Stop gracefully shuts down the engine.
func (e *Extension) Stop(ctx context.Context) error {
	if e.eng == nil {
		return nil
	}
	return e.eng.Stop(ctx)
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.eng == nil {
		return errors.New("cadastre: extension not initialized")
	}
	s := e.eng.Store()
	if s == nil {
		return errors.New("cadastre: no store configured")
	}
	return s.Ping(ctx)
}

// Handler returns the HTTP handler for all API routes.
func (e *Extension) Handler() http.Handler {
	if e.apiHandler == nil {
		return http.NotFoundHandler()
	}
	return e.apiHandler.Handler()
}

// RegisterRoutes registers all Cadastre API routes into a Forge router.
func (e *Extension) RegisterRoutes(router forge.Router) error {
	if e.apiHandler != nil {
		return e.apiHandler.RegisterRoutes(router)
	}
	return nil
}
