// Package extension provides a Forge extension entry point for otoolkit.
package extension

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	otoolkit "github.com/Team-Optix-3749/otoolkit-sub000"
	"github.com/Team-Optix-3749/otoolkit-sub000/api"
	"github.com/Team-Optix-3749/otoolkit-sub000/cache"
	"github.com/Team-Optix-3749/otoolkit-sub000/outreach"
	"github.com/Team-Optix-3749/otoolkit-sub000/routegate"
	"github.com/Team-Optix-3749/otoolkit-sub000/session"
	"github.com/Team-Optix-3749/otoolkit-sub000/store"
	"github.com/Team-Optix-3749/otoolkit-sub000/task"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "otoolkit"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Team dashboard authorization and session lifecycle (RBAC, geofenced check-in, task review, outreach ledger)"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts otoolkit as a Forge extension.
type Extension struct {
	config     Config
	store      store.Store
	eng        *otoolkit.Engine
	sessions   *session.Manager
	tasks      *task.Workflow
	ledger     *outreach.Ledger
	gate       *routegate.Gate
	apiHandler *api.API
	logger     *slog.Logger
	engOpts    []otoolkit.Option
	gateOpts   []routegate.GateOption
}

// New creates an otoolkit Forge extension with the given options.
func New(opts ...ExtOption) *Extension {
	e := &Extension{config: DefaultConfig()}
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

// Engine returns the underlying permission engine.
func (e *Extension) Engine() *otoolkit.Engine { return e.eng }

// Sessions returns the session lifecycle manager.
func (e *Extension) Sessions() *session.Manager { return e.sessions }

// Tasks returns the task review workflow.
func (e *Extension) Tasks() *task.Workflow { return e.tasks }

// Ledger returns the outreach ledger.
func (e *Extension) Ledger() *outreach.Ledger { return e.ledger }

// Gate returns the route permission gate.
func (e *Extension) Gate() *routegate.Gate { return e.gate }

// API returns the API handler.
func (e *Extension) API() *api.API { return e.apiHandler }

// Register implements [forge.Extension]. It initializes the services,
// registers them in the DI container, and optionally registers HTTP routes.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.init(fapp); err != nil {
		return err
	}

	if err := vessel.Provide(fapp.Container(), func() (*otoolkit.Engine, error) {
		return e.eng, nil
	}); err != nil {
		return fmt.Errorf("otoolkit: register engine in container: %w", err)
	}
	if err := vessel.Provide(fapp.Container(), func() (*session.Manager, error) {
		return e.sessions, nil
	}); err != nil {
		return fmt.Errorf("otoolkit: register session manager in container: %w", err)
	}
	if err := vessel.Provide(fapp.Container(), func() (*task.Workflow, error) {
		return e.tasks, nil
	}); err != nil {
		return fmt.Errorf("otoolkit: register task workflow in container: %w", err)
	}
	if err := vessel.Provide(fapp.Container(), func() (*outreach.Ledger, error) {
		return e.ledger, nil
	}); err != nil {
		return fmt.Errorf("otoolkit: register outreach ledger in container: %w", err)
	}
	if err := vessel.Provide(fapp.Container(), func() (*routegate.Gate, error) {
		return e.gate, nil
	}); err != nil {
		return fmt.Errorf("otoolkit: register route gate in container: %w", err)
	}

	return nil
}

func (e *Extension) init(fapp forge.App) error {
	logger := e.logger
	if logger == nil {
		logger = slog.Default()
	}

	// Try to resolve the store from the DI container, fall back to the
	// option-provided store.
	if e.store == nil {
		if s, err := forge.Inject[store.Store](fapp.Container()); err == nil {
			e.store = s
		}
	}
	if e.store == nil {
		return errors.New("otoolkit: no store configured")
	}

	engOpts := make([]otoolkit.Option, 0, len(e.engOpts)+3)
	engOpts = append(engOpts,
		otoolkit.WithStore(e.store),
		otoolkit.WithCache(cache.NewMemory()),
		otoolkit.WithLogger(logger),
	)
	engOpts = append(engOpts, e.engOpts...)

	eng, err := otoolkit.NewEngine(engOpts...)
	if err != nil {
		return fmt.Errorf("otoolkit: create engine: %w", err)
	}
	e.eng = eng

	sessions, err := session.NewManager(e.store, e.store, session.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("otoolkit: create session manager: %w", err)
	}
	e.sessions = sessions

	tasks, err := task.NewWorkflow(e.store, eng, task.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("otoolkit: create task workflow: %w", err)
	}
	e.tasks = tasks

	ledger, err := outreach.NewLedger(e.store, eng, outreach.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("otoolkit: create outreach ledger: %w", err)
	}
	e.ledger = ledger

	gateOpts := make([]routegate.GateOption, 0, len(e.gateOpts)+1)
	gateOpts = append(gateOpts, routegate.WithLogger(logger))
	gateOpts = append(gateOpts, e.gateOpts...)
	gate, err := routegate.NewGate(eng, gateOpts...)
	if err != nil {
		return fmt.Errorf("otoolkit: create route gate: %w", err)
	}
	e.gate = gate

	e.apiHandler = api.New(eng, sessions, tasks, ledger, gate, fapp.Router())

	if !e.config.DisableRoutes {
		if err := e.apiHandler.RegisterRoutes(fapp.Router()); err != nil {
			return fmt.Errorf("otoolkit: register routes: %w", err)
		}
	}

	return nil
}

// Start runs migrations unless disabled and warms the route gate.
func (e *Extension) Start(ctx context.Context) error {
	if e.eng == nil {
		return errors.New("otoolkit: extension not initialized")
	}

	if !e.config.DisableMigrate {
		if err := e.store.Migrate(ctx); err != nil {
			return fmt.Errorf("otoolkit: migration failed: %w", err)
		}
	}

	// A failed initial refresh is not fatal; the gate keeps its built-in
	// defaults and retries lazily.
	if e.gate.HasSource() {
		if err := e.gate.Refresh(ctx); err != nil && e.logger != nil {
			e.logger.Warn("route table refresh failed on start", "error", err)
		}
	}

	return nil
}

// Stop gracefully shuts down the extension.
func (e *Extension) Stop(ctx context.Context) error {
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.eng == nil {
		return errors.New("otoolkit: extension not initialized")
	}
	if e.store == nil {
		return errors.New("otoolkit: no store configured")
	}
	return e.store.Ping(ctx)
}

// Handler returns the HTTP handler for all API routes.
func (e *Extension) Handler() http.Handler {
	if e.apiHandler == nil {
		return http.NotFoundHandler()
	}
	return e.apiHandler.Handler()
}

// RegisterRoutes registers all otoolkit API routes into a Forge router.
func (e *Extension) RegisterRoutes(router forge.Router) error {
	if e.apiHandler != nil {
		return e.apiHandler.RegisterRoutes(router)
	}
	return nil
}
