// Package api provides HTTP handlers for the otoolkit services.
package api

import (
	"net/http"

	"github.com/xraph/forge"

	otoolkit "github.com/Team-Optix-3749/otoolkit-sub000"
	"github.com/Team-Optix-3749/otoolkit-sub000/outreach"
	"github.com/Team-Optix-3749/otoolkit-sub000/routegate"
	"github.com/Team-Optix-3749/otoolkit-sub000/session"
	"github.com/Team-Optix-3749/otoolkit-sub000/task"
)

// API wires all otoolkit HTTP handlers together.
type API struct {
	eng      *otoolkit.Engine
	sessions *session.Manager
	tasks    *task.Workflow
	ledger   *outreach.Ledger
	gate     *routegate.Gate
	router   forge.Router
}

// New creates an API from the otoolkit services and a Forge router.
func New(eng *otoolkit.Engine, sessions *session.Manager, tasks *task.Workflow, ledger *outreach.Ledger, gate *routegate.Gate, router forge.Router) *API {
	return &API{
		eng:      eng,
		sessions: sessions,
		tasks:    tasks,
		ledger:   ledger,
		gate:     gate,
		router:   router,
	}
}

// Handler returns the fully assembled http.Handler with all routes.
func (a *API) Handler() http.Handler {
	if a.router == nil {
		a.router = forge.NewRouter()
	}
	if err := a.RegisterRoutes(a.router); err != nil {
		panic("otoolkit: register routes: " + err.Error())
	}
	return a.router.Handler()
}

// RegisterRoutes registers all API routes into the given Forge router.
func (a *API) RegisterRoutes(router forge.Router) error {
	registerers := []func(forge.Router) error{
		a.registerCheckRoutes,
		a.registerRuleRoutes,
		a.registerLocationRoutes,
		a.registerSessionRoutes,
		a.registerTaskRoutes,
		a.registerOutreachRoutes,
	}
	for _, fn := range registerers {
		if err := fn(router); err != nil {
			return err
		}
	}
	return nil
}
