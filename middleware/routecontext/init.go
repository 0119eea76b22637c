// Package routecontext keeps a template-friendly snapshot of the current
// route. Register Tracker.Observe with Router.OnRouteChange, or use Attach.
package routecontext

import (
	"sync"

	router "github.com/goliatone/go-navrouter"
)

type Config struct {
	Skip                func(change router.RouteChange) bool
	TemplateContextKey  string
	CurrentRouteNameKey string
	CurrentParamsKey    string
	CurrentQueryKey     string
	CurrentPathKey      string
	ExportAsMap         bool
}

var ConfigDefault = Config{
	Skip:                nil,
	TemplateContextKey:  "template_context",
	CurrentRouteNameKey: "current_route_name",
	CurrentParamsKey:    "current_params",
	CurrentQueryKey:     "current_query",
	CurrentPathKey:      "current_path",
	ExportAsMap:         true,
}

// Tracker stores the latest route change. It is safe to read from other
// goroutines while the router updates it.
type Tracker struct {
	cfg    Config
	router *router.Router

	mu     sync.RWMutex
	locals map[string]any
}

func New(config ...Config) *Tracker {
	return &Tracker{
		cfg:    configDefault(config...),
		locals: map[string]any{},
	}
}

// Attach registers the tracker on r. Paths then come from r.CurrentPath so
// nested routers and the not-found override are reflected.
func (t *Tracker) Attach(r *router.Router) *Tracker {
	t.router = r
	r.OnRouteChange(t.Observe)
	return t
}

func (t *Tracker) Observe(change router.RouteChange) {
	if t.cfg.Skip != nil && t.cfg.Skip(change) {
		return
	}

	currentRoute := string(change.To.ID)
	currentParams := change.To.Params.Map()
	currentQuery := map[string]string(change.To.Query.Clone())
	if currentQuery == nil {
		currentQuery = map[string]string{}
	}

	currentPath := "/" + currentRoute
	if t.router != nil {
		currentPath = t.router.CurrentPath()
	} else if p, ok := change.To.Path(); ok {
		currentPath = p
	}

	values := map[string]any{
		t.cfg.CurrentRouteNameKey: currentRoute,
		t.cfg.CurrentParamsKey:    currentParams,
		t.cfg.CurrentQueryKey:     currentQuery,
		t.cfg.CurrentPathKey:      currentPath,
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cfg.ExportAsMap {
		t.locals = map[string]any{t.cfg.TemplateContextKey: values}
	} else {
		t.locals = values
	}
}

// Locals returns a copy of the exported values.
func (t *Tracker) Locals() map[string]any {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]any, len(t.locals))
	for k, v := range t.locals {
		out[k] = v
	}
	return out
}

// Get returns one exported value.
func (t *Tracker) Get(key string) any {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.locals[key]
}

func configDefault(config ...Config) Config {
	if len(config) == 0 {
		return ConfigDefault
	}

	cfg := config[0]

	if cfg.TemplateContextKey == "" {
		cfg.TemplateContextKey = ConfigDefault.TemplateContextKey
	}

	if cfg.CurrentRouteNameKey == "" {
		cfg.CurrentRouteNameKey = ConfigDefault.CurrentRouteNameKey
	}

	if cfg.CurrentParamsKey == "" {
		cfg.CurrentParamsKey = ConfigDefault.CurrentParamsKey
	}

	if cfg.CurrentQueryKey == "" {
		cfg.CurrentQueryKey = ConfigDefault.CurrentQueryKey
	}

	if cfg.CurrentPathKey == "" {
		cfg.CurrentPathKey = ConfigDefault.CurrentPathKey
	}

	return cfg
}
