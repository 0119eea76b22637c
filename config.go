package router

import (
	"dario.cat/mergo"
)

// Capabilities switch optional router features on. All are off by default.
type Capabilities struct {
	GuardsSync  bool `json:"guards_sync" yaml:"guards_sync" toml:"guards_sync"`
	GuardsAsync bool `json:"guards_async" yaml:"guards_async" toml:"guards_async"`
	Nested      bool `json:"nested" yaml:"nested" toml:"nested"`
	Persistence bool `json:"persistence" yaml:"persistence" toml:"persistence"`
}

// AllCapabilities enables every optional feature.
func AllCapabilities() Capabilities {
	return Capabilities{GuardsSync: true, GuardsAsync: true, Nested: true, Persistence: true}
}

type Config struct {
	Capabilities  Capabilities
	DefaultRoute  RouteID
	NotFoundRoute RouteID
	ConflictMode  ConflictMode
	MaxRedirects  int
	Logger        Logger
	Observers     []Observer
}

func DefaultConfig() Config {
	return Config{
		ConflictMode: ConflictModePriority,
		MaxRedirects: MaxRedirects,
		Logger:       &defaultLogger{},
	}
}

type Option func(*Config)

func WithCapabilities(caps Capabilities) Option {
	return func(cfg *Config) {
		cfg.Capabilities = caps
	}
}

// WithGuards enables synchronous and asynchronous guards and hooks.
func WithGuards() Option {
	return func(cfg *Config) {
		cfg.Capabilities.GuardsSync = true
		cfg.Capabilities.GuardsAsync = true
	}
}

func WithNested() Option {
	return func(cfg *Config) {
		cfg.Capabilities.Nested = true
	}
}

func WithPersistence() Option {
	return func(cfg *Config) {
		cfg.Capabilities.Persistence = true
	}
}

// WithDefaultRoute sets the route Start navigates to.
func WithDefaultRoute(id RouteID) Option {
	return func(cfg *Config) {
		cfg.DefaultRoute = id
	}
}

// WithNotFoundRoute sets the route shown for unresolved paths.
func WithNotFoundRoute(id RouteID) Option {
	return func(cfg *Config) {
		cfg.NotFoundRoute = id
	}
}

func WithRouteConflictMode(mode ConflictMode) Option {
	return func(cfg *Config) {
		cfg.ConflictMode = mode
	}
}

// WithMaxRedirects caps guard redirects per navigation. Zero keeps the
// default; a negative value disables redirects.
func WithMaxRedirects(n int) Option {
	return func(cfg *Config) {
		cfg.MaxRedirects = n
	}
}

func WithLogger(logger Logger) Option {
	return func(cfg *Config) {
		cfg.Logger = logger
	}
}

func WithObserver(o Observer) Option {
	return func(cfg *Config) {
		cfg.Observers = append(cfg.Observers, o)
	}
}

func newConfig(opts ...Option) (Config, error) {
	cfg := Config{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return normalizeConfig(cfg)
}

// normalizeConfig fills unset fields from DefaultConfig.
func normalizeConfig(cfg Config) (Config, error) {
	if err := mergo.Merge(&cfg, DefaultConfig()); err != nil {
		return cfg, err
	}
	cfg.ConflictMode = cfg.ConflictMode.normalize()
	if cfg.MaxRedirects < 0 {
		cfg.MaxRedirects = 0
	}
	return cfg, nil
}
