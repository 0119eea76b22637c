// Package routetable loads declarative route tables from YAML or TOML and
// applies them to a router. Nested entries become child routers mounted
// under their parent route.
package routetable

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/BurntSushi/toml"
	"github.com/ettle/strcase"
	goerrors "github.com/goliatone/go-errors"
	router "github.com/goliatone/go-navrouter"
	"gopkg.in/yaml.v2"
)

const TextCodeInvalidTable = "ROUTE_TABLE_INVALID"

type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", invalid(fmt.Sprintf("unsupported route table extension %q", filepath.Ext(path)), map[string]any{
		"path": path,
	})
}

// Settings mirrors router.Config for the fields a table can set.
type Settings struct {
	DefaultRoute  string              `yaml:"default_route" toml:"default_route"`
	NotFoundRoute string              `yaml:"not_found_route" toml:"not_found_route"`
	ConflictMode  string              `yaml:"conflict_mode" toml:"conflict_mode"`
	MaxRedirects  int                 `yaml:"max_redirects" toml:"max_redirects"`
	Capabilities  CapabilitySettings `yaml:"capabilities" toml:"capabilities"`
}

// CapabilitySettings holds the optional router features a table turns on
// or off. A nil field is unset and is inherited from the parent table, so
// a child can disable a feature its parent enables.
type CapabilitySettings struct {
	GuardsSync  *bool `yaml:"guards_sync" toml:"guards_sync"`
	GuardsAsync *bool `yaml:"guards_async" toml:"guards_async"`
	Nested      *bool `yaml:"nested" toml:"nested"`
	Persistence *bool `yaml:"persistence" toml:"persistence"`
}

// Capabilities resolves the settings, treating unset fields as disabled.
func (c CapabilitySettings) Capabilities() router.Capabilities {
	return router.Capabilities{
		GuardsSync:  enabled(c.GuardsSync),
		GuardsAsync: enabled(c.GuardsAsync),
		Nested:      enabled(c.Nested),
		Persistence: enabled(c.Persistence),
	}
}

func enabled(b *bool) bool {
	return b != nil && *b
}

// Entry is one route. When ID is empty it is derived from Name in
// snake_case. An empty Pattern registers an id-only route.
type Entry struct {
	ID       string   `yaml:"id" toml:"id"`
	Name     string   `yaml:"name" toml:"name"`
	Pattern  string   `yaml:"pattern" toml:"pattern"`
	Router   Settings `yaml:"router" toml:"router"`
	Children []Entry  `yaml:"children" toml:"children"`
}

type Table struct {
	Router Settings `yaml:"router" toml:"router"`
	Routes []Entry  `yaml:"routes" toml:"routes"`
}

// Load reads and normalizes the table at path.
func Load(path string) (*Table, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "failed to read route table").
			WithTextCode(TextCodeInvalidTable).
			WithMetadata(map[string]any{"path": path})
	}
	return Parse(data, format)
}

// Parse decodes data and normalizes the result.
func Parse(data []byte, format Format) (*Table, error) {
	t := &Table{}
	var err error
	switch format {
	case FormatYAML:
		err = yaml.UnmarshalStrict(data, t)
	case FormatTOML:
		_, err = toml.Decode(string(data), t)
	default:
		return nil, invalid(fmt.Sprintf("unsupported route table format %q", format), nil)
	}
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "failed to decode route table").
			WithTextCode(TextCodeInvalidTable).
			WithMetadata(map[string]any{"format": string(format)})
	}

	if err := t.Normalize(); err != nil {
		return nil, err
	}
	return t, nil
}

// Normalize derives missing ids and rejects duplicates within one level.
func (t *Table) Normalize() error {
	return normalizeEntries(t.Routes, "")
}

func normalizeEntries(entries []Entry, parent string) error {
	seen := make(map[string]bool, len(entries))
	for i := range entries {
		e := &entries[i]
		if e.ID == "" {
			e.ID = strcase.ToSnake(e.Name)
		}
		if e.ID == "" {
			return invalid("route entry needs an id or a name", map[string]any{
				"index":  i,
				"parent": parent,
			})
		}
		if seen[e.ID] {
			return invalid(fmt.Sprintf("duplicate route id %q", e.ID), map[string]any{
				"route_id": e.ID,
				"parent":   parent,
			})
		}
		seen[e.ID] = true

		if err := normalizeEntries(e.Children, e.ID); err != nil {
			return err
		}
	}
	return nil
}

// Options converts settings into router options.
func (s Settings) Options() []router.Option {
	opts := []router.Option{router.WithCapabilities(s.Capabilities.Capabilities())}
	if s.DefaultRoute != "" {
		opts = append(opts, router.WithDefaultRoute(router.RouteID(s.DefaultRoute)))
	}
	if s.NotFoundRoute != "" {
		opts = append(opts, router.WithNotFoundRoute(router.RouteID(s.NotFoundRoute)))
	}
	if s.ConflictMode != "" {
		opts = append(opts, router.WithRouteConflictMode(router.ConflictMode(s.ConflictMode)))
	}
	if s.MaxRedirects != 0 {
		opts = append(opts, router.WithMaxRedirects(s.MaxRedirects))
	}
	return opts
}

// inherit fills unset child settings from the parent. Route names are
// specific to one router and are never inherited. Capability pointers are
// not dereferenced, so an explicit false on the child survives the merge.
func (s Settings) inherit(parent Settings) (Settings, error) {
	base := parent
	base.DefaultRoute = ""
	base.NotFoundRoute = ""
	if err := mergo.Merge(&s, base, mergo.WithoutDereference); err != nil {
		return s, err
	}
	return s, nil
}

// Build creates a router from the table. Extra options are applied after
// the table settings.
func (t *Table) Build(extra ...router.Option) (*router.Router, error) {
	return build(t.Router, t.Routes, extra)
}

func build(settings Settings, entries []Entry, extra []router.Option) (*router.Router, error) {
	opts := append(settings.Options(), extra...)
	r, err := router.New(opts...)
	if err != nil {
		return nil, err
	}
	if err := apply(r, settings, entries, extra); err != nil {
		return nil, err
	}
	return r, nil
}

// Apply registers the table routes on an existing router. Child routers
// inherit the table settings.
func (t *Table) Apply(r *router.Router, extra ...router.Option) error {
	return apply(r, t.Router, t.Routes, extra)
}

func apply(r *router.Router, settings Settings, entries []Entry, extra []router.Option) error {
	for _, e := range entries {
		if err := r.Register(router.RouteID(e.ID), e.Pattern); err != nil {
			return err
		}
		if len(e.Children) == 0 {
			continue
		}

		childSettings, err := e.Router.inherit(settings)
		if err != nil {
			return err
		}
		child, err := build(childSettings, e.Children, extra)
		if err != nil {
			return err
		}
		if err := r.Mount(router.RouteID(e.ID), child); err != nil {
			return err
		}
	}
	return nil
}

func invalid(message string, metadata map[string]any) error {
	err := goerrors.New(message, goerrors.CategoryValidation).
		WithTextCode(TextCodeInvalidTable)
	if metadata != nil {
		err = err.WithMetadata(metadata)
	}
	return err
}

// IsInvalidTable reports whether err came from loading or validating a table.
func IsInvalidTable(err error) bool {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return false
	}
	return rich.TextCode == TextCodeInvalidTable
}
