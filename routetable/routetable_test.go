package routetable_test

import (
	"os"
	"path/filepath"
	"testing"

	router "github.com/goliatone/go-navrouter"
	"github.com/goliatone/go-navrouter/routetable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlTable = `
router:
  default_route: home
  not_found_route: not_found
  capabilities:
    nested: true
    guards_sync: true
routes:
  - id: home
    pattern: /
  - name: User Profile
    pattern: /user/:id
  - id: not_found
  - id: settings
    pattern: /settings
    router:
      default_route: general
    children:
      - id: general
        pattern: /
      - name: Linked Devices
        pattern: /devices/:serial
`

const tomlTable = `
[router]
default_route = "home"
conflict_mode = "strict"
max_redirects = 3

[[routes]]
id = "home"
pattern = "/"

[[routes]]
name = "About Us"
pattern = "/about"
`

func TestParseYAML_BuildsNestedRouter(t *testing.T) {
	table, err := routetable.Parse([]byte(yamlTable), routetable.FormatYAML)
	require.NoError(t, err)
	require.Len(t, table.Routes, 4)
	assert.Equal(t, "user_profile", table.Routes[1].ID)
	assert.Equal(t, "linked_devices", table.Routes[3].Children[1].ID)

	r, err := table.Build()
	require.NoError(t, err)
	assert.True(t, r.Capabilities().Nested)

	r.Start()
	res := r.NavigateToPath("/settings/devices/xyz")
	require.True(t, res.Changed)
	assert.Equal(t, "/settings/devices/xyz", r.CurrentPath())

	child, ok := r.Child("settings")
	require.True(t, ok)
	assert.True(t, child.Capabilities().Nested, "child inherits capabilities")
	assert.Equal(t, router.RouteID("general"), child.Config().DefaultRoute)
	assert.Empty(t, child.Config().NotFoundRoute)

	res = r.NavigateToPath("/nowhere")
	require.True(t, res.Changed)
	assert.Equal(t, "/nowhere", r.CurrentPath())
}

func TestParseTOML(t *testing.T) {
	table, err := routetable.Parse([]byte(tomlTable), routetable.FormatTOML)
	require.NoError(t, err)
	assert.Equal(t, "about_us", table.Routes[1].ID)

	r, err := table.Build()
	require.NoError(t, err)
	assert.Equal(t, router.ConflictModeStrict, r.Config().ConflictMode)
	assert.Equal(t, 3, r.Config().MaxRedirects)

	route, ok := r.ResolvePath("/about")
	require.True(t, ok)
	assert.Equal(t, router.RouteID("about_us"), route.ID)
}

func TestParse_Errors(t *testing.T) {
	_, err := routetable.Parse([]byte("routes: [{pattern: /x}]"), routetable.FormatYAML)
	require.Error(t, err)
	assert.True(t, routetable.IsInvalidTable(err))

	_, err = routetable.Parse([]byte("routes: [{id: a}, {name: A}]"), routetable.FormatYAML)
	require.Error(t, err)
	assert.True(t, routetable.IsInvalidTable(err))

	_, err = routetable.Parse([]byte("routes: [{id: a, bogus: 1}]"), routetable.FormatYAML)
	require.Error(t, err)
	assert.True(t, routetable.IsInvalidTable(err))

	_, err = routetable.Parse([]byte("[[routes]"), routetable.FormatTOML)
	require.Error(t, err)

	_, err = routetable.Parse(nil, routetable.Format("ini"))
	assert.True(t, routetable.IsInvalidTable(err))
}

func TestBuild_BadPattern(t *testing.T) {
	table, err := routetable.Parse([]byte("routes: [{id: a, pattern: '/a/**/b'}]"), routetable.FormatYAML)
	require.NoError(t, err)

	_, err = table.Build()
	require.Error(t, err)
	assert.True(t, router.IsParseError(err))
}

func TestBuild_ChildrenNeedNestedCapability(t *testing.T) {
	table, err := routetable.Parse([]byte(`
routes:
  - id: settings
    pattern: /settings
    children:
      - id: general
        pattern: /
`), routetable.FormatYAML)
	require.NoError(t, err)

	_, err = table.Build()
	require.Error(t, err)
	assert.True(t, router.IsCapabilityError(err))

	_, err = table.Build(router.WithNested())
	assert.NoError(t, err)
}

func TestBuild_ChildCanDisableInheritedCapability(t *testing.T) {
	table, err := routetable.Parse([]byte(`
router:
  capabilities:
    nested: true
    guards_sync: true
routes:
  - id: settings
    pattern: /settings
    router:
      capabilities:
        guards_sync: false
    children:
      - id: general
        pattern: /
`), routetable.FormatYAML)
	require.NoError(t, err)

	r, err := table.Build()
	require.NoError(t, err)
	assert.True(t, r.Capabilities().GuardsSync)

	child, ok := r.Child("settings")
	require.True(t, ok)
	assert.False(t, child.Capabilities().GuardsSync, "explicit false overrides the parent")
	assert.True(t, child.Capabilities().Nested, "unset fields are still inherited")

	caps := table.Routes[0].Router.Capabilities
	require.NotNil(t, caps.GuardsSync)
	assert.Nil(t, caps.Nested)
}

func TestApply_ExistingRouter(t *testing.T) {
	table, err := routetable.Parse([]byte(tomlTable), routetable.FormatTOML)
	require.NoError(t, err)

	r := router.MustNew()
	require.NoError(t, table.Apply(r))
	assert.True(t, r.HasRoute("home"))
	assert.True(t, r.HasRoute("about_us"))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "routes.yml")
	require.NoError(t, os.WriteFile(path, []byte(yamlTable), 0o600))

	table, err := routetable.Load(path)
	require.NoError(t, err)
	assert.Len(t, table.Routes, 4)

	_, err = routetable.Load(filepath.Join(dir, "routes.json"))
	assert.True(t, routetable.IsInvalidTable(err))

	_, err = routetable.Load(filepath.Join(dir, "missing.toml"))
	assert.True(t, routetable.IsInvalidTable(err))
}
