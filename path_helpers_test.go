package router_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	router "github.com/goliatone/go-navrouter"
)

func TestJoinPattern(t *testing.T) {
	assert.Equal(t, "/users/:id/**", router.JoinPattern("users", router.PathParam("id"), router.CatchAll))
	assert.Equal(t, "/a/*/b", router.JoinPattern("/a/", "", router.Wildcard, "b/"))
	assert.Equal(t, "/", router.JoinPattern())
}

func TestJoinPattern_Registers(t *testing.T) {
	reg := router.NewRouteRegistry()
	require.NoError(t, reg.RegisterPattern(router.JoinPattern("files", router.PathParam("dir"), router.CatchAll), "files"))

	route, ok := reg.ResolvePath("/files/docs/a/b.txt")
	require.True(t, ok)
	assert.Equal(t, router.RouteID("files"), route.ID)
	dir, _ := route.Param("dir")
	assert.Equal(t, "docs", dir)
}
