package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePattern_Segments(t *testing.T) {
	p, err := ParsePattern("/user/:id/*/files/**")
	require.NoError(t, err)

	assert.Equal(t, []RouteSegment{
		{Kind: SegmentStatic, Value: "user"},
		{Kind: SegmentDynamic, Value: "id"},
		{Kind: SegmentWildcardSingle},
		{Kind: SegmentStatic, Value: "files"},
		{Kind: SegmentWildcardMulti},
	}, p.Segments())
	assert.Equal(t, "/user/:id/*/files/**", p.String())
	assert.True(t, p.HasWildcard())
	assert.False(t, p.IsStatic())
}

func TestParsePattern_Root(t *testing.T) {
	p, err := ParsePattern("/")
	require.NoError(t, err)
	assert.Empty(t, p.Segments())
	assert.Equal(t, 0, p.Priority())
	assert.Equal(t, "/", p.String())

	_, ok := p.Match("/")
	assert.True(t, ok)
	_, ok = p.Match("/a")
	assert.False(t, ok)
}

func TestParsePattern_Errors(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		textCode string
	}{
		{name: "empty", pattern: "", textCode: TextCodePatternEmpty},
		{name: "blank", pattern: "   ", textCode: TextCodePatternEmpty},
		{name: "empty param", pattern: "/user/:", textCode: TextCodePatternEmptyParam},
		{name: "multi wildcard not last", pattern: "/a/**/b", textCode: TextCodePatternWildcardNotLast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePattern(tt.pattern)
			require.Error(t, err)
			assert.True(t, IsParseError(err))
			assert.True(t, hasTextCode(err, tt.textCode))
		})
	}
}

func TestRoutePattern_Match(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		match   bool
		params  map[string]string
	}{
		{pattern: "/user/:id", path: "/user/42", match: true, params: map[string]string{"id": "42"}},
		{pattern: "/user/:id", path: "/user", match: false},
		{pattern: "/user/:id", path: "/user/42/extra", match: false},
		{pattern: "/user/profile", path: "/user/settings", match: false},
		{pattern: "/user/*", path: "/user/anything", match: true, params: map[string]string{}},
		{pattern: "/user/*", path: "/user", match: false},
		{pattern: "/user/**", path: "/user", match: true, params: map[string]string{}},
		{pattern: "/user/**", path: "/user/a/b/c", match: true, params: map[string]string{}},
		{pattern: "/:a/:b", path: "/x/y", match: true, params: map[string]string{"a": "x", "b": "y"}},
		{pattern: "/a/b", path: "a/b/", match: true, params: map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.path, func(t *testing.T) {
			p := MustParsePattern(tt.pattern)
			params, ok := p.Match(tt.path)
			require.Equal(t, tt.match, ok)
			if tt.match {
				assert.Equal(t, tt.params, params.Map())
			}
		})
	}
}

func TestRoutePattern_MatchPrefix(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		match   bool
		tail    string
		params  map[string]string
	}{
		{pattern: "/settings", path: "/settings/profile/edit", match: true, tail: "/profile/edit", params: map[string]string{}},
		{pattern: "/settings", path: "/settings", match: true, tail: "", params: map[string]string{}},
		{pattern: "/settings/**", path: "/settings", match: true, tail: "", params: map[string]string{}},
		{pattern: "/settings/**", path: "/settings/a/b", match: true, tail: "/a/b", params: map[string]string{}},
		{pattern: "/settings/*", path: "/settings/a/b", match: true, tail: "/a/b", params: map[string]string{}},
		{pattern: "/settings/*", path: "/settings", match: false},
		{pattern: "/org/:org", path: "/org/acme/repos", match: true, tail: "/repos", params: map[string]string{"org": "acme"}},
		{pattern: "/org/:org", path: "/team/acme", match: false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.path, func(t *testing.T) {
			params, tail, ok := MustParsePattern(tt.pattern).MatchPrefix(tt.path)
			require.Equal(t, tt.match, ok)
			if tt.match {
				assert.Equal(t, tt.tail, tail)
				assert.Equal(t, tt.params, params.Map())
			}
		})
	}
}

func TestRoutePattern_Priority(t *testing.T) {
	assert.Equal(t, 2, MustParsePattern("/user/profile").Priority())
	assert.Equal(t, 101, MustParsePattern("/user/:id").Priority())
	assert.Equal(t, 10_001, MustParsePattern("/user/*").Priority())
	assert.Equal(t, 100_001, MustParsePattern("/user/**").Priority())

	static := MustParsePattern("/user/profile")
	dynamic := MustParsePattern("/user/:id")
	assert.Less(t, static.Priority(), dynamic.Priority())
	assert.Equal(t, 1, comparePatternPriority(static, dynamic))
	assert.Equal(t, -1, comparePatternPriority(dynamic, static))
	assert.Equal(t, 0, comparePatternPriority(dynamic, MustParsePattern("/team/:slug")))
}

func TestRoutePattern_FormatPath(t *testing.T) {
	p := MustParsePattern("/user/:id/posts/:post")

	path, ok := p.FormatPath(NewRouteParams(map[string]string{"id": "7", "post": "hello"}))
	require.True(t, ok)
	assert.Equal(t, "/user/7/posts/hello", path)

	_, ok = p.FormatPath(NewRouteParams(map[string]string{"id": "7"}))
	assert.False(t, ok)
	assert.Equal(t, "/user/7/posts", p.FormatBasePath(NewRouteParams(map[string]string{"id": "7"})))

	wild := MustParsePattern("/files/:bucket/**")
	_, ok = wild.FormatPath(NewRouteParams(map[string]string{"bucket": "b"}))
	assert.False(t, ok)
	assert.Equal(t, "/files/b", wild.FormatBasePath(NewRouteParams(map[string]string{"bucket": "b"})))

	assert.Equal(t, "/", MustParsePattern("/:id").FormatBasePath(RouteParams{}))

	root, ok := MustParsePattern("/").FormatPath(RouteParams{})
	require.True(t, ok)
	assert.Equal(t, "/", root)
}

func TestJoinPattern(t *testing.T) {
	assert.Equal(t, "/users/:id/**", JoinPattern("users", PathParam("id"), CatchAll))
	assert.Equal(t, "/a/*", JoinPattern("/a/", "", Wildcard))
	assert.Equal(t, "/", JoinPattern())
}
