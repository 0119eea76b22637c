package router

import (
	"strconv"
)

// RouteID identifies a registered destination.
type RouteID string

func (id RouteID) String() string {
	return string(id)
}

// IsZero reports whether the id is empty.
func (id RouteID) IsZero() bool {
	return id == ""
}

// Query holds decoded query parameters.
type Query map[string]string

func (q Query) Clone() Query {
	if q == nil {
		return nil
	}
	out := make(Query, len(q))
	for k, v := range q {
		out[k] = v
	}
	return out
}

func (q Query) Get(key string) (string, bool) {
	v, ok := q[key]
	return v, ok
}

func (q Query) Int(key string) (int64, bool) {
	v, ok := q[key]
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	return n, err == nil
}

func (q Query) Uint(key string) (uint64, bool) {
	v, ok := q[key]
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseUint(v, 10, 64)
	return n, err == nil
}

func (q Query) Float(key string) (float64, bool) {
	v, ok := q[key]
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseFloat(v, 64)
	return n, err == nil
}

func (q Query) Bool(key string) (bool, bool) {
	v, ok := q[key]
	if !ok {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	return b, err == nil
}

func (q Query) equal(other Query) bool {
	if len(q) != len(other) {
		return false
	}
	for k, v := range q {
		if ov, ok := other[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Route is a resolved navigation destination. Routes are values; history
// stores its own copies.
type Route struct {
	ID      RouteID
	Params  RouteParams
	Query   Query
	Hash    string
	Pattern *RoutePattern
}

// NewRoute returns a route with only an id.
func NewRoute(id RouteID) Route {
	return Route{ID: id}
}

// WithParam returns a copy of r with key set.
func (r Route) WithParam(key, value string) Route {
	out := r.Clone()
	out.Params.Set(key, value)
	return out
}

// WithQuery returns a copy of r with the query replaced.
func (r Route) WithQuery(q Query) Route {
	out := r.Clone()
	out.Query = q.Clone()
	return out
}

// Clone deep-copies params and query. The pattern is shared.
func (r Route) Clone() Route {
	return Route{
		ID:      r.ID,
		Params:  r.Params.Clone(),
		Query:   r.Query.Clone(),
		Hash:    r.Hash,
		Pattern: r.Pattern,
	}
}

// Equal compares id, params, query and hash. Patterns are not compared.
func (r Route) Equal(other Route) bool {
	return r.ID == other.ID &&
		r.Hash == other.Hash &&
		r.Params.Equal(other.Params) &&
		r.Query.equal(other.Query)
}

func (r Route) Param(key string) (string, bool) {
	return r.Params.Get(key)
}

func (r Route) ParamInt(key string) (int64, bool) {
	return r.Params.Int(key)
}

func (r Route) ParamUint(key string) (uint64, bool) {
	return r.Params.Uint(key)
}

func (r Route) ParamFloat(key string) (float64, bool) {
	return r.Params.Float(key)
}

func (r Route) ParamBool(key string) (bool, bool) {
	return r.Params.Bool(key)
}

// Path formats the route through its pattern. Patterns with wildcards or
// missing params fall back to the base path. Routes without a pattern have
// no path.
func (r Route) Path() (string, bool) {
	if r.Pattern == nil {
		return "", false
	}
	if p, ok := r.Pattern.FormatPath(r.Params); ok {
		return p, true
	}
	return r.Pattern.FormatBasePath(r.Params), true
}

func (r Route) String() string {
	if p, ok := r.Path(); ok {
		return string(r.ID) + "(" + p + BuildQueryString(r.Query) + r.Hash + ")"
	}
	return string(r.ID)
}
