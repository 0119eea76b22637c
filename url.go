package router

import (
	"net/url"
	"sort"
	"strings"
)

// URL is a navigation target split into path, query and hash. Query keeps its
// leading "?" and Hash its leading "#" when present.
type URL struct {
	Path  string
	Query string
	Hash  string
}

// ParseURL accepts a bare path or a full URL ("https://host/a?b=1#c") and
// splits it. Only scheme/host stripping is performed, not full URL parsing.
func ParseURL(input string) URL {
	s := strings.TrimSpace(input)
	if s == "" {
		return URL{Path: "/"}
	}

	if _, afterScheme, ok := strings.Cut(s, "://"); ok {
		if _, rest, ok := strings.Cut(afterScheme, "/"); ok {
			s = "/" + rest
		} else {
			s = "/"
		}
	}

	var u URL
	if before, hash, ok := strings.Cut(s, "#"); ok {
		s = before
		u.Hash = "#" + hash
	}
	if before, query, ok := strings.Cut(s, "?"); ok {
		s = before
		u.Query = "?" + query
	}

	u.Path = strings.TrimSpace(s)
	if u.Path == "" {
		u.Path = "/"
	} else if !strings.HasPrefix(u.Path, "/") {
		u.Path = "/" + u.Path
	}
	return u
}

func (u URL) String() string {
	return u.Path + u.Query + u.Hash
}

// QueryMap decodes the query part.
func (u URL) QueryMap() Query {
	return ParseQuery(u.Query)
}

// NormalizePath reduces input to a clean path: scheme/host, query and hash
// are dropped, trailing slashes removed and the result always starts with "/".
func NormalizePath(input string) string {
	p := ParseURL(input).Path
	for len(p) > 1 && strings.HasSuffix(p, "/") {
		p = p[:len(p)-1]
	}
	return p
}

// ParseQuery decodes "?a=1&b=two+words". Keys without "=" map to "". Later
// duplicates win and empty keys are skipped.
func ParseQuery(query string) Query {
	q := strings.TrimPrefix(strings.TrimSpace(query), "?")
	if q == "" {
		return nil
	}
	out := make(Query)
	for _, pair := range strings.Split(q, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		key := decodeFormComponent(k)
		if key == "" {
			continue
		}
		out[key] = decodeFormComponent(v)
	}
	return out
}

func decodeFormComponent(s string) string {
	if out, err := url.QueryUnescape(s); err == nil {
		return out
	}
	return s
}

// BuildQueryString encodes q with sorted keys. Empty values are written as
// bare keys. An empty map yields "".
func BuildQueryString(q Query) string {
	if len(q) == 0 {
		return ""
	}
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteByte('?')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		if v := q[k]; v != "" {
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}

// joinPaths appends a child path to a parent path without doubling slashes.
func joinPaths(parent, child string) string {
	child = strings.TrimPrefix(child, "/")
	if child == "" {
		if parent == "" {
			return "/"
		}
		return parent
	}
	parent = strings.TrimSuffix(parent, "/")
	return parent + "/" + child
}
