package router

import (
	"sort"
	"strconv"
)

// paramsListLimit is the size at which RouteParams switches from a linear
// list to a map.
const paramsListLimit = 4

type paramEntry struct {
	key   string
	value string
}

// RouteParams holds dynamic segment captures. Small sets live in a slice,
// larger ones are promoted to a map. The zero value is empty and ready to use.
type RouteParams struct {
	list []paramEntry
	m    map[string]string
}

// NewRouteParams builds params from key/value pairs.
func NewRouteParams(kv map[string]string) RouteParams {
	var p RouteParams
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		p.Set(k, kv[k])
	}
	return p
}

// Set inserts or overwrites a value.
func (p *RouteParams) Set(key, value string) {
	if p.m != nil {
		p.m[key] = value
		return
	}
	for i := range p.list {
		if p.list[i].key == key {
			p.list[i].value = value
			return
		}
	}
	if len(p.list) < paramsListLimit {
		p.list = append(p.list, paramEntry{key: key, value: value})
		return
	}
	p.m = make(map[string]string, len(p.list)+1)
	for _, e := range p.list {
		p.m[e.key] = e.value
	}
	p.m[key] = value
	p.list = nil
}

func (p RouteParams) Get(key string) (string, bool) {
	if p.m != nil {
		v, ok := p.m[key]
		return v, ok
	}
	for _, e := range p.list {
		if e.key == key {
			return e.value, true
		}
	}
	return "", false
}

func (p RouteParams) Len() int {
	if p.m != nil {
		return len(p.m)
	}
	return len(p.list)
}

func (p RouteParams) IsEmpty() bool {
	return p.Len() == 0
}

// Each visits every entry. Iteration order is unspecified once promoted.
func (p RouteParams) Each(fn func(key, value string)) {
	if p.m != nil {
		for k, v := range p.m {
			fn(k, v)
		}
		return
	}
	for _, e := range p.list {
		fn(e.key, e.value)
	}
}

// Map returns a copy of the params as a plain map.
func (p RouteParams) Map() map[string]string {
	out := make(map[string]string, p.Len())
	p.Each(func(k, v string) {
		out[k] = v
	})
	return out
}

// Equal compares contents regardless of insertion order or storage mode.
func (p RouteParams) Equal(other RouteParams) bool {
	if p.Len() != other.Len() {
		return false
	}
	equal := true
	p.Each(func(k, v string) {
		if !equal {
			return
		}
		ov, ok := other.Get(k)
		if !ok || ov != v {
			equal = false
		}
	})
	return equal
}

func (p RouteParams) Clone() RouteParams {
	var out RouteParams
	if p.m != nil {
		out.m = make(map[string]string, len(p.m))
		for k, v := range p.m {
			out.m[k] = v
		}
		return out
	}
	if len(p.list) > 0 {
		out.list = make([]paramEntry, len(p.list))
		copy(out.list, p.list)
	}
	return out
}

func (p RouteParams) Int(key string) (int64, bool) {
	v, ok := p.Get(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	return n, err == nil
}

func (p RouteParams) Uint(key string) (uint64, bool) {
	v, ok := p.Get(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseUint(v, 10, 64)
	return n, err == nil
}

func (p RouteParams) Float(key string) (float64, bool) {
	v, ok := p.Get(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseFloat(v, 64)
	return n, err == nil
}

// Bool accepts the forms understood by strconv.ParseBool.
func (p RouteParams) Bool(key string) (bool, bool) {
	v, ok := p.Get(key)
	if !ok {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	return b, err == nil
}
