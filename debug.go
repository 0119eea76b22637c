package router

import (
	"reflect"
	"runtime"
	"strings"
)

// Named lets a guard or hook report its own name in logs and metrics.
type Named interface {
	Name() string
}

// callbackName returns a friendly name for a guard or hook. Func adapters
// are named after the wrapped function; anonymous functions are reported as
// "anonymous".
func callbackName(cb any) string {
	if n, ok := cb.(Named); ok {
		return n.Name()
	}

	v := reflect.ValueOf(cb)
	if v.Kind() != reflect.Func {
		t := reflect.TypeOf(cb)
		if t == nil {
			return "unknown"
		}
		if t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		return t.Name()
	}

	fn := runtime.FuncForPC(v.Pointer())
	if fn == nil {
		return "unknown"
	}

	fullName := fn.Name()

	// trim package path to keep only the name.
	if idx := strings.LastIndex(fullName, "."); idx != -1 {
		fullName = fullName[idx+1:]
	}

	if strings.HasPrefix(fullName, "func") {
		return "anonymous"
	}

	return fullName
}

// describeRoute renders an optional route for log fields.
func describeRoute(r *Route) string {
	if r == nil {
		return "<none>"
	}
	return r.String()
}
