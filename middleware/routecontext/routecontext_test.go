package routecontext_test

import (
	"testing"

	router "github.com/goliatone/go-navrouter"
	"github.com/goliatone/go-navrouter/middleware/routecontext"
)

func newRouter(t *testing.T) *router.Router {
	t.Helper()
	r := router.MustNew(router.WithDefaultRoute("home"))
	r.MustRegister("home", "/").MustRegister("item", "/items/:id")
	return r
}

func TestTracker_ExportAsMap_Default(t *testing.T) {
	r := newRouter(t)
	tracker := routecontext.New().Attach(r)

	r.Start()
	r.NavigateToPath("/items/123?query=value")

	templateContext := tracker.Get("template_context")
	if templateContext == nil {
		t.Fatal("Expected template_context to be set")
	}

	data, ok := templateContext.(map[string]any)
	if !ok {
		t.Fatalf("Expected template_context to be a map, got %T", templateContext)
	}

	if data["current_route_name"] != "item" {
		t.Errorf("Want current_route_name item, got %v", data["current_route_name"])
	}

	params, ok := data["current_params"].(map[string]string)
	if !ok || params["id"] != "123" {
		t.Errorf("Expected current_params with id, got %v", data["current_params"])
	}

	query, ok := data["current_query"].(map[string]string)
	if !ok || query["query"] != "value" {
		t.Errorf("Expected current_query with query, got %v", data["current_query"])
	}

	if data["current_path"] != "/items/123" {
		t.Errorf("Want current_path /items/123, got %v", data["current_path"])
	}
}

func TestTracker_ExportFlat(t *testing.T) {
	r := newRouter(t)
	tracker := routecontext.New(routecontext.Config{
		CurrentRouteNameKey: "route",
		ExportAsMap:         false,
	})
	r.OnRouteChange(tracker.Observe)

	r.Start()

	locals := tracker.Locals()
	if locals["route"] != "home" {
		t.Errorf("Want route home, got %v", locals["route"])
	}
	if _, ok := locals["template_context"]; ok {
		t.Error("Did not expect template_context in flat mode")
	}
	if locals["current_path"] != "/" {
		t.Errorf("Want current_path /, got %v", locals["current_path"])
	}
}

func TestTracker_Skip(t *testing.T) {
	r := newRouter(t)
	tracker := routecontext.New(routecontext.Config{
		Skip: func(change router.RouteChange) bool {
			return change.To.ID == "item"
		},
		ExportAsMap: true,
	}).Attach(r)

	r.Start()
	r.Navigate("item")

	data, _ := tracker.Get("template_context").(map[string]any)
	if data["current_route_name"] != "home" {
		t.Errorf("Expected skipped change to leave home in place, got %v", data["current_route_name"])
	}
}
