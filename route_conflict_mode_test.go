package router_test

import (
	"testing"

	router "github.com/goliatone/go-navrouter"
)

func TestRouterConflictMode_PriorityAcceptsOverlap(t *testing.T) {
	r := router.MustNew()

	if err := r.Register("a_detail", "/a/:id"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := r.Register("section_b", "/:section/b"); err != nil {
		t.Fatalf("expected priority mode to accept overlap, got %v", err)
	}

	route, ok := r.ResolvePath("/a/b")
	if !ok {
		t.Fatal("expected /a/b to resolve")
	}
	if route.ID != "a_detail" {
		t.Fatalf("expected first registration to win on equal priority, got %s", route.ID)
	}

	if errs := r.Registry().Validate(); len(errs) != 1 {
		t.Fatalf("expected one validation error, got %d", len(errs))
	}
}

func TestRouterConflictMode_StrictRejectsOverlap(t *testing.T) {
	r := router.MustNew(router.WithRouteConflictMode(router.ConflictModeStrict))

	if err := r.Register("a_detail", "/a/:id"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	err := r.Register("section_b", "/:section/b")
	if err == nil {
		t.Fatal("expected strict mode to reject overlap")
	}
	if !router.IsConflictError(err) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if r.HasRoute("section_b") {
		t.Fatal("rejected route must not be registered")
	}
}

func TestRouterConflictMode_StrictAllowsStaticSibling(t *testing.T) {
	r := router.MustNew(router.WithRouteConflictMode(router.ConflictModeStrict))

	r.MustRegister("bulk_action", "/users/bulk/:action")
	r.MustRegister("bulk_assign", "/users/bulk/assign-role")

	route, ok := r.ResolvePath("/users/bulk/assign-role")
	if !ok || route.ID != "bulk_assign" {
		t.Fatalf("expected static route to win, got %v", route.ID)
	}

	route, ok = r.ResolvePath("/users/bulk/suspend")
	if !ok || route.ID != "bulk_action" {
		t.Fatalf("expected param route for non-static value, got %v", route.ID)
	}
	if action, _ := route.Param("action"); action != "suspend" {
		t.Fatalf("expected action param, got %q", action)
	}
}

func TestRouterConflictMode_UnknownModeFallsBackToPriority(t *testing.T) {
	r := router.MustNew(router.WithRouteConflictMode(router.ConflictMode("bogus")))
	if got := r.Config().ConflictMode; got != router.ConflictModePriority {
		t.Fatalf("expected priority mode, got %s", got)
	}
}
