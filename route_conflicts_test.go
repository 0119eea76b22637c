package router

import "testing"

func TestDetectPatternConflict_StaticSiblingResolvesByPriority(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		newPath  string
	}{
		{
			name:     "param then static",
			existing: "/admin/content/:name/:id",
			newPath:  "/admin/content/:name/new",
		},
		{
			name:     "static then param",
			existing: "/admin/content/:name/new",
			newPath:  "/admin/content/:name/:id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conflict := detectPatternConflict(MustParsePattern(tt.existing), MustParsePattern(tt.newPath))
			if conflict != nil {
				t.Fatalf("expected static/param siblings to resolve by priority, got %+v", conflict)
			}
		})
	}
}

func TestDetectPatternConflict_DuplicateShape(t *testing.T) {
	conflict := detectPatternConflict(MustParsePattern("/users/:id"), MustParsePattern("/users/:uid"))
	if conflict == nil {
		t.Fatal("expected duplicate pattern conflict")
	}
	if conflict.reason != "duplicate pattern" {
		t.Fatalf("unexpected conflict reason: %q", conflict.reason)
	}
	if conflict.index != -1 {
		t.Fatalf("expected no segment index for duplicates, got %d", conflict.index)
	}
}

func TestDetectPatternConflict_AmbiguousOverlap(t *testing.T) {
	conflict := detectPatternConflict(MustParsePattern("/a/:id"), MustParsePattern("/:section/b"))
	if conflict == nil {
		t.Fatal("expected ambiguous overlap conflict")
	}
	if conflict.reason != "ambiguous overlap with equal priority" {
		t.Fatalf("unexpected conflict reason: %q", conflict.reason)
	}
	if conflict.index != 0 {
		t.Fatalf("expected conflict at segment 0, got %d", conflict.index)
	}
	if conflict.existingSegment != "a" || conflict.newSegment != ":section" {
		t.Fatalf("unexpected segments: %q vs %q", conflict.existingSegment, conflict.newSegment)
	}
}

func TestDetectPatternConflict_CatchAllTail(t *testing.T) {
	if conflict := detectPatternConflict(MustParsePattern("/files/**"), MustParsePattern("/docs/**")); conflict != nil {
		t.Fatalf("expected disjoint catch-alls not to conflict, got %+v", conflict)
	}

	conflict := detectPatternConflict(MustParsePattern("/x/*"), MustParsePattern("/*/y"))
	if conflict == nil {
		t.Fatal("expected single wildcards with equal priority to conflict")
	}
}

func TestDetectPatternConflict_NilPatterns(t *testing.T) {
	if detectPatternConflict(nil, MustParsePattern("/a")) != nil {
		t.Fatal("expected nil existing pattern to be ignored")
	}
}

func TestNewRouteConflictError_Metadata(t *testing.T) {
	existing := MustParsePattern("/a/:id")
	candidate := MustParsePattern("/:section/b")
	conflict := detectPatternConflict(existing, candidate)
	conflict.existing = "a_detail"

	err := newRouteConflictError("section_b", candidate, conflict, ConflictModeStrict)
	if !IsConflictError(err) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if IsParseError(err) {
		t.Fatal("conflict must not be reported as a parse error")
	}
}
