package router

// Validate checks every registered pattern pair for ambiguous or duplicate
// matches. It reports problems that ConflictModePriority lets through.
func (r *RouteRegistry) Validate() []error {
	return validateEntries(r.byPattern)
}

// validateEntries checks entries in registration priority order. An entry
// conflicts with any earlier entry of equal priority that can match the same
// path.
func validateEntries(entries []registryEntry) []error {
	var errs []error

	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			left := entries[i]
			right := entries[j]
			if left.id == right.id {
				continue
			}

			if conflict := detectPatternConflict(left.pattern, right.pattern); conflict != nil {
				conflict.existing = left.id
				errs = append(errs, newRouteConflictError(right.id, right.pattern, conflict, ConflictModeStrict))
			}
		}
	}

	return errs
}
