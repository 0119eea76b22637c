package router

// ConflictMode controls how the registry treats patterns that can match the
// same path with the same priority.
type ConflictMode string

const (
	// ConflictModePriority accepts overlapping patterns and resolves them by
	// priority, then registration order.
	ConflictModePriority ConflictMode = "priority"
	// ConflictModeStrict rejects a pattern whose matches are ambiguous with an
	// already registered one.
	ConflictModeStrict ConflictMode = "strict"
)

func (m ConflictMode) normalize() ConflictMode {
	switch m {
	case ConflictModeStrict:
		return ConflictModeStrict
	default:
		return ConflictModePriority
	}
}

func (m ConflictMode) String() string {
	return string(m.normalize())
}
