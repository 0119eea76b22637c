package router

// NavigationHistory is a browser-style route stack with a movable cursor.
// A reverse index from route id to ascending stack positions is rebuilt after
// every mutation so PopTo can find the nearest earlier frame without
// scanning.
type NavigationHistory struct {
	stack   []Route
	current int
	index   map[RouteID][]int
}

// NewHistory starts a history at initial.
func NewHistory(initial Route) *NavigationHistory {
	h := &NavigationHistory{stack: []Route{initial.Clone()}}
	h.rebuildIndex()
	return h
}

// NewEmptyHistory returns a history with no entries.
func NewEmptyHistory() *NavigationHistory {
	return &NavigationHistory{index: map[RouteID][]int{}}
}

// HistoryFromParts restores a history. The index is clamped into range.
func HistoryFromParts(stack []Route, currentIndex int) *NavigationHistory {
	if len(stack) == 0 {
		return NewEmptyHistory()
	}
	h := &NavigationHistory{stack: cloneRoutes(stack), current: currentIndex}
	h.rebuildIndex()
	return h
}

// Parts returns copies of the stack and the current index.
func (h *NavigationHistory) Parts() ([]Route, int) {
	return cloneRoutes(h.stack), h.current
}

func cloneRoutes(routes []Route) []Route {
	out := make([]Route, len(routes))
	for i, r := range routes {
		out[i] = r.Clone()
	}
	return out
}

func (h *NavigationHistory) rebuildIndex() {
	h.index = make(map[RouteID][]int, len(h.stack))
	for i, r := range h.stack {
		h.index[r.ID] = append(h.index[r.ID], i)
	}
	switch {
	case len(h.stack) == 0 || h.current < 0:
		h.current = 0
	case h.current > len(h.stack)-1:
		h.current = len(h.stack) - 1
	}
}

// Current returns the route under the cursor.
func (h *NavigationHistory) Current() (Route, bool) {
	if len(h.stack) == 0 {
		return Route{}, false
	}
	return h.stack[h.current].Clone(), true
}

func (h *NavigationHistory) currentRef() *Route {
	if len(h.stack) == 0 {
		return nil
	}
	return &h.stack[h.current]
}

func (h *NavigationHistory) CurrentIndex() int {
	return h.current
}

func (h *NavigationHistory) Depth() int {
	return len(h.stack)
}

func (h *NavigationHistory) IsEmpty() bool {
	return len(h.stack) == 0
}

func (h *NavigationHistory) CanGoBack() bool {
	return h.current > 0
}

func (h *NavigationHistory) CanGoForward() bool {
	return h.current < len(h.stack)-1
}

// Routes returns a copy of the whole stack.
func (h *NavigationHistory) Routes() []Route {
	return cloneRoutes(h.stack)
}

// Contains reports whether id appears anywhere in the stack.
func (h *NavigationHistory) Contains(id RouteID) bool {
	return len(h.index[id]) > 0
}

// Push drops forward entries and appends route as the new current entry.
func (h *NavigationHistory) Push(route Route) {
	if len(h.stack) > 0 {
		h.stack = h.stack[:h.current+1]
	}
	h.stack = append(h.stack, route.Clone())
	h.current = len(h.stack) - 1
	h.rebuildIndex()
}

// Replace overwrites the current entry, or pushes when empty.
func (h *NavigationHistory) Replace(route Route) {
	if len(h.stack) == 0 {
		h.stack = append(h.stack, route.Clone())
		h.current = 0
	} else {
		h.stack[h.current] = route.Clone()
	}
	h.rebuildIndex()
}

func (h *NavigationHistory) Back() bool {
	if !h.CanGoBack() {
		return false
	}
	h.current--
	return true
}

func (h *NavigationHistory) Forward() bool {
	if !h.CanGoForward() {
		return false
	}
	h.current++
	return true
}

// Pop removes the top entry and moves the cursor to the new top. The root
// entry is never popped.
func (h *NavigationHistory) Pop() bool {
	if len(h.stack) <= 1 {
		return false
	}
	h.stack = h.stack[:len(h.stack)-1]
	h.current = len(h.stack) - 1
	h.rebuildIndex()
	return true
}

// popToIndex finds the nearest occurrence of id at or before the cursor.
func (h *NavigationHistory) popToIndex(id RouteID) (int, bool) {
	cur := h.currentRef()
	if cur == nil || cur.ID == id {
		return 0, false
	}
	positions := h.index[id]
	for i := len(positions) - 1; i >= 0; i-- {
		if positions[i] <= h.current {
			return positions[i], true
		}
	}
	return 0, false
}

// PopTo truncates the stack so the nearest earlier occurrence of id becomes
// current. It fails when id is current, absent, or only ahead of the cursor.
func (h *NavigationHistory) PopTo(id RouteID) bool {
	pos, ok := h.popToIndex(id)
	if !ok {
		return false
	}
	h.stack = h.stack[:pos+1]
	h.current = pos
	h.rebuildIndex()
	return true
}

func (h *NavigationHistory) PopToRoot() bool {
	if len(h.stack) <= 1 {
		return false
	}
	h.stack = h.stack[:1]
	h.current = 0
	h.rebuildIndex()
	return true
}

// SetStack replaces the whole history. The last route becomes current.
func (h *NavigationHistory) SetStack(routes []Route) {
	h.stack = cloneRoutes(routes)
	h.current = len(h.stack) - 1
	h.rebuildIndex()
}

// Reset leaves route as the only entry.
func (h *NavigationHistory) Reset(route Route) {
	h.stack = []Route{route.Clone()}
	h.current = 0
	h.rebuildIndex()
}

// Clear drops every entry except the current one.
func (h *NavigationHistory) Clear() {
	if cur := h.currentRef(); cur != nil {
		h.stack = []Route{*cur}
	} else {
		h.stack = nil
	}
	h.current = 0
	h.rebuildIndex()
}

// Equal compares stacks and cursor positions.
func (h *NavigationHistory) Equal(other *NavigationHistory) bool {
	if len(h.stack) != len(other.stack) || h.current != other.current {
		return false
	}
	for i := range h.stack {
		if !h.stack[i].Equal(other.stack[i]) {
			return false
		}
	}
	return true
}

// The Peek methods report the route a mutation would make current without
// applying it.

func (h *NavigationHistory) PeekBack() (Route, bool) {
	if !h.CanGoBack() {
		return Route{}, false
	}
	return h.stack[h.current-1].Clone(), true
}

func (h *NavigationHistory) PeekForward() (Route, bool) {
	if !h.CanGoForward() {
		return Route{}, false
	}
	return h.stack[h.current+1].Clone(), true
}

func (h *NavigationHistory) PeekPop() (Route, bool) {
	if len(h.stack) <= 1 {
		return Route{}, false
	}
	return h.stack[len(h.stack)-2].Clone(), true
}

func (h *NavigationHistory) PeekPopTo(id RouteID) (Route, bool) {
	pos, ok := h.popToIndex(id)
	if !ok {
		return Route{}, false
	}
	return h.stack[pos].Clone(), true
}

func (h *NavigationHistory) PeekPopToRoot() (Route, bool) {
	if len(h.stack) <= 1 {
		return Route{}, false
	}
	return h.stack[0].Clone(), true
}
