package survey

// Navigator tracks the active section. The index is 1-based and clamped to
// [1, total]; moving past either end is a no-op.
type Navigator struct {
	current int
	total   int
}

// NewNavigator returns a navigator positioned on the first of total sections.
func NewNavigator(total int) *Navigator {
	if total < 1 {
		total = 1
	}
	return &Navigator{current: 1, total: total}
}

// Current returns the active section index.
func (n *Navigator) Current() int { return n.current }

// Total returns the number of sections.
func (n *Navigator) Total() int { return n.total }

// OnLastSection reports whether the final section is active.
func (n *Navigator) OnLastSection() bool { return n.current == n.total }

// Advance moves to the next section unless already on the last one.
func (n *Navigator) Advance() {
	if n.current < n.total {
		n.current++
	}
}

// Retreat moves to the previous section unless already on the first one.
func (n *Navigator) Retreat() {
	if n.current > 1 {
		n.current--
	}
}

// Reset returns to the first section.
func (n *Navigator) Reset() {
	n.current = 1
}
