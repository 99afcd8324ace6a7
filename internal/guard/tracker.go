// Package guard bounds recursive traversal while writing object graphs.
package guard

// Tracker counts the structured values entered during one top-level write.
// A Tracker belongs to a single call and must not be shared.
type Tracker struct {
	depth       int
	max         int
	truncations int
}

// NewTracker returns a tracker that refuses to go deeper than max levels.
// A non-positive max disables the bound.
func NewTracker(max int) Tracker {
	return Tracker{max: max}
}

// Enter records descent into a structured value. It returns false, without
// changing the depth, when the limit has been reached and the caller must not
// descend.
func (t *Tracker) Enter() bool {
	if t.max > 0 && t.depth >= t.max {
		t.truncations++
		return false
	}
	t.depth++
	return true
}

// Leave undoes a successful Enter.
func (t *Tracker) Leave() {
	if t.depth > 0 {
		t.depth--
	}
}

// Depth is the current nesting level.
func (t *Tracker) Depth() int { return t.depth }

// Max is the configured limit.
func (t *Tracker) Max() int { return t.max }

// Truncations is the number of branches cut so far.
func (t *Tracker) Truncations() int { return t.truncations }
