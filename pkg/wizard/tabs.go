package wizard

import "pitchtank/pkg/form"

// ComputeInitialCeiling derives the highest tab a returning user may
// open from which groups already hold data. A group counts as satisfied
// when any of its mapped fields is non-empty; this deliberately does not
// re-check per-field requiredness, so a partially filled group still
// unlocks the next tab.
func ComputeInitialCeiling(r *form.Record) form.Tab {
	ceiling := form.TabBasics
	for t := form.TabBasics; t <= form.TabReview; t++ {
		if !tabSatisfied(r, t) {
			continue
		}
		if next := t + 1; next > ceiling {
			ceiling = next
		}
	}
	if ceiling > form.TabReview {
		ceiling = form.TabReview
	}
	return ceiling
}

func tabSatisfied(r *form.Record, t form.Tab) bool {
	for _, f := range form.Required(t) {
		if !f.Empty(r) {
			return true
		}
	}
	return false
}

// Advance raises the ceiling to next. The ceiling never decreases
// within a session.
func Advance(ceiling, next form.Tab) form.Tab {
	if next > ceiling {
		return next
	}
	return ceiling
}

// CanOpen reports whether the user may navigate to tab t.
func CanOpen(t, ceiling form.Tab) bool {
	return t.Valid() && t <= ceiling
}
