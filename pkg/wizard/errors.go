package wizard

import (
	"errors"
	"fmt"

	"pitchtank/pkg/form"
)

// ErrSaveInFlight is returned when Next or Submit is invoked while a
// previous save has not finished; the duplicate action is a no-op.
var ErrSaveInFlight = errors.New("a save is already in progress")

// ErrNotEditing is returned when a navigation or save action arrives
// outside the Editing state.
var ErrNotEditing = errors.New("wizard is not in an editable state")

// TabLockedError reports a navigation attempt past the ceiling.
type TabLockedError struct {
	Tab     form.Tab
	Ceiling form.Tab
}

func (e *TabLockedError) Error() string {
	return fmt.Sprintf("tab %d is locked; complete step %d first", e.Tab, e.Ceiling)
}

// ValidationError carries per-field messages keyed by wire field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%d field(s) need attention", len(e.Fields))
}
