// Package wizard implements the Pitch Tank application wizard: the
// tab-gating model, the client-local draft store and the controller
// state machine that drives per-tab validation, partial saves and the
// pitch-deck skip-ahead branch.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"pitchtank/pkg/api"
	"pitchtank/pkg/form"
)

// State is the controller's lifecycle phase.
type State int

const (
	StateLoading State = iota
	StateEditing
	StateSubmitting
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	case StateComplete:
		return "complete"
	}
	return "?"
}

// SubmissionAPI is the slice of the platform API the wizard depends on.
// Fetch reports a first visit with api.ErrNotFound; Create reports an
// existing record with api.ErrConflict.
type SubmissionAPI interface {
	FetchSubmission(ctx context.Context, userID uint) (map[string]any, error)
	CreateSubmission(ctx context.Context, payload map[string]any) error
	UpdateSubmission(ctx context.Context, userID uint, payload map[string]any) error
}

// Controller is the wizard state machine. All exported methods are safe
// for concurrent use; saves are serialized so that at most one request
// is in flight at a time.
type Controller struct {
	mu sync.Mutex

	state   State
	active  form.Tab
	ceiling form.Tab
	rec     *form.Record

	saving   bool
	exists   bool // a server-side row is known to exist; use update from now on
	lastTick int64

	userID uint
	api    SubmissionAPI
	drafts DraftStore
}

func NewController(a SubmissionAPI, drafts DraftStore, userID uint) *Controller {
	return &Controller{
		state:   StateLoading,
		active:  form.TabBasics,
		ceiling: form.TabBasics,
		rec:     &form.Record{},
		userID:  userID,
		api:     a,
		drafts:  drafts,
	}
}

// Load fetches any existing submission and enters Editing. A missing
// record, or any fetch failure, is treated as an empty submission; the
// draft reference pre-seeds the deck URL either way.
func (c *Controller) Load(ctx context.Context) {
	draft, _ := c.drafts.Load()

	var rec *form.Record
	wire, err := c.api.FetchSubmission(ctx, c.userID)
	switch {
	case err == nil:
		rec = form.ToFormShape(wire)
	case errors.Is(err, api.ErrNotFound):
		rec = &form.Record{}
	default:
		log.Printf("wizard: submission fetch failed, starting empty: %v", err)
		rec = &form.Record{}
	}

	if rec.PitchDeckURL == "" && draft.DocumentURL != "" && rec.HasPitchDeck != "no" {
		rec.PitchDeckURL = draft.DocumentURL
		if rec.HasPitchDeck == "" {
			rec.HasPitchDeck = "yes"
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.rec = rec
	c.exists = err == nil
	c.lastTick = draft.UploadTick
	c.ceiling = ComputeInitialCeiling(rec)
	c.active = form.TabBasics
	c.state = StateEditing
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) ActiveTab() form.Tab {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

func (c *Controller) Ceiling() form.Tab {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ceiling
}

// Record returns the in-memory form record. The caller edits it in
// place between actions; the record is the source of truth until a
// save succeeds.
func (c *Controller) Record() *form.Record { return c.rec }

// OpenTab navigates to an already unlocked tab. Attempts past the
// ceiling return a TabLockedError and leave the active tab unchanged.
func (c *Controller) OpenTab(t form.Tab) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateEditing {
		return ErrNotEditing
	}
	if !CanOpen(t, c.ceiling) {
		return &TabLockedError{Tab: t, Ceiling: c.ceiling}
	}
	c.active = t
	return nil
}

// Previous steps back one tab without validation or persistence. From
// the review tab with a declared pitch deck it mirrors the skip-ahead
// jump and returns to the first tab.
func (c *Controller) Previous() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateEditing {
		return
	}
	if c.active == form.TabReview && c.rec.HasPitchDeck == "yes" {
		c.active = form.TabBasics
		return
	}
	if c.active > form.TabBasics {
		c.active--
	}
}

// Next validates the active tab, saves its payload and advances. With
// has_pitch_deck == "yes" the active tab jumps straight to review, but
// the ceiling is still raised only one step past the saved tab.
func (c *Controller) Next(ctx context.Context) error {
	c.mu.Lock()
	if c.saving {
		c.mu.Unlock()
		return ErrSaveInFlight
	}
	if c.state != StateEditing {
		c.mu.Unlock()
		return ErrNotEditing
	}
	t := c.active
	if t >= form.TabReview {
		c.mu.Unlock()
		return c.Submit(ctx)
	}
	if errs := c.validateTab(t); len(errs) > 0 {
		c.mu.Unlock()
		return &ValidationError{Fields: errs}
	}
	// Declaring "no deck" drops any previously uploaded URL, both from
	// the record (so the save persists the opt-out) and from the draft
	// reference (so the next Load does not re-seed it).
	noDeck := t == form.TabBasics && c.rec.HasPitchDeck == "no"
	if noDeck {
		c.rec.PitchDeckURL = ""
	}
	payload := form.ToWireShape(c.rec, t)
	c.saving = true
	c.state = StateSubmitting
	c.mu.Unlock()

	err := c.save(ctx, payload)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.saving = false
	c.state = StateEditing
	if err != nil {
		// The in-memory record is not rolled back: failure means the
		// data was never saved, not that it was saved wrong.
		return fmt.Errorf("save failed: %w", err)
	}
	if noDeck {
		if cerr := ClearUpload(c.drafts); cerr != nil {
			log.Printf("wizard: draft clear after no-deck declaration failed: %v", cerr)
		}
	}
	c.ceiling = Advance(c.ceiling, t+1)
	if c.rec.HasPitchDeck == "yes" {
		c.active = form.TabReview
	} else {
		c.active = t + 1
	}
	return nil
}

// Submit validates the entire form, saves the full record and, on
// success, moves the wizard to Complete.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.saving {
		c.mu.Unlock()
		return ErrSaveInFlight
	}
	if c.state != StateEditing {
		c.mu.Unlock()
		return ErrNotEditing
	}
	errs := map[string]string{}
	for t := form.TabBasics; t <= form.TabReview; t++ {
		for k, v := range c.validateTab(t) {
			errs[k] = v
		}
	}
	if len(errs) > 0 {
		c.mu.Unlock()
		return &ValidationError{Fields: errs}
	}
	payload := form.FullWireShape(c.rec)
	c.saving = true
	c.state = StateSubmitting
	c.mu.Unlock()

	err := c.save(ctx, payload)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.saving = false
	if err != nil {
		c.state = StateEditing
		return fmt.Errorf("submit failed: %w", err)
	}
	c.state = StateComplete
	return nil
}

// NoteUpload handles the fresh-upload signal. When the tick moved, the
// deck URL is re-read from the draft, and with a declared pitch deck
// the wizard force-navigates to review without touching the ceiling.
// It reports whether the active tab changed.
func (c *Controller) NoteUpload(tick int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if tick == c.lastTick {
		return false
	}
	c.lastTick = tick
	if d, err := c.drafts.Load(); err == nil && d.DocumentURL != "" {
		c.rec.PitchDeckURL = d.DocumentURL
	}
	if c.state != StateEditing {
		return false
	}
	if c.rec.HasPitchDeck == "yes" && c.active != form.TabReview {
		c.active = form.TabReview
		return true
	}
	return false
}

// validateTab checks the tab's required fields plus the tab-one
// cross-field rule: a declared pitch deck needs an uploaded document
// (in the form record or in the draft). Caller holds the lock.
func (c *Controller) validateTab(t form.Tab) map[string]string {
	errs := map[string]string{}
	for _, f := range form.Required(t) {
		if f.Empty(c.rec) {
			errs[f.WireKey()] = f.Label() + " is required"
		}
	}
	if t == form.TabBasics && c.rec.HasPitchDeck == "yes" && c.rec.PitchDeckURL == "" {
		d, _ := c.drafts.Load()
		if d.DocumentURL == "" {
			errs[form.FieldPitchDeckURL.WireKey()] = "upload your pitch deck, or answer \"no\" for now"
		}
	}
	return errs
}

// save applies the upsert policy: create first, retry once as an
// update on conflict, and stick to updates for the rest of the session
// once a row is known to exist.
func (c *Controller) save(ctx context.Context, payload map[string]any) error {
	c.mu.Lock()
	exists := c.exists
	c.mu.Unlock()

	if !exists {
		err := c.api.CreateSubmission(ctx, payload)
		if err == nil {
			c.markExists()
			return nil
		}
		if errors.Is(err, api.ErrConflict) {
			if err := c.api.UpdateSubmission(ctx, c.userID, payload); err != nil {
				return err
			}
			c.markExists()
			return nil
		}
		return err
	}
	return c.api.UpdateSubmission(ctx, c.userID, payload)
}

func (c *Controller) markExists() {
	c.mu.Lock()
	c.exists = true
	c.mu.Unlock()
}
