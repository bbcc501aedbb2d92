// Package tui is the terminal front end of the application wizard. It
// renders one tab at a time, keeps locked tabs visibly dimmed, and
// drives the wizard controller from key presses; all persistence and
// gating rules live in pkg/wizard.
package tui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pitchtank/pkg/api"
	"pitchtank/pkg/form"
	"pitchtank/pkg/wizard"
)

type loadDoneMsg struct{}

type saveDoneMsg struct{ err error }

type uploadDoneMsg struct {
	url string
	err error
}

type deckTickMsg struct{ tick int64 }

// Run loads the wizard and hands the terminal to it until the user
// quits or completes the application. draftPath may be empty when no
// draft file is in use; with a path, external deck uploads are picked
// up live through the draft watcher.
func Run(client *api.Client, ctrl *wizard.Controller, drafts wizard.DraftStore, draftPath string) error {
	m := newModel(client, ctrl, drafts)
	if draftPath != "" {
		ticks := make(chan int64, 4)
		stop, err := wizard.WatchTicks(draftPath, func(t int64) {
			select {
			case ticks <- t:
			default:
			}
		})
		if err == nil {
			m.ticks = ticks
			defer stop()
		}
	}
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// fieldInput pairs a form field with its editor. List fields use a
// textarea (one entry per line); everything else a single-line input.
type fieldInput struct {
	field form.Field
	multi bool
	line  textinput.Model
	area  textarea.Model
}

func newFieldInput(f form.Field, value string) fieldInput {
	if isListField(f) {
		ta := textarea.New()
		ta.SetHeight(4)
		ta.SetWidth(64)
		ta.CharLimit = 0
		ta.SetValue(value)
		return fieldInput{field: f, multi: true, area: ta}
	}
	ti := textinput.New()
	ti.Width = 64
	ti.CharLimit = 0
	ti.SetValue(value)
	if f == form.FieldHasPitchDeck || f == form.FieldConfirmAccuracy {
		ti.Placeholder = "yes / no"
	}
	return fieldInput{field: f, line: ti}
}

func (fi *fieldInput) value() string {
	if fi.multi {
		return fi.area.Value()
	}
	return fi.line.Value()
}

func (fi *fieldInput) focus() tea.Cmd {
	if fi.multi {
		return fi.area.Focus()
	}
	return fi.line.Focus()
}

func (fi *fieldInput) blur() {
	if fi.multi {
		fi.area.Blur()
		return
	}
	fi.line.Blur()
}

func (fi *fieldInput) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if fi.multi {
		fi.area, cmd = fi.area.Update(msg)
	} else {
		fi.line, cmd = fi.line.Update(msg)
	}
	return cmd
}

func (fi *fieldInput) view() string {
	if fi.multi {
		return fi.area.View()
	}
	return fi.line.View()
}

type model struct {
	client *api.Client
	ctrl   *wizard.Controller
	drafts wizard.DraftStore

	ticks chan int64

	tab    form.Tab
	inputs []fieldInput
	focus  int

	// deck upload prompt, opened with ctrl+d
	prompting  bool
	pathPrompt textinput.Model

	busy      bool
	status    string
	errLine   string
	fieldErrs map[string]string

	width  int
	height int
}

func newModel(client *api.Client, ctrl *wizard.Controller, drafts wizard.DraftStore) *model {
	pp := textinput.New()
	pp.Width = 64
	pp.Placeholder = "path to pitch deck (pdf, pptx, png...)"
	return &model{client: client, ctrl: ctrl, drafts: drafts, pathPrompt: pp}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.waitTick())
}

func (m *model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		m.ctrl.Load(context.Background())
		return loadDoneMsg{}
	}
}

func (m *model) advanceCmd() tea.Cmd {
	return func() tea.Msg {
		return saveDoneMsg{err: m.ctrl.Next(context.Background())}
	}
}

func (m *model) uploadCmd(path string) tea.Cmd {
	return func() tea.Msg {
		url, err := m.client.UploadDocument(context.Background(), path)
		if err != nil {
			return uploadDoneMsg{err: err}
		}
		if _, err := wizard.RecordUpload(m.drafts, url); err != nil {
			return uploadDoneMsg{url: url, err: err}
		}
		return uploadDoneMsg{url: url}
	}
}

func (m *model) waitTick() tea.Cmd {
	if m.ticks == nil {
		return nil
	}
	return func() tea.Msg {
		t, ok := <-m.ticks
		if !ok {
			return nil
		}
		return deckTickMsg{tick: t}
	}
}

// rebuildInputs throws away the editors and recreates them from the
// controller's active tab and record. Called after anything that can
// change the active tab or the record behind our back.
func (m *model) rebuildInputs() tea.Cmd {
	m.tab = m.ctrl.ActiveTab()
	rec := m.ctrl.Record()
	m.inputs = m.inputs[:0]
	for _, f := range form.TabFields(m.tab) {
		if f == form.FieldPitchDeckURL {
			// filled by the upload flow, not typed in
			continue
		}
		m.inputs = append(m.inputs, newFieldInput(f, fieldText(rec, f)))
	}
	m.focus = 0
	if len(m.inputs) > 0 {
		return m.inputs[0].focus()
	}
	return nil
}

// commitInputs writes every editor's text back into the record.
func (m *model) commitInputs() {
	rec := m.ctrl.Record()
	for i := range m.inputs {
		applyFieldText(rec, m.inputs[i].field, m.inputs[i].value())
	}
}

func (m *model) moveFocus(delta int) tea.Cmd {
	if len(m.inputs) == 0 {
		return nil
	}
	m.inputs[m.focus].blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	return m.inputs[m.focus].focus()
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case loadDoneMsg:
		return m, m.rebuildInputs()

	case saveDoneMsg:
		m.busy = false
		if msg.err != nil {
			var verr *wizard.ValidationError
			switch {
			case errors.As(msg.err, &verr):
				m.fieldErrs = verr.Fields
				m.errLine = "please fill in the highlighted fields"
			case errors.Is(msg.err, wizard.ErrSaveInFlight):
				m.errLine = "still saving, hold on"
			default:
				m.errLine = "save failed: " + msg.err.Error()
			}
			return m, nil
		}
		m.fieldErrs = nil
		m.errLine = ""
		m.status = "saved"
		if m.ctrl.State() == wizard.StateComplete {
			return m, nil
		}
		return m, m.rebuildInputs()

	case uploadDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.errLine = "upload failed: " + msg.err.Error()
			return m, nil
		}
		m.errLine = ""
		m.status = "pitch deck uploaded"
		if d, err := m.drafts.Load(); err == nil {
			m.ctrl.NoteUpload(d.UploadTick)
		}
		return m, m.rebuildInputs()

	case deckTickMsg:
		// An upload finished somewhere else (another terminal, the web
		// dashboard). Refresh and let the controller decide whether to
		// jump to review.
		if m.ctrl.NoteUpload(msg.tick) || m.tab == form.TabBasics {
			return m, tea.Batch(m.rebuildInputs(), m.waitTick())
		}
		return m, m.waitTick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.ctrl.State() == wizard.StateComplete {
		if msg.Type == tea.KeyEnter || msg.String() == "q" {
			return m, tea.Quit
		}
		return m, nil
	}

	if m.prompting {
		switch msg.Type {
		case tea.KeyEsc:
			m.prompting = false
			m.pathPrompt.Blur()
			return m, nil
		case tea.KeyEnter:
			path := strings.TrimSpace(m.pathPrompt.Value())
			m.prompting = false
			m.pathPrompt.Blur()
			if path == "" {
				return m, nil
			}
			m.busy = true
			m.status = "uploading..."
			return m, m.uploadCmd(path)
		}
		var cmd tea.Cmd
		m.pathPrompt, cmd = m.pathPrompt.Update(msg)
		return m, cmd
	}

	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		if !m.multilineCapturing(msg) {
			return m, m.moveFocus(1)
		}
	case tea.KeyShiftTab, tea.KeyUp:
		if !m.multilineCapturing(msg) {
			return m, m.moveFocus(-1)
		}
	case tea.KeyCtrlS:
		if m.busy {
			return m, nil
		}
		m.commitInputs()
		m.busy = true
		m.status = ""
		return m, m.advanceCmd()
	case tea.KeyCtrlB:
		if m.busy {
			return m, nil
		}
		m.commitInputs()
		m.ctrl.Previous()
		return m, m.rebuildInputs()
	case tea.KeyCtrlD:
		if m.busy {
			return m, nil
		}
		m.prompting = true
		m.pathPrompt.SetValue("")
		return m, m.pathPrompt.Focus()
	case tea.KeyEnter:
		// enter advances the focus on single-line fields; textareas
		// keep it for newlines
		if len(m.inputs) > 0 && !m.inputs[m.focus].multi {
			return m, m.moveFocus(1)
		}
	}

	if len(m.inputs) == 0 {
		return m, nil
	}
	return m, m.inputs[m.focus].update(msg)
}

// multilineCapturing reports whether the focused editor is a textarea
// that should see cursor keys itself instead of yielding focus.
func (m *model) multilineCapturing(msg tea.KeyMsg) bool {
	if len(m.inputs) == 0 || !m.inputs[m.focus].multi {
		return false
	}
	return msg.Type == tea.KeyUp || msg.Type == tea.KeyDown
}

func (m *model) View() string {
	if m.ctrl.State() == wizard.StateLoading {
		return "\n  loading your application...\n"
	}
	if m.ctrl.State() == wizard.StateComplete {
		box := styleComplete.Render("Application submitted!\n\nThe Pitch Tank team will be in touch.")
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}

	var b strings.Builder
	b.WriteString(m.tabBar())
	b.WriteString("\n\n")
	b.WriteString(styleTitle.Render(fmt.Sprintf("Step %d of %d: %s", int(m.tab), form.TabCount, m.tab.Title())))
	b.WriteString("\n")

	if m.tab == form.TabReview {
		b.WriteString(m.checklist())
		b.WriteString("\n")
	}

	rec := m.ctrl.Record()
	for i := range m.inputs {
		fi := &m.inputs[i]
		label := fi.field.Label()
		if i == m.focus {
			b.WriteString(styleLabelFocused.Render("> " + label))
		} else {
			b.WriteString(styleLabel.Render("  " + label))
		}
		if msg, ok := m.fieldErrs[fi.field.WireKey()]; ok {
			b.WriteString("  " + styleFieldErr.Render(msg))
		}
		b.WriteString("\n")
		b.WriteString(fi.view())
		b.WriteString("\n")
	}

	// Messages keyed to fields without an editor (the deck rule reports
	// under pitch_deck_url, which is filled by uploading, not typing)
	// still have to reach the user.
	if extra := m.orphanFieldErrs(); len(extra) > 0 {
		for _, msg := range extra {
			b.WriteString(styleFieldErr.Render("  ! "+msg) + "\n")
		}
	}

	if m.tab == form.TabBasics && rec.PitchDeckURL != "" {
		b.WriteString(styleLabel.Render("  Pitch deck on file: ") + rec.PitchDeckURL + "\n")
	}

	if m.prompting {
		b.WriteString("\n" + styleLabelFocused.Render("Upload pitch deck") + "\n")
		b.WriteString(m.pathPrompt.View() + "\n")
	}

	switch {
	case m.errLine != "":
		b.WriteString(styleErrLine.Render(m.errLine) + "\n")
	case m.busy:
		b.WriteString(styleOKLine.Render("saving...") + "\n")
	case m.status != "":
		b.WriteString(styleOKLine.Render(m.status) + "\n")
	}

	help := "tab: next field • ctrl+s: save & continue • ctrl+b: back • ctrl+d: upload deck • ctrl+c: quit"
	if m.tab == form.TabReview {
		help = "ctrl+s: submit • ctrl+b: back • ctrl+d: upload deck • ctrl+c: quit"
	}
	b.WriteString(styleHelp.Render(help))
	return b.String()
}

// orphanFieldErrs returns validation messages whose field has no
// editor on the active tab, sorted for stable rendering.
func (m *model) orphanFieldErrs() []string {
	if len(m.fieldErrs) == 0 {
		return nil
	}
	shown := make(map[string]bool, len(m.inputs))
	for i := range m.inputs {
		shown[m.inputs[i].field.WireKey()] = true
	}
	keys := make([]string, 0, len(m.fieldErrs))
	for k := range m.fieldErrs {
		if !shown[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, m.fieldErrs[k])
	}
	return out
}

func (m *model) tabBar() string {
	ceiling := m.ctrl.Ceiling()
	parts := make([]string, 0, form.TabCount)
	for t := form.TabBasics; t <= form.TabReview; t++ {
		label := fmt.Sprintf("%d", int(t))
		switch {
		case t == m.tab:
			parts = append(parts, styleTabActive.Render(label+" "+t.Title()))
		case t <= ceiling:
			parts = append(parts, styleTabOpen.Render(label))
		default:
			parts = append(parts, styleTabLocked.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// checklist summarizes, per step, whether its required fields are in.
func (m *model) checklist() string {
	rec := m.ctrl.Record()
	var b strings.Builder
	for t := form.TabBasics; t < form.TabReview; t++ {
		done := true
		for _, f := range form.Required(t) {
			if f.Empty(rec) {
				done = false
				break
			}
		}
		mark := stylePending.Render("[ ]")
		if done {
			mark = styleDone.Render("[x]")
		}
		fmt.Fprintf(&b, "  %s %s\n", mark, t.Title())
	}
	deck := stylePending.Render("[ ]")
	if rec.HasPitchDeck != "yes" || rec.PitchDeckURL != "" {
		deck = styleDone.Render("[x]")
	}
	fmt.Fprintf(&b, "  %s Pitch deck\n", deck)
	return b.String()
}
