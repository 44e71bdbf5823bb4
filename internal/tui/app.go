package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/actionfilter/internal/database/repository"
	"github.com/jask/actionfilter/internal/filter"
	"github.com/jask/actionfilter/internal/service"
)

// Session is the part of an editing session the TUI needs.
type Session interface {
	Editor() *filter.Editor
	Insight() repository.Insight
	Err() error
	Reload() error
}

// Catalog searches pickable events and actions.
type Catalog interface {
	Search(ctx context.Context, query string, groups []filter.TaxonomicGroup) ([]service.Candidate, error)
}

type modalState string

const (
	modalNone     modalState = ""
	modalRename   modalState = "rename"
	modalPicker   modalState = "picker"
	modalProperty modalState = "property"
)

// rows are drawn two lines tall: label, then property filters
const rowHeight = 2

// lines above the first row: title and blank
const headerLines = 2

type dragState struct {
	active bool
	index  int
	y      int
}

// App hosts one filter editor in the terminal.
type App struct {
	ctx     context.Context
	sess    Session
	catalog Catalog
	keys    keyMap

	cursor int
	modal  modalState
	input  textinput.Model

	candidates []service.Candidate
	pickCursor int

	drag   dragState
	status string
	width  int
	height int
}

type candidatesMsg struct {
	query string
	items []service.Candidate
}

type errMsg struct{ error }

// New builds the TUI over an open session.
func New(ctx context.Context, sess Session, catalog Catalog) *App {
	in := textinput.New()
	in.CharLimit = 120
	in.Prompt = "> "
	return &App{
		ctx:     ctx,
		sess:    sess,
		catalog: catalog,
		keys:    newKeyMap(),
		input:   in,
		width:   80,
	}
}

func (a *App) Init() tea.Cmd { return nil }

func (a *App) editor() *filter.Editor { return a.sess.Editor() }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
	case tea.KeyMsg:
		if a.modal != modalNone {
			return a.handleModalKey(m)
		}
		return a.handleKey(m)
	case tea.MouseMsg:
		a.handleMouse(m)
	case candidatesMsg:
		if a.modal == modalPicker && m.query == a.input.Value() {
			a.candidates = m.items
			a.pickCursor = 0
		}
	case errMsg:
		a.status = "error: " + m.Error()
	}
	return a, nil
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	ed := a.editor()
	switch {
	case key.Matches(m, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(m, a.keys.MoveUp):
		if a.report(ed.Reorder(a.cursor, a.cursor-1), "moved up") {
			a.cursor--
		}
	case key.Matches(m, a.keys.MoveDown):
		if a.report(ed.Reorder(a.cursor, a.cursor+1), "moved down") {
			a.cursor++
		}
	case key.Matches(m, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
	case key.Matches(m, a.keys.Down):
		if a.cursor < ed.Len()-1 {
			a.cursor++
		}
	case key.Matches(m, a.keys.Add):
		if a.report(ed.Add(), "added") {
			a.cursor = ed.Len() - 1
		}
	case key.Matches(m, a.keys.Delete):
		a.withRow(func(r filter.Row) {
			if r.Remove == nil {
				a.status = "delete not available"
				return
			}
			a.report(r.Remove(), "removed")
		})
	case key.Matches(m, a.keys.Duplicate):
		a.withRow(func(r filter.Row) {
			if r.Duplicate == nil {
				a.status = "duplicate not available"
				return
			}
			a.report(r.Duplicate(), "duplicated")
		})
	case key.Matches(m, a.keys.Rename):
		a.withRow(func(r filter.Row) {
			if r.Rename == nil {
				a.status = "rename not available"
				return
			}
			if a.report(r.Rename(), "") {
				a.openInput(modalRename, r.Entry.CustomName, "custom name")
			}
		})
	case key.Matches(m, a.keys.Pick):
		var cmd tea.Cmd
		a.withRow(func(r filter.Row) {
			if r.Change == nil {
				a.status = "list is read-only"
				return
			}
			a.openInput(modalPicker, "", "search events and actions")
			cmd = a.searchCmd("", r.Config.ActionGroups)
		})
		return a, cmd
	case key.Matches(m, a.keys.Math):
		a.withRow(func(r filter.Row) {
			if r.SetMath == nil {
				a.status = "math not available"
				return
			}
			next := filter.NextMath(r.Config.MathAvailability, r.Entry.Math)
			// property aggregations need a property, which only the picker sets
			for filter.IsPropertyMath(next) && r.Entry.MathProperty == "" && next != r.Entry.Math {
				next = filter.NextMath(r.Config.MathAvailability, next)
			}
			a.report(r.SetMath(next, r.Entry.MathProperty), "math: "+mathLabel(next))
		})
	case key.Matches(m, a.keys.Property):
		a.withRow(func(r filter.Row) {
			if r.AddProperty == nil {
				a.status = "filters not available"
				return
			}
			a.openInput(modalProperty, "", "key=value or key!=value")
		})
	case key.Matches(m, a.keys.Unfilter):
		a.withRow(func(r filter.Row) {
			if r.RemoveProperty == nil || len(r.Entry.Properties) == 0 {
				a.status = "no filter to drop"
				return
			}
			a.report(r.RemoveProperty(len(r.Entry.Properties)-1), "filter dropped")
		})
	case key.Matches(m, a.keys.Reload):
		a.report(a.sess.Reload(), "reloaded")
	}
	a.clampCursor()
	return a, nil
}

// withRow plans the rows afresh and hands fn the one under the cursor.
func (a *App) withRow(fn func(filter.Row)) {
	rows := a.editor().View().Rows
	if a.cursor < 0 || a.cursor >= len(rows) {
		a.status = "no entries"
		return
	}
	fn(rows[a.cursor])
}

// report turns an editor result into status text and says whether the
// operation went through. Save failures surface from the session.
func (a *App) report(err error, ok string) bool {
	if err != nil {
		a.status = describe(err)
		return false
	}
	if serr := a.sess.Err(); serr != nil {
		a.status = "error: " + serr.Error()
		return false
	}
	a.status = ok
	return true
}

func describe(err error) string {
	switch {
	case errors.Is(err, filter.ErrLimitReached):
		return "limit reached"
	case errors.Is(err, filter.ErrReadOnly):
		return "list is read-only"
	case errors.Is(err, filter.ErrNotSortable):
		return "list is not sortable"
	case errors.Is(err, filter.ErrIndexOutOfRange):
		return "cannot move further"
	case errors.Is(err, filter.ErrSuppressed):
		return "not available here"
	}
	return "error: " + err.Error()
}

func (a *App) clampCursor() {
	n := a.editor().Len()
	if a.cursor >= n {
		a.cursor = n - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a *App) openInput(modal modalState, value, placeholder string) {
	a.modal = modal
	a.input.Reset()
	a.input.SetValue(value)
	a.input.Placeholder = placeholder
	a.input.Focus()
	a.candidates = nil
	a.pickCursor = 0
}

func (a *App) closeInput() {
	a.modal = modalNone
	a.input.Blur()
	a.input.Reset()
	a.candidates = nil
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	ed := a.editor()
	switch m.Type {
	case tea.KeyCtrlC:
		return a, tea.Quit
	case tea.KeyEsc:
		if a.modal == modalRename {
			ed.CancelRename()
		}
		a.closeInput()
		a.status = ""
		return a, nil
	case tea.KeyEnter:
		return a.submitModal()
	case tea.KeyUp:
		if a.modal == modalPicker && a.pickCursor > 0 {
			a.pickCursor--
		}
		return a, nil
	case tea.KeyDown:
		if a.modal == modalPicker && a.pickCursor < len(a.candidates)-1 {
			a.pickCursor++
		}
		return a, nil
	}

	before := a.input.Value()
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(m)
	if a.modal == modalPicker && a.input.Value() != before {
		groups := filter.DefaultActionGroups
		if rows := ed.View().Rows; a.cursor < len(rows) {
			groups = rows[a.cursor].Config.ActionGroups
		}
		return a, tea.Batch(cmd, a.searchCmd(a.input.Value(), groups))
	}
	return a, cmd
}

func (a *App) submitModal() (tea.Model, tea.Cmd) {
	ed := a.editor()
	value := a.input.Value()
	switch a.modal {
	case modalRename:
		a.report(ed.ConfirmRename(value), "renamed")
	case modalPicker:
		if a.pickCursor < len(a.candidates) {
			c := a.candidates[a.pickCursor]
			a.report(ed.Update(a.cursor, filter.Patch{Target: c.Target, Name: filter.Ptr(c.Label)}), "now "+c.Label)
		}
	case modalProperty:
		pf, err := parseProperty(value)
		if err != nil {
			a.status = err.Error()
			return a, nil
		}
		a.report(ed.AddProperty(a.cursor, pf), "filter added")
	}
	a.closeInput()
	a.clampCursor()
	return a, nil
}

func (a *App) searchCmd(query string, groups []filter.TaxonomicGroup) tea.Cmd {
	if a.catalog == nil {
		return nil
	}
	return func() tea.Msg {
		items, err := a.catalog.Search(a.ctx, query, groups)
		if err != nil {
			return errMsg{err}
		}
		return candidatesMsg{query: query, items: items}
	}
}

// handleMouse turns a press and release over the list into a drop.
func (a *App) handleMouse(m tea.MouseMsg) {
	switch {
	case m.Action == tea.MouseActionPress && m.Button == tea.MouseButtonLeft:
		idx := a.rowAt(m.Y)
		if idx < 0 {
			return
		}
		a.drag = dragState{active: true, index: idx, y: m.Y}
		a.cursor = idx
	case m.Action == tea.MouseActionRelease && a.drag.active:
		d := a.drag
		a.drag = dragState{}
		target := a.rowAt(m.Y)
		if target < 0 {
			target = clampRow(m.Y, a.editor().Len())
		}
		dist := m.Y - d.y
		if dist < 0 {
			dist = -dist
		}
		if a.report(a.editor().Drop(filter.DragResult{OldIndex: d.index, NewIndex: target, Distance: dist}), "") {
			a.cursor = target
		}
		a.clampCursor()
	}
}

func (a *App) rowAt(y int) int {
	if y < headerLines {
		return -1
	}
	idx := (y - headerLines) / rowHeight
	if idx >= a.editor().Len() {
		return -1
	}
	return idx
}

func clampRow(y, n int) int {
	if y < headerLines || n == 0 {
		return 0
	}
	return n - 1
}

func parseProperty(s string) (filter.PropertyFilter, error) {
	op := "exact"
	sep := "="
	if strings.Contains(s, "!=") {
		op, sep = "is_not", "!="
	}
	k, v, ok := strings.Cut(s, sep)
	k, v = strings.TrimSpace(k), strings.TrimSpace(v)
	if !ok || k == "" {
		return filter.PropertyFilter{}, fmt.Errorf("expected key=value, got %q", s)
	}
	return filter.PropertyFilter{Key: k, Value: v, Operator: op, Type: "event"}, nil
}
