package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jask/actionfilter/internal/database/repository"
	"github.com/jask/actionfilter/internal/filter"
	"github.com/jask/actionfilter/internal/service"
)

type fakeSession struct {
	ed     *filter.Editor
	stored filter.FilterSet
	pushes int
}

func (s *fakeSession) Editor() *filter.Editor { return s.ed }
func (s *fakeSession) Err() error             { return nil }
func (s *fakeSession) Reload() error {
	s.ed.Load(s.stored)
	return nil
}
func (s *fakeSession) Insight() repository.Insight {
	return repository.Insight{Name: "Signup funnel", Type: filter.InsightTrends}
}

func newSession(t *testing.T, tweak func(*filter.Props), names ...string) *fakeSession {
	t.Helper()
	s := &fakeSession{}
	props := filter.Props{
		TypeKey:             "tui-test",
		Sortable:            true,
		DragDistance:        1,
		ShowSeriesIndicator: true,
		SetFilters: func(fs filter.FilterSet) {
			s.pushes++
			s.stored = fs
			s.ed.Load(fs)
		},
	}
	if tweak != nil {
		tweak(&props)
	}
	ed, err := filter.New(props)
	require.NoError(t, err)
	s.ed = ed
	fs := filter.FilterSet{Insight: filter.InsightTrends}
	for i, n := range names {
		fs.Events = append(fs.Events, filter.EntityFilter{ID: n, Type: filter.KindEvent, Order: i, Name: n})
	}
	s.stored = fs
	ed.Load(fs)
	return s
}

type fakeCatalog struct{ items []service.Candidate }

func (c fakeCatalog) Search(context.Context, string, []filter.TaxonomicGroup) ([]service.Candidate, error) {
	return c.items, nil
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func press(t *testing.T, a *App, msgs ...tea.Msg) {
	t.Helper()
	for _, m := range msgs {
		_, _ = a.Update(m)
	}
}

func entryNames(ed *filter.Editor) []string {
	var out []string
	for _, e := range ed.Entries() {
		out = append(out, e.DisplayName())
	}
	return out
}

func TestAddKeyAppendsAndSelects(t *testing.T) {
	s := newSession(t, nil, "a")
	a := New(context.Background(), s, nil)

	press(t, a, runes("a"))
	require.Equal(t, 2, s.ed.Len())
	require.Equal(t, 1, a.cursor)
	require.Equal(t, "added", a.status)
	require.Equal(t, filter.EventTarget{Event: filter.DefaultEvent}, s.ed.Entries()[1].Target)
}

func TestKeyboardMoveFollowsEntry(t *testing.T) {
	s := newSession(t, nil, "a", "b", "c")
	a := New(context.Background(), s, nil)

	press(t, a, runes("J"))
	require.Equal(t, []string{"b", "a", "c"}, entryNames(s.ed))
	require.Equal(t, 1, a.cursor)

	press(t, a, tea.KeyMsg{Type: tea.KeyShiftDown})
	require.Equal(t, []string{"b", "c", "a"}, entryNames(s.ed))
	require.Equal(t, 2, a.cursor)

	pushes := s.pushes
	press(t, a, runes("J"))
	require.Equal(t, pushes, s.pushes, "moving past the end is rejected")
	require.Equal(t, "cannot move further", a.status)
}

func TestMouseDragDrops(t *testing.T) {
	s := newSession(t, nil, "a", "b", "c")
	a := New(context.Background(), s, nil)

	press(t, a,
		tea.MouseMsg{X: 4, Y: headerLines, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft},
		tea.MouseMsg{X: 4, Y: headerLines + 2*rowHeight, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft},
	)
	require.Equal(t, []string{"b", "c", "a"}, entryNames(s.ed))
	require.Equal(t, 2, a.cursor)
}

func TestShortDragIsAClick(t *testing.T) {
	s := newSession(t, func(p *filter.Props) { p.DragDistance = 5 }, "a", "b", "c")
	a := New(context.Background(), s, nil)

	press(t, a,
		tea.MouseMsg{Y: headerLines, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft},
		tea.MouseMsg{Y: headerLines + rowHeight, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft},
	)
	require.Equal(t, []string{"a", "b", "c"}, entryNames(s.ed))
	require.Zero(t, s.pushes)
}

func TestClickOnStaticListSelectsQuietly(t *testing.T) {
	s := newSession(t, func(p *filter.Props) { p.Sortable = false }, "a", "b")
	a := New(context.Background(), s, nil)

	press(t, a,
		tea.MouseMsg{Y: headerLines + rowHeight, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft},
		tea.MouseMsg{Y: headerLines + rowHeight, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft},
	)
	require.Equal(t, 1, a.cursor)
	require.Empty(t, a.status)
	require.Zero(t, s.pushes)

	press(t, a,
		tea.MouseMsg{Y: headerLines + rowHeight, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft},
		tea.MouseMsg{Y: headerLines, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft},
	)
	require.Equal(t, "list is not sortable", a.status)
	require.Equal(t, []string{"a", "b"}, entryNames(s.ed))
}

func TestRenameModal(t *testing.T) {
	s := newSession(t, nil, "a", "b")
	a := New(context.Background(), s, nil)

	press(t, a, runes("j"), runes("r"))
	require.Equal(t, modalRename, a.modal)
	_, open := s.ed.RenameTarget()
	require.True(t, open)

	press(t, a, runes("Signups"), tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, modalNone, a.modal)
	require.Equal(t, "Signups", s.ed.Entries()[1].CustomName)
	_, open = s.ed.RenameTarget()
	require.False(t, open)
}

func TestRenameEscapeCancels(t *testing.T) {
	s := newSession(t, nil, "a")
	a := New(context.Background(), s, nil)

	press(t, a, runes("r"), runes("zzz"), tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, modalNone, a.modal)
	require.Empty(t, s.ed.Entries()[0].CustomName)
	require.Zero(t, s.pushes)
}

func TestPickerRetargetsRow(t *testing.T) {
	s := newSession(t, nil, "a")
	cat := fakeCatalog{items: []service.Candidate{
		{Target: filter.EventTarget{Event: "signed_up"}, Label: "signed_up"},
		{Target: filter.ActionTarget{ID: 3}, Label: "Completed purchase"},
	}}
	a := New(context.Background(), s, cat)

	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, modalPicker, a.modal)
	require.NotNil(t, cmd)
	press(t, a, cmd(), tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})

	e := s.ed.Entries()[0]
	require.Equal(t, filter.ActionTarget{ID: 3}, e.Target)
	require.Equal(t, "Completed purchase", e.Name)
	require.Equal(t, filter.KindAction, e.Kind())
}

func TestPropertyFilterKeys(t *testing.T) {
	s := newSession(t, nil, "a")
	a := New(context.Background(), s, nil)

	press(t, a, runes("p"), runes("plan!=free"), tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, []filter.PropertyFilter{{Key: "plan", Value: "free", Operator: "is_not", Type: "event"}}, s.ed.Entries()[0].Properties)
	require.Contains(t, a.View(), "plan ≠ free")

	press(t, a, runes("P"))
	require.Empty(t, s.ed.Entries()[0].Properties)
}

func TestMathKeyCycles(t *testing.T) {
	s := newSession(t, nil, "a")
	a := New(context.Background(), s, nil)

	press(t, a, runes("m"))
	require.Equal(t, filter.NextMath(filter.MathAll, ""), s.ed.Entries()[0].Math)
}

func TestReadOnlyRejectsKeys(t *testing.T) {
	s := newSession(t, func(p *filter.Props) { p.ReadOnly = true }, "a", "b")
	a := New(context.Background(), s, nil)

	press(t, a, runes("a"))
	require.Equal(t, "list is read-only", a.status)
	press(t, a, runes("x"))
	require.Equal(t, "delete not available", a.status)
	press(t, a, runes("J"))
	require.Equal(t, "list is read-only", a.status)
	require.Equal(t, 2, s.ed.Len())
	require.Zero(t, s.pushes)
}

func TestSingleEntryView(t *testing.T) {
	s := newSession(t, func(p *filter.Props) { p.EntitiesLimit = 1 }, "a")
	a := New(context.Background(), s, nil)

	out := a.View()
	require.NotContains(t, out, "+ ")
	require.NotContains(t, out, "reorder")
	press(t, a, runes("x"))
	require.Equal(t, "delete not available", a.status)
	press(t, a, runes("r"))
	require.Equal(t, "rename not available", a.status)
}

func TestViewShowsSeriesAndLimit(t *testing.T) {
	s := newSession(t, func(p *filter.Props) { p.EntitiesLimit = 2 }, "a", "b")
	a := New(context.Background(), s, nil)

	out := a.View()
	require.Contains(t, out, "Signup funnel")
	require.Contains(t, out, "A")
	require.Contains(t, out, "B")
	require.Contains(t, out, filter.LimitLabel(2, filter.InsightTrends))

	lines := strings.Split(out, "\n")
	require.Contains(t, lines[headerLines], "a", "first row starts after the header")
	require.Contains(t, lines[headerLines+rowHeight], "b")
}

func TestViewFollowsRowConfig(t *testing.T) {
	s := newSession(t, nil, "a", "b")
	s.stored.Breakdown = "$browser"
	s.ed.Load(s.stored)
	a := New(context.Background(), s, nil)

	out := a.View()
	require.Contains(t, out, "drag or K/J to reorder")
	require.Contains(t, out, "(broken down)")
	lines := strings.Split(out, "\n")
	require.Contains(t, lines[headerLines+1], "│")
	require.Contains(t, lines[headerLines+rowHeight+1], "└", "last row closes the gutter")

	ro := newSession(t, func(p *filter.Props) { p.ReadOnly = true }, "a", "b")
	out = New(context.Background(), ro, nil).View()
	require.NotContains(t, out, "reorder", "read-only rows hide reordering")
	require.NotContains(t, out, "broken down")
}

func TestParseProperty(t *testing.T) {
	pf, err := parseProperty(" browser = Chrome ")
	require.NoError(t, err)
	require.Equal(t, filter.PropertyFilter{Key: "browser", Value: "Chrome", Operator: "exact", Type: "event"}, pf)

	_, err = parseProperty("nokey")
	require.Error(t, err)
}
