package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/actionfilter/internal/filter"
)

// styles
var (
	colorAccent = lipgloss.Color("#89b4fa")
	colorMuted  = lipgloss.Color("#6c7086")
	colorWarn   = lipgloss.Color("#f38ba8")
	colorStripe = lipgloss.Color("#181825")

	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	badgeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#11111b")).Background(colorAccent).Bold(true).Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	warnStyle     = lipgloss.NewStyle().Foreground(colorWarn)
	stripeStyle   = lipgloss.NewStyle().Background(colorStripe)
	modalStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorAccent).Padding(0, 1)
	keyStyle      = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
)

// rowRenderer draws the label line of one row flavour.
type rowRenderer interface {
	label(r filter.Row) string
}

type eventRow struct{}

func (eventRow) label(r filter.Row) string {
	name := r.Entry.DisplayName()
	if r.Entry.CustomName != "" && r.Entry.Name != "" {
		name += mutedStyle.Render(" (" + r.Entry.Name + ")")
	}
	return name
}

type actionRow struct{}

func (actionRow) label(r filter.Row) string {
	return "⚡ " + r.Entry.DisplayName() + mutedStyle.Render(" "+r.Entry.Target.String())
}

func rendererFor(r filter.Row) rowRenderer {
	if r.Variant() == filter.KindAction {
		return actionRow{}
	}
	return eventRow{}
}

func (a *App) View() string {
	v := a.editor().View()
	width := max(20, a.width)

	var b strings.Builder
	in := a.sess.Insight()
	b.WriteString(truncate(titleStyle.Render(fmt.Sprintf("%s · %s", in.Name, strings.ToLower(string(in.Type)))), width))
	b.WriteString("\n\n")

	if len(v.Rows) == 0 {
		b.WriteString(mutedStyle.Render("no series yet"))
		b.WriteString("\n\n")
	}
	for _, r := range v.Rows {
		top, bottom := a.renderRow(r, r.Index == a.cursor)
		if r.Config.StripeRows && r.Index%2 == 1 {
			top = stripeStyle.Render(top)
		}
		b.WriteString(truncate(top, width))
		b.WriteString("\n")
		b.WriteString(truncate(bottom, width))
		b.WriteString("\n")
	}

	if v.Add != nil {
		label := "+ " + v.Add.Label
		if v.Add.Disabled {
			b.WriteString(mutedStyle.Render(label))
		} else {
			b.WriteString(keyStyle.Render(label))
		}
		b.WriteString("\n")
	}
	if len(v.Rows) > 0 && !v.Rows[0].Config.HideReorder {
		b.WriteString(mutedStyle.Render("drag or K/J to reorder"))
		b.WriteString("\n")
	}

	if a.modal != modalNone {
		b.WriteString("\n")
		b.WriteString(a.renderModal(v))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if a.status != "" {
		st := a.status
		if strings.HasPrefix(st, "error") {
			st = warnStyle.Render(st)
		}
		b.WriteString(truncate(st, width))
		b.WriteString("\n")
	}
	b.WriteString(truncate(a.renderHelp(), width))
	return b.String()
}

func (a *App) renderRow(r filter.Row, selected bool) (string, string) {
	var parts []string
	if r.Config.ShowOr && !r.IsFirst {
		parts = append(parts, mutedStyle.Render("or"))
	}
	if r.Config.ShowNestedArrow {
		parts = append(parts, mutedStyle.Render("↳"))
	}
	if r.SeriesLabel != "" {
		parts = append(parts, badgeStyle.Render(r.SeriesLabel))
	}
	label := rendererFor(r).label(r)
	if selected {
		label = selectedStyle.Render("› ") + label
	} else {
		label = "  " + label
	}
	parts = append(parts, label)
	if r.Entry.Math != "" {
		parts = append(parts, mutedStyle.Render("["+mathLabel(r.Entry.Math)+propertySuffix(r.Entry.MathProperty)+"]"))
	}
	if r.Config.HasBreakdown {
		parts = append(parts, mutedStyle.Render("(broken down)"))
	}
	top := strings.Join(parts, " ")

	// the gutter runs down the list and closes on the last row
	gutter := mutedStyle.Render("  │ ")
	if r.IsLast {
		gutter = mutedStyle.Render("  └ ")
	}
	var bottom string
	switch {
	case r.Config.HideFilter:
	case len(r.Entry.Properties) == 0:
		bottom = gutter + mutedStyle.Render("no filters")
	default:
		fs := make([]string, 0, len(r.Entry.Properties))
		for _, p := range r.Entry.Properties {
			op := "="
			if p.Operator == "is_not" {
				op = "≠"
			}
			fs = append(fs, fmt.Sprintf("%s %s %v", p.Key, op, p.Value))
		}
		bottom = gutter + "where " + strings.Join(fs, ", ")
	}
	return top, bottom
}

func (a *App) renderModal(v filter.ListView) string {
	var title string
	var body strings.Builder
	switch a.modal {
	case modalRename:
		title = "Rename series"
		if v.Rename != nil && v.Rename.Open {
			t := v.Rename.Target
			title = fmt.Sprintf("Rename %s", t.Entry.DisplayName())
		}
		body.WriteString(a.input.View())
		body.WriteString("\n")
		body.WriteString(mutedStyle.Render("[enter] save  [esc] cancel"))
	case modalPicker:
		title = "Select event or action"
		body.WriteString(a.input.View())
		for i, c := range a.candidates {
			if i >= 8 {
				body.WriteString(mutedStyle.Render(fmt.Sprintf("\n  +%d more", len(a.candidates)-i)))
				break
			}
			line := c.Label
			if c.Kind() == filter.KindAction {
				line = "⚡ " + line
			}
			if i == a.pickCursor {
				line = selectedStyle.Render("› " + line)
			} else {
				line = "  " + line
			}
			body.WriteString("\n")
			body.WriteString(line)
		}
		if len(a.candidates) == 0 {
			body.WriteString(mutedStyle.Render("\n  no matches"))
		}
	case modalProperty:
		title = "Add property filter"
		body.WriteString(a.input.View())
	}
	return modalStyle.Render(titleStyle.Render(title) + "\n" + body.String())
}

func (a *App) renderHelp() string {
	bindings := a.keys.ShortHelp()
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, keyStyle.Render(h.Key)+" "+mutedStyle.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}

func mathLabel(m string) string {
	if m == "" {
		return "total"
	}
	return strings.ReplaceAll(m, "_", " ")
}

func propertySuffix(p string) string {
	if p == "" {
		return ""
	}
	return " of " + p
}

func truncate(s string, width int) string {
	return ansi.Truncate(s, width, "…")
}
