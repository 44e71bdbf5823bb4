package filter

import "fmt"

const defaultButtonCopy = "Action or event"

// Reached reports whether a list of length entries may not grow. A limit of
// zero or less means no limit.
func Reached(length, limit int) bool {
	return limit > 0 && length >= limit
}

// SingleEntry reports the single-entry mode triggered by a limit of one: no
// add affordance at all, and no reorder or delete on the lone row.
func SingleEntry(limit int) bool {
	return limit == 1
}

// AddButton describes the add affordance when it is present.
type AddButton struct {
	Label    string
	Disabled bool
	Limited  bool
}

// LimitLabel is shown on the add affordance once the limit is reached.
func LimitLabel(limit int, insight InsightType) string {
	noun := "series"
	if insight == InsightFunnels {
		noun = "steps"
	}
	return fmt.Sprintf("Reached limit of %d %s", limit, noun)
}

// planAddButton returns nil in single-entry mode.
func planAddButton(length int, p Props, insight InsightType) *AddButton {
	if SingleEntry(p.EntitiesLimit) {
		return nil
	}
	b := &AddButton{Label: p.ButtonCopy}
	if b.Label == "" {
		b.Label = defaultButtonCopy
	}
	if Reached(length, p.EntitiesLimit) {
		b.Label = LimitLabel(p.EntitiesLimit, insight)
		b.Limited = true
		b.Disabled = true
	}
	if p.Disabled || p.ReadOnly {
		b.Disabled = true
	}
	return b
}
