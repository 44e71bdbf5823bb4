package filter

import "strconv"

// SeriesIndicatorType selects how series badges are numbered.
type SeriesIndicatorType string

const (
	SeriesAlpha   SeriesIndicatorType = "alpha"
	SeriesNumeric SeriesIndicatorType = "numeric"
)

// TaxonomicGroup scopes what a picker may offer.
type TaxonomicGroup string

const (
	GroupEvents          TaxonomicGroup = "events"
	GroupActions         TaxonomicGroup = "actions"
	GroupEventProperties TaxonomicGroup = "event_properties"
	GroupPersonProps     TaxonomicGroup = "person_properties"
	GroupCohorts         TaxonomicGroup = "cohorts"
)

// DefaultActionGroups is used when no action scopes are configured.
var DefaultActionGroups = []TaxonomicGroup{GroupEvents, GroupActions}

// DefaultPropertyGroups is used when no property scopes are configured.
var DefaultPropertyGroups = []TaxonomicGroup{GroupEventProperties, GroupPersonProps, GroupCohorts}

// RowConfig is shared by every row of one render. Zero values are the
// defaults: everything shown, alpha badges off, all math allowed.
type RowConfig struct {
	Sortable             bool
	ReadOnly             bool
	Disabled             bool
	SingleEntry          bool
	ShowSeriesIndicator  bool
	SeriesIndicatorType  SeriesIndicatorType
	MathAvailability     MathAvailability
	HidePropertySelector bool
	HideFilter           bool
	HideRename           bool
	HideDelete           bool
	HideReorder          bool
	ShowOr               bool
	ShowNestedArrow      bool
	StripeRows           bool
	HasBreakdown         bool
	ActionGroups         []TaxonomicGroup
	PropertyGroups       []TaxonomicGroup
}

// RowActions is what row callbacks call back into.
type RowActions interface {
	Update(index int, patch Patch) error
	Remove(index int) error
	Duplicate(index int) error
	SetMath(index int, math, property string) error
	AddProperty(index int, pf PropertyFilter) error
	RemoveProperty(index, propertyIndex int) error
	OpenRename(index int) error
}

// Row is one row's render input. Callbacks are bound to Index at plan time;
// a nil callback means the affordance is hidden.
type Row struct {
	Entry       Entry
	Config      *RowConfig
	Index       int
	FilterCount int
	IsFirst     bool
	IsLast      bool
	SeriesLabel string

	Change         func(Patch) error
	Remove         func() error
	Duplicate      func() error
	SetMath        func(math, property string) error
	AddProperty    func(PropertyFilter) error
	RemoveProperty func(propertyIndex int) error
	Rename         func() error
}

// Variant picks the row flavour: event rows and action rows.
func (r Row) Variant() Kind { return r.Entry.Kind() }

// PlanRows derives one Row per entry. It must be called again after every
// structural change so callbacks never target a stale index.
func PlanRows(entries []Entry, cfg *RowConfig, act RowActions) []Row {
	n := len(entries)
	rows := make([]Row, n)
	for i, e := range entries {
		index := i
		row := Row{
			Entry:       e.clone(),
			Config:      cfg,
			Index:       index,
			FilterCount: n,
			IsFirst:     index == 0,
			IsLast:      index == n-1,
		}
		if cfg.ShowSeriesIndicator {
			row.SeriesLabel = SeriesLabel(index, cfg.SeriesIndicatorType)
		}
		if cfg.ReadOnly {
			rows[i] = row
			continue
		}
		row.Change = func(p Patch) error { return act.Update(index, p) }
		if cfg.MathAvailability != MathNone {
			row.SetMath = func(math, property string) error { return act.SetMath(index, math, property) }
		}
		if !cfg.SingleEntry && !cfg.HideDelete {
			row.Remove = func() error { return act.Remove(index) }
			row.Duplicate = func() error { return act.Duplicate(index) }
		}
		if !cfg.HideFilter && !cfg.HidePropertySelector {
			row.AddProperty = func(pf PropertyFilter) error { return act.AddProperty(index, pf) }
			row.RemoveProperty = func(pi int) error { return act.RemoveProperty(index, pi) }
		}
		if !cfg.HideRename && !cfg.SingleEntry {
			row.Rename = func() error { return act.OpenRename(index) }
		}
		rows[i] = row
	}
	return rows
}

// SeriesLabel renders A, B, ... Z, AA, AB for alpha and 1, 2, 3 for numeric.
func SeriesLabel(index int, typ SeriesIndicatorType) string {
	if typ == SeriesNumeric {
		return strconv.Itoa(index + 1)
	}
	var b []byte
	for n := index; n >= 0; n = n/26 - 1 {
		b = append([]byte{byte('A' + n%26)}, b...)
	}
	return string(b)
}
