package filter

import (
	"errors"
	"log/slog"

	"github.com/jask/actionfilter/internal/logger"
)

// DefaultDragDistance is the minimum drag travel that counts as a reorder.
const DefaultDragDistance = 5

// Props configures one Editor. They are fixed for the Editor's lifetime;
// the filter set itself flows in through Load.
type Props struct {
	// TypeKey scopes the editor. Two editors never share state.
	TypeKey string
	// SetFilters receives the full filter set after every mutation.
	SetFilters func(FilterSet)
	// OnReorder fires when a reorder actually moved an entry.
	OnReorder func()

	AddDefaults   map[string]any
	EntitiesLimit int
	ButtonCopy    string

	Sortable     bool
	DragDistance int
	ReadOnly     bool
	Disabled     bool

	MathAvailability     MathAvailability
	ShowSeriesIndicator  bool
	SeriesIndicatorType  SeriesIndicatorType
	HidePropertySelector bool
	HideFilter           bool
	HideRename           bool
	HideDelete           bool
	ShowOr               bool
	ShowNestedArrow      bool
	NoStripeRows         bool
	HasCustomActions     bool

	ActionGroups   []TaxonomicGroup
	PropertyGroups []TaxonomicGroup

	Logger *slog.Logger
}

// ListMode picks the row container.
type ListMode int

const (
	ModeStatic ListMode = iota
	ModeSortable
)

// RenameDialog is present whenever the rename affordance exists.
type RenameDialog struct {
	Open   bool
	Target RenameTarget
}

// ListView is everything a host needs to draw the list.
type ListView struct {
	TypeKey       string
	Mode          ListMode
	Rows          []Row
	Add           *AddButton
	Rename        *RenameDialog
	CustomActions bool
}

// DragResult is what the reorder engine reports when a drag ends.
type DragResult struct {
	OldIndex int
	NewIndex int
	Distance int
}

// Editor is the public surface of the list: it owns one Store, one reorder
// coordinator and one rename session for its TypeKey.
//
// An Editor is not safe for concurrent use.
type Editor struct {
	props   Props
	store   *Store
	reorder *ReorderCoordinator
	rename  *RenameSession
	log     *slog.Logger
}

// New builds an editor. It fails when the owner gave no way to receive
// filter sets or no type key.
func New(props Props) (*Editor, error) {
	if props.TypeKey == "" {
		return nil, errors.New("filter: type key is required")
	}
	if props.SetFilters == nil {
		return nil, errors.New("filter: SetFilters is required")
	}
	if props.DragDistance <= 0 {
		props.DragDistance = DefaultDragDistance
	}
	if props.SeriesIndicatorType == "" {
		props.SeriesIndicatorType = SeriesAlpha
	}
	if len(props.ActionGroups) == 0 {
		props.ActionGroups = DefaultActionGroups
	}
	if len(props.PropertyGroups) == 0 {
		props.PropertyGroups = DefaultPropertyGroups
	}
	log := props.Logger
	if log == nil {
		log = logger.Get()
	}
	log = log.With("type_key", props.TypeKey)

	store := NewStore(props.EntitiesLimit, props.SetFilters, WithLogger(log))
	return &Editor{
		props:   props,
		store:   store,
		reorder: NewReorderCoordinator(store, props.OnReorder),
		rename:  NewRenameSession(store),
		log:     log,
	}, nil
}

func (e *Editor) TypeKey() string { return e.props.TypeKey }

// Load resynchronises the editor with the owner's filter set. Any open
// rename dialog is closed.
func (e *Editor) Load(fs FilterSet) {
	e.store.Load(fs)
	e.rename.Cancel()
	e.log.Debug("filters loaded", "entries", e.store.Len())
}

// Entries returns a copy of the current sequence.
func (e *Editor) Entries() []Entry { return e.store.Entries() }

// Filters serialises the current sequence.
func (e *Editor) Filters() FilterSet { return e.store.Filters() }

func (e *Editor) Len() int { return e.store.Len() }

// ReachedLimit reports whether the add affordance is limit-blocked.
func (e *Editor) ReachedLimit() bool { return e.store.ReachedLimit() }

// SingleEntry reports the limit-of-one composition.
func (e *Editor) SingleEntry() bool { return SingleEntry(e.props.EntitiesLimit) }

func (e *Editor) editable() error {
	if e.props.ReadOnly {
		return ErrReadOnly
	}
	if e.props.Disabled {
		return ErrDisabled
	}
	return nil
}

// Add appends a new entry from the configured defaults. A single-entry
// list has no add affordance but still accepts its first entry.
func (e *Editor) Add() error {
	if err := e.editable(); err != nil {
		return err
	}
	if err := e.store.Add(e.props.AddDefaults); err != nil {
		return err
	}
	e.log.Debug("entry added", "entries", e.store.Len())
	return nil
}

// Update merges patch into the entry at index.
func (e *Editor) Update(index int, patch Patch) error {
	if err := e.editable(); err != nil {
		return err
	}
	if patch.Properties != nil && e.filterHidden() {
		return ErrSuppressed
	}
	if patch.Math != nil && !e.props.MathAvailability.Allows(*patch.Math) {
		return ErrMathUnavailable
	}
	return e.store.Update(index, patch)
}

// Remove deletes the entry at index.
func (e *Editor) Remove(index int) error {
	if err := e.editable(); err != nil {
		return err
	}
	if e.SingleEntry() {
		return ErrSuppressed
	}
	if err := e.store.Remove(index); err != nil {
		return err
	}
	e.log.Debug("entry removed", "index", index, "entries", e.store.Len())
	return nil
}

// Duplicate copies the entry at index directly below it.
func (e *Editor) Duplicate(index int) error {
	if err := e.editable(); err != nil {
		return err
	}
	if e.SingleEntry() {
		return ErrSuppressed
	}
	return e.store.Duplicate(index)
}

// SetMath selects an aggregation. Property aggregations keep property as
// their math property; every other aggregation clears it.
func (e *Editor) SetMath(index int, math, property string) error {
	if err := e.editable(); err != nil {
		return err
	}
	if e.props.MathAvailability == MathNone || !e.props.MathAvailability.Allows(math) {
		return ErrMathUnavailable
	}
	if !IsPropertyMath(math) {
		property = ""
	}
	return e.store.Update(index, Patch{Math: Ptr(math), MathProperty: Ptr(property)})
}

func (e *Editor) filterHidden() bool {
	return e.props.HideFilter || e.props.HidePropertySelector
}

// AddProperty appends a property filter to the entry at index.
func (e *Editor) AddProperty(index int, pf PropertyFilter) error {
	if err := e.editable(); err != nil {
		return err
	}
	if e.filterHidden() {
		return ErrSuppressed
	}
	cur, ok := e.store.Entry(index)
	if !ok {
		return ErrIndexOutOfRange
	}
	props := append(cur.Properties, pf)
	return e.store.Update(index, Patch{Properties: &props})
}

// RemoveProperty drops one property filter from the entry at index.
func (e *Editor) RemoveProperty(index, propertyIndex int) error {
	if err := e.editable(); err != nil {
		return err
	}
	if e.filterHidden() {
		return ErrSuppressed
	}
	cur, ok := e.store.Entry(index)
	if !ok || propertyIndex < 0 || propertyIndex >= len(cur.Properties) {
		return ErrIndexOutOfRange
	}
	props := append(cur.Properties[:propertyIndex:propertyIndex], cur.Properties[propertyIndex+1:]...)
	return e.store.Update(index, Patch{Properties: &props})
}

// Reorder moves an entry directly, as a keyboard move would.
func (e *Editor) Reorder(oldIndex, newIndex int) error {
	if err := e.editable(); err != nil {
		return err
	}
	if !e.props.Sortable {
		return ErrNotSortable
	}
	if e.SingleEntry() {
		return ErrSuppressed
	}
	if err := e.reorder.Reorder(oldIndex, newIndex); err != nil {
		return err
	}
	e.log.Debug("entries reordered", "from", oldIndex, "to", newIndex)
	return nil
}

// Drop finishes a drag. Drags shorter than the drag distance are clicks and
// change nothing.
func (e *Editor) Drop(d DragResult) error {
	if d.Distance < e.props.DragDistance {
		return nil
	}
	if !e.props.Sortable {
		return ErrNotSortable
	}
	return e.Reorder(d.OldIndex, d.NewIndex)
}

func (e *Editor) renameAvailable() bool {
	return !e.props.HideRename && !e.props.ReadOnly && !e.SingleEntry()
}

// OpenRename opens the rename dialog for the entry at index.
func (e *Editor) OpenRename(index int) error {
	if !e.renameAvailable() {
		return ErrSuppressed
	}
	if err := e.editable(); err != nil {
		return err
	}
	return e.rename.OpenFor(index)
}

// ConfirmRename applies name to the entry being renamed.
func (e *Editor) ConfirmRename(name string) error {
	if err := e.editable(); err != nil {
		return err
	}
	return e.rename.Confirm(name)
}

// CancelRename closes the rename dialog.
func (e *Editor) CancelRename() { e.rename.Cancel() }

// RenameTarget returns the entry whose dialog is open, if any.
func (e *Editor) RenameTarget() (RenameTarget, bool) { return e.rename.Target() }

func (e *Editor) rowConfig() *RowConfig {
	p := e.props
	sortable := p.Sortable
	return &RowConfig{
		Sortable:             sortable,
		ReadOnly:             p.ReadOnly,
		Disabled:             p.Disabled,
		SingleEntry:          e.SingleEntry(),
		ShowSeriesIndicator:  p.ShowSeriesIndicator,
		SeriesIndicatorType:  p.SeriesIndicatorType,
		MathAvailability:     p.MathAvailability,
		HidePropertySelector: p.HidePropertySelector,
		HideFilter:           p.HideFilter || p.ReadOnly,
		HideRename:           !e.renameAvailable(),
		HideDelete:           p.HideDelete,
		HideReorder:          !sortable || e.SingleEntry() || p.ReadOnly,
		ShowOr:               p.ShowOr && !sortable,
		ShowNestedArrow:      p.ShowNestedArrow,
		StripeRows:           !p.NoStripeRows,
		HasBreakdown:         e.store.Base().Breakdown != "",
		ActionGroups:         p.ActionGroups,
		PropertyGroups:       p.PropertyGroups,
	}
}

// View plans the list for rendering. Call it after every change.
func (e *Editor) View() ListView {
	v := ListView{
		TypeKey:       e.props.TypeKey,
		Mode:          ModeStatic,
		Rows:          PlanRows(e.store.entries, e.rowConfig(), e),
		Add:           planAddButton(e.store.Len(), e.props, e.store.Base().Insight),
		CustomActions: e.props.HasCustomActions,
	}
	if e.props.Sortable {
		v.Mode = ModeSortable
	}
	if e.renameAvailable() {
		v.Rename = &RenameDialog{}
		if t, ok := e.rename.Target(); ok {
			v.Rename.Open = true
			v.Rename.Target = t
		}
	}
	return v
}
