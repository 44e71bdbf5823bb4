package filter

import (
	"fmt"
	"strconv"
)

// Kind discriminates the two entity shapes a series or funnel step can take.
type Kind string

const (
	KindEvent  Kind = "events"
	KindAction Kind = "actions"
)

// Target is what an entry points at. It is either an EventTarget or an
// ActionTarget; no other implementations exist.
type Target interface {
	Kind() Kind
	String() string
	wireID() any
}

// EventTarget selects a raw event by name. An empty name matches all events.
type EventTarget struct {
	Event string
}

func (EventTarget) Kind() Kind { return KindEvent }

func (t EventTarget) String() string {
	if t.Event == "" {
		return "All events"
	}
	return t.Event
}

func (t EventTarget) wireID() any {
	if t.Event == "" {
		return nil
	}
	return t.Event
}

// ActionTarget selects a saved action by its numeric id.
type ActionTarget struct {
	ID int64
}

func (ActionTarget) Kind() Kind { return KindAction }

func (t ActionTarget) String() string { return "action #" + strconv.FormatInt(t.ID, 10) }

func (t ActionTarget) wireID() any { return t.ID }

// PropertyFilter narrows an entry to events whose property matches.
type PropertyFilter struct {
	Key      string `json:"key" yaml:"key" mapstructure:"key"`
	Value    any    `json:"value" yaml:"value" mapstructure:"value"`
	Operator string `json:"operator,omitempty" yaml:"operator,omitempty" mapstructure:"operator"`
	Type     string `json:"type,omitempty" yaml:"type,omitempty" mapstructure:"type"`
}

func (p PropertyFilter) String() string {
	op := p.Operator
	if op == "" {
		op = "exact"
	}
	return fmt.Sprintf("%s %s %v", p.Key, op, p.Value)
}

// Entry is one configured series or funnel step.
type Entry struct {
	// Key identifies the entry for keyed iteration only.
	Key          string
	Order        int
	Target       Target
	Name         string
	CustomName   string
	Math         string
	MathProperty string
	Properties   []PropertyFilter
}

// Kind reports the entry's shape. A zero Entry is an all-events entry.
func (e Entry) Kind() Kind {
	if e.Target == nil {
		return KindEvent
	}
	return e.Target.Kind()
}

// DisplayName is the custom name when set, otherwise the entity name.
func (e Entry) DisplayName() string {
	if e.CustomName != "" {
		return e.CustomName
	}
	if e.Name != "" {
		return e.Name
	}
	if e.Target == nil {
		return EventTarget{}.String()
	}
	return e.Target.String()
}

func (e Entry) clone() Entry {
	if e.Properties != nil {
		e.Properties = append([]PropertyFilter(nil), e.Properties...)
	}
	return e
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Target       Target
	Name         *string
	CustomName   *string
	Math         *string
	MathProperty *string
	Properties   *[]PropertyFilter
}

// Ptr is a helper for building patches.
func Ptr[T any](v T) *T { return &v }

func (e Entry) apply(p Patch) Entry {
	out := e.clone()
	if p.Target != nil {
		out.Target = p.Target
	}
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.CustomName != nil {
		out.CustomName = *p.CustomName
	}
	if p.Math != nil {
		out.Math = *p.Math
	}
	if p.MathProperty != nil {
		out.MathProperty = *p.MathProperty
	}
	if p.Properties != nil {
		out.Properties = append([]PropertyFilter(nil), (*p.Properties)...)
	}
	return out
}

func cloneEntries(in []Entry) []Entry {
	out := make([]Entry, len(in))
	for i, e := range in {
		out[i] = e.clone()
	}
	return out
}

// renumber makes every entry's Order equal to its index.
func renumber(entries []Entry) {
	for i := range entries {
		entries[i].Order = i
	}
}
