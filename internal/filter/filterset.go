package filter

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// InsightType is the declared purpose of a filter set.
type InsightType string

const (
	InsightTrends     InsightType = "TRENDS"
	InsightFunnels    InsightType = "FUNNELS"
	InsightRetention  InsightType = "RETENTION"
	InsightStickiness InsightType = "STICKINESS"
	InsightLifecycle  InsightType = "LIFECYCLE"
)

// EntityFilter is the owner-facing shape of one entry.
type EntityFilter struct {
	ID           any              `json:"id" yaml:"id" mapstructure:"id"`
	Type         Kind             `json:"type" yaml:"type" mapstructure:"type"`
	Order        int              `json:"order" yaml:"order" mapstructure:"order"`
	Name         string           `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	CustomName   string           `json:"custom_name,omitempty" yaml:"custom_name,omitempty" mapstructure:"custom_name"`
	Math         string           `json:"math,omitempty" yaml:"math,omitempty" mapstructure:"math"`
	MathProperty string           `json:"math_property,omitempty" yaml:"math_property,omitempty" mapstructure:"math_property"`
	Properties   []PropertyFilter `json:"properties,omitempty" yaml:"properties,omitempty" mapstructure:"properties"`
}

// FilterSet is the external representation of the whole entry collection.
// Actions and events live in separate lists; their interleaving is encoded
// by each EntityFilter's Order.
type FilterSet struct {
	Insight   InsightType    `json:"insight,omitempty" yaml:"insight,omitempty"`
	Breakdown string         `json:"breakdown,omitempty" yaml:"breakdown,omitempty"`
	Interval  string         `json:"interval,omitempty" yaml:"interval,omitempty"`
	DateFrom  string         `json:"date_from,omitempty" yaml:"date_from,omitempty"`
	DateTo    string         `json:"date_to,omitempty" yaml:"date_to,omitempty"`
	Actions   []EntityFilter `json:"actions,omitempty" yaml:"actions,omitempty"`
	Events    []EntityFilter `json:"events,omitempty" yaml:"events,omitempty"`
}

// Len is the number of entity filters across both lists.
func (fs FilterSet) Len() int { return len(fs.Actions) + len(fs.Events) }

// FromFilters parses the entity lists of fs into an ordered entry sequence.
// Entities that are neither a valid action nor a valid event are dropped;
// the second return value counts them. Entries are sorted by their declared
// order (actions before events on ties) and then renumbered by position.
// newKey mints the Key of every entry.
func FromFilters(fs FilterSet, newKey func() string) ([]Entry, int) {
	type candidate struct {
		entry Entry
		order int
	}
	var (
		cands   []candidate
		dropped int
	)
	collect := func(list []EntityFilter, listKind Kind) {
		for _, w := range list {
			e, err := entryFromWire(w, listKind)
			if err != nil {
				dropped++
				continue
			}
			e.Key = newKey()
			cands = append(cands, candidate{entry: e, order: w.Order})
		}
	}
	collect(fs.Actions, KindAction)
	collect(fs.Events, KindEvent)

	sort.SliceStable(cands, func(i, j int) bool { return cands[i].order < cands[j].order })
	out := make([]Entry, len(cands))
	for i, c := range cands {
		out[i] = c.entry
	}
	renumber(out)
	return out, dropped
}

// ToFilters returns a copy of base whose entity lists are rebuilt from
// entries. Every other field of base is carried over untouched.
func ToFilters(base FilterSet, entries []Entry) FilterSet {
	out := base
	out.Actions = nil
	out.Events = nil
	for i, e := range entries {
		w := entryToWire(e)
		w.Order = i
		if e.Kind() == KindAction {
			out.Actions = append(out.Actions, w)
		} else {
			out.Events = append(out.Events, w)
		}
	}
	return out
}

func entryToWire(e Entry) EntityFilter {
	target := e.Target
	if target == nil {
		target = EventTarget{}
	}
	w := EntityFilter{
		ID:           target.wireID(),
		Type:         target.Kind(),
		Order:        e.Order,
		Name:         e.Name,
		CustomName:   e.CustomName,
		Math:         e.Math,
		MathProperty: e.MathProperty,
	}
	if len(e.Properties) > 0 {
		w.Properties = append([]PropertyFilter(nil), e.Properties...)
	}
	return w
}

// entryFromWire validates one entity. listKind is used when the entity
// carries no type of its own.
func entryFromWire(w EntityFilter, listKind Kind) (Entry, error) {
	kind := w.Type
	if kind == "" {
		kind = listKind
	}
	target, err := decodeTarget(kind, w.ID)
	if err != nil {
		return Entry{}, err
	}
	e := Entry{
		Order:        w.Order,
		Target:       target,
		Name:         w.Name,
		CustomName:   w.CustomName,
		Math:         w.Math,
		MathProperty: w.MathProperty,
	}
	if len(w.Properties) > 0 {
		e.Properties = append([]PropertyFilter(nil), w.Properties...)
	}
	return e, nil
}

func decodeTarget(kind Kind, id any) (Target, error) {
	switch kind {
	case KindEvent:
		switch v := id.(type) {
		case nil:
			return EventTarget{}, nil
		case string:
			return EventTarget{Event: v}, nil
		}
		return nil, fmt.Errorf("event id must be a name, got %T", id)
	case KindAction:
		n, err := actionID(id)
		if err != nil {
			return nil, err
		}
		return ActionTarget{ID: n}, nil
	}
	return nil, fmt.Errorf("unknown entity type %q", kind)
}

func actionID(id any) (int64, error) {
	switch v := id.(type) {
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint64:
		if v > math.MaxInt64 {
			break
		}
		return int64(v), nil
	case float64:
		// float64(math.MaxInt64) rounds up to 2^63, hence the strict bound
		if v == math.Trunc(v) && v >= math.MinInt64 && v < math.MaxInt64 {
			return int64(v), nil
		}
	case json.Number:
		return v.Int64()
	case string:
		return strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	}
	return 0, fmt.Errorf("action id must be an integer, got %v (%T)", id, id)
}
