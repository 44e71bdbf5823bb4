package filter

import (
	"fmt"
	"log/slog"

	"github.com/go-viper/mapstructure/v2"
	"github.com/google/uuid"

	"github.com/jask/actionfilter/internal/logger"
)

// DefaultEvent is the event a freshly added entry points at.
const DefaultEvent = "$pageview"

// Store holds the canonical ordered entry sequence. It is a cache of the
// owner's filter set: every mutation is pushed out synchronously and the
// owner may answer with Load at any time, including from inside the push.
//
// A Store is not safe for concurrent use.
type Store struct {
	base       FilterSet
	entries    []Entry
	limit      int
	push       func(FilterSet)
	newKey     func() string
	generation uint64
	log        *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithKeyFunc overrides how entry keys are minted.
func WithKeyFunc(fn func() string) StoreOption {
	return func(s *Store) { s.newKey = fn }
}

// WithLogger sets the store's logger.
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) { s.log = l }
}

// NewStore returns an empty store. push receives the full filter set after
// every mutation and may be nil.
func NewStore(limit int, push func(FilterSet), opts ...StoreOption) *Store {
	s := &Store{
		limit:  limit,
		push:   push,
		newKey: uuid.NewString,
		log:    logger.Get(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the whole sequence with the entries parsed from fs.
// Unrecognised entities are dropped and the load proceeds with the rest.
func (s *Store) Load(fs FilterSet) {
	entries, dropped := FromFilters(fs, s.newKey)
	if dropped > 0 {
		s.log.Debug("dropped unrecognised entities", "dropped", dropped, "kept", len(entries))
	}
	s.base = fs
	s.base.Actions, s.base.Events = nil, nil
	s.entries = entries
	s.generation++
}

// Generation increases on every Load.
func (s *Store) Generation() uint64 { return s.generation }

// Base is the last loaded filter set without its entity lists.
func (s *Store) Base() FilterSet { return s.base }

func (s *Store) Len() int { return len(s.entries) }

func (s *Store) Limit() int { return s.limit }

// Entries returns a copy of the sequence.
func (s *Store) Entries() []Entry { return cloneEntries(s.entries) }

// Entry returns a copy of the entry at index.
func (s *Store) Entry(index int) (Entry, bool) {
	if index < 0 || index >= len(s.entries) {
		return Entry{}, false
	}
	return s.entries[index].clone(), true
}

// IndexOf finds the position of the entry with key.
func (s *Store) IndexOf(key string) int {
	for i, e := range s.entries {
		if e.Key == key {
			return i
		}
	}
	return -1
}

// Filters serialises the current sequence.
func (s *Store) Filters() FilterSet { return ToFilters(s.base, s.entries) }

// ReachedLimit reports the limit policy for the current length.
func (s *Store) ReachedLimit() bool { return Reached(len(s.entries), s.limit) }

// Add appends an entry built from defaults on top of an all-defaults
// pageview entry. Keys in defaults use the owner's field names (id, type,
// name, math, ...).
func (s *Store) Add(defaults map[string]any) error {
	if s.ReachedLimit() {
		return ErrLimitReached
	}
	e, err := s.newEntry(defaults)
	if err != nil {
		return err
	}
	next := cloneEntries(s.entries)
	next = append(next, e)
	s.commit(next)
	return nil
}

func (s *Store) newEntry(defaults map[string]any) (Entry, error) {
	w := EntityFilter{Type: KindEvent}
	if len(defaults) > 0 {
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &w,
			TagName:          "mapstructure",
			WeaklyTypedInput: true,
		})
		if err != nil {
			return Entry{}, err
		}
		if err := dec.Decode(defaults); err != nil {
			return Entry{}, fmt.Errorf("filter: decode add defaults: %w", err)
		}
	}
	if _, ok := defaults["id"]; !ok && w.Type == KindEvent {
		w.ID = DefaultEvent
		if w.Name == "" {
			w.Name = DefaultEvent
		}
	}
	e, err := entryFromWire(w, KindEvent)
	if err != nil {
		return Entry{}, fmt.Errorf("filter: add defaults: %w", err)
	}
	e.Key = s.newKey()
	return e, nil
}

// Update merges patch into the entry at index.
func (s *Store) Update(index int, patch Patch) error {
	if index < 0 || index >= len(s.entries) {
		return ErrIndexOutOfRange
	}
	next := cloneEntries(s.entries)
	next[index] = next[index].apply(patch)
	s.commit(next)
	return nil
}

// Remove deletes the entry at index and shifts the rest up by one.
func (s *Store) Remove(index int) error {
	if index < 0 || index >= len(s.entries) {
		return ErrIndexOutOfRange
	}
	next := make([]Entry, 0, len(s.entries)-1)
	for i, e := range s.entries {
		if i != index {
			next = append(next, e.clone())
		}
	}
	s.commit(next)
	return nil
}

// Duplicate inserts a copy of the entry at index directly after it.
func (s *Store) Duplicate(index int) error {
	if index < 0 || index >= len(s.entries) {
		return ErrIndexOutOfRange
	}
	if s.ReachedLimit() {
		return ErrLimitReached
	}
	dup := s.entries[index].clone()
	dup.Key = s.newKey()
	next := make([]Entry, 0, len(s.entries)+1)
	next = append(next, cloneEntries(s.entries[:index+1])...)
	next = append(next, dup)
	next = append(next, cloneEntries(s.entries[index+1:])...)
	s.commit(next)
	return nil
}

// commit installs next and pushes it. next must not be touched afterwards:
// the push may reenter Load and replace the sequence.
func (s *Store) commit(next []Entry) {
	renumber(next)
	s.entries = next
	fs := ToFilters(s.base, next)
	if s.push != nil {
		s.push(fs)
	}
}
