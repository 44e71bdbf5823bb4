package filter

import "strings"

// RenameTarget names the entry whose rename dialog is open.
type RenameTarget struct {
	Key   string
	Index int
	Entry Entry
	View  InsightType
}

// RenameSession tracks whether a rename dialog is open. It is tied to the
// store generation it was opened in, so any Load closes it.
type RenameSession struct {
	store      *Store
	key        string
	generation uint64
	open       bool
}

// NewRenameSession returns a closed session over store.
func NewRenameSession(store *Store) *RenameSession {
	return &RenameSession{store: store}
}

// OpenFor opens the dialog for the entry at index.
func (r *RenameSession) OpenFor(index int) error {
	e, ok := r.store.Entry(index)
	if !ok {
		return ErrIndexOutOfRange
	}
	r.key = e.Key
	r.generation = r.store.Generation()
	r.open = true
	return nil
}

// IsOpen reports whether the dialog is open against the current data.
func (r *RenameSession) IsOpen() bool {
	if !r.open {
		return false
	}
	if r.generation != r.store.Generation() || r.store.IndexOf(r.key) < 0 {
		r.close()
		return false
	}
	return true
}

// Target returns the entry being renamed.
func (r *RenameSession) Target() (RenameTarget, bool) {
	if !r.IsOpen() {
		return RenameTarget{}, false
	}
	idx := r.store.IndexOf(r.key)
	e, _ := r.store.Entry(idx)
	return RenameTarget{Key: r.key, Index: idx, Entry: e, View: r.store.Base().Insight}, true
}

// Confirm closes the dialog and writes name as the entry's custom name.
// A blank name clears the custom name.
func (r *RenameSession) Confirm(name string) error {
	t, ok := r.Target()
	if !ok {
		return ErrNoRenameTarget
	}
	r.close()
	return r.store.Update(t.Index, Patch{CustomName: Ptr(strings.TrimSpace(name))})
}

// Cancel closes the dialog without changes.
func (r *RenameSession) Cancel() {
	r.close()
}

func (r *RenameSession) close() {
	r.open = false
	r.key = ""
}
