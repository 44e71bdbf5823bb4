package filter

// Move returns a copy of entries with the element at from removed and
// reinserted at to, renumbered by position. It is a single-element move, not
// a swap: moving 0 to 2 in [A B C D] yields [B C A D].
func Move(entries []Entry, from, to int) []Entry {
	out := cloneEntries(entries)
	moved := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]Entry{moved}, out[to:]...)...)
	renumber(out)
	return out
}

// ReorderCoordinator applies the final position pair reported by a drag.
type ReorderCoordinator struct {
	store *Store
	// OnReorder fires after the push when an entry actually changed
	// position.
	OnReorder func()
}

// NewReorderCoordinator binds a coordinator to store.
func NewReorderCoordinator(store *Store, onReorder func()) *ReorderCoordinator {
	return &ReorderCoordinator{store: store, OnReorder: onReorder}
}

// Reorder moves the entry at oldIndex to newIndex and pushes the result
// exactly once. A drop where it started is pushed but not reported.
func (c *ReorderCoordinator) Reorder(oldIndex, newIndex int) error {
	n := c.store.Len()
	if oldIndex < 0 || oldIndex >= n || newIndex < 0 || newIndex >= n {
		return ErrIndexOutOfRange
	}
	c.store.commit(Move(c.store.entries, oldIndex, newIndex))
	if oldIndex != newIndex && c.OnReorder != nil {
		c.OnReorder()
	}
	return nil
}
