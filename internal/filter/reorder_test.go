package filter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMoveIsSingleElementMove(t *testing.T) {
	entries, _ := FromFilters(fourSteps(), seqKeys())
	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{name: "forward", from: 0, to: 2, want: []string{"B", "C", "A", "D"}},
		{name: "backward", from: 3, to: 1, want: []string{"A", "D", "B", "C"}},
		{name: "to end", from: 0, to: 3, want: []string{"B", "C", "D", "A"}},
		{name: "in place", from: 2, to: 2, want: []string{"A", "B", "C", "D"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Move(entries, tt.from, tt.to)
			require.Equal(t, tt.want, names(got))
			require.Equal(t, []int{0, 1, 2, 3}, orders(got))
		})
	}
	require.Equal(t, []string{"A", "B", "C", "D"}, names(entries), "input untouched")
}

func TestReorderPushesOnceAndSignals(t *testing.T) {
	rec := &pushRecorder{}
	s := newTestStore(0, rec)
	s.Load(fourSteps())
	signals := 0
	c := NewReorderCoordinator(s, func() { signals++ })

	require.NoError(t, c.Reorder(0, 2))
	require.Len(t, rec.pushes, 1)
	require.Equal(t, 1, signals)
	require.Equal(t, []string{"B", "C", "A", "D"}, names(s.Entries()))

	fs := rec.last(t)
	require.Equal(t, []EntityFilter{event("C", 1), event("A", 2)}, fs.Events)
	require.Equal(t, []EntityFilter{action(1, "B", 0), action(2, "D", 3)}, fs.Actions)
}

func TestReorderInPlaceDoesNotSignal(t *testing.T) {
	rec := &pushRecorder{}
	s := newTestStore(0, rec)
	s.Load(FilterSet{Events: []EntityFilter{
		event("a", 0), event("b", 1), event("c", 2), event("d", 3), event("e", 4),
	}})
	before := s.Entries()
	signals := 0
	c := NewReorderCoordinator(s, func() { signals++ })

	require.NoError(t, c.Reorder(2, 2))
	require.Equal(t, before, s.Entries())
	require.Zero(t, signals)
	require.Len(t, rec.pushes, 1)
}

func TestReorderRejectsOutOfRange(t *testing.T) {
	rec := &pushRecorder{}
	s := newTestStore(0, rec)
	s.Load(fourSteps())
	signals := 0
	c := NewReorderCoordinator(s, func() { signals++ })

	for _, pair := range [][2]int{{-1, 0}, {0, 4}, {4, 0}, {0, -2}} {
		require.ErrorIs(t, c.Reorder(pair[0], pair[1]), ErrIndexOutOfRange)
	}
	require.Equal(t, []string{"A", "B", "C", "D"}, names(s.Entries()))
	require.Empty(t, rec.pushes)
	require.Zero(t, signals)
}
