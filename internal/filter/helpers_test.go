package filter

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/actionfilter/internal/logger"
)

func seqKeys() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("k%d", n)
	}
}

func event(name string, order int) EntityFilter {
	return EntityFilter{ID: name, Type: KindEvent, Order: order, Name: name}
}

func action(id int64, name string, order int) EntityFilter {
	return EntityFilter{ID: id, Type: KindAction, Order: order, Name: name}
}

// fourSteps interleaves actions and events: A(event) B(action) C(event) D(action).
func fourSteps() FilterSet {
	return FilterSet{
		Insight: InsightFunnels,
		Events:  []EntityFilter{event("A", 0), event("C", 2)},
		Actions: []EntityFilter{action(1, "B", 1), action(2, "D", 3)},
	}
}

type pushRecorder struct {
	pushes []FilterSet
}

func (p *pushRecorder) push(fs FilterSet) { p.pushes = append(p.pushes, fs) }

func (p *pushRecorder) last(t *testing.T) FilterSet {
	t.Helper()
	require.NotEmpty(t, p.pushes, "expected at least one push")
	return p.pushes[len(p.pushes)-1]
}

func newTestStore(limit int, rec *pushRecorder) *Store {
	return NewStore(limit, rec.push, WithKeyFunc(seqKeys()), WithLogger(logger.Discard()))
}

func names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func orders(entries []Entry) []int {
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.Order
	}
	return out
}

func requireContiguousOrder(t *testing.T, entries []Entry) {
	t.Helper()
	for i, e := range entries {
		require.Equal(t, i, e.Order, "entry %q at %d", e.Name, i)
	}
}
