package filter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromFiltersInterleavesByOrder(t *testing.T) {
	entries, dropped := FromFilters(fourSteps(), seqKeys())
	require.Zero(t, dropped)
	require.Equal(t, []string{"A", "B", "C", "D"}, names(entries))
	requireContiguousOrder(t, entries)
	assert.Equal(t, KindEvent, entries[0].Kind())
	assert.Equal(t, KindAction, entries[1].Kind())
	assert.Equal(t, ActionTarget{ID: 2}, entries[3].Target)
	assert.Equal(t, "k1", entries[1].Key, "actions are collected first")
}

func TestRoundTripPreservesFilterSet(t *testing.T) {
	in := fourSteps()
	in.Breakdown = "$browser"
	in.Interval = "day"
	in.Events[1].Math = MathSum
	in.Events[1].MathProperty = "revenue"
	in.Actions[0].CustomName = "Signed up"
	in.Actions[0].Properties = []PropertyFilter{{Key: "$os", Value: "Mac OS X", Operator: "exact", Type: "event"}}

	entries, _ := FromFilters(in, seqKeys())
	out := ToFilters(in, entries)
	require.Equal(t, in, out)
}

func TestRoundTripThroughJSON(t *testing.T) {
	raw := `{"insight":"TRENDS","events":[{"id":"$pageview","type":"events","order":1,"name":"$pageview"},{"id":null,"type":"events","order":2}],"actions":[{"id":7,"type":"actions","order":0,"name":"Signup"}]}`
	var fs FilterSet
	require.NoError(t, json.Unmarshal([]byte(raw), &fs))

	entries, dropped := FromFilters(fs, seqKeys())
	require.Zero(t, dropped)
	require.Len(t, entries, 3)
	assert.Equal(t, ActionTarget{ID: 7}, entries[0].Target)
	assert.Equal(t, EventTarget{}, entries[2].Target)
	assert.Equal(t, "All events", entries[2].DisplayName())

	again, err := json.Marshal(ToFilters(fs, entries))
	require.NoError(t, err)
	require.JSONEq(t, raw, string(again))
}

func TestFromFiltersDropsUnrecognisedEntities(t *testing.T) {
	fs := FilterSet{
		Events: []EntityFilter{
			event("ok", 0),
			{ID: 42, Type: KindEvent, Order: 1},
			{ID: "x", Type: "new_entity", Order: 2},
		},
		Actions: []EntityFilter{
			{ID: "not-a-number", Type: KindAction, Order: 3},
			{ID: 1.5, Type: KindAction, Order: 4},
			{ID: "12", Order: 5, Name: "typed by list"},
		},
	}
	entries, dropped := FromFilters(fs, seqKeys())
	require.Equal(t, 4, dropped)
	require.Equal(t, []string{"ok", "typed by list"}, names(entries))
	assert.Equal(t, ActionTarget{ID: 12}, entries[1].Target)
	requireContiguousOrder(t, entries)
}

func TestFromFiltersDropsOutOfRangeActionIDs(t *testing.T) {
	var fs FilterSet
	raw := `{"actions":[{"id":1e19,"type":"actions","order":0},{"id":-1e19,"type":"actions","order":1},{"id":9007199254740992,"type":"actions","order":2}]}`
	require.NoError(t, json.Unmarshal([]byte(raw), &fs))

	entries, dropped := FromFilters(fs, seqKeys())
	require.Equal(t, 2, dropped)
	require.Len(t, entries, 1)
	assert.Equal(t, ActionTarget{ID: 1 << 53}, entries[0].Target)

	_, dropped = FromFilters(FilterSet{Actions: []EntityFilter{{ID: 1e19, Type: KindAction}}}, seqKeys())
	require.Equal(t, 1, dropped)
}

func TestFromFiltersEmptyAndRenumbersGaps(t *testing.T) {
	entries, dropped := FromFilters(FilterSet{}, seqKeys())
	require.Empty(t, entries)
	require.Zero(t, dropped)

	gappy := FilterSet{Events: []EntityFilter{event("late", 9), event("early", 3), event("tie", 3)}}
	entries, _ = FromFilters(gappy, seqKeys())
	require.Equal(t, []string{"early", "tie", "late"}, names(entries))
	require.Equal(t, []int{0, 1, 2}, orders(entries))
}

func TestToFiltersWritesPositionAsOrder(t *testing.T) {
	entries := []Entry{
		{Target: ActionTarget{ID: 3}, Name: "a", Order: 5},
		{Name: "zero value"},
	}
	fs := ToFilters(FilterSet{Insight: InsightTrends}, entries)
	require.Len(t, fs.Actions, 1)
	require.Len(t, fs.Events, 1)
	assert.Equal(t, 0, fs.Actions[0].Order)
	assert.Equal(t, int64(3), fs.Actions[0].ID)
	assert.Equal(t, 1, fs.Events[0].Order)
	assert.Nil(t, fs.Events[0].ID)
	assert.Equal(t, KindEvent, fs.Events[0].Type)
}
