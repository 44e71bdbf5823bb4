package repository

import (
	"time"

	"github.com/jask/actionfilter/internal/filter"
)

// Insight is a saved series or funnel definition. Filters is owned by the
// insight; editors only ever see copies of it.
type Insight struct {
	ID        string
	ShortID   string
	Name      string
	Type      filter.InsightType
	Filters   filter.FilterSet
	Revision  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EventDefinition is a known raw event name.
type EventDefinition struct {
	Name        string
	Description string
	Volume30d   int64
}

// Action is a saved, named grouping of events.
type Action struct {
	ID          int64
	Name        string
	Description string
}
