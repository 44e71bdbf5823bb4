package sample

import (
	"context"
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"github.com/jask/actionfilter/internal/database"
	"github.com/jask/actionfilter/internal/database/repository"
	"github.com/jask/actionfilter/internal/filter"
)

// Repos bundles repos used by Seed.
type Repos struct {
	Insights *repository.InsightRepo
	Events   *repository.EventDefinitionRepo
	Actions  *repository.ActionRepo
}

type plan struct {
	name  string
	typ   filter.InsightType
	count int
	math  bool
}

var plans = []plan{
	{name: "Weekly signups", typ: filter.InsightTrends, count: 3, math: true},
	{name: "Checkout funnel", typ: filter.InsightFunnels, count: 4},
	{name: "Returning buyers", typ: filter.InsightRetention, count: 1},
	{name: "Power users", typ: filter.InsightStickiness, count: 2},
}

var sampleProperties = []filter.PropertyFilter{
	{Key: "$browser", Value: "Chrome", Operator: "exact", Type: "event"},
	{Key: "plan", Value: "free", Operator: "is_not", Type: "person"},
	{Key: "$current_url", Value: "/pricing", Operator: "icontains", Type: "event"},
}

// Seed creates sample insights whose series point at random catalog
// entries. The same seed always yields the same filter sets.
func Seed(ctx context.Context, repos Repos, seed int64) ([]repository.Insight, error) {
	rng := rand.New(rand.NewSource(seed))

	events, err := repos.Events.List(ctx)
	if err != nil {
		return nil, err
	}
	actions, err := repos.Actions.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]repository.Insight, 0, len(plans))
	now := database.Now()
	for _, p := range plans {
		fs := filter.FilterSet{Insight: p.typ}
		for i := 0; i < p.count; i++ {
			ef := filter.EntityFilter{Order: i}
			if len(actions) > 0 && rng.Intn(3) == 0 {
				a := actions[rng.Intn(len(actions))]
				ef.ID, ef.Type, ef.Name = a.ID, filter.KindAction, a.Name
				fs.Actions = append(fs.Actions, withExtras(ef, p, rng))
				continue
			}
			if len(events) == 0 {
				continue
			}
			e := events[rng.Intn(len(events))]
			ef.ID, ef.Type, ef.Name = e.Name, filter.KindEvent, e.Name
			fs.Events = append(fs.Events, withExtras(ef, p, rng))
		}

		id := uuid.NewString()
		in := repository.Insight{
			ID:        id,
			ShortID:   strings.ReplaceAll(id, "-", "")[:8],
			Name:      p.name,
			Type:      p.typ,
			Filters:   fs,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := repos.Insights.Upsert(ctx, in); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, nil
}

func withExtras(ef filter.EntityFilter, p plan, rng *rand.Rand) filter.EntityFilter {
	if p.math && rng.Intn(2) == 0 {
		ef.Math = filter.MathDAU
	}
	if rng.Intn(2) == 0 {
		ef.Properties = []filter.PropertyFilter{sampleProperties[rng.Intn(len(sampleProperties))]}
	}
	return ef
}
