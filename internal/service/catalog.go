package service

import (
	"context"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jask/actionfilter/internal/database/repository"
	"github.com/jask/actionfilter/internal/filter"
)

// Candidate is one pickable event or action.
type Candidate struct {
	Target      filter.Target
	Label       string
	Description string
	Score       int
}

// Kind reports whether the candidate is an event or an action.
func (c Candidate) Kind() filter.Kind { return c.Target.Kind() }

// CatalogService searches the events and actions a row may point at.
type CatalogService struct {
	Events  *repository.EventDefinitionRepo
	Actions *repository.ActionRepo
}

// Search returns candidates from the requested groups ranked by how well
// their label matches query. An empty query returns everything in catalog
// order.
func (s *CatalogService) Search(ctx context.Context, query string, groups []filter.TaxonomicGroup) ([]Candidate, error) {
	if len(groups) == 0 {
		groups = filter.DefaultActionGroups
	}
	var all []Candidate
	for _, g := range groups {
		switch g {
		case filter.GroupEvents:
			evs, err := s.Events.List(ctx)
			if err != nil {
				return nil, err
			}
			for _, e := range evs {
				all = append(all, Candidate{Target: filter.EventTarget{Event: e.Name}, Label: e.Name, Description: e.Description})
			}
		case filter.GroupActions:
			acts, err := s.Actions.List(ctx)
			if err != nil {
				return nil, err
			}
			for _, a := range acts {
				all = append(all, Candidate{Target: filter.ActionTarget{ID: a.ID}, Label: a.Name, Description: a.Description})
			}
		}
	}
	return rank(all, query), nil
}

func rank(cands []Candidate, query string) []Candidate {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return cands
	}
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if score, ok := matchScore(c.Label, q); ok {
			c.Score = score
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return strings.ToLower(out[i].Label) < strings.ToLower(out[j].Label)
	})
	return out
}

// matchScore ranks exact over prefix over substring over near misses.
// Near misses are labels within 40% edit distance of the query.
func matchScore(label, q string) (int, bool) {
	l := strings.ToLower(label)
	switch {
	case l == q:
		return 1000, true
	case strings.HasPrefix(l, q):
		return 800 - len(l), true
	case strings.Contains(l, q):
		return 600 - strings.Index(l, q), true
	}
	dist := levenshtein.ComputeDistance(l, q)
	maxlen := len(l)
	if len(q) > maxlen {
		maxlen = len(q)
	}
	if maxlen == 0 || float64(dist)/float64(maxlen) >= 0.4 {
		return 0, false
	}
	return 400 - dist*10, true
}
