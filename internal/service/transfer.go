package service

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jask/actionfilter/internal/database/repository"
	"github.com/jask/actionfilter/internal/filter"
)

// Document is the yaml form of one insight.
type Document struct {
	Name    string             `yaml:"name"`
	Type    filter.InsightType `yaml:"type"`
	Filters filter.FilterSet   `yaml:"filters"`
}

// Export writes the insight as yaml. Entity lists are normalised through
// the editor mapping so the file is always in order.
func (s *InsightService) Export(ctx context.Context, idOrShort string, w io.Writer) error {
	in, err := s.Get(ctx, idOrShort)
	if err != nil {
		return err
	}
	entries, dropped := filter.FromFilters(in.Filters, func() string { return "" })
	if dropped > 0 {
		s.log().Warn("export skipped unrecognised entities", "insight", in.ShortID, "dropped", dropped)
	}
	doc := Document{Name: in.Name, Type: in.Type, Filters: filter.ToFilters(in.Filters, entries)}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode %s: %w", in.ShortID, err)
	}
	return enc.Close()
}

// Import reads one yaml document and stores it as a new insight.
func (s *InsightService) Import(ctx context.Context, r io.Reader) (repository.Insight, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return repository.Insight{}, fmt.Errorf("decode insight: %w", err)
	}
	typ := doc.Type
	if typ == "" {
		typ = doc.Filters.Insight
	}
	in, err := s.Create(ctx, doc.Name, typ)
	if err != nil {
		return repository.Insight{}, err
	}
	entries, dropped := filter.FromFilters(doc.Filters, func() string { return "" })
	if dropped > 0 {
		s.log().Warn("import skipped unrecognised entities", "dropped", dropped)
	}
	fs := filter.ToFilters(doc.Filters, entries)
	fs.Insight = in.Type
	rev, err := s.Insights.UpdateFilters(ctx, in.ID, in.Revision, fs, in.UpdatedAt)
	if err != nil {
		return repository.Insight{}, err
	}
	in.Filters = fs
	in.Revision = rev
	return in, nil
}
