package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/jask/actionfilter/internal/config"
	"github.com/jask/actionfilter/internal/database"
	"github.com/jask/actionfilter/internal/database/repository"
	"github.com/jask/actionfilter/internal/filter"
	"github.com/jask/actionfilter/internal/logger"
)

// ErrInsightNotFound is returned when no insight matches an id or short id.
var ErrInsightNotFound = errors.New("insight not found")

// InsightService owns saved insights and the filter sets inside them.
type InsightService struct {
	Insights *repository.InsightRepo
	Editor   config.EditorConfig
	Log      *slog.Logger
}

func (s *InsightService) log() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return logger.Get()
}

// Create stores a new insight. Types limited to one entry get a default
// $pageview entry, since their editor offers no way to add one.
func (s *InsightService) Create(ctx context.Context, name string, typ filter.InsightType) (repository.Insight, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return repository.Insight{}, errors.New("insight name is required")
	}
	if typ == "" {
		typ = filter.InsightTrends
	}
	fs := filter.FilterSet{Insight: typ}
	if EditorProps(s.Editor, typ).EntitiesLimit == 1 {
		fs.Events = []filter.EntityFilter{{ID: filter.DefaultEvent, Type: filter.KindEvent, Order: 0, Name: filter.DefaultEvent}}
	}
	id := uuid.New()
	now := database.Now()
	in := repository.Insight{
		ID:        id.String(),
		ShortID:   strings.ReplaceAll(id.String(), "-", "")[:8],
		Name:      name,
		Type:      typ,
		Filters:   fs,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Insights.Upsert(ctx, in); err != nil {
		return repository.Insight{}, fmt.Errorf("create insight: %w", err)
	}
	s.log().Info("insight created", "id", in.ID, "short_id", in.ShortID, "type", typ)
	return in, nil
}

// Get looks an insight up by id or short id.
func (s *InsightService) Get(ctx context.Context, idOrShort string) (repository.Insight, error) {
	in, err := s.Insights.Get(ctx, idOrShort)
	if err != nil {
		return repository.Insight{}, err
	}
	if in == nil {
		return repository.Insight{}, fmt.Errorf("%w: %s", ErrInsightNotFound, idOrShort)
	}
	return *in, nil
}

func (s *InsightService) List(ctx context.Context) ([]repository.Insight, error) {
	return s.Insights.List(ctx)
}

func (s *InsightService) Delete(ctx context.Context, idOrShort string) error {
	in, err := s.Get(ctx, idOrShort)
	if err != nil {
		return err
	}
	return s.Insights.Delete(ctx, in.ID)
}

// EditorProps derives editor configuration for an insight type from the
// configured defaults.
func EditorProps(cfg config.EditorConfig, typ filter.InsightType) filter.Props {
	p := filter.Props{
		TypeKey:             "insight-" + strings.ToLower(string(typ)),
		EntitiesLimit:       cfg.EntitiesLimit,
		ButtonCopy:          cfg.ButtonCopy,
		Sortable:            cfg.Sortable,
		DragDistance:        cfg.DragDistance,
		ReadOnly:            cfg.ReadOnly,
		MathAvailability:    filter.ParseMathAvailability(cfg.MathAvailability),
		ShowSeriesIndicator: true,
		SeriesIndicatorType: filter.SeriesIndicatorType(cfg.SeriesIndicator),
		ShowOr:              cfg.ShowOr,
	}
	switch typ {
	case filter.InsightFunnels:
		p.EntitiesLimit = cfg.FunnelLimit
		p.SeriesIndicatorType = filter.SeriesNumeric
		p.MathAvailability = filter.MathNone
		if p.ButtonCopy == "" {
			p.ButtonCopy = "Add funnel step"
		}
	case filter.InsightRetention:
		p.EntitiesLimit = 1
		p.MathAvailability = filter.MathNone
		p.Sortable = false
		p.ShowSeriesIndicator = false
	case filter.InsightStickiness, filter.InsightLifecycle:
		p.MathAvailability = filter.MathActorsOnly
		p.Sortable = false
		p.ShowOr = true
	default:
		if p.ButtonCopy == "" {
			p.ButtonCopy = "Add graph series"
		}
	}
	return p
}

// Session is one open editor over one insight. It is the owner of the
// editor's filter set: every push is saved and loaded straight back.
type Session struct {
	svc      *InsightService
	ctx      context.Context
	insight  repository.Insight
	editor   *filter.Editor
	reorders int
	err      error
	log      *slog.Logger
}

// Open starts an editing session. Props come from EditorProps; override
// may adjust them before the editor is built.
func (s *InsightService) Open(ctx context.Context, idOrShort string, override func(*filter.Props)) (*Session, error) {
	in, err := s.Get(ctx, idOrShort)
	if err != nil {
		return nil, err
	}
	sess := &Session{svc: s, ctx: ctx, insight: in, log: s.log().With("insight", in.ShortID)}

	props := EditorProps(s.Editor, in.Type)
	props.SetFilters = sess.save
	props.OnReorder = sess.reordered
	props.Logger = sess.log
	if override != nil {
		override(&props)
	}
	ed, err := filter.New(props)
	if err != nil {
		return nil, err
	}
	sess.editor = ed
	sess.editor.Load(sess.external())
	return sess, nil
}

func (s *Session) external() filter.FilterSet {
	fs := s.insight.Filters
	if fs.Insight == "" {
		fs.Insight = s.insight.Type
	}
	return fs
}

// save persists fs and resynchronises the editor from the stored insight.
// Failures are kept for the host to show; the editor reloads the last good
// filter set so it never drifts from storage.
func (s *Session) save(fs filter.FilterSet) {
	rev, err := s.svc.Insights.UpdateFilters(s.ctx, s.insight.ID, s.insight.Revision, fs, database.Now())
	if err != nil {
		s.err = fmt.Errorf("save filters: %w", err)
		s.log.Error("save filters failed", "err", err)
		s.editor.Load(s.external())
		return
	}
	s.err = nil
	s.insight.Filters = fs
	s.insight.Revision = rev
	s.editor.Load(s.external())
}

func (s *Session) reordered() {
	s.reorders++
	s.log.Info("series reordered", "type", s.insight.Type)
}

func (s *Session) Editor() *filter.Editor { return s.editor }

func (s *Session) Insight() repository.Insight { return s.insight }

// Err is the last save failure, cleared by the next successful save.
func (s *Session) Err() error { return s.err }

// Reorders counts structural reorders in this session.
func (s *Session) Reorders() int { return s.reorders }

// Reload discards local state and reads the insight from storage again.
func (s *Session) Reload() error {
	in, err := s.svc.Get(s.ctx, s.insight.ID)
	if err != nil {
		return err
	}
	s.insight = in
	s.editor.Load(s.external())
	return nil
}
