package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jask/actionfilter/internal/filter"
)

// ErrStaleRevision is returned when an insight changed since it was read.
var ErrStaleRevision = errors.New("insight was modified concurrently")

// InsightRepo handles insights.
type InsightRepo struct {
	db *sql.DB
}

func NewInsightRepo(db *sql.DB) *InsightRepo { return &InsightRepo{db: db} }

const insightColumns = `id, short_id, name, insight_type, filters, revision, created_at, updated_at`

func (r *InsightRepo) Upsert(ctx context.Context, in Insight) error {
	raw, err := json.Marshal(in.Filters)
	if err != nil {
		return fmt.Errorf("encode filters: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
	INSERT INTO insights(id, short_id, name, insight_type, filters, revision, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 short_id=excluded.short_id,
	 name=excluded.name,
	 insight_type=excluded.insight_type,
	 filters=excluded.filters,
	 revision=insights.revision+1,
	 updated_at=excluded.updated_at;
	`, in.ID, in.ShortID, in.Name, string(in.Type), string(raw), in.Revision, in.CreatedAt, in.UpdatedAt)
	return err
}

// UpdateFilters replaces an insight's filter set if it is still at
// revision and returns the new revision.
func (r *InsightRepo) UpdateFilters(ctx context.Context, id string, revision int, fs filter.FilterSet, at time.Time) (int, error) {
	raw, err := json.Marshal(fs)
	if err != nil {
		return 0, fmt.Errorf("encode filters: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
	UPDATE insights SET filters = ?, revision = revision + 1, updated_at = ?
	WHERE id = ? AND revision = ?`, string(raw), at, id, revision)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrStaleRevision
	}
	return revision + 1, nil
}

// Get returns nil, nil when no insight matches id or short id.
func (r *InsightRepo) Get(ctx context.Context, idOrShort string) (*Insight, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+insightColumns+` FROM insights WHERE id = ? OR short_id = ?`, idOrShort, idOrShort)
	in, err := scanInsight(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return in, nil
}

func (r *InsightRepo) List(ctx context.Context) ([]Insight, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+insightColumns+` FROM insights ORDER BY updated_at DESC, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Insight
	for rows.Next() {
		in, err := scanInsight(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *in)
	}
	return out, rows.Err()
}

func (r *InsightRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM insights WHERE id = ?`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInsight(s rowScanner) (*Insight, error) {
	var (
		in  Insight
		typ string
		raw string
	)
	if err := s.Scan(&in.ID, &in.ShortID, &in.Name, &typ, &raw, &in.Revision, &in.CreatedAt, &in.UpdatedAt); err != nil {
		return nil, err
	}
	in.Type = filter.InsightType(typ)
	if err := json.Unmarshal([]byte(raw), &in.Filters); err != nil {
		return nil, fmt.Errorf("decode filters of %s: %w", in.ID, err)
	}
	return &in, nil
}
