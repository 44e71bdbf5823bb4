package repository

import (
	"context"
	"database/sql"
	"errors"
)

// EventDefinitionRepo handles event definitions.
type EventDefinitionRepo struct {
	db *sql.DB
}

func NewEventDefinitionRepo(db *sql.DB) *EventDefinitionRepo { return &EventDefinitionRepo{db: db} }

func (r *EventDefinitionRepo) Upsert(ctx context.Context, e EventDefinition) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO event_definitions(name, description, volume_30d) VALUES (?, ?, ?)
	ON CONFLICT(name) DO UPDATE SET description=excluded.description, volume_30d=excluded.volume_30d;
	`, e.Name, e.Description, e.Volume30d)
	return err
}

func (r *EventDefinitionRepo) List(ctx context.Context) ([]EventDefinition, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, description, volume_30d FROM event_definitions ORDER BY volume_30d DESC, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []EventDefinition
	for rows.Next() {
		var e EventDefinition
		if err := rows.Scan(&e.Name, &e.Description, &e.Volume30d); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ActionRepo handles actions.
type ActionRepo struct {
	db *sql.DB
}

func NewActionRepo(db *sql.DB) *ActionRepo { return &ActionRepo{db: db} }

func (r *ActionRepo) Upsert(ctx context.Context, a Action) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO actions(id, name, description) VALUES (?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET name=excluded.name, description=excluded.description;
	`, a.ID, a.Name, a.Description)
	return err
}

func (r *ActionRepo) Get(ctx context.Context, id int64) (*Action, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, description FROM actions WHERE id = ?`, id)
	var a Action
	if err := row.Scan(&a.ID, &a.Name, &a.Description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *ActionRepo) List(ctx context.Context) ([]Action, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description FROM actions ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Action
	for rows.Next() {
		var a Action
		if err := rows.Scan(&a.ID, &a.Name, &a.Description); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
