package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/actionfilter/internal/database"
	"github.com/jask/actionfilter/internal/logger"
)

// MaintenanceService houses destructive actions surfaced through the CLI.
type MaintenanceService struct {
	DB *sql.DB
}

// Reset deletes every saved insight and restores the default catalog. The
// schema is kept so the app can continue running.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if err := database.WithTx(s.DB, func(tx *sql.Tx) error {
		for _, t := range []string{"insights", "actions", "event_definitions"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("reset table %s: %w", t, err)
			}
		}
		return nil
	}); err != nil {
		logger.ErrorContext(ctx, "reset failed", "err", err)
		return err
	}
	if err := database.SeedDefaults(ctx, s.DB); err != nil {
		logger.ErrorContext(ctx, "reseed failed", "err", err)
		return fmt.Errorf("reseed: %w", err)
	}
	if _, err := s.DB.ExecContext(ctx, "VACUUM"); err != nil {
		logger.Warn("vacuum failed", "err", err)
	}
	logger.InfoContext(ctx, "all insights deleted, catalog reseeded")
	return nil
}
