package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jask/actionfilter/internal/config"
	"github.com/jask/actionfilter/internal/database"
	"github.com/jask/actionfilter/internal/database/repository"
	"github.com/jask/actionfilter/internal/logger"
	"github.com/jask/actionfilter/internal/service"
)

var cfgFile string

// app is everything commands share once the database is ready.
type app struct {
	cfg      config.Config
	db       *sql.DB
	insights *service.InsightService
	catalog  *service.CatalogService
	maint    *service.MaintenanceService
	logFile  io.Closer
}

var deps *app

var rootCmd = &cobra.Command{
	Use:   "actionfilter",
	Short: "Edit the event and action series of saved insights",
	Long: `actionfilter keeps saved insights in a local sqlite database and
edits their ordered lists of events and actions from the terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		deps = a
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if deps != nil {
			deps.close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.config/actionfilter/config.toml)")
	rootCmd.AddCommand(newCmd(), listCmd(), showCmd(), editCmd(), exportCmd(), importCmd(), deleteCmd(), demoCmd(), resetCmd(), configCmd())
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func bootstrap(ctx context.Context) (*app, error) {
	var (
		cfg config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.LoadFile(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	a := &app{cfg: cfg}
	var logOut io.Writer = io.Discard
	if cfg.Log.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir log dir: %w", err)
		}
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		logOut, a.logFile = f, f
	}
	logger.Setup(logOut, cfg.Log.Level)
	logger.Debug("config loaded", "file", cfgFile, "level", cfg.Log.Level)

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	if err := database.RunMigrations(cfg.Database.Path, cfg.Database.Migrations); err != nil {
		logger.ErrorContext(ctx, "migrations failed", "path", cfg.Database.Migrations, "err", err)
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := database.SeedDefaults(ctx, db); err != nil {
		logger.ErrorContext(ctx, "seeding defaults failed", "err", err)
		db.Close()
		return nil, fmt.Errorf("seed defaults: %w", err)
	}
	a.db = db

	// repositories
	a.insights = &service.InsightService{
		Insights: repository.NewInsightRepo(db),
		Editor:   cfg.Editor,
		Log:      logger.With("component", "insights"),
	}
	a.catalog = &service.CatalogService{
		Events:  repository.NewEventDefinitionRepo(db),
		Actions: repository.NewActionRepo(db),
	}
	a.maint = &service.MaintenanceService{DB: db}
	logger.InfoContext(ctx, "ready", "db", cfg.Database.Path)
	return a, nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
}
