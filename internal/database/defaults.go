package database

import (
	"context"
	"database/sql"

	"github.com/jask/actionfilter/internal/database/repository"
)

var defaultEvents = []repository.EventDefinition{
	{Name: "$pageview", Description: "A page was viewed", Volume30d: 120000},
	{Name: "$autocapture", Description: "Automatically captured interaction", Volume30d: 90000},
	{Name: "$pageleave", Description: "A page was left", Volume30d: 80000},
	{Name: "$identify", Description: "A user was identified", Volume30d: 8000},
	{Name: "signed_up", Description: "Account created", Volume30d: 1200},
	{Name: "checkout_started", Description: "Checkout flow opened", Volume30d: 900},
	{Name: "purchase_completed", Description: "Order paid", Volume30d: 400},
}

var defaultActions = []repository.Action{
	{ID: 1, Name: "Signed up", Description: "signed_up or onboarding form submit"},
	{ID: 2, Name: "Clicked pricing CTA", Description: "autocapture on the pricing button"},
	{ID: 3, Name: "Completed purchase", Description: "purchase_completed with a non-zero total"},
}

// SeedDefaults fills an empty catalog with a baseline set of events and
// actions. It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	events := repository.NewEventDefinitionRepo(db)
	existing, err := events.List(ctx)
	if err == nil && len(existing) > 0 {
		return nil
	}
	for _, e := range defaultEvents {
		if err := events.Upsert(ctx, e); err != nil {
			return err
		}
	}
	actions := repository.NewActionRepo(db)
	for _, a := range defaultActions {
		if err := actions.Upsert(ctx, a); err != nil {
			return err
		}
	}
	return nil
}
