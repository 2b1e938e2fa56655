package leads

import (
	"context"
	"database/sql"
	"fmt"
)

// sqliteSchema mirrors the Postgres migrations for the embedded driver.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS leads (
		id TEXT PRIMARY KEY,
		workflow_id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		phone TEXT NOT NULL,
		email TEXT NOT NULL,
		source TEXT NOT NULL,
		interest TEXT NOT NULL DEFAULT '',
		budget_range TEXT NOT NULL DEFAULT '',
		existing_customer BOOLEAN NOT NULL DEFAULT FALSE,
		score INTEGER NOT NULL DEFAULT 0,
		classification TEXT NOT NULL DEFAULT 'cold_lead',
		stage TEXT NOT NULL DEFAULT 'new',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_stage ON leads(stage)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at)`,
	`CREATE TABLE IF NOT EXISTS interactions (
		id TEXT PRIMARY KEY,
		lead_id TEXT REFERENCES leads(id) ON DELETE SET NULL,
		agent TEXT NOT NULL,
		action TEXT NOT NULL,
		status TEXT NOT NULL,
		details TEXT,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_interactions_lead ON interactions(lead_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS scheduled_actions (
		id TEXT PRIMARY KEY,
		lead_id TEXT REFERENCES leads(id) ON DELETE SET NULL,
		action_name TEXT NOT NULL,
		scheduled_for TIMESTAMP NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_scheduled_actions_due ON scheduled_actions(status, scheduled_for)`,
}

// EnsureSchema creates the lead store tables on SQLite. Postgres schemas are
// managed by cmd/migrate.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range sqliteSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
