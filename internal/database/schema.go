package database

import (
	"context"
	"database/sql"
	"fmt"
)

// All timestamps are BIGINT Unix seconds UTC. Emails are stored
// lowercased so the UNIQUE index gives case-insensitive uniqueness.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS subscribers (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		unsubscribe_token TEXT NOT NULL UNIQUE,
		subscribed_at BIGINT,
		unsubscribed_at BIGINT,
		created_at BIGINT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS contact_lists (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		description TEXT,
		provider_segment_id TEXT,
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS list_members (
		list_id TEXT NOT NULL REFERENCES contact_lists(id) ON DELETE CASCADE,
		subscriber_id TEXT NOT NULL REFERENCES subscribers(id) ON DELETE CASCADE,
		added_at BIGINT NOT NULL,
		PRIMARY KEY (list_id, subscriber_id)
	)`,

	`CREATE TABLE IF NOT EXISTS campaigns (
		id TEXT PRIMARY KEY,
		subject TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'draft',
		scheduled_at BIGINT,
		schedule_type TEXT NOT NULL DEFAULT 'none',
		schedule_config JSONB,
		last_sent_at BIGINT,
		sent_at BIGINT,
		recipient_count INTEGER,
		contact_list_id TEXT REFERENCES contact_lists(id) ON DELETE SET NULL,
		template_id TEXT,
		reply_to TEXT,
		slug TEXT UNIQUE,
		is_published BOOLEAN NOT NULL DEFAULT FALSE,
		excerpt TEXT,
		ab_test_enabled BOOLEAN NOT NULL DEFAULT FALSE,
		ab_subject_b TEXT,
		ab_from_name_b TEXT,
		ab_wait_hours INTEGER NOT NULL DEFAULT 0,
		ab_test_sent_at BIGINT,
		ab_winner TEXT,
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS ab_test_remainders (
		campaign_id TEXT NOT NULL REFERENCES campaigns(id) ON DELETE CASCADE,
		subscriber_id TEXT NOT NULL,
		created_at BIGINT NOT NULL,
		PRIMARY KEY (campaign_id, subscriber_id)
	)`,

	`CREATE TABLE IF NOT EXISTS sequences (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		default_send_time TEXT NOT NULL DEFAULT '10:00',
		reply_to TEXT,
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS sequence_steps (
		id TEXT PRIMARY KEY,
		sequence_id TEXT NOT NULL REFERENCES sequences(id) ON DELETE CASCADE,
		step_number INTEGER NOT NULL CHECK (step_number >= 1),
		delay_days INTEGER NOT NULL DEFAULT 0 CHECK (delay_days >= 0),
		delay_time TEXT,
		delay_minutes INTEGER CHECK (delay_minutes >= 0),
		subject TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		template_id TEXT,
		is_enabled BOOLEAN NOT NULL DEFAULT TRUE,
		created_at BIGINT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sequence_steps_dispatch
		ON sequence_steps (sequence_id, step_number) WHERE is_enabled`,

	`CREATE TABLE IF NOT EXISTS sequence_enrollments (
		id TEXT PRIMARY KEY,
		subscriber_id TEXT NOT NULL REFERENCES subscribers(id) ON DELETE CASCADE,
		sequence_id TEXT NOT NULL REFERENCES sequences(id) ON DELETE CASCADE,
		current_step INTEGER NOT NULL DEFAULT 0,
		started_at BIGINT NOT NULL,
		completed_at BIGINT,
		UNIQUE (subscriber_id, sequence_id)
	)`,

	// Delivery logs are a retained audit trail: campaign_id and
	// sequence_id/sequence_step_id are deliberately unconstrained so that
	// deleting a sequence or swapping its steps never nulls the
	// attribution on historical rows (exactly one of campaign_id and
	// sequence_id stays non-null for the row's lifetime).
	`CREATE TABLE IF NOT EXISTS delivery_logs (
		id TEXT PRIMARY KEY,
		campaign_id TEXT,
		sequence_id TEXT,
		sequence_step_id TEXT,
		subscriber_id TEXT NOT NULL,
		email TEXT NOT NULL,
		email_subject TEXT,
		ab_variant TEXT,
		status TEXT NOT NULL,
		provider_message_id TEXT,
		sent_at BIGINT,
		delivered_at BIGINT,
		opened_at BIGINT,
		clicked_at BIGINT,
		error_message TEXT,
		created_at BIGINT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_delivery_logs_provider_message
		ON delivery_logs (provider_message_id)`,

	`CREATE INDEX IF NOT EXISTS idx_delivery_logs_campaign
		ON delivery_logs (campaign_id)`,

	`CREATE INDEX IF NOT EXISTS idx_delivery_logs_sequence_step
		ON delivery_logs (subscriber_id, sequence_id, sequence_step_id)`,

	`CREATE TABLE IF NOT EXISTS click_events (
		id TEXT PRIMARY KEY,
		delivery_log_id TEXT NOT NULL REFERENCES delivery_logs(id) ON DELETE CASCADE,
		subscriber_id TEXT NOT NULL,
		clicked_url TEXT NOT NULL,
		clicked_at BIGINT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_click_events_dedup
		ON click_events (delivery_log_id, clicked_url, clicked_at)`,

	`CREATE TABLE IF NOT EXISTS short_urls (
		id TEXT PRIMARY KEY,
		short_code TEXT NOT NULL UNIQUE,
		original_url TEXT NOT NULL,
		position INTEGER NOT NULL CHECK (position >= 1),
		campaign_id TEXT REFERENCES campaigns(id) ON DELETE CASCADE,
		sequence_step_id TEXT REFERENCES sequence_steps(id) ON DELETE CASCADE,
		created_at BIGINT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS brand_settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		primary_color TEXT NOT NULL,
		secondary_color TEXT NOT NULL,
		logo_url TEXT,
		footer_text TEXT NOT NULL,
		email_signature TEXT,
		default_template_id TEXT NOT NULL,
		updated_at BIGINT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS admin_users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		created_at BIGINT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS admin_sessions (
		token TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES admin_users(id) ON DELETE CASCADE,
		expires_at BIGINT NOT NULL,
		created_at BIGINT NOT NULL
	)`,
}

// EnsureSchema creates all tables and indexes if they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
