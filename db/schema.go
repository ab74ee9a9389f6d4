package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

func InitializeDatabaseSchema(db *sqlx.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS flight_states (
			flight_number       TEXT        NOT NULL,
			scheduled_date      TEXT        NOT NULL,
			status              TEXT        NOT NULL,
			delay_minutes       INT         NOT NULL DEFAULT 0,
			gate                TEXT        NOT NULL DEFAULT '',
			terminal            TEXT        NOT NULL DEFAULT '',
			origin              TEXT        NOT NULL DEFAULT '',
			destination         TEXT        NOT NULL DEFAULT '',
			scheduled_arrival   TIMESTAMPTZ NULL,
			estimated_arrival   TIMESTAMPTZ NULL,
			last_event_sequence BIGINT      NOT NULL DEFAULT 0,
			version             BIGINT      NOT NULL DEFAULT 0,
			last_updated        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (flight_number, scheduled_date)
		);

		CREATE TABLE IF NOT EXISTS alerts (
			alert_id              TEXT        PRIMARY KEY,
			flight_number         TEXT        NOT NULL,
			scheduled_date        TEXT        NOT NULL,
			disruption_type       TEXT        NOT NULL,
			severity              TEXT        NOT NULL,
			message               TEXT        NOT NULL DEFAULT '',
			affected_customer_ids TEXT[]      NOT NULL DEFAULT '{}',
			dedup_key             TEXT        NOT NULL,
			state_version         BIGINT      NOT NULL DEFAULT 0,
			created_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			resolved              BOOLEAN     NOT NULL DEFAULT FALSE,
			resolved_at           TIMESTAMPTZ NULL
		);
		CREATE INDEX IF NOT EXISTS alerts_unresolved_scope_idx
			ON alerts (flight_number, scheduled_date, disruption_type)
			WHERE NOT resolved;

		CREATE TABLE IF NOT EXISTS bookings (
			booking_id          TEXT        PRIMARY KEY,
			customer_id         TEXT        NOT NULL,
			flight_number       TEXT        NOT NULL,
			origin              TEXT        NOT NULL,
			destination         TEXT        NOT NULL,
			depart_date         TEXT        NOT NULL,
			departure_time      TEXT        NOT NULL DEFAULT '',
			price               INT         NOT NULL DEFAULT 0,
			status              TEXT        NOT NULL,
			confirmation_code   TEXT        NOT NULL DEFAULT '',
			seat_number         TEXT        NOT NULL DEFAULT '',
			gate                TEXT        NOT NULL DEFAULT '',
			terminal            TEXT        NOT NULL DEFAULT '',
			original_booking_id TEXT        NOT NULL DEFAULT '',
			created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS bookings_flight_idx
			ON bookings (flight_number, depart_date, status);

		CREATE TABLE IF NOT EXISTS dead_letters (
			message_id  TEXT        PRIMARY KEY,
			topic       TEXT        NOT NULL DEFAULT '',
			handler     TEXT        NOT NULL DEFAULT '',
			reason      TEXT        NOT NULL DEFAULT '',
			payload     BYTEA       NOT NULL DEFAULT ''::bytea,
			occurred_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		return fmt.Errorf("could not initialize database schema: %w", err)
	}

	return nil
}
