package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"flightops/entity"
)

type AlertsPostgresRepository struct {
	db *sqlx.DB
}

func NewAlertsPostgresRepository(db *sqlx.DB) *AlertsPostgresRepository {
	return &AlertsPostgresRepository{db: db}
}

type alertRow struct {
	ID                  string         `db:"alert_id"`
	FlightNumber        string         `db:"flight_number"`
	ScheduledDate       string         `db:"scheduled_date"`
	Type                string         `db:"disruption_type"`
	Severity            string         `db:"severity"`
	Message             string         `db:"message"`
	AffectedCustomerIDs pq.StringArray `db:"affected_customer_ids"`
	DedupKey            string         `db:"dedup_key"`
	StateVersion        int64          `db:"state_version"`
	CreatedAt           time.Time      `db:"created_at"`
	Resolved            bool           `db:"resolved"`
	ResolvedAt          *time.Time     `db:"resolved_at"`
}

func (r alertRow) toEntity() entity.Alert {
	return entity.Alert{
		ID:                  r.ID,
		FlightNumber:        r.FlightNumber,
		ScheduledDate:       r.ScheduledDate,
		Type:                entity.DisruptionType(r.Type),
		Severity:            entity.Severity(r.Severity),
		Message:             r.Message,
		AffectedCustomerIDs: r.AffectedCustomerIDs,
		DedupKey:            r.DedupKey,
		StateVersion:        r.StateVersion,
		CreatedAt:           r.CreatedAt,
		Resolved:            r.Resolved,
		ResolvedAt:          r.ResolvedAt,
	}
}

const alertColumns = `
	alert_id, flight_number, scheduled_date, disruption_type, severity, message,
	affected_customer_ids, dedup_key, state_version, created_at, resolved, resolved_at
`

// Raise performs the atomic check-and-set against the unresolved alert for the
// same flight/date/disruption type. Equal or lower severity returns the
// existing alert untouched; higher severity supersedes it (resolved, then a
// fresh alert is inserted) in the same transaction.
func (r *AlertsPostgresRepository) Raise(ctx context.Context, alert entity.Alert) (stored entity.Alert, created bool, err error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{
		Isolation: sql.LevelSerializable,
	})
	if err != nil {
		return entity.Alert{}, false, fmt.Errorf("could not begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			rollbackErr := tx.Rollback()
			err = errors.Join(err, rollbackErr)
			return
		}
		err = tx.Commit()
	}()

	var existing alertRow
	err = tx.GetContext(ctx, &existing, `
		SELECT `+alertColumns+`
		FROM alerts
		WHERE flight_number = $1 AND scheduled_date = $2 AND disruption_type = $3 AND NOT resolved
		FOR UPDATE
	`, alert.FlightNumber, alert.ScheduledDate, string(alert.Type))

	switch {
	case err == nil:
		if !alert.Severity.Worsens(entity.Severity(existing.Severity)) {
			return existing.toEntity(), false, nil
		}
		// Superseded, not deleted: the old alert stays queryable as resolved.
		_, err = tx.ExecContext(ctx, `
			UPDATE alerts SET resolved = TRUE, resolved_at = NOW()
			WHERE alert_id = $1
		`, existing.ID)
		if err != nil {
			return entity.Alert{}, false, fmt.Errorf("could not supersede alert %s: %w", existing.ID, err)
		}
	case errors.Is(err, sql.ErrNoRows):
		err = nil
	default:
		return entity.Alert{}, false, fmt.Errorf("could not check for existing alert: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO alerts (`+alertColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, FALSE, NULL)
	`, alert.ID, alert.FlightNumber, alert.ScheduledDate, string(alert.Type), string(alert.Severity),
		alert.Message, pq.StringArray(alert.AffectedCustomerIDs), alert.DedupKey, alert.StateVersion, alert.CreatedAt)
	if err != nil {
		return entity.Alert{}, false, fmt.Errorf("could not store alert: %w", err)
	}

	return alert, true, nil
}

// Resolve marks the alert resolved; resolving an already-resolved alert is a
// no-op that returns the alert as stored.
func (r *AlertsPostgresRepository) Resolve(ctx context.Context, alertID string) (entity.Alert, error) {
	_, err := r.db.ExecContext(ctx, `
		UPDATE alerts SET resolved = TRUE, resolved_at = NOW()
		WHERE alert_id = $1 AND NOT resolved
	`, alertID)
	if err != nil {
		return entity.Alert{}, fmt.Errorf("could not resolve alert %s: %w", alertID, err)
	}

	var row alertRow
	err = r.db.GetContext(ctx, &row, `
		SELECT `+alertColumns+`
		FROM alerts
		WHERE alert_id = $1
	`, alertID)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Alert{}, fmt.Errorf("alert %s: %w", alertID, entity.ErrNotFound)
	}
	if err != nil {
		return entity.Alert{}, fmt.Errorf("could not get alert %s: %w", alertID, err)
	}

	return row.toEntity(), nil
}

func (r *AlertsPostgresRepository) List(ctx context.Context, filter entity.AlertFilter) ([]entity.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE TRUE`
	args := []any{}

	if filter.Severity != nil {
		args = append(args, string(*filter.Severity))
		query += fmt.Sprintf(" AND severity = $%d", len(args))
	}
	if filter.Resolved != nil {
		args = append(args, *filter.Resolved)
		query += fmt.Sprintf(" AND resolved = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	var rows []alertRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("could not list alerts: %w", err)
	}

	alerts := make([]entity.Alert, 0, len(rows))
	for _, row := range rows {
		alerts = append(alerts, row.toEntity())
	}
	return alerts, nil
}
