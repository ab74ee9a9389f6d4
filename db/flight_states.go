package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"flightops/entity"
)

type FlightStatesPostgresRepository struct {
	db *sqlx.DB
}

func NewFlightStatesPostgresRepository(db *sqlx.DB) *FlightStatesPostgresRepository {
	return &FlightStatesPostgresRepository{db: db}
}

// Apply loads the current state, computes the transition and commits it in one
// transaction. Replayed events (sequence already seen) commit nothing.
func (r *FlightStatesPostgresRepository) Apply(ctx context.Context, event entity.FlightEvent) (previous, next entity.FlightState, transitioned bool, err error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{
		Isolation: sql.LevelSerializable,
	})
	if err != nil {
		return entity.FlightState{}, entity.FlightState{}, false, fmt.Errorf("could not begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			rollbackErr := tx.Rollback()
			err = errors.Join(err, rollbackErr)
			return
		}
		err = tx.Commit()
	}()

	previous, err = r.getForUpdate(ctx, tx, event.FlightNumber, event.ScheduledDate)
	if err != nil {
		return entity.FlightState{}, entity.FlightState{}, false, err
	}

	next, transitioned = previous.WithEvent(event, time.Now().UTC())
	if next.LastEventSequence == previous.LastEventSequence {
		// Replay; nothing to persist.
		return previous, previous, false, nil
	}

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO flight_states (
			flight_number, scheduled_date, status, delay_minutes, gate, terminal,
			origin, destination, scheduled_arrival, estimated_arrival,
			last_event_sequence, version, last_updated
		) VALUES (
			:flight_number, :scheduled_date, :status, :delay_minutes, :gate, :terminal,
			:origin, :destination, :scheduled_arrival, :estimated_arrival,
			:last_event_sequence, :version, :last_updated
		)
		ON CONFLICT (flight_number, scheduled_date) DO UPDATE SET
			status = EXCLUDED.status,
			delay_minutes = EXCLUDED.delay_minutes,
			gate = EXCLUDED.gate,
			terminal = EXCLUDED.terminal,
			origin = EXCLUDED.origin,
			destination = EXCLUDED.destination,
			scheduled_arrival = EXCLUDED.scheduled_arrival,
			estimated_arrival = EXCLUDED.estimated_arrival,
			last_event_sequence = EXCLUDED.last_event_sequence,
			version = EXCLUDED.version,
			last_updated = EXCLUDED.last_updated
	`, next)
	if err != nil {
		return entity.FlightState{}, entity.FlightState{}, false, fmt.Errorf("could not store flight state: %w", err)
	}

	return previous, next, transitioned, nil
}

func (r *FlightStatesPostgresRepository) Get(ctx context.Context, flightNumber, scheduledDate string) (entity.FlightState, error) {
	var state entity.FlightState
	err := r.db.GetContext(ctx, &state, `
		SELECT flight_number, scheduled_date, status, delay_minutes, gate, terminal,
			origin, destination, scheduled_arrival, estimated_arrival,
			last_event_sequence, version, last_updated
		FROM flight_states
		WHERE flight_number = $1 AND scheduled_date = $2
	`, flightNumber, scheduledDate)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.FlightState{}, fmt.Errorf("flight %s/%s: %w", flightNumber, scheduledDate, entity.ErrNotFound)
	}
	if err != nil {
		return entity.FlightState{}, fmt.Errorf("could not get flight state: %w", err)
	}

	return state, nil
}

func (r *FlightStatesPostgresRepository) getForUpdate(ctx context.Context, tx *sqlx.Tx, flightNumber, scheduledDate string) (entity.FlightState, error) {
	var state entity.FlightState
	err := tx.GetContext(ctx, &state, `
		SELECT flight_number, scheduled_date, status, delay_minutes, gate, terminal,
			origin, destination, scheduled_arrival, estimated_arrival,
			last_event_sequence, version, last_updated
		FROM flight_states
		WHERE flight_number = $1 AND scheduled_date = $2
		FOR UPDATE
	`, flightNumber, scheduledDate)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.NewFlightState(flightNumber, scheduledDate), nil
	}
	if err != nil {
		return entity.FlightState{}, fmt.Errorf("could not load flight state: %w", err)
	}

	return state, nil
}
