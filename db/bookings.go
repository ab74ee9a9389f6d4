package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/jmoiron/sqlx"

	"flightops/entity"
	"flightops/pubsub/bus"
	"flightops/pubsub/outbox"
)

type BookingsPostgresRepository struct {
	db     *sqlx.DB
	logger watermill.LoggerAdapter
}

func NewBookingsPostgresRepository(db *sqlx.DB, logger watermill.LoggerAdapter) *BookingsPostgresRepository {
	return &BookingsPostgresRepository{db: db, logger: logger}
}

func (r *BookingsPostgresRepository) Store(ctx context.Context, booking entity.Booking) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO bookings (
			booking_id, customer_id, flight_number, origin, destination, depart_date,
			departure_time, price, status, confirmation_code, seat_number, gate, terminal,
			original_booking_id, created_at, updated_at
		) VALUES (
			:booking_id, :customer_id, :flight_number, :origin, :destination, :depart_date,
			:departure_time, :price, :status, :confirmation_code, :seat_number, :gate, :terminal,
			:original_booking_id, :created_at, :updated_at
		)
		ON CONFLICT DO NOTHING -- ignore if already exists
	`, booking)
	if err != nil {
		return fmt.Errorf("could not store booking: %w", err)
	}
	return nil
}

func (r *BookingsPostgresRepository) Get(ctx context.Context, bookingID string) (entity.Booking, error) {
	var booking entity.Booking
	err := r.db.GetContext(ctx, &booking, `
		SELECT booking_id, customer_id, flight_number, origin, destination, depart_date,
			departure_time, price, status, confirmation_code, seat_number, gate, terminal,
			original_booking_id, created_at, updated_at
		FROM bookings
		WHERE booking_id = $1
	`, bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Booking{}, fmt.Errorf("booking %s: %w", bookingID, entity.ErrNotFound)
	}
	if err != nil {
		return entity.Booking{}, fmt.Errorf("could not get booking: %w", err)
	}

	return booking, nil
}

func (r *BookingsPostgresRepository) FindByFlight(ctx context.Context, flightNumber, departDate string, statuses []entity.BookingStatus) ([]entity.Booking, error) {
	query, args, err := sqlx.In(`
		SELECT booking_id, customer_id, flight_number, origin, destination, depart_date,
			departure_time, price, status, confirmation_code, seat_number, gate, terminal,
			original_booking_id, created_at, updated_at
		FROM bookings
		WHERE flight_number = ? AND depart_date = ? AND status IN (?)
	`, flightNumber, departDate, statuses)
	if err != nil {
		return nil, fmt.Errorf("could not build bookings query: %w", err)
	}

	var bookings []entity.Booking
	if err := r.db.SelectContext(ctx, &bookings, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("could not query bookings for %s/%s: %w", flightNumber, departDate, err)
	}

	return bookings, nil
}

// Rebook cancels the original booking and stores the new one in a single
// transaction, publishing BookingRebooked through the outbox so the event
// commits with the writes. A failure on either write leaves the original
// booking untouched.
func (r *BookingsPostgresRepository) Rebook(ctx context.Context, original entity.Booking, next entity.Booking, totalCost int) (err error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{
		Isolation: sql.LevelSerializable,
	})
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			rollbackErr := tx.Rollback()
			err = errors.Join(err, rollbackErr)
			return
		}
		err = tx.Commit()
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE bookings SET status = $1, updated_at = NOW()
		WHERE booking_id = $2 AND status <> $1
	`, string(entity.BookingStatusCancelled), original.ID)
	if err != nil {
		return fmt.Errorf("could not cancel original booking: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not cancel original booking: %w", err)
	}
	if affected == 0 {
		return entity.ErrAlreadyCancelled
	}

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO bookings (
			booking_id, customer_id, flight_number, origin, destination, depart_date,
			departure_time, price, status, confirmation_code, seat_number, gate, terminal,
			original_booking_id, created_at, updated_at
		) VALUES (
			:booking_id, :customer_id, :flight_number, :origin, :destination, :depart_date,
			:departure_time, :price, :status, :confirmation_code, :seat_number, :gate, :terminal,
			:original_booking_id, :created_at, :updated_at
		)
	`, next)
	if err != nil {
		return fmt.Errorf("could not store new booking: %w", err)
	}

	outboxPublisher, err := outbox.NewPublisherForDB(tx.Tx, r.logger)
	if err != nil {
		return fmt.Errorf("could not create outbox publisher: %w", err)
	}

	eventBus, err := bus.NewEventBus(outboxPublisher)
	if err != nil {
		return fmt.Errorf("could not create event bus: %w", err)
	}

	err = eventBus.Publish(ctx, entity.BookingRebooked{
		Header:            entity.NewEventHeader(),
		OriginalBookingID: original.ID,
		NewBookingID:      next.ID,
		CustomerID:        next.CustomerID,
		FlightNumber:      next.FlightNumber,
		DepartDate:        next.DepartDate,
		ConfirmationCode:  next.ConfirmationCode,
		TotalCost:         totalCost,
	})
	if err != nil {
		return fmt.Errorf("could not publish rebooked event: %w", err)
	}

	return nil
}
