// Package impact maps a disrupted flight to the distinct customers holding
// live bookings on it.
package impact

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"flightops/entity"
)

type BookingsRepository interface {
	FindByFlight(ctx context.Context, flightNumber, departDate string, statuses []entity.BookingStatus) ([]entity.Booking, error)
}

type Resolver struct {
	bookings BookingsRepository
}

func NewResolver(bookings BookingsRepository) Resolver {
	if bookings == nil {
		panic("missing bookings repository")
	}
	return Resolver{bookings: bookings}
}

// AffectedCustomers returns the distinct customer IDs with a CONFIRMED or
// PENDING booking on the flight. A collaborator failure is returned as an
// error, never as an empty customer set.
func (r Resolver) AffectedCustomers(ctx context.Context, flightNumber, departDate string) ([]string, error) {
	bookings, err := r.bookings.FindByFlight(ctx, flightNumber, departDate, []entity.BookingStatus{
		entity.BookingStatusConfirmed,
		entity.BookingStatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("could not query bookings for %s/%s: %w", flightNumber, departDate, err)
	}

	return lo.Uniq(lo.Map(bookings, func(b entity.Booking, _ int) string {
		return b.CustomerID
	})), nil
}
