package impact

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightops/db/memory"
	"flightops/entity"
)

func TestResolver_AffectedCustomers(t *testing.T) {
	ctx := context.Background()
	bookings := memory.NewBookingsRepository(nil)

	store := func(id, customerID string, status entity.BookingStatus) {
		require.NoError(t, bookings.Store(ctx, entity.Booking{
			ID:           id,
			CustomerID:   customerID,
			FlightNumber: "QP1101",
			DepartDate:   "2026-09-01",
			Status:       status,
		}))
	}

	store("b1", "cust-1", entity.BookingStatusConfirmed)
	store("b2", "cust-2", entity.BookingStatusPending)
	store("b3", "cust-3", entity.BookingStatusCancelled)
	store("b4", "cust-1", entity.BookingStatusConfirmed) // same customer twice

	resolver := NewResolver(bookings)

	customers, err := resolver.AffectedCustomers(ctx, "QP1101", "2026-09-01")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"cust-1", "cust-2"}, customers)

	customers, err = resolver.AffectedCustomers(ctx, "QP9999", "2026-09-01")
	require.NoError(t, err)
	assert.Empty(t, customers)
}

type failingBookings struct{}

func (failingBookings) FindByFlight(ctx context.Context, flightNumber, departDate string, statuses []entity.BookingStatus) ([]entity.Booking, error) {
	return nil, errors.New("connection refused")
}

func TestResolver_AffectedCustomers_propagates_errors(t *testing.T) {
	resolver := NewResolver(failingBookings{})

	_, err := resolver.AffectedCustomers(context.Background(), "QP1101", "2026-09-01")
	assert.Error(t, err, "a repository failure must not look like an empty customer set")
}
