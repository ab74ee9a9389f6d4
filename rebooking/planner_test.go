package rebooking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightops/entity"
	"flightops/gateway"
)

type recordingBookings struct {
	original  entity.Booking
	next      entity.Booking
	totalCost int
	err       error
}

func (r *recordingBookings) Rebook(ctx context.Context, original entity.Booking, next entity.Booking, totalCost int) error {
	if r.err != nil {
		return r.err
	}
	r.original = original
	r.next = next
	r.totalCost = totalCost
	return nil
}

func testPlanner(t *testing.T, candidates []entity.CandidateFlight, bookings BookingsRepository) Planner {
	t.Helper()

	inventory := &gateway.InventoryMock{}
	inventory.Seed("BOM", "DEL", "2026-09-02", candidates)

	return NewPlanner(inventory, bookings, DefaultPolicy())
}

func originalBooking() entity.Booking {
	return entity.Booking{
		ID:            "b-original",
		CustomerID:    "cust-1",
		FlightNumber:  "QP1101",
		Origin:        "BOM",
		Destination:   "DEL",
		DepartDate:    "2026-09-01",
		DepartureTime: "08:30",
		Price:         5000,
		Status:        entity.BookingStatusConfirmed,
	}
}

func TestPlanner_PlanOptions_ranking(t *testing.T) {
	planner := testPlanner(t, []entity.CandidateFlight{
		{FlightNumber: "QP1301", DepartureTime: "18:00", Price: 7600},
		{FlightNumber: "QP1205", DepartureTime: "09:15", Price: 6200},
		{FlightNumber: "QP1407", DepartureTime: "06:00", Price: 4800},
	}, &recordingBookings{})

	options, err := planner.PlanOptions(context.Background(), originalBooking(), "2026-09-02", nil)
	require.NoError(t, err)
	require.Len(t, options, 3)

	// ranked by total cost: 4800 costs only the downgrade fee
	assert.Equal(t, "QP1407", options[0].Candidate.FlightNumber)
	assert.Equal(t, 200, options[0].Cost.TotalCost)
	assert.Equal(t, 200, options[0].Cost.RefundAmount)

	assert.Equal(t, "QP1205", options[1].Candidate.FlightNumber)
	assert.Equal(t, 1700, options[1].Cost.TotalCost)

	assert.Equal(t, "QP1301", options[2].Candidate.FlightNumber)
	assert.Equal(t, 3100, options[2].Cost.TotalCost)

	for _, option := range options {
		assert.False(t, option.OverBudget)
	}
}

func TestPlanner_PlanOptions_tie_break_on_departure_time(t *testing.T) {
	planner := testPlanner(t, []entity.CandidateFlight{
		{FlightNumber: "QP1900", DepartureTime: "21:00", Price: 5000},
		{FlightNumber: "QP1203", DepartureTime: "09:00", Price: 5000},
	}, &recordingBookings{})

	options, err := planner.PlanOptions(context.Background(), originalBooking(), "2026-09-02", nil)
	require.NoError(t, err)
	require.Len(t, options, 2)

	// equal total cost, the departure closest to the original 08:30 wins
	assert.Equal(t, "QP1203", options[0].Candidate.FlightNumber)
}

func TestPlanner_PlanOptions_budget(t *testing.T) {
	candidates := []entity.CandidateFlight{
		{FlightNumber: "QP1407", DepartureTime: "06:00", Price: 4800},
		{FlightNumber: "QP1205", DepartureTime: "09:15", Price: 6200},
		{FlightNumber: "QP1301", DepartureTime: "18:00", Price: 7600},
	}

	t.Run("tolerance keeps near-budget fares, flagged", func(t *testing.T) {
		planner := testPlanner(t, candidates, &recordingBookings{})

		budget := 7000 // 10% tolerance admits fares up to 7700
		options, err := planner.PlanOptions(context.Background(), originalBooking(), "2026-09-02", &budget)
		require.NoError(t, err)
		require.Len(t, options, 3)

		assert.False(t, options[0].OverBudget)
		assert.False(t, options[1].OverBudget)
		assert.True(t, options[2].OverBudget, "7600 exceeds the budget even though tolerance admits it")
	})

	t.Run("hard cut beyond tolerance", func(t *testing.T) {
		planner := testPlanner(t, candidates, &recordingBookings{})

		budget := 6000 // limit 6600 cuts the 7600 fare
		options, err := planner.PlanOptions(context.Background(), originalBooking(), "2026-09-02", &budget)
		require.NoError(t, err)
		require.Len(t, options, 2)
		assert.Equal(t, "QP1407", options[0].Candidate.FlightNumber)
		assert.Equal(t, "QP1205", options[1].Candidate.FlightNumber)
	})

	t.Run("nothing within budget returns the full flagged list", func(t *testing.T) {
		planner := testPlanner(t, candidates, &recordingBookings{})

		budget := 3000
		options, err := planner.PlanOptions(context.Background(), originalBooking(), "2026-09-02", &budget)
		require.NoError(t, err)
		require.Len(t, options, 3)
		for _, option := range options {
			assert.True(t, option.OverBudget)
		}
	})
}

func TestPlanner_PlanOptions_empty_inventory(t *testing.T) {
	planner := testPlanner(t, nil, &recordingBookings{})

	options, err := planner.PlanOptions(context.Background(), originalBooking(), "2026-09-02", nil)
	require.NoError(t, err)
	assert.Empty(t, options)
}

func TestPlanner_PlanOptions_inventory_error(t *testing.T) {
	inventory := &gateway.InventoryMock{Err: errors.New("inventory down")}
	planner := NewPlanner(inventory, &recordingBookings{}, DefaultPolicy())

	_, err := planner.PlanOptions(context.Background(), originalBooking(), "2026-09-02", nil)
	assert.Error(t, err)
}

func TestPlanner_AutoRebook(t *testing.T) {
	bookings := &recordingBookings{}
	planner := testPlanner(t, nil, bookings)

	candidate := entity.CandidateFlight{FlightNumber: "QP1205", DepartureTime: "09:15", Price: 6200}

	summary, err := planner.AutoRebook(context.Background(), originalBooking(), candidate, "2026-09-02")
	require.NoError(t, err)

	assert.Equal(t, "QP1101", summary.OriginalFlight)
	assert.Equal(t, "QP1205", summary.NewFlight)
	assert.Equal(t, "2026-09-02", summary.NewDate)
	assert.Equal(t, 1700, summary.Cost.TotalCost)
	assert.NotEmpty(t, summary.ConfirmationCode)
	assert.NotEqual(t, "b-original", summary.NewBooking.ID)

	// the repository got both sides of the swap and the computed cost
	assert.Equal(t, "b-original", bookings.original.ID)
	assert.Equal(t, "b-original", bookings.next.OriginalBookingID)
	assert.Equal(t, entity.BookingStatusConfirmed, bookings.next.Status)
	assert.Equal(t, 1700, bookings.totalCost)
	assert.NotEmpty(t, bookings.next.SeatNumber)
	assert.NotEmpty(t, bookings.next.Gate)

	// seat assignment is deterministic for the same flight and date
	summary2, err := planner.AutoRebook(context.Background(), originalBooking(), candidate, "2026-09-02")
	require.NoError(t, err)
	assert.Equal(t, summary.NewBooking.SeatNumber, summary2.NewBooking.SeatNumber)
	assert.NotEqual(t, summary.ConfirmationCode, summary2.ConfirmationCode)
}

func TestPlanner_AutoRebook_refuses_cancelled_booking(t *testing.T) {
	planner := testPlanner(t, nil, &recordingBookings{})

	booking := originalBooking()
	booking.Status = entity.BookingStatusCancelled

	_, err := planner.AutoRebook(context.Background(), booking, entity.CandidateFlight{FlightNumber: "QP1205"}, "2026-09-02")
	assert.ErrorIs(t, err, entity.ErrAlreadyCancelled)
}

func TestPlanner_AutoRebook_repository_failure(t *testing.T) {
	bookings := &recordingBookings{err: errors.New("transaction aborted")}
	planner := testPlanner(t, nil, bookings)

	_, err := planner.AutoRebook(context.Background(), originalBooking(), entity.CandidateFlight{FlightNumber: "QP1205"}, "2026-09-02")
	assert.Error(t, err)
}
