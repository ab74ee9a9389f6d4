package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"

	"flightops/entity"
)

type BookingsRepository struct {
	mu       sync.Mutex
	bookings map[string]entity.Booking
	eventBus *cqrs.EventBus
}

// NewBookingsRepository accepts a nil event bus; then BookingRebooked events
// are simply not emitted (unit-test setups that don't run a router).
func NewBookingsRepository(eventBus *cqrs.EventBus) *BookingsRepository {
	return &BookingsRepository{
		bookings: make(map[string]entity.Booking),
		eventBus: eventBus,
	}
}

func (r *BookingsRepository) Store(ctx context.Context, booking entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bookings[booking.ID]; exists {
		return nil
	}
	r.bookings[booking.ID] = booking
	return nil
}

func (r *BookingsRepository) Get(ctx context.Context, bookingID string) (entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	booking, ok := r.bookings[bookingID]
	if !ok {
		return entity.Booking{}, fmt.Errorf("booking %s: %w", bookingID, entity.ErrNotFound)
	}
	return booking, nil
}

func (r *BookingsRepository) FindByFlight(ctx context.Context, flightNumber, departDate string, statuses []entity.BookingStatus) ([]entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matches []entity.Booking
	for _, booking := range r.bookings {
		if booking.FlightNumber != flightNumber || booking.DepartDate != departDate {
			continue
		}
		for _, status := range statuses {
			if booking.Status == status {
				matches = append(matches, booking)
				break
			}
		}
	}
	return matches, nil
}

// Rebook cancels the original and stores the new booking under one lock;
// either both mutations happen or neither does.
func (r *BookingsRepository) Rebook(ctx context.Context, original entity.Booking, next entity.Booking, totalCost int) error {
	r.mu.Lock()

	current, ok := r.bookings[original.ID]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("booking %s: %w", original.ID, entity.ErrNotFound)
	}
	if current.Status == entity.BookingStatusCancelled {
		r.mu.Unlock()
		return entity.ErrAlreadyCancelled
	}
	if _, exists := r.bookings[next.ID]; exists {
		r.mu.Unlock()
		return fmt.Errorf("could not store new booking: id %s already exists: %w", next.ID, entity.ErrConflict)
	}

	current.Status = entity.BookingStatusCancelled
	current.UpdatedAt = time.Now().UTC()
	r.bookings[original.ID] = current
	r.bookings[next.ID] = next

	r.mu.Unlock()

	if r.eventBus == nil {
		return nil
	}
	return r.eventBus.Publish(ctx, entity.BookingRebooked{
		Header:            entity.NewEventHeader(),
		OriginalBookingID: original.ID,
		NewBookingID:      next.ID,
		CustomerID:        next.CustomerID,
		FlightNumber:      next.FlightNumber,
		DepartDate:        next.DepartDate,
		ConfirmationCode:  next.ConfirmationCode,
		TotalCost:         totalCost,
	})
}
