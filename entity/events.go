package entity

import (
	"time"

	"github.com/google/uuid"
)

type EventHeader struct {
	ID             string    `json:"id"`
	PublishedAt    time.Time `json:"published_at"`
	IdempotencyKey string    `json:"idempotency_key"`
}

func NewEventHeader() EventHeader {
	return EventHeader{
		ID:          uuid.NewString(),
		PublishedAt: time.Now().UTC(),
	}
}

func NewEventHeaderWithIdempotencyKey(idempotencyKey string) EventHeader {
	return EventHeader{
		ID:             uuid.NewString(),
		PublishedAt:    time.Now().UTC(),
		IdempotencyKey: idempotencyKey,
	}
}

// FlightEventReceived carries an admitted FlightEvent to the worker.
type FlightEventReceived struct {
	Header EventHeader `json:"header"`
	Event  FlightEvent `json:"event"`
}

// FlightDisrupted is published after an accepted state mutation classified as
// a disruption.
type FlightDisrupted struct {
	Header        EventHeader    `json:"header"`
	FlightNumber  string         `json:"flight_number"`
	ScheduledDate string         `json:"scheduled_date"`
	Type          DisruptionType `json:"disruption_type"`
	Severity      Severity       `json:"severity"`
	Message       string         `json:"message"`
	DelayMinutes  int            `json:"delay_minutes"`
	StateVersion  int64          `json:"state_version"`
}

// BookingRebooked is published from the same transaction that cancels the
// original booking and stores the new one.
type BookingRebooked struct {
	Header            EventHeader `json:"header"`
	OriginalBookingID string      `json:"original_booking_id"`
	NewBookingID      string      `json:"new_booking_id"`
	CustomerID        string      `json:"customer_id"`
	FlightNumber      string      `json:"flight_number"`
	DepartDate        string      `json:"depart_date"`
	ConfirmationCode  string      `json:"confirmation_code"`
	TotalCost         int         `json:"total_cost"`
}

// SendAlertNotification asks the notification collaborator to push an alert.
// It is a separate command so dispatch failures are retried without touching
// alert persistence.
type SendAlertNotification struct {
	Header EventHeader `json:"header"`
	Alert  Alert       `json:"alert"`
}
