package entity

import (
	"fmt"
	"time"
)

type FlightStatus string

const (
	FlightStatusScheduled FlightStatus = "SCHEDULED"
	FlightStatusBoarding  FlightStatus = "BOARDING"
	FlightStatusDeparted  FlightStatus = "DEPARTED"
	FlightStatusDelayed   FlightStatus = "DELAYED"
	FlightStatusCancelled FlightStatus = "CANCELLED"
	FlightStatusArrived   FlightStatus = "ARRIVED"
)

func (s FlightStatus) Valid() bool {
	switch s {
	case FlightStatusScheduled, FlightStatusBoarding, FlightStatusDeparted,
		FlightStatusDelayed, FlightStatusCancelled, FlightStatusArrived:
		return true
	}
	return false
}

type FlightEventType string

const (
	EventTypeStatusUpdate FlightEventType = "status_update"
	EventTypeGateChange   FlightEventType = "gate_change"
	EventTypeCancellation FlightEventType = "cancellation"
)

// FlightEvent is a single inbound status report for a flight on a given day.
// SourceSequence is monotonic per (flight_number, scheduled_date) and is the
// idempotency handle for replays.
type FlightEvent struct {
	FlightNumber     string          `json:"flight_number"`
	ScheduledDate    string          `json:"scheduled_date"`
	EventType        FlightEventType `json:"event_type"`
	ObservedStatus   FlightStatus    `json:"observed_status,omitempty"`
	DelayMinutes     *int            `json:"delay_minutes,omitempty"`
	Gate             string          `json:"gate,omitempty"`
	Terminal         string          `json:"terminal,omitempty"`
	Origin           string          `json:"origin,omitempty"`
	Destination      string          `json:"destination,omitempty"`
	ScheduledArrival time.Time       `json:"scheduled_arrival,omitempty"`
	EstimatedArrival time.Time       `json:"estimated_arrival,omitempty"`
	Timestamp        time.Time       `json:"timestamp"`
	SourceSequence   int64           `json:"source_sequence"`
}

func (e FlightEvent) Key() string {
	return e.FlightNumber + "/" + e.ScheduledDate
}

// Validate returns a field -> message map, empty when the event is admissible.
func (e FlightEvent) Validate() map[string]string {
	errs := map[string]string{}

	if e.FlightNumber == "" {
		errs["flight_number"] = "flight number is required"
	} else if len(e.FlightNumber) > 20 {
		errs["flight_number"] = "flight number must be 20 characters or less"
	}

	if e.ScheduledDate == "" {
		errs["scheduled_date"] = "scheduled date is required"
	} else if _, err := time.Parse("2006-01-02", e.ScheduledDate); err != nil {
		errs["scheduled_date"] = "scheduled date must be in YYYY-MM-DD format"
	}

	switch e.EventType {
	case EventTypeStatusUpdate:
		if !e.ObservedStatus.Valid() {
			errs["observed_status"] = fmt.Sprintf("observed status %q is not a known flight status", e.ObservedStatus)
		}
	case EventTypeGateChange:
		if e.Gate == "" {
			errs["gate"] = "gate is required for a gate change"
		}
	case EventTypeCancellation:
	case "":
		errs["event_type"] = "event type is required"
	default:
		errs["event_type"] = fmt.Sprintf("unknown event type %q", e.EventType)
	}

	if e.DelayMinutes != nil && *e.DelayMinutes < 0 {
		errs["delay_minutes"] = "delay minutes must not be negative"
	}

	if e.Timestamp.IsZero() {
		errs["timestamp"] = "timestamp is required"
	}

	if e.SourceSequence <= 0 {
		errs["source_sequence"] = "source sequence must be a positive integer"
	}

	return errs
}

// EffectiveDelay resolves the delay carried by the event: the explicit
// delay_minutes when present, otherwise the scheduled vs estimated arrival
// gap, floored at zero.
func (e FlightEvent) EffectiveDelay() int {
	if e.DelayMinutes != nil {
		return *e.DelayMinutes
	}
	if !e.ScheduledArrival.IsZero() && !e.EstimatedArrival.IsZero() {
		minutes := int(e.EstimatedArrival.Sub(e.ScheduledArrival).Minutes())
		if minutes > 0 {
			return minutes
		}
	}
	return 0
}
