package entity

import (
	"time"
)

// FlightState is the canonical per-(flight, date) record. It is mutated only
// through WithEvent, which computes the next state without touching the
// receiver, so persistence is always compute-then-commit.
type FlightState struct {
	FlightNumber      string       `json:"flight_number" db:"flight_number"`
	ScheduledDate     string       `json:"scheduled_date" db:"scheduled_date"`
	Status            FlightStatus `json:"status" db:"status"`
	DelayMinutes      int          `json:"delay_minutes" db:"delay_minutes"`
	Gate              string       `json:"gate" db:"gate"`
	Terminal          string       `json:"terminal" db:"terminal"`
	Origin            string       `json:"origin" db:"origin"`
	Destination       string       `json:"destination" db:"destination"`
	ScheduledArrival  time.Time    `json:"scheduled_arrival" db:"scheduled_arrival"`
	EstimatedArrival  time.Time    `json:"estimated_arrival" db:"estimated_arrival"`
	LastEventSequence int64        `json:"last_event_sequence" db:"last_event_sequence"`
	Version           int64        `json:"version" db:"version"`
	LastUpdated       time.Time    `json:"last_updated" db:"last_updated"`
}

func (s FlightState) Key() string {
	return s.FlightNumber + "/" + s.ScheduledDate
}

// NewFlightState is the baseline record for a flight that has not been seen
// before.
func NewFlightState(flightNumber, scheduledDate string) FlightState {
	return FlightState{
		FlightNumber:  flightNumber,
		ScheduledDate: scheduledDate,
		Status:        FlightStatusScheduled,
	}
}

// WithEvent applies event to s and returns the next state plus whether the
// event caused an accepted mutation (a version bump).
//
// Replays (source_sequence <= last_event_sequence) return s unchanged. Once a
// flight is CANCELLED no later event can revive it: the sequence cursor still
// advances so replays stay idempotent, but status, version and the rest of the
// record are untouched.
func (s FlightState) WithEvent(event FlightEvent, now time.Time) (FlightState, bool) {
	if event.SourceSequence <= s.LastEventSequence {
		return s, false
	}

	next := s
	next.LastEventSequence = event.SourceSequence

	if s.Status == FlightStatusCancelled {
		return next, false
	}

	switch event.EventType {
	case EventTypeCancellation:
		next.Status = FlightStatusCancelled
	case EventTypeStatusUpdate:
		next.Status = event.ObservedStatus
		next.DelayMinutes = event.EffectiveDelay()
		if !event.ScheduledArrival.IsZero() {
			next.ScheduledArrival = event.ScheduledArrival
		}
		if !event.EstimatedArrival.IsZero() {
			next.EstimatedArrival = event.EstimatedArrival
		}
	case EventTypeGateChange:
		next.Gate = event.Gate
		if event.Terminal != "" {
			next.Terminal = event.Terminal
		}
	}

	if event.Origin != "" {
		next.Origin = event.Origin
	}
	if event.Destination != "" {
		next.Destination = event.Destination
	}

	next.Version = s.Version + 1
	next.LastUpdated = now

	return next, true
}
