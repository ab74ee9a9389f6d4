package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFlightState_WithEvent(t *testing.T) {
	now := time.Now().UTC()
	delay := 60

	state := NewFlightState("QP1101", "2026-09-01")

	next, transitioned := state.WithEvent(FlightEvent{
		FlightNumber:   "QP1101",
		ScheduledDate:  "2026-09-01",
		EventType:      EventTypeStatusUpdate,
		ObservedStatus: FlightStatusDelayed,
		DelayMinutes:   &delay,
		Origin:         "BOM",
		Destination:    "DEL",
		SourceSequence: 1,
	}, now)

	assert.True(t, transitioned)
	assert.Equal(t, FlightStatusDelayed, next.Status)
	assert.Equal(t, 60, next.DelayMinutes)
	assert.Equal(t, "BOM", next.Origin)
	assert.Equal(t, int64(1), next.Version)
	assert.Equal(t, int64(1), next.LastEventSequence)

	// replayed sequence changes nothing
	replayed, transitioned := next.WithEvent(FlightEvent{
		EventType:      EventTypeCancellation,
		SourceSequence: 1,
	}, now)
	assert.False(t, transitioned)
	assert.Equal(t, next, replayed)

	// out-of-order older sequence is also a replay
	_, transitioned = next.WithEvent(FlightEvent{
		EventType:      EventTypeGateChange,
		Gate:           "A1",
		SourceSequence: 0,
	}, now)
	assert.False(t, transitioned)
}

func TestFlightState_WithEvent_cancellation_is_terminal(t *testing.T) {
	now := time.Now().UTC()

	state := NewFlightState("QP1101", "2026-09-01")
	state, transitioned := state.WithEvent(FlightEvent{
		EventType:      EventTypeCancellation,
		SourceSequence: 1,
	}, now)
	assert.True(t, transitioned)
	assert.Equal(t, FlightStatusCancelled, state.Status)
	assert.Equal(t, int64(1), state.Version)

	// later events advance the cursor but never revive the flight
	next, transitioned := state.WithEvent(FlightEvent{
		EventType:      EventTypeStatusUpdate,
		ObservedStatus: FlightStatusBoarding,
		SourceSequence: 2,
	}, now)
	assert.False(t, transitioned)
	assert.Equal(t, FlightStatusCancelled, next.Status)
	assert.Equal(t, int64(2), next.LastEventSequence)
	assert.Equal(t, int64(1), next.Version)
}

func TestFlightState_WithEvent_gate_change(t *testing.T) {
	now := time.Now().UTC()

	state := NewFlightState("QP1101", "2026-09-01")
	state, _ = state.WithEvent(FlightEvent{
		EventType:      EventTypeGateChange,
		Gate:           "A1",
		Terminal:       "T1",
		SourceSequence: 1,
	}, now)
	assert.Equal(t, "A1", state.Gate)
	assert.Equal(t, "T1", state.Terminal)

	// a gate change without a terminal keeps the known terminal
	state, _ = state.WithEvent(FlightEvent{
		EventType:      EventTypeGateChange,
		Gate:           "B4",
		SourceSequence: 2,
	}, now)
	assert.Equal(t, "B4", state.Gate)
	assert.Equal(t, "T1", state.Terminal)
}

func TestFlightEvent_EffectiveDelay(t *testing.T) {
	scheduled := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	explicit := 30
	assert.Equal(t, 30, FlightEvent{DelayMinutes: &explicit}.EffectiveDelay())

	assert.Equal(t, 90, FlightEvent{
		ScheduledArrival: scheduled,
		EstimatedArrival: scheduled.Add(90 * time.Minute),
	}.EffectiveDelay())

	// an early arrival is not a delay
	assert.Equal(t, 0, FlightEvent{
		ScheduledArrival: scheduled,
		EstimatedArrival: scheduled.Add(-15 * time.Minute),
	}.EffectiveDelay())

	assert.Equal(t, 0, FlightEvent{}.EffectiveDelay())
}

func TestFlightEvent_Validate(t *testing.T) {
	valid := FlightEvent{
		FlightNumber:   "QP1101",
		ScheduledDate:  "2026-09-01",
		EventType:      EventTypeStatusUpdate,
		ObservedStatus: FlightStatusDelayed,
		Timestamp:      time.Now(),
		SourceSequence: 1,
	}
	assert.Empty(t, valid.Validate())

	negative := -5
	for name, event := range map[string]FlightEvent{
		"missing flight number": func() FlightEvent { e := valid; e.FlightNumber = ""; return e }(),
		"bad date":              func() FlightEvent { e := valid; e.ScheduledDate = "01-09-2026"; return e }(),
		"unknown event type":    func() FlightEvent { e := valid; e.EventType = "diverted"; return e }(),
		"unknown status":        func() FlightEvent { e := valid; e.ObservedStatus = "TAXIING"; return e }(),
		"negative delay":        func() FlightEvent { e := valid; e.DelayMinutes = &negative; return e }(),
		"missing timestamp":     func() FlightEvent { e := valid; e.Timestamp = time.Time{}; return e }(),
		"zero sequence":         func() FlightEvent { e := valid; e.SourceSequence = 0; return e }(),
		"gate change without gate": {
			FlightNumber:   "QP1101",
			ScheduledDate:  "2026-09-01",
			EventType:      EventTypeGateChange,
			Timestamp:      time.Now(),
			SourceSequence: 1,
		},
	} {
		t.Run(name, func(t *testing.T) {
			assert.NotEmpty(t, event.Validate())
		})
	}
}
