// Package memory holds in-memory implementations of the repository contracts.
// They back dev mode and the hermetic tests; the postgres implementations in
// package db are their production counterparts.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"flightops/entity"
)

type FlightStatesRepository struct {
	mu     sync.Mutex
	states map[string]entity.FlightState
}

func NewFlightStatesRepository() *FlightStatesRepository {
	return &FlightStatesRepository{states: make(map[string]entity.FlightState)}
}

func (r *FlightStatesRepository) Apply(ctx context.Context, event entity.FlightEvent) (previous, next entity.FlightState, transitioned bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous, ok := r.states[event.Key()]
	if !ok {
		previous = entity.NewFlightState(event.FlightNumber, event.ScheduledDate)
	}

	next, transitioned = previous.WithEvent(event, time.Now().UTC())
	if next.LastEventSequence != previous.LastEventSequence {
		r.states[event.Key()] = next
	} else {
		next = previous
	}

	return previous, next, transitioned, nil
}

func (r *FlightStatesRepository) Get(ctx context.Context, flightNumber, scheduledDate string) (entity.FlightState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.states[flightNumber+"/"+scheduledDate]
	if !ok {
		return entity.FlightState{}, fmt.Errorf("flight %s/%s: %w", flightNumber, scheduledDate, entity.ErrNotFound)
	}
	return state, nil
}
