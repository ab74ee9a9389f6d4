package db

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightops/entity"
)

func TestFlightStatesPostgresRepository_Apply(t *testing.T) {
	ctx := context.Background()
	repo := NewFlightStatesPostgresRepository(GetDb(t))

	flightNumber := "QP" + uuid.NewString()[:6]
	date := "2026-09-01"

	delay := 50
	event := entity.FlightEvent{
		FlightNumber:   flightNumber,
		ScheduledDate:  date,
		EventType:      entity.EventTypeStatusUpdate,
		ObservedStatus: entity.FlightStatusDelayed,
		DelayMinutes:   &delay,
		Timestamp:      time.Now().UTC(),
		SourceSequence: 1,
	}

	previous, next, transitioned, err := repo.Apply(ctx, event)
	require.NoError(t, err)
	assert.True(t, transitioned)
	assert.Equal(t, entity.FlightStatusScheduled, previous.Status)
	assert.Equal(t, entity.FlightStatusDelayed, next.Status)
	assert.Equal(t, 50, next.DelayMinutes)
	assert.Equal(t, int64(1), next.Version)

	// a replay of the same sequence is absorbed
	_, replayed, transitioned, err := repo.Apply(ctx, event)
	require.NoError(t, err)
	assert.False(t, transitioned)
	assert.Equal(t, int64(1), replayed.Version)

	// cancellation wins over any later event
	_, next, transitioned, err = repo.Apply(ctx, entity.FlightEvent{
		FlightNumber:   flightNumber,
		ScheduledDate:  date,
		EventType:      entity.EventTypeCancellation,
		Timestamp:      time.Now().UTC(),
		SourceSequence: 2,
	})
	require.NoError(t, err)
	assert.True(t, transitioned)
	assert.Equal(t, entity.FlightStatusCancelled, next.Status)

	_, next, transitioned, err = repo.Apply(ctx, entity.FlightEvent{
		FlightNumber:   flightNumber,
		ScheduledDate:  date,
		EventType:      entity.EventTypeStatusUpdate,
		ObservedStatus: entity.FlightStatusBoarding,
		Timestamp:      time.Now().UTC(),
		SourceSequence: 3,
	})
	require.NoError(t, err)
	assert.False(t, transitioned)
	assert.Equal(t, entity.FlightStatusCancelled, next.Status)
	assert.Equal(t, int64(3), next.LastEventSequence)

	stored, err := repo.Get(ctx, flightNumber, date)
	require.NoError(t, err)
	assert.Equal(t, entity.FlightStatusCancelled, stored.Status)
	assert.Equal(t, int64(2), stored.Version)
}

func TestFlightStatesPostgresRepository_Get_not_found(t *testing.T) {
	repo := NewFlightStatesPostgresRepository(GetDb(t))

	_, err := repo.Get(context.Background(), "QP0000", "2026-09-01")
	assert.ErrorIs(t, err, entity.ErrNotFound)
}
