package db

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightops/entity"
)

func TestAlertsPostgresRepository_Raise_dedup_and_escalation(t *testing.T) {
	ctx := context.Background()
	repo := NewAlertsPostgresRepository(GetDb(t))

	flightNumber := "QP" + uuid.NewString()[:6]
	date := "2026-09-01"

	first := entity.NewAlert(flightNumber, date, entity.DisruptionDelay, entity.SeverityMedium,
		"Flight delayed by 60 minutes", []string{"cust-1"}, 1)

	stored, created, err := repo.Raise(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, first.ID, stored.ID)

	// same severity for the same unresolved scope is suppressed
	duplicate := entity.NewAlert(flightNumber, date, entity.DisruptionDelay, entity.SeverityMedium,
		"Flight delayed by 70 minutes", []string{"cust-1"}, 2)

	stored, created, err = repo.Raise(ctx, duplicate)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, stored.ID)

	// a strictly worse severity supersedes the open alert
	escalated := entity.NewAlert(flightNumber, date, entity.DisruptionDelay, entity.SeverityHigh,
		"Flight delayed by 130 minutes", []string{"cust-1"}, 3)

	stored, created, err = repo.Raise(ctx, escalated)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, escalated.ID, stored.ID)

	unresolved := false
	alerts, err := repo.List(ctx, entity.AlertFilter{Resolved: &unresolved})
	require.NoError(t, err)

	var open []entity.Alert
	for _, a := range alerts {
		if a.FlightNumber == flightNumber {
			open = append(open, a)
		}
	}
	require.Len(t, open, 1)
	assert.Equal(t, escalated.ID, open[0].ID)
	assert.Equal(t, entity.SeverityHigh, open[0].Severity)

	// a different disruption type gets its own alert
	gateAlert := entity.NewAlert(flightNumber, date, entity.DisruptionGateChange, entity.SeverityLow,
		"Gate changed to B12", []string{"cust-1"}, 4)

	_, created, err = repo.Raise(ctx, gateAlert)
	require.NoError(t, err)
	assert.True(t, created)
}

func TestAlertsPostgresRepository_Resolve(t *testing.T) {
	ctx := context.Background()
	repo := NewAlertsPostgresRepository(GetDb(t))

	flightNumber := "QP" + uuid.NewString()[:6]
	alert := entity.NewAlert(flightNumber, "2026-09-02", entity.DisruptionCancellation, entity.SeverityCritical,
		"Flight cancelled", []string{"cust-9"}, 1)

	_, created, err := repo.Raise(ctx, alert)
	require.NoError(t, err)
	require.True(t, created)

	resolved, err := repo.Resolve(ctx, alert.ID)
	require.NoError(t, err)
	assert.True(t, resolved.Resolved)
	require.NotNil(t, resolved.ResolvedAt)

	// resolving again keeps the original timestamp
	again, err := repo.Resolve(ctx, alert.ID)
	require.NoError(t, err)
	assert.Equal(t, resolved.ResolvedAt.Unix(), again.ResolvedAt.Unix())

	_, err = repo.Resolve(ctx, uuid.NewString())
	assert.ErrorIs(t, err, entity.ErrNotFound)
}
