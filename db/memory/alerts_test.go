package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightops/entity"
)

func TestAlertsRepository_Raise(t *testing.T) {
	ctx := context.Background()
	repo := NewAlertsRepository()

	first := entity.NewAlert("QP1101", "2026-09-01", entity.DisruptionDelay, entity.SeverityMedium,
		"Flight delayed by 60 minutes", []string{"cust-1"}, 1)

	stored, created, err := repo.Raise(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, first.ID, stored.ID)

	duplicate := entity.NewAlert("QP1101", "2026-09-01", entity.DisruptionDelay, entity.SeverityMedium,
		"Flight delayed by 70 minutes", []string{"cust-1"}, 2)

	stored, created, err = repo.Raise(ctx, duplicate)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, stored.ID, "the open alert wins over a same-severity repeat")

	escalated := entity.NewAlert("QP1101", "2026-09-01", entity.DisruptionDelay, entity.SeverityHigh,
		"Flight delayed by 130 minutes", []string{"cust-1"}, 3)

	stored, created, err = repo.Raise(ctx, escalated)
	require.NoError(t, err)
	assert.True(t, created)

	unresolved := false
	open, err := repo.List(ctx, entity.AlertFilter{Resolved: &unresolved})
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, escalated.ID, open[0].ID)

	// a downgrade after escalation never reopens the lower severity
	downgrade := entity.NewAlert("QP1101", "2026-09-01", entity.DisruptionDelay, entity.SeverityMedium,
		"Flight delayed by 60 minutes", []string{"cust-1"}, 4)

	_, created, err = repo.Raise(ctx, downgrade)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestAlertsRepository_Resolve(t *testing.T) {
	ctx := context.Background()
	repo := NewAlertsRepository()

	alert := entity.NewAlert("QP1102", "2026-09-01", entity.DisruptionCancellation, entity.SeverityCritical,
		"Flight cancelled", nil, 1)
	_, _, err := repo.Raise(ctx, alert)
	require.NoError(t, err)

	resolved, err := repo.Resolve(ctx, alert.ID)
	require.NoError(t, err)
	assert.True(t, resolved.Resolved)
	require.NotNil(t, resolved.ResolvedAt)

	again, err := repo.Resolve(ctx, alert.ID)
	require.NoError(t, err)
	assert.Equal(t, resolved.ResolvedAt, again.ResolvedAt)

	_, err = repo.Resolve(ctx, uuid.NewString())
	assert.ErrorIs(t, err, entity.ErrNotFound)

	// resolving frees the dedup scope for the next alert
	replacement := entity.NewAlert("QP1102", "2026-09-01", entity.DisruptionCancellation, entity.SeverityCritical,
		"Flight cancelled", nil, 2)
	_, created, err := repo.Raise(ctx, replacement)
	require.NoError(t, err)
	assert.True(t, created)
}

func TestBookingsRepository_Rebook(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingsRepository(nil)

	original := entity.Booking{
		ID:           uuid.NewString(),
		CustomerID:   "cust-1",
		FlightNumber: "QP1101",
		DepartDate:   "2026-09-01",
		Status:       entity.BookingStatusConfirmed,
	}
	require.NoError(t, repo.Store(ctx, original))

	next := entity.Booking{
		ID:                uuid.NewString(),
		CustomerID:        "cust-1",
		FlightNumber:      "QP1205",
		DepartDate:        "2026-09-02",
		Status:            entity.BookingStatusConfirmed,
		OriginalBookingID: original.ID,
	}

	require.NoError(t, repo.Rebook(ctx, original, next, 1300))

	got, err := repo.Get(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCancelled, got.Status)

	err = repo.Rebook(ctx, original, entity.Booking{ID: uuid.NewString()}, 1300)
	assert.ErrorIs(t, err, entity.ErrAlreadyCancelled)

	err = repo.Rebook(ctx, next, next, 0)
	assert.ErrorIs(t, err, entity.ErrConflict)
}
