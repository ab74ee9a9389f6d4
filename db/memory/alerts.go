package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"flightops/entity"
)

type AlertsRepository struct {
	mu     sync.Mutex
	alerts map[string]entity.Alert
}

func NewAlertsRepository() *AlertsRepository {
	return &AlertsRepository{alerts: make(map[string]entity.Alert)}
}

// Raise mirrors the postgres check-and-set: one unresolved alert per
// flight/date/disruption type, superseded only by a strictly higher severity.
func (r *AlertsRepository) Raise(ctx context.Context, alert entity.Alert) (entity.Alert, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, existing := range r.alerts {
		if existing.Resolved ||
			existing.FlightNumber != alert.FlightNumber ||
			existing.ScheduledDate != alert.ScheduledDate ||
			existing.Type != alert.Type {
			continue
		}

		if !alert.Severity.Worsens(existing.Severity) {
			return existing, false, nil
		}

		now := time.Now().UTC()
		existing.Resolved = true
		existing.ResolvedAt = &now
		r.alerts[id] = existing
		break
	}

	r.alerts[alert.ID] = alert
	return alert, true, nil
}

func (r *AlertsRepository) Resolve(ctx context.Context, alertID string) (entity.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	alert, ok := r.alerts[alertID]
	if !ok {
		return entity.Alert{}, fmt.Errorf("alert %s: %w", alertID, entity.ErrNotFound)
	}

	if !alert.Resolved {
		now := time.Now().UTC()
		alert.Resolved = true
		alert.ResolvedAt = &now
		r.alerts[alertID] = alert
	}

	return alert, nil
}

func (r *AlertsRepository) List(ctx context.Context, filter entity.AlertFilter) ([]entity.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	alerts := make([]entity.Alert, 0, len(r.alerts))
	for _, alert := range r.alerts {
		if filter.Severity != nil && alert.Severity != *filter.Severity {
			continue
		}
		if filter.Resolved != nil && alert.Resolved != *filter.Resolved {
			continue
		}
		alerts = append(alerts, alert)
	}

	sort.Slice(alerts, func(i, j int) bool {
		return alerts[i].CreatedAt.After(alerts[j].CreatedAt)
	})

	return alerts, nil
}
