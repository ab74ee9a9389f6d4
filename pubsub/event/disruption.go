package event

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"flightops/entity"
	"flightops/metrics"
	"flightops/pkg/log"
)

func (h Handler) RaiseAlertHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"RaiseAlertHandler",
		func(ctx context.Context, e *entity.FlightDisrupted) error {
			logger := log.FromContext(ctx).WithFields(logrus.Fields{
				"flight_number":   e.FlightNumber,
				"disruption_type": e.Type,
				"severity":        e.Severity,
			})

			customerIDs, err := h.resolver.AffectedCustomers(ctx, e.FlightNumber, e.ScheduledDate)
			if err != nil {
				return fmt.Errorf("could not resolve affected customers: %w", err)
			}

			alert := entity.NewAlert(
				e.FlightNumber,
				e.ScheduledDate,
				e.Type,
				e.Severity,
				e.Message,
				customerIDs,
				e.StateVersion,
			)

			stored, created, err := h.alerts.Raise(ctx, alert)
			if err != nil {
				return fmt.Errorf("could not raise alert: %w", err)
			}

			if !created {
				metrics.AlertsSuppressed.Inc()
				logger.WithField("existing_alert_id", stored.ID).
					Info("Alert suppressed by an unresolved alert of the same type")
				return nil
			}

			metrics.AlertsRaised.With(prometheus.Labels{
				"type":     string(stored.Type),
				"severity": string(stored.Severity),
			}).Inc()
			logger.WithFields(logrus.Fields{
				"alert_id":           stored.ID,
				"affected_customers": len(stored.AffectedCustomerIDs),
			}).Info("Alert raised")

			return h.commandBus.Send(ctx, entity.SendAlertNotification{
				Header: entity.NewEventHeaderWithIdempotencyKey(stored.DedupKey),
				Alert:  stored,
			})
		},
	)
}
