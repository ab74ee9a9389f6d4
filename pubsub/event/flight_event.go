package event

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/sirupsen/logrus"

	"flightops/entity"
	"flightops/pkg/log"
)

func (h Handler) ApplyFlightEventHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"ApplyFlightEventHandler",
		func(ctx context.Context, e *entity.FlightEventReceived) error {
			logger := log.FromContext(ctx).WithFields(logrus.Fields{
				"flight_number": e.Event.FlightNumber,
				"event_type":    e.Event.EventType,
				"sequence":      e.Event.SourceSequence,
			})

			// Events for the same flight instance must mutate state one at
			// a time. Different flights proceed in parallel.
			key := e.Event.Key()
			h.flightLocks.Lock(key)
			defer h.flightLocks.Unlock(key)

			previous, next, transitioned, err := h.flightStates.Apply(ctx, e.Event)
			if err != nil {
				return fmt.Errorf("could not apply flight event: %w", err)
			}

			if !transitioned {
				logger.Info("Flight event absorbed without a state transition")
				return nil
			}

			logger.WithFields(logrus.Fields{
				"status":  next.Status,
				"version": next.Version,
			}).Info("Flight state updated")

			verdict, disrupted := h.classifier.Classify(previous, next)
			if !disrupted {
				return nil
			}

			return h.eventBus.Publish(ctx, entity.FlightDisrupted{
				Header:        entity.NewEventHeaderWithIdempotencyKey(e.Header.IdempotencyKey),
				FlightNumber:  next.FlightNumber,
				ScheduledDate: next.ScheduledDate,
				Type:          verdict.Type,
				Severity:      verdict.Severity,
				Message:       verdict.Message,
				DelayMinutes:  next.DelayMinutes,
				StateVersion:  next.Version,
			})
		},
	)
}
