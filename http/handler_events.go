package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"flightops/entity"
	"flightops/metrics"
)

func (s Server) PostFlightEvents(c echo.Context) error {
	var event entity.FlightEvent
	if err := c.Bind(&event); err != nil {
		return err
	}

	if fields := event.Validate(); len(fields) > 0 {
		metrics.EventsRejected.Inc()
		return entity.NewValidationError(fields)
	}

	idempotencyKey := c.Request().Header.Get("Idempotency-Key")
	if idempotencyKey == "" {
		idempotencyKey = fmt.Sprintf("%s/%d", event.Key(), event.SourceSequence)
	}

	err := s.eventBus.Publish(c.Request().Context(), entity.FlightEventReceived{
		Header: entity.NewEventHeaderWithIdempotencyKey(idempotencyKey),
		Event:  event,
	})
	if err != nil {
		return err
	}

	metrics.FlightEventsIngested.With(prometheus.Labels{
		"event_type": string(event.EventType),
	}).Inc()

	return c.JSON(http.StatusAccepted, map[string]any{
		"status":        "accepted",
		"flight_number": event.FlightNumber,
	})
}
