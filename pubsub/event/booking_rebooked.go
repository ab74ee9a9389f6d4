package event

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/sirupsen/logrus"

	"flightops/entity"
	"flightops/metrics"
	"flightops/pkg/log"
)

func (h Handler) RecordRebookingHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"RecordRebookingHandler",
		func(ctx context.Context, e *entity.BookingRebooked) error {
			metrics.Rebookings.Inc()
			log.FromContext(ctx).WithFields(logrus.Fields{
				"original_booking_id": e.OriginalBookingID,
				"new_booking_id":      e.NewBookingID,
				"flight_number":       e.FlightNumber,
				"confirmation_code":   e.ConfirmationCode,
			}).Info("Booking rebooked")

			return nil
		},
	)
}
