package gateway

import (
	"context"

	"github.com/sirupsen/logrus"

	"flightops/entity"
	"flightops/pkg/log"
)

// NotificationClient delivers alerts to the operations channel. Delivery is a
// structured log line; the alert store remains the durable record.
type NotificationClient struct{}

func NewNotificationClient() NotificationClient {
	return NotificationClient{}
}

func (c NotificationClient) Notify(ctx context.Context, alert entity.Alert) error {
	log.FromContext(ctx).WithFields(logrus.Fields{
		"alert_id":           alert.ID,
		"flight_number":      alert.FlightNumber,
		"scheduled_date":     alert.ScheduledDate,
		"disruption_type":    alert.Type,
		"severity":           alert.Severity,
		"affected_customers": len(alert.AffectedCustomerIDs),
	}).Warn(alert.Message)

	return nil
}
