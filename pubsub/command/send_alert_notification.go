package command

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"

	"flightops/entity"
	"flightops/pkg/log"
)

func (h Handler) SendAlertNotificationHandler() cqrs.CommandHandler {
	return cqrs.NewCommandHandler(
		"SendAlertNotificationHandler",
		func(ctx context.Context, cmd *entity.SendAlertNotification) error {
			log.FromContext(ctx).Infof("Sending alert notification: %s", cmd.Alert.ID)

			// A failed dispatch is returned for retry; the alert itself is
			// already persisted, so only delivery is at stake here.
			if err := h.notifications.Notify(ctx, cmd.Alert); err != nil {
				return fmt.Errorf("could not send alert notification: %w", err)
			}

			return nil
		},
	)
}
