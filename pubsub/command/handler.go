package command

import (
	"context"

	"flightops/entity"
)

type NotificationsService interface {
	Notify(ctx context.Context, alert entity.Alert) error
}

type Handler struct {
	notifications NotificationsService
}

func NewHandler(notifications NotificationsService) Handler {
	if notifications == nil {
		panic("missing notifications service")
	}

	return Handler{
		notifications: notifications,
	}
}
