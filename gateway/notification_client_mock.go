package gateway

import (
	"context"
	"sync"

	"flightops/entity"
)

type NotificationsMock struct {
	mock sync.Mutex

	SentAlerts []entity.Alert
	Err        error
}

func (c *NotificationsMock) Notify(ctx context.Context, alert entity.Alert) error {
	c.mock.Lock()
	defer c.mock.Unlock()

	if c.Err != nil {
		return c.Err
	}

	c.SentAlerts = append(c.SentAlerts, alert)
	return nil
}

// SetErr makes every following Notify call fail.
func (c *NotificationsMock) SetErr(err error) {
	c.mock.Lock()
	defer c.mock.Unlock()
	c.Err = err
}

func (c *NotificationsMock) Sent() []entity.Alert {
	c.mock.Lock()
	defer c.mock.Unlock()

	out := make([]entity.Alert, len(c.SentAlerts))
	copy(out, c.SentAlerts)
	return out
}
