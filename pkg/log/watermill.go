package log

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/sirupsen/logrus"
)

// NewWatermill adapts a logrus entry to watermill.LoggerAdapter so the router
// and transports log through the same pipeline as the rest of the service.
func NewWatermill(entry *logrus.Entry) watermill.LoggerAdapter {
	return watermillAdapter{entry: entry}
}

type watermillAdapter struct {
	entry *logrus.Entry
}

func (a watermillAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.withFields(fields).WithError(err).Error(msg)
}

func (a watermillAdapter) Info(msg string, fields watermill.LogFields) {
	a.withFields(fields).Info(msg)
}

func (a watermillAdapter) Debug(msg string, fields watermill.LogFields) {
	a.withFields(fields).Debug(msg)
}

func (a watermillAdapter) Trace(msg string, fields watermill.LogFields) {
	a.withFields(fields).Trace(msg)
}

func (a watermillAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return watermillAdapter{entry: a.withFields(fields)}
}

func (a watermillAdapter) withFields(fields watermill.LogFields) *logrus.Entry {
	if len(fields) == 0 {
		return a.entry
	}
	return a.entry.WithFields(logrus.Fields(fields))
}
