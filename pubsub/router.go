package pubsub

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/sirupsen/logrus"

	"flightops/entity"
	"flightops/pkg/log"
	"flightops/pubsub/command"
	"flightops/pubsub/event"
)

type DeadLettersRepository interface {
	Store(ctx context.Context, deadLetter entity.DeadLetter) error
}

func NewWatermillRouter(
	publisher message.Publisher,
	subscriberConstructor SubscriberConstructor,
	eventHandler event.Handler,
	commandsHandler command.Handler,
	deadLetters DeadLettersRepository,
	maxRetries int,
	processingTimeout time.Duration,
	watermillLogger watermill.LoggerAdapter,
) (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{}, watermillLogger)
	if err != nil {
		return nil, fmt.Errorf("could not create router: %w", err)
	}

	if err := useMiddlewares(router, publisher, maxRetries, processingTimeout, watermillLogger); err != nil {
		return nil, fmt.Errorf("could not set up middlewares: %w", err)
	}

	eventProcessor, err := cqrs.NewEventProcessorWithConfig(router, cqrs.EventProcessorConfig{
		SubscriberConstructor: func(params cqrs.EventProcessorSubscriberConstructorParams) (message.Subscriber, error) {
			return subscriberConstructor("svc-flightops." + params.HandlerName)
		},
		GenerateSubscribeTopic: func(params cqrs.EventProcessorGenerateSubscribeTopicParams) (string, error) {
			return "events." + params.EventName, nil
		},
		Marshaler: cqrs.JSONMarshaler{
			GenerateName: cqrs.StructName,
		},
		Logger: watermillLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create event processor: %w", err)
	}

	err = eventProcessor.AddHandlers(
		eventHandler.ApplyFlightEventHandler(),
		eventHandler.RaiseAlertHandler(),
		eventHandler.RecordRebookingHandler(),
	)
	if err != nil {
		return nil, fmt.Errorf("could not add handlers to event processor: %w", err)
	}

	commandProcessor, err := cqrs.NewCommandProcessorWithConfig(router, cqrs.CommandProcessorConfig{
		SubscriberConstructor: func(params cqrs.CommandProcessorSubscriberConstructorParams) (message.Subscriber, error) {
			return subscriberConstructor("svc-flightops." + params.HandlerName)
		},
		GenerateSubscribeTopic: func(params cqrs.CommandProcessorGenerateSubscribeTopicParams) (string, error) {
			return "commands." + params.CommandName, nil
		},
		Marshaler: cqrs.JSONMarshaler{
			GenerateName: cqrs.StructName,
		},
		Logger: watermillLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create command processor: %w", err)
	}

	err = commandProcessor.AddHandlers(
		commandsHandler.SendAlertNotificationHandler(),
	)
	if err != nil {
		return nil, fmt.Errorf("could not add handlers to command processor: %w", err)
	}

	deadLetterSubscriber, err := subscriberConstructor("svc-flightops.store_dead_letter")
	if err != nil {
		return nil, fmt.Errorf("could not create dead letter subscriber: %w", err)
	}

	router.AddNoPublisherHandler(
		"store_dead_letter",
		DeadLetterTopic,
		deadLetterSubscriber,
		func(msg *message.Message) error {
			deadLetter := entity.DeadLetter{
				MessageID:  msg.UUID,
				Topic:      msg.Metadata.Get(middleware.PoisonedTopicKey),
				Handler:    msg.Metadata.Get(middleware.PoisonedHandlerKey),
				Reason:     msg.Metadata.Get(middleware.ReasonForPoisonedKey),
				Payload:    msg.Payload,
				OccurredAt: time.Now().UTC(),
			}

			logger := log.FromContext(msg.Context()).WithFields(logrus.Fields{
				"message_id": deadLetter.MessageID,
				"topic":      deadLetter.Topic,
				"handler":    deadLetter.Handler,
				"reason":     deadLetter.Reason,
			})

			// Storing is best effort: a failure here must not poison the
			// dead letter queue itself, so it is logged and the message acked.
			if err := deadLetters.Store(msg.Context(), deadLetter); err != nil {
				logger.WithError(err).Error("Could not store dead letter")
				return nil
			}

			logger.Error("Message moved to the dead letter queue")
			return nil
		},
	)

	return router, nil
}
