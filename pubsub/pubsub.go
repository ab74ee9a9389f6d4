package pubsub

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"

	"flightops/pkg/log"
)

// SubscriberConstructor builds a subscriber for a consumer group. The redis
// constructor maps groups onto stream consumer groups; the in-process one
// returns fan-out subscribers from a shared gochannel, which is equivalent as
// long as each handler owns its subscriber.
type SubscriberConstructor func(consumerGroup string) (message.Subscriber, error)

func NewRedisPublisher(rdb *redis.Client, logger watermill.LoggerAdapter) (message.Publisher, error) {
	publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client: rdb,
	}, logger)
	if err != nil {
		return nil, err
	}

	return log.CorrelationPublisherDecorator{Publisher: publisher}, nil
}

func NewRedisSubscriberConstructor(rdb *redis.Client, logger watermill.LoggerAdapter) SubscriberConstructor {
	return func(consumerGroup string) (message.Subscriber, error) {
		return redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        rdb,
			ConsumerGroup: consumerGroup,
		}, logger)
	}
}

// NewGoChannelPubSub is the in-process transport used by dev mode and the
// hermetic tests.
func NewGoChannelPubSub(logger watermill.LoggerAdapter) (message.Publisher, SubscriberConstructor) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, logger)

	ctor := func(consumerGroup string) (message.Subscriber, error) {
		return pubSub, nil
	}

	return log.CorrelationPublisherDecorator{Publisher: pubSub}, ctor
}
