package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"flightops/config"
	"flightops/db"
	"flightops/db/memory"
	"flightops/gateway"
	"flightops/pkg/log"
	"flightops/pubsub"
	"flightops/pubsub/bus"
	"flightops/pubsub/command"
	"flightops/rebooking"
	"flightops/service"
	"flightops/tracing"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	tp := tracing.ConfigureTraceProvider(cfg.JaegerEndpoint)
	defer func() {
		_ = tp.Shutdown(context.Background())
	}()

	watermillLogger := log.NewWatermill(log.FromContext(ctx))

	var inventory rebooking.Inventory
	if cfg.InventoryURL != "" {
		inventory = gateway.NewInventoryClient(cfg.InventoryURL)
	} else {
		inventory = &gateway.InventoryMock{}
	}

	var notifications command.NotificationsService = gateway.NewNotificationClient()

	var (
		dbConn                *sqlx.DB
		publisher             message.Publisher
		subscriberConstructor pubsub.SubscriberConstructor
		repos                 service.Repositories
	)

	if cfg.PostgresURL != "" && cfg.RedisAddr != "" {
		dbConn, err = sqlx.Open("postgres", cfg.PostgresURL)
		if err != nil {
			logrus.WithError(err).Fatal("could not connect to postgres")
		}
		defer dbConn.Close()

		rdb := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		})
		defer rdb.Close()

		publisher, err = pubsub.NewRedisPublisher(rdb, watermillLogger)
		if err != nil {
			logrus.WithError(err).Fatal("could not create redis publisher")
		}
		subscriberConstructor = pubsub.NewRedisSubscriberConstructor(rdb, watermillLogger)

		repos = service.Repositories{
			FlightStates: db.NewFlightStatesPostgresRepository(dbConn),
			Alerts:       db.NewAlertsPostgresRepository(dbConn),
			Bookings:     db.NewBookingsPostgresRepository(dbConn, watermillLogger),
			DeadLetters:  db.NewDeadLettersPostgresRepository(dbConn),
		}
	} else {
		logrus.Info("POSTGRES_URL or REDIS_ADDR not set, running with in-memory storage and transport")

		publisher, subscriberConstructor = pubsub.NewGoChannelPubSub(watermillLogger)

		eventBus, err := bus.NewEventBus(publisher)
		if err != nil {
			logrus.WithError(err).Fatal("could not create event bus")
		}

		repos = service.Repositories{
			FlightStates: memory.NewFlightStatesRepository(),
			Alerts:       memory.NewAlertsRepository(),
			Bookings:     memory.NewBookingsRepository(eventBus),
			DeadLetters:  memory.NewDeadLettersRepository(),
		}
	}

	svc := service.New(
		cfg,
		dbConn,
		publisher,
		subscriberConstructor,
		repos,
		inventory,
		notifications,
	)

	if err := svc.Run(ctx); err != nil {
		logrus.WithError(err).Fatal("service stopped")
	}
}
