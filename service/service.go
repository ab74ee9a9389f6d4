package service

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"flightops/config"
	"flightops/db"
	"flightops/disruption"
	"flightops/entity"
	"flightops/http"
	"flightops/impact"
	"flightops/pkg/log"
	"flightops/pubsub"
	"flightops/pubsub/bus"
	"flightops/pubsub/command"
	"flightops/pubsub/event"
	"flightops/pubsub/outbox"
	"flightops/rebooking"
	"flightops/tracing"
)

func init() {
	log.Init(logrus.InfoLevel)
}

type FlightStatesRepository interface {
	Apply(ctx context.Context, event entity.FlightEvent) (previous, next entity.FlightState, transitioned bool, err error)
	Get(ctx context.Context, flightNumber, scheduledDate string) (entity.FlightState, error)
}

type AlertsRepository interface {
	Raise(ctx context.Context, alert entity.Alert) (entity.Alert, bool, error)
	Resolve(ctx context.Context, alertID string) (entity.Alert, error)
	List(ctx context.Context, filter entity.AlertFilter) ([]entity.Alert, error)
}

type BookingsRepository interface {
	Store(ctx context.Context, booking entity.Booking) error
	Get(ctx context.Context, bookingID string) (entity.Booking, error)
	FindByFlight(ctx context.Context, flightNumber, departDate string, statuses []entity.BookingStatus) ([]entity.Booking, error)
	Rebook(ctx context.Context, original entity.Booking, next entity.Booking, totalCost int) error
}

type DeadLettersRepository interface {
	Store(ctx context.Context, deadLetter entity.DeadLetter) error
	List(ctx context.Context) ([]entity.DeadLetter, error)
}

// Repositories is the persistence surface the service runs on, either the
// postgres implementations or the in-memory ones.
type Repositories struct {
	FlightStates FlightStatesRepository
	Alerts       AlertsRepository
	Bookings     BookingsRepository
	DeadLetters  DeadLettersRepository
}

type Service struct {
	db              *sqlx.DB
	forwarder       *forwarder.Forwarder
	watermillRouter *message.Router
	httpServer      *http.Server
}

func New(
	cfg config.Config,
	dbConn *sqlx.DB,
	publisher message.Publisher,
	subscriberConstructor pubsub.SubscriberConstructor,
	repos Repositories,
	inventory rebooking.Inventory,
	notifications command.NotificationsService,
) Service {
	watermillLogger := log.NewWatermill(log.FromContext(context.Background()))

	publisher = tracing.PublisherDecorator{Publisher: publisher}

	eventBus, err := bus.NewEventBus(publisher)
	if err != nil {
		panic(fmt.Errorf("failed to create event bus: %w", err))
	}

	commandBus, err := bus.NewCommandBus(publisher)
	if err != nil {
		panic(fmt.Errorf("failed to create command bus: %w", err))
	}

	classifier := disruption.NewClassifier(disruption.Config{
		MediumDelayMinutes: cfg.MediumDelayMinutes,
		HighDelayMinutes:   cfg.HighDelayMinutes,
	})
	resolver := impact.NewResolver(repos.Bookings)
	planner := rebooking.NewPlanner(inventory, repos.Bookings, rebooking.Policy{
		ChangeFee:              cfg.ChangeFee,
		DowngradeChangeFee:     cfg.DowngradeChangeFee,
		BudgetTolerancePercent: cfg.BudgetTolerancePercent,
	})

	eventsHandler := event.NewHandler(
		eventBus,
		commandBus,
		repos.FlightStates,
		repos.Alerts,
		resolver,
		classifier,
	)

	commandsHandler := command.NewHandler(notifications)

	watermillRouter, err := pubsub.NewWatermillRouter(
		publisher,
		subscriberConstructor,
		eventsHandler,
		commandsHandler,
		repos.DeadLetters,
		cfg.MaxRetries,
		cfg.ProcessingTimeout,
		watermillLogger,
	)
	if err != nil {
		panic(fmt.Errorf("failed to create watermill router: %w", err))
	}

	var outboxForwarder *forwarder.Forwarder
	if dbConn != nil {
		outboxForwarder, err = outbox.NewForwarder(dbConn, publisher, watermillLogger)
		if err != nil {
			panic(fmt.Errorf("failed to create outbox forwarder: %w", err))
		}
	}

	httpServer := http.NewServer(
		cfg.HTTPAddr,
		eventBus,
		repos.FlightStates,
		repos.Alerts,
		repos.Bookings,
		repos.DeadLetters,
		planner,
	)

	return Service{
		db:              dbConn,
		forwarder:       outboxForwarder,
		watermillRouter: watermillRouter,
		httpServer:      httpServer,
	}
}

func (s Service) Run(ctx context.Context) error {
	if s.db != nil {
		if err := db.InitializeDatabaseSchema(s.db); err != nil {
			return fmt.Errorf("failed to initialize database schema: %w", err)
		}
	}

	g, ctx := errgroup.WithContext(ctx)

	if s.forwarder != nil {
		g.Go(func() error {
			return s.forwarder.Run(ctx)
		})
	}

	g.Go(func() error {
		return s.watermillRouter.Run(ctx)
	})

	g.Go(func() error {
		// the HTTP server reports healthy only once the router consumes
		<-s.watermillRouter.Running()

		return s.httpServer.Run(ctx)
	})

	return g.Wait()
}
