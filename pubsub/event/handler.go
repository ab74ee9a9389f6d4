package event

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"

	"flightops/disruption"
	"flightops/entity"
	"flightops/impact"
	"flightops/pkg/keyed"
)

type FlightStatesRepository interface {
	Apply(ctx context.Context, event entity.FlightEvent) (previous, next entity.FlightState, transitioned bool, err error)
}

type AlertsRepository interface {
	Raise(ctx context.Context, alert entity.Alert) (entity.Alert, bool, error)
}

type Handler struct {
	eventBus     *cqrs.EventBus
	commandBus   *cqrs.CommandBus
	flightStates FlightStatesRepository
	alerts       AlertsRepository
	resolver     impact.Resolver
	classifier   disruption.Classifier
	flightLocks  *keyed.Mutex
}

func NewHandler(
	eventBus *cqrs.EventBus,
	commandBus *cqrs.CommandBus,
	flightStates FlightStatesRepository,
	alerts AlertsRepository,
	resolver impact.Resolver,
	classifier disruption.Classifier,
) Handler {
	if eventBus == nil {
		panic("missing eventBus")
	}
	if commandBus == nil {
		panic("missing commandBus")
	}
	if flightStates == nil {
		panic("missing flightStates repository")
	}
	if alerts == nil {
		panic("missing alerts repository")
	}

	return Handler{
		eventBus:     eventBus,
		commandBus:   commandBus,
		flightStates: flightStates,
		alerts:       alerts,
		resolver:     resolver,
		classifier:   classifier,
		flightLocks:  keyed.NewMutex(),
	}
}
