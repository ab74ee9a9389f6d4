package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"flightops/entity"
	"flightops/pkg/log"
	"flightops/rebooking"
)

type FlightStatesRepository interface {
	Get(ctx context.Context, flightNumber, scheduledDate string) (entity.FlightState, error)
}

type AlertsRepository interface {
	List(ctx context.Context, filter entity.AlertFilter) ([]entity.Alert, error)
	Resolve(ctx context.Context, alertID string) (entity.Alert, error)
}

type BookingsRepository interface {
	Store(ctx context.Context, booking entity.Booking) error
	Get(ctx context.Context, bookingID string) (entity.Booking, error)
}

type DeadLettersRepository interface {
	List(ctx context.Context) ([]entity.DeadLetter, error)
}

type Server struct {
	addr         string
	e            *echo.Echo
	eventBus     *cqrs.EventBus
	flightStates FlightStatesRepository
	alerts       AlertsRepository
	bookings     BookingsRepository
	deadLetters  DeadLettersRepository
	planner      rebooking.Planner
}

func NewServer(
	addr string,
	eventBus *cqrs.EventBus,
	flightStates FlightStatesRepository,
	alerts AlertsRepository,
	bookings BookingsRepository,
	deadLetters DeadLettersRepository,
	planner rebooking.Planner,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler
	e.Use(requestLogger)

	server := &Server{
		addr:         addr,
		e:            e,
		eventBus:     eventBus,
		flightStates: flightStates,
		alerts:       alerts,
		bookings:     bookings,
		deadLetters:  deadLetters,
		planner:      planner,
	}

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.POST("/flight-events", server.PostFlightEvents)
	e.GET("/flights/:flight_number/state", server.GetFlightState)

	e.GET("/alerts", server.GetAlerts)
	e.PUT("/alerts/:alert_id/resolve", server.ResolveAlert)

	e.POST("/bookings", server.PostBookings)
	e.GET("/bookings/:booking_id", server.GetBooking)
	e.POST("/bookings/:booking_id/change-options", server.PostChangeOptions)
	e.POST("/bookings/:booking_id/rebook", server.PostRebook)

	e.GET("/ops/dead-letter", server.GetDeadLetters)

	return server
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		err := s.e.Shutdown(context.Background())
		if err != nil {
			log.FromContext(ctx).WithError(err).Error("failed to shutdown HTTP server")
		}
	}()
	log.FromContext(ctx).WithField("addr", s.addr).Info("[HTTP] server listening")
	if err := s.e.Start(s.addr); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()

		correlationID := req.Header.Get("Correlation-ID")
		ctx := log.ContextWithCorrelationID(req.Context(), correlationID)
		ctx = log.ToContext(ctx, logrus.WithField("correlation_id", log.CorrelationIDFromContext(ctx)))
		c.SetRequest(req.WithContext(ctx))

		err := next(c)

		log.FromContext(ctx).WithFields(logrus.Fields{
			"method": req.Method,
			"path":   req.URL.Path,
			"status": c.Response().Status,
		}).Debug("Request handled")

		return err
	}
}

func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var validationErr entity.ValidationError
	var httpErr *echo.HTTPError

	switch {
	case errors.As(err, &validationErr):
		_ = c.JSON(http.StatusBadRequest, map[string]any{
			"message": "validation failed",
			"fields":  validationErr.Fields,
		})
	case errors.Is(err, entity.ErrNotFound):
		_ = c.JSON(http.StatusNotFound, map[string]any{"message": "not found"})
	case errors.Is(err, entity.ErrAlreadyCancelled):
		_ = c.JSON(http.StatusConflict, map[string]any{"message": "booking is already cancelled"})
	case errors.Is(err, entity.ErrConflict):
		_ = c.JSON(http.StatusConflict, map[string]any{"message": "conflict"})
	case errors.As(err, &httpErr):
		_ = c.JSON(httpErr.Code, map[string]any{"message": httpErr.Message})
	default:
		log.FromContext(c.Request().Context()).WithError(err).Error("Unhandled HTTP error")
		_ = c.JSON(http.StatusInternalServerError, map[string]any{"message": "internal error"})
	}
}
