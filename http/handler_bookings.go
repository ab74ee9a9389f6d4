package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v3"

	"flightops/entity"
)

type postBookingRequest struct {
	CustomerID    string `json:"customer_id"`
	FlightNumber  string `json:"flight_number"`
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartDate    string `json:"depart_date"`
	DepartureTime string `json:"departure_time"`
	Price         int    `json:"price"`
}

type changeOptionsRequest struct {
	NewDate string `json:"new_date"`
	Budget  *int   `json:"budget,omitempty"`
}

type rebookRequest struct {
	NewDate          string `json:"new_date"`
	Budget           *int   `json:"budget,omitempty"`
	SelectedFlight   string `json:"selected_flight,omitempty"`
	AcceptOverBudget bool   `json:"accept_over_budget,omitempty"`
}

func (s Server) PostBookings(c echo.Context) error {
	var request postBookingRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	now := time.Now().UTC()
	booking := entity.Booking{
		ID:               uuid.NewString(),
		CustomerID:       request.CustomerID,
		FlightNumber:     request.FlightNumber,
		Origin:           request.Origin,
		Destination:      request.Destination,
		DepartDate:       request.DepartDate,
		DepartureTime:    request.DepartureTime,
		Price:            request.Price,
		Status:           entity.BookingStatusConfirmed,
		ConfirmationCode: "AK" + shortuuid.New()[:8],
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if fields := booking.Validate(); len(fields) > 0 {
		return entity.NewValidationError(fields)
	}

	if err := s.bookings.Store(c.Request().Context(), booking); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, booking)
}

func (s Server) GetBooking(c echo.Context) error {
	booking, err := s.bookings.Get(c.Request().Context(), c.Param("booking_id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, booking)
}

func (s Server) PostChangeOptions(c echo.Context) error {
	var request changeOptionsRequest
	if err := c.Bind(&request); err != nil {
		return err
	}
	if err := validateDate(request.NewDate); err != nil {
		return err
	}

	booking, err := s.bookings.Get(c.Request().Context(), c.Param("booking_id"))
	if err != nil {
		return err
	}

	options, err := s.planner.PlanOptions(c.Request().Context(), booking, request.NewDate, request.Budget)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"booking_id": booking.ID,
		"new_date":   request.NewDate,
		"options":    options,
	})
}

func (s Server) PostRebook(c echo.Context) error {
	var request rebookRequest
	if err := c.Bind(&request); err != nil {
		return err
	}
	if err := validateDate(request.NewDate); err != nil {
		return err
	}

	ctx := c.Request().Context()

	booking, err := s.bookings.Get(ctx, c.Param("booking_id"))
	if err != nil {
		return err
	}

	options, err := s.planner.PlanOptions(ctx, booking, request.NewDate, request.Budget)
	if err != nil {
		return err
	}
	if len(options) == 0 {
		return echo.NewHTTPError(http.StatusConflict, "no alternative flights available")
	}

	option, found := pickOption(options, request.SelectedFlight, request.AcceptOverBudget)
	if !found {
		if request.SelectedFlight != "" {
			return echo.NewHTTPError(http.StatusConflict, "selected flight is not among the available options")
		}
		return echo.NewHTTPError(http.StatusConflict, "no option within budget; retry with accept_over_budget")
	}

	summary, err := s.planner.AutoRebook(ctx, booking, option.Candidate, request.NewDate)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, summary)
}

// pickOption returns the chosen candidate: an explicitly selected flight, or
// the cheapest option that fits the budget. Options arrive ranked.
func pickOption(options []entity.RebookingOption, selectedFlight string, acceptOverBudget bool) (entity.RebookingOption, bool) {
	if selectedFlight != "" {
		for _, option := range options {
			if option.Candidate.FlightNumber == selectedFlight {
				return option, true
			}
		}
		return entity.RebookingOption{}, false
	}

	for _, option := range options {
		if !option.OverBudget || acceptOverBudget {
			return option, true
		}
	}

	return entity.RebookingOption{}, false
}

func validateDate(date string) error {
	if date == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "new_date is required")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "new_date must be in YYYY-MM-DD format")
	}
	return nil
}
