package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

func (s Server) GetFlightState(c echo.Context) error {
	flightNumber := c.Param("flight_number")

	date := c.QueryParam("date")
	if date == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "date query parameter is required")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be in YYYY-MM-DD format")
	}

	state, err := s.flightStates.Get(c.Request().Context(), flightNumber, date)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, state)
}
