package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"flightops/entity"
)

func (s Server) GetAlerts(c echo.Context) error {
	var filter entity.AlertFilter

	if raw := c.QueryParam("severity"); raw != "" {
		severity := entity.Severity(raw)
		if !severity.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown severity: "+raw)
		}
		filter.Severity = &severity
	}

	if raw := c.QueryParam("resolved"); raw != "" {
		resolved, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "resolved must be true or false")
		}
		filter.Resolved = &resolved
	}

	alerts, err := s.alerts.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, alerts)
}

func (s Server) ResolveAlert(c echo.Context) error {
	alert, err := s.alerts.Resolve(c.Request().Context(), c.Param("alert_id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, alert)
}
