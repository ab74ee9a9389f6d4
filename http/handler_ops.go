package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s Server) GetDeadLetters(c echo.Context) error {
	deadLetters, err := s.deadLetters.List(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, deadLetters)
}
