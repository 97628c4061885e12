package controller

import "github.com/labstack/echo/v4"

type HealthController interface {
	Root(c echo.Context) error
	Health(c echo.Context) error
}
