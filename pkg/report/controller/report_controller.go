package controller

import "github.com/labstack/echo/v4"

type ReportController interface {
	Export(c echo.Context) error
}
