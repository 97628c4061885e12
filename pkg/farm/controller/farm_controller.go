package controller

import "github.com/labstack/echo/v4"

type FarmController interface {
	Create(c echo.Context) error
	ListByProducer(c echo.Context) error
	List(c echo.Context) error
	Get(c echo.Context) error
	Update(c echo.Context) error
	Delete(c echo.Context) error

	AddCrop(c echo.Context) error
	ListCrops(c echo.Context) error
	ReplaceCrops(c echo.Context) error
	DeleteCrop(c echo.Context) error
}
