package router

import (
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	dashCtrl "agro/pkg/dashboard/controller"
	farmCtrl "agro/pkg/farm/controller"
	healthCtrl "agro/pkg/health/controller"
	"agro/pkg/httperr"
	"agro/pkg/middleware"
	producerCtrl "agro/pkg/producer/controller"
	reportCtrl "agro/pkg/report/controller"
)

type Controllers struct {
	Producer  producerCtrl.ProducerController
	Farm      farmCtrl.FarmController
	Dashboard dashCtrl.DashboardController
	Report    reportCtrl.ReportController
	Health    healthCtrl.HealthController
}

func New(e *echo.Echo, log *zap.Logger, c Controllers) *echo.Echo {
	e.HideBanner = true
	e.HTTPErrorHandler = httperr.Handler(log)

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLog(log))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())

	e.GET("/", c.Health.Root)
	e.GET("/health", c.Health.Health)

	api := e.Group("/api/v1")

	api.POST("/producers", c.Producer.Create)
	api.GET("/producers", c.Producer.List)
	api.GET("/producers/:id", c.Producer.Get)
	api.PUT("/producers/:id", c.Producer.Update)
	api.PATCH("/producers/:id", c.Producer.Patch)
	api.DELETE("/producers/:id", c.Producer.Delete)

	api.POST("/producers/:id/farms", c.Farm.Create)
	api.GET("/producers/:id/farms", c.Farm.ListByProducer)

	api.GET("/farms", c.Farm.List)
	api.GET("/farms/export", c.Report.Export)
	api.GET("/farms/:id", c.Farm.Get)
	api.PUT("/farms/:id", c.Farm.Update)
	api.DELETE("/farms/:id", c.Farm.Delete)

	api.POST("/farms/:id/crops", c.Farm.AddCrop)
	api.GET("/farms/:id/crops", c.Farm.ListCrops)
	api.PUT("/farms/:id/crops", c.Farm.ReplaceCrops)
	api.DELETE("/crops/:id", c.Farm.DeleteCrop)

	api.GET("/dashboard", c.Dashboard.Get)
	return e
}
