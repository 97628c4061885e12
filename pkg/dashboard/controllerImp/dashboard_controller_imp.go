package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"agro/pkg/dashboard/service"
	"agro/pkg/httperr"
)

type DashboardCtrl struct {
	s   service.DashboardService
	log *zap.Logger
}

func New(s service.DashboardService, log *zap.Logger) *DashboardCtrl {
	return &DashboardCtrl{s: s, log: log}
}

func (h *DashboardCtrl) Get(c echo.Context) error {
	st, err := h.s.Stats(c.Request().Context())
	if err != nil {
		return httperr.Respond(c, h.log, err)
	}
	return c.JSON(http.StatusOK, st)
}
