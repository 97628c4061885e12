package controllerImp

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"agro/pkg/farm/service"
	"agro/pkg/httperr"
	"agro/pkg/registry"
)

type FarmCtrl struct {
	s   service.FarmService
	log *zap.Logger
}

func New(s service.FarmService, log *zap.Logger) *FarmCtrl {
	return &FarmCtrl{s: s, log: log}
}

type cropsReq struct {
	Crops []registry.CropInput `json:"crops"`
}

// Create handles POST /producers/:id/farms.
func (h *FarmCtrl) Create(c echo.Context) error {
	producerID, err := parseID(c)
	if err != nil {
		return httperr.BadRequest(c, "invalid producer id")
	}
	var in registry.FarmInput
	if err := c.Bind(&in); err != nil {
		return httperr.BadRequest(c, "invalid json")
	}
	f, err := h.s.Create(c.Request().Context(), producerID, in)
	if err != nil {
		return httperr.Respond(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, f)
}

// ListByProducer handles GET /producers/:id/farms.
func (h *FarmCtrl) ListByProducer(c echo.Context) error {
	producerID, err := parseID(c)
	if err != nil {
		return httperr.BadRequest(c, "invalid producer id")
	}
	fs, err := h.s.ListByProducer(c.Request().Context(), producerID)
	if err != nil {
		return httperr.Respond(c, h.log, err)
	}
	return c.JSON(http.StatusOK, fs)
}

func (h *FarmCtrl) List(c echo.Context) error {
	skip, limit := 0, 100
	var err error
	if v := c.QueryParam("skip"); v != "" {
		if skip, err = strconv.Atoi(v); err != nil {
			return httperr.BadRequest(c, "invalid skip")
		}
	}
	if v := c.QueryParam("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil {
			return httperr.BadRequest(c, "invalid limit")
		}
	}
	fs, err := h.s.List(c.Request().Context(), skip, limit)
	if err != nil {
		return httperr.Respond(c, h.log, err)
	}
	return c.JSON(http.StatusOK, fs)
}

func (h *FarmCtrl) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return httperr.BadRequest(c, "invalid id")
	}
	f, err := h.s.Get(c.Request().Context(), id)
	if err != nil {
		return httperr.Respond(c, h.log, err)
	}
	return c.JSON(http.StatusOK, f)
}

// Update handles PUT /farms/:id as a partial update.
func (h *FarmCtrl) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return httperr.BadRequest(c, "invalid id")
	}
	var in service.FarmPatch
	if err := c.Bind(&in); err != nil {
		return httperr.BadRequest(c, "invalid json")
	}
	f, err := h.s.Update(c.Request().Context(), id, in)
	if err != nil {
		return httperr.Respond(c, h.log, err)
	}
	return c.JSON(http.StatusOK, f)
}

func (h *FarmCtrl) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return httperr.BadRequest(c, "invalid id")
	}
	if err := h.s.Delete(c.Request().Context(), id); err != nil {
		return httperr.Respond(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AddCrop handles POST /farms/:id/crops.
func (h *FarmCtrl) AddCrop(c echo.Context) error {
	farmID, err := parseID(c)
	if err != nil {
		return httperr.BadRequest(c, "invalid farm id")
	}
	var in registry.CropInput
	if err := c.Bind(&in); err != nil {
		return httperr.BadRequest(c, "invalid json")
	}
	cr, err := h.s.AddCrop(c.Request().Context(), farmID, in)
	if err != nil {
		return httperr.Respond(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, cr)
}

func (h *FarmCtrl) ListCrops(c echo.Context) error {
	farmID, err := parseID(c)
	if err != nil {
		return httperr.BadRequest(c, "invalid farm id")
	}
	cs, err := h.s.ListCrops(c.Request().Context(), farmID)
	if err != nil {
		return httperr.Respond(c, h.log, err)
	}
	return c.JSON(http.StatusOK, cs)
}

// ReplaceCrops handles PUT /farms/:id/crops with {"crops": [...]}.
func (h *FarmCtrl) ReplaceCrops(c echo.Context) error {
	farmID, err := parseID(c)
	if err != nil {
		return httperr.BadRequest(c, "invalid farm id")
	}
	var in cropsReq
	if err := c.Bind(&in); err != nil {
		return httperr.BadRequest(c, "invalid json")
	}
	f, err := h.s.ReplaceCrops(c.Request().Context(), farmID, in.Crops)
	if err != nil {
		return httperr.Respond(c, h.log, err)
	}
	return c.JSON(http.StatusOK, f)
}

// DeleteCrop handles DELETE /crops/:id.
func (h *FarmCtrl) DeleteCrop(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return httperr.BadRequest(c, "invalid id")
	}
	if err := h.s.DeleteCrop(c.Request().Context(), id); err != nil {
		return httperr.Respond(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func parseID(c echo.Context) (uint, error) {
	v, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return uint(v), err
}
