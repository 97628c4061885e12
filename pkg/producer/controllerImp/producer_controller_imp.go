package controllerImp

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"agro/entities"
	"agro/pkg/httperr"
	"agro/pkg/producer/service"
	"agro/pkg/registry"
	"agro/pkg/taxid"
)

const defaultLimit = 100

type ProducerCtrl struct {
	s   service.ProducerService
	log *zap.Logger
}

func New(s service.ProducerService, log *zap.Logger) *ProducerCtrl {
	return &ProducerCtrl{s: s, log: log}
}

// producerView adds the punctuated tax id to the stored producer.
type producerView struct {
	entities.Producer
	TaxIDFormatted string `json:"tax_id_formatted"`
}

func view(p *entities.Producer) producerView {
	if p.Farms == nil {
		p.Farms = []entities.Farm{}
	}
	return producerView{Producer: *p, TaxIDFormatted: taxid.Format(p.TaxID)}
}

func (h *ProducerCtrl) Create(c echo.Context) error {
	var in registry.ProducerInput
	if err := c.Bind(&in); err != nil {
		return httperr.BadRequest(c, "invalid json")
	}
	p, err := h.s.Create(c.Request().Context(), in)
	if err != nil {
		return httperr.Respond(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, view(p))
}

func (h *ProducerCtrl) List(c echo.Context) error {
	skip, err := intQuery(c, "skip", 0)
	if err != nil {
		return httperr.BadRequest(c, "invalid skip")
	}
	limit, err := intQuery(c, "limit", defaultLimit)
	if err != nil {
		return httperr.BadRequest(c, "invalid limit")
	}
	ps, err := h.s.List(c.Request().Context(), skip, limit)
	if err != nil {
		return httperr.Respond(c, h.log, err)
	}
	out := make([]producerView, len(ps))
	for i := range ps {
		out[i] = view(&ps[i])
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProducerCtrl) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return httperr.BadRequest(c, "invalid id")
	}
	p, err := h.s.Get(c.Request().Context(), id)
	if err != nil {
		return httperr.Respond(c, h.log, err)
	}
	return c.JSON(http.StatusOK, view(p))
}

func (h *ProducerCtrl) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return httperr.BadRequest(c, "invalid id")
	}
	var in registry.ProducerInput
	if err := c.Bind(&in); err != nil {
		return httperr.BadRequest(c, "invalid json")
	}
	p, err := h.s.Update(c.Request().Context(), id, in)
	if err != nil {
		return httperr.Respond(c, h.log, err)
	}
	return c.JSON(http.StatusOK, view(p))
}

func (h *ProducerCtrl) Patch(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return httperr.BadRequest(c, "invalid id")
	}
	var in service.ProducerPatch
	if err := c.Bind(&in); err != nil {
		return httperr.BadRequest(c, "invalid json")
	}
	p, err := h.s.Patch(c.Request().Context(), id, in)
	if err != nil {
		return httperr.Respond(c, h.log, err)
	}
	return c.JSON(http.StatusOK, view(p))
}

func (h *ProducerCtrl) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return httperr.BadRequest(c, "invalid id")
	}
	if err := h.s.Delete(c.Request().Context(), id); err != nil {
		return httperr.Respond(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func parseID(c echo.Context) (uint, error) {
	v, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return uint(v), err
}

func intQuery(c echo.Context, name string, def int) (int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}
