package controllerImp

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"agro/entities"
	"agro/pkg/httperr"
	"agro/pkg/registry/repository"
	"agro/pkg/report"
)

const (
	pageSize = 500
	xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type ReportCtrl struct {
	repo repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func New(r repository.Repository, log *zap.Logger) *ReportCtrl {
	return &ReportCtrl{repo: r, log: log, now: time.Now}
}

// Export sends the whole registry as an xlsx attachment.
func (h *ReportCtrl) Export(c echo.Context) error {
	ctx := c.Request().Context()
	producers, err := h.all(ctx)
	if err != nil {
		return httperr.Respond(c, h.log, err)
	}

	var buf bytes.Buffer
	if err := report.Write(&buf, producers); err != nil {
		return httperr.Respond(c, h.log, fmt.Errorf("write workbook: %w", err))
	}
	name := fmt.Sprintf("farms-%s.xlsx", h.now().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, xlsxMIME, buf.Bytes())
}

func (h *ReportCtrl) all(ctx context.Context) ([]entities.Producer, error) {
	var out []entities.Producer
	for offset := 0; ; offset += pageSize {
		page, err := h.repo.ListProducers(ctx, offset, pageSize)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		if len(page) < pageSize {
			return out, nil
		}
	}
}
