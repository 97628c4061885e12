// Package httperr turns service errors into echo JSON responses.
package httperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"agro/pkg/apperr"
)

// Status maps an error to its HTTP status code.
func Status(err error) int {
	kind, ok := apperr.KindOf(err)
	if !ok {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he.Code
		}
		return http.StatusInternalServerError
	}
	switch kind {
	case apperr.KindInvalidFormat, apperr.KindInvalidChecksum,
		apperr.KindNonPositiveArea, apperr.KindAreaSumExceedsTotal,
		apperr.KindInvalidInput:
		return http.StatusUnprocessableEntity
	case apperr.KindDuplicateTaxID:
		return http.StatusConflict
	case apperr.KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// Body renders err as {"error", "code", "field"}. Internal errors hide
// their cause.
func Body(err error) echo.Map {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		return echo.Map{"error": "internal error", "code": "Internal"}
	}
	msg := ae.Message
	if msg == "" {
		msg = string(ae.Kind)
	}
	m := echo.Map{"error": msg, "code": string(ae.Kind)}
	if ae.Field != "" {
		m["field"] = ae.Field
	}
	return m
}

// Write sends the JSON error response for err.
func Write(c echo.Context, err error) error {
	return c.JSON(Status(err), Body(err))
}

// Respond is Write plus an error log line for server-side failures.
func Respond(c echo.Context, log *zap.Logger, err error) error {
	status := Status(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			zap.Error(err))
	}
	return c.JSON(status, Body(err))
}

// BadRequest is the response for unreadable input such as malformed JSON
// or a non-numeric path id.
func BadRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg, "code": "BadRequest"})
}

// Handler replaces echo's default error handler so router errors (unknown
// route, wrong method) share the {"error", "code"} body.
func Handler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		var he *echo.HTTPError
		if errors.As(err, &he) && !isApp(err) {
			msg := fmt.Sprint(he.Message)
			code := strings.ReplaceAll(http.StatusText(he.Code), " ", "")
			if c.Request().Method == http.MethodHead {
				err = c.NoContent(he.Code)
			} else {
				err = c.JSON(he.Code, echo.Map{"error": msg, "code": code})
			}
			if err != nil {
				log.Warn("write error response", zap.Error(err))
			}
			return
		}
		if werr := Respond(c, log, err); werr != nil {
			log.Warn("write error response", zap.Error(werr))
		}
	}
}

func isApp(err error) bool {
	_, ok := apperr.KindOf(err)
	return ok
}
