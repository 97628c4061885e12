package controllerImp

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

var appStart = time.Now()

// Pinger is one dependency the health check pings.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// SQLPinger pings a database/sql handle (gorm's db.DB()).
func SQLPinger(db *sql.DB) Pinger {
	return PingFunc(func(ctx context.Context) error {
		if db == nil {
			return errNilDB
		}
		return db.PingContext(ctx)
	})
}

type healthErr string

func (e healthErr) Error() string { return string(e) }

const errNilDB = healthErr("database handle is nil")

type HealthCtrl struct {
	checks  map[string]Pinger
	timeout time.Duration
	version string
}

func NewHealthCtrl(version string, checks map[string]Pinger) *HealthCtrl {
	return &HealthCtrl{checks: checks, timeout: 800 * time.Millisecond, version: version}
}

type sub struct {
	OK  bool   `json:"ok"`
	Err string `json:"err,omitempty"`
}

func (h *HealthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	allOK := true
	checks := make(map[string]sub, len(h.checks))
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			allOK = false
			checks[name] = sub{OK: false, Err: err.Error()}
			continue
		}
		checks[name] = sub{OK: true}
	}

	status := http.StatusOK
	if !allOK {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, map[string]any{
		"status":     map[string]any{"ok": allOK},
		"uptime_sec": int(time.Since(appStart).Seconds()),
		"checks":     checks,
		"time":       time.Now().Format(time.RFC3339),
	})
}

// Root answers GET / with the service name and version.
func (h *HealthCtrl) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"service": "agro", "version": h.version})
}
