package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"agro/config"
	"agro/database"
	"agro/pkg/cache"
	dashCtrlImp "agro/pkg/dashboard/controllerImp"
	dashSvcImp "agro/pkg/dashboard/serviceImp"
	farmCtrlImp "agro/pkg/farm/controllerImp"
	farmSvcImp "agro/pkg/farm/serviceImp"
	healthCtrlImp "agro/pkg/health/controllerImp"
	producerCtrlImp "agro/pkg/producer/controllerImp"
	producerSvcImp "agro/pkg/producer/serviceImp"
	"agro/pkg/registry/repositoryImp"
	reportCtrlImp "agro/pkg/report/controllerImp"
	"agro/router"
)

func newServeCommand(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log)
		},
	}
}

func serve(ctx context.Context, cfg config.AppConfig, log *zap.Logger) error {
	e, cleanup, err := buildServer(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.Addr()), zap.String("db_driver", cfg.DBDriver))
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// buildServer opens storage and the cache and wires every controller into
// the router. cleanup closes what was opened.
func buildServer(ctx context.Context, cfg config.AppConfig, log *zap.Logger) (*echo.Echo, func(), error) {
	db, err := database.Open(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	closers := []func() error{sqlDB.Close}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Warn("close", zap.Error(err))
			}
		}
	}

	if cfg.SeedDemo {
		seeded, err := database.Seed(ctx, db)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		log.Info("demo data", zap.Bool("seeded", seeded))
	}

	var c cache.Cache = cache.NewMemory()
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedis(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   "agro:",
		})
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, rc.Close)
		c = rc
	}

	repo := repositoryImp.New(db)
	dash := dashSvcImp.New(repo, c, cfg.CacheTTL, log)

	e := router.New(echo.New(), log, router.Controllers{
		Producer:  producerCtrlImp.New(producerSvcImp.New(repo, dash, log), log),
		Farm:      farmCtrlImp.New(farmSvcImp.New(repo, dash, log), log),
		Dashboard: dashCtrlImp.New(dash, log),
		Report:    reportCtrlImp.New(repo, log),
		Health: healthCtrlImp.NewHealthCtrl(Version, map[string]healthCtrlImp.Pinger{
			"database": healthCtrlImp.SQLPinger(sqlDB),
			"cache":    c,
		}),
	})
	return e, cleanup, nil
}
