package serviceImp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"agro/entities"
	"agro/pkg/cache"
	"agro/pkg/dashboard"
	"agro/pkg/dashboard/service"
	"agro/pkg/registry/repository"
)

const (
	statsKey = "dashboard:stats"
	// genKey counts invalidations. A cached entry is served only while its
	// generation is still current, so a snapshot that raced a write is never
	// served after that write's Invalidate.
	genKey = "dashboard:gen"
)

type entry struct {
	Gen   int64           `json:"gen"`
	Stats dashboard.Stats `json:"stats"`
}

type dashboardSvc struct {
	repo  repository.Repository
	cache cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

// New caches computed stats for ttl. A zero ttl or nil cache disables caching.
func New(r repository.Repository, c cache.Cache, ttl time.Duration, log *zap.Logger) service.DashboardService {
	return &dashboardSvc{repo: r, cache: c, ttl: ttl, log: log}
}

func (s *dashboardSvc) cached() bool { return s.cache != nil && s.ttl > 0 }

func (s *dashboardSvc) generation(ctx context.Context) (int64, error) {
	b, err := s.cache.Get(ctx, genKey)
	if errors.Is(err, cache.ErrMiss) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(string(b), 10, 64)
}

func (s *dashboardSvc) Stats(ctx context.Context) (dashboard.Stats, error) {
	useCache := s.cached()
	var gen int64
	if useCache {
		var err error
		if gen, err = s.generation(ctx); err != nil {
			s.log.Warn("stats cache generation unreadable", zap.Error(err))
			useCache = false
		}
	}
	if useCache {
		if st, ok := s.lookup(ctx, gen); ok {
			return st, nil
		}
	}

	var (
		farms []entities.Farm
		crops []entities.Crop
	)
	// one transaction so farms and crops come from the same snapshot
	err := s.repo.Transaction(ctx, func(tx repository.Repository) error {
		var err error
		if farms, err = tx.AllFarms(ctx); err != nil {
			return err
		}
		crops, err = tx.AllCrops(ctx)
		return err
	})
	if err != nil {
		return dashboard.Stats{}, fmt.Errorf("load snapshot: %w", err)
	}
	st := dashboard.Compute(farms, crops)

	if useCache {
		// tagged with the generation read before the snapshot
		b, err := json.Marshal(entry{Gen: gen, Stats: st})
		if err == nil {
			err = s.cache.Set(ctx, statsKey, b, s.ttl)
		}
		if err != nil {
			s.log.Warn("stats cache write failed", zap.Error(err))
		}
	}
	return st, nil
}

func (s *dashboardSvc) lookup(ctx context.Context, gen int64) (dashboard.Stats, bool) {
	b, err := s.cache.Get(ctx, statsKey)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.log.Warn("stats cache read failed", zap.Error(err))
		}
		return dashboard.Stats{}, false
	}
	var e entry
	if err := json.Unmarshal(b, &e); err != nil {
		s.log.Warn("discarding unreadable cached stats")
		return dashboard.Stats{}, false
	}
	if e.Gen != gen {
		return dashboard.Stats{}, false
	}
	return e.Stats, true
}

// Invalidate bumps the generation before dropping the entry, so an entry
// written by a Stats call that started earlier is never served again.
func (s *dashboardSvc) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.Incr(ctx, genKey); err != nil {
		s.log.Warn("stats cache generation bump failed", zap.Error(err))
	}
	if err := s.cache.Delete(ctx, statsKey); err != nil {
		s.log.Warn("stats cache invalidation failed", zap.Error(err))
	}
}
