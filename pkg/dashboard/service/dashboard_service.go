package service

import (
	"context"

	"agro/pkg/dashboard"
)

// Invalidator is notified after every committed registry write.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type DashboardService interface {
	Invalidator
	Stats(ctx context.Context) (dashboard.Stats, error)
}
