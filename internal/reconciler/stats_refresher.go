package reconciler

import (
	"context"
	"time"

	"github.com/sukhrobfullstackdev/magic-dashboard-sub000/internal/config"
	"go.uber.org/zap"
)

// StatsSource lists active apps and recomputes their cached stats.
type StatsSource interface {
	ActiveApps(ctx context.Context, limit int) ([]string, error)
	RefreshStats(ctx context.Context, appID string) error
}

// StatsRefresher keeps the dashboard stats cache warm for apps with recent traffic.
type StatsRefresher struct {
	source    StatsSource
	logger    *zap.Logger
	interval  time.Duration
	batchSize int
}

func NewStatsRefresher(source StatsSource, cfg *config.Config, logger *zap.Logger) *StatsRefresher {
	return &StatsRefresher{
		source:    source,
		logger:    logger.Named("stats.refresher"),
		interval:  cfg.StatsRefreshInterval,
		batchSize: cfg.StatsRefreshBatch,
	}
}

func (r *StatsRefresher) Run(ctx context.Context) {
	if r.interval <= 0 {
		r.logger.Info("stats_refresher_disabled")
		return
	}

	if err := r.refresh(ctx); err != nil {
		r.logger.Error("refresh_initial_failed", zap.Error(err))
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.refresh(ctx); err != nil {
				r.logger.Error("refresh_failed", zap.Error(err))
			}
		}
	}
}

func (r *StatsRefresher) refresh(ctx context.Context) error {
	apps, err := r.source.ActiveApps(ctx, r.batchSize)
	if err != nil {
		return err
	}

	for _, appID := range apps {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := r.source.RefreshStats(ctx, appID); err != nil {
			r.logger.Warn("refresh_app_failed", zap.Error(err), zap.String("app_id", appID))
		}
	}
	return nil
}
