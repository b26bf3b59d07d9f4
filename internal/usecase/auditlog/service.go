package auditlog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sukhrobfullstackdev/magic-dashboard-sub000/internal/config"
	"github.com/sukhrobfullstackdev/magic-dashboard-sub000/internal/domain/authlog"
	"github.com/sukhrobfullstackdev/magic-dashboard-sub000/internal/metrics"
	"github.com/sukhrobfullstackdev/magic-dashboard-sub000/pkg/snowflake"
	"go.uber.org/zap"
)

// ErrInvalidAttemptKey is returned when an event is recorded without its app or attempt.
var ErrInvalidAttemptKey = errors.New("app_id and attempt_id are required")

// StatsCache stores per-app status aggregates with the window they cover.
type StatsCache interface {
	Get(ctx context.Context, appID string) (authlog.StatsSnapshot, bool, error)
	Set(ctx context.Context, appID string, snap authlog.StatsSnapshot) error
}

// IDGenerator issues unique event IDs.
type IDGenerator interface {
	GenerateID() int64
}

// Stats is the dashboard aggregate for one app.
type Stats struct {
	Counts         []authlog.StatusCount
	ErrorCount     int64
	ConversionRate float64
	Since          time.Time
}

type Service struct {
	events   authlog.EventRepository
	settings authlog.SettingsRepository
	cache    StatsCache
	ids      IDGenerator
	window   time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(
	events authlog.EventRepository,
	settings authlog.SettingsRepository,
	cache StatsCache,
	ids IDGenerator,
	cfg *config.Config,
	logger *zap.Logger,
) *Service {
	return &Service{
		events:   events,
		settings: settings,
		cache:    cache,
		ids:      ids,
		window:   cfg.StatsWindow,
		logger:   logger.Named("auditlog"),
		now:      time.Now,
	}
}

// Timeline builds the step-by-step view of an attempt from its newest events.
func (s *Service) Timeline(ctx context.Context, key authlog.AttemptKey) ([]authlog.TimelineEntry, error) {
	hasCustomSMTP, err := s.settings.HasCustomSMTP(ctx, key.AppID)
	if err != nil {
		return nil, err
	}

	events, err := s.events.ListRecentByAttempt(ctx, key, authlog.TimelineCapacity)
	if err != nil {
		return nil, err
	}

	entries, err := authlog.BuildTimeline(events, hasCustomSMTP)
	if err != nil {
		s.observeUnknownCode(err, key)
		return nil, err
	}

	metrics.TimelinesBuiltTotal.Inc()
	s.logger.Debug("timeline_built",
		zap.String("app_id", key.AppID),
		zap.String("attempt_id", key.AttemptID),
		zap.Int("entries", len(entries)),
	)
	return entries, nil
}

// Detail merges every event of an attempt into one record.
func (s *Service) Detail(ctx context.Context, key authlog.AttemptKey) (authlog.EventDetail, error) {
	hasCustomSMTP, err := s.settings.HasCustomSMTP(ctx, key.AppID)
	if err != nil {
		return authlog.EventDetail{}, err
	}

	events, err := s.events.ListByAttempt(ctx, key)
	if err != nil {
		return authlog.EventDetail{}, err
	}

	detail, err := authlog.SummarizeDetail(events, hasCustomSMTP)
	if err != nil {
		s.observeUnknownCode(err, key)
		return authlog.EventDetail{}, err
	}
	return detail, nil
}

// Stats returns the aggregate counts for the configured window, cache first.
// Since is the window start the returned counts were computed for.
func (s *Service) Stats(ctx context.Context, appID string) (Stats, error) {
	snap, ok, err := s.cache.Get(ctx, appID)
	if err != nil {
		s.logger.Warn("stats_cache_get_failed", zap.String("app_id", appID), zap.Error(err))
	}
	if ok {
		metrics.StatsCacheLookupsTotal.WithLabelValues("hit").Inc()
	} else {
		metrics.StatsCacheLookupsTotal.WithLabelValues("miss").Inc()
		snap, err = s.loadSnapshot(ctx, appID)
		if err != nil {
			return Stats{}, err
		}
	}

	counts := snap.Counts
	errorCount, err := authlog.ErrorCount(counts)
	if err != nil {
		s.observeUnknownCode(err, authlog.AttemptKey{AppID: appID})
		return Stats{}, err
	}

	return Stats{
		Counts:         counts,
		ErrorCount:     errorCount,
		ConversionRate: authlog.ConversionRate(counts),
		Since:          snap.Since,
	}, nil
}

// RefreshStats recomputes the aggregate for appID and stores it in the cache.
func (s *Service) RefreshStats(ctx context.Context, appID string) error {
	_, err := s.loadSnapshot(ctx, appID)
	return err
}

// ActiveApps lists apps with events inside the stats window.
func (s *Service) ActiveApps(ctx context.Context, limit int) ([]string, error) {
	return s.events.ListActiveApps(ctx, s.since(), limit)
}

// Record validates ev against the status catalog and persists it under a new ID.
func (s *Service) Record(ctx context.Context, key authlog.AttemptKey, ev authlog.Event) (authlog.Event, error) {
	if key.AppID == "" || key.AttemptID == "" {
		return authlog.Event{}, ErrInvalidAttemptKey
	}
	if err := ev.Validate(); err != nil {
		s.observeUnknownCode(err, key)
		return authlog.Event{}, err
	}

	ev.EventID = snowflake.FormatID(s.ids.GenerateID())
	if ev.Timestamp == 0 {
		ev.Timestamp = s.now().Unix()
	}

	if err := s.events.Record(ctx, key, ev); err != nil {
		return authlog.Event{}, err
	}

	s.logger.Info("event_recorded",
		zap.String("app_id", key.AppID),
		zap.String("attempt_id", key.AttemptID),
		zap.String("event_id", ev.EventID),
		zap.String("status", string(ev.Status)),
	)
	return ev, nil
}

func (s *Service) loadSnapshot(ctx context.Context, appID string) (authlog.StatsSnapshot, error) {
	since := s.since()
	counts, err := s.events.CountByStatus(ctx, appID, since)
	if err != nil {
		return authlog.StatsSnapshot{}, fmt.Errorf("load stats for %s: %w", appID, err)
	}

	snap := authlog.StatsSnapshot{Counts: counts, Since: since}
	if err := s.cache.Set(ctx, appID, snap); err != nil {
		s.logger.Warn("stats_cache_set_failed", zap.String("app_id", appID), zap.Error(err))
	}
	return snap, nil
}

func (s *Service) since() time.Time {
	return s.now().Add(-s.window).UTC()
}

func (s *Service) observeUnknownCode(err error, key authlog.AttemptKey) {
	var kind string
	switch {
	case errors.Is(err, authlog.ErrUnknownStatus):
		kind = "status"
	case errors.Is(err, authlog.ErrUnknownGroupType):
		kind = "group_type"
	case errors.Is(err, authlog.ErrGroupMismatch):
		kind = "group_mismatch"
	default:
		return
	}

	metrics.UnknownCodesTotal.WithLabelValues(kind).Inc()
	s.logger.Warn("unknown_code",
		zap.String("kind", kind),
		zap.String("app_id", key.AppID),
		zap.String("attempt_id", key.AttemptID),
		zap.Error(err),
	)
}
