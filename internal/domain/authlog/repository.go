package authlog

import (
	"context"
	"time"
)

// AttemptKey identifies the events of one login attempt within an app.
type AttemptKey struct {
	AppID     string
	AttemptID string
}

// EventRepository defines access to persisted raw event rows.
type EventRepository interface {
	// Record persists one raw event. ev.EventID must be a numeric snowflake ID.
	Record(ctx context.Context, key AttemptKey, ev Event) error

	// ListByAttempt returns every event of the attempt, oldest first.
	ListByAttempt(ctx context.Context, key AttemptKey) ([]Event, error)

	// ListRecentByAttempt returns at most limit events of the attempt, newest first.
	ListRecentByAttempt(ctx context.Context, key AttemptKey, limit int) ([]Event, error)

	// CountByStatus aggregates the app's events since the given time.
	CountByStatus(ctx context.Context, appID string, since time.Time) ([]StatusCount, error)

	// ListActiveApps returns apps that recorded events since the given time.
	ListActiveApps(ctx context.Context, since time.Time, limit int) ([]string, error)
}

// SettingsRepository exposes the tenant mail configuration.
type SettingsRepository interface {
	HasCustomSMTP(ctx context.Context, appID string) (bool, error)
}
