package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sukhrobfullstackdev/magic-dashboard-sub000/internal/domain/authlog"
	"github.com/sukhrobfullstackdev/magic-dashboard-sub000/pkg/snowflake"
	"gorm.io/gorm"
)

// EventModel is the database DTO with Gorm tags.
type EventModel struct {
	ID                  int64  `gorm:"primaryKey"`
	AppID               string `gorm:"type:varchar(100);index:idx_auth_events_attempt,priority:1"`
	AttemptID           string `gorm:"type:varchar(100);index:idx_auth_events_attempt,priority:2"`
	Status              string `gorm:"type:varchar(64);not null"`
	GroupType           string `gorm:"type:varchar(32)"`
	Timestamp           int64  `gorm:"not null;index"`
	Provider            string `gorm:"type:varchar(64)"`
	IPAddress           string `gorm:"type:varchar(64)"`
	UserAgent           string `gorm:"type:text"`
	AuthUserID          string `gorm:"type:varchar(255)"`
	UserIdentifierValue string `gorm:"type:varchar(255)"`
	Sort                string `gorm:"type:varchar(100)"`
	ErrorDetail         string `gorm:"type:text"`

	CreatedAt time.Time
}

func (EventModel) TableName() string {
	return "auth_events"
}

// MailSettingsModel stores the outbound mail configuration of an app.
type MailSettingsModel struct {
	AppID             string `gorm:"primaryKey;type:varchar(100)"`
	CustomSMTPEnabled bool   `gorm:"not null;default:false"`
	SenderEmail       string `gorm:"type:varchar(255)"`
	UpdatedAt         time.Time
}

func (MailSettingsModel) TableName() string {
	return "app_mail_settings"
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Record(ctx context.Context, key authlog.AttemptKey, ev authlog.Event) error {
	id, err := snowflake.ParseID(ev.EventID)
	if err != nil {
		return fmt.Errorf("parse event id %q: %w", ev.EventID, err)
	}
	model := toModel(key, id, ev)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("record event: %w", err)
	}
	return nil
}

func (r *Repository) ListByAttempt(ctx context.Context, key authlog.AttemptKey) ([]authlog.Event, error) {
	var models []EventModel
	err := r.db.WithContext(ctx).
		Where("app_id = ? AND attempt_id = ?", key.AppID, key.AttemptID).
		Order("timestamp asc").
		Order("id asc").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return toDomainList(models), nil
}

func (r *Repository) ListRecentByAttempt(ctx context.Context, key authlog.AttemptKey, limit int) ([]authlog.Event, error) {
	query := r.db.WithContext(ctx).
		Where("app_id = ? AND attempt_id = ?", key.AppID, key.AttemptID).
		Order("timestamp desc").
		Order("id desc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []EventModel
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list recent events: %w", err)
	}
	return toDomainList(models), nil
}

func (r *Repository) CountByStatus(ctx context.Context, appID string, since time.Time) ([]authlog.StatusCount, error) {
	type statusCount struct {
		Status string
		Count  int64
	}

	var results []statusCount
	err := r.db.WithContext(ctx).
		Model(&EventModel{}).
		Select("status, COUNT(*) as count").
		Where("app_id = ? AND timestamp >= ?", appID, since.Unix()).
		Group("status").
		Order("status").
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("count events by status: %w", err)
	}

	counts := make([]authlog.StatusCount, 0, len(results))
	for _, res := range results {
		counts = append(counts, authlog.StatusCount{Status: authlog.Status(res.Status), Count: res.Count})
	}
	return counts, nil
}

func (r *Repository) ListActiveApps(ctx context.Context, since time.Time, limit int) ([]string, error) {
	query := r.db.WithContext(ctx).
		Model(&EventModel{}).
		Distinct("app_id").
		Where("timestamp >= ?", since.Unix()).
		Order("app_id")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var apps []string
	if err := query.Pluck("app_id", &apps).Error; err != nil {
		return nil, fmt.Errorf("list active apps: %w", err)
	}
	return apps, nil
}

func (r *Repository) HasCustomSMTP(ctx context.Context, appID string) (bool, error) {
	var model MailSettingsModel
	if err := r.db.WithContext(ctx).Where("app_id = ?", appID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load mail settings: %w", err)
	}
	return model.CustomSMTPEnabled, nil
}

// Mappers

func toDomain(m EventModel) authlog.Event {
	return authlog.Event{
		EventID:             snowflake.FormatID(m.ID),
		Status:              authlog.Status(m.Status),
		GroupType:           authlog.GroupType(m.GroupType),
		Timestamp:           m.Timestamp,
		Provider:            m.Provider,
		IPAddress:           m.IPAddress,
		UserAgent:           m.UserAgent,
		AuthUserID:          m.AuthUserID,
		UserIdentifierValue: m.UserIdentifierValue,
		Sort:                m.Sort,
		ErrorDetail:         m.ErrorDetail,
	}
}

func toDomainList(models []EventModel) []authlog.Event {
	events := make([]authlog.Event, 0, len(models))
	for _, m := range models {
		events = append(events, toDomain(m))
	}
	return events
}

func toModel(key authlog.AttemptKey, id int64, ev authlog.Event) EventModel {
	return EventModel{
		ID:                  id,
		AppID:               key.AppID,
		AttemptID:           key.AttemptID,
		Status:              string(ev.Status),
		GroupType:           string(ev.GroupType),
		Timestamp:           ev.Timestamp,
		Provider:            ev.Provider,
		IPAddress:           ev.IPAddress,
		UserAgent:           ev.UserAgent,
		AuthUserID:          ev.AuthUserID,
		UserIdentifierValue: ev.UserIdentifierValue,
		Sort:                ev.Sort,
		ErrorDetail:         ev.ErrorDetail,
		CreatedAt:           time.Now().UTC(),
	}
}
