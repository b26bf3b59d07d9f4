package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sukhrobfullstackdev/magic-dashboard-sub000/internal/domain/authlog"
	"github.com/sukhrobfullstackdev/magic-dashboard-sub000/internal/usecase/auditlog"
	"go.uber.org/zap"
)

type timelineEntryResponse struct {
	Kind           authlog.EntryKind      `json:"kind"`
	EventID        string                 `json:"event_id,omitempty"`
	Status         authlog.Status         `json:"status,omitempty"`
	Event          *authlog.Event         `json:"event,omitempty"`
	Classification authlog.Classification `json:"classification,omitempty"`
	Label          string                 `json:"label"`
}

type detailResponse struct {
	authlog.EventDetail
	UserAgent     string `json:"user_agent"`
	ProviderLabel string `json:"provider_label"`
}

// GetAttemptTimeline returns the ordered timeline of one login attempt.
func (r *Router) GetAttemptTimeline(c *gin.Context) {
	key := attemptKey(c)

	entries, err := r.auditSvc.Timeline(c.Request.Context(), key)
	if err != nil {
		r.writeError(c, "failed to build timeline", err)
		return
	}

	out := make([]timelineEntryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, toTimelineEntryResponse(entry))
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// GetAttemptDetail returns the merged detail record of one login attempt.
func (r *Router) GetAttemptDetail(c *gin.Context) {
	key := attemptKey(c)

	detail, err := r.auditSvc.Detail(c.Request.Context(), key)
	if err != nil {
		r.writeError(c, "failed to summarize attempt", err)
		return
	}

	userAgent := detail.UserAgent
	if userAgent == "" {
		userAgent = authlog.LabelUnknown
	}
	c.JSON(http.StatusOK, gin.H{"data": detailResponse{
		EventDetail:   detail,
		UserAgent:     userAgent,
		ProviderLabel: authlog.ProviderLabel(detail.Provider, detail.HasCustomSMTP),
	}})
}

func toTimelineEntryResponse(entry authlog.TimelineEntry) timelineEntryResponse {
	resp := timelineEntryResponse{
		Kind:           entry.Kind,
		EventID:        entry.EventID,
		Status:         entry.Status,
		Event:          entry.Event,
		Classification: entry.Classification,
	}
	if entry.IsPending() {
		resp.Label = authlog.EventTypeLabel(entry.Status, true, "")
	} else {
		resp.Label = authlog.EventTypeLabel(entry.Event.Status, false, entry.Event.ErrorDetail)
	}
	return resp
}

func attemptKey(c *gin.Context) authlog.AttemptKey {
	return authlog.AttemptKey{AppID: c.Param("app_id"), AttemptID: c.Param("attempt_id")}
}

// writeError maps domain errors onto HTTP responses.
func (r *Router) writeError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, authlog.ErrUnknownStatus):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unknown_status_code", "detail": err.Error()})
	case errors.Is(err, authlog.ErrUnknownGroupType):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unknown_group_type", "detail": err.Error()})
	case errors.Is(err, authlog.ErrGroupMismatch):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "group_mismatch", "detail": err.Error()})
	case errors.Is(err, auditlog.ErrInvalidAttemptKey):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, authlog.ErrEmptyEvents):
		c.JSON(http.StatusNotFound, gin.H{"error": "attempt_not_found"})
	default:
		r.logger.Error(msg, zap.Error(err), zap.String("request_id", c.GetString("request_id")))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}
