package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sukhrobfullstackdev/magic-dashboard-sub000/internal/domain/authlog"
)

type recordEventRequest struct {
	AttemptID string `json:"attempt_id" binding:"required"`
	authlog.Event
}

// RecordEvent stores one raw event row delivered by the login pipeline.
func (r *Router) RecordEvent(c *gin.Context) {
	var req recordEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	key := authlog.AttemptKey{AppID: c.Param("app_id"), AttemptID: req.AttemptID}
	ev, err := r.auditSvc.Record(c.Request.Context(), key, req.Event)
	if err != nil {
		r.writeError(c, "failed to record event", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": ev})
}
