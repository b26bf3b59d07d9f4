package api

import (
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sukhrobfullstackdev/magic-dashboard-sub000/internal/domain/authlog"
)

type statusCountResponse struct {
	Status authlog.Status `json:"status"`
	Count  int64          `json:"count"`
	Label  string         `json:"label"`
}

// GetLoginStats returns the dashboard tiles for an app.
func (r *Router) GetLoginStats(c *gin.Context) {
	stats, err := r.auditSvc.Stats(c.Request.Context(), c.Param("app_id"))
	if err != nil {
		r.writeError(c, "failed to load stats", err)
		return
	}

	counts := make([]statusCountResponse, 0, len(stats.Counts))
	for _, sc := range stats.Counts {
		counts = append(counts, statusCountResponse{
			Status: sc.Status,
			Count:  sc.Count,
			Label:  authlog.EventTypeLabel(sc.Status, false, ""),
		})
	}

	// JSON has no NaN/Inf; a rate without initiated logins is reported as null.
	var rate *float64
	if !math.IsNaN(stats.ConversionRate) && !math.IsInf(stats.ConversionRate, 0) {
		rate = &stats.ConversionRate
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"counts":          counts,
		"error_count":     stats.ErrorCount,
		"conversion_rate": rate,
		"since":           stats.Since.Format(time.RFC3339),
	}})
}
