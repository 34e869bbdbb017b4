package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"aircheck/internal/playlog"
)

// RecentHandler serves the rolling recently-played list, newest first.
type RecentHandler struct {
	log *playlog.Log
}

func NewRecentHandler(log *playlog.Log) *RecentHandler {
	return &RecentHandler{log: log}
}

type recentItem struct {
	Artist    string `json:"artist"`
	Title     string `json:"title"`
	StartTime string `json:"startTime"`
	Duration  *int   `json:"duration"`
	Source    string `json:"source"`
}

func (h *RecentHandler) GetRecent(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		limit = 10
	}

	entries, err := h.log.Recent(c.Request.Context(), limit)
	if err != nil {
		// The log is advisory; an unreadable log is an empty list, not an
		// error the polling client has to handle.
		c.JSON(http.StatusOK, []recentItem{})
		return
	}

	items := make([]recentItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, recentItem{
			Artist:    e.Artist,
			Title:     e.Title,
			StartTime: e.ScheduledTime.UTC().Format(time.RFC3339),
			Duration:  e.DurationSeconds,
			Source:    e.Source,
		})
	}
	c.Header("Cache-Control", "public, max-age=15")
	c.JSON(http.StatusOK, items)
}
