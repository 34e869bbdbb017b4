package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"aircheck/internal/ingest"
	"aircheck/internal/metrics"
)

// IngestHandler accepts push-submitted records from the playout system.
type IngestHandler struct {
	gate *ingest.Gate
}

func NewIngestHandler(gate *ingest.Gate) *IngestHandler {
	return &IngestHandler{gate: gate}
}

func (h *IngestHandler) PostIngest(c *gin.Context) {
	var payload ingest.Payload

	// Playout software sends JSON or form-encoded bodies depending on
	// vendor; accept both.
	ct := c.ContentType()
	var bindErr error
	if strings.Contains(ct, "application/x-www-form-urlencoded") || strings.Contains(ct, "multipart/form-data") {
		bindErr = c.ShouldBind(&payload)
	} else {
		bindErr = c.ShouldBindJSON(&payload)
	}
	if bindErr != nil {
		metrics.IngestRequests.WithLabelValues("bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	result, err := h.gate.Ingest(c.Request.Context(), payload, bearerToken(c))
	switch {
	case errors.Is(err, ingest.ErrUnauthorized):
		metrics.IngestRequests.WithLabelValues("unauthorized").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, ingest.ErrInvalidPayload):
		metrics.IngestRequests.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "artist and title are required"})
	case errors.Is(err, ingest.ErrStoreWrite):
		metrics.IngestRequests.WithLabelValues("store_error").Inc()
		c.JSON(http.StatusBadGateway, gin.H{"error": "storage write failed"})
	case err != nil:
		metrics.IngestRequests.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
	case result.Skipped != "":
		metrics.IngestRequests.WithLabelValues("skipped_" + result.Skipped).Inc()
		c.JSON(http.StatusOK, gin.H{"ok": true, "skipped": result.Skipped})
	default:
		metrics.IngestRequests.WithLabelValues("stored").Inc()
		c.JSON(http.StatusOK, gin.H{"ok": true, "saved": result.Saved})
	}
}

// bearerToken pulls the token from the Authorization header, falling back
// to the ?token= query parameter some playout vendors insist on.
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return c.Query("token")
}
