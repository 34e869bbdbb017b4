package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"aircheck/internal/reconciler"
)

// NowPlayingHandler serves the canonical record. Always 200 with a valid
// shape; degraded states are expressed in the payload, not the status.
type NowPlayingHandler struct {
	svc *reconciler.Service
}

func NewNowPlayingHandler(svc *reconciler.Service) *NowPlayingHandler {
	return &NowPlayingHandler{svc: svc}
}

// passBudget bounds one whole reconciliation pass: even under total
// upstream failure the client gets an answer inside this window.
const passBudget = 10 * time.Second

func (h *NowPlayingHandler) GetNowPlaying(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), passBudget)
	defer cancel()

	rec := h.svc.NowPlaying(ctx)

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, rec)
}
