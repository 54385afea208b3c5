package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health godoc
// @Summary      Health check
// @Description  Returns the health status of the analysis service
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// GetSnapshot godoc
// @Summary      Latest analysis snapshot
// @Description  Returns the stored snapshot, rebuilding only when it is stale
// @Tags         snapshot
// @Produce      json
// @Success      200  {object}  domain.Snapshot
// @Failure      503  {object}  map[string]string
// @Router       /api/snapshot [get]
func (h *Handler) GetSnapshot(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-snapshot")
	defer span.End()

	snapshot, err := h.snapshots.Latest(ctx, false)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// AnalyzeAll godoc
// @Summary      Run a full analysis pass
// @Description  Returns the latest snapshot; force_refresh=true rebuilds it first
// @Tags         snapshot
// @Produce      json
// @Param        force_refresh  query  bool  false  "rebuild even when the snapshot is fresh"
// @Success      200  {object}  domain.Snapshot
// @Failure      503  {object}  map[string]string
// @Router       /api/analyze_all [get]
func (h *Handler) AnalyzeAll(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.analyze-all")
	defer span.End()

	force := c.Query("force_refresh") == "true"
	snapshot, err := h.snapshots.Latest(ctx, force)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}
