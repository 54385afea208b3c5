package handler

import (
	"context"

	"github.com/yuqiaowu/news-analyse/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// SnapshotSource serves the latest analysis snapshot, rebuilding when forced
// or stale.
type SnapshotSource interface {
	Latest(ctx context.Context, force bool) (*domain.Snapshot, error)
}

type Handler struct {
	tracer    trace.Tracer
	snapshots SnapshotSource
}

func New(tracer trace.Tracer, snapshots SnapshotSource) *Handler {
	return &Handler{tracer: tracer, snapshots: snapshots}
}

func (h *Handler) RegisterRoutes(r *gin.Engine, apiMiddleware ...gin.HandlerFunc) {
	r.GET("/health", h.Health)

	api := r.Group("/api", apiMiddleware...)
	api.GET("/snapshot", h.GetSnapshot)
	api.GET("/analyze_all", h.AnalyzeAll)
}
