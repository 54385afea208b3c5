package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yuqiaowu/news-analyse/internal/analyst"
	"github.com/yuqiaowu/news-analyse/internal/bot"
	"github.com/yuqiaowu/news-analyse/internal/cache"
	"github.com/yuqiaowu/news-analyse/internal/config"
	"github.com/yuqiaowu/news-analyse/internal/handler"
	"github.com/yuqiaowu/news-analyse/internal/job"
	"github.com/yuqiaowu/news-analyse/internal/provider"
	"github.com/yuqiaowu/news-analyse/internal/service"
	"github.com/yuqiaowu/news-analyse/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "github.com/yuqiaowu/news-analyse/docs"
)

var (
	loadEnvFunc           = godotenv.Load
	loadConfigFunc        = config.Load
	initRedisFunc         = cache.InitRedis
	initTracerFunc        = tracing.InitTracer
	newMarketProviderFunc = func(tracer trace.Tracer) service.MarketProvider {
		return provider.NewOKXProvider(tracer)
	}
	newMacroProviderFunc = func(tracer trace.Tracer) service.MacroProvider {
		return provider.NewMacroProvider(tracer)
	}
	newNewsProviderFunc = func(tracer trace.Tracer, feeds []string) service.HeadlineProvider {
		return provider.NewNewsProvider(tracer, feeds)
	}
	newAnalystFunc = func(tracer trace.Tracer, apiKey, model string) service.Analyst {
		return analyst.NewAnalystService(tracer, analyst.NewOpenAIClient(apiKey), model)
	}
	newSnapshotServiceFunc = service.NewSnapshotService
	newRefreshJobFunc      = job.NewRefreshJob
	startJobFunc           = func(j *job.RefreshJob, ctx context.Context) { go j.Start(ctx) }
	startTelegramBotFunc   = bot.StartTelegramBot
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           news-analyse API
// @version         1.0
// @description     Bilingual crypto market analysis snapshot service.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	initRedisFunc(ctx, cfg.RedisURL)

	tp, tracer, err := initTracerFunc(ctx, "news-analyse")
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	markets := newMarketProviderFunc(tracer)
	macro := newMacroProviderFunc(tracer)
	news := newNewsProviderFunc(tracer, cfg.NewsFeeds)
	an := newAnalystFunc(tracer, cfg.OpenAIAPIKey, cfg.OpenAIModel)

	snapshots := newSnapshotServiceFunc(tracer, markets, macro, news, an, cache.Client, cfg.SnapshotFile)

	// Background refresh on the snapshot interval, stopped by ctx cancel.
	refreshJob := newRefreshJobFunc(tracer, snapshots, cfg.RefreshInterval)
	startJobFunc(refreshJob, ctx)

	startTelegramBotFunc(snapshots)

	h := newHandlerFunc(tracer, snapshots)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("news-analyse"))

	h.RegisterRoutes(r, handler.APIKeyAuth(cfg.APIKey))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
