package main

import (
	"context"
	"log"

	"github.com/yuqiaowu/news-analyse/internal/client"
	"github.com/yuqiaowu/news-analyse/internal/config"
	"github.com/yuqiaowu/news-analyse/internal/tui"
	"github.com/yuqiaowu/news-analyse/pkg/tracing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
)

var (
	loadEnvFunc    = godotenv.Load
	loadConfigFunc = config.Load
	initTracerFunc = tracing.InitTracer
	runProgramFunc = func(model tea.Model, opts ...tea.ProgramOption) (tea.Model, error) {
		return tea.NewProgram(model, opts...).Run()
	}
)

func main() {
	loadEnvFunc()
	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx, "news-analyse-dashboard")
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	snapshots := client.NewSnapshotClient(cfg.SnapshotURL, tracer)

	if _, err := runProgramFunc(tui.NewAppModel(snapshots), tea.WithAltScreen()); err != nil {
		log.Fatalf("dashboard exited with error: %v", err)
	}
}
