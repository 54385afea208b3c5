package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/yuqiaowu/news-analyse/internal/analyst"
	"github.com/yuqiaowu/news-analyse/internal/domain"
	"github.com/yuqiaowu/news-analyse/internal/provider"
	"github.com/yuqiaowu/news-analyse/internal/schedule"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

// SnapshotKey is the single Redis slot the latest analysis lives in. A new
// snapshot overwrites the previous one; there is no history.
const SnapshotKey = "snapshot:latest"

type MarketProvider interface {
	FetchMarketData(ctx context.Context, symbol string) (*provider.MarketData, error)
}

type MacroProvider interface {
	FetchFedFutures(ctx context.Context) (*domain.FedFutures, error)
	FetchJapanMacro(ctx context.Context) (*domain.JapanMacro, error)
	FetchLiquidityMonitor(ctx context.Context) (*domain.LiquidityMonitor, error)
}

type HeadlineProvider interface {
	FetchHeadlines(ctx context.Context, limit int) ([]provider.Headline, error)
}

type Analyst interface {
	Analyze(ctx context.Context, input analyst.Input) (*analyst.Analysis, error)
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// SnapshotService builds the point-in-time analysis and keeps the latest one
// in Redis plus a JSON file mirror for static serving.
type SnapshotService struct {
	tracer    trace.Tracer
	markets   MarketProvider
	macro     MacroProvider
	news      HeadlineProvider
	analyst   Analyst
	redis     RedisClient
	filePath  string
	now       func() time.Time
	onRefresh func(*domain.Snapshot)

	mu sync.Mutex // serializes rebuilds
}

func NewSnapshotService(
	tracer trace.Tracer,
	markets MarketProvider,
	macro MacroProvider,
	news HeadlineProvider,
	an Analyst,
	redisClient RedisClient,
	filePath string,
) *SnapshotService {
	return &SnapshotService{
		tracer:   tracer,
		markets:  markets,
		macro:    macro,
		news:     news,
		analyst:  an,
		redis:    redisClient,
		filePath: filePath,
		now:      time.Now,
	}
}

// Refresh builds a fresh snapshot and stores it. Macro sections fail soft:
// a failed section is carried with its error flag set so the dashboard can
// suppress it while the rest of the snapshot stays useful.
func (s *SnapshotService) Refresh(ctx context.Context) (*domain.Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "snapshot-service.refresh")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	input := analyst.Input{}

	for _, symbol := range domain.SupportedSymbols {
		data, err := s.markets.FetchMarketData(ctx, symbol)
		if err != nil {
			log.Printf("market data failed for %s: %v", symbol, err)
			continue
		}
		input.Coins = append(input.Coins, analyst.CoinInput{Symbol: symbol, Data: *data})
	}
	if len(input.Coins) == 0 {
		return nil, fmt.Errorf("no market data for any symbol")
	}

	fed, err := s.macro.FetchFedFutures(ctx)
	if err != nil {
		log.Printf("fed futures failed: %v", err)
		fed = &domain.FedFutures{Error: true, ErrorMessage: err.Error()}
	}
	japan, err := s.macro.FetchJapanMacro(ctx)
	if err != nil {
		log.Printf("japan macro failed: %v", err)
		japan = &domain.JapanMacro{Error: true, ErrorMessage: err.Error()}
	}
	liquidity, err := s.macro.FetchLiquidityMonitor(ctx)
	if err != nil {
		log.Printf("liquidity monitor failed: %v", err)
		liquidity = &domain.LiquidityMonitor{Error: true, ErrorMessage: err.Error()}
	}
	input.Fed, input.Japan, input.Liquidity = fed, japan, liquidity

	headlines, err := s.news.FetchHeadlines(ctx, 20)
	if err != nil {
		log.Printf("headlines failed: %v", err)
	}
	input.Headlines = headlines

	analysis, err := s.analyst.Analyze(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	snapshot := s.assemble(input, analysis)
	if err := s.store(ctx, snapshot); err != nil {
		log.Printf("snapshot store failed: %v", err)
	}
	if s.onRefresh != nil {
		s.onRefresh(snapshot)
	}
	return snapshot, nil
}

// SetOnRefresh registers a callback invoked with every freshly built
// snapshot. Used by the Telegram bot to broadcast new summaries.
func (s *SnapshotService) SetOnRefresh(fn func(*domain.Snapshot)) {
	s.onRefresh = fn
}

// Latest returns the stored snapshot, preferring Redis and falling back to
// the file mirror. force, a missing snapshot, or one older than the refresh
// interval triggers a rebuild.
func (s *SnapshotService) Latest(ctx context.Context, force bool) (*domain.Snapshot, error) {
	_, span := s.tracer.Start(ctx, "snapshot-service.latest")
	defer span.End()

	if !force {
		if snapshot := s.load(ctx); snapshot != nil {
			if ts, err := snapshot.Time(); err == nil && s.now().UTC().Sub(ts) < schedule.RefreshInterval {
				return snapshot, nil
			}
		}
	}
	return s.Refresh(ctx)
}

func (s *SnapshotService) assemble(input analyst.Input, analysis *analyst.Analysis) *domain.Snapshot {
	snapshot := &domain.Snapshot{
		Timestamp:        s.now().UTC().Format(time.RFC3339),
		GlobalSummaryCN:  analysis.GlobalSummaryCN,
		GlobalSummaryEN:  analysis.GlobalSummaryEN,
		FedFutures:       input.Fed,
		JapanMacro:       input.Japan,
		LiquidityMonitor: input.Liquidity,
		NewsAnalysis:     analysis.News,
	}
	for _, coin := range input.Coins {
		review := analysis.Coins[coin.Symbol]
		snapshot.Coins = append(snapshot.Coins, domain.CoinEntry{
			Symbol:       coin.Symbol,
			Price:        coin.Data.Price,
			Change24h:    coin.Data.Change24h,
			RSI4H:        coin.Data.RSI4H,
			FundingRate:  coin.Data.FundingRate,
			OpenInterest: coin.Data.OpenInterest,
			Sentiment:    review.Sentiment,
			Score:        review.Score,
			CommentCN:    review.CommentCN,
			CommentEN:    review.CommentEN,
		})
	}
	return snapshot
}

func (s *SnapshotService) store(ctx context.Context, snapshot *domain.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	if s.redis != nil {
		if err := s.redis.Set(ctx, SnapshotKey, data, schedule.RefreshInterval).Err(); err != nil {
			log.Printf("redis snapshot write failed: %v", err)
		}
	}
	if s.filePath != "" {
		if err := writeFileAtomic(s.filePath, data); err != nil {
			return fmt.Errorf("write snapshot file: %w", err)
		}
	}
	return nil
}

func (s *SnapshotService) load(ctx context.Context) *domain.Snapshot {
	if s.redis != nil {
		data, err := s.redis.Get(ctx, SnapshotKey).Bytes()
		if err == nil {
			var snapshot domain.Snapshot
			if err := json.Unmarshal(data, &snapshot); err == nil {
				return &snapshot
			}
			log.Printf("corrupt snapshot in redis: %v", err)
		} else if err != redis.Nil {
			log.Printf("redis snapshot read failed: %v", err)
		}
	}
	if s.filePath != "" {
		data, err := os.ReadFile(s.filePath)
		if err == nil {
			var snapshot domain.Snapshot
			if err := json.Unmarshal(data, &snapshot); err == nil {
				return &snapshot
			}
		}
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
