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

	"yield-radar/internal/advisor"
	"yield-radar/internal/bot"
	"yield-radar/internal/cache"
	"yield-radar/internal/config"
	"yield-radar/internal/db"
	"yield-radar/internal/handler"
	"yield-radar/internal/job"
	"yield-radar/internal/provider"
	"yield-radar/internal/repository"
	"yield-radar/internal/service"
	"yield-radar/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "yield-radar/docs"
)

var (
	loadEnvFunc      = godotenv.Load
	loadConfigFunc   = config.Load
	initPostgresFunc = db.InitPostgres
	initRedisFunc    = cache.InitRedis
	initTracerFunc   = tracing.InitTracer

	newPositionRepoFunc     = repository.NewPositionRepository
	newSnapshotRepoFunc     = repository.NewSnapshotRepository
	newConversationRepoFunc = repository.NewConversationRepository

	newDefiLlamaProviderFunc = func(tracer trace.Tracer) service.PoolProvider {
		return provider.NewDefiLlamaProvider(tracer)
	}
	newDexScreenerProviderFunc = func(tracer trace.Tracer) service.PairProvider {
		return provider.NewDexScreenerProvider(tracer)
	}

	newScanServiceFunc    = service.NewScanService
	newWalletServiceFunc  = service.NewWalletService
	newScanPollerFunc     = job.NewScanPoller
	startPollerFunc       = func(p *job.ScanPoller, ctx context.Context) { go p.Start(ctx) }
	startTelegramBotFunc  = bot.StartTelegramBot
	newOpenAIClientFunc   = advisor.NewOpenAIClient
	newAdvisorServiceFunc = advisor.NewAdvisorService
	newHandlerFunc        = handler.New
	newRouterFunc         = gin.Default

	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Yield Radar API
// @version         1.0
// @description     DeFi yield opportunity scanner with simulated wallets and an LLM advisor.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Postgres and Redis
	os.Setenv("DATABASE_URL", cfg.DatabaseURL)
	os.Setenv("REDIS_URL", cfg.RedisURL)
	initPostgresFunc(ctx)
	initRedisFunc(ctx)

	// Init tracing
	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Repositories and migrations. Without Postgres the dashboard still runs:
	// snapshots are skipped and positions live in memory.
	var snapshotStore service.SnapshotStore
	var positionStore service.PositionStore = service.NewMemoryPositionStore()
	var convStore advisor.ConversationStore

	if db.Pool != nil {
		positionRepo := newPositionRepoFunc(db.Pool, tracer)
		snapshotRepo := newSnapshotRepoFunc(db.Pool, tracer)
		convRepo := newConversationRepoFunc(db.Pool, tracer)
		for name, migrate := range map[string]func(context.Context) error{
			"positions":     positionRepo.RunMigrations,
			"snapshots":     snapshotRepo.RunMigrations,
			"conversations": convRepo.RunMigrations,
		} {
			if err := migrate(ctx); err != nil {
				log.Fatalf("failed to run %s migrations: %v", name, err)
			}
		}
		positionStore = positionRepo
		snapshotStore = snapshotRepo
		convStore = convRepo
	}

	// Providers and services
	llamaProvider := newDefiLlamaProviderFunc(tracer)
	dexProvider := newDexScreenerProviderFunc(tracer)
	scanService := newScanServiceFunc(tracer, llamaProvider, dexProvider, snapshotStore,
		cache.Client, cfg.ScanParams(), cfg.MinLiquidityUSD)
	walletService := newWalletServiceFunc(tracer, cache.Client, positionStore)

	// Advisor (optional)
	var advisorSvc *advisor.AdvisorService
	if cfg.OpenAIAPIKey != "" && convStore != nil {
		llmClient := newOpenAIClientFunc(cfg.OpenAIAPIKey)
		advisorSvc = newAdvisorServiceFunc(tracer, llmClient, scanService, convStore,
			cfg.OpenAIModel, cfg.AdvisorMaxHistory)
		log.Println("Advisor service enabled")
	}

	// Start scan poller (background goroutines, stopped by ctx cancel)
	poller := newScanPollerFunc(tracer, scanService, walletService, cfg.ScanPollSecs)
	startPollerFunc(poller, ctx)

	// Start Telegram bot
	os.Setenv("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	startTelegramBotFunc(scanService)

	// Create handlers and routes
	h := newHandlerFunc(tracer, scanService, walletService, advisorSvc)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("yield-radar"))
	r.Use(handler.APIKeyAuth(cfg.APIKey))

	h.RegisterRoutes(r)
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
