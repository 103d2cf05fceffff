package main

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"yield-radar/internal/config"
	"yield-radar/internal/domain"
	"yield-radar/internal/job"
	"yield-radar/internal/service"

	"github.com/gin-gonic/gin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestMainBootstrap(t *testing.T) {
	gin.SetMode(gin.TestMode)
	restore := stubServerDeps()
	defer restore()

	done := make(chan struct{})
	go func() {
		main()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("main did not exit")
	}
}

func stubServerDeps() func() {
	origLoadEnv := loadEnvFunc
	origLoadConfig := loadConfigFunc
	origInitPostgres := initPostgresFunc
	origInitRedis := initRedisFunc
	origInitTracer := initTracerFunc
	origNewLlama := newDefiLlamaProviderFunc
	origNewDex := newDexScreenerProviderFunc
	origStartPoller := startPollerFunc
	origStartTelegram := startTelegramBotFunc
	origNewRouter := newRouterFunc
	origSetupSignal := setupSignalNotify
	origWait := waitForSignalFunc
	origStartHTTP := startHTTPServerFunc
	origShutdownHTTP := shutdownHTTPServerFunc

	loadEnvFunc = func(...string) error { return nil }
	loadConfigFunc = func() *config.Config {
		return &config.Config{RedisURL: "", DatabaseURL: "", ScanPollSecs: 1, HTTPPort: 8080}
	}
	initPostgresFunc = func(context.Context) {}
	initRedisFunc = func(context.Context) {}
	initTracerFunc = func(ctx context.Context) (*sdktrace.TracerProvider, trace.Tracer, error) {
		tp := sdktrace.NewTracerProvider()
		return tp, tp.Tracer("test"), nil
	}
	newDefiLlamaProviderFunc = func(trace.Tracer) service.PoolProvider { return stubPoolProvider{} }
	newDexScreenerProviderFunc = func(trace.Tracer) service.PairProvider { return stubPairProvider{} }
	startPollerFunc = func(*job.ScanPoller, context.Context) {}
	startTelegramBotFunc = func(*service.ScanService) {}
	newRouterFunc = func(...gin.OptionFunc) *gin.Engine { return gin.New() }
	setupSignalNotify = func(c chan<- os.Signal, sig ...os.Signal) {}
	waitForSignalFunc = func(<-chan os.Signal) {}
	startHTTPServerFunc = func(*http.Server) error { return http.ErrServerClosed }
	shutdownHTTPServerFunc = func(*http.Server, context.Context) error { return nil }

	return func() {
		loadEnvFunc = origLoadEnv
		loadConfigFunc = origLoadConfig
		initPostgresFunc = origInitPostgres
		initRedisFunc = origInitRedis
		initTracerFunc = origInitTracer
		newDefiLlamaProviderFunc = origNewLlama
		newDexScreenerProviderFunc = origNewDex
		startPollerFunc = origStartPoller
		startTelegramBotFunc = origStartTelegram
		newRouterFunc = origNewRouter
		setupSignalNotify = origSetupSignal
		waitForSignalFunc = origWait
		startHTTPServerFunc = origStartHTTP
		shutdownHTTPServerFunc = origShutdownHTTP
	}
}

type stubPoolProvider struct{}

func (stubPoolProvider) FetchPools(ctx context.Context) ([]domain.RawPool, error) {
	return []domain.RawPool{}, nil
}

type stubPairProvider struct{}

func (stubPairProvider) SearchPairs(ctx context.Context, query string) ([]domain.RawPair, error) {
	return []domain.RawPair{}, nil
}
