package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fx-signal-bot/config"
	"fx-signal-bot/internal/bot"
	"fx-signal-bot/internal/gateway"
	"fx-signal-bot/internal/logger"
	"fx-signal-bot/internal/metrics"
	"fx-signal-bot/internal/model"
	"fx-signal-bot/internal/pipeline"
	"fx-signal-bot/internal/prefs"
	"fx-signal-bot/internal/provider/alphavantage"
	"fx-signal-bot/internal/siglog"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)

	cfg := config.Load()
	slogger := logger.Init("signalbot", logger.ParseLevel(cfg.LogLevel))

	fallback, err := model.ParsePair(cfg.DefaultPair)
	if err != nil {
		log.Fatalf("[signalbot] invalid FX_DEFAULT %q: %v", cfg.DefaultPair, err)
	}
	pairs := cfg.ParsePairs()
	if len(pairs) == 0 {
		log.Fatalf("[signalbot] FX_PAIRS contains no valid pairs: %q", cfg.Pairs)
	}

	var sigLog model.SignalLog
	switch cfg.SiglogBackend {
	case "csv":
		sigLog, err = siglog.NewCSV(cfg.SiglogPath)
	case "sqlite":
		sigLog, err = siglog.NewSQLite(cfg.SiglogPath)
	default:
		log.Fatalf("[signalbot] unknown SIGLOG_BACKEND %q (want csv or sqlite)", cfg.SiglogBackend)
	}
	if err != nil {
		log.Fatalf("[signalbot] signal log init failed: %v", err)
	}
	defer sigLog.Close()
	log.Printf("[signalbot] signal log: %s backend at %s", cfg.SiglogBackend, cfg.SiglogPath)

	health := metrics.NewHealthStatus()

	var pairStore model.PairStore
	if cfg.RedisAddr != "" {
		rs, err := prefs.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("[signalbot] redis init failed: %v", err)
		}
		defer rs.Close()
		pairStore = rs
		health.SetRedisInUse(true)
	} else {
		pairStore = prefs.NewMemory()
	}

	met := metrics.New()
	hub := gateway.NewHub(met)

	srv := metrics.NewServer(cfg.MetricsAddr, health, map[string]http.Handler{
		"/ws": hub,
	})
	srv.Start()

	pipe := pipeline.New(pipeline.Deps{
		Source:  alphavantage.New(alphavantage.Config{APIKey: cfg.AlphaVantageAPIKey}),
		Log:     sigLog,
		Metrics: met,
		Health:  health,
		Publish: hub.Broadcast,
		Logger:  slogger,
	})

	b := bot.New(bot.Deps{
		API:      bot.NewAPI(cfg.TelegramBotToken),
		Pipeline: pipe,
		Prefs:    pairStore,
		Log:      sigLog,
		Pairs:    pairs,
		Fallback: fallback,
		Logger:   slogger,
		Metrics:  met,
		Health:   health,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("[signalbot] shutting down")
		cancel()
	}()

	b.Run(ctx)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	srv.Stop(shutdownCtx)
}
