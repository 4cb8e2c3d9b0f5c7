package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ntokozo078/logistics-fleet-manager/internal/config"
	"github.com/ntokozo078/logistics-fleet-manager/internal/notifications"
	"github.com/ntokozo078/logistics-fleet-manager/internal/observability"
	"github.com/ntokozo078/logistics-fleet-manager/internal/queue"
	"github.com/ntokozo078/logistics-fleet-manager/internal/queue/worker"
	"github.com/ntokozo078/logistics-fleet-manager/internal/redisclient"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)

	defer stop()

	redisClient := redisclient.New(redisclient.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	defer redisClient.Close()

	pingCtx, cancel := config.WithTimeout(5 * time.Second)
	err := redisClient.Ping(pingCtx)
	cancel()

	if err != nil {
		log.Error("redis connect failed", "err", err)
		os.Exit(1)
	}

	prom := observability.NewProm(prometheus.DefaultRegisterer)

	notifier := notifications.NewProtectedNotifier(
		notifications.NewLogNotifier(),
		notifications.ProtectedNotifierConfig{},
	)

	w := worker.New(worker.Config{
		PopTimeout: 5 * time.Second,
	}, queue.New(redisClient.Raw()), notifier, log, prom)

	log.Info("notification worker started")

	if err := w.Run(ctx); err != nil {
		log.Error("worker stopped with error", "err", err)
	}

	log.Info("worker shutdown complete")
}
