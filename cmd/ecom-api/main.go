package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/srcnozturk/ECommerce-Mobiliva/internal/cache"
	"github.com/srcnozturk/ECommerce-Mobiliva/internal/config"
	"github.com/srcnozturk/ECommerce-Mobiliva/internal/consumer"
	"github.com/srcnozturk/ECommerce-Mobiliva/internal/db"
	"github.com/srcnozturk/ECommerce-Mobiliva/internal/mail"
	"github.com/srcnozturk/ECommerce-Mobiliva/internal/observability"
	"github.com/srcnozturk/ECommerce-Mobiliva/internal/producer"
	"github.com/srcnozturk/ECommerce-Mobiliva/internal/queue"
	"github.com/srcnozturk/ECommerce-Mobiliva/internal/repository"
	"github.com/srcnozturk/ECommerce-Mobiliva/internal/repository/postgres"
	redisrepo "github.com/srcnozturk/ECommerce-Mobiliva/internal/repository/redis"
	"github.com/srcnozturk/ECommerce-Mobiliva/internal/server"
	"github.com/srcnozturk/ECommerce-Mobiliva/internal/service"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	if err := run(logger); err != nil {
		logger.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracer, shutdownTracer, err := observability.Setup(cfg.ServiceName, cfg.JaegerEndpoint)
	if err != nil {
		return err
	}
	defer func() { _ = shutdownTracer(context.Background()) }()

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := db.Migrate(pool); err != nil {
		return err
	}

	var catalogCache repository.CatalogCache
	if cfg.CacheBackend == "redis" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer client.Close()
		catalogCache = redisrepo.NewCatalogCache(client, cfg.CacheTTL, cfg.CacheSliding, tracer)
	} else {
		snap := cache.NewSnapshot(cfg.CacheTTL, cfg.CacheSliding)
		snap.StartJanitor(ctx, cfg.CacheSliding)
		catalogCache = snap
	}

	conn, err := queue.Connect(cfg.RabbitURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	pubCh, err := conn.Channel()
	if err != nil {
		return err
	}
	defer pubCh.Close()
	if err := queue.DeclareMailQueue(pubCh, cfg.MailQueue); err != nil {
		return err
	}
	publisher := producer.NewPublisher(pubCh, cfg.MailQueue, tracer)

	transport, err := mail.NewSMTP(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	})
	if err != nil {
		return err
	}

	svc := service.New(
		postgres.NewProductRepository(pool, tracer),
		postgres.NewOrderRepository(pool, tracer),
		catalogCache,
		publisher,
		logger,
		tracer,
	)

	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := consumer.StartMailConsumer(ctx, conn, cfg.MailQueue, transport, logger); err != nil {
			logger.Error("mail consumer", "err", err)
			stop()
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := server.Start(ctx, cfg.HTTPAddr, svc, logger); err != nil {
			logger.Error("http server", "err", err)
			stop()
		}
	}()

	logger.Info("service started", "addr", cfg.HTTPAddr, "queue", cfg.MailQueue, "cache", cfg.CacheBackend)
	<-ctx.Done()
	wg.Wait()
	return nil
}
