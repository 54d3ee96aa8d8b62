package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Freeeeeet/room_booking/internal/api"
	"github.com/Freeeeeet/room_booking/internal/api/middleware"
	"github.com/Freeeeeet/room_booking/internal/app"
	"github.com/Freeeeeet/room_booking/internal/config"
	"github.com/Freeeeeet/room_booking/internal/controller"
	"github.com/Freeeeeet/room_booking/internal/messaging"
	"github.com/Freeeeeet/room_booking/internal/repository"
	"github.com/Freeeeeet/room_booking/internal/repository/memory"
	"github.com/Freeeeeet/room_booking/internal/service"
)

const shutdownTimeout = 10 * time.Second

type publisher interface {
	app.EventPublisher
	Close() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := app.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Server stopped with error", zap.Error(err))
	}
	logger.Info("Server stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("Starting room booking",
		zap.String("environment", cfg.Environment),
		zap.String("store", cfg.StoreDriver),
		zap.String("http_addr", cfg.HTTPAddr),
	)

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	bookingService := service.NewBookingService(store, service.NewMetrics(registry), logger)
	slotService := service.NewSlotService(store)
	roomService := service.NewRoomService(store, logger)
	accountService := service.NewAccountService(store, logger)
	auth := middleware.NewAuthenticator(cfg.JWTSecret, logger)

	var (
		rdb     *redis.Client
		limiter *middleware.RateLimiter
	)
	if cfg.RateLimitEnabled() {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()
		limiter = middleware.NewRateLimiter(rdb, cfg.RateLimitPerMinute, time.Minute, cfg.TrustedProxies, logger)
		logger.Info("Rate limiting enabled", zap.Int("per_minute", cfg.RateLimitPerMinute))
	}

	events, err := openPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer events.Close()

	server := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: api.NewRouter(api.Deps{
			Booking:     bookingService,
			Slots:       slotService,
			Rooms:       roomService,
			Store:       store,
			Auth:        auth,
			RateLimiter: limiter,
			Redis:       rdb,
			Gatherer:    registry,
			Logger:      logger,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	relay := app.NewRelay(store, events, cfg.OutboxPollInterval, logger)
	g.Go(func() error {
		return relay.Run(gctx)
	})

	if cfg.BotEnabled() {
		botInstance, err := bot.New(cfg.TelegramToken)
		if err != nil {
			return fmt.Errorf("create bot: %w", err)
		}

		botController := controller.NewBotController(
			botInstance,
			accountService,
			roomService,
			slotService,
			bookingService,
			auth,
			logger,
		)
		if err := botController.RegisterHandlers(ctx); err != nil {
			logger.Warn("Bot commands menu not set", zap.Error(err))
		}

		g.Go(func() error {
			return botController.Start(gctx)
		})
	} else {
		logger.Info("TELEGRAM_TOKEN not set, bot disabled")
	}

	return g.Wait()
}

// openStore подключает хранилище согласно STORE_DRIVER
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (service.Store, func(), error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		logger.Warn("Using in-memory store, data is lost on restart")
		return memory.NewStore(), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}

	migrator, err := app.NewMigrator(pool, logger)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	defer migrator.Close()

	if err := migrator.Run(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}

	logger.Info("✅ Connected to PostgreSQL")
	return repository.NewPgStore(pool), pool.Close, nil
}

// openPublisher выбирает брокер событий: RabbitMQ если задан URL, иначе лог
func openPublisher(cfg *config.Config, logger *zap.Logger) (publisher, error) {
	if cfg.RabbitMQURL == "" {
		logger.Info("RABBITMQ_URL not set, slot events go to the log")
		return messaging.NewLogPublisher(logger), nil
	}

	broker, err := messaging.NewRabbitMQBroker(cfg.RabbitMQURL, cfg.EventsQueue, logger)
	if err != nil {
		return nil, err
	}
	return broker, nil
}
