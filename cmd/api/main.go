package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-pass-api/internal/config"
	"github.com/noah-isme/campus-pass-api/internal/database"
	"github.com/noah-isme/campus-pass-api/internal/handler"
	"github.com/noah-isme/campus-pass-api/internal/middleware"
	"github.com/noah-isme/campus-pass-api/internal/repository"
	"github.com/noah-isme/campus-pass-api/internal/router"
	"github.com/noah-isme/campus-pass-api/internal/service"
	"github.com/noah-isme/campus-pass-api/internal/views"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", cfg.AppName).Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not set, payment history cache disabled")
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	studentRepo := repository.NewStudentRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	cardRepo := repository.NewAccessCardRepository(db)
	scanRepo := repository.NewScanLogRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	activityService := service.NewActivityService(activityRepo, logger)
	scanEvents := service.NewNATSScanPublisher(natsConn, cfg.NATSSubject, logger)
	accessService := service.NewAccessService(studentRepo, paymentRepo, cardRepo, scanRepo, scanEvents, cfg.Location(), logger)
	paymentService := service.NewPaymentService(paymentRepo, studentRepo, validate, service.PaymentServiceConfig{
		Activity: activityService,
		Cache:    redisClient,
		CacheTTL: cfg.HistoryCacheTTL,
		Location: cfg.Location(),
	}, logger)
	cardService := service.NewCardService(cardRepo, paymentRepo, studentRepo, scanRepo, activityService, validate, cfg.PublicBaseURL, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		Views:        views.New(cfg.Location()),
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AccessLog: cfg.AppEnv == "development"})
	router.Register(app, cfg, router.Dependencies{
		AccessHandler:   handler.NewAccessHandler(accessService, validate, logger),
		PublicHandler:   handler.NewPublicHandler(accessService, paymentService, logger),
		PaymentHandler:  handler.NewPaymentHandler(paymentService, logger),
		CardHandler:     handler.NewCardHandler(cardService, logger),
		ActivityHandler: handler.NewActivityHandler(activityService, logger),
		JWTMiddleware:   middleware.JWTProtected(cfg.JWTSecret),
		DatabasePing: func(ctx context.Context) error {
			return database.Ping(ctx, db)
		},
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	logger.Info().Str("address", cfg.HTTPAddress()).Str("timezone", cfg.Location().String()).Msg("server started")
	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
