package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"rail-ticketing/internal/auth"
	"rail-ticketing/internal/booking"
	booking_api "rail-ticketing/internal/booking/api"
	booking_db "rail-ticketing/internal/booking/db"
	bookingredis "rail-ticketing/internal/booking/redis"
	"rail-ticketing/internal/config"
	"rail-ticketing/internal/database"
	"rail-ticketing/internal/kafka"
	"rail-ticketing/internal/logger"
	"rail-ticketing/internal/payment"
	"rail-ticketing/internal/route"
	route_api "rail-ticketing/internal/route/api"
	route_db "rail-ticketing/internal/route/db"
	"rail-ticketing/internal/schedule"
	schedule_api "rail-ticketing/internal/schedule/api"
	schedule_db "rail-ticketing/internal/schedule/db"
	"rail-ticketing/internal/station"
	station_api "rail-ticketing/internal/station/api"
	station_db "rail-ticketing/internal/station/db"
	"rail-ticketing/internal/train"
	train_api "rail-ticketing/internal/train/api"
	train_db "rail-ticketing/internal/train/db"
	"rail-ticketing/internal/users"
	users_api "rail-ticketing/internal/users/api"
	users_db "rail-ticketing/internal/users/db"
	"rail-ticketing/internal/voucher"
	voucher_api "rail-ticketing/internal/voucher/api"
	voucher_db "rail-ticketing/internal/voucher/db"
)

func verifyConnections(ctx context.Context, log *logger.Logger, cfg *config.Config) (*bun.DB, *redis.Client) {
	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("CONFIG", "POSTGRES_DSN not set")
	}

	var sqldb *sql.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		sqldb, err = sql.Open("postgres", dsn)
		if err != nil {
			log.Error("DATABASE", fmt.Sprintf("Failed to open PostgreSQL: %v", err))
			time.Sleep(2 * time.Second)
			continue
		}

		err = sqldb.Ping()
		if err == nil {
			break
		}

		log.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}

	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
	}

	log.Info("DATABASE", "✅ PostgreSQL connection successful")

	bunDB := bun.NewDB(sqldb, pgdialect.New())

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Redis connection error: %v", err))
	}
	log.Info("DATABASE", fmt.Sprintf("✅ Redis connection successful to %s", cfg.Redis.Addr))

	return bunDB, redisClient
}

func main() {
	log := logger.NewLogger()
	defer log.Close()

	log.Info("APP", "Starting Rail Ticketing Service initialization")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()
	ctx := context.Background()

	log.Info("APP", "Verifying database connections")
	bunDB, redisClient := verifyConnections(ctx, log, cfg)
	defer bunDB.Close()
	defer redisClient.Close()

	if err := database.Migrate(ctx, bunDB); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Migration failed: %v", err))
	}
	log.Info("DATABASE", "Schema migration complete")

	var events booking.EventPublisher = kafka.NoopProducer{}
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, kafka.AllTopics()); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		} else {
			log.Info("KAFKA", "Required topics ensured successfully")
		}
		events = producer
		log.Info("KAFKA", "Kafka producer initialized successfully")
	} else {
		log.Warn("KAFKA", "Kafka disabled, booking events will not be published")
	}

	var gateway payment.Gateway
	if cfg.Stripe.SecretKey != "" {
		stripeGateway, err := payment.NewStripeGateway(cfg.Stripe.SecretKey, log)
		if err != nil {
			log.Fatal("PAYMENT", fmt.Sprintf("Stripe initialization failed: %v", err))
		}
		gateway = stripeGateway
		log.Info("PAYMENT", "Stripe refund gateway initialized")
	} else {
		gateway = payment.NewNoopGateway(log)
		log.Warn("PAYMENT", "STRIPE_SECRET_KEY not set, refund notifications disabled")
	}

	tokenIssuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	stationDB := &station_db.DB{Bun: bunDB}
	trainDB := &train_db.DB{Bun: bunDB}
	routeDB := &route_db.DB{Bun: bunDB}
	scheduleDB := &schedule_db.DB{Bun: bunDB}

	stationService := station.NewService(stationDB)
	trainService := train.NewService(trainDB)
	routeService := route.NewService(routeDB, stationDB)
	scheduleService := schedule.NewService(scheduleDB, trainDB, routeDB)
	voucherService := voucher.NewService(&voucher_db.DB{Bun: bunDB})
	userService := users.NewService(&users_db.DB{Bun: bunDB}, tokenIssuer, log)

	bookingService := booking.NewService(
		&booking_db.DB{Bun: bunDB},
		bookingredis.NewSeatHold(redisClient, cfg.Redis.HoldTTL),
		events,
		gateway,
		booking.NewQRGenerator(cfg.Booking.QRSecret),
		log,
		cfg.Booking.CheckinCutoff,
	)

	if err := userService.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		log.Fatal("AUTH", fmt.Sprintf("Admin bootstrap failed: %v", err))
	}

	stationHandler := station_api.NewHandler(stationService)
	trainHandler := train_api.NewHandler(trainService)
	routeHandler := route_api.NewHandler(routeService)
	scheduleHandler := schedule_api.NewHandler(scheduleService)
	voucherHandler := voucher_api.NewHandler(voucherService)
	userHandler := users_api.NewHandler(userService)
	bookingHandler := booking_api.NewHandler(bookingService, log)

	log.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()

	// --- Public Routes ---
	r.Route("/api", func(r chi.Router) {
		userHandler.RegisterPublicRoutes(r)
	})
	log.Info("ROUTER", "Auth endpoints registered under /api/auth")

	// --- Protected Routes ---
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(tokenIssuer))
		log.Info("AUTH", "JWT middleware applied to protected API routes")

		r.Route("/api", func(r chi.Router) {
			stationHandler.RegisterRoutes(r)
			trainHandler.RegisterRoutes(r)
			routeHandler.RegisterRoutes(r)
			scheduleHandler.RegisterRoutes(r)
			voucherHandler.RegisterRoutes(r)
			userHandler.RegisterRoutes(r)
			bookingHandler.RegisterRoutes(r)
		})
		log.Info("ROUTER", "Directory, voucher, user and booking routes registered under /api")
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("🚀 Rail Ticketing Service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		log.Info("HTTP", "✅ Rail Ticketing Service shutdown complete")
	}
}
