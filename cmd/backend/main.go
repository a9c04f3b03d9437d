package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/skybook/api"
	"github.com/Domenick1991/skybook/config"
	"github.com/Domenick1991/skybook/internal/bootstrap"
	"github.com/Domenick1991/skybook/internal/cache"
	"github.com/Domenick1991/skybook/internal/catalog"
	"github.com/Domenick1991/skybook/internal/kafka"
	"github.com/Domenick1991/skybook/internal/repository"
	"github.com/Domenick1991/skybook/internal/service/admin"
	"github.com/Domenick1991/skybook/internal/service/alerts"
	"github.com/Domenick1991/skybook/internal/service/booking"
	"github.com/Domenick1991/skybook/internal/service/flights"
	"github.com/Domenick1991/skybook/internal/sms"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/time/rate"
)

type repositories struct {
	flights  repository.FlightRepository
	bookings repository.BookingRepository
	contacts repository.ContactRepository
	users    repository.UserRepository
}

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.Identity.Secret == "" {
		log.Fatalf("identity.secret must be set")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	if cfg.Identity.Secret == config.DevSecret {
		logger.Warn("using the development token secret")
	}
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var repos repositories
	if cfg.Database.Enabled() {
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			log.Fatalf("connect postgres: %v", err)
		}
		defer pool.Close()

		if err := repository.Migrate(ctx, pool, catalog.Seed()); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		repos = repositories{
			flights:  repository.NewFlightRepository(pool),
			bookings: repository.NewBookingRepository(pool),
			contacts: repository.NewContactRepository(pool),
			users:    repository.NewUserRepository(pool),
		}
	} else {
		logger.Warn("no database configured, using in-memory storage")
		store := repository.NewMemoryStore(catalog.Seed())
		repos = repositories{
			flights:  store.Flights(),
			bookings: store.Bookings(),
			contacts: store.Contacts(),
			users:    store.Users(),
		}
	}

	var statusCache flights.StatusCache
	bookingOpts := []booking.BookingServiceOption{booking.WithLogger(logger)}
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis)
		defer redisCache.Close()
		if err := redisCache.Ping(ctx); err != nil {
			logger.Warn("redis unreachable", "error", err)
		}
		statusCache = redisCache
		bookingOpts = append(bookingOpts, booking.WithLocker(redisCache, cfg.Client.RequestTimeout()))
	}

	smsSender := sms.NewSender(cfg.SMS, logger)
	var deliverer alerts.Deliverer = smsSender
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, logger)
		defer producer.Close()
		if err := producer.CheckConnection(ctx); err != nil {
			logger.Warn("kafka unreachable", "error", err)
		}
		deliverer = kafka.NewAlertPublisher(producer, cfg.Kafka.NotificationsTopic)
		bookingOpts = append(bookingOpts, booking.WithProducer(producer, cfg.Kafka.BookingTopic))
	}

	flightService := flights.NewFlightService(repos.flights, statusCache, logger)
	bookingService := booking.NewBookingService(repos.bookings, repos.flights, bookingOpts...)
	alertService := alerts.NewAlertService(repos.contacts, repos.flights, deliverer, smsSender.Simulated(), logger)
	statsService := admin.NewStatsService(repos.users, repos.bookings, cfg.SMS.Configured(), cfg.AviationStack.APIKey != "")

	router := api.NewRouter(api.RouterDeps{
		Secret:        cfg.Identity.Secret,
		Users:         repos.users,
		LegacyLimiter: rate.NewLimiter(rate.Limit(cfg.RateLimit.LegacySMSPerSecond), cfg.RateLimit.LegacySMSBurst),
		Logger:        logger,
		Bookings:      api.NewBookingHandler(bookingService),
		Flights:       api.NewFlightHandler(flightService),
		Alerts:        api.NewAlertHandler(alertService),
		Admin:         api.NewAdminHandler(statsService),
	})

	if err := bootstrap.Run(ctx, cfg.HTTP.Address, router, logger); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
