package main

import (
	"context"
	"net/http"

	availabilityhandler "smartparking/internal/availability/handler"
	availabilityservice "smartparking/internal/availability/service"
	"smartparking/internal/bootstrap"
	cataloghandler "smartparking/internal/catalog/handler"
	catalogrepository "smartparking/internal/catalog/repository"
	catalogservice "smartparking/internal/catalog/service"
	checkouthandler "smartparking/internal/checkout/handler"
	checkoutservice "smartparking/internal/checkout/service"
	checkoutvalidator "smartparking/internal/checkout/validator"
	favoritehandler "smartparking/internal/favorites/handler"
	favoriterepository "smartparking/internal/favorites/repository"
	favoriteservice "smartparking/internal/favorites/service"
	"smartparking/internal/identity"
	"smartparking/internal/notify"
	paymenthandler "smartparking/internal/payments/handler"
	paymentrepository "smartparking/internal/payments/repository"
	paymentservice "smartparking/internal/payments/service"
	paymentvalidator "smartparking/internal/payments/validator"
	"smartparking/internal/pricing"
	reservationhandler "smartparking/internal/reservations/handler"
	reservationrepository "smartparking/internal/reservations/repository"
	reservationservice "smartparking/internal/reservations/service"
	reservationvalidator "smartparking/internal/reservations/validator"
	reviewhandler "smartparking/internal/reviews/handler"
	reviewrepository "smartparking/internal/reviews/repository"
	reviewservice "smartparking/internal/reviews/service"
	reviewvalidator "smartparking/internal/reviews/validator"
	"smartparking/internal/sweeper"
	vehiclehandler "smartparking/internal/vehicles/handler"
	vehiclerepository "smartparking/internal/vehicles/repository"
	vehicleservice "smartparking/internal/vehicles/service"
	vehiclevalidator "smartparking/internal/vehicles/validator"
	"smartparking/pkg/app"
	"smartparking/pkg/config"
	"smartparking/pkg/contracts"
	"smartparking/pkg/events"
	"smartparking/pkg/kafka"
	kafkaconfig "smartparking/pkg/kafka/config"
	kafkamiddleware "smartparking/pkg/kafka/middleware"
	"smartparking/pkg/locks"
	"smartparking/pkg/middleware"
)

const ServiceName = "parking"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	if cfg.LockBackend == config.LockBackendRedis {
		cfg.SetRedis()
	}

	cfg.Log.Info("Starting Parking service")
	serverApp := app.NewApplication(cfg)

	bus := initEventBus(cfg, serverApp)
	handlers := initServices(cfg, bus, serverApp)

	verifier := identity.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer)
	serverApp.SetApp(app.Options{
		Authenticate: identity.Middleware(verifier, cfg.Log),
		RateLimitKey: callerKey,
	}, handlers...)
	serverApp.Run()
}

func initEventBus(cfg *config.Config, serverApp *app.Application) *events.Bus {
	if !cfg.KafkaEnabled {
		return events.NewBus(cfg.Log)
	}

	kafkaCfg, err := kafkaconfig.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.EventsTopic, kafkaCfg.EventsDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	metrics := kafkamiddleware.NewMetrics()
	producer.Use(kafkamiddleware.LoggingProducerMiddleware(cfg.Log))
	producer.Use(metrics.Producer())

	serverApp.OnShutdown(func(context.Context) {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
		cfg.Log.Info("Kafka producer closed", "metrics", metrics.Snapshot())
	})

	cfg.Log.Info("Forwarding events to Kafka", "topic", cfg.EventsTopic)
	return events.NewBus(cfg.Log, notify.NewKafkaSink(producer, cfg.Log))
}

func initLocker(cfg *config.Config) locks.Locker {
	opts := locks.Options{TTL: cfg.LockTTL, Wait: cfg.LockWait}
	if cfg.LockBackend == config.LockBackendRedis {
		cfg.Log.Info("Using Redis slot locks", "addr", cfg.RedisAddr)
		return locks.NewRedisLocker(cfg.Client.Redis, opts, cfg.Log)
	}
	cfg.Log.Info("Using Mongo slot locks")
	return locks.NewMongoLocker(cfg.Client.Mongo.Database(cfg.MongoDatabaseName), opts, cfg.Log)
}

func initServices(cfg *config.Config, bus *events.Bus, serverApp *app.Application) []contracts.Handler {
	calculator := pricing.NewCalculator()

	catalogRepo := catalogrepository.NewMongoCatalogRepository(cfg)
	catalog := catalogservice.NewCatalogService(catalogRepo, cfg)

	reservationValidator := reservationvalidator.NewReservationValidator(cfg.Log)
	ledger := reservationservice.NewLedger(
		reservationrepository.NewMongoReservationRepository(cfg),
		catalog,
		calculator,
		initLocker(cfg),
		bus,
		reservationValidator,
		cfg,
	)

	resolver := availabilityservice.NewResolver(catalog, ledger, cfg)

	payments := paymentservice.NewCoordinator(
		paymentrepository.NewMongoPaymentRepository(cfg),
		paymentvalidator.NewPaymentValidator(cfg.Log),
		cfg,
	)

	vehicles := vehicleservice.NewVehicleService(
		vehiclerepository.NewMongoVehicleRepository(cfg),
		vehiclevalidator.NewVehicleValidator(cfg.Log),
		bus,
		cfg,
	)

	checkout := checkoutservice.NewCheckout(
		catalog,
		resolver,
		vehicles,
		calculator,
		payments,
		ledger,
		bus,
		checkoutvalidator.NewCheckoutValidator(cfg.Log),
		cfg,
	)

	favorites := favoriteservice.NewFavoriteService(
		favoriterepository.NewMongoFavoriteRepository(cfg),
		catalog,
		bus,
		cfg,
	)

	reviews := reviewservice.NewReviewService(
		reviewrepository.NewMongoReviewRepository(cfg),
		catalog,
		reviewvalidator.NewReviewValidator(cfg.Log),
		cfg,
	)

	if cfg.SeedOnBoot {
		// Failure leaves the service up in degraded mode.
		_ = bootstrap.NewPreloader(catalogRepo, cfg).Run(context.Background())
	}

	completionSweeper := sweeper.New(ledger, cfg)
	if err := completionSweeper.Start(); err != nil {
		cfg.Log.Fatal("Failed to start completion sweeper", "error", err)
	}
	serverApp.OnShutdown(completionSweeper.Stop)

	cfg.Log.Info("Parking services initialized", "database", cfg.MongoDatabaseName)

	provider := identity.ContextProvider{}
	return []contracts.Handler{
		cataloghandler.NewCatalogHandler(catalog, cfg.Log),
		availabilityhandler.NewAvailabilityHandler(resolver, cfg.Log),
		checkouthandler.NewCheckoutHandler(checkout, provider, cfg.Log),
		reservationhandler.NewReservationHandler(ledger, checkout, provider, reservationValidator, cfg.Log),
		favoritehandler.NewFavoriteHandler(favorites, provider, cfg.Log),
		vehiclehandler.NewVehicleHandler(vehicles, provider, cfg.Log),
		reviewhandler.NewReviewHandler(reviews, provider, cfg.Log),
		paymenthandler.NewPaymentHandler(payments, provider, cfg.Log),
	}
}

// callerKey rate-limits authenticated callers by user and anonymous ones by address.
func callerKey(r *http.Request) string {
	if userID, err := identity.UserIDFrom(r.Context()); err == nil {
		return "user:" + userID
	}
	return "addr:" + middleware.RemoteAddrKey(r)
}
