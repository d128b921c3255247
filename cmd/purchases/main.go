package main

import (
	promorepository "tripmarket/internal/promo/repository"
	promoservice "tripmarket/internal/promo/service"
	"tripmarket/internal/purchases/handler"
	"tripmarket/internal/purchases/repository"
	"tripmarket/internal/purchases/service"
	"tripmarket/internal/purchases/validator"
	"tripmarket/pkg/app"
	"tripmarket/pkg/config"
	"tripmarket/pkg/events"
	"tripmarket/pkg/kafka"
	kafkaconfig "tripmarket/pkg/kafka/config"
)

const ServiceName = "purchases"

func main() {
	cfg := config.Load(ServiceName)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}

	// Log all configuration values
	cfg.LogConfiguration()

	cfg.Log.Info("Starting Purchases service")
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	purchaseService, promoService, publisher := initServices(cfg)
	// Flush buffered events before the mongo client goes away.
	defer func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Warn("Failed to close event publisher", "error", err)
		}
	}()

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewPurchaseHandler(purchaseService, promoService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) (service.PurchaseService, promoservice.PromoService, events.Publisher) {
	purchaseValidator := validator.NewPurchaseValidator(cfg.Log)
	purchaseRepo := repository.NewMongoPurchaseRepository(cfg)
	productRepo := repository.NewMongoProductRepository(cfg)
	touristRepo := repository.NewMongoTouristRepository(cfg)
	promoRepo := promorepository.NewMongoPromoRepository(cfg)
	publisher := newPublisher(cfg)

	promoService := promoservice.NewPromoService(promoRepo, touristRepo, cfg)
	purchaseService := service.NewPurchaseService(
		purchaseRepo,
		productRepo,
		touristRepo,
		promoService,
		purchaseValidator,
		publisher,
		cfg,
	)

	cfg.Log.Info("Purchase service initialized", "database", cfg.MongoDatabaseName)
	return purchaseService, promoService, publisher
}

func newPublisher(cfg *config.Config) events.Publisher {
	if !cfg.EventsEnabled {
		return events.NewNoopPublisher()
	}

	producer, err := kafka.NewProducer(kafkaconfig.Load(), events.TopicPurchases)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	return events.NewKafkaPublisher(producer, ServiceName, cfg.Log)
}
