package main

import (
	"tripmarket/internal/bookings/handler"
	"tripmarket/internal/bookings/repository"
	"tripmarket/internal/bookings/service"
	"tripmarket/internal/bookings/validator"
	"tripmarket/internal/catalog"
	"tripmarket/pkg/app"
	"tripmarket/pkg/config"
	"tripmarket/pkg/events"
	"tripmarket/pkg/kafka"
	kafkaconfig "tripmarket/pkg/kafka/config"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}

	// Log all configuration values
	cfg.LogConfiguration()

	cfg.Log.Info("Starting Bookings service")
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	bookingService, publisher := initServices(cfg)
	// Flush buffered events before the mongo client goes away.
	defer func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Warn("Failed to close event publisher", "error", err)
		}
	}()

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewBookingHandler(bookingService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) (service.BookingService, events.Publisher) {
	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	lockRepo := repository.NewBookingLockRepository(cfg)
	resourceCatalog := catalog.NewMongoCatalog(cfg)
	publisher := newPublisher(cfg)

	bookingService := service.NewBookingService(
		bookingRepo,
		lockRepo,
		resourceCatalog,
		bookingValidator,
		publisher,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService, publisher
}

func newPublisher(cfg *config.Config) events.Publisher {
	if !cfg.EventsEnabled {
		return events.NewNoopPublisher()
	}

	producer, err := kafka.NewProducer(kafkaconfig.Load(), events.TopicBookings)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	return events.NewKafkaPublisher(producer, ServiceName, cfg.Log)
}
