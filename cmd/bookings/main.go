package main

import (
	"gearpool/internal/bookings/handler"
	"gearpool/internal/bookings/repository"
	"gearpool/internal/bookings/service"
	"gearpool/internal/bookings/validator"
	"gearpool/pkg/app"
	"gearpool/pkg/client"
	"gearpool/pkg/config"
	"gearpool/pkg/kafka"
	kafka_config "gearpool/pkg/kafka/config"
)

const (
	ServiceName    = "bookings"
	EventsTopic    = "gearpool.bookings.events"
	EventsDLQTopic = "gearpool.bookings.events.dlq"
)

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Bookings service")
	bookingService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewBookingHandler(bookingService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.BookingService {
	bookingValidator := validator.NewBookingValidator(cfg.Log, cfg.MaxRentalDays)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	lockRepo := repository.NewReservationLockRepository(cfg)
	capacity := service.NewHTTPCapacityProvider(client.NewEquipmentClient(cfg.EquipmentServiceURL))

	bookingService := service.NewBookingService(
		bookingRepo,
		lockRepo,
		bookingValidator,
		capacity,
		initEventPublisher(cfg),
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}

func initEventPublisher(cfg *config.Config) service.EventPublisher {
	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	if !kafkaCfg.Enabled {
		cfg.Log.Info("Kafka publishing disabled")
		return nil
	}

	kafkaCfg.LogConfiguration(cfg.Log.Info)
	producer, err := kafka.NewProducer(kafkaCfg, EventsTopic, EventsDLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	return service.NewKafkaPublisher(producer, cfg.Log)
}
