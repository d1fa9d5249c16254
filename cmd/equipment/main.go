package main

import (
	"gearpool/internal/equipment/handler"
	"gearpool/internal/equipment/repository"
	"gearpool/internal/equipment/service"
	"gearpool/internal/equipment/validator"
	"gearpool/pkg/app"
	"gearpool/pkg/client"
	"gearpool/pkg/config"
)

const ServiceName = "equipment"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Equipment service")
	equipmentService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewEquipmentHandler(equipmentService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.EquipmentService {
	equipmentValidator := validator.NewEquipmentValidator(cfg.Log)
	equipmentRepo := repository.NewMongoEquipmentRepository(cfg)
	bookingsClient := client.NewBookingsClient(cfg.BookingsServiceURL)

	equipmentService := service.NewEquipmentService(
		equipmentRepo,
		equipmentValidator,
		bookingsClient,
		cfg,
	)

	cfg.Log.Info("Equipment service initialized", "database", cfg.MongoDatabaseName)
	return equipmentService
}
