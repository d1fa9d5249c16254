package main

import (
	"gearpool/internal/clients/handler"
	"gearpool/internal/clients/repository"
	"gearpool/internal/clients/service"
	"gearpool/internal/clients/validator"
	"gearpool/pkg/app"
	"gearpool/pkg/config"
)

const ServiceName = "clients"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Clients service")
	clientService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewClientHandler(clientService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.ClientService {
	clientValidator := validator.NewClientValidator(cfg.Log)
	clientRepo := repository.NewMongoClientRepository(cfg)

	clientService := service.NewClientService(
		clientRepo,
		clientValidator,
		cfg,
	)

	cfg.Log.Info("Client service initialized", "database", cfg.MongoDatabaseName)
	return clientService
}
