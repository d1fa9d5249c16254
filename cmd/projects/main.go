package main

import (
	"gearpool/internal/projects/handler"
	"gearpool/internal/projects/repository"
	"gearpool/internal/projects/service"
	"gearpool/internal/projects/validator"
	"gearpool/pkg/app"
	"gearpool/pkg/client"
	"gearpool/pkg/config"
)

const ServiceName = "projects"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Projects service")
	projectService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewProjectHandler(projectService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.ProjectService {
	projectValidator := validator.NewProjectValidator(cfg.Log)
	projectRepo := repository.NewMongoProjectRepository(cfg)
	clientsClient := client.NewClientsClient(cfg.ClientsServiceURL)

	projectService := service.NewProjectService(
		projectRepo,
		projectValidator,
		clientsClient,
		cfg,
	)

	cfg.Log.Info("Project service initialized", "database", cfg.MongoDatabaseName)
	return projectService
}
