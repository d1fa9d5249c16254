package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gearpool/internal/frontdesk/api"
	"gearpool/internal/frontdesk/audit"
	"gearpool/pkg/client"
	"gearpool/pkg/config"
	"gearpool/pkg/kafka"
	kafka_config "gearpool/pkg/kafka/config"
	"gearpool/pkg/logger"
)

const (
	ServiceName = "frontdesk"

	EventsTopic    = "gearpool.bookings.events"
	AuditDLQTopic  = "gearpool.frontdesk.audit.dlq"
	AuditGroupID   = "frontdesk-audit"
	AuditTrailSize = 512
)

func main() {
	log := logger.New(logger.Config{
		Level:   os.Getenv(config.EnvLogLevel),
		Format:  logger.FormatJSON,
		Service: ServiceName,
	})

	port := os.Getenv("FRONTDESK_PORT")
	if port == "" {
		port = "8090"
	}

	apiClient := client.NewClient()
	apiClient.SetServiceClients(
		getEnvURL("EQUIPMENT_SERVICE_URL", config.DefaultEquipmentServiceURL),
		getEnvURL("CLIENTS_SERVICE_URL", config.DefaultClientsServiceURL),
		getEnvURL("PROJECTS_SERVICE_URL", config.DefaultProjectsServiceURL),
		getEnvURL("BOOKINGS_SERVICE_URL", config.DefaultBookingsServiceURL),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	trail := startAuditIntake(ctx, log)

	router := api.SetupRouter(apiClient, trail, log)

	addr := ":" + port
	log.Info("Starting Front Desk API server", "address", addr)

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// startAuditIntake consumes the bookings event topic into an in-memory
// trail. Returns nil when eventing is disabled; the audit endpoint then
// reports intake as unavailable.
func startAuditIntake(ctx context.Context, log *logger.Logger) *audit.Trail {
	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		log.Fatal("Invalid Kafka configuration", "error", err)
	}
	if !kafkaCfg.Enabled {
		log.Info("Kafka disabled, booking event intake is off")
		return nil
	}

	trail := audit.NewTrail(AuditTrailSize)
	consumer, err := kafka.NewConsumer(kafkaCfg, EventsTopic, AuditGroupID, AuditDLQTopic, audit.Intake(trail, log))
	if err != nil {
		log.Fatal("Failed to create Kafka consumer", "error", err)
	}

	go func() {
		defer consumer.Close()
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Booking event intake stopped", "error", err)
		}
	}()

	log.Info("Booking event intake started", "topic", EventsTopic, "group_id", AuditGroupID)
	return trail
}

func getEnvURL(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
