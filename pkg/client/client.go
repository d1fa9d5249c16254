package client

import (
	"context"
	"time"

	"gearpool/pkg/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoClient wraps the driver client so config can hold it before any
// database is selected.
type MongoClient struct {
	Client *mongo.Client
}

// Client bundles the connections a service holds: the Mongo client plus the
// HTTP clients of the sibling services it orchestrates.
type Client struct {
	Mongo *MongoClient

	EquipmentClient *EquipmentClient
	ClientsClient   *ClientsClient
	ProjectsClient  *ProjectsClient
	BookingsClient  *BookingsClient
}

// Metadata carries pagination info decoded from list responses.
type Metadata struct {
	TotalCount int64
	Limit      int
	Offset     int64
}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) SetMongo(log *logger.Logger, mongoURI string, connTimeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), connTimeout)
	defer cancel()

	mc, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB",
			"error", err,
		)
	}

	if err := mc.Ping(ctx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB", "error", err)
	}

	log.Info("Successfully connected to MongoDB")
	c.Mongo = &MongoClient{Client: mc}
}

func (c *Client) SetServiceClients(equipmentURL, clientsURL, projectsURL, bookingsURL string) {
	c.EquipmentClient = NewEquipmentClient(equipmentURL)
	c.ClientsClient = NewClientsClient(clientsURL)
	c.ProjectsClient = NewProjectsClient(projectsURL)
	c.BookingsClient = NewBookingsClient(bookingsURL)
}

func (c *Client) GracefulShutdown() {
	if c.Mongo != nil && c.Mongo.Client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = c.Mongo.Client.Disconnect(ctx)
	}
}
