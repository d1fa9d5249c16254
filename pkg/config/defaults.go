package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "gearpool"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRequestTimeout    = 30 * time.Second
	DefaultIdempotencyTTL    = 24 * time.Hour
	DefaultMaxRequestSize    = 1 * 1024 * 1024 // 1MB
	DefaultRateLimitRequests = 120
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Engine knobs. The lock wait bounds how long a commit blocks behind a
	// contended equipment item before failing retryable; the TTL bounds how
	// long a crashed holder can wedge it.
	DefaultLockWaitTimeout = 5 * time.Second
	DefaultLockTTL         = 10 * time.Second
	DefaultMaxBatchSize    = 100
	DefaultMaxRentalDays   = 365

	DefaultPaginationLimit = 100

	DefaultEquipmentServiceURL = "http://localhost:8081"
	DefaultClientsServiceURL   = "http://localhost:8082"
	DefaultProjectsServiceURL  = "http://localhost:8083"
	DefaultBookingsServiceURL  = "http://localhost:8084"
)
