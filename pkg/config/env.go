package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRequestTimeout    = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL    = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize    = "MAX_REQUEST_SIZE"
	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvLockWaitTimeout = "LOCK_WAIT_TIMEOUT"
	EnvLockTTL         = "LOCK_TTL"
	EnvMaxBatchSize    = "MAX_BATCH_SIZE"
	EnvMaxRentalDays   = "MAX_RENTAL_DAYS"

	EnvEquipmentServiceURL = "EQUIPMENT_SERVICE_URL"
	EnvClientsServiceURL   = "CLIENTS_SERVICE_URL"
	EnvProjectsServiceURL  = "PROJECTS_SERVICE_URL"
	EnvBookingsServiceURL  = "BOOKINGS_SERVICE_URL"
)
