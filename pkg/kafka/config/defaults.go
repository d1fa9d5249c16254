package kafka_config

import "time"

const (
	DefaultKafkaEnabled = false
	DefaultKafkaBrokers = "localhost:9092"

	DefaultProducerMaxAttempts  = 3
	DefaultProducerBatchTimeout = 10 * time.Millisecond
	DefaultProducerRequireAcks  = -1 // all replicas
	DefaultProducerCompression  = "snappy"
	DefaultProducerAsync        = false

	DefaultConsumerMinBytes    = 1
	DefaultConsumerMaxBytes    = 10 * 1024 * 1024
	DefaultConsumerMaxWait     = 500 * time.Millisecond
	DefaultConsumerMaxRetries  = 3
	DefaultConsumerStartOffset = "latest"
)
