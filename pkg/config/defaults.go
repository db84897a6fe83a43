package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "rezerv"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultJWTTTL     = 1 * time.Hour
	DefaultBcryptCost = 12

	// Approval locks auto-expire so a crashed approver cannot wedge a resource.
	DefaultApprovalLockTTL = 10 * time.Second

	DefaultKafkaBrokers            = "localhost:9092"
	DefaultKafkaNotificationsTopic = "rezerv.notifications"

	DefaultPaginationLimit = 50
)
