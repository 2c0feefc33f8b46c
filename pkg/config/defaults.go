package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "smartparking"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = time.Minute

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultStoreReadTimeout  = 5 * time.Second
	DefaultStoreWriteTimeout = 10 * time.Second

	DefaultJWTIssuer = "smartparking"

	LockBackendMongo   = "mongo"
	LockBackendRedis   = "redis"
	DefaultLockBackend = LockBackendMongo
	DefaultRedisAddr   = "localhost:6379"
	DefaultLockTTL     = 30 * time.Second
	DefaultLockWait    = 3 * time.Second

	DefaultBootstrapRetries    = 3
	DefaultBootstrapBackoff    = 2 * time.Second
	DefaultBootstrapMaxBackoff = 10 * time.Second
	DefaultSeedOnBoot          = true

	DefaultCompletionSweepSchedule = "@every 1m"

	DefaultKafkaEnabled = false
	DefaultEventsTopic  = "parking-events"

	DefaultPaginationLimit = 100
)
