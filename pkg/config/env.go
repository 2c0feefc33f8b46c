package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvStoreReadTimeout  = "STORE_READ_TIMEOUT"
	EnvStoreWriteTimeout = "STORE_WRITE_TIMEOUT"

	EnvJWTSecret = "JWT_SECRET"
	EnvJWTIssuer = "JWT_ISSUER"

	EnvLockBackend = "LOCK_BACKEND"
	EnvRedisAddr   = "REDIS_ADDR"
	EnvLockTTL     = "LOCK_TTL"
	EnvLockWait    = "LOCK_WAIT"

	EnvBootstrapRetries    = "BOOTSTRAP_RETRIES"
	EnvBootstrapBackoff    = "BOOTSTRAP_BACKOFF"
	EnvBootstrapMaxBackoff = "BOOTSTRAP_MAX_BACKOFF"
	EnvSeedOnBoot          = "SEED_ON_BOOT"

	EnvCompletionSweepSchedule = "COMPLETION_SWEEP_SCHEDULE"

	EnvKafkaEnabled = "KAFKA_ENABLED"
	EnvEventsTopic  = "EVENTS_TOPIC"
)
