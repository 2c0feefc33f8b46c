package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"smartparking/pkg/client"
	"smartparking/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	RateLimitRequests int
	RateLimitWindow   time.Duration

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	StoreReadTimeout  time.Duration
	StoreWriteTimeout time.Duration

	JWTSecret string
	JWTIssuer string
	// AuthRequired is false for jobs that serve no authenticated HTTP traffic.
	AuthRequired bool

	LockBackend string
	RedisAddr   string
	LockTTL     time.Duration
	LockWait    time.Duration

	BootstrapRetries    int
	BootstrapBackoff    time.Duration
	BootstrapMaxBackoff time.Duration
	SeedOnBoot          bool

	CompletionSweepSchedule string

	KafkaEnabled bool
	EventsTopic  string

	Log    *logger.Logger
	Client *client.Client
}

// Load reads the environment, validates it and exits on invalid configuration.
func Load(serviceName string) *Config {
	return load(serviceName, true)
}

// LoadJob is Load for processes that do not verify bearer tokens.
func LoadJob(jobName string) *Config {
	return load(jobName, false)
}

func load(serviceName string, authRequired bool) *Config {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg := FromEnv()
	cfg.AuthRequired = authRequired
	cfg.Log = logger.New(logger.Config{
		Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
		Format:    logger.JSON,
		AddSource: true,
		Service:   serviceName,
	})
	cfg.Client = client.NewClient()

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// FromEnv builds a Config from environment variables without validating it.
func FromEnv() *Config {
	return &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		StoreReadTimeout:  getEnvDuration(EnvStoreReadTimeout, DefaultStoreReadTimeout),
		StoreWriteTimeout: getEnvDuration(EnvStoreWriteTimeout, DefaultStoreWriteTimeout),

		JWTSecret:    getEnvStr(EnvJWTSecret, ""),
		JWTIssuer:    getEnvStr(EnvJWTIssuer, DefaultJWTIssuer),
		AuthRequired: true,

		LockBackend: strings.ToLower(getEnvStr(EnvLockBackend, DefaultLockBackend)),
		RedisAddr:   getEnvStr(EnvRedisAddr, DefaultRedisAddr),
		LockTTL:     getEnvDuration(EnvLockTTL, DefaultLockTTL),
		LockWait:    getEnvDuration(EnvLockWait, DefaultLockWait),

		BootstrapRetries:    getEnvNum(EnvBootstrapRetries, DefaultBootstrapRetries),
		BootstrapBackoff:    getEnvDuration(EnvBootstrapBackoff, DefaultBootstrapBackoff),
		BootstrapMaxBackoff: getEnvDuration(EnvBootstrapMaxBackoff, DefaultBootstrapMaxBackoff),
		SeedOnBoot:          getEnvBool(EnvSeedOnBoot, DefaultSeedOnBoot),

		CompletionSweepSchedule: getEnvStr(EnvCompletionSweepSchedule, DefaultCompletionSweepSchedule),

		KafkaEnabled: getEnvBool(EnvKafkaEnabled, DefaultKafkaEnabled),
		EventsTopic:  getEnvStr(EnvEventsTopic, DefaultEventsTopic),
	}
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) SetRedis() {
	cfg.Client.SetRedis(cfg.Log, cfg.RedisAddr, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if len(cfg.MongoURI) < 10 || !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}

	durations := []struct {
		name  string
		value time.Duration
	}{
		{"MongoConnTimeout", cfg.MongoConnTimeout},
		{"RequestTimeout", cfg.RequestTimeout},
		{"IdempotencyTTL", cfg.IdempotencyTTL},
		{"RateLimitWindow", cfg.RateLimitWindow},
		{"ReadTimeout", cfg.ReadTimeout},
		{"WriteTimeout", cfg.WriteTimeout},
		{"IdleTimeout", cfg.IdleTimeout},
		{"ShutdownTimeout", cfg.ShutdownTimeout},
		{"StoreReadTimeout", cfg.StoreReadTimeout},
		{"StoreWriteTimeout", cfg.StoreWriteTimeout},
		{"LockTTL", cfg.LockTTL},
		{"LockWait", cfg.LockWait},
		{"BootstrapBackoff", cfg.BootstrapBackoff},
		{"BootstrapMaxBackoff", cfg.BootstrapMaxBackoff},
	}
	for _, d := range durations {
		if d.value <= 0 {
			errors = append(errors, fmt.Sprintf("%s must be positive, got: %s", d.name, d.value))
		}
	}
	// The slot lock must outlive the overlap read and the write made under it.
	if cfg.LockTTL <= cfg.StoreReadTimeout+cfg.StoreWriteTimeout {
		errors = append(errors, fmt.Sprintf("LockTTL (%s) must exceed StoreReadTimeout + StoreWriteTimeout (%s)", cfg.LockTTL, cfg.StoreReadTimeout+cfg.StoreWriteTimeout))
	}

	if cfg.BootstrapMaxBackoff < cfg.BootstrapBackoff {
		errors = append(errors, fmt.Sprintf("BootstrapMaxBackoff (%s) must be >= BootstrapBackoff (%s)", cfg.BootstrapMaxBackoff, cfg.BootstrapBackoff))
	}
	if cfg.BootstrapRetries < 0 {
		errors = append(errors, fmt.Sprintf("BootstrapRetries cannot be negative, got: %d", cfg.BootstrapRetries))
	}
	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if cfg.AuthRequired && cfg.JWTSecret == "" {
		errors = append(errors, "JWTSecret cannot be empty")
	}

	switch cfg.LockBackend {
	case LockBackendMongo:
	case LockBackendRedis:
		if cfg.RedisAddr == "" {
			errors = append(errors, "RedisAddr cannot be empty when LockBackend is redis")
		}
	default:
		errors = append(errors, fmt.Sprintf("LockBackend must be '%s' or '%s', got: %s", LockBackendMongo, LockBackendRedis, cfg.LockBackend))
	}

	if _, err := cron.ParseStandard(cfg.CompletionSweepSchedule); err != nil {
		errors = append(errors, fmt.Sprintf("CompletionSweepSchedule is not a valid cron spec: %s", cfg.CompletionSweepSchedule))
	}

	if cfg.KafkaEnabled && cfg.EventsTopic == "" {
		errors = append(errors, "EventsTopic cannot be empty when Kafka is enabled")
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"store_read_timeout", cfg.StoreReadTimeout,
		"store_write_timeout", cfg.StoreWriteTimeout,
		"jwt_secret_set", cfg.JWTSecret != "",
		"jwt_issuer", cfg.JWTIssuer,
		"lock_backend", cfg.LockBackend,
		"redis_addr", cfg.RedisAddr,
		"lock_ttl", cfg.LockTTL,
		"lock_wait", cfg.LockWait,
		"bootstrap_retries", cfg.BootstrapRetries,
		"bootstrap_backoff", cfg.BootstrapBackoff,
		"bootstrap_max_backoff", cfg.BootstrapMaxBackoff,
		"seed_on_boot", cfg.SeedOnBoot,
		"completion_sweep_schedule", cfg.CompletionSweepSchedule,
		"kafka_enabled", cfg.KafkaEnabled,
		"events_topic", cfg.EventsTopic,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}
