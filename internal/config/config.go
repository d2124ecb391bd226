package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App         AppConfig
	Rekognition RekognitionConfig
	Postgres    PostgresConfig
	Redis       RedisConfig
	Logger      LoggerConfig
	Auth        AuthConfig
	Enrollment  EnrollmentConfig
	Verify      VerifyConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// RekognitionConfig holds settings for the face matching engine.
type RekognitionConfig struct {
	Region             string
	CollectionID       string
	CallTimeoutSeconds int
}

// PostgresConfig holds audit store connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values for the profile cache.
type RedisConfig struct {
	Addr          string
	Password      string
	DB            int
	ProfileTTLSec int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines session token parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
}

// EnrollmentConfig controls enrollment policy.
type EnrollmentConfig struct {
	Deduplicate      bool
	DedupeSimilarity float64
}

// VerifyConfig controls verification policy.
type VerifyConfig struct {
	DefaultSimilarity float64
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	defaultSimilarity, err := strconv.ParseFloat(getEnv("VERIFY_DEFAULT_SIMILARITY", "90.0"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid VERIFY_DEFAULT_SIMILARITY: %w", err)
	}

	dedupeSimilarity, err := strconv.ParseFloat(getEnv("ENROLLMENT_DEDUPE_SIMILARITY", "99.0"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ENROLLMENT_DEDUPE_SIMILARITY: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "face-lock-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "1.0.0"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Rekognition: RekognitionConfig{
			Region:             getEnv("AWS_REGION", "us-east-1"),
			CollectionID:       getEnv("REKOGNITION_COLLECTION_ID", "FaceLockUsers"),
			CallTimeoutSeconds: getEnvAsInt("REKOGNITION_CALL_TIMEOUT_SECONDS", 10),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:          getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:      os.Getenv("REDIS_PASSWORD"),
			DB:            redisDB,
			ProfileTTLSec: getEnvAsInt("REDIS_PROFILE_TTL_SECONDS", 0),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("SECRET_KEY", "your_default_secret_key"),
			AccessTokenTTLMinutes: getEnvAsInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30),
		},
		Enrollment: EnrollmentConfig{
			Deduplicate:      getEnvAsBool("ENROLLMENT_DEDUPLICATE", false),
			DedupeSimilarity: dedupeSimilarity,
		},
		Verify: VerifyConfig{
			DefaultSimilarity: defaultSimilarity,
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// CallTimeout returns the per-call deadline for matching engine requests.
func (r RekognitionConfig) CallTimeout() time.Duration {
	if r.CallTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(r.CallTimeoutSeconds) * time.Second
}

// ProfileTTL returns the expiry applied to cached profiles; zero means keep forever.
func (r RedisConfig) ProfileTTL() time.Duration {
	if r.ProfileTTLSec <= 0 {
		return 0
	}
	return time.Duration(r.ProfileTTLSec) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
