package config

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

const (
	StoreMemory   = "memory"
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
)

const defaultMongoDatabase = "resume_builder"

const defaultCORSOrigins = "http://localhost:3000,http://localhost:3001,http://localhost:3002,https://resume-builder-9chb.vercel.app"

// Config holds application configuration.
type Config struct {
	Env      string `validate:"oneof=dev local staging production"`
	Port     string `validate:"required"`
	LogLevel string `validate:"oneof=debug info warn error"`

	StoreDriver         string        `validate:"oneof=memory mongo postgres"`
	MongoURI            string        `validate:"required_if=StoreDriver mongo"`
	MongoDatabase       string        `validate:"required_if=StoreDriver mongo"`
	MongoConnectTimeout time.Duration `validate:"gte=0"`
	DatabaseURL         string        `validate:"required_if=StoreDriver postgres"`
	AutoMigrate         bool
	StoreOpTimeout      time.Duration `validate:"gte=0"`

	CORSAllowOrigin  []string
	CORSAllowMethods []string `validate:"min=1"`
	CORSAllowHeaders []string

	BodyLimitBytes int64         `validate:"gt=0"`
	RequestTimeout time.Duration `validate:"gte=0"`
	ReadTimeout    time.Duration `validate:"gte=0"`
	WriteTimeout   time.Duration `validate:"gte=0"`
	IdleTimeout    time.Duration `validate:"gte=0"`
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (Config, error) {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	mongoURI := strings.TrimSpace(v.GetString("MONGODB_URI"))
	dbURL := strings.TrimSpace(v.GetString("DATABASE_URL"))

	cfg := Config{
		Env:                 normalizeEnv(v.GetString("ENV")),
		Port:                strings.TrimSpace(v.GetString("PORT")),
		LogLevel:            strings.ToLower(strings.TrimSpace(v.GetString("LOG_LEVEL"))),
		StoreDriver:         resolveStoreDriver(v.GetString("STORE_DRIVER"), mongoURI, dbURL),
		MongoURI:            mongoURI,
		MongoDatabase:       resolveMongoDatabase(v.GetString("MONGODB_DATABASE"), mongoURI),
		MongoConnectTimeout: v.GetDuration("MONGO_CONNECT_TIMEOUT"),
		DatabaseURL:         dbURL,
		AutoMigrate:         v.GetBool("DB_AUTO_MIGRATE"),
		StoreOpTimeout:      v.GetDuration("STORE_OP_TIMEOUT"),
		CORSAllowOrigin:     splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),
		CORSAllowMethods:    splitAndTrim(v.GetString("CORS_ALLOW_METHODS")),
		CORSAllowHeaders:    splitAndTrim(v.GetString("CORS_ALLOW_HEADERS")),
		BodyLimitBytes:      v.GetInt64("BODY_LIMIT_BYTES"),
		RequestTimeout:      v.GetDuration("REQUEST_TIMEOUT"),
		ReadTimeout:         v.GetDuration("SERVER_READ_TIMEOUT"),
		WriteTimeout:        v.GetDuration("SERVER_WRITE_TIMEOUT"),
		IdleTimeout:         v.GetDuration("SERVER_IDLE_TIMEOUT"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints and cross-field rules.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	if c.Env == "production" && c.StoreDriver == StoreMemory {
		return errors.New("invalid config: production requires MONGODB_URI or DATABASE_URL")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "5001")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MONGO_CONNECT_TIMEOUT", "10s")
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("STORE_OP_TIMEOUT", "5s")
	v.SetDefault("CORS_ALLOW_ORIGINS", defaultCORSOrigins)
	v.SetDefault("CORS_ALLOW_METHODS", "GET,POST,PUT,DELETE,OPTIONS")
	v.SetDefault("CORS_ALLOW_HEADERS", "Content-Type,Authorization")
	v.SetDefault("BODY_LIMIT_BYTES", 10<<20)
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("SERVER_READ_TIMEOUT", "15s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "35s")
	v.SetDefault("SERVER_IDLE_TIMEOUT", "60s")
}

// resolveStoreDriver honours an explicit STORE_DRIVER and otherwise infers one
// from whichever connection string is present, mongo first.
func resolveStoreDriver(raw, mongoURI, dbURL string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "mongo", "mongodb":
		return StoreMongo
	case "postgres", "postgresql", "pg":
		return StorePostgres
	case "memory", "mem":
		return StoreMemory
	case "":
	default:
		return strings.ToLower(strings.TrimSpace(raw))
	}
	switch {
	case mongoURI != "":
		return StoreMongo
	case dbURL != "":
		return StorePostgres
	default:
		return StoreMemory
	}
}

// resolveMongoDatabase prefers an explicit MONGODB_DATABASE, then the database
// named in the URI path, then resume_builder.
func resolveMongoDatabase(explicit, mongoURI string) string {
	if name := strings.TrimSpace(explicit); name != "" {
		return name
	}
	if mongoURI != "" {
		if cs, err := connstring.ParseAndValidate(mongoURI); err == nil && cs.Database != "" {
			return cs.Database
		}
	}
	return defaultMongoDatabase
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}
