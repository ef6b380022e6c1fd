package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// MongoDB configuration
type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

// JWT configuration
type JWTConfig struct {
	SecretKey string        `mapstructure:"secret_key"`
	Algorithm string        `mapstructure:"algorithm"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// Security configuration
type SecurityConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

// Directory configuration
type DirectoryConfig struct {
	// VerifyRenameCredentials makes PUT /org/update check the admin's
	// credentials against the organization being renamed.
	VerifyRenameCredentials bool `mapstructure:"verify_rename_credentials"`
}

// Store configuration
type StoreConfig struct {
	Backend string `mapstructure:"backend"`
}

// Logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Metrics configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Security  SecurityConfig  `mapstructure:"security"`
	Directory DirectoryConfig `mapstructure:"directory"`
	Store     StoreConfig     `mapstructure:"store"`
	Log       LogConfig       `mapstructure:"log"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// Store backends
const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// Default configuration values
const (
	DefaultServerPort      = "8000"
	DefaultServerHost      = "0.0.0.0"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultMongoURI        = "mongodb://localhost:27017"
	DefaultMongoDB         = "org_master_db"
	// DefaultJWTSecret is only fit for local development.
	DefaultJWTSecret    = "super-secret-key-change-me"
	DefaultJWTAlgorithm = "HS256"
	DefaultTokenTTL     = 60 * time.Minute
	DefaultBcryptCost   = bcrypt.DefaultCost
	DefaultStoreBackend = StoreMongo
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "console"
	DefaultMetrics      = true
)

// envBindings maps config keys to the environment variables that override them.
var envBindings = map[string]string{
	"server.host":                         "SERVER_HOST",
	"server.port":                         "SERVER_PORT",
	"server.shutdown_timeout":             "SERVER_SHUTDOWN_TIMEOUT",
	"mongo.uri":                           "MONGO_URI",
	"mongo.database":                      "MONGO_DB_NAME",
	"jwt.secret_key":                      "JWT_SECRET_KEY",
	"jwt.algorithm":                       "JWT_ALGORITHM",
	"jwt.token_ttl":                       "JWT_TOKEN_TTL",
	"security.bcrypt_cost":                "BCRYPT_COST",
	"directory.verify_rename_credentials": "VERIFY_RENAME_CREDENTIALS",
	"store.backend":                       "STORE_BACKEND",
	"log.level":                           "LOG_LEVEL",
	"log.format":                          "LOG_FORMAT",
	"metrics.enabled":                     "METRICS_ENABLED",
}

// New returns a Config built from defaults and the environment only.
func New() (*Config, error) {
	return Load("")
}

// Load reads configuration with the precedence defaults < YAML file < env.
// An empty configPath looks for config.yaml in the working directory and
// ./config; a missing file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", DefaultServerHost)
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.shutdown_timeout", DefaultShutdownTimeout)
	v.SetDefault("mongo.uri", DefaultMongoURI)
	v.SetDefault("mongo.database", DefaultMongoDB)
	v.SetDefault("jwt.secret_key", DefaultJWTSecret)
	v.SetDefault("jwt.algorithm", DefaultJWTAlgorithm)
	v.SetDefault("jwt.token_ttl", DefaultTokenTTL)
	v.SetDefault("security.bcrypt_cost", DefaultBcryptCost)
	v.SetDefault("directory.verify_rename_credentials", false)
	v.SetDefault("store.backend", DefaultStoreBackend)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("metrics.enabled", DefaultMetrics)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Server.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid server port: %q", c.Server.Port)
	}

	switch c.Store.Backend {
	case StoreMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("mongo.uri is required")
		}
		if c.Mongo.Database == "" {
			return fmt.Errorf("mongo.database is required")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("invalid store backend: %s (must be mongo or memory)", c.Store.Backend)
	}

	if c.JWT.SecretKey == "" {
		return fmt.Errorf("jwt.secret_key is required")
	}
	switch strings.ToUpper(c.JWT.Algorithm) {
	case "HS256", "HS384", "HS512":
		c.JWT.Algorithm = strings.ToUpper(c.JWT.Algorithm)
	default:
		return fmt.Errorf("unsupported jwt.algorithm: %s (must be HS256, HS384 or HS512)", c.JWT.Algorithm)
	}
	if c.JWT.TokenTTL < 0 {
		return fmt.Errorf("jwt.token_ttl must not be negative")
	}

	if c.Security.BcryptCost < bcrypt.MinCost || c.Security.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("security.bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log.format: %s (must be console or json)", c.Log.Format)
	}
	return nil
}

// UsingDefaultSecret reports whether tokens are signed with the built-in
// development secret.
func (c *Config) UsingDefaultSecret() bool {
	return c.JWT.SecretKey == DefaultJWTSecret
}

// Address returns the server address string
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}
