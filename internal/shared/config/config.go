package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/shared/utils"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Frontend  FrontendConfig
	Logging   LoggingConfig
	RateLimit RateLimitConfig
	Realm     RealmConfig
	Economy   EconomyConfig
}

type ServerConfig struct {
	Port         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	MigrationsPath  string
}

type RedisConfig struct {
	Enabled  bool
	URL      string
	Host     string
	Port     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret       string
	TokenExpiration time.Duration
}

type FrontendConfig struct {
	URL       string
	CORSDebug bool
}

type LoggingConfig struct {
	Level      string
	JSONFormat bool
}

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	BurstSize         int
	TrustProxy        bool
}

// RealmConfig holds the generation defaults for new realms.
type RealmConfig struct {
	DefaultNodeCount     int
	DefaultSeedRate      float64
	ExtraTunnelFactor    float64
	MaxGenerationRetries int
}

// EconomyConfig holds pricing bounds and starbase seed inventory.
type EconomyConfig struct {
	PriceFloor      int
	PriceCeiling    int
	SeedResources   []string
	SeedQuantity    int
	SeedPrice       int
	StartingCredits int64
}

var GlobalConfig *Config

func Init() error {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using system environment variables")
	}

	config, err := load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := config.validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	GlobalConfig = config
	return nil
}

func load() (*Config, error) {
	config := &Config{
		Server:    loadServerConfig(),
		Database:  loadDatabaseConfig(),
		Redis:     loadRedisConfig(),
		Auth:      loadAuthConfig(),
		Frontend:  loadFrontendConfig(),
		Logging:   loadLoggingConfig(),
		RateLimit: loadRateLimitConfig(),
		Realm:     loadRealmConfig(),
		Economy:   loadEconomyConfig(),
	}

	return config, nil
}

func loadServerConfig() ServerConfig {
	readTimeout, _ := strconv.Atoi(utils.GetEnv("SERVER_READ_TIMEOUT_SECONDS", "15"))
	writeTimeout, _ := strconv.Atoi(utils.GetEnv("SERVER_WRITE_TIMEOUT_SECONDS", "15"))
	idleTimeout, _ := strconv.Atoi(utils.GetEnv("SERVER_IDLE_TIMEOUT_SECONDS", "60"))

	return ServerConfig{
		Port:         utils.GetEnv("SERVER_PORT", "8080"),
		Environment:  utils.GetEnv("ENVIRONMENT", "development"),
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
		IdleTimeout:  time.Duration(idleTimeout) * time.Second,
	}
}

func loadDatabaseConfig() DatabaseConfig {
	maxOpenConns, _ := strconv.Atoi(utils.GetEnv("DB_MAX_OPEN_CONNS", "25"))
	maxIdleConns, _ := strconv.Atoi(utils.GetEnv("DB_MAX_IDLE_CONNS", "5"))
	connMaxLifetime, _ := strconv.Atoi(utils.GetEnv("DB_CONN_MAX_LIFETIME_MINUTES", "5"))

	return DatabaseConfig{
		Host:            utils.GetEnv("DB_HOST", "localhost"),
		Port:            utils.GetEnv("DB_PORT", "5432"),
		User:            utils.GetEnv("DB_USER", "postgres"),
		Password:        utils.GetEnv("DB_PASSWORD", "postgres"),
		Name:            utils.GetEnv("DB_NAME", "chronovoid"),
		SSLMode:         utils.GetEnv("DB_SSLMODE", "disable"),
		MaxOpenConns:    maxOpenConns,
		MaxIdleConns:    maxIdleConns,
		ConnMaxLifetime: time.Duration(connMaxLifetime) * time.Minute,
		MigrationsPath:  utils.GetEnv("DB_MIGRATIONS_PATH", "migrations"),
	}
}

func loadRedisConfig() RedisConfig {
	enabled := utils.GetEnv("REDIS_ENABLED", "false") == "true"
	db, _ := strconv.Atoi(utils.GetEnv("REDIS_DB", "0"))

	return RedisConfig{
		Enabled:  enabled,
		URL:      utils.GetEnv("REDIS_URL", ""),
		Host:     utils.GetEnv("REDIS_HOST", "localhost"),
		Port:     utils.GetEnv("REDIS_PORT", "6379"),
		Password: utils.GetEnv("REDIS_PASSWORD", ""),
		DB:       db,
	}
}

func loadAuthConfig() AuthConfig {
	tokenExpiration, _ := strconv.Atoi(utils.GetEnv("JWT_EXPIRATION_HOURS", "24"))

	return AuthConfig{
		JWTSecret:       utils.GetEnv("JWT_SECRET", ""),
		TokenExpiration: time.Duration(tokenExpiration) * time.Hour,
	}
}

func loadFrontendConfig() FrontendConfig {
	return FrontendConfig{
		URL:       utils.GetEnv("FRONTEND_URL", "http://localhost:3000"),
		CORSDebug: utils.GetEnv("CORS_DEBUG", "false") == "true",
	}
}

func loadLoggingConfig() LoggingConfig {
	environment := utils.GetEnv("ENVIRONMENT", "development")
	jsonFormat := environment == "production"

	return LoggingConfig{
		Level:      utils.GetEnv("LOG_LEVEL", "debug"),
		JSONFormat: jsonFormat,
	}
}

func loadRateLimitConfig() RateLimitConfig {
	enabled := utils.GetEnv("RATE_LIMIT_ENABLED", "true") == "true"
	requestsPerSecond, _ := strconv.ParseFloat(utils.GetEnv("RATE_LIMIT_REQUESTS_PER_SECOND", "10"), 64)
	burstSize, _ := strconv.Atoi(utils.GetEnv("RATE_LIMIT_BURST_SIZE", "20"))
	trustProxy := utils.GetEnv("RATE_LIMIT_TRUST_PROXY", "false") == "true"

	return RateLimitConfig{
		Enabled:           enabled,
		RequestsPerSecond: requestsPerSecond,
		BurstSize:         burstSize,
		TrustProxy:        trustProxy,
	}
}

func loadRealmConfig() RealmConfig {
	nodeCount, _ := strconv.Atoi(utils.GetEnv("REALM_DEFAULT_NODE_COUNT", "100"))
	seedRate, _ := strconv.ParseFloat(utils.GetEnv("REALM_DEFAULT_SEED_RATE", "0.15"), 64)
	extraFactor, _ := strconv.ParseFloat(utils.GetEnv("REALM_EXTRA_TUNNEL_FACTOR", "1.5"), 64)
	maxRetries, _ := strconv.Atoi(utils.GetEnv("REALM_MAX_GENERATION_RETRIES", "3"))

	return RealmConfig{
		DefaultNodeCount:     nodeCount,
		DefaultSeedRate:      seedRate,
		ExtraTunnelFactor:    extraFactor,
		MaxGenerationRetries: maxRetries,
	}
}

func loadEconomyConfig() EconomyConfig {
	priceFloor, _ := strconv.Atoi(utils.GetEnv("ECONOMY_PRICE_FLOOR", "1"))
	priceCeiling, _ := strconv.Atoi(utils.GetEnv("ECONOMY_PRICE_CEILING", "10000"))
	seedQuantity, _ := strconv.Atoi(utils.GetEnv("ECONOMY_SEED_QUANTITY", "500"))
	seedPrice, _ := strconv.Atoi(utils.GetEnv("ECONOMY_SEED_PRICE", "25"))
	seedResources := strings.Split(utils.GetEnv("ECONOMY_SEED_RESOURCES", "fuel,ore,organics,equipment"), ",")
	startingCredits, _ := strconv.ParseInt(utils.GetEnv("ECONOMY_STARTING_CREDITS", "1000"), 10, 64)

	return EconomyConfig{
		PriceFloor:      priceFloor,
		PriceCeiling:    priceCeiling,
		SeedResources:   seedResources,
		SeedQuantity:    seedQuantity,
		SeedPrice:       seedPrice,
		StartingCredits: startingCredits,
	}
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}

	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}

	if c.Realm.DefaultNodeCount <= 0 {
		return fmt.Errorf("REALM_DEFAULT_NODE_COUNT must be positive")
	}

	if c.Realm.DefaultSeedRate <= 0 || c.Realm.DefaultSeedRate > 1 {
		return fmt.Errorf("REALM_DEFAULT_SEED_RATE must be in (0, 1]")
	}

	if c.Economy.PriceFloor < 1 || c.Economy.PriceCeiling < c.Economy.PriceFloor {
		return fmt.Errorf("economy price bounds are inconsistent")
	}

	return nil
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
