package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"motoparts-backend/pkg/utils"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
)

const defaultJWTSecret = "default_secret_CHANGE_ME"

type Config struct {
	Port          string
	Env           string
	LogLevel      string
	DBUrl         string
	JWTSecret     string
	AllowedOrigin string
	// DB Config
	DBMaxConns        int32
	DBMinConns        int32
	DBMaxConnIdleTime time.Duration
	// R2 Storage, used for rule exports. Optional.
	R2AccountID       string
	R2AccessKeyID     string
	R2AccessKeySecret string
	R2BucketName      string
	R2PublicURL       string
	R2UploadTimeout   time.Duration
	// Shipping
	ShippingOriginPostalCode    string
	ShippingAggregatorURL       string
	ShippingAggregatorToken     string
	ShippingAggregatorUserAgent string
	ShippingAggregatorTimeout   time.Duration
	ShippingAggregatorServices  []string
	ShippingInsuranceValue      decimal.Decimal
	ShippingRuleCacheTTL        time.Duration
	// Rate limiting
	RateLimitRPS   float64
	RateLimitBurst int
}

// LoadConfig reads configuration in order: env file, environment, command-line flags.
// The env file is CONFIG_FILE or --config when given, .env otherwise.
func LoadConfig(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("api", pflag.ContinueOnError)
	configFile := fs.String("config", os.Getenv("CONFIG_FILE"), "path to an env file")
	port := fs.StringP("port", "p", "", "port to listen on")
	env := fs.String("env", "", "deployment environment")
	logLevel := fs.String("log-level", "", "log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if *configFile != "" {
		if err := godotenv.Load(*configFile); err != nil {
			return nil, fmt.Errorf("load config file %q: %w", *configFile, err)
		}
	} else if err := godotenv.Load(); err != nil {
		// In containers there is usually no .env and the process env is authoritative.
		log.Println("No .env file found, relying on system env vars")
	}

	insurance, err := decimal.NewFromString(getEnv("SHIPPING_INSURANCE_VALUE", "100.00"))
	if err != nil {
		return nil, fmt.Errorf("SHIPPING_INSURANCE_VALUE: %w", err)
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DBUrl:         getEnv("DB_DSN", ""),
		JWTSecret:     getEnv("JWT_SECRET", defaultJWTSecret),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),

		DBMaxConns:        getInt32Env("DB_MAX_CONNS", 20),
		DBMinConns:        getInt32Env("DB_MIN_CONNS", 2),
		DBMaxConnIdleTime: getDurationEnv("DB_MAX_CONN_IDLE_TIME", 15*time.Minute),

		R2AccountID:       getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
		R2AccessKeySecret: getEnv("R2_ACCESS_KEY_SECRET", ""),
		R2BucketName:      getEnv("R2_BUCKET_NAME", ""),
		R2PublicURL:       getEnv("R2_PUBLIC_URL", ""),
		R2UploadTimeout:   getDurationEnv("R2_UPLOAD_TIMEOUT", 30*time.Second),

		ShippingOriginPostalCode:    utils.DigitsOnly(getEnv("SHIPPING_ORIGIN_POSTAL_CODE", "")),
		ShippingAggregatorURL:       getEnv("SHIPPING_AGGREGATOR_URL", "https://sandbox.melhorenvio.com.br"),
		ShippingAggregatorToken:     getEnv("SHIPPING_AGGREGATOR_TOKEN", ""),
		ShippingAggregatorUserAgent: getEnv("SHIPPING_AGGREGATOR_USER_AGENT", "motoparts-backend"),
		ShippingAggregatorTimeout:   getDurationEnv("SHIPPING_AGGREGATOR_TIMEOUT", 10*time.Second),
		ShippingAggregatorServices:  utils.SplitCSV(getEnv("SHIPPING_AGGREGATOR_SERVICES", "1,2,3,4,17")),
		ShippingInsuranceValue:      insurance,
		ShippingRuleCacheTTL:        getDurationEnv("SHIPPING_RULE_CACHE_TTL", 5*time.Minute),

		RateLimitRPS:   getFloatEnv("RATE_LIMIT_RPS", 50),
		RateLimitBurst: getIntEnv("RATE_LIMIT_BURST", 100),
	}

	if fs.Changed("port") {
		cfg.Port = *port
	}
	if fs.Changed("env") {
		cfg.Env = *env
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = *logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []error
	if p, err := strconv.Atoi(c.Port); err != nil || p <= 0 || p > 65535 {
		errs = append(errs, fmt.Errorf("invalid port: %q", c.Port))
	}
	if c.DBUrl == "" {
		errs = append(errs, errors.New("DB_DSN is required"))
	}
	if c.DBMinConns > c.DBMaxConns {
		errs = append(errs, fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns))
	}
	if len(c.ShippingOriginPostalCode) != 8 {
		errs = append(errs, errors.New("SHIPPING_ORIGIN_POSTAL_CODE must contain exactly 8 digits"))
	}
	if c.ShippingAggregatorTimeout <= 0 {
		errs = append(errs, errors.New("SHIPPING_AGGREGATOR_TIMEOUT must be positive"))
	}
	if c.ShippingRuleCacheTTL <= 0 {
		errs = append(errs, errors.New("SHIPPING_RULE_CACHE_TTL must be positive"))
	}
	if c.ShippingInsuranceValue.IsNegative() {
		errs = append(errs, errors.New("SHIPPING_INSURANCE_VALUE must not be negative"))
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive"))
	}
	if c.JWTSecret == defaultJWTSecret {
		if c.IsProduction() {
			errs = append(errs, errors.New("JWT_SECRET must be set in production"))
		} else {
			log.Println("WARNING: Using default JWT secret")
		}
	}
	if c.ShippingAggregatorToken == "" {
		log.Println("WARNING: SHIPPING_AGGREGATOR_TOKEN is empty, quotes will always use fallback rules")
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// R2Enabled reports whether rule exports can be published.
func (c *Config) R2Enabled() bool {
	return c.R2AccountID != "" && c.R2BucketName != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid duration for %s, using fallback", key)
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
		log.Printf("Invalid int for %s, using fallback", key)
	}
	return fallback
}
