package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	RabbitMQ RabbitMQConfig
	Gateway  GatewayConfig
	Env      string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// RabbitMQConfig holds RabbitMQ configuration
type RabbitMQConfig struct {
	Host     string
	Port     string
	User     string
	Password string
}

// GatewayConfig holds outbound SMS gateway configuration.
// When APIKey is empty the mock gateway is used instead of the live one.
type GatewayConfig struct {
	BaseURL         string
	APIKey          string
	Username        string
	SenderID        string
	SendTimeout     time.Duration
	Concurrency     int
	MockSuccessRate float64
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     getEnv("POSTGRES_USER", "propertypulse"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			DBName:   getEnv("POSTGRES_DB", "propertypulse_db"),
		},
		RabbitMQ: RabbitMQConfig{
			Host:     getEnv("RABBITMQ_HOST", "localhost"),
			Port:     getEnv("RABBITMQ_PORT", "5672"),
			User:     getEnv("RABBITMQ_DEFAULT_USER", "guest"),
			Password: getEnv("RABBITMQ_DEFAULT_PASS", "guest"),
		},
		Gateway: GatewayConfig{
			BaseURL:         getEnv("SMS_GATEWAY_URL", "https://api.africastalking.com/version1/messaging"),
			APIKey:          getEnv("SMS_GATEWAY_API_KEY", ""),
			Username:        getEnv("SMS_GATEWAY_USERNAME", "sandbox"),
			SenderID:        getEnv("SMS_GATEWAY_SENDER_ID", ""),
			SendTimeout:     time.Duration(getEnvAsInt("SMS_SEND_TIMEOUT_SECONDS", 5)) * time.Second,
			Concurrency:     getEnvAsInt("DISPATCH_CONCURRENCY", 10),
			MockSuccessRate: getEnvAsFloat("MOCK_GATEWAY_SUCCESS_RATE", 0.95),
		},
		Env: getEnv("ENV", "development"),
	}

	// Validate required fields
	if config.Database.Password == "" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD is required")
	}
	if config.Gateway.Concurrency <= 0 {
		return nil, fmt.Errorf("DISPATCH_CONCURRENCY must be positive")
	}

	return config, nil
}

// GetDatabaseDSN returns PostgreSQL connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

// GetRabbitMQURL returns RabbitMQ connection URL
func (c *Config) GetRabbitMQURL() string {
	return fmt.Sprintf(
		"amqp://%s:%s@%s:%s/",
		c.RabbitMQ.User,
		c.RabbitMQ.Password,
		c.RabbitMQ.Host,
		c.RabbitMQ.Port,
	)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// getEnv gets environment variable or returns default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets environment variable as integer or returns default
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloat gets environment variable as float or returns default
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
