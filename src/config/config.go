package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoDBConnectionString string
	MongoDBDatabaseName     string
	RabbitMQHostName        string
	RabbitMQExchange        string
	RabbitMQQueueName       string

	RazorpayKeyID     string
	RazorpayKeySecret string
	Currency          string

	JWTSecret string
	OpsRole   string
	HTTPPort  string

	VerifyRateRPS   float64
	VerifyRateBurst int
}

func LoadConfig() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found, using environment variables only")
	}

	config := &Config{
		MongoDBConnectionString: os.Getenv("MONGODB_CONNECTION_STRING"),
		MongoDBDatabaseName:     os.Getenv("MONGODB_DATABASE_NAME"),
		RabbitMQHostName:        os.Getenv("RABBITMQ_HOSTNAME"),
		RabbitMQExchange:        os.Getenv("RABBITMQ_EXCHANGE"),
		RabbitMQQueueName:       os.Getenv("RABBITMQ_QUEUENAME"),
		RazorpayKeyID:           os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret:       os.Getenv("RAZORPAY_KEY_SECRET"),
		Currency:                os.Getenv("PAYMENT_CURRENCY"),
		JWTSecret:               os.Getenv("JWT_SECRET"),
		OpsRole:                 os.Getenv("OPS_ROLE"),
		HTTPPort:                os.Getenv("HTTP_PORT"),
	}

	// Set default values if environment variables are not set
	if config.MongoDBDatabaseName == "" {
		config.MongoDBDatabaseName = "storefront"
	}
	if config.RabbitMQExchange == "" {
		config.RabbitMQExchange = "payment_events"
	}
	if config.RabbitMQQueueName == "" {
		config.RabbitMQQueueName = "payment_events_queue"
	}
	if config.Currency == "" {
		config.Currency = "INR"
	}
	if config.OpsRole == "" {
		config.OpsRole = "admin"
	}
	if config.HTTPPort == "" {
		config.HTTPPort = "8080"
	}

	config.VerifyRateRPS, err = floatEnv("VERIFY_RATE_RPS", 5)
	if err != nil {
		return nil, err
	}
	config.VerifyRateBurst, err = intEnv("VERIFY_RATE_BURST", 10)
	if err != nil {
		return nil, err
	}

	var missing []string
	if config.RazorpayKeyID == "" {
		missing = append(missing, "RAZORPAY_KEY_ID")
	}
	if config.RazorpayKeySecret == "" {
		missing = append(missing, "RAZORPAY_KEY_SECRET")
	}
	if config.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return config, nil
}

func floatEnv(key string, def float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return v, nil
}

func intEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return v, nil
}
