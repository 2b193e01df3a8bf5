package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	Port       string
	Env        string

	PayPalClientID     string
	PayPalClientSecret string
	PayPalMode         string // sandbox or live
	PayPalWebhookID    string

	AppURL       string
	ContactEmail string
}

// LoadConfig loads configuration from environment variables. A missing .env
// file is not an error so the service can run on injected environment alone.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		DBHost:             os.Getenv("DB_HOST"),
		DBPort:             os.Getenv("DB_PORT"),
		DBUser:             os.Getenv("DB_USER"),
		DBPassword:         os.Getenv("DB_PASSWORD"),
		DBName:             os.Getenv("DB_NAME"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		Port:               os.Getenv("PORT"),
		Env:                os.Getenv("ENV"),
		PayPalClientID:     os.Getenv("PAYPAL_CLIENT_ID"),
		PayPalClientSecret: os.Getenv("PAYPAL_CLIENT_SECRET"),
		PayPalMode:         os.Getenv("PAYPAL_MODE"),
		PayPalWebhookID:    os.Getenv("PAYPAL_WEBHOOK_ID"),
		AppURL:             os.Getenv("APP_URL"),
		ContactEmail:       os.Getenv("CONTACT_EMAIL"),
	}

	if config.Port == "" {
		config.Port = "8080"
	}
	if config.PayPalMode == "" {
		config.PayPalMode = "sandbox"
	}

	return config, nil
}
