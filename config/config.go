package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application. It is loaded once at
// startup and treated as immutable afterwards.
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	Port       string
	Env        string

	RazorpayKey    string
	RazorpaySecret string

	ShippingAPIURL string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	// WebhookKeys maps a key version ("v1", "v2", ...) to its signing secret.
	// The webhook caller names the version in a header so keys can rotate
	// without a deploy.
	WebhookKeys map[string]string
}

// AppConfig is the process-wide configuration, set by LoadConfig.
var AppConfig *Config

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// .env is optional outside local development
	_ = godotenv.Load()

	config := &Config{
		DBHost:         os.Getenv("DB_HOST"),
		DBPort:         os.Getenv("DB_PORT"),
		DBUser:         os.Getenv("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         os.Getenv("DB_NAME"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		Port:           os.Getenv("PORT"),
		Env:            os.Getenv("ENV"),
		RazorpayKey:    os.Getenv("RAZORPAY_KEY"),
		RazorpaySecret: os.Getenv("RAZORPAY_SECRET"),
		ShippingAPIURL: os.Getenv("SHIPPING_API_URL"),
		SMTPHost:       os.Getenv("SMTP_HOST"),
		SMTPPort:       os.Getenv("SMTP_PORT"),
		SMTPUsername:   os.Getenv("SMTP_USERNAME"),
		SMTPPassword:   os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:       os.Getenv("SMTP_FROM"),
		WebhookKeys:    loadWebhookKeys(),
	}

	if config.Port == "" {
		config.Port = "8080"
	}

	AppConfig = config
	return config, nil
}

// loadWebhookKeys builds the version -> secret table from WEBHOOK_SECRET_V*
// variables. A bare WEBHOOK_SECRET is registered as v1 for compatibility.
func loadWebhookKeys() map[string]string {
	keys := make(map[string]string)
	if secret := os.Getenv("WEBHOOK_SECRET"); secret != "" {
		keys["v1"] = secret
	}
	for _, entry := range os.Environ() {
		if !strings.HasPrefix(entry, "WEBHOOK_SECRET_V") {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 || parts[1] == "" {
			continue
		}
		version := strings.ToLower(strings.TrimPrefix(parts[0], "WEBHOOK_SECRET_"))
		keys[version] = parts[1]
	}
	return keys
}

// WebhookKey returns the signing secret for the given key version.
func (c *Config) WebhookKey(version string) (string, error) {
	if version == "" {
		version = "v1"
	}
	secret, ok := c.WebhookKeys[strings.ToLower(version)]
	if !ok {
		return "", fmt.Errorf("unknown webhook key version: %s", version)
	}
	return secret, nil
}
