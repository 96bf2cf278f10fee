package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	MongoURI        string
	DBName          string
	JWTSecret       string
	AppEnvName      string
	AllowedOrigins  []string
	TokenTTL        time.Duration
	VPNAPIKey       string
	StripeSecretKey string
	SMTPHost        string
	SMTPPort        string
	SMTPUser        string
	SMTPPassword    string
	MailFrom        string
	ResetURLBase    string
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = Config{
		MongoURI:        getEnvOrDefault("MONGO_URI", ""),
		DBName:          getEnvOrDefault("DB_NAME", "cafefresco"),
		JWTSecret:       getEnvOrDefault("SECRET_KEY", ""),
		AppEnvName:      getEnvOrDefault("APP_ENV", "development"),
		AllowedOrigins:  getListEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3001"),
		TokenTTL:        getDurationEnv("TOKEN_TTL_DAYS", 15, 24*time.Hour),
		VPNAPIKey:       getEnvOrDefault("VPNAPI_KEY", ""),
		StripeSecretKey: getEnvOrDefault("STRIPE_SECRET_KEY", ""),
		SMTPHost:        getEnvOrDefault("SMTP_HOST", ""),
		SMTPPort:        getEnvOrDefault("SMTP_PORT", "587"),
		SMTPUser:        getEnvOrDefault("SMTP_USER", ""),
		SMTPPassword:    getEnvOrDefault("SMTP_PASSWORD", ""),
		MailFrom:        getEnvOrDefault("MAIL_FROM", "no-reply@cafefresco.app"),
		ResetURLBase:    getEnvOrDefault("RESET_URL_BASE", "http://localhost:5173"),
	}
}

// IsProduction reports whether the server runs with production settings.
// The VPN guard and cookie flags key off this.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnvName, "production")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}

func getListEnv(key, defaultValue string) []string {
	raw := getEnvOrDefault(key, defaultValue)
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
