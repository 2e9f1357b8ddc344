package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string // "development" or "production"
	MongoURI    string
	MongoDB     string
	RedisAddr   string
	JwtSecret   []byte
	JwtExpiry   time.Duration
	CookieName  string
	FrontendURL string

	SMTP SMTPConfig

	// Default avatar asset used when registration carries no image.
	DefaultAvatarID  string
	DefaultAvatarURL string

	// Directory the local asset host writes to.
	AssetDir string
}

type SMTPConfig struct {
	Host      string
	Port      string
	User      string
	Pass      string
	FromName  string
	FromEmail string
}

// Load reads configuration from the environment, loading .env first if present.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	port := getEnv("PORT", ":8080")
	if port[0] != ':' {
		port = ":" + port
	}

	secret := getEnv("JWT_SECRET", "")
	if secret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	return Config{
		Port:        port,
		Env:         getEnv("APP_ENV", "production"),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:     getEnv("MONGO_DB", "smartkop"),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		JwtSecret:   []byte(secret),
		JwtExpiry:   getEnvDuration("JWT_EXPIRES", 7*24*time.Hour),
		CookieName:  getEnv("COOKIE_NAME", "token"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		SMTP: SMTPConfig{
			Host:      getEnv("SMTP_HOST", "localhost"),
			Port:      getEnv("SMTP_PORT", "587"),
			User:      getEnv("SMTP_USER", ""),
			Pass:      getEnv("SMTP_PASS", ""),
			FromName:  getEnv("SMTP_FROM_NAME", "SmartKop"),
			FromEmail: getEnv("SMTP_FROM_EMAIL", "noreply@smartkop.local"),
		},
		DefaultAvatarID:  getEnv("DEFAULT_AVATAR_ID", "avatars/default"),
		DefaultAvatarURL: getEnv("DEFAULT_AVATAR_URL", "/static/avatars/default.webp"),
		AssetDir:         getEnv("ASSET_DIR", "./static"),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valueStr, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(valueStr); err == nil {
			return d
		}
		log.Printf("invalid duration for %s: %q", key, valueStr)
	}
	return defaultValue
}

// IsDev reports whether verbose error responses are enabled.
func (c Config) IsDev() bool {
	return c.Env == "development"
}

func (c SMTPConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}
