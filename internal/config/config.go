package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

type Config struct {
	Port         string
	StoreDriver  string // sqlite | mongo
	DBDSN        string
	MongoURI     string
	MongoDB      string
	RateLimiter  string // memory | redis
	RedisAddr    string
	JWTSecret    string
	AdminUser    string
	AdminPass    string
	CookieSecure bool
	LogFile      string
	LogMode      string
	ChatAPIKey   string
	ChatBaseURL  string
	ChatModel    string
	TemplatesDir string
}

// Load reads the environment, after merging a .env file when one exists.
// Variables already set in the environment win over .env.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] could not read .env: %v", err)
	}

	cfg := Config{
		Port:         env("PORT", "8080"),
		StoreDriver:  strings.ToLower(env("STORE_DRIVER", "sqlite")),
		DBDSN:        env("DB_DSN", "frieren.db"),
		MongoURI:     env("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:      env("MONGO_DB", "frieren"),
		RateLimiter:  strings.ToLower(env("RATE_LIMIT_DRIVER", "memory")),
		RedisAddr:    env("REDIS_ADDR", "localhost:6379"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		AdminUser:    os.Getenv("ADMIN_USERNAME"),
		AdminPass:    os.Getenv("ADMIN_PASSWORD"),
		CookieSecure: cast.ToBool(env("COOKIE_SECURE", "false")),
		LogFile:      env("LOG_FILE", "./frieren.log"),
		LogMode:      env("LOG_MODE", "development"),
		ChatAPIKey:   os.Getenv("OPENROUTER_API_KEY"),
		ChatBaseURL:  env("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		ChatModel:    env("OPENROUTER_MODEL", "amazon/nova-2-lite-v1:free"),
		TemplatesDir: env("TEMPLATES_DIR", "./web/templates"),
	}
	if cfg.JWTSecret == "" {
		log.Printf("[config] JWT_SECRET not set; using an insecure development secret")
		cfg.JWTSecret = "frieren-dev-secret-change-me"
	}
	log.Printf("[config] PORT=%s STORE_DRIVER=%s DB_DSN=%s MONGO_DB=%s RATE_LIMIT_DRIVER=%s LOG_FILE=%s LOG_MODE=%s CHAT=%t",
		cfg.Port, cfg.StoreDriver, cfg.DBDSN, cfg.MongoDB, cfg.RateLimiter, cfg.LogFile, cfg.LogMode, cfg.ChatAPIKey != "")
	return cfg
}

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
