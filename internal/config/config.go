package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	App    AppConfig
	DB     DBConfig
	Redis  RedisConfig
	FCM    FCMConfig
	CORS   CORSConfig
	Notify NotifyConfig
}

type AppConfig struct {
	Env  string
	Port string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN returns the PostgreSQL connection string
func (d DBConfig) DSN() string {
	return "host=" + d.Host +
		" user=" + d.User +
		" password=" + d.Password +
		" dbname=" + d.Name +
		" port=" + d.Port +
		" sslmode=" + d.SSLMode +
		" TimeZone=America/Santiago"
}

// URL returns the PostgreSQL connection URL (for golang-migrate)
func (d DBConfig) URL() string {
	return "postgres://" + d.User + ":" + d.Password +
		"@" + d.Host + ":" + d.Port +
		"/" + d.Name + "?sslmode=" + d.SSLMode
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

// Addr returns the Redis address
func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

// FCMConfig carries the Firebase messaging credentials. ServiceAccountJSON
// is the raw service-account key; when empty, ServiceAccountFile is read
// instead. LegacyServerKey feeds the deprecated fcm/send transport.
type FCMConfig struct {
	ServiceAccountJSON string
	ServiceAccountFile string
	LegacyServerKey    string
	Timeout            time.Duration
}

type CORSConfig struct {
	Origins []string
}

// NotifyConfig tunes the fan-out. When OnlyNew is set, pushes go only to
// users who did not already hold an alert row for the activity.
type NotifyConfig struct {
	OnlyNew bool
}

// Load reads configuration from .env file and environment variables
func Load() *Config {
	// Load .env file (ignore error if not exists - e.g. in Docker)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading from environment variables")
	}

	fcmTimeout, err := time.ParseDuration(getEnv("FCM_TIMEOUT", "10s"))
	if err != nil {
		fcmTimeout = 10 * time.Second
	}

	return &Config{
		App: AppConfig{
			Env:  getEnv("APP_ENV", "development"),
			Port: getEnv("APP_PORT", "8080"),
		},
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "teamup"),
			Password: getEnv("DB_PASSWORD", "teamup"),
			Name:     getEnv("DB_NAME", "teamup"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		FCM: FCMConfig{
			ServiceAccountJSON: getEnv("FIREBASE_SERVICE_ACCOUNT_JSON", ""),
			ServiceAccountFile: getEnv("FIREBASE_SERVICE_ACCOUNT_FILE", ""),
			LegacyServerKey:    getEnv("FCM_SERVER_KEY", ""),
			Timeout:            fcmTimeout,
		},
		CORS: CORSConfig{
			Origins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
		},
		Notify: NotifyConfig{
			OnlyNew: getEnv("NOTIFY_ONLY_NEW", "false") == "true",
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
