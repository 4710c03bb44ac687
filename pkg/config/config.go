package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Where the post directory is loaded from
const (
	PostsSourceEmbedded = "embedded"
	PostsSourceFile     = "file"
	PostsSourceMongo    = "mongo"
)

// Which boundary creates accounts on sign-up
const (
	SignUpBackendMemory   = "memory"
	SignUpBackendPostgres = "postgres"
	SignUpBackendFirebase = "firebase"
)

type Config struct {
	Port                    string
	Env                     string
	MetricsPort             string
	LogLevel                string
	LogPath                 string
	PostsSource             string
	PostsFile               string
	MongoURI                string
	MongoDatabase           string
	SignUpBackend           string
	PostgresConnStr         string
	FirebaseCredentialsPath string
	SignUpTimeout           time.Duration
	SignUpRatePerMinute     int
	MediaDir                string
}

// Load reads the configuration from the environment, after loading a .env
// file when one exists.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		MetricsPort:             getEnv("METRICS_PORT", "9090"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		LogPath:                 getEnv("LOG_PATH", ""),
		PostsSource:             getEnv("POSTS_SOURCE", PostsSourceEmbedded),
		PostsFile:               getEnv("POSTS_FILE", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "socialmedia"),
		SignUpBackend:           getEnv("SIGNUP_BACKEND", SignUpBackendMemory),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		SignUpTimeout:           getDuration("SIGNUP_TIMEOUT", 0),
		SignUpRatePerMinute:     getInt("SIGNUP_RATE_PER_MINUTE", 30),
		MediaDir:                getEnv("MEDIA_DIR", ""),
	}
}

// Validate checks that the selected sources and backends have what they need
func (c *Config) Validate() error {
	switch c.PostsSource {
	case PostsSourceEmbedded:
	case PostsSourceFile:
		if c.PostsFile == "" {
			return fmt.Errorf("POSTS_FILE must be set when POSTS_SOURCE=%s", PostsSourceFile)
		}
	case PostsSourceMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI must be set when POSTS_SOURCE=%s", PostsSourceMongo)
		}
	default:
		return fmt.Errorf("unknown POSTS_SOURCE %q", c.PostsSource)
	}

	switch c.SignUpBackend {
	case SignUpBackendMemory:
	case SignUpBackendPostgres:
		if c.PostgresConnStr == "" {
			return fmt.Errorf("POSTGRES_CONN_STR must be set when SIGNUP_BACKEND=%s", SignUpBackendPostgres)
		}
	case SignUpBackendFirebase:
		if c.FirebaseCredentialsPath == "" {
			return fmt.Errorf("FIREBASE_CREDENTIALS_PATH must be set when SIGNUP_BACKEND=%s", SignUpBackendFirebase)
		}
	default:
		return fmt.Errorf("unknown SIGNUP_BACKEND %q", c.SignUpBackend)
	}

	if c.SignUpRatePerMinute < 0 {
		return fmt.Errorf("SIGNUP_RATE_PER_MINUTE must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
