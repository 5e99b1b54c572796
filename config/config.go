package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Upload backends.
const (
	UploadBackendLocal = "local"
	UploadBackendMinio = "minio"
	UploadBackendGCS   = "gcs"
)

// Message queue backends.
const (
	MQBackendNone     = "none"
	MQBackendRabbitMQ = "rabbitmq"
	MQBackendPubSub   = "pubsub"
)

// Config is built once at process start and handed to every component.
// Nothing in the application reads the environment after LoadConfig returns.
type Config struct {
	ServerPort int    `env:"SERVER_PORT" envDefault:"8080"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	Database DatabaseConfig `envPrefix:"DB_"`
	Session  SessionConfig  `envPrefix:"SESSION_"`
	Upload   UploadConfig   `envPrefix:"UPLOAD_"`
	Minio    MinioConfig    `envPrefix:"MINIO_"`
	GCS      GCSConfig      `envPrefix:"GCS_"`
	MQ       MQConfig       `envPrefix:"MQ_"`
	RabbitMQ RabbitMQConfig `envPrefix:"RABBITMQ_"`
	PubSub   PubSubConfig   `envPrefix:"PUBSUB_"`
}

type DatabaseConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"5432"`
	User     string `env:"USER" envDefault:"staybnb"`
	Password string `env:"PASSWORD" envDefault:"password"`
	DBName   string `env:"NAME" envDefault:"staybnb_db"`
	UseSSL   bool   `env:"USE_SSL" envDefault:"false"`
}

// SessionConfig controls the signed session cookie.
type SessionConfig struct {
	// Secret signs session tokens. Required.
	Secret string `env:"SECRET"`
	// TTL is how long a login stays valid.
	TTL          time.Duration `env:"TTL" envDefault:"24h"`
	CookieName   string        `env:"COOKIE_NAME" envDefault:"session"`
	CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"false"`
}

type UploadConfig struct {
	Backend  string `env:"BACKEND" envDefault:"local"`
	Dir      string `env:"DIR" envDefault:"static/uploads"`
	MaxBytes int64  `env:"MAX_BYTES" envDefault:"10485760"`
}

type MinioConfig struct {
	Endpoint  string `env:"ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	Bucket    string `env:"BUCKET" envDefault:"staybnb"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

type GCSConfig struct {
	Bucket          string `env:"BUCKET"`
	ProjectID       string `env:"PROJECT_ID"`
	CredentialsFile string `env:"CREDENTIALS_FILE"`
}

type MQConfig struct {
	Backend string `env:"BACKEND" envDefault:"none"`
	// Channel is the queue (RabbitMQ) or topic (Pub/Sub) listing events go to.
	Channel string `env:"CHANNEL" envDefault:"property.created"`
}

type RabbitMQConfig struct {
	URL             string `env:"URL"`
	QueueDurable    bool   `env:"QUEUE_DURABLE" envDefault:"true"`
	QueueAutoDelete bool   `env:"QUEUE_AUTO_DELETE" envDefault:"false"`
}

type PubSubConfig struct {
	ProjectID       string `env:"PROJECT_ID"`
	CredentialsFile string `env:"CREDENTIALS_FILE"`
}

// LoadConfig reads configuration from the environment. In development
// (ENV=dev) a .env file in the working directory is loaded first.
func LoadConfig() (Config, error) {
	if os.Getenv("ENV") == "dev" {
		_ = godotenv.Load()
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDatabaseConfig reads only the DB_ settings. The migrate command uses
// it so schema changes do not need the web server's secrets.
func LoadDatabaseConfig() (DatabaseConfig, error) {
	if os.Getenv("ENV") == "dev" {
		_ = godotenv.Load()
	}

	var cfg DatabaseConfig
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "DB_"}); err != nil {
		return DatabaseConfig{}, fmt.Errorf("parse database config: %w", err)
	}
	return cfg, nil
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Session.Secret) == "" {
		return errors.New("SESSION_SECRET is required")
	}
	if c.Session.TTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.Upload.MaxBytes <= 0 {
		return errors.New("UPLOAD_MAX_BYTES must be positive")
	}

	switch c.Upload.Backend {
	case UploadBackendLocal:
		if strings.TrimSpace(c.Upload.Dir) == "" {
			return errors.New("UPLOAD_DIR is required for the local upload backend")
		}
	case UploadBackendMinio, UploadBackendGCS:
	default:
		return fmt.Errorf("unknown upload backend %q", c.Upload.Backend)
	}

	switch c.MQ.Backend {
	case MQBackendNone, MQBackendRabbitMQ, MQBackendPubSub:
	default:
		return fmt.Errorf("unknown mq backend %q", c.MQ.Backend)
	}
	return nil
}
