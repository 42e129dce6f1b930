package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds environment-based settings
type Config struct {
	Environment   string `envconfig:"APP_ENV" default:"development"`
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
	ServerAddress string `envconfig:"SERVER_ADDRESS" default:":8080"`
	JWTSecret     string `envconfig:"JWT_SECRET" required:"true"`

	// StoreDriver is postgres or memory.
	StoreDriver    string `envconfig:"STORE_DRIVER" default:"postgres"`
	DatabaseURL    string `envconfig:"DATABASE_URL"`
	MigrationsPath string `envconfig:"MIGRATIONS_PATH" default:"./migrations"`

	RedisAddress  string `envconfig:"REDIS_ADDRESS"`
	RedisUsername string `envconfig:"REDIS_USERNAME"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`

	MQTTBrokerURL string `envconfig:"MQTT_BROKER_URL"`
	MQTTClientID  string `envconfig:"MQTT_CLIENT_ID" default:"fieldbook-server"`

	// NotifyTransport is log or mqtt. With NotifyStream set, notifications are
	// queued on a redis stream and delivered through that transport by the
	// stream consumer.
	NotifyTransport string `envconfig:"NOTIFY_TRANSPORT" default:"log"`
	NotifyStream    bool   `envconfig:"NOTIFY_STREAM" default:"false"`

	// ReminderMode is redis (durable) or timer (in-process).
	ReminderMode         string        `envconfig:"REMINDER_MODE" default:"timer"`
	ReminderLead         time.Duration `envconfig:"REMINDER_LEAD" default:"24h"`
	ReminderPollInterval time.Duration `envconfig:"REMINDER_POLL_INTERVAL" default:"5s"`

	FacilityTimezone string        `envconfig:"FACILITY_TIMEZONE" default:"UTC"`
	SlotIncrement    time.Duration `envconfig:"SLOT_INCREMENT" default:"30m"`

	Location *time.Location `ignored:"true"`
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	// a missing .env is fine; real deployments set the environment directly
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints and resolves Location.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	switch c.StoreDriver {
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.NotifyTransport {
	case "log":
	case "mqtt":
		if c.MQTTBrokerURL == "" {
			return fmt.Errorf("MQTT_BROKER_URL is required for the mqtt transport")
		}
	default:
		return fmt.Errorf("unknown NOTIFY_TRANSPORT %q", c.NotifyTransport)
	}

	switch c.ReminderMode {
	case "timer":
	case "redis":
		if c.RedisAddress == "" {
			return fmt.Errorf("REDIS_ADDRESS is required for redis reminders")
		}
	default:
		return fmt.Errorf("unknown REMINDER_MODE %q", c.ReminderMode)
	}
	if c.NotifyStream && c.RedisAddress == "" {
		return fmt.Errorf("REDIS_ADDRESS is required when NOTIFY_STREAM is set")
	}

	if c.ReminderLead <= 0 || c.ReminderPollInterval <= 0 || c.SlotIncrement <= 0 {
		return fmt.Errorf("REMINDER_LEAD, REMINDER_POLL_INTERVAL and SLOT_INCREMENT must be positive")
	}

	loc, err := time.LoadLocation(c.FacilityTimezone)
	if err != nil {
		return fmt.Errorf("invalid FACILITY_TIMEZONE %q: %w", c.FacilityTimezone, err)
	}
	c.Location = loc
	return nil
}
