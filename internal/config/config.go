package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Event backends
const (
	EventsNone  = "none"
	EventsRedis = "redis"
	EventsMQTT  = "mqtt"
)

// DatabaseConfig Postgres connection settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// GetDSN lib/pq key=value connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// RedisConfig Redis connection settings
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MQTTConfig broker settings for the MQTT event publisher
type MQTTConfig struct {
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
	QoS         int // 0, 1 or 2
}

// Config clinic-register configuration, read from the environment
type Config struct {
	HTTP struct {
		Addr string
	}
	Store struct {
		Backend   string // memory | redis | postgres
		Namespace string // key prefix for both record sets
	}
	Database DatabaseConfig
	Redis    RedisConfig
	Log      struct {
		Level  string
		Format string
	}
	Clinic struct {
		Timezone             string // IANA name; defines "today"
		Transitions          string // strict | permissive
		RejectUnknownPatient bool
		SeedDefaults         bool // load the demo records when the store is empty
	}
	Events struct {
		Backend      string // none | redis | mqtt
		Stream       string
		StreamMaxLen int64
	}
	MQTT MQTTConfig
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	cfg.Store.Backend = strings.ToLower(getEnv("STORE_BACKEND", BackendMemory))
	cfg.Store.Namespace = getEnv("STORE_NAMESPACE", "clinic")

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "clinic")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "10"), 10)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "2"), 2)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.Clinic.Timezone = getEnv("CLINIC_TIMEZONE", "UTC")
	cfg.Clinic.Transitions = strings.ToLower(getEnv("APPOINTMENT_TRANSITIONS", "strict"))
	cfg.Clinic.RejectUnknownPatient = parseBool(getEnv("REJECT_UNKNOWN_PATIENT", "false"), false)
	cfg.Clinic.SeedDefaults = parseBool(getEnv("SEED_DEFAULTS", "true"), true)

	cfg.Events.Backend = strings.ToLower(getEnv("EVENTS_BACKEND", EventsNone))
	cfg.Events.Stream = getEnv("EVENTS_STREAM", "clinic:events")
	cfg.Events.StreamMaxLen = int64(parseInt(getEnv("EVENTS_STREAM_MAXLEN", "10000"), 10000))

	cfg.MQTT.Broker = getEnv("MQTT_BROKER", "tcp://localhost:1883")
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", "clinic-register")
	cfg.MQTT.Username = getEnv("MQTT_USERNAME", "")
	cfg.MQTT.Password = getEnv("MQTT_PASSWORD", "")
	cfg.MQTT.TopicPrefix = getEnv("MQTT_TOPIC_PREFIX", "clinic/events")
	cfg.MQTT.QoS = parseInt(getEnv("MQTT_QOS", "1"), 1)

	return cfg
}

// Validate rejects unknown enum values and an unloadable timezone
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendRedis, BackendPostgres:
	default:
		return fmt.Errorf("invalid STORE_BACKEND %q", c.Store.Backend)
	}
	switch c.Events.Backend {
	case EventsNone, EventsRedis, EventsMQTT:
	default:
		return fmt.Errorf("invalid EVENTS_BACKEND %q", c.Events.Backend)
	}
	switch c.Clinic.Transitions {
	case "strict", "permissive":
	default:
		return fmt.Errorf("invalid APPOINTMENT_TRANSITIONS %q", c.Clinic.Transitions)
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		return fmt.Errorf("invalid MQTT_QOS %d", c.MQTT.QoS)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location the clinic's timezone
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Clinic.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid CLINIC_TIMEZONE %q: %w", c.Clinic.Timezone, err)
	}
	return loc, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseBool(s string, def bool) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return b
}
