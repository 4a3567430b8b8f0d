package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/eventsystem/service-booking/internal/platform/cache"
	"github.com/eventsystem/service-booking/internal/platform/database"
)

const envPrefix = "EVENTSYSTEM"

// KafkaConfig holds broker settings for change events.
type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// StorageConfig holds settings for the S3-compatible media store.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// ServiceConfig holds all configuration for the booking service.
type ServiceConfig struct {
	Port          string
	AppEnv        string
	ServiceName   string
	AutoMigrate   bool
	CacheTTL      time.Duration
	DBConfig      database.PostgresConfig
	RedisConfig   cache.Config
	KafkaConfig   KafkaConfig
	StorageConfig StorageConfig
}

// Load reads configuration from EVENTSYSTEM_* environment variables. A .env
// file in the working directory is loaded first when present; variables
// already set in the environment win.
func Load() (*ServiceConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return fromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service.port", "8080")
	v.SetDefault("service.name", "service-booking")
	v.SetDefault("app.env", "development")
	v.SetDefault("db.auto_migrate", false)

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "postgres")
	v.SetDefault("db.name", "eventsystem")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "5m")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("cache.ttl", "60s")

	v.SetDefault("kafka.brokers", "localhost:9092")
	v.SetDefault("kafka.topic", "eventsystem.changes")
	v.SetDefault("kafka.group_id", "service-booking")

	v.SetDefault("storage.endpoint", "localhost:9000")
	v.SetDefault("storage.access_key", "minioadmin")
	v.SetDefault("storage.secret_key", "minioadmin")
	v.SetDefault("storage.bucket", "venuepic")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.use_ssl", false)
}

func fromViper(v *viper.Viper) (*ServiceConfig, error) {
	cfg := &ServiceConfig{
		Port:        v.GetString("service.port"),
		AppEnv:      v.GetString("app.env"),
		ServiceName: v.GetString("service.name"),
		AutoMigrate: v.GetBool("db.auto_migrate"),
		CacheTTL:    v.GetDuration("cache.ttl"),
		DBConfig: database.PostgresConfig{
			Host:            v.GetString("db.host"),
			Port:            v.GetInt("db.port"),
			User:            v.GetString("db.user"),
			Password:        v.GetString("db.password"),
			DBName:          v.GetString("db.name"),
			SSLMode:         v.GetString("db.sslmode"),
			MaxOpenConns:    v.GetInt("db.max_open_conns"),
			MaxIdleConns:    v.GetInt("db.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("db.conn_max_lifetime"),
		},
		RedisConfig: cache.Config{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			PoolSize: v.GetInt("redis.pool_size"),
		},
		KafkaConfig: KafkaConfig{
			Brokers: splitList(v.GetString("kafka.brokers")),
			Topic:   v.GetString("kafka.topic"),
			GroupID: v.GetString("kafka.group_id"),
		},
		StorageConfig: StorageConfig{
			Endpoint:  v.GetString("storage.endpoint"),
			AccessKey: v.GetString("storage.access_key"),
			SecretKey: v.GetString("storage.secret_key"),
			Bucket:    v.GetString("storage.bucket"),
			Region:    v.GetString("storage.region"),
			UseSSL:    v.GetBool("storage.use_ssl"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *ServiceConfig) validate() error {
	if c.Port == "" {
		return errors.New("config: service port is required")
	}
	if c.DBConfig.Port <= 0 {
		return fmt.Errorf("config: invalid database port %d", c.DBConfig.Port)
	}
	if len(c.KafkaConfig.Brokers) == 0 {
		return errors.New("config: at least one kafka broker is required")
	}
	if c.StorageConfig.Bucket == "" {
		return errors.New("config: storage bucket is required")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("config: cache ttl must be positive, got %s", c.CacheTTL)
	}
	return nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *ServiceConfig) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
