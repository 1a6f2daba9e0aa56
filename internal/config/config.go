package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Locking backends
const (
	LockBackendLocal = "local"
	LockBackendRedis = "redis"
)

// ErrInvalidConfig возвращается, если значения конфигурации невозможны
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Locking  LockingConfig  `toml:"locking"`
	Redis    RedisConfig    `toml:"redis"`
	Booking  BookingConfig  `toml:"booking"`
}

// ServerConfig параметры HTTP сервера, таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig параметры PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// LogsConfig параметры логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"` // пусто: только stdout
}

// MetricsConfig параметры Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// LockingConfig блокировка слота при бронировании
type LockingConfig struct {
	Backend       string `toml:"backend"`         // local | redis
	WaitTimeoutMs int    `toml:"wait_timeout_ms"` // сколько ждать занятый слот
	TTLMs         int    `toml:"ttl_ms"`          // время жизни ключа в Redis
}

// RedisConfig подключение к Redis, нужно при locking.backend = "redis"
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	PoolSize int    `toml:"pool_size"`
}

// BookingConfig правила бронирования
type BookingConfig struct {
	MaxAdvanceDays int    `toml:"max_advance_days"` // 0 без ограничений
	Timezone       string `toml:"timezone"`         // часовой пояс клиники
}

// Load читает TOML файл, затем .env и переменные окружения поверх него
func Load(path string) (*Config, error) {
	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	// .env необязателен
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "appointment_service",
		},
		Locking: LockingConfig{
			Backend:       LockBackendLocal,
			WaitTimeoutMs: 2000,
			TTLMs:         5000,
		},
		Redis:   RedisConfig{Addr: "localhost:6379"},
		Booking: BookingConfig{Timezone: "UTC"},
	}
}

// applyEnv переопределяет значения из окружения
func (c *Config) applyEnv() error {
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.DBName, "DB_NAME")
	setString(&c.Database.SSLMode, "DB_SSLMODE")
	setString(&c.Logs.Level, "LOG_LEVEL")
	setString(&c.Locking.Backend, "LOCK_BACKEND")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Username, "REDIS_USERNAME")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.Booking.Timezone, "BOOKING_TIMEZONE")

	for env, dst := range map[string]*int{
		"HTTP_PORT":                &c.Server.HTTPPort,
		"DB_PORT":                  &c.Database.Port,
		"BOOKING_MAX_ADVANCE_DAYS": &c.Booking.MaxAdvanceDays,
	} {
		if err := setInt(dst, env); err != nil {
			return err
		}
	}

	if v, ok := os.LookupEnv("METRICS_ENABLED"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: METRICS_ENABLED=%q", ErrInvalidConfig, v)
		}
		c.Metrics.Enabled = enabled
	}

	return nil
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	var problems []string

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		problems = append(problems, fmt.Sprintf("server.http_port %d out of range", c.Server.HTTPPort))
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		problems = append(problems, "database.host and database.dbname are required")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns && c.Database.MaxOpenConns > 0 {
		problems = append(problems, "database.max_idle_conns exceeds max_open_conns")
	}
	switch c.Locking.Backend {
	case LockBackendLocal:
	case LockBackendRedis:
		if c.Redis.Addr == "" {
			problems = append(problems, "redis.addr is required for locking.backend = redis")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown locking.backend %q", c.Locking.Backend))
	}
	if c.Locking.WaitTimeoutMs < 0 || c.Locking.TTLMs < 0 {
		problems = append(problems, "locking timeouts must not be negative")
	}
	if c.Booking.MaxAdvanceDays < 0 {
		problems = append(problems, "booking.max_advance_days must not be negative")
	}
	if _, err := time.LoadLocation(c.Booking.Timezone); err != nil {
		problems = append(problems, fmt.Sprintf("booking.timezone %q: %v", c.Booking.Timezone, err))
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		problems = append(problems, "metrics.path must start with /")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// Location часовой пояс клиники, Validate гарантирует корректность
func (b BookingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// WaitTimeout время ожидания занятого слота
func (l LockingConfig) WaitTimeout() time.Duration {
	return time.Duration(l.WaitTimeoutMs) * time.Millisecond
}

// TTL время жизни распределённой блокировки
func (l LockingConfig) TTL() time.Duration {
	return time.Duration(l.TTLMs) * time.Millisecond
}

func setString(dst *string, env string) {
	if v, ok := os.LookupEnv(env); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, env string) error {
	v, ok := os.LookupEnv(env)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, env, v)
	}
	*dst = n
	return nil
}
