package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
)

// Config конфигурация сервиса, загружается из config.toml
// Чувствительные значения БД могут быть переопределены переменными окружения
// (PARKING_DB_HOST, PARKING_DB_PORT, PARKING_DB_USER, PARKING_DB_PASSWORD,
// PARKING_DB_NAME, PARKING_JWT_SECRET)
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Auth      AuthConfig      `toml:"auth"`
	Parking   ParkingConfig   `toml:"parking"`
	RateLimit RateLimitConfig `toml:"ratelimit"`
	CORS      CORSConfig      `toml:"cors"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
	MigrationsPath  string `toml:"migrations_path"`
}

// DSN собирает строку подключения к PostgreSQL
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
}

// ParkingConfig доменная политика парковки
type ParkingConfig struct {
	MaxDurationMinutes      int     `toml:"max_duration_minutes"`
	LateExitFine            string  `toml:"late_exit_fine"`
	OccupancyAlertThreshold float64 `toml:"occupancy_alert_threshold"`
	SweepIntervalSeconds    int     `toml:"sweep_interval_seconds"`
}

// LateExitFineAmount парсит сумму штрафа. Сумма хранится строкой,
// чтобы не терять точность на float
func (p ParkingConfig) LateExitFineAmount() (decimal.Decimal, error) {
	return decimal.NewFromString(p.LateExitFine)
}

type RateLimitConfig struct {
	Enabled bool    `toml:"enabled"`
	RPS     float64 `toml:"rps"`
	Burst   int     `toml:"burst"`
}

type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"`
}

// Load читает конфигурацию из toml-файла и применяет env-переопределения
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PARKING_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("PARKING_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("PARKING_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("PARKING_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("PARKING_DB_NAME"); v != "" {
		cfg.Database.DBName = v
	}
	if v := os.Getenv("PARKING_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
}

func validate(cfg *Config) error {
	if cfg.Server.HTTPPort <= 0 {
		return fmt.Errorf("config: server.http_port must be positive")
	}
	if cfg.Parking.MaxDurationMinutes <= 0 {
		return fmt.Errorf("config: parking.max_duration_minutes must be positive")
	}
	if cfg.Parking.SweepIntervalSeconds <= 0 {
		return fmt.Errorf("config: parking.sweep_interval_seconds must be positive")
	}
	if _, err := cfg.Parking.LateExitFineAmount(); err != nil {
		return fmt.Errorf("config: parking.late_exit_fine is not a valid amount: %w", err)
	}
	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("config: auth.jwt_secret is required")
	}
	return nil
}
