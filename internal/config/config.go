package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Storage  StorageConfig  `yaml:"storage"`
	Admin    AdminConfig    `yaml:"admin"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host" envconfig:"SERVER_HOST"`
	Port int    `yaml:"port" envconfig:"PORT"`
	Mode string `yaml:"mode" envconfig:"SERVER_MODE"`
}

type DatabaseConfig struct {
	// URL is a complete connection string. When set it wins over the
	// individual host fields.
	URL      string `yaml:"url" envconfig:"DATABASE_URL"`
	Host     string `yaml:"host" envconfig:"DB_HOST"`
	Port     int    `yaml:"port" envconfig:"DB_PORT"`
	User     string `yaml:"user" envconfig:"DB_USER"`
	Password string `yaml:"password" envconfig:"DB_PASSWORD"`
	DBName   string `yaml:"dbname" envconfig:"DB_NAME"`
	SSLMode  string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
}

type RedisConfig struct {
	Host     string `yaml:"host" envconfig:"REDIS_HOST"`
	Port     int    `yaml:"port" envconfig:"REDIS_PORT"`
	Password string `yaml:"password" envconfig:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" envconfig:"REDIS_DB"`
}

type JWTConfig struct {
	Secret      string `yaml:"secret" envconfig:"JWT_SECRET"`
	ExpireHours int    `yaml:"expire_hours" envconfig:"JWT_EXPIRE_HOURS"`
}

type StorageConfig struct {
	UploadDir  string `yaml:"upload_dir" envconfig:"UPLOAD_DIR"`
	PublicPath string `yaml:"public_path" envconfig:"UPLOAD_PUBLIC_PATH"`
	MaxFiles   int    `yaml:"max_files" envconfig:"UPLOAD_MAX_FILES"`
}

// AdminConfig holds the credentials of the account created at bootstrap.
type AdminConfig struct {
	Username string `yaml:"username" envconfig:"ADMIN_USERNAME"`
	Password string `yaml:"password" envconfig:"ADMIN_PASSWORD"`
}

type LogConfig struct {
	Dir string `yaml:"dir" envconfig:"LOG_DIR"`
}

// Default returns the configuration used when neither the file nor the
// environment says otherwise.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 5000,
			Mode: "debug",
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			User:    "postgres",
			DBName:  "socialhub",
			SSLMode: "disable",
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: 6379,
		},
		JWT: JWTConfig{
			Secret:      "change-me",
			ExpireHours: 24,
		},
		Storage: StorageConfig{
			UploadDir:  "uploads",
			PublicPath: "/uploads",
			MaxFiles:   5,
		},
		Admin: AdminConfig{
			Username: "admin",
			Password: "admin123",
		},
		Log: LogConfig{
			Dir: "logs",
		},
	}
}

// Load loads configuration from file and environment variables.
// A missing file is not an error; defaults and environment still apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, err
	}

	// Override with environment variables if present
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return "host=" + c.Host +
		" port=" + strconv.Itoa(c.Port) +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}

// Addr returns the host:port pair the HTTP server listens on
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
