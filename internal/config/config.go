package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar points at an optional YAML config file.
const ConfigPathEnvVar = "CONFIG_PATH"

var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/vidtube/config.yaml",
}

type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Mongo   MongoConfig   `koanf:"mongo"`
	Auth    AuthConfig    `koanf:"auth"`
	Media   MediaConfig   `koanf:"media"`
	API     APIConfig     `koanf:"api"`
	Logging LoggingConfig `koanf:"logging"`
}

type ServerConfig struct {
	Port            string        `koanf:"port"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimit       int           `koanf:"rate_limit"`
	LoginRateLimit  int           `koanf:"login_rate_limit"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	UploadDir       string        `koanf:"upload_dir"`
	MaxUploadSize   int64         `koanf:"max_upload_size"`
}

type MongoConfig struct {
	URI      string        `koanf:"uri"`
	Database string        `koanf:"database"`
	Timeout  time.Duration `koanf:"timeout"`
}

type AuthConfig struct {
	AccessSecret  string        `koanf:"access_secret"`
	RefreshSecret string        `koanf:"refresh_secret"`
	AccessTTL     time.Duration `koanf:"access_ttl"`
	RefreshTTL    time.Duration `koanf:"refresh_ttl"`
	SecureCookies bool          `koanf:"secure_cookies"`
}

type MediaConfig struct {
	// Driver is "disk" or "s3".
	Driver    string   `koanf:"driver"`
	DiskDir   string   `koanf:"disk_dir"`
	PublicURL string   `koanf:"public_url"`
	S3        S3Config `koanf:"s3"`
}

type S3Config struct {
	Endpoint  string `koanf:"endpoint"`
	Region    string `koanf:"region"`
	Bucket    string `koanf:"bucket"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	PublicURL string `koanf:"public_url"`
}

type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:            "8080",
			CORSOrigins:     []string{"*"},
			RateLimit:       300,
			LoginRateLimit:  20,
			ShutdownTimeout: 15 * time.Second,
			UploadDir:       os.TempDir(),
			MaxUploadSize:   512 << 20,
		},
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "vidtube",
			Timeout:  10 * time.Second,
		},
		Auth: AuthConfig{
			AccessSecret:  "dev-access-secret-change-me",
			RefreshSecret: "dev-refresh-secret-change-me",
			AccessTTL:     24 * time.Hour,
			RefreshTTL:    10 * 24 * time.Hour,
		},
		Media: MediaConfig{
			Driver:    "disk",
			DiskDir:   "./media",
			PublicURL: "http://localhost:8080/media",
		},
		API: APIConfig{
			DefaultPageSize: 10,
			MaxPageSize:     100,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in that order of precedence. A local .env file is read first
// when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if c.Mongo.URI == "" || c.Mongo.Database == "" {
		return errors.New("mongo.uri and mongo.database are required")
	}
	if c.Auth.AccessSecret == "" || c.Auth.RefreshSecret == "" {
		return errors.New("auth.access_secret and auth.refresh_secret are required")
	}
	if c.Auth.AccessSecret == c.Auth.RefreshSecret {
		return errors.New("auth.access_secret and auth.refresh_secret must differ")
	}
	if c.API.DefaultPageSize < 1 || c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("api page sizes out of range: default=%d max=%d", c.API.DefaultPageSize, c.API.MaxPageSize)
	}

	switch c.Media.Driver {
	case "disk":
		if c.Media.DiskDir == "" {
			return errors.New("media.disk_dir is required for the disk driver")
		}
	case "s3":
		s3 := c.Media.S3
		if s3.Bucket == "" || s3.Region == "" || s3.AccessKey == "" || s3.SecretKey == "" {
			return errors.New("media.s3 bucket, region, access_key and secret_key are required for the s3 driver")
		}
	default:
		return fmt.Errorf("unknown media.driver %q", c.Media.Driver)
	}

	return nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

var sliceConfigPaths = []string{
	"server.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("setting %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	"port":                 "server.port",
	"server_port":          "server.port",
	"cors_origin":          "server.cors_origins",
	"mongodb_uri":          "mongo.uri",
	"mongo_uri":            "mongo.uri",
	"db_name":              "mongo.database",
	"access_token_secret":  "auth.access_secret",
	"refresh_token_secret": "auth.refresh_secret",
	"access_token_expiry":  "auth.access_ttl",
	"refresh_token_expiry": "auth.refresh_ttl",
	"jwt_access_secret":    "auth.access_secret",
	"jwt_refresh_secret":   "auth.refresh_secret",
	"media_s3_endpoint":    "media.s3.endpoint",
	"media_s3_region":      "media.s3.region",
	"media_s3_bucket":      "media.s3.bucket",
	"media_s3_access_key":  "media.s3.access_key",
	"media_s3_secret_key":  "media.s3.secret_key",
	"media_s3_public_url":  "media.s3.public_url",
	"log_level":            "logging.level",
	"log_format":           "logging.format",
}

var envSections = []string{"server", "mongo", "auth", "media", "api", "logging"}

// envTransformFunc maps SECTION_KEY style variables onto koanf paths.
// MONGO_DATABASE becomes mongo.database, AUTH_ACCESS_TTL becomes auth.access_ttl.
// Variables outside the known sections are dropped.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	for _, section := range envSections {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok && rest != "" {
			return section + "." + rest
		}
	}

	return ""
}
