package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultRemoteURL is the download link the catalog was first published under
const DefaultRemoteURL = "https://drive.google.com/uc?export=download&id=1vcNhKUCwsja6Obs6l6G6BNmC_WsXXRmf"

// Config holds all configuration for the application
type Config struct {
	App       AppConfig
	Server    ServerConfig
	Catalog   CatalogConfig
	Player    PlayerConfig
	Selection SelectionConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Logging   LoggingConfig
	Metrics   MetricsConfig
	Tracing   TracingConfig
	RateLimit RateLimitConfig
}

// AppConfig holds presentation settings
type AppConfig struct {
	Title string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// CatalogConfig says where the video catalog is read from
type CatalogConfig struct {
	Format       string
	RemoteURL    string
	RemoteObject string
	LocalPath    string
	FetchTimeout time.Duration
}

// PlayerConfig holds embed URL settings
type PlayerConfig struct {
	EmbedBaseURL string
}

// SelectionConfig bounds how long a session keeps its selection
type SelectionConfig struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Enabled         bool
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
	UseSSL          bool
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level  string
	Format string
	Output string
}

// MetricsConfig holds Prometheus exporter configuration
type MetricsConfig struct {
	Enabled bool
	Port    int
}

// TracingConfig holds Jaeger configuration
type TracingConfig struct {
	Enabled     bool
	ServiceName string
	Endpoint    string
}

// RateLimitConfig limits write endpoints per client
type RateLimitConfig struct {
	RPS   int
	Burst int
}

// Load reads configuration from an optional file and environment variables.
// An empty configPath means defaults plus environment only.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("VIDMARKS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.title", "80 Years of Growth")

	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.readTimeout", "30s")
	v.SetDefault("server.writeTimeout", "30s")
	v.SetDefault("server.shutdownTimeout", "10s")

	// Catalog defaults
	v.SetDefault("catalog.format", "auto")
	v.SetDefault("catalog.remoteURL", DefaultRemoteURL)
	v.SetDefault("catalog.remoteObject", "")
	v.SetDefault("catalog.localPath", "")
	v.SetDefault("catalog.fetchTimeout", "0s")

	v.SetDefault("player.embedBaseURL", "https://www.youtube.com/embed")

	v.SetDefault("selection.ttl", "24h")
	v.SetDefault("selection.cleanupInterval", "5m")

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Storage defaults
	v.SetDefault("storage.enabled", false)
	v.SetDefault("storage.endpoint", "localhost:9000")
	v.SetDefault("storage.accessKeyID", "minioadmin")
	v.SetDefault("storage.secretAccessKey", "minioadmin")
	v.SetDefault("storage.bucketName", "catalogs")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.useSSL", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.port", 9090)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.serviceName", "vidmarks")
	v.SetDefault("tracing.endpoint", "http://localhost:14268/api/traces")

	v.SetDefault("rateLimit.rps", 5)
	v.SetDefault("rateLimit.burst", 10)
}
