package config

import (
	"fmt"
	"net/netip"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	OCR       OCRConfig       `mapstructure:"ocr"`
	Image     ImageConfig     `mapstructure:"image"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Receipt   ReceiptConfig   `mapstructure:"receipt"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	BodyLimit    int64         `mapstructure:"body_limit"`
	// TrustedProxies lists the IPs or CIDRs allowed to set X-Forwarded-For.
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

// OCR engines
const (
	EngineVision    = "vision"
	EngineTesseract = "tesseract"
	EngineNone      = "none"
)

type OCRConfig struct {
	Engine          string        `mapstructure:"engine"`
	CredentialsFile string        `mapstructure:"credentials_file"`
	Timeout         time.Duration `mapstructure:"timeout"`
	Languages       []string      `mapstructure:"languages"`
}

type ImageConfig struct {
	MaxDimension int `mapstructure:"max_dimension"`
}

// Rate limit backends
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Backend  string        `mapstructure:"backend"`
	RedisURL string        `mapstructure:"redis_url"`
	Requests int64         `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// ReceiptConfig controls signed verification receipts. An empty secret
// disables them.
type ReceiptConfig struct {
	Secret  string        `mapstructure:"secret"`
	TTL     time.Duration `mapstructure:"ttl"`
	BaseURL string        `mapstructure:"base_url"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := loadEnvFile(); err != nil {
		log.Debug().Err(err).Msg("No .env file loaded")
	}

	v := newViper()
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Info().Msg("No config file found, using environment variables and defaults")
	} else {
		log.Info().Str("file", v.ConfigFileUsed()).Msg("Config file loaded")
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("docverify")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/docverify")

	setDefaults(v)

	v.SetEnvPrefix("DOCVERIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The Google client libraries read this variable themselves; honor it
	// for the explicit credentials path too.
	_ = v.BindEnv("ocr.credentials_file", "DOCVERIFY_OCR_CREDENTIALS_FILE", "GOOGLE_APPLICATION_CREDENTIALS")
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	config.OCR.Languages = splitList(config.OCR.Languages)
	config.CORS.AllowedOrigins = splitList(config.CORS.AllowedOrigins)
	config.Server.TrustedProxies = splitList(config.Server.TrustedProxies)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

// loadEnvFile loads environment variables from .env file
func loadEnvFile() error {
	locations := []string{
		".env",
		".env.local",
		"../.env",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			if err := godotenv.Load(location); err != nil {
				return fmt.Errorf("error loading .env file from %s: %w", location, err)
			}
			log.Info().Str("file", location).Msg(".env file loaded")
			return nil
		}
	}

	return fmt.Errorf("no .env file found")
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.body_limit", 16*1024*1024) // 16MB
	v.SetDefault("server.trusted_proxies", []string{})

	// OCR defaults
	v.SetDefault("ocr.engine", EngineVision)
	v.SetDefault("ocr.credentials_file", "")
	v.SetDefault("ocr.timeout", "20s")
	v.SetDefault("ocr.languages", []string{"eng", "hin"})

	v.SetDefault("image.max_dimension", 8192)

	// Rate limit defaults
	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.backend", BackendMemory)
	v.SetDefault("ratelimit.redis_url", "redis://localhost:6379/0")
	v.SetDefault("ratelimit.requests", 30)
	v.SetDefault("ratelimit.window", "1m")

	// Receipt defaults
	v.SetDefault("receipt.secret", "")
	v.SetDefault("receipt.ttl", "720h") // 30 days
	v.SetDefault("receipt.base_url", "http://localhost:8080")

	v.SetDefault("cors.allowed_origins", []string{"*"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
}

// splitList accepts both YAML lists and comma separated env values.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server configuration error: %w", err)
	}
	if err := c.OCR.Validate(); err != nil {
		return fmt.Errorf("ocr configuration error: %w", err)
	}
	if c.Image.MaxDimension <= 0 {
		return fmt.Errorf("image max_dimension must be positive")
	}
	if err := c.RateLimit.Validate(); err != nil {
		return fmt.Errorf("ratelimit configuration error: %w", err)
	}
	if c.Receipt.Secret != "" && c.Receipt.TTL <= 0 {
		return fmt.Errorf("receipt ttl must be positive when receipts are enabled")
	}
	return nil
}

func (sc *ServerConfig) Validate() error {
	if sc.Address == "" {
		return fmt.Errorf("server address cannot be empty")
	}
	if sc.ReadTimeout <= 0 {
		return fmt.Errorf("read_timeout must be positive, got: %v", sc.ReadTimeout)
	}
	if sc.WriteTimeout <= 0 {
		return fmt.Errorf("write_timeout must be positive, got: %v", sc.WriteTimeout)
	}
	if sc.BodyLimit <= 0 {
		return fmt.Errorf("body_limit must be positive, got: %d", sc.BodyLimit)
	}
	for _, p := range sc.TrustedProxies {
		if _, err := netip.ParsePrefix(p); err == nil {
			continue
		}
		if _, err := netip.ParseAddr(p); err != nil {
			return fmt.Errorf("trusted_proxies entry %q is not an IP or CIDR", p)
		}
	}
	return nil
}

func (oc *OCRConfig) Validate() error {
	switch oc.Engine {
	case EngineVision, EngineTesseract, EngineNone:
	default:
		return fmt.Errorf("ocr engine must be one of vision, tesseract, none; got: %q", oc.Engine)
	}
	if oc.Engine != EngineNone && oc.Timeout <= 0 {
		return fmt.Errorf("ocr timeout must be positive, got: %v", oc.Timeout)
	}
	return nil
}

func (rc *RateLimitConfig) Validate() error {
	if !rc.Enabled {
		return nil
	}
	switch rc.Backend {
	case BackendMemory:
	case BackendRedis:
		if rc.RedisURL == "" {
			return fmt.Errorf("redis_url is required for the redis backend")
		}
	default:
		return fmt.Errorf("backend must be 'memory' or 'redis', got: %q", rc.Backend)
	}
	if rc.Requests <= 0 {
		return fmt.Errorf("requests must be positive, got: %d", rc.Requests)
	}
	if rc.Window <= 0 {
		return fmt.Errorf("window must be positive, got: %v", rc.Window)
	}
	return nil
}
