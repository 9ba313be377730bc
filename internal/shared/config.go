package shared

import (
	_ "embed"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ilyakaznacheev/cleanenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Session storage backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config represents the application configuration loaded from a TOML file and overlaid with environment variables.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Spotify     SpotifyAPIConfig  `toml:"spotify"`
	Server      ServerConfig      `toml:"server"`
	Session     SessionConfig     `toml:"session"`
	Database    DatabaseConfig    `toml:"database"`
	Log         LogConfig         `toml:"log"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id" env:"CLIENT_ID"`
	ClientSecret string `toml:"client_secret" env:"CLIENT_SECRET"`
	RedirectURI  string `toml:"redirect_uri" env:"REDIRECT_URI"`
}

// SpotifyAPIConfig contains the remote endpoints and request tuning.
type SpotifyAPIConfig struct {
	AuthURL             string  `toml:"auth_url" env:"SPOTREC_SPOTIFY_AUTH_URL"`
	TokenURL            string  `toml:"token_url" env:"SPOTREC_SPOTIFY_TOKEN_URL"`
	APIURL              string  `toml:"api_url" env:"SPOTREC_SPOTIFY_API_URL"`
	LookupRate          float64 `toml:"lookup_rate" env:"SPOTREC_SPOTIFY_LOOKUP_RATE"`
	RecommendationLimit int     `toml:"recommendation_limit" env:"SPOTREC_SPOTIFY_RECOMMENDATION_LIMIT"`
	TopLimit            int     `toml:"top_limit" env:"SPOTREC_SPOTIFY_TOP_LIMIT"`
	ShowDialog          bool    `toml:"show_dialog" env:"SPOTREC_SPOTIFY_SHOW_DIALOG"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host         string `toml:"host" env:"SPOTREC_HOST"`
	Port         int    `toml:"port" env:"SPOTREC_PORT"`
	SecretKey    string `toml:"secret_key" env:"SECRET_KEY"`
	CookieName   string `toml:"cookie_name" env:"SPOTREC_COOKIE_NAME"`
	SecureCookie bool   `toml:"secure_cookie" env:"SPOTREC_SECURE_COOKIE"`
}

// SessionConfig selects and tunes the token store backend.
type SessionConfig struct {
	Backend     string `toml:"backend" env:"SPOTREC_SESSION_BACKEND"`
	TTL         string `toml:"ttl" env:"SPOTREC_SESSION_TTL"`
	RedisURL    string `toml:"redis_url" env:"SPOTREC_REDIS_URL"`
	RedisPrefix string `toml:"redis_prefix" env:"SPOTREC_REDIS_PREFIX"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path" env:"SPOTREC_DATABASE_PATH"`
	MaxOpenConns int    `toml:"max_open_conns" env:"SPOTREC_DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns int    `toml:"max_idle_conns" env:"SPOTREC_DATABASE_MAX_IDLE_CONNS"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level" env:"SPOTREC_LOG_LEVEL"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// SessionTTL parses the configured session lifetime.
func (s SessionConfig) SessionTTL() (time.Duration, error) {
	if s.TTL == "" {
		return 30 * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s.TTL)
	if err != nil {
		return 0, fmt.Errorf("%w: session ttl %q: %v", ErrInvalidConfig, s.TTL, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: session ttl must be positive", ErrInvalidConfig)
	}
	return d, nil
}

// Validate checks the values the web server cannot start without.
func (c *Config) Validate() error {
	spotify := c.Credentials.Spotify
	if spotify.ClientID == "" || spotify.ClientSecret == "" {
		return fmt.Errorf("%w: spotify client_id and client_secret are required", ErrMissingCredentials)
	}
	if spotify.RedirectURI == "" {
		return fmt.Errorf("%w: spotify redirect_uri is required", ErrMissingCredentials)
	}
	if c.Server.SecretKey == "" {
		return fmt.Errorf("%w: server secret_key is required", ErrMissingCredentials)
	}

	switch c.Session.Backend {
	case BackendMemory, BackendSQLite:
	case BackendRedis:
		if c.Session.RedisURL == "" {
			return fmt.Errorf("%w: session redis_url is required for the redis backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown session backend %q", ErrInvalidConfig, c.Session.Backend)
	}

	if _, err := c.Session.SessionTTL(); err != nil {
		return err
	}
	return nil
}

// LoadConfig reads the TOML file at path over the embedded defaults, then overlays environment variables.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cleanenv.ReadEnv(config); err != nil {
		return nil, fmt.Errorf("failed to overlay env: %w", err)
	}

	return config, nil
}

// LoadConfigOrDefault loads path when it exists and otherwise returns the defaults overlaid with the environment.
func LoadConfigOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); err == nil {
		return LoadConfig(path)
	}

	config := DefaultConfig()
	if err := cleanenv.ReadEnv(config); err != nil {
		return nil, fmt.Errorf("failed to overlay env: %w", err)
	}
	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
