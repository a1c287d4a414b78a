package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Backend   BackendConfig   `toml:"backend"`
	Auth      AuthConfig      `toml:"auth"`
	Places    PlacesConfig    `toml:"places"`
	Session   SessionConfig   `toml:"session"`
	Favorites FavoritesConfig `toml:"favorites"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	BaseURL string `toml:"base_url"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// BackendConfig points at the hosted data service (PostgREST dialect).
type BackendConfig struct {
	URL            string `toml:"url"`
	AnonKey        string `toml:"anon_key"`
	Table          string `toml:"table"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// AuthConfig contains the OAuth2 client used for the authorization code exchange.
type AuthConfig struct {
	ClientID     string   `toml:"client_id"`
	ClientSecret string   `toml:"client_secret"`
	AuthURL      string   `toml:"auth_url"`
	TokenURL     string   `toml:"token_url"`
	RedirectURL  string   `toml:"redirect_url"`
	Scopes       []string `toml:"scopes"`
	LandingRoute string   `toml:"landing_route"`
	SuccessRoute string   `toml:"success_route"`
	ErrorRoute   string   `toml:"error_route"`
}

// PlacesConfig contains the places-photo provider settings used by the image proxy.
type PlacesConfig struct {
	APIKey   string `toml:"api_key"`
	PhotoURL string `toml:"photo_url"`
	MaxWidth int    `toml:"max_width"`
}

// SessionConfig controls the signed session cookie.
type SessionConfig struct {
	Secret     string `toml:"secret"`
	CookieName string `toml:"cookie_name"`
	TTLHours   int    `toml:"ttl_hours"`
}

// FavoritesConfig selects the persistence adapter for locally stored favorites.
type FavoritesConfig struct {
	Storage string `toml:"storage"` // "file" or "sqlite"
	Dir     string `toml:"dir"`
	Key     string `toml:"key"`
}

// Addr returns the host:port pair the HTTP server listens on.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
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
		return fmt.Errorf("config file already exists at %s: %w", path, ErrInvalidConfig)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// envOverrides maps environment variables onto config fields.
var envOverrides = map[string]func(*Config, string){
	"MEDSPA_BACKEND_URL":        func(c *Config, v string) { c.Backend.URL = v },
	"MEDSPA_BACKEND_KEY":        func(c *Config, v string) { c.Backend.AnonKey = v },
	"MEDSPA_AUTH_CLIENT_ID":     func(c *Config, v string) { c.Auth.ClientID = v },
	"MEDSPA_AUTH_CLIENT_SECRET": func(c *Config, v string) { c.Auth.ClientSecret = v },
	"MEDSPA_PLACES_API_KEY":     func(c *Config, v string) { c.Places.APIKey = v },
	"MEDSPA_SESSION_SECRET":     func(c *Config, v string) { c.Session.Secret = v },
	"MEDSPA_DATABASE_PATH":      func(c *Config, v string) { c.Database.Path = v },
}

// ApplyEnv loads the given dotenv files (missing files are ignored) and then overlays
// any MEDSPA_* variables from the process environment onto config.
//
// Variables already present in the environment win over values from dotenv files.
func ApplyEnv(config *Config, dotenvFiles ...string) []string {
	for _, f := range dotenvFiles {
		if _, err := os.Stat(f); err == nil {
			_ = godotenv.Load(f)
		}
	}

	var applied []string
	for name, set := range envOverrides {
		if v, ok := os.LookupEnv(name); ok && strings.TrimSpace(v) != "" {
			set(config, strings.TrimSpace(v))
			applied = append(applied, name)
		}
	}
	return applied
}

// ExpandHome replaces a leading "~" in path with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
