package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./medspa.db" {
			t.Errorf("expected database path ./medspa.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.Backend.Table != "med_spas" {
			t.Errorf("expected backend table med_spas, got %s", config.Backend.Table)
		}

		if config.Auth.SuccessRoute != "/my-page" {
			t.Errorf("expected success route /my-page, got %s", config.Auth.SuccessRoute)
		}

		if config.Places.APIKey != "" {
			t.Errorf("expected empty places key by default, got %s", config.Places.APIKey)
		}

		if config.Favorites.Key != "favorites" {
			t.Errorf("expected favorites key favorites, got %s", config.Favorites.Key)
		}
	})

	t.Run("Addr", func(t *testing.T) {
		s := ServerConfig{Host: "0.0.0.0", Port: 8080}
		if s.Addr() != "0.0.0.0:8080" {
			t.Errorf("expected 0.0.0.0:8080, got %s", s.Addr())
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		err = CreateConfigFile(configPath)
		if err == nil {
			t.Fatal("creating config file again should fail")
		}
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"

[server]
host = "0.0.0.0"
port = 8080

[backend]
url = "https://example.supabase.co"
anon_key = "anon"

[places]
api_key = "places-key"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}
		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}
		if config.Places.APIKey != "places-key" {
			t.Errorf("expected places key places-key, got %s", config.Places.APIKey)
		}
		if config.Auth.ErrorRoute != "/auth/auth-code-error" {
			t.Errorf("expected unset sections to keep defaults, got error route %q", config.Auth.ErrorRoute)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("LoadConfig Invalid TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[server\nport = "), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		if _, err := LoadConfig(configPath); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		t.Setenv("MEDSPA_PLACES_API_KEY", "from-env")
		t.Setenv("MEDSPA_BACKEND_URL", "  https://env.example.com ")

		config := DefaultConfig()
		applied := ApplyEnv(config)

		if config.Places.APIKey != "from-env" {
			t.Errorf("expected places key from env, got %q", config.Places.APIKey)
		}
		if config.Backend.URL != "https://env.example.com" {
			t.Errorf("expected trimmed backend url, got %q", config.Backend.URL)
		}
		if len(applied) != 2 {
			t.Errorf("expected 2 applied overrides, got %v", applied)
		}
	})

	t.Run("ApplyEnv From Dotenv File", func(t *testing.T) {
		envPath := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(envPath, []byte("MEDSPA_SESSION_SECRET=dotenv-secret\n"), 0644); err != nil {
			t.Fatalf("failed to write .env: %v", err)
		}
		t.Setenv("MEDSPA_SESSION_SECRET", "")
		os.Unsetenv("MEDSPA_SESSION_SECRET")

		config := DefaultConfig()
		ApplyEnv(config, envPath, filepath.Join(t.TempDir(), "missing.env"))

		if config.Session.Secret != "dotenv-secret" {
			t.Errorf("expected secret from dotenv, got %q", config.Session.Secret)
		}
	})

	t.Run("ExpandHome", func(t *testing.T) {
		home, err := os.UserHomeDir()
		if err != nil {
			t.Skip("no home directory")
		}
		if got := ExpandHome("~/.medspa"); got != filepath.Join(home, ".medspa") {
			t.Errorf("unexpected expansion %q", got)
		}
		if got := ExpandHome("/abs/path"); got != "/abs/path" {
			t.Errorf("absolute path should be unchanged, got %q", got)
		}
	})
}
