package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigSuccess(t *testing.T) {
	original := AppConfig
	t.Cleanup(func() {
		AppConfig = original
	})

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json")
	content := `{
		"database": {
			"driver": "sqlite",
			"path": "/tmp/party.db"
		},
		"telegram": {
			"token": "test-token"
		},
		"game": {
			"imposter_marker": "IMPOSTOR"
		}
	}`

	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config fixture: %v", err)
	}

	if err := LoadConfig(configPath); err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if AppConfig.Database.Path != "/tmp/party.db" {
		t.Errorf("expected path to be /tmp/party.db, got %q", AppConfig.Database.Path)
	}
	if AppConfig.Telegram.Token != "test-token" {
		t.Errorf("expected token to be test-token, got %q", AppConfig.Telegram.Token)
	}
	if AppConfig.Game.ImposterMarker != "IMPOSTOR" {
		t.Errorf("expected imposter marker override, got %q", AppConfig.Game.ImposterMarker)
	}
	if AppConfig.Game.DefaultIcon != "list" {
		t.Errorf("expected default icon to survive partial config, got %q", AppConfig.Game.DefaultIcon)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	original := AppConfig
	t.Cleanup(func() {
		AppConfig = original
	})

	if err := LoadConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected an error when loading a missing config file")
	}
}

func TestLoadConfigWithoutFileUsesDefaultsAndEnv(t *testing.T) {
	original := AppConfig
	t.Cleanup(func() {
		AppConfig = original
	})
	t.Setenv("IMPOSTOR_DATABASE_PATH", "from-env.db")
	t.Setenv("IMPOSTOR_LOGGING_LEVEL", "debug")

	if err := LoadConfig(""); err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if AppConfig.Database.Driver != "sqlite" {
		t.Errorf("expected sqlite default driver, got %q", AppConfig.Database.Driver)
	}
	if AppConfig.Database.Path != "from-env.db" {
		t.Errorf("expected env override for path, got %q", AppConfig.Database.Path)
	}
	if AppConfig.Logging.Level != "debug" {
		t.Errorf("expected env override for log level, got %q", AppConfig.Logging.Level)
	}
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg := Default()
	cfg.Database.Driver = "mysql"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for an unsupported driver")
	}
}

func TestValidatePostgresRequiresHost(t *testing.T) {
	cfg := Default()
	cfg.Database.Driver = "postgres"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for postgres without host")
	}
	cfg.Database.Host = "localhost"
	cfg.Database.DBName = "impostor"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
