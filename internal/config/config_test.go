package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("TELEGRAM_BOT_TOKEN", "test-token")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load("nonexistent.env")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Storage != StorageSQLite {
		t.Errorf("Storage = %q, want %q", cfg.Storage, StorageSQLite)
	}
	if cfg.StoragePath != "data/memory.db" {
		t.Errorf("StoragePath = %q", cfg.StoragePath)
	}
	if cfg.ContextLimit != 20 {
		t.Errorf("ContextLimit = %d, want 20", cfg.ContextLimit)
	}
	if cfg.RequestTimeout != 60*time.Second {
		t.Errorf("RequestTimeout = %v, want 60s", cfg.RequestTimeout)
	}
	if cfg.KeepUserTurnOnFailure {
		t.Error("KeepUserTurnOnFailure should default to false")
	}
	if len(cfg.AllowedUserIDs) != 0 {
		t.Errorf("AllowedUserIDs = %v, want empty", cfg.AllowedUserIDs)
	}
}

func TestLoad_MissingCredentials(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	if _, err := Load("nonexistent.env"); err == nil {
		t.Fatal("expected error for missing credentials")
	}
}

func TestLoad_AllowedUserIDs(t *testing.T) {
	setRequired(t)
	t.Setenv("ALLOWED_TELEGRAM_USER_IDS", "42, 7,notanumber, 9")

	cfg, err := Load("nonexistent.env")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := []int64{42, 7, 9}
	if len(cfg.AllowedUserIDs) != len(want) {
		t.Fatalf("AllowedUserIDs = %v, want %v", cfg.AllowedUserIDs, want)
	}
	for i, id := range want {
		if cfg.AllowedUserIDs[i] != id {
			t.Errorf("AllowedUserIDs[%d] = %d, want %d", i, cfg.AllowedUserIDs[i], id)
		}
	}
}

func TestLoad_UnknownBackend(t *testing.T) {
	setRequired(t)
	t.Setenv("STORAGE_BACKEND", "cassandra")

	if _, err := Load("nonexistent.env"); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestLoad_PostgresRequiresURL(t *testing.T) {
	setRequired(t)
	t.Setenv("STORAGE_BACKEND", StoragePostgres)
	t.Setenv("POSTGRES_URL", "")

	if _, err := Load("nonexistent.env"); err == nil {
		t.Fatal("expected error for postgres backend without url")
	}
}

func TestParseEnvLine(t *testing.T) {
	key, val, ok := parseEnvLine(`export OPENAI_MODEL="gpt-4o-mini"`)
	if !ok || key != "OPENAI_MODEL" || val != "gpt-4o-mini" {
		t.Errorf("parseEnvLine: got (%q, %q, %v)", key, val, ok)
	}

	if _, _, ok := parseEnvLine("not a pair"); ok {
		t.Error("malformed line should not parse")
	}
}
