package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "DB_PATH", "MAX_UPLOAD_MB", "SESSION_TTL", "UPLOADS_DIR"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.DBDriver != "sqlite3" {
		t.Errorf("DBDriver = %q, want sqlite3", cfg.DBDriver)
	}
	if _, err := os.Stat(filepath.Join(cfg.ProjectRoot, "go.mod")); err != nil {
		t.Errorf("ProjectRoot %q has no go.mod: %v", cfg.ProjectRoot, err)
	}
	if cfg.MaxUpload != 20<<20 {
		t.Errorf("MaxUpload = %d, want %d", cfg.MaxUpload, 20<<20)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL = %v, want 24h", cfg.SessionTTL)
	}
	if cfg.DSN() != cfg.DBPath {
		t.Errorf("DSN() = %q, want DBPath %q", cfg.DSN(), cfg.DBPath)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "pgx")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/social")
	t.Setenv("MAX_UPLOAD_MB", "5")
	t.Setenv("SESSION_TTL", "2h")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.DSN() != "postgres://u:p@localhost:5432/social" {
		t.Errorf("DSN() = %q", cfg.DSN())
	}
	if cfg.MaxUpload != 5<<20 {
		t.Errorf("MaxUpload = %d, want %d", cfg.MaxUpload, 5<<20)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Errorf("SessionTTL = %v, want 2h", cfg.SessionTTL)
	}
}

func TestLoadInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("MAX_UPLOAD_MB", "lots")
	t.Setenv("SESSION_TTL", "forever")

	cfg := Load()
	if cfg.MaxUpload != 20<<20 {
		t.Errorf("MaxUpload = %d, want default", cfg.MaxUpload)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL = %v, want default", cfg.SessionTTL)
	}
}

func TestDSNPerDriver(t *testing.T) {
	tests := []struct {
		driver string
		want   string
	}{
		{"", "/x/social.db"},
		{"sqlite3", "/x/social.db"},
		{"pgx", "postgres://u@h/db"},
		{"postgres", "postgres://u@h/db"},
	}
	for _, tt := range tests {
		cfg := &Config{DBDriver: tt.driver, DBPath: "/x/social.db", DatabaseURL: "postgres://u@h/db"}
		if got := cfg.DSN(); got != tt.want {
			t.Errorf("DSN() with driver %q = %q, want %q", tt.driver, got, tt.want)
		}
	}
}
