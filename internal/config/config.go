package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	Port        string
	DBDriver    string
	DBPath      string
	DatabaseURL string
	SecretKey   string
	UploadsDir  string
	MaxUpload   int64
	SessionTTL  time.Duration
	ProjectRoot string
}

// Load reads configuration from the environment, falling back to defaults.
// A .env file in the project root is loaded first when present.
func Load() *Config {
	projectRoot := findProjectRoot()

	if err := godotenv.Load(filepath.Join(projectRoot, ".env")); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: could not load .env: %v", err)
	}

	maxMB, err := strconv.ParseInt(getEnv("MAX_UPLOAD_MB", "20"), 10, 64)
	if err != nil || maxMB <= 0 {
		maxMB = 20
	}
	ttl, err := time.ParseDuration(getEnv("SESSION_TTL", "24h"))
	if err != nil || ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DBDriver:    getEnv("DB_DRIVER", "sqlite3"),
		DBPath:      getEnv("DB_PATH", filepath.Join(projectRoot, "social.db")),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		SecretKey:   getEnv("SECRET_KEY", "dev-secret-change-me"),
		UploadsDir:  getEnv("UPLOADS_DIR", filepath.Join(projectRoot, "instance", "uploads")),
		MaxUpload:   maxMB << 20,
		SessionTTL:  ttl,
		ProjectRoot: projectRoot,
	}
}

// DSN returns the data source name for the configured driver.
func (c *Config) DSN() string {
	if c.Postgres() {
		return c.DatabaseURL
	}
	return c.DBPath
}

// Postgres reports whether DBDriver selects PostgreSQL through pgx.
func (c *Config) Postgres() bool {
	return c.DBDriver == "pgx" || c.DBDriver == "postgres"
}

// findProjectRoot walks up from the working directory until it finds go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "."
		}
		dir = parent
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
