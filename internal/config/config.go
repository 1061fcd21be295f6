package config

import (
	"os"
	"strconv"
	"time"
)

// DatabaseConfig holds the SQL connection settings for the visit counter store.
// Driver selects the backend: "postgres" for managed deployments, "sqlite" for a local file.
type DatabaseConfig struct {
	Driver             string
	SQLitePath         string
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
// Storage is optional; an empty Endpoint means blog PDFs are served from StaticDir.
type MinIOConfig struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	Bucket     string
	UseSSL     bool
	PresignTTL time.Duration
}

// Enabled reports whether an object store has been configured.
func (c MinIOConfig) Enabled() bool {
	return c.Endpoint != ""
}

// SiteConfig describes the public site.
type SiteConfig struct {
	BaseURL    string
	Owner      string
	StaticDir  string
	ScholarURL string
}

// ArxivConfig configures the preprint feed proxy.
type ArxivConfig struct {
	FeedURL    string
	Source     string
	Revalidate time.Duration
}

// OrcidConfig configures the publications source.
type OrcidConfig struct {
	ID         string
	APIBase    string
	Revalidate time.Duration
}

// UpstreamConfig configures the shared outbound HTTP client.
type UpstreamConfig struct {
	Timeout   time.Duration
	UserAgent string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost   string
	Port      string
	Timezone  string
	LogLevel  string
	VisitsKey string
	Site      SiteConfig
	Database  DatabaseConfig
	MinIO     MinIOConfig
	Arxiv     ArxivConfig
	Orcid     OrcidConfig
	Upstream  UpstreamConfig
}

// Location resolves Timezone, falling back to UTC when it is unknown.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:   getEnv("APP_HOST", "localhost:8080"),
		Port:      getEnv("PORT", "8080"),
		Timezone:  getEnv("APP_TIMEZONE", "UTC"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		VisitsKey: getEnv("VISITS_KEY", "site:visits"),
		Site: SiteConfig{
			BaseURL:    getEnv("SITE_BASE_URL", "http://localhost:8080"),
			Owner:      getEnv("SITE_OWNER", "Dipanka Tanu Sarmah"),
			StaticDir:  getEnv("STATIC_DIR", "public"),
			ScholarURL: getEnv("SCHOLAR_URL", "https://scholar.google.com/citations?hl=en&user=0YYPcf7-VukC"),
		},
		Database: DatabaseConfig{
			Driver:             getEnv("DB_DRIVER", "sqlite"),
			SQLitePath:         getEnv("SQLITE_PATH", "portfolio.db"),
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:   getEnv("MINIO_ENDPOINT", ""),
			AccessKey:  getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey:  getEnv("MINIO_SECRET_KEY", ""),
			Bucket:     getEnv("MINIO_BUCKET", ""),
			UseSSL:     getEnvBool("MINIO_USE_SSL", false),
			PresignTTL: getEnvDuration("MINIO_PRESIGN_TTL", 15*time.Minute),
		},
		Arxiv: ArxivConfig{
			// The arXiv RSS endpoint expects plain http.
			FeedURL:    getEnv("ARXIV_FEED_URL", "http://rss.arxiv.org/rss/q-bio.GN"),
			Source:     getEnv("ARXIV_SOURCE", "arXiv · q-bio.GN (Genomics)"),
			Revalidate: getEnvDuration("ARXIV_REVALIDATE", time.Hour),
		},
		Orcid: OrcidConfig{
			ID:         getEnv("ORCID_ID", "0009-0008-1174-3885"),
			APIBase:    getEnv("ORCID_API_BASE", "https://pub.orcid.org/v3.0"),
			Revalidate: getEnvDuration("ORCID_REVALIDATE", 24*time.Hour),
		},
		Upstream: UpstreamConfig{
			Timeout:   getEnvDuration("UPSTREAM_TIMEOUT", 10*time.Second),
			UserAgent: getEnv("UPSTREAM_USER_AGENT", "PortfolioSite/1.0"),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil && d > 0 {
			return d
		}
	}
	return def
}
