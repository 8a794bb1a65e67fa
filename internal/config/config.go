package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/phenrril/galeria/internal/catalog"
)

// Config holds all application configuration.
type Config struct {
	AppEnv string

	// Database. An empty DSN runs on the in-memory document store.
	DSN string

	// HTTP server
	Port          string
	SessionKey    string
	AdminAPIKey   string
	RatePerSecond float64
	RateBurst     int
	TrustProxy    bool

	// File storage: a bucket name switches from the local directory to
	// Cloud Storage.
	StorageDir    string
	StorageBucket string

	// Hosted search; the local scan is used when AppID is empty.
	SearchAppID  string
	SearchAPIKey string
	SearchIndex  string
	SearchPerPg  int

	// Email-on-write
	SMTPHost    string
	SMTPPort    int
	SMTPUser    string
	SMTPPass    string
	NotifyEmail string
	RedisURL    string

	BrandPriority []string
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		AppEnv:        "development",
		Port:          "8080",
		SessionKey:    "dev-insecure",
		RatePerSecond: 1,
		RateBurst:     5,
		StorageDir:    "uploads",
		SearchIndex:   "watches",
		SearchPerPg:   20,
		SMTPPort:      587,
		NotifyEmail:   "ventas@galeria.example",
		BrandPriority: append([]string(nil), catalog.DefaultBrandPriority...),
	}
}

// IsDev reports whether the service runs in development mode.
func (c *Config) IsDev() bool {
	e := strings.ToLower(c.AppEnv)
	return e == "" || e == "development" || e == "dev"
}

// LoadFromEnv loads .env file (if present) then overrides config from environment variables.
func (c *Config) LoadFromEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("APP_ENV"); v != "" {
		c.AppEnv = v
	}
	c.DSN = dsnFromEnv()
	if v := os.Getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := os.Getenv("SESSION_KEY"); v != "" {
		c.SessionKey = v
	}
	if v := os.Getenv("ADMIN_API_KEY"); v != "" {
		c.AdminAPIKey = v
	}
	if v := os.Getenv("GALERIA_RATE_PER_SECOND"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.RatePerSecond = f
		}
	}
	if v := os.Getenv("GALERIA_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RateBurst = n
		}
	}
	if v := os.Getenv("GALERIA_TRUST_PROXY"); v != "" {
		c.TrustProxy, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("STORAGE_DIR"); v != "" {
		c.StorageDir = v
	}
	if v := os.Getenv("GALERIA_STORAGE_BUCKET"); v != "" {
		c.StorageBucket = v
	}
	if v := os.Getenv("GALERIA_SEARCH_APP_ID"); v != "" {
		c.SearchAppID = v
	}
	if v := os.Getenv("GALERIA_SEARCH_API_KEY"); v != "" {
		c.SearchAPIKey = v
	}
	if v := os.Getenv("GALERIA_SEARCH_INDEX"); v != "" {
		c.SearchIndex = v
	}
	if v := os.Getenv("GALERIA_SEARCH_PER_PAGE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.SearchPerPg = n
		}
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		c.SMTPHost = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.SMTPPort = n
		}
	}
	if v := os.Getenv("SMTP_USER"); v != "" {
		c.SMTPUser = v
	}
	if v := os.Getenv("SMTP_PASS"); v != "" {
		c.SMTPPass = v
	}
	if v := os.Getenv("ORDER_NOTIFY_EMAIL"); v != "" {
		c.NotifyEmail = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.RedisURL = v
	}
	if v := os.Getenv("GALERIA_BRAND_PRIORITY"); v != "" {
		c.BrandPriority = splitList(v)
	}
}

// SMTPConfigured reports whether outbound mail can be sent.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPUser != "" && c.SMTPPass != ""
}

// dsnFromEnv prefers DB_DSN and otherwise assembles one from the DB_* parts.
// With neither set it returns "" and the in-memory store is used.
func dsnFromEnv() string {
	if dsn := strings.TrimSpace(os.Getenv("DB_DSN")); dsn != "" {
		return dsn
	}
	host := os.Getenv("DB_HOST")
	if host == "" {
		return ""
	}
	port := os.Getenv("DB_PORT")
	if port == "" {
		port = "5432"
	}
	user := os.Getenv("DB_USER")
	if user == "" {
		user = os.Getenv("POSTGRES_USER")
	}
	if user == "" {
		user = "postgres"
	}
	pass := os.Getenv("DB_PASSWORD")
	if pass == "" {
		pass = os.Getenv("POSTGRES_PASSWORD")
	}
	if pass == "" {
		pass = "postgres"
	}
	name := os.Getenv("DB_NAME")
	if name == "" {
		name = os.Getenv("POSTGRES_DB")
	}
	if name == "" {
		name = "galeria"
	}
	ssl := os.Getenv("DB_SSLMODE")
	if ssl == "" {
		ssl = "disable"
	}
	return "host=" + host + " user=" + user + " password=" + pass + " dbname=" + name + " port=" + port + " sslmode=" + ssl
}

func splitList(raw string) []string {
	out := []string{}
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
