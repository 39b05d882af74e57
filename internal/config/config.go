package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrSnakeDoc/bookmarks/internal/mongo"
)

// Store backends selectable with BOOKMARKS_STORE.
const (
	StoreMongo  = "mongo"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request deadline (ex: 5s)
	MaxBodyBytes    int64         // request body cap (default: 1 MiB)

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	Store string // "mongo" | "redis" | "memory"

	// MongoDB
	MongoURI            string        // ex: "mongodb://localhost:27017/nodb"
	MongoDatabase       string        // defaults to the database named in MongoURI
	MongoConnectTimeout time.Duration // total time to retry connecting (ex: 30s)
	MongoRetryInterval  time.Duration // initial wait between retries (ex: 2s, grows exponentially)
	MongoMaxWait        time.Duration // max wait between retries (ex: 10s)
	MongoPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)

	// Redis
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)

	ConnectWarnThreshold int // warn after this many failed connection attempts

	// Auth (at least one source is required)
	JWTSecret  string // HS256 shared secret
	JWTIssuer  string // optional, enforced when set
	TokensFile string // optional YAML file of static API tokens

	CORSOrigins  []string // optional, empty = CORS disabled
	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict /readyz and /metrics to specific IPs (e.g. "1.2.3.4, 10.0.0.0/8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

// Load reads the optional env file, then the process environment.
// Invalid configurations panic.
func Load() *Config {
	loadEnvFile(getenv("BOOKMARKS_ENV_FILE", ".env"))

	mongoURI := getenv("MONGO_URI", "mongodb://localhost:27017/nodb")

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("BOOKMARKS_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("BOOKMARKS_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("BOOKMARKS_REQUEST_TIMEOUT", 5*time.Second),
		MaxBodyBytes:    int64(getenvInt("BOOKMARKS_MAX_BODY_BYTES", 1<<20)),

		// Logging
		LogLevel:  getenv("BOOKMARKS_LOG_LEVEL", "info"),
		PrettyLog: mustBool("BOOKMARKS_PRETTY_LOG", false),

		Store: strings.ToLower(getenv("BOOKMARKS_STORE", StoreMongo)),

		// MongoDB settings
		MongoURI:            mongoURI,
		MongoDatabase:       getenv("MONGO_DATABASE", mongo.DatabaseFromURI(mongoURI, mongo.DefaultDatabase)),
		MongoConnectTimeout: mustDuration("MONGO_CONNECT_TIMEOUT", 30*time.Second),
		MongoRetryInterval:  mustDuration("MONGO_RETRY_INTERVAL", 2*time.Second),
		MongoMaxWait:        mustDuration("MONGO_MAX_WAIT", 10*time.Second),
		MongoPingTimeout:    mustDuration("MONGO_PING_TIMEOUT", 5*time.Second),

		// Redis settings
		RedisAddr:           getenv("BOOKMARKS_REDIS_ADDR", "localhost:6379"),
		RedisUser:           getenv("BOOKMARKS_REDIS_USERNAME", ""),
		RedisPassword:       getenv("BOOKMARKS_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("BOOKMARKS_REDIS_DB", 0),
		RedisDT:             mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),

		ConnectWarnThreshold: getenvInt("BOOKMARKS_CONNECT_WARN_THRESHOLD", 3),

		// Auth
		JWTSecret:  getenv("BOOKMARKS_JWT_SECRET", ""),
		JWTIssuer:  getenv("BOOKMARKS_JWT_ISSUER", ""),
		TokensFile: getenv("BOOKMARKS_TOKENS_FILE", ""),

		// Access restrictions
		CORSOrigins:  splitAndTrim(getenv("BOOKMARKS_CORS_ORIGINS", "")),
		AllowedHosts: splitAndTrim(getenv("BOOKMARKS_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("BOOKMARKS_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("BOOKMARKS_TRUST_PROXY", false),
	}

	if err := cfg.Validate(); err != nil {
		panic("❌ FATAL: " + err.Error())
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreMongo, StoreRedis, StoreMemory:
	default:
		return fmt.Errorf("BOOKMARKS_STORE must be one of %s, %s, %s (got %q)", StoreMongo, StoreRedis, StoreMemory, c.Store)
	}
	if c.JWTSecret == "" && c.TokensFile == "" {
		return errors.New("no auth source configured: set BOOKMARKS_JWT_SECRET and/or BOOKMARKS_TOKENS_FILE")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("BOOKMARKS_MAX_BODY_BYTES must be positive (got %d)", c.MaxBodyBytes)
	}
	return nil
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() Config {
	cp := *c
	if cp.RedisPassword != "" {
		cp.RedisPassword = "***REDACTED***"
	}
	if cp.JWTSecret != "" {
		cp.JWTSecret = "***REDACTED***"
	}
	cp.MongoURI = mongo.Redact(cp.MongoURI)
	return cp
}

// loadEnvFile loads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func loadEnvFile(path string) {
	if path == "" {
		return
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(fmt.Sprintf("❌ FATAL: unable to load env file %s: %v", path, err))
	}
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
