package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Summarizer SummarizerConfig
	Auth       AuthConfig
}

type AppConfig struct {
	AppName          string
	Environment      string
	HTTPPort         string
	CORSAllowOrigins string
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type DatabaseConfig struct {
	Driver string
	Path   string

	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	TTL      time.Duration
}

const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

type SummarizerConfig struct {
	Provider string
	// APIKey is the credential for the selected provider. Empty means the
	// summarization endpoint is not configured.
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration

	BreakerMaxFailures uint32
	BreakerOpenTimeout time.Duration
	RateLimitPerMinute int
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

func (a AuthConfig) Enabled() bool {
	return a.JWTSecret != ""
}

var errMissingRequiredEnv = errors.New("missing required environment variables")
var errInvalidEnv = errors.New("invalid environment variables")

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{}

	var missing []string
	var invalid []string
	req := func(key string) string {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key, def string) string {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return def
		}
		return v
	}
	dur := func(key string, def time.Duration) time.Duration {
		raw := strings.TrimSpace(getenv(key))
		if raw == "" {
			return def
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			if n, nerr := strconv.Atoi(raw); nerr == nil && n >= 0 {
				return time.Duration(n) * time.Second
			}
			invalid = append(invalid, key)
			return def
		}
		return d
	}
	num := func(key string, def int) int {
		raw := strings.TrimSpace(getenv(key))
		if raw == "" {
			return def
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			invalid = append(invalid, key)
			return def
		}
		return n
	}
	flag := func(key string, def bool) bool {
		raw := strings.TrimSpace(getenv(key))
		if raw == "" {
			return def
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return b
	}

	cfg.App = AppConfig{
		AppName:          opt("APP_NAME", "skillstack"),
		Environment:      opt("APP_ENV", "development"),
		HTTPPort:         opt("HTTP_PORT", "5000"),
		CORSAllowOrigins: opt("CORS_ALLOW_ORIGINS", "*"),
	}

	cfg.Database = DatabaseConfig{
		Driver: strings.ToLower(opt("DB_DRIVER", DriverSQLite)),
		Path:   opt("DB_PATH", "instance/skills.db"),

		ConnectTimeout:        dur("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32(num("DB_POOL_MAX_CONNS", 0)),
		PoolMinConns:          int32(num("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   dur("DB_POOL_MAX_CONN_LIFETIME", 0),
		PoolMaxConnIdleTime:   dur("DB_POOL_MAX_CONN_IDLE_TIME", 0),
		PoolHealthCheckPeriod: dur("DB_POOL_HEALTH_CHECK_PERIOD", 0),
	}
	switch cfg.Database.Driver {
	case DriverSQLite:
	case DriverPostgres:
		cfg.Database.DBHost = req("DB_HOST")
		cfg.Database.DBPort = opt("DB_PORT", "5432")
		cfg.Database.DBName = req("DB_NAME")
		cfg.Database.DBUser = req("DB_USER")
		cfg.Database.DBPassword = strings.TrimSpace(getenv("DB_PASSWORD"))
		cfg.Database.DBSSLMode = opt("DB_SSL_MODE", "disable")
	default:
		invalid = append(invalid, "DB_DRIVER")
	}

	cfg.Redis = RedisConfig{
		Enabled:  flag("REDIS_ENABLED", strings.TrimSpace(getenv("REDIS_HOST")) != ""),
		Host:     opt("REDIS_HOST", "localhost"),
		Port:     opt("REDIS_PORT", "6379"),
		Password: strings.TrimSpace(getenv("REDIS_PASSWORD")),
		TTL:      dur("REDIS_TTL", 600*time.Second),
	}

	provider := strings.ToLower(opt("SUMMARIZER_PROVIDER", ProviderGemini))
	cfg.Summarizer = SummarizerConfig{
		Provider:           provider,
		Model:              strings.TrimSpace(getenv("SUMMARIZER_MODEL")),
		BaseURL:            strings.TrimSpace(getenv("SUMMARIZER_BASE_URL")),
		Timeout:            dur("SUMMARIZER_TIMEOUT", 30*time.Second),
		BreakerMaxFailures: uint32(num("SUMMARIZER_BREAKER_MAX_FAILURES", 5)),
		BreakerOpenTimeout: dur("SUMMARIZER_BREAKER_OPEN_TIMEOUT", 30*time.Second),
		RateLimitPerMinute: num("SUMMARIZER_RATE_LIMIT_PER_MINUTE", 30),
	}
	switch provider {
	case ProviderGemini:
		cfg.Summarizer.APIKey = strings.TrimSpace(getenv("GOOGLE_API_KEY"))
	case ProviderOpenAI:
		cfg.Summarizer.APIKey = strings.TrimSpace(getenv("OPENAI_API_KEY"))
	case ProviderAnthropic:
		cfg.Summarizer.APIKey = strings.TrimSpace(getenv("ANTHROPIC_API_KEY"))
	default:
		invalid = append(invalid, "SUMMARIZER_PROVIDER")
	}

	cfg.Auth = AuthConfig{
		JWTSecret: strings.TrimSpace(getenv("AUTH_JWT_SECRET")),
		TokenTTL:  dur("AUTH_TOKEN_TTL", 24*time.Hour),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}

	return cfg, nil
}
