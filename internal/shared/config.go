package shared

import (
	"net"
	"os"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBTimeout  time.Duration

	SearchBase     string
	SearchKey      string
	SearchEngineID string
	SearchTimeout  time.Duration

	OllamaBase        string
	OllamaModel       string
	GenerationTimeout time.Duration

	ReviewMaxChars     int
	SearchTextMaxChars int
	SearchResultsTaken int
	RequestTimeout     time.Duration
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first when present; real environment
// variables win over it.
func Load() Config {
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-integer value")
		}
		return def
	}
	secs := func(k string, def int) time.Duration {
		return time.Duration(atoi(k, def)) * time.Second
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		LogLevel:    env("LOG_LEVEL", "info"),
		HTTPAddr:    env("HTTP_ADDR", ":5055"),
		MetricsAddr: env("METRICS_ADDR", ""),

		DBHost:     env("DB_HOST", "localhost"),
		DBPort:     atoi("DB_PORT", 3306),
		DBUser:     env("DB_USER", ""),
		DBPassword: env("DB_PASSWORD", ""),
		DBName:     env("DB_NAME", "airline_reviews"),
		DBTimeout:  secs("DB_TIMEOUT_SECONDS", 5),

		SearchBase:     env("SEARCH_BASE_URL", "https://www.googleapis.com/customsearch/v1"),
		SearchKey:      env("SEARCH_API_KEY", ""),
		SearchEngineID: env("SEARCH_ENGINE_ID", ""),
		SearchTimeout:  secs("SEARCH_TIMEOUT_SECONDS", 10),

		OllamaBase:        env("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:       env("OLLAMA_MODEL", "gemma:2b"),
		GenerationTimeout: secs("GENERATION_TIMEOUT_SECONDS", 60),

		ReviewMaxChars:     atoi("REVIEW_MAX_CHARS", 1000),
		SearchTextMaxChars: atoi("SEARCH_TEXT_MAX_CHARS", 1000),
		SearchResultsTaken: atoi("SEARCH_RESULTS_TAKEN", 2),
		RequestTimeout:     secs("REQUEST_TIMEOUT_SECONDS", 90),
	}
	if !c.RequestTimeoutCoversCalls() {
		log.Warn().
			Dur("request_timeout", c.RequestTimeout).
			Dur("calls_total", c.DBTimeout+c.SearchTimeout+c.GenerationTimeout).
			Msg("REQUEST_TIMEOUT_SECONDS does not exceed the store and upstream timeouts; requests may end without a reply")
	}
	if c.DBUser == "" {
		log.Warn().Msg("DB_USER is empty")
	}
	if c.SearchKey == "" || c.SearchEngineID == "" {
		log.Warn().Msg("SEARCH_API_KEY or SEARCH_ENGINE_ID is empty")
	}
	return c
}

// RequestTimeoutCoversCalls reports whether a request outlives the
// slowest path through an action, so every call ends with a reply
// instead of the router's timeout response.
func (c Config) RequestTimeoutCoversCalls() bool {
	return c.RequestTimeout > c.DBTimeout+c.SearchTimeout+c.GenerationTimeout
}

// MySQLDSN builds the driver DSN from the discrete connection settings.
func (c Config) MySQLDSN() string {
	mc := mysql.NewConfig()
	mc.User = c.DBUser
	mc.Passwd = c.DBPassword
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.DBHost, strconv.Itoa(c.DBPort))
	mc.DBName = c.DBName
	mc.Timeout = c.DBTimeout
	mc.ParseTime = true
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
