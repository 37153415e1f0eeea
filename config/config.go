package config

import (
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultBaseURL is the PriceLabs customer API root.
const DefaultBaseURL = "https://api.pricelabs.co/v1"

// viewTimeoutMargin is how long view clients outlast the proxy's upstream
// deadline.
const viewTimeoutMargin = 5 * time.Second

// Config holds all application configuration loaded from environment variables.
type Config struct {
	APIKey  string
	BaseURL string

	ListenAddr string
	ProxyURL   string

	UpstreamTimeoutSec  int
	RefreshCooldownSec  int
	ProxyRateLimitPerMn int

	LogLevel  string
	LogFormat string

	CSVOutputPath string
	SnapshotPath  string
	DashboardURL  string
	ChromeBin     string
}

// Load reads the given env files (default ".env") and returns a populated
// Config struct.
func Load(envFiles ...string) *Config {
	if err := godotenv.Load(envFiles...); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	cfg := &Config{
		APIKey:  getEnv("PRICELABS_API_KEY", ""),
		BaseURL: strings.TrimRight(getEnv("PRICELABS_BASE_URL", DefaultBaseURL), "/"),

		ListenAddr: getEnv("LISTEN_ADDR", ":3000"),
		ProxyURL:   getEnv("PROXY_URL", ""),

		UpstreamTimeoutSec:  getEnvInt("UPSTREAM_TIMEOUT_SECONDS", 30),
		RefreshCooldownSec:  getEnvInt("REFRESH_COOLDOWN_SECONDS", 120),
		ProxyRateLimitPerMn: getEnvInt("PROXY_RATE_LIMIT_PER_MIN", 0),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),

		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", "./output/group_summary.csv"),
		SnapshotPath:  getEnv("SNAPSHOT_PATH", "./output/dashboard.png"),
		DashboardURL:  getEnv("DASHBOARD_URL", ""),
		ChromeBin:     getEnv("CHROME_BIN", ""),
	}

	if cfg.ProxyURL == "" {
		cfg.ProxyURL = cfg.localURL() + "/api/pricelabs/listings"
	}
	if cfg.DashboardURL == "" {
		cfg.DashboardURL = cfg.localURL() + "/"
	}
	return cfg
}

// UpstreamTimeout is the HTTP client timeout for calls to PriceLabs.
func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.UpstreamTimeoutSec) * time.Second
}

// ViewTimeout is the HTTP client timeout for view calls to the proxy route.
func (c *Config) ViewTimeout() time.Duration {
	return c.UpstreamTimeout() + viewTimeoutMargin
}

// RefreshCooldown is how long manual refresh stays disabled after a
// successful refresh.
func (c *Config) RefreshCooldown() time.Duration {
	return time.Duration(c.RefreshCooldownSec) * time.Second
}

// ListingsURL is the upstream listings endpoint.
func (c *Config) ListingsURL() string {
	return c.BaseURL + "/listings"
}

// localURL points at the listener on the loopback interface.
func (c *Config) localURL() string {
	host, port, err := net.SplitHostPort(c.ListenAddr)
	if err != nil {
		return "http://127.0.0.1:3000"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
