package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultDatabasePath    = "../db/telephony.db"
	defaultMockServerURL   = "http://mock-server:8001"
	defaultPollingInterval = 60
	defaultRequestTimeout  = 10
	defaultListenAddr      = ":8080"

	uccxStatsPath = "/api/uccx/stats"
	cucmStatsPath = "/api/cucm/system/stats"
)

// Config holds the gateway settings. All values are environment-supplied
// with defaults; a missing variable never fails startup.
type Config struct {
	DatabasePath    string
	MockServerURL   string
	PollingInterval int
	EnablePolling   bool
	RequestTimeout  int
	ListenAddr      string
}

// Load reads configuration from the environment on top of the defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("database_path", defaultDatabasePath)
	v.SetDefault("mock_server_url", defaultMockServerURL)
	v.SetDefault("polling_interval", defaultPollingInterval)
	v.SetDefault("enable_polling", true)
	v.SetDefault("request_timeout", defaultRequestTimeout)
	v.SetDefault("listen_addr", defaultListenAddr)

	v.AutomaticEnv()

	cfg := &Config{
		DatabasePath:    v.GetString("database_path"),
		MockServerURL:   v.GetString("mock_server_url"),
		PollingInterval: v.GetInt("polling_interval"),
		EnablePolling:   v.GetBool("enable_polling"),
		RequestTimeout:  v.GetInt("request_timeout"),
		ListenAddr:      v.GetString("listen_addr"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("invalid configuration: database path is empty")
	}
	if c.MockServerURL == "" {
		return fmt.Errorf("invalid configuration: mock server URL is empty")
	}
	if c.PollingInterval <= 0 {
		return fmt.Errorf("invalid configuration: polling interval must be positive, got %d", c.PollingInterval)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("invalid configuration: request timeout must be positive, got %d", c.RequestTimeout)
	}
	return nil
}

// Interval returns the poll interval as a duration.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.PollingInterval) * time.Second
}

// Timeout returns the per-fetch request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// UCCXStatsURL returns the UCCX stats endpoint on the upstream server.
func (c *Config) UCCXStatsURL() string {
	return c.MockServerURL + uccxStatsPath
}

// CUCMStatsURL returns the CUCM stats endpoint on the upstream server.
func (c *Config) CUCMStatsURL() string {
	return c.MockServerURL + cucmStatsPath
}
