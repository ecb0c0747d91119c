package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Client  ClientConfig  `yaml:"client"`
	Venue   VenueConfig   `yaml:"venue"`
	Feed    FeedConfig    `yaml:"feed"`
	Order   OrderConfig   `yaml:"order"`
	View    ViewConfig    `yaml:"view"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type ClientConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// VenueConfig locates the trading venue. Paths may contain the {symbol} and
// {order_id} placeholders.
type VenueConfig struct {
	Host       string `yaml:"host"`
	Symbol     string `yaml:"symbol"`
	WSScheme   string `yaml:"ws_scheme"`
	HTTPScheme string `yaml:"http_scheme"`
	FeedPath   string `yaml:"feed_path"`
	OrdersPath string `yaml:"orders_path"`
	CancelPath string `yaml:"cancel_path"`
}

type FeedConfig struct {
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	ReadLimitBytes   int64         `yaml:"read_limit_bytes"`
	PingInterval     time.Duration `yaml:"ping_interval"`
	EventBuffer      int           `yaml:"event_buffer"`
}

type OrderConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
	Defaults  FormDefaults  `yaml:"defaults"`
}

// FormDefaults are the values the order form starts with and returns to
// after a successful submission.
type FormDefaults struct {
	Symbol    string `yaml:"symbol"`
	Side      string `yaml:"side"`
	OrderType string `yaml:"order_type"`
	Quantity  string `yaml:"quantity"`
	Price     string `yaml:"price"`
}

type ViewConfig struct {
	// TradeLimit caps the visible trade rows; 0 keeps every trade.
	TradeLimit int  `yaml:"trade_limit"`
	ANSI       bool `yaml:"ansi"`
	// UnrecognizedLogRate bounds warn logs for messages of unknown shape.
	UnrecognizedLogRate float64 `yaml:"unrecognized_log_rate"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
	MaxAge int    `yaml:"max_age"`
}

type MetricsConfig struct {
	PrometheusAddr string           `yaml:"prometheus_addr"`
	ReportInterval time.Duration    `yaml:"report_interval"`
	CloudWatch     CloudWatchConfig `yaml:"cloudwatch"`
}

type CloudWatchConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Region          string `yaml:"region"`
	Namespace       string `yaml:"namespace"`
	Dashboard       string `yaml:"dashboard"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// Default returns the configuration used when a key is absent from the file.
func Default() Config {
	return Config{
		Client: ClientConfig{Name: "orderdesk", Version: "0.1.0"},
		Venue: VenueConfig{
			Host:       "localhost:8000",
			Symbol:     "BTC-USDT",
			WSScheme:   "ws",
			HTTPScheme: "http",
			FeedPath:   "/ws/orderbook/{symbol}",
			OrdersPath: "/api/v1/orders",
			CancelPath: "/order/{order_id}",
		},
		Feed: FeedConfig{
			HandshakeTimeout: 10 * time.Second,
			ReadLimitBytes:   1 << 20,
			EventBuffer:      256,
		},
		Order: OrderConfig{
			Timeout:   10 * time.Second,
			UserAgent: "orderdesk/0.1.0",
			Defaults: FormDefaults{
				Side:      "buy",
				OrderType: "limit",
			},
		},
		View: ViewConfig{ANSI: true, UnrecognizedLogRate: 1},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Metrics: MetricsConfig{
			ReportInterval: 30 * time.Second,
			CloudWatch:     CloudWatchConfig{Namespace: "OrderDesk", Dashboard: "OrderDesk"},
		},
	}
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnv(&config)

	if config.Order.Defaults.Symbol == "" {
		config.Order.Defaults.Symbol = config.Venue.Symbol
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ORDERDESK_HOST"); v != "" {
		cfg.Venue.Host = strings.TrimSpace(v)
	}
	if v := os.Getenv("ORDERDESK_SYMBOL"); v != "" {
		cfg.Venue.Symbol = strings.TrimSpace(v)
	}
	if cfg.Metrics.CloudWatch.Enabled {
		if v := os.Getenv("AWS_REGION"); v != "" {
			cfg.Metrics.CloudWatch.Region = strings.TrimSpace(v)
		}
		if v := os.Getenv("AWS_ACCESS_KEY_ID"); v != "" {
			cfg.Metrics.CloudWatch.AccessKeyID = strings.TrimSpace(v)
		}
		if v := os.Getenv("AWS_SECRET_ACCESS_KEY"); v != "" {
			cfg.Metrics.CloudWatch.SecretAccessKey = strings.TrimSpace(v)
		}
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Client.Name == "" {
		return fmt.Errorf("client.name is required")
	}
	if cfg.Venue.Host == "" {
		return fmt.Errorf("venue.host is required")
	}
	if cfg.Venue.Symbol == "" {
		return fmt.Errorf("venue.symbol is required")
	}
	if !strings.Contains(cfg.Venue.FeedPath, "{symbol}") {
		return fmt.Errorf("venue.feed_path must contain {symbol}")
	}
	if !strings.Contains(cfg.Venue.CancelPath, "{order_id}") {
		return fmt.Errorf("venue.cancel_path must contain {order_id}")
	}
	switch cfg.Venue.WSScheme {
	case "ws", "wss":
	default:
		return fmt.Errorf("venue.ws_scheme '%s' is invalid", cfg.Venue.WSScheme)
	}
	switch cfg.Venue.HTTPScheme {
	case "http", "https":
	default:
		return fmt.Errorf("venue.http_scheme '%s' is invalid", cfg.Venue.HTTPScheme)
	}
	if cfg.Feed.EventBuffer <= 0 {
		return fmt.Errorf("feed.event_buffer must be greater than 0")
	}
	if cfg.Feed.PingInterval < 0 {
		return fmt.Errorf("feed.ping_interval must not be negative")
	}
	if cfg.Order.Timeout <= 0 {
		return fmt.Errorf("order.timeout must be greater than 0")
	}
	if cfg.View.TradeLimit < 0 {
		return fmt.Errorf("view.trade_limit must not be negative")
	}
	if cfg.Metrics.CloudWatch.Enabled && cfg.Metrics.CloudWatch.Namespace == "" {
		return fmt.Errorf("metrics.cloudwatch.namespace is required when CloudWatch is enabled")
	}
	return nil
}

// FeedURL is the market data stream for the configured symbol.
func (c *Config) FeedURL() string {
	path := strings.ReplaceAll(c.Venue.FeedPath, "{symbol}", url.PathEscape(c.Venue.Symbol))
	return c.Venue.WSScheme + "://" + c.Venue.Host + path
}

// OrdersURL is the order intake endpoint.
func (c *Config) OrdersURL() string {
	return c.Venue.HTTPScheme + "://" + c.Venue.Host + c.Venue.OrdersPath
}

// CancelURL is the cancel endpoint for one order.
func (c *Config) CancelURL(orderID string) string {
	path := strings.ReplaceAll(c.Venue.CancelPath, "{order_id}", url.PathEscape(orderID))
	return c.Venue.HTTPScheme + "://" + c.Venue.Host + path
}
