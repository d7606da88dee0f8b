package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"SignalsPro/internal/backtest"
)

// Watch is one asset/timeframe pair analysed on schedule.
type Watch struct {
	Asset     string `yaml:"asset"`
	Timeframe string `yaml:"timeframe"`
}

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Broker struct {
		Mode        string  `yaml:"mode"` // demo | rest
		BaseURL     string  `yaml:"base_url"`
		APIKey      string  `yaml:"api_key"`
		Email       string  `yaml:"email"`
		Password    string  `yaml:"password"`
		DemoBalance float64 `yaml:"demo_balance"`
	} `yaml:"broker"`
	DataSource struct {
		Kind string `yaml:"kind"` // broker | yahoo | mock
	} `yaml:"data_source"`
	Market struct {
		Assets           []string       `yaml:"assets"`
		Timeframes       map[string]int `yaml:"timeframes"` // label -> seconds
		DefaultAsset     string         `yaml:"default_asset"`
		DefaultTimeframe string         `yaml:"default_timeframe"`
		CandleCount      int            `yaml:"candle_count"`
		MinCandles       int            `yaml:"min_candles"`
	} `yaml:"market"`
	Strategy struct {
		RSIPeriod int `yaml:"rsi_period"`
		SMAPeriod int `yaml:"sma_period"`
	} `yaml:"strategy"`
	Backtest struct {
		WindowSize  int    `yaml:"window_size"`
		FlatOutcome string `yaml:"flat_outcome"` // put | call | skip
		CandleCount int    `yaml:"candle_count"`
	} `yaml:"backtest"`
	Order struct {
		Amount float64 `yaml:"amount"`
	} `yaml:"order"`
	Schedule struct {
		SignalCron   string  `yaml:"signal_cron"`
		BacktestCron string  `yaml:"backtest_cron"`
		Watchlist    []Watch `yaml:"watchlist"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
		Service     string `yaml:"service"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads .env, then the YAML file, then applies environment variable overrides and defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("IQ_OPTION_EMAIL"); v != "" {
		cfg.Broker.Email = v
	}
	if v := os.Getenv("IQ_OPTION_PASSWORD"); v != "" {
		cfg.Broker.Password = v
	}
	if v := os.Getenv("BROKER_BASE_URL"); v != "" {
		cfg.Broker.BaseURL = v
	}
	if v := os.Getenv("BROKER_API_KEY"); v != "" {
		cfg.Broker.APIKey = v
	}
	if v := os.Getenv("BROKER_MODE"); v != "" {
		cfg.Broker.Mode = v
	}
	if v := os.Getenv("DATA_SOURCE"); v != "" {
		cfg.DataSource.Kind = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("ORDER_AMOUNT"); v != "" {
		if amount, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Order.Amount = amount
		}
	}
	if v := os.Getenv("SIGNAL_CRON"); v != "" {
		cfg.Schedule.SignalCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Broker.Mode == "" {
		cfg.Broker.Mode = "demo"
	}
	if cfg.Broker.DemoBalance == 0 {
		cfg.Broker.DemoBalance = 10000
	}
	if cfg.DataSource.Kind == "" {
		cfg.DataSource.Kind = "broker"
		if cfg.Broker.BaseURL == "" {
			cfg.DataSource.Kind = "yahoo"
		}
	}
	if len(cfg.Market.Assets) == 0 {
		cfg.Market.Assets = []string{"EURUSD-OTC", "BTCUSD", "ETHUSD", "GBPUSD"}
	}
	if len(cfg.Market.Timeframes) == 0 {
		cfg.Market.Timeframes = map[string]int{"1m": 60, "5m": 300, "15m": 900}
	}
	if cfg.Market.DefaultAsset == "" {
		cfg.Market.DefaultAsset = cfg.Market.Assets[0]
	}
	if cfg.Market.DefaultTimeframe == "" {
		cfg.Market.DefaultTimeframe = "1m"
	}
	if cfg.Market.CandleCount == 0 {
		cfg.Market.CandleCount = 100
	}
	if cfg.Market.MinCandles == 0 {
		cfg.Market.MinCandles = 20
	}
	if cfg.Strategy.RSIPeriod == 0 {
		cfg.Strategy.RSIPeriod = 14
	}
	if cfg.Strategy.SMAPeriod == 0 {
		cfg.Strategy.SMAPeriod = 20
	}
	if cfg.Backtest.WindowSize == 0 {
		cfg.Backtest.WindowSize = backtest.DefaultWindowSize
	}
	if cfg.Backtest.FlatOutcome == "" {
		cfg.Backtest.FlatOutcome = "put"
	}
	if cfg.Backtest.CandleCount == 0 {
		cfg.Backtest.CandleCount = 300
	}
	if cfg.Order.Amount == 0 {
		cfg.Order.Amount = 1
	}
	if cfg.Schedule.SignalCron == "" {
		cfg.Schedule.SignalCron = "0 */5 * * * *"
	}
	if len(cfg.Schedule.Watchlist) == 0 {
		cfg.Schedule.Watchlist = []Watch{{Asset: cfg.Market.DefaultAsset, Timeframe: cfg.Market.DefaultTimeframe}}
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Service == "" {
		cfg.Log.Service = "signals-pro"
	}
}

// minOrderAmount is the smallest stake a broker accepts (one cent).
const minOrderAmount = 0.01

// Validate checks that all required fields are consistent.
func (c *Config) Validate() error {
	for label, secs := range c.Market.Timeframes {
		switch secs {
		case 60, 300, 900:
		default:
			return fmt.Errorf("market.timeframes[%s]: granularity must be 60, 300 or 900, got %d", label, secs)
		}
	}
	if _, ok := c.Market.Timeframes[c.Market.DefaultTimeframe]; !ok {
		return fmt.Errorf("market.default_timeframe %q is not a configured timeframe", c.Market.DefaultTimeframe)
	}
	for _, w := range c.Schedule.Watchlist {
		if w.Asset == "" {
			return fmt.Errorf("schedule.watchlist: asset is required")
		}
		if _, ok := c.Market.Timeframes[w.Timeframe]; !ok {
			return fmt.Errorf("schedule.watchlist: unknown timeframe %q", w.Timeframe)
		}
	}
	if c.Market.MinCandles < 2 {
		return fmt.Errorf("market.min_candles must be at least 2")
	}
	if c.Market.CandleCount < c.Market.MinCandles {
		return fmt.Errorf("market.candle_count (%d) must be >= market.min_candles (%d)", c.Market.CandleCount, c.Market.MinCandles)
	}
	if c.Backtest.CandleCount <= c.Backtest.WindowSize {
		return fmt.Errorf("backtest.candle_count must exceed backtest.window_size")
	}
	if _, err := backtest.ParseFlatPolicy(c.Backtest.FlatOutcome); err != nil {
		return fmt.Errorf("backtest.flat_outcome: %w", err)
	}
	if c.Order.Amount < minOrderAmount {
		return fmt.Errorf("order.amount must be at least %.2f, got %v", minOrderAmount, c.Order.Amount)
	}
	switch c.Broker.Mode {
	case "demo":
	case "rest":
		if c.Broker.BaseURL == "" {
			return fmt.Errorf("broker.base_url is required in rest mode")
		}
	default:
		return fmt.Errorf("broker.mode must be demo or rest, got %q", c.Broker.Mode)
	}
	switch c.DataSource.Kind {
	case "broker":
		if c.Broker.BaseURL == "" {
			return fmt.Errorf("broker.base_url is required when data_source.kind is broker")
		}
	case "yahoo", "mock":
	default:
		return fmt.Errorf("data_source.kind must be broker, yahoo or mock, got %q", c.DataSource.Kind)
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required when telegram.bot_token is set")
	}
	return nil
}

// Granularity resolves a timeframe label such as "5m" to seconds.
func (c *Config) Granularity(label string) (int, error) {
	secs, ok := c.Market.Timeframes[strings.ToLower(label)]
	if !ok {
		return 0, fmt.Errorf("unknown timeframe %q (available: %s)", label, strings.Join(c.TimeframeLabels(), ", "))
	}
	return secs, nil
}

// TimeframeLabels returns the configured labels ordered by duration.
func (c *Config) TimeframeLabels() []string {
	labels := make([]string, 0, len(c.Market.Timeframes))
	for l := range c.Market.Timeframes {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		return c.Market.Timeframes[labels[i]] < c.Market.Timeframes[labels[j]]
	})
	return labels
}

// FlatPolicy returns the parsed backtest flat outcome policy.
func (c *Config) FlatPolicy() backtest.FlatPolicy {
	p, _ := backtest.ParseFlatPolicy(c.Backtest.FlatOutcome)
	return p
}
