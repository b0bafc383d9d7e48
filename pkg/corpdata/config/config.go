package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/komsit37/corpdata/pkg/corpdata/columns"
	"github.com/komsit37/corpdata/pkg/corpdata/httpx"
	"github.com/komsit37/corpdata/pkg/corpdata/logger"
	"github.com/komsit37/corpdata/pkg/corpdata/puller"
)

// EnvPrefix prefixes every environment variable, e.g. CORPDATA_LOG_LEVEL.
const EnvPrefix = "CORPDATA"

// Config holds all settings of the corpdata CLI.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Quote   QuoteConfig   `mapstructure:"quote"`
	Profile ProfileConfig `mapstructure:"profile"`

	// Sets names field groups from columns.Sets merged into the selection.
	Sets []string `mapstructure:"sets"`

	// Raw selection values; each is nil, a string or a list. They are
	// validated by puller.New, not here.
	PriceTypes        any `mapstructure:"-"`
	TradeAttributes   any `mapstructure:"-"`
	CompanyAttributes any `mapstructure:"-"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type HTTPConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
	Proxy     string        `mapstructure:"proxy"`
	RateLimit float64       `mapstructure:"rate_limit"`
	Burst     int           `mapstructure:"burst"`
	Retries   int           `mapstructure:"retries"`
	Backoff   time.Duration `mapstructure:"backoff"`
}

type QuoteConfig struct {
	// Provider is "yahoo" (flattened quote summary) or "summary" (typed price module).
	Provider  string        `mapstructure:"provider"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
	CacheSize int           `mapstructure:"cache_size"`
}

type ProfileConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	Concurrency int    `mapstructure:"concurrency"`
}

// flagKeys maps CLI flag names to config keys.
var flagKeys = map[string]string{
	"log-level":     "log.level",
	"log-format":    "log.format",
	"price-types":   "price_types",
	"trade-attrs":   "trade_attributes",
	"company-attrs": "company_attributes",
	"sets":          "sets",
	"timeout":       "http.timeout",
	"rate-limit":    "http.rate_limit",
	"retries":       "http.retries",
	"proxy":         "http.proxy",
	"quote-source":  "quote.provider",
	"cache-ttl":     "quote.cache_ttl",
	"concurrency":   "profile.concurrency",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("http.timeout", 30*time.Second)
	v.SetDefault("http.user_agent", httpx.DefaultUserAgent)
	v.SetDefault("http.burst", 1)
	v.SetDefault("http.backoff", time.Second)
	v.SetDefault("quote.provider", "yahoo")
	v.SetDefault("quote.cache_size", 256)
	v.SetDefault("profile.concurrency", 1)
}

// Load reads configuration from, in increasing priority: defaults, the config
// file, environment variables (after loading .env) and changed flags.
// An empty path searches ./corpdata.yaml and $HOME/.config/corpdata/corpdata.yaml;
// a missing file is then not an error.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only resolves keys viper already knows.
	for _, k := range []string{"price_types", "trade_attributes", "company_attributes", "sets",
		"http.proxy", "http.rate_limit", "http.retries", "quote.cache_ttl",
		"profile.base_url"} {
		_ = v.BindEnv(k)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("corpdata")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "corpdata"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Sets = splitList(v.Get("sets"))
	cfg.PriceTypes = listValue(v.Get("price_types"))
	cfg.TradeAttributes = listValue(v.Get("trade_attributes"))
	cfg.CompanyAttributes = listValue(v.Get("company_attributes"))

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch strings.ToLower(c.Quote.Provider) {
	case "yahoo", "summary":
	default:
		return fmt.Errorf("quote.provider must be one of: yahoo, summary")
	}
	if c.HTTP.RateLimit < 0 {
		return fmt.Errorf("http.rate_limit must not be negative")
	}
	if c.HTTP.Retries < 0 {
		return fmt.Errorf("http.retries must not be negative")
	}
	return nil
}

// Selection returns the raw puller selection with the fields of any named
// sets appended.
func (c *Config) Selection() (puller.Selection, error) {
	sel := puller.Selection{
		PriceTypes:        c.PriceTypes,
		TradeAttributes:   c.TradeAttributes,
		CompanyAttributes: c.CompanyAttributes,
	}
	if len(c.Sets) == 0 {
		return sel, nil
	}
	exp, err := columns.ExpandSets(c.Sets)
	if err != nil {
		return puller.Selection{}, err
	}
	sel.PriceTypes = appendList(sel.PriceTypes, exp.PriceTypes)
	sel.TradeAttributes = appendList(sel.TradeAttributes, exp.TradeAttributes)
	sel.CompanyAttributes = appendList(sel.CompanyAttributes, exp.CompanyAttributes)
	return sel, nil
}

// appendList adds extra to a raw list value. Values of any other shape are
// returned as is for puller.New to reject.
func appendList(raw any, extra []string) any {
	if len(extra) == 0 {
		return raw
	}
	switch t := raw.(type) {
	case nil:
		return append([]string(nil), extra...)
	case string:
		return append([]string{t}, extra...)
	case []string:
		return append(append([]string(nil), t...), extra...)
	case []any:
		out := append([]any(nil), t...)
		for _, e := range extra {
			out = append(out, e)
		}
		return out
	}
	return raw
}

// HTTPOptions converts the http section for httpx.New.
func (c *Config) HTTPOptions() httpx.Options {
	return httpx.Options{
		Timeout:   c.HTTP.Timeout,
		UserAgent: c.HTTP.UserAgent,
		Proxy:     c.HTTP.Proxy,
		RateLimit: c.HTTP.RateLimit,
		Burst:     c.HTTP.Burst,
		Retries:   c.HTTP.Retries,
		Backoff:   c.HTTP.Backoff,
	}
}

// LoggerOptions converts the log section for logger.New.
func (c *Config) LoggerOptions() logger.Options {
	return logger.Options{Level: c.Log.Level, Format: c.Log.Format}
}

// listValue passes lists through untouched so that puller validation sees
// the element types as written. Comma-separated strings from env and flags
// become string slices.
func listValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
		return splitList(t)
	}
	return v
}

func splitList(v any) []string {
	switch t := v.(type) {
	case string:
		var out []string
		for _, p := range strings.Split(t, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			out = append(out, fmt.Sprint(e))
		}
		return out
	}
	return nil
}

// loadEnvFile loads the first .env found; variables already set win.
func loadEnvFile() {
	paths := []string{".env"}
	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), ".env"))
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}
