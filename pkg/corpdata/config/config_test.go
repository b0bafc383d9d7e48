package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komsit37/corpdata/pkg/corpdata/columns"
	"github.com/komsit37/corpdata/pkg/corpdata/puller"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "corpdata.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "yahoo", cfg.Quote.Provider)
	assert.Equal(t, 256, cfg.Quote.CacheSize)
	assert.Zero(t, cfg.Quote.CacheTTL)
	assert.Equal(t, 1, cfg.Profile.Concurrency)
	assert.Nil(t, cfg.PriceTypes)
	sel, err := cfg.Selection()
	require.NoError(t, err)
	assert.Equal(t, puller.Selection{}, sel)
}

func TestLoad_File(t *testing.T) {
	p := writeConfig(t, `
log:
  level: debug
http:
  timeout: 5s
  rate_limit: 2
  retries: 3
quote:
  provider: summary
  cache_ttl: 10m
profile:
  concurrency: 3
sets: [valuation]
price_types: [Open, adj close]
trade_attributes: marketCap
company_attributes: [sector, 7]
`)
	cfg, err := Load(p, nil)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 2.0, cfg.HTTP.RateLimit)
	assert.Equal(t, 3, cfg.HTTP.Retries)
	assert.Equal(t, "summary", cfg.Quote.Provider)
	assert.Equal(t, 10*time.Minute, cfg.Quote.CacheTTL)
	assert.Equal(t, 3, cfg.Profile.Concurrency)
	assert.Equal(t, []string{"valuation"}, cfg.Sets)
	assert.Equal(t, []any{"Open", "adj close"}, cfg.PriceTypes)
	assert.Equal(t, []string{"marketCap"}, cfg.TradeAttributes)

	// Non-string entries reach the puller untouched and fail validation there.
	sel, err := cfg.Selection()
	require.NoError(t, err)
	assert.Equal(t, []string{"marketCap", "trailingPE", "forwardPE", "priceToBook", "bookValue",
		"epsTrailingTwelveMonths", "epsForward", "sharesOutstanding"}, sel.TradeAttributes.([]string)[1:])
	_, err = puller.New(sel)
	var ce *puller.ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{"companyAttributes must only contain strings."}, ce.Problems)

	opts := cfg.HTTPOptions()
	assert.Equal(t, 5*time.Second, opts.Timeout)
	assert.Equal(t, 3, opts.Retries)
	assert.Equal(t, "debug", cfg.LoggerOptions().Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	p := writeConfig(t, "log:\n  level: debug\n")
	t.Setenv("CORPDATA_LOG_LEVEL", "warn")
	t.Setenv("CORPDATA_PRICE_TYPES", "Open, Close")
	t.Setenv("CORPDATA_HTTP_PROXY", "http://proxy:3128")

	cfg, err := Load(p, nil)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, []string{"Open", "Close"}, cfg.PriceTypes)
	assert.Equal(t, "http://proxy:3128", cfg.HTTP.Proxy)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CORPDATA_QUOTE_PROVIDER=summary\n"), 0o644))
	t.Setenv("CORPDATA_QUOTE_PROVIDER", "")
	os.Unsetenv("CORPDATA_QUOTE_PROVIDER")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "summary", cfg.Quote.Provider)
}

func TestLoad_FlagsWin(t *testing.T) {
	p := writeConfig(t, "log:\n  level: debug\nprice_types: [Open]\n")
	t.Setenv("CORPDATA_LOG_LEVEL", "warn")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("log-level", "info", "")
	fs.StringSlice("price-types", nil, "")
	fs.Duration("cache-ttl", 0, "")
	fs.String("log-format", "console", "")
	require.NoError(t, fs.Parse([]string{"--log-level", "error", "--price-types", "Close,Volume", "--cache-ttl", "90s"}))

	cfg, err := Load(p, fs)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, []string{"Close", "Volume"}, cfg.PriceTypes)
	assert.Equal(t, 90*time.Second, cfg.Quote.CacheTTL)
	// Unchanged flags do not shadow the defaults.
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(writeConfig(t, "quote:\n  provider: bloomberg\n"), nil)
	assert.ErrorContains(t, err, "quote.provider")

	_, err = Load(writeConfig(t, "http:\n  retries: -1\n"), nil)
	assert.ErrorContains(t, err, "http.retries")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestSelection_Sets(t *testing.T) {
	cfg := &Config{Sets: []string{"ohlc", "company"}, PriceTypes: "Adj Close", TradeAttributes: []any{"bid"}}
	sel, err := cfg.Selection()
	require.NoError(t, err)
	assert.Equal(t, []string{"Adj Close", "Open", "High", "Low", "Close", "Volume"}, sel.PriceTypes)
	assert.Equal(t, []any{"bid"}, sel.TradeAttributes)
	assert.Equal(t, []string{"sector", "industry", "full time employees"}, sel.CompanyAttributes)

	p, err := puller.New(sel)
	require.NoError(t, err)
	assert.Len(t, p.PriceTypes(), 6)

	cfg.Sets = []string{"nope"}
	_, err = cfg.Selection()
	var use *columns.UnknownSetError
	assert.ErrorAs(t, err, &use)
}
