package main

import (
	"context"
	"os"
	"os/signal"
	"strings"

	yfgo "github.com/komsit37/yf-go"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/komsit37/corpdata/pkg/corpdata/config"
	"github.com/komsit37/corpdata/pkg/corpdata/history"
	"github.com/komsit37/corpdata/pkg/corpdata/httpx"
	"github.com/komsit37/corpdata/pkg/corpdata/logger"
	"github.com/komsit37/corpdata/pkg/corpdata/pipeline"
	"github.com/komsit37/corpdata/pkg/corpdata/profile"
	"github.com/komsit37/corpdata/pkg/corpdata/puller"
	"github.com/komsit37/corpdata/pkg/corpdata/quote"
	"github.com/komsit37/corpdata/pkg/corpdata/render"
)

// app carries state shared by subcommands after the root pre-run.
type app struct {
	configPath  string
	color       bool
	pretty      bool
	maxColWidth int

	cfg *config.Config
	log zerolog.Logger
}

func main() {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:          "corpdata",
		Short:        "Pull historical prices and company attributes for tickers",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath, cmd.Flags())
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = logger.New(cfg.LoggerOptions())
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default ./corpdata.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "console", "log format: console or json")
	pf.StringSlice("price-types", nil, "price types, e.g. \"Open,Adj Close\"")
	pf.StringSlice("trade-attrs", nil, "quote fields, e.g. marketCap,trailingPE")
	pf.StringSlice("company-attrs", nil, "profile fields: sector, industry, full time employees")
	pf.StringSlice("sets", nil, "named field sets to add (see 'corpdata fields')")
	pf.Duration("timeout", 0, "per request timeout")
	pf.Float64("rate-limit", 0, "max requests per second (0 = unlimited)")
	pf.Int("retries", 0, "retries on 5xx/429 responses")
	pf.String("proxy", "", "HTTP proxy URL")
	pf.String("quote-source", "yahoo", "quote source: yahoo or summary")
	pf.Duration("cache-ttl", 0, "cache quotes for this long (0 = off)")
	pf.Int("concurrency", 1, "parallel profile lookups per ticker")
	pf.BoolVar(&a.color, "color", true, "colorize table output")
	pf.BoolVar(&a.pretty, "pretty", false, "indent JSON output")
	pf.IntVar(&a.maxColWidth, "max-col-width", 0, "wrap table columns at this width (0 = auto)")

	rootCmd.AddCommand(a.attrsCmd(), a.pricesCmd(), a.fieldsCmd(), a.universeCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// newPuller wires the configured sources into a Puller.
func (a *app) newPuller() (*puller.Puller, error) {
	sel, err := a.cfg.Selection()
	if err != nil {
		return nil, err
	}
	client := httpx.New(a.cfg.HTTPOptions(), a.log)
	// One yf-go client shares the session crumb between quotes and history.
	yf := yfgo.NewClient(yfgo.WithHTTPClient(client.HTTPClient()), yfgo.WithCacheDisabled())

	var quotes quote.Source
	switch strings.ToLower(a.cfg.Quote.Provider) {
	case "summary":
		quotes = quote.NewSummary(yf)
	default:
		quotes = quote.NewYahoo(yf)
	}
	if a.cfg.Quote.CacheTTL > 0 {
		quotes = quote.NewCache(quotes, a.cfg.Quote.CacheTTL, a.cfg.Quote.CacheSize)
	}

	return puller.New(sel,
		puller.WithQuoteSource(quotes),
		puller.WithProfileSource(profile.NewScraper(client, a.cfg.Profile.BaseURL, a.log)),
		puller.WithHistorySource(history.NewYahoo(yf, a.log)),
		puller.WithLogger(a.log),
		puller.WithProfileConcurrency(a.cfg.Profile.Concurrency),
	)
}

func (a *app) runner(format string, p *puller.Puller) (*pipeline.Runner, error) {
	r, err := render.New(format)
	if err != nil {
		return nil, err
	}
	return &pipeline.Runner{Puller: p, Renderer: r, Writer: os.Stdout, Log: a.log}, nil
}

func (a *app) columnWidth() int {
	if a.maxColWidth > 0 {
		return a.maxColWidth
	}
	if w := detectTerminalWidth(); w > 0 {
		return min(max(w/4, 20), 60)
	}
	return 0
}
