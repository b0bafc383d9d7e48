// Package puller retrieves historical prices and company attributes for tickers.
//
// A Puller is configured once with the price types, quote fields and profile
// fields it should fetch, and holds no other state between calls.
package puller

import (
	yfgo "github.com/komsit37/yf-go"
	"github.com/rs/zerolog"

	"github.com/komsit37/corpdata/pkg/corpdata/columns"
	"github.com/komsit37/corpdata/pkg/corpdata/history"
	"github.com/komsit37/corpdata/pkg/corpdata/httpx"
	"github.com/komsit37/corpdata/pkg/corpdata/profile"
	"github.com/komsit37/corpdata/pkg/corpdata/quote"
)

// Puller fetches price tables and attribute maps. It is safe for concurrent use
// when its sources are.
type Puller struct {
	sel selected

	quotes      quote.Source
	profiles    profile.Source
	history     history.Source
	log         zerolog.Logger
	concurrency int
}

// Option customizes a Puller.
type Option func(*Puller)

// WithQuoteSource sets the structured quote source used for trade attributes.
func WithQuoteSource(s quote.Source) Option { return func(p *Puller) { p.quotes = s } }

// WithProfileSource sets the profile page source used for company attributes.
func WithProfileSource(s profile.Source) Option { return func(p *Puller) { p.profiles = s } }

// WithHistorySource sets the historical price source.
func WithHistorySource(s history.Source) Option { return func(p *Puller) { p.history = s } }

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option { return func(p *Puller) { p.log = log } }

// WithProfileConcurrency bounds how many profile lookups run at once. Values below 1 mean 1.
func WithProfileConcurrency(n int) Option { return func(p *Puller) { p.concurrency = n } }

// New validates sel and creates a Puller. Validation errors are returned as a
// single *ConfigurationError listing every problem. Sources not supplied through
// options default to the Yahoo implementations.
func New(sel Selection, opts ...Option) (*Puller, error) {
	s, err := sel.validate()
	if err != nil {
		return nil, err
	}
	p := &Puller{sel: s, log: zerolog.Nop(), concurrency: 1}
	for _, o := range opts {
		o(p)
	}
	if p.concurrency < 1 {
		p.concurrency = 1
	}
	if p.quotes == nil || p.profiles == nil || p.history == nil {
		client := httpx.New(httpx.Options{}, p.log)
		yf := yfgo.NewClient(yfgo.WithHTTPClient(client.HTTPClient()), yfgo.WithCacheDisabled())
		if p.quotes == nil {
			p.quotes = quote.NewYahoo(yf)
		}
		if p.profiles == nil {
			p.profiles = profile.NewScraper(client, "", p.log)
		}
		if p.history == nil {
			p.history = history.NewYahoo(yf, p.log)
		}
	}
	return p, nil
}

// PriceTypes returns a copy of the selected price types.
func (p *Puller) PriceTypes() []string { return append([]string(nil), p.sel.priceTypes...) }

// TradeAttributes returns a copy of the selected quote fields.
func (p *Puller) TradeAttributes() []string { return append([]string(nil), p.sel.tradeAttributes...) }

// CompanyAttributes returns a copy of the selected profile fields.
func (p *Puller) CompanyAttributes() []string {
	return append([]string(nil), p.sel.companyAttributes...)
}

// ValidPriceTypes lists every accepted price type.
func ValidPriceTypes() []string { return append([]string(nil), columns.PriceTypes...) }

// ValidTradeAttributes lists every accepted quote field.
func ValidTradeAttributes() []string { return append([]string(nil), columns.TradeAttributes...) }

// ValidCompanyAttributes lists every accepted profile field.
func ValidCompanyAttributes() []string { return append([]string(nil), columns.CompanyAttributes...) }
