package quote

import (
	"context"
	"fmt"

	yfgo "github.com/komsit37/yf-go"

	"github.com/komsit37/corpdata/pkg/corpdata/types"
)

// TypedSummaryAPI is the part of *yfgo.Client used by Summary.
type TypedSummaryAPI interface {
	QuoteSummaryTyped(ctx context.Context, symbol string, modules []yfgo.QuoteSummaryModule) (yfgo.QuoteSummaryTyped, error)
}

// Summary implements Source on the typed price and summary detail modules of
// yf-go. It only fills the fields those typed modules carry.
type Summary struct {
	api TypedSummaryAPI
}

func NewSummary(api TypedSummaryAPI) *Summary {
	return &Summary{api: api}
}

func (s *Summary) Quote(ctx context.Context, ticker string) (types.Record, error) {
	res, err := s.api.QuoteSummaryTyped(ctx, ticker, []yfgo.QuoteSummaryModule{yfgo.ModulePrice, yfgo.ModuleSummaryDetail})
	if err != nil {
		return nil, fmt.Errorf("quote summary %s: %w", ticker, err)
	}
	return summaryRecord(ticker, res), nil
}

// summaryRecord maps the typed modules onto quote field names. A result
// without a price module is an empty record.
func summaryRecord(ticker string, res yfgo.QuoteSummaryTyped) types.Record {
	rec := types.Record{}
	p := res.Price
	if p == nil {
		return rec
	}
	rec["symbol"] = ticker
	if p.Symbol != "" {
		rec["symbol"] = p.Symbol
	}
	for k, v := range map[string]string{
		"shortName":                 p.ShortName,
		"longName":                  p.LongName,
		"currency":                  p.Currency,
		"exchange":                  p.Exchange,
		"fullExchangeName":          p.FullExchangeName,
		"marketState":               p.MarketState,
		"exchangeTimezoneName":      p.ExchangeTimezoneName,
		"exchangeTimezoneShortName": p.ExchangeTimezoneShortName,
	} {
		if v != "" {
			rec[k] = v
		}
	}
	if p.RegularMarketTime != 0 {
		rec["regularMarketTime"] = p.RegularMarketTime
	}
	nums := map[string]yfgo.YNum{
		"regularMarketPrice":         p.RegularMarketPrice,
		"regularMarketChange":        p.RegularMarketChange,
		"regularMarketChangePercent": p.RegularMarketChangePercent,
		"regularMarketVolume":        p.RegularMarketVolume,
		"regularMarketPreviousClose": p.RegularMarketPreviousClose,
		"averageDailyVolume3Month":   p.AverageDailyVolume3Month,
		"marketCap":                  p.MarketCap,
		"trailingPE":                 p.TrailingPE,
	}
	if d := res.SummaryDetail; d != nil {
		nums["fiftyTwoWeekLow"] = d.FiftyTwoWeekLow
		nums["fiftyTwoWeekHigh"] = d.FiftyTwoWeekHigh
		if p.TrailingPE.Raw == nil && p.TrailingPE.Fmt == "" {
			nums["trailingPE"] = d.TrailingPE
		}
	}
	for k, n := range nums {
		if v, ok := ynum(n); ok {
			rec[k] = v
		}
	}
	return rec
}

// ynum prefers the raw number and falls back to the formatted text.
func ynum(n yfgo.YNum) (any, bool) {
	if n.Raw != nil {
		return *n.Raw, true
	}
	if n.Fmt != "" {
		return n.Fmt, true
	}
	return nil, false
}
