package quote

import (
	"context"
	"fmt"

	yfgo "github.com/komsit37/yf-go"

	"github.com/komsit37/corpdata/pkg/corpdata/types"
)

// Source fetches a structured quote record for a ticker.
type Source interface {
	Quote(ctx context.Context, ticker string) (types.Record, error)
}

// SummaryAPI is the part of *yfgo.Client used by Yahoo.
type SummaryAPI interface {
	QuoteSummary(ctx context.Context, symbol string, modules []yfgo.QuoteSummaryModule) (any, error)
}

// Modules are requested in this order; a field found in an earlier module wins.
var Modules = []yfgo.QuoteSummaryModule{
	yfgo.ModulePrice,
	yfgo.ModuleSummaryDetail,
	yfgo.ModuleDefaultKeyStatistics,
	yfgo.ModuleFinancialData,
	yfgo.ModuleQuoteType,
}

// aliases maps quote summary names to the quote field names callers select.
var aliases = map[string]string{
	"trailingEps":         "epsTrailingTwelveMonths",
	"forwardEps":          "epsForward",
	"averageVolume10days": "averageDailyVolume10Day",
}

// Yahoo implements Source on the Yahoo Finance quote summary API. yf-go
// carries the session cookie and crumb the endpoint requires.
type Yahoo struct {
	api SummaryAPI
}

// NewYahoo creates a Yahoo quote source over api, usually a *yfgo.Client.
func NewYahoo(api SummaryAPI) *Yahoo {
	return &Yahoo{api: api}
}

// Quote returns the record for ticker, with the modules flattened into one
// level of quote field names.
func (y *Yahoo) Quote(ctx context.Context, ticker string) (types.Record, error) {
	raw, err := y.api.QuoteSummary(ctx, ticker, Modules)
	if err != nil {
		return nil, fmt.Errorf("yahoo quote %s: %w", ticker, err)
	}
	res, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("yahoo quote %s: unexpected result %T", ticker, raw)
	}
	return flatten(res), nil
}

// flatten merges the modules of a quote summary result into one record.
// Number objects become their raw value, or their formatted one when raw is
// missing. Empty objects and nested lists are dropped.
func flatten(res map[string]any) types.Record {
	rec := types.Record{}
	set := func(k string, v any) {
		if _, ok := rec[k]; !ok {
			rec[k] = v
		}
	}
	for _, m := range Modules {
		mod, ok := res[m.String()].(map[string]any)
		if !ok {
			continue
		}
		vals := map[string]any{}
		for k, v := range mod {
			if val, ok := scalar(v); ok {
				vals[k] = val
				set(k, val)
			}
		}
		for k, alias := range aliases {
			if val, ok := vals[k]; ok {
				set(alias, val)
			}
		}
	}
	rangeOf(rec, "regularMarketDayRange", "regularMarketDayLow", "regularMarketDayHigh")
	rangeOf(rec, "fiftyTwoWeekRange", "fiftyTwoWeekLow", "fiftyTwoWeekHigh")
	return rec
}

func scalar(v any) (any, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case map[string]any:
		if raw, ok := t["raw"]; ok && raw != nil {
			return raw, true
		}
		if s, ok := t["fmt"].(string); ok && s != "" {
			return s, true
		}
		return nil, false
	case []any:
		return nil, false
	}
	return v, true
}

// rangeOf fills key with "low - high" when the quote lacks it.
func rangeOf(rec types.Record, key, low, high string) {
	if _, ok := rec[key]; ok {
		return
	}
	lo, okLo := rec[low]
	hi, okHi := rec[high]
	if !okLo || !okHi {
		return
	}
	rec[key] = fmt.Sprintf("%v - %v", lo, hi)
}
