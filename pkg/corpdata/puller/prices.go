package puller

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/komsit37/corpdata/pkg/corpdata/columns"
	"github.com/komsit37/corpdata/pkg/corpdata/table"
)

// GetAssetPrices returns daily prices of the selected price types for ticker
// (a string or a slice of strings) between startDate and endDate. Dates may be
// time.Time values or date strings such as "2020-01-31"; reversed dates are
// swapped. The end date is exclusive.
//
// All argument problems are reported together in one *InvalidArgumentError.
func (p *Puller) GetAssetPrices(ctx context.Context, ticker any, startDate, endDate any) (*table.PriceTable, error) {
	var problems []string
	tickers, problem := tickerList(ticker)
	if problem != "" {
		problems = append(problems, problem)
	}
	start, problem := toDate("startDate", startDate)
	if problem != "" {
		problems = append(problems, problem)
	}
	end, problem := toDate("endDate", endDate)
	if problem != "" {
		problems = append(problems, problem)
	}
	if len(problems) > 0 {
		return nil, &InvalidArgumentError{Problems: problems}
	}
	if start.After(end) {
		start, end = end, start
	}

	p.log.Debug().Strs("tickers", tickers).Time("start", start).Time("end", end).Msg("fetching prices")
	prices, err := p.history.History(ctx, tickers, start, end)
	if err != nil {
		return nil, fmt.Errorf("get asset prices: %w", err)
	}
	// Drops the complement of the selection within the fixed price type
	// universe; a price type outside columns.PriceTypes would survive.
	return prices.Drop(columns.Difference(columns.PriceTypes, p.sel.priceTypes)...), nil
}

func tickerList(v any) ([]string, string) {
	const wrongType = "ticker must be a string or list of strings."
	var raw []string
	switch t := v.(type) {
	case string:
		raw = []string{t}
	case []string:
		raw = t
	case []any:
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, wrongType
			}
			raw = append(raw, s)
		}
	default:
		if rv := reflect.ValueOf(v); v != nil && rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.String {
			for i := 0; i < rv.Len(); i++ {
				raw = append(raw, rv.Index(i).String())
			}
			break
		}
		return nil, wrongType
	}
	if len(raw) == 0 {
		return nil, "ticker must name at least one security."
	}
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			return nil, "ticker must not contain empty strings."
		}
		out = append(out, s)
	}
	return out, ""
}

// toDate normalizes v to a UTC calendar date.
func toDate(param string, v any) (time.Time, string) {
	var t time.Time
	switch d := v.(type) {
	case time.Time:
		t = d
	case string:
		parsed, err := dateparse.ParseIn(strings.TrimSpace(d), time.UTC)
		if err != nil {
			return time.Time{}, fmt.Sprintf("%s must be \"YYYY-MM-DD\".", param)
		}
		t = parsed
	default:
		return time.Time{}, fmt.Sprintf("%s must be date/datetime/\"YYYY-MM-DD\" string.", param)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), ""
}
