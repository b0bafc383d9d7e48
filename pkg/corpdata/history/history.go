package history

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	yfgo "github.com/komsit37/yf-go"
	"github.com/rs/zerolog"

	"github.com/komsit37/corpdata/pkg/corpdata/columns"
	"github.com/komsit37/corpdata/pkg/corpdata/table"
)

// Source fetches daily price history for tickers over [start, end).
// The returned table holds every price type in columns.PriceTypes for every ticker.
type Source interface {
	History(ctx context.Context, tickers []string, start, end time.Time) (*table.PriceTable, error)
}

// ChartAPI is the part of *yfgo.Client used for price history.
type ChartAPI interface {
	ChartTyped(ctx context.Context, symbol string, opts yfgo.ChartOptions) (yfgo.ChartResult, error)
}

// Yahoo implements Source on the Yahoo Finance v8 chart API, one request per ticker.
type Yahoo struct {
	api ChartAPI
	log zerolog.Logger
}

// NewYahoo creates a Yahoo history source over api, usually a *yfgo.Client.
func NewYahoo(api ChartAPI, log zerolog.Logger) *Yahoo {
	return &Yahoo{api: api, log: log}
}

// ProviderError reports that the provider answered but had no usable data for a ticker.
type ProviderError struct {
	Ticker string
	Reason string
}

func (e *ProviderError) Error() string { return fmt.Sprintf("yahoo chart %s: %s", e.Ticker, e.Reason) }

// bars holds one ticker's series keyed by price type.
type bars struct {
	dates  []time.Time
	series map[string][]*float64
}

// History fetches every ticker and merges the results on the union of dates.
// A ticker the provider rejects gets NaN columns; transport errors abort.
func (y *Yahoo) History(ctx context.Context, tickers []string, start, end time.Time) (*table.PriceTable, error) {
	fetched := make(map[string]bars, len(tickers))
	var allDates []time.Time
	for _, tk := range tickers {
		b, err := y.fetch(ctx, tk, start, end)
		if err != nil {
			var pe *ProviderError
			if errors.As(err, &pe) {
				y.log.Warn().Str("ticker", tk).Str("reason", pe.Reason).Msg("no price data")
				continue
			}
			return nil, err
		}
		fetched[tk] = b
		allDates = append(allDates, b.dates...)
	}

	t := table.New(allDates)
	for _, pt := range columns.PriceTypes {
		for _, tk := range tickers {
			vals := t.AddColumn(table.Column{PriceType: pt, Ticker: tk})
			b, ok := fetched[tk]
			if !ok {
				continue
			}
			src := b.series[pt]
			for i, d := range b.dates {
				if i >= len(src) || src[i] == nil {
					continue
				}
				if r := t.Row(d); r >= 0 {
					vals[r] = *src[i]
				}
			}
		}
	}
	return t, nil
}

// ChartOptions returns the request options for daily bars over [start, end).
func ChartOptions(start, end time.Time) yfgo.ChartOptions {
	p1, p2 := start.Unix(), end.Unix()
	return yfgo.ChartOptions{
		Period1:         &p1,
		Period2:         &p2,
		Interval:        "1d",
		Events:          "div,split",
		AdditionalQuery: url.Values{"includeAdjustedClose": {"true"}},
	}
}

func (y *Yahoo) fetch(ctx context.Context, ticker string, start, end time.Time) (bars, error) {
	res, err := y.api.ChartTyped(ctx, ticker, ChartOptions(start, end))
	if err != nil {
		if transportError(ctx, err) {
			return bars{}, fmt.Errorf("yahoo chart %s: %w", ticker, err)
		}
		return bars{}, &ProviderError{Ticker: ticker, Reason: err.Error()}
	}
	if len(res.Timestamp) == 0 {
		return bars{}, &ProviderError{Ticker: ticker, Reason: "no data returned"}
	}
	return barsFromChart(res), nil
}

// transportError tells a failed or cancelled request apart from an answer
// the provider rejected. yf-go returns the *url.Error of http.Client as is.
func transportError(ctx context.Context, err error) bool {
	var ue *url.Error
	return errors.As(err, &ue) || ctx.Err() != nil
}

// barsFromChart keys the chart series by price type. Bar times are shifted to
// exchange-local time before taking the calendar date.
func barsFromChart(res yfgo.ChartResult) bars {
	b := bars{series: map[string][]*float64{}}
	for _, ts := range res.Timestamp {
		local := time.Unix(ts+res.Meta.GmtOffset, 0).UTC()
		b.dates = append(b.dates, time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC))
	}
	if len(res.Indicators.Quote) > 0 {
		q := res.Indicators.Quote[0]
		b.series["Open"] = q.Open
		b.series["High"] = q.High
		b.series["Low"] = q.Low
		b.series["Close"] = q.Close
		b.series["Volume"] = floats(q.Volume)
	}
	if len(res.Indicators.AdjClose) > 0 {
		b.series["Adj Close"] = res.Indicators.AdjClose[0].AdjClose
	}
	return b
}

func floats(in []*int64) []*float64 {
	if in == nil {
		return nil
	}
	out := make([]*float64, len(in))
	for i, v := range in {
		if v != nil {
			f := float64(*v)
			out[i] = &f
		}
	}
	return out
}
