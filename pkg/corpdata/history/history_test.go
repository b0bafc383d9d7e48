package history

import (
	"context"
	"errors"
	"math"
	"net/url"
	"testing"
	"time"

	yfgo "github.com/komsit37/yf-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komsit37/corpdata/pkg/corpdata/columns"
	"github.com/komsit37/corpdata/pkg/corpdata/table"
)

func fp(v float64) *float64 { return &v }
func ip(v int64) *int64 { return &v }

// 2020-01-02 and 2020-01-03 09:30 New York (gmtoffset -18000).
func aaplChart() yfgo.ChartResult {
	var r yfgo.ChartResult
	r.Meta.Symbol = "AAPL"
	r.Meta.GmtOffset = -18000
	r.Timestamp = []int64{1577975400, 1578061800}
	r.Indicators.Quote = []yfgo.ChartQuoteSeries{{
		Open:   []*float64{fp(74.06), fp(74.29)},
		High:   []*float64{fp(75.15), fp(75.14)},
		Low:    []*float64{fp(73.80), fp(74.13)},
		Close:  []*float64{fp(75.09), fp(74.36)},
		Volume: []*int64{ip(135480400), ip(146322800)},
	}}
	r.Indicators.AdjClose = []yfgo.ChartAdjCloseSeries{{AdjClose: []*float64{fp(73.15), fp(72.44)}}}
	return r
}

// only the second day, with null bar values
func msftChart() yfgo.ChartResult {
	var r yfgo.ChartResult
	r.Meta.Symbol = "MSFT"
	r.Meta.GmtOffset = -18000
	r.Timestamp = []int64{1578061800}
	r.Indicators.Quote = []yfgo.ChartQuoteSeries{{
		Open:   []*float64{fp(158.32)},
		High:   []*float64{fp(159.95)},
		Low:    []*float64{fp(158.06)},
		Close:  []*float64{nil},
		Volume: []*int64{nil},
	}}
	r.Indicators.AdjClose = []yfgo.ChartAdjCloseSeries{{AdjClose: []*float64{nil}}}
	return r
}

type chartCall struct {
	symbol string
	opts   yfgo.ChartOptions
}

type fakeChart struct {
	results map[string]yfgo.ChartResult
	errs    map[string]error
	calls   []chartCall
}

func (c *fakeChart) ChartTyped(_ context.Context, symbol string, opts yfgo.ChartOptions) (yfgo.ChartResult, error) {
	c.calls = append(c.calls, chartCall{symbol: symbol, opts: opts})
	if err := c.errs[symbol]; err != nil {
		return yfgo.ChartResult{}, err
	}
	if r, ok := c.results[symbol]; ok {
		return r, nil
	}
	return yfgo.ChartResult{}, errors.New("chart error: No data found, symbol may be delisted")
}

func newFake() *fakeChart {
	return &fakeChart{results: map[string]yfgo.ChartResult{"AAPL": aaplChart(), "MSFT": msftChart()}}
}

func date(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func TestYahoo_History(t *testing.T) {
	api := newFake()
	y := NewYahoo(api, zerolog.Nop())

	tb, err := y.History(context.Background(), []string{"AAPL", "MSFT"}, date("2020-01-01"), date("2020-01-04"))
	require.NoError(t, err)
	require.NoError(t, tb.Validate())

	assert.Equal(t, []time.Time{date("2020-01-02"), date("2020-01-03")}, tb.Dates)
	assert.Len(t, tb.Columns, len(columns.PriceTypes)*2)
	assert.Equal(t, table.Column{PriceType: "Open", Ticker: "AAPL"}, tb.Columns[0])
	assert.Equal(t, table.Column{PriceType: "Open", Ticker: "MSFT"}, tb.Columns[1])

	adj, ok := tb.Column("Adj Close", "AAPL")
	require.True(t, ok)
	assert.Equal(t, []float64{73.15, 72.44}, adj)
	vol, _ := tb.Column("Volume", "AAPL")
	assert.Equal(t, []float64{135480400, 146322800}, vol)

	msft, _ := tb.Column("Close", "MSFT")
	assert.True(t, math.IsNaN(msft[0]), "missing day")
	assert.True(t, math.IsNaN(msft[1]), "null bar")
	open, _ := tb.Column("Open", "MSFT")
	assert.Equal(t, 158.32, open[1])

	require.Len(t, api.calls, 2)
	assert.Equal(t, "AAPL", api.calls[0].symbol)
	opts := api.calls[0].opts
	require.NotNil(t, opts.Period1)
	require.NotNil(t, opts.Period2)
	assert.Equal(t, int64(1577836800), *opts.Period1)
	assert.Equal(t, int64(1578096000), *opts.Period2)
	assert.Equal(t, "1d", opts.Interval)
	assert.Equal(t, "div,split", opts.Events)
}

func TestYahoo_UnknownTickerGetsNaNColumns(t *testing.T) {
	y := NewYahoo(newFake(), zerolog.Nop())

	tb, err := y.History(context.Background(), []string{"AAPL", "ZZZZ"}, date("2020-01-01"), date("2020-01-04"))
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "ZZZZ"}, tb.Tickers())
	z, ok := tb.Column("Adj Close", "ZZZZ")
	require.True(t, ok)
	for _, v := range z {
		assert.True(t, math.IsNaN(v))
	}
}

func TestYahoo_EmptyChartGetsNaNColumns(t *testing.T) {
	api := newFake()
	api.results["EMPTY"] = yfgo.ChartResult{}
	tb, err := NewYahoo(api, zerolog.Nop()).History(context.Background(), []string{"EMPTY"}, date("2020-01-01"), date("2020-01-04"))
	require.NoError(t, err)
	assert.Empty(t, tb.Dates)
	assert.Len(t, tb.Columns, len(columns.PriceTypes))
}

func TestYahoo_TransportErrorPropagates(t *testing.T) {
	api := newFake()
	api.errs = map[string]error{"AAPL": &url.Error{Op: "Get", URL: "https://query1.finance.yahoo.com", Err: errors.New("connection refused")}}

	_, err := NewYahoo(api, zerolog.Nop()).History(context.Background(), []string{"AAPL"}, date("2020-01-01"), date("2020-01-04"))
	require.Error(t, err)
	var pe *ProviderError
	assert.False(t, errors.As(err, &pe))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestYahoo_CancelledContextPropagates(t *testing.T) {
	api := newFake()
	api.errs = map[string]error{"AAPL": errors.New("getcrumb failed")}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewYahoo(api, zerolog.Nop()).History(ctx, []string{"AAPL"}, date("2020-01-01"), date("2020-01-04"))
	require.Error(t, err)
	var pe *ProviderError
	assert.False(t, errors.As(err, &pe))
}

func TestBarsFromChart(t *testing.T) {
	cases := []struct {
		name   string
		res    yfgo.ChartResult
		dates  []time.Time
		series map[string]int
	}{
		{
			name:   "full",
			res:    aaplChart(),
			dates:  []time.Time{date("2020-01-02"), date("2020-01-03")},
			series: map[string]int{"Open": 2, "High": 2, "Low": 2, "Close": 2, "Volume": 2, "Adj Close": 2},
		},
		{
			name: "no adjusted close",
			res: func() yfgo.ChartResult {
				r := aaplChart()
				r.Indicators.AdjClose = nil
				return r
			}(),
			dates:  []time.Time{date("2020-01-02"), date("2020-01-03")},
			series: map[string]int{"Open": 2, "High": 2, "Low": 2, "Close": 2, "Volume": 2},
		},
		{
			// 00:30 Tokyo is still the previous day in UTC
			name: "local date",
			res: func() yfgo.ChartResult {
				var r yfgo.ChartResult
				r.Meta.GmtOffset = 32400
				r.Timestamp = []int64{1578065400}
				return r
			}(),
			dates:  []time.Time{date("2020-01-04")},
			series: map[string]int{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := barsFromChart(tc.res)
			assert.Equal(t, tc.dates, b.dates)
			got := map[string]int{}
			for k, v := range b.series {
				got[k] = len(v)
			}
			assert.Equal(t, tc.series, got)
		})
	}
}

func TestFloats(t *testing.T) {
	assert.Nil(t, floats(nil))
	out := floats([]*int64{ip(7), nil})
	require.Len(t, out, 2)
	assert.Equal(t, 7.0, *out[0])
	assert.Nil(t, out[1])
}
