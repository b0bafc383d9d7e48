package table

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func sample() *PriceTable {
	t := New([]time.Time{day("2020-01-03"), day("2020-01-02"), day("2020-01-03"), day("2020-01-06")})
	copy(t.AddColumn(Column{"Close", "AAPL"}), []float64{100, 110, 99})
	copy(t.AddColumn(Column{"Close", "MSFT"}), []float64{200, math.NaN(), 210})
	copy(t.AddColumn(Column{"Volume", "AAPL"}), []float64{1e6, 2e6, 3e6})
	return t
}

func TestNew_SortsAndDedupes(t *testing.T) {
	tb := sample()
	require.Equal(t, 3, tb.Len())
	assert.Equal(t, day("2020-01-02"), tb.Dates[0])
	assert.Equal(t, day("2020-01-06"), tb.Dates[2])
	assert.Equal(t, 1, tb.Row(day("2020-01-03")))
	assert.Equal(t, -1, tb.Row(day("2020-01-04")))
	require.NoError(t, tb.Validate())
}

func TestAddColumn_Existing(t *testing.T) {
	tb := sample()
	vals := tb.AddColumn(Column{"Close", "AAPL"})
	assert.Equal(t, 100.0, vals[0])
	assert.Len(t, tb.Columns, 3)
}

func TestPriceTypesAndTickers(t *testing.T) {
	tb := sample()
	assert.Equal(t, []string{"Close", "Volume"}, tb.PriceTypes())
	assert.Equal(t, []string{"AAPL", "MSFT"}, tb.Tickers())
}

func TestDrop(t *testing.T) {
	tb := sample()
	got := tb.Drop("Volume", "Open")
	assert.Equal(t, []Column{{"Close", "AAPL"}, {"Close", "MSFT"}}, got.Columns)
	assert.Len(t, tb.Columns, 3, "source table untouched")

	got.Values[0][0] = -1
	v, ok := tb.Column("Close", "AAPL")
	require.True(t, ok)
	assert.Equal(t, 100.0, v[0], "drop copies values")
}

func TestReturns(t *testing.T) {
	tb := sample()

	simple := tb.Returns(SimpleReturns)
	require.NoError(t, simple.Validate())
	assert.Equal(t, []time.Time{day("2020-01-03"), day("2020-01-06")}, simple.Dates)
	v, _ := simple.Column("Close", "AAPL")
	assert.InDelta(t, 0.10, v[0], 1e-12)
	assert.InDelta(t, -0.10, v[1], 1e-12)
	m, _ := simple.Column("Close", "MSFT")
	assert.True(t, math.IsNaN(m[0]))
	assert.True(t, math.IsNaN(m[1]))

	logr := tb.Returns(LogReturns)
	v, _ = logr.Column("Close", "AAPL")
	assert.InDelta(t, math.Log(1.1), v[0], 1e-12)
}

func TestReturns_SingleRow(t *testing.T) {
	tb := New([]time.Time{day("2020-01-02")})
	tb.AddColumn(Column{"Close", "AAPL"})[0] = 1
	got := tb.Returns(SimpleReturns)
	assert.Zero(t, got.Len())
	require.NoError(t, got.Validate())
}

func TestParseReturnKind(t *testing.T) {
	k, err := ParseReturnKind(" LOG ")
	require.NoError(t, err)
	assert.Equal(t, LogReturns, k)

	_, err = ParseReturnKind("geometric")
	assert.Error(t, err)
}

func TestObservations(t *testing.T) {
	obs := sample().Observations()
	assert.Len(t, obs, 8) // 9 cells, one NaN
	assert.Equal(t, Observation{Date: "2020-01-02", Ticker: "AAPL", PriceType: "Close", Value: 100}, obs[0])
}

func TestDataFrame(t *testing.T) {
	df := sample().DataFrame()
	require.NoError(t, df.Err)
	assert.Equal(t, []string{"Date", "Close/AAPL", "Close/MSFT", "Volume/AAPL"}, df.Names())
	assert.Equal(t, 3, df.Nrow())
	assert.Equal(t, []string{"2020-01-02", "2020-01-03", "2020-01-06"}, df.Col("Date").Records())
	assert.Equal(t, 110.0, df.Col("Close/AAPL").Float()[1])
}

func TestValidate_Mismatch(t *testing.T) {
	tb := sample()
	tb.Values[1] = tb.Values[1][:1]
	assert.Error(t, tb.Validate())
}
