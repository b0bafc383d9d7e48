package table

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// DateLayout is the calendar date format used for table dates.
const DateLayout = "2006-01-02"

// Column identifies one series of a price table.
type Column struct {
	PriceType string
	Ticker    string
}

func (c Column) String() string { return c.PriceType + "/" + c.Ticker }

// PriceTable is a date-indexed table of (price type, ticker) columns.
// Values[i] holds the series for Columns[i], one value per date; missing
// values are NaN.
type PriceTable struct {
	Dates   []time.Time
	Columns []Column
	Values  [][]float64
}

// New creates an empty table over dates. Dates are sorted and de-duplicated.
func New(dates []time.Time) *PriceTable {
	ds := append([]time.Time(nil), dates...)
	sort.Slice(ds, func(i, j int) bool { return ds[i].Before(ds[j]) })
	out := ds[:0]
	for i, d := range ds {
		if i > 0 && d.Equal(out[len(out)-1]) {
			continue
		}
		out = append(out, d)
	}
	return &PriceTable{Dates: out}
}

// Len returns the number of rows.
func (t *PriceTable) Len() int { return len(t.Dates) }

// AddColumn appends a column filled with NaN and returns its values for filling.
// Adding an existing column returns the existing values.
func (t *PriceTable) AddColumn(c Column) []float64 {
	if i := t.index(c); i >= 0 {
		return t.Values[i]
	}
	vals := make([]float64, len(t.Dates))
	for i := range vals {
		vals[i] = math.NaN()
	}
	t.Columns = append(t.Columns, c)
	t.Values = append(t.Values, vals)
	return vals
}

// Row returns the row index of d, or -1.
func (t *PriceTable) Row(d time.Time) int {
	i := sort.Search(len(t.Dates), func(i int) bool { return !t.Dates[i].Before(d) })
	if i < len(t.Dates) && t.Dates[i].Equal(d) {
		return i
	}
	return -1
}

// Column returns the values of (priceType, ticker).
func (t *PriceTable) Column(priceType, ticker string) ([]float64, bool) {
	i := t.index(Column{PriceType: priceType, Ticker: ticker})
	if i < 0 {
		return nil, false
	}
	return t.Values[i], true
}

func (t *PriceTable) index(c Column) int {
	for i, col := range t.Columns {
		if col == c {
			return i
		}
	}
	return -1
}

// PriceTypes returns the distinct price types in column order.
func (t *PriceTable) PriceTypes() []string {
	return t.distinct(func(c Column) string { return c.PriceType })
}

// Tickers returns the distinct tickers in column order.
func (t *PriceTable) Tickers() []string {
	return t.distinct(func(c Column) string { return c.Ticker })
}

func (t *PriceTable) distinct(key func(Column) string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, c := range t.Columns {
		k := key(c)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// Drop returns a copy of t without the columns whose price type is listed.
func (t *PriceTable) Drop(priceTypes ...string) *PriceTable {
	drop := make(map[string]struct{}, len(priceTypes))
	for _, p := range priceTypes {
		drop[p] = struct{}{}
	}
	out := &PriceTable{Dates: append([]time.Time(nil), t.Dates...)}
	for i, c := range t.Columns {
		if _, ok := drop[c.PriceType]; ok {
			continue
		}
		out.Columns = append(out.Columns, c)
		out.Values = append(out.Values, append([]float64(nil), t.Values[i]...))
	}
	return out
}

// Observation is one non-missing cell of a table in long form.
type Observation struct {
	Date      string  `json:"date" parquet:"date"`
	Ticker    string  `json:"ticker" parquet:"ticker"`
	PriceType string  `json:"price_type" parquet:"price_type"`
	Value     float64 `json:"value" parquet:"value"`
}

// Observations flattens t into long form, skipping NaN cells. Rows are ordered
// by date, then by column order.
func (t *PriceTable) Observations() []Observation {
	out := make([]Observation, 0, len(t.Dates)*len(t.Columns))
	for r, d := range t.Dates {
		ds := d.Format(DateLayout)
		for c, col := range t.Columns {
			v := t.Values[c][r]
			if math.IsNaN(v) {
				continue
			}
			out = append(out, Observation{Date: ds, Ticker: col.Ticker, PriceType: col.PriceType, Value: v})
		}
	}
	return out
}

// Validate checks the table's shape.
func (t *PriceTable) Validate() error {
	if len(t.Columns) != len(t.Values) {
		return fmt.Errorf("table: %d columns but %d series", len(t.Columns), len(t.Values))
	}
	for i, v := range t.Values {
		if len(v) != len(t.Dates) {
			return fmt.Errorf("table: column %s has %d values for %d dates", t.Columns[i], len(v), len(t.Dates))
		}
	}
	return nil
}
