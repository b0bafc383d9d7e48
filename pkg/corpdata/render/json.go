package render

import (
	"encoding/json"
	"io"
	"math"

	ptable "github.com/komsit37/corpdata/pkg/corpdata/table"
	"github.com/komsit37/corpdata/pkg/corpdata/types"
)

type jsonAttributes struct {
	Ticker     string           `json:"ticker"`
	Attributes types.Attributes `json:"attributes"`
}

// jsonPrices is the wide table; missing values are null.
type jsonPrices struct {
	Dates   []string     `json:"dates"`
	Columns []jsonSeries `json:"columns"`
}

type jsonSeries struct {
	PriceType string     `json:"price_type"`
	Ticker    string     `json:"ticker"`
	Values    []*float64 `json:"values"`
}

type jsonUniverse struct {
	Name    string   `json:"name"`
	Tickers []string `json:"tickers"`
}

type JSONRenderer struct{}

func NewJSONRenderer() *JSONRenderer { return &JSONRenderer{} }

func (r *JSONRenderer) Attributes(w io.Writer, rows []types.TickerAttributes, opts RenderOptions) error {
	out := make([]jsonAttributes, 0, len(rows))
	for _, row := range rows {
		attrs := row.Attributes
		if len(opts.Columns) > 0 {
			attrs = make(types.Attributes, len(opts.Columns))
			for _, c := range opts.Columns {
				attrs[c] = row.Attributes[c]
			}
		}
		out = append(out, jsonAttributes{Ticker: row.Ticker, Attributes: attrs})
	}
	return encode(w, out, opts)
}

func (r *JSONRenderer) Prices(w io.Writer, t *ptable.PriceTable, opts RenderOptions) error {
	out := jsonPrices{Dates: make([]string, len(t.Dates)), Columns: make([]jsonSeries, 0, len(t.Columns))}
	for i, d := range t.Dates {
		out.Dates[i] = d.Format(ptable.DateLayout)
	}
	for c, col := range t.Columns {
		vals := make([]*float64, len(t.Values[c]))
		for i, v := range t.Values[c] {
			if !math.IsNaN(v) {
				v := v
				vals[i] = &v
			}
		}
		out.Columns = append(out.Columns, jsonSeries{PriceType: col.PriceType, Ticker: col.Ticker, Values: vals})
	}
	return encode(w, out, opts)
}

func (r *JSONRenderer) Universes(w io.Writer, lists []types.Universe, opts RenderOptions) error {
	out := make([]jsonUniverse, 0, len(lists))
	for _, l := range lists {
		tickers := l.Tickers
		if tickers == nil {
			tickers = []string{}
		}
		out = append(out, jsonUniverse{Name: l.Name, Tickers: tickers})
	}
	return encode(w, out, opts)
}

func encode(w io.Writer, v any, opts RenderOptions) error {
	enc := json.NewEncoder(w)
	if opts.PrettyJSON {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
