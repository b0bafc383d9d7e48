package render

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	ptable "github.com/komsit37/corpdata/pkg/corpdata/table"
	"github.com/komsit37/corpdata/pkg/corpdata/types"
)

// Renderer writes puller results and universes to an output writer.
type Renderer interface {
	Attributes(w io.Writer, rows []types.TickerAttributes, opts RenderOptions) error
	Prices(w io.Writer, t *ptable.PriceTable, opts RenderOptions) error
	Universes(w io.Writer, lists []types.Universe, opts RenderOptions) error
}

type RenderOptions struct {
	// Columns orders attribute columns; empty means every key, sorted.
	Columns     []string
	Color       bool
	PrettyJSON  bool
	MaxColWidth int
	// Precision is the number of decimals for price cells; 0 means 2 and
	// negative means shortest.
	Precision int
	// Signed colors price cells by sign, for return tables.
	Signed bool
}

// New returns the renderer for format: table, json or tickers.
func New(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "table", "":
		return NewTableRenderer(), nil
	case "json":
		return NewJSONRenderer(), nil
	case "tickers", "syms":
		return NewTickersRenderer(), nil
	default:
		return nil, fmt.Errorf("unknown format %q: want table, json or tickers", format)
	}
}

func attributeColumns(rows []types.TickerAttributes, opts RenderOptions) []string {
	if len(opts.Columns) > 0 {
		return opts.Columns
	}
	seen := map[string]struct{}{}
	var cols []string
	for _, r := range rows {
		for k := range r.Attributes {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)
	return cols
}

// formatValue renders an attribute value; nil is blank.
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		if math.IsNaN(t) {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

func formatPrice(v float64, precision int) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}
