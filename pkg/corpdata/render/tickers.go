package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/komsit37/corpdata/pkg/corpdata/source"
	ptable "github.com/komsit37/corpdata/pkg/corpdata/table"
	"github.com/komsit37/corpdata/pkg/corpdata/types"
)

// tickersRenderer prints all tickers in a single comma-separated line.
type tickersRenderer struct{}

func NewTickersRenderer() Renderer {
	return tickersRenderer{}
}

func (tickersRenderer) Attributes(w io.Writer, rows []types.TickerAttributes, _ RenderOptions) error {
	tickers := make([]string, 0, len(rows))
	for _, r := range rows {
		tickers = append(tickers, r.Ticker)
	}
	return writeLine(w, tickers)
}

func (tickersRenderer) Prices(w io.Writer, t *ptable.PriceTable, _ RenderOptions) error {
	return writeLine(w, t.Tickers())
}

func (tickersRenderer) Universes(w io.Writer, lists []types.Universe, _ RenderOptions) error {
	return writeLine(w, source.Tickers(lists))
}

func writeLine(w io.Writer, tickers []string) error {
	_, err := fmt.Fprintln(w, strings.Join(tickers, ","))
	return err
}
