package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	ptable "github.com/komsit37/corpdata/pkg/corpdata/table"
	"github.com/komsit37/corpdata/pkg/corpdata/types"
)

const defaultMaxColWidth = 40

type TableRenderer struct{}

func NewTableRenderer() *TableRenderer { return &TableRenderer{} }

func newWriter(w io.Writer, opts RenderOptions) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	if opts.Color {
		tw.SetStyle(table.StyleColoredDark)
	} else {
		tw.SetStyle(table.StyleLight)
	}
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateRows = false
	tw.Style().Options.SeparateColumns = false
	return tw
}

// columnConfigs wraps every column to the max width; numeric columns are right aligned.
func columnConfigs(n int, opts RenderOptions, rightFrom int) []table.ColumnConfig {
	maxWidth := opts.MaxColWidth
	if maxWidth <= 0 {
		maxWidth = defaultMaxColWidth
	}
	cfgs := make([]table.ColumnConfig, 0, n)
	for i := 0; i < n; i++ {
		cfg := table.ColumnConfig{Number: i + 1, WidthMax: maxWidth}
		if i >= rightFrom {
			cfg.Align = text.AlignRight
			cfg.AlignHeader = text.AlignRight
		}
		cfgs = append(cfgs, cfg)
	}
	return cfgs
}

func (r *TableRenderer) Attributes(w io.Writer, rows []types.TickerAttributes, opts RenderOptions) error {
	cols := attributeColumns(rows, opts)
	tw := newWriter(w, opts)

	hdr := make(table.Row, 0, len(cols)+1)
	hdr = append(hdr, "TICKER")
	for _, c := range cols {
		hdr = append(hdr, strings.ToUpper(c))
	}
	tw.AppendHeader(hdr)
	tw.SetColumnConfigs(columnConfigs(len(hdr), opts, len(hdr)))

	for _, it := range rows {
		row := make(table.Row, 0, len(cols)+1)
		row = append(row, it.Ticker)
		for _, c := range cols {
			row = append(row, formatValue(it.Attributes[c]))
		}
		tw.AppendRow(row)
	}
	tw.Render()
	return nil
}

func (r *TableRenderer) Prices(w io.Writer, t *ptable.PriceTable, opts RenderOptions) error {
	tw := newWriter(w, opts)

	hdr := make(table.Row, 0, len(t.Columns)+1)
	hdr = append(hdr, ptable.DateColumn)
	for _, c := range t.Columns {
		hdr = append(hdr, c.String())
	}
	tw.AppendHeader(hdr)
	tw.SetColumnConfigs(columnConfigs(len(hdr), opts, 1))

	prec := opts.Precision
	if prec == 0 {
		prec = 2
	}
	for i, d := range t.Dates {
		row := make(table.Row, 0, len(t.Columns)+1)
		row = append(row, d.Format(ptable.DateLayout))
		for c := range t.Columns {
			v := t.Values[c][i]
			cell := formatPrice(v, prec)
			if opts.Color && opts.Signed && cell != "" {
				switch {
				case v < 0:
					cell = text.Colors{text.FgRed}.Sprint(cell)
				case v > 0:
					cell = text.Colors{text.FgGreen}.Sprint(cell)
				}
			}
			row = append(row, cell)
		}
		tw.AppendRow(row)
	}
	tw.Render()
	return nil
}

func (r *TableRenderer) Universes(w io.Writer, lists []types.Universe, opts RenderOptions) error {
	multi := len(lists) > 1
	for li, list := range lists {
		// Print the universe name as a standalone line spanning full width
		if multi && strings.TrimSpace(list.Name) != "" {
			name := strings.ToUpper(list.Name)
			if opts.Color {
				name = text.Bold.Sprint(name)
			}
			fmt.Fprintln(w, name)
		}
		tw := newWriter(w, opts)
		tw.AppendHeader(table.Row{"#", "TICKER"})
		tw.SetColumnConfigs(columnConfigs(2, opts, 2))
		for i, tk := range list.Tickers {
			tw.AppendRow(table.Row{strconv.Itoa(i + 1), tk})
		}
		tw.Render()
		if li < len(lists)-1 {
			// blank line between tables
			fmt.Fprintln(w)
		}
	}
	return nil
}
