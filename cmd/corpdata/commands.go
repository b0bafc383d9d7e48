package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/komsit37/corpdata/pkg/corpdata/columns"
	"github.com/komsit37/corpdata/pkg/corpdata/export"
	"github.com/komsit37/corpdata/pkg/corpdata/filter"
	"github.com/komsit37/corpdata/pkg/corpdata/pipeline"
	ptable "github.com/komsit37/corpdata/pkg/corpdata/table"
)

// selectFlags are shared by the commands that resolve tickers.
type selectFlags struct {
	universe string
	filter   string
	format   string
}

func (s *selectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.universe, "universe", "u", "", "YAML watchlist, directory of watchlists, or CSV with a ticker column")
	cmd.Flags().StringVarP(&s.filter, "filter", "f", "", "universe name filter: names,a,b | glob* | /regex/ | substring, ! to negate")
	cmd.Flags().StringVar(&s.format, "format", "table", "output format: table, json or tickers")
}

func (a *app) executeOptions(args []string, s selectFlags) (pipeline.ExecuteOptions, error) {
	f, err := filter.Parse(s.filter)
	if err != nil {
		return pipeline.ExecuteOptions{}, err
	}
	return pipeline.ExecuteOptions{
		Tickers:     args,
		Universe:    s.universe,
		Filter:      f,
		Color:       a.color,
		PrettyJSON:  a.pretty,
		MaxColWidth: a.columnWidth(),
	}, nil
}

func (a *app) attrsCmd() *cobra.Command {
	var sf selectFlags
	cmd := &cobra.Command{
		Use:   "attrs [TICKER...]",
		Short: "Show trade and company attributes per ticker",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.executeOptions(args, sf)
			if err != nil {
				return err
			}
			p, err := a.newPuller()
			if err != nil {
				return err
			}
			if len(p.TradeAttributes())+len(p.CompanyAttributes()) == 0 {
				return fmt.Errorf("no attributes selected: use --trade-attrs, --company-attrs or --sets")
			}
			r, err := a.runner(sf.format, p)
			if err != nil {
				return err
			}
			return r.Attributes(cmd.Context(), opts)
		},
	}
	sf.register(cmd)
	return cmd
}

func (a *app) pricesCmd() *cobra.Command {
	var (
		sf           selectFlags
		start, end   string
		returns      string
		out          string
		saveFormat   string
		skipExisting bool
		quiet        bool
	)
	cmd := &cobra.Command{
		Use:   "prices [TICKER...]",
		Short: "Show or save daily prices for tickers",
		Example: "  corpdata prices AAPL MSFT --start 2020-01-01 --end 2020-12-31\n" +
			"  corpdata prices -u sp500.csv --start 2006-01-01 --end 2017-12-31 --price-types Open,High,Low,Close,\"Adj Close\",Volume --out Data/AllData --quiet",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.executeOptions(args, sf)
			if err != nil {
				return err
			}
			po := pipeline.PriceOptions{
				ExecuteOptions: opts,
				Start:          start,
				End:            end,
				Out:            out,
				SaveFormat:     saveFormat,
				SkipExisting:   skipExisting,
				Quiet:          quiet,
			}
			if returns != "" {
				if po.Returns, err = ptable.ParseReturnKind(returns); err != nil {
					return err
				}
			}
			p, err := a.newPuller()
			if err != nil {
				return err
			}
			r, err := a.runner(sf.format, p)
			if err != nil {
				return err
			}
			return r.Prices(cmd.Context(), po)
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVar(&start, "start", "", "start date, e.g. 2020-01-01")
	cmd.Flags().StringVar(&end, "end", "", "end date (exclusive)")
	cmd.Flags().StringVar(&returns, "returns", "", "convert to returns: simple or log")
	cmd.Flags().StringVarP(&out, "out", "o", "", "save the table to this path")
	cmd.Flags().StringVar(&saveFormat, "save-format", "csv", "save format: "+strings.Join(export.Formats, ", "))
	cmd.Flags().BoolVar(&skipExisting, "skip-existing", false, "do nothing when the output file already exists")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print the table")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func (a *app) universeCmd() *cobra.Command {
	var sf selectFlags
	cmd := &cobra.Command{
		Use:   "universe PATH",
		Short: "List the tickers of a universe file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.executeOptions(nil, sf)
			if err != nil {
				return err
			}
			r, err := a.runner(sf.format, nil)
			if err != nil {
				return err
			}
			return r.Universes(cmd.Context(), args[0], opts)
		},
	}
	cmd.Flags().StringVarP(&sf.filter, "filter", "f", "", "universe name filter")
	cmd.Flags().StringVar(&sf.format, "format", "table", "output format: table, json or tickers")
	return cmd
}

func (a *app) fieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List accepted price types, attributes and field sets",
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			if a.color {
				tw.SetStyle(table.StyleColoredDark)
			} else {
				tw.SetStyle(table.StyleLight)
			}
			tw.Style().Options.DrawBorder = false
			tw.Style().Options.SeparateColumns = false
			tw.AppendHeader(table.Row{"kind", "fields"})
			tw.SetColumnConfigs([]table.ColumnConfig{{Number: 2, WidthMax: max(a.columnWidth(), 60)}})

			tw.AppendRow(table.Row{"price types", strings.Join(columns.PriceTypes, ", ")})
			tw.AppendRow(table.Row{"trade attributes", strings.Join(columns.TradeAttributes, ", ")})
			tw.AppendRow(table.Row{"company attributes", strings.Join(columns.CompanyAttributes, ", ")})
			tw.AppendSeparator()
			for _, name := range columns.SetNames() {
				tw.AppendRow(table.Row{"set " + name, strings.Join(columns.Sets[name], ", ")})
			}
			tw.Render()
			return nil
		},
	}
}
