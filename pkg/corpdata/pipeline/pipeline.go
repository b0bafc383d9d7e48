package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/komsit37/corpdata/pkg/corpdata/columns"
	"github.com/komsit37/corpdata/pkg/corpdata/export"
	"github.com/komsit37/corpdata/pkg/corpdata/filter"
	"github.com/komsit37/corpdata/pkg/corpdata/puller"
	"github.com/komsit37/corpdata/pkg/corpdata/render"
	"github.com/komsit37/corpdata/pkg/corpdata/source"
	"github.com/komsit37/corpdata/pkg/corpdata/table"
	"github.com/komsit37/corpdata/pkg/corpdata/types"
)

// Runner binds a universe source, a puller and a renderer.
type Runner struct {
	// Source loads Universe specs; nil selects source.ForPath per call.
	Source   source.Source
	Puller   *puller.Puller
	Renderer render.Renderer
	Writer   io.Writer
	Log      zerolog.Logger
}

// ExecuteOptions select tickers and control rendering.
type ExecuteOptions struct {
	// Tickers are used as given, ahead of any universe tickers.
	Tickers []string
	// Universe is a file or directory path; empty means none.
	Universe string
	Filter   filter.Filter

	Color       bool
	PrettyJSON  bool
	MaxColWidth int
}

// PriceOptions extend ExecuteOptions for price pulls.
type PriceOptions struct {
	ExecuteOptions
	Start, End any
	// Returns converts prices to returns when set.
	Returns table.ReturnKind
	// Out saves the table to this path when set, with an extension from SaveFormat.
	Out        string
	SaveFormat string
	// SkipExisting leaves an existing Out file alone and fetches nothing.
	SkipExisting bool
	// Quiet suppresses rendering, e.g. when only saving.
	Quiet bool
}

func (r *Runner) renderOptions(opts ExecuteOptions) render.RenderOptions {
	return render.RenderOptions{
		Color:       opts.Color,
		PrettyJSON:  opts.PrettyJSON,
		MaxColWidth: opts.MaxColWidth,
	}
}

func (r *Runner) loadUniverses(ctx context.Context, path string, f filter.Filter) ([]types.Universe, error) {
	src := r.Source
	if src == nil {
		src = source.ForPath(path)
	}
	lists, err := src.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load universe %s: %w", path, err)
	}
	return filter.Apply(f, lists), nil
}

// Tickers resolves the explicit tickers and the filtered universe into one
// de-duplicated, normalized list.
func (r *Runner) Tickers(ctx context.Context, opts ExecuteOptions) ([]string, error) {
	lists := []types.Universe{{Name: "args"}}
	for _, t := range opts.Tickers {
		if t = source.NormalizeTicker(t); t != "" {
			lists[0].Tickers = append(lists[0].Tickers, t)
		}
	}
	if opts.Universe != "" {
		ul, err := r.loadUniverses(ctx, opts.Universe, opts.Filter)
		if err != nil {
			return nil, err
		}
		lists = append(lists, ul...)
	}
	tickers := source.Tickers(lists)
	if len(tickers) == 0 {
		return nil, errors.New("no tickers: pass tickers as arguments or a universe file")
	}
	return tickers, nil
}

// Universes renders the filtered universes found at path.
func (r *Runner) Universes(ctx context.Context, path string, opts ExecuteOptions) error {
	lists, err := r.loadUniverses(ctx, path, opts.Filter)
	if err != nil {
		return err
	}
	return r.Renderer.Universes(r.Writer, lists, r.renderOptions(opts))
}

// Attributes pulls attributes for every resolved ticker and renders them.
// A ticker whose quote query fails is logged and left out; the call fails
// only when every ticker fails.
func (r *Runner) Attributes(ctx context.Context, opts ExecuteOptions) error {
	tickers, err := r.Tickers(ctx, opts)
	if err != nil {
		return err
	}
	rows := make([]types.TickerAttributes, 0, len(tickers))
	var lastErr error
	for _, tk := range tickers {
		if err := ctx.Err(); err != nil {
			return err
		}
		attrs, err := r.Puller.GetAttributes(ctx, tk)
		if err != nil {
			if errors.Is(err, puller.ErrInvalidArgument) {
				return err
			}
			r.Log.Warn().Err(err).Str("ticker", tk).Msg("skipping ticker")
			lastErr = err
			continue
		}
		rows = append(rows, types.TickerAttributes{Ticker: tk, Attributes: attrs})
	}
	if len(rows) == 0 && lastErr != nil {
		return lastErr
	}
	ro := r.renderOptions(opts)
	ro.Columns = r.attributeColumns()
	return r.Renderer.Attributes(r.Writer, rows, ro)
}

// attributeColumns is the puller's selection order, lower-cased as in results.
func (r *Runner) attributeColumns() []string {
	return append(columns.Lower(r.Puller.TradeAttributes()), columns.Lower(r.Puller.CompanyAttributes())...)
}

// Prices pulls the price table for every resolved ticker, optionally turns it
// into returns, saves it and renders it.
func (r *Runner) Prices(ctx context.Context, opts PriceOptions) error {
	var (
		saver export.Saver
		out   string
	)
	if opts.Out != "" {
		s, err := export.NewSaver(opts.SaveFormat)
		if err != nil {
			return err
		}
		saver, out = s, export.Path(s, opts.Out)
		if opts.SkipExisting {
			if _, err := os.Stat(out); err == nil {
				r.Log.Info().Str("path", out).Msg("output exists, skipping")
				return nil
			}
		}
	}

	tickers, err := r.Tickers(ctx, opts.ExecuteOptions)
	if err != nil {
		return err
	}
	r.Log.Info().Int("tickers", len(tickers)).Msg("pulling prices")
	prices, err := r.Puller.GetAssetPrices(ctx, tickers, opts.Start, opts.End)
	if err != nil {
		return err
	}
	if opts.Returns != "" {
		prices = prices.Returns(opts.Returns)
	}

	if saver != nil {
		if err := saver.Save(prices, out); err != nil {
			return fmt.Errorf("save %s: %w", out, err)
		}
		r.Log.Info().Str("path", out).Int("rows", prices.Len()).Int("columns", len(prices.Columns)).Msg("saved")
	}
	if opts.Quiet {
		return nil
	}
	ro := r.renderOptions(opts.ExecuteOptions)
	if opts.Returns != "" {
		ro.Signed = true
		ro.Precision = 4
	}
	return r.Renderer.Prices(r.Writer, prices, ro)
}
