package puller

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/komsit37/corpdata/pkg/corpdata/columns"
	"github.com/komsit37/corpdata/pkg/corpdata/profile"
	"github.com/komsit37/corpdata/pkg/corpdata/types"
)

// GetAttributes resolves the selected trade and company attributes for ticker,
// which must be a non-empty string. Keys of the result are lower-cased.
//
// Trade attributes come from one quote query; a field missing from the record
// is nil, and a failed query is returned as an error. Company attributes come
// from one profile lookup each; any lookup failure is recorded as nil, but a
// cancelled ctx fails the call.
func (p *Puller) GetAttributes(ctx context.Context, ticker any) (types.Attributes, error) {
	tk, ok := ticker.(string)
	switch {
	case !ok:
		return nil, &InvalidArgumentError{Problems: []string{"ticker must be string."}}
	case strings.TrimSpace(tk) == "":
		return nil, &InvalidArgumentError{Problems: []string{"ticker must not be empty."}}
	}
	tk = strings.TrimSpace(tk)

	out := types.Attributes{}
	if len(p.sel.tradeAttributes) > 0 {
		sym := strings.ToUpper(tk)
		rec, err := p.quotes.Quote(ctx, sym)
		if err != nil {
			return nil, fmt.Errorf("get attributes %s: %w", sym, err)
		}
		for _, attr := range p.sel.tradeAttributes {
			v, ok := rec[attr]
			if !ok {
				v = nil
			}
			if s, isStr := v.(string); isStr {
				v = strings.TrimSpace(s)
			}
			out[strings.ToLower(attr)] = v
		}
	}

	if len(p.sel.companyAttributes) > 0 {
		name := columns.Capitalize(tk)
		results, err := p.lookupProfile(ctx, name, p.sel.companyAttributes)
		if err != nil {
			return nil, fmt.Errorf("get attributes %s: %w", name, err)
		}
		for i, attr := range p.sel.companyAttributes {
			res := results[i]
			if !res.Found {
				p.log.Debug().Err(res.Err).Str("ticker", name).Str("attribute", attr).Msg("company attribute unresolved")
				out[strings.ToLower(attr)] = nil
				continue
			}
			out[strings.ToLower(attr)] = strings.TrimSpace(res.Value)
		}
	}
	return out, nil
}

// lookupProfile runs one lookup per attribute, at most p.concurrency at a time.
// Results are positional so order never depends on scheduling. A cancelled
// context is returned as an error rather than as failed lookups.
func (p *Puller) lookupProfile(ctx context.Context, ticker string, attrs []string) ([]profile.Lookup, error) {
	results := make([]profile.Lookup, len(attrs))
	var g errgroup.Group
	g.SetLimit(p.concurrency)
	for i, attr := range attrs {
		g.Go(func() error {
			results[i] = p.profiles.Lookup(ctx, ticker, columns.Capitalize(attr))
			return nil
		})
	}
	g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
