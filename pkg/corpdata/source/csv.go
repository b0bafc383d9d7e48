package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/komsit37/corpdata/pkg/corpdata/types"
)

// TickerColumn is the header of the CSV column holding tickers.
const TickerColumn = "ticker"

// CSVSource loads a single universe from a CSV file with a header row.
// The universe is named after the file.
type CSVSource struct{}

// Load expects ref to be a string filepath.
func (CSVSource) Load(ctx context.Context, ref any) ([]types.Universe, error) { //nolint:revive // ctx reserved for future use
	path, ok := ref.(string)
	if !ok {
		return nil, fmt.Errorf("csv source expects a filepath string")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tickers, err := parseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return []types.Universe{{Name: name, Tickers: tickers}}, nil
}

func parseCSV(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty csv")
	}
	if err != nil {
		return nil, err
	}
	col := -1
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")), TickerColumn) {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("missing %q column", TickerColumn)
	}

	var out []string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if col >= len(rec) {
			continue
		}
		if t := NormalizeTicker(rec[col]); t != "" {
			out = append(out, t)
		}
	}
	return out, nil
}
