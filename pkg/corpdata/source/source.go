package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/komsit37/corpdata/pkg/corpdata/types"
)

// Source loads ticker universes from a reference such as a file path.
type Source interface {
	Load(ctx context.Context, ref any) ([]types.Universe, error)
}

// ForPath picks a source by file extension: .csv files are ticker lists,
// everything else (including directories) is read as YAML watchlists.
func ForPath(path string) Source {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return YAMLSource{}
	}
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return CSVSource{}
	}
	return YAMLSource{}
}

// Bloomberg-style security suffixes found in exported index constituent lists.
var securitySuffixes = []string{" US Equity", " Equity"}

// NormalizeTicker trims s, strips a trailing security suffix and upper-cases
// the result.
func NormalizeTicker(s string) string {
	s = strings.TrimSpace(s)
	for _, suf := range securitySuffixes {
		if len(s) >= len(suf) && strings.EqualFold(s[len(s)-len(suf):], suf) {
			s = s[:len(s)-len(suf)]
			break
		}
	}
	return strings.ToUpper(strings.TrimSpace(s))
}

// Tickers flattens universes into one list, dropping duplicates and keeping
// first-seen order.
func Tickers(lists []types.Universe) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, l := range lists {
		for _, t := range l.Tickers {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}
