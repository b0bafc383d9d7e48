package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/komsit37/corpdata/pkg/corpdata/types"
)

// YAMLSource loads universes from a YAML watchlist file or a directory of them.
//
//	watchlist:
//	  - sym: AAPL
//	  - name: Banks
//	    watchlist:
//	      - sym: JPM
type YAMLSource struct{}

// Load expects ref to be a string filepath.
func (YAMLSource) Load(ctx context.Context, ref any) ([]types.Universe, error) { //nolint:revive // ctx reserved for future use
	path, ok := ref.(string)
	if !ok {
		return nil, fmt.Errorf("yaml source expects a filepath string")
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		lists, err := parseYAML(data)
		if err != nil {
			return nil, err
		}
		// Unnamed lists take the file name.
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		for i := range lists {
			if strings.TrimSpace(lists[i].Name) == "" {
				lists[i].Name = base
			}
		}
		return lists, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(d.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	var all []types.Universe
	for _, full := range files {
		data, err := os.ReadFile(full)
		if err != nil {
			return nil, err
		}
		lists, err := parseYAML(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", full, err)
		}
		// Prefix names with the relative path, without extension.
		rel, err := filepath.Rel(path, full)
		if err != nil {
			rel = filepath.Base(full)
		}
		prefix := filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel)))
		for i := range lists {
			if strings.TrimSpace(lists[i].Name) == "" {
				lists[i].Name = prefix
			} else if prefix != "" {
				lists[i].Name = prefix + "/" + lists[i].Name
			}
		}
		all = append(all, lists...)
	}
	return all, nil
}

// parseYAML turns a watchlist tree into universes, one per group holding
// sym entries. Group names are joined with "/".
func parseYAML(data []byte) ([]types.Universe, error) {
	var root map[string]any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	node, ok := root["watchlist"]
	if !ok || node == nil {
		return nil, fmt.Errorf("invalid yaml: missing 'watchlist'")
	}

	var lists []types.Universe
	var walk func(node any, path []string)
	walk = func(node any, path []string) {
		switch n := node.(type) {
		case []any:
			var tickers []string
			for _, e := range n {
				if t, ok := symOf(e); ok {
					tickers = append(tickers, t)
				}
			}
			if len(tickers) > 0 {
				lists = append(lists, types.Universe{Name: strings.Join(path, "/"), Tickers: tickers})
			}
			for _, e := range n {
				if g, ok := e.(map[string]any); ok {
					if child, ok := g["watchlist"]; ok {
						walk(child, groupPath(path, g))
					}
				}
			}
		case map[string]any:
			if child, ok := n["watchlist"]; ok {
				walk(child, groupPath(path, n))
				return
			}
			if t, ok := symOf(n); ok {
				lists = append(lists, types.Universe{Name: strings.Join(path, "/"), Tickers: []string{t}})
			}
		}
	}
	walk(node, nil)
	return lists, nil
}

func groupPath(path []string, g map[string]any) []string {
	next := append([]string(nil), path...)
	if name, ok := g["name"].(string); ok && strings.TrimSpace(name) != "" {
		next = append(next, strings.TrimSpace(name))
	}
	return next
}

// symOf returns the normalized ticker of a leaf entry. Bare strings count as
// entries too.
func symOf(v any) (string, bool) {
	switch e := v.(type) {
	case string:
		t := NormalizeTicker(e)
		return t, t != ""
	case map[string]any:
		if _, group := e["watchlist"]; group {
			return "", false
		}
		sym, ok := e["sym"]
		if !ok || sym == nil {
			return "", false
		}
		t := NormalizeTicker(fmt.Sprint(sym))
		return t, t != ""
	}
	return "", false
}
