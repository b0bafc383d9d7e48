// Package export persists price tables to files.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/komsit37/corpdata/pkg/corpdata/table"
)

// Saver writes a price table to path.
type Saver interface {
	Save(t *table.PriceTable, path string) error
	Extension() string
}

// Formats lists the supported save formats.
var Formats = []string{"csv", "parquet", "json"}

// NewSaver returns the saver for format (csv, parquet, json).
func NewSaver(format string) (Saver, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv", "":
		return CSVSaver{}, nil
	case "parquet":
		return ParquetSaver{}, nil
	case "json":
		return JSONSaver{}, nil
	default:
		return nil, fmt.Errorf("export: unsupported format %q (use: %s)", format, strings.Join(Formats, ", "))
	}
}

// Path appends the saver's extension to path unless it already has one.
func Path(s Saver, path string) string {
	if filepath.Ext(path) != "" {
		return path
	}
	return path + "." + s.Extension()
}

func ensureDir(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		return os.MkdirAll(dir, 0o755)
	}
	return nil
}

func create(path string) (*os.File, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	return os.Create(path)
}
