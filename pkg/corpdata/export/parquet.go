package export

import (
	"github.com/parquet-go/parquet-go"

	"github.com/komsit37/corpdata/pkg/corpdata/table"
)

// ParquetSaver writes the table in long form, one row per non-missing value.
type ParquetSaver struct{}

func (ParquetSaver) Extension() string { return "parquet" }

func (ParquetSaver) Save(t *table.PriceTable, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	return parquet.WriteFile(path, t.Observations())
}
