package export

import (
	"github.com/komsit37/corpdata/pkg/corpdata/table"
)

// CSVSaver writes the wide table: a Date column then one column per
// (price type, ticker), missing values as NaN.
type CSVSaver struct{}

func (CSVSaver) Extension() string { return "csv" }

func (CSVSaver) Save(t *table.PriceTable, path string) error {
	df := t.DataFrame()
	if df.Err != nil {
		return df.Err
	}
	f, err := create(path)
	if err != nil {
		return err
	}
	if err := df.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
