package export

import (
	"encoding/json"

	"github.com/komsit37/corpdata/pkg/corpdata/table"
)

// JSONSaver writes the table in long form as an indented array.
type JSONSaver struct{}

func (JSONSaver) Extension() string { return "json" }

func (JSONSaver) Save(t *table.PriceTable, path string) error {
	f, err := create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t.Observations()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
