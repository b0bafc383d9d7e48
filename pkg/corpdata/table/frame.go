package table

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// DateColumn is the name of the index column in DataFrame output.
const DateColumn = "Date"

// DataFrame converts t into a gota dataframe with a leading Date column
// followed by one float column per table column, named "<price type>/<ticker>".
func (t *PriceTable) DataFrame() dataframe.DataFrame {
	dates := make([]string, len(t.Dates))
	for i, d := range t.Dates {
		dates[i] = d.Format(DateLayout)
	}
	cols := make([]series.Series, 0, len(t.Columns)+1)
	cols = append(cols, series.New(dates, series.String, DateColumn))
	for i, c := range t.Columns {
		cols = append(cols, series.New(t.Values[i], series.Float, c.String()))
	}
	return dataframe.New(cols...)
}
