package table

import (
	"fmt"
	"math"
	"strings"
)

// ReturnKind selects how period returns are computed.
type ReturnKind string

const (
	SimpleReturns ReturnKind = "simple" // p[t]/p[t-1] - 1
	LogReturns    ReturnKind = "log"    // ln(p[t]/p[t-1])
)

// ParseReturnKind accepts "simple" or "log", case-insensitively.
func ParseReturnKind(s string) (ReturnKind, error) {
	switch k := ReturnKind(strings.ToLower(strings.TrimSpace(s))); k {
	case SimpleReturns, LogReturns:
		return k, nil
	default:
		return "", fmt.Errorf("unknown return kind %q: want simple or log", s)
	}
}

// Returns computes period-over-period returns for every column. The first row
// has no predecessor and is dropped. A NaN on either side yields NaN.
func (t *PriceTable) Returns(kind ReturnKind) *PriceTable {
	out := &PriceTable{Columns: append([]Column(nil), t.Columns...)}
	if len(t.Dates) < 2 {
		out.Values = make([][]float64, len(t.Columns))
		for i := range out.Values {
			out.Values[i] = []float64{}
		}
		return out
	}
	out.Dates = append(out.Dates, t.Dates[1:]...)
	out.Values = make([][]float64, len(t.Columns))
	for c, series := range t.Values {
		rets := make([]float64, len(series)-1)
		for i := 1; i < len(series); i++ {
			prev, cur := series[i-1], series[i]
			switch kind {
			case LogReturns:
				rets[i-1] = math.Log(cur / prev)
			default:
				rets[i-1] = cur/prev - 1
			}
		}
		out.Values[c] = rets
	}
	return out
}
