package columns

import (
	"sort"
	"strings"
)

// Sets defines named field groups that expand into lists of fields.
// - "price", "ohlc": historical price types
// - everything else: quote fields, except "company" which holds profile fields
var Sets = map[string][]string{
	"price": {"Adj Close"},
	"ohlc":  {"Open", "High", "Low", "Close", "Volume"},
	"identity": {
		"symbol", "shortName", "longName", "quoteType", "exchange", "fullExchangeName", "currency", "market",
	},
	"session": {
		"regularMarketPrice", "regularMarketChange", "regularMarketChangePercent",
		"regularMarketOpen", "regularMarketDayHigh", "regularMarketDayLow", "regularMarketVolume",
		"regularMarketPreviousClose", "marketState",
	},
	"52week": {
		"fiftyTwoWeekLow", "fiftyTwoWeekHigh", "fiftyTwoWeekRange",
		"fiftyTwoWeekLowChangePercent", "fiftyTwoWeekHighChangePercent",
	},
	"valuation": {
		"marketCap", "trailingPE", "forwardPE", "priceToBook", "bookValue",
		"epsTrailingTwelveMonths", "epsForward", "sharesOutstanding",
	},
	"dividend": {"dividendDate", "trailingAnnualDividendRate", "trailingAnnualDividendYield"},
	"earnings": {"earningsTimestamp", "earningsTimestampStart", "earningsTimestampEnd"},
	"company":  {"sector", "industry", "full time employees"},
}

// Expanded holds the result of ExpandSets, split by the allow-list each field belongs to.
type Expanded struct {
	PriceTypes        []string
	TradeAttributes   []string
	CompanyAttributes []string
}

// ExpandSets returns the union of fields for the given set names.
// It preserves the order of the sets and the order of fields within each set,
// and de-duplicates fields while keeping the first occurrence.
func ExpandSets(setNames []string) (Expanded, error) {
	var out Expanded
	seen := map[string]struct{}{}
	for _, name := range setNames {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		fields, ok := Sets[name]
		if !ok {
			return Expanded{}, &UnknownSetError{Name: name, Available: availableSets()}
		}
		for _, f := range fields {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			if c, ok := Canonical(f, PriceTypes); ok {
				out.PriceTypes = append(out.PriceTypes, c)
			} else if c, ok := Canonical(f, CompanyAttributes); ok {
				out.CompanyAttributes = append(out.CompanyAttributes, c)
			} else {
				out.TradeAttributes = append(out.TradeAttributes, f)
			}
		}
	}
	return out, nil
}

// UnknownSetError reports an unknown field set name.
type UnknownSetError struct {
	Name      string
	Available []string
}

func (e *UnknownSetError) Error() string {
	return "unknown field set: " + e.Name + "; available: " + strings.Join(e.Available, ", ")
}

// SetNames returns the known set names, sorted.
func SetNames() []string { return availableSets() }

func availableSets() []string {
	keys := make([]string, 0, len(Sets))
	for k := range Sets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
