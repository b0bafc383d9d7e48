package columns

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// PriceTypes is the fixed universe of historical price columns, in output order.
var PriceTypes = []string{"Open", "High", "Low", "Close", "Adj Close", "Volume"}

// DefaultPriceType is used when no price types are selected.
const DefaultPriceType = "Adj Close"

// TradeAttributes are the quote fields that can be requested from the structured quote source.
var TradeAttributes = []string{
	"language", "region", "quoteType", "triggerable", "quoteSourceName", "currency", "tradeable",
	"exchange", "shortName", "longName", "messageBoardId",
	"exchangeTimezoneName", "exchangeTimezoneShortName", "gmtOffSetMilliseconds", "market",
	"esgPopulated", "firstTradeDateMilliseconds", "priceHint",
	"postMarketChangePercent", "postMarketTime", "postMarketPrice", "postMarketChange",
	"regularMarketChange", "regularMarketChangePercent", "regularMarketTime", "regularMarketPrice",
	"regularMarketDayHigh", "regularMarketDayRange", "regularMarketDayLow", "regularMarketVolume",
	"regularMarketPreviousClose", "bid", "ask", "bidSize", "askSize", "fullExchangeName",
	"financialCurrency", "regularMarketOpen", "averageDailyVolume3Month", "averageDailyVolume10Day",
	"fiftyTwoWeekLowChange", "fiftyTwoWeekLowChangePercent", "fiftyTwoWeekRange",
	"fiftyTwoWeekHighChange", "fiftyTwoWeekHighChangePercent", "fiftyTwoWeekLow", "fiftyTwoWeekHigh",
	"dividendDate", "earningsTimestamp", "earningsTimestampStart", "earningsTimestampEnd",
	"trailingAnnualDividendRate", "trailingPE", "trailingAnnualDividendYield", "marketState",
	"epsTrailingTwelveMonths", "epsForward", "sharesOutstanding", "bookValue",
	"fiftyDayAverage", "fiftyDayAverageChange", "fiftyDayAverageChangePercent",
	"twoHundredDayAverage", "twoHundredDayAverageChange", "twoHundredDayAverageChangePercent",
	"marketCap", "forwardPE", "priceToBook", "sourceInterval", "exchangeDataDelayedBy", "symbol",
}

// CompanyAttributes are the descriptive fields scraped from the profile page.
var CompanyAttributes = []string{"sector", "industry", "full time employees"}

// Capitalize upper-cases the first letter of s and lower-cases the rest.
// It is the normal form used for every allow-list comparison.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, n := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[n:])
}

// Canonical returns the allow-list spelling of name, matched case-insensitively.
func Canonical(name string, allowed []string) (string, bool) {
	key := Capitalize(name)
	for _, a := range allowed {
		if Capitalize(a) == key {
			return a, true
		}
	}
	return "", false
}

// Check validates candidates against allowed. Accepted entries keep their input
// order and duplicates and are returned in canonical spelling. Rejected entries
// are returned once each, capitalized, in first-seen order.
func Check(candidates, allowed []string) (accepted, rejected []string) {
	index := make(map[string]string, len(allowed))
	for _, a := range allowed {
		index[Capitalize(a)] = a
	}
	seen := map[string]struct{}{}
	accepted = make([]string, 0, len(candidates))
	for _, c := range candidates {
		key := Capitalize(c)
		if canon, ok := index[key]; ok {
			accepted = append(accepted, canon)
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		rejected = append(rejected, key)
	}
	return accepted, rejected
}

// Difference returns the elements of all that are not in sel, compared in normal form.
// Order follows all.
func Difference(all, sel []string) []string {
	drop := make(map[string]struct{}, len(sel))
	for _, s := range sel {
		drop[Capitalize(s)] = struct{}{}
	}
	out := make([]string, 0, len(all))
	for _, a := range all {
		if _, ok := drop[Capitalize(a)]; ok {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Lower returns a copy of names with every element lower-cased.
func Lower(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = strings.ToLower(n)
	}
	return out
}
