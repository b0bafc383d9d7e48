package types

// Universe represents a named list of tickers, e.g. an index membership file.
type Universe struct {
	Name    string
	Tickers []string
}

// Record is a raw key/value quote record as returned by a structured quote API.
// Keys use the provider's spelling (e.g. "regularMarketPrice").
type Record map[string]any

// Attributes maps a lower-cased attribute name to its resolved value.
// A nil value means the attribute could not be resolved.
type Attributes map[string]any

// TickerAttributes pairs a ticker with its resolved attributes for rendering.
type TickerAttributes struct {
	Ticker     string
	Attributes Attributes
}
