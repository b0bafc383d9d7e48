package profile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/komsit37/corpdata/pkg/corpdata/httpx"
)

// DefaultBaseURL is the Yahoo Finance web host serving profile pages.
const DefaultBaseURL = "https://finance.yahoo.com"

// ErrLabelNotFound is recorded when the page has no span with the requested label,
// or no value span after it.
var ErrLabelNotFound = errors.New("label not found")

// Lookup is the outcome of resolving one label. Found is false whenever the
// value could not be resolved; Err then says why.
type Lookup struct {
	Value string
	Found bool
	Err   error
}

// Source resolves a labelled value on a ticker's profile page.
type Source interface {
	Lookup(ctx context.Context, ticker, label string) Lookup
}

// Scraper implements Source by fetching and parsing the Yahoo profile page.
// Every call fetches the page again.
type Scraper struct {
	client  *httpx.Client
	baseURL string
	log     zerolog.Logger
}

// NewScraper creates a Scraper. An empty baseURL selects DefaultBaseURL.
func NewScraper(client *httpx.Client, baseURL string, log zerolog.Logger) *Scraper {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Scraper{client: client, baseURL: strings.TrimRight(baseURL, "/"), log: log}
}

// URL returns the profile page address for ticker.
func (s *Scraper) URL(ticker string) string {
	return fmt.Sprintf("%s/quote/%s/profile?p=%s", s.baseURL, url.PathEscape(ticker), url.QueryEscape(ticker))
}

func (s *Scraper) Lookup(ctx context.Context, ticker, label string) Lookup {
	body, err := s.client.GetBody(ctx, s.URL(ticker))
	if err != nil {
		s.log.Debug().Err(err).Str("ticker", ticker).Str("label", label).Msg("profile fetch failed")
		return Lookup{Err: fmt.Errorf("fetch profile %s: %w", ticker, err)}
	}
	res := Parse(bytes.NewReader(body), label)
	if !res.Found {
		s.log.Debug().Err(res.Err).Str("ticker", ticker).Str("label", label).Msg("profile label unresolved")
	}
	return res
}

// Parse finds the first span whose text matches label (case-insensitive, trimmed)
// and returns the trimmed text of the next span sibling.
func Parse(r io.Reader, label string) Lookup {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Lookup{Err: fmt.Errorf("parse profile html: %w", err)}
	}
	want := strings.TrimSpace(label)
	match := doc.Find("span").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		return strings.EqualFold(strings.TrimSpace(sel.Text()), want)
	}).First()
	if match.Length() == 0 {
		return Lookup{Err: fmt.Errorf("%q: %w", label, ErrLabelNotFound)}
	}
	value := match.NextAllFiltered("span").First()
	if value.Length() == 0 {
		return Lookup{Err: fmt.Errorf("%q has no value: %w", label, ErrLabelNotFound)}
	}
	return Lookup{Value: strings.TrimSpace(value.Text()), Found: true}
}
