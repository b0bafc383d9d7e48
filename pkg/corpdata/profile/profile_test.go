package profile

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komsit37/corpdata/pkg/corpdata/httpx"
)

const profileHTML = `<html><body>
<div class="asset-profile">
  <p>
    <span>Sector(s)</span>: <span class="value"> Technology </span><br/>
    <span>Industry</span>: <span>Consumer Electronics</span><br/>
    <span>Full Time Employees</span>: <span><span>161,000</span></span>
  </p>
  <p><span>Orphan</span></p>
</div>
</body></html>`

func TestParse(t *testing.T) {
	tests := []struct {
		label string
		want  string
		found bool
	}{
		{"Industry", "Consumer Electronics", true},
		{"Full time employees", "161,000", true},
		{"INDUSTRY", "Consumer Electronics", true},
		{"Sector", "", false},
		{"Orphan", "", false},
		{"Website", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got := Parse(strings.NewReader(profileHTML), tt.label)
			assert.Equal(t, tt.found, got.Found)
			assert.Equal(t, tt.want, got.Value)
			if !tt.found {
				assert.ErrorIs(t, got.Err, ErrLabelNotFound)
			}
		})
	}
}

func TestScraper_Lookup(t *testing.T) {
	var gotPath, gotP string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotP = r.URL.Query().Get("p")
		w.Write([]byte(profileHTML))
	}))
	defer srv.Close()

	s := NewScraper(httpx.Default(), srv.URL, zerolog.Nop())
	got := s.Lookup(context.Background(), "Aapl", "Industry")
	require.True(t, got.Found)
	assert.Equal(t, "Consumer Electronics", got.Value)
	assert.Equal(t, "/quote/Aapl/profile", gotPath)
	assert.Equal(t, "Aapl", gotP)
}

func TestScraper_FetchFailureIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	got := NewScraper(httpx.Default(), srv.URL, zerolog.Nop()).Lookup(context.Background(), "Aapl", "Sector")
	assert.False(t, got.Found)
	assert.Empty(t, got.Value)
	var se *httpx.StatusError
	assert.ErrorAs(t, got.Err, &se)
}

func TestScraper_NetworkFailureIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	got := NewScraper(httpx.Default(), url, zerolog.Nop()).Lookup(context.Background(), "Aapl", "Sector")
	assert.False(t, got.Found)
	assert.Error(t, got.Err)
}

func TestScraper_URL(t *testing.T) {
	s := NewScraper(httpx.Default(), "", zerolog.Nop())
	assert.Equal(t, "https://finance.yahoo.com/quote/Brk-b/profile?p=Brk-b", s.URL("Brk-b"))
}
