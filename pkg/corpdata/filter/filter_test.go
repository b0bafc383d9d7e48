package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komsit37/corpdata/pkg/corpdata/types"
)

func TestParse(t *testing.T) {
	cases := []struct {
		expr  string
		name  string
		match bool
	}{
		{"", "anything", true},
		{"Core,us/banks", "us/banks", true},
		{"Core,us/banks", "us/tech", false},
		{"us/*", "us/tech", true},
		{"us/*", "eu/tech", false},
		{"/^us-/", "us-growth", true},
		{"/^us-/", "eu-us-growth", false},
		{"tech", "US/Tech", true},
		{"tech", "banks", false},
		{"!us/*", "eu/tech", true},
		{"!us/*", "us/tech", false},
		{"!", "x", false},
	}
	for _, c := range cases {
		f, err := Parse(c.expr)
		require.NoError(t, err, c.expr)
		assert.Equal(t, c.match, f.Match(c.name), "%q ~ %q", c.expr, c.name)
	}
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse("/(/")
	assert.Error(t, err)
	_, err = Parse("us/[")
	assert.Error(t, err)
	_, err = Parse("!/(/")
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	lists := []types.Universe{
		{Name: "us/banks", Tickers: []string{"JPM"}},
		{Name: "us/tech", Tickers: []string{"AAPL"}},
		{Name: "jp", Tickers: []string{"7203.T"}},
	}
	f, err := Parse("us/*")
	require.NoError(t, err)
	assert.Equal(t, lists[:2], Apply(f, lists))
	assert.Equal(t, lists, Apply(nil, lists))
}
