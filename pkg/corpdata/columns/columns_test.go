package columns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapitalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"adj close", "Adj close"},
		{"Adj Close", "Adj close"},
		{"regularMarketPrice", "Regularmarketprice"},
		{"FULL TIME EMPLOYEES", "Full time employees"},
		{"é", "É"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Capitalize(tt.in), tt.in)
	}
}

func TestCanonical(t *testing.T) {
	got, ok := Canonical("REGULARMARKETPRICE", TradeAttributes)
	require.True(t, ok)
	assert.Equal(t, "regularMarketPrice", got)

	_, ok = Canonical("closing", PriceTypes)
	assert.False(t, ok)
}

func TestCheck(t *testing.T) {
	accepted, rejected := Check([]string{"adj close", "Open", "open", "bogus", "BOGUS", "vol"}, PriceTypes)
	assert.Equal(t, []string{"Adj Close", "Open", "Open"}, accepted)
	assert.Equal(t, []string{"Bogus", "Vol"}, rejected)
}

func TestCheck_Empty(t *testing.T) {
	accepted, rejected := Check(nil, CompanyAttributes)
	assert.Empty(t, accepted)
	assert.Nil(t, rejected)
}

func TestDifference(t *testing.T) {
	got := Difference(PriceTypes, []string{"adj close", "VOLUME"})
	assert.Equal(t, []string{"Open", "High", "Low", "Close"}, got)
}

func TestTradeAttributesUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, a := range TradeAttributes {
		key := Capitalize(a)
		assert.False(t, seen[key], "duplicate trade attribute %q", a)
		seen[key] = true
	}
}

func TestExpandSets(t *testing.T) {
	got, err := ExpandSets([]string{"price", "company", " ", "session", "price"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Adj Close"}, got.PriceTypes)
	assert.Equal(t, CompanyAttributes, got.CompanyAttributes)
	assert.Equal(t, Sets["session"], got.TradeAttributes)
}

func TestExpandSets_Unknown(t *testing.T) {
	_, err := ExpandSets([]string{"nope"})
	var use *UnknownSetError
	require.ErrorAs(t, err, &use)
	assert.Equal(t, "nope", use.Name)
	assert.Contains(t, use.Available, "valuation")
}

func TestSetsOnlyNameKnownFields(t *testing.T) {
	for name, fields := range Sets {
		for _, f := range fields {
			_, p := Canonical(f, PriceTypes)
			_, tr := Canonical(f, TradeAttributes)
			_, c := Canonical(f, CompanyAttributes)
			assert.True(t, p || tr || c, "set %s: unknown field %q", name, f)
		}
	}
}
