package puller

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/komsit37/corpdata/pkg/corpdata/columns"
)

// Selection chooses what a Puller fetches. Each field may be nil, a string,
// or a slice/array of strings; anything else is a configuration error.
// Values are matched case-insensitively against the allow-lists in package columns.
// PriceTypes defaults to Adj Close only when nil; an empty list selects none.
type Selection struct {
	PriceTypes        any
	TradeAttributes   any
	CompanyAttributes any
}

type selected struct {
	priceTypes        []string
	tradeAttributes   []string
	companyAttributes []string
}

// validate checks all three fields and reports every problem at once.
func (s Selection) validate() (selected, error) {
	var (
		out      selected
		problems []string
	)
	check := func(param string, v any, allowed []string) []string {
		vals, problem := toStrings(param, v)
		if problem != "" {
			problems = append(problems, problem)
			return nil
		}
		accepted, rejected := columns.Check(vals, allowed)
		var names []string
		blank := false
		for _, r := range rejected {
			if strings.TrimSpace(r) == "" {
				blank = true
				continue
			}
			names = append(names, r)
		}
		if blank {
			problems = append(problems, fmt.Sprintf("%s must not contain empty names.", param))
		}
		if len(names) > 0 {
			problems = append(problems, fmt.Sprintf("The following are invalid for %s: %s", param, strings.Join(names, ",")))
		}
		return accepted
	}
	out.priceTypes = check("priceTypes", s.PriceTypes, columns.PriceTypes)
	out.tradeAttributes = check("tradeAttributes", s.TradeAttributes, columns.TradeAttributes)
	out.companyAttributes = check("companyAttributes", s.CompanyAttributes, columns.CompanyAttributes)
	if len(problems) > 0 {
		return selected{}, &ConfigurationError{Problems: problems}
	}
	// An explicitly empty list selects no price types at all.
	if absent(s.PriceTypes) {
		out.priceTypes = []string{columns.DefaultPriceType}
	}
	return out, nil
}

// absent reports whether v leaves a field unset: nil or a nil slice.
func absent(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Slice && rv.IsNil()
}

// toStrings flattens a string or a slice/array of strings. It returns a
// problem description instead of a value when v has the wrong shape.
func toStrings(param string, v any) ([]string, string) {
	switch s := v.(type) {
	case nil:
		return nil, ""
	case string:
		return []string{s}, ""
	case []string:
		return append([]string(nil), s...), ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return []string{rv.String()}, ""
	case reflect.Slice, reflect.Array:
		out := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			e := rv.Index(i)
			for e.Kind() == reflect.Interface && !e.IsNil() {
				e = e.Elem()
			}
			if e.Kind() != reflect.String {
				return nil, fmt.Sprintf("%s must only contain strings.", param)
			}
			out = append(out, e.String())
		}
		return out, ""
	}
	return nil, fmt.Sprintf("%s must be a string or an iterable of strings.", param)
}
