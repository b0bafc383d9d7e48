package filter

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/komsit37/corpdata/pkg/corpdata/types"
)

// Filter matches a universe name.
type Filter interface {
	Match(name string) bool
}

// Parse builds a filter from an expression:
//   - "" matches everything
//   - comma-separated exact names: "Core,us/banks"
//   - glob: "us/*"
//   - regex: "/^us-/"
//   - anything else: case-insensitive substring
//
// A leading "!" negates the rest of the expression.
func Parse(expr string) (Filter, error) {
	expr = strings.TrimSpace(expr)
	if strings.HasPrefix(expr, "!") {
		inner, err := Parse(expr[1:])
		if err != nil {
			return nil, err
		}
		return Not{inner: inner}, nil
	}
	if expr == "" {
		return Always(true), nil
	}
	if strings.HasPrefix(expr, "/") && strings.HasSuffix(expr, "/") && len(expr) > 2 {
		re, err := regexp.Compile(expr[1 : len(expr)-1])
		if err != nil {
			return nil, fmt.Errorf("filter %q: %w", expr, err)
		}
		return Regex{re: re}, nil
	}
	if strings.Contains(expr, ",") {
		set := map[string]struct{}{}
		for _, p := range strings.Split(expr, ",") {
			if p = strings.TrimSpace(p); p != "" {
				set[p] = struct{}{}
			}
		}
		return ExactSet{set: set}, nil
	}
	if strings.ContainsAny(expr, "*?[") {
		if _, err := filepath.Match(expr, ""); err != nil {
			return nil, fmt.Errorf("filter %q: %w", expr, err)
		}
		return Glob{pattern: expr}, nil
	}
	return SubstrCI{needle: expr}, nil
}

// Apply keeps the universes whose name f matches. A nil filter keeps all.
func Apply(f Filter, lists []types.Universe) []types.Universe {
	if f == nil {
		return lists
	}
	out := make([]types.Universe, 0, len(lists))
	for _, l := range lists {
		if f.Match(l.Name) {
			out = append(out, l)
		}
	}
	return out
}

type Always bool

func (a Always) Match(string) bool { return bool(a) }

type ExactSet struct{ set map[string]struct{} }

func (e ExactSet) Match(name string) bool {
	_, ok := e.set[name]
	return ok
}

type Glob struct{ pattern string }

func (g Glob) Match(name string) bool {
	ok, _ := filepath.Match(g.pattern, name)
	return ok
}

func (g Glob) String() string { return fmt.Sprintf("glob:%s", g.pattern) }

type Regex struct{ re *regexp.Regexp }

func (r Regex) Match(name string) bool { return r.re.MatchString(name) }

func (r Regex) String() string { return fmt.Sprintf("regex:%s", r.re) }

// SubstrCI matches if name contains needle, case-insensitively.
type SubstrCI struct{ needle string }

func (s SubstrCI) Match(name string) bool {
	return strings.Contains(strings.ToLower(name), strings.ToLower(s.needle))
}

func (s SubstrCI) String() string { return fmt.Sprintf("substr-ci:%s", s.needle) }

// Not inverts another filter.
type Not struct{ inner Filter }

func (n Not) Match(name string) bool { return !n.inner.Match(name) }
