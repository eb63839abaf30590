// Package placeholders discovers placeholder names in templates and
// substitutes values for them in text.
package placeholders

import (
	"regexp"
	"slices"
	"strings"
)

// Grammar is one delimiter convention.
type Grammar struct {
	Name    string
	pattern *regexp.Regexp
	accept  func(inner string) bool
}

var (
	// DoubleBrace matches {{name}}.
	DoubleBrace = Grammar{
		Name:    "double_brace",
		pattern: regexp.MustCompile(`\{\{([^}]+)\}\}`),
	}

	// SingleBrace matches {name}, rejecting formula-like contents.
	SingleBrace = Grammar{
		Name:    "single_brace",
		pattern: regexp.MustCompile(`\{([^{}]+)\}`),
		accept: func(inner string) bool {
			return !strings.ContainsAny(inner, "=(")
		},
	}

	// DoubleAngle matches <<name>>.
	DoubleAngle = Grammar{
		Name:    "double_angle",
		pattern: regexp.MustCompile(`<<([^>]+)>>`),
	}

	// Dollar matches $name$, rejecting contents with '='.
	Dollar = Grammar{
		Name:    "dollar",
		pattern: regexp.MustCompile(`\$([^$]+)\$`),
		accept: func(inner string) bool {
			return !strings.Contains(inner, "=")
		},
	}

	// Grammars is the full set, in substitution order.
	Grammars = []Grammar{DoubleBrace, DoubleAngle, Dollar, SingleBrace}
)

func (g Grammar) name(inner string) (string, bool) {
	if g.accept != nil && !g.accept(inner) {
		return "", false
	}
	name := strings.TrimSpace(inner)
	return name, name != ""
}

// Scan returns the placeholder names found in text by any grammar.
func Scan(text string) *Set {
	return ScanWith(text, DoubleBrace, SingleBrace, DoubleAngle, Dollar)
}

// ScanWith returns the names found by the given grammars, grammar by grammar
// and left to right within each.
func ScanWith(text string, grammars ...Grammar) *Set {
	set := NewSet()
	for _, g := range grammars {
		for _, m := range g.pattern.FindAllStringSubmatch(text, -1) {
			if name, ok := g.name(m[1]); ok {
				set.Add(name)
			}
		}
	}
	return set
}

// Replace substitutes every placeholder whose name lookup resolves, under
// every grammar. Matches are taken from the original text only, so values are
// inserted verbatim and never rescanned. Where matches of two grammars
// overlap, the one earlier in Grammars wins. Unknown placeholders are left in
// place. It returns the new text and the number of substitutions.
func Replace(text string, lookup func(name string) (string, bool)) (string, int) {
	type span struct {
		start, end int
		value      string
	}

	var spans []span
	overlaps := func(start, end int) bool {
		for _, sp := range spans {
			if start < sp.end && sp.start < end {
				return true
			}
		}
		return false
	}

	for _, g := range Grammars {
		for _, m := range g.pattern.FindAllStringSubmatchIndex(text, -1) {
			if overlaps(m[0], m[1]) {
				continue
			}
			name, ok := g.name(text[m[2]:m[3]])
			if !ok {
				continue
			}
			value, ok := lookup(name)
			if !ok {
				continue
			}
			spans = append(spans, span{start: m[0], end: m[1], value: value})
		}
	}

	if len(spans) == 0 {
		return text, 0
	}
	slices.SortFunc(spans, func(a, b span) int { return a.start - b.start })

	var b strings.Builder
	last := 0
	for _, sp := range spans {
		b.WriteString(text[last:sp.start])
		b.WriteString(sp.value)
		last = sp.end
	}
	b.WriteString(text[last:])
	return b.String(), len(spans)
}
