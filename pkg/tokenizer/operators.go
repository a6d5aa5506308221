package tokenizer

import (
	"cmp"
	"regexp"
	"slices"
	"strings"
)

// operatorMatcher matches the longest registered operator at a cursor.
//
// Go's regexp has no lookaround, so the word-boundary rules Twig encodes in
// its operator regex are checked after the match.
type operatorMatcher struct {
	ops []operator
}

type operator struct {
	value string
	re    *regexp.Regexp

	// wordStart: the operator begins with a letter and must not follow '.' or '|'.
	wordStart bool

	// wordEnd: the operator ends with a letter and must be followed by
	// whitespace, a parenthesis, '[' or '{'.
	wordEnd bool
}

func newOperatorMatcher(values []string) *operatorMatcher {
	seen := make(map[string]struct{}, len(values))
	unique := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.Join(strings.Fields(v), " ")
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		unique = append(unique, v)
	}

	// Longest first so "not in" wins over "not" and "**" over "*".
	slices.SortFunc(unique, func(a, b string) int {
		if c := cmp.Compare(len(b), len(a)); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	m := &operatorMatcher{ops: make([]operator, 0, len(unique))}
	for _, v := range unique {
		parts := strings.Split(v, " ")
		for i := range parts {
			parts[i] = regexp.QuoteMeta(parts[i])
		}
		m.ops = append(m.ops, operator{
			value:     v,
			re:        regexp.MustCompile(`^(?:` + strings.Join(parts, `\s+`) + `)`),
			wordStart: isLetter(v[0]),
			wordEnd:   isLetter(v[len(v)-1]),
		})
	}
	return m
}

// match returns the operator text at src[cursor:], or "" when none applies.
func (m *operatorMatcher) match(src string, cursor int) string {
	rest := src[cursor:]
	for _, op := range m.ops {
		found := op.re.FindString(rest)
		if found == "" {
			continue
		}
		if op.wordEnd {
			next := cursor + len(found)
			if next >= len(src) || !strings.ContainsRune(" \t\r\n()[{", rune(src[next])) {
				continue
			}
		}
		if op.wordStart && cursor > 0 {
			if prev := src[cursor-1]; prev == '.' || prev == '|' {
				continue
			}
		}
		return found
	}
	return ""
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
