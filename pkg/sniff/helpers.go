package sniff

import (
	"slices"

	"github.com/yaklabco/twigcs/pkg/token"
)

// FindNext scans forward from start, inclusive. With exclude false it
// returns the first token whose type is in types; with exclude true, the
// first token whose type is not. ok is false when the scan runs off the end.
func FindNext(types []token.Type, stream *token.Stream, start int, exclude bool) (int, bool) {
	for pos := max(start, 0); pos < stream.Len(); pos++ {
		if slices.Contains(types, stream.Get(pos).Type) != exclude {
			return pos, true
		}
	}
	return 0, false
}

// FindPrevious is FindNext scanning backward from start, inclusive.
func FindPrevious(types []token.Type, stream *token.Stream, start int, exclude bool) (int, bool) {
	for pos := min(start, stream.Len()-1); pos >= 0; pos-- {
		if slices.Contains(types, stream.Get(pos).Type) != exclude {
			return pos, true
		}
	}
	return 0, false
}

// IsTokenMatching reports whether tok has type typ and, if values are given,
// one of those values.
func IsTokenMatching(tok token.Token, typ token.Type, values ...string) bool {
	return tok.Is(typ, values...)
}
