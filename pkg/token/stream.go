package token

import "strings"

// Stream is the immutable token sequence of one source file.
// Positions are dense indices starting at 0; the last token is always Eof.
type Stream struct {
	filename string
	tokens   []Token
}

// NewStream wraps tokens. The slice is copied.
func NewStream(filename string, tokens []Token) *Stream {
	cp := make([]Token, len(tokens))
	copy(cp, tokens)
	return &Stream{filename: filename, tokens: cp}
}

// Filename returns the logical file name of the stream.
func (s *Stream) Filename() string {
	return s.filename
}

// Len returns the number of tokens.
func (s *Stream) Len() int {
	return len(s.tokens)
}

// At returns the token at pos. ok is false when pos is out of range.
func (s *Stream) At(pos int) (Token, bool) {
	if pos < 0 || pos >= len(s.tokens) {
		return Token{}, false
	}
	return s.tokens[pos], true
}

// Get returns the token at pos and panics when pos is out of range.
func (s *Stream) Get(pos int) Token {
	return s.tokens[pos]
}

// Tokens returns a copy of the tokens.
func (s *Stream) Tokens() []Token {
	cp := make([]Token, len(s.tokens))
	copy(cp, s.tokens)
	return cp
}

// Values returns the token values in order.
func (s *Stream) Values() []string {
	values := make([]string, len(s.tokens))
	for i, tok := range s.tokens {
		values[i] = tok.Value
	}
	return values
}

// Source concatenates every token value. For a stream produced by the
// tokenizer this equals the original source.
func (s *Stream) Source() string {
	var b strings.Builder
	for _, tok := range s.tokens {
		b.WriteString(tok.Value)
	}
	return b.String()
}
