package tokenizer

import "fmt"

// LexError reports malformed delimiter or bracket nesting and unterminated
// tags, comments or strings.
type LexError struct {
	Message  string
	Filename string
	Line     int
	Column   int
}

// Error implements error.
func (e *LexError) Error() string {
	if e.Filename == "" {
		return fmt.Sprintf("%s at line %d, column %d", e.Message, e.Line, e.Column)
	}
	return fmt.Sprintf("%s in %q at line %d, column %d", e.Message, e.Filename, e.Line, e.Column)
}
