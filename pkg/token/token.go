// Package token defines the lexical units produced by the twigcs tokenizer.
package token

import "fmt"

// Type classifies a token.
type Type uint8

// Token types. Delimiters and expression kinds mirror Twig's own lexer;
// Whitespace, Tab and Eol are split out so sniffs can reason about layout.
const (
	Eof Type = iota
	Text
	BlockStart
	BlockEnd
	VarStart
	VarEnd
	CommentStart
	CommentEnd
	Name
	Number
	String
	Operator
	Punctuation
	InterpolationStart
	InterpolationEnd
	Arrow
	Whitespace // spaces
	Tab
	Eol
)

var typeNames = [...]string{
	Eof:                "EOF",
	Text:               "TEXT",
	BlockStart:         "BLOCK_START",
	BlockEnd:           "BLOCK_END",
	VarStart:           "VAR_START",
	VarEnd:             "VAR_END",
	CommentStart:       "COMMENT_START",
	CommentEnd:         "COMMENT_END",
	Name:               "NAME",
	Number:             "NUMBER",
	String:             "STRING",
	Operator:           "OPERATOR",
	Punctuation:        "PUNCTUATION",
	InterpolationStart: "INTERPOLATION_START",
	InterpolationEnd:   "INTERPOLATION_END",
	Arrow:              "ARROW",
	Whitespace:         "WHITESPACE",
	Tab:                "TAB",
	Eol:                "EOL",
}

// String returns the upper-case name of the type.
func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", t)
}

// IsSpace reports whether the type is one of the layout kinds.
func (t Type) IsSpace() bool {
	return t == Whitespace || t == Tab || t == Eol
}

// Token is a single lexical unit.
//
// Tokens are values; a Stream never hands out pointers into its backing slice.
type Token struct {
	// Type classifies the token.
	Type Type

	// Line is the 1-based line of the first byte.
	Line int

	// Column is the 1-based byte column of the first byte.
	Column int

	// Offset is the byte offset of the first byte in the source.
	Offset int

	// Filename is the logical name of the source.
	Filename string

	// Value is the exact source text. Empty for Eof.
	Value string
}

// Is reports whether the token has the given type and, when values are
// given, one of those values.
func (t Token) Is(typ Type, values ...string) bool {
	if t.Type != typ {
		return false
	}
	if len(values) == 0 {
		return true
	}
	for _, v := range values {
		if t.Value == v {
			return true
		}
	}
	return false
}

// String returns a debug representation.
func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", t.Type, t.Value, t.Line, t.Column)
}
