package twig

import (
	"fmt"
	"strings"
)

// SyntaxError is a template grammar error.
type SyntaxError struct {
	Message  string
	Filename string
	Line     int
}

// Error implements error.
func (e *SyntaxError) Error() string {
	msg := strings.TrimSuffix(e.Message, ".")
	if e.Filename == "" {
		return fmt.Sprintf("%s at line %d.", msg, e.Line)
	}
	return fmt.Sprintf("%s in %q at line %d.", msg, e.Filename, e.Line)
}

// Deprecation is a deprecated construct found while parsing.
type Deprecation struct {
	Message  string
	Filename string
	Line     int
}

// Diagnostics receives deprecations for the duration of one Parse call.
// A nil Diagnostics discards them.
type Diagnostics func(Deprecation)
