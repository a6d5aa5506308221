// Package sniff defines the two kinds of rules twigcs runs: token sniffs,
// which see the lossless token stream and may fix it, and AST sniffs, which
// see the parsed template.
package sniff

import (
	"errors"

	"github.com/yaklabco/twigcs/pkg/report"
	"github.com/yaklabco/twigcs/pkg/token"
	"github.com/yaklabco/twigcs/pkg/twig"
)

// ErrInactiveSniff is returned when a sniff reports while neither a report
// nor a fixer is enabled on it.
var ErrInactiveSniff = errors.New("sniff is not active: enable a report or a fixer first")

// Kind tells token sniffs from AST sniffs.
type Kind uint8

// Sniff kinds.
const (
	KindToken Kind = iota
	KindAST
)

func (k Kind) String() string {
	if k == KindAST {
		return "ast"
	}
	return "token"
}

// Reporter receives violations.
type Reporter interface {
	AddMessage(v report.Violation)
}

// Fixer is the edit surface token sniffs use in fix mode.
type Fixer interface {
	ReplaceToken(pos int, value string) bool
	AddContent(pos int, value string) bool
	AddContentBefore(pos int, value string) bool
	AddNewline(pos int) bool
	AddNewlineBefore(pos int) bool
	TokenContent(pos int) string

	BeginChangeset()
	EndChangeset() bool
	RollbackChangeset()
}

// Sniff is the lifecycle shared by both kinds. Implementations embed
// TokenBase or ASTBase; the interface cannot be implemented otherwise.
type Sniff interface {
	ID() string
	Description() string
	Fixable() bool
	Kind() Kind

	EnableReport(r Reporter)
	EnableFixer(f Fixer)
	Disable()

	sealed()
}

// TokenSniff processes the token stream one position at a time.
type TokenSniff interface {
	Sniff
	Process(pos int, stream *token.Stream) error
}

// ASTSniff processes parsed nodes in document order.
type ASTSniff interface {
	Sniff
	Process(node *twig.Node, env *twig.Environment) error
}

// ProcessStream calls ts.Process for every position of stream, in order.
func ProcessStream(ts TokenSniff, stream *token.Stream) error {
	for pos := range stream.Len() {
		if err := ts.Process(pos, stream); err != nil {
			return err
		}
	}
	return nil
}

// Visitor adapts AST sniffs to a twig.NodeVisitor.
func Visitor(env *twig.Environment, sniffs ...ASTSniff) twig.NodeVisitor {
	return twig.VisitorFunc(func(node *twig.Node) error {
		for _, s := range sniffs {
			if err := s.Process(node, env); err != nil {
				return err
			}
		}
		return nil
	})
}
