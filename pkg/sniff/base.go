package sniff

import (
	"github.com/yaklabco/twigcs/pkg/report"
	"github.com/yaklabco/twigcs/pkg/token"
)

// Base implements the lifecycle and reporting helpers of a sniff.
//
// Fields are unexported to avoid collisions with interface methods; use
// NewTokenBase or NewASTBase.
type Base struct {
	id      string
	desc    string
	fixable bool

	reporter Reporter
	fixer    Fixer
}

// ID returns the sniff identifier.
func (b *Base) ID() string {
	return b.id
}

// Description returns a one-line description.
func (b *Base) Description() string {
	return b.desc
}

// Fixable reports whether the sniff can fix what it reports.
func (b *Base) Fixable() bool {
	return b.fixable
}

// EnableReport routes violations to r.
func (b *Base) EnableReport(r Reporter) {
	b.reporter = r
}

// EnableFixer switches the sniff to fix mode.
func (b *Base) EnableFixer(f Fixer) {
	b.fixer = f
}

// Disable detaches both the report and the fixer.
func (b *Base) Disable() {
	b.reporter = nil
	b.fixer = nil
}

// Fixer returns the active fixer, or nil.
func (b *Base) Fixer() Fixer {
	return b.fixer
}

func (b *Base) sealed() {}

// AddMessage reports a violation at tok. With only a fixer enabled it does
// nothing.
func (b *Base) AddMessage(level report.Level, message string, tok token.Token) error {
	if b.reporter == nil && b.fixer == nil {
		return ErrInactiveSniff
	}
	if b.reporter == nil {
		return nil
	}
	b.reporter.AddMessage(report.Violation{
		Level:    level,
		Message:  message,
		Filename: tok.Filename,
		Line:     tok.Line,
		Position: tok.Column,
		Sniff:    b.id,
	})
	return nil
}

// AddError reports an ERROR.
func (b *Base) AddError(message string, tok token.Token) error {
	return b.AddMessage(report.Error, message, tok)
}

// AddWarning reports a WARNING.
func (b *Base) AddWarning(message string, tok token.Token) error {
	return b.AddMessage(report.Warning, message, tok)
}

// AddNotice reports a NOTICE.
func (b *Base) AddNotice(message string, tok token.Token) error {
	return b.AddMessage(report.Notice, message, tok)
}

// AddFixableError reports an ERROR and returns whether the caller should
// apply its fix.
func (b *Base) AddFixableError(message string, tok token.Token) (bool, error) {
	if err := b.AddMessage(report.Error, message, tok); err != nil {
		return false, err
	}
	return b.fixer != nil, nil
}

// AddFixableWarning reports a WARNING and returns whether the caller should
// apply its fix.
func (b *Base) AddFixableWarning(message string, tok token.Token) (bool, error) {
	if err := b.AddMessage(report.Warning, message, tok); err != nil {
		return false, err
	}
	return b.fixer != nil, nil
}

// TokenBase is embedded by token sniffs.
type TokenBase struct {
	Base
}

// NewTokenBase creates a TokenBase.
func NewTokenBase(id, desc string, fixable bool) TokenBase {
	return TokenBase{Base{id: id, desc: desc, fixable: fixable}}
}

// Kind returns KindToken.
func (*TokenBase) Kind() Kind {
	return KindToken
}

// ASTBase is embedded by AST sniffs.
type ASTBase struct {
	Base
}

// NewASTBase creates an ASTBase. AST sniffs never fix.
func NewASTBase(id, desc string) ASTBase {
	return ASTBase{Base{id: id, desc: desc}}
}

// Kind returns KindAST.
func (*ASTBase) Kind() Kind {
	return KindAST
}

// AddNodeMessage reports a violation at a node's line.
func (b *ASTBase) AddNodeMessage(level report.Level, message, filename string, line int) error {
	return b.AddMessage(level, message, token.Token{Filename: filename, Line: line})
}
