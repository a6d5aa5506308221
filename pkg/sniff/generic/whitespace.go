package generic

import (
	"fmt"

	"github.com/yaklabco/twigcs/pkg/sniff"
	"github.com/yaklabco/twigcs/pkg/token"
)

// TrailingWhitespace reports spaces and tabs before a line ending or the end
// of the file.
type TrailingWhitespace struct {
	sniff.TokenBase
}

// NewTrailingWhitespace creates the TrailingWhitespace sniff.
func NewTrailingWhitespace() *TrailingWhitespace {
	return &TrailingWhitespace{
		TokenBase: sniff.NewTokenBase("TrailingWhitespace", "Lines must not end with spaces or tabs", true),
	}
}

// Process implements sniff.TokenSniff.
func (s *TrailingWhitespace) Process(pos int, stream *token.Stream) error {
	tok := stream.Get(pos)
	if tok.Type != token.Whitespace && tok.Type != token.Tab {
		return nil
	}
	next, ok := stream.At(pos + 1)
	if !ok || (next.Type != token.Eol && next.Type != token.Eof) {
		return nil
	}

	fix, err := s.AddFixableError("A line should not end with blank space", tok)
	if err != nil {
		return err
	}
	if fix {
		s.Fixer().ReplaceToken(pos, "")
	}
	return nil
}

// EmptyLines reports more than one consecutive empty line. Empty lines at
// the end of the file are left to BlankEOF.
type EmptyLines struct {
	sniff.TokenBase
}

// NewEmptyLines creates the EmptyLines sniff.
func NewEmptyLines() *EmptyLines {
	return &EmptyLines{
		TokenBase: sniff.NewTokenBase("EmptyLines", "At most one consecutive empty line is allowed", true),
	}
}

// Process implements sniff.TokenSniff. It fires on the last line ending of
// a run.
func (s *EmptyLines) Process(pos int, stream *token.Stream) error {
	tok := stream.Get(pos)
	if tok.Type != token.Eol {
		return nil
	}
	next, ok := stream.At(pos + 1)
	if !ok || next.Type == token.Eol || next.Type == token.Eof {
		return nil
	}

	first := pos
	for first > 0 && stream.Get(first-1).Type == token.Eol {
		first--
	}
	run := pos - first + 1
	empty := run - 1
	if first == 0 {
		empty = run
	}
	if empty <= 1 {
		return nil
	}

	msg := fmt.Sprintf("More than 1 empty line is not allowed, found %d", empty)
	fix, err := s.AddFixableError(msg, stream.Get(pos-empty+2))
	if err != nil {
		return err
	}
	if !fix {
		return nil
	}

	f := s.Fixer()
	f.BeginChangeset()
	for i := pos - empty + 2; i <= pos; i++ {
		f.ReplaceToken(i, "")
	}
	f.EndChangeset()
	return nil
}

// BlankEOF requires a non-empty file to end with exactly one line ending.
type BlankEOF struct {
	sniff.TokenBase
}

// NewBlankEOF creates the BlankEOF sniff.
func NewBlankEOF() *BlankEOF {
	return &BlankEOF{
		TokenBase: sniff.NewTokenBase("BlankEOF", "A file must end with exactly one line ending", true),
	}
}

// Process implements sniff.TokenSniff. It only looks at the Eof token.
func (s *BlankEOF) Process(pos int, stream *token.Stream) error {
	tok := stream.Get(pos)
	if tok.Type != token.Eof || pos == 0 {
		return nil
	}

	count := 0
	for i := pos - 1; i >= 0 && stream.Get(i).Type == token.Eol; i-- {
		count++
	}
	if count == 1 {
		return nil
	}

	msg := fmt.Sprintf("A file must end with 1 blank line; found %d", count)
	fix, err := s.AddFixableError(msg, stream.Get(pos-1))
	if err != nil {
		return err
	}
	if !fix {
		return nil
	}

	f := s.Fixer()
	if count == 0 {
		f.AddNewline(pos - 1)
		return nil
	}

	f.BeginChangeset()
	for i := pos - count + 1; i < pos; i++ {
		f.ReplaceToken(i, "")
	}
	f.EndChangeset()
	return nil
}
