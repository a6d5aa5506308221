package generic

import (
	"fmt"

	"github.com/yaklabco/twigcs/pkg/sniff"
	"github.com/yaklabco/twigcs/pkg/token"
)

// DelimiterSpacing requires one space inside tag delimiters. A line ending
// next to the delimiter is accepted instead.
type DelimiterSpacing struct {
	sniff.TokenBase
}

// NewDelimiterSpacing creates the DelimiterSpacing sniff.
func NewDelimiterSpacing() *DelimiterSpacing {
	return &DelimiterSpacing{
		TokenBase: sniff.NewTokenBase("DelimiterSpacing", "Tag delimiters must be padded with one space", true),
	}
}

// Process implements sniff.TokenSniff.
func (s *DelimiterSpacing) Process(pos int, stream *token.Stream) error {
	tok := stream.Get(pos)
	switch tok.Type {
	case token.VarStart, token.BlockStart, token.CommentStart:
		return s.checkAfter(pos, stream, tok)
	case token.VarEnd, token.BlockEnd, token.CommentEnd:
		return s.checkBefore(pos, stream, tok)
	default:
		return nil
	}
}

func (s *DelimiterSpacing) checkAfter(pos int, stream *token.Stream, tok token.Token) error {
	next, _ := stream.At(pos + 1)
	switch {
	case next.Type == token.Eol:
		return nil
	case next.Type == token.Whitespace || next.Type == token.Tab:
		if after, _ := stream.At(pos + 2); after.Type == token.Eol {
			return nil
		}
		if next.Value == " " {
			return nil
		}
		return s.fixSpace(fmt.Sprintf("Expecting 1 whitespace after %q; found %d", tok.Value, len(next.Value)), next, pos+1)
	default:
		fix, err := s.AddFixableError(fmt.Sprintf("Expecting 1 whitespace after %q; found 0", tok.Value), tok)
		if err != nil || !fix {
			return err
		}
		s.Fixer().AddContent(pos, " ")
		return nil
	}
}

func (s *DelimiterSpacing) checkBefore(pos int, stream *token.Stream, tok token.Token) error {
	prev, _ := stream.At(pos - 1)
	switch {
	case prev.Type == token.Eol:
		return nil
	case prev.Type == token.Whitespace || prev.Type == token.Tab:
		if indent, _ := stream.At(pos - 2); indent.Type == token.Eol {
			return nil
		}
		if prev.Value == " " {
			return nil
		}
		return s.fixSpace(fmt.Sprintf("Expecting 1 whitespace before %q; found %d", tok.Value, len(prev.Value)), prev, pos-1)
	default:
		fix, err := s.AddFixableError(fmt.Sprintf("Expecting 1 whitespace before %q; found 0", tok.Value), tok)
		if err != nil || !fix {
			return err
		}
		s.Fixer().AddContentBefore(pos, " ")
		return nil
	}
}

func (s *DelimiterSpacing) fixSpace(msg string, at token.Token, pos int) error {
	fix, err := s.AddFixableError(msg, at)
	if err != nil || !fix {
		return err
	}
	s.Fixer().ReplaceToken(pos, " ")
	return nil
}

// PunctuationSpacing forbids padding inside brackets and before commas, and
// requires one space after a comma.
type PunctuationSpacing struct {
	sniff.TokenBase
}

// NewPunctuationSpacing creates the PunctuationSpacing sniff.
func NewPunctuationSpacing() *PunctuationSpacing {
	return &PunctuationSpacing{
		TokenBase: sniff.NewTokenBase("PunctuationSpacing", "No padding inside brackets; one space after commas", true),
	}
}

// Process implements sniff.TokenSniff.
func (s *PunctuationSpacing) Process(pos int, stream *token.Stream) error {
	tok := stream.Get(pos)
	if tok.Type != token.Punctuation {
		return nil
	}

	switch tok.Value {
	case "(", "[", "{":
		return s.noSpaceAfter(pos, stream, tok)
	case ")", "]", "}":
		return s.noSpaceBefore(pos, stream, tok)
	case ",":
		if err := s.noSpaceBefore(pos, stream, tok); err != nil {
			return err
		}
		return s.oneSpaceAfter(pos, stream, tok)
	default:
		return nil
	}
}

func (s *PunctuationSpacing) noSpaceAfter(pos int, stream *token.Stream, tok token.Token) error {
	next, _ := stream.At(pos + 1)
	if next.Type != token.Whitespace && next.Type != token.Tab {
		return nil
	}
	if after, _ := stream.At(pos + 2); after.Type == token.Eol {
		return nil
	}

	fix, err := s.AddFixableError(fmt.Sprintf("There should be no space after %q", tok.Value), next)
	if err != nil || !fix {
		return err
	}
	s.Fixer().ReplaceToken(pos+1, "")
	return nil
}

func (s *PunctuationSpacing) noSpaceBefore(pos int, stream *token.Stream, tok token.Token) error {
	prev, _ := stream.At(pos - 1)
	if prev.Type != token.Whitespace && prev.Type != token.Tab {
		return nil
	}
	if indent, _ := stream.At(pos - 2); indent.Type == token.Eol {
		return nil
	}

	fix, err := s.AddFixableError(fmt.Sprintf("There should be no space before %q", tok.Value), prev)
	if err != nil || !fix {
		return err
	}
	s.Fixer().ReplaceToken(pos-1, "")
	return nil
}

func (s *PunctuationSpacing) oneSpaceAfter(pos int, stream *token.Stream, tok token.Token) error {
	next, _ := stream.At(pos + 1)
	switch next.Type {
	case token.Eol:
		return nil
	case token.Whitespace, token.Tab:
		if after, _ := stream.At(pos + 2); after.Type == token.Eol || next.Value == " " {
			return nil
		}
		fix, err := s.AddFixableError(fmt.Sprintf("Expecting 1 whitespace after %q; found %d", tok.Value, len(next.Value)), next)
		if err != nil || !fix {
			return err
		}
		s.Fixer().ReplaceToken(pos+1, " ")
	default:
		// A trailing comma hugs the closing bracket.
		if next.Is(token.Punctuation, ")", "]", "}") {
			return nil
		}
		fix, err := s.AddFixableError(fmt.Sprintf("Expecting 1 whitespace after %q; found 0", tok.Value), tok)
		if err != nil || !fix {
			return err
		}
		s.Fixer().AddContent(pos, " ")
	}
	return nil
}
