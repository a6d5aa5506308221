package generic

import (
	"strings"

	"github.com/yaklabco/twigcs/pkg/sniff"
	"github.com/yaklabco/twigcs/pkg/token"
)

// DisallowCommentedCode warns about comments that contain Twig tags.
type DisallowCommentedCode struct {
	sniff.TokenBase
}

// NewDisallowCommentedCode creates the DisallowCommentedCode sniff.
func NewDisallowCommentedCode() *DisallowCommentedCode {
	return &DisallowCommentedCode{
		TokenBase: sniff.NewTokenBase("DisallowCommentedCode", "Comments must not contain Twig code", false),
	}
}

// Process implements sniff.TokenSniff. It fires on comment starts.
func (s *DisallowCommentedCode) Process(pos int, stream *token.Stream) error {
	tok := stream.Get(pos)
	if tok.Type != token.CommentStart {
		return nil
	}

	for i := pos + 1; i < stream.Len(); i++ {
		inner := stream.Get(i)
		if inner.Type == token.CommentEnd || inner.Type == token.Eof {
			return nil
		}
		if strings.Contains(inner.Value, "{{") || strings.Contains(inner.Value, "{%") {
			return s.AddWarning("Probable commented code found; keep your code clean", tok)
		}
	}
	return nil
}
