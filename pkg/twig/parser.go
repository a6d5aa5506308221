package twig

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yaklabco/twigcs/pkg/token"
)

// Parse builds the AST of a token stream produced by Tokenize.
//
// Layout tokens inside tags and comments are ignored, and data runs are
// merged into text nodes. Deprecated constructs are passed to diag.
// Errors are *SyntaxError.
func (e *Environment) Parse(stream *token.Stream, diag Diagnostics) (*Node, error) {
	p := &parser{
		env:      e,
		filename: stream.Filename(),
		tokens:   filterTokens(stream.Tokens()),
		diag:     diag,
	}

	body, err := p.subparse(nil)
	if err != nil {
		return nil, err
	}

	root := newNode(NodeModule, 1, body)
	root.Value = stream.Filename()
	return root, nil
}

// closing describes the tag whose end the parser is looking for.
type closing struct {
	tag   string
	line  int
	names []string
}

type parser struct {
	env      *Environment
	filename string
	tokens   []token.Token
	pos      int
	diag     Diagnostics
}

// filterTokens drops comments and layout inside tags and merges data runs
// into single Text tokens.
func filterTokens(in []token.Token) []token.Token {
	out := make([]token.Token, 0, len(in))
	inTag, inComment := false, false

	for _, tok := range in {
		switch {
		case inComment:
			if tok.Type == token.CommentEnd {
				inComment = false
			}
			continue
		case tok.Type == token.CommentStart:
			inComment = true
			continue
		case tok.Type == token.BlockStart, tok.Type == token.VarStart:
			inTag = true
		case tok.Type == token.BlockEnd, tok.Type == token.VarEnd:
			inTag = false
		case inTag && tok.Type.IsSpace():
			continue
		case !inTag && (tok.Type == token.Text || tok.Type.IsSpace()):
			if n := len(out); n > 0 && out[n-1].Type == token.Text {
				out[n-1].Value += tok.Value
				continue
			}
			tok.Type = token.Text
		}
		out = append(out, tok)
	}

	if len(out) == 0 || out[len(out)-1].Type != token.Eof {
		out = append(out, token.Token{Type: token.Eof})
	}
	return out
}

func (p *parser) cur() token.Token {
	return p.peek(0)
}

func (p *parser) peek(n int) token.Token {
	if i := p.pos + n; i < len(p.tokens) {
		return p.tokens[i]
	}
	return p.tokens[len(p.tokens)-1]
}

// next returns the current token and advances, never past Eof.
func (p *parser) next() token.Token {
	tok := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

// test reports whether the current token has type typ and, when values are
// given, one of those values. Operator values are compared normalized.
func (p *parser) test(typ token.Type, values ...string) bool {
	return testToken(p.cur(), typ, values...)
}

func testToken(tok token.Token, typ token.Type, values ...string) bool {
	if tok.Type != typ {
		return false
	}
	if len(values) == 0 {
		return true
	}
	v := tok.Value
	if typ == token.Operator {
		v = normalizeOperator(v)
	}
	return slices.Contains(values, v)
}

func (p *parser) nextIf(typ token.Type, values ...string) bool {
	if !p.test(typ, values...) {
		return false
	}
	p.next()
	return true
}

// expect consumes a token of type typ (and value, unless empty) or fails
// with Twig's "Unexpected token" message.
func (p *parser) expect(typ token.Type, value, message string) (token.Token, error) {
	var values []string
	if value != "" {
		values = []string{value}
	}
	tok := p.cur()
	if !p.test(typ, values...) {
		var b strings.Builder
		if message != "" {
			b.WriteString(message + ". ")
		}
		fmt.Fprintf(&b, `Unexpected token "%s"`, typeToEnglish(tok.Type))
		if tok.Value != "" {
			fmt.Fprintf(&b, ` of value "%s"`, tok.Value)
		}
		fmt.Fprintf(&b, ` ("%s" expected`, typeToEnglish(typ))
		if value != "" {
			fmt.Fprintf(&b, ` with value "%s"`, value)
		}
		b.WriteString(").")
		return tok, p.errorf(tok.Line, "%s", b.String())
	}
	return p.next(), nil
}

func (p *parser) expectBlockEnd() error {
	_, err := p.expect(token.BlockEnd, "", "")
	return err
}

func (p *parser) errorf(line int, format string, args ...any) *SyntaxError {
	return &SyntaxError{
		Message:  fmt.Sprintf(format, args...),
		Filename: p.filename,
		Line:     line,
	}
}

func (p *parser) deprecate(line int, format string, args ...any) {
	if p.diag == nil {
		return
	}
	p.diag(Deprecation{
		Message:  fmt.Sprintf(format, args...),
		Filename: p.filename,
		Line:     line,
	})
}

// subparse parses template content until one of end.names opens a tag, or
// until Eof when end is nil. The end tag's name token is left current.
func (p *parser) subparse(end *closing) (*Node, error) {
	body := newNode(NodeBody, p.cur().Line)

	for {
		tok := p.cur()
		switch tok.Type {
		case token.Eof:
			if end != nil {
				return nil, p.errorf(tok.Line,
					`Unexpected end of template. Twig was looking for the following tags %s to close the "%s" block started at line %d.`,
					quoteList(end.names), end.tag, end.line)
			}
			return body, nil

		case token.Text:
			p.next()
			text := newNode(NodeText, tok.Line)
			text.Value = tok.Value
			body.Children = append(body.Children, text)

		case token.VarStart:
			p.next()
			expr, err := p.parseExpression(0)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.VarEnd, "", ""); err != nil {
				return nil, err
			}
			body.Children = append(body.Children, newNode(NodePrint, tok.Line, expr))

		case token.BlockStart:
			p.next()
			name := p.cur()
			if name.Type != token.Name {
				return nil, p.errorf(name.Line, "A block must start with a tag name.")
			}
			if end != nil && slices.Contains(end.names, name.Value) {
				return body, nil
			}
			node, err := p.parseTag(name, end)
			if err != nil {
				return nil, err
			}
			body.Children = append(body.Children, node)

		default:
			return nil, p.errorf(tok.Line, `Unexpected token "%s" of value "%s".`, typeToEnglish(tok.Type), tok.Value)
		}
	}
}

func (p *parser) parseTag(name token.Token, end *closing) (*Node, error) {
	if parse, ok := p.env.tags[name.Value]; ok {
		p.next()
		return parse(p, name)
	}
	if p.env.IsStubTag(name.Value) {
		p.next()
		return p.parseStubTag(name)
	}
	if end != nil {
		return nil, p.errorf(name.Line,
			`Unexpected "%s" tag (expecting closing tag for the "%s" tag defined near line %d).`,
			name.Value, end.tag, end.line)
	}
	return nil, p.errorf(name.Line, `Unknown "%s" tag.`, name.Value)
}

// parseBody parses the body of tag up to one of names.
func (p *parser) parseBody(tag token.Token, names ...string) (*Node, error) {
	return p.subparse(&closing{tag: tag.Value, line: tag.Line, names: names})
}

// parseStubTag skips the tag's arguments and, when a matching end tag
// appears later in the template, parses the body up to it.
func (p *parser) parseStubTag(tag token.Token) (*Node, error) {
	node := tagNode(tag)
	node.SetAttr("stub", "true")

	for !p.test(token.BlockEnd) {
		if p.test(token.Eof) {
			return nil, p.errorf(p.cur().Line, `Unexpected end of template. Twig was looking for the end of the "%s" tag.`, tag.Value)
		}
		p.next()
	}
	p.next()

	endName := "end" + tag.Value
	if !p.hasEndTag(endName) {
		return node, nil
	}

	body, err := p.parseBody(tag, endName)
	if err != nil {
		return nil, err
	}
	node.Children = append(node.Children, body)
	p.next()
	return node, p.expectBlockEnd()
}

func (p *parser) hasEndTag(name string) bool {
	for i := p.pos; i+1 < len(p.tokens); i++ {
		if p.tokens[i].Type == token.BlockStart && testToken(p.tokens[i+1], token.Name, name) {
			return true
		}
	}
	return false
}

func tagNode(tag token.Token) *Node {
	n := newNode(NodeTag, tag.Line)
	n.Name = tag.Value
	return n
}

func quoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = `"` + n + `"`
	}
	if len(quoted) < 2 {
		return strings.Join(quoted, "")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + " or " + quoted[len(quoted)-1]
}

func typeToEnglish(typ token.Type) string {
	switch typ {
	case token.Eof:
		return "end of template"
	case token.Text:
		return "text"
	case token.BlockStart:
		return "begin of statement block"
	case token.VarStart:
		return "begin of print statement"
	case token.BlockEnd:
		return "end of statement block"
	case token.VarEnd:
		return "end of print statement"
	case token.Name:
		return "name"
	case token.Number:
		return "number"
	case token.String:
		return "string"
	case token.Operator:
		return "operator"
	case token.Punctuation:
		return "punctuation"
	case token.InterpolationStart:
		return "begin of string interpolation"
	case token.InterpolationEnd:
		return "end of string interpolation"
	case token.Arrow:
		return "arrow function"
	case token.CommentStart, token.CommentEnd, token.Whitespace, token.Tab, token.Eol:
		return strings.ToLower(typ.String())
	default:
		return typ.String()
	}
}
