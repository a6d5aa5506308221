// Package tokenizer re-lexes Twig templates into a lossless token stream.
//
// Unlike Twig's own lexer, spaces, tabs and line breaks are emitted as
// individual tokens, and no byte of the source is dropped: concatenating the
// values of the returned stream yields the input.
package tokenizer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yaklabco/twigcs/pkg/token"
)

// punctuation lists the single-byte punctuation characters of Twig expressions.
const punctuation = "()[]{}?:.,|"

//nolint:gochecknoglobals // Compiled once; read-only.
var (
	tagStartRe = regexp.MustCompile(`\{\{[-~]?|\{%[-~]?|\{#[-~]?`)
	blockEndRe = regexp.MustCompile(`^[-~]?%\}`)
	varEndRe   = regexp.MustCompile(`^[-~]?\}\}`)
	nameRe     = regexp.MustCompile(`^[a-zA-Z_\x{7f}-\x{10ffff}][a-zA-Z0-9_\x{7f}-\x{10ffff}]*`)
	numberRe   = regexp.MustCompile(`^[0-9]+(?:\.[0-9]+)?(?:[Ee][+-][0-9]+)?`)

	rawEndRe = map[string]*regexp.Regexp{
		"verbatim": regexp.MustCompile(`\{%[-~]?\s*endverbatim\s*[-~]?%\}`),
		"raw":      regexp.MustCompile(`\{%[-~]?\s*endraw\s*[-~]?%\}`),
	}
)

// Tokenizer turns template source into a token.Stream.
// A Tokenizer is immutable and safe for concurrent use.
type Tokenizer struct {
	ops *operatorMatcher
}

// New creates a Tokenizer recognizing the given operators in expressions.
// Multi-word operators ("not in", "starts with") match any run of
// whitespace between their words.
func New(operators []string) *Tokenizer {
	return &Tokenizer{ops: newOperatorMatcher(operators)}
}

// Tokenize lexes source. The returned stream always ends with an Eof token.
// Errors are *LexError.
func (t *Tokenizer) Tokenize(source, filename string) (*token.Stream, error) {
	l := &lexer{
		src:      source,
		filename: filename,
		ops:      t.ops,
		line:     1,
	}
	return l.run()
}

type state uint8

const (
	stateData state = iota
	stateBlock
	stateVar
	stateComment
)

type frame struct {
	state state
	start token.Token
}

// bracket is an open '(', '[', '{', a ternary '?', or '#' for an open
// string interpolation.
type bracket struct {
	char   byte
	offset int
}

type lexer struct {
	src      string
	filename string
	ops      *operatorMatcher

	cursor    int
	line      int
	lineStart int

	tokens   []token.Token
	frames   []frame
	brackets []bracket

	starts [][]int
	next   int

	awaitTag bool
	blockTag string
}

func (l *lexer) run() (*token.Stream, error) {
	l.starts = tagStartRe.FindAllStringIndex(l.src, -1)

	for l.cursor < len(l.src) {
		for l.next < len(l.starts) && l.starts[l.next][0] < l.cursor {
			l.next++
		}

		var err error
		switch l.state() {
		case stateBlock:
			err = l.lexTag(blockEndRe, token.BlockEnd)
		case stateVar:
			err = l.lexTag(varEndRe, token.VarEnd)
		case stateComment:
			l.lexComment()
		default:
			if l.next < len(l.starts) && l.starts[l.next][0] == l.cursor {
				err = l.lexStart()
			} else {
				l.lexData(l.dataLimit())
			}
		}
		if err != nil {
			return nil, err
		}
	}

	if err := l.checkClosed(); err != nil {
		return nil, err
	}

	l.push(token.Eof, "")
	return token.NewStream(l.filename, l.tokens), nil
}

func (l *lexer) state() state {
	if len(l.frames) == 0 {
		return stateData
	}
	return l.frames[len(l.frames)-1].state
}

func (l *lexer) dataLimit() int {
	if l.next < len(l.starts) {
		return l.starts[l.next][0]
	}
	return len(l.src)
}

// push appends a token at the cursor and advances past its value.
func (l *lexer) push(typ token.Type, value string) token.Token {
	tok := token.Token{
		Type:     typ,
		Line:     l.line,
		Column:   l.cursor - l.lineStart + 1,
		Offset:   l.cursor,
		Filename: l.filename,
		Value:    value,
	}
	l.tokens = append(l.tokens, tok)
	l.advance(len(value))
	return tok
}

// advance moves the cursor by n bytes, counting line breaks on the way.
func (l *lexer) advance(n int) {
	end := l.cursor + n
	for i := l.cursor; i < end; i++ {
		switch l.src[i] {
		case '\n':
			l.line++
			l.lineStart = i + 1
		case '\r':
			if i+1 < len(l.src) && l.src[i+1] == '\n' {
				continue
			}
			l.line++
			l.lineStart = i + 1
		}
	}
	l.cursor = end
}

func (l *lexer) lexStart() error {
	loc := l.starts[l.next]
	l.next++
	value := l.src[loc[0]:loc[1]]

	var (
		typ token.Type
		st  state
	)
	switch value[:2] {
	case "{#":
		typ, st = token.CommentStart, stateComment
	case "{%":
		typ, st = token.BlockStart, stateBlock
	default:
		typ, st = token.VarStart, stateVar
	}

	start := l.push(typ, value)
	l.frames = append(l.frames, frame{state: st, start: start})

	switch st {
	case stateComment:
		if !strings.Contains(l.src[l.cursor:], "#}") {
			return l.errorAt(start.Offset, "Unclosed comment")
		}
	case stateBlock:
		l.awaitTag = true
		l.blockTag = ""
	case stateData, stateVar:
	}
	return nil
}

// lexData emits one run of data: spaces, tabs, a line break, or text up to
// the next whitespace byte or limit.
func (l *lexer) lexData(limit int) {
	if l.lexLayout(limit) {
		return
	}
	end := l.cursor
	for end < limit && !isLayoutByte(l.src[end]) {
		end++
	}
	l.push(token.Text, l.src[l.cursor:end])
}

// lexLayout emits a Whitespace, Tab or Eol token when the cursor is on one.
func (l *lexer) lexLayout(limit int) bool {
	switch c := l.src[l.cursor]; c {
	case ' ', '\t':
		end := l.cursor
		for end < limit && l.src[end] == c {
			end++
		}
		typ := token.Whitespace
		if c == '\t' {
			typ = token.Tab
		}
		l.push(typ, l.src[l.cursor:end])
		return true
	case '\n':
		l.push(token.Eol, "\n")
		return true
	case '\r':
		if l.cursor+1 < len(l.src) && l.src[l.cursor+1] == '\n' {
			l.push(token.Eol, "\r\n")
		} else {
			l.push(token.Eol, "\r")
		}
		return true
	default:
		return false
	}
}

func (l *lexer) lexComment() {
	if end := l.commentEndAt(l.cursor); end != "" {
		l.push(token.CommentEnd, end)
		l.popState()
		return
	}
	if l.lexLayout(len(l.src)) {
		return
	}
	end := l.cursor
	for end < len(l.src) && !isLayoutByte(l.src[end]) && l.commentEndAt(end) == "" {
		end++
	}
	l.push(token.Text, l.src[l.cursor:end])
}

func (l *lexer) commentEndAt(pos int) string {
	rest := l.src[pos:]
	switch {
	case strings.HasPrefix(rest, "#}"):
		return "#}"
	case strings.HasPrefix(rest, "-#}"), strings.HasPrefix(rest, "~#}"):
		return rest[:3]
	default:
		return ""
	}
}

// lexTag lexes inside a block or variable tag. The end delimiter is only
// honored when no bracket or interpolation is open; pending ternary markers
// are dropped since Twig allows the short form "a ? b".
func (l *lexer) lexTag(endRe *regexp.Regexp, endType token.Type) error {
	if l.onlyTernaries() {
		if end := endRe.FindString(l.src[l.cursor:]); end != "" {
			l.brackets = l.brackets[:0]
			l.push(endType, end)
			l.popState()
			if endType == token.BlockEnd {
				if re, ok := rawEndRe[l.blockTag]; ok {
					return l.lexRaw(re)
				}
			}
			return nil
		}
	}
	return l.lexExpression()
}

// lexRaw lexes the body of a verbatim block as plain data.
func (l *lexer) lexRaw(endRe *regexp.Regexp) error {
	loc := endRe.FindStringIndex(l.src[l.cursor:])
	if loc == nil {
		start := l.tokens[len(l.tokens)-1]
		return l.errorAt(start.Offset, fmt.Sprintf("Unclosed %q block", l.blockTag))
	}
	limit := l.cursor + loc[0]
	for l.cursor < limit {
		l.lexData(limit)
	}
	return nil
}

func (l *lexer) lexExpression() error {
	if l.lexLayout(len(l.src)) {
		return nil
	}
	if end := l.cursor; l.src[end] == '\f' || l.src[end] == '\v' {
		for end < len(l.src) && (l.src[end] == '\f' || l.src[end] == '\v') {
			end++
		}
		l.push(token.Whitespace, l.src[l.cursor:end])
		return nil
	}

	awaitingTag := l.awaitTag
	l.awaitTag = false

	rest := l.src[l.cursor:]
	if strings.HasPrefix(rest, "=>") {
		l.push(token.Arrow, "=>")
		return nil
	}
	if op := l.ops.match(l.src, l.cursor); op != "" {
		l.push(token.Operator, op)
		return nil
	}
	if name := nameRe.FindString(rest); name != "" {
		if awaitingTag {
			l.blockTag = name
		}
		l.push(token.Name, name)
		return nil
	}
	if num := numberRe.FindString(rest); num != "" {
		l.push(token.Number, num)
		return nil
	}

	c := rest[0]
	if strings.IndexByte(punctuation, c) >= 0 {
		return l.lexPunctuation(c)
	}
	switch c {
	case '\'':
		return l.lexSingleQuoted()
	case '"':
		return l.lexDoubleQuoted(true)
	}

	return l.errorAt(l.cursor, fmt.Sprintf("Unexpected character %q", string(c)))
}

func (l *lexer) lexPunctuation(c byte) error {
	switch c {
	case '(', '[', '{', '?':
		l.brackets = append(l.brackets, bracket{char: c, offset: l.cursor})
	case ':':
		if n := len(l.brackets); n > 0 && l.brackets[n-1].char == '?' {
			l.brackets = l.brackets[:n-1]
		}
	case ')', ']', '}':
		l.popTernaries()
		n := len(l.brackets)
		if n == 0 {
			return l.errorAt(l.cursor, fmt.Sprintf("Unexpected %q", string(c)))
		}
		open := l.brackets[n-1]
		l.brackets = l.brackets[:n-1]

		if open.char == '#' && c == '}' {
			l.push(token.InterpolationEnd, "}")
			return l.lexDoubleQuoted(false)
		}
		if closerOf(open.char) != c {
			return l.errorAt(open.offset, fmt.Sprintf("Unclosed %q", openerText(open.char)))
		}
	}
	l.push(token.Punctuation, string(c))
	return nil
}

func (l *lexer) lexSingleQuoted() error {
	for i := l.cursor + 1; i < len(l.src); i++ {
		switch l.src[i] {
		case '\\':
			i++
		case '\'':
			l.push(token.String, l.src[l.cursor:i+1])
			return nil
		}
	}
	return l.errorAt(l.cursor, `Unclosed "'"`)
}

// lexDoubleQuoted lexes one part of a double-quoted string: from the cursor
// up to and including the closing quote, or up to an interpolation "#{".
// opening is true when the cursor is on the opening quote.
func (l *lexer) lexDoubleQuoted(opening bool) error {
	start := l.cursor
	i := start
	if opening {
		i++
	}
	for i < len(l.src) {
		switch l.src[i] {
		case '\\':
			i += 2
			continue
		case '"':
			l.push(token.String, l.src[start:i+1])
			return nil
		case '#':
			if i+1 < len(l.src) && l.src[i+1] == '{' {
				if i > start {
					l.push(token.String, l.src[start:i])
				}
				l.brackets = append(l.brackets, bracket{char: '#', offset: l.cursor})
				l.push(token.InterpolationStart, "#{")
				return nil
			}
		}
		i++
	}
	return l.errorAt(start, `Unclosed """`)
}

func (l *lexer) onlyTernaries() bool {
	for _, b := range l.brackets {
		if b.char != '?' {
			return false
		}
	}
	return true
}

func (l *lexer) popTernaries() {
	for n := len(l.brackets); n > 0 && l.brackets[n-1].char == '?'; n-- {
		l.brackets = l.brackets[:n-1]
	}
}

func (l *lexer) popState() {
	if len(l.frames) > 0 {
		l.frames = l.frames[:len(l.frames)-1]
	}
}

func (l *lexer) checkClosed() error {
	if len(l.frames) == 0 {
		return nil
	}
	top := l.frames[len(l.frames)-1]

	for i := len(l.brackets) - 1; i >= 0; i-- {
		if b := l.brackets[i]; b.char != '?' {
			return l.errorAt(b.offset, fmt.Sprintf("Unclosed %q", openerText(b.char)))
		}
	}

	switch top.state {
	case stateComment:
		return l.errorAt(top.start.Offset, "Unclosed comment")
	case stateVar:
		return l.errorAt(top.start.Offset, `Unclosed "variable"`)
	case stateData, stateBlock:
	}
	return l.errorAt(top.start.Offset, `Unclosed "block"`)
}

// errorAt builds a LexError positioned at a byte offset.
func (l *lexer) errorAt(offset int, msg string) *LexError {
	line, lineStart := 1, 0
	for i := 0; i < offset && i < len(l.src); i++ {
		switch l.src[i] {
		case '\n':
			line++
			lineStart = i + 1
		case '\r':
			if i+1 < len(l.src) && l.src[i+1] == '\n' {
				continue
			}
			line++
			lineStart = i + 1
		}
	}
	return &LexError{
		Message:  msg,
		Filename: l.filename,
		Line:     line,
		Column:   offset - lineStart + 1,
	}
}

func isLayoutByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func closerOf(open byte) byte {
	switch open {
	case '(':
		return ')'
	case '[':
		return ']'
	default:
		return '}'
	}
}

func openerText(open byte) string {
	if open == '#' {
		return "#{"
	}
	return string(open)
}
