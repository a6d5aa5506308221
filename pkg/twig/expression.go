package twig

import (
	"strings"

	"github.com/yaklabco/twigcs/pkg/token"
)

// parseExpression parses an expression whose binary operators bind at least
// as tightly as precedence.
func (p *parser) parseExpression(precedence int) (*Node, error) {
	return p.parseExpressionWith(precedence, false)
}

func (p *parser) parseExpressionWith(precedence int, allowArrow bool) (*Node, error) {
	if allowArrow && p.arrowAhead() {
		return p.parseArrow()
	}

	expr, err := p.parsePrimaryWithUnary()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.cur()
		op, ok := p.env.binaryOperator(tok)
		if !ok || op.Precedence < precedence {
			break
		}
		p.next()

		switch op.Name {
		case "is":
			expr, err = p.parseTest(expr)
		case "is not":
			expr, err = p.parseNotTest(expr)
		default:
			next := op.Precedence + 1
			if op.Assoc == AssocRight {
				next = op.Precedence
			}
			var right *Node
			right, err = p.parseExpression(next)
			if err == nil {
				bin := newNode(NodeBinary, tok.Line, expr, right)
				bin.Name = op.Name
				expr = bin
			}
		}
		if err != nil {
			return nil, err
		}
	}

	if precedence == 0 {
		return p.parseConditional(expr)
	}
	return expr, nil
}

func (p *parser) parsePrimaryWithUnary() (*Node, error) {
	tok := p.cur()

	if op, ok := p.env.unaryOperator(tok); ok {
		p.next()
		operand, err := p.parseExpression(op.Precedence)
		if err != nil {
			return nil, err
		}
		un := newNode(NodeUnary, tok.Line, operand)
		un.Name = op.Name
		return p.parsePostfix(un)
	}

	if tok.Is(token.Punctuation, "(") {
		p.next()
		expr, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Punctuation, ")", "An opened parenthesis is not properly closed"); err != nil {
			return nil, err
		}
		return p.parsePostfix(expr)
	}

	return p.parsePrimary()
}

func (p *parser) parsePrimary() (*Node, error) {
	tok := p.cur()

	var (
		node *Node
		err  error
	)
	switch {
	case tok.Type == token.Name:
		p.next()
		switch tok.Value {
		case "true", "false", "TRUE", "FALSE", "none", "null", "NONE", "NULL":
			node = constant(tok.Line, tok.Value)
		default:
			if p.test(token.Punctuation, "(") {
				node, err = p.parseFunctionCall(tok)
			} else {
				node = nameNode(tok.Line, tok.Value)
			}
		}

	case tok.Type == token.Number:
		p.next()
		node = constant(tok.Line, tok.Value)

	case tok.Type == token.String:
		node, err = p.parseString()

	case tok.Type == token.Operator && isNameLike(tok.Value):
		// Word operators are variable names in this position.
		p.next()
		node = nameNode(tok.Line, tok.Value)

	case tok.Is(token.Punctuation, "["):
		node, err = p.parseArray()

	case tok.Is(token.Punctuation, "{"):
		node, err = p.parseHash()

	default:
		return nil, p.errorf(tok.Line, `Unexpected token "%s" of value "%s".`, typeToEnglish(tok.Type), tok.Value)
	}
	if err != nil {
		return nil, err
	}

	return p.parsePostfix(node)
}

func (p *parser) parseConditional(expr *Node) (*Node, error) {
	for p.test(token.Punctuation, "?") {
		q := p.next()

		var (
			then, otherwise *Node
			err             error
		)
		if p.nextIf(token.Punctuation, ":") {
			then = expr
			otherwise, err = p.parseExpression(0)
		} else {
			then, err = p.parseExpression(0)
			if err == nil {
				if p.nextIf(token.Punctuation, ":") {
					otherwise, err = p.parseExpression(0)
				} else {
					otherwise = constant(q.Line, "")
				}
			}
		}
		if err != nil {
			return nil, err
		}
		expr = newNode(NodeConditional, q.Line, expr, then, otherwise)
	}
	return expr, nil
}

func (p *parser) parseString() (*Node, error) {
	first := p.next()
	if !p.test(token.InterpolationStart) {
		return constant(first.Line, unquote(first.Value)), nil
	}

	str := newNode(NodeString, first.Line)
	if part := first.Value[1:]; part != "" {
		str.Children = append(str.Children, constant(first.Line, unescape(part)))
	}

	for p.nextIf(token.InterpolationStart) {
		expr, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.InterpolationEnd, "", ""); err != nil {
			return nil, err
		}
		str.Children = append(str.Children, expr)

		if !p.test(token.String) {
			continue
		}
		part := p.next()
		value := part.Value
		if !p.test(token.InterpolationStart) {
			value = strings.TrimSuffix(value, `"`)
		}
		if value != "" {
			str.Children = append(str.Children, constant(part.Line, unescape(value)))
		}
	}

	return str, nil
}

func (p *parser) parseArray() (*Node, error) {
	open := p.next()
	arr := newNode(NodeArray, open.Line)

	for !p.test(token.Punctuation, "]") {
		if len(arr.Children) > 0 {
			if _, err := p.expect(token.Punctuation, ",", "An array element must be followed by a comma"); err != nil {
				return nil, err
			}
			if p.test(token.Punctuation, "]") {
				break
			}
		}
		elem, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		arr.Children = append(arr.Children, elem)
	}

	if _, err := p.expect(token.Punctuation, "]", "An opened array is not properly closed"); err != nil {
		return nil, err
	}
	return arr, nil
}

func (p *parser) parseHash() (*Node, error) {
	open := p.next()
	hash := newNode(NodeHash, open.Line)

	for !p.test(token.Punctuation, "}") {
		if len(hash.Children) > 0 {
			if _, err := p.expect(token.Punctuation, ",", "A hash value must be followed by a comma"); err != nil {
				return nil, err
			}
			if p.test(token.Punctuation, "}") {
				break
			}
		}

		tok := p.cur()
		var (
			key *Node
			err error
		)
		switch {
		case tok.Type == token.String:
			key, err = p.parseString()
		case tok.Type == token.Number:
			p.next()
			key = constant(tok.Line, tok.Value)
		case tok.Type == token.Name, tok.Type == token.Operator && isNameLike(tok.Value):
			p.next()
			key = constant(tok.Line, tok.Value)
			if p.test(token.Punctuation, ",", "}") {
				// {foo} is short for {foo: foo}.
				hash.Children = append(hash.Children, newNode(NodePair, tok.Line, key, nameNode(tok.Line, tok.Value)))
				continue
			}
		case tok.Is(token.Punctuation, "("):
			key, err = p.parseExpression(0)
		default:
			return nil, p.errorf(tok.Line,
				`A hash key must be a quoted string, a number, a name, or an expression enclosed in parentheses (unexpected token "%s" of value "%s".`,
				typeToEnglish(tok.Type), tok.Value)
		}
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(token.Punctuation, ":", "A hash key must be followed by a colon (:)"); err != nil {
			return nil, err
		}
		value, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		hash.Children = append(hash.Children, newNode(NodePair, tok.Line, key, value))
	}

	if _, err := p.expect(token.Punctuation, "}", "An opened hash is not properly closed"); err != nil {
		return nil, err
	}
	return hash, nil
}

func (p *parser) parsePostfix(node *Node) (*Node, error) {
	for {
		tok := p.cur()
		if tok.Type != token.Punctuation {
			return node, nil
		}

		var err error
		switch tok.Value {
		case ".", "[":
			node, err = p.parseSubscript(node)
		case "|":
			p.next()
			node, err = p.parseFilterChain(node)
		default:
			return node, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func (p *parser) parseSubscript(node *Node) (*Node, error) {
	tok := p.next()

	if tok.Value == "." {
		attr := p.cur()
		if attr.Type != token.Name && attr.Type != token.Number &&
			(attr.Type != token.Operator || !isNameLike(attr.Value)) {
			return nil, p.errorf(attr.Line, "Expected name or number.")
		}
		p.next()

		get := newNode(NodeGetAttr, tok.Line, node, constant(attr.Line, attr.Value))
		get.Name = "."
		if p.test(token.Punctuation, "(") {
			args, err := p.parseArguments(true, false, true)
			if err != nil {
				return nil, err
			}
			get.Children = append(get.Children, args)
		}
		return get, nil
	}

	var (
		start *Node
		err   error
	)
	if !p.test(token.Punctuation, ":") {
		if start, err = p.parseExpression(0); err != nil {
			return nil, err
		}
	}

	if p.nextIf(token.Punctuation, ":") {
		args := newNode(NodeArguments, tok.Line)
		if start == nil {
			start = constant(tok.Line, "0")
		}
		args.Children = append(args.Children, start)
		if !p.test(token.Punctuation, "]") {
			length, err := p.parseExpression(0)
			if err != nil {
				return nil, err
			}
			args.Children = append(args.Children, length)
		}
		if _, err := p.expect(token.Punctuation, "]", ""); err != nil {
			return nil, err
		}
		slice := newNode(NodeFilter, tok.Line, node, args)
		slice.Name = "slice"
		return slice, nil
	}

	if _, err := p.expect(token.Punctuation, "]", ""); err != nil {
		return nil, err
	}
	get := newNode(NodeGetAttr, tok.Line, node, start)
	get.Name = "[]"
	return get, nil
}

// parseFilterChain parses "name(args)|name..." applying each filter to node.
// The cursor is on the first filter name.
func (p *parser) parseFilterChain(node *Node) (*Node, error) {
	for {
		name, err := p.expect(token.Name, "", "")
		if err != nil {
			return nil, err
		}

		args := newNode(NodeArguments, name.Line)
		if p.test(token.Punctuation, "(") {
			if args, err = p.parseArguments(true, false, true); err != nil {
				return nil, err
			}
		}

		filter, ok := p.env.Filter(name.Value)
		if !ok {
			return nil, p.errorf(name.Line, `Unknown "%s" filter.`, name.Value)
		}
		p.deprecateCallable(filter, name.Line)

		f := newNode(NodeFilter, name.Line, node, args)
		f.Name = name.Value
		node = f

		if !p.nextIf(token.Punctuation, "|") {
			return node, nil
		}
	}
}

func (p *parser) parseFunctionCall(name token.Token) (*Node, error) {
	args, err := p.parseArguments(true, false, true)
	if err != nil {
		return nil, err
	}

	fn, ok := p.env.Function(name.Value)
	if !ok {
		return nil, p.errorf(name.Line, `Unknown "%s" function.`, name.Value)
	}
	p.deprecateCallable(fn, name.Line)

	call := newNode(NodeFunction, name.Line, args)
	call.Name = name.Value
	return call, nil
}

// parseArguments parses a parenthesized argument list. With definition set,
// arguments are macro parameter names with optional defaults.
func (p *parser) parseArguments(named, definition, allowArrow bool) (*Node, error) {
	open, err := p.expect(token.Punctuation, "(", "A list of arguments must begin with an opening parenthesis")
	if err != nil {
		return nil, err
	}
	args := newNode(NodeArguments, open.Line)

	for !p.test(token.Punctuation, ")") {
		if len(args.Children) > 0 {
			if _, err := p.expect(token.Punctuation, ",", "Arguments must be separated by a comma"); err != nil {
				return nil, err
			}
			if p.test(token.Punctuation, ")") {
				break
			}
		}

		if definition {
			arg, err := p.parseParameter()
			if err != nil {
				return nil, err
			}
			args.Children = append(args.Children, arg)
			continue
		}

		if named && p.cur().Type == token.Name &&
			(testToken(p.peek(1), token.Operator, "=") || testToken(p.peek(1), token.Punctuation, ":")) {
			name := p.next()
			p.next()
			value, err := p.parseExpressionWith(0, allowArrow)
			if err != nil {
				return nil, err
			}
			arg := newNode(NodeNamedArgument, name.Line, value)
			arg.Name = name.Value
			args.Children = append(args.Children, arg)
			continue
		}

		value, err := p.parseExpressionWith(0, allowArrow)
		if err != nil {
			return nil, err
		}
		args.Children = append(args.Children, value)
	}

	if _, err := p.expect(token.Punctuation, ")", "A list of arguments must be closed by a parenthesis"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *parser) parseParameter() (*Node, error) {
	name, err := p.expect(token.Name, "", "An argument must be a name")
	if err != nil {
		return nil, err
	}
	if !p.nextIf(token.Operator, "=") {
		return nameNode(name.Line, name.Value), nil
	}

	value, err := p.parsePrimaryWithUnary()
	if err != nil {
		return nil, err
	}
	switch value.Kind {
	case NodeConstant, NodeArray, NodeHash, NodeUnary:
	default:
		return nil, p.errorf(name.Line,
			"A default value for an argument must be a constant (a boolean, a string, a number, a sequence, or a mapping).")
	}
	arg := newNode(NodeNamedArgument, name.Line, value)
	arg.Name = name.Value
	return arg, nil
}

func (p *parser) parseTest(operand *Node) (*Node, error) {
	name, def, err := p.parseTestName()
	if err != nil {
		return nil, err
	}

	test := newNode(NodeTest, operand.Line, operand)
	test.Name = name

	switch {
	case p.test(token.Punctuation, "("):
		args, err := p.parseArguments(true, false, false)
		if err != nil {
			return nil, err
		}
		test.Children = append(test.Children, args)
	case def.OneMandatoryArgument:
		arg, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		test.Children = append(test.Children, newNode(NodeArguments, arg.Line, arg))
	}
	return test, nil
}

func (p *parser) parseNotTest(operand *Node) (*Node, error) {
	test, err := p.parseTest(operand)
	if err != nil {
		return nil, err
	}
	not := newNode(NodeUnary, test.Line, test)
	not.Name = "not"
	return not, nil
}

// parseTestName resolves one- and two-word test names ("same as").
// Known tests win over resolver stubs, so "same as" is not read as a
// stubbed "same".
func (p *parser) parseTestName() (string, Callable, error) {
	tok, err := p.expect(token.Name, "", "")
	if err != nil {
		return "", Callable{}, err
	}

	if def, ok := p.env.knownTest(tok.Value); ok {
		p.deprecateCallable(def, tok.Line)
		return tok.Value, def, nil
	}
	if second := p.cur(); second.Type == token.Name {
		two := tok.Value + " " + second.Value
		if def, ok := p.env.knownTest(two); ok {
			p.next()
			p.deprecateCallable(def, tok.Line)
			return two, def, nil
		}
	}
	if def, ok := p.env.Test(tok.Value); ok {
		return tok.Value, def, nil
	}
	return "", Callable{}, p.errorf(tok.Line, `Unknown "%s" test.`, tok.Value)
}

func (p *parser) deprecateCallable(c Callable, line int) {
	if !c.Deprecated {
		return
	}
	kind := strings.ToUpper(c.Kind.String()[:1]) + c.Kind.String()[1:]
	if c.Alternative != "" {
		p.deprecate(line, `Twig %s "%s" is deprecated. Use "%s" instead.`, kind, c.Name, c.Alternative)
		return
	}
	p.deprecate(line, `Twig %s "%s" is deprecated.`, kind, c.Name)
}

// arrowAhead reports whether an arrow function starts at the cursor:
// "x =>" or "(a, b) =>".
func (p *parser) arrowAhead() bool {
	tok := p.cur()
	if tok.Type == token.Name {
		return p.peek(1).Type == token.Arrow
	}
	if !tok.Is(token.Punctuation, "(") {
		return false
	}

	for i := 1; ; i++ {
		t := p.peek(i)
		if t.Is(token.Punctuation, ")") {
			return p.peek(i+1).Type == token.Arrow
		}
		if t.Type != token.Name {
			return false
		}
		i++
		t = p.peek(i)
		switch {
		case t.Is(token.Punctuation, ","):
		case t.Is(token.Punctuation, ")"):
			return p.peek(i+1).Type == token.Arrow
		default:
			return false
		}
	}
}

func (p *parser) parseArrow() (*Node, error) {
	params := newNode(NodeArguments, p.cur().Line)

	if p.test(token.Name) {
		name := p.next()
		params.Children = append(params.Children, nameNode(name.Line, name.Value))
	} else {
		p.next()
		for !p.nextIf(token.Punctuation, ")") {
			name := p.next()
			params.Children = append(params.Children, nameNode(name.Line, name.Value))
			p.nextIf(token.Punctuation, ",")
		}
	}

	arrow, err := p.expect(token.Arrow, "", "")
	if err != nil {
		return nil, err
	}
	body, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	return newNode(NodeArrow, arrow.Line, params, body), nil
}

// parseAssignmentTargets parses "a" or "a, b" on the left of set/for.
func (p *parser) parseAssignmentTargets() ([]*Node, error) {
	var targets []*Node
	for {
		tok := p.cur()
		if tok.Type != token.Name {
			return nil, p.errorf(tok.Line, `Only variables can be assigned to. "%s" is not allowed.`, tok.Value)
		}
		switch strings.ToLower(tok.Value) {
		case "true", "false", "none", "null":
			return nil, p.errorf(tok.Line, `You cannot assign a value to "%s".`, tok.Value)
		}
		p.next()
		targets = append(targets, nameNode(tok.Line, tok.Value))

		if !p.nextIf(token.Punctuation, ",") {
			return targets, nil
		}
	}
}

func (p *parser) parseExpressionList() ([]*Node, error) {
	var exprs []*Node
	for {
		expr, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
		if !p.nextIf(token.Punctuation, ",") {
			return exprs, nil
		}
	}
}

func constant(line int, value string) *Node {
	n := newNode(NodeConstant, line)
	n.Value = value
	return n
}

func nameNode(line int, name string) *Node {
	n := newNode(NodeName, line)
	n.Name = name
	return n
}

func isNameLike(s string) bool {
	if s == "" || ('0' <= s[0] && s[0] <= '9') {
		return false
	}
	for i := range len(s) {
		c := s[i]
		if !isLetterByte(c) && c != '_' && !('0' <= c && c <= '9') {
			return false
		}
	}
	return true
}

func isLetterByte(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// unquote strips the quotes of a complete string literal and resolves
// backslash escapes.
func unquote(s string) string {
	if len(s) >= 2 {
		s = s[1 : len(s)-1]
	}
	return unescape(s)
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
