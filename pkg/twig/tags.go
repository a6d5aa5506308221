package twig

import (
	"github.com/yaklabco/twigcs/pkg/token"
)

// tagParser parses a tag whose name token has just been consumed.
type tagParser func(p *parser, tag token.Token) (*Node, error)

func coreTags() map[string]tagParser {
	return map[string]tagParser{
		"apply":      parseApply,
		"autoescape": parseAutoescape,
		"block":      parseBlock,
		"deprecated": parseDeprecated,
		"do":         parseDo,
		"embed":      parseEmbed,
		"extends":    parseSingleExpression,
		"filter":     parseFilterTag,
		"flush":      parseFlush,
		"for":        parseFor,
		"from":       parseFrom,
		"if":         parseIf,
		"import":     parseImport,
		"include":    parseInclude,
		"macro":      parseMacro,
		"raw":        parseVerbatim,
		"sandbox":    parseSimpleBody,
		"set":        parseSet,
		"spaceless":  parseSpaceless,
		"use":        parseUse,
		"verbatim":   parseVerbatim,
		"with":       parseWith,
	}
}

// closeTag consumes the end tag name left current by parseBody and the
// following block end.
func (p *parser) closeTag() error {
	p.next()
	return p.expectBlockEnd()
}

func parseIf(p *parser, tag token.Token) (*Node, error) {
	node := tagNode(tag)

	for {
		cond, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		if err := p.expectBlockEnd(); err != nil {
			return nil, err
		}
		body, err := p.parseBody(tag, "elseif", "else", "endif")
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, cond, body)

		switch p.next().Value {
		case "elseif":
			continue
		case "else":
			if err := p.expectBlockEnd(); err != nil {
				return nil, err
			}
			body, err := p.parseBody(tag, "endif")
			if err != nil {
				return nil, err
			}
			body.Name = "else"
			node.Children = append(node.Children, body)
			return node, p.closeTag()
		default:
			return node, p.expectBlockEnd()
		}
	}
}

func parseFor(p *parser, tag token.Token) (*Node, error) {
	node := tagNode(tag)

	targets, err := p.parseAssignmentTargets()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Operator, "in", ""); err != nil {
		return nil, err
	}
	seq, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	node.Children = append(node.Children, targets...)
	node.Children = append(node.Children, seq)

	if ifTok := p.cur(); ifTok.Is(token.Name, "if") {
		p.deprecate(ifTok.Line,
			`Using an "if" condition on "for" tag is deprecated, use a "filter" filter or an "if" condition inside the "for" body instead.`)
		p.next()
		cond, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		node.SetAttr("if", "true")
		node.Children = append(node.Children, cond)
	}

	if err := p.expectBlockEnd(); err != nil {
		return nil, err
	}
	body, err := p.parseBody(tag, "else", "endfor")
	if err != nil {
		return nil, err
	}
	node.Children = append(node.Children, body)

	if p.next().Value == "else" {
		if err := p.expectBlockEnd(); err != nil {
			return nil, err
		}
		elseBody, err := p.parseBody(tag, "endfor")
		if err != nil {
			return nil, err
		}
		elseBody.Name = "else"
		node.Children = append(node.Children, elseBody)
		return node, p.closeTag()
	}
	return node, p.expectBlockEnd()
}

func parseSet(p *parser, tag token.Token) (*Node, error) {
	node := tagNode(tag)

	names, err := p.parseAssignmentTargets()
	if err != nil {
		return nil, err
	}
	node.Children = append(node.Children, names...)

	if p.nextIf(token.Operator, "=") {
		values, err := p.parseExpressionList()
		if err != nil {
			return nil, err
		}
		if err := p.expectBlockEnd(); err != nil {
			return nil, err
		}
		if len(values) != len(names) {
			return nil, p.errorf(tag.Line, "When using set, you must have the same number of variables and assignments.")
		}
		node.Children = append(node.Children, values...)
		return node, nil
	}

	if len(names) > 1 {
		return nil, p.errorf(tag.Line, "When using set with a block, you cannot have a multi-target.")
	}
	if err := p.expectBlockEnd(); err != nil {
		return nil, err
	}
	body, err := p.parseBody(tag, "endset")
	if err != nil {
		return nil, err
	}
	node.SetAttr("capture", "true")
	node.Children = append(node.Children, body)
	return node, p.closeTag()
}

func parseBlock(p *parser, tag token.Token) (*Node, error) {
	node := tagNode(tag)

	name, err := p.expect(token.Name, "", "")
	if err != nil {
		return nil, err
	}
	node.Value = name.Value

	if !p.nextIf(token.BlockEnd) {
		expr, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, expr)
		return node, p.expectBlockEnd()
	}

	body, err := p.parseBody(tag, "endblock")
	if err != nil {
		return nil, err
	}
	node.Children = append(node.Children, body)

	p.next()
	if endName := p.cur(); endName.Type == token.Name {
		if endName.Value != name.Value {
			return nil, p.errorf(endName.Line, `Expected endblock for block "%s" (but "%s" given).`, name.Value, endName.Value)
		}
		p.next()
	}
	return node, p.expectBlockEnd()
}

// parseSingleExpression parses tags of the form "{% tag expr %}".
func parseSingleExpression(p *parser, tag token.Token) (*Node, error) {
	expr, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	return newTag(tag, expr), p.expectBlockEnd()
}

func parseDo(p *parser, tag token.Token) (*Node, error) {
	return parseSingleExpression(p, tag)
}

func parseFlush(p *parser, tag token.Token) (*Node, error) {
	return tagNode(tag), p.expectBlockEnd()
}

func parseInclude(p *parser, tag token.Token) (*Node, error) {
	node, err := parseIncludeLike(p, tag)
	if err != nil {
		return nil, err
	}
	return node, p.expectBlockEnd()
}

func parseIncludeLike(p *parser, tag token.Token) (*Node, error) {
	expr, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	node := newTag(tag, expr)

	if p.nextIf(token.Name, "ignore") {
		if _, err := p.expect(token.Name, "missing", ""); err != nil {
			return nil, err
		}
		node.SetAttr("ignore_missing", "true")
	}
	if p.nextIf(token.Name, "with") {
		vars, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		node.SetAttr("with", "true")
		node.Children = append(node.Children, vars)
	}
	if p.nextIf(token.Name, "only") {
		node.SetAttr("only", "true")
	}
	return node, nil
}

func parseEmbed(p *parser, tag token.Token) (*Node, error) {
	node, err := parseIncludeLike(p, tag)
	if err != nil {
		return nil, err
	}
	if err := p.expectBlockEnd(); err != nil {
		return nil, err
	}
	body, err := p.parseBody(tag, "endembed")
	if err != nil {
		return nil, err
	}
	node.Children = append(node.Children, body)
	return node, p.closeTag()
}

func parseMacro(p *parser, tag token.Token) (*Node, error) {
	node := tagNode(tag)

	name, err := p.expect(token.Name, "", "")
	if err != nil {
		return nil, err
	}
	node.Value = name.Value

	params, err := p.parseArguments(true, true, false)
	if err != nil {
		return nil, err
	}
	if err := p.expectBlockEnd(); err != nil {
		return nil, err
	}
	body, err := p.parseBody(tag, "endmacro")
	if err != nil {
		return nil, err
	}
	node.Children = append(node.Children, params, body)

	p.next()
	if endName := p.cur(); endName.Type == token.Name {
		if endName.Value != name.Value {
			return nil, p.errorf(endName.Line, `Expected endmacro for macro "%s" (but "%s" given).`, name.Value, endName.Value)
		}
		p.next()
	}
	return node, p.expectBlockEnd()
}

func parseImport(p *parser, tag token.Token) (*Node, error) {
	expr, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Name, "as", ""); err != nil {
		return nil, err
	}
	alias, err := p.expect(token.Name, "", "")
	if err != nil {
		return nil, err
	}
	return newTag(tag, expr, nameNode(alias.Line, alias.Value)), p.expectBlockEnd()
}

func parseFrom(p *parser, tag token.Token) (*Node, error) {
	expr, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	node := newTag(tag, expr)

	if _, err := p.expect(token.Name, "import", ""); err != nil {
		return nil, err
	}
	imports, err := parseAliases(p)
	if err != nil {
		return nil, err
	}
	node.Children = append(node.Children, imports...)
	return node, p.expectBlockEnd()
}

// parseAliases parses "a, b as c".
func parseAliases(p *parser) ([]*Node, error) {
	var out []*Node
	for {
		name, err := p.expect(token.Name, "", "")
		if err != nil {
			return nil, err
		}
		pair := newNode(NodePair, name.Line, nameNode(name.Line, name.Value))
		if p.nextIf(token.Name, "as") {
			alias, err := p.expect(token.Name, "", "")
			if err != nil {
				return nil, err
			}
			pair.Children = append(pair.Children, nameNode(alias.Line, alias.Value))
		}
		out = append(out, pair)

		if !p.nextIf(token.Punctuation, ",") {
			return out, nil
		}
	}
}

func parseUse(p *parser, tag token.Token) (*Node, error) {
	expr, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if expr.Kind != NodeConstant {
		return nil, p.errorf(tag.Line, `The template references in a "use" statement must be a string.`)
	}
	node := newTag(tag, expr)

	if p.nextIf(token.Name, "with") {
		aliases, err := parseAliases(p)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, aliases...)
	}
	return node, p.expectBlockEnd()
}

func parseApply(p *parser, tag token.Token) (*Node, error) {
	placeholder := nameNode(tag.Line, "_apply")
	filters, err := p.parseFilterChain(placeholder)
	if err != nil {
		return nil, err
	}
	if err := p.expectBlockEnd(); err != nil {
		return nil, err
	}
	body, err := p.parseBody(tag, "end"+tag.Value)
	if err != nil {
		return nil, err
	}
	return newTag(tag, filters, body), p.closeTag()
}

func parseFilterTag(p *parser, tag token.Token) (*Node, error) {
	p.deprecate(tag.Line, `The "filter" tag is deprecated, use the "apply" tag instead.`)
	return parseApply(p, tag)
}

func parseWith(p *parser, tag token.Token) (*Node, error) {
	node := tagNode(tag)

	if !p.test(token.BlockEnd) && !p.test(token.Name, "only") {
		vars, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, vars)
	}
	if p.nextIf(token.Name, "only") {
		node.SetAttr("only", "true")
	}
	if err := p.expectBlockEnd(); err != nil {
		return nil, err
	}
	body, err := p.parseBody(tag, "endwith")
	if err != nil {
		return nil, err
	}
	node.Children = append(node.Children, body)
	return node, p.closeTag()
}

func parseAutoescape(p *parser, tag token.Token) (*Node, error) {
	node := tagNode(tag)

	if !p.test(token.BlockEnd) {
		strategy, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, strategy)
	}
	if err := p.expectBlockEnd(); err != nil {
		return nil, err
	}
	body, err := p.parseBody(tag, "endautoescape")
	if err != nil {
		return nil, err
	}
	node.Children = append(node.Children, body)
	return node, p.closeTag()
}

func parseSpaceless(p *parser, tag token.Token) (*Node, error) {
	p.deprecate(tag.Line, `The "spaceless" tag is deprecated, use the "spaceless" filter with the "apply" tag instead.`)
	return parseSimpleBody(p, tag)
}

func parseVerbatim(p *parser, tag token.Token) (*Node, error) {
	return parseSimpleBody(p, tag)
}

// parseSimpleBody parses "{% tag %}...{% endtag %}".
func parseSimpleBody(p *parser, tag token.Token) (*Node, error) {
	if err := p.expectBlockEnd(); err != nil {
		return nil, err
	}
	body, err := p.parseBody(tag, "end"+tag.Value)
	if err != nil {
		return nil, err
	}
	return newTag(tag, body), p.closeTag()
}

func parseDeprecated(p *parser, tag token.Token) (*Node, error) {
	msg, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	node := newTag(tag, msg)

	for p.test(token.Name) && testToken(p.peek(1), token.Operator, "=") {
		name := p.next()
		p.next()
		value, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		opt := newNode(NodeNamedArgument, name.Line, value)
		opt.Name = name.Value
		node.Children = append(node.Children, opt)
	}
	return node, p.expectBlockEnd()
}

func newTag(tag token.Token, children ...*Node) *Node {
	n := tagNode(tag)
	n.Children = children
	return n
}
