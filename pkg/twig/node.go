package twig

import "fmt"

// NodeKind classifies an AST node.
type NodeKind uint8

// Node kinds.
const (
	NodeModule NodeKind = iota
	NodeBody
	NodeText
	NodePrint

	// NodeTag is any block tag; Name holds the tag name ("if", "for", a stub tag...).
	NodeTag

	// Expressions.
	NodeName
	NodeConstant
	NodeString
	NodeArray
	NodeHash
	NodePair
	NodeUnary
	NodeBinary
	NodeConditional
	NodeGetAttr
	NodeFilter
	NodeFunction
	NodeTest
	NodeArrow
	NodeArguments
	NodeNamedArgument
)

//nolint:gochecknoglobals // Lookup table.
var nodeKindNames = [...]string{
	NodeModule:        "Module",
	NodeBody:          "Body",
	NodeText:          "Text",
	NodePrint:         "Print",
	NodeTag:           "Tag",
	NodeName:          "Name",
	NodeConstant:      "Constant",
	NodeString:        "String",
	NodeArray:         "Array",
	NodeHash:          "Hash",
	NodePair:          "Pair",
	NodeUnary:         "Unary",
	NodeBinary:        "Binary",
	NodeConditional:   "Conditional",
	NodeGetAttr:       "GetAttr",
	NodeFilter:        "Filter",
	NodeFunction:      "Function",
	NodeTest:          "Test",
	NodeArrow:         "Arrow",
	NodeArguments:     "Arguments",
	NodeNamedArgument: "NamedArgument",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return fmt.Sprintf("NodeKind(%d)", k)
}

// IsExpression reports whether the kind is an expression node.
func (k NodeKind) IsExpression() bool {
	return k >= NodeName
}

// Node is a node of the template AST.
//
// The meaning of Name and Value depends on Kind:
//
//	Tag            Name = tag name
//	Name           Name = variable name
//	Constant       Value = literal source text ("true", "1.5", "foo")
//	String         interpolated string; Children are the parts
//	Unary, Binary  Name = normalized operator
//	GetAttr        Name = "." or "[]"; Children = object, attribute[, arguments]
//	Filter         Name = filter name; Children = operand[, arguments]
//	Function       Name = function name; Children = arguments
//	Test           Name = test name; Children = operand[, arguments]
//	NamedArgument  Name = argument name; Children = value
type Node struct {
	Kind     NodeKind
	Name     string
	Value    string
	Line     int
	Children []*Node

	// Attrs holds tag-specific flags such as "only" or "ignore_missing".
	Attrs map[string]string
}

func newNode(kind NodeKind, line int, children ...*Node) *Node {
	return &Node{Kind: kind, Line: line, Children: children}
}

// SetAttr sets a tag attribute.
func (n *Node) SetAttr(key, value string) {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[key] = value
}

// Attr returns a tag attribute.
func (n *Node) Attr(key string) (string, bool) {
	v, ok := n.Attrs[key]
	return v, ok
}

// Is reports whether the node has the given kind and, if names are given,
// one of those names.
func (n *Node) Is(kind NodeKind, names ...string) bool {
	if n == nil || n.Kind != kind {
		return false
	}
	if len(names) == 0 {
		return true
	}
	for _, name := range names {
		if n.Name == name {
			return true
		}
	}
	return false
}

func (n *Node) String() string {
	switch {
	case n.Name != "":
		return fmt.Sprintf("%s(%s)@%d", n.Kind, n.Name, n.Line)
	case n.Value != "":
		return fmt.Sprintf("%s(%q)@%d", n.Kind, n.Value, n.Line)
	default:
		return fmt.Sprintf("%s@%d", n.Kind, n.Line)
	}
}
