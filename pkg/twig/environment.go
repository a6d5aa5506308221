// Package twig parses Twig templates into an AST.
//
// It implements the expression grammar and the core tags well enough to
// validate syntax and feed AST sniffs. Nothing is ever executed. Unknown
// filters, functions and tests go through an UnknownNameResolver; unknown
// tags can be declared as stub tags.
package twig

import (
	"slices"
	"strings"

	"github.com/yaklabco/twigcs/pkg/token"
	"github.com/yaklabco/twigcs/pkg/tokenizer"
)

// Environment holds the grammar tables used by Parse. It is immutable after
// construction and safe for concurrent use.
type Environment struct {
	unary  map[string]Operator
	binary map[string]Operator

	filters   map[string]Callable
	functions map[string]Callable
	tests     map[string]Callable

	tags     map[string]tagParser
	stubTags map[string]struct{}

	resolver  UnknownNameResolver
	tokenizer *tokenizer.Tokenizer
}

// Option configures an Environment.
type Option func(*Environment)

// WithResolver sets the resolver for unknown filters, functions and tests.
func WithResolver(r UnknownNameResolver) Option {
	return func(e *Environment) {
		e.resolver = r
	}
}

// WithoutStubResolver makes unknown filters, functions and tests syntax errors.
func WithoutStubResolver() Option {
	return WithResolver(nil)
}

// WithStubTags declares tag names that parse as an opaque tag with an
// optional body closed by "end<name>".
func WithStubTags(names ...string) Option {
	return func(e *Environment) {
		for _, name := range names {
			if name = strings.TrimSpace(name); name != "" {
				e.stubTags[name] = struct{}{}
			}
		}
	}
}

// WithCallables registers extra filters, functions or tests.
func WithCallables(callables ...Callable) Option {
	return func(e *Environment) {
		for _, c := range callables {
			e.register(c)
		}
	}
}

// NewEnvironment creates an environment with the core grammar and a
// StubResolver.
func NewEnvironment(opts ...Option) *Environment {
	env := &Environment{
		unary:     make(map[string]Operator),
		binary:    make(map[string]Operator),
		filters:   make(map[string]Callable),
		functions: make(map[string]Callable),
		tests:     make(map[string]Callable),
		tags:      coreTags(),
		stubTags:  make(map[string]struct{}),
		resolver:  StubResolver{},
	}

	for _, op := range coreUnaryOperators() {
		env.unary[op.Name] = op
	}
	for _, op := range coreBinaryOperators() {
		env.binary[op.Name] = op
	}
	for _, group := range [][]Callable{coreFilters(), coreFunctions(), coreTests()} {
		for _, c := range group {
			env.register(c)
		}
	}

	for _, opt := range opts {
		opt(env)
	}

	env.tokenizer = tokenizer.New(env.Operators())
	return env
}

func (e *Environment) register(c Callable) {
	switch c.Kind {
	case KindFilter:
		e.filters[c.Name] = c
	case KindFunction:
		e.functions[c.Name] = c
	case KindTest:
		e.tests[c.Name] = c
	}
}

// Operators returns "=" and every unary and binary operator, sorted.
func (e *Environment) Operators() []string {
	ops := []string{"="}
	for name := range e.unary {
		ops = append(ops, name)
	}
	for name := range e.binary {
		if _, dup := e.unary[name]; !dup {
			ops = append(ops, name)
		}
	}
	slices.Sort(ops)
	return ops
}

// Tokenizer returns the tokenizer configured with this environment's operators.
func (e *Environment) Tokenizer() *tokenizer.Tokenizer {
	return e.tokenizer
}

// Tokenize lexes source with Tokenizer.
func (e *Environment) Tokenize(source, filename string) (*token.Stream, error) {
	return e.tokenizer.Tokenize(source, filename)
}

// Filter looks up a filter, falling back to the resolver.
func (e *Environment) Filter(name string) (Callable, bool) {
	return e.lookup(e.filters, name, UnknownNameResolver.ResolveFilter)
}

// Function looks up a function, falling back to the resolver.
func (e *Environment) Function(name string) (Callable, bool) {
	return e.lookup(e.functions, name, UnknownNameResolver.ResolveFunction)
}

// Test looks up a test, falling back to the resolver.
func (e *Environment) Test(name string) (Callable, bool) {
	return e.lookup(e.tests, name, UnknownNameResolver.ResolveTest)
}

func (e *Environment) lookup(
	known map[string]Callable,
	name string,
	resolve func(UnknownNameResolver, string) (Callable, bool),
) (Callable, bool) {
	if c, ok := known[name]; ok {
		return c, true
	}
	if e.resolver == nil {
		return Callable{}, false
	}
	return resolve(e.resolver, name)
}

// knownTest looks up a test without the resolver.
func (e *Environment) knownTest(name string) (Callable, bool) {
	c, ok := e.tests[name]
	return c, ok
}

// IsStubTag reports whether name was declared with WithStubTags.
func (e *Environment) IsStubTag(name string) bool {
	_, ok := e.stubTags[name]
	return ok
}

// StubTags returns the declared stub tag names, sorted.
func (e *Environment) StubTags() []string {
	out := make([]string, 0, len(e.stubTags))
	for name := range e.stubTags {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Tags returns the names of the tags the parser understands, sorted.
func (e *Environment) Tags() []string {
	out := make([]string, 0, len(e.tags))
	for name := range e.tags {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

func (e *Environment) unaryOperator(tok token.Token) (Operator, bool) {
	if tok.Type != token.Operator {
		return Operator{}, false
	}
	op, ok := e.unary[normalizeOperator(tok.Value)]
	return op, ok
}

func (e *Environment) binaryOperator(tok token.Token) (Operator, bool) {
	if tok.Type != token.Operator {
		return Operator{}, false
	}
	op, ok := e.binary[normalizeOperator(tok.Value)]
	return op, ok
}

// normalizeOperator collapses the whitespace inside multi-word operators.
func normalizeOperator(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
