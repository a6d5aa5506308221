package twig

// CallableKind distinguishes filters, functions and tests.
type CallableKind uint8

// Callable kinds.
const (
	KindFilter CallableKind = iota
	KindFunction
	KindTest
)

func (k CallableKind) String() string {
	switch k {
	case KindFilter:
		return "filter"
	case KindFunction:
		return "function"
	case KindTest:
		return "test"
	default:
		return "callable"
	}
}

// Callable describes a filter, function or test known to the parser.
// Only the properties that affect parsing are modeled.
type Callable struct {
	Kind CallableKind
	Name string

	// Deprecated marks the callable as deprecated; Alternative, when set,
	// names its replacement.
	Deprecated  bool
	Alternative string

	// OneMandatoryArgument lets a test take its argument without
	// parentheses, as in "is same as x".
	OneMandatoryArgument bool

	// Stub is set on definitions fabricated by a resolver.
	Stub bool
}

// UnknownNameResolver supplies definitions for filters, functions and tests
// the environment does not know, typically from extensions that are not
// installed in the checker.
type UnknownNameResolver interface {
	ResolveFilter(name string) (Callable, bool)
	ResolveFunction(name string) (Callable, bool)
	ResolveTest(name string) (Callable, bool)
}

// StubResolver resolves every name to a no-op definition.
type StubResolver struct{}

// ResolveFilter implements UnknownNameResolver.
func (StubResolver) ResolveFilter(name string) (Callable, bool) {
	return Callable{Kind: KindFilter, Name: name, Stub: true}, true
}

// ResolveFunction implements UnknownNameResolver.
func (StubResolver) ResolveFunction(name string) (Callable, bool) {
	return Callable{Kind: KindFunction, Name: name, Stub: true}, true
}

// ResolveTest implements UnknownNameResolver.
func (StubResolver) ResolveTest(name string) (Callable, bool) {
	return Callable{Kind: KindTest, Name: name, Stub: true}, true
}
