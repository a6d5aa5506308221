package twig

// Associativity of a binary operator.
type Associativity uint8

// Associativities.
const (
	AssocLeft Associativity = iota
	AssocRight
)

// Operator is a unary or binary operator.
type Operator struct {
	Name       string
	Precedence int
	Assoc      Associativity
}

func coreUnaryOperators() []Operator {
	return []Operator{
		{Name: "not", Precedence: 50},
		{Name: "-", Precedence: 500},
		{Name: "+", Precedence: 500},
	}
}

func coreBinaryOperators() []Operator {
	return []Operator{
		{Name: "or", Precedence: 10},
		{Name: "and", Precedence: 15},
		{Name: "b-or", Precedence: 16},
		{Name: "b-xor", Precedence: 17},
		{Name: "b-and", Precedence: 18},
		{Name: "==", Precedence: 20},
		{Name: "!=", Precedence: 20},
		{Name: "<=>", Precedence: 20},
		{Name: "<", Precedence: 20},
		{Name: ">", Precedence: 20},
		{Name: ">=", Precedence: 20},
		{Name: "<=", Precedence: 20},
		{Name: "not in", Precedence: 20},
		{Name: "in", Precedence: 20},
		{Name: "matches", Precedence: 20},
		{Name: "starts with", Precedence: 20},
		{Name: "ends with", Precedence: 20},
		{Name: "has some", Precedence: 20},
		{Name: "has every", Precedence: 20},
		{Name: "..", Precedence: 25},
		{Name: "+", Precedence: 30},
		{Name: "-", Precedence: 30},
		{Name: "~", Precedence: 40},
		{Name: "*", Precedence: 60},
		{Name: "/", Precedence: 60},
		{Name: "//", Precedence: 60},
		{Name: "%", Precedence: 60},
		{Name: "is", Precedence: 100},
		{Name: "is not", Precedence: 100},
		{Name: "**", Precedence: 200, Assoc: AssocRight},
		{Name: "??", Precedence: 300, Assoc: AssocRight},
	}
}

func coreFilters() []Callable {
	names := []string{
		"abs", "batch", "capitalize", "column", "convert_encoding", "date",
		"date_modify", "default", "e", "escape", "filter", "find", "first",
		"format", "join", "json_encode", "keys", "last", "length", "lower",
		"map", "merge", "nl2br", "number_format", "raw", "reduce", "replace",
		"reverse", "round", "shuffle", "slice", "sort", "split", "striptags",
		"title", "trim", "upper", "url_encode",
	}
	out := make([]Callable, 0, len(names)+1)
	for _, name := range names {
		out = append(out, Callable{Kind: KindFilter, Name: name})
	}
	return append(out, Callable{Kind: KindFilter, Name: "spaceless", Deprecated: true})
}

func coreFunctions() []Callable {
	names := []string{
		"attribute", "block", "constant", "cycle", "date", "dump", "enum",
		"enum_cases", "include", "max", "min", "parent", "random", "range",
		"source", "template_from_string",
	}
	out := make([]Callable, 0, len(names))
	for _, name := range names {
		out = append(out, Callable{Kind: KindFunction, Name: name})
	}
	return out
}

func coreTests() []Callable {
	names := []string{
		"constant", "defined", "empty", "even", "iterable", "mapping", "none",
		"null", "odd", "sequence",
	}
	out := make([]Callable, 0, len(names)+4)
	for _, name := range names {
		out = append(out, Callable{Kind: KindTest, Name: name})
	}
	return append(out,
		Callable{Kind: KindTest, Name: "divisible by", OneMandatoryArgument: true},
		Callable{Kind: KindTest, Name: "same as", OneMandatoryArgument: true},
		Callable{Kind: KindTest, Name: "divisibleby", Deprecated: true, Alternative: "divisible by"},
		Callable{Kind: KindTest, Name: "sameas", Deprecated: true, Alternative: "same as"},
	)
}
