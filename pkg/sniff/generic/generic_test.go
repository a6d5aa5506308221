package generic_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/twigcs/pkg/fixer"
	"github.com/yaklabco/twigcs/pkg/report"
	"github.com/yaklabco/twigcs/pkg/ruleset"
	"github.com/yaklabco/twigcs/pkg/sniff"
	"github.com/yaklabco/twigcs/pkg/sniff/generic"
	"github.com/yaklabco/twigcs/pkg/twig"
)

const filename = "t.twig"

// lint runs s over source and returns the violations.
func lint(t *testing.T, s sniff.Sniff, source string) []report.Violation {
	t.Helper()

	env := twig.NewEnvironment()
	stream, err := env.Tokenize(source, filename)
	require.NoError(t, err)

	rep := report.New()
	s.EnableReport(rep)
	defer s.Disable()

	switch s := s.(type) {
	case sniff.TokenSniff:
		require.NoError(t, sniff.ProcessStream(s, stream))
	case sniff.ASTSniff:
		root, err := env.Parse(stream, nil)
		require.NoError(t, err)
		require.NoError(t, twig.Traverse(root, sniff.Visitor(env, s)))
	}
	return rep.Messages(report.Filter{})
}

// fix runs the fixer with the given sniffs over source.
func fix(t *testing.T, source string, sniffs ...sniff.Sniff) string {
	t.Helper()

	rs := ruleset.New()
	for _, s := range sniffs {
		rs.Add(s)
	}
	got, err := fixer.New(rs, twig.NewEnvironment().Tokenizer()).FixSource(filename, source)
	require.NoError(t, err)
	return got
}

type tokenCase struct {
	name     string
	source   string
	messages int
	fixed    string
}

func runTokenCases(t *testing.T, newSniff func() sniff.Sniff, tests []tokenCase) {
	t.Helper()

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			msgs := lint(t, newSniff(), tc.source)
			assert.Len(t, msgs, tc.messages)

			fixed := fix(t, tc.source, newSniff())
			assert.Equal(t, tc.fixed, fixed)
			assert.Empty(t, lint(t, newSniff(), fixed), "fixed source must be clean")
		})
	}
}

func TestTrailingWhitespace(t *testing.T) {
	t.Parallel()

	runTokenCases(t, func() sniff.Sniff { return generic.NewTrailingWhitespace() }, []tokenCase{
		{"clean", "a\n", 0, "a\n"},
		{"space and tab", "a \nb\t\n", 2, "a\nb\n"},
		{"before end of file", "{{ a }}  ", 1, "{{ a }}"},
		{"inside comment", "{# a  \n #}\n", 1, "{# a\n #}\n"},
		{"crlf", "a \r\n", 1, "a\r\n"},
	})
}

func TestTrailingWhitespace_Message(t *testing.T) {
	t.Parallel()

	msgs := lint(t, generic.NewTrailingWhitespace(), "ab  \n")
	require.Len(t, msgs, 1)
	assert.Equal(t, report.Error, msgs[0].Level)
	assert.Equal(t, "A line should not end with blank space", msgs[0].Message)
	assert.Equal(t, "TrailingWhitespace", msgs[0].Sniff)
	assert.Equal(t, filename, msgs[0].Filename)
	assert.Equal(t, 1, msgs[0].Line)
	assert.Equal(t, 3, msgs[0].Position)
}

func TestEmptyLines(t *testing.T) {
	t.Parallel()

	runTokenCases(t, func() sniff.Sniff { return generic.NewEmptyLines() }, []tokenCase{
		{"one empty line", "a\n\nb\n", 0, "a\n\nb\n"},
		{"two empty lines", "a\n\n\nb\n", 1, "a\n\nb\n"},
		{"four empty lines", "a\n\n\n\n\nb", 1, "a\n\nb"},
		{"at start of file", "\n\n\nb", 1, "\nb"},
		{"at end of file", "a\n\n\n\n", 0, "a\n\n\n\n"},
	})
}

func TestEmptyLines_Message(t *testing.T) {
	t.Parallel()

	msgs := lint(t, generic.NewEmptyLines(), "a\n\n\nb\n")
	require.Len(t, msgs, 1)
	assert.Equal(t, "More than 1 empty line is not allowed, found 2", msgs[0].Message)
	assert.Equal(t, 3, msgs[0].Line)
}

func TestBlankEOF(t *testing.T) {
	t.Parallel()

	runTokenCases(t, func() sniff.Sniff { return generic.NewBlankEOF() }, []tokenCase{
		{"empty file", "", 0, ""},
		{"one newline", "a\n", 0, "a\n"},
		{"missing", "{{ a }}", 1, "{{ a }}\n"},
		{"too many", "a\n\n\n", 1, "a\n"},
		{"crlf", "a\r\n\r\n", 1, "a\r\n"},
		{"missing crlf", "a\r\nb", 1, "a\r\nb\r\n"},
	})
}

func TestBlankEOF_Message(t *testing.T) {
	t.Parallel()

	msgs := lint(t, generic.NewBlankEOF(), "a\n\n\n")
	require.Len(t, msgs, 1)
	assert.Equal(t, "A file must end with 1 blank line; found 3", msgs[0].Message)
}

func TestDelimiterSpacing(t *testing.T) {
	t.Parallel()

	runTokenCases(t, func() sniff.Sniff { return generic.NewDelimiterSpacing() }, []tokenCase{
		{"clean", "{{ a }}{% if a %}{% endif %}", 0, "{{ a }}{% if a %}{% endif %}"},
		{"missing", "{{a}}", 2, "{{ a }}"},
		{"too many", "{{  a   }}", 2, "{{ a }}"},
		{"tab", "{%\tif a %}{% endif %}", 1, "{% if a %}{% endif %}"},
		{"newlines", "{%\n  if a\n%}{% endif %}", 0, "{%\n  if a\n%}{% endif %}"},
		{"indented closer", "{{\n  a\n  }}", 0, "{{\n  a\n  }}"},
		{"comment", "{#note#}", 2, "{# note #}"},
		{"empty comment", "{##}", 2, "{# #}"},
		{"trim modifiers", "{{- a -}}", 0, "{{- a -}}"},
	})
}

func TestDelimiterSpacing_Message(t *testing.T) {
	t.Parallel()

	msgs := lint(t, generic.NewDelimiterSpacing(), "{{a  }}")
	require.Len(t, msgs, 2)
	assert.Equal(t, `Expecting 1 whitespace after "{{"; found 0`, msgs[0].Message)
	assert.Equal(t, `Expecting 1 whitespace before "}}"; found 2`, msgs[1].Message)
}

func TestPunctuationSpacing(t *testing.T) {
	t.Parallel()

	runTokenCases(t, func() sniff.Sniff { return generic.NewPunctuationSpacing() }, []tokenCase{
		{"clean", "{{ f(a, b) }}", 0, "{{ f(a, b) }}"},
		{"padded call", "{{ f( a , b ) }}", 3, "{{ f(a, b) }}"},
		{"missing after comma", "{{ [1,2] }}", 1, "{{ [1, 2] }}"},
		{"too many after comma", "{{ f(a,  b) }}", 1, "{{ f(a, b) }}"},
		{"trailing comma", "{{ [1,] }}", 0, "{{ [1,] }}"},
		{"padded trailing comma", "{{ [1, ] }}", 1, "{{ [1,] }}"},
		{"multiline", "{{ f(\n  a,\n  b\n) }}", 0, "{{ f(\n  a,\n  b\n) }}"},
		{"hash", "{{ { a: 1 } }}", 2, "{{ {a: 1} }}"},
		{"text is ignored", "f( a )", 0, "f( a )"},
	})
}

func TestPunctuationSpacing_Message(t *testing.T) {
	t.Parallel()

	msgs := lint(t, generic.NewPunctuationSpacing(), "{{ f( a) }}")
	require.Len(t, msgs, 1)
	assert.Equal(t, `There should be no space after "("`, msgs[0].Message)
	assert.Equal(t, 6, msgs[0].Position)
}

func TestDisallowCommentedCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		source   string
		messages int
	}{
		{"plain comment", "{# note #}", 0},
		{"commented print", "{# {{ a }} #}", 1},
		{"commented block", "{#\n{% if a %}\n#}", 1},
		{"one warning per comment", "{# {{ a }} {{ b }} #}", 1},
		{"code outside", "{# note #}{{ a }}", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			msgs := lint(t, generic.NewDisallowCommentedCode(), tc.source)
			require.Len(t, msgs, tc.messages)
			for _, m := range msgs {
				assert.Equal(t, report.Warning, m.Level)
			}

			assert.Equal(t, tc.source, fix(t, tc.source, generic.NewDisallowCommentedCode()))
		})
	}
}

func TestIncludeTag(t *testing.T) {
	t.Parallel()

	msgs := lint(t, generic.NewIncludeTag(), "{{ include('a.twig') }}\n{% include 'b.twig' %}\n")
	require.Len(t, msgs, 1)
	assert.Equal(t, report.Warning, msgs[0].Level)
	assert.Equal(t, filename, msgs[0].Filename)
	assert.Equal(t, 2, msgs[0].Line)
	assert.Equal(t, "IncludeTag", msgs[0].Sniff)
}

func TestDumpUsage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		lines  []int
	}{
		{"no dump", "{{ a }}", nil},
		{"dump call", "\n{{ dump(a) }}", []int{2}},
		{"nested", "{% if a %}\n{{ f(dump()) }}\n{% endif %}{{ dump() }}", []int{2, 3}},
		{"variable named dump", "{{ dump }}", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			msgs := lint(t, generic.NewDumpUsage(), tc.source)
			lines := make([]int, 0, len(msgs))
			for _, m := range msgs {
				assert.Equal(t, report.Error, m.Level)
				lines = append(lines, m.Line)
			}
			if tc.lines == nil {
				assert.Empty(t, lines)
			} else {
				assert.Equal(t, tc.lines, lines)
			}
		})
	}
}

func TestStandard(t *testing.T) {
	t.Parallel()

	std := generic.New()
	assert.Equal(t, generic.StandardName, std.Name())

	rs := ruleset.New()
	rs.AddStandard(std)
	require.NoError(t, rs.Validate())
	assert.Equal(t, len(generic.IDs()), rs.Len())
	assert.Len(t, rs.ASTSniffs(), 2)

	for _, id := range generic.IDs() {
		_, ok := rs.Get(id)
		assert.True(t, ok, id)
	}

	first, second := std.Sniffs(), std.Sniffs()
	assert.NotSame(t, first[0], second[0], "each call returns fresh sniffs")
}

func TestStandard_FixConverges(t *testing.T) {
	t.Parallel()

	source := "{{a}}  \n\n\n{{ f( a ,b ) }}"
	got := fix(t, source, generic.New().Sniffs()...)
	assert.Equal(t, "{{ a }}\n\n{{ f(a, b) }}\n", got)
	assert.Equal(t, got, fix(t, got, generic.New().Sniffs()...))
}

func TestStandard_FixConvergesOnVariedInput(t *testing.T) {
	t.Parallel()

	heads := []string{"", "\n\n\n", "\t \n\n\n\n", " \n"}
	bodies := []string{
		"\t\t  \n",
		"{{}}\t\n",
		"a  \n\n\n\n{{}}  ",
		"{%if a%}{{f( a ,b )}}{%endif%}\t \n\n",
		"{#x#}\n\n \t\n{{ [1,2 ,3] }}",
		"{{  a  }}\t\n\n\n\t{{ {a:1} }}",
	}
	tails := []string{"", "\n", "  \n\n\n", "\t"}

	for _, head := range heads {
		for _, body := range bodies {
			for _, tail := range tails {
				source := head + body + tail
				t.Run(fmt.Sprintf("%q", source), func(t *testing.T) {
					t.Parallel()

					tk := twig.NewEnvironment().Tokenizer()
					rs := ruleset.New()
					rs.AddStandard(generic.New())

					got, err := fixer.New(rs, tk).FixSource(filename, source)
					require.NoError(t, err)

					again := fixer.New(rs, tk)
					refixed, err := again.FixSource(filename, got)
					require.NoError(t, err)
					assert.Equal(t, got, refixed)
					assert.Equal(t, 1, again.Loops(), "a fixed file needs no further edits")
				})
			}
		}
	}
}
