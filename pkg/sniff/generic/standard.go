// Package generic provides the Generic standard: layout and hygiene sniffs
// that apply to any Twig code base.
package generic

import "github.com/yaklabco/twigcs/pkg/sniff"

// StandardName is the name of the Generic standard.
const StandardName = "Generic"

// Standard is the Generic standard. Each call to Sniffs returns fresh
// instances, so two rulesets never share sniff state.
type Standard struct{}

// New returns the Generic standard.
func New() Standard {
	return Standard{}
}

// Name returns StandardName.
func (Standard) Name() string {
	return StandardName
}

// Sniffs returns the sniffs of the standard in run order.
func (Standard) Sniffs() []sniff.Sniff {
	return []sniff.Sniff{
		NewDelimiterSpacing(),
		NewPunctuationSpacing(),
		NewTrailingWhitespace(),
		NewEmptyLines(),
		NewBlankEOF(),
		NewDisallowCommentedCode(),
		NewIncludeTag(),
		NewDumpUsage(),
	}
}

// IDs lists the sniff IDs of the standard.
func IDs() []string {
	sniffs := New().Sniffs()
	ids := make([]string, len(sniffs))
	for i, s := range sniffs {
		ids[i] = s.ID()
	}
	return ids
}
