package generic

import (
	"github.com/yaklabco/twigcs/pkg/report"
	"github.com/yaklabco/twigcs/pkg/sniff"
	"github.com/yaklabco/twigcs/pkg/twig"
)

// templateSniff tracks the file name of the template being traversed.
// Traversal is pre-order, so the module node is always seen first.
type templateSniff struct {
	sniff.ASTBase
	filename string
}

func (s *templateSniff) enter(node *twig.Node) {
	if node.Kind == twig.NodeModule {
		s.filename = node.Value
	}
}

// IncludeTag warns about the include tag in favor of the include function.
type IncludeTag struct {
	templateSniff
}

// NewIncludeTag creates the IncludeTag sniff.
func NewIncludeTag() *IncludeTag {
	return &IncludeTag{templateSniff{ASTBase: sniff.NewASTBase("IncludeTag", "Prefer the include() function to the include tag")}}
}

// Process implements sniff.ASTSniff.
func (s *IncludeTag) Process(node *twig.Node, _ *twig.Environment) error {
	s.enter(node)
	if !node.Is(twig.NodeTag, "include") {
		return nil
	}
	return s.AddNodeMessage(report.Warning,
		`Include tag is deprecated; use the include() function instead`, s.filename, node.Line)
}

// DumpUsage reports calls to the dump function.
type DumpUsage struct {
	templateSniff
}

// NewDumpUsage creates the DumpUsage sniff.
func NewDumpUsage() *DumpUsage {
	return &DumpUsage{templateSniff{ASTBase: sniff.NewASTBase("DumpUsage", "Templates must not call dump()")}}
}

// Process implements sniff.ASTSniff.
func (s *DumpUsage) Process(node *twig.Node, _ *twig.Environment) error {
	s.enter(node)
	if !node.Is(twig.NodeFunction, "dump") {
		return nil
	}
	return s.AddNodeMessage(report.Error, "Call to debug function dump() must be removed", s.filename, node.Line)
}
