// Package ruleset holds the sniffs of a run.
package ruleset

import (
	"fmt"

	"github.com/yaklabco/twigcs/pkg/sniff"
)

// Standard is a named collection of sniffs.
type Standard interface {
	Name() string
	Sniffs() []sniff.Sniff
}

// Ruleset is an ordered set of sniffs keyed by ID. It is not safe for
// concurrent mutation.
type Ruleset struct {
	sniffs []sniff.Sniff
	byID   map[string]int
}

// New creates an empty ruleset.
func New() *Ruleset {
	return &Ruleset{byID: make(map[string]int)}
}

// Add registers s. A sniff with the same ID is replaced in place, keeping
// its position in the run order.
func (r *Ruleset) Add(s sniff.Sniff) {
	if i, ok := r.byID[s.ID()]; ok {
		r.sniffs[i] = s
		return
	}
	r.byID[s.ID()] = len(r.sniffs)
	r.sniffs = append(r.sniffs, s)
}

// AddStandard registers every sniff of std.
func (r *Ruleset) AddStandard(std Standard) {
	for _, s := range std.Sniffs() {
		r.Add(s)
	}
}

// Remove unregisters the sniff with the given ID. It reports whether one
// was registered.
func (r *Ruleset) Remove(id string) bool {
	i, ok := r.byID[id]
	if !ok {
		return false
	}
	r.sniffs = append(r.sniffs[:i], r.sniffs[i+1:]...)
	delete(r.byID, id)
	for j := i; j < len(r.sniffs); j++ {
		r.byID[r.sniffs[j].ID()] = j
	}
	return true
}

// Get returns the sniff with the given ID.
func (r *Ruleset) Get(id string) (sniff.Sniff, bool) {
	i, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return r.sniffs[i], true
}

// Len returns the number of sniffs.
func (r *Ruleset) Len() int {
	return len(r.sniffs)
}

// Sniffs returns every sniff in registration order.
func (r *Ruleset) Sniffs() []sniff.Sniff {
	out := make([]sniff.Sniff, len(r.sniffs))
	copy(out, r.sniffs)
	return out
}

// TokenSniffs returns the token sniffs in registration order.
func (r *Ruleset) TokenSniffs() []sniff.TokenSniff {
	var out []sniff.TokenSniff
	for _, s := range r.sniffs {
		if ts, ok := s.(sniff.TokenSniff); ok {
			out = append(out, ts)
		}
	}
	return out
}

// ASTSniffs returns the AST sniffs in registration order.
func (r *Ruleset) ASTSniffs() []sniff.ASTSniff {
	var out []sniff.ASTSniff
	for _, s := range r.sniffs {
		if as, ok := s.(sniff.ASTSniff); ok {
			out = append(out, as)
		}
	}
	return out
}

// Validate checks that every sniff implements exactly the interface its
// Kind announces.
func (r *Ruleset) Validate() error {
	for _, s := range r.sniffs {
		switch s.Kind() {
		case sniff.KindToken:
			if _, ok := s.(sniff.TokenSniff); !ok {
				return fmt.Errorf("sniff %s: kind %s without a token Process method", s.ID(), s.Kind())
			}
		case sniff.KindAST:
			if _, ok := s.(sniff.ASTSniff); !ok {
				return fmt.Errorf("sniff %s: kind %s without an AST Process method", s.ID(), s.Kind())
			}
		default:
			return fmt.Errorf("sniff %s: unknown kind %s", s.ID(), s.Kind())
		}
	}
	return nil
}

// EnableReport attaches rep to every sniff.
func (r *Ruleset) EnableReport(rep sniff.Reporter) {
	for _, s := range r.sniffs {
		s.EnableReport(rep)
	}
}

// EnableFixer attaches f to every sniff.
func (r *Ruleset) EnableFixer(f sniff.Fixer) {
	for _, s := range r.sniffs {
		s.EnableFixer(f)
	}
}

// Disable detaches reports and fixers from every sniff.
func (r *Ruleset) Disable() {
	for _, s := range r.sniffs {
		s.Disable()
	}
}
